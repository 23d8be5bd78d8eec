// Package analysis derives wake diagnostics from a solved blade loading.
//
//   - [AnalyzeWake]: bound circulation per element and in total, wake
//     contraction, and an estimated tip-vortex core radius
//
// # Degenerate Inputs
//
// Diagnostics never carry NaN or Inf. An element with zero resultant
// velocity contributes no circulation, and a wake with no induced
// velocity reports a zero core radius:
//
//	w := analysis.AnalyzeWake(in)
//	if w.VortexCoreRadius == 0 {
//	    // no wake to speak of
//	}
package analysis
