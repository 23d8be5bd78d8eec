package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WakeInput is the converged blade-element state needed for wake
// diagnostics. Lift is the all-blade lift per element.
type WakeInput struct {
	Lift         []float64
	Velocity     []float64 // resultant velocity at each element
	InducedAxial []float64
	NumBlades    int
	Density      float64
	Viscosity    float64
	TipRadius    float64
	TipSpeed     float64
}

// Wake holds diagnostic quantities derived from the blade loading. None
// of them feed back into the solution.
type Wake struct {
	Circulation         []float64 `json:"circulation"`
	TotalCirculation    float64   `json:"total_circulation"`
	MeanInducedVelocity float64   `json:"mean_induced_velocity"`
	ContractionFactor   float64   `json:"contraction_factor"`
	VortexCoreRadius    float64   `json:"vortex_core_radius"`
}

// AnalyzeWake computes bound circulation by Kutta-Joukowski, the wake
// contraction factor and an empirical tip-vortex core radius. Every
// non-finite intermediate is reported as 0.
func AnalyzeWake(in WakeInput) Wake {
	w := Wake{Circulation: make([]float64, len(in.Lift))}

	blades := float64(in.NumBlades)
	if blades < 1 {
		blades = 1
	}
	for i := range in.Lift {
		if i >= len(in.Velocity) {
			break
		}
		w.Circulation[i] = finiteOrZero(in.Lift[i] / blades / (in.Density * in.Velocity[i]))
	}
	w.TotalCirculation = finiteOrZero(floats.Sum(w.Circulation))

	if len(in.InducedAxial) > 0 {
		w.MeanInducedVelocity = finiteOrZero(stat.Mean(in.InducedAxial, nil))
	}
	w.ContractionFactor = finiteOrZero(1 - w.MeanInducedVelocity/in.TipSpeed)

	reWake := in.Density * w.MeanInducedVelocity * in.TipRadius / in.Viscosity
	w.VortexCoreRadius = finiteOrZero(in.TipRadius / math.Sqrt(reWake))

	return w
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
