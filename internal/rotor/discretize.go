package rotor

import (
	"gonum.org/v1/gonum/interp"
)

// DefaultStations is the span resolution used when none is configured.
const DefaultStations = 20

// MinStations is the coarsest discretization considered meaningful.
const MinStations = 3

// Station is one radial blade element.
type Station struct {
	R     float64 // annulus midpoint
	Dr    float64 // annulus width
	Chord float64
	Twist float64 // radians
}

// Discretize splits the span into n equal annuli and returns their
// midpoints with interpolated chord and twist. n < 1 selects
// DefaultStations. Stations are strictly increasing in R and lie strictly
// between the inner radius and the tip.
func (g *Geometry) Discretize(n int) []Station {
	if n < 1 {
		n = DefaultStations
	}

	dr := (g.radius - g.innerRadius) / float64(n)
	chordAt := g.sampler(g.chord)
	var twistAt func(float64) float64
	if g.twist != nil {
		twistAt = g.sampler(g.twist)
	} else {
		twistAt = func(r float64) float64 { return HelicalTwist(g.pitch, r) }
	}

	stations := make([]Station, n)
	for i := range stations {
		r := g.innerRadius + (float64(i)+0.5)*dr
		stations[i] = Station{
			R:     r,
			Dr:    dr,
			Chord: chordAt(r),
			Twist: twistAt(r),
		}
	}
	return stations
}

// sampler returns a linear interpolant over samples spaced evenly from the
// inner radius to the tip. A single sample is a constant.
func (g *Geometry) sampler(samples []float64) func(float64) float64 {
	if len(samples) == 1 {
		v := samples[0]
		return func(float64) float64 { return v }
	}

	xs := make([]float64, len(samples))
	step := (g.radius - g.innerRadius) / float64(len(samples)-1)
	for i := range xs {
		xs[i] = g.innerRadius + float64(i)*step
	}
	xs[len(xs)-1] = g.radius

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, samples); err != nil {
		// xs is strictly increasing and matches samples in length.
		panic(err)
	}
	return pl.Predict
}
