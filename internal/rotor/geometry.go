package rotor

import (
	"math"
)

// Params is the rotor description supplied by the geometry side of the
// toolchain. Lengths are in metres, angles in degrees.
type Params struct {
	RadiusM      float64
	InnerRadiusM float64
	PitchM       float64
	NumBlades    int
	// Chord holds one value for a constant chord, or samples spaced evenly
	// from the inner radius to the tip.
	Chord []float64
	// TwistDeg is sampled like Chord. Empty selects the helical twist
	// derived from PitchM.
	TwistDeg  []float64
	DesignRPM float64
}

// Geometry is a validated, read-only rotor. It is safe to share between
// goroutines.
type Geometry struct {
	radius      float64
	innerRadius float64
	pitch       float64
	numBlades   int
	chord       []float64
	twist       []float64 // radians, nil for helical
	designRPM   float64
}

// New validates s and returns an immutable Geometry.
func New(s Params) (*Geometry, error) {
	if !finite(s.RadiusM) || s.RadiusM <= 0 {
		return nil, &GeometryError{Field: "radius", Value: s.RadiusM, Reason: "must be positive"}
	}
	if !finite(s.InnerRadiusM) || s.InnerRadiusM <= 0 {
		return nil, &GeometryError{Field: "inner radius", Value: s.InnerRadiusM, Reason: "must be positive"}
	}
	if s.InnerRadiusM >= s.RadiusM {
		return nil, &GeometryError{Field: "inner radius", Value: s.InnerRadiusM, Reason: "must be smaller than radius"}
	}
	if !finite(s.PitchM) || s.PitchM < 0 {
		return nil, &GeometryError{Field: "pitch", Value: s.PitchM, Reason: "must be non-negative"}
	}
	if s.NumBlades < 1 {
		return nil, &GeometryError{Field: "blade count", Value: float64(s.NumBlades), Reason: "must be at least 1"}
	}
	if len(s.Chord) == 0 {
		return nil, &GeometryError{Field: "chord", Value: 0, Reason: "no chord given"}
	}
	for _, c := range s.Chord {
		if !finite(c) || c <= 0 {
			return nil, &GeometryError{Field: "chord", Value: c, Reason: "must be positive"}
		}
	}
	if !finite(s.DesignRPM) || s.DesignRPM < 0 {
		return nil, &GeometryError{Field: "design rpm", Value: s.DesignRPM, Reason: "must be non-negative"}
	}

	g := &Geometry{
		radius:      s.RadiusM,
		innerRadius: s.InnerRadiusM,
		pitch:       s.PitchM,
		numBlades:   s.NumBlades,
		chord:       append([]float64(nil), s.Chord...),
		designRPM:   s.DesignRPM,
	}

	if len(s.TwistDeg) > 0 {
		g.twist = make([]float64, len(s.TwistDeg))
		for i, deg := range s.TwistDeg {
			if !finite(deg) {
				return nil, &GeometryError{Field: "twist", Value: deg, Reason: "must be finite"}
			}
			g.twist[i] = deg * math.Pi / 180
		}
	}

	return g, nil
}

func (g *Geometry) Radius() float64      { return g.radius }
func (g *Geometry) InnerRadius() float64 { return g.innerRadius }
func (g *Geometry) Pitch() float64       { return g.pitch }
func (g *Geometry) NumBlades() int       { return g.numBlades }
func (g *Geometry) DesignRPM() float64   { return g.designRPM }

// DiskArea is the full swept area πR².
func (g *Geometry) DiskArea() float64 {
	return math.Pi * g.radius * g.radius
}

// Solidity is blade area over disk area, using the mean chord sample.
func (g *Geometry) Solidity() float64 {
	mean := 0.0
	for _, c := range g.chord {
		mean += c
	}
	mean /= float64(len(g.chord))
	return float64(g.numBlades) * mean * (g.radius - g.innerRadius) / g.DiskArea()
}

// HelicalTwist is the blade angle of a screw of the given pitch at radius r.
func HelicalTwist(pitch, r float64) float64 {
	return math.Atan(pitch / (2 * math.Pi * r))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
