// Package aero provides section lift and drag coefficients for blade
// elements.
//
// The default [Airfoil] is a three-regime empirical model:
//
//   - linear: thin-airfoil lift at reduced effectiveness, parabolic drag
//   - post-stall: lift decaying toward zero, drag growing quadratically
//   - low Reynolds number: both coefficients degraded below a threshold
//
// All parameters are tunable model inputs rather than physical constants.
package aero

import (
	"math"
)

// Model maps an angle of attack (radians) and a Reynolds number to lift
// and drag coefficients. Implementations must be pure.
type Model interface {
	Coefficients(alpha, re float64) (cl, cd float64)
}

const (
	// DefaultLiftEffectiveness scales the ideal 2π lift slope.
	DefaultLiftEffectiveness = 0.7
	// DefaultStallAngle is 12 degrees, in radians.
	DefaultStallAngle         = 12 * math.Pi / 180
	DefaultCd0                = 0.015
	DefaultCd2                = 0.05
	DefaultPostStallLiftDecay = 0.3
	DefaultPostStallDrag      = 0.1
	DefaultLowReynolds        = 50000.0
)

// Airfoil is the empirical section model. Angles are in radians.
type Airfoil struct {
	// LiftSlope is dCl/dα in the linear regime, per radian.
	LiftSlope float64
	// StallAngle bounds the linear regime, |α| ≤ StallAngle.
	StallAngle float64
	// Cd0 and Cd2 give the linear-regime drag polar Cd0 + Cd2·α².
	Cd0 float64
	Cd2 float64
	// PostStallLiftDecay is the fraction of stall lift lost per stall
	// angle of excess incidence.
	PostStallLiftDecay float64
	// PostStallDrag is the drag added per squared stall angle of excess
	// incidence.
	PostStallDrag float64
	// LowReynolds is the Reynolds number below which both coefficients
	// are degraded.
	LowReynolds float64
}

func DefaultAirfoil() Airfoil {
	return Airfoil{
		LiftSlope:          2 * math.Pi * DefaultLiftEffectiveness,
		StallAngle:         DefaultStallAngle,
		Cd0:                DefaultCd0,
		Cd2:                DefaultCd2,
		PostStallLiftDecay: DefaultPostStallLiftDecay,
		PostStallDrag:      DefaultPostStallDrag,
		LowReynolds:        DefaultLowReynolds,
	}
}

// Coefficients returns (Cl, Cd). Non-finite inputs yield zero lift and
// the profile drag Cd0.
func (a Airfoil) Coefficients(alpha, re float64) (cl, cd float64) {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || math.IsNaN(re) {
		return 0, a.Cd0
	}

	abs := math.Abs(alpha)
	if abs <= a.StallAngle {
		cl = a.LiftSlope * alpha
		cd = a.Cd0 + a.Cd2*alpha*alpha
	} else {
		clStall := a.LiftSlope * a.StallAngle
		cdStall := a.Cd0 + a.Cd2*a.StallAngle*a.StallAngle
		excess := (abs - a.StallAngle) / a.StallAngle

		cl = clStall * math.Max(0, 1-a.PostStallLiftDecay*excess)
		if alpha < 0 {
			cl = -cl
		}
		cd = cdStall + a.PostStallDrag*excess*excess
	}

	if f, ok := a.lowReynoldsFactor(re); ok {
		cl *= f
		cd *= 2 - f
	}
	return cl, cd
}

func (a Airfoil) lowReynoldsFactor(re float64) (float64, bool) {
	if a.LowReynolds <= 0 || re >= a.LowReynolds {
		return 1, false
	}
	if re < 0 {
		re = 0
	}
	return 0.5 + 0.5*re/a.LowReynolds, true
}

// Regime classifies an operating condition.
type Regime int

const (
	Linear Regime = iota
	Stalled
)

func (r Regime) String() string {
	switch r {
	case Linear:
		return "linear"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Regime reports which branch of the model alpha falls in and whether
// the low-Reynolds correction applies at re.
func (a Airfoil) Regime(alpha, re float64) (Regime, bool) {
	_, low := a.lowReynoldsFactor(re)
	if math.Abs(alpha) > a.StallAngle {
		return Stalled, low
	}
	return Linear, low
}
