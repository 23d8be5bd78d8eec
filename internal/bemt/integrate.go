package bemt

import (
	"math"
)

// totals are the integrated rotor loads and their coefficients.
type totals struct {
	thrust, torque, power float64
	ct, cp, cq            float64
	fm                    float64
	elementThrust         []float64
	elementTorque         []float64
}

// integrate resolves element lift and drag into the rotor plane with the
// inflow angle and sums them. Coefficients use the full disk area πR².
func integrate(f *field, omega, radius, rho float64) totals {
	t := totals{
		elementThrust: make([]float64, len(f.stations)),
		elementTorque: make([]float64, len(f.stations)),
	}

	for i, s := range f.stations {
		sin, cos := math.Sincos(f.inflow[i])
		dT := f.lift[i]*cos - f.drag[i]*sin
		dQ := (f.lift[i]*sin + f.drag[i]*cos) * s.R

		t.elementThrust[i] = dT
		t.elementTorque[i] = dQ
		t.thrust += dT
		t.torque += dQ
	}
	t.power = t.torque * omega

	area := math.Pi * radius * radius
	vTip := omega * radius
	if vTip > 0 {
		t.ct = t.thrust / (rho * area * vTip * vTip)
		t.cp = t.power / (rho * area * vTip * vTip * vTip)
		t.cq = t.torque / (rho * area * vTip * vTip * radius)
	}
	t.fm = figureOfMerit(t.thrust, t.power, rho, area)
	return t
}

// figureOfMerit is ideal momentum-theory power over actual power, capped
// at 1. It is 0 when thrust or power is not positive.
func figureOfMerit(thrust, power, rho, area float64) float64 {
	if !(thrust > 0) || !(power > 0) {
		return 0
	}
	ideal := thrust * math.Sqrt(thrust/(2*rho*area))
	fm := ideal / power
	if !finite(fm) {
		return 0
	}
	return math.Min(fm, 1)
}
