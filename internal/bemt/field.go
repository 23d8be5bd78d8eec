package bemt

import (
	"math"

	"github.com/san-kum/rotorsim/internal/aero"
	"github.com/san-kum/rotorsim/internal/rotor"
)

// field is the per-call working state: induced velocities plus everything
// derived from them, one slot per station. All arrays are allocated up
// front by newField and never resized.
type field struct {
	stations []rotor.Station // shared, read-only
	area     []float64       // annulus area 2πr·dr

	axial      []float64
	tangential []float64

	velocity []float64
	inflow   []float64
	alpha    []float64
	reynolds []float64
	cl       []float64
	cd       []float64
	lift     []float64 // all blades
	drag     []float64 // all blades
}

func newField(stations []rotor.Station) *field {
	n := len(stations)
	f := &field{
		stations:   stations,
		area:       make([]float64, n),
		axial:      make([]float64, n),
		tangential: make([]float64, n),
		velocity:   make([]float64, n),
		inflow:     make([]float64, n),
		alpha:      make([]float64, n),
		reynolds:   make([]float64, n),
		cl:         make([]float64, n),
		cd:         make([]float64, n),
		lift:       make([]float64, n),
		drag:       make([]float64, n),
	}
	for i, s := range stations {
		f.area[i] = 2 * math.Pi * s.R * s.Dr
	}
	return f
}

// seed sets a uniform axial induced velocity and zero swirl.
func (f *field) seed(v0 float64) {
	for i := range f.axial {
		f.axial[i] = v0
		f.tangential[i] = 0
	}
}

// updateFlow recomputes the velocity triangle at every element.
func (f *field) updateFlow(omega, collective, rho, mu float64) {
	for i, s := range f.stations {
		ut := omega*s.R + f.tangential[i]
		up := f.axial[i]

		f.velocity[i] = math.Hypot(ut, up)
		f.inflow[i] = math.Atan2(up, ut)
		f.alpha[i] = s.Twist + collective - f.inflow[i]
		f.reynolds[i] = rho * f.velocity[i] * s.Chord / mu
	}
}

// computeForces fills section coefficients and all-blade lift and drag.
func (f *field) computeForces(model aero.Model, rho float64, blades int) {
	b := float64(blades)
	for i, s := range f.stations {
		f.cl[i], f.cd[i] = model.Coefficients(f.alpha[i], f.reynolds[i])

		q := 0.5 * rho * f.velocity[i] * f.velocity[i]
		f.lift[i] = q * s.Chord * s.Dr * f.cl[i] * b
		f.drag[i] = q * s.Chord * s.Dr * f.cd[i] * b
	}
}

// updateMomentum relaxes the induced velocities toward the annulus
// momentum balance and returns the largest change in axial velocity.
//
// Elements are swept in order and each swirl update uses the axial value
// just written for the same element (Gauss-Seidel). A non-positive
// element thrust, a zero axial velocity, or any non-finite estimate holds
// the previous value.
func (f *field) updateMomentum(rho, beta float64) float64 {
	maxDelta := 0.0
	for i := range f.stations {
		sin, cos := math.Sincos(f.alpha[i])
		thrust := f.lift[i]*cos - f.drag[i]*sin

		if thrust > 0 {
			v := math.Sqrt(thrust / (2 * rho * f.area[i]))
			if finite(v) {
				next := (1-beta)*f.axial[i] + beta*v
				if d := math.Abs(next - f.axial[i]); d > maxDelta {
					maxDelta = d
				}
				f.axial[i] = next
			}
		}

		if f.axial[i] != 0 {
			// torque per unit radius over the angular momentum flux
			torque := f.lift[i]*sin + f.drag[i]*cos
			vt := torque / (2 * rho * f.area[i] * f.axial[i])
			if finite(vt) {
				f.tangential[i] = (1-beta)*f.tangential[i] + beta*vt
			}
		}
	}
	return maxDelta
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
