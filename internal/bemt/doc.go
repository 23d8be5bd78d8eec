// Package bemt predicts hover performance of a rotor with Blade Element
// Momentum Theory.
//
// A [Solver] couples 2-D section forces from an [aero.Model] with an
// annulus-by-annulus actuator-disk momentum balance and iterates the
// induced velocities to a fixed point:
//
//   - flow update: resultant velocity, inflow angle, incidence, Reynolds
//   - force computation: lift and drag for every element
//   - momentum update: relaxed axial and swirl induced velocities
//   - convergence check on the axial induced velocity
//
// # Example
//
//	geom, _ := rotor.New(params)
//	s, _ := bemt.New(geom, bemt.DefaultOptions())
//	res, _ := s.Compute(ctx, 100, 5)
//	if !res.Converged {
//	    // tentative: best available iterate
//	}
//
// # Thread Safety
//
// A Solver holds no mutable state; every Compute call allocates its own
// working arrays, so one Solver may be used from many goroutines.
package bemt
