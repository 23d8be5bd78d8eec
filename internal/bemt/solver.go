package bemt

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rotorsim/internal/aero"
	"github.com/san-kum/rotorsim/internal/analysis"
	"github.com/san-kum/rotorsim/internal/rotor"
	"github.com/sirupsen/logrus"
)

// Solver evaluates one rotor geometry at arbitrary operating points.
type Solver struct {
	geom     *rotor.Geometry
	stations []rotor.Station
	opts     Options
	log      logrus.FieldLogger
}

// New discretizes geom and prepares a solver. A station count below
// rotor.MinStations is accepted with a warning; a non-positive one falls
// back to rotor.DefaultStations.
func New(geom *rotor.Geometry, opts Options) (*Solver, error) {
	if geom == nil {
		return nil, fmt.Errorf("%w: nil geometry", rotor.ErrInvalidGeometry)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Airfoil == nil {
		opts.Airfoil = aero.DefaultAirfoil()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	switch {
	case opts.Stations < 1:
		opts.Logger.WithField("stations", opts.Stations).
			Warnf("non-positive station count, using %d", rotor.DefaultStations)
		opts.Stations = rotor.DefaultStations
	case opts.Stations < rotor.MinStations:
		opts.Logger.WithField("stations", opts.Stations).
			Warn("coarse blade discretization, results will be crude")
	}

	return &Solver{
		geom:     geom,
		stations: geom.Discretize(opts.Stations),
		opts:     opts,
		log:      opts.Logger,
	}, nil
}

func (s *Solver) Geometry() *rotor.Geometry { return s.geom }
func (s *Solver) Options() Options          { return s.opts }

// Compute solves for the induced velocity field at rpm and collective
// pitch (degrees) and integrates the rotor loads.
//
// Exhausting MaxIterations, or ctx ending, is not an error: the best
// available iterate is returned with Converged false. Only an invalid
// operating point is reported as an error.
func (s *Solver) Compute(ctx context.Context, rpm, collectiveDeg float64) (*Result, error) {
	if !finite(rpm) || rpm <= 0 {
		return nil, fmt.Errorf("%w: rpm must be positive, got %g", ErrInvalidOperatingPoint, rpm)
	}
	if !finite(collectiveDeg) {
		return nil, fmt.Errorf("%w: collective pitch must be finite, got %g", ErrInvalidOperatingPoint, collectiveDeg)
	}

	omega := rpm * 2 * math.Pi / 60
	collective := collectiveDeg * math.Pi / 180
	rho, mu := s.opts.AirDensity, s.opts.Viscosity
	blades := s.geom.NumBlades()

	f := newField(s.stations)
	st := State{Relaxation: s.opts.Relaxation}
	f.seed(math.Sqrt(s.opts.LoadingFactor) * omega * s.geom.Radius())

	log := s.log.WithFields(logrus.Fields{
		"rpm":            rpm,
		"collective_deg": collectiveDeg,
	})

loop:
	for st.Iterations < s.opts.MaxIterations {
		select {
		case <-ctx.Done():
			log.WithError(ctx.Err()).Warn("solve interrupted")
			break loop
		default:
		}

		f.updateFlow(omega, collective, rho, mu)
		f.computeForces(s.opts.Airfoil, rho, blades)
		st.Error = f.updateMomentum(rho, st.Relaxation)
		st.Iterations++

		if st.Error < s.opts.Tolerance {
			st.Converged = true
			break
		}
	}

	// forces consistent with the final induced velocities
	f.updateFlow(omega, collective, rho, mu)
	f.computeForces(s.opts.Airfoil, rho, blades)

	res := s.result(f, st, omega)
	res.RPM = rpm
	res.CollectiveDeg = collectiveDeg

	entry := log.WithFields(logrus.Fields{
		"iterations": st.Iterations,
		"error":      st.Error,
		"thrust_n":   res.ThrustN,
		"power_w":    res.PowerW,
	})
	if st.Converged {
		entry.Debug("solve converged")
	} else {
		entry.Warn("solve did not converge, result is tentative")
	}
	return res, nil
}

func (s *Solver) result(f *field, st State, omega float64) *Result {
	radius := s.geom.Radius()
	rho := s.opts.AirDensity
	tipSpeed := omega * radius

	t := integrate(f, omega, radius, rho)

	res := &Result{
		ThrustN:           t.thrust,
		TorqueNm:          t.torque,
		PowerW:            t.power,
		ThrustCoefficient: t.ct,
		PowerCoefficient:  t.cp,
		TorqueCoefficient: t.cq,
		FigureOfMerit:     t.fm,
		TipSpeedMS:        tipSpeed,
		TipMach:           tipSpeed / s.opts.SpeedOfSound,
		Converged:         st.Converged,
		Iterations:        st.Iterations,
		ConvergenceError:  st.Error,
		Elements:          make([]Element, len(f.stations)),
	}

	for i, stn := range f.stations {
		res.Elements[i] = Element{
			R:               stn.R,
			Chord:           stn.Chord,
			Twist:           stn.Twist,
			InducedAxial:    f.axial[i],
			InducedSwirl:    f.tangential[i],
			Velocity:        f.velocity[i],
			Inflow:          f.inflow[i],
			AngleOfAttack:   f.alpha[i],
			Reynolds:        f.reynolds[i],
			LiftCoefficient: f.cl[i],
			DragCoefficient: f.cd[i],
			Lift:            f.lift[i],
			Drag:            f.drag[i],
			Thrust:          t.elementThrust[i],
			Torque:          t.elementTorque[i],
		}
	}

	res.Wake = analysis.AnalyzeWake(analysis.WakeInput{
		Lift:         f.lift,
		Velocity:     f.velocity,
		InducedAxial: f.axial,
		NumBlades:    s.geom.NumBlades(),
		Density:      rho,
		Viscosity:    s.opts.Viscosity,
		TipRadius:    radius,
		TipSpeed:     tipSpeed,
	})

	return res
}
