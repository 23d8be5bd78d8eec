package bemt

import (
	"fmt"

	"github.com/san-kum/rotorsim/internal/aero"
	"github.com/san-kum/rotorsim/internal/rotor"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxIterations = 100
	// DefaultTolerance is on the axial induced velocity, m/s.
	DefaultTolerance = 1e-6
	// DefaultRelaxation blends the new momentum estimate into the old one.
	// Undamped iteration oscillates for lightly loaded rotors.
	DefaultRelaxation = 0.3
	// DefaultLoadingFactor seeds the axial induced velocity as
	// sqrt(factor)·ΩR. It only needs to start the iteration.
	DefaultLoadingFactor = 0.1

	// Sea-level standard air.
	DefaultAirDensity   = 1.225
	DefaultViscosity    = 1.81e-5
	DefaultSpeedOfSound = 343.0
)

// Options configures a Solver. Use DefaultOptions and override fields.
type Options struct {
	Stations      int
	MaxIterations int
	Tolerance     float64
	Relaxation    float64
	LoadingFactor float64

	AirDensity   float64 // kg/m³
	Viscosity    float64 // dynamic, Pa·s
	SpeedOfSound float64 // m/s

	Airfoil aero.Model
	Logger  logrus.FieldLogger
}

func DefaultOptions() Options {
	return Options{
		Stations:      rotor.DefaultStations,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Relaxation:    DefaultRelaxation,
		LoadingFactor: DefaultLoadingFactor,
		AirDensity:    DefaultAirDensity,
		Viscosity:     DefaultViscosity,
		SpeedOfSound:  DefaultSpeedOfSound,
		Airfoil:       aero.DefaultAirfoil(),
	}
}

func (o Options) validate() error {
	if o.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidOptions, o.MaxIterations)
	}
	if !(o.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidOptions, o.Tolerance)
	}
	if !(o.Relaxation > 0 && o.Relaxation <= 1) {
		return fmt.Errorf("%w: relaxation must be in (0, 1], got %g", ErrInvalidOptions, o.Relaxation)
	}
	if !(o.LoadingFactor >= 0) {
		return fmt.Errorf("%w: loading factor must be non-negative, got %g", ErrInvalidOptions, o.LoadingFactor)
	}
	if !(o.AirDensity > 0) || !(o.Viscosity > 0) || !(o.SpeedOfSound > 0) {
		return fmt.Errorf("%w: air properties must be positive", ErrInvalidOptions)
	}
	return nil
}
