package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rotorsim/internal/aero"
	"github.com/san-kum/rotorsim/internal/bemt"
	"github.com/san-kum/rotorsim/internal/optim"
	"github.com/san-kum/rotorsim/internal/rotor"
)

const (
	DefaultRadius      = 2.0
	DefaultInnerRadius = 1.6
	DefaultPitch       = 3.5
	DefaultBlades      = 2
	DefaultChord       = 0.4
	DefaultDesignRPM   = 100.0
)

// Config is the on-disk description of a rotor and how to solve it.
// Angles are in degrees here and converted to radians on the way out.
type Config struct {
	Rotor   RotorConfig   `yaml:"rotor"`
	Air     AirConfig     `yaml:"air"`
	Airfoil AirfoilConfig `yaml:"airfoil"`
	Solver  SolverConfig  `yaml:"solver"`
	Map     MapConfig     `yaml:"map"`
}

type RotorConfig struct {
	Radius      float64   `yaml:"radius"`
	InnerRadius float64   `yaml:"inner_radius"`
	Pitch       float64   `yaml:"pitch"`
	Blades      int       `yaml:"blades"`
	Chord       []float64 `yaml:"chord"`
	TwistDeg    []float64 `yaml:"twist_deg,omitempty"`
	DesignRPM   float64   `yaml:"design_rpm"`
}

type AirConfig struct {
	Density      float64 `yaml:"density"`
	Viscosity    float64 `yaml:"viscosity"`
	SpeedOfSound float64 `yaml:"speed_of_sound"`
}

type AirfoilConfig struct {
	LiftSlope          float64 `yaml:"lift_slope"`
	StallAngleDeg      float64 `yaml:"stall_angle_deg"`
	Cd0                float64 `yaml:"cd0"`
	Cd2                float64 `yaml:"cd2"`
	PostStallLiftDecay float64 `yaml:"post_stall_lift_decay"`
	PostStallDrag      float64 `yaml:"post_stall_drag"`
	LowReynolds        float64 `yaml:"low_reynolds"`
}

type SolverConfig struct {
	Stations      int     `yaml:"stations"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Relaxation    float64 `yaml:"relaxation"`
	LoadingFactor float64 `yaml:"loading_factor"`
}

type MapConfig struct {
	RPM        optim.Range `yaml:"rpm"`
	Collective optim.Range `yaml:"collective"`
	Workers    int         `yaml:"workers"`
}

func DefaultConfig() *Config {
	af := aero.DefaultAirfoil()
	return &Config{
		Rotor: RotorConfig{
			Radius:      DefaultRadius,
			InnerRadius: DefaultInnerRadius,
			Pitch:       DefaultPitch,
			Blades:      DefaultBlades,
			Chord:       []float64{DefaultChord},
			DesignRPM:   DefaultDesignRPM,
		},
		Air: AirConfig{
			Density:      bemt.DefaultAirDensity,
			Viscosity:    bemt.DefaultViscosity,
			SpeedOfSound: bemt.DefaultSpeedOfSound,
		},
		Airfoil: AirfoilConfig{
			LiftSlope:          af.LiftSlope,
			StallAngleDeg:      degrees(af.StallAngle),
			Cd0:                af.Cd0,
			Cd2:                af.Cd2,
			PostStallLiftDecay: af.PostStallLiftDecay,
			PostStallDrag:      af.PostStallDrag,
			LowReynolds:        af.LowReynolds,
		},
		Solver: SolverConfig{
			Stations:      rotor.DefaultStations,
			MaxIterations: bemt.DefaultMaxIterations,
			Tolerance:     bemt.DefaultTolerance,
			Relaxation:    bemt.DefaultRelaxation,
			LoadingFactor: bemt.DefaultLoadingFactor,
		},
		Map: MapConfig{
			RPM:        optim.DefaultRPMRange,
			Collective: optim.DefaultCollectiveRange,
		},
	}
}

// Load reads path over DefaultConfig, so a file only needs the fields it
// changes.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads path over a copy of base. base itself is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Geometry validates the rotor section.
func (c *Config) Geometry() (*rotor.Geometry, error) {
	return rotor.New(rotor.Params{
		RadiusM:      c.Rotor.Radius,
		InnerRadiusM: c.Rotor.InnerRadius,
		PitchM:       c.Rotor.Pitch,
		NumBlades:    c.Rotor.Blades,
		Chord:        c.Rotor.Chord,
		TwistDeg:     c.Rotor.TwistDeg,
		DesignRPM:    c.Rotor.DesignRPM,
	})
}

// AirfoilModel converts the airfoil section to radians.
func (c *Config) AirfoilModel() aero.Airfoil {
	return aero.Airfoil{
		LiftSlope:          c.Airfoil.LiftSlope,
		StallAngle:         radians(c.Airfoil.StallAngleDeg),
		Cd0:                c.Airfoil.Cd0,
		Cd2:                c.Airfoil.Cd2,
		PostStallLiftDecay: c.Airfoil.PostStallLiftDecay,
		PostStallDrag:      c.Airfoil.PostStallDrag,
		LowReynolds:        c.Airfoil.LowReynolds,
	}
}

// SolverOptions leaves Logger unset; callers attach their own.
func (c *Config) SolverOptions() bemt.Options {
	return bemt.Options{
		Stations:      c.Solver.Stations,
		MaxIterations: c.Solver.MaxIterations,
		Tolerance:     c.Solver.Tolerance,
		Relaxation:    c.Solver.Relaxation,
		LoadingFactor: c.Solver.LoadingFactor,
		AirDensity:    c.Air.Density,
		Viscosity:     c.Air.Viscosity,
		SpeedOfSound:  c.Air.SpeedOfSound,
		Airfoil:       c.AirfoilModel(),
	}
}

func (c *Config) Ranges() (rpm, collective optim.Range) {
	return c.Map.RPM, c.Map.Collective
}

func (c *Config) clone() *Config {
	out := *c
	out.Rotor.Chord = append([]float64(nil), c.Rotor.Chord...)
	if c.Rotor.TwistDeg != nil {
		out.Rotor.TwistDeg = append([]float64(nil), c.Rotor.TwistDeg...)
	}
	return &out
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func radians(deg float64) float64 { return deg * math.Pi / 180 }
