package config

import (
	"sort"

	"github.com/san-kum/rotorsim/internal/optim"
)

var Presets = map[string]*Config{
	// reference is the large, slow, lightly loaded rotor the defaults
	// describe.
	"reference": DefaultConfig(),
	"compact": withRotor(RotorConfig{
		Radius: 0.5, InnerRadius: 0.1, Pitch: 0.35, Blades: 3,
		Chord: []float64{0.06, 0.04}, DesignRPM: 1500,
	}, optim.Range{Min: 800, Max: 2400, Steps: 9}),
	// quad is a 10x4.5 multirotor propeller.
	"quad": withRotor(RotorConfig{
		Radius: 0.127, InnerRadius: 0.015, Pitch: 0.114, Blades: 2,
		Chord: []float64{0.022, 0.018, 0.012}, DesignRPM: 6000,
	}, optim.Range{Min: 3000, Max: 9000, Steps: 13}),
}

func withRotor(r RotorConfig, rpm optim.Range) *Config {
	cfg := DefaultConfig()
	cfg.Rotor = r
	cfg.Map.RPM = rpm
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
