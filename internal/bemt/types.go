package bemt

import (
	"github.com/san-kum/rotorsim/internal/analysis"
)

// State tracks the fixed-point iteration of one Compute call.
type State struct {
	Iterations int
	Error      float64 // last max |Δv_axial|, m/s
	Relaxation float64
	Converged  bool
}

// Element is the final state of one blade element. Forces are summed over
// all blades.
type Element struct {
	R               float64 `json:"r"`
	Chord           float64 `json:"chord"`
	Twist           float64 `json:"twist"`
	InducedAxial    float64 `json:"induced_axial"`
	InducedSwirl    float64 `json:"induced_swirl"`
	Velocity        float64 `json:"velocity"`
	Inflow          float64 `json:"inflow"`
	AngleOfAttack   float64 `json:"angle_of_attack"`
	Reynolds        float64 `json:"reynolds"`
	LiftCoefficient float64 `json:"cl"`
	DragCoefficient float64 `json:"cd"`
	Lift            float64 `json:"lift"`
	Drag            float64 `json:"drag"`
	Thrust          float64 `json:"thrust"`
	Torque          float64 `json:"torque"`
}

// Result is the hover performance at one operating point. Values are
// reported as computed, never clipped; Converged tells callers whether to
// treat them as authoritative.
type Result struct {
	RPM           float64 `json:"rpm"`
	CollectiveDeg float64 `json:"collective_deg"`

	ThrustN           float64 `json:"thrust_n"`
	TorqueNm          float64 `json:"torque_nm"`
	PowerW            float64 `json:"power_w"`
	ThrustCoefficient float64 `json:"thrust_coefficient"`
	PowerCoefficient  float64 `json:"power_coefficient"`
	TorqueCoefficient float64 `json:"torque_coefficient"`
	FigureOfMerit     float64 `json:"figure_of_merit"`
	TipSpeedMS        float64 `json:"tip_speed_ms"`
	TipMach           float64 `json:"tip_mach"`

	Converged        bool    `json:"converged"`
	Iterations       int     `json:"iterations"`
	ConvergenceError float64 `json:"convergence_error"`

	Wake     analysis.Wake `json:"wake"`
	Elements []Element     `json:"elements,omitempty"`
}
