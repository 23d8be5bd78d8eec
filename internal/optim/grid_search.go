package optim

import (
	"math"
)

// Constraint rejects operating points before they compete on figure of
// merit.
type Constraint func(thrust, power float64, converged bool) bool

// MinThrust accepts points producing at least n newtons.
func MinThrust(n float64) Constraint {
	return func(thrust, _ float64, _ bool) bool { return thrust >= n }
}

// MaxPower accepts points needing at most w watts.
func MaxPower(w float64) Constraint {
	return func(_, power float64, _ bool) bool { return power <= w }
}

// ConvergedOnly rejects tentative results.
func ConvergedOnly() Constraint {
	return func(_, _ float64, converged bool) bool { return converged }
}

// Search scans the map in row-major order for the highest figure of merit
// among cells satisfying every constraint. The first cell wins ties. ok is
// false when no cell qualifies.
func (m *PerformanceMap) Search(constraints ...Constraint) (best OperatingPoint, ok bool) {
	rows, cols := m.FigureOfMerit.Dims()
	bestFM := math.Inf(-1)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			thrust, power := m.Thrust.At(i, j), m.Power.At(i, j)
			if !satisfies(constraints, thrust, power, m.Converged[i][j]) {
				continue
			}
			if fm := m.FigureOfMerit.At(i, j); fm > bestFM {
				bestFM = fm
				best = OperatingPoint{
					Row:           i,
					Col:           j,
					RPM:           m.RPM[j],
					CollectiveDeg: m.Collective[i],
					Result:        m.Results[i][j],
				}
				ok = true
			}
		}
	}
	return best, ok
}

func satisfies(constraints []Constraint, thrust, power float64, converged bool) bool {
	for _, c := range constraints {
		if !c(thrust, power, converged) {
			return false
		}
	}
	return true
}
