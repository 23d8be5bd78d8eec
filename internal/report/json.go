package report

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rotorsim/internal/optim"
)

type mapJSON struct {
	RPM           []float64   `json:"rpm"`
	Collective    []float64   `json:"collective_deg"`
	Thrust        [][]float64 `json:"thrust_n"`
	Power         [][]float64 `json:"power_w"`
	Torque        [][]float64 `json:"torque_nm"`
	FigureOfMerit [][]float64 `json:"figure_of_merit"`
	Converged     [][]bool    `json:"converged"`
	Best          pointJSON   `json:"best"`
}

type pointJSON struct {
	RPM           float64 `json:"rpm"`
	CollectiveDeg float64 `json:"collective_deg"`
	Row           int     `json:"row"`
	Col           int     `json:"col"`
}

// MapJSON writes pm with its matrices expanded to nested rows.
func MapJSON(w io.Writer, pm *optim.PerformanceMap) error {
	return JSON(w, mapJSON{
		RPM:           pm.RPM,
		Collective:    pm.Collective,
		Thrust:        rows(pm.Thrust),
		Power:         rows(pm.Power),
		Torque:        rows(pm.Torque),
		FigureOfMerit: rows(pm.FigureOfMerit),
		Converged:     pm.Converged,
		Best: pointJSON{
			RPM:           pm.Best.RPM,
			CollectiveDeg: pm.Best.CollectiveDeg,
			Row:           pm.Best.Row,
			Col:           pm.Best.Col,
		},
	})
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
