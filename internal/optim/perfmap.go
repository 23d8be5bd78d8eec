package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rotorsim/internal/bemt"
)

// ErrInvalidRange indicates a sweep axis that cannot be sampled.
var ErrInvalidRange = errors.New("optim: invalid sweep range")

// Evaluator computes the rotor performance at one operating point.
// *bemt.Solver satisfies it.
type Evaluator interface {
	Compute(ctx context.Context, rpm, collectiveDeg float64) (*bemt.Result, error)
}

// Range is an evenly sampled closed interval. Steps == 1 samples Min only.
type Range struct {
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Steps int     `yaml:"steps" json:"steps"`
}

var (
	DefaultRPMRange        = Range{Min: 50, Max: 150, Steps: 11}
	DefaultCollectiveRange = Range{Min: -10, Max: 10, Steps: 9}
)

// Values returns the sample points of r.
func (r Range) Values() ([]float64, error) {
	if r.Steps < 1 {
		return nil, fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidRange, r.Steps)
	}
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return nil, fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	}
	if r.Max < r.Min {
		return nil, fmt.Errorf("%w: max %g below min %g", ErrInvalidRange, r.Max, r.Min)
	}
	if r.Steps == 1 {
		return []float64{r.Min}, nil
	}
	return floats.Span(make([]float64, r.Steps), r.Min, r.Max), nil
}

// OperatingPoint is one cell of a performance map.
type OperatingPoint struct {
	Row, Col      int
	RPM           float64
	CollectiveDeg float64
	Result        *bemt.Result
}

// PerformanceMap holds a (collective × rpm) sweep. Matrix rows follow the
// Collective axis, columns the RPM axis.
type PerformanceMap struct {
	RPM        []float64
	Collective []float64

	Thrust        *mat.Dense
	Power         *mat.Dense
	Torque        *mat.Dense
	FigureOfMerit *mat.Dense
	Converged     [][]bool

	Results [][]*bemt.Result
	Best    OperatingPoint
}

// Unconverged counts cells that exhausted their iteration budget.
func (m *PerformanceMap) Unconverged() int {
	n := 0
	for _, row := range m.Converged {
		for _, ok := range row {
			if !ok {
				n++
			}
		}
	}
	return n
}

// Mapper sweeps an Evaluator over a grid of operating points.
type Mapper struct {
	eval    Evaluator
	workers int
}

// NewMapper returns a Mapper using up to workers concurrent evaluations.
// workers < 1 uses GOMAXPROCS.
func NewMapper(eval Evaluator, workers int) *Mapper {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Mapper{eval: eval, workers: workers}
}

// Point evaluates a single operating point.
func (m *Mapper) Point(ctx context.Context, rpm, collectiveDeg float64) (*bemt.Result, error) {
	return m.eval.Compute(ctx, rpm, collectiveDeg)
}

// Map evaluates every (collective, rpm) cell. Cells are independent and
// run concurrently; each writes only its own slot. The best operating
// point maximises figure of merit, ties going to the first cell in
// row-major order.
func (m *Mapper) Map(ctx context.Context, rpmRange, collectiveRange Range) (*PerformanceMap, error) {
	rpms, err := rpmRange.Values()
	if err != nil {
		return nil, fmt.Errorf("rpm axis: %w", err)
	}
	collectives, err := collectiveRange.Values()
	if err != nil {
		return nil, fmt.Errorf("collective axis: %w", err)
	}

	rows, cols := len(collectives), len(rpms)
	pm := &PerformanceMap{
		RPM:           rpms,
		Collective:    collectives,
		Thrust:        mat.NewDense(rows, cols, nil),
		Power:         mat.NewDense(rows, cols, nil),
		Torque:        mat.NewDense(rows, cols, nil),
		FigureOfMerit: mat.NewDense(rows, cols, nil),
		Converged:     make([][]bool, rows),
		Results:       make([][]*bemt.Result, rows),
	}
	for i := range pm.Results {
		pm.Results[i] = make([]*bemt.Result, cols)
		pm.Converged[i] = make([]bool, cols)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.Go(func() error {
				res, err := m.eval.Compute(gctx, rpms[j], collectives[i])
				if err != nil {
					return fmt.Errorf("cell rpm=%g collective=%g: %w", rpms[j], collectives[i], err)
				}
				pm.Results[i][j] = res
				pm.Converged[i][j] = res.Converged
				pm.Thrust.Set(i, j, res.ThrustN)
				pm.Power.Set(i, j, res.PowerW)
				pm.Torque.Set(i, j, res.TorqueNm)
				pm.FigureOfMerit.Set(i, j, res.FigureOfMerit)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pm.Best = pm.best()
	return pm, nil
}

func (m *PerformanceMap) best() OperatingPoint {
	// floats.MaxIdx returns the first maximum, which in the row-major
	// backing slice is the first in scan order.
	raw := m.FigureOfMerit.RawMatrix()
	idx := floats.MaxIdx(raw.Data)
	i, j := idx/raw.Stride, idx%raw.Stride
	return OperatingPoint{
		Row:           i,
		Col:           j,
		RPM:           m.RPM[j],
		CollectiveDeg: m.Collective[i],
		Result:        m.Results[i][j],
	}
}
