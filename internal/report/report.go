// Package report renders solver results for terminals.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rotorsim/internal/bemt"
	"github.com/san-kum/rotorsim/internal/optim"
)

// Tentative marks results that did not converge.
const Tentative = "TENTATIVE"

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)

// Status labels a result as converged or tentative.
func Status(converged bool) string {
	if converged {
		return green.Render("converged")
	}
	return yellow.Render(Tentative)
}

// Performance writes the rotor totals and, if elements is set, the
// per-station breakdown.
func Performance(w io.Writer, res *bemt.Result, elements bool) error {
	fmt.Fprintf(w, "%s  %.1f rpm  %.2f° collective  %s (%d iterations, error %.2e)\n\n",
		cyan.Render("hover"), res.RPM, res.CollectiveDeg,
		Status(res.Converged), res.Iterations, res.ConvergenceError)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value string
	}{
		{"thrust", fmt.Sprintf("%.3f N", res.ThrustN)},
		{"torque", fmt.Sprintf("%.3f N·m", res.TorqueNm)},
		{"power", fmt.Sprintf("%.2f W", res.PowerW)},
		{"C_T", fmt.Sprintf("%.5f", res.ThrustCoefficient)},
		{"C_P", fmt.Sprintf("%.6f", res.PowerCoefficient)},
		{"C_Q", fmt.Sprintf("%.6f", res.TorqueCoefficient)},
		{"figure of merit", fmt.Sprintf("%.3f", res.FigureOfMerit)},
		{"tip speed", fmt.Sprintf("%.2f m/s (M %.3f)", res.TipSpeedMS, res.TipMach)},
		{"circulation", fmt.Sprintf("%.4f m²/s", res.Wake.TotalCirculation)},
		{"wake contraction", fmt.Sprintf("%.3f", res.Wake.ContractionFactor)},
		{"vortex core", fmt.Sprintf("%.3e m", res.Wake.VortexCoreRadius)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", dim.Render(r.name), r.value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !elements || len(res.Elements) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "R\tCHORD\tV_A\tV_T\tALPHA\tRE\tCL\tCD\tTHRUST\tTORQUE\t")
	for _, e := range res.Elements {
		fmt.Fprintf(tw, "%.3f\t%.3f\t%.3f\t%.3f\t%.2f\t%.0f\t%.3f\t%.4f\t%.3f\t%.3f\t\n",
			e.R, e.Chord, e.InducedAxial, e.InducedSwirl,
			e.AngleOfAttack*180/math.Pi, e.Reynolds,
			e.LiftCoefficient, e.DragCoefficient, e.Thrust, e.Torque)
	}
	return tw.Flush()
}

// Map writes the figure-of-merit grid with collective pitch down the side
// and rpm across. Tentative cells carry a trailing '*'.
func Map(w io.Writer, pm *optim.PerformanceMap) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "COLL\\RPM\t")
	for _, rpm := range pm.RPM {
		fmt.Fprintf(tw, "%.0f\t", rpm)
	}
	fmt.Fprintln(tw)

	for i, coll := range pm.Collective {
		fmt.Fprintf(tw, "%.2f\t", coll)
		for j := range pm.RPM {
			mark := ""
			if !pm.Converged[i][j] {
				mark = "*"
			}
			fmt.Fprintf(tw, "%.3f%s\t", pm.FigureOfMerit.At(i, j), mark)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if n := pm.Unconverged(); n > 0 {
		fmt.Fprintf(w, "\n%s %d of %d cells did not converge (*)\n",
			yellow.Render(Tentative), n, len(pm.RPM)*len(pm.Collective))
	}
	return nil
}

// Point writes one line describing an operating point.
func Point(w io.Writer, label string, p optim.OperatingPoint) {
	res := p.Result
	fmt.Fprintf(w, "%s  %.1f rpm  %.2f°  thrust %.2f N  power %.2f W  FM %.3f  %s\n",
		cyan.Render(label), p.RPM, p.CollectiveDeg,
		res.ThrustN, res.PowerW, res.FigureOfMerit, Status(res.Converged))
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
