package bench

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RenderLatencyChart draws a grouped bar chart of LatencyNs per
// Operation, one bar group per distinct Engine/Config pair, and saves it
// as a PNG at path. This is the "data ready for analysis" step the
// CSV-only report left to an external tool.
func RenderLatencyChart(results []Result, path string) error {
	byOp := map[string][]Result{}
	var ops []string
	seenOp := map[string]bool{}
	for _, r := range results {
		if !seenOp[r.Operation] {
			seenOp[r.Operation] = true
			ops = append(ops, r.Operation)
		}
		byOp[r.Operation] = append(byOp[r.Operation], r)
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("bench: new plot: %w", err)
	}
	p.Title.Text = "Latency by operation"
	p.Y.Label.Text = "ns/op"
	p.X.Label.Text = "operation"

	labels := make([]string, len(ops))
	copy(labels, ops)
	p.X.Tick.Marker = plot.NominalX(labels...)

	seriesNames := map[string]bool{}
	var order []string
	for _, r := range results {
		key := fmt.Sprintf("%s/%s", r.Engine, r.Config)
		if !seriesNames[key] {
			seriesNames[key] = true
			order = append(order, key)
		}
	}

	barWidth := vg.Points(20)
	for si, seriesKey := range order {
		values := make(plotter.Values, len(ops))
		for oi, op := range ops {
			for _, r := range byOp[op] {
				if fmt.Sprintf("%s/%s", r.Engine, r.Config) == seriesKey {
					values[oi] = float64(r.LatencyNs)
				}
			}
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("bench: plot series %s: %w", seriesKey, err)
		}
		bars.Offset = vg.Points(float64(si) * 22)
		bars.Color = plotutil.Color(si)
		p.Add(bars)
		p.Legend.Add(seriesKey, bars)
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
