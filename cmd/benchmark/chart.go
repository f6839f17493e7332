package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeLookupChart renders point-lookup latency per structure as a bar
// chart. Expect the flat index bar to dwarf the tree structures once the
// page chain gets long.
func writeLookupChart(path string, results []result) error {
	var names []string
	var values plotter.Values
	for _, r := range results {
		if r.operation != "lookup" {
			continue
		}
		names = append(names, r.structure)
		values = append(values, float64(r.latencyNs))
	}
	if len(values) == 0 {
		return fmt.Errorf("no lookup results to chart")
	}

	p := plot.New()
	p.Title.Text = "Point lookup latency"
	p.Y.Label.Text = "ns/op"

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
