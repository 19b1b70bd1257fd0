// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// percentiles drawn per target, left to right.
var percentiles = []string{"p50", "p99", "p99.9"}

// Chart builds a grouped bar chart of each target's best-round latency
// percentiles, in nanoseconds.
func (s *Session) Chart() (*plot.Plot, error) {
	rows := s.Best()
	if len(rows) == 0 {
		return nil, fmt.Errorf("report: chart: no results")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Handoff latency, %d slots, %d items", s.Settings.Capacity, s.Settings.Items)
	p.Y.Label.Text = "Latency (ns)"
	p.Legend.Top = true

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.TextStyle.Color = white

	p.Add(plotter.NewGrid())

	width := vg.Points(18)
	for i, name := range percentiles {
		values := make(plotter.Values, len(rows))
		for j, r := range rows {
			switch i {
			case 0:
				values[j] = float64(r.P50)
			case 1:
				values[j] = float64(r.P99)
			default:
				values[j] = float64(r.P999)
			}
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("report: chart %s: %w", name, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(i-len(percentiles)/2) * width
		p.Add(bars)
		p.Legend.Add(name, bars)
	}

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Target
	}
	p.NominalX(names...)
	return p, nil
}

// SaveChart renders Chart to path; the extension picks the format.
func (s *Session) SaveChart(path string) error {
	p, err := s.Chart()
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save chart: %w", err)
	}
	return nil
}
