package replay

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	steeringColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	depthColor    = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	eventColor    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// SavePNG writes a static plot of steering percent and depth offset, with
// a marker at every frame that emitted an event. The format follows the
// file extension of path.
func SavePNG(res *Result, path, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Percent / cm"

	steering := make(plotter.XYs, 0, len(res.Samples))
	depth := make(plotter.XYs, 0, len(res.Samples))
	var events plotter.XYs
	for _, s := range res.Samples {
		x := float64(s.TimestampMs)
		steering = append(steering, plotter.XY{X: x, Y: s.SteeringPercent})
		depth = append(depth, plotter.XY{X: x, Y: s.DepthOffsetCm})
		if s.Events > 0 {
			events = append(events, plotter.XY{X: x, Y: 0})
		}
	}

	if len(steering) > 0 {
		line, err := plotter.NewLine(steering)
		if err != nil {
			return fmt.Errorf("steering line: %w", err)
		}
		line.Color = steeringColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("steering %", line)

		line, err = plotter.NewLine(depth)
		if err != nil {
			return fmt.Errorf("depth line: %w", err)
		}
		line.Color = depthColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("depth offset cm", line)
	}

	if len(events) > 0 {
		sc, err := plotter.NewScatter(events)
		if err != nil {
			return fmt.Errorf("event markers: %w", err)
		}
		sc.Color = eventColor
		sc.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add("event", sc)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
