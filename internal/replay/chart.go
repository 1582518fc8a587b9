package replay

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes an interactive page with pose confidence and control
// signals over time.
func RenderHTML(w io.Writer, res *Result, title string) error {
	xs := make([]int64, len(res.Samples))
	left := make([]opts.LineData, len(res.Samples))
	right := make([]opts.LineData, len(res.Samples))
	steering := make([]opts.LineData, len(res.Samples))
	depth := make([]opts.LineData, len(res.Samples))
	zoom := make([]opts.LineData, len(res.Samples))

	for i, s := range res.Samples {
		xs[i] = s.TimestampMs
		left[i] = opts.LineData{Value: s.LeftConfidence, Name: string(s.LeftPose)}
		right[i] = opts.LineData{Value: s.RightConfidence, Name: string(s.RightPose)}
		steering[i] = opts.LineData{Value: s.SteeringPercent}
		depth[i] = opts.LineData{Value: s.DepthOffsetCm}
		zoom[i] = opts.LineData{Value: s.Zoom}
	}

	poses := charts.NewLine()
	poses.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Pose confidence",
			Subtitle: fmt.Sprintf("frames=%d events=%d", res.Summary.Frames, len(res.Events)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "ms", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	poses.SetXAxis(xs).
		AddSeries("left", left).
		AddSeries("right", right)

	controls := charts.NewLine()
	controls.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Controls"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "ms", NameLocation: "middle", NameGap: 25}),
	)
	controls.SetXAxis(xs).
		AddSeries("steering %", steering).
		AddSeries("depth offset cm", depth).
		AddSeries("zoom", zoom)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(poses, controls)
	return page.Render(w)
}
