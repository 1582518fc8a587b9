package replay

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
)

// Sample holds the plotted signals of one processed frame.
type Sample struct {
	TimestampMs     int64        `json:"timestampMs"`
	LeftPose        gesture.Pose `json:"leftPose"`
	RightPose       gesture.Pose `json:"rightPose"`
	LeftConfidence  float64      `json:"leftConfidence"`
	RightConfidence float64      `json:"rightConfidence"`
	SteeringActive  bool         `json:"steeringActive"`
	SteeringPercent float64      `json:"steeringPercent"`
	DepthOffsetCm   float64      `json:"depthOffsetCm"`
	Zoom            float64      `json:"zoom"`
	CursorX         float64      `json:"cursorX"`
	CursorY         float64      `json:"cursorY"`
	Events          int          `json:"events"`
}

// Stat is the mean and standard deviation of one signal.
type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// Summary aggregates a replay.
type Summary struct {
	Frames          int            `json:"frames"`
	StaleFrames     int            `json:"staleFrames"`
	EventCounts     map[string]int `json:"eventCounts"`
	RightConfidence Stat           `json:"rightConfidence"`
	LeftConfidence  Stat           `json:"leftConfidence"`
	Steering        Stat           `json:"steering"` // over frames with the wheel grabbed
}

// Result is the outcome of a replay.
type Result struct {
	Samples []Sample        `json:"samples"`
	Events  []gesture.Event `json:"events"`
	Summary Summary         `json:"summary"`
}

// Run processes frames in order with a new engine built from cfg.
func Run(cfg engine.Config, frames []landmark.Frame) (*Result, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	res := &Result{
		Samples: make([]Sample, 0, len(frames)),
		Events:  []gesture.Event{},
		Summary: Summary{EventCounts: make(map[string]int)},
	}

	for _, f := range frames {
		snap := eng.ProcessFrame(f)
		ctl := snap.Controls

		res.Samples = append(res.Samples, Sample{
			TimestampMs:     snap.TimestampMs,
			LeftPose:        snap.Left.Pose.Gesture,
			RightPose:       snap.Right.Pose.Gesture,
			LeftConfidence:  snap.Left.Pose.Confidence,
			RightConfidence: snap.Right.Pose.Confidence,
			SteeringActive:  ctl.Steering.Active,
			SteeringPercent: ctl.Steering.Percent,
			DepthOffsetCm:   ctl.Depth.OffsetCm,
			Zoom:            ctl.Depth.Zoom,
			CursorX:         ctl.Cursor.X,
			CursorY:         ctl.Cursor.Y,
			Events:          len(snap.Events),
		})
		res.Events = append(res.Events, snap.Events...)

		if snap.Stale {
			res.Summary.StaleFrames++
		}
		for _, ev := range snap.Events {
			res.Summary.EventCounts[ev.Kind]++
		}
	}

	res.Summary.Frames = len(res.Samples)
	res.Summary.RightConfidence = summarize(res.Samples, func(s Sample) (float64, bool) {
		return s.RightConfidence, s.RightPose != gesture.PoseNone
	})
	res.Summary.LeftConfidence = summarize(res.Samples, func(s Sample) (float64, bool) {
		return s.LeftConfidence, s.LeftPose != gesture.PoseNone
	})
	res.Summary.Steering = summarize(res.Samples, func(s Sample) (float64, bool) {
		return s.SteeringPercent, s.SteeringActive
	})

	return res, nil
}

// summarize computes Stat over the samples pick selects.
func summarize(samples []Sample, pick func(Sample) (float64, bool)) Stat {
	var xs []float64
	for _, s := range samples {
		if v, ok := pick(s); ok {
			xs = append(xs, v)
		}
	}
	switch len(xs) {
	case 0:
		return Stat{}
	case 1:
		return Stat{Mean: xs[0]}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return Stat{Mean: mean, StdDev: std}
}
