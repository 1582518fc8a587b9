package control

import "github.com/ayusman/mudra/internal/landmark"

// Zoom range reported by Depth.
const (
	MinZoom = 0.3
	MaxZoom = 2.0
)

// DepthConfig maps average hand depth onto a distance offset and zoom.
type DepthConfig struct {
	RestingDepth    float64
	Sensitivity     float64 // cm per unit of depth
	MaxOffsetCm     float64
	AccelerateBelow float64
	BrakeAbove      float64
}

// DefaultDepthConfig returns resting depth 0.3 and 200 cm per unit.
func DefaultDepthConfig() DepthConfig {
	return DepthConfig{
		RestingDepth:    0.3,
		Sensitivity:     200,
		MaxOffsetCm:     100,
		AccelerateBelow: 0.2,
		BrakeAbove:      0.4,
	}
}

// Depth is the depth signal. OffsetCm is in [-MaxOffsetCm, MaxOffsetCm]
// and Zoom in [MinZoom, MaxZoom].
type Depth struct {
	Active       bool    `json:"active"`
	Level        float64 `json:"level"`
	OffsetCm     float64 `json:"offsetCm"`
	Zoom         float64 `json:"zoom"`
	Accelerating bool    `json:"accelerating"`
	Braking      bool    `json:"braking"`
}

// DepthInput is one frame of depth input. A nil point slice means the
// hand is absent.
type DepthInput struct {
	Left, Right []landmark.Point3D
	Grabbing    bool
}

// ComputeDepth derives the depth signal from the hands present.
func ComputeDepth(in DepthInput, cfg DepthConfig) Depth {
	var levels []float64
	for _, pts := range [][]landmark.Point3D{in.Left, in.Right} {
		if len(pts) > 0 {
			levels = append(levels, landmark.AverageDepth(pts))
		}
	}
	if len(levels) == 0 {
		return Depth{Zoom: zoomFor(0, cfg.MaxOffsetCm)}
	}

	var level float64
	for _, l := range levels {
		level += l
	}
	level /= float64(len(levels))

	offset := landmark.Clamp((level-cfg.RestingDepth)*cfg.Sensitivity, -cfg.MaxOffsetCm, cfg.MaxOffsetCm)
	d := Depth{
		Active:   true,
		Level:    level,
		OffsetCm: offset,
		Zoom:     zoomFor(offset, cfg.MaxOffsetCm),
	}

	if len(levels) == 2 && !in.Grabbing {
		d.Accelerating = level < cfg.AccelerateBelow
		d.Braking = level > cfg.BrakeAbove
	}
	return d
}

// zoomFor maps an offset in [-maxOffset, maxOffset] linearly onto [MinZoom, MaxZoom].
func zoomFor(offset, maxOffset float64) float64 {
	if maxOffset <= 0 {
		return (MinZoom + MaxZoom) / 2
	}
	t := landmark.Clamp((offset+maxOffset)/(2*maxOffset), 0, 1)
	return MinZoom + t*(MaxZoom-MinZoom)
}
