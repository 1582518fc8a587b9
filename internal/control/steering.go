package control

import (
	"math"

	"github.com/ayusman/mudra/internal/landmark"
)

// WheelConfig controls the two-handed steering wheel.
type WheelConfig struct {
	TogetherThreshold float64 // max wrist distance while grabbing
	WheelDepth        float64 // calibrated average hand depth
	GrabTolerance     float64 // allowed deviation from WheelDepth
	MaxRotation       float64 // radians reported as 100%
	DeadZone          float64 // radians reported as "center"
}

// DefaultWheelConfig returns the calibrated wheel values.
func DefaultWheelConfig() WheelConfig {
	return WheelConfig{
		TogetherThreshold: 0.15,
		WheelDepth:        0.35,
		GrabTolerance:     0.03,
		MaxRotation:       math.Pi / 3,
		DeadZone:          0.1,
	}
}

// Steering directions.
const (
	DirectionLeft   = "left"
	DirectionRight  = "right"
	DirectionCenter = "center"
)

// Steering is the wheel output. Percent is in [-100, 100].
type Steering struct {
	Active    bool    `json:"active"`
	Percent   float64 `json:"percent"`
	Angle     float64 `json:"angle"`
	Direction string  `json:"direction"`
}

// WheelInput is one frame of wheel input. A nil point slice means the
// hand is absent.
type WheelInput struct {
	Left, Right         []landmark.Point3D
	LeftFist, RightFist bool
}

// Wheel tracks grab state and the baseline angle captured when the grab
// starts.
type Wheel struct {
	cfg      WheelConfig
	grabbed  bool
	baseline float64
}

// NewWheel creates a Wheel.
func NewWheel(cfg WheelConfig) *Wheel {
	return &Wheel{cfg: cfg}
}

// Grabbed reports whether the wheel is currently held.
func (w *Wheel) Grabbed() bool {
	return w.grabbed
}

// Update advances the wheel by one frame.
func (w *Wheel) Update(in WheelInput) Steering {
	if !w.grab(in) {
		w.grabbed = false
		return Steering{Direction: DirectionCenter}
	}

	angle := landmark.WristAngle(in.Left[landmark.Wrist], in.Right[landmark.Wrist])
	if !w.grabbed {
		w.grabbed = true
		w.baseline = angle
	}

	delta := wrapAngle(angle - w.baseline)
	var percent float64
	if w.cfg.MaxRotation > 0 {
		percent = landmark.Clamp(delta/w.cfg.MaxRotation*100, -100, 100)
	}

	dir := DirectionCenter
	switch {
	case delta > w.cfg.DeadZone:
		dir = DirectionRight
	case delta < -w.cfg.DeadZone:
		dir = DirectionLeft
	}

	return Steering{Active: true, Percent: percent, Angle: delta, Direction: dir}
}

// Reset releases the wheel.
func (w *Wheel) Reset() {
	w.grabbed = false
	w.baseline = 0
}

func (w *Wheel) grab(in WheelInput) bool {
	if !in.LeftFist || !in.RightFist {
		return false
	}
	left, right := landmark.Hand{Points: in.Left}, landmark.Hand{Points: in.Right}
	if !left.Valid() || !right.Valid() {
		return false
	}
	if landmark.Distance3D(in.Left[landmark.Wrist], in.Right[landmark.Wrist]) >= w.cfg.TogetherThreshold {
		return false
	}
	depth := (landmark.AverageDepth(in.Left) + landmark.AverageDepth(in.Right)) / 2
	return math.Abs(depth-w.cfg.WheelDepth) < w.cfg.GrabTolerance
}

// wrapAngle maps a into (-π, π].
func wrapAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
