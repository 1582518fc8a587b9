package smoothing

import "github.com/ayusman/mudra/internal/landmark"

// Alpha bounds for exponential smoothing.
const (
	MinAlpha = 0.6
	MaxAlpha = 0.99
)

// Exponential is a per-coordinate exponential moving average:
//
//	smoothed = smoothed*alpha + raw*(1-alpha)
//
// Higher alpha is steadier but slower to follow the hand.
type Exponential struct {
	alpha    float64
	smoothed []landmark.Point3D
}

// NewExponential creates an exponential filter. Alpha is clamped to
// [MinAlpha, MaxAlpha].
func NewExponential(alpha float64) *Exponential {
	return &Exponential{alpha: landmark.Clamp(alpha, MinAlpha, MaxAlpha)}
}

// Alpha returns the effective blend weight.
func (e *Exponential) Alpha() float64 {
	return e.alpha
}

// Apply blends raw into the running average.
func (e *Exponential) Apply(raw []landmark.Point3D) []landmark.Point3D {
	if e.smoothed == nil || len(e.smoothed) != len(raw) {
		e.smoothed = clone(raw)
		return clone(raw)
	}

	a := e.alpha
	for i, p := range raw {
		s := &e.smoothed[i]
		s.X = s.X*a + p.X*(1-a)
		s.Y = s.Y*a + p.Y*(1-a)
		s.Z = s.Z*a + p.Z*(1-a)
	}

	return clone(e.smoothed)
}

// Reset forgets the running average.
func (e *Exponential) Reset() {
	e.smoothed = nil
}
