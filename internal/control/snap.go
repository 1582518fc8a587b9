package control

import (
	"math"

	"github.com/ayusman/mudra/internal/landmark"
)

// Snap pulls values near Center back toward it. Values within Threshold
// of Center move a fraction of the way there, never past it. A zero
// Threshold disables the snap.
type Snap struct {
	Center      float64
	Threshold   float64
	Strength    float64
	ReturnSpeed float64
}

// DefaultSnap returns a snap around 0 with threshold 0.1.
func DefaultSnap() Snap {
	return Snap{Threshold: 0.1, Strength: 0.5, ReturnSpeed: 0.8}
}

// Apply returns v after snapping.
func (s Snap) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return s.Center
	}
	d := v - s.Center
	if math.Abs(d) >= s.Threshold {
		return v
	}
	keep := landmark.Clamp((1-s.Strength)*s.ReturnSpeed, 0, 1)
	return s.Center + d*keep
}
