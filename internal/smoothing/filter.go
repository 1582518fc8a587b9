// Package smoothing provides temporal filters for landmark sequences.
package smoothing

import (
	"fmt"

	"github.com/ayusman/mudra/internal/landmark"
)

// Mode selects a smoothing strategy.
type Mode string

const (
	// ModeExponential blends each new frame into the previous output.
	ModeExponential Mode = "exponential"
	// ModeVelocity predicts forward from a smoothed per-landmark velocity.
	ModeVelocity Mode = "velocity"
)

// Filter smooths successive observations of a single hand.
//
// Apply returns the smoothed landmarks for raw. The first call after
// construction or Reset returns a copy of raw unchanged. Callers must call
// Reset when the hand drops out of tracking so that no state carries over
// the gap.
type Filter interface {
	Apply(raw []landmark.Point3D) []landmark.Point3D
	Reset()
}

// New returns a filter for the given mode. For ModeExponential param is
// the blend weight alpha; for ModeVelocity it is the prediction factor.
func New(mode Mode, param float64) (Filter, error) {
	switch mode {
	case ModeExponential, "":
		return NewExponential(param), nil
	case ModeVelocity:
		return NewVelocity(param), nil
	default:
		return nil, fmt.Errorf("unknown smoothing mode %q", mode)
	}
}

func clone(points []landmark.Point3D) []landmark.Point3D {
	return append([]landmark.Point3D(nil), points...)
}
