package smoothing

import "github.com/ayusman/mudra/internal/landmark"

// Velocity weights used when updating the per-landmark velocity estimate.
const (
	velocityKeep  = 0.8
	velocityDelta = 0.2
)

// Velocity tracks a smoothed velocity per landmark and advances the
// previous output along it:
//
//	v        = v*0.8 + (raw - previous)*0.2
//	smoothed = previous + v*factor
//
// This trims the single-frame lag of plain exponential smoothing at the
// cost of some overshoot on sudden moves. Output is clamped to x,y in
// [0,1] and z in [-1,1], which bounds the overshoot.
type Velocity struct {
	factor   float64
	previous []landmark.Point3D
	velocity []landmark.Point3D
}

// NewVelocity creates a velocity filter. Factor is clamped to [0,1].
func NewVelocity(factor float64) *Velocity {
	return &Velocity{factor: landmark.Clamp(factor, 0, 1)}
}

// Apply advances the filter by one frame.
func (v *Velocity) Apply(raw []landmark.Point3D) []landmark.Point3D {
	if v.previous == nil || len(v.previous) != len(raw) {
		v.previous = clone(raw)
		v.velocity = make([]landmark.Point3D, len(raw))
		return clone(raw)
	}

	for i, p := range raw {
		prev := v.previous[i]
		vel := &v.velocity[i]

		vel.X = vel.X*velocityKeep + (p.X-prev.X)*velocityDelta
		vel.Y = vel.Y*velocityKeep + (p.Y-prev.Y)*velocityDelta
		vel.Z = vel.Z*velocityKeep + (p.Z-prev.Z)*velocityDelta

		v.previous[i] = landmark.Point3D{
			X: landmark.Clamp(prev.X+vel.X*v.factor, 0, 1),
			Y: landmark.Clamp(prev.Y+vel.Y*v.factor, 0, 1),
			Z: landmark.Clamp(prev.Z+vel.Z*v.factor, -1, 1),
		}
	}

	return clone(v.previous)
}

// Reset drops the previous output and velocity so the next observation
// becomes the new initial state.
func (v *Velocity) Reset() {
	v.previous = nil
	v.velocity = nil
}
