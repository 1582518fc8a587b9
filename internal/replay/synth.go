package replay

import (
	"math"

	"github.com/ayusman/mudra/internal/landmark"
)

// FrameIntervalMs is the spacing of synthesized frames, about 30 fps.
const FrameIntervalMs = 33

// Synthesize builds a scripted demo session from the landmark presets:
// a right hand pointing, a double pinch, the two-fist wheel turned right
// by 30 degrees and held, then an open palm pushed toward the camera.
// Scenes are separated by empty frames so every scene starts from fresh
// hand state.
func Synthesize() []landmark.Frame {
	var s session

	pointing := landmark.PointingLandmarks()
	s.hold(landmark.Frame{Right: &pointing}, 15)
	s.gap()

	pinch := landmark.PinchLandmarks()
	open := landmark.OpenPalmLandmarks()
	s.hold(landmark.Frame{Right: &pinch}, 4)
	s.hold(landmark.Frame{Right: &open}, 4)
	s.hold(landmark.Frame{Right: &pinch}, 4)
	s.hold(landmark.Frame{Right: &open}, 4)
	s.gap()

	const turnFrames = 20
	for i := 0; i <= turnFrames; i++ {
		s.add(wheelFrame(math.Pi / 6 * float64(i) / turnFrames))
	}
	s.hold(wheelFrame(math.Pi/6), 30)
	s.gap()

	for i := 0; i < 20; i++ {
		l := landmark.WithHandedness(landmark.Translate(open, landmark.Point3D{X: -0.2, Z: 0.3 - 0.015*float64(i)}), landmark.Left)
		r := landmark.Translate(open, landmark.Point3D{X: 0.2, Z: 0.3 - 0.015*float64(i)})
		s.add(landmark.Frame{Left: &l, Right: &r})
	}

	return s.frames
}

// wheelFrame returns both fists held together at wheel depth, rotated by
// angle around the point between the wrists.
func wheelFrame(angle float64) landmark.Frame {
	fist := landmark.FistLandmarks()
	l := landmark.WithHandedness(landmark.Translate(fist, landmark.Point3D{X: -0.025, Z: 0.35}), landmark.Left)
	r := landmark.Translate(fist, landmark.Point3D{X: 0.025, Z: 0.35})

	mid := landmark.Point3D{X: 0.5, Y: 0.8}
	l = landmark.Rotate(l, mid, angle)
	r = landmark.Rotate(r, mid, angle)
	return landmark.Frame{Left: &l, Right: &r}
}

type session struct {
	frames []landmark.Frame
	ts     int64
}

func (s *session) add(f landmark.Frame) {
	f.TimestampMs = s.ts
	s.frames = append(s.frames, f)
	s.ts += FrameIntervalMs
}

func (s *session) hold(f landmark.Frame, n int) {
	for i := 0; i < n; i++ {
		s.add(f)
	}
}

func (s *session) gap() {
	s.hold(landmark.Frame{}, 5)
}
