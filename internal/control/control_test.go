package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/landmark"
)

func TestComputeAim(t *testing.T) {
	t.Run("palm up", func(t *testing.T) {
		h := landmark.OpenPalmLandmarks()
		aim := ComputeAim(h.Points, DefaultAimConfig())

		require.True(t, aim.Active)
		// unit(0.06, -0.18) scaled by 1.8
		assert.InDelta(t, 0.06/math.Hypot(0.06, 0.18)*1.8, aim.X, 1e-9)
		assert.Equal(t, -1.0, aim.Y)
		assert.Equal(t, 0.0, aim.Z)
	})

	t.Run("degenerate", func(t *testing.T) {
		h := landmark.OpenPalmLandmarks()
		h.Points[landmark.IndexMCP] = h.Points[landmark.Wrist]
		assert.Equal(t, Aim{}, ComputeAim(h.Points, DefaultAimConfig()))
	})

	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, Aim{}, ComputeAim(nil, DefaultAimConfig()))
	})
}

func TestCursorMapper_Scenario(t *testing.T) {
	m := NewCursorMapper(CursorConfig{Width: 1000, Height: 1000, Smoothing: 0.99})

	first := m.MoveTo(Cursor{X: 100, Y: 100})
	assert.Equal(t, Cursor{X: 100, Y: 100, Active: true}, first)

	got := m.MoveTo(Cursor{X: 500, Y: 500})
	assert.GreaterOrEqual(t, (got.X-100)/400, 0.99)
	assert.GreaterOrEqual(t, (got.Y-100)/400, 0.99)
	assert.LessOrEqual(t, got.X, 500.0)
}

func TestCursorMapper_Easing(t *testing.T) {
	m := NewCursorMapper(CursorConfig{Width: 1000, Height: 500, Smoothing: 0.5})

	assert.Equal(t, Cursor{X: 500, Y: 250, Active: true}, m.Target(Aim{}))
	assert.Equal(t, Cursor{X: 1000, Y: 500, Active: true}, m.Target(Aim{X: 1, Y: 1}))

	m.Update(Aim{X: -1, Y: -1})
	got := m.Update(Aim{X: 1, Y: 1})
	assert.InDelta(t, 500, got.X, 1e-9)
	assert.InDelta(t, 250, got.Y, 1e-9)

	m.Reset()
	assert.False(t, m.Position().Active)
	got = m.Update(Aim{X: 1, Y: 1})
	assert.Equal(t, 1000.0, got.X, "first update after reset snaps")
}

func TestSnap(t *testing.T) {
	s := Snap{Threshold: 0.1, Strength: 0.5, ReturnSpeed: 0.8}

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside positive", 0.05, 0.02},
		{"inside negative", -0.05, -0.02},
		{"center", 0, 0},
		{"outside", 0.2, 0.2},
		{"at threshold", 0.1, 0.1},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Apply(tt.in), 1e-12)
		})
	}
}

func TestSnap_MonotonicNoOvershoot(t *testing.T) {
	snaps := []Snap{
		{Center: 0.5, Threshold: 0.2, Strength: 0.5, ReturnSpeed: 0.8},
		{Center: 0.5, Threshold: 0.2, Strength: -3, ReturnSpeed: 5},
		{Center: 0.5, Threshold: 0.2, Strength: 2, ReturnSpeed: 1},
	}

	for _, s := range snaps {
		for v := 0.3; v <= 0.7; v += 0.01 {
			got := s.Apply(v)
			assert.LessOrEqual(t, math.Abs(got-s.Center), math.Abs(v-s.Center)+1e-12)
			assert.GreaterOrEqual(t, (got-s.Center)*(v-s.Center), 0.0, "crossed center at %v", v)
		}
	}
}

// wheelHands returns two fists at the calibrated wheel depth with wrists
// 0.05 apart, rotated by angle around the midpoint of the wrists.
func wheelHands(angle float64) (left, right landmark.Hand) {
	fist := landmark.FistLandmarks()
	left = landmark.WithHandedness(landmark.Translate(fist, landmark.Point3D{X: -0.025, Z: 0.35}), landmark.Left)
	right = landmark.Translate(fist, landmark.Point3D{X: 0.025, Z: 0.35})

	mid := landmark.Point3D{X: 0.5, Y: 0.8}
	return landmark.Rotate(left, mid, angle), landmark.Rotate(right, mid, angle)
}

func wheelInput(left, right landmark.Hand) WheelInput {
	return WheelInput{Left: left.Points, Right: right.Points, LeftFist: true, RightFist: true}
}

func TestWheel_Scenario(t *testing.T) {
	w := NewWheel(DefaultWheelConfig())

	got := w.Update(wheelInput(wheelHands(0)))
	require.True(t, got.Active)
	assert.InDelta(t, 0, got.Percent, 1e-9)
	assert.Equal(t, DirectionCenter, got.Direction)

	got = w.Update(wheelInput(wheelHands(math.Pi / 6)))
	require.True(t, got.Active)
	assert.InDelta(t, 50, got.Percent, 1e-6)
	assert.Equal(t, DirectionRight, got.Direction)

	got = w.Update(wheelInput(wheelHands(-math.Pi / 2)))
	assert.Equal(t, -100.0, got.Percent)
	assert.Equal(t, DirectionLeft, got.Direction)
}

func TestWheel_BaselineResetsOnRegrab(t *testing.T) {
	w := NewWheel(DefaultWheelConfig())

	w.Update(wheelInput(wheelHands(0)))
	w.Update(wheelInput(wheelHands(0.4)))

	l, r := wheelHands(0.4)
	released := w.Update(WheelInput{Left: l.Points, Right: r.Points, LeftFist: true})
	assert.False(t, released.Active)
	assert.False(t, w.Grabbed())

	got := w.Update(wheelInput(wheelHands(0.4)))
	assert.True(t, got.Active)
	assert.InDelta(t, 0, got.Percent, 1e-9)
}

func TestWheel_GrabConditions(t *testing.T) {
	l, r := wheelHands(0)

	apart := landmark.Translate(r, landmark.Point3D{X: 0.2})
	shallow := landmark.Translate(r, landmark.Point3D{Z: 0.2})

	tests := []struct {
		name string
		in   WheelInput
	}{
		{"right open", WheelInput{Left: l.Points, Right: r.Points, LeftFist: true}},
		{"left missing", WheelInput{Right: r.Points, LeftFist: true, RightFist: true}},
		{"wrists apart", WheelInput{Left: l.Points, Right: apart.Points, LeftFist: true, RightFist: true}},
		{"wrong depth", WheelInput{Left: l.Points, Right: shallow.Points, LeftFist: true, RightFist: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWheel(DefaultWheelConfig())
			got := w.Update(tt.in)
			assert.Equal(t, Steering{Direction: DirectionCenter}, got)
		})
	}
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, wrapAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi, wrapAngle(-math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, wrapAngle(math.Pi), 1e-12)
	assert.Equal(t, 0.0, wrapAngle(math.NaN()))
}

func depthHand(z float64) []landmark.Point3D {
	h := landmark.Translate(landmark.OpenPalmLandmarks(), landmark.Point3D{Z: z})
	return h.Points
}

func TestComputeDepth(t *testing.T) {
	cfg := DefaultDepthConfig()

	t.Run("no hands", func(t *testing.T) {
		got := ComputeDepth(DepthInput{}, cfg)
		assert.False(t, got.Active)
		assert.InDelta(t, 1.15, got.Zoom, 1e-9)
	})

	t.Run("resting", func(t *testing.T) {
		got := ComputeDepth(DepthInput{Right: depthHand(0.3)}, cfg)
		assert.True(t, got.Active)
		assert.InDelta(t, 0, got.OffsetCm, 1e-9)
		assert.InDelta(t, 1.15, got.Zoom, 1e-9)
	})

	t.Run("averages both hands", func(t *testing.T) {
		got := ComputeDepth(DepthInput{Left: depthHand(0.3), Right: depthHand(0.4)}, cfg)
		assert.InDelta(t, 0.35, got.Level, 1e-9)
		assert.InDelta(t, 10, got.OffsetCm, 1e-9)
		assert.InDelta(t, 0.3+0.55*1.7, got.Zoom, 1e-9)
	})

	t.Run("clamped", func(t *testing.T) {
		far := ComputeDepth(DepthInput{Right: depthHand(0.9)}, cfg)
		assert.Equal(t, 100.0, far.OffsetCm)
		assert.InDelta(t, MaxZoom, far.Zoom, 1e-12)

		near := ComputeDepth(DepthInput{Right: depthHand(-0.9)}, cfg)
		assert.Equal(t, -100.0, near.OffsetCm)
		assert.InDelta(t, MinZoom, near.Zoom, 1e-12)
	})

	t.Run("throttle needs two hands", func(t *testing.T) {
		one := ComputeDepth(DepthInput{Right: depthHand(0.1)}, cfg)
		assert.False(t, one.Accelerating)

		two := ComputeDepth(DepthInput{Left: depthHand(0.1), Right: depthHand(0.1)}, cfg)
		assert.True(t, two.Accelerating)
		assert.False(t, two.Braking)

		brake := ComputeDepth(DepthInput{Left: depthHand(0.5), Right: depthHand(0.5)}, cfg)
		assert.True(t, brake.Braking)

		grabbing := ComputeDepth(DepthInput{Left: depthHand(0.1), Right: depthHand(0.1), Grabbing: true}, cfg)
		assert.False(t, grabbing.Accelerating)
	})
}

func TestMapper_Bounded(t *testing.T) {
	m := NewMapper(DefaultConfig())

	nan := landmark.OpenPalmLandmarks()
	for i := range nan.Points {
		nan.Points[i] = landmark.Point3D{X: math.NaN(), Y: math.Inf(1), Z: math.NaN()}
	}
	huge := landmark.Translate(landmark.FistLandmarks(), landmark.Point3D{X: 1e9, Y: -1e9, Z: 1e9})
	l, r := wheelHands(0)

	inputs := []Input{
		{},
		{AimPoints: nan.Points, Left: nan.Points, Right: nan.Points, LeftFist: true, RightFist: true},
		{AimPoints: huge.Points, Right: huge.Points},
		{AimPoints: r.Points, Left: l.Points, Right: r.Points, LeftFist: true, RightFist: true},
		{AimPoints: landmark.PinchLandmarks().Points, Right: landmark.PinchLandmarks().Points},
	}

	for i, in := range inputs {
		c := m.Update(in)
		for _, v := range []float64{c.Aim.X, c.Aim.Y, c.Aim.Z, c.Cursor.X, c.Cursor.Y,
			c.Steering.Percent, c.Depth.OffsetCm, c.Depth.Zoom} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "input %d produced %v", i, v)
		}
		assert.True(t, c.Aim.X >= -1 && c.Aim.X <= 1, "input %d aim x", i)
		assert.True(t, c.Aim.Y >= -1 && c.Aim.Y <= 1, "input %d aim y", i)
		assert.True(t, c.Steering.Percent >= -100 && c.Steering.Percent <= 100, "input %d steering", i)
		assert.True(t, math.Abs(c.Depth.OffsetCm) <= 100, "input %d depth", i)
		assert.True(t, c.Depth.Zoom >= MinZoom && c.Depth.Zoom <= MaxZoom, "input %d zoom", i)
	}
}

func TestMapper_CursorResetsWithoutAim(t *testing.T) {
	m := NewMapper(DefaultConfig())
	h := landmark.OpenPalmLandmarks()

	c := m.Update(Input{AimPoints: h.Points, Right: h.Points})
	assert.True(t, c.Cursor.Active)

	c = m.Update(Input{})
	assert.False(t, c.Cursor.Active)
	assert.False(t, c.Aim.Active)
}
