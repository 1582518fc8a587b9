package control

import "github.com/ayusman/mudra/internal/landmark"

// CursorConfig describes the target surface and the easing weight.
// Smoothing is the fraction of the remaining distance covered per update:
// 1 jumps straight to the target, small values trail behind it.
type CursorConfig struct {
	Width     float64
	Height    float64
	Smoothing float64
}

// DefaultCursorConfig returns a 1920x1080 surface with smoothing 0.3.
func DefaultCursorConfig() CursorConfig {
	return CursorConfig{Width: 1920, Height: 1080, Smoothing: 0.3}
}

// Cursor is a position in surface pixels.
type Cursor struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
}

// CursorMapper eases a cursor toward the point an aim maps to. It keeps
// the previous position between updates.
type CursorMapper struct {
	cfg CursorConfig
	pos Cursor
}

// NewCursorMapper creates a CursorMapper.
func NewCursorMapper(cfg CursorConfig) *CursorMapper {
	cfg.Smoothing = landmark.Clamp(cfg.Smoothing, 0, 1)
	return &CursorMapper{cfg: cfg}
}

// Target maps an aim in [-1, 1] onto the surface.
func (m *CursorMapper) Target(aim Aim) Cursor {
	return Cursor{
		X:      landmark.Clamp((aim.X+1)/2, 0, 1) * m.cfg.Width,
		Y:      landmark.Clamp((aim.Y+1)/2, 0, 1) * m.cfg.Height,
		Active: true,
	}
}

// Update moves the cursor toward the aim's target and returns it.
func (m *CursorMapper) Update(aim Aim) Cursor {
	return m.MoveTo(m.Target(aim))
}

// MoveTo eases the cursor toward target. The first call after creation
// or Reset snaps to the target.
func (m *CursorMapper) MoveTo(target Cursor) Cursor {
	if !m.pos.Active {
		m.pos = Cursor{X: target.X, Y: target.Y, Active: true}
		return m.pos
	}

	f := m.cfg.Smoothing
	m.pos = Cursor{
		X:      landmark.Clamp(lerp(m.pos.X, target.X, f), 0, m.cfg.Width),
		Y:      landmark.Clamp(lerp(m.pos.Y, target.Y, f), 0, m.cfg.Height),
		Active: true,
	}
	return m.pos
}

// Position returns the current cursor.
func (m *CursorMapper) Position() Cursor {
	return m.pos
}

// Reset forgets the previous position.
func (m *CursorMapper) Reset() {
	m.pos = Cursor{}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
