package control

import "github.com/ayusman/mudra/internal/landmark"

// Config collects the settings of every mapping.
type Config struct {
	Aim    AimConfig
	Snap   Snap
	Cursor CursorConfig
	Wheel  WheelConfig
	Depth  DepthConfig
}

// DefaultConfig returns the default mapping settings.
func DefaultConfig() Config {
	return Config{
		Aim:    DefaultAimConfig(),
		Snap:   DefaultSnap(),
		Cursor: DefaultCursorConfig(),
		Wheel:  DefaultWheelConfig(),
		Depth:  DefaultDepthConfig(),
	}
}

// Controls holds every control signal for one frame.
type Controls struct {
	Aim      Aim      `json:"aim"`
	Cursor   Cursor   `json:"cursor"`
	Steering Steering `json:"steering"`
	Depth    Depth    `json:"depth"`
}

// Input is the smoothed geometry for one frame. Nil point slices mean the
// hand is absent.
type Input struct {
	AimPoints           []landmark.Point3D
	Left, Right         []landmark.Point3D
	LeftFist, RightFist bool
}

// Mapper owns the continuity state of the stateful mappings (cursor
// position and wheel grab). It is not safe for concurrent use.
type Mapper struct {
	cfg    Config
	cursor *CursorMapper
	wheel  *Wheel
}

// NewMapper creates a Mapper.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{
		cfg:    cfg,
		cursor: NewCursorMapper(cfg.Cursor),
		wheel:  NewWheel(cfg.Wheel),
	}
}

// Update computes the controls for one frame.
func (m *Mapper) Update(in Input) Controls {
	var c Controls

	if in.AimPoints != nil {
		c.Aim = ComputeAim(in.AimPoints, m.cfg.Aim)
	}
	if c.Aim.Active {
		c.Aim.X = m.cfg.Snap.Apply(c.Aim.X)
		c.Aim.Y = m.cfg.Snap.Apply(c.Aim.Y)
		c.Cursor = m.cursor.Update(c.Aim)
	} else {
		m.cursor.Reset()
	}

	c.Steering = m.wheel.Update(WheelInput{
		Left:      in.Left,
		Right:     in.Right,
		LeftFist:  in.LeftFist,
		RightFist: in.RightFist,
	})
	if c.Steering.Active {
		c.Steering.Percent = m.cfg.Snap.Apply(c.Steering.Percent/100) * 100
	}

	c.Depth = ComputeDepth(DepthInput{
		Left:     in.Left,
		Right:    in.Right,
		Grabbing: c.Steering.Active,
	}, m.cfg.Depth)

	return c
}

// Reset clears cursor and wheel state.
func (m *Mapper) Reset() {
	m.cursor.Reset()
	m.wheel.Reset()
}
