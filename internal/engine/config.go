package engine

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/smoothing"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds every tunable of the engine. The same struct is read from
// YAML files and exchanged as JSON over the API.
type Config struct {
	// Pose thresholds, in normalized image units.
	PinchThreshold    float64 `yaml:"pinch_threshold" json:"pinchThreshold"`
	FistThreshold     float64 `yaml:"fist_threshold" json:"fistThreshold"`
	OpenThreshold     float64 `yaml:"open_threshold" json:"openThreshold"`
	PointingThreshold float64 `yaml:"pointing_threshold" json:"pointingThreshold"`
	VictoryThreshold  float64 `yaml:"victory_threshold" json:"victoryThreshold"`

	// Event timing.
	CooldownMs         int64          `yaml:"cooldown_ms" json:"cooldownMs"`
	DoubleWindowMs     int64          `yaml:"double_window_ms" json:"doubleWindowMs"`
	DoubleTriggerKinds []gesture.Pose `yaml:"double_trigger_kinds" json:"doubleTriggerKinds"`

	// Landmark smoothing.
	SmoothingMode  smoothing.Mode `yaml:"smoothing_mode" json:"smoothingMode"`
	SmoothingAlpha float64        `yaml:"smoothing_alpha" json:"smoothingAlpha"`
	VelocityFactor float64        `yaml:"velocity_factor" json:"velocityFactor"`

	// Aim and cursor.
	AimHand         landmark.Handedness `yaml:"aim_hand" json:"aimHand"`
	AimSensitivity  float64             `yaml:"aim_sensitivity" json:"aimSensitivity"`
	AimSmoothing    float64             `yaml:"aim_smoothing" json:"aimSmoothing"`
	CursorWidth     float64             `yaml:"cursor_width" json:"cursorWidth"`
	CursorHeight    float64             `yaml:"cursor_height" json:"cursorHeight"`
	CursorSmoothing float64             `yaml:"cursor_smoothing" json:"cursorSmoothing"`

	// Magnetic snap around the rest point of aim and steering.
	SnapThreshold float64 `yaml:"snap_threshold" json:"snapThreshold"`
	SnapStrength  float64 `yaml:"snap_strength" json:"snapStrength"`
	ReturnSpeed   float64 `yaml:"return_speed" json:"returnSpeed"`

	// Steering wheel.
	TogetherThreshold float64 `yaml:"together_threshold" json:"togetherThreshold"`
	WheelDepth        float64 `yaml:"wheel_depth" json:"wheelDepth"`
	GrabTolerance     float64 `yaml:"grab_tolerance" json:"grabTolerance"`
	MaxRotationDeg    float64 `yaml:"max_rotation_deg" json:"maxRotationDeg"`
	SteeringDeadZone  float64 `yaml:"steering_dead_zone" json:"steeringDeadZone"`

	// Depth and zoom.
	RestingDepth     float64 `yaml:"resting_depth" json:"restingDepth"`
	DepthSensitivity float64 `yaml:"depth_sensitivity" json:"depthSensitivity"`
	MaxDepthOffsetCm float64 `yaml:"max_depth_offset_cm" json:"maxDepthOffsetCm"`
	AccelerateBelow  float64 `yaml:"accelerate_below" json:"accelerateBelow"`
	BrakeAbove       float64 `yaml:"brake_above" json:"brakeAbove"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	th := gesture.DefaultThresholds()
	tr := gesture.DefaultTrackerConfig()
	ctl := control.DefaultConfig()

	return Config{
		PinchThreshold:    th.Pinch,
		FistThreshold:     th.Fist,
		OpenThreshold:     th.Open,
		PointingThreshold: th.Pointing,
		VictoryThreshold:  th.Victory,

		CooldownMs:         tr.CooldownMs,
		DoubleWindowMs:     tr.DoubleWindowMs,
		DoubleTriggerKinds: tr.DoubleKinds,

		SmoothingMode:  smoothing.ModeExponential,
		SmoothingAlpha: 0.7,
		VelocityFactor: 0.5,

		AimHand:         landmark.Right,
		AimSensitivity:  ctl.Aim.Sensitivity,
		AimSmoothing:    ctl.Aim.Smoothing,
		CursorWidth:     ctl.Cursor.Width,
		CursorHeight:    ctl.Cursor.Height,
		CursorSmoothing: ctl.Cursor.Smoothing,

		SnapThreshold: ctl.Snap.Threshold,
		SnapStrength:  ctl.Snap.Strength,
		ReturnSpeed:   ctl.Snap.ReturnSpeed,

		TogetherThreshold: ctl.Wheel.TogetherThreshold,
		WheelDepth:        ctl.Wheel.WheelDepth,
		GrabTolerance:     ctl.Wheel.GrabTolerance,
		MaxRotationDeg:    60,
		SteeringDeadZone:  ctl.Wheel.DeadZone,

		RestingDepth:     ctl.Depth.RestingDepth,
		DepthSensitivity: ctl.Depth.Sensitivity,
		MaxDepthOffsetCm: ctl.Depth.MaxOffsetCm,
		AccelerateBelow:  ctl.Depth.AccelerateBelow,
		BrakeAbove:       ctl.Depth.BrakeAbove,
	}
}

// LoadFile reads a YAML configuration. Keys missing from the file keep
// their default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration on top of the defaults and validates
// it.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value is in range.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"pinch_threshold", c.PinchThreshold},
		{"fist_threshold", c.FistThreshold},
		{"open_threshold", c.OpenThreshold},
		{"pointing_threshold", c.PointingThreshold},
		{"cursor_width", c.CursorWidth},
		{"cursor_height", c.CursorHeight},
		{"together_threshold", c.TogetherThreshold},
		{"grab_tolerance", c.GrabTolerance},
		{"max_rotation_deg", c.MaxRotationDeg},
		{"max_depth_offset_cm", c.MaxDepthOffsetCm},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return invalid("%s must be > 0", p.name)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"victory_threshold", c.VictoryThreshold},
		{"aim_sensitivity", c.AimSensitivity},
		{"snap_threshold", c.SnapThreshold},
		{"return_speed", c.ReturnSpeed},
		{"steering_dead_zone", c.SteeringDeadZone},
		{"depth_sensitivity", c.DepthSensitivity},
	}
	for _, p := range nonNegative {
		if !(p.v >= 0) || math.IsInf(p.v, 0) {
			return invalid("%s must be >= 0", p.name)
		}
	}

	unit := []struct {
		name string
		v    float64
	}{
		{"velocity_factor", c.VelocityFactor},
		{"aim_smoothing", c.AimSmoothing},
		{"cursor_smoothing", c.CursorSmoothing},
		{"snap_strength", c.SnapStrength},
	}
	for _, p := range unit {
		if !(p.v >= 0 && p.v <= 1) {
			return invalid("%s must be in [0, 1]", p.name)
		}
	}

	if !(c.SmoothingAlpha >= smoothing.MinAlpha && c.SmoothingAlpha <= smoothing.MaxAlpha) {
		return invalid("smoothing_alpha must be in [%g, %g]", smoothing.MinAlpha, smoothing.MaxAlpha)
	}

	if c.CooldownMs < 0 {
		return invalid("cooldown_ms must be >= 0")
	}
	if c.DoubleWindowMs < 0 {
		return invalid("double_window_ms must be >= 0")
	}
	for _, k := range c.DoubleTriggerKinds {
		if !knownPose(k) {
			return invalid("unknown double trigger kind %q", k)
		}
	}

	switch c.SmoothingMode {
	case "", smoothing.ModeExponential, smoothing.ModeVelocity:
	default:
		return invalid("unknown smoothing_mode %q", c.SmoothingMode)
	}

	if c.AimHand != landmark.Left && c.AimHand != landmark.Right {
		return invalid("aim_hand must be %q or %q", landmark.Left, landmark.Right)
	}
	if c.MaxRotationDeg > 180 {
		return invalid("max_rotation_deg must be <= 180")
	}
	if c.AccelerateBelow > c.BrakeAbove {
		return invalid("accelerate_below must not exceed brake_above")
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

func knownPose(p gesture.Pose) bool {
	for _, k := range gesture.Priority {
		if k == p {
			return true
		}
	}
	return false
}

func (c Config) clone() Config {
	c.DoubleTriggerKinds = append([]gesture.Pose(nil), c.DoubleTriggerKinds...)
	return c
}

func (c Config) thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		Pinch:    c.PinchThreshold,
		Fist:     c.FistThreshold,
		Open:     c.OpenThreshold,
		Pointing: c.PointingThreshold,
		Victory:  c.VictoryThreshold,
	}
}

func (c Config) trackerConfig() gesture.TrackerConfig {
	return gesture.TrackerConfig{
		CooldownMs:     c.CooldownMs,
		DoubleWindowMs: c.DoubleWindowMs,
		DoubleKinds:    append([]gesture.Pose(nil), c.DoubleTriggerKinds...),
	}
}

func (c Config) controlConfig() control.Config {
	return control.Config{
		Aim: control.AimConfig{
			Sensitivity: c.AimSensitivity,
			Smoothing:   c.AimSmoothing,
		},
		Snap: control.Snap{
			Threshold:   c.SnapThreshold,
			Strength:    c.SnapStrength,
			ReturnSpeed: c.ReturnSpeed,
		},
		Cursor: control.CursorConfig{
			Width:     c.CursorWidth,
			Height:    c.CursorHeight,
			Smoothing: c.CursorSmoothing,
		},
		Wheel: control.WheelConfig{
			TogetherThreshold: c.TogetherThreshold,
			WheelDepth:        c.WheelDepth,
			GrabTolerance:     c.GrabTolerance,
			MaxRotation:       c.MaxRotationDeg * math.Pi / 180,
			DeadZone:          c.SteeringDeadZone,
		},
		Depth: control.DepthConfig{
			RestingDepth:    c.RestingDepth,
			Sensitivity:     c.DepthSensitivity,
			MaxOffsetCm:     c.MaxDepthOffsetCm,
			AccelerateBelow: c.AccelerateBelow,
			BrakeAbove:      c.BrakeAbove,
		},
	}
}

func (c Config) newFilter() (smoothing.Filter, error) {
	if c.SmoothingMode == smoothing.ModeVelocity {
		return smoothing.New(c.SmoothingMode, c.VelocityFactor)
	}
	return smoothing.New(c.SmoothingMode, c.SmoothingAlpha)
}
