// Package engine composes smoothing, pose classification, edge triggering
// and control mapping into a single frame-driven gesture engine.
package engine

import (
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/smoothing"
)

var sides = [2]landmark.Handedness{landmark.Left, landmark.Right}

// Engine turns landmark frames into snapshots. Each Engine is owned by a
// single driving loop; it is not safe for concurrent use.
type Engine struct {
	cfg        Config
	logger     *log.Logger
	classifier *gesture.Classifier
	tracker    *gesture.Tracker
	mapper     *control.Mapper

	filters map[landmark.Handedness]smoothing.Filter
	grabbed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger logs hand acquisition and wheel grab transitions to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine. The configuration is validated.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.newFilter(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg = cfg.clone()
	e := &Engine{
		cfg:        cfg,
		classifier: gesture.NewClassifier(cfg.thresholds()),
		tracker:    gesture.NewTracker(cfg.trackerConfig()),
		mapper:     control.NewMapper(cfg.controlConfig()),
		filters:    make(map[landmark.Handedness]smoothing.Filter),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	return e.cfg.clone()
}

// Reset drops all per-hand state, as if both hands had left the frame.
func (e *Engine) Reset() {
	e.filters = make(map[landmark.Handedness]smoothing.Filter)
	e.tracker.ResetAll()
	e.mapper.Reset()
	e.grabbed = false
}

// ProcessFrame advances the engine by one frame. It never fails: missing
// or malformed hands are reported as absent and reset their state.
func (e *Engine) ProcessFrame(f landmark.Frame) Snapshot {
	snap := Snapshot{
		TimestampMs: f.TimestampMs,
		Events:      []gesture.Event{},
	}

	inOrder := e.tracker.Observe(f.TimestampMs)
	snap.Stale = !inOrder

	smoothed := make(map[landmark.Handedness][]landmark.Point3D, len(sides))
	fists := make(map[landmark.Handedness]bool, len(sides))

	for _, side := range sides {
		h := f.Hand(side)
		if !h.Valid() {
			e.lose(side)
			snap.setHand(side, HandSnapshot{Pose: gesture.NoPose})
			continue
		}

		pts := e.filter(side).Apply(h.Points)
		class := e.classifier.Classify(pts)
		events := e.tracker.Update(side, class, f.TimestampMs, inOrder)
		snap.Events = append(snap.Events, events...)

		smoothed[side] = pts
		fists[side] = class.Detected(gesture.PoseFist)
		snap.setHand(side, HandSnapshot{
			Present:  true,
			Pose:     class.Best,
			Poses:    class.Results,
			Smoothed: pts,
			Center:   landmark.HandCenter(pts),
		})
	}

	snap.Controls = e.mapper.Update(control.Input{
		AimPoints: e.aimPoints(smoothed),
		Left:      smoothed[landmark.Left],
		Right:     smoothed[landmark.Right],
		LeftFist:  fists[landmark.Left],
		RightFist: fists[landmark.Right],
	})

	if grabbed := snap.Controls.Steering.Active; grabbed != e.grabbed {
		e.grabbed = grabbed
		if grabbed {
			e.logf("wheel grabbed at %dms", f.TimestampMs)
		} else {
			e.logf("wheel released at %dms", f.TimestampMs)
		}
	}

	return snap
}

// aimPoints picks the configured aim hand, falling back to the other one.
func (e *Engine) aimPoints(smoothed map[landmark.Handedness][]landmark.Point3D) []landmark.Point3D {
	if pts, ok := smoothed[e.cfg.AimHand]; ok {
		return pts
	}
	for _, side := range sides {
		if pts, ok := smoothed[side]; ok {
			return pts
		}
	}
	return nil
}

func (e *Engine) filter(side landmark.Handedness) smoothing.Filter {
	f, ok := e.filters[side]
	if !ok {
		// The mode was checked in New.
		f, _ = e.cfg.newFilter()
		e.filters[side] = f
		e.logf("%s hand acquired", side)
	}
	return f
}

// lose resets everything held for a hand that is no longer tracked.
func (e *Engine) lose(side landmark.Handedness) {
	if _, ok := e.filters[side]; !ok {
		return
	}
	delete(e.filters, side)
	e.tracker.Reset(side)
	e.logf("%s hand lost", side)
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf("engine: "+format, args...)
	}
}
