package gesture

import "github.com/ayusman/mudra/internal/landmark"

// TrackerConfig controls event timing. All durations are in milliseconds
// of frame time.
type TrackerConfig struct {
	CooldownMs     int64
	DoubleWindowMs int64
	DoubleKinds    []Pose
}

// DefaultTrackerConfig returns a 100ms cooldown and a 500ms double-pinch
// window.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CooldownMs:     100,
		DoubleWindowMs: 500,
		DoubleKinds:    []Pose{PosePinch},
	}
}

// HandTemporalState is the Idle/Active state of one pose on one hand.
type HandTemporalState struct {
	WasActive      bool    `json:"wasActive"`
	Triggered      bool    `json:"triggered"` // LastTriggerAt is set
	LastTriggerAt  int64   `json:"lastTriggerAt"`
	RecentTriggers []int64 `json:"recentTriggers,omitempty"`
}

// Tracker turns per-frame pose detections into debounced events. State is
// kept per hand and per pose. A Tracker is not safe for concurrent use.
type Tracker struct {
	cfg     TrackerConfig
	doubles map[Pose]bool
	hands   map[landmark.Handedness]map[Pose]*HandTemporalState

	seen   bool
	lastTs int64
}

// NewTracker creates a Tracker with the given timing.
func NewTracker(cfg TrackerConfig) *Tracker {
	doubles := make(map[Pose]bool, len(cfg.DoubleKinds))
	for _, p := range cfg.DoubleKinds {
		doubles[p] = true
	}
	return &Tracker{
		cfg:     cfg,
		doubles: doubles,
		hands:   make(map[landmark.Handedness]map[Pose]*HandTemporalState),
	}
}

// Observe records the time of the current frame and reports whether it is
// in order. A frame older than the newest one seen is stale: Update
// ignores it entirely, so an edge first seen on a stale frame fires on the
// next in-order frame instead. Equal timestamps are in order.
// Call it once per frame before Update.
func (t *Tracker) Observe(ts int64) bool {
	if t.seen && ts < t.lastTs {
		return false
	}
	t.seen = true
	t.lastTs = ts
	return true
}

// Update advances the state machines of one hand and returns the events
// fired this frame, in pose priority order. inOrder is the result of
// Observe for this frame.
func (t *Tracker) Update(hand landmark.Handedness, c Classification, ts int64, inOrder bool) []Event {
	if !inOrder {
		return nil
	}
	states := t.states(hand)

	var events []Event
	for _, r := range c.Results {
		st, ok := states[r.Gesture]
		if !ok {
			st = &HandTemporalState{}
			states[r.Gesture] = st
		}

		rising := r.Detected && !st.WasActive
		st.WasActive = r.Detected
		if !rising {
			continue
		}

		if st.Triggered && ts-st.LastTriggerAt < t.cfg.CooldownMs {
			continue
		}
		st.Triggered = true
		st.LastTriggerAt = ts

		events = append(events, Event{
			Kind:        TriggerKind(r.Gesture),
			Pose:        r.Gesture,
			Hand:        hand,
			TimestampMs: ts,
			Confidence:  r.Confidence,
		})

		if t.doubles[r.Gesture] && t.recordDouble(st, ts) {
			events = append(events, Event{
				Kind:        DoubleKind(r.Gesture),
				Pose:        r.Gesture,
				Hand:        hand,
				TimestampMs: ts,
				Confidence:  r.Confidence,
			})
		}
	}

	return events
}

// recordDouble adds ts to the rolling window and reports whether it
// completes a pair. A completed pair clears the window so detection does
// not overlap.
func (t *Tracker) recordDouble(st *HandTemporalState, ts int64) bool {
	kept := st.RecentTriggers[:0]
	for _, at := range st.RecentTriggers {
		if ts-at <= t.cfg.DoubleWindowMs {
			kept = append(kept, at)
		}
	}
	st.RecentTriggers = append(kept, ts)

	if len(st.RecentTriggers) >= 2 {
		st.RecentTriggers = nil
		return true
	}
	return false
}

// Reset returns every pose of the hand to Idle and forgets its trigger
// history. The engine calls it when the hand leaves the frame.
func (t *Tracker) Reset(hand landmark.Handedness) {
	delete(t.hands, hand)
}

// ResetAll clears every hand and the frame clock.
func (t *Tracker) ResetAll() {
	t.hands = make(map[landmark.Handedness]map[Pose]*HandTemporalState)
	t.seen = false
	t.lastTs = 0
}

// State returns a copy of the state for one pose on one hand.
func (t *Tracker) State(hand landmark.Handedness, p Pose) HandTemporalState {
	st, ok := t.hands[hand][p]
	if !ok {
		return HandTemporalState{}
	}
	c := *st
	c.RecentTriggers = append([]int64(nil), st.RecentTriggers...)
	return c
}

func (t *Tracker) states(hand landmark.Handedness) map[Pose]*HandTemporalState {
	states, ok := t.hands[hand]
	if !ok {
		states = make(map[Pose]*HandTemporalState)
		t.hands[hand] = states
	}
	return states
}
