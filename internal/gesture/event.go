package gesture

import "github.com/ayusman/mudra/internal/landmark"

// Event is a one-shot notification emitted on the rising edge of a pose.
type Event struct {
	Kind        string              `json:"kind"`
	Pose        Pose                `json:"pose"`
	Hand        landmark.Handedness `json:"hand"`
	TimestampMs int64               `json:"timestampMs"`
	Confidence  float64             `json:"confidence"`
}

// TriggerKind returns the event kind emitted when p starts, e.g.
// "fist-trigger".
func TriggerKind(p Pose) string {
	return string(p) + "-trigger"
}

// DoubleKind returns the event kind emitted for two quick triggers of p,
// e.g. "double-pinch".
func DoubleKind(p Pose) string {
	return "double-" + string(p)
}

// IsDouble reports whether the event is a double-trigger.
func (e Event) IsDouble() bool {
	return e.Kind == DoubleKind(e.Pose)
}

// EventKinds lists every kind the tracker can emit for the given
// double-trigger poses, single triggers first.
func EventKinds(doubles []Pose) []string {
	kinds := make([]string, 0, len(Priority)+len(doubles))
	for _, p := range Priority {
		kinds = append(kinds, TriggerKind(p))
	}
	for _, p := range doubles {
		kinds = append(kinds, DoubleKind(p))
	}
	return kinds
}
