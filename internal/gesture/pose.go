// Package gesture provides per-frame pose classification and the
// edge-trigger state machine that turns held poses into one-shot events.
package gesture

// Pose is a discrete hand shape.
type Pose string

const (
	PosePinch    Pose = "pinch"
	PoseFist     Pose = "fist"
	PoseOpenHand Pose = "openHand"
	PosePointing Pose = "pointing"
	PoseVictory  Pose = "victory"
	PoseNone     Pose = "none"
)

// Priority lists the poses in tie-break order. When two detected poses
// report the same confidence the one earlier in this list wins. The order
// resolves ambiguous shapes such as a loose fist that also passes the weak
// open-hand test, so it must not change.
var Priority = []Pose{PosePinch, PoseFist, PosePointing, PoseVictory, PoseOpenHand}

// PoseResult is the outcome of one pose test.
type PoseResult struct {
	Gesture    Pose    `json:"gesture"`
	Confidence float64 `json:"confidence"` // 0-1
	Detected   bool    `json:"detected"`
}

// NoPose is the result reported when nothing is detected.
var NoPose = PoseResult{Gesture: PoseNone}
