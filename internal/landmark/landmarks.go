// Package landmark provides the hand landmark data model and the geometry
// helpers computed from it.
package landmark

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips and FingerMCPs list the four non-thumb fingers in
// index, middle, ring, pinky order.
var (
	FingerTips = [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}
	FingerMCPs = [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
)

// Handedness identifies which hand an observation belongs to.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// Point3D represents a landmark in normalized image space. X and Y are in
// [0,1]; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// finite reports whether all coordinates are real numbers.
func (p Point3D) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}

// Hand is a single hand observation as produced by the pose estimator.
// Points is a slice rather than an array so that malformed observations
// survive decoding and can be rejected by Valid.
type Hand struct {
	Points     []Point3D  `json:"points"`
	Handedness Handedness `json:"handedness"`
	Score      float64    `json:"score"`
}

// Valid reports whether the hand has exactly NumLandmarks finite points.
func (h *Hand) Valid() bool {
	if h == nil || len(h.Points) != NumLandmarks {
		return false
	}
	for _, p := range h.Points {
		if !p.finite() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the hand.
func (h *Hand) Clone() *Hand {
	if h == nil {
		return nil
	}
	c := *h
	c.Points = append([]Point3D(nil), h.Points...)
	return &c
}

// Frame is one input tick. Either hand may be nil.
type Frame struct {
	Left        *Hand `json:"left,omitempty"`
	Right       *Hand `json:"right,omitempty"`
	TimestampMs int64 `json:"timestampMs"`
}

// Hand returns the observation for the given side, or nil.
func (f *Frame) Hand(side Handedness) *Hand {
	if f == nil {
		return nil
	}
	if side == Left {
		return f.Left
	}
	return f.Right
}
