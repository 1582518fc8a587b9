package engine

import (
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
)

// HandSnapshot is the per-hand part of a Snapshot.
type HandSnapshot struct {
	Present  bool                 `json:"present"`
	Pose     gesture.PoseResult   `json:"pose"`
	Poses    []gesture.PoseResult `json:"poses,omitempty"`
	Smoothed []landmark.Point3D   `json:"smoothed,omitempty"`
	Center   landmark.Point3D     `json:"center"`
}

// Snapshot is the engine output for one frame.
type Snapshot struct {
	TimestampMs int64            `json:"timestampMs"`
	Stale       bool             `json:"stale,omitempty"`
	Left        HandSnapshot     `json:"left"`
	Right       HandSnapshot     `json:"right"`
	Events      []gesture.Event  `json:"events"`
	Controls    control.Controls `json:"controls"`
}

// Hand returns the snapshot of one side.
func (s *Snapshot) Hand(side landmark.Handedness) HandSnapshot {
	if side == landmark.Left {
		return s.Left
	}
	return s.Right
}

func (s *Snapshot) setHand(side landmark.Handedness, h HandSnapshot) {
	if side == landmark.Left {
		s.Left = h
	} else {
		s.Right = h
	}
}
