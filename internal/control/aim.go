// Package control maps smoothed hand geometry onto bounded continuous
// control signals: aim, cursor, steering and depth.
package control

import "github.com/ayusman/mudra/internal/landmark"

// AimConfig scales the wrist-to-knuckle direction into an aim vector.
type AimConfig struct {
	Sensitivity float64
	Smoothing   float64
}

// DefaultAimConfig returns sensitivity 2.0 and smoothing 0.9.
func DefaultAimConfig() AimConfig {
	return AimConfig{Sensitivity: 2.0, Smoothing: 0.9}
}

// Aim is a pointing direction. X and Y are in [-1, 1]; Z is in [-1, 0]
// (into the screen). Active is false when there was no usable direction.
type Aim struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Active bool    `json:"active"`
}

// ComputeAim derives the aim from a hand's landmarks.
func ComputeAim(points []landmark.Point3D, cfg AimConfig) Aim {
	dir := landmark.WristToKnuckleDirection(points)
	if dir == (landmark.Point3D{}) {
		return Aim{}
	}

	scale := cfg.Sensitivity * cfg.Smoothing
	return Aim{
		X:      landmark.Clamp(dir.X*scale, -1, 1),
		Y:      landmark.Clamp(dir.Y*scale, -1, 1),
		Z:      landmark.Clamp(dir.Z*scale, -1, 0),
		Active: true,
	}
}
