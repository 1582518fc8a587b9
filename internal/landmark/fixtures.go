package landmark

import "math"

// Preset hands used by tests and by the replay tool's synthetic session.
// Every preset is a right hand with the palm facing the camera, fingers
// pointing up (Y decreases going up) and all points at Z = 0. Finger
// extensions are exact so classifier thresholds can be reasoned about.

var presetMCPs = [4]Point3D{
	{X: 0.56, Y: 0.62}, // index
	{X: 0.51, Y: 0.60}, // middle
	{X: 0.46, Y: 0.61}, // ring
	{X: 0.42, Y: 0.64}, // pinky
}

// BuildHand returns a right hand whose four non-thumb fingers extend
// straight up from their MCP joints by the given distances (index, middle,
// ring, pinky), with the thumb tip at thumbTip.
func BuildHand(ext [4]float64, thumbTip Point3D) Hand {
	h := Hand{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: Right,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.59, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.68}
	h.Points[ThumbTip] = thumbTip

	for f, mcp := range presetMCPs {
		base := FingerMCPs[f]
		h.Points[base] = mcp
		for j := 1; j <= 3; j++ {
			h.Points[base+j] = Point3D{X: mcp.X, Y: mcp.Y - ext[f]*float64(j)/3, Z: mcp.Z}
		}
	}

	return h
}

// tuckedThumb keeps the thumb tip well away from the index tip so curled
// presets do not read as a pinch.
var tuckedThumb = Point3D{X: 0.66, Y: 0.74}

// OpenPalmLandmarks returns a hand with all fingers extended.
func OpenPalmLandmarks() Hand {
	return BuildHand([4]float64{0.20, 0.22, 0.20, 0.16}, Point3D{X: 0.70, Y: 0.62})
}

// FistLandmarks returns a closed hand: every fingertip is 0.03 from its MCP.
func FistLandmarks() Hand {
	return BuildHand([4]float64{0.03, 0.03, 0.03, 0.03}, tuckedThumb)
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() Hand {
	return BuildHand([4]float64{0.20, 0.03, 0.03, 0.03}, tuckedThumb)
}

// VictoryLandmarks returns a hand with index and middle extended and
// spread apart, ring and pinky curled.
func VictoryLandmarks() Hand {
	return BuildHand([4]float64{0.20, 0.22, 0.03, 0.03}, tuckedThumb)
}

// PinchLandmarks returns a hand whose thumb tip sits at (0.50, 0.50) and
// index tip at (0.51, 0.50), 0.01 apart, with the remaining fingers curled.
func PinchLandmarks() Hand {
	h := BuildHand([4]float64{0.03, 0.03, 0.03, 0.03}, Point3D{X: 0.50, Y: 0.50})
	mcp := Point3D{X: 0.53, Y: 0.55}
	tip := Point3D{X: 0.51, Y: 0.50}
	h.Points[IndexMCP] = mcp
	h.Points[IndexPIP] = lerpPoint(mcp, tip, 1.0/3)
	h.Points[IndexDIP] = lerpPoint(mcp, tip, 2.0/3)
	h.Points[IndexTip] = tip
	return h
}

func lerpPoint(a, b Point3D, t float64) Point3D {
	return Point3D{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Translate returns a copy of h with every point offset by d.
func Translate(h Hand, d Point3D) Hand {
	out := *h.Clone()
	for i := range out.Points {
		out.Points[i].X += d.X
		out.Points[i].Y += d.Y
		out.Points[i].Z += d.Z
	}
	return out
}

// Rotate returns a copy of h rotated in the image plane by angle radians
// around center.
func Rotate(h Hand, center Point3D, angle float64) Hand {
	out := *h.Clone()
	sin, cos := math.Sincos(angle)
	for i, p := range out.Points {
		dx, dy := p.X-center.X, p.Y-center.Y
		out.Points[i].X = center.X + dx*cos - dy*sin
		out.Points[i].Y = center.Y + dx*sin + dy*cos
	}
	return out
}

// WithHandedness returns a copy of h labelled as side.
func WithHandedness(h Hand, side Handedness) Hand {
	out := *h.Clone()
	out.Handedness = side
	return out
}
