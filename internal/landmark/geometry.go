package landmark

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// degenerateLength is the vector length below which a direction is
// treated as having no signal.
const degenerateLength = 1e-9

func vec(p Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func point(v r3.Vec) Point3D {
	return Point3D{X: v.X, Y: v.Y, Z: v.Z}
}

// at returns the landmark at idx and whether it is usable.
func at(points []Point3D, idx int) (Point3D, bool) {
	if idx < 0 || idx >= len(points) {
		return Point3D{}, false
	}
	p := points[idx]
	return p, p.finite()
}

// Distance3D calculates the Euclidean distance between two points.
// Non-finite input yields 0.
func Distance3D(a, b Point3D) float64 {
	if !a.finite() || !b.finite() {
		return 0
	}
	return r3.Norm(r3.Sub(vec(a), vec(b)))
}

// FingerExtension returns the distance from a fingertip to its MCP joint.
// Larger means more extended. Missing landmarks yield 0.
func FingerExtension(points []Point3D, tip, mcp int) float64 {
	t, ok := at(points, tip)
	if !ok {
		return 0
	}
	m, ok := at(points, mcp)
	if !ok {
		return 0
	}
	return Distance3D(t, m)
}

// FingerExtensions returns the extension of the four non-thumb fingers in
// index, middle, ring, pinky order.
func FingerExtensions(points []Point3D) [4]float64 {
	var ext [4]float64
	for i := range FingerTips {
		ext[i] = FingerExtension(points, FingerTips[i], FingerMCPs[i])
	}
	return ext
}

// HandCenter returns the mean of the wrist and the four non-thumb MCPs.
// If any of them is missing the zero point is returned.
func HandCenter(points []Point3D) Point3D {
	idx := [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	xs := make([]float64, 0, len(idx))
	ys := make([]float64, 0, len(idx))
	zs := make([]float64, 0, len(idx))
	for _, i := range idx {
		p, ok := at(points, i)
		if !ok {
			return Point3D{}
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		zs = append(zs, p.Z)
	}
	return Point3D{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Z: stat.Mean(zs, nil)}
}

// WristToKnuckleDirection returns the unit vector from the wrist to the
// index MCP. It is the primary aiming axis because it does not move when
// the fingers curl. Degenerate or missing input yields the zero vector.
func WristToKnuckleDirection(points []Point3D) Point3D {
	w, ok := at(points, Wrist)
	if !ok {
		return Point3D{}
	}
	k, ok := at(points, IndexMCP)
	if !ok {
		return Point3D{}
	}
	return Unit(point(r3.Sub(vec(k), vec(w))))
}

// Unit scales p to length 1. Vectors shorter than the degenerate length
// return the zero vector instead of NaN.
func Unit(p Point3D) Point3D {
	if !p.finite() {
		return Point3D{}
	}
	v := vec(p)
	if r3.Norm(v) < degenerateLength {
		return Point3D{}
	}
	return point(r3.Unit(v))
}

// AverageDepth returns the mean Z over all finite landmarks, 0 if none.
func AverageDepth(points []Point3D) float64 {
	zs := make([]float64, 0, len(points))
	for _, p := range points {
		if p.finite() {
			zs = append(zs, p.Z)
		}
	}
	if len(zs) == 0 {
		return 0
	}
	return stat.Mean(zs, nil)
}

// WristAngle returns the angle in radians of the line from a to b in the
// image plane. Coincident or non-finite points yield 0.
func WristAngle(a, b Point3D) float64 {
	if !a.finite() || !b.finite() {
		return 0
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Hypot(dx, dy) < degenerateLength {
		return 0
	}
	return math.Atan2(dy, dx)
}

// Clamp limits v to [lo, hi]. NaN is treated as 0 before clamping.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
