package gesture

import (
	"sort"

	"github.com/ayusman/mudra/internal/landmark"
)

// Thresholds are the distance limits used by the pose tests, in normalized
// image units. Victory is accepted and validated but no pose test reads it:
// victory is decided by the open and pointing thresholds alone.
type Thresholds struct {
	Pinch    float64 `json:"pinchThreshold" yaml:"pinch_threshold"`
	Fist     float64 `json:"fistThreshold" yaml:"fist_threshold"`
	Open     float64 `json:"openThreshold" yaml:"open_threshold"`
	Pointing float64 `json:"pointingThreshold" yaml:"pointing_threshold"`
	Victory  float64 `json:"victoryThreshold" yaml:"victory_threshold"`
}

// DefaultThresholds returns the thresholds tuned for a webcam at arm's
// length.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Pinch:    0.15,
		Fist:     0.08,
		Open:     0.06,
		Pointing: 0.06,
		Victory:  0.04,
	}
}

// openFraction scales the open threshold for the open-hand test.
const openFraction = 0.7

// Classification holds every pose test result for one hand and the best
// of them.
type Classification struct {
	Best    PoseResult   `json:"best"`
	Results []PoseResult `json:"results"` // in Priority order
}

// Detected reports whether the given pose passed its test.
func (c Classification) Detected(p Pose) bool {
	for _, r := range c.Results {
		if r.Gesture == p {
			return r.Detected
		}
	}
	return false
}

// Classifier maps a landmark set to the best matching pose. It holds no
// per-frame state, so the same input always yields the same result.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Thresholds returns the classifier's thresholds.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify runs all pose tests against points. Anything other than exactly
// NumLandmarks finite points yields NoPose with nothing detected.
func (c *Classifier) Classify(points []landmark.Point3D) Classification {
	hand := landmark.Hand{Points: points}
	if !hand.Valid() {
		results := make([]PoseResult, len(Priority))
		for i, p := range Priority {
			results[i] = PoseResult{Gesture: p}
		}
		return Classification{Best: NoPose, Results: results}
	}

	ext := landmark.FingerExtensions(points)
	results := []PoseResult{
		c.pinch(points),
		c.fist(ext),
		c.pointing(ext),
		c.victory(ext),
		c.openHand(ext),
	}

	return Classification{Best: best(results), Results: results}
}

// best picks the detected result with the highest confidence. Results
// must be in Priority order; the stable sort keeps that order for ties.
func best(results []PoseResult) PoseResult {
	var detected []PoseResult
	for _, r := range results {
		if r.Detected {
			detected = append(detected, r)
		}
	}
	if len(detected) == 0 {
		return NoPose
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Confidence > detected[j].Confidence
	})

	return detected[0]
}

func (c *Classifier) pinch(points []landmark.Point3D) PoseResult {
	d := landmark.Distance3D(points[landmark.ThumbTip], points[landmark.IndexTip])
	return PoseResult{
		Gesture:    PosePinch,
		Detected:   d < c.thresholds.Pinch,
		Confidence: landmark.Clamp(1-ratio(d, c.thresholds.Pinch), 0, 1),
	}
}

func (c *Classifier) fist(ext [4]float64) PoseResult {
	avg := mean(ext)
	return PoseResult{
		Gesture:    PoseFist,
		Detected:   avg < c.thresholds.Fist,
		Confidence: landmark.Clamp(1-ratio(avg, c.thresholds.Fist), 0, 1),
	}
}

func (c *Classifier) openHand(ext [4]float64) PoseResult {
	limit := c.thresholds.Open * openFraction
	extended := 0
	for _, e := range ext {
		if e > limit {
			extended++
		}
	}
	avg := mean(ext)
	return PoseResult{
		Gesture:    PoseOpenHand,
		Detected:   extended >= 1 && avg > limit,
		Confidence: landmark.Clamp(ratio(avg, c.thresholds.Open), 0, 1),
	}
}

func (c *Classifier) pointing(ext [4]float64) PoseResult {
	curled := ext[1] < c.thresholds.Pointing &&
		ext[2] < c.thresholds.Pointing &&
		ext[3] < c.thresholds.Pointing
	return PoseResult{
		Gesture:    PosePointing,
		Detected:   ext[0] > c.thresholds.Open && curled,
		Confidence: landmark.Clamp(ratio(ext[0], c.thresholds.Open), 0, 1),
	}
}

func (c *Classifier) victory(ext [4]float64) PoseResult {
	extended := ext[0] > c.thresholds.Open && ext[1] > c.thresholds.Open
	curled := ext[2] < c.thresholds.Pointing && ext[3] < c.thresholds.Pointing
	return PoseResult{
		Gesture:    PoseVictory,
		Detected:   extended && curled,
		Confidence: landmark.Clamp(ratio(ext[0]+ext[1], 2*c.thresholds.Open), 0, 1),
	}
}

func mean(ext [4]float64) float64 {
	return (ext[0] + ext[1] + ext[2] + ext[3]) / 4
}

// ratio returns d/t, or 0 when the threshold is not positive.
func ratio(d, t float64) float64 {
	if t <= 0 {
		return 0
	}
	return d / t
}
