package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Classification thresholds, in normalized image coordinates.
const (
	okTipDistance    = 0.05
	heartTipDistance = 0.08

	doubleHeartIndexDistance = 0.10
	doubleHeartThumbDistance = 0.15

	swipeMinDistance  = 0.15
	swipeAxisRatio    = 1.5
	swipeMinDuration  = 100 * time.Millisecond
	swipeMaxDuration  = 800 * time.Millisecond
	swipeWindow       = 10
	swipeMinSamples   = 5
	positionHistoryCap = 20
)

type positionSample struct {
	pos detector.Point3D
	t   time.Time
}

// Classifier reduces hand landmarks to symbolic gesture labels. Static
// poses are classified from finger geometry alone; swipes are detected from
// a short palm-center history kept per handedness label, which makes the
// classifier stateful and single-goroutine.
type Classifier struct {
	history map[string][]positionSample
	now     func() time.Time
}

// NewClassifier creates a Classifier with empty motion history.
func NewClassifier() *Classifier {
	return &Classifier{
		history: make(map[string][]positionSample),
		now:     time.Now,
	}
}

// Classify records the hand's palm position and returns its gesture label.
// A detected swipe takes precedence over the static pose for the frame.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Type {
	static := classifyStatic(hand)
	c.record(hand)
	if dynamic := c.detectSwipe(hand.Handedness); dynamic != TypeUnknown {
		return dynamic
	}
	return static
}

// Reset clears the motion history for all hands.
func (c *Classifier) Reset() {
	c.history = make(map[string][]positionSample)
}

// classifyStatic applies the finger-geometry rules. Rule order matters:
// counting rules run before the contact rules (OK, heart) so that, for
// example, an open palm never reads as OK.
func classifyStatic(hand *detector.HandLandmarks) Type {
	fingers := hand.ExtendedFingers()
	thumb := fingers[detector.FingerThumb]
	index := fingers[detector.FingerIndex]
	middle := fingers[detector.FingerMiddle]
	ring := fingers[detector.FingerRing]
	pinky := fingers[detector.FingerPinky]

	extended := 0
	for _, f := range fingers {
		if f {
			extended++
		}
	}

	switch {
	case extended == 0:
		return TypeFist
	case extended == 5:
		return TypeFiveFingers
	case index && !middle && !ring && !pinky:
		return TypeOneFinger
	case index && middle && !ring && !pinky:
		return TypeTwoFingers
	case index && middle && ring && !pinky:
		return TypeThreeFingers
	case index && middle && ring && pinky && !thumb:
		return TypeFourFingers
	case isOKPose(hand):
		return TypeOK
	case thumb && !index && !middle && !ring && !pinky:
		return TypeThumbsUp
	case isHeartPose(hand, middle, ring, pinky):
		return TypeHeart
	case index && pinky && !middle && !ring:
		return TypeRock
	}

	return TypeUnknown
}

// isOKPose reports whether thumb and index tips touch.
func isOKPose(hand *detector.HandLandmarks) bool {
	d := detector.Distance2D(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	return d < okTipDistance
}

// isHeartPose reports a one-hand finger heart: thumb and index tips close
// together with the remaining fingers curled.
func isHeartPose(hand *detector.HandLandmarks, middle, ring, pinky bool) bool {
	if middle || ring || pinky {
		return false
	}
	d := detector.Distance2D(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	return d < heartTipDistance
}

// DetectDoubleHeart reports whether two hands together form a heart: one
// hand of each handedness with index tips within 0.1 and thumb tips within
// 0.15 of each other.
func (c *Classifier) DetectDoubleHeart(hands []detector.HandLandmarks) bool {
	if len(hands) < 2 {
		return false
	}

	var left, right *detector.HandLandmarks
	for i := range hands {
		if hands[i].Handedness == "Left" {
			left = &hands[i]
		} else {
			right = &hands[i]
		}
	}
	if left == nil || right == nil {
		return false
	}

	indexDist := detector.Distance2D(
		left.Points[detector.IndexTip], right.Points[detector.IndexTip])
	thumbDist := detector.Distance2D(
		left.Points[detector.ThumbTip], right.Points[detector.ThumbTip])

	return indexDist < doubleHeartIndexDistance && thumbDist < doubleHeartThumbDistance
}

func (c *Classifier) record(hand *detector.HandLandmarks) {
	key := hand.Handedness
	samples := append(c.history[key], positionSample{pos: hand.PalmCenter(), t: c.now()})
	if len(samples) > positionHistoryCap {
		samples = samples[len(samples)-positionHistoryCap:]
	}
	c.history[key] = samples
}

// detectSwipe looks for a fast, mostly-straight palm movement in the recent
// history of one hand.
func (c *Classifier) detectSwipe(handedness string) Type {
	samples := c.history[handedness]
	if len(samples) > swipeWindow {
		samples = samples[len(samples)-swipeWindow:]
	}
	if len(samples) < swipeMinSamples {
		return TypeUnknown
	}

	first := samples[0]
	last := samples[len(samples)-1]

	elapsed := last.t.Sub(first.t)
	if elapsed < swipeMinDuration || elapsed > swipeMaxDuration {
		return TypeUnknown
	}

	dx := last.pos.X - first.pos.X
	dy := last.pos.Y - first.pos.Y

	switch {
	case abs(dx) > swipeMinDistance && abs(dx) > abs(dy)*swipeAxisRatio:
		if dx > 0 {
			return TypeSwipeRight
		}
		return TypeSwipeLeft
	case abs(dy) > swipeMinDistance && abs(dy) > abs(dx)*swipeAxisRatio:
		if dy > 0 {
			return TypeSwipeDown
		}
		return TypeSwipeUp
	}

	return TypeUnknown
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
