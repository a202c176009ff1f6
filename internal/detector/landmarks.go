// Package detector provides hand landmark detection interfaces and types.
package detector

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

// Finger indices accepted by IsFingerExtended.
const (
	FingerThumb = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
	NumFingers
)

// fingertipIndex maps a finger index to its tip landmark.
var fingertipIndex = [NumFingers]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D represents a 3D point in normalized image coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents one observed hand: the 21 landmarks reported by
// the detector plus handedness and detection confidence. Coordinates are
// normalized to [0,1] in image space; the struct is immutable once produced
// and owned by the frame that produced it.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PalmCenter returns the approximate palm center: the midpoint of the wrist
// and the middle finger MCP joint.
func (h *HandLandmarks) PalmCenter() Point3D {
	wrist := h.Points[Wrist]
	middleMCP := h.Points[MiddleMCP]
	return Point3D{
		X: (wrist.X + middleMCP.X) / 2,
		Y: (wrist.Y + middleMCP.Y) / 2,
		Z: (wrist.Z + middleMCP.Z) / 2,
	}
}

// Fingertip returns the tip landmark for the given finger index
// (FingerThumb..FingerPinky).
func (h *HandLandmarks) Fingertip(finger int) Point3D {
	if finger < 0 || finger >= NumFingers {
		return Point3D{}
	}
	return h.Points[fingertipIndex[finger]]
}

// Fingertips returns all five fingertip landmarks in thumb-to-pinky order.
func (h *HandLandmarks) Fingertips() []Point3D {
	tips := make([]Point3D, NumFingers)
	for i := range tips {
		tips[i] = h.Points[fingertipIndex[i]]
	}
	return tips
}

// IsFingerExtended reports whether the given finger is extended.
//
// Non-thumb fingers count as extended when the tip sits above the PIP joint
// in screen coordinates (y grows downward). The thumb folds sideways, so it
// compares tip and IP x positions, flipped by handedness.
func (h *HandLandmarks) IsFingerExtended(finger int) bool {
	switch finger {
	case FingerThumb:
		tip := h.Points[ThumbTip]
		ip := h.Points[ThumbIP]
		if h.Handedness == "Right" {
			return tip.X < ip.X
		}
		return tip.X > ip.X
	case FingerIndex:
		return h.Points[IndexTip].Y < h.Points[IndexPIP].Y
	case FingerMiddle:
		return h.Points[MiddleTip].Y < h.Points[MiddlePIP].Y
	case FingerRing:
		return h.Points[RingTip].Y < h.Points[RingPIP].Y
	case FingerPinky:
		return h.Points[PinkyTip].Y < h.Points[PinkyPIP].Y
	}
	return false
}

// ExtendedFingers returns the extension state of all five fingers in
// thumb-to-pinky order.
func (h *HandLandmarks) ExtendedFingers() [NumFingers]bool {
	var out [NumFingers]bool
	for i := 0; i < NumFingers; i++ {
		out[i] = h.IsFingerExtended(i)
	}
	return out
}

// Distance2D returns the Euclidean distance between two landmarks in the
// image plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
