package detector

// Synthesized hand poses for tests. Coordinates are normalized image
// coordinates with y growing downward, wrist near the bottom of the frame.
// The poses are built to satisfy IsFingerExtended rather than to look
// anatomically exact.

// fingerColumns is the x position of each non-thumb finger column for a
// right hand facing the camera.
var fingerColumns = [NumFingers]float64{0, 0.55, 0.50, 0.45, 0.40}

// baseHand returns a right hand with every finger curled (a fist).
func baseHand() HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb curled: tip x greater than IP x for a right hand.
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70}
	h.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.66}
	h.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.70}

	// Non-thumb fingers curled: tip below the PIP joint.
	joints := [NumFingers][4]int{
		{},
		{IndexMCP, IndexPIP, IndexDIP, IndexTip},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}
	for f := FingerIndex; f <= FingerPinky; f++ {
		x := fingerColumns[f]
		h.Points[joints[f][0]] = Point3D{X: x, Y: 0.65}
		h.Points[joints[f][1]] = Point3D{X: x, Y: 0.62}
		h.Points[joints[f][2]] = Point3D{X: x, Y: 0.66}
		h.Points[joints[f][3]] = Point3D{X: x, Y: 0.70}
	}

	return h
}

// extendFinger rewrites one finger of h into an extended position.
func extendFinger(h *HandLandmarks, finger int) {
	switch finger {
	case FingerThumb:
		// Extended: tip x smaller than IP x for a right hand.
		h.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.64}
		h.Points[ThumbTip] = Point3D{X: 0.62, Y: 0.60}
	case FingerIndex:
		extendColumn(h, fingerColumns[FingerIndex], IndexMCP, IndexPIP, IndexDIP, IndexTip)
	case FingerMiddle:
		extendColumn(h, fingerColumns[FingerMiddle], MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip)
	case FingerRing:
		extendColumn(h, fingerColumns[FingerRing], RingMCP, RingPIP, RingDIP, RingTip)
	case FingerPinky:
		extendColumn(h, fingerColumns[FingerPinky], PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip)
	}
}

func extendColumn(h *HandLandmarks, x float64, mcp, pip, dip, tip int) {
	h.Points[mcp] = Point3D{X: x, Y: 0.65}
	h.Points[pip] = Point3D{X: x, Y: 0.52}
	h.Points[dip] = Point3D{X: x, Y: 0.42}
	h.Points[tip] = Point3D{X: x, Y: 0.32}
}

// poseWith returns a right hand with exactly the given fingers extended.
func poseWith(fingers ...int) HandLandmarks {
	h := baseHand()
	for _, f := range fingers {
		extendFinger(&h, f)
	}
	return h
}

// FistLandmarks returns a fist: no fingers extended.
func FistLandmarks() HandLandmarks {
	return baseHand()
}

// OpenPalmLandmarks returns an open palm with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return poseWith(FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerPinky)
}

// ThumbsUpLandmarks returns a thumbs-up: only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return poseWith(FingerThumb)
}

// OneFingerLandmarks returns a pointing index finger.
func OneFingerLandmarks() HandLandmarks {
	return poseWith(FingerIndex)
}

// TwoFingersLandmarks returns a V sign: index and middle extended.
func TwoFingersLandmarks() HandLandmarks {
	return poseWith(FingerIndex, FingerMiddle)
}

// ThreeFingersLandmarks returns index, middle and ring extended.
func ThreeFingersLandmarks() HandLandmarks {
	return poseWith(FingerIndex, FingerMiddle, FingerRing)
}

// FourFingersLandmarks returns all fingers but the thumb extended.
func FourFingersLandmarks() HandLandmarks {
	return poseWith(FingerIndex, FingerMiddle, FingerRing, FingerPinky)
}

// RockLandmarks returns the horns sign: index and pinky extended.
func RockLandmarks() HandLandmarks {
	return poseWith(FingerIndex, FingerPinky)
}

// OKLandmarks returns an OK sign: thumb and index tips touching, the
// remaining fingers extended.
func OKLandmarks() HandLandmarks {
	h := poseWith(FingerMiddle, FingerRing, FingerPinky)

	// Index curled but reaching toward the thumb.
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.65}
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.50}
	h.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.55}
	h.Points[IndexTip] = Point3D{X: 0.59, Y: 0.60}

	// Thumb curled, tip next to the index tip.
	h.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.62}
	h.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.58}

	return h
}

// HeartHalfLandmarks returns one half of a two-hand heart for the given
// handedness. Combining a Left and a Right half puts the index tips within
// 0.1 and the thumb tips within 0.15 of each other.
func HeartHalfLandmarks(handedness string) HandLandmarks {
	h := baseHand()
	h.Handedness = handedness

	if handedness == "Left" {
		h.Points[Wrist] = Point3D{X: 0.62, Y: 0.80}
		h.Points[MiddleMCP] = Point3D{X: 0.52, Y: 0.62}
		h.Points[IndexTip] = Point3D{X: 0.52, Y: 0.40}
		h.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.50}
	} else {
		h.Points[Wrist] = Point3D{X: 0.38, Y: 0.80}
		h.Points[MiddleMCP] = Point3D{X: 0.48, Y: 0.62}
		h.Points[IndexTip] = Point3D{X: 0.48, Y: 0.40}
		h.Points[ThumbTip] = Point3D{X: 0.45, Y: 0.50}
	}

	return h
}

// TranslatedHand returns a copy of h with every landmark shifted by (dx, dy).
// Useful for scripting swipe trajectories.
func TranslatedHand(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}
