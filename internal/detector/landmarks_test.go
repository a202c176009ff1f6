package detector

import (
	"math"
	"testing"
)

func TestIsFingerExtended_Fist(t *testing.T) {
	h := FistLandmarks()
	for f := FingerThumb; f <= FingerPinky; f++ {
		if h.IsFingerExtended(f) {
			t.Errorf("finger %d should be curled in a fist", f)
		}
	}
}

func TestIsFingerExtended_OpenPalm(t *testing.T) {
	h := OpenPalmLandmarks()
	for f := FingerThumb; f <= FingerPinky; f++ {
		if !h.IsFingerExtended(f) {
			t.Errorf("finger %d should be extended in an open palm", f)
		}
	}
}

func TestIsFingerExtended_ThumbHandedness(t *testing.T) {
	h := ThumbsUpLandmarks()
	if !h.IsFingerExtended(FingerThumb) {
		t.Fatal("right-hand thumb should be extended")
	}

	// Same geometry labeled as a left hand flips the thumb rule.
	h.Handedness = "Left"
	if h.IsFingerExtended(FingerThumb) {
		t.Error("left-hand thumb with right-hand geometry should not be extended")
	}
}

func TestPalmCenter(t *testing.T) {
	h := FistLandmarks()
	c := h.PalmCenter()

	wantX := (h.Points[Wrist].X + h.Points[MiddleMCP].X) / 2
	wantY := (h.Points[Wrist].Y + h.Points[MiddleMCP].Y) / 2

	if math.Abs(c.X-wantX) > 1e-9 || math.Abs(c.Y-wantY) > 1e-9 {
		t.Errorf("palm center = (%f, %f), want (%f, %f)", c.X, c.Y, wantX, wantY)
	}
}

func TestFingertip(t *testing.T) {
	h := OneFingerLandmarks()

	if got := h.Fingertip(FingerIndex); got != h.Points[IndexTip] {
		t.Errorf("Fingertip(FingerIndex) = %v, want %v", got, h.Points[IndexTip])
	}

	if got := h.Fingertip(-1); got != (Point3D{}) {
		t.Errorf("Fingertip(-1) = %v, want zero point", got)
	}

	tips := h.Fingertips()
	if len(tips) != NumFingers {
		t.Fatalf("Fingertips() returned %d tips, want %d", len(tips), NumFingers)
	}
}

func TestDistance2D_IgnoresDepth(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 1.0}
	b := Point3D{X: 0.3, Y: 0.4, Z: -1.0}

	if got := Distance2D(a, b); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Distance2D = %f, want 0.5", got)
	}
}

func TestTranslatedHand(t *testing.T) {
	h := FistLandmarks()
	moved := TranslatedHand(h, 0.1, -0.2)

	if moved.Points[Wrist].X != h.Points[Wrist].X+0.1 {
		t.Errorf("wrist x = %f, want %f", moved.Points[Wrist].X, h.Points[Wrist].X+0.1)
	}
	if moved.Points[Wrist].Y != h.Points[Wrist].Y-0.2 {
		t.Errorf("wrist y = %f, want %f", moved.Points[Wrist].Y, h.Points[Wrist].Y-0.2)
	}
	// Original must be untouched.
	if h.Points[Wrist].X != 0.50 {
		t.Error("TranslatedHand mutated its input")
	}
}
