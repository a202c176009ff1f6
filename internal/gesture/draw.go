package gesture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// handConnections lists the landmark pairs joined when drawing a skeleton.
var handConnections = [][2]int{
	// Thumb
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	// Index
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	// Middle
	{detector.MiddleMCP, detector.MiddlePIP}, {detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},
	// Ring
	{detector.RingMCP, detector.RingPIP}, {detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},
	// Pinky
	{detector.Wrist, detector.PinkyMCP}, {detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP}, {detector.PinkyDIP, detector.PinkyTip},
	// Palm
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.PinkyMCP},
}

var (
	jointColor = color.RGBA{G: 255, A: 255}
	boneColor  = color.RGBA{G: 255, B: 255, A: 255}
)

// DrawLandmarks draws the most recently detected hand skeletons onto frame,
// in place. It is a no-op when the last frame had no hands.
func (s *Service) DrawLandmarks(frame *gocv.Mat) {
	s.mu.Lock()
	hands := s.lastLandmarks
	s.mu.Unlock()

	for i := range hands {
		drawHand(frame, &hands[i])
	}
}

func drawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	cols := frame.Cols()
	rows := frame.Rows()

	points := make([]image.Point, detector.NumLandmarks)
	for i, p := range hand.Points {
		points[i] = image.Pt(int(p.X*float64(cols)), int(p.Y*float64(rows)))
	}

	for _, conn := range handConnections {
		gocv.Line(frame, points[conn[0]], points[conn[1]], boneColor, 2)
	}
	for _, p := range points {
		gocv.Circle(frame, p, 4, jointColor, -1)
	}
}
