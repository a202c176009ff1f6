package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns a scripted sequence of detection results.
type MockDetector struct {
	frames [][]HandLandmarks
	index  int
	err    error
	closed bool
}

// NewMockDetector creates a MockDetector that reports no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands makes every subsequent Detect call return the given hands.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.frames = [][]HandLandmarks{hands}
	m.index = 0
}

// SetSequence queues per-frame results; Detect returns them in order and
// repeats the last entry once the sequence is exhausted.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.frames = frames
	m.index = 0
}

// SetError makes Detect fail with the given error.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next scripted result.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.frames) == 0 {
		return nil, nil
	}
	hands := m.frames[m.index]
	if m.index < len(m.frames)-1 {
		m.index++
	}
	return hands, nil
}

// Close marks the detector as closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	return m.closed
}
