package detector

import "gocv.io/x/gocv"

// Detector is the landmark collaborator contract: given one preprocessed
// frame it returns zero or more observed hands. Implementations must be safe
// to call from a single processing goroutine.
type Detector interface {
	// Detect analyzes a video frame and returns the hands found in it.
	// An empty slice means no hands; a non-nil error means the frame
	// could not be analyzed and should be skipped.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds detection tuning parameters.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
