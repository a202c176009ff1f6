// Package capture provides camera capture and frame preprocessing using
// GoCV (OpenCV).
package capture

import (
	"errors"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings.
const (
	DefaultDeviceID = 0
	DefaultWidth    = 640
	DefaultHeight   = 480
	DefaultFPS      = 30
)

// ErrNotRunning is returned when reading from a camera that is not started.
var ErrNotRunning = errors.New("camera is not running")

// Config holds camera parameters, usually loaded from the settings file.
type Config struct {
	DeviceID int  `json:"device_id"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	FPS      int  `json:"fps"`
	Mirror   bool `json:"mirror"`
}

// DefaultConfig returns the camera settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		DeviceID: DefaultDeviceID,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Mirror:   true,
	}
}

// Camera is the capture collaborator of the pipeline. GetFrame hands
// ownership of the returned Mat to the caller.
type Camera interface {
	Start() error
	Stop() error
	GetFrame() (*gocv.Mat, error)
	PreprocessForDetection(frame *gocv.Mat) *gocv.Mat
	IsRunning() bool
}

type cameraImpl struct {
	config Config

	mu      sync.Mutex
	capture *gocv.VideoCapture
	running bool
}

// NewCamera creates a Camera over the configured video device.
func NewCamera(config Config) Camera {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	return &cameraImpl{config: config}
}

// Start opens the video device and applies the configured resolution.
func (c *cameraImpl) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return err
	}
	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.config.FPS))

	c.capture = capture
	c.running = true
	return nil
}

// Stop closes the video device.
func (c *cameraImpl) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	c.running = false
	return err
}

// GetFrame reads one BGR frame, mirrored when configured so on-screen
// motion matches the user's. The caller must Close the returned Mat.
func (c *cameraImpl) GetFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrNotRunning
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	if c.config.Mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &mat, nil
}

// PreprocessForDetection converts a BGR frame into the RGB, lightly blurred
// image the landmark detector expects. The caller owns the returned Mat;
// the input is left untouched.
func (c *cameraImpl) PreprocessForDetection(frame *gocv.Mat) *gocv.Mat {
	prepped := gocv.NewMat()
	gocv.CvtColor(*frame, &prepped, gocv.ColorBGRToRGB)
	gocv.GaussianBlur(prepped, &prepped, image.Pt(3, 3), 0, 0, gocv.BorderDefault)
	return &prepped
}

// IsRunning reports whether the device is open.
func (c *cameraImpl) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
