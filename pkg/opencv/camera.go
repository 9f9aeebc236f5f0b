package opencv

import (
	"fmt"
	"sync"

	"github.com/teslashibe/screenguard/pkg/detection"
	"github.com/teslashibe/screenguard/pkg/session"
	"gocv.io/x/gocv"
)

// CameraConfig holds webcam capture settings.
type CameraConfig struct {
	Device    int // Video device index
	Width     int // Requested frame width, 0 keeps the driver default
	Height    int // Requested frame height, 0 keeps the driver default
	Framerate int // Requested FPS
}

// DefaultCameraConfig returns the default webcam at 15 FPS.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Device:    0,
		Width:     640,
		Height:    480,
		Framerate: 15,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *CameraConfig) Validate() []string {
	var errors []string

	if c.Device < 0 {
		errors = append(errors, "device must be >= 0")
	}
	if c.Width != 0 && (c.Width < 160 || c.Width > 4096) {
		errors = append(errors, "width must be 0 or between 160 and 4096")
	}
	if c.Height != 0 && (c.Height < 120 || c.Height > 2160) {
		errors = append(errors, "height must be 0 or between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		errors = append(errors, "framerate must be between 1 and 120")
	}

	return errors
}

// Camera reads frames from a local webcam. It implements session.FrameSource.
type Camera struct {
	capture *gocv.VideoCapture
	img     gocv.Mat
	config  CameraConfig
	mu      sync.Mutex
	closed  bool
}

// OpenCamera opens the configured webcam.
func OpenCamera(cfg CameraConfig) (*Camera, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %v", errs)
	}

	capture, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open camera %d: device not available", cfg.Device)
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	capture.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Camera{
		capture: capture,
		img:     gocv.NewMat(),
		config:  cfg,
	}, nil
}

// Next reads one frame. A closed or released capture reports
// session.ErrEndOfStream; a failed read on an open one reports
// session.ErrFrameDropped.
func (c *Camera) Next() (detection.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.capture.IsOpened() {
		return detection.Frame{}, session.ErrEndOfStream
	}
	if ok := c.capture.Read(&c.img); !ok || c.img.Empty() {
		return detection.Frame{}, session.ErrFrameDropped
	}
	return toFrame(c.img)
}

// Close releases the webcam.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.img.Close()
	return c.capture.Close()
}
