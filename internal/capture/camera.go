// Package capture provides camera capture and motion gating using GoCV
// (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrZoomUnsupported is returned by SetZoom when the device has no usable
// hardware zoom. The interaction router treats it like any other zoom
// failure and falls back to the software HUD scale.
var ErrZoomUnsupported = errors.New("hardware zoom not supported")

// Camera defines the interface for camera capture implementations. The
// zoom methods double as the engine's ZoomControl.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool

	SupportsZoom() bool
	ZoomRange() (min, max float64)
	SetZoom(level float64) error
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int

	zoomProbed bool
	zoomOK     bool
	zoomMin    float64
	zoomMax    float64
}

// NewCamera creates a new Camera with the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

// Open opens the camera for capturing frames at 1280x720.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true
	c.zoomProbed = false

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
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

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
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

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// SupportsZoom probes the device's zoom property once per open.
func (c *cameraImpl) SupportsZoom() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.probeZoom()
}

// ZoomRange returns the hardware zoom bounds. UVC cameras report zoom as
// an absolute control value; 100..500 covers the common 1x-5x span.
func (c *cameraImpl) ZoomRange() (min, max float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.probeZoom() {
		return 0, 0
	}
	return c.zoomMin, c.zoomMax
}

// SetZoom applies a hardware zoom level, verifying the device honored it.
func (c *cameraImpl) SetZoom(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return ErrCameraNotOpen
	}
	if !c.probeZoom() {
		return ErrZoomUnsupported
	}

	c.capture.Set(gocv.VideoCaptureZoom, level)
	if got := c.capture.Get(gocv.VideoCaptureZoom); got <= 0 {
		return fmt.Errorf("device did not honor zoom level %f", level)
	}
	return nil
}

// probeZoom checks whether the device exposes a readable zoom control.
// Caller must hold the mutex.
func (c *cameraImpl) probeZoom() bool {
	if c.zoomProbed {
		return c.zoomOK
	}
	c.zoomProbed = true

	if !c.running || c.capture == nil {
		return false
	}

	// Devices without the control report 0 or -1.
	if c.capture.Get(gocv.VideoCaptureZoom) <= 0 {
		c.zoomOK = false
		return false
	}

	c.zoomOK = true
	c.zoomMin = 100
	c.zoomMax = 500
	return true
}
