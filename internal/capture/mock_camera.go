package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing. Its zoom control
// is scriptable so router fallback paths can be exercised.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool

	zoomSupported bool
	zoomErr       error
	zoomLevels    []float64
}

// NewMockCamera creates a MockCamera that plays the given frames.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

// Open marks the camera as running and rewinds playback.
func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

// Close marks the camera as stopped.
func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// ReadFrame returns the next pre-recorded frame.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	// Clone the frame so the original isn't modified
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return 15 }

// IsOpen reports whether the camera has been opened.
func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Reset restarts playback from the beginning
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}

// SetZoomSupported controls what SupportsZoom reports.
func (c *MockCamera) SetZoomSupported(supported bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoomSupported = supported
}

// SetZoomError makes subsequent SetZoom calls fail with err.
func (c *MockCamera) SetZoomError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoomErr = err
}

// ZoomLevels returns every level successfully applied via SetZoom.
func (c *MockCamera) ZoomLevels() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.zoomLevels...)
}

// SupportsZoom reports the scripted zoom capability.
func (c *MockCamera) SupportsZoom() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoomSupported
}

// ZoomRange returns a fixed 100..500 range.
func (c *MockCamera) ZoomRange() (min, max float64) {
	return 100, 500
}

// SetZoom records the requested level or fails with the scripted error.
func (c *MockCamera) SetZoom(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.zoomSupported {
		return ErrZoomUnsupported
	}
	if c.zoomErr != nil {
		return c.zoomErr
	}
	c.zoomLevels = append(c.zoomLevels, level)
	return nil
}
