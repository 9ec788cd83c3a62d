package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gating constants
const (
	// BlurKernelSize is the Gaussian blur kernel size (21x21)
	BlurKernelSize = 21
	// PixelDiffThreshold is the binary threshold applied to the frame difference
	PixelDiffThreshold = 25
	// DefaultMotionThreshold is the percentage of changed pixels that counts as motion
	DefaultMotionThreshold = 1.0
)

// MotionGate decides whether a scene is active enough to warrant running
// object detection, using frame differencing with Gaussian blur for noise
// reduction. The pipeline drops to its idle detection cadence when the
// gate reports a still scene.
type MotionGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionGate creates a MotionGate with the given threshold. The
// threshold is the percentage of pixels that must change between frames,
// so 1.0 means 1% of pixels.
func NewMotionGate(threshold float64) *MotionGate {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Sample compares a frame against the previous one and reports whether
// the scene is active, along with the percentage of pixels that changed.
// The first frame seeds the baseline and always reports still.
func (m *MotionGate) Sample(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: BlurKernelSize, Y: BlurKernelSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, PixelDiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changePercent > m.threshold, changePercent
}

// Reset clears the baseline so the next frame seeds a fresh one.
func (m *MotionGate) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// Close releases the gate's resources.
func (m *MotionGate) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold updates the motion threshold. Values less than or equal
// to 0 are ignored.
func (m *MotionGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}
