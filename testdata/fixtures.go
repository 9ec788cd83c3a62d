// Package testdata provides synthetic camera frames for tests, so no
// recorded footage needs to ship with the repository.
package testdata

import "gocv.io/x/gocv"

// SolidFrame returns a single-color BGR frame.
// The caller is responsible for closing the returned Mat.
func SolidFrame(width, height int, b, g, r float64) *gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(b, g, r, 0))
	return &mat
}

// StillSequence returns n identical dark frames: a scene with no motion.
func StillSequence(width, height, n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, SolidFrame(width, height, 16, 16, 16))
	}
	return frames
}

// MotionSequence returns n frames alternating between dark and bright,
// which the motion gate reads as continuous scene activity.
func MotionSequence(width, height, n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			frames = append(frames, SolidFrame(width, height, 16, 16, 16))
		} else {
			frames = append(frames, SolidFrame(width, height, 224, 224, 224))
		}
	}
	return frames
}

// CloseFrames closes every frame in a sequence.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
