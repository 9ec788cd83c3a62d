package detector

import "gocv.io/x/gocv"

// HandDetector defines the interface for hand-landmark estimation
// implementations.
type HandDetector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// HandConfig holds configuration options for hand-landmark estimation.
type HandConfig struct {
	// MaxHands is the maximum number of hands to detect. The interaction
	// engine is single-pointer, so the default is 1.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultHandConfig returns a HandConfig with sensible default values.
func DefaultHandConfig() HandConfig {
	return HandConfig{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
