package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// Object is one object-detection observation: an axis-aligned box in
// source-video pixel space, a class label, and a confidence score in [0,1].
type Object struct {
	Box   image.Rectangle `json:"box"`
	Label string          `json:"label"`
	Score float64         `json:"score"`
}

// ObjectDetector defines the interface for object-detection
// implementations. Callers control the cadence; the engine tolerates the
// result list being stale relative to the current frame.
type ObjectDetector interface {
	// DetectObjects analyzes a video frame and returns the objects found.
	DetectObjects(frame *gocv.Mat) ([]Object, error)

	// Close releases any resources held by the detector.
	Close() error
}

// ObjectConfig holds configuration options for object detection.
type ObjectConfig struct {
	// WeightsPath and ConfigPath locate the YOLO model files, NamesPath
	// the class-name list (one label per line).
	WeightsPath string
	ConfigPath  string
	NamesPath   string

	// InputSize is the square network input resolution.
	InputSize int

	// MinScore is the minimum confidence to report a detection.
	MinScore float64
}

// DefaultObjectConfig returns an ObjectConfig with sensible default values.
func DefaultObjectConfig() ObjectConfig {
	return ObjectConfig{
		InputSize: 416,
		MinScore:  0.5,
	}
}
