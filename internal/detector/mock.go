package detector

import (
	"gocv.io/x/gocv"
)

// MockHandDetector is a test implementation of the HandDetector interface.
// It allows tests to control the detection results.
type MockHandDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockHandDetector creates a new MockHandDetector instance.
func NewMockHandDetector() *MockHandDetector {
	return &MockHandDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockHandDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockHandDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockHandDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockHandDetector) Close() error {
	return nil
}

// MockObjectDetector is a test implementation of the ObjectDetector
// interface.
type MockObjectDetector struct {
	objects []Object
	err     error
}

// NewMockObjectDetector creates a new MockObjectDetector instance.
func NewMockObjectDetector() *MockObjectDetector {
	return &MockObjectDetector{}
}

// SetObjects sets the objects that will be returned by DetectObjects.
func (m *MockObjectDetector) SetObjects(objects []Object) {
	m.objects = objects
}

// SetError sets the error that will be returned by DetectObjects.
func (m *MockObjectDetector) SetError(err error) {
	m.err = err
}

// DetectObjects returns the pre-configured objects or error.
func (m *MockObjectDetector) DetectObjects(frame *gocv.Mat) ([]Object, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.objects, nil
}

// Close is a no-op for the mock detector.
func (m *MockObjectDetector) Close() error {
	return nil
}

// PinchLandmarks returns a preset HandLandmarks with the thumb and index
// fingertips touching, a held pinch.
func PinchLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb curled in to meet the index fingertip
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.68, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.58, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.50, Z: 0.0}

	// Index finger reaching down to the thumb
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.58, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.557, Y: 0.53, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.555, Y: 0.51, Z: 0.0}

	// Remaining fingers relaxed upward
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.55, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.47, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.44, Y: 0.57, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.43, Y: 0.49, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.43, Y: 0.43, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.39, Y: 0.62, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.56, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.51, Z: 0.0}

	return landmarks
}

// PointUpLandmarks returns a preset HandLandmarks with the index finger
// extended upward and the other fingers curled, the point-up trigger pose.
func PointUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb off to the side, well away from the index tip
	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.73, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.71, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.63, Y: 0.70, Z: 0.0}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.54, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.44, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.50, Y: 0.35, Z: 0.0}

	// Middle finger curled
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	// Ring finger curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return landmarks
}

// RelaxedLandmarks returns a preset HandLandmarks of a loosely half-curled
// hand: no pinch, no point, no open palm. Useful as the "released" pose in
// tests.
func RelaxedLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.73, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.71, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.63, Y: 0.70, Z: 0.0}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.60, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.545, Y: 0.61, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.54, Y: 0.64, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.58, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.495, Y: 0.60, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.49, Y: 0.63, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.60, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.445, Y: 0.62, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.44, Y: 0.65, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.65, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.395, Y: 0.67, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.70, Z: 0.0}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open
// palm. All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}
