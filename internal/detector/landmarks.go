// Package detector provides the two perception collaborators the
// interaction engine consumes: hand-landmark estimation and object
// detection. Both are black boxes to the engine; this package only
// contracts for their shapes, not their accuracy.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point with x, y, z coordinates. Landmark
// positions are normalized to [0,1] relative to the video frame, with Y
// growing downward.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance returns the Euclidean distance between two landmarks.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Span returns the wrist-to-middle-MCP distance, the proxy for hand size
// used to keep gesture thresholds valid regardless of how far the hand is
// from the camera.
func (h *HandLandmarks) Span() float64 {
	return Distance(h.Points[Wrist], h.Points[MiddleMCP])
}

// Normalize returns a copy of the landmarks with the wrist at the origin
// and positions scaled so the wrist-to-middle-MCP distance is 1.0.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	normalized := &HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	scale := Distance(Point3D{}, normalized.Points[MiddleMCP])
	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}
