// Package detector provides hand detection interfaces and types for
// finger counting.
package detector

// Landmark indices into HandLandmarks.Points, in MediaPipe hand
// topology order: the wrist first, then each finger from its base
// joint out to the tip.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip

	// NumLandmarks is the number of points in a full hand.
	NumLandmarks
)

// Point3D is one landmark position. X and Y are normalized image
// coordinates; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: its landmark points, which hand
// it is, and the detection confidence.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}
