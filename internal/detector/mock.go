package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Finger column x positions and the raised/folded y profiles used by the
// preset hands. Values follow normalized image coordinates with the
// origin at the top left.
var fingerColumns = [4]float64{0.55, 0.50, 0.45, 0.40} // index, middle, ring, pinky

// FingerCountLandmarks returns a preset HandLandmarks showing exactly
// count raised fingers, 0..5, for the given handedness ("Right" or
// "Left"). Fingers raise in counting order: index, middle, ring, pinky,
// then thumb. Counts outside 0..5 are clamped.
func FingerCountLandmarks(count int, handedness string) HandLandmarks {
	if count < 0 {
		count = 0
	}
	if count > 5 {
		count = 5
	}

	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb raises only for a full hand of five. Extended means the tip
	// crosses inward past the IP joint along x; folded tucks the tip
	// back toward the palm.
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	if count == 5 {
		landmarks.Points[ThumbMCP] = Point3D{X: 0.48, Y: 0.70, Z: 0.0}
		landmarks.Points[ThumbIP] = Point3D{X: 0.42, Y: 0.66, Z: 0.0}
		landmarks.Points[ThumbTip] = Point3D{X: 0.36, Y: 0.63, Z: 0.0}
	} else {
		landmarks.Points[ThumbMCP] = Point3D{X: 0.52, Y: 0.70, Z: 0.0}
		landmarks.Points[ThumbIP] = Point3D{X: 0.50, Y: 0.68, Z: 0.0}
		landmarks.Points[ThumbTip] = Point3D{X: 0.53, Y: 0.70, Z: 0.0}
	}

	// The four fingers share a raised profile (tip well above PIP) and a
	// folded profile (tip curled below PIP).
	joints := [4][4]int{
		{IndexMCP, IndexPIP, IndexDIP, IndexTip},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}
	for i, j := range joints {
		x := fingerColumns[i]
		landmarks.Points[j[0]] = Point3D{X: x, Y: 0.68, Z: 0.0}
		if i < count { // raised
			landmarks.Points[j[1]] = Point3D{X: x, Y: 0.55, Z: 0.0}
			landmarks.Points[j[2]] = Point3D{X: x, Y: 0.45, Z: 0.0}
			landmarks.Points[j[3]] = Point3D{X: x, Y: 0.35, Z: 0.0}
		} else { // folded
			landmarks.Points[j[1]] = Point3D{X: x, Y: 0.66, Z: -0.03}
			landmarks.Points[j[2]] = Point3D{X: x - 0.03, Y: 0.70, Z: -0.04}
			landmarks.Points[j[3]] = Point3D{X: x - 0.05, Y: 0.72, Z: -0.02}
		}
	}

	if handedness == "Left" {
		return mirrorHand(landmarks)
	}
	return landmarks
}

// FistLandmarks returns a preset HandLandmarks with no raised fingers.
func FistLandmarks() HandLandmarks {
	return FingerCountLandmarks(0, "Right")
}

// OpenPalmLandmarks returns a preset HandLandmarks with all five
// fingers raised.
func OpenPalmLandmarks() HandLandmarks {
	return FingerCountLandmarks(5, "Right")
}

// mirrorHand reflects a right-hand pose across the vertical midline,
// producing the matching left-hand pose.
func mirrorHand(h HandLandmarks) HandLandmarks {
	h.Handedness = "Left"
	for i := range h.Points {
		h.Points[i].X = 1.0 - h.Points[i].X
	}
	return h
}
