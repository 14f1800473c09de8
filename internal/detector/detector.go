package detector

import "gocv.io/x/gocv"

// Detector turns a video frame into hand landmark sets. The daemon
// runs the MediaPipe-backed implementation; tests substitute
// MockDetector.
type Detector interface {
	// Detect returns every hand found in the frame, up to the
	// configured maximum. Finding no hands is not an error.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config tunes hand detection.
type Config struct {
	// MaxHands caps how many hands a single frame may yield.
	MaxHands int

	// MinConfidence is the floor for accepting a new detection (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the floor for tracking a hand across
	// frames (0.0-1.0). Below it, detection runs again from scratch.
	MinTrackingConf float64
}

// DefaultConfig returns the settings the daemon runs with. Trigger
// dispatch only ever reads one hand, so detection is capped at one.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.6,
		MinTrackingConf: 0.5,
	}
}
