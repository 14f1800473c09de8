// Package testutil synthesizes video frames for pipeline tests. Frames
// are generated rather than loaded from disk so tests stay independent
// of any capture hardware or fixture files.
package testutil

import (
	"gocv.io/x/gocv"
)

const (
	frameWidth  = 640
	frameHeight = 480
)

// SolidFrame returns a frame filled with a single gray value (0-255).
func SolidFrame(value float64) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(value, value, value, 0),
		frameHeight, frameWidth, gocv.MatTypeCV8UC3,
	)
	return &mat
}

// AlternatingFrames returns n frames that flip between black and white.
// Every consecutive pair differs in all pixels, so feeding them through
// a motion detector reports maximal motion on each frame.
func AlternatingFrames(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		value := 0.0
		if i%2 == 1 {
			value = 255.0
		}
		frames = append(frames, SolidFrame(value))
	}
	return frames
}

// StaticFrames returns n identical mid-gray frames. Consecutive frames
// are pixel-for-pixel equal, so a motion detector sees a still scene.
func StaticFrames(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, SolidFrame(128.0))
	}
	return frames
}

// CloseFrames releases every frame in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
