// Package capture reads video frames from a camera device and watches
// them for scene motion. It is the signal source for the daemon: frames
// flow from here into hand detection, and the motion detector decides
// how often that needs to happen.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Capture defaults. 640x480 keeps per-frame work cheap, and 5 FPS is
// enough while nothing is moving in front of the lens.
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when reading from a camera that has not
// been opened or has already been closed.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the frame source the pipeline polls. The production
// implementation wraps a webcam; tests substitute MockCamera.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// webcam reads frames from a physical camera device through GoCV.
type webcam struct {
	deviceID int

	mu      sync.Mutex
	capture *gocv.VideoCapture
	running bool
	fps     int
}

// NewCamera returns a Camera for the given device ID. Capture starts at
// DefaultFPS; the pipeline raises the rate once the scene becomes active.
func NewCamera(deviceID int) Camera {
	return &webcam{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

// Open claims the device and applies the capture resolution.
// Opening an already open camera is a no-op.
func (c *webcam) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("failed to open camera device %d: %w", c.deviceID, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	vc.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	vc.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = vc
	c.running = true

	return nil
}

// Close releases the device. Closing a camera that was never opened is
// a no-op.
func (c *webcam) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame grabs the next frame, mirrored to selfie view so the image
// matches what the user sees of themselves. Hand detection relies on
// the mirroring: handedness labels are assigned in the flipped frame.
// The caller owns the returned Mat and must close it.
func (c *webcam) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("failed to read frame from device %d", c.deviceID)
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("camera returned an empty frame")
	}

	// Horizontal flip around the vertical axis.
	gocv.Flip(mat, &mat, 1)

	return &mat, nil
}

// SetFPS adjusts the capture rate. Values of zero or below are ignored.
func (c *webcam) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS reports the current capture rate.
func (c *webcam) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen reports whether the device is currently claimed.
func (c *webcam) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
