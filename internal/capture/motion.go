package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// 21x21 Gaussian kernel, large enough to swallow sensor noise.
	blurKernelSize = 21
	// Minimum per-pixel brightness delta that counts as a change.
	pixelDeltaThreshold = 25
)

// MotionDetector flags frames that differ from the one before them.
// Each frame is grayscaled and blurred, then diffed against the
// previous frame's prepared image; when more than threshold percent of
// pixels moved past the delta cutoff, the scene counts as active.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	baseline  gocv.Mat
}

// NewMotionDetector creates a detector that reports motion when more
// than threshold percent of pixels changed between frames. A threshold
// of 1.0 means one percent of the frame must move.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Detect compares frame against the previous one and reports whether
// the scene moved, along with the percentage of pixels that changed.
// The first frame only seeds the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	smoothed := smooth(frame)
	defer smoothed.Close()

	if m.baseline.Empty() {
		smoothed.CopyTo(&m.baseline)
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(smoothed, m.baseline, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, pixelDeltaThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(mask)
	total := mask.Rows() * mask.Cols()
	percent := float64(changed) / float64(total) * 100.0

	smoothed.CopyTo(&m.baseline)

	return percent > m.threshold, percent
}

// smooth converts a frame to grayscale and blurs it so sensor noise and
// compression artifacts do not register as motion.
func smooth(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurKernelSize, blurKernelSize), 0, 0, gocv.BorderDefault)

	return blurred
}

// Reset drops the baseline so the next frame starts a fresh comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropBaseline()
}

// Close releases the held baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropBaseline()
}

func (m *MotionDetector) dropBaseline() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
}

// SetThreshold adjusts the change percentage needed to report motion.
// Values of zero or below are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}
