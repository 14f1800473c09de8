package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// idleShutdown is how long the detector keeps the helper process alive
// after the last detection. MediaPipe holds tens of megabytes, which an
// idle daemon should not pay for.
const idleShutdown = 30 * time.Second

// MediaPipeDetector runs hand detection through a Python helper
// process. Frames go out as length-prefixed JPEGs on stdin; the helper
// answers with one JSON line of landmarks per frame on stdout. The
// process starts lazily on the first Detect call and is shut down
// again after idleShutdown without frames.
type MediaPipeDetector struct {
	config Config
	script string
	python string

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector returns a detector backed by the installed
// Python service. It fails when the service script cannot be located;
// the helper process itself is not started until the first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := locate(scriptCandidates())
	if script == "" {
		return nil, fmt.Errorf("failed to locate mediapipe_service.py")
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
		python: pythonInterpreter(),
	}, nil
}

// Detect sends the frame to the helper and returns the hands it found.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureService(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	if err := d.writeFrame(buf.GetBytes()); err != nil {
		return nil, err
	}

	hands, err := d.readHands()
	if err != nil {
		return nil, err
	}

	d.resetIdleTimer()

	return hands, nil
}

// Close terminates the helper process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// ensureService starts the helper if it is not running and hands it
// the detection settings before any frames flow.
func (d *MediaPipeDetector) ensureService() error {
	if d.started {
		return nil
	}

	d.cmd = exec.Command(d.python, d.script)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	// Helper diagnostics land on our stderr.
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mediapipe service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	if err := d.sendSettings(); err != nil {
		d.shutdown()
		return err
	}

	return nil
}

// sendSettings transmits the detection settings as the first line of
// the session. The helper applies them when it builds its Hands model.
func (d *MediaPipeDetector) sendSettings() error {
	settings := struct {
		MaxHands     int     `json:"max_hands"`
		MinDetection float64 `json:"min_detection_confidence"`
		MinTracking  float64 `json:"min_tracking_confidence"`
	}{
		MaxHands:     d.config.MaxHands,
		MinDetection: d.config.MinConfidence,
		MinTracking:  d.config.MinTrackingConf,
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode detector settings: %w", err)
	}
	payload = append(payload, '\n')

	if _, err := d.stdin.Write(payload); err != nil {
		return fmt.Errorf("failed to send detector settings: %w", err)
	}

	return nil
}

// writeFrame sends one JPEG to the helper, prefixed with its length as
// four big-endian bytes.
func (d *MediaPipeDetector) writeFrame(jpeg []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(jpeg)))

	if _, err := d.stdin.Write(length[:]); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := d.stdin.Write(jpeg); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

// readHands parses one JSON response line from the helper.
func (d *MediaPipeDetector) readHands() ([]HandLandmarks, error) {
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read detection response: %w", err)
	}

	var response struct {
		Hands []wireHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("failed to parse detection response: %w", err)
	}

	hands := make([]HandLandmarks, len(response.Hands))
	for i, h := range response.Hands {
		hands[i] = h.landmarks()
	}

	return hands, nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// scriptCandidates lists the places the service script may live: the
// working directory during development, next to the installed binary,
// and the per-user data directory.
func scriptCandidates() []string {
	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
	}

	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "scripts/mediapipe_service.py"))
	}

	return append(candidates, filepath.Join(os.Getenv("HOME"), ".mudra/scripts/mediapipe_service.py"))
}

// pythonInterpreter prefers a project virtualenv over the system
// python3 so mediapipe does not need a global install.
func pythonInterpreter() string {
	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
	}

	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "venv/bin/python"))
	}

	candidates = append(candidates, filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"))

	if path := locate(candidates); path != "" {
		return path
	}

	return "python3"
}

// locate returns the first candidate that exists, as an absolute path.
func locate(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}

	return ""
}

// wireHand mirrors one hand in the helper's JSON response.
type wireHand struct {
	Points     []wirePoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type wirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h wireHand) landmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		lm.Points[i] = Point3D{
			X: h.Points[i].X,
			Y: h.Points[i].Y,
			Z: h.Points[i].Z,
		}
	}

	return lm
}
