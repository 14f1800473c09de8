// Package app provides the main application logic for the Mudra gesture daemon.
// It owns the camera, the hand detector, and the trigger dispatcher, and it
// journals every accepted trigger to the store.
package app

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/trigger"
)

// Pipeline pacing. The camera idles at a low frame rate until motion
// wakes it, then runs hot while a hand may be in view.
const (
	// IdleFPS is the capture rate while the scene is still.
	IdleFPS = 5
	// ActiveFPS is the capture rate while motion is being tracked.
	ActiveFPS = 15
	// IdleTimeout is how long after the last motion the pipeline falls
	// back to the idle rate.
	IdleTimeout = 2 * time.Second
)

// armedSettingKey is the settings row that persists the arm toggle
// across restarts.
const armedSettingKey = "armed"

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	Bindings       trigger.Bindings
	CameraID       int
	MotionThresh   float64
	DebounceFrames int
	Cooldown       time.Duration
}

// Status is the snapshot published on the live status feed.
type Status struct {
	Armed   bool           `json:"armed"`
	Trigger trigger.Status `json:"trigger"`
	Last    *LastTrigger   `json:"last_trigger,omitempty"`
}

// LastTrigger identifies the most recently accepted trigger.
type LastTrigger struct {
	Action      string    `json:"action"`
	FingerCount int       `json:"finger_count"`
	AcceptedAt  time.Time `json:"accepted_at"`
}

// App is the main application that turns camera frames into finger-count
// readings and dispatches the actions bound to them.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	dispatcher *trigger.Dispatcher

	// OnTriggerAccepted is called after a trigger passes debounce and
	// cooldown. The tray uses it to surface the last trigger.
	OnTriggerAccepted func(fingerCount int, action string)

	armed       bool
	lastTrigger *LastTrigger
	mu          sync.RWMutex
	stopCh      chan struct{}
	done        chan error
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
		motion: capture.NewMotionDetector(motionThreshold),
		armed:  true,
		done:   make(chan error, 1),
	}

	a.dispatcher = trigger.NewDispatcher(trigger.Config{
		DebounceFrames: config.DebounceFrames,
		Cooldown:       config.Cooldown,
		Bindings:       config.Bindings,
	})
	a.dispatcher.OnTrigger = a.handleTrigger
	a.dispatcher.OnSuppressed = a.handleSuppressed
	a.dispatcher.OnOutcome = a.handleOutcome

	a.detector = newDetector()
	a.loadArmed()

	return a
}

// newDetector prefers the MediaPipe service and falls back to the mock
// detector, which reports no hands, when the service is not installed.
func newDetector() detector.Detector {
	mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("Hand detection: MediaPipe unavailable (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	log.Println("Hand detection: MediaPipe service")
	return mp
}

// loadArmed restores the persisted arm toggle, defaulting to armed.
func (a *App) loadArmed() {
	if a.config.Store == nil {
		return
	}

	value, err := a.config.Store.Settings().Get(armedSettingKey)
	if err != nil {
		return // No persisted value yet
	}
	if armed, err := strconv.ParseBool(value); err == nil {
		a.armed = armed
	}
}

// SetArmed arms or disarms trigger dispatch. Frames are still read while
// disarmed, but no readings reach the dispatcher. The toggle is persisted.
func (a *App) SetArmed(armed bool) {
	a.mu.Lock()
	a.armed = armed
	a.mu.Unlock()

	// Disarming mid-streak must not leave a stale partial streak behind.
	if !armed {
		a.dispatcher.Reset()
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(armedSettingKey, strconv.FormatBool(armed)); err != nil {
			log.Printf("Failed to persist arm toggle: %v", err)
		}
	}
}

// IsArmed returns whether trigger dispatch is currently armed.
func (a *App) IsArmed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.armed
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Tests inject a mock
// camera here before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Status returns a snapshot of the trigger chain for the live feed.
func (a *App) Status() Status {
	a.mu.RLock()
	armed := a.armed
	last := a.lastTrigger
	a.mu.RUnlock()

	return Status{
		Armed:   armed,
		Trigger: a.dispatcher.Status(time.Now()),
		Last:    last,
	}
}

// Dispatcher returns the trigger dispatcher.
func (a *App) Dispatcher() *trigger.Dispatcher {
	return a.dispatcher
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Done reports a fatal pipeline error. The channel receives at most one
// error, after which the pipeline has stopped.
func (a *App) Done() <-chan error {
	return a.done
}

// Start opens the camera and launches the frame loop. Starting an
// already running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources. In-flight
// action workers are abandoned, mirroring their fire-and-forget launch;
// their journal rows keep the running outcome.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipeline stopped")
}

// handleTrigger journals an accepted trigger and its freshly started
// worker. Journal errors are logged, never propagated; a dead disk must
// not stop the frame loop.
func (a *App) handleTrigger(inv *trigger.Invocation) {
	log.Printf("Trigger accepted: %d finger(s) -> %s", inv.FingerCount, inv.Action)
	metrics.TriggersAccepted.WithLabelValues(inv.Action).Inc()

	a.mu.Lock()
	a.lastTrigger = &LastTrigger{
		Action:      inv.Action,
		FingerCount: inv.FingerCount,
		AcceptedAt:  inv.StartedAt,
	}
	a.mu.Unlock()

	if a.config.Store != nil {
		tr := &store.Trigger{
			ID:          inv.ID,
			FingerCount: inv.FingerCount,
			ActionName:  inv.Action,
			AcceptedAt:  inv.StartedAt,
		}
		if err := a.config.Store.Triggers().Create(tr); err != nil {
			log.Printf("Failed to journal trigger: %v", err)
		} else {
			worker := &store.Invocation{TriggerID: inv.ID, StartedAt: inv.StartedAt}
			if err := a.config.Store.Invocations().Start(worker); err != nil {
				log.Printf("Failed to journal invocation: %v", err)
			}
		}
	}

	if a.OnTriggerAccepted != nil {
		a.OnTriggerAccepted(inv.FingerCount, inv.Action)
	}
}

// handleSuppressed logs a stable reading swallowed by the cooldown gate.
func (a *App) handleSuppressed(reading int, remaining time.Duration) {
	log.Printf("Cooldown active, ignoring %d-finger trigger (%.1fs left)", reading, remaining.Seconds())
	metrics.TriggersSuppressed.Inc()
}

// handleOutcome journals the terminal outcome of an action worker.
// Runs on the worker goroutine.
func (a *App) handleOutcome(inv *trigger.Invocation) {
	duration := time.Since(inv.StartedAt)
	outcome := inv.Outcome()

	switch outcome {
	case trigger.OutcomeFailed:
		log.Printf("Action %s failed after %.2fs: %v", inv.Action, duration.Seconds(), inv.Err())
	default:
		log.Printf("Action %s %s after %.2fs", inv.Action, outcome, duration.Seconds())
	}

	metrics.InvocationOutcomes.WithLabelValues(inv.Action, string(outcome)).Inc()
	metrics.ActionDuration.WithLabelValues(inv.Action).Observe(duration.Seconds())

	if a.config.Store != nil {
		detail := ""
		if err := inv.Err(); err != nil {
			detail = err.Error()
		}
		err := a.config.Store.Invocations().FinishByTriggerID(inv.ID, store.Outcome(outcome), detail, time.Now())
		if err != nil {
			log.Printf("Failed to journal outcome: %v", err)
		}
	}
}
