package app

import (
	"log"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/metrics"
)

// runPipeline is the main loop that turns camera frames into finger-count
// readings. It manages the state transitions between idle and active modes
// based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run hand detection and count extended fingers on the first hand
// 4. Feed exactly one reading per frame into the trigger dispatcher
// 5. After IdleTimeout with no motion, switch back to idle mode
//
// A camera read failure stops the loop: a camera that returns no frames
// cannot recover on its own, and silently idling would look like a healthy
// daemon that never triggers.
func (a *App) runPipeline() {
	activeMode := false
	lastMotion := time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Fatal camera error: %v", err)
				a.fail(err)
				return
			}

			metrics.FramesProcessed.Inc()

			// Step 1: motion drives the idle/active switch.
			moved, _ := a.motion.Detect(frame)

			if moved {
				lastMotion = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeout {
				activeMode = false
				a.Camera().SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				log.Println("Switched to idle mode")
			}

			// Disarmed: keep the motion bookkeeping warm but feed nothing
			// into the trigger chain.
			if !a.IsArmed() {
				frame.Close()
				continue
			}

			// Step 2: Hand detection runs in active mode only; an idle
			// scene counts as no hand.
			reading := 0
			if activeMode {
				hands, err := a.Detector().Detect(frame)
				frame.Close()
				if err != nil {
					log.Printf("Error detecting hands: %v", err)
					continue
				}
				// Only the first detected hand is counted
				if len(hands) > 0 {
					reading = detector.CountFingers(&hands[0])
				}
			} else {
				frame.Close()
			}

			metrics.Readings.WithLabelValues(strconv.Itoa(reading)).Inc()

			// Step 3: every frame yields exactly one reading
			a.dispatcher.Offer(reading, time.Now())
		}
	}
}

// fail reports a fatal pipeline error without blocking. Only the first
// error is kept.
func (a *App) fail(err error) {
	select {
	case a.done <- err:
	default:
	}
}
