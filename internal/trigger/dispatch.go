// Package trigger implements the debounce, cooldown, and dispatch chain
// that turns a stream of per-frame finger counts into action invocations.
package trigger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State identifies the dispatcher's position in its two-state loop.
type State string

const (
	// StateIdle means the dispatcher is waiting for a stable reading.
	StateIdle State = "idle"
	// StateDispatching means a stable reading passed the gate and its
	// handler worker is being launched. The dispatcher returns to idle
	// as soon as the worker is running; the cooldown gate, not this
	// state, prevents re-triggering.
	StateDispatching State = "dispatching"
)

// Config holds the dispatcher's tunables and collaborators.
type Config struct {
	// DebounceFrames is the streak length required before a count is
	// stable. Non-positive values fall back to DefaultDebounceFrames.
	DebounceFrames int

	// Cooldown is the minimum interval between accepted triggers.
	// Non-positive values fall back to DefaultCooldown.
	Cooldown time.Duration

	// Bindings resolves stable counts to action handlers.
	Bindings Bindings
}

// Dispatcher feeds per-frame readings through the debouncer and the
// cooldown gate, then launches one worker goroutine per accepted
// trigger. Offer never blocks on a handler.
type Dispatcher struct {
	bindings Bindings

	// OnTrigger is called after a trigger is accepted, immediately
	// before its worker starts. Set before the first Offer.
	OnTrigger func(inv *Invocation)

	// OnSuppressed is called when a stable reading is swallowed by the
	// cooldown gate. Set before the first Offer.
	OnSuppressed func(reading int, remaining time.Duration)

	// OnOutcome is called from the worker goroutine when an invocation
	// finishes. Set before the first Offer.
	OnOutcome func(inv *Invocation)

	mu       sync.Mutex
	debounce *Debouncer
	gate     *CooldownGate
	state    State
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with the given configuration.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{
		bindings: cfg.Bindings,
		debounce: NewDebouncer(cfg.DebounceFrames),
		gate:     NewCooldownGate(cfg.Cooldown),
		state:    StateIdle,
	}
}

// Offer feeds one finger-count reading through the chain. It returns
// the launched invocation when the reading completed a stable streak,
// passed the cooldown gate, and resolved to a bound handler; otherwise
// it returns nil. The handler runs on its own goroutine, so Offer is
// safe to call from the frame loop at frame rate.
func (d *Dispatcher) Offer(reading int, now time.Time) *Invocation {
	d.mu.Lock()

	// Step 1: debounce. Most frames end here.
	if !d.debounce.Observe(reading) {
		d.mu.Unlock()
		return nil
	}

	// Step 2: cooldown. A denied trigger is dropped, not queued.
	if !d.gate.TryAccept(now) {
		remaining := d.gate.Remaining(now)
		d.mu.Unlock()
		if d.OnSuppressed != nil {
			d.OnSuppressed(reading, remaining)
		}
		return nil
	}

	// Step 3: resolve the binding. Unbound counts consume the gate but
	// launch nothing.
	h := d.bindings.Handler(reading)
	if h == nil {
		d.mu.Unlock()
		return nil
	}

	inv := &Invocation{
		ID:          uuid.New().String(),
		FingerCount: reading,
		Action:      h.Name(),
		StartedAt:   now,
		done:        make(chan struct{}),
	}

	// Step 4: dispatch. The state returns to idle as soon as the worker
	// is launched; callbacks run outside the lock.
	d.state = StateDispatching
	d.mu.Unlock()

	if d.OnTrigger != nil {
		d.OnTrigger(inv)
	}

	d.wg.Add(1)
	go d.runWorker(inv, h)

	d.mu.Lock()
	d.state = StateIdle
	d.mu.Unlock()

	return inv
}

// runWorker runs one handler to completion and records its outcome.
// Handler errors never reach the frame loop.
func (d *Dispatcher) runWorker(inv *Invocation, h Handler) {
	defer d.wg.Done()

	err := h.Run(context.Background())
	switch {
	case err == nil:
		inv.finish(OutcomeSucceeded, nil)
	case errors.Is(err, ErrCancelled):
		inv.finish(OutcomeCancelled, err)
	default:
		inv.finish(OutcomeFailed, err)
	}

	if d.OnOutcome != nil {
		d.OnOutcome(inv)
	}
}

// Reset rearms the debouncer, discarding any partial streak. The
// cooldown gate is left as is.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.debounce.Reset()
}

// Wait blocks until every launched worker has finished. Used by orderly
// shutdown and tests; the frame loop never calls it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Status is a point-in-time snapshot of the dispatch chain.
type Status struct {
	State        State         `json:"state"`
	Reading      int           `json:"reading"`
	Streak       int           `json:"streak"`
	Threshold    int           `json:"threshold"`
	CooldownLeft time.Duration `json:"cooldown_left"`
}

// Status returns a snapshot of the chain as of the given instant.
func (d *Dispatcher) Status(now time.Time) Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		State:        d.state,
		Reading:      d.debounce.Last(),
		Streak:       d.debounce.Streak(),
		Threshold:    d.debounce.Threshold(),
		CooldownLeft: d.gate.Remaining(now),
	}
}
