package trigger

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCancelled is returned by handlers when the user declines the
// confirmation prompt or supplies no resource name. The dispatcher
// records such invocations as cancelled rather than failed.
var ErrCancelled = errors.New("cancelled by user")

// Handler executes one bound action. Run blocks until the action
// finishes, including any interactive confirmation, and is always
// invoked on its own goroutine so the frame loop never waits on it.
type Handler interface {
	// Name identifies the action in logs and the journal.
	Name() string

	// Mutating reports whether the action changes remote state.
	Mutating() bool

	// Run performs the action. Returning ErrCancelled, possibly
	// wrapped, marks the invocation cancelled instead of failed.
	Run(ctx context.Context) error
}

// Bindings resolves a stable finger count to its bound action handler.
// Counts with no binding resolve to nil.
type Bindings interface {
	Handler(count int) Handler
}

// Outcome is the terminal state of an action invocation.
type Outcome string

const (
	// OutcomeSucceeded means the handler completed without error.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed means the handler returned an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeCancelled means the user declined the confirmation prompt
	// or entered no resource name.
	OutcomeCancelled Outcome = "cancelled"
)

// Invocation is one fire-and-forget action run launched by the
// dispatcher. The worker runs to completion on its own; Done and
// Outcome make that completion observable without ever blocking the
// frame loop.
type Invocation struct {
	ID          string
	FingerCount int
	Action      string
	StartedAt   time.Time

	done chan struct{}

	mu      sync.Mutex
	outcome Outcome
	err     error
}

// Done returns a channel that is closed when the invocation finishes.
func (inv *Invocation) Done() <-chan struct{} {
	return inv.done
}

// Outcome returns the invocation's terminal outcome. It is empty until
// Done is closed.
func (inv *Invocation) Outcome() Outcome {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.outcome
}

// Err returns the handler error for failed or cancelled invocations,
// nil otherwise.
func (inv *Invocation) Err() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.err
}

// finish records the terminal state and closes Done. Called exactly
// once, by the worker.
func (inv *Invocation) finish(outcome Outcome, err error) {
	inv.mu.Lock()
	inv.outcome = outcome
	inv.err = err
	inv.mu.Unlock()
	close(inv.done)
}
