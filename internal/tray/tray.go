// Package tray provides the macOS menu bar item for the Mudra gesture
// daemon.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Config wires the menu bar item to the daemon. Callbacks may be nil.
type Config struct {
	// Armed sets the initial toggle state so the menu matches the
	// persisted arm flag on startup.
	Armed bool

	// OnToggle is invoked with the new state when the operator clicks
	// the arm toggle.
	OnToggle func(armed bool)

	// OnDashboard is invoked when the operator opens the dashboard.
	OnDashboard func()

	// OnQuit is invoked before the menu bar loop stops when the
	// operator picks Quit.
	OnQuit func()
}

// Tray is the menu bar item. Run must be called on the main goroutine;
// macOS delivers UI events only there.
type Tray struct {
	config Config

	mu    sync.Mutex
	armed bool

	toggle *systray.MenuItem
	last   *systray.MenuItem
}

// New builds the menu bar item for the given configuration.
func New(config Config) *Tray {
	return &Tray{
		config: config,
		armed:  config.Armed,
	}
}

// Run enters the menu bar event loop and blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the menu bar loop, unblocking Run. Safe to call from any
// goroutine.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetLastTrigger updates the "Last:" menu line with the most recently
// accepted trigger.
func (t *Tray) SetLastTrigger(fingerCount int, actionName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.last == nil {
		return
	}
	if actionName == "" {
		t.last.SetTitle("Last: none")
		return
	}
	t.last.SetTitle(fmt.Sprintf("Last: %s (%d fingers)", actionName, fingerCount))
}

// IsArmed reports the current toggle state.
func (t *Tray) IsArmed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Triggers")

	t.mu.Lock()
	t.toggle = systray.AddMenuItem(toggleTitle(t.armed), "Toggle trigger dispatch")
	t.last = systray.AddMenuItem("Last: none", "Last accepted trigger")
	t.last.Disable()
	t.mu.Unlock()

	systray.AddSeparator()
	dashboard := systray.AddMenuItem("Open Dashboard...", "Open the status page in a browser")
	quit := systray.AddMenuItem("Quit", "Quit Mudra")

	go t.clickLoop(dashboard, quit)
}

func (t *Tray) onExit() {}

func (t *Tray) clickLoop(dashboard, quit *systray.MenuItem) {
	for {
		select {
		case <-t.toggle.ClickedCh:
			t.handleToggle()
		case <-dashboard.ClickedCh:
			if t.config.OnDashboard != nil {
				t.config.OnDashboard()
			}
		case <-quit.ClickedCh:
			if t.config.OnQuit != nil {
				t.config.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// handleToggle flips the armed state and refreshes the menu title, then
// reports the new state with no lock held.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.armed = !t.armed
	armed := t.armed
	t.toggle.SetTitle(toggleTitle(armed))
	t.mu.Unlock()

	if t.config.OnToggle != nil {
		t.config.OnToggle(armed)
	}
}

func toggleTitle(armed bool) string {
	if armed {
		return "● Armed"
	}
	return "○ Disarmed"
}
