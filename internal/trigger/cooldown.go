package trigger

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum interval between accepted triggers.
const DefaultCooldown = 4 * time.Second

// CooldownGate enforces a minimum interval between accepted triggers.
// The interval check and the timestamp update happen atomically under a
// single lock, so two near-simultaneous callers can never both pass
// within one window.
type CooldownGate struct {
	cooldown time.Duration

	mu           sync.Mutex
	lastAccepted time.Time
}

// NewCooldownGate creates a gate with the given cooldown interval.
// Non-positive intervals fall back to DefaultCooldown.
func NewCooldownGate(cooldown time.Duration) *CooldownGate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &CooldownGate{cooldown: cooldown}
}

// TryAccept reports whether a trigger at the given instant is allowed.
// The first call always accepts; on acceptance the gate records now as
// the start of the next window. Callers should pass time.Now() so the
// monotonic clock reading shields the comparison from wall-clock
// adjustments.
func (g *CooldownGate) TryAccept(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastAccepted.IsZero() && now.Sub(g.lastAccepted) < g.cooldown {
		return false
	}
	g.lastAccepted = now
	return true
}

// Remaining returns how long until the gate accepts again, or zero when
// a trigger would be accepted now.
func (g *CooldownGate) Remaining(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lastAccepted.IsZero() {
		return 0
	}

	left := g.cooldown - now.Sub(g.lastAccepted)
	if left < 0 {
		return 0
	}
	return left
}

// Cooldown returns the configured interval.
func (g *CooldownGate) Cooldown() time.Duration {
	return g.cooldown
}
