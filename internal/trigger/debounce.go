package trigger

// DefaultDebounceFrames is the number of consecutive identical readings
// required before a finger count is treated as stable.
const DefaultDebounceFrames = 8

// Debouncer suppresses flicker in the per-frame finger count by requiring
// an unbroken run of identical readings before signaling. It is driven by
// a single goroutine; the Dispatcher serializes access for everyone else.
type Debouncer struct {
	threshold int
	last      int
	streak    int
}

// NewDebouncer creates a Debouncer requiring threshold consecutive
// identical readings. Non-positive thresholds fall back to
// DefaultDebounceFrames.
func NewDebouncer(threshold int) *Debouncer {
	if threshold <= 0 {
		threshold = DefaultDebounceFrames
	}
	return &Debouncer{threshold: threshold}
}

// Observe feeds one finger-count reading into the debouncer and reports
// whether the count just became stable. It returns true when a run of
// identical nonzero readings reaches the threshold, then rearms, so a
// count held past the threshold signals again only after building a
// fresh run. A zero reading (no hand, or no raised fingers) never
// signals but still breaks a run of another count.
func (d *Debouncer) Observe(reading int) bool {
	if reading == d.last {
		d.streak++
	} else {
		d.streak = 1
		d.last = reading
	}

	if d.streak >= d.threshold && reading != 0 {
		d.streak = 0 // rearm for the next run
		return true
	}
	return false
}

// Reset returns the debouncer to its initial state, as if no reading had
// been observed.
func (d *Debouncer) Reset() {
	d.last = 0
	d.streak = 0
}

// Streak returns the length of the current run of identical readings.
func (d *Debouncer) Streak() int {
	return d.streak
}

// Last returns the most recently observed reading.
func (d *Debouncer) Last() int {
	return d.last
}

// Threshold returns the streak length required to signal.
func (d *Debouncer) Threshold() int {
	return d.threshold
}
