package trigger

import "testing"

func TestDebouncer_SignalsAtThreshold(t *testing.T) {
	d := NewDebouncer(8)

	// Seven identical readings are one short of the threshold
	for i := 0; i < 7; i++ {
		if d.Observe(3) {
			t.Fatalf("signaled after %d readings, want none before 8", i+1)
		}
	}

	// The eighth completes the streak
	if !d.Observe(3) {
		t.Error("expected signal on the 8th identical reading")
	}
}

func TestDebouncer_ZeroNeverSignals(t *testing.T) {
	d := NewDebouncer(3)

	// A long run of zeros must stay silent no matter how stable it is
	for i := 0; i < 20; i++ {
		if d.Observe(0) {
			t.Fatalf("signaled for reading 0 at observation %d", i+1)
		}
	}
}

func TestDebouncer_ChangedReadingResetsStreak(t *testing.T) {
	d := NewDebouncer(8)

	// Four 3s, then a dropout, then 3s resume. The streak must restart
	// after the dropout, so the signal lands on the 8th reading of the
	// new run (the 13th observation overall).
	readings := []int{3, 3, 3, 3, 0, 3, 3, 3, 3, 3, 3, 3, 3}

	var signals []int
	for i, r := range readings {
		if d.Observe(r) {
			signals = append(signals, i+1)
		}
	}

	if len(signals) != 1 {
		t.Fatalf("expected exactly 1 signal, got %d at positions %v", len(signals), signals)
	}
	if signals[0] != 13 {
		t.Errorf("signal position = %d, want 13", signals[0])
	}
}

func TestDebouncer_RearmsAfterSignal(t *testing.T) {
	d := NewDebouncer(4)

	for i := 0; i < 3; i++ {
		d.Observe(2)
	}
	if !d.Observe(2) {
		t.Fatal("expected signal on the 4th reading")
	}

	// A held count rearms: the next three readings rebuild the streak
	// silently, and the fourth signals again.
	for i := 0; i < 3; i++ {
		if d.Observe(2) {
			t.Fatalf("signaled while rebuilding streak at reading %d", i+1)
		}
	}
	if !d.Observe(2) {
		t.Error("expected signal after a full fresh run of the held count")
	}
}

func TestDebouncer_Reset(t *testing.T) {
	d := NewDebouncer(3)

	d.Observe(5)
	d.Observe(5)
	if d.Streak() != 2 {
		t.Fatalf("streak = %d, want 2", d.Streak())
	}

	d.Reset()
	if d.Streak() != 0 {
		t.Errorf("streak after reset = %d, want 0", d.Streak())
	}
	if d.Last() != 0 {
		t.Errorf("last after reset = %d, want 0", d.Last())
	}

	// The partial streak from before the reset must not count
	d.Observe(5)
	d.Observe(5)
	if d.Observe(5) != true {
		t.Error("expected signal on the 3rd reading after reset")
	}
}

func TestNewDebouncer_DefaultThreshold(t *testing.T) {
	d := NewDebouncer(0)
	if d.Threshold() != DefaultDebounceFrames {
		t.Errorf("threshold = %d, want %d", d.Threshold(), DefaultDebounceFrames)
	}

	d = NewDebouncer(-5)
	if d.Threshold() != DefaultDebounceFrames {
		t.Errorf("threshold = %d, want %d", d.Threshold(), DefaultDebounceFrames)
	}
}
