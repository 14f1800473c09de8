package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MUDRA_CAMERA_ID", "MUDRA_DEBOUNCE_FRAMES", "MUDRA_COOLDOWN_SECONDS",
		"MUDRA_MOTION_THRESHOLD", "MUDRA_HTTP_ADDR", "MUDRA_DB_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.CameraID != 0 {
		t.Errorf("CameraID = %d, want 0", cfg.CameraID)
	}
	if cfg.DebounceFrames != 8 {
		t.Errorf("DebounceFrames = %d, want 8", cfg.DebounceFrames)
	}
	if cfg.CooldownSeconds != 4 {
		t.Errorf("CooldownSeconds = %d, want 4", cfg.CooldownSeconds)
	}
	if cfg.MotionThreshold != 1.0 {
		t.Errorf("MotionThreshold = %v, want 1.0", cfg.MotionThreshold)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MUDRA_CAMERA_ID", "2")
	t.Setenv("MUDRA_DEBOUNCE_FRAMES", "12")
	t.Setenv("MUDRA_COOLDOWN_SECONDS", "10")
	t.Setenv("MUDRA_MOTION_THRESHOLD", "2.5")
	t.Setenv("MUDRA_HTTP_ADDR", ":9000")
	t.Setenv("MUDRA_DB_PATH", "/tmp/mudra-test.db")

	cfg := Load()

	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	if cfg.DebounceFrames != 12 {
		t.Errorf("DebounceFrames = %d, want 12", cfg.DebounceFrames)
	}
	if cfg.Cooldown() != 10*time.Second {
		t.Errorf("Cooldown() = %v, want 10s", cfg.Cooldown())
	}
	if cfg.MotionThreshold != 2.5 {
		t.Errorf("MotionThreshold = %v, want 2.5", cfg.MotionThreshold)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q, want :9000", cfg.HTTPAddr)
	}
	if cfg.DBPath != "/tmp/mudra-test.db" {
		t.Errorf("DBPath = %q, want /tmp/mudra-test.db", cfg.DBPath)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MUDRA_DEBOUNCE_FRAMES", "eight")
	t.Setenv("MUDRA_MOTION_THRESHOLD", "high")

	cfg := Load()

	if cfg.DebounceFrames != 8 {
		t.Errorf("DebounceFrames = %d, want default 8", cfg.DebounceFrames)
	}
	if cfg.MotionThreshold != 1.0 {
		t.Errorf("MotionThreshold = %v, want default 1.0", cfg.MotionThreshold)
	}
}

func TestResolveDBPath_Explicit(t *testing.T) {
	cfg := &Config{DBPath: "/var/lib/mudra/state.db"}

	path, err := cfg.ResolveDBPath()
	if err != nil {
		t.Fatalf("ResolveDBPath() error = %v", err)
	}
	if path != "/var/lib/mudra/state.db" {
		t.Errorf("path = %q, want /var/lib/mudra/state.db", path)
	}
}
