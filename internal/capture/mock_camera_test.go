package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/testutil"
)

func TestMockCamera_PlaybackStopsAtEnd(t *testing.T) {
	frames := testutil.StaticFrames(2)
	defer testutil.CloseFrames(frames)

	cam := NewMockCamera(frames, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < len(frames); i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error after all frames consumed")
	}
}

func TestMockCamera_LoopWrapsAround(t *testing.T) {
	frames := testutil.StaticFrames(1)
	defer testutil.CloseFrames(frames)

	cam := NewMockCamera(frames, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_ReadBeforeOpen(t *testing.T) {
	frames := testutil.StaticFrames(1)
	defer testutil.CloseFrames(frames)

	cam := NewMockCamera(frames, true)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestMockCamera_CloneIsolatesCaller(t *testing.T) {
	frames := testutil.StaticFrames(1)
	defer testutil.CloseFrames(frames)

	cam := NewMockCamera(frames, true)
	cam.Open()
	defer cam.Close()

	first, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	// Scribbling on the returned frame must not touch the source.
	first.SetTo(gocv.NewScalar(255, 255, 255, 0))
	first.Close()

	second, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer second.Close()

	if got := second.GetUCharAt(0, 0); got != 128 {
		t.Errorf("source frame was modified: pixel = %d, want 128", got)
	}
}

func TestMockCamera_SetReadError(t *testing.T) {
	frames := testutil.StaticFrames(1)
	defer testutil.CloseFrames(frames)

	cam := NewMockCamera(frames, true)
	cam.Open()
	defer cam.Close()

	unplugged := errors.New("device unplugged")
	cam.SetReadError(unplugged)

	if _, err := cam.ReadFrame(); !errors.Is(err, unplugged) {
		t.Errorf("expected injected error, got %v", err)
	}

	cam.SetReadError(nil)

	f, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() after clearing error = %v", err)
	} else {
		f.Close()
	}
}

func TestMockCamera_FPSTracksSetting(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", got, DefaultFPS)
	}

	cam.SetFPS(15)
	if got := cam.FPS(); got != 15 {
		t.Errorf("FPS() = %d, want 15", got)
	}

	cam.SetFPS(0)
	if got := cam.FPS(); got != 15 {
		t.Errorf("FPS() = %d after SetFPS(0), want 15", got)
	}
}

func TestMockCamera_SetFramesRewinds(t *testing.T) {
	frames := testutil.StaticFrames(1)
	defer testutil.CloseFrames(frames)

	cam := NewMockCamera(frames, false)
	cam.Open()
	defer cam.Close()

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.Close()

	if _, err := cam.ReadFrame(); err == nil {
		t.Fatal("expected exhaustion error")
	}

	replacement := testutil.StaticFrames(2)
	defer testutil.CloseFrames(replacement)
	cam.SetFrames(replacement)

	f, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after SetFrames error = %v", err)
	}
	f.Close()
}
