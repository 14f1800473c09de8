package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/cloud"
	"github.com/ayusman/mudra/internal/console"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/testutil"
)

// syncBuffer collects handler output across goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, what string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// startApp wires a full pipeline over synthetic moving frames and a
// fixed finger count, then starts it.
func startApp(t *testing.T, s *store.Store, registry *action.Registry, fingers int) *app.App {
	t.Helper()

	application := app.New(app.Config{
		Store:          s,
		Bindings:       registry,
		DebounceFrames: 3,
		Cooldown:       time.Minute, // one trigger per test
	})

	frames := testutil.AlternatingFrames(4)
	t.Cleanup(func() { testutil.CloseFrames(frames) })
	application.SetCamera(capture.NewMockCamera(frames, true))

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.FingerCountLandmarks(fingers, "Right")})
	application.SetDetector(det)

	if err := application.Start(); err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(application.Stop)

	return application
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "mudra.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	compute := cloud.NewMockCompute()
	compute.SetInstances([]cloud.Instance{
		{ID: "i-0web1", State: "running", Type: "t3.micro", Name: "web"},
	})
	registry := action.NewRegistry(action.RegistryConfig{
		Compute:  compute,
		Storage:  cloud.NewMockStorage(),
		Prompter: console.NewScript("i-0web1", "yes"),
		Out:      io.Discard,
	})

	application := startApp(t, s, registry, 3)

	srv := server.New(server.Config{
		Store:    s,
		Bindings: registry.Bindings(),
		Status:   func() any { return application.Status() },
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("BindingsPublished", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/bindings")
		if err != nil {
			t.Fatalf("list bindings error = %v", err)
		}
		defer resp.Body.Close()

		var list struct {
			Bindings []struct {
				Count    int    `json:"count"`
				Action   string `json:"action"`
				Mutating bool   `json:"mutating"`
			} `json:"bindings"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decode bindings error = %v", err)
		}

		if len(list.Bindings) != 5 {
			t.Fatalf("expected 5 bindings, got %d", len(list.Bindings))
		}
		if b := list.Bindings[2]; b.Count != 3 || b.Action != "stop-instance" || !b.Mutating {
			t.Errorf("binding 3 = %+v, want count 3 stop-instance mutating", b)
		}
	})

	t.Run("TriggerFires", func(t *testing.T) {
		waitUntil(t, 5*time.Second, func() bool {
			return len(compute.Stopped()) == 1
		}, "the remote stop call")

		if stopped := compute.Stopped(); stopped[0] != "i-0web1" {
			t.Errorf("expected instance i-0web1 stopped, got %v", stopped)
		}
	})

	var triggerID string
	t.Run("JournalExposed", func(t *testing.T) {
		type entry struct {
			TriggerID   string `json:"trigger_id"`
			FingerCount int    `json:"finger_count"`
			ActionName  string `json:"action_name"`
			Outcome     string `json:"outcome"`
		}
		var found entry

		waitUntil(t, 5*time.Second, func() bool {
			resp, err := client.Get(ts.URL + "/api/triggers")
			if err != nil {
				return false
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return false
			}

			var list struct {
				Triggers []entry `json:"triggers"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
				return false
			}
			for _, e := range list.Triggers {
				if e.Outcome == "succeeded" {
					found = e
					return true
				}
			}
			return false
		}, "the journal entry over the API")

		if found.FingerCount != 3 {
			t.Errorf("finger_count = %d, want 3", found.FingerCount)
		}
		if found.ActionName != "stop-instance" {
			t.Errorf("action_name = %s, want stop-instance", found.ActionName)
		}
		triggerID = found.TriggerID
	})

	t.Run("TriggerDetail", func(t *testing.T) {
		if triggerID == "" {
			t.Skip("no trigger id from the journal stage")
		}

		resp, err := client.Get(ts.URL + "/api/triggers/" + triggerID)
		if err != nil {
			t.Fatalf("get trigger error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var detail struct {
			Trigger struct {
				FingerCount int    `json:"finger_count"`
				ActionName  string `json:"action_name"`
			} `json:"trigger"`
			Invocation *struct {
				Outcome    string `json:"outcome"`
				FinishedAt string `json:"finished_at"`
			} `json:"invocation"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
			t.Fatalf("decode detail error = %v", err)
		}

		if detail.Trigger.FingerCount != 3 {
			t.Errorf("finger_count = %d, want 3", detail.Trigger.FingerCount)
		}
		if detail.Invocation == nil {
			t.Fatal("expected an invocation in the detail response")
		}
		if detail.Invocation.Outcome != "succeeded" {
			t.Errorf("outcome = %s, want succeeded", detail.Invocation.Outcome)
		}
		if detail.Invocation.FinishedAt == "" {
			t.Error("expected a finish timestamp")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after pipeline operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_DeclinedMutationJournalsCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "mudra.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	compute := cloud.NewMockCompute()
	registry := action.NewRegistry(action.RegistryConfig{
		Compute:  compute,
		Storage:  cloud.NewMockStorage(),
		Prompter: console.NewScript("i-0web1", "no"),
		Out:      io.Discard,
	})

	startApp(t, s, registry, 3)

	var entry *store.HistoryEntry
	waitUntil(t, 5*time.Second, func() bool {
		entries, err := s.Triggers().History(10)
		if err != nil {
			return false
		}
		for _, e := range entries {
			if e.Outcome == store.OutcomeCancelled {
				entry = e
				return true
			}
		}
		return false
	}, "the cancelled journal entry")

	if !strings.Contains(entry.Detail, "cancelled") {
		t.Errorf("detail = %q, expected it to mention the cancellation", entry.Detail)
	}
	if stopped := compute.Stopped(); len(stopped) != 0 {
		t.Errorf("declined confirmation must not reach the cloud, got stops %v", stopped)
	}
}

func TestE2E_ReadOnlyActionSkipsConfirmation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "mudra.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	compute := cloud.NewMockCompute()
	compute.SetInstances([]cloud.Instance{
		{ID: "i-0abc", State: "running", Type: "t3.micro", Name: "web"},
	})
	script := console.NewScript()
	out := &syncBuffer{}
	registry := action.NewRegistry(action.RegistryConfig{
		Compute:  compute,
		Storage:  cloud.NewMockStorage(),
		Prompter: script,
		Out:      out,
	})

	startApp(t, s, registry, 1)

	waitUntil(t, 5*time.Second, func() bool {
		entries, err := s.Triggers().History(10)
		if err != nil {
			return false
		}
		for _, e := range entries {
			if e.Outcome == store.OutcomeSucceeded {
				return true
			}
		}
		return false
	}, "the succeeded journal entry")

	if prompts := script.Prompts(); len(prompts) != 0 {
		t.Errorf("read-only action should not prompt, got %v", prompts)
	}
	if got := out.String(); !strings.Contains(got, "i-0abc") {
		t.Errorf("inventory output missing the instance, got %q", got)
	}
}
