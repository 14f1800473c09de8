package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialLive(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestLiveHandler_PushesSnapshotOnConnect(t *testing.T) {
	status := func() any {
		return map[string]any{"armed": true, "state": "idle"}
	}

	srv := httptest.NewServer(NewLiveHandler(status))
	defer srv.Close()

	conn := dialLive(t, srv)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}

	var payload struct {
		Status struct {
			Armed bool   `json:"armed"`
			State string `json:"state"`
		} `json:"status"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}

	if !payload.Status.Armed || payload.Status.State != "idle" {
		t.Errorf("unexpected snapshot: %+v", payload.Status)
	}
	if payload.Timestamp == 0 {
		t.Error("expected a server timestamp")
	}
}

func TestLiveHandler_BroadcastsOnChange(t *testing.T) {
	var mu sync.Mutex
	state := "idle"
	status := func() any {
		mu.Lock()
		defer mu.Unlock()
		return map[string]any{"state": state}
	}

	srv := httptest.NewServer(NewLiveHandler(status))
	defer srv.Close()

	conn := dialLive(t, srv)

	mu.Lock()
	state = "dispatching"
	mu.Unlock()

	// The initial snapshot, and possibly one duplicate from the first
	// poll, may arrive before the change does.
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("change never arrived: %v", err)
		}
		if strings.Contains(string(msg), "dispatching") {
			return
		}
	}
}
