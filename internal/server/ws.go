package server

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// statusInterval is how often the live socket re-checks the snapshot.
const statusInterval = 250 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Local dashboard only
	},
}

// LiveHandler streams trigger machine snapshots to dashboard clients
// over WebSocket. The snapshot is polled at statusInterval and pushed
// only when it changed, so an idle daemon stays quiet on the wire.
//
// All writes happen under mu; gorilla/websocket allows at most one
// concurrent writer per connection.
type LiveHandler struct {
	status func() any

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    []byte
}

// NewLiveHandler creates a handler reading snapshots from status.
func NewLiveHandler(status func() any) *LiveHandler {
	h := &LiveHandler{
		status:  status,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.loop()
	return h
}

// ServeHTTP upgrades the connection and parks it until the client goes
// away. A new client receives the current snapshot right away instead
// of waiting for the next change.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	if snap, err := json.Marshal(h.status()); err == nil {
		if msg, err := envelope(snap); err == nil {
			writeConn(conn, msg)
		}
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Drain client messages; exit when the peer closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// loop polls the snapshot and fans changes out to every client. Clients
// that fail a write are dropped; their read loop cleans up after them.
func (h *LiveHandler) loop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		idle := len(h.clients) == 0
		h.mu.Unlock()
		if idle {
			continue
		}

		snap, err := json.Marshal(h.status())
		if err != nil {
			continue
		}

		h.mu.Lock()
		if bytes.Equal(snap, h.last) {
			h.mu.Unlock()
			continue
		}
		h.last = append(h.last[:0], snap...)

		msg, err := envelope(snap)
		if err != nil {
			h.mu.Unlock()
			continue
		}

		for conn := range h.clients {
			if err := writeConn(conn, msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// envelope wraps a marshaled snapshot with a server timestamp.
func envelope(snap []byte) ([]byte, error) {
	return json.Marshal(map[string]any{
		"status":    json.RawMessage(snap),
		"timestamp": time.Now().UnixMilli(),
	})
}

// writeConn writes one message with a bounded deadline so a stalled
// client cannot block the broadcast.
func writeConn(conn *websocket.Conn, msg []byte) error {
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	return conn.WriteMessage(websocket.TextMessage, msg)
}
