// Package server provides the HTTP surface for the Mudra gesture
// daemon: the trigger journal API, the binding table, the live status
// socket, and the static dashboard.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config wires the server to the rest of the daemon. Fields may be left
// zero; routes are only registered for the parts that are present, so
// tests can bring up a partial server.
type Config struct {
	StaticDir string
	Store     *store.Store
	Bindings  []action.Binding
	// Status returns the snapshot broadcast on /api/live. The returned
	// value must be JSON-marshalable.
	Status func() any
}

// Server serves the dashboard and the read-only daemon API.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time

	mu      sync.Mutex
	httpSrv *http.Server
}

// New assembles the route table for the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	if s.config.Store != nil {
		triggers := api.NewTriggersHandler(s.config.Store)
		s.mux.Handle("/api/triggers", triggers)
		s.mux.Handle("/api/triggers/", triggers)
	}

	if s.config.Bindings != nil {
		s.mux.Handle("/api/bindings", api.NewBindingsHandler(s.config.Bindings))
	}

	if s.config.Status != nil {
		s.mux.Handle("/api/live", NewLiveHandler(s.config.Status))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}{
		Status: "ok",
		Uptime: time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until the listener fails or Shutdown is
// called. A shutdown-initiated close is not reported as an error.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
