// Package api provides HTTP API handlers for the Mudra gesture daemon.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// defaultHistoryLimit bounds /api/triggers responses when no limit is given.
const defaultHistoryLimit = 20

// maxHistoryLimit is the largest page a client may request.
const maxHistoryLimit = 200

// TriggersHandler handles HTTP requests for the trigger journal.
type TriggersHandler struct {
	store *store.Store
}

// NewTriggersHandler creates a new TriggersHandler with the given store.
func NewTriggersHandler(s *store.Store) *TriggersHandler {
	return &TriggersHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *TriggersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/triggers or /api/triggers/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/triggers")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/triggers
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/triggers/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type historyEntryResponse struct {
	TriggerID   string `json:"trigger_id"`
	FingerCount int    `json:"finger_count"`
	ActionName  string `json:"action_name"`
	AcceptedAt  string `json:"accepted_at"`
	Outcome     string `json:"outcome,omitempty"`
	Detail      string `json:"detail,omitempty"`
	FinishedAt  string `json:"finished_at,omitempty"`
}

type listTriggersResponse struct {
	Triggers []historyEntryResponse `json:"triggers"`
}

type triggerResponse struct {
	ID          string `json:"id"`
	FingerCount int    `json:"finger_count"`
	ActionName  string `json:"action_name"`
	AcceptedAt  string `json:"accepted_at"`
}

type invocationResponse struct {
	ID         int64  `json:"id"`
	Outcome    string `json:"outcome"`
	Detail     string `json:"detail,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

type triggerDetailResponse struct {
	Trigger    triggerResponse     `json:"trigger"`
	Invocation *invocationResponse `json:"invocation,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// toHistoryResponse converts a store.HistoryEntry to a historyEntryResponse.
func toHistoryResponse(e *store.HistoryEntry) historyEntryResponse {
	resp := historyEntryResponse{
		TriggerID:   e.TriggerID,
		FingerCount: e.FingerCount,
		ActionName:  e.ActionName,
		AcceptedAt:  e.AcceptedAt.Format(timeLayout),
		Outcome:     string(e.Outcome),
		Detail:      e.Detail,
	}
	if e.FinishedAt != nil {
		resp.FinishedAt = e.FinishedAt.Format(timeLayout)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/triggers and returns recent journal entries.
func (h *TriggersHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.store.Triggers().History(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list triggers")
		return
	}

	response := listTriggersResponse{
		Triggers: make([]historyEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		response.Triggers = append(response.Triggers, toHistoryResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/triggers/{id} and returns one trigger with its invocation.
func (h *TriggersHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	trigger, err := h.store.Triggers().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trigger not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get trigger")
		return
	}

	response := triggerDetailResponse{
		Trigger: triggerResponse{
			ID:          trigger.ID,
			FingerCount: trigger.FingerCount,
			ActionName:  trigger.ActionName,
			AcceptedAt:  trigger.AcceptedAt.Format(timeLayout),
		},
	}

	invocation, err := h.store.Invocations().GetByTriggerID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get invocation")
		return
	}
	if invocation != nil {
		resp := &invocationResponse{
			ID:        invocation.ID,
			Outcome:   string(invocation.Outcome),
			Detail:    invocation.Detail,
			StartedAt: invocation.StartedAt.Format(timeLayout),
		}
		if invocation.FinishedAt != nil {
			resp.FinishedAt = invocation.FinishedAt.Format(timeLayout)
		}
		response.Invocation = resp
	}

	writeJSON(w, http.StatusOK, response)
}
