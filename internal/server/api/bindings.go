package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/action"
)

// BindingsHandler serves the static finger-count to action binding table.
type BindingsHandler struct {
	bindings []action.Binding
}

// NewBindingsHandler creates a new BindingsHandler with the given bindings.
func NewBindingsHandler(bindings []action.Binding) *BindingsHandler {
	return &BindingsHandler{bindings: bindings}
}

type listBindingsResponse struct {
	Bindings []action.Binding `json:"bindings"`
}

// ServeHTTP handles GET requests to /api/bindings.
func (h *BindingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, listBindingsResponse{Bindings: h.bindings})
}
