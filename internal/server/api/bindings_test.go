package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/action"
)

func TestBindingsHandler_List(t *testing.T) {
	bindings := []action.Binding{
		{Count: 1, Action: action.NameListInstances, Mutating: false},
		{Count: 2, Action: action.NameStartInstance, Mutating: true},
	}
	handler := NewBindingsHandler(bindings)

	req := httptest.NewRequest(http.MethodGet, "/api/bindings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listBindingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(response.Bindings))
	}
	if response.Bindings[1].Action != action.NameStartInstance {
		t.Errorf("expected action %q, got %q", action.NameStartInstance, response.Bindings[1].Action)
	}
	if !response.Bindings[1].Mutating {
		t.Error("start-instance binding should be mutating")
	}
}

func TestBindingsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewBindingsHandler(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bindings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
