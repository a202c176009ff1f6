package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func seedMapping(t *testing.T, s *store.Store) *store.Mapping {
	t.Helper()
	m := &store.Mapping{
		Gesture:     "fist",
		ActionType:  "keyboard",
		ActionValue: "space",
		DisplayName: "Play/Pause",
		CooldownMS:  500,
		Enabled:     true,
	}
	if err := s.Mappings().Create(m); err != nil {
		t.Fatalf("failed to create mapping: %v", err)
	}
	return m
}

func TestMappingHandler_List(t *testing.T) {
	s := newTestStore(t)
	seedMapping(t, s)
	handler := NewMappingHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/mappings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listMappingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Mappings) != 1 {
		t.Fatalf("expected 1 mapping, got %d", len(response.Mappings))
	}
	if response.Mappings[0].Gesture != "fist" {
		t.Errorf("expected gesture fist, got %s", response.Mappings[0].Gesture)
	}
}

func TestMappingHandler_Create(t *testing.T) {
	s := newTestStore(t)
	changed := false
	handler := NewMappingHandler(s, func() { changed = true })

	body, _ := json.Marshal(map[string]any{
		"gesture":     "heart",
		"action_type": "effect",
		"action":      "star_heart",
		"parameters":  map[string]any{"follow_hand": true},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/mappings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if !changed {
		t.Error("expected onChange to run after create")
	}

	var response mappingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID == "" {
		t.Error("expected generated id")
	}
	if response.CooldownMS != 500 {
		t.Errorf("expected default cooldown 500, got %d", response.CooldownMS)
	}
	if !response.Enabled {
		t.Error("expected mapping enabled by default")
	}

	stored, err := s.Mappings().GetByGesture("heart")
	if err != nil || stored == nil {
		t.Fatalf("mapping not persisted: %v", err)
	}
}

func TestMappingHandler_Create_Validation(t *testing.T) {
	s := newTestStore(t)
	handler := NewMappingHandler(s, nil)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing gesture", map[string]any{"action_type": "keyboard", "action": "space"}},
		{"invalid action type", map[string]any{"gesture": "fist", "action_type": "teleport", "action": "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/api/mappings", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestMappingHandler_Get(t *testing.T) {
	s := newTestStore(t)
	m := seedMapping(t, s)
	handler := NewMappingHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/mappings/"+m.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response mappingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Action != "space" {
		t.Errorf("expected action space, got %s", response.Action)
	}
}

func TestMappingHandler_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewMappingHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/mappings/nonexistent", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestMappingHandler_Update(t *testing.T) {
	s := newTestStore(t)
	m := seedMapping(t, s)
	changed := false
	handler := NewMappingHandler(s, func() { changed = true })

	disabled := false
	body, _ := json.Marshal(map[string]any{
		"action":  "enter",
		"enabled": disabled,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/mappings/"+m.ID, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if !changed {
		t.Error("expected onChange to run after update")
	}

	stored, err := s.Mappings().GetByID(m.ID)
	if err != nil {
		t.Fatalf("failed to get mapping: %v", err)
	}
	if stored.ActionValue != "enter" {
		t.Errorf("expected action enter, got %s", stored.ActionValue)
	}
	if stored.Enabled {
		t.Error("expected mapping disabled after update")
	}
}

func TestMappingHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	m := seedMapping(t, s)
	handler := NewMappingHandler(s, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/mappings/"+m.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	if _, err := s.Mappings().GetByID(m.ID); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMappingHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewMappingHandler(s, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/mappings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
