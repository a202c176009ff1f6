// Package api provides HTTP API handlers for the Mudra gesture pipeline.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/store"
)

// MappingHandler handles HTTP requests for gesture mapping resources.
type MappingHandler struct {
	store    *store.Store
	onChange func()
}

// NewMappingHandler creates a new MappingHandler. onChange (optional) runs
// after every successful mutation.
func NewMappingHandler(s *store.Store, onChange func()) *MappingHandler {
	return &MappingHandler{store: s, onChange: onChange}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *MappingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/mappings or /api/mappings/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/mappings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type mappingRequest struct {
	Gesture     string         `json:"gesture"`
	ActionType  string         `json:"action_type"`
	Action      string         `json:"action"`
	DisplayName string         `json:"display_name"`
	CooldownMS  int            `json:"cooldown_ms"`
	Parameters  map[string]any `json:"parameters"`
	Enabled     *bool          `json:"enabled"`
}

type mappingResponse struct {
	ID          string         `json:"id"`
	Gesture     string         `json:"gesture"`
	ActionType  string         `json:"action_type"`
	Action      string         `json:"action"`
	DisplayName string         `json:"display_name"`
	CooldownMS  int            `json:"cooldown_ms"`
	Parameters  map[string]any `json:"parameters"`
	Enabled     bool           `json:"enabled"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type listMappingsResponse struct {
	Mappings []mappingResponse `json:"mappings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var validActionTypes = map[string]bool{
	string(action.TypeKeyboard):  true,
	string(action.TypeMouse):     true,
	string(action.TypeSystem):    true,
	string(action.TypeScript):    true,
	string(action.TypeEffect):    true,
	string(action.TypeComposite): true,
}

// toResponse converts a store.Mapping to a mappingResponse.
func toResponse(m *store.Mapping) mappingResponse {
	var params map[string]any
	if m.Parameters != "" {
		json.Unmarshal([]byte(m.Parameters), &params)
	}
	if params == nil {
		params = map[string]any{}
	}
	return mappingResponse{
		ID:          m.ID,
		Gesture:     m.Gesture,
		ActionType:  m.ActionType,
		Action:      m.ActionValue,
		DisplayName: m.DisplayName,
		CooldownMS:  m.CooldownMS,
		Parameters:  params,
		Enabled:     m.Enabled,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
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

func (h *MappingHandler) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// list handles GET /api/mappings and returns all mappings.
func (h *MappingHandler) list(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.store.Mappings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list mappings")
		return
	}

	response := listMappingsResponse{
		Mappings: make([]mappingResponse, 0, len(mappings)),
	}
	for _, m := range mappings {
		response.Mappings = append(response.Mappings, toResponse(m))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/mappings/{id} and returns a single mapping.
func (h *MappingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	mapping, err := h.store.Mappings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mapping not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get mapping")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(mapping))
}

// create handles POST /api/mappings and creates a new mapping.
func (h *MappingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Gesture == "" {
		writeError(w, http.StatusBadRequest, "Gesture is required")
		return
	}
	if !validActionTypes[req.ActionType] {
		writeError(w, http.StatusBadRequest, "Invalid action type")
		return
	}

	params := "{}"
	if len(req.Parameters) > 0 {
		b, err := json.Marshal(req.Parameters)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parameters")
			return
		}
		params = string(b)
	}

	cooldown := req.CooldownMS
	if cooldown <= 0 {
		cooldown = action.DefaultCooldownMS
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	mapping := &store.Mapping{
		Gesture:     req.Gesture,
		ActionType:  req.ActionType,
		ActionValue: req.Action,
		DisplayName: req.DisplayName,
		CooldownMS:  cooldown,
		Parameters:  params,
		Enabled:     enabled,
	}

	if err := h.store.Mappings().Create(mapping); err != nil {
		writeError(w, http.StatusConflict, "Failed to create mapping")
		return
	}
	h.changed()

	writeJSON(w, http.StatusCreated, toResponse(mapping))
}

// update handles PUT /api/mappings/{id} and updates an existing mapping.
func (h *MappingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	mapping, err := h.store.Mappings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mapping not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get mapping")
		return
	}

	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Gesture != "" {
		mapping.Gesture = req.Gesture
	}
	if req.ActionType != "" {
		if !validActionTypes[req.ActionType] {
			writeError(w, http.StatusBadRequest, "Invalid action type")
			return
		}
		mapping.ActionType = req.ActionType
	}
	if req.Action != "" {
		mapping.ActionValue = req.Action
	}
	if req.DisplayName != "" {
		mapping.DisplayName = req.DisplayName
	}
	if req.CooldownMS > 0 {
		mapping.CooldownMS = req.CooldownMS
	}
	if req.Parameters != nil {
		b, err := json.Marshal(req.Parameters)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parameters")
			return
		}
		mapping.Parameters = string(b)
	}
	if req.Enabled != nil {
		mapping.Enabled = *req.Enabled
	}

	if err := h.store.Mappings().Update(mapping); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update mapping")
		return
	}
	h.changed()

	writeJSON(w, http.StatusOK, toResponse(mapping))
}

// delete handles DELETE /api/mappings/{id} and removes a mapping.
func (h *MappingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Mappings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mapping not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete mapping")
		return
	}
	h.changed()

	w.WriteHeader(http.StatusNoContent)
}
