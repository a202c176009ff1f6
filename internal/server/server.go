// Package server provides the HTTP control surface for the Mudra gesture
// pipeline.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline is the orchestrator surface the server drives. Implemented by
// *app.Orchestrator.
type Pipeline interface {
	Start() bool
	Stop()
	Pause()
	Resume()
	State() app.SystemState
	FPS() float64
	LatestResult() *app.FrameResult
	OnGesture(cb func(*gesture.Event, *action.Result))
	OnStateChange(cb func(old, new app.SystemState))
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Pipeline  Pipeline
	// OnMappingsChanged runs after any mapping mutation, so callers can
	// push the new table into the action layer.
	OnMappingsChanged func()
}

// Server is the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		mappingHandler := api.NewMappingHandler(s.config.Store, s.config.OnMappingsChanged)
		s.mux.Handle("/api/mappings", mappingHandler)
		s.mux.Handle("/api/mappings/", mappingHandler)
	}

	if s.config.Pipeline != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Pipeline))
		s.mux.Handle("/api/events", NewEventsHandler(s.config.Pipeline))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type stateResponse struct {
	State string  `json:"state"`
	FPS   float64 `json:"fps"`
}

type stateCommand struct {
	Command string `json:"command"`
}

// handleState reports the pipeline state on GET and drives lifecycle
// commands on POST.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var cmd stateCommand
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		switch cmd.Command {
		case "start":
			if !s.config.Pipeline.Start() {
				http.Error(w, "Pipeline is not stopped", http.StatusConflict)
				return
			}
		case "stop":
			s.config.Pipeline.Stop()
		case "pause":
			s.config.Pipeline.Pause()
		case "resume":
			s.config.Pipeline.Resume()
		default:
			http.Error(w, "Unknown command", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := stateResponse{
		State: s.config.Pipeline.State().String(),
		FPS:   s.config.Pipeline.FPS(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
