// Package plugin discovers and runs the external action plugins that inject
// keyboard, mouse and system events into the host OS.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and the actions it handles.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
	Platforms   []string `json:"platforms,omitempty"`
}

// Request is sent to a plugin on stdin as a single JSON document. ScreenX
// and ScreenY carry the gesture position already mapped to pixels; plugins
// that do not care about position ignore them.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture,omitempty"`
	ScreenX int             `json:"screen_x"`
	ScreenY int             `json:"screen_y"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is read back from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin: its manifest plus resolved paths.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
