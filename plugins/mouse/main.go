// Package main provides a mouse plugin for macOS.
// It performs clicks, scrolls and pointer moves at hand-tracked screen
// coordinates via cliclick.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	ScreenX int             `json:"screen_x"`
	ScreenY int             `json:"screen_y"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ScrollParams defines parameters for scroll actions.
type ScrollParams struct {
	Amount float64 `json:"amount"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var err error
	switch req.Action {
	case "left_click":
		err = runCliclick(fmt.Sprintf("c:%d,%d", req.ScreenX, req.ScreenY))
	case "right_click":
		err = runCliclick(fmt.Sprintf("rc:%d,%d", req.ScreenX, req.ScreenY))
	case "double_click":
		err = runCliclick(fmt.Sprintf("dc:%d,%d", req.ScreenX, req.ScreenY))
	case "move":
		err = runCliclick(fmt.Sprintf("m:%d,%d", req.ScreenX, req.ScreenY))
	case "scroll_up":
		err = scroll(req.Params, -1)
	case "scroll_down":
		err = scroll(req.Params, 1)
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

// scroll issues a vertical scroll. direction is -1 for up, 1 for down.
func scroll(params json.RawMessage, direction int) error {
	amount := 5.0
	if len(params) > 0 {
		var p ScrollParams
		if err := json.Unmarshal(params, &p); err != nil {
			return fmt.Errorf("failed to parse params: %w", err)
		}
		if p.Amount > 0 {
			amount = p.Amount
		}
	}

	script := fmt.Sprintf(
		`tell application "System Events" to scroll area 1 of window 1 of (first application process whose frontmost is true) by {0, %d}`,
		direction*int(amount),
	)
	if err := runAppleScript(script); err != nil {
		// Fall back to arrow-key scrolling when the frontmost app has no
		// scroll area.
		keyCode := 126 // up
		if direction > 0 {
			keyCode = 125 // down
		}
		return runAppleScript(fmt.Sprintf(`tell application "System Events" to key code %d`, keyCode))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runCliclick executes a cliclick command and returns any error.
func runCliclick(args ...string) error {
	cmd := exec.Command("cliclick", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
