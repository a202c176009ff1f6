// Package system injects gesture-triggered actions into the host OS by
// delegating to the discovered action plugins.
package system

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/plugin"
)

// Plugin names the adapter dispatches to.
const (
	keyboardPlugin = "keyboard"
	mousePlugin    = "mouse"
	systemPlugin   = "system-control"
)

// DefaultScriptTimeout bounds script actions that do not configure their own.
const DefaultScriptTimeout = 30 * time.Second

// Runner executes a named plugin. Satisfied by *plugin.Host.
type Runner interface {
	Run(ctx context.Context, name string, req *plugin.Request) (*plugin.Response, error)
}

// Adapter implements action dispatch over the plugin host plus direct
// script execution. Screen dimensions come from configuration since the
// adapter itself has no display access.
type Adapter struct {
	runner  Runner
	screenW int
	screenH int

	// runScript is swapped in tests.
	runScript func(ctx context.Context, command string) error
}

// NewAdapter creates an adapter over the given plugin runner.
func NewAdapter(runner Runner, screenW, screenH int) *Adapter {
	if screenW <= 0 {
		screenW = 1920
	}
	if screenH <= 0 {
		screenH = 1080
	}
	return &Adapter{
		runner:    runner,
		screenW:   screenW,
		screenH:   screenH,
		runScript: runShellScript,
	}
}

// Execute dispatches one action. Failures are folded into the returned
// Result; Execute itself never panics or returns an error value.
func (ad *Adapter) Execute(a *action.Action, screenPos image.Point) *action.Result {
	start := time.Now()

	var err error
	switch a.Type {
	case action.TypeKeyboard:
		err = ad.executeKeyboard(a)
	case action.TypeMouse:
		err = ad.executeMouse(a, screenPos)
	case action.TypeSystem:
		err = ad.executeSystem(a)
	case action.TypeScript:
		err = ad.executeScript(a)
	default:
		err = fmt.Errorf("unsupported action type %q", a.Type)
	}

	if err != nil {
		return action.FailureResult(a, err)
	}
	return action.SuccessResult(a, "", time.Since(start))
}

// executeKeyboard sends a key press or a "ctrl+shift+x" style shortcut to
// the keyboard plugin.
func (ad *Adapter) executeKeyboard(a *action.Action) error {
	value := strings.ToLower(a.Value)

	pluginAction := "keystroke"
	params := map[string]any{"key": value}
	if strings.Contains(value, "+") {
		parts := strings.Split(value, "+")
		pluginAction = "shortcut"
		params = map[string]any{
			"key":       parts[len(parts)-1],
			"modifiers": parts[:len(parts)-1],
		}
	}
	return ad.runPlugin(keyboardPlugin, &plugin.Request{
		Action: pluginAction,
		Params: mustParams(params),
	})
}

// executeMouse forwards clicks, scrolls and moves with the target pixel
// position.
func (ad *Adapter) executeMouse(a *action.Action, pos image.Point) error {
	params := map[string]any{}
	if amount, ok := a.Parameters["amount"]; ok {
		params["amount"] = amount
	}
	return ad.runPlugin(mousePlugin, &plugin.Request{
		Action:  strings.ToLower(a.Value),
		ScreenX: pos.X,
		ScreenY: pos.Y,
		Params:  mustParams(params),
	})
}

// executeSystem forwards volume, media, brightness and lock actions.
func (ad *Adapter) executeSystem(a *action.Action) error {
	return ad.runPlugin(systemPlugin, &plugin.Request{
		Action: strings.ToLower(a.Value),
	})
}

// executeScript runs the configured command directly, bounded by the
// action's timeout parameter in seconds.
func (ad *Adapter) executeScript(a *action.Action) error {
	timeout := DefaultScriptTimeout
	if secs, ok := a.Parameters["timeout"].(float64); ok && secs > 0 {
		timeout = time.Duration(secs * float64(time.Second))
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ad.runScript(ctx, a.Value)
}

func (ad *Adapter) runPlugin(name string, req *plugin.Request) error {
	resp, err := ad.runner.Run(context.Background(), name, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error == "" {
			return errors.New("plugin reported failure")
		}
		return errors.New(resp.Error)
	}
	return nil
}

// NormalizedToScreen maps a [0,1]² position to pixels.
func (ad *Adapter) NormalizedToScreen(x, y float64) image.Point {
	return image.Pt(int(x*float64(ad.screenW)), int(y*float64(ad.screenH)))
}

// ScreenToNormalized maps pixels back to [0,1]².
func (ad *Adapter) ScreenToNormalized(p image.Point) (float64, float64) {
	return float64(p.X) / float64(ad.screenW), float64(p.Y) / float64(ad.screenH)
}

func runShellScript(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func mustParams(params map[string]any) json.RawMessage {
	if len(params) == 0 {
		return nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil
	}
	return data
}
