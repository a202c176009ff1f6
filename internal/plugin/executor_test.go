package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script into its own plugin directory and
// returns a Plugin pointing at it.
func scriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell script test on Windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	p := scriptPlugin(t, "ok-plugin", `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"done"}}
EOF
`)

	executor := NewExecutor(5 * time.Second)
	resp, err := executor.Execute(context.Background(), p, &Request{
		Action:  "keystroke",
		Gesture: "fist",
		ScreenX: 960,
		ScreenY: 540,
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "done" {
		t.Errorf("expected message 'done', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	p := scriptPlugin(t, "echo-plugin", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	executor := NewExecutor(5 * time.Second)
	resp, err := executor.Execute(context.Background(), p, &Request{
		Action:  "left_click",
		Gesture: "one_finger",
		ScreenX: 100,
		ScreenY: 200,
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	received, ok := data["received"].(map[string]any)
	if !ok {
		t.Fatalf("expected 'received' to be an object, got %T", data["received"])
	}
	if received["action"] != "left_click" {
		t.Errorf("expected action 'left_click', got %v", received["action"])
	}
	if received["screen_x"] != float64(100) {
		t.Errorf("expected screen_x 100, got %v", received["screen_x"])
	}
}

func TestExecutor_Timeout(t *testing.T) {
	p := scriptPlugin(t, "slow-plugin", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	executor := NewExecutor(100 * time.Millisecond)
	_, err := executor.Execute(context.Background(), p, &Request{Action: "slow"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") &&
		!strings.Contains(err.Error(), "killed") &&
		!strings.Contains(err.Error(), "context deadline exceeded") {
		t.Errorf("expected timeout-related error, got: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	p := scriptPlugin(t, "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"key injection refused"}'
`)

	executor := NewExecutor(5 * time.Second)
	resp, err := executor.Execute(context.Background(), p, &Request{Action: "keystroke"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error != "key injection refused" {
		t.Errorf("expected error 'key injection refused', got %q", resp.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	p := scriptPlugin(t, "bad-plugin", `#!/bin/sh
echo 'not valid json'
`)

	executor := NewExecutor(5 * time.Second)
	if _, err := executor.Execute(context.Background(), p, &Request{Action: "bad"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	p := scriptPlugin(t, "exit-plugin", `#!/bin/sh
echo "Error: injection failed" >&2
exit 1
`)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(context.Background(), p, &Request{Action: "exit"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "injection failed") {
		t.Errorf("stderr not surfaced in error: %v", err)
	}
}

func TestHost_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell script test on Windows")
	}
	tmpDir := t.TempDir()
	pluginDir := filepath.Join(tmpDir, "keyboard")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name":"keyboard","version":"1.0.0","executable":"keyboard.sh"}`
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(pluginDir, "keyboard.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	host := NewHost(manager, NewExecutor(5*time.Second))

	resp, err := host.Run(context.Background(), "keyboard", &Request{Action: "keystroke"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}

	if _, err := host.Run(context.Background(), "missing", &Request{}); err == nil {
		t.Error("Run() on an unknown plugin did not fail")
	}
}
