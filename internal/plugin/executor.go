package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single plugin invocation.
const DefaultTimeout = 5 * time.Second

// Executor runs plugins as short-lived subprocesses: one JSON request on
// stdin, one JSON response on stdout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor. A non-positive timeout selects
// DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Execute runs the plugin with the given request. The context bounds the
// call in addition to the executor's own timeout.
func (e *Executor) Execute(ctx context.Context, p *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Path
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("plugin %s timed out after %s", p.Manifest.Name, e.timeout)
	}
	if err != nil {
		if msg := stderr.String(); msg != "" {
			return nil, fmt.Errorf("plugin %s failed: %w, stderr: %s", p.Manifest.Name, err, msg)
		}
		return nil, fmt.Errorf("plugin %s failed: %w", p.Manifest.Name, err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("plugin %s wrote invalid response: %w, stdout: %s",
			p.Manifest.Name, err, stdout.String())
	}
	return &resp, nil
}

// Host couples a Manager with an Executor: resolve by name, then run.
type Host struct {
	manager  *Manager
	executor *Executor
}

// NewHost creates a Host over the given manager and executor.
func NewHost(manager *Manager, executor *Executor) *Host {
	return &Host{manager: manager, executor: executor}
}

// Run executes the named plugin with the request.
func (h *Host) Run(ctx context.Context, name string, req *Request) (*Response, error) {
	p, err := h.manager.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return h.executor.Execute(ctx, p, req)
}
