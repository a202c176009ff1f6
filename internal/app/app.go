// Package app owns the system lifecycle and the capture/process pipeline.
package app

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// SystemState is the orchestrator's lifecycle state.
type SystemState int

const (
	StateStopped SystemState = iota
	StateStarting
	StateRunning
	StatePaused
	StateStopping
	StateError
)

var systemStateNames = map[SystemState]string{
	StateStopped:  "stopped",
	StateStarting: "starting",
	StateRunning:  "running",
	StatePaused:   "paused",
	StateStopping: "stopping",
	StateError:    "error",
}

func (s SystemState) String() string {
	if name, ok := systemStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Pipeline sizing. The frame queue is deliberately tiny: a stale frame is
// worthless, so recognition always works on the freshest capture.
const (
	frameQueueCap  = 2
	resultQueueCap = 10

	pauseSleep   = 100 * time.Millisecond
	popTimeout   = 100 * time.Millisecond
	captureSleep = time.Millisecond

	defaultJoinTimeout = 2 * time.Second
)

// FrameResult is one processed pipeline iteration, fanned out to frame
// subscribers and the result queue. The receiver owns Frame and must Close
// it.
type FrameResult struct {
	Frame     *gocv.Mat
	Landmarks []detector.HandLandmarks
	Event     *gesture.Event
	FPS       float64
}

// capturedFrame pairs the display frame with its detection copy.
type capturedFrame struct {
	raw *gocv.Mat
	rgb *gocv.Mat
	t   time.Time
}

func (f capturedFrame) close() {
	if f.raw != nil {
		f.raw.Close()
	}
	if f.rgb != nil {
		f.rgb.Close()
	}
}

// Options tune the orchestrator.
type Options struct {
	ShowSkeleton bool
	// JoinTimeout bounds how long Stop waits for each worker.
	JoinTimeout time.Duration
}

// Orchestrator coordinates the camera, the gesture service and the action
// service: it owns the lifecycle state machine and the two pipeline
// workers.
type Orchestrator struct {
	camera   capture.Camera
	gestures *gesture.Service
	actions  *action.Service
	opts     Options

	mu    sync.Mutex
	state SystemState

	running     atomic.Bool
	frames      *dropQueue[capturedFrame]
	results     *dropQueue[*FrameResult]
	captureDone chan struct{}
	processDone chan struct{}

	fps           *fpsCounter
	lastFrameTime time.Time

	onFrame   []func(*FrameResult)
	onGesture []func(*gesture.Event, *action.Result)
	onState   []func(old, new SystemState)
}

// NewOrchestrator wires the collaborators together. Call Start to run.
func NewOrchestrator(camera capture.Camera, gestures *gesture.Service, actions *action.Service, opts Options) *Orchestrator {
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = defaultJoinTimeout
	}
	return &Orchestrator{
		camera:   camera,
		gestures: gestures,
		actions:  actions,
		opts:     opts,
		state:    StateStopped,
		frames:   newDropQueue[capturedFrame](frameQueueCap),
		results:  newDropQueue[*FrameResult](resultQueueCap),
		fps:      newFPSCounter(),
	}
}

// Start brings the system from STOPPED to RUNNING. It returns false when
// the system is in any other state, or when initialization fails; a failed
// start transitions through ERROR and cleans up back to STOPPED.
func (o *Orchestrator) Start() bool {
	o.mu.Lock()
	if o.state != StateStopped {
		o.mu.Unlock()
		log.Printf("cannot start from state %s", o.state)
		return false
	}
	o.setStateLocked(StateStarting)
	o.mu.Unlock()

	if err := o.camera.Start(); err != nil {
		log.Printf("camera failed to start: %v", err)
		o.setState(StateError)
		o.Stop()
		return false
	}

	o.lastFrameTime = time.Now()
	o.running.Store(true)
	o.captureDone = make(chan struct{})
	o.processDone = make(chan struct{})
	go o.captureLoop()
	go o.processLoop()

	o.setState(StateRunning)
	log.Print("system started")
	return true
}

// Stop brings the system to STOPPED from any non-stopped state. Workers
// are joined with a bounded timeout; a worker that does not exit in time
// is abandoned.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.state == StateStopped {
		o.mu.Unlock()
		return
	}
	o.setStateLocked(StateStopping)
	o.mu.Unlock()

	o.running.Store(false)
	o.join(o.captureDone, "capture")
	o.join(o.processDone, "process")

	if err := o.camera.Stop(); err != nil {
		log.Printf("camera stop: %v", err)
	}
	o.gestures.Release()
	o.actions.ClearEffects()

	o.frames.Drain(func(f capturedFrame) { f.close() })
	o.results.Drain(func(r *FrameResult) {
		if r.Frame != nil {
			r.Frame.Close()
		}
	})

	o.setState(StateStopped)
	log.Print("system stopped")
}

func (o *Orchestrator) join(done chan struct{}, name string) {
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(o.opts.JoinTimeout):
		log.Printf("%s worker did not stop within %s, abandoning", name, o.opts.JoinTimeout)
	}
}

// Pause suspends both workers without tearing anything down; Resume is
// instant.
func (o *Orchestrator) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateRunning {
		o.setStateLocked(StatePaused)
	}
}

// Resume continues a paused system.
func (o *Orchestrator) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StatePaused {
		o.setStateLocked(StateRunning)
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() SystemState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsRunning reports whether the pipeline is actively processing.
func (o *Orchestrator) IsRunning() bool {
	return o.State() == StateRunning
}

// FPS returns the current processing throughput.
func (o *Orchestrator) FPS() float64 {
	return o.fps.FPS()
}

// LatestResult pops the most recent processed result, or nil when none is
// waiting. The caller owns the result's Frame.
func (o *Orchestrator) LatestResult() *FrameResult {
	result, ok := o.results.TryPop()
	if !ok {
		return nil
	}
	return result
}

// ReloadConfig pushes new recognition settings and mapping records into
// the running services. Safe while the pipeline is running.
func (o *Orchestrator) ReloadConfig(cfg gesture.ServiceConfig, records []action.Record) {
	o.gestures.UpdateConfig(cfg)
	if records != nil {
		o.actions.ReloadMappings(records)
	}
}

// TriggerEffect fires an effect by hand, bypassing gesture recognition.
func (o *Orchestrator) TriggerEffect(name string, pos gesture.Position) error {
	return o.actions.TriggerEffect(name, pos)
}

// Actions exposes the action service for the presentation layer.
func (o *Orchestrator) Actions() *action.Service {
	return o.actions
}

// Gestures exposes the gesture service for the presentation layer.
func (o *Orchestrator) Gestures() *gesture.Service {
	return o.gestures
}

// OnFrame registers a subscriber for every processed frame. Invoked from
// the process worker; it must not block.
func (o *Orchestrator) OnFrame(cb func(*FrameResult)) {
	o.onFrame = append(o.onFrame, cb)
}

// OnGesture registers a subscriber for dispatched gesture events.
func (o *Orchestrator) OnGesture(cb func(*gesture.Event, *action.Result)) {
	o.onGesture = append(o.onGesture, cb)
}

// OnStateChange registers a subscriber for lifecycle transitions.
func (o *Orchestrator) OnStateChange(cb func(old, new SystemState)) {
	o.onState = append(o.onState, cb)
}

func (o *Orchestrator) setState(s SystemState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setStateLocked(s)
}

// setStateLocked performs the transition and notifies subscribers. Callers
// hold o.mu.
func (o *Orchestrator) setStateLocked(s SystemState) {
	old := o.state
	o.state = s
	for _, cb := range o.onState {
		invokeStateCallback(cb, old, s)
	}
}

func invokeStateCallback(cb func(old, new SystemState), old, new SystemState) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("state change callback panicked: %v", r)
		}
	}()
	cb(old, new)
}
