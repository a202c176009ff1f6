package action

import (
	"image"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// SystemAdapter injects keyboard, mouse, system and script actions into the
// host OS.
type SystemAdapter interface {
	Execute(a *Action, screenPos image.Point) *Result
	NormalizedToScreen(x, y float64) image.Point
}

// EffectRenderer draws particle effects over camera frames.
type EffectRenderer interface {
	Trigger(name string, pos gesture.Position) error
	Update(dt float64)
	Render(frame *gocv.Mat)
	ActiveParticleCount() int
	ClearAll()
}

// Service maps triggered gestures to actions, enforces per-gesture
// cooldowns, and dispatches to the system adapter or effect renderer.
//
// This cooldown ledger is separate from the debouncer's own per-gesture
// cooldown; a gesture must clear both gates before an action runs.
type Service struct {
	adapter SystemAdapter
	effects EffectRenderer
	mapping *Mapping

	mu        sync.Mutex
	lastFired map[string]time.Time

	onAction []func(*Action, *Result)
	onEffect []func(string, gesture.Position)

	now func() time.Time
}

// NewService creates an action service over the given collaborators.
func NewService(adapter SystemAdapter, effects EffectRenderer, records []Record) *Service {
	mapping := NewMapping()
	mapping.Load(records)
	return &Service{
		adapter:   adapter,
		effects:   effects,
		mapping:   mapping,
		lastFired: make(map[string]time.Time),
		now:       time.Now,
	}
}

// GestureName converts a gesture type to its mapping-table key. The two-hand
// heart composite shares the single-hand heart mapping.
func GestureName(t gesture.Type) string {
	if t == gesture.TypeDoubleHeart {
		return "heart"
	}
	return t.String()
}

// HandleGesture resolves and dispatches the action for a gesture event.
// It returns nil when the gesture has no mapping or is still cooling down;
// neither path touches the cooldown ledger. Dispatch failures come back as
// a failed Result, never as an error.
func (s *Service) HandleGesture(event *gesture.Event) *Result {
	if event == nil {
		return nil
	}
	name := GestureName(event.Type)

	a := s.mapping.Get(name)
	if a == nil {
		return nil
	}
	if s.inCooldown(name, a.CooldownMS) {
		return nil
	}

	result := s.execute(a, event)

	if result != nil && result.Success {
		s.mu.Lock()
		s.lastFired[name] = s.now()
		s.mu.Unlock()

		for _, cb := range s.onAction {
			invokeActionCallback(cb, a, result)
		}
	}
	return result
}

func (s *Service) execute(a *Action, event *gesture.Event) *Result {
	if a.Type == TypeEffect {
		return s.executeEffect(a, event)
	}
	screenPos := s.adapter.NormalizedToScreen(event.Position.X, event.Position.Y)
	return s.adapter.Execute(a, screenPos)
}

func (s *Service) executeEffect(a *Action, event *gesture.Event) *Result {
	center := gesture.Position{X: 0.5, Y: 0.5}
	if a.BoolParam("follow_hand", true) {
		center = event.Position
	}

	start := s.now()
	if err := s.effects.Trigger(a.Value, center); err != nil {
		log.Printf("effect %q failed: %v", a.Value, err)
		return FailureResult(a, err)
	}

	for _, cb := range s.onEffect {
		invokeEffectCallback(cb, a.Value, center)
	}
	return SuccessResult(a, "effect "+a.Value+" triggered", s.now().Sub(start))
}

func (s *Service) inCooldown(name string, cooldownMS int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastFired[name]
	if !ok {
		return false
	}
	return s.now().Sub(last) < time.Duration(cooldownMS)*time.Millisecond
}

// OnAction registers a callback invoked after every successful dispatch.
func (s *Service) OnAction(cb func(*Action, *Result)) {
	s.onAction = append(s.onAction, cb)
}

// OnEffect registers a callback invoked when an effect fires.
func (s *Service) OnEffect(cb func(string, gesture.Position)) {
	s.onEffect = append(s.onEffect, cb)
}

// UpdateEffect ages active particles by dt seconds.
func (s *Service) UpdateEffect(dt float64) {
	s.effects.Update(dt)
}

// RenderEffects draws active particles onto the frame.
func (s *Service) RenderEffects(frame *gocv.Mat) {
	s.effects.Render(frame)
}

// TriggerEffect fires an effect directly, bypassing mapping and cooldown.
func (s *Service) TriggerEffect(name string, pos gesture.Position) error {
	return s.effects.Trigger(name, pos)
}

// ActiveParticleCount reports how many particles are currently alive.
func (s *Service) ActiveParticleCount() int {
	return s.effects.ActiveParticleCount()
}

// ClearEffects removes all active particles.
func (s *Service) ClearEffects() {
	s.effects.ClearAll()
}

// ActionForGesture returns the mapped action for a gesture type, or nil.
func (s *Service) ActionForGesture(t gesture.Type) *Action {
	return s.mapping.Get(GestureName(t))
}

// Mappings returns a copy of the current gesture mapping table.
func (s *Service) Mappings() map[string]*Action {
	return s.mapping.All()
}

// UpdateMapping inserts or replaces one gesture mapping.
func (s *Service) UpdateMapping(gestureName string, a *Action) {
	s.mapping.Register(gestureName, a)
}

// ReloadMappings replaces the whole mapping table.
func (s *Service) ReloadMappings(records []Record) {
	s.mapping.Load(records)
	log.Printf("loaded %d gesture mappings", s.mapping.Len())
}

func invokeActionCallback(cb func(*Action, *Result), a *Action, r *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("action callback panicked: %v", rec)
		}
	}()
	cb(a, r)
}

func invokeEffectCallback(cb func(string, gesture.Position), name string, pos gesture.Position) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("effect callback panicked: %v", rec)
		}
	}()
	cb(name, pos)
}
