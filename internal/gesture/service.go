package gesture

import (
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// ServiceConfig holds recognition tuning for the gesture service.
type ServiceConfig struct {
	HoldTime        time.Duration
	Cooldown        time.Duration
	SafeZoneEnabled bool
	SafeZone        SafeZone
}

// DefaultServiceConfig returns the stock recognition settings.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		HoldTime:        DefaultHoldTime,
		Cooldown:        DefaultCooldown,
		SafeZoneEnabled: true,
		SafeZone:        DefaultSafeZone(),
	}
}

// Service turns frames into debounced gesture events. It runs the detector,
// classifies each hand, feeds the label through that hand's state machine,
// detects the two-hand heart composite, and applies the safe-zone filter.
//
// Hand identity is the handedness label only: two physical hands reported
// with the same label share one state machine. ProcessFrame must be called
// from a single goroutine; config updates may come from any goroutine.
type Service struct {
	detector   detector.Detector
	classifier *Classifier

	// mu guards the config, the machine map and every machine's timing
	// fields, and the last-frame snapshot. The machines themselves are
	// advanced only while it is held, so config reloads from other
	// goroutines never race the process worker.
	mu            sync.Mutex
	config        ServiceConfig
	machines      map[string]*StateMachine
	lastLandmarks []detector.HandLandmarks
	lastGesture   Type

	onGesture   []func(*Event)
	onLandmarks []func([]detector.HandLandmarks)
}

// NewService creates a gesture service over the given detector.
func NewService(det detector.Detector, config ServiceConfig) *Service {
	if config.HoldTime <= 0 {
		config.HoldTime = DefaultHoldTime
	}
	if config.Cooldown <= 0 {
		config.Cooldown = DefaultCooldown
	}
	return &Service{
		detector:   det,
		classifier: NewClassifier(),
		machines:   make(map[string]*StateMachine),
		config:     config,
	}
}

// ProcessFrame runs one recognition pass over a preprocessed frame and
// returns the detected hands plus at most one gesture event. A nil event
// means nothing triggered this frame. The error reports a transient
// detection failure; the caller logs it and skips the frame.
func (s *Service) ProcessFrame(frame *gocv.Mat) ([]detector.HandLandmarks, *Event, error) {
	hands, err := s.detector.Detect(frame)
	if err != nil {
		return nil, nil, err
	}

	var event *Event
	seen := make(map[string]bool, len(hands))

	s.mu.Lock()
	for i := range hands {
		hand := &hands[i]
		seen[hand.Handedness] = true

		label := s.classifier.Classify(hand)
		state, trigger := s.machineLocked(hand.Handedness).Update(label)

		if trigger && event == nil {
			center := hand.PalmCenter()
			event = newEvent(label, hand.Score, hand.Handedness,
				Position{X: center.X, Y: center.Y}, state, hand)
		}
	}

	// Hands that vanished this frame still advance their machines, so a
	// gesture abandoned mid-hold resets and an active cooldown keeps
	// running out.
	for label, m := range s.machines {
		if !seen[label] {
			m.Update(TypeUnknown)
		}
	}
	s.mu.Unlock()

	// The two-hand heart is a composite condition checked outside the
	// per-hand machines; it overrides whatever they produced this frame.
	if len(hands) >= 2 && s.classifier.DetectDoubleHeart(hands) {
		left := hands[0].PalmCenter()
		right := hands[1].PalmCenter()
		confidence := hands[0].Score
		if hands[1].Score < confidence {
			confidence = hands[1].Score
		}
		event = newEvent(TypeDoubleHeart, confidence, "Both",
			Position{X: (left.X + right.X) / 2, Y: (left.Y + right.Y) / 2},
			StateTriggered, nil)
	}

	if event != nil {
		s.mu.Lock()
		zoneEnabled, zone := s.config.SafeZoneEnabled, s.config.SafeZone
		s.mu.Unlock()
		if zoneEnabled && !zone.Contains(event.Position.X, event.Position.Y) {
			event = nil
		}
	}

	s.mu.Lock()
	s.lastLandmarks = hands
	if event != nil {
		s.lastGesture = event.Type
	}
	s.mu.Unlock()

	if len(hands) > 0 {
		for _, cb := range s.onLandmarks {
			invokeLandmarksCallback(cb, hands)
		}
	}
	if event != nil {
		for _, cb := range s.onGesture {
			invokeGestureCallback(cb, event)
		}
	}

	return hands, event, nil
}

// OnGesture registers a callback invoked for every event that passes the
// safe-zone filter. Callbacks run synchronously on the processing goroutine
// and must not block.
func (s *Service) OnGesture(cb func(*Event)) {
	s.onGesture = append(s.onGesture, cb)
}

// OnLandmarks registers a callback invoked whenever hands are detected.
func (s *Service) OnLandmarks(cb func([]detector.HandLandmarks)) {
	s.onLandmarks = append(s.onLandmarks, cb)
}

// LastGesture returns the type of the most recent event.
func (s *Service) LastGesture() Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGesture
}

// LastLandmarks returns the hands from the most recent frame.
func (s *Service) LastLandmarks() []detector.HandLandmarks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLandmarks
}

// SetSafeZone replaces the safe-zone rectangle.
func (s *Service) SetSafeZone(zone SafeZone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.SafeZone = zone
}

// EnableSafeZone toggles safe-zone filtering.
func (s *Service) EnableSafeZone(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.SafeZoneEnabled = enabled
}

// UpdateConfig applies new recognition settings, including the debounce
// timings of every existing state machine.
func (s *Service) UpdateConfig(config ServiceConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
	for _, m := range s.machines {
		m.SetTimings(config.HoldTime, config.Cooldown)
	}
}

// Release closes the detector and clears callbacks.
func (s *Service) Release() {
	if err := s.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	s.onGesture = nil
	s.onLandmarks = nil
}

// machineLocked returns the state machine for a hand identity, creating it
// on first sight. Callers hold s.mu.
func (s *Service) machineLocked(handedness string) *StateMachine {
	m, ok := s.machines[handedness]
	if !ok {
		m = NewStateMachine(s.config.HoldTime, s.config.Cooldown)
		s.machines[handedness] = m
	}
	return m
}

// Callback failure boundary: one bad subscriber must not kill the pipeline.

func invokeGestureCallback(cb func(*Event), ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Gesture callback panic: %v", r)
		}
	}()
	cb(ev)
}

func invokeLandmarksCallback(cb func([]detector.HandLandmarks), hands []detector.HandLandmarks) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Landmarks callback panic: %v", r)
		}
	}()
	cb(hands)
}
