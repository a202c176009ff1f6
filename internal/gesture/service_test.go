package gesture

import (
	"errors"
	"math"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// fastConfig debounces almost instantly so trigger paths can be exercised
// with real time.
func fastConfig() ServiceConfig {
	return ServiceConfig{
		HoldTime:        time.Nanosecond,
		Cooldown:        time.Millisecond,
		SafeZoneEnabled: false,
	}
}

func processFrames(t *testing.T, s *Service, n int) *Event {
	t.Helper()
	var frame gocv.Mat
	var event *Event
	for i := 0; i < n; i++ {
		_, ev, err := s.ProcessFrame(&frame)
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if ev != nil {
			event = ev
		}
		time.Sleep(time.Millisecond)
	}
	return event
}

func TestService_TriggersDebouncedEvent(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	s := NewService(mock, fastConfig())
	event := processFrames(t, s, 4)

	if event == nil {
		t.Fatal("expected a gesture event after the hold time")
	}
	if event.Type != TypeFist {
		t.Errorf("event type = %v, want fist", event.Type)
	}
	if event.Handedness != "Right" {
		t.Errorf("handedness = %q, want Right", event.Handedness)
	}
	if event.ID == "" {
		t.Error("event has no ID")
	}

	center := detector.FistLandmarks().PalmCenter()
	if math.Abs(event.Position.X-center.X) > 1e-9 {
		t.Errorf("position x = %f, want palm center %f", event.Position.X, center.X)
	}
}

func TestService_DetectorErrorPropagates(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetError(errors.New("camera glitch"))

	s := NewService(mock, fastConfig())
	var frame gocv.Mat
	_, ev, err := s.ProcessFrame(&frame)
	if err == nil {
		t.Fatal("expected detection error")
	}
	if ev != nil {
		t.Error("event produced despite detection error")
	}
}

func TestService_DoubleHeartComposite(t *testing.T) {
	left := detector.HeartHalfLandmarks("Left")
	right := detector.HeartHalfLandmarks("Right")

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{left, right})

	s := NewService(mock, fastConfig())

	// Composite bypasses the state machines: a single frame suffices.
	var frame gocv.Mat
	_, event, err := s.ProcessFrame(&frame)
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	if event == nil {
		t.Fatal("expected a double-heart event")
	}
	if event.Type != TypeDoubleHeart {
		t.Fatalf("event type = %v, want double_heart", event.Type)
	}
	if event.Handedness != "Both" {
		t.Errorf("handedness = %q, want Both", event.Handedness)
	}
	if event.State != StateTriggered {
		t.Errorf("state = %v, want triggered", event.State)
	}

	// Position is the midpoint of the two palm centers.
	lc, rc := left.PalmCenter(), right.PalmCenter()
	wantX := (lc.X + rc.X) / 2
	wantY := (lc.Y + rc.Y) / 2
	if math.Abs(event.Position.X-wantX) > 1e-9 || math.Abs(event.Position.Y-wantY) > 1e-9 {
		t.Errorf("position = (%f, %f), want (%f, %f)",
			event.Position.X, event.Position.Y, wantX, wantY)
	}

	// Confidence is the minimum of the two hands.
	want := left.Score
	if right.Score < want {
		want = right.Score
	}
	if event.Confidence != want {
		t.Errorf("confidence = %f, want %f", event.Confidence, want)
	}
}

func TestService_SafeZoneFiltersEvents(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{
		detector.HeartHalfLandmarks("Left"),
		detector.HeartHalfLandmarks("Right"),
	})

	config := fastConfig()
	config.SafeZoneEnabled = true
	// The double-heart midpoint lands near (0.5, 0.7); exclude it.
	config.SafeZone = SafeZone{XMin: 0.0, XMax: 0.3, YMin: 0.0, YMax: 0.3}

	s := NewService(mock, config)

	var frame gocv.Mat
	_, event, err := s.ProcessFrame(&frame)
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	if event != nil {
		t.Errorf("event outside the safe zone not discarded: %v", event.Type)
	}

	// Widen the zone: the same gesture now passes.
	s.SetSafeZone(SafeZone{XMin: 0.2, XMax: 0.8, YMin: 0.2, YMax: 0.8})
	_, event, err = s.ProcessFrame(&frame)
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	if event == nil {
		t.Error("event inside the safe zone was discarded")
	}
}

func TestService_HandLossResetsMachines(t *testing.T) {
	mock := detector.NewMockDetector()
	s := NewService(mock, ServiceConfig{
		HoldTime:        time.Hour, // never reaches holding
		Cooldown:        time.Millisecond,
		SafeZoneEnabled: false,
	})

	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
	processFrames(t, s, 1)

	m := s.machines["Right"]
	if m == nil || m.State() != StateDetected {
		t.Fatalf("setup: expected detected machine for Right hand")
	}

	// No hands this frame: the machine must reset.
	mock.SetHands(nil)
	processFrames(t, s, 1)

	if m.State() != StateIdle {
		t.Errorf("machine state after hand loss = %v, want idle", m.State())
	}
}

func TestService_CallbacksAreIsolated(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	s := NewService(mock, fastConfig())

	var gestureSeen bool
	s.OnGesture(func(ev *Event) {
		panic("bad subscriber")
	})
	s.OnGesture(func(ev *Event) {
		gestureSeen = true
	})

	event := processFrames(t, s, 4)
	if event == nil {
		t.Fatal("expected a gesture event")
	}
	if !gestureSeen {
		t.Error("second callback not invoked after first panicked")
	}
}

func TestService_LastLandmarks(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	s := NewService(mock, fastConfig())
	processFrames(t, s, 1)

	if len(s.LastLandmarks()) != 1 {
		t.Errorf("LastLandmarks() has %d hands, want 1", len(s.LastLandmarks()))
	}
}

func TestService_UpdateConfigDuringProcessing(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	s := NewService(mock, fastConfig())

	// Config reloads arrive from other goroutines while the worker is
	// mid-frame; the machine map and timings must stay consistent.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			s.UpdateConfig(ServiceConfig{
				HoldTime: time.Duration(i+1) * time.Millisecond,
				Cooldown: time.Millisecond,
			})
		}
	}()

	var frame gocv.Mat
	for i := 0; i < 200; i++ {
		if _, _, err := s.ProcessFrame(&frame); err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
	}
	<-done

	// The final reload must land on every existing machine.
	s.UpdateConfig(ServiceConfig{HoldTime: time.Hour, Cooldown: time.Hour})
	m := s.machines["Right"]
	if m == nil {
		t.Fatal("expected machine for Right hand")
	}
	if m.holdTime != time.Hour {
		t.Errorf("holdTime after reload = %v, want %v", m.holdTime, time.Hour)
	}
	if m.cooldown != time.Hour {
		t.Errorf("cooldown after reload = %v, want %v", m.cooldown, time.Hour)
	}
}

func TestService_LastValuesReadableFromOtherGoroutines(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	s := NewService(mock, fastConfig())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.LastGesture()
			s.LastLandmarks()
		}
	}()

	var frame gocv.Mat
	for i := 0; i < 200; i++ {
		if _, _, err := s.ProcessFrame(&frame); err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
	}
	<-done

	if got := s.LastGesture(); got != TypeFist {
		t.Errorf("LastGesture() = %v, want fist", got)
	}
	if len(s.LastLandmarks()) != 1 {
		t.Errorf("LastLandmarks() length = %d, want 1", len(s.LastLandmarks()))
	}
}
