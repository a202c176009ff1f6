package gesture

import (
	"time"
)

// Default debounce timings.
const (
	DefaultHoldTime = 150 * time.Millisecond
	DefaultCooldown = 700 * time.Millisecond
)

// StateMachine debounces a single stream of per-frame gesture labels into
// clean triggers. One instance tracks one hand identity; it is not safe for
// concurrent use and must be driven from a single goroutine.
//
// The machine reports a trigger at most once per contiguous hold: a gesture
// must persist for the hold time before it becomes eligible, fires exactly
// once, then sits out the cooldown. A per-gesture-type fire ledger adds a
// second gate so the same gesture type cannot re-fire within the cooldown
// window even across holds.
type StateMachine struct {
	holdTime time.Duration
	cooldown time.Duration

	state      State
	current    Type
	stateStart time.Time
	lastFired  map[Type]time.Time

	now func() time.Time
}

// NewStateMachine creates a StateMachine with the given hold and cooldown
// durations. Non-positive values fall back to the defaults.
func NewStateMachine(holdTime, cooldown time.Duration) *StateMachine {
	if holdTime <= 0 {
		holdTime = DefaultHoldTime
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &StateMachine{
		holdTime:  holdTime,
		cooldown:  cooldown,
		state:     StateIdle,
		current:   TypeUnknown,
		lastFired: make(map[Type]time.Time),
		now:       time.Now,
	}
}

// Update advances the machine with the gesture observed this frame.
// TypeUnknown stands for both "no hand" and "unclassifiable pose".
//
// It returns the state after the transition and whether the caller should
// trigger the gesture's action now. A label change while detecting or
// holding resets to idle immediately; an active cooldown always runs out,
// even if the hand disappears.
func (m *StateMachine) Update(g Type) (State, bool) {
	now := m.now()
	trigger := false

	switch m.state {
	case StateIdle:
		if g != TypeUnknown {
			m.current = g
			m.state = StateDetected
			m.stateStart = now
		}

	case StateDetected:
		if g == m.current {
			if now.Sub(m.stateStart) >= m.holdTime {
				m.state = StateHolding
			}
		} else {
			m.reset()
		}

	case StateHolding:
		if g == m.current {
			// Stay holding while the gesture type is cooling down;
			// it becomes eligible again without re-detection.
			if !m.inCooldown(g, now) {
				m.state = StateTriggered
				trigger = true
				m.lastFired[g] = now
			}
		} else {
			m.reset()
		}

	case StateTriggered:
		// Single-tick state: the trigger was reported exactly once.
		m.state = StateCooldown
		m.stateStart = now

	case StateCooldown:
		if now.Sub(m.stateStart) >= m.cooldown {
			m.reset()
		}
	}

	return m.state, trigger
}

// State returns the current debounce state.
func (m *StateMachine) State() State {
	return m.state
}

// Current returns the gesture being detected or held, or TypeUnknown.
func (m *StateMachine) Current() Type {
	return m.current
}

// SetTimings replaces the hold and cooldown durations. Used on config
// reload; non-positive values are ignored.
func (m *StateMachine) SetTimings(holdTime, cooldown time.Duration) {
	if holdTime > 0 {
		m.holdTime = holdTime
	}
	if cooldown > 0 {
		m.cooldown = cooldown
	}
}

func (m *StateMachine) inCooldown(g Type, now time.Time) bool {
	fired, ok := m.lastFired[g]
	if !ok {
		return false
	}
	return now.Sub(fired) < m.cooldown
}

func (m *StateMachine) reset() {
	m.state = StateIdle
	m.current = TypeUnknown
	m.stateStart = time.Time{}
}
