package gesture

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
)

// Event is one debounced gesture trigger. It is produced at most once per
// physical hold, consumed exactly once by the action layer, and not retained
// afterward.
type Event struct {
	ID         string                  `json:"id"`
	Type       Type                    `json:"-"`
	Name       string                  `json:"gesture"`
	Confidence float64                 `json:"confidence"`
	Handedness string                  `json:"handedness"` // "Left", "Right" or "Both"
	Position   Position                `json:"position"`
	Timestamp  time.Time               `json:"timestamp"`
	State      State                   `json:"-"`
	Landmarks  *detector.HandLandmarks `json:"-"`
}

// newEvent builds an Event for the given trigger, stamping an ID and the
// current time.
func newEvent(t Type, confidence float64, handedness string, pos Position, state State, landmarks *detector.HandLandmarks) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		Name:       t.String(),
		Confidence: confidence,
		Handedness: handedness,
		Position:   pos,
		Timestamp:  time.Now(),
		State:      state,
		Landmarks:  landmarks,
	}
}
