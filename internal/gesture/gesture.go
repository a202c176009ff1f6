// Package gesture provides gesture classification, debouncing and the
// per-frame gesture recognition service.
package gesture

// Type is the closed set of symbolic gestures the system recognizes.
type Type int

const (
	TypeUnknown Type = iota

	// Static gestures.
	TypeOneFinger
	TypeTwoFingers
	TypeThreeFingers
	TypeFourFingers
	TypeFiveFingers
	TypeFist
	TypeOK
	TypeThumbsUp
	TypeThumbsDown
	TypeHeart
	TypeDoubleHeart
	TypeRock

	// Dynamic gestures.
	TypeSwipeLeft
	TypeSwipeRight
	TypeSwipeUp
	TypeSwipeDown
	TypePush
	TypePull
	TypeCircle
	TypeDoubleTap
)

var typeNames = map[Type]string{
	TypeUnknown:      "unknown",
	TypeOneFinger:    "one_finger",
	TypeTwoFingers:   "two_fingers",
	TypeThreeFingers: "three_fingers",
	TypeFourFingers:  "four_fingers",
	TypeFiveFingers:  "five_fingers",
	TypeFist:         "fist",
	TypeOK:           "ok",
	TypeThumbsUp:     "thumbs_up",
	TypeThumbsDown:   "thumbs_down",
	TypeHeart:        "heart",
	TypeDoubleHeart:  "double_heart",
	TypeRock:         "rock",
	TypeSwipeLeft:    "swipe_left",
	TypeSwipeRight:   "swipe_right",
	TypeSwipeUp:      "swipe_up",
	TypeSwipeDown:    "swipe_down",
	TypePush:         "push",
	TypePull:         "pull",
	TypeCircle:       "circle",
	TypeDoubleTap:    "double_tap",
}

// String returns the snake_case name used in configuration files.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// State is the debounce state of one tracked hand identity.
type State int

const (
	StateIdle State = iota
	StateDetected
	StateHolding
	StateTriggered
	StateCooldown
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StateDetected:  "detected",
	StateHolding:   "holding",
	StateTriggered: "triggered",
	StateCooldown:  "cooldown",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Position is a point in normalized screen coordinates, both axes in [0,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
