package action

// Type identifies what kind of action a gesture is mapped to.
type Type string

const (
	TypeKeyboard  Type = "keyboard"
	TypeMouse     Type = "mouse"
	TypeSystem    Type = "system"
	TypeScript    Type = "script"
	TypeEffect    Type = "effect"
	TypeComposite Type = "composite"
)

// DefaultCooldownMS is used for mappings that do not set their own cooldown.
const DefaultCooldownMS = 500

// Action describes a single configured action. Immutable after load; many
// gesture events may resolve to the same Action.
type Action struct {
	Type        Type           `json:"action_type"`
	Value       string         `json:"action"`
	DisplayName string         `json:"display_name,omitempty"`
	Description string         `json:"description,omitempty"`
	CooldownMS  int            `json:"cooldown_ms"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Record is one row of the gesture mapping table, as stored in
// configuration and in the mappings database.
type Record struct {
	Gesture string `json:"gesture"`
	Action
}

// normalize fills defaults the way the configuration loader expects them.
func (a *Action) normalize() {
	switch a.Type {
	case TypeKeyboard, TypeMouse, TypeSystem, TypeScript, TypeEffect, TypeComposite:
	default:
		a.Type = TypeKeyboard
	}
	if a.CooldownMS <= 0 {
		a.CooldownMS = DefaultCooldownMS
	}
}

// BoolParam reads a boolean parameter, returning def when absent or not a
// boolean.
func (a *Action) BoolParam(key string, def bool) bool {
	if a.Parameters == nil {
		return def
	}
	v, ok := a.Parameters[key].(bool)
	if !ok {
		return def
	}
	return v
}
