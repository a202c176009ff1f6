package effect

// Config tunes one named effect. Loaded from the effects configuration
// file; zero values are filled in by Normalize.
type Config struct {
	Name           string  `json:"name,omitempty"`
	Enabled        bool    `json:"enabled"`
	ParticleCount  int     `json:"particle_count"`
	DurationMS     int     `json:"duration_ms"`
	Colors         []Color `json:"colors,omitempty"`
	GlowEnabled    bool    `json:"glow_enabled"`
	Scale          float64 `json:"scale"`
	TwinkleEnabled bool    `json:"twinkle_enabled"`
	TwinkleSpeed   float64 `json:"twinkle_speed"`
}

// DefaultConfig returns the settings an unconfigured effect runs with.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		ParticleCount:  100,
		DurationMS:     1000,
		Colors:         []Color{{255, 105, 180}},
		GlowEnabled:    true,
		Scale:          100,
		TwinkleEnabled: true,
		TwinkleSpeed:   0.1,
	}
}

// Normalize fills unset numeric fields with their defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.ParticleCount <= 0 {
		c.ParticleCount = def.ParticleCount
	}
	if c.DurationMS <= 0 {
		c.DurationMS = def.DurationMS
	}
	if c.Scale <= 0 {
		c.Scale = def.Scale
	}
	if c.TwinkleSpeed <= 0 {
		c.TwinkleSpeed = def.TwinkleSpeed
	}
	if len(c.Colors) == 0 {
		c.Colors = def.Colors
	}
}
