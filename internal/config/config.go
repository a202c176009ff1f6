// Package config loads and persists the JSON configuration files:
// settings.json, gestures.json and effects.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effect"
	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultDir is the configuration directory used when none is given.
const DefaultDir = "config"

// AppSettings names the application.
type AppSettings struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DisplaySettings control the overlay rendering.
type DisplaySettings struct {
	ShowSkeleton    bool `json:"show_skeleton"`
	ShowGestureName bool `json:"show_gesture_name"`
	ShowFPS         bool `json:"show_fps"`
}

// RecognitionSettings tune the detector and the debouncer.
type RecognitionSettings struct {
	MinDetectionConfidence float64 `json:"min_detection_confidence"`
	MinTrackingConfidence  float64 `json:"min_tracking_confidence"`
	MaxNumHands            int     `json:"max_num_hands"`
	HoldTimeMS             int     `json:"static_gesture_hold_time_ms"`
	CooldownMS             int     `json:"gesture_cooldown_ms"`
}

// SafeZoneSettings describe the normalized rectangle gestures must fall in.
type SafeZoneSettings struct {
	Enabled bool    `json:"enabled"`
	XMin    float64 `json:"x_min"`
	XMax    float64 `json:"x_max"`
	YMin    float64 `json:"y_min"`
	YMax    float64 `json:"y_max"`
}

// EffectSettings hold the renderer-wide limits.
type EffectSettings struct {
	Enabled       bool `json:"enabled"`
	ParticleCount int  `json:"particle_count"`
}

// ScreenSettings give the adapter the display size for position mapping.
type ScreenSettings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ServerSettings control the embedded HTTP server.
type ServerSettings struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// PluginSettings locate and bound the action plugins.
type PluginSettings struct {
	Dir       string `json:"dir"`
	TimeoutMS int    `json:"timeout_ms"`
}

// DatabaseSettings locate the mappings database.
type DatabaseSettings struct {
	Path string `json:"path"`
}

// Settings is the content of settings.json.
type Settings struct {
	App         AppSettings         `json:"app"`
	Camera      capture.Config      `json:"camera"`
	Display     DisplaySettings     `json:"display"`
	Recognition RecognitionSettings `json:"recognition"`
	SafeZone    SafeZoneSettings    `json:"safe_zone"`
	Effects     EffectSettings      `json:"effects"`
	Screen      ScreenSettings      `json:"screen"`
	Server      ServerSettings      `json:"server"`
	Plugins     PluginSettings      `json:"plugins"`
	Database    DatabaseSettings    `json:"database"`
}

// GestureConfig is the content of gestures.json.
type GestureConfig struct {
	GestureMappings []action.Record `json:"gesture_mappings"`
}

// EffectsConfig is the content of effects.json.
type EffectsConfig struct {
	Effects map[string]effect.Config `json:"effects"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		App:    AppSettings{Name: "mudra", Version: "1.0.0"},
		Camera: capture.DefaultConfig(),
		Display: DisplaySettings{
			ShowSkeleton:    true,
			ShowGestureName: true,
			ShowFPS:         true,
		},
		Recognition: RecognitionSettings{
			MinDetectionConfidence: 0.7,
			MinTrackingConfidence:  0.5,
			MaxNumHands:            2,
			HoldTimeMS:             150,
			CooldownMS:             700,
		},
		SafeZone: SafeZoneSettings{
			Enabled: true,
			XMin:    0.2,
			XMax:    0.8,
			YMin:    0.2,
			YMax:    0.8,
		},
		Effects:  EffectSettings{Enabled: true, ParticleCount: 200},
		Screen:   ScreenSettings{Width: 1920, Height: 1080},
		Server:   ServerSettings{Enabled: true, Addr: "127.0.0.1:8421"},
		Plugins:  PluginSettings{Dir: "plugins", TimeoutMS: 5000},
		Database: DatabaseSettings{Path: "mudra.db"},
	}
}

// DefaultGestures returns the starter gesture mapping table.
func DefaultGestures() GestureConfig {
	return GestureConfig{
		GestureMappings: []action.Record{
			{Gesture: "one_finger", Action: action.Action{
				Type: action.TypeKeyboard, Value: "space",
				DisplayName: "Play/Pause", CooldownMS: 500,
			}},
			{Gesture: "five_fingers", Action: action.Action{
				Type: action.TypeKeyboard, Value: "alt+tab",
				DisplayName: "Switch App", CooldownMS: 700,
			}},
			{Gesture: "fist", Action: action.Action{
				Type: action.TypeMouse, Value: "left_click",
				DisplayName: "Left Click", CooldownMS: 300,
			}},
			{Gesture: "heart", Action: action.Action{
				Type: action.TypeEffect, Value: "star_heart",
				DisplayName: "Star Heart", CooldownMS: 1000,
			}},
		},
	}
}

// DefaultEffects returns the starter effect configuration.
func DefaultEffects() EffectsConfig {
	starHeart := effect.DefaultConfig()
	starHeart.Name = "Star Heart"
	starHeart.ParticleCount = 150
	starHeart.DurationMS = 1500
	starHeart.Colors = []effect.Color{
		{255, 105, 180},
		{255, 182, 193},
		{147, 112, 219},
		{138, 43, 226},
	}
	return EffectsConfig{
		Effects: map[string]effect.Config{
			effect.StarHeart: starHeart,
		},
	}
}

// Manager owns the loaded configuration. Load once at startup; the loaded
// structs are read directly by the wiring code.
type Manager struct {
	dir string

	Settings Settings
	Gestures GestureConfig
	Effects  EffectsConfig
}

// NewManager creates a Manager rooted at dir (DefaultDir when empty).
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = DefaultDir
	}
	return &Manager{
		dir:      dir,
		Settings: DefaultSettings(),
		Gestures: DefaultGestures(),
		Effects:  DefaultEffects(),
	}
}

// LoadAll reads every configuration file, layering file contents over the
// defaults. Missing files are created with the defaults so the user has
// something to edit.
func (m *Manager) LoadAll() error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := m.loadFile("settings.json", &m.Settings); err != nil {
		return err
	}
	if err := m.loadFile("gestures.json", &m.Gestures); err != nil {
		return err
	}
	return m.loadFile("effects.json", &m.Effects)
}

// SaveAll writes every configuration file.
func (m *Manager) SaveAll() error {
	if err := m.saveFile("settings.json", m.Settings); err != nil {
		return err
	}
	if err := m.saveFile("gestures.json", m.Gestures); err != nil {
		return err
	}
	return m.saveFile("effects.json", m.Effects)
}

// SaveGestures persists just the mapping table, used after edits over the
// HTTP API.
func (m *Manager) SaveGestures() error {
	return m.saveFile("gestures.json", m.Gestures)
}

func (m *Manager) loadFile(name string, target any) error {
	path := filepath.Join(m.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m.saveFile(name, target)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	// Unmarshal over the pre-filled defaults: fields absent from the file
	// keep their default values.
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (m *Manager) saveFile(name string, data any) error {
	payload, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name), payload, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Dir returns the configuration directory.
func (m *Manager) Dir() string {
	return m.dir
}

// ServiceConfig translates settings into the gesture service configuration.
func (m *Manager) ServiceConfig() gesture.ServiceConfig {
	s := m.Settings
	return gesture.ServiceConfig{
		HoldTime:        time.Duration(s.Recognition.HoldTimeMS) * time.Millisecond,
		Cooldown:        time.Duration(s.Recognition.CooldownMS) * time.Millisecond,
		SafeZoneEnabled: s.SafeZone.Enabled,
		SafeZone: gesture.SafeZone{
			XMin: s.SafeZone.XMin,
			XMax: s.SafeZone.XMax,
			YMin: s.SafeZone.YMin,
			YMax: s.SafeZone.YMax,
		},
	}
}

// DetectorConfig translates settings into the detector configuration.
func (m *Manager) DetectorConfig() detector.Config {
	s := m.Settings.Recognition
	return detector.Config{
		MaxHands:        s.MaxNumHands,
		MinConfidence:   s.MinDetectionConfidence,
		MinTrackingConf: s.MinTrackingConfidence,
	}
}
