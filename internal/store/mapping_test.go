package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/action"
)

// newTestStore creates a new Store backed by a temp-dir database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mudra-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}

	var name string
	err = s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='mappings'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("mappings table should exist: %v", err)
	}
}

func TestMappingRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	m := &Mapping{
		Gesture:     "fist",
		ActionType:  "keyboard",
		ActionValue: "space",
		DisplayName: "Play/Pause",
		CooldownMS:  500,
		Enabled:     true,
	}
	if err := repo.Create(m); err != nil {
		t.Fatalf("failed to create mapping: %v", err)
	}

	if m.ID == "" {
		t.Error("Create should assign an ID when empty")
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	got, err := repo.GetByID(m.ID)
	if err != nil {
		t.Fatalf("failed to get mapping: %v", err)
	}
	if got.Gesture != "fist" {
		t.Errorf("Gesture = %q, want %q", got.Gesture, "fist")
	}
	if got.ActionValue != "space" {
		t.Errorf("ActionValue = %q, want %q", got.ActionValue, "space")
	}
	if !got.Enabled {
		t.Error("mapping should be enabled")
	}
	if got.Parameters != "{}" {
		t.Errorf("Parameters = %q, want %q", got.Parameters, "{}")
	}
}

func TestMappingRepository_GetByGesture(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	m := &Mapping{Gesture: "heart", ActionType: "effect", ActionValue: "star_heart", Enabled: true}
	if err := repo.Create(m); err != nil {
		t.Fatalf("failed to create mapping: %v", err)
	}

	got, err := repo.GetByGesture("heart")
	if err != nil {
		t.Fatalf("failed to get mapping: %v", err)
	}
	if got == nil {
		t.Fatal("expected mapping for heart")
	}
	if got.ID != m.ID {
		t.Errorf("ID = %q, want %q", got.ID, m.ID)
	}

	missing, err := repo.GetByGesture("unknown")
	if err != nil {
		t.Fatalf("unexpected error for missing gesture: %v", err)
	}
	if missing != nil {
		t.Error("expected nil mapping for unknown gesture")
	}
}

func TestMappingRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Mappings().GetByID("nonexistent")
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMappingRepository_DuplicateGestureRejected(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	first := &Mapping{Gesture: "fist", ActionType: "keyboard", ActionValue: "space", Enabled: true}
	if err := repo.Create(first); err != nil {
		t.Fatalf("failed to create mapping: %v", err)
	}

	second := &Mapping{Gesture: "fist", ActionType: "mouse", ActionValue: "left_click", Enabled: true}
	if err := repo.Create(second); err == nil {
		t.Error("expected error creating duplicate gesture mapping")
	}
}

func TestMappingRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	m := &Mapping{Gesture: "fist", ActionType: "keyboard", ActionValue: "space", Enabled: true}
	if err := repo.Create(m); err != nil {
		t.Fatalf("failed to create mapping: %v", err)
	}

	m.ActionValue = "enter"
	m.Enabled = false
	if err := repo.Update(m); err != nil {
		t.Fatalf("failed to update mapping: %v", err)
	}

	got, err := repo.GetByID(m.ID)
	if err != nil {
		t.Fatalf("failed to get mapping: %v", err)
	}
	if got.ActionValue != "enter" {
		t.Errorf("ActionValue = %q, want %q", got.ActionValue, "enter")
	}
	if got.Enabled {
		t.Error("mapping should be disabled after update")
	}
}

func TestMappingRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)

	m := &Mapping{ID: "nonexistent", Gesture: "fist", ActionType: "keyboard", ActionValue: "space"}
	if err := s.Mappings().Update(m); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMappingRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	m := &Mapping{Gesture: "fist", ActionType: "keyboard", ActionValue: "space", Enabled: true}
	if err := repo.Create(m); err != nil {
		t.Fatalf("failed to create mapping: %v", err)
	}

	if err := repo.Delete(m.ID); err != nil {
		t.Fatalf("failed to delete mapping: %v", err)
	}
	if _, err := repo.GetByID(m.ID); err != ErrNotFound {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(m.ID); err != ErrNotFound {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestMappingRepository_Records(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	enabled := &Mapping{
		Gesture:     "heart",
		ActionType:  "effect",
		ActionValue: "star_heart",
		CooldownMS:  1000,
		Parameters:  `{"follow_hand": false}`,
		Enabled:     true,
	}
	disabled := &Mapping{Gesture: "fist", ActionType: "keyboard", ActionValue: "space", Enabled: false}
	for _, m := range []*Mapping{enabled, disabled} {
		if err := repo.Create(m); err != nil {
			t.Fatalf("failed to create mapping: %v", err)
		}
	}

	records, err := repo.Records()
	if err != nil {
		t.Fatalf("failed to load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Gesture != "heart" {
		t.Errorf("Gesture = %q, want %q", rec.Gesture, "heart")
	}
	if rec.Type != action.TypeEffect {
		t.Errorf("Type = %q, want %q", rec.Type, action.TypeEffect)
	}
	if follow, ok := rec.Parameters["follow_hand"].(bool); !ok || follow {
		t.Errorf("follow_hand = %v, want false", rec.Parameters["follow_hand"])
	}
}

func TestMappingRepository_Seed(t *testing.T) {
	s := newTestStore(t)
	repo := s.Mappings()

	defaults := []action.Record{
		{Gesture: "fist", Action: action.Action{Type: action.TypeKeyboard, Value: "space", CooldownMS: 500}},
		{Gesture: "heart", Action: action.Action{Type: action.TypeEffect, Value: "star_heart", CooldownMS: 1000}},
	}
	if err := repo.Seed(defaults); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	mappings, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list mappings: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(mappings))
	}

	// Seeding again must not duplicate.
	if err := repo.Seed(defaults); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	mappings, err = repo.List()
	if err != nil {
		t.Fatalf("failed to list mappings: %v", err)
	}
	if len(mappings) != 2 {
		t.Errorf("got %d mappings after reseed, want 2", len(mappings))
	}
}
