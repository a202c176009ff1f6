package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/action"
)

// Mapping is a persisted gesture-to-action binding.
type Mapping struct {
	ID          string    `json:"id"`
	Gesture     string    `json:"gesture"`
	ActionType  string    `json:"action_type"`
	ActionValue string    `json:"action"`
	DisplayName string    `json:"display_name"`
	CooldownMS  int       `json:"cooldown_ms"`
	Parameters  string    `json:"parameters"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Record converts the mapping to the form the action layer consumes.
func (m *Mapping) Record() (action.Record, error) {
	var params map[string]any
	if m.Parameters != "" {
		if err := json.Unmarshal([]byte(m.Parameters), &params); err != nil {
			return action.Record{}, fmt.Errorf("failed to parse parameters for %q: %w", m.Gesture, err)
		}
	}
	return action.Record{
		Gesture: m.Gesture,
		Action: action.Action{
			Type:        action.Type(m.ActionType),
			Value:       m.ActionValue,
			DisplayName: m.DisplayName,
			CooldownMS:  m.CooldownMS,
			Parameters:  params,
		},
	}, nil
}

// MappingRepository handles mapping persistence.
type MappingRepository struct {
	db *sql.DB
}

// Mappings returns the mapping repository.
func (s *Store) Mappings() *MappingRepository {
	return &MappingRepository{db: s.db}
}

// Create inserts a new mapping. An empty ID is assigned a fresh UUID.
func (r *MappingRepository) Create(m *Mapping) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Parameters == "" {
		m.Parameters = "{}"
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO mappings (id, gesture, action_type, action_value, display_name, cooldown_ms, parameters, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Gesture, m.ActionType, m.ActionValue, m.DisplayName,
		m.CooldownMS, m.Parameters, boolToInt(m.Enabled), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mapping: %w", err)
	}
	return nil
}

// GetByID returns the mapping with the given id, or ErrNotFound.
func (r *MappingRepository) GetByID(id string) (*Mapping, error) {
	row := r.db.QueryRow(
		`SELECT id, gesture, action_type, action_value, display_name, cooldown_ms, parameters, enabled, created_at, updated_at
		 FROM mappings WHERE id = ?`, id,
	)
	m, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	return m, nil
}

// GetByGesture returns the mapping for a gesture name, or nil when none
// exists.
func (r *MappingRepository) GetByGesture(gesture string) (*Mapping, error) {
	row := r.db.QueryRow(
		`SELECT id, gesture, action_type, action_value, display_name, cooldown_ms, parameters, enabled, created_at, updated_at
		 FROM mappings WHERE gesture = ?`, gesture,
	)
	m, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	return m, nil
}

// List returns all mappings ordered by gesture name.
func (r *MappingRepository) List() ([]*Mapping, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture, action_type, action_value, display_name, cooldown_ms, parameters, enabled, created_at, updated_at
		 FROM mappings ORDER BY gesture`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*Mapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// Update rewrites an existing mapping.
func (r *MappingRepository) Update(m *Mapping) error {
	if m.Parameters == "" {
		m.Parameters = "{}"
	}
	m.UpdatedAt = time.Now().UTC()

	result, err := r.db.Exec(
		`UPDATE mappings SET gesture = ?, action_type = ?, action_value = ?, display_name = ?, cooldown_ms = ?, parameters = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		m.Gesture, m.ActionType, m.ActionValue, m.DisplayName,
		m.CooldownMS, m.Parameters, boolToInt(m.Enabled), m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a mapping by id.
func (r *MappingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM mappings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Records returns all enabled mappings in the form the action layer
// consumes. Mappings with unparseable parameters are skipped.
func (r *MappingRepository) Records() ([]action.Record, error) {
	mappings, err := r.List()
	if err != nil {
		return nil, err
	}
	records := make([]action.Record, 0, len(mappings))
	for _, m := range mappings {
		if !m.Enabled {
			continue
		}
		rec, err := m.Record()
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Seed inserts the given records if the table is empty. Used to carry
// file-based defaults into a fresh database.
func (r *MappingRepository) Seed(records []action.Record) error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM mappings`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count mappings: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, rec := range records {
		params := "{}"
		if len(rec.Parameters) > 0 {
			b, err := json.Marshal(rec.Parameters)
			if err != nil {
				return fmt.Errorf("failed to marshal parameters for %q: %w", rec.Gesture, err)
			}
			params = string(b)
		}
		m := &Mapping{
			Gesture:     rec.Gesture,
			ActionType:  string(rec.Type),
			ActionValue: rec.Value,
			DisplayName: rec.DisplayName,
			CooldownMS:  rec.CooldownMS,
			Parameters:  params,
			Enabled:     true,
		}
		if err := r.Create(m); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMapping(row scanner) (*Mapping, error) {
	var m Mapping
	var enabled int
	err := row.Scan(
		&m.ID, &m.Gesture, &m.ActionType, &m.ActionValue, &m.DisplayName,
		&m.CooldownMS, &m.Parameters, &enabled, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Enabled = enabled != 0
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
