package store

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS mappings (
		id TEXT PRIMARY KEY,
		gesture TEXT NOT NULL UNIQUE,
		action_type TEXT NOT NULL CHECK(action_type IN ('keyboard', 'mouse', 'system', 'script', 'effect', 'composite')),
		action_value TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		cooldown_ms INTEGER NOT NULL DEFAULT 500,
		parameters TEXT NOT NULL DEFAULT '{}',
		enabled INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mappings_gesture ON mappings(gesture)`,
	`CREATE INDEX IF NOT EXISTS idx_mappings_enabled ON mappings(enabled)`,
}

func (s *Store) runMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
