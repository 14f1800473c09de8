package store

// migrate applies the journal schema. Every statement is idempotent, so
// reopening an existing database is safe.
func (s *Store) migrate() error {
	statements := []string{
		// One row per accepted trigger.
		`CREATE TABLE IF NOT EXISTS triggers (
			id TEXT PRIMARY KEY,
			finger_count INTEGER NOT NULL,
			action_name TEXT NOT NULL,
			accepted_at DATETIME NOT NULL
		)`,

		// One row per dispatched action worker.
		`CREATE TABLE IF NOT EXISTS invocations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trigger_id TEXT NOT NULL REFERENCES triggers(id) ON DELETE CASCADE,
			outcome TEXT NOT NULL DEFAULT 'running' CHECK(outcome IN ('running', 'succeeded', 'failed', 'cancelled')),
			detail TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		)`,

		// Daemon settings as key-value pairs.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_invocations_trigger_id ON invocations(trigger_id)`,
		`CREATE INDEX IF NOT EXISTS idx_triggers_accepted_at ON triggers(accepted_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
