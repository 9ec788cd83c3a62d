package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Panel layouts table - stores the last saved geometry of each HUD panel
		`CREATE TABLE IF NOT EXISTS panel_layouts (
			id TEXT PRIMARY KEY,
			x REAL NOT NULL,
			y REAL NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			z INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Snapshots table - stores metadata for saved detection crops
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			score REAL NOT NULL,
			path TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(label)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
