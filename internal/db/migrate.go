package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_habits_created ON habits(created_at)`,

	// Pending is the absence of a row, so only done and missed are storable.
	`CREATE TABLE IF NOT EXISTS habit_days (
		habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		day      TEXT NOT NULL,
		status   TEXT NOT NULL CHECK(status IN ('done','missed')),
		PRIMARY KEY (habit_id, day)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_habit_days_day ON habit_days(day)`,

	// Display time label ("6:00 AM") shown next to the habit name.
	`ALTER TABLE habits ADD COLUMN time_label TEXT NOT NULL DEFAULT ''`,
}
