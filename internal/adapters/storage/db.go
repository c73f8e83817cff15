// Package storage initializes the SQLite database used for the notification
// send log. The reminder state itself (receivers, holidays) lives in the
// JSON state file, not here.
package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS send_log (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		offset INTEGER NOT NULL DEFAULT 0,
		holidays INTEGER NOT NULL DEFAULT 0,
		recipients INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_send_log_created_at ON send_log(created_at DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
