package sendlog

import (
	"context"
	"database/sql"
	"time"

	domain "holidayreminder/internal/domain/sendlog"
)

const timeFormat = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new send-log store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an Entry.
// PRE: entry has been validated
// POST: Entry is persisted (entries are append-only; same-ID saves overwrite)
func (s *SQLiteStore) Save(ctx context.Context, entry domain.Entry) error {
	success := 0
	if entry.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO send_log (id, kind, offset, holidays, recipients, success, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET success=excluded.success, error=excluded.error`,
		entry.ID, string(entry.Kind), entry.Offset, entry.Holidays, entry.Recipients,
		success, entry.Error, entry.CreatedAt.UTC().Format(timeFormat),
	)
	return err
}

// ListRecent retrieves the most recent entries, newest first.
// PRE: limit > 0
// POST: Returns at most limit entries
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, offset, holidays, recipients, success, error, created_at
		 FROM send_log ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		var entry domain.Entry
		var kind, createdStr string
		var success int
		if err := rows.Scan(&entry.ID, &kind, &entry.Offset, &entry.Holidays,
			&entry.Recipients, &success, &entry.Error, &createdStr); err != nil {
			return nil, err
		}
		entry.Kind = domain.Kind(kind)
		entry.Success = success == 1
		entry.CreatedAt, _ = time.Parse(timeFormat, createdStr)
		results = append(results, entry)
	}
	return results, rows.Err()
}
