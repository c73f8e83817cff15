package sendlog

import (
	"context"

	domain "holidayreminder/internal/domain/sendlog"
)

// Store persists send-log entries.
type Store interface {
	Save(ctx context.Context, entry domain.Entry) error
	// ListRecent returns the most recent entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Entry, error)
}
