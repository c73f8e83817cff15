package sendlog

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyID     = errors.New("send log entry ID cannot be empty")
	ErrInvalidKind = errors.New("send log entry kind is invalid")
)

// Kind identifies what triggered a notification attempt.
type Kind string

const (
	// KindScheduled is a send triggered by the daily job (H-3 / H-1).
	KindScheduled Kind = "scheduled"
	// KindManual is a send triggered from the dashboard or the API.
	KindManual Kind = "manual"
	// KindTest is a configuration test email.
	KindTest Kind = "test"
)

// Entry records one notification attempt, successful or not. Entries are
// append-only.
type Entry struct {
	ID         string
	Kind       Kind
	Offset     int // day offset (scheduled) or range upper bound (manual); 0 for test
	Holidays   int // holidays included in the message
	Recipients int
	Success    bool
	Error      string // empty on success
	CreatedAt  time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	switch e.Kind {
	case KindScheduled, KindManual, KindTest:
		return nil
	default:
		return ErrInvalidKind
	}
}
