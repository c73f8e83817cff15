// Package statestore persists the reminder state: the recipient list and the
// current holiday records, held in memory and mirrored to a single JSON
// document on disk.
package statestore

import (
	domain "holidayreminder/internal/domain/holiday"
)

// Store guards the shared reminder state. All mutations are whole-state
// overwrites followed by a full file rewrite, so implementations serialize
// every load-mutate-save sequence.
type Store interface {
	// Receivers returns a copy of the recipient list in insertion order.
	Receivers() []string
	// Holidays returns a copy of the holiday records, ascending by date.
	Holidays() []domain.Holiday
	// ReplaceHolidays replaces the holiday list wholesale (no merge) and
	// persists the new state.
	ReplaceHolidays(holidays []domain.Holiday) error
	// AddReceiver appends an address unless it is already present
	// (case-sensitive exact match). Returns whether the list changed.
	AddReceiver(email string) (bool, error)
	// RemoveReceivers removes every matching address and returns how many
	// entries were removed.
	RemoveReceivers(emails []string) (int, error)
}
