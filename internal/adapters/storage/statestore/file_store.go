package statestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	domain "holidayreminder/internal/domain/holiday"
)

const (
	dateFormat      = "2006-01-02"
	tmpSuffix       = ".tmp"
	filePermissions = 0644
)

// persistedState is the on-disk JSON document.
type persistedState struct {
	Receivers []string           `json:"receivers"`
	Holidays  []persistedHoliday `json:"holidays"`
}

// persistedHoliday mirrors the upstream API field names in the state file.
type persistedHoliday struct {
	HolidayName        string `json:"holiday_name"`
	HolidayDate        string `json:"holiday_date"`
	HolidayDescription string `json:"holiday_description"`
}

// FileStore implements Store backed by a JSON file. A single mutex guards
// every load-mutate-save cycle; last writer wins (single-process assumption).
type FileStore struct {
	mu        sync.Mutex
	path      string
	receivers []string
	holidays  []domain.Holiday
}

// NewFileStore loads the state file at path, or initializes (and persists) a
// default state with the given receivers when the file is absent or
// malformed. A load fallback is logged, never fatal; the initial save of the
// default state is surfaced as an error.
// PRE: path is writable; defaultReceivers may be empty
// POST: Returned store holds a consistent in-memory state matching the file
func NewFileStore(path string, defaultReceivers []string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err == nil {
		var state persistedState
		if jsonErr := json.Unmarshal(data, &state); jsonErr == nil {
			s.receivers = state.Receivers
			s.holidays, err = fromPersisted(state.Holidays)
			if err == nil {
				domain.SortByDate(s.holidays)
				return s, nil
			}
		} else {
			err = jsonErr
		}
		slog.Warn("state_event", "event", "state_file_invalid", "path", path, "error", err.Error())
	} else if !os.IsNotExist(err) {
		slog.Warn("state_event", "event", "state_file_unreadable", "path", path, "error", err.Error())
	}

	// Absent or corrupt file: fall back to defaults and persist them so
	// the next load succeeds cleanly.
	s.receivers = append([]string(nil), defaultReceivers...)
	s.holidays = nil
	if err := s.save(); err != nil {
		return nil, fmt.Errorf("persist default state: %w", err)
	}
	slog.Info("state_event", "event", "state_defaulted", "path", path, "receivers", len(s.receivers))
	return s, nil
}

// Receivers returns a copy of the recipient list in insertion order.
func (s *FileStore) Receivers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.receivers...)
}

// Holidays returns a copy of the holiday records, ascending by date.
func (s *FileStore) Holidays() []domain.Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Holiday(nil), s.holidays...)
}

// ReplaceHolidays replaces the holiday list wholesale and persists.
// PRE: holidays have been validated by the fetcher
// POST: In-memory and on-disk holiday lists are sorted ascending by date
func (s *FileStore) ReplaceHolidays(holidays []domain.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := append([]domain.Holiday(nil), holidays...)
	domain.SortByDate(replacement)
	s.holidays = replacement
	return s.save()
}

// AddReceiver appends an address unless already present (exact match).
// PRE: email has been shape-validated by the caller
// POST: Returns true and persists when the list changed
func (s *FileStore) AddReceiver(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.receivers {
		if r == email {
			return false, nil
		}
	}
	s.receivers = append(s.receivers, email)
	if err := s.save(); err != nil {
		// Roll back so memory and disk stay consistent.
		s.receivers = s.receivers[:len(s.receivers)-1]
		return false, err
	}
	return true, nil
}

// RemoveReceivers removes every matching address and persists.
// POST: Returns the number of removed entries
func (s *FileStore) RemoveReceivers(emails []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove := make(map[string]bool, len(emails))
	for _, e := range emails {
		remove[e] = true
	}

	var kept []string
	for _, r := range s.receivers {
		if !remove[r] {
			kept = append(kept, r)
		}
	}
	removed := len(s.receivers) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	previous := s.receivers
	s.receivers = kept
	if err := s.save(); err != nil {
		s.receivers = previous
		return 0, err
	}
	return removed, nil
}

// save writes the state atomically: temp file first, then rename, so a
// failure never leaves a partially written document.
// PRE: caller holds s.mu
func (s *FileStore) save() error {
	state := persistedState{
		Receivers: s.receivers,
		Holidays:  toPersisted(s.holidays),
	}
	if state.Receivers == nil {
		state.Receivers = []string{}
	}
	if state.Holidays == nil {
		state.Holidays = []persistedHoliday{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpFile := s.path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func toPersisted(holidays []domain.Holiday) []persistedHoliday {
	out := make([]persistedHoliday, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, persistedHoliday{
			HolidayName:        h.Name,
			HolidayDate:        h.Date.Format(dateFormat),
			HolidayDescription: h.Description,
		})
	}
	return out
}

func fromPersisted(entries []persistedHoliday) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for _, e := range entries {
		date, err := time.Parse(dateFormat, e.HolidayDate)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday_date %q: %w", e.HolidayDate, err)
		}
		out = append(out, domain.Holiday{
			Name:        e.HolidayName,
			Date:        date,
			Description: e.HolidayDescription,
		})
	}
	return out, nil
}
