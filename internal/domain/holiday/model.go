package holiday

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName = errors.New("holiday name cannot be empty")
	ErrZeroDate  = errors.New("holiday date cannot be zero")
)

// Holiday represents a single national holiday fetched from the upstream
// calendar API. Records are immutable once fetched; duplicates across
// overlapping year fetches are tolerated and never merged.
type Holiday struct {
	Name        string
	Date        time.Time
	Description string
}

// Validate checks if the Holiday has valid data.
// PRE: Holiday struct is populated
// POST: Returns nil if valid, error otherwise
func (h *Holiday) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if h.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// DaysFrom returns the signed calendar-day offset between the holiday date
// and today (positive = future). Time-of-day and timezone components are
// ignored; only the calendar date matters.
// PRE: today is a valid time
// INVARIANT: Holiday fields are not mutated
func (h *Holiday) DaysFrom(today time.Time) int {
	return daysBetween(today, h.Date)
}

// daysBetween computes the signed number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// FilterByOffset returns the holidays whose date is exactly offsetDays
// calendar days from today. Empty input or no match yields an empty result.
// PRE: today is a valid time
// POST: Returned slice is a new slice; input is not mutated
func FilterByOffset(holidays []Holiday, today time.Time, offsetDays int) []Holiday {
	var matched []Holiday
	for _, h := range holidays {
		if h.DaysFrom(today) == offsetDays {
			matched = append(matched, h)
		}
	}
	return matched
}

// FilterByRange returns the holidays whose offset from today falls in
// [minDays, maxDays] inclusive.
// PRE: minDays <= maxDays
// POST: Returned slice is a new slice; input is not mutated
func FilterByRange(holidays []Holiday, today time.Time, minDays, maxDays int) []Holiday {
	var matched []Holiday
	for _, h := range holidays {
		offset := h.DaysFrom(today)
		if offset >= minDays && offset <= maxDays {
			matched = append(matched, h)
		}
	}
	return matched
}

// SortByDate sorts holidays ascending by calendar date in place.
func SortByDate(holidays []Holiday) {
	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
}
