package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"holidayreminder/internal/adapters/storage/statestore"
	holidayDomain "holidayreminder/internal/domain/holiday"
)

// Fetcher retrieves national holidays for one year from the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context, year int) ([]holidayDomain.Holiday, error)
}

// RefreshDeps holds dependencies for refreshing holiday data.
type RefreshDeps struct {
	Fetcher Fetcher
	Store   statestore.Store
	Now     func() time.Time
}

// ExecuteRefreshHolidays fetches the current and next year's national
// holidays and replaces the stored list wholesale. Overlapping records are
// kept as-is (no dedup, mirroring the upstream behavior). On any fetch
// failure the stored data is left untouched so callers can keep working with
// stale data.
// PRE: deps are fully populated
// POST: Store holds the concatenated, date-sorted fetch results, or is
// unchanged on error
func ExecuteRefreshHolidays(ctx context.Context, deps RefreshDeps) error {
	currentYear := deps.Now().Year()

	var combined []holidayDomain.Holiday
	for _, year := range []int{currentYear, currentYear + 1} {
		holidays, err := deps.Fetcher.Fetch(ctx, year)
		if err != nil {
			return fmt.Errorf("refresh holidays for %d: %w", year, err)
		}
		combined = append(combined, holidays...)
	}

	if err := deps.Store.ReplaceHolidays(combined); err != nil {
		return fmt.Errorf("store refreshed holidays: %w", err)
	}

	slog.Info("refresh_event", "event", "holidays_refreshed", "count", len(combined), "years", fmt.Sprintf("%d-%d", currentYear, currentYear+1))
	return nil
}
