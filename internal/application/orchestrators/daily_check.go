package orchestrators

import (
	"context"
	"log/slog"

	"holidayreminder/internal/adapters/storage/statestore"
	holidayDomain "holidayreminder/internal/domain/holiday"
	sendlogDomain "holidayreminder/internal/domain/sendlog"
)

// notifyOffsets are the fixed day offsets evaluated by the daily job, in
// order: H-3 first, then H-1.
var notifyOffsets = []int{3, 1}

// DailyCheckDeps holds dependencies for the daily job.
type DailyCheckDeps struct {
	Store   statestore.Store
	Fetcher Fetcher
	Notify  NotifyDeps
}

// ExecuteDailyCheck is the scheduled unit of work. It refreshes the store
// when the data is empty or it is the first day of the month, then evaluates
// the fixed offsets and sends a notification for every non-empty match.
// A failed refresh or a failed send never aborts the run; the next scheduled
// firing is the retry mechanism.
// PRE: deps are fully populated
// POST: Every matching offset produced exactly one send attempt
func ExecuteDailyCheck(ctx context.Context, deps DailyCheckDeps) {
	today := deps.Notify.Now()
	slog.Info("daily_event", "event", "daily_check_started", "date", today.Format("2006-01-02"))

	if len(deps.Store.Holidays()) == 0 || today.Day() == 1 {
		refreshDeps := RefreshDeps{Fetcher: deps.Fetcher, Store: deps.Store, Now: deps.Notify.Now}
		if err := ExecuteRefreshHolidays(ctx, refreshDeps); err != nil {
			// Keep going with existing (possibly stale or empty) data.
			slog.Error("daily_event", "event", "daily_refresh_failed", "error", err.Error())
		}
	}

	holidays := deps.Store.Holidays()
	receivers := deps.Store.Receivers()

	for _, offset := range notifyOffsets {
		matched := holidayDomain.FilterByOffset(holidays, today, offset)
		if len(matched) == 0 {
			slog.Info("daily_event", "event", "daily_offset_empty", "offset", offset)
			continue
		}
		// Offsets are independent: a failed H-3 send must not block H-1.
		ExecuteSendNotification(ctx, deps.Notify, sendlogDomain.KindScheduled, offset, matched, receivers)
	}

	slog.Info("daily_event", "event", "daily_check_finished", "date", today.Format("2006-01-02"))
}
