package orchestrators

import (
	"context"
	"fmt"

	"holidayreminder/internal/adapters/storage/statestore"
	holidayDomain "holidayreminder/internal/domain/holiday"
	sendlogDomain "holidayreminder/internal/domain/sendlog"
)

// ManualNotifyDeps holds dependencies for manually triggered notifications.
type ManualNotifyDeps struct {
	Store  statestore.Store
	Notify NotifyDeps
}

// ExecuteOffsetNotification sends a notification for the holidays exactly
// offsetDays ahead, mirroring what the daily job would send for that offset.
// Used by the H-n trigger endpoint.
// POST: Returns whether a notification was delivered plus a human-readable
// message for the JSON envelope
func ExecuteOffsetNotification(ctx context.Context, deps ManualNotifyDeps, offsetDays int) (bool, string) {
	today := deps.Notify.Now()
	matched := holidayDomain.FilterByOffset(deps.Store.Holidays(), today, offsetDays)
	if len(matched) == 0 {
		return false, fmt.Sprintf("Tidak ada hari libur H-%d ditemukan", offsetDays)
	}

	receivers := deps.Store.Receivers()
	if len(receivers) == 0 {
		return false, "Tidak ada penerima yang terdaftar"
	}

	if ExecuteSendNotification(ctx, deps.Notify, sendlogDomain.KindManual, offsetDays, matched, receivers) {
		return true, fmt.Sprintf("Notifikasi H-%d terkirim", offsetDays)
	}
	return false, fmt.Sprintf("Notifikasi H-%d gagal", offsetDays)
}

// ExecuteRangeNotification sends a notification covering every holiday
// within [0, rangeDays] days from today. When overrideEmail is non-empty the
// message goes only to that address instead of the full recipient list.
// Used by the dashboard's manual notification form.
// PRE: rangeDays >= 0
// POST: Returns whether a notification was delivered plus a human-readable
// message
func ExecuteRangeNotification(ctx context.Context, deps ManualNotifyDeps, rangeDays int, overrideEmail string) (bool, string) {
	today := deps.Notify.Now()
	upcoming := holidayDomain.FilterByRange(deps.Store.Holidays(), today, 0, rangeDays)
	if len(upcoming) == 0 {
		return false, fmt.Sprintf("Tidak ada hari libur dalam %d hari ke depan", rangeDays)
	}

	receivers := deps.Store.Receivers()
	if overrideEmail != "" {
		receivers = []string{overrideEmail}
	}
	if len(receivers) == 0 {
		return false, "Tidak ada penerima yang terdaftar"
	}

	if ExecuteSendNotification(ctx, deps.Notify, sendlogDomain.KindManual, rangeDays, upcoming, receivers) {
		return true, fmt.Sprintf("Notifikasi berhasil dikirim untuk %d hari libur", len(upcoming))
	}
	return false, "Gagal mengirim notifikasi"
}
