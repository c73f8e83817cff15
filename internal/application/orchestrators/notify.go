package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	emailAdapter "holidayreminder/internal/adapters/email"
	sendlogStore "holidayreminder/internal/adapters/storage/sendlog"
	holidayDomain "holidayreminder/internal/domain/holiday"
	sendlogDomain "holidayreminder/internal/domain/sendlog"
)

// ErrNoHolidays is returned when a notification is requested for an empty
// holiday list; rendering and sending empty notifications is rejected
// upstream.
var ErrNoHolidays = errors.New("no holidays to notify about")

// ErrNoReceivers is returned when there is nobody to notify.
var ErrNoReceivers = errors.New("no receivers configured")

// Notification is a rendered holiday reminder ready for delivery.
type Notification struct {
	Subject string
	Text    string
	HTML    string
}

// notificationSubject matches the original reminder emails.
const notificationSubject = "\U0001F4C5 Informasi Hari Libur Nasional Mendatang"

// BuildNotification renders the subject, plain-text, and HTML bodies for the
// given holidays. Formatting is deterministic: localized long dates plus the
// shared status rule.
// PRE: holidays is non-empty
// POST: Returns a fully rendered notification, or ErrNoHolidays
func BuildNotification(holidays []holidayDomain.Holiday, today time.Time) (Notification, error) {
	if len(holidays) == 0 {
		return Notification{}, ErrNoHolidays
	}

	var text strings.Builder
	text.WriteString("Informasi Hari Libur Nasional\n\n")
	text.WriteString("Berikut daftar hari libur yang akan datang:\n\n")
	for _, h := range holidays {
		fmt.Fprintf(&text, "- %s (%s) (%s)\n",
			h.Name, holidayDomain.FormatLongDate(h.Date), holidayDomain.Status(today, h.Date))
	}
	text.WriteString("\nEmail ini dikirim secara otomatis oleh sistem Holiday Reminder.\n")

	var items strings.Builder
	for _, h := range holidays {
		fmt.Fprintf(&items, `<div class="holiday-item">`+
			`<div class="holiday-name">%s</div>`+
			`<div class="holiday-date">%s</div>`+
			`<div class="days-left">%s</div>`+
			`</div>`,
			html.EscapeString(h.Name),
			holidayDomain.FormatLongDate(h.Date),
			holidayDomain.Status(today, h.Date))
	}

	htmlBody := fmt.Sprintf(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; }
  .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
  .holiday-list { margin: 15px 0; }
  .holiday-item { margin: 10px 0; padding: 10px; background: #f9f9f9; border-radius: 5px; }
  .holiday-name { font-weight: bold; }
  .holiday-date { color: #555; }
  .days-left { color: #d10000; font-weight: bold; }
  .footer { color: #7f8c8d; font-size: 0.9em; margin-top: 20px; border-top: 1px solid #eee; padding-top: 10px; }
</style>
</head>
<body>
  <div class="header">
    <h2>Informasi Hari Libur Nasional</h2>
    <p>Berikut daftar hari libur yang akan datang:</p>
  </div>
  <div class="holiday-list">%s</div>
  <div class="footer">
    <p>Email ini dikirim secara otomatis oleh sistem Holiday Reminder.</p>
    <p>Untuk berhenti menerima email ini, silakan hubungi administrator.</p>
  </div>
</body>
</html>`, items.String())

	return Notification{
		Subject: notificationSubject,
		Text:    text.String(),
		HTML:    htmlBody,
	}, nil
}

// NotifyDeps holds dependencies for sending notifications.
type NotifyDeps struct {
	Sender      emailAdapter.Sender
	SendLog     sendlogStore.Store
	FromAddress string
	ReplyTo     string
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteSendNotification renders the holidays and delivers one email to all
// receivers in a single transport session. Transport failures are logged and
// converted to a false result; they never propagate so the surrounding job
// keeps running. Every attempt is recorded in the send log.
// PRE: holidays and receivers are non-empty
// POST: Returns whether delivery was accepted by the transport
func ExecuteSendNotification(ctx context.Context, deps NotifyDeps, kind sendlogDomain.Kind, offset int, holidays []holidayDomain.Holiday, receivers []string) bool {
	if len(holidays) == 0 {
		slog.Warn("notify_event", "event", "notify_skipped_no_holidays", "kind", string(kind))
		return false
	}
	if len(receivers) == 0 {
		slog.Error("notify_event", "event", "notify_skipped_no_receivers", "kind", string(kind))
		return false
	}

	rendered, err := BuildNotification(holidays, deps.Now())
	if err != nil {
		slog.Error("notify_event", "event", "notify_render_failed", "error", err.Error())
		return false
	}

	_, sendErr := deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      receivers,
		From:    deps.FromAddress,
		Subject: rendered.Subject,
		Text:    rendered.Text,
		HTML:    rendered.HTML,
		ReplyTo: deps.ReplyTo,
	})

	entry := sendlogDomain.Entry{
		ID:         deps.GenerateID(),
		Kind:       kind,
		Offset:     offset,
		Holidays:   len(holidays),
		Recipients: len(receivers),
		Success:    sendErr == nil,
		CreatedAt:  deps.Now(),
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if logErr := deps.SendLog.Save(ctx, entry); logErr != nil {
		slog.Error("notify_event", "event", "send_log_write_failed", "error", logErr.Error())
	}

	if sendErr != nil {
		slog.Error("notify_event", "event", "notify_send_failed", "kind", string(kind), "offset", offset, "recipients", len(receivers), "error", sendErr.Error())
		return false
	}

	slog.Info("notify_event", "event", "notify_sent", "kind", string(kind), "offset", offset, "holidays", len(holidays), "recipients", len(receivers))
	return true
}
