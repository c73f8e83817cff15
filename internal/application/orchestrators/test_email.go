package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	emailAdapter "holidayreminder/internal/adapters/email"
	"holidayreminder/internal/adapters/storage/statestore"
	sendlogDomain "holidayreminder/internal/domain/sendlog"
)

// TestEmailDeps holds dependencies for sending a configuration test email.
type TestEmailDeps struct {
	Store  statestore.Store
	Notify NotifyDeps
	// Describe returns a short transport description shown in the test
	// message body (e.g. "smtp.gmail.com:587").
	TransportInfo string
}

// ExecuteTestEmail sends a plain configuration test message to the given
// address, or to the full recipient list when address is empty. The draft
// state is untouched; only the send log records the attempt.
// POST: Returns whether delivery succeeded plus a human-readable message
func ExecuteTestEmail(ctx context.Context, deps TestEmailDeps, address string) (bool, string) {
	receivers := deps.Store.Receivers()
	if address != "" {
		receivers = []string{address}
	}
	if len(receivers) == 0 {
		return false, "Tidak ada penerima yang terdaftar"
	}

	now := deps.Notify.Now()
	text := fmt.Sprintf(`This is a test email from your Holiday Reminder application.

Configuration details:
- Transport: %s
- Sender: %s

If you received this email, your email configuration is working correctly!

Sent at: %s
`, deps.TransportInfo, deps.Notify.FromAddress, now.Format("2006-01-02 15:04:05"))

	htmlBody := "<pre>" + text + "</pre>"

	_, sendErr := deps.Notify.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      receivers,
		From:    deps.Notify.FromAddress,
		Subject: "\U0001F9EA Test Email - Holiday Reminder App",
		Text:    text,
		HTML:    htmlBody,
		ReplyTo: deps.Notify.ReplyTo,
	})

	entry := sendlogDomain.Entry{
		ID:         deps.Notify.GenerateID(),
		Kind:       sendlogDomain.KindTest,
		Recipients: len(receivers),
		Success:    sendErr == nil,
		CreatedAt:  now,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if logErr := deps.Notify.SendLog.Save(ctx, entry); logErr != nil {
		slog.Error("notify_event", "event", "send_log_write_failed", "error", logErr.Error())
	}

	if sendErr != nil {
		slog.Error("notify_event", "event", "test_email_failed", "error", sendErr.Error())
		return false, fmt.Sprintf("Failed to send test email: %s", sendErr.Error())
	}

	slog.Info("notify_event", "event", "test_email_sent", "recipients", len(receivers))
	return true, fmt.Sprintf("Test email sent successfully to %s", strings.Join(receivers, ", "))
}
