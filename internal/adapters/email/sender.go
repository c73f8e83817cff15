package email

import (
	"context"
	"time"
)

// MailerName identifies this application in the X-Mailer header.
const MailerName = "HolidayReminder/1.0"

// SendRequest contains the data needed to send a notification email. A
// request always addresses all recipients in one transport session.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Holiday Reminder <noreply@company.com>")
	Subject string
	Text    string // Plain-text body
	HTML    string // HTML body (multipart/alternative with Text)
	ReplyTo string // Reply-to address
}

// SendResult contains the response from the email transport.
type SendResult struct {
	MessageID string    // Transport's message ID, where the transport provides one
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for delivering emails. A Send is a single atomic
// attempt: it either delivers the message to the transport or fails as a
// whole, with no per-recipient retries.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
