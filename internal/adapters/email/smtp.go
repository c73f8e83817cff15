package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSMTPTimeout bounds the whole SMTP session (dial through quit).
const DefaultSMTPTimeout = 30 * time.Second

// SMTPSender delivers mail over an SMTP submission connection upgraded with
// STARTTLS and authenticated with a username/password login.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

// NewSMTPSender creates an SMTPSender.
// PRE: host and port point at an SMTP submission endpoint supporting STARTTLS
// POST: Returns a ready-to-use sender with a bounded session timeout
func NewSMTPSender(host string, port int, username, password string, timeout time.Duration) *SMTPSender {
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
	}
}

// Send delivers one message addressing all recipients in a single session.
// The attempt is all-or-nothing; there are no per-recipient retries.
// PRE: req has at least one recipient, a subject, and both body parts
// POST: Message handed to the SMTP server, or an error with nothing sent
func (s *SMTPSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, fmt.Errorf("smtp send: no recipients")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), s.host)
	msg, err := BuildMessage(req, messageID)
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp send: build message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp send: dial %s: %w", addr, err)
	}
	// One deadline covers the whole session so no step blocks indefinitely.
	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		conn.Close()
		return SendResult{}, fmt.Errorf("smtp send: set deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return SendResult{}, fmt.Errorf("smtp send: handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return SendResult{}, fmt.Errorf("smtp send: server %s does not support STARTTLS", s.host)
	}
	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return SendResult{}, fmt.Errorf("smtp send: starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return SendResult{}, fmt.Errorf("smtp send: auth as %s: %w", s.username, err)
	}

	from := bareAddress(req.From)
	if from == "" {
		from = s.username
	}
	if err := client.Mail(from); err != nil {
		return SendResult{}, fmt.Errorf("smtp send: mail from %s: %w", from, err)
	}
	for _, to := range req.To {
		if err := client.Rcpt(to); err != nil {
			return SendResult{}, fmt.Errorf("smtp send: rcpt to %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp send: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return SendResult{}, fmt.Errorf("smtp send: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return SendResult{}, fmt.Errorf("smtp send: close body: %w", err)
	}

	if err := client.Quit(); err != nil {
		// The message was already accepted; a failed quit is not a send failure.
		slog.Warn("email_event", "event", "smtp_quit_failed", "error", err.Error())
	}

	slog.Info("email_event", "event", "smtp_sent", "recipients", len(req.To), "subject", req.Subject)
	return SendResult{MessageID: messageID, SentAt: time.Now()}, nil
}

// BuildMessage renders a SendRequest as a multipart/alternative MIME message
// with the standard headers (From, To, Reply-To, Subject, Message-ID, and the
// mailer identifier).
// POST: Returned bytes form a complete RFC 5322 message
func BuildMessage(req SendRequest, messageID string) ([]byte, error) {
	if req.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	boundary := strings.ReplaceAll(uuid.New().String(), "-", "")

	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, value)
	}

	writeHeader("From", req.From)
	writeHeader("To", strings.Join(req.To, ", "))
	if req.ReplyTo != "" {
		writeHeader("Reply-To", req.ReplyTo)
	}
	writeHeader("Subject", mime.QEncoding.Encode("UTF-8", req.Subject))
	writeHeader("Message-ID", messageID)
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("X-Mailer", MailerName)
	writeHeader("X-Priority", "3")
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
	buf.WriteString("\r\n")

	writePart := func(contentType, body string) {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=UTF-8\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		buf.WriteString(wrapBase64(body))
		buf.WriteString("\r\n")
	}

	// Plain text first, HTML last: clients prefer the final alternative.
	writePart("text/plain", req.Text)
	writePart("text/html", req.HTML)
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes(), nil
}

// wrapBase64 base64-encodes s and wraps the output at 76 columns.
func wrapBase64(s string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(s))
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}

// bareAddress extracts the address part from "Display Name <addr>" forms.
func bareAddress(s string) string {
	if start := strings.LastIndex(s, "<"); start >= 0 {
		if end := strings.LastIndex(s, ">"); end > start {
			return s[start+1 : end]
		}
	}
	return strings.TrimSpace(s)
}
