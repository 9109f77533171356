// Package mailer delivers transactional email for the account service. The
// only messages it ever sends are one-time codes, so the interface stays
// deliberately small.
package mailer

import (
	"context"
	"log/slog"
)

// Mailer sends a single message. Implementations must be safe for concurrent
// use.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogMailer writes messages to the log instead of delivering them. Used in
// development so the one-time codes show up in the console.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.Logger.Info("mail (dev mode, not delivered)",
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}
