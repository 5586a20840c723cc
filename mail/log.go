package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes messages to a logger instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer builds a mailer that logs through logger, or the default
// logger when nil.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "mail suppressed, logging instead",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
