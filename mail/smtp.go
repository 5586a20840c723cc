package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPConfig carries the connection settings for [SMTPMailer].
type SMTPConfig struct {
	// Addr is the server in host:port form.
	Addr     string
	Username string
	Password string
	// From is the sender address. Defaults to Username when empty.
	From string
}

// SMTPMailer sends mail over plain-auth SMTP.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer validates cfg and builds the mailer. No connection is
// made until the first Send.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	host, _, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("mail: invalid smtp address %q: %w", cfg.Addr, err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPMailer{
		addr: cfg.Addr,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, host),
		from: from,
	}, nil
}

// Send delivers one plain-text message. The context is honored on a
// best-effort basis: net/smtp has no context support, so a cancelled
// context only short-circuits before dialing.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte("To: " + to + "\r\n" +
		"From: " + m.from + "\r\n" +
		"Subject: " + subject + "\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: send to %s failed: %w", to, err)
	}
	return nil
}
