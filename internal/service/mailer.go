package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/config"
)

// Mailer delivers plain-text notification emails. Delivery failures are
// reported to the caller but must never abort the operation that
// triggered the email.
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer is the fallback used when no SMTP credentials are
// configured. It records the message instead of delivering it.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) Send(to, subject, _ string) error {
	m.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("email skipped, mailer not configured")
	return nil
}

// SMTPMailer sends mail through a plain SMTP relay with optional AUTH.
type SMTPMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger zerolog.Logger
}

func NewSMTPMailer(cfg *config.Config, logger zerolog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = "no-reply@campusconnect.local"
	}
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:   from,
		auth:   auth,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NewMailer picks the SMTP implementation when a host is configured and
// falls back to log-only delivery otherwise.
func NewMailer(cfg *config.Config, logger zerolog.Logger) Mailer {
	if cfg.SMTPHost != "" {
		return NewSMTPMailer(cfg, logger)
	}
	return NewLogMailer(logger)
}
