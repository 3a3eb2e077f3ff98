package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-crm/internal/config"
)

// Mailer sends a single plain-text email. Implementations must treat delivery
// as best-effort: callers never retry and never surface a send failure to the
// HTTP client.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
}

// NewSMTPMailer builds an SMTP-backed mailer. With no SMTP host configured it
// degrades to logging the message, which keeps local development working
// without a relay.
func NewSMTPMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	if strings.TrimSpace(m.cfg.SMTPHost) == "" {
		m.logger.Info("email transport not configured; dropping message",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.EmailFrom, to, subject, body)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, m.cfg.EmailFrom, []string{to}, []byte(msg))
}
