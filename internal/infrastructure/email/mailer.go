// Package email delivers summary documents over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mail "github.com/wneessen/go-mail"

	"PodcastSummarizer/internal/config"
	"PodcastSummarizer/internal/ports"
)

// SMTPMailer implements ports.Mailer with STARTTLS and plain auth, the
// setup Gmail-style submission ports expect.
type SMTPMailer struct {
	cfg    config.EmailConfig
	logger *slog.Logger
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer from configuration.
func NewSMTPMailer(cfg config.EmailConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one summary mail: plain-text body, optional HTML
// alternative, optional transcript attachment.
func (m *SMTPMailer) Send(ctx context.Context, summary ports.SummaryMail) error {
	if !m.cfg.Complete() {
		return fmt.Errorf("email delivery not configured")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(summary.Subject)
	msg.SetBodyString(mail.TypeTextPlain, summary.Body)
	if summary.HTMLBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, summary.HTMLBody)
	}

	if summary.TranscriptPath != "" {
		if _, err := os.Stat(summary.TranscriptPath); err == nil {
			stem := strings.TrimSuffix(filepath.Base(summary.TranscriptPath), filepath.Ext(summary.TranscriptPath))
			msg.AttachFile(summary.TranscriptPath, mail.WithFileName("transcript_"+stem+".txt"))
		}
	}

	client, err := mail.NewClient(m.cfg.SMTPServer,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.From),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("summary emailed", "to", m.cfg.To, "subject", summary.Subject)
	}
	return nil
}
