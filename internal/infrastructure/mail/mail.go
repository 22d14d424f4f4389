package mail

import (
	"context"
	"fmt"

	"github.com/go-email-verification/internal/config"
)

// Message is an outbound HTML email to a single recipient.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Mailer delivers email through an external transport.
type Mailer interface {
	// Verify connects to the transport and confirms it is ready to accept mail.
	Verify(ctx context.Context) error
	// Send delivers msg and returns the identifier the transport assigned to it.
	Send(ctx context.Context, msg Message) (messageID string, err error)
}

// New returns the Mailer selected by cfg.MailService.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailService {
	case config.MailServiceSMTP, config.MailServiceGmail:
		return NewSMTPMailer(cfg), nil
	case config.MailServiceSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("mail service %q requires SENDGRID_API_KEY", cfg.MailService)
		}
		return NewSendGridMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail service %q", cfg.MailService)
	}
}
