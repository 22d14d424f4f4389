package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-email-verification/internal/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	apiKey  string
	from    *sgmail.Email
	client  sendGridClient
	request func(ctx context.Context, req rest.Request) (*rest.Response, error)
}

func NewSendGridMailer(cfg *config.Config) *SendGridMailer {
	return &SendGridMailer{
		apiKey:  cfg.SendGridAPIKey,
		from:    sgmail.NewEmail(cfg.MailFromName, cfg.SMTPFrom),
		client:  sendgrid.NewSendClient(cfg.SendGridAPIKey),
		request: sendgrid.MakeRequestWithContext,
	}
}

// Verify checks that the API key is accepted by listing its scopes.
func (m *SendGridMailer) Verify(ctx context.Context) error {
	req := sendgrid.GetRequest(m.apiKey, "/v3/scopes", "")
	req.Method = rest.Get
	resp, err := m.request(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid verify: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendgrid verify: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) (string, error) {
	email := sgmail.NewV3MailInit(m.from, msg.Subject, sgmail.NewEmail(msg.ToName, msg.To), sgmail.NewContent("text/html", msg.HTML))
	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		slog.Error("failed to send email", "transport", "sendgrid", "to", msg.To, "err", err)
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("sendgrid send rejected: status %d: %s", resp.StatusCode, resp.Body)
	}
	messageID := http.Header(resp.Headers).Get("X-Message-Id")
	slog.Info("email sent", "transport", "sendgrid", "to", msg.To, "message_id", messageID, "status_code", resp.StatusCode)
	return messageID, nil
}
