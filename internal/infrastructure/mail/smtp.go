package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"mime/quotedprintable"
	"net"
	netmail "net/mail"
	"net/smtp"
	"time"

	"github.com/go-email-verification/internal/config"
	"github.com/go-email-verification/internal/pkg/id"
)

const (
	dialTimeout = 10 * time.Second
	// ioTimeout bounds a whole SMTP conversation when the caller's context has no deadline.
	ioTimeout = 30 * time.Second
)

// SMTPMailer sends mail through an SMTP relay, upgrading to TLS when the server offers STARTTLS.
// Port 465 is treated as implicit TLS.
type SMTPMailer struct {
	host               string
	port               string
	from               string
	fromName           string
	username           string
	password           string
	insecureSkipVerify bool
	ioTimeout          time.Duration
	now                func() time.Time
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:               cfg.SMTPHost,
		port:               cfg.SMTPPort,
		from:               cfg.SMTPFrom,
		fromName:           cfg.MailFromName,
		username:           cfg.SMTPUsername,
		password:           cfg.SMTPPassword,
		insecureSkipVerify: cfg.SMTPInsecureSkipVerify,
		ioTimeout:          ioTimeout,
		now:                time.Now,
	}
}

func (m *SMTPMailer) Verify(ctx context.Context) error {
	c, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Noop(); err != nil {
		return fmt.Errorf("smtp noop: %w", err)
	}
	return c.Quit()
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	c, err := m.connect(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	messageID := id.MessageID(m.from)
	body, err := m.buildMessage(msg, messageID)
	if err != nil {
		return "", err
	}
	if err := c.Mail(m.from); err != nil {
		return "", fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return "", fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return "", fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return "", fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("smtp send rejected: %w", err)
	}
	if err := c.Quit(); err != nil {
		slog.Warn("smtp quit failed after send", "message_id", messageID, "err", err)
	}
	slog.Info("email sent", "transport", "smtp", "to", msg.To, "message_id", messageID)
	return messageID, nil
}

// connect dials the relay, negotiates TLS and authenticates. The caller owns the returned client.
func (m *SMTPMailer) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.host, m.port)
	tlsCfg := &tls.Config{ServerName: m.host, InsecureSkipVerify: m.insecureSkipVerify} //nolint:gosec // opt-in via SMTP_INSECURE_SKIP_VERIFY

	dialer := &net.Dialer{Timeout: dialTimeout}
	var conn net.Conn
	var err error
	if m.port == "465" {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	// A relay that accepts but never greets or stalls mid-DATA must not hang the caller.
	deadline := time.Now().Add(m.ioTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(tlsCfg); err != nil {
			c.Close()
			return nil, fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			c.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}
	return c, nil
}

func (m *SMTPMailer) buildMessage(msg Message, messageID string) ([]byte, error) {
	from := netmail.Address{Name: m.fromName, Address: m.from}
	to := netmail.Address{Name: msg.ToName, Address: msg.To}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", messageID)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return buf.Bytes(), nil
}
