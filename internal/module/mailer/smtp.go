package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/port/outbound"
)

// Config holds SMTP dispatcher configuration.
type Config struct {
	Addr     string
	From     string
	Username string
	Password string
	Hello    string
	UseTLS   bool
}

// SMTP dispatches invitation emails over an SMTP relay.
type SMTP struct {
	cfg    Config
	logger *zap.Logger
}

// NewSMTP creates a new SMTP dispatcher.
func NewSMTP(cfg Config, logger *zap.Logger) *SMTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTP{cfg: cfg, logger: logger}
}

// Send dispatches the composed invitation email.
func (m *SMTP) Send(ctx context.Context, mail *outbound.InvitationMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := m.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.cfg.From, nil); err != nil {
		return fmt.Errorf("smtp server rejected mail from %q: %w", m.cfg.From, err)
	}
	if err := client.Rcpt(mail.To, nil); err != nil {
		return fmt.Errorf("smtp server rejected mail to %q: %w", mail.To, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp server rejected mail data: %w", err)
	}
	if err := writeMessage(writer, m.cfg.From, mail); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func (m *SMTP) dial() (*smtp.Client, error) {
	var (
		client *smtp.Client
		err    error
	)
	if m.cfg.UseTLS {
		client, err = smtp.DialTLS(m.cfg.Addr, &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		client, err = smtp.Dial(m.cfg.Addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to smtp server: %w", err)
	}

	if m.cfg.Hello != "" {
		if err := client.Hello(m.cfg.Hello); err != nil {
			client.Close()
			return nil, fmt.Errorf("smtp greeting failed: %w", err)
		}
	}

	if m.cfg.Username != "" || m.cfg.Password != "" {
		if err := client.Auth(sasl.NewLoginClient(m.cfg.Username, m.cfg.Password)); err != nil {
			client.Close()
			return nil, fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	return client, nil
}

func writeMessage(w io.Writer, from string, mail *outbound.InvitationMail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(mail.Body)

	_, err := io.WriteString(w, b.String())
	return err
}

// Compile-time interface check
var _ outbound.InvitationMailerPort = (*SMTP)(nil)
