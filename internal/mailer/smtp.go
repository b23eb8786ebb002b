package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 30 * time.Second

// SMTPConfig identifies the mail account used for outreach.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string
}

// SMTPSender sends mail through an authenticated SMTP submission server.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender validates cfg and returns a sender. The account address doubles as the From address.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.Username) == "" || cfg.Password == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}, nil
}

// From returns the sending address.
func (s *SMTPSender) From() string { return s.cfg.Username }

// Send builds msg and delivers it over a fresh connection.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = s.cfg.Username
	}
	if msg.FromName == "" {
		msg.FromName = s.cfg.SenderName
	}
	m, err := buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(defaultSMTPTimeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(msg Message) (*mail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	m := mail.NewMsg()
	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("set from address: %w", err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := m.To(strings.TrimSpace(msg.To)); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}
