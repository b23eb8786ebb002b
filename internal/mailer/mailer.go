// Package mailer sends outreach email.
package mailer

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned when no mail account is configured.
var ErrNotConfigured = errors.New("mail account is not configured")

// Message is a single HTML email.
type Message struct {
	From     string
	FromName string
	To       string
	Subject  string
	HTMLBody string
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.To) == "":
		return errors.New("recipient is required")
	case strings.TrimSpace(m.Subject) == "":
		return errors.New("subject is required")
	case strings.TrimSpace(m.HTMLBody) == "":
		return errors.New("body is required")
	}
	return nil
}

// Sender delivers a message. A nil error means the transport accepted it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
