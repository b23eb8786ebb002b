// Package llm models text completion as a pluggable capability. The pipeline only depends on
// Completer; the production implementation talks to an OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
)

// Role identifies who authored a message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat message.
type Message struct {
	Role    Role
	Content string
}

// Request describes a single completion call.
type Request struct {
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature float64
}

// Completer produces a text completion for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotConfigured is returned by Unavailable.
var ErrNotConfigured = errors.New("text completion is not configured")

// Unavailable is a Completer that always fails. It stands in when no API key is configured.
type Unavailable struct{}

// Complete always returns ErrNotConfigured.
func (Unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}
