package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultTimeout = 60 * time.Second

// Config configures the OpenAI-compatible client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LangChainCompleter implements Completer with langchaingo's OpenAI client.
type LangChainCompleter struct {
	model   llms.Model
	timeout time.Duration
}

// NewLangChainCompleter builds a completer for the configured endpoint.
func NewLangChainCompleter(cfg Config) (*LangChainCompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, openai.WithBaseURL(strings.TrimRight(base, "/")))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return &LangChainCompleter{model: client, timeout: timeout}, nil
}

// Complete sends the request and returns the first choice's content.
func (c *LangChainCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("completion request has no messages")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		content = append(content, llms.TextParts(chatRole(m.Role), m.Content))
	}

	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(req.Temperature))

	resp, err := c.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

func chatRole(role Role) llms.ChatMessageType {
	if role == RoleSystem {
		return llms.ChatMessageTypeSystem
	}
	return llms.ChatMessageTypeHuman
}
