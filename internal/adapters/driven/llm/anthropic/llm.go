// Package anthropic answers questions through the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// The Messages API rejects requests without max_tokens.
	defaultMaxTokens = 1024
	anthropicVersion = "2023-06-01"
)

// Config configures NewLLMService. APIKey is required.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	ClientOptions []aihttp.Option
}

// LLMService calls /v1/messages.
type LLMService struct {
	client  *aihttp.Client
	baseURL string
	headers map[string]string
	model   string
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	StopSeqs    []string  `json:"stop_sequences,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic: API key is required", domain.ErrInvalidInput)
	}
	s := &LLMService{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		headers: map[string]string{"x-api-key": cfg.APIKey, "anthropic-version": anthropicVersion},
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s.client = aihttp.New(timeout, cfg.ClientOptions...)
	return s, nil
}

// Chat moves system messages into the top-level system field, joined by
// blank lines, and concatenates the text blocks of the reply.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		StopSeqs:    opts.Stop,
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = defaultMaxTokens
	}

	var system []string
	for _, m := range messages {
		if m.Role == driven.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")

	var resp messagesResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/v1/messages", s.headers, req, &resp); err != nil {
		return "", fmt.Errorf("%w: anthropic: %w", domain.ErrLLMUnavailable, err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: anthropic: response had no content", domain.ErrLLMUnavailable)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/v1/models", s.headers); err != nil {
		return fmt.Errorf("%w: anthropic: ping failed: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}

func (s *LLMService) Close() error { return nil }
