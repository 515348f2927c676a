// Package openai answers questions through the OpenAI chat completions API
// or any server that speaks it.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures NewLLMService. APIKey is required; BaseURL may point
// at Azure OpenAI or a compatible gateway.
type LLMConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	ClientOptions []aihttp.Option
}

// LLMService is a chat client for /chat/completions.
type LLMService struct {
	client   *aihttp.Client
	endpoint string
	auth     map[string]string
	model    string
	modelsAt string
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService validates cfg and fills in defaults.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: API key is required", domain.ErrInvalidInput)
	}
	base := orDefault(cfg.BaseURL, DefaultBaseURL)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return &LLMService{
		client:   aihttp.New(timeout, cfg.ClientOptions...),
		endpoint: base + "/chat/completions",
		modelsAt: base + "/models",
		auth:     map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		model:    orDefault(cfg.Model, DefaultLLMModel),
	}, nil
}

// Chat sends the messages unchanged, system prompt included, and returns
// the first choice.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := chatCompletionRequest{
		Model:       s.model,
		Messages:    make([]chatMessage, 0, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.Stop,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	var resp chatCompletionResponse
	if err := s.client.PostJSON(ctx, s.endpoint, s.auth, req, &resp); err != nil {
		return "", fmt.Errorf("%w: openai: %w", domain.ErrLLMUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai: response had no choices", domain.ErrLLMUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.modelsAt, s.auth); err != nil {
		return fmt.Errorf("%w: openai: ping failed: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}

func (s *LLMService) Close() error { return nil }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
