package driven

import "context"

// LLMService answers a single non-streaming chat exchange. The query
// pipeline sends one system message and one user message per question.
type LLMService interface {
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName reports the configured model, for logs and `config check`.
	ModelName() string

	// Ping checks credentials and reachability without running inference.
	Ping(ctx context.Context) error

	Close() error
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat exchange.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tunes a completion. Zero values leave the provider default
// in place, except MaxTokens for providers that require one.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
	Stop        []string
}
