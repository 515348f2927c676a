package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// AIConfigValidator backs `ragdesk config check`. Each method builds a
// throwaway client from the settings, pings it and closes it again.
type AIConfigValidator interface {
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error
	ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error
}
