// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/ragdesk/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragdesk/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// pingTimeout bounds each provider ping made before services are used.
const pingTimeout = 5 * time.Second

// Services holds the AI services a pipeline run needs.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
}

// Close releases all resources held by the services.
func (s *Services) Close() error {
	var errs []error
	if s.Embedding != nil {
		errs = append(errs, s.Embedding.Close())
	}
	if s.LLM != nil {
		errs = append(errs, s.LLM.Close())
	}
	return errors.Join(errs...)
}

// CreateServices builds both services. When validate is set each one is
// pinged first and an unreachable provider is reported with guidance.
func CreateServices(ctx context.Context, embedding domain.EmbeddingSettings, llm domain.LLMSettings, validate bool) (*Services, error) {
	create := func() (*Services, error) {
		emb, err := CreateEmbeddingService(&embedding)
		if err != nil {
			return nil, err
		}
		l, err := CreateLLMService(&llm)
		if err != nil {
			emb.Close()
			return nil, err
		}
		return &Services{Embedding: emb, LLM: l}, nil
	}

	svcs, err := create()
	if err != nil || !validate {
		return svcs, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svcs.Embedding.Ping(pingCtx); err != nil {
		svcs.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Check the [embedding] section of your config",
			domain.ErrEmbeddingUnavailable, embedding.Provider, err)
	}
	if err := svcs.LLM.Ping(pingCtx); err != nil {
		svcs.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Check the [llm] section of your config",
			domain.ErrLLMUnavailable, llm.Provider, err)
	}
	return svcs, nil
}

// CreateEmbeddingService creates the embedding service named by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}
	if settings.Provider.IsValid() && !settings.Provider.SupportsEmbeddings() {
		return nil, fmt.Errorf("%w: %s does not offer embeddings, use ollama or openai",
			domain.ErrUnsupportedType, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)
	default:
		return createOllamaEmbedding(settings), nil
	}
}

// CreateLLMService creates the LLM service named by settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no llm settings", domain.ErrLLMUnavailable)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: llm provider %q is not configured",
			domain.ErrLLMUnavailable, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)
	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)
	default:
		return createOllamaLLM(settings), nil
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
