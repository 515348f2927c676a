// Package ollama embeds chunk text with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768
)

// Output sizes of common local embedding models, keyed without the tag.
var modelDimensions = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// Config configures NewEmbeddingService. Dimensions must be set for models
// not listed in modelDimensions.
type Config struct {
	BaseURL       string
	Model         string
	Timeout       time.Duration
	Dimensions    int
	ClientOptions []aihttp.Option
}

// EmbeddingService calls /api/embed, which accepts a batch of inputs.
type EmbeddingService struct {
	client     *aihttp.Client
	baseURL    string
	model      string
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

func NewEmbeddingService(cfg Config) *EmbeddingService {
	s := &EmbeddingService{baseURL: cfg.BaseURL, model: cfg.Model, dimensions: cfg.Dimensions}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.dimensions <= 0 {
		s.dimensions = dimensionsFor(s.model)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s.client = aihttp.New(timeout, cfg.ClientOptions...)
	return s
}

func dimensionsFor(model string) int {
	name, _, _ := strings.Cut(model, ":")
	if d, ok := modelDimensions[name]; ok {
		return d
	}
	return DefaultDimensions
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var resp embedResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/api/embed", nil, embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: ollama: got %d embeddings for %d inputs",
			domain.ErrEmbeddingUnavailable, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, values := range resp.Embeddings {
		vectors[i] = make([]float32, len(values))
		for j, v := range values {
			vectors[i][j] = float32(v)
		}
	}
	return vectors, nil
}

func (s *EmbeddingService) Dimensions() int   { return s.dimensions }
func (s *EmbeddingService) ModelName() string { return s.model }

// Ping lists local models via /api/tags.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/api/tags", nil); err != nil {
		return fmt.Errorf("%w: ollama: ping failed: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

func (s *EmbeddingService) Close() error { return nil }
