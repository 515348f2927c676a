// Package vectorindex composes an embedding service and a raw vector store
// into the text-level driven.VectorIndex used by the pipelines.
package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Defaults for the embedding batch size and request rate.
const (
	DefaultBatchSize = 64
	DefaultRPS       = 5
)

// Index embeds text and delegates storage and search to a VectorStore.
type Index struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	batchSize int
	limiter   *rate.Limiter
	newID     func() string
}

// Option configures an Index.
type Option func(*Index)

// WithBatchSize sets how many texts are sent per EmbedBatch call.
func WithBatchSize(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithRateLimit caps embedding calls per second. Zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(i *Index) {
		if rps <= 0 {
			i.limiter = nil
			return
		}
		i.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithIDFunc overrides vector ID generation.
func WithIDFunc(fn func() string) Option {
	return func(i *Index) {
		if fn != nil {
			i.newID = fn
		}
	}
}

// New creates an Index.
func New(embedder driven.EmbeddingService, store driven.VectorStore, opts ...Option) *Index {
	i := &Index{
		embedder:  embedder,
		store:     store,
		batchSize: DefaultBatchSize,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRPS), 1),
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// AddRecords embeds the chunks in batches and upserts them.
// Either every chunk is stored or an error is returned.
func (i *Index) AddRecords(ctx context.Context, chunks []domain.TaggedChunk) ([]string, error) {
	if len(chunks) == 0 {
		return []string{}, nil
	}

	records := make([]domain.VectorRecord, 0, len(chunks))
	for start := 0; start < len(chunks); start += i.batchSize {
		end := min(start+i.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}

		vectors, err := i.embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
				domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
		}

		for j, c := range batch {
			records = append(records, domain.VectorRecord{
				ID:        i.newID(),
				Embedding: vectors[j],
				Text:      c.Text,
				Metadata:  c.Metadata,
			})
		}
	}

	if err := i.store.Upsert(ctx, records); err != nil {
		return nil, storeError("storing vectors", err)
	}

	ids := make([]string, len(records))
	for j, r := range records {
		ids[j] = r.ID
	}
	return ids, nil
}

// SimilaritySearch embeds the query and returns up to k scoped hits.
func (i *Index) SimilaritySearch(ctx context.Context, query string, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error) {
	if filter.IsEmpty() {
		return nil, domain.ErrUnscopedQuery
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}

	vectors, err := i.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: no embedding for query", domain.ErrEmbeddingUnavailable)
	}

	hits, err := i.store.Query(ctx, vectors[0], k, filter)
	if err != nil {
		return nil, storeError("searching vectors", err)
	}
	return hits, nil
}

// DeleteByFilter removes every vector matching filter.
func (i *Index) DeleteByFilter(ctx context.Context, filter domain.MetadataFilter) (int, error) {
	if filter.IsEmpty() {
		return 0, domain.ErrUnscopedQuery
	}

	n, err := i.store.DeleteByFilter(ctx, filter)
	if err != nil {
		return 0, storeError("deleting vectors", err)
	}
	return n, nil
}

func (i *Index) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for embedding rate limit: %w", err)
		}
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return vectors, nil
}

// storeError wraps err with op. Only connection failures are tagged
// ErrVectorIndexUnavailable; a store that answered with an error is still
// reachable for the next request.
func storeError(op string, err error) error {
	if !errors.Is(err, domain.ErrVectorIndexUnavailable) && isConnectionError(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrVectorIndexUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConnectionError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, syscall.ECONNREFUSED)
}
