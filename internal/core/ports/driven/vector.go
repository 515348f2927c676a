package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// VectorIndex is the text-level view of the vector index used by the
// pipelines. Embedding happens behind it.
//
// Every SimilaritySearch and DeleteByFilter call must carry a non-empty
// filter; implementations return domain.ErrUnscopedQuery otherwise.
type VectorIndex interface {
	// AddRecords embeds and stores the chunks in one batch.
	// Returns the IDs assigned to the stored vectors.
	AddRecords(ctx context.Context, chunks []domain.TaggedChunk) ([]string, error)

	// SimilaritySearch returns up to k chunks closest to the query text,
	// most similar first, restricted to records matching filter.
	SimilaritySearch(ctx context.Context, query string, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error)

	// DeleteByFilter removes every record matching filter and returns the
	// number removed. Backends that cannot count return -1.
	DeleteByFilter(ctx context.Context, filter domain.MetadataFilter) (int, error)
}

// VectorStore stores raw embeddings with their provenance tag.
type VectorStore interface {
	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// Query finds the k nearest records to the vector that match filter.
	Query(ctx context.Context, vector []float32, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error)

	// DeleteByFilter removes matching records and returns how many went.
	DeleteByFilter(ctx context.Context, filter domain.MetadataFilter) (int, error)

	// Close releases resources.
	Close() error
}
