package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// PostProcessor turns loaded page text into tagged chunks.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits the page and tags every chunk with meta.
	Process(ctx context.Context, page domain.LoadedPage, meta domain.VectorMetadata) ([]domain.TaggedChunk, error)
}
