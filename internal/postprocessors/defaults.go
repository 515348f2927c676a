package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/postprocessors/chunker"
)

// ChunkerName is the registry name of the recursive text chunker.
const ChunkerName = "chunker"

// Length units accepted under the "length" key.
const (
	lengthChars  = "chars"
	lengthTokens = "tokens"
)

// RegisterDefaults adds the built-in processors to r.
func RegisterDefaults(r *Registry) error {
	return r.Register(ChunkerName, buildChunker)
}

// NewDefaultChunker builds the chunker used by ingestion.
func NewDefaultChunker(settings domain.ChunkerSettings) (driven.PostProcessor, error) {
	r := NewRegistry()
	if err := RegisterDefaults(r); err != nil {
		return nil, err
	}
	return r.Build(ChunkerName, settings.Map())
}

// buildChunker reads chunk_size, overlap, length ("chars" or "tokens") and
// encoding. A missing key keeps the chunker default; an explicit overlap of
// zero is honoured.
func buildChunker(cfg Config) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := cfg.Int("chunk_size"); ok && size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := cfg.Int("overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	switch unit := cfg.String("length"); unit {
	case "", lengthChars:
	case lengthTokens:
		encoding := cfg.String("encoding")
		if encoding == "" {
			encoding = domain.DefaultChunkerSettings().Encoding
		}
		count, err := chunker.TokenLength(encoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chunker.WithLengthFunc(count))
	default:
		return nil, fmt.Errorf("%w: chunk length unit %q", domain.ErrInvalidInput, unit)
	}

	return chunker.New(opts...), nil
}
