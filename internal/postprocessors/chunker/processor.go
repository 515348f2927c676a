// Package chunker splits page text into overlapping chunks.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor chunks loaded pages and tags every chunk.
// It implements the PostProcessor interface.
type Processor struct {
	splitter *Splitter
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	return &Processor{splitter: NewSplitter(opts...)}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Splitter returns the underlying splitter.
func (p *Processor) Splitter() *Splitter {
	return p.splitter
}

// Process splits the page text and attaches meta to every chunk.
// Surrounding whitespace is trimmed from each chunk.
func (p *Processor) Process(ctx context.Context, page domain.LoadedPage, meta domain.VectorMetadata) ([]domain.TaggedChunk, error) {
	var chunks []domain.TaggedChunk
	for text := range p.splitter.Split(page.Text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		chunks = append(chunks, domain.TaggedChunk{Text: text, Metadata: meta})
	}
	return chunks, nil
}
