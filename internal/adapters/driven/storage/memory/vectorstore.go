package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/vectormath"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore keeps embeddings in memory and ranks by brute-force cosine.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
	closed  bool
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{records: make(map[string]domain.VectorRecord)}
}

// Upsert inserts or replaces records by ID.
func (s *VectorStore) Upsert(_ context.Context, records []domain.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrVectorIndexUnavailable
	}
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("%w: vector record without id", domain.ErrInvalidInput)
		}
		rec.Embedding = append([]float32(nil), rec.Embedding...)
		s.records[rec.ID] = rec
	}
	return nil
}

// Query returns the k records closest to vector among those matching filter.
func (s *VectorStore) Query(_ context.Context, vector []float32, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error) {
	if filter.IsEmpty() {
		return nil, domain.ErrUnscopedQuery
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.ErrVectorIndexUnavailable
	}

	hits := make([]domain.VectorHit, 0)
	for _, rec := range s.records {
		if !filter.Matches(rec.Metadata) {
			continue
		}
		score, err := vectormath.Cosine(vector, rec.Embedding)
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.VectorHit{ID: rec.ID, Text: rec.Text, Metadata: rec.Metadata, Score: score})
	}
	return vectormath.TopK(hits, k), nil
}

// DeleteByFilter removes matching records.
func (s *VectorStore) DeleteByFilter(_ context.Context, filter domain.MetadataFilter) (int, error) {
	if filter.IsEmpty() {
		return 0, domain.ErrUnscopedQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, domain.ErrVectorIndexUnavailable
	}

	removed := 0
	for id, rec := range s.records {
		if filter.Matches(rec.Metadata) {
			delete(s.records, id)
			removed++
		}
	}
	return removed, nil
}

// Close marks the store unavailable.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Records returns a copy of every stored record.
func (s *VectorStore) Records() []domain.VectorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.VectorRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}
