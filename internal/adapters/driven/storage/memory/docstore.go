// Package memory provides in-memory implementations of the storage ports.
// They back the memory backends and serve as fakes in tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.DocumentRecord
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.DocumentRecord),
	}
}

// InsertMany stores the records under fresh UUIDs.
func (s *DocumentStore) InsertMany(_ context.Context, docs []domain.DocumentRecord) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		doc.ID = uuid.New().String()
		s.documents[doc.ID] = doc
		s.order = append(s.order, doc.ID)
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// Find returns matching records in insertion order.
func (s *DocumentStore) Find(_ context.Context, filter domain.DocumentFilter) ([]domain.DocumentRecord, error) {
	if filter.IsEmpty() {
		return nil, fmt.Errorf("%w: empty document filter", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DocumentRecord
	for _, id := range s.order {
		if doc := s.documents[id]; filter.Matches(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Get retrieves a record by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteMany removes matching records.
func (s *DocumentStore) DeleteMany(_ context.Context, filter domain.DocumentFilter) (int, error) {
	if filter.IsEmpty() {
		return 0, fmt.Errorf("%w: empty document filter", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		if filter.Matches(s.documents[id]) {
			delete(s.documents, id)
			removed++
			return true
		}
		return false
	})
	return removed, nil
}

// UpdateStatus sets the status of existing records and ignores unknown IDs.
func (s *DocumentStore) UpdateStatus(_ context.Context, ids []string, status domain.DocumentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if doc, ok := s.documents[id]; ok {
			doc.Status = status
			s.documents[id] = doc
		}
	}
	return nil
}

// ValidID reports whether id is a UUID.
func (s *DocumentStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Count returns the number of stored records.
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
