package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DocumentStore persists document records.
// Backed by SQLite, MongoDB, or memory.
type DocumentStore interface {
	// InsertMany stores the records and returns their assigned IDs in the
	// same order. The ID field of the input records is ignored.
	InsertMany(ctx context.Context, docs []domain.DocumentRecord) ([]string, error)

	// Find returns the records matching filter. An empty filter is rejected
	// with domain.ErrInvalidInput.
	Find(ctx context.Context, filter domain.DocumentFilter) ([]domain.DocumentRecord, error)

	// Get retrieves one record by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// DeleteMany removes the records matching filter and returns the count.
	DeleteMany(ctx context.Context, filter domain.DocumentFilter) (int, error)

	// UpdateStatus sets the status of the given records.
	UpdateStatus(ctx context.Context, ids []string, status domain.DocumentStatus) error

	// ValidID reports whether id is well formed for this store.
	ValidID(id string) bool
}
