package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DocumentService reads document records.
type DocumentService interface {
	// ListByOrganization returns the organization's documents, newest first.
	ListByOrganization(ctx context.Context, orgID string) ([]domain.DocumentRecord, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.DocumentRecord, error)
}
