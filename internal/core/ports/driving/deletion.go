package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DeletionService removes documents from every store they live in.
type DeletionService interface {
	// DeleteDocuments removes records, files and embeddings for the IDs.
	// The result is returned even when the error is non-nil so callers
	// can inspect what was removed before the failure.
	DeleteDocuments(ctx context.Context, ids []string) (*domain.DeletionResult, error)
}
