package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// IngestionService uploads PDFs and makes their content retrievable.
type IngestionService interface {
	// Ingest validates, stores, records, chunks and indexes the files.
	// Returns domain.ErrInvalidInput for an empty batch or blank orgID.
	// Every other failure is reported inside the result.
	Ingest(ctx context.Context, files []domain.UploadedFile, orgID, displayName string) (*domain.UploadResult, error)
}
