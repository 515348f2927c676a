package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Normaliser extracts page text from a stored file.
// Each normaliser handles specific MIME types (e.g., PDF).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise returns the text of every page, in page order.
	// storageName is copied onto each page for provenance.
	Normalise(ctx context.Context, storageName string, content []byte) ([]domain.LoadedPage, error)
}
