package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// QueryService answers questions from an organization's documents.
type QueryService interface {
	// Query answers searchText using the organization's documents only.
	Query(ctx context.Context, searchText, orgID string) (*domain.QueryResult, error)

	// QueryWithOptions is Query with retrieval refinements.
	QueryWithOptions(ctx context.Context, searchText, orgID string, opts domain.QueryOptions) (*domain.QueryResult, error)
}
