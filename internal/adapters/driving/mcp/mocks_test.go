package mcp

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	result    *domain.QueryResult
	err       error
	gotOrg    string
	gotOpts   domain.QueryOptions
	gotSearch string
}

func (m *mockQueryService) Query(ctx context.Context, searchText, orgID string) (*domain.QueryResult, error) {
	return m.QueryWithOptions(ctx, searchText, orgID, domain.QueryOptions{})
}

func (m *mockQueryService) QueryWithOptions(
	_ context.Context,
	searchText, orgID string,
	opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	m.gotSearch = searchText
	m.gotOrg = orgID
	m.gotOpts = opts
	return m.result, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result   *domain.UploadResult
	err      error
	gotFiles []domain.UploadedFile
	gotOrg   string
	gotName  string
}

func (m *mockIngestionService) Ingest(
	_ context.Context,
	files []domain.UploadedFile,
	orgID, displayName string,
) (*domain.UploadResult, error) {
	m.gotFiles = files
	m.gotOrg = orgID
	m.gotName = displayName
	return m.result, m.err
}

// mockDeletionService is a mock implementation of driving.DeletionService.
type mockDeletionService struct {
	result *domain.DeletionResult
	err    error
	gotIDs []string
}

func (m *mockDeletionService) DeleteDocuments(_ context.Context, ids []string) (*domain.DeletionResult, error) {
	m.gotIDs = ids
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentRecord
	document  *domain.DocumentRecord
	err       error
}

func (m *mockDocumentService) ListByOrganization(_ context.Context, _ string) ([]domain.DocumentRecord, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return m.document, m.err
}
