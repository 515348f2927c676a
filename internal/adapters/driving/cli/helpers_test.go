package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// mockIngestionService implements driving.IngestionService for testing.
type mockIngestionService struct {
	gotFiles []domain.UploadedFile
	gotOrg   string
	gotName  string
	result   *domain.UploadResult
	err      error
}

func (m *mockIngestionService) Ingest(
	_ context.Context, files []domain.UploadedFile, orgID, displayName string,
) (*domain.UploadResult, error) {
	m.gotFiles, m.gotOrg, m.gotName = files, orgID, displayName
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.UploadResult{
		Success:         true,
		Message:         "Uploaded 1 file(s)",
		FilesUploaded:   len(files),
		PagesProcessed:  2,
		ChunksProcessed: 3,
		DocumentIDs:     []string{"doc-1"},
		Elapsed:         1500 * time.Millisecond,
	}, nil
}

// mockQueryService implements driving.QueryService for testing.
type mockQueryService struct {
	gotQuestion string
	gotOrg      string
	gotOpts     domain.QueryOptions
	err         error
}

func (m *mockQueryService) Query(ctx context.Context, searchText, orgID string) (*domain.QueryResult, error) {
	return m.QueryWithOptions(ctx, searchText, orgID, domain.QueryOptions{})
}

func (m *mockQueryService) QueryWithOptions(
	_ context.Context, searchText, orgID string, opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	m.gotQuestion, m.gotOrg, m.gotOpts = searchText, orgID, opts
	if m.err != nil {
		return nil, m.err
	}
	return &domain.QueryResult{
		Query:       searchText,
		Answer:      "Employees get 25 holiday days.",
		DocumentIDs: []string{"doc-1"},
		Confidence:  0.6,
		Context:     "Holiday allowance is 25 days.",
	}, nil
}

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	docs []domain.DocumentRecord
}

func (m *mockDocumentService) ListByOrganization(_ context.Context, orgID string) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for _, d := range m.docs {
		if d.OrganizationID == orgID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.DocumentRecord, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockDeletionService implements driving.DeletionService for testing.
type mockDeletionService struct {
	gotIDs []string
	result *domain.DeletionResult
	err    error
}

func (m *mockDeletionService) DeleteDocuments(_ context.Context, ids []string) (*domain.DeletionResult, error) {
	m.gotIDs = ids
	return m.result, m.err
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockAIValidator) ValidateEmbedding(_ context.Context, _ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, _ *domain.LLMSettings) error {
	return m.llmErr
}

type testServices struct {
	ingestion *mockIngestionService
	query     *mockQueryService
	document  *mockDocumentService
	deletion  *mockDeletionService
}

func testDocuments() []domain.DocumentRecord {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return []domain.DocumentRecord{
		{
			ID:               "doc-1",
			OrganizationID:   "acme",
			OriginalFilename: "handbook.pdf",
			DisplayName:      "Employee Handbook",
			StoragePath:      "acme/acme_handbook.pdf",
			FileSizeBytes:    2048,
			Status:           domain.StatusProcessed,
			UploadedAt:       at,
		},
	}
}

// setupTestServices installs mock services and returns a cleanup function
// that removes them.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingestion: &mockIngestionService{},
		query:     &mockQueryService{},
		document:  &mockDocumentService{docs: testDocuments()},
		deletion: &mockDeletionService{
			result: &domain.DeletionResult{
				Success:                   true,
				Message:                   "deleted 1 of 1 document(s)",
				DocumentsRequested:        1,
				DocumentsFound:            1,
				DocumentsDeletedFromStore: 1,
				FilesDeleted:              1,
				EmbeddingsDeleted:         4,
				DeletedIDs:                []string{"doc-1"},
			},
		},
	}
	SetServices(Services{
		Ingestion: ts.ingestion,
		Query:     ts.query,
		Document:  ts.document,
		Deletion:  ts.deletion,
	})
	return ts, func() { SetServices(Services{}) }
}

// executeCommand runs the root command with args and returns everything
// written to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// executeCommandWithInput runs args with stdin read from input.
func executeCommandWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetIn(strings.NewReader(input))
	t.Cleanup(func() { rootCmd.SetIn(nil) })
	return executeCommand(t, args...)
}

// resetFlags restores every flag in the tree to its default so values do
// not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

var errTest = errors.New("test error")
