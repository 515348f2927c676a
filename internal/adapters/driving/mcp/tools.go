package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// QueryInput is the input schema for the query_documents tool.
type QueryInput struct {
	Query      string `json:"query" jsonschema:"the question to answer from the organization's documents"`
	OrgID      string `json:"org_id" jsonschema:"the organization whose documents are searched"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict retrieval to one document of the organization"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default 5)"`
}

// QueryOutput is the output schema for the query_documents tool.
type QueryOutput struct {
	Answer      string   `json:"answer"`
	DocumentIDs []string `json:"document_ids"`
	Confidence  float64  `json:"confidence"`
}

// IngestInput is the input schema for the ingest_files tool.
type IngestInput struct {
	OrgID       string   `json:"org_id" jsonschema:"the organization the documents belong to"`
	DisplayName string   `json:"display_name,omitempty" jsonschema:"label stored with every document in the batch"`
	Paths       []string `json:"paths" jsonschema:"local paths of the PDF files to ingest"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct {
	OrgID string `json:"org_id" jsonschema:"the organization whose documents are listed"`
}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is the summary of one document record.
type DocumentOutput struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name,omitempty"`
	Status      string `json:"status"`
	UploadedAt  string `json:"uploaded_at"`
}

// DeleteInput is the input schema for the delete_documents tool.
type DeleteInput struct {
	IDs []string `json:"ids" jsonschema:"IDs of the documents to delete"`
}

// DeleteOutput is the output schema for the delete_documents tool.
type DeleteOutput struct {
	Outcome string                `json:"outcome"`
	Error   string                `json:"error,omitempty"`
	Report  domain.DeletionResult `json:"report"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_documents",
		Description: "Answer a question using only one organization's ingested documents",
	}, s.handleQuery)

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_files",
			Description: "Ingest local PDF files into an organization's document index",
		}, s.handleIngest)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the documents ingested for an organization, newest first",
		}, s.handleList)
	}

	if s.ports.Deletion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_documents",
			Description: "Delete documents with their files and embeddings",
		}, s.handleDelete)
	}
}

// handleQuery handles the query_documents tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	opts := domain.QueryOptions{DocumentID: input.DocumentID, TopK: input.TopK}
	result, err := s.ports.Query.QueryWithOptions(ctx, input.Query, input.OrgID, opts)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	return nil, QueryOutput{
		Answer:      result.Answer,
		DocumentIDs: result.DocumentIDs,
		Confidence:  result.Confidence,
	}, nil
}

// handleIngest reads each path from disk and hands the batch to ingestion.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, domain.UploadResult, error) {
	if s.ports.Ingestion == nil {
		return nil, domain.UploadResult{}, errServiceUnavailable
	}
	if len(input.Paths) == 0 {
		return nil, domain.UploadResult{}, fmt.Errorf("%w: at least one path is required", domain.ErrInvalidInput)
	}

	files := make([]domain.UploadedFile, 0, len(input.Paths))
	for _, p := range input.Paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, domain.UploadResult{}, fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, domain.UploadedFile{
			Filename:    filepath.Base(p),
			ContentType: contentTypeFor(p),
			Content:     content,
		})
	}

	result, err := s.ports.Ingestion.Ingest(ctx, files, input.OrgID, input.DisplayName)
	if err != nil {
		return nil, domain.UploadResult{}, err
	}
	return nil, *result, nil
}

// handleList handles the list_documents tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	if s.ports.Document == nil {
		return nil, ListOutput{}, errServiceUnavailable
	}

	docs, err := s.ports.Document.ListByOrganization(ctx, input.OrgID)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = toDocumentOutput(&docs[i])
	}
	return nil, output, nil
}

// handleDelete handles the delete_documents tool invocation. The report is
// returned even when nothing could be deleted; the failure is carried in
// DeleteOutput.Error.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if s.ports.Deletion == nil {
		return nil, DeleteOutput{}, errServiceUnavailable
	}

	result, err := s.ports.Deletion.DeleteDocuments(ctx, input.IDs)
	if result == nil {
		return nil, DeleteOutput{}, err
	}

	output := DeleteOutput{
		Outcome: string(result.Outcome()),
		Report:  *result,
	}
	if err != nil {
		output.Error = err.Error()
	}
	return nil, output, nil
}

func toDocumentOutput(doc *domain.DocumentRecord) DocumentOutput {
	return DocumentOutput{
		ID:          doc.ID,
		Filename:    doc.OriginalFilename,
		DisplayName: doc.DisplayName,
		Status:      doc.Status.String(),
		UploadedAt:  doc.UploadedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func contentTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.PDFContentType
	}
	return "application/octet-stream"
}
