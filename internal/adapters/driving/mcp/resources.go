package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme prefixes every ragdesk resource URI.
const uriScheme = "ragdesk://"

// registerResources registers the document resources when the document
// port is wired.
func (s *Server) registerResources() {
	if s.ports.Document == nil {
		return
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "organizations/{orgId}/documents",
		Name:        "organization-documents",
		Description: "Documents ingested for an organization, newest first",
		MIMEType:    "application/json",
	}, s.handleOrganizationDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "The record of a single document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleOrganizationDocumentsResource lists an organization's documents.
func (s *Server) handleOrganizationDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	orgID := extractOrganizationID(req.Params.URI)
	if orgID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Document.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = toDocumentOutput(&docs[i])
	}
	return jsonResource(req.Params.URI, infos)
}

// handleDocumentResource returns one document record.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return jsonResource(req.Params.URI, doc)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractOrganizationID returns the {orgId} of an organization documents
// URI, or "" when uri does not match the template.
func extractOrganizationID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"organizations/")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/documents")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractDocumentID returns the {documentId} of a document URI, or "".
func extractDocumentID(uri string) string {
	id, ok := strings.CutPrefix(uri, uriScheme+"documents/")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
