package mcp

import (
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls into.
type Ports struct {
	// Query answers questions. Required.
	Query driving.QueryService

	// Ingestion uploads PDFs read from local paths.
	Ingestion driving.IngestionService

	// Deletion removes documents.
	Deletion driving.DeletionService

	// Document lists and reads document records.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
