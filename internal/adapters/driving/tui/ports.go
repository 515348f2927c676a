// Package tui provides an interactive terminal user interface for ragdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls into.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Document lists an organization's documents.
	Document driving.DocumentService

	// Deletion removes documents. Optional; deleting is unavailable without it.
	Deletion driving.DeletionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	query driving.QueryService,
	document driving.DocumentService,
	deletion driving.DeletionService,
) *Ports {
	return &Ports{
		Query:    query,
		Document: document,
		Deletion: deletion,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
