package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reads document records.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// ListByOrganization returns the organization's documents, newest first.
func (s *DocumentService) ListByOrganization(ctx context.Context, orgID string) ([]domain.DocumentRecord, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", domain.ErrInvalidInput)
	}

	docs, err := s.docStore.Find(ctx, domain.DocumentFilter{OrganizationID: orgID})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.DocumentRecord, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if !s.docStore.ValidID(documentID) {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
	}
	return s.docStore.Get(ctx, documentID)
}
