package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure DeletionService implements the interface.
var _ driving.DeletionService = (*DeletionService)(nil)

// DeletionService removes documents from the document store, blob storage
// and the vector index. The three are not transactional, so every outcome
// is reported rather than rolled back.
type DeletionService struct {
	docStore  driven.DocumentStore
	blobStore driven.BlobStore
	index     driven.VectorIndex
}

// NewDeletionService creates a new deletion service.
func NewDeletionService(docStore driven.DocumentStore, blobStore driven.BlobStore, index driven.VectorIndex) *DeletionService {
	return &DeletionService{
		docStore:  docStore,
		blobStore: blobStore,
		index:     index,
	}
}

// DeleteDocuments removes records, files and embeddings for the IDs.
func (s *DeletionService) DeleteDocuments(ctx context.Context, ids []string) (*domain.DeletionResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no document ids given", domain.ErrInvalidInput)
	}

	logger.Section("Deletion")

	result := &domain.DeletionResult{
		DocumentsRequested: len(ids),
		DeletedIDs:         []string{},
		DeletedPaths:       []string{},
		Errors: domain.DeletionErrors{
			InvalidIDs:                []string{},
			FileDeletionErrors:        []domain.ItemError{},
			VectorStoreDeletionErrors: []domain.ItemError{},
		},
	}

	var valid []string
	for _, id := range ids {
		if s.docStore.ValidID(id) {
			valid = append(valid, id)
		} else {
			result.Errors.InvalidIDs = append(result.Errors.InvalidIDs, id)
		}
	}
	if len(valid) == 0 {
		result.Message = "no valid document ids"
		return result, fmt.Errorf("%w: no valid document ids", domain.ErrInvalidInput)
	}

	found, err := s.docStore.Find(ctx, domain.DocumentFilter{IDs: valid})
	if err != nil {
		result.Message = "failed to look up documents"
		return result, fmt.Errorf("%w: find documents: %w", domain.ErrExternalDependency, err)
	}
	result.DocumentsFound = len(found)
	if len(found) == 0 {
		result.Message = "no matching documents found"
		return result, fmt.Errorf("%w: none of %d document id(s) exist", domain.ErrNotFound, len(valid))
	}

	// ==================== Files ====================

	for _, doc := range found {
		s.deleteFile(ctx, doc, result)
	}

	// ==================== Embeddings ====================

	for i, doc := range found {
		n, err := s.index.DeleteByFilter(ctx, domain.MetadataFilter{DocumentID: doc.ID})
		if err != nil {
			result.Errors.VectorStoreDeletionErrors = append(result.Errors.VectorStoreDeletionErrors,
				domain.ItemError{DocumentID: doc.ID, Message: err.Error()})
			if errors.Is(err, domain.ErrVectorIndexUnavailable) {
				logger.Warn("Vector index unavailable, skipping embeddings for %d more document(s)", len(found)-i-1)
				break
			}
			continue
		}
		if n > 0 {
			result.EmbeddingsDeleted += n
		}
		logger.Debug("Deleted %d embedding(s) for %s", n, doc.ID)
	}

	// ==================== Records ====================

	foundIDs := make([]string, len(found))
	for i, doc := range found {
		foundIDs[i] = doc.ID
	}
	removed, err := s.docStore.DeleteMany(ctx, domain.DocumentFilter{IDs: foundIDs})
	if err != nil {
		result.Message = "failed to delete document records"
		return result, fmt.Errorf("%w: delete records: %w", domain.ErrExternalDependency, err)
	}
	result.DocumentsDeletedFromStore = removed
	result.DeletedIDs = foundIDs
	result.Success = removed > 0

	result.Message = fmt.Sprintf("deleted %d of %d document(s), %d file(s), %d embedding(s)",
		removed, len(ids), result.FilesDeleted, result.EmbeddingsDeleted)
	logger.Info("Deletion: %s (%s)", result.Message, result.Outcome())
	return result, nil
}

func (s *DeletionService) deleteFile(ctx context.Context, doc domain.DocumentRecord, result *domain.DeletionResult) {
	record := func(err error) {
		result.Errors.FileDeletionErrors = append(result.Errors.FileDeletionErrors,
			domain.ItemError{DocumentID: doc.ID, Path: doc.StoragePath, Message: err.Error()})
	}

	exists, err := s.blobStore.Exists(ctx, doc.StoragePath)
	if err != nil {
		record(err)
		return
	}
	if !exists {
		record(fmt.Errorf("%w: file %s", domain.ErrNotFound, doc.StoragePath))
		return
	}
	if err := s.blobStore.Delete(ctx, doc.StoragePath); err != nil {
		record(err)
		return
	}
	result.FilesDeleted++
	result.DeletedPaths = append(result.DeletedPaths, doc.StoragePath)
}
