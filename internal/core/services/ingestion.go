package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// DefaultIngestWorkers bounds concurrent validation and persistence.
const DefaultIngestWorkers = 4

// IngestionService uploads PDFs, records them and indexes their text.
type IngestionService struct {
	docStore   driven.DocumentStore
	blobStore  driven.BlobStore
	normaliser driven.Normaliser
	chunker    driven.PostProcessor
	index      driven.VectorIndex

	workers int
	now     func() time.Time
}

// IngestionOption configures an IngestionService.
type IngestionOption func(*IngestionService)

// WithIngestWorkers sets how many files are validated and written at once.
func WithIngestWorkers(n int) IngestionOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock overrides the time source used for storage names.
func WithClock(now func() time.Time) IngestionOption {
	return func(s *IngestionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	docStore driven.DocumentStore,
	blobStore driven.BlobStore,
	normaliser driven.Normaliser,
	chunker driven.PostProcessor,
	index driven.VectorIndex,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		docStore:   docStore,
		blobStore:  blobStore,
		normaliser: normaliser,
		chunker:    chunker,
		index:      index,
		workers:    DefaultIngestWorkers,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// persisted is the outcome of validating and writing one file.
type persisted struct {
	record *domain.DocumentRecord
	err    *domain.FileError
}

// Ingest validates, stores, records, chunks and indexes the files.
func (s *IngestionService) Ingest(
	ctx context.Context, files []domain.UploadedFile, orgID, displayName string,
) (*domain.UploadResult, error) {
	orgID = strings.TrimSpace(orgID)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files to ingest", domain.ErrInvalidInput)
	}
	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(orgID, `/\`) || orgID == "." || orgID == ".." {
		return nil, fmt.Errorf("%w: organization id %q is not a valid directory name", domain.ErrInvalidInput, orgID)
	}

	start := s.now()
	result := &domain.UploadResult{DocumentIDs: []string{}, Errors: []domain.FileError{}}
	defer func() { result.Elapsed = s.now().Sub(start) }()

	logger.Section("Ingestion")
	logger.Debug("Organization %s: %d file(s)", orgID, len(files))

	// ==================== Validate and persist ====================

	outcomes := s.persistAll(ctx, files, orgID, displayName, start)

	records := make([]domain.DocumentRecord, 0, len(files))
	for _, o := range outcomes {
		if o.err != nil {
			logger.Debug("Rejected %s", o.err)
			result.Errors = append(result.Errors, *o.err)
			continue
		}
		records = append(records, *o.record)
	}
	if len(records) == 0 {
		result.Message = "no valid files to ingest"
		return result, nil
	}

	// ==================== Record ====================

	ids, err := s.docStore.InsertMany(ctx, records)
	if err == nil && len(ids) != len(records) {
		err = fmt.Errorf("store returned %d ids for %d records", len(ids), len(records))
	}
	if err != nil {
		result.Errors = append(result.Errors, domain.FileError{Stage: domain.StageRecord, Message: err.Error()})
		s.discard(ctx, records)
		result.Message = "failed to record documents"
		return result, nil
	}

	pending := make(map[string]*domain.DocumentRecord, len(records))
	for i := range records {
		records[i].ID = ids[i]
		pending[records[i].UniqueStorageName] = &records[i]
	}
	result.FilesUploaded = len(records)
	result.DocumentIDs = ids

	// ==================== Load, chunk and tag ====================

	failed := make(map[string]bool)
	chunks, pages := s.loadAndChunk(ctx, orgID, pending, failed, result)
	result.PagesProcessed = pages

	// ==================== Index ====================

	var indexed []string
	if len(chunks) > 0 {
		done := logger.Timed("index chunks")
		_, err := s.index.AddRecords(ctx, chunks)
		done()
		if err != nil {
			result.Errors = append(result.Errors, domain.FileError{
				Stage:   domain.StageIndex,
				Message: fmt.Errorf("%w: %w", domain.ErrProcessingFailed, err).Error(),
			})
			for _, id := range ids {
				failed[id] = true
			}
		} else {
			result.ChunksProcessed = len(chunks)
		}
	}
	for _, id := range ids {
		if !failed[id] {
			indexed = append(indexed, id)
		}
	}

	// ==================== Status ====================

	var failedIDs []string
	for _, id := range ids {
		if failed[id] {
			failedIDs = append(failedIDs, id)
		}
	}
	s.setStatus(ctx, indexed, domain.StatusProcessed, result)
	s.setStatus(ctx, failedIDs, domain.StatusFailed, result)

	result.Success = len(indexed) > 0
	result.Message = fmt.Sprintf("uploaded %d of %d file(s), indexed %d chunk(s) from %d page(s)",
		result.FilesUploaded, len(files), result.ChunksProcessed, result.PagesProcessed)
	logger.Info("Ingestion: %s", result.Message)
	return result, nil
}

// persistAll validates and writes every file, keeping input order.
func (s *IngestionService) persistAll(
	ctx context.Context, files []domain.UploadedFile, orgID, displayName string, at time.Time,
) []persisted {
	outcomes := make([]persisted, len(files))
	seen := make(map[string]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		// Same-named files in one batch get an ordinal suffix.
		name := domain.UniqueStorageName(orgID, at, f.Filename)
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		seen[name] = true

		g.Go(func() error {
			outcomes[i] = s.persist(gctx, f, name, orgID, displayName, at)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *IngestionService) persist(
	ctx context.Context, f domain.UploadedFile, name, orgID, displayName string, at time.Time,
) persisted {
	reject := func(stage, format string, args ...any) persisted {
		return persisted{err: &domain.FileError{Filename: f.Filename, Stage: stage, Message: fmt.Sprintf(format, args...)}}
	}

	switch {
	case strings.TrimSpace(f.Filename) == "":
		return reject(domain.StageValidate, "filename is required")
	case !isPDF(f.ContentType):
		return reject(domain.StageValidate, "unsupported content type %q, only %s is accepted", f.ContentType, domain.PDFContentType)
	case len(f.Content) == 0:
		return reject(domain.StageValidate, "file is empty")
	}

	storagePath := path.Join(orgID, name)
	if err := s.blobStore.Write(ctx, storagePath, f.Content); err != nil {
		return reject(domain.StagePersist, "%v", err)
	}

	return persisted{record: &domain.DocumentRecord{
		OrganizationID:    orgID,
		DisplayName:       displayName,
		OriginalFilename:  f.Filename,
		UniqueStorageName: name,
		StoragePath:       storagePath,
		FileSizeBytes:     int64(len(f.Content)),
		UploadedAt:        at.UTC(),
		Status:            domain.StatusUploaded,
	}}
}

// loadAndChunk reads every pending file from the organization's directory,
// removes it from blob storage and turns its pages into tagged chunks.
func (s *IngestionService) loadAndChunk(
	ctx context.Context,
	orgID string,
	pending map[string]*domain.DocumentRecord,
	failed map[string]bool,
	result *domain.UploadResult,
) ([]domain.TaggedChunk, int) {
	fail := func(rec *domain.DocumentRecord, stage string, err error) {
		result.Errors = append(result.Errors, domain.FileError{
			Filename: rec.OriginalFilename,
			Stage:    stage,
			Message:  err.Error(),
		})
		failed[rec.ID] = true
	}

	names, err := s.blobStore.List(ctx, orgID)
	if err != nil {
		result.Errors = append(result.Errors, domain.FileError{Stage: domain.StageLoad, Message: err.Error()})
		for _, rec := range pending {
			failed[rec.ID] = true
		}
		return nil, 0
	}

	listed := make(map[string]bool, len(names))
	var (
		chunks []domain.TaggedChunk
		pages  int
	)
	for _, name := range names {
		rec, ok := pending[name]
		if !ok {
			logger.Warn("Skipping %s/%s: not part of this upload", orgID, name)
			continue
		}
		listed[name] = true

		content, err := s.blobStore.Read(ctx, rec.StoragePath)
		if err != nil {
			fail(rec, domain.StageLoad, err)
			continue
		}
		loaded, err := s.normaliser.Normalise(ctx, name, content)
		if err != nil {
			fail(rec, domain.StageLoad, err)
		}
		pages += len(loaded)

		if err := s.blobStore.Delete(ctx, rec.StoragePath); err != nil {
			result.Errors = append(result.Errors, domain.FileError{
				Filename: rec.OriginalFilename,
				Stage:    domain.StageCleanup,
				Message:  err.Error(),
			})
		}
		if failed[rec.ID] {
			continue
		}

		meta := domain.NewVectorMetadata(orgID, rec.ID)
		var docChunks []domain.TaggedChunk
		for _, page := range loaded {
			pc, err := s.chunker.Process(ctx, page, meta)
			if err != nil {
				fail(rec, domain.StageChunk, err)
				break
			}
			docChunks = append(docChunks, pc...)
		}
		if failed[rec.ID] {
			continue
		}
		if len(docChunks) == 0 {
			fail(rec, domain.StageChunk, fmt.Errorf("no extractable text in %d page(s)", len(loaded)))
			continue
		}
		logger.Debug("%s: %d page(s), %d chunk(s)", rec.OriginalFilename, len(loaded), len(docChunks))
		chunks = append(chunks, docChunks...)
	}

	for name, rec := range pending {
		if !listed[name] {
			fail(rec, domain.StageLoad, fmt.Errorf("%w: %s missing from upload directory", domain.ErrNotFound, name))
		}
	}

	return chunks, pages
}

// discard removes files whose records could not be inserted.
func (s *IngestionService) discard(ctx context.Context, records []domain.DocumentRecord) {
	for _, rec := range records {
		if err := s.blobStore.Delete(ctx, rec.StoragePath); err != nil {
			logger.Warn("Failed to remove %s: %v", rec.StoragePath, err)
		}
	}
}

func (s *IngestionService) setStatus(
	ctx context.Context, ids []string, status domain.DocumentStatus, result *domain.UploadResult,
) {
	if len(ids) == 0 {
		return
	}
	if err := s.docStore.UpdateStatus(ctx, ids, status); err != nil {
		result.Errors = append(result.Errors, domain.FileError{
			Stage:   domain.StageStatus,
			Message: fmt.Sprintf("set %s: %v", status, err),
		})
	}
}

// isPDF accepts the PDF content type with optional parameters.
func isPDF(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), domain.PDFContentType)
}
