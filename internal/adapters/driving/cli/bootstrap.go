package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/mongostore"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/logger"
	"github.com/custodia-labs/ragdesk/internal/normalisers/pdf"
	"github.com/custodia-labs/ragdesk/internal/postprocessors"
)

// App holds the services built from a Config and the resources behind them.
type App struct {
	Services

	closers []func() error
}

// Close releases every store and client in reverse construction order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Bootstrap constructs every store, AI client and pipeline named by cfg.
// On error, anything already opened is closed before returning.
func Bootstrap(ctx context.Context, cfg *file.Config) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	logger.Section("Bootstrap")

	var sqliteStore *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if sqliteStore != nil {
			return sqliteStore, nil
		}
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		app.onClose(store.Close)
		sqliteStore = store
		return store, nil
	}

	// ==================== Document store ====================

	var docStore driven.DocumentStore
	switch domain.StorageBackend(cfg.Storage.Backend) {
	case domain.StorageBackendMemory:
		docStore = memory.NewDocumentStore()
	case domain.StorageBackendMongo:
		store, err := mongostore.New(ctx, mongostore.Config{
			URI:        cfg.Storage.MongoURI,
			Database:   cfg.Storage.Database,
			Collection: cfg.Storage.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("connect document store: %w", err)
		}
		app.onClose(store.Close)
		docStore = store
	default:
		store, err := openSQLite()
		if err != nil {
			return nil, err
		}
		docStore = store.DocumentStore()
	}
	logger.Debug("Document store: %s", cfg.Storage.Backend)

	blobStore, err := filesystem.NewBlobStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Upload directory: %s", blobStore.Root())

	// ==================== AI services ====================

	aiServices, err := ai.CreateServices(ctx, cfg.EmbeddingSettings(), cfg.LLMSettings(), false)
	if err != nil {
		return nil, err
	}
	app.onClose(aiServices.Close)
	logger.Debug("Embedding: %s/%s, LLM: %s/%s",
		cfg.Embedding.Provider, aiServices.Embedding.ModelName(), cfg.LLM.Provider, aiServices.LLM.ModelName())

	// ==================== Vector store ====================

	var vectorStore driven.VectorStore
	switch domain.VectorBackend(cfg.Vector.Backend) {
	case domain.VectorBackendMemory:
		vectorStore = memory.NewVectorStore()
	case domain.VectorBackendPgvector:
		store, err := pgvector.New(ctx, pgvector.Config{
			DSN:       cfg.Vector.PostgresDSN,
			Table:     cfg.Vector.Table,
			Dimension: aiServices.Embedding.Dimensions(),
		})
		if err != nil {
			return nil, fmt.Errorf("connect vector store: %w", err)
		}
		vectorStore = store
	case domain.VectorBackendQdrant:
		store, err := qdrant.New(qdrant.Config{
			URL:        cfg.Vector.QdrantURL,
			APIKey:     cfg.Vector.QdrantKey,
			Collection: cfg.Vector.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("connect vector store: %w", err)
		}
		vectorStore = store
	default:
		store, err := openSQLite()
		if err != nil {
			return nil, err
		}
		vectorStore = store.VectorStore()
	}
	app.onClose(vectorStore.Close)
	logger.Debug("Vector store: %s", domain.VectorBackend(cfg.Vector.Backend).Description())

	index := vectorindex.New(aiServices.Embedding, vectorStore,
		vectorindex.WithBatchSize(cfg.Ingest.EmbedBatchSize),
		vectorindex.WithRateLimit(cfg.Ingest.EmbedRPS))

	// ==================== Pipelines ====================

	chunker, err := postprocessors.NewDefaultChunker(cfg.ChunkerSettings())
	if err != nil {
		return nil, fmt.Errorf("build chunker: %w", err)
	}
	prompts, err := file.NewPromptStore(cfg.PromptDir)
	if err != nil {
		return nil, err
	}
	if err := prompts.Seed(); err != nil {
		logger.Warn("Prompt templates not seeded: %v", err)
	}

	app.Services = Services{
		Ingestion: services.NewIngestionService(docStore, blobStore, pdf.New(), chunker, index,
			services.WithIngestWorkers(cfg.Ingest.Workers)),
		Query:    services.NewQueryService(index, aiServices.LLM, prompts, cfg.Retrieval.TopK),
		Deletion: services.NewDeletionService(docStore, blobStore, index),
		Document: services.NewDocumentService(docStore),
	}
	return app, nil
}
