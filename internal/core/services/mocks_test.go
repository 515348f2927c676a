package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/postprocessors/chunker"
)

// --- Mock implementations ---

// keywordEmbedder puts each known word on its own axis, so texts sharing a
// word are similar and texts without one are orthogonal.
type keywordEmbedder struct{}

var keywords = []string{"revenue", "holiday", "security", "pricing"}

func (keywordEmbedder) vector(text string) []float32 {
	text = strings.ToLower(text)
	v := make([]float32, len(keywords)+1)
	for i, w := range keywords {
		if strings.Contains(text, w) {
			v[i] = 1
		}
	}
	v[len(keywords)] = 0.05
	return v
}

func (e keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (keywordEmbedder) Dimensions() int              { return len(keywords) + 1 }
func (keywordEmbedder) ModelName() string            { return "keyword" }
func (keywordEmbedder) Ping(_ context.Context) error { return nil }
func (keywordEmbedder) Close() error                 { return nil }

// mockLLMService records the messages it was sent.
type mockLLMService struct {
	mu       sync.Mutex
	answer   string
	chatErr  error
	messages [][]driven.ChatMessage
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.answer, nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// textNormaliser treats file content as plain text with form feeds
// between pages. Content starting with "%broken" fails to load.
type textNormaliser struct{}

func (textNormaliser) SupportedMIMETypes() []string { return []string{domain.PDFContentType} }
func (textNormaliser) Priority() int                { return 1 }

func (textNormaliser) Normalise(_ context.Context, storageName string, content []byte) ([]domain.LoadedPage, error) {
	text := string(content)
	if strings.HasPrefix(text, "%broken") {
		return nil, errors.New("malformed PDF")
	}
	var pages []domain.LoadedPage
	for i, p := range strings.Split(text, "\f") {
		pages = append(pages, domain.LoadedPage{StorageName: storageName, Number: i + 1, Text: p})
	}
	return pages, nil
}

// mockVectorIndex returns canned results and errors.
type mockVectorIndex struct {
	hits      []domain.VectorHit
	addErr    error
	searchErr error
	deleteErr error
	deleted   map[string]int
	filters   []domain.MetadataFilter
}

func (m *mockVectorIndex) AddRecords(_ context.Context, chunks []domain.TaggedChunk) ([]string, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	return make([]string, len(chunks)), nil
}

func (m *mockVectorIndex) SimilaritySearch(_ context.Context, _ string, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error) {
	m.filters = append(m.filters, filter)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockVectorIndex) DeleteByFilter(_ context.Context, filter domain.MetadataFilter) (int, error) {
	m.filters = append(m.filters, filter)
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	return m.deleted[filter.DocumentID], nil
}

// flakyVectorStore fails DeleteByFilter for one document and delegates
// everything else to the wrapped store.
type flakyVectorStore struct {
	*memory.VectorStore
	failDocument string
	deleteCalls  int
}

func (s *flakyVectorStore) DeleteByFilter(ctx context.Context, filter domain.MetadataFilter) (int, error) {
	s.deleteCalls++
	if filter.DocumentID == s.failDocument {
		return 0, errors.New("row lock timeout")
	}
	return s.VectorStore.DeleteByFilter(ctx, filter)
}

// mockPromptStore serves a fixed system prompt.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.prompt, m.err }

// --- Test helpers ---

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// pipeline wires the real memory stores, index facade and chunker.
type pipeline struct {
	docs      *memory.DocumentStore
	blobs     *memory.BlobStore
	vectors   *memory.VectorStore
	index     *vectorindex.Index
	llm       *mockLLMService
	ingestion *IngestionService
	query     *QueryService
	deletion  *DeletionService
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	p := &pipeline{
		docs:    memory.NewDocumentStore(),
		blobs:   memory.NewBlobStore(),
		vectors: memory.NewVectorStore(),
		llm:     &mockLLMService{answer: "The answer."},
	}
	p.index = vectorindex.New(keywordEmbedder{}, p.vectors, vectorindex.WithRateLimit(0))
	p.ingestion = NewIngestionService(p.docs, p.blobs, textNormaliser{},
		chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(20)), p.index,
		WithClock(func() time.Time { return fixedTime }))
	p.query = NewQueryService(p.index, p.llm, nil, 0)
	p.deletion = NewDeletionService(p.docs, p.blobs, p.index)
	return p
}

func pdf(name, content string) domain.UploadedFile {
	return domain.UploadedFile{Filename: name, ContentType: domain.PDFContentType, Content: []byte(content)}
}
