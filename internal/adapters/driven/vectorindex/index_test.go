package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// keywordEmbedder maps text onto fixed axes so similarity is predictable.
type keywordEmbedder struct {
	calls   [][]string
	failErr error
}

var axes = []string{"cats", "dogs", "tax"}

func (e *keywordEmbedder) vector(text string) []float32 {
	v := make([]float32, len(axes)+1)
	for i, word := range axes {
		if strings.Contains(text, word) {
			v[i] = 1
		}
	}
	v[len(axes)] = 0.01
	return v
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls = append(e.calls, texts)
	if e.failErr != nil {
		return nil, e.failErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int { return len(axes) + 1 }
func (e *keywordEmbedder) ModelName() string { return "keyword" }
func (e *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (e *keywordEmbedder) Close() error { return nil }

func chunk(text, org, doc string) domain.TaggedChunk {
	return domain.TaggedChunk{Text: text, Metadata: domain.NewVectorMetadata(org, doc)}
}

func TestIndex_AddRecordsBatches(t *testing.T) {
	embedder := &keywordEmbedder{}
	store := memory.NewVectorStore()
	n := 0
	index := New(embedder, store, WithBatchSize(2), WithRateLimit(0), WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))

	ids, err := index.AddRecords(context.Background(), []domain.TaggedChunk{
		chunk("cats", "org-a", "d1"),
		chunk("dogs", "org-a", "d1"),
		chunk("tax", "org-a", "d2"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids)
	require.Len(t, embedder.calls, 2)
	assert.Equal(t, []string{"cats", "dogs"}, embedder.calls[0])
	assert.Equal(t, []string{"tax"}, embedder.calls[1])
	assert.Len(t, store.Records(), 3)
}

func TestIndex_AddRecordsEmpty(t *testing.T) {
	embedder := &keywordEmbedder{}
	index := New(embedder, memory.NewVectorStore(), WithRateLimit(0))

	ids, err := index.AddRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, embedder.calls)
}

func TestIndex_AddRecordsEmbeddingFailureStoresNothing(t *testing.T) {
	embedder := &keywordEmbedder{failErr: errors.New("connection refused")}
	store := memory.NewVectorStore()
	index := New(embedder, store, WithRateLimit(0))

	_, err := index.AddRecords(context.Background(), []domain.TaggedChunk{chunk("cats", "org-a", "d1")})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Empty(t, store.Records())
}

func TestIndex_SimilaritySearchScoped(t *testing.T) {
	index := New(&keywordEmbedder{}, memory.NewVectorStore(), WithRateLimit(0))
	ctx := context.Background()

	_, err := index.AddRecords(ctx, []domain.TaggedChunk{
		chunk("about cats", "org-a", "d1"),
		chunk("about tax", "org-a", "d2"),
		chunk("about cats too", "org-b", "d3"),
	})
	require.NoError(t, err)

	hits, err := index.SimilaritySearch(ctx, "cats", 1, domain.MetadataFilter{OrganizationID: "org-a"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "about cats", hits[0].Text)
	assert.Equal(t, "d1", hits[0].Metadata.DocumentID())

	hits, err = index.SimilaritySearch(ctx, "cats", 0, domain.MetadataFilter{OrganizationID: "org-a"})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "org-a", h.Metadata.OrganizationID())
	}
}

func TestIndex_RejectsUnscoped(t *testing.T) {
	embedder := &keywordEmbedder{}
	index := New(embedder, memory.NewVectorStore(), WithRateLimit(0))
	ctx := context.Background()

	_, err := index.SimilaritySearch(ctx, "cats", 5, domain.MetadataFilter{})
	assert.ErrorIs(t, err, domain.ErrUnscopedQuery)
	assert.Empty(t, embedder.calls)

	_, err = index.DeleteByFilter(ctx, domain.MetadataFilter{})
	assert.ErrorIs(t, err, domain.ErrUnscopedQuery)
}

func TestIndex_DeleteByFilter(t *testing.T) {
	store := memory.NewVectorStore()
	index := New(&keywordEmbedder{}, store, WithRateLimit(0))
	ctx := context.Background()

	_, err := index.AddRecords(ctx, []domain.TaggedChunk{
		chunk("cats", "org-a", "d1"),
		chunk("dogs", "org-a", "d1"),
		chunk("tax", "org-a", "d2"),
	})
	require.NoError(t, err)

	n, err := index.DeleteByFilter(ctx, domain.MetadataFilter{DocumentID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.Records(), 1)
}

func TestIndex_ClosedStoreIsUnavailable(t *testing.T) {
	store := memory.NewVectorStore()
	require.NoError(t, store.Close())
	index := New(&keywordEmbedder{}, store, WithRateLimit(0))
	ctx := context.Background()

	_, err := index.AddRecords(ctx, []domain.TaggedChunk{chunk("cats", "org-a", "d1")})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)

	_, err = index.SimilaritySearch(ctx, "cats", 5, domain.MetadataFilter{OrganizationID: "org-a"})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)

	_, err = index.DeleteByFilter(ctx, domain.MetadataFilter{OrganizationID: "org-a"})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

// erroringStore fails every call with err.
type erroringStore struct {
	*memory.VectorStore
	err error
}

func (s *erroringStore) DeleteByFilter(context.Context, domain.MetadataFilter) (int, error) {
	return 0, s.err
}

func TestIndex_OnlyConnectionErrorsAreUnavailable(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"query error", errors.New("row lock timeout"), false},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
		{"bare refused", fmt.Errorf("connect: %w", syscall.ECONNREFUSED), true},
		{"already tagged", fmt.Errorf("%w: store closed", domain.ErrVectorIndexUnavailable), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := New(&keywordEmbedder{}, &erroringStore{VectorStore: memory.NewVectorStore(), err: tt.err}, WithRateLimit(0))

			_, err := index.DeleteByFilter(context.Background(), domain.MetadataFilter{DocumentID: "d1"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, domain.ErrVectorIndexUnavailable))
		})
	}
}

func TestIndex_RateLimitHonoursContext(t *testing.T) {
	index := New(&keywordEmbedder{}, memory.NewVectorStore(), WithRateLimit(0.001))
	ctx := context.Background()

	// The first call consumes the single burst token.
	_, err := index.SimilaritySearch(ctx, "cats", 1, domain.MetadataFilter{OrganizationID: "org-a"})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = index.SimilaritySearch(cancelled, "cats", 1, domain.MetadataFilter{OrganizationID: "org-a"})
	assert.Error(t, err)
}
