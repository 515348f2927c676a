package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func seedVectors(t *testing.T) *VectorStore {
	t.Helper()
	store := NewVectorStore()
	err := store.Upsert(context.Background(), []domain.VectorRecord{
		{ID: "v1", Embedding: []float32{1, 0, 0}, Text: "alpha", Metadata: domain.NewVectorMetadata("org-a", "doc-1")},
		{ID: "v2", Embedding: []float32{0.9, 0.1, 0}, Text: "beta", Metadata: domain.NewVectorMetadata("org-a", "doc-2")},
		{ID: "v3", Embedding: []float32{1, 0, 0}, Text: "gamma", Metadata: domain.NewVectorMetadata("org-b", "doc-3")},
	})
	require.NoError(t, err)
	return store
}

func TestVectorStore_Query_ScopedToOrganization(t *testing.T) {
	store := seedVectors(t)

	hits, err := store.Query(context.Background(), []float32{1, 0, 0}, 5, domain.MetadataFilter{OrganizationID: "org-a"})

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "v1", hits[0].ID)
	assert.Equal(t, "alpha", hits[0].Text)
	assert.Equal(t, "v2", hits[1].ID)
	for _, h := range hits {
		assert.Equal(t, "org-a", h.Metadata.OrganizationID())
	}
}

func TestVectorStore_Query_DocumentRefinement(t *testing.T) {
	store := seedVectors(t)

	hits, err := store.Query(context.Background(), []float32{1, 0, 0}, 5, domain.MetadataFilter{OrganizationID: "org-a", DocumentID: "doc-2"})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v2", hits[0].ID)
}

func TestVectorStore_Query_TopK(t *testing.T) {
	store := seedVectors(t)

	hits, err := store.Query(context.Background(), []float32{1, 0, 0}, 1, domain.MetadataFilter{OrganizationID: "org-a"})

	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorStore_UnscopedRejected(t *testing.T) {
	store := seedVectors(t)

	_, err := store.Query(context.Background(), []float32{1, 0, 0}, 5, domain.MetadataFilter{})
	assert.ErrorIs(t, err, domain.ErrUnscopedQuery)

	_, err = store.DeleteByFilter(context.Background(), domain.MetadataFilter{})
	assert.ErrorIs(t, err, domain.ErrUnscopedQuery)
}

func TestVectorStore_DeleteByFilter(t *testing.T) {
	store := seedVectors(t)

	n, err := store.DeleteByFilter(context.Background(), domain.MetadataFilter{DocumentID: "doc-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, store.Records(), 2)
}

func TestVectorStore_Upsert_RequiresID(t *testing.T) {
	err := NewVectorStore().Upsert(context.Background(), []domain.VectorRecord{{Embedding: []float32{1}}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_Closed(t *testing.T) {
	store := seedVectors(t)
	require.NoError(t, store.Close())

	_, err := store.DeleteByFilter(context.Background(), domain.MetadataFilter{DocumentID: "doc-1"})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)

	_, err = store.Query(context.Background(), []float32{1, 0, 0}, 1, domain.MetadataFilter{OrganizationID: "org-a"})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}
