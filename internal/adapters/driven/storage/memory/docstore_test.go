package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func record(org, name string) domain.DocumentRecord {
	return domain.DocumentRecord{
		OrganizationID:    org,
		DisplayName:       "batch",
		OriginalFilename:  name,
		UniqueStorageName: org + "_" + name,
		StoragePath:       org + "/" + org + "_" + name,
		FileSizeBytes:     10,
		UploadedAt:        time.Now().UTC(),
		Status:            domain.StatusUploaded,
	}
}

func TestDocumentStore_InsertMany(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	ids, err := store.InsertMany(ctx, []domain.DocumentRecord{record("org-a", "a.pdf"), record("org-a", "b.pdf")})

	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	assert.True(t, store.ValidID(ids[0]))

	got, err := store.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[1], got.ID)
	assert.Equal(t, "b.pdf", got.OriginalFilename)
}

func TestDocumentStore_Find(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	ids, err := store.InsertMany(ctx, []domain.DocumentRecord{
		record("org-a", "a.pdf"),
		record("org-b", "b.pdf"),
		record("org-a", "c.pdf"),
	})
	require.NoError(t, err)

	t.Run("by organization in insertion order", func(t *testing.T) {
		docs, err := store.Find(ctx, domain.DocumentFilter{OrganizationID: "org-a"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, ids[0], docs[0].ID)
		assert.Equal(t, ids[2], docs[1].ID)
	})

	t.Run("by ids", func(t *testing.T) {
		docs, err := store.Find(ctx, domain.DocumentFilter{IDs: []string{ids[1], "missing"}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "org-b", docs[0].OrganizationID)
	})

	t.Run("by storage name", func(t *testing.T) {
		docs, err := store.Find(ctx, domain.DocumentFilter{StorageNames: []string{"org-a_c.pdf"}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, ids[2], docs[0].ID)
	})

	t.Run("empty filter rejected", func(t *testing.T) {
		_, err := store.Find(ctx, domain.DocumentFilter{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	_, err := NewDocumentStore().Get(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteMany(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	ids, err := store.InsertMany(ctx, []domain.DocumentRecord{record("org-a", "a.pdf"), record("org-a", "b.pdf")})
	require.NoError(t, err)

	n, err := store.DeleteMany(ctx, domain.DocumentFilter{IDs: []string{ids[0], "missing"}})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Count())

	_, err = store.DeleteMany(ctx, domain.DocumentFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_UpdateStatus(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	ids, err := store.InsertMany(ctx, []domain.DocumentRecord{record("org-a", "a.pdf")})
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, []string{ids[0], "unknown"}, domain.StatusProcessed))

	got, err := store.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, got.Status)

	assert.ErrorIs(t, store.UpdateStatus(ctx, ids, "bogus"), domain.ErrInvalidInput)
}

func TestDocumentStore_ValidID(t *testing.T) {
	store := NewDocumentStore()

	assert.True(t, store.ValidID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.False(t, store.ValidID("not-an-id"))
	assert.False(t, store.ValidID(""))
}

func TestDocumentStore_Concurrent(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.InsertMany(ctx, []domain.DocumentRecord{record("org-a", "x.pdf")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Count())
}
