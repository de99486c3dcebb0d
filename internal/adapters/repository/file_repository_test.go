package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/ports"
)

func newTestFileRepo(t *testing.T) (ports.ItemRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wishlist_data.json")
	return NewFileItemRepository(path), path
}

func TestFileItemRepository_MissingFileIsEmptyList(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	items, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Empty(t, items)

	count, err := repo.Count(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestFileItemRepository_CreateAndList(t *testing.T) {
	repo, path := newTestFileRepo(t)
	ctx := context.Background()

	book := &entities.Item{Name: "Book", Link: "http://x", Notes: ""}
	require.NoError(t, repo.Create(ctx, book))
	require.NotEqual(t, uuid.Nil, book.ID)

	socks := &entities.Item{Name: "Socks"}
	require.NoError(t, repo.Create(ctx, socks))

	items, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Insertion order, newest item last.
	last := items[1]
	require.Equal(t, "Socks", last.Name)
	require.False(t, last.Purchased)
	require.Nil(t, last.Image)
	require.False(t, last.CreatedAt.IsZero())

	require.Equal(t, "Book", items[0].Name)
	require.Equal(t, "http://x", items[0].Link)

	// Data survives a fresh repository over the same file.
	reopened := NewFileItemRepository(path)
	items, err = reopened.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestFileItemRepository_GetByID(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	item := &entities.Item{Name: "Book"}
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID)
	require.Equal(t, "Book", got.Name)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, entities.ErrItemNotFound)
}

func TestFileItemRepository_DeleteRemovesExactlyOne(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	first := &entities.Item{Name: "First"}
	second := &entities.Item{Name: "Second"}
	third := &entities.Item{Name: "Third"}
	for _, item := range []*entities.Item{first, second, third} {
		require.NoError(t, repo.Create(ctx, item))
	}

	require.NoError(t, repo.Delete(ctx, second.ID))

	items, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "First", items[0].Name)
	require.Equal(t, "Third", items[1].Name)

	require.ErrorIs(t, repo.Delete(ctx, second.ID), entities.ErrItemNotFound)
}

func TestFileItemRepository_UpdatePurchasedFlag(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	item := &entities.Item{Name: "Book"}
	require.NoError(t, repo.Create(ctx, item))

	item.Purchased = true
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, got.Purchased)

	missing := &entities.Item{ID: uuid.New(), Name: "Ghost"}
	require.ErrorIs(t, repo.Update(ctx, missing), entities.ErrItemNotFound)
}

func TestFileItemRepository_FilterByPurchased(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	wanted := &entities.Item{Name: "Wanted"}
	reserved := &entities.Item{Name: "Reserved", Purchased: true}
	require.NoError(t, repo.Create(ctx, wanted))
	require.NoError(t, repo.Create(ctx, reserved))

	purchased := true
	items, err := repo.List(ctx, ports.ItemFilter{Purchased: &purchased})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Reserved", items[0].Name)

	count, err := repo.Count(ctx, ports.ItemFilter{Purchased: &purchased})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestFileItemRepository_MalformedFile(t *testing.T) {
	repo, path := newTestFileRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := repo.List(ctx, ports.ItemFilter{})
	require.Error(t, err)
}

func TestFileItemRepository_LegacyRecords(t *testing.T) {
	repo, path := newTestFileRepo(t)
	ctx := context.Background()

	// A file written by the previous version: no ids, no updated_at,
	// naive local timestamps.
	legacy := `[
  {"name": "Book", "link": "http://x", "notes": "", "image": null, "purchased": false, "created_at": "2024-05-01T12:30:00.123456"},
  {"name": "Mug", "link": "", "notes": "big one", "image": "http://img", "purchased": true, "created_at": "2024-05-02T08:00:00"}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	items, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotEqual(t, uuid.Nil, items[0].ID)
	require.Equal(t, "Book", items[0].Name)
	require.Nil(t, items[0].Image)
	require.Equal(t, 2024, items[0].CreatedAt.Year())
	require.Equal(t, items[0].CreatedAt, items[0].UpdatedAt)

	require.True(t, items[1].Purchased)
	require.NotNil(t, items[1].Image)
	require.Equal(t, "http://img", *items[1].Image)
}

func TestFileItemRepository_LegacyIDsStableAcrossLoads(t *testing.T) {
	repo, path := newTestFileRepo(t)
	ctx := context.Background()

	legacy := `[
  {"name": "Book", "link": "http://x", "notes": "", "image": null, "purchased": false, "created_at": "2024-05-01T12:30:00.123456"},
  {"name": "Mug", "link": "", "notes": "", "image": null, "purchased": false, "created_at": "2024-05-02T08:00:00"}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	// The id rendered into a page has to resolve on the next request,
	// which re-reads the file.
	first, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	second, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Equal(t, first[0].ID, second[0].ID)
	require.Equal(t, first[1].ID, second[1].ID)

	got, err := repo.GetByID(ctx, first[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Book", got.Name)

	// Mutating by a listed id works and persists real ids to disk.
	got.Purchased = true
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.Delete(ctx, first[1].ID))

	reopened := NewFileItemRepository(path)
	items, err := reopened.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, first[0].ID, items[0].ID)
	require.True(t, items[0].Purchased)
}

func TestFileItemRepository_ListPagination(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Create(ctx, &entities.Item{Name: name}))
	}

	items, err := repo.List(ctx, ports.ItemFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "b", items[0].Name)
	require.Equal(t, "c", items[1].Name)

	items, err = repo.List(ctx, ports.ItemFilter{Offset: 10})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestFileItemRepository_Ping(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	require.NoError(t, repo.Ping(context.Background()))
}
