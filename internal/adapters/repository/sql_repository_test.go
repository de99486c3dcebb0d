package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/infrastructure/config"
	"github.com/wishkeeper/core/internal/infrastructure/database"
	"github.com/wishkeeper/core/internal/ports"
)

func newTestSQLRepo(t *testing.T) ports.ItemRepository {
	t.Helper()

	cfg := config.StorageConfig{
		Backend:         config.BackendSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	}

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.MigrateUp())

	return NewSQLItemRepository(db)
}

func TestSQLItemRepository_CreateAndGet(t *testing.T) {
	repo := newTestSQLRepo(t)
	ctx := context.Background()

	image := "http://img"
	item := &entities.Item{
		Name:  "Book",
		Link:  "http://x",
		Notes: "paperback",
		Image: &image,
	}
	require.NoError(t, repo.Create(ctx, item))
	require.NotEqual(t, uuid.Nil, item.ID)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, "Book", got.Name)
	require.Equal(t, "http://x", got.Link)
	require.NotNil(t, got.Image)
	require.Equal(t, "http://img", *got.Image)
	require.False(t, got.Purchased)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, entities.ErrItemNotFound)
}

func TestSQLItemRepository_ListInsertionOrder(t *testing.T) {
	repo := newTestSQLRepo(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	names := []string{"first", "second", "third"}
	for i, name := range names {
		item := &entities.Item{
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, item))
	}

	items, err := repo.List(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		require.Equal(t, names[i], item.Name)
	}

	items, err = repo.List(ctx, ports.ItemFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "second", items[0].Name)

	items, err = repo.List(ctx, ports.ItemFilter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "third", items[0].Name)
}

func TestSQLItemRepository_UpdateAndDelete(t *testing.T) {
	repo := newTestSQLRepo(t)
	ctx := context.Background()

	item := &entities.Item{Name: "Book"}
	require.NoError(t, repo.Create(ctx, item))

	now := time.Now()
	item.Reserve(now)
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, got.Purchased)
	require.NotNil(t, got.ReservedAt)

	require.NoError(t, repo.Delete(ctx, item.ID))
	require.ErrorIs(t, repo.Delete(ctx, item.ID), entities.ErrItemNotFound)

	missing := &entities.Item{ID: uuid.New(), Name: "Ghost"}
	require.ErrorIs(t, repo.Update(ctx, missing), entities.ErrItemNotFound)
}

func TestSQLItemRepository_CountAndFilter(t *testing.T) {
	repo := newTestSQLRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Item{Name: "Wanted"}))
	require.NoError(t, repo.Create(ctx, &entities.Item{Name: "Reserved", Purchased: true}))

	count, err := repo.Count(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	purchased := true
	items, err := repo.List(ctx, ports.ItemFilter{Purchased: &purchased})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Reserved", items[0].Name)

	count, err = repo.Count(ctx, ports.ItemFilter{Purchased: &purchased})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
