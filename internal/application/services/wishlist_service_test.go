package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wishkeeper/core/internal/adapters/repository"
	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/infrastructure/logger"
	"github.com/wishkeeper/core/internal/ports"
)

func newTestService() *WishlistService {
	return NewWishlistService(repository.NewMemoryItemRepository(), logger.NewNop())
}

func TestWishlistService_CreateItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ports.CreateItemRequest{
		Name:     "  Book  ",
		Link:     "http://x",
		Notes:    "",
		ImageURL: "",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, item.ID)
	require.Equal(t, "Book", item.Name)
	require.Equal(t, "http://x", item.Link)
	require.False(t, item.Purchased)
	require.Nil(t, item.Image)
	require.False(t, item.CreatedAt.IsZero())

	items, err := svc.ListItems(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, item.ID, items[0].ID)
}

func TestWishlistService_CreateItemRequiresName(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateItem(context.Background(), ports.CreateItemRequest{Name: "   "})
	require.ErrorIs(t, err, entities.ErrInvalidItem)
}

func TestWishlistService_CreateItemKeepsImageURL(t *testing.T) {
	svc := newTestService()

	item, err := svc.CreateItem(context.Background(), ports.CreateItemRequest{
		Name:     "Mug",
		ImageURL: " http://img ",
	})
	require.NoError(t, err)
	require.NotNil(t, item.Image)
	require.Equal(t, "http://img", *item.Image)
}

func TestWishlistService_ReserveAndUnreserve(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Book"})
	require.NoError(t, err)

	reserved, err := svc.ReserveItem(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, reserved.Purchased)
	require.NotNil(t, reserved.ReservedAt)

	// Reserving twice leaves the flag set.
	again, err := svc.ReserveItem(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, again.Purchased)

	released, err := svc.UnreserveItem(ctx, item.ID)
	require.NoError(t, err)
	require.False(t, released.Purchased)
	require.Nil(t, released.ReservedAt)
}

func TestWishlistService_ReserveUnknownItem(t *testing.T) {
	svc := newTestService()

	_, err := svc.ReserveItem(context.Background(), uuid.New())
	require.ErrorIs(t, err, entities.ErrItemNotFound)
}

func TestWishlistService_PartitionItems(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	book, err := svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Book"})
	require.NoError(t, err)
	mug, err := svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Mug"})
	require.NoError(t, err)
	_, err = svc.ReserveItem(ctx, mug.ID)
	require.NoError(t, err)

	parts, err := svc.PartitionItems(ctx)
	require.NoError(t, err)
	require.Len(t, parts.Wanted, 1)
	require.Len(t, parts.Reserved, 1)
	require.Equal(t, book.ID, parts.Wanted[0].ID)
	require.Equal(t, mug.ID, parts.Reserved[0].ID)
}

func TestWishlistService_UpdateItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Book", ImageURL: "http://img"})
	require.NoError(t, err)

	newName := "Hardcover Book"
	clearImage := ""
	updated, err := svc.UpdateItem(ctx, item.ID, ports.UpdateItemRequest{
		Name:     &newName,
		ImageURL: &clearImage,
	})
	require.NoError(t, err)
	require.Equal(t, "Hardcover Book", updated.Name)
	require.Nil(t, updated.Image)

	blank := "  "
	_, err = svc.UpdateItem(ctx, item.ID, ports.UpdateItemRequest{Name: &blank})
	require.ErrorIs(t, err, entities.ErrInvalidItem)
}

func TestWishlistService_DeleteItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Book"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	require.ErrorIs(t, svc.DeleteItem(ctx, item.ID), entities.ErrItemNotFound)

	count, err := svc.CountItems(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestWishlistService_CountItemsHonorsFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	book, err := svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Book"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, ports.CreateItemRequest{Name: "Mug"})
	require.NoError(t, err)
	_, err = svc.ReserveItem(ctx, book.ID)
	require.NoError(t, err)

	purchased := false
	count, err := svc.CountItems(ctx, ports.ItemFilter{Purchased: &purchased})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// Pagination never changes the count.
	count, err = svc.CountItems(ctx, ports.ItemFilter{Limit: 1, Offset: 5})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestWishlistService_RenderNotes(t *testing.T) {
	svc := newTestService()

	html := svc.RenderNotes("some **bold** text")
	require.Contains(t, html, "<strong>bold</strong>")
	require.True(t, strings.HasPrefix(html, "<p>"))

	require.Equal(t, "", svc.RenderNotes(""))
}
