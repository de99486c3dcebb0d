package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/wishkeeper/core/internal/domain/entities"
)

// ItemRepository defines the interface for wishlist item storage
type ItemRepository interface {
	Create(ctx context.Context, item *entities.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Item, error)
	Update(ctx context.Context, item *entities.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ItemFilter) ([]*entities.Item, error)
	Count(ctx context.Context, filter ItemFilter) (int64, error)
	Ping(ctx context.Context) error
}

// ItemFilter narrows List and Count queries. Items are always
// returned in insertion order.
type ItemFilter struct {
	Purchased *bool
	Limit     int
	Offset    int
}
