package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/wishkeeper/core/internal/domain/entities"
)

// WishlistService interface for wishlist operations
type WishlistService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*entities.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*entities.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*entities.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, filter ItemFilter) ([]*entities.Item, error)
	CountItems(ctx context.Context, filter ItemFilter) (int64, error)
	PartitionItems(ctx context.Context) (*PartitionedItems, error)
	ReserveItem(ctx context.Context, id uuid.UUID) (*entities.Item, error)
	UnreserveItem(ctx context.Context, id uuid.UUID) (*entities.Item, error)
	RenderNotes(notes string) string
}

// CreateItemRequest carries the owner form fields for a new item
type CreateItemRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=200"`
	Link     string `json:"link" form:"link" validate:"omitempty,url,max=2000"`
	Notes    string `json:"notes" form:"notes" validate:"max=5000"`
	ImageURL string `json:"image_url" form:"image_url" validate:"omitempty,url,max=2000"`
}

// UpdateItemRequest carries partial updates for an existing item
type UpdateItemRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Link     *string `json:"link" validate:"omitempty,url,max=2000"`
	Notes    *string `json:"notes" validate:"omitempty,max=5000"`
	ImageURL *string `json:"image_url" validate:"omitempty,url,max=2000"`
}

// PartitionedItems splits the list for the public view
type PartitionedItems struct {
	Wanted   []*entities.Item `json:"wanted"`
	Reserved []*entities.Item `json:"reserved"`
}
