package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/infrastructure/logger"
	"github.com/wishkeeper/core/internal/ports"
)

// WishlistService handles wishlist item operations
type WishlistService struct {
	itemRepo ports.ItemRepository
	md       goldmark.Markdown
	logger   *logger.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(itemRepo ports.ItemRepository, logger *logger.Logger) *WishlistService {
	return &WishlistService{
		itemRepo: itemRepo,
		md:       goldmark.New(),
		logger:   logger,
	}
}

// CreateItem creates a new wishlist item from the owner's form input
func (s *WishlistService) CreateItem(ctx context.Context, req ports.CreateItemRequest) (*entities.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidItem)
	}

	// A blank image field is stored as null, matching the original file format.
	var image *string
	if imageURL := strings.TrimSpace(req.ImageURL); imageURL != "" {
		image = &imageURL
	}

	now := time.Now()
	item := &entities.Item{
		ID:        uuid.New(),
		Name:      name,
		Link:      strings.TrimSpace(req.Link),
		Notes:     strings.TrimSpace(req.Notes),
		Image:     image,
		Purchased: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Item created", "item_id", item.ID, "name", item.Name)

	return item, nil
}

// GetItem retrieves an item by ID
func (s *WishlistService) GetItem(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// UpdateItem updates an item's fields
func (s *WishlistService) UpdateItem(ctx context.Context, id uuid.UUID, req ports.UpdateItemRequest) (*entities.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidItem)
		}
		item.Name = name
	}
	if req.Link != nil {
		item.Link = strings.TrimSpace(*req.Link)
	}
	if req.Notes != nil {
		item.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.ImageURL != nil {
		if imageURL := strings.TrimSpace(*req.ImageURL); imageURL != "" {
			item.Image = &imageURL
		} else {
			item.Image = nil
		}
	}
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("Item updated", "item_id", item.ID, "name", item.Name)

	return item, nil
}

// DeleteItem removes an item
func (s *WishlistService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Item deleted", "item_id", id)

	return nil
}

// ListItems returns items in insertion order
func (s *WishlistService) ListItems(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	return s.itemRepo.List(ctx, filter)
}

// CountItems returns the number of items matching the filter,
// ignoring pagination
func (s *WishlistService) CountItems(ctx context.Context, filter ports.ItemFilter) (int64, error) {
	return s.itemRepo.Count(ctx, ports.ItemFilter{Purchased: filter.Purchased})
}

// PartitionItems splits the list into wanted and reserved groups for
// the public view. Every item lands in exactly one group.
func (s *WishlistService) PartitionItems(ctx context.Context) (*ports.PartitionedItems, error) {
	items, err := s.itemRepo.List(ctx, ports.ItemFilter{})
	if err != nil {
		return nil, err
	}

	parts := &ports.PartitionedItems{
		Wanted:   []*entities.Item{},
		Reserved: []*entities.Item{},
	}
	for _, item := range items {
		if item.Purchased {
			parts.Reserved = append(parts.Reserved, item)
		} else {
			parts.Wanted = append(parts.Wanted, item)
		}
	}
	return parts, nil
}

// ReserveItem marks an item as purchased. Reserving twice is a no-op.
func (s *WishlistService) ReserveItem(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	return s.setReserved(ctx, id, true)
}

// UnreserveItem clears the purchased flag so the item shows as wanted again
func (s *WishlistService) UnreserveItem(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	return s.setReserved(ctx, id, false)
}

func (s *WishlistService) setReserved(ctx context.Context, id uuid.UUID, reserved bool) (*entities.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.Purchased == reserved {
		return item, nil
	}

	now := time.Now()
	if reserved {
		item.Reserve(now)
	} else {
		item.Unreserve(now)
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.logger.Info("Item reservation changed", "item_id", item.ID, "purchased", item.Purchased)

	return item, nil
}

// RenderNotes converts item notes from markdown to HTML
func (s *WishlistService) RenderNotes(notes string) string {
	if notes == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(notes), &buf); err != nil {
		return notes
	}
	return buf.String()
}
