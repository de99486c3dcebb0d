package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/ports"
)

// MemoryItemRepository keeps the wishlist in process memory. Used by the
// memory backend and by tests.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entities.Item
	order []uuid.UUID
}

// NewMemoryItemRepository creates a new in-memory item repository
func NewMemoryItemRepository() ports.ItemRepository {
	return &MemoryItemRepository{
		items: make(map[uuid.UUID]*entities.Item),
	}
}

func copyItem(item *entities.Item) *entities.Item {
	clone := *item
	if item.Image != nil {
		v := *item.Image
		clone.Image = &v
	}
	if item.ReservedAt != nil {
		v := *item.ReservedAt
		clone.ReservedAt = &v
	}
	return &clone
}

func (r *MemoryItemRepository) Create(ctx context.Context, item *entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	r.items[item.ID] = copyItem(item)
	r.order = append(r.order, item.ID)
	return nil
}

func (r *MemoryItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, entities.ErrItemNotFound
	}
	return copyItem(item), nil
}

func (r *MemoryItemRepository) Update(ctx context.Context, item *entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return entities.ErrItemNotFound
	}
	r.items[item.ID] = copyItem(item)
	return nil
}

func (r *MemoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return entities.ErrItemNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryItemRepository) List(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Item, 0, len(r.order))
	for _, id := range r.order {
		item := r.items[id]
		if filter.Purchased != nil && item.Purchased != *filter.Purchased {
			continue
		}
		result = append(result, copyItem(item))
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*entities.Item{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *MemoryItemRepository) Count(ctx context.Context, filter ports.ItemFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, item := range r.items {
		if filter.Purchased != nil && item.Purchased != *filter.Purchased {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MemoryItemRepository) Ping(ctx context.Context) error {
	return nil
}
