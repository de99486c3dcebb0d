package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrItemNotFound = errors.New("item not found")
	ErrInvalidItem  = errors.New("invalid item")
)

// Item represents a single wishlist entry
type Item struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Link       string     `json:"link" db:"link"`
	Notes      string     `json:"notes" db:"notes"`
	Image      *string    `json:"image" db:"image"`
	Purchased  bool       `json:"purchased" db:"purchased"`
	ReservedAt *time.Time `json:"reserved_at,omitempty" db:"reserved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Reserve marks the item as purchased. Reserving an already
// reserved item leaves it reserved, so the operation is idempotent.
func (i *Item) Reserve(now time.Time) {
	if i.Purchased {
		return
	}
	i.Purchased = true
	i.ReservedAt = &now
	i.UpdatedAt = now
}

// Unreserve clears the purchased flag.
func (i *Item) Unreserve(now time.Time) {
	if !i.Purchased {
		return
	}
	i.Purchased = false
	i.ReservedAt = nil
	i.UpdatedAt = now
}

// HasImage reports whether the owner provided an image URL.
func (i *Item) HasImage() bool {
	return i.Image != nil && *i.Image != ""
}
