package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/infrastructure/database"
	"github.com/wishkeeper/core/internal/ports"
)

const maxListLimit = 1<<31 - 1

// SQLItemRepository implements ItemRepository over sqlx. Queries are
// written with ? placeholders and rebound for the active driver, so the
// same code serves both the sqlite and postgres backends.
type SQLItemRepository struct {
	db *database.DB
}

// NewSQLItemRepository creates a new SQL-backed item repository
func NewSQLItemRepository(db *database.DB) ports.ItemRepository {
	return &SQLItemRepository{db: db}
}

func (r *SQLItemRepository) Create(ctx context.Context, item *entities.Item) error {
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

	query := r.db.Rebind(`
		INSERT INTO items (id, name, link, notes, image, purchased, reserved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Link, item.Notes, item.Image,
		item.Purchased, item.ReservedAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *SQLItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	query := r.db.Rebind(`
		SELECT id, name, link, notes, image, purchased, reserved_at, created_at, updated_at
		FROM items
		WHERE id = ?`)

	var item entities.Item
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return &item, nil
}

func (r *SQLItemRepository) Update(ctx context.Context, item *entities.Item) error {
	item.UpdatedAt = time.Now()

	query := r.db.Rebind(`
		UPDATE items
		SET name = ?, link = ?, notes = ?, image = ?, purchased = ?, reserved_at = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		item.Name, item.Link, item.Notes, item.Image,
		item.Purchased, item.ReservedAt, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrItemNotFound
	}
	return nil
}

func (r *SQLItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM items WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrItemNotFound
	}
	return nil
}

func (r *SQLItemRepository) List(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	query := `
		SELECT id, name, link, notes, image, purchased, reserved_at, created_at, updated_at
		FROM items`
	args := []interface{}{}

	if filter.Purchased != nil {
		query += ` WHERE purchased = ?`
		args = append(args, *filter.Purchased)
	}

	// Insertion order: created_at with id as tiebreak.
	query += ` ORDER BY created_at ASC, id ASC`

	// sqlite rejects OFFSET without LIMIT, so they travel together.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = maxListLimit
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, filter.Offset)
	}

	items := []*entities.Item{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *SQLItemRepository) Count(ctx context.Context, filter ports.ItemFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM items`
	args := []interface{}{}

	if filter.Purchased != nil {
		query += ` WHERE purchased = ?`
		args = append(args, *filter.Purchased)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

func (r *SQLItemRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
