package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/ports"
)

// FileItemRepository persists the wishlist as a single JSON array on disk.
// The file is re-read on every operation so external edits show up
// immediately, and rewritten in full after every mutation. A mutex
// serializes the read-modify-write cycle; writes go through a temp file
// and rename so a crash never leaves a half-written list behind.
type FileItemRepository struct {
	path string
	mu   sync.RWMutex
}

// NewFileItemRepository creates a new file-backed item repository
func NewFileItemRepository(path string) ports.ItemRepository {
	return &FileItemRepository{path: path}
}

// fileTime tolerates timestamps written by earlier versions of this app,
// which stored local time without an offset.
type fileTime struct {
	time.Time
}

var legacyTimeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *fileTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range legacyTimeFormats {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("parse timestamp %q: %w", s, lastErr)
}

func (t fileTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// fileItem is the on-disk record. Kept separate from the entity so the
// file format stays stable and legacy records decode cleanly.
type fileItem struct {
	ID         uuid.UUID `json:"id,omitempty"`
	Name       string    `json:"name"`
	Link       string    `json:"link"`
	Notes      string    `json:"notes"`
	Image      *string   `json:"image"`
	Purchased  bool      `json:"purchased"`
	ReservedAt *fileTime `json:"reserved_at,omitempty"`
	CreatedAt  fileTime  `json:"created_at"`
	UpdatedAt  *fileTime `json:"updated_at,omitempty"`
}

func toFileItem(item *entities.Item) fileItem {
	fi := fileItem{
		ID:        item.ID,
		Name:      item.Name,
		Link:      item.Link,
		Notes:     item.Notes,
		Image:     item.Image,
		Purchased: item.Purchased,
		CreatedAt: fileTime{item.CreatedAt},
		UpdatedAt: &fileTime{item.UpdatedAt},
	}
	if item.ReservedAt != nil {
		fi.ReservedAt = &fileTime{*item.ReservedAt}
	}
	return fi
}

func (fi fileItem) toEntity() *entities.Item {
	item := &entities.Item{
		ID:        fi.ID,
		Name:      fi.Name,
		Link:      fi.Link,
		Notes:     fi.Notes,
		Image:     fi.Image,
		Purchased: fi.Purchased,
		CreatedAt: fi.CreatedAt.Time,
	}
	if fi.ReservedAt != nil {
		item.ReservedAt = &fi.ReservedAt.Time
	}
	if fi.UpdatedAt != nil {
		item.UpdatedAt = fi.UpdatedAt.Time
	} else {
		// Legacy records carry no updated_at.
		item.UpdatedAt = fi.CreatedAt.Time
	}
	return item
}

// load reads the whole list from disk. A missing file is an empty list.
// Records written before ids existed get one assigned here.
func (r *FileItemRepository) load() ([]fileItem, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []fileItem{}, nil
		}
		return nil, fmt.Errorf("read wishlist file: %w", err)
	}

	var items []fileItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode wishlist file %s: %w", r.path, err)
	}

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = r.legacyID(i, &items[i])
		}
	}
	return items, nil
}

// legacyID derives the id for a record written before ids existed. The
// derivation only depends on the file path and the record itself, so the
// same record resolves to the same id on every load; the first mutation
// then writes the derived ids to disk.
func (r *FileItemRepository) legacyID(position int, fi *fileItem) uuid.UUID {
	seed := fmt.Sprintf("%s|%d|%s|%s", r.path, position, fi.Name, fi.CreatedAt.Format(time.RFC3339Nano))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
}

// persist rewrites the whole list atomically.
func (r *FileItemRepository) persist(items []fileItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".wishlist-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace wishlist file: %w", err)
	}
	return nil
}

func (r *FileItemRepository) Create(ctx context.Context, item *entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}

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

	items = append(items, toFileItem(item))
	return r.persist(items)
}

func (r *FileItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return items[i].toEntity(), nil
		}
	}
	return nil, entities.ErrItemNotFound
}

func (r *FileItemRepository) Update(ctx context.Context, item *entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = toFileItem(item)
			return r.persist(items)
		}
	}
	return entities.ErrItemNotFound
}

func (r *FileItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return r.persist(items)
		}
	}
	return entities.ErrItemNotFound
}

func (r *FileItemRepository) List(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}

	// File order is insertion order.
	result := make([]*entities.Item, 0, len(items))
	for i := range items {
		if filter.Purchased != nil && items[i].Purchased != *filter.Purchased {
			continue
		}
		result = append(result, items[i].toEntity())
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

func (r *FileItemRepository) Count(ctx context.Context, filter ports.ItemFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.load()
	if err != nil {
		return 0, err
	}
	var count int64
	for i := range items {
		if filter.Purchased != nil && items[i].Purchased != *filter.Purchased {
			continue
		}
		count++
	}
	return count, nil
}

func (r *FileItemRepository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Never written yet; the directory just has to be usable.
			if _, dirErr := os.Stat(filepath.Dir(r.path)); dirErr != nil {
				return fmt.Errorf("wishlist directory not accessible: %w", dirErr)
			}
			return nil
		}
		return fmt.Errorf("wishlist file not accessible: %w", err)
	}
	return nil
}
