package categories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"rezeptbox/internal/apperr"
	"rezeptbox/internal/cache"
)

const kind = "category"

type document struct {
	Categories []Category `json:"categories"`
}

// Store keeps the category list as one JSON document. Every operation loads
// the full list, changes it in memory and writes the full list back. There is
// no locking: of two concurrent writers the later one wins.
type Store struct {
	cache cache.Cache
	key   string
}

func NewStore(c cache.Cache, key string) *Store {
	return &Store{cache: c, key: key}
}

// snapshot is a loaded list together with its id index.
type snapshot struct {
	list []Category
	byID map[string]int
}

func newSnapshot(list []Category) *snapshot {
	s := &snapshot{list: list, byID: make(map[string]int, len(list))}
	for i, c := range list {
		if _, dup := s.byID[c.ID]; !dup {
			s.byID[c.ID] = i
		}
	}
	return s
}

func (s *snapshot) nameTaken(name string, skip int) bool {
	for i, c := range s.list {
		if i != skip && sameName(c.Name, name) {
			return true
		}
	}
	return false
}

// load never fails: a missing or unreadable document is an empty list.
func (s *Store) load(ctx context.Context) *snapshot {
	rc, err := s.cache.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "failed to read categories, treating as empty", "key", s.key, "error", err)
		}
		return newSnapshot(nil)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close categories reader", "key", s.key, "error", err)
		}
	}()

	var doc document
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		slog.WarnContext(ctx, "failed to parse categories, treating as empty", "key", s.key, "error", err)
		return newSnapshot(nil)
	}
	return newSnapshot(doc.Categories)
}

func (s *Store) save(ctx context.Context, list []Category) error {
	if list == nil {
		list = []Category{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Categories: list}); err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	if err := s.cache.Put(ctx, s.key, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write categories to %s: %w", s.key, err)
	}
	return nil
}

// List returns the categories in insertion order.
func (s *Store) List(ctx context.Context) ([]Category, error) {
	list := s.load(ctx).list
	if list == nil {
		list = []Category{}
	}
	return list, nil
}

func (s *Store) Get(ctx context.Context, id string) (Category, error) {
	snap := s.load(ctx)
	i, ok := snap.byID[id]
	if !ok {
		return Category{}, apperr.NotFound(kind, id)
	}
	return snap.list[i], nil
}

// Create appends c. A missing id is derived from the name with Slug.
func (s *Store) Create(ctx context.Context, c Category) (Category, error) {
	if err := c.normalize(); err != nil {
		return Category{}, err
	}
	if c.ID == "" {
		c.ID = Slug(c.Name)
		if c.ID == "" {
			return Category{}, apperr.Invalid("id", "cannot be derived from the name, provide one")
		}
	}

	snap := s.load(ctx)
	if _, ok := snap.byID[c.ID]; ok {
		return Category{}, apperr.Duplicate(kind, c.ID)
	}
	if snap.nameTaken(c.Name, -1) {
		return Category{}, apperr.Duplicate(kind, c.Name)
	}

	if err := s.save(ctx, append(snap.list, c)); err != nil {
		return Category{}, err
	}
	slog.InfoContext(ctx, "created category", "id", c.ID, "name", c.Name)
	return c, nil
}

// Update replaces the category stored under originalID, keeping its position.
// It returns the stored record and the one it replaced so callers can
// propagate a rename to recipes.
func (s *Store) Update(ctx context.Context, originalID string, c Category) (updated Category, previous Category, err error) {
	if err := c.normalize(); err != nil {
		return Category{}, Category{}, err
	}
	if c.ID == "" {
		c.ID = originalID
	}

	snap := s.load(ctx)
	i, ok := snap.byID[originalID]
	if !ok {
		return Category{}, Category{}, apperr.NotFound(kind, originalID)
	}
	if c.ID != originalID {
		if j, taken := snap.byID[c.ID]; taken && j != i {
			return Category{}, Category{}, apperr.Duplicate(kind, c.ID)
		}
	}
	// Recipes refer to categories by name, so two categories may not share one.
	if snap.nameTaken(c.Name, i) {
		return Category{}, Category{}, apperr.Duplicate(kind, c.Name)
	}

	previous = snap.list[i]
	snap.list[i] = c
	if err := s.save(ctx, snap.list); err != nil {
		return Category{}, Category{}, err
	}
	slog.InfoContext(ctx, "updated category", "original_id", originalID, "id", c.ID, "name", c.Name)
	return c, previous, nil
}

// Delete removes the category and returns it.
func (s *Store) Delete(ctx context.Context, id string) (Category, error) {
	snap := s.load(ctx)
	i, ok := snap.byID[id]
	if !ok {
		return Category{}, apperr.NotFound(kind, id)
	}
	removed := snap.list[i]
	list := append(snap.list[:i:i], snap.list[i+1:]...)
	if err := s.save(ctx, list); err != nil {
		return Category{}, err
	}
	slog.InfoContext(ctx, "deleted category", "id", id, "name", removed.Name)
	return removed, nil
}
