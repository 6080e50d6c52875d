package recipes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rezeptbox/internal/apperr"
	"rezeptbox/internal/cache"
)

const kind = "recipe"

// Store keeps recipes in a single CSV document, read and rewritten in full on
// every operation. Concurrent writers are not coordinated; the later write wins.
type Store struct {
	cache cache.Cache
	key   string
}

func NewStore(c cache.Cache, key string) *Store {
	return &Store{cache: c, key: key}
}

type snapshot struct {
	list   []Recipe
	byName map[string]int
}

func newSnapshot(list []Recipe) *snapshot {
	s := &snapshot{list: list, byName: make(map[string]int, len(list))}
	for i, r := range list {
		s.byName[r.Name] = i
	}
	return s
}

// load never fails: a missing or unparsable file reads as no recipes.
func (s *Store) load(ctx context.Context) *snapshot {
	rc, err := s.cache.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "failed to read recipes, treating as empty", "key", s.key, "error", err)
		}
		return newSnapshot(nil)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close recipes reader", "key", s.key, "error", err)
		}
	}()

	list, err := ReadCSV(rc)
	if err != nil {
		slog.WarnContext(ctx, "failed to parse recipes, treating as empty", "key", s.key, "error", err)
		return newSnapshot(nil)
	}
	return newSnapshot(list)
}

func (s *Store) save(ctx context.Context, list []Recipe) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, list); err != nil {
		return fmt.Errorf("failed to encode recipes: %w", err)
	}
	if err := s.cache.Put(ctx, s.key, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write recipes to %s: %w", s.key, err)
	}
	return nil
}

// List returns all recipes in file order.
func (s *Store) List(ctx context.Context) ([]Recipe, error) {
	list := s.load(ctx).list
	if list == nil {
		list = []Recipe{}
	}
	return list, nil
}

func (s *Store) Get(ctx context.Context, name string) (Recipe, error) {
	snap := s.load(ctx)
	i, ok := snap.byName[name]
	if !ok {
		return Recipe{}, apperr.NotFound(kind, name)
	}
	return snap.list[i], nil
}

// Create appends r. Names are compared exactly, case included.
func (s *Store) Create(ctx context.Context, r Recipe) (Recipe, error) {
	if err := r.normalize(); err != nil {
		return Recipe{}, err
	}
	snap := s.load(ctx)
	if _, ok := snap.byName[r.Name]; ok {
		return Recipe{}, apperr.Duplicate(kind, r.Name)
	}
	if err := s.save(ctx, append(snap.list, r)); err != nil {
		return Recipe{}, err
	}
	slog.InfoContext(ctx, "created recipe", "name", r.Name, "category", r.Category, "ingredients", len(r.Ingredients))
	return r, nil
}

// Update replaces the recipe called originalName. Renaming moves the key;
// there is no separate id to carry over.
func (s *Store) Update(ctx context.Context, originalName string, r Recipe) (Recipe, error) {
	if err := r.normalize(); err != nil {
		return Recipe{}, err
	}
	snap := s.load(ctx)
	i, ok := snap.byName[originalName]
	if !ok {
		return Recipe{}, apperr.NotFound(kind, originalName)
	}
	if r.Name != originalName {
		if j, taken := snap.byName[r.Name]; taken && j != i {
			return Recipe{}, apperr.Duplicate(kind, r.Name)
		}
	}
	snap.list[i] = r
	if err := s.save(ctx, snap.list); err != nil {
		return Recipe{}, err
	}
	slog.InfoContext(ctx, "updated recipe", "original_name", originalName, "name", r.Name)
	return r, nil
}

func (s *Store) Delete(ctx context.Context, name string) (Recipe, error) {
	snap := s.load(ctx)
	i, ok := snap.byName[name]
	if !ok {
		return Recipe{}, apperr.NotFound(kind, name)
	}
	removed := snap.list[i]
	if err := s.save(ctx, append(snap.list[:i:i], snap.list[i+1:]...)); err != nil {
		return Recipe{}, err
	}
	slog.InfoContext(ctx, "deleted recipe", "name", name)
	return removed, nil
}

// RenameCategory moves every recipe whose category is exactly oldName to
// newName and reports how many changed. Both names are trimmed first, as stored
// categories are. An empty newName clears the reference.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string) (int, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	snap := s.load(ctx)
	n := 0
	for i := range snap.list {
		if snap.list[i].Category == oldName {
			snap.list[i].Category = newName
			n++
		}
	}
	if n == 0 || oldName == newName {
		return 0, nil
	}
	if err := s.save(ctx, snap.list); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "renamed category on recipes", "from", oldName, "to", newName, "recipes", n)
	return n, nil
}
