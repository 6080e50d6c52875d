package categories

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"rezeptbox/internal/httpjson"
)

// RecipeRenamer rewrites the category name carried by recipes.
type RecipeRenamer interface {
	RenameCategory(ctx context.Context, oldName, newName string) (int, error)
}

type server struct {
	store   *Store
	recipes RecipeRenamer
}

// NewHandler serves the category API. Renames and deletions are pushed on to
// recipes after the category file has been written; the two writes are not atomic.
func NewHandler(store *Store, recipes RecipeRenamer) *server {
	return &server{store: store, recipes: recipes}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", s.handleList)
	mux.HandleFunc("GET /api/categories/icons", s.handleIcons)
	mux.HandleFunc("POST /api/categories", s.handleCreate)
	mux.HandleFunc("PUT /api/categories", s.handleUpdate)
	mux.HandleFunc("DELETE /api/categories", s.handleDelete)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusOK, list)
}

type iconOption struct {
	ID    Icon   `json:"id"`
	Label string `json:"label"`
}

func (s *server) handleIcons(w http.ResponseWriter, r *http.Request) {
	options := make([]iconOption, 0, len(Icons))
	for _, icon := range Icons {
		options = append(options, iconOption{ID: icon, Label: icon.Label()})
	}
	httpjson.Write(w, r, http.StatusOK, struct {
		Icons  []iconOption `json:"icons"`
		Colors []string     `json:"colors"`
	}{options, Palette})
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var c Category
	if err := httpjson.Decode(w, r, &c); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	created, err := s.store.Create(r.Context(), c)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusCreated, created)
}

type updateRequest struct {
	OriginalID string   `json:"originalId"`
	Category   Category `json:"category"`
}

type updateResponse struct {
	Category       Category `json:"category"`
	OriginalName   string   `json:"originalName"`
	RecipesUpdated int      `json:"recipesUpdated"`
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	updated, previous, err := s.store.Update(ctx, req.OriginalID, req.Category)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}

	resp := updateResponse{Category: updated, OriginalName: previous.Name}
	if previous.Name != updated.Name {
		n, err := s.recipes.RenameCategory(ctx, previous.Name, updated.Name)
		if err != nil {
			httpjson.Error(w, r, fmt.Errorf("category %s saved but recipes were not renamed: %w", updated.ID, err))
			return
		}
		slog.InfoContext(ctx, "renamed category on recipes", "from", previous.Name, "to", updated.Name, "recipes", n)
		resp.RecipesUpdated = n
	}
	httpjson.Write(w, r, http.StatusOK, resp)
}

type deleteRequest struct {
	ID string `json:"id"`
}

type deleteResponse struct {
	Success         bool     `json:"success"`
	DeletedCategory Category `json:"deletedCategory"`
	RecipesUpdated  int      `json:"recipesUpdated"`
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req deleteRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	removed, err := s.store.Delete(ctx, req.ID)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	n, err := s.recipes.RenameCategory(ctx, removed.Name, "")
	if err != nil {
		httpjson.Error(w, r, fmt.Errorf("category %s deleted but recipes still reference it: %w", removed.ID, err))
		return
	}
	httpjson.Write(w, r, http.StatusOK, deleteResponse{Success: true, DeletedCategory: removed, RecipesUpdated: n})
}
