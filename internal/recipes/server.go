package recipes

import (
	"net/http"

	"rezeptbox/internal/httpjson"
)

type server struct {
	store *Store
}

// NewHandler returns the recipe API handler.
func NewHandler(store *Store) *server {
	return &server{store: store}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/recipes", s.handleList)
	mux.HandleFunc("GET /api/recipes/counts", s.handleCounts)
	mux.HandleFunc("POST /api/recipes", s.handleCreate)
	mux.HandleFunc("PUT /api/recipes", s.handleUpdate)
	mux.HandleFunc("DELETE /api/recipes", s.handleDelete)
	mux.HandleFunc("PATCH /api/recipes", s.handleRenameCategory)
}

// QueryFromRequest reads ?q= and ?category= into a Query. A category
// parameter that is present but empty selects uncategorised recipes.
func QueryFromRequest(r *http.Request) Query {
	values := r.URL.Query()
	q := Query{Search: values.Get("q")}
	if values.Has("category") {
		c := values.Get("category")
		q.Category = &c
	}
	return q
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusOK, Filter(list, QueryFromRequest(r)))
}

func (s *server) handleCounts(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusOK, CountByCategory(list))
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var recipe Recipe
	if err := httpjson.Decode(w, r, &recipe); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	created, err := s.store.Create(r.Context(), recipe)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusCreated, created)
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalName string `json:"originalName"`
		Recipe       Recipe `json:"recipe"`
	}
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	updated, err := s.store.Update(r.Context(), req.OriginalName, req.Recipe)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusOK, updated)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	if _, err := s.store.Delete(r.Context(), req.Name); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusOK, map[string]bool{"success": true})
}

func (s *server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldCategory string `json:"oldCategory"`
		NewCategory string `json:"newCategory"`
	}
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	n, err := s.store.RenameCategory(r.Context(), req.OldCategory, req.NewCategory)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	httpjson.Write(w, r, http.StatusOK, map[string]int{"updated": n})
}
