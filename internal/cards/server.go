package cards

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"rezeptbox/internal/apperr"
	"rezeptbox/internal/categories"
	"rezeptbox/internal/httpjson"
	"rezeptbox/internal/recipes"
)

type recipeLister interface {
	List(ctx context.Context) ([]recipes.Recipe, error)
}

type categoryLister interface {
	List(ctx context.Context) ([]categories.Category, error)
}

type server struct {
	recipes    recipeLister
	categories categoryLister
	opts       []Option
}

// NewHandler serves card exports built from the two stores.
func NewHandler(r recipeLister, c categoryLister, opts ...Option) *server {
	return &server{recipes: r, categories: c, opts: opts}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cards.pdf", s.handleFiltered)
	mux.HandleFunc("POST /api/cards.pdf", s.handleSelected)
}

type selection struct {
	Names []string `json:"names"`
}

func (s *server) load(ctx context.Context) ([]recipes.Recipe, []categories.Category, error) {
	var (
		list []recipes.Recipe
		cats []categories.Category
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.recipes.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.categories.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return list, cats, nil
}

func (s *server) handleFiltered(w http.ResponseWriter, r *http.Request) {
	list, cats, err := s.load(r.Context())
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	s.send(w, r, recipes.Filter(list, recipes.QueryFromRequest(r)), cats)
}

func (s *server) handleSelected(w http.ResponseWriter, r *http.Request) {
	var sel selection
	if err := httpjson.Decode(w, r, &sel); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	if len(sel.Names) == 0 {
		httpjson.Error(w, r, apperr.Invalid("names", "select at least one recipe"))
		return
	}
	list, cats, err := s.load(r.Context())
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	found, missing := recipes.Names(list, sel.Names)
	if len(missing) > 0 {
		httpjson.Error(w, r, apperr.NotFound("recipe", strings.Join(missing, ", ")))
		return
	}
	s.send(w, r, recipes.SortForPrint(found), cats)
}

// send renders into memory first so a failure can still be reported as JSON.
func (s *server) send(w http.ResponseWriter, r *http.Request, list []recipes.Recipe, cats []categories.Category) {
	var buf bytes.Buffer
	if err := Write(&buf, list, cats, s.opts...); err != nil {
		httpjson.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "exported cards", "cards", len(list), "pages", Pages(len(list)), "bytes", buf.Len())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "failed to send cards", "error", err)
	}
}
