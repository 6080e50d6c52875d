package cards

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezeptbox/internal/cache"
	"rezeptbox/internal/categories"
	"rezeptbox/internal/recipes"
)

func newTestServer(t *testing.T, list ...recipes.Recipe) *http.ServeMux {
	t.Helper()
	c := cache.NewInMemoryCache()
	rs := recipes.NewStore(c, "rezepte.csv")
	cs := categories.NewStore(c, "categories.json")
	for _, r := range list {
		_, err := rs.Create(t.Context(), r)
		require.NoError(t, err)
	}
	_, err := cs.Create(t.Context(), categories.Category{Name: "Hauptgericht", Color: "#ff0000"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewHandler(rs, cs, WithCreationDate(fixedDate)).Register(mux)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func assertPDF(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rezepte-kaertchen.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF-"))
}

func TestExportFiltered(t *testing.T) {
	mux := newTestServer(t, numbered(3)...)
	assertPDF(t, serve(mux, http.MethodGet, "/api/cards.pdf", ""))
	assertPDF(t, serve(mux, http.MethodGet, "/api/cards.pdf?q=rezept+2", ""))
	// No matches still yields a document.
	assertPDF(t, serve(mux, http.MethodGet, "/api/cards.pdf?category=Dessert", ""))
}

func TestExportSelected(t *testing.T) {
	mux := newTestServer(t, append(numbered(2), suppe())...)
	assertPDF(t, serve(mux, http.MethodPost, "/api/cards.pdf", `{"names":["Suppe","Rezept 1"]}`))
}

func TestExportSelectedErrors(t *testing.T) {
	mux := newTestServer(t, suppe())

	rr := serve(mux, http.MethodPost, "/api/cards.pdf", `{"names":["Suppe","Kuchen"]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Kuchen")

	rr = serve(mux, http.MethodPost, "/api/cards.pdf", `{"names":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(mux, http.MethodPost, "/api/cards.pdf", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type failingCategories struct{}

func (failingCategories) List(context.Context) ([]categories.Category, error) {
	return nil, errors.New("storage offline")
}

func TestExportStorageFailure(t *testing.T) {
	rs := recipes.NewStore(cache.NewInMemoryCache(), "rezepte.csv")
	mux := http.NewServeMux()
	NewHandler(rs, failingCategories{}).Register(mux)

	rr := serve(mux, http.MethodGet, "/api/cards.pdf", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "storage offline")
}
