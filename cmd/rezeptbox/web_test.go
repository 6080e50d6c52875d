package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezeptbox/internal/cache"
	"rezeptbox/internal/config"
	"rezeptbox/internal/recipes"
	"rezeptbox/internal/telemetry"
)

func testConfig() *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			Backend:        config.BackendMemory,
			CategoriesFile: "categories.json",
			RecipesFile:    "rezepte.csv",
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newHandler(testConfig(), cache.NewInMemoryCache(), prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestRenameCategoryReachesRecipes(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/categories", `{"name":"Hauptgericht","icon":"soup","color":"#ef4444"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = do(t, srv, http.MethodPost, "/api/recipes", `{"name":"Suppe","category":"Hauptgericht","ingredients":[{"zutat":"Wasser","menge":"1L","taetigkeit":""}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = do(t, srv, http.MethodPut, "/api/categories", `{"originalId":"hauptgericht","category":{"name":"Hauptspeise","icon":"soup","color":"#ef4444"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"recipesUpdated":1`)

	_, body = do(t, srv, http.MethodGet, "/api/recipes?category=Hauptspeise", "")
	var list []recipes.Recipe
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Suppe", list[0].Name)

	resp, body = do(t, srv, http.MethodDelete, "/api/categories", `{"id":"hauptgericht"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	_, body = do(t, srv, http.MethodGet, "/api/recipes/counts", "")
	assert.JSONEq(t, `{"Ohne Kategorie":1}`, body)

	resp, body = do(t, srv, http.MethodGet, "/api/cards.pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.True(t, strings.HasPrefix(body, "%PDF-"))
}

func TestReadyAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	resp, _ = do(t, srv, http.MethodGet, "/api/schema/recipe", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	do(t, srv, http.MethodGet, "/api/categories", "")
	_, body = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Contains(t, body, "http_request_duration_seconds")
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/api/categories", "")
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/api/categories", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestRecovererAnswers500(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := WithMiddleware(mux, prometheus.NewRegistry())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

type flakyBackend struct {
	calls int
}

func (f *flakyBackend) Ready(context.Context) error {
	f.calls++
	if f.calls == 1 {
		return errors.New("container missing")
	}
	return nil
}

func TestReadyOnce(t *testing.T) {
	check := &flakyBackend{}
	ro := &readyOnce{}
	ro.Add(check)

	rr := httptest.NewRecorder()
	ro.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	require.NoError(t, ro.Ready(t.Context()))
	require.NoError(t, ro.Ready(t.Context()))
	assert.Equal(t, 2, check.calls, "checks stop once they passed")
}

func TestExportCards(t *testing.T) {
	cfg := testConfig()
	cfg.Data.Backend = config.BackendFile
	cfg.Data.Dir = t.TempDir()
	out := t.TempDir() + "/cards.pdf"

	tel, err := telemetry.Setup(t.Context(), cfg.Telemetry)
	require.NoError(t, err)
	require.NoError(t, exportCards(t.Context(), cfg, tel, out, recipes.Query{}))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))
}
