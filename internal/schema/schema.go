// Package schema publishes JSON schemas for the documents the API accepts, so
// forms can validate before they submit.
package schema

import (
	"net/http"

	"github.com/invopop/jsonschema"

	"rezeptbox/internal/apperr"
	"rezeptbox/internal/categories"
	"rezeptbox/internal/httpjson"
	"rezeptbox/internal/recipes"
)

type server struct {
	schemas map[string]*jsonschema.Schema
}

// For reflects v the same way the API handlers decode it.
func For(v any) *jsonschema.Schema {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return r.Reflect(v)
}

func NewHandler() *server {
	return &server{schemas: map[string]*jsonschema.Schema{
		"category": For(&categories.Category{}),
		"recipe":   For(&recipes.Recipe{}),
	}}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/schema/{kind}", s.handleSchema)
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	schema, ok := s.schemas[kind]
	if !ok {
		httpjson.Error(w, r, apperr.NotFound("schema", kind))
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	httpjson.Write(w, r, http.StatusOK, schema)
}
