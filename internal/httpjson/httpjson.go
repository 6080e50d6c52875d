// Package httpjson has the small JSON request/response helpers shared by the
// API handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"rezeptbox/internal/apperr"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to write json response", "path", r.URL.Path, "error", err)
	}
}

// Error answers with the status apperr.Status picks for err. Server side
// failures are logged and their details kept from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error, changes may not have been saved"
	}
	Write(w, r, status, errorBody{Error: msg})
}

// Decode reads a single JSON document from the request body into v.
// Malformed bodies come back as validation errors.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Invalid("body", fmt.Sprintf("larger than %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperr.Invalid("body", "is empty")
		default:
			return apperr.Invalid("body", err.Error())
		}
	}
	return nil
}
