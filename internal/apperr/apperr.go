// Package apperr holds the error kinds the stores return and their mapping
// onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError means the targeted record key does not exist.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// DuplicateError means a create or rename collides with an existing unique key.
type DuplicateError struct {
	Kind string
	Key  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

// ValidationError rejects input before any storage is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func NotFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

func Duplicate(kind, key string) error {
	return &DuplicateError{Kind: kind, Key: key}
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}

// Status maps an error returned by a store to the status code a handler should answer with.
func Status(err error) int {
	var (
		nf  *NotFoundError
		dup *DuplicateError
		inv *ValidationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &dup), errors.As(err, &inv):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
