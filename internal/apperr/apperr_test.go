package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", NotFound("recipe", "Suppe"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("update: %w", NotFound("category", "suppen")), http.StatusNotFound},
		{"duplicate", Duplicate("recipe", "Suppe"), http.StatusBadRequest},
		{"validation", Invalid("name", "is required"), http.StatusBadRequest},
		{"io", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Status(tc.err); got != tc.want {
				t.Fatalf("Status(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	if got, want := NotFound("recipe", "Suppe").Error(), `recipe "Suppe" not found`; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, want := Invalid("", "at least one ingredient is required").Error(), "at least one ingredient is required"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if !IsDuplicate(fmt.Errorf("wrap: %w", Duplicate("category", "x"))) {
		t.Fatal("expected wrapped duplicate to be detected")
	}
	if IsNotFound(Duplicate("category", "x")) {
		t.Fatal("duplicate must not look like not found")
	}
}
