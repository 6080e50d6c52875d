package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"rezeptbox/internal/cache"
)

// readyOnce runs its checks until they all pass once, then stays ready.
type readyOnce struct {
	mu     sync.Mutex
	done   bool
	checks []cache.Readyable
}

func (r *readyOnce) Ready(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil
	}
	for _, check := range r.checks {
		if err := check.Ready(ctx); err != nil {
			return err
		}
	}
	r.done = true
	return nil
}

func (r *readyOnce) Add(f ...cache.Readyable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, f...)
}

func (r *readyOnce) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if err := r.Ready(req.Context()); err != nil {
		slog.WarnContext(req.Context(), "not ready", "error", err)
		http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.ErrorContext(req.Context(), "failed to write readiness response", "error", err)
	}
}
