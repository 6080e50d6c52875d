package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rezeptbox/internal/cache"
	"rezeptbox/internal/cards"
	"rezeptbox/internal/categories"
	"rezeptbox/internal/config"
	"rezeptbox/internal/recipes"
	"rezeptbox/internal/schema"
	"rezeptbox/internal/telemetry"
)

// newHandler wires the stores and their APIs onto one mux behind the
// middleware chain.
func newHandler(cfg *config.Config, backend cache.Cache, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	recipeStore := recipes.NewStore(backend, cfg.Data.RecipesFile)
	categoryStore := categories.NewStore(backend, cfg.Data.CategoriesFile)

	recipes.NewHandler(recipeStore).Register(mux)
	categories.NewHandler(categoryStore, recipeStore).Register(mux)
	cards.NewHandler(recipeStore, categoryStore).Register(mux)
	schema.NewHandler().Register(mux)

	ro := &readyOnce{}
	if r, ok := backend.(cache.Readyable); ok {
		ro.Add(r)
	}
	mux.Handle("GET /ready", ro)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return WithMiddleware(mux, reg)
}

// newBackend opens the configured storage with tracing around it.
func newBackend(cfg *config.Config, tel *telemetry.Providers) (cache.Cache, error) {
	backend, err := cache.FromConfig(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create data backend: %w", err)
	}
	return cache.WithTracing(backend, tel.TracerProvider), nil
}

func runServer(cfg *config.Config, tel *telemetry.Providers) error {
	backend, err := newBackend(cfg, tel)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: newHandler(cfg, backend, reg),
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Serving Rezeptbox", "address", cfg.Server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)
		return gracefulShutdown(server, cfg.Server)
	}
}

func gracefulShutdown(svr *http.Server, cfg config.ServerConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		// Force close after timeout
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("Server close error", "error", closeErr)
		}
		return err
	}
	slog.Info("Server stopped")
	return nil
}
