package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"rezeptbox/internal/cards"
	"rezeptbox/internal/categories"
	"rezeptbox/internal/config"
	"rezeptbox/internal/recipes"
	"rezeptbox/internal/telemetry"
)

func exportCards(ctx context.Context, cfg *config.Config, tel *telemetry.Providers, out string, q recipes.Query) error {
	backend, err := newBackend(cfg, tel)
	if err != nil {
		return err
	}
	recipeStore := recipes.NewStore(backend, cfg.Data.RecipesFile)
	categoryStore := categories.NewStore(backend, cfg.Data.CategoriesFile)

	var (
		list []recipes.Recipe
		cats []categories.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		list, err = recipeStore.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		cats, err = categoryStore.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	list = recipes.Filter(list, q)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := cards.Write(f, list, cats); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", out, err)
	}
	slog.Info("wrote recipe cards", "file", out, "cards", len(list), "pages", cards.Pages(len(list)))
	return nil
}
