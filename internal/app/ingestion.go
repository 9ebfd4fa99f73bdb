package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"family-meal-planner/internal/recipe"
	"family-meal-planner/internal/storage"
)

// ImportCatalog loads every recipe file in dir, validates the set and upserts
// it into the database. The in-memory catalog is reloaded afterwards.
func (a *App) ImportCatalog(ctx context.Context, dir string) (int, error) {
	store, err := storage.NewRecipeStore(dir)
	if err != nil {
		return 0, err
	}

	recipes, err := store.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read recipe files: %w", err)
	}
	// Validate the whole batch before touching the database.
	if _, err := recipe.NewCatalog(recipes); err != nil {
		return 0, fmt.Errorf("failed to validate recipe files: %w", err)
	}

	if err := a.recipeRepo.SaveAll(ctx, recipes); err != nil {
		return 0, fmt.Errorf("failed to import recipes: %w", err)
	}
	a.logger.Info("catalog imported", zap.String("dir", dir), zap.Int("recipes", len(recipes)))

	if err := a.LoadCatalog(ctx); err != nil {
		return len(recipes), err
	}
	return len(recipes), nil
}

// ExportCatalog writes the database catalog to dir, one file per recipe.
func (a *App) ExportCatalog(ctx context.Context, dir string) (int, error) {
	store, err := storage.NewRecipeStore(dir)
	if err != nil {
		return 0, err
	}

	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	for _, rec := range recipes {
		if err := store.Save(rec); err != nil {
			return 0, fmt.Errorf("failed to export recipe %s: %w", rec.ID, err)
		}
	}
	a.logger.Info("catalog exported", zap.String("dir", dir), zap.Int("recipes", len(recipes)))
	return len(recipes), nil
}
