package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-meal-planner/internal/recipe"
	"family-meal-planner/internal/storage"
)

func TestExportThenImportCatalog(t *testing.T) {
	ctx := context.Background()
	a := loadedApp(t, nil)
	dir := t.TempDir()

	exported, err := a.ExportCatalog(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 24, exported)

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 24)

	store, err := storage.NewRecipeStore(dir)
	require.NoError(t, err)
	cost := 0.3
	require.NoError(t, store.Save(recipe.Recipe{
		ID:          "snack_100",
		Name:        "Cucumber Sticks",
		Servings:    2,
		KidFriendly: true,
		DietaryTags: []string{"vegan"},
		Ingredients: []recipe.Ingredient{{Name: "cucumber", Amount: 1, Unit: "whole", CostPerUnit: &cost}},
	}))

	imported, err := a.ImportCatalog(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 25, imported)

	recipes, err := a.Recipes()
	require.NoError(t, err)
	assert.Len(t, recipes, 25)
}

func TestImportCatalogRejectsInvalidRecipes(t *testing.T) {
	ctx := context.Background()
	a := loadedApp(t, nil)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"id":"bad","name":"Bad","servings":0}`), 0o644))

	_, err := a.ImportCatalog(ctx, dir)
	assert.ErrorIs(t, err, recipe.ErrInvalidServings)

	count, err := a.recipeRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24, count)
}
