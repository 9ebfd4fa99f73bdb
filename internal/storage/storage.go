package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"family-meal-planner/internal/recipe"
)

// RecipeStore keeps a catalog on disk, one <id>.json file per recipe.
type RecipeStore struct {
	basePath string
}

// NewRecipeStore creates a new RecipeStore and ensures the base directory exists.
func NewRecipeStore(basePath string) (*RecipeStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &RecipeStore{basePath: basePath}, nil
}

func (s *RecipeStore) path(recipeID string) (string, error) {
	if recipeID == "" || strings.ContainsAny(recipeID, `/\`) || recipeID == "." || recipeID == ".." {
		return "", fmt.Errorf("invalid recipe id %q for a file name", recipeID)
	}
	return filepath.Join(s.basePath, recipeID+".json"), nil
}

// Save writes the recipe to its file, replacing any previous version.
func (s *RecipeStore) Save(rec recipe.Recipe) error {
	filePath, err := s.path(rec.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Load reads a single recipe by ID.
func (s *RecipeStore) Load(recipeID string) (*recipe.Recipe, error) {
	filePath, err := s.path(recipeID)
	if err != nil {
		return nil, err
	}
	return loadFile(filePath)
}

// Exists checks if a recipe file exists.
func (s *RecipeStore) Exists(recipeID string) bool {
	filePath, err := s.path(recipeID)
	if err != nil {
		return false
	}
	_, err = os.Stat(filePath)
	return err == nil
}

// ListAll loads every recipe file in the directory, ordered by file name.
func (s *RecipeStore) ListAll() ([]recipe.Recipe, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob recipe files: %w", err)
	}
	sort.Strings(matches)

	recipes := make([]recipe.Recipe, 0, len(matches))
	for _, match := range matches {
		rec, err := loadFile(match)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *rec)
	}
	return recipes, nil
}

func loadFile(filePath string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", filepath.Base(filePath), err)
	}
	return &rec, nil
}
