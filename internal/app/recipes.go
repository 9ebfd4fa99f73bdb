package app

import (
	"family-meal-planner/internal/nutrition"
	"family-meal-planner/internal/recipe"
)

// RecipeSummary is the listing form of a catalog recipe.
type RecipeSummary struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	PrepTime            int                 `json:"prep_time"`
	CookTime            int                 `json:"cook_time"`
	TotalTime           int                 `json:"total_time"`
	Servings            int                 `json:"servings"`
	Difficulty          recipe.Difficulty   `json:"difficulty"`
	KidFriendly         bool                `json:"kid_friendly"`
	DietaryTags         []string            `json:"dietary_tags"`
	NutritionPerServing nutrition.Profile   `json:"nutrition_per_serving"`
	CostPerServing      float64             `json:"cost_per_serving"`
	Ingredients         []recipe.Ingredient `json:"ingredients"`
	Instructions        []string            `json:"instructions"`
}

// Recipes lists the loaded catalog in catalog order.
func (a *App) Recipes() ([]RecipeSummary, error) {
	a.mu.RLock()
	catalog := a.catalog
	a.mu.RUnlock()
	if catalog == nil {
		return nil, ErrCatalogNotLoaded
	}

	all := catalog.All()
	out := make([]RecipeSummary, 0, len(all))
	for _, r := range all {
		out = append(out, RecipeSummary{
			ID:                  r.ID,
			Name:                r.Name,
			Description:         r.Description,
			PrepTime:            r.PrepTime,
			CookTime:            r.CookTime,
			TotalTime:           r.TotalTime(),
			Servings:            r.Servings,
			Difficulty:          r.Difficulty,
			KidFriendly:         r.KidFriendly,
			DietaryTags:         r.DietaryTags,
			NutritionPerServing: r.NutritionPerServing().Round(),
			CostPerServing:      r.CostPerServing(),
			Ingredients:         r.Ingredients,
			Instructions:        r.Instructions,
		})
	}
	return out, nil
}
