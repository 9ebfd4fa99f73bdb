package recipe

import (
	"errors"
	"fmt"

	"family-meal-planner/internal/nutrition"
	"family-meal-planner/internal/validation"
)

var (
	ErrInvalidRecipe   = errors.New("invalid recipe")
	ErrInvalidServings = errors.New("servings must be greater than 0")
	ErrDuplicateID     = errors.New("duplicate recipe id")
)

// Difficulty tags how hard a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Ingredient is a single line of a recipe. Nutrition and cost are given per
// unit, so the totals scale with Amount.
type Ingredient struct {
	Name             string             `json:"name"`
	Amount           float64            `json:"amount" validate:"gt=0"`
	Unit             string             `json:"unit"`
	NutritionPerUnit *nutrition.Profile `json:"nutrition_per_unit,omitempty" validate:"-"`
	CostPerUnit      *float64           `json:"cost_per_unit,omitempty" validate:"omitempty,gte=0"`
}

// TotalNutrition returns the nutrition for the whole amount. The second value
// is false when the ingredient has no nutrition data.
func (i Ingredient) TotalNutrition() (nutrition.Profile, bool) {
	if i.NutritionPerUnit == nil {
		return nutrition.Profile{}, false
	}
	return i.NutritionPerUnit.Scale(i.Amount), true
}

// TotalCost returns the cost for the whole amount, zero when unpriced.
func (i Ingredient) TotalCost() float64 {
	return i.UnitCost() * i.Amount
}

// UnitCost returns the per-unit cost, zero when unpriced.
func (i Ingredient) UnitCost() float64 {
	if i.CostPerUnit == nil {
		return 0
	}
	return *i.CostPerUnit
}

// Recipe is a read-only catalog record.
type Recipe struct {
	ID           string       `json:"id" validate:"notblank"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients" validate:"dive"`
	Instructions []string     `json:"instructions"`
	PrepTime     int          `json:"prep_time" validate:"gte=0"` // minutes
	CookTime     int          `json:"cook_time" validate:"gte=0"` // minutes
	Servings     int          `json:"servings" validate:"gt=0"`
	Difficulty   Difficulty   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	KidFriendly  bool         `json:"kid_friendly"`
	DietaryTags  []string     `json:"dietary_tags"`
}

// TotalTime is prep plus cook time in minutes.
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// NutritionPerServing sums the ingredient nutrition and divides it by the
// serving count. A recipe without servings yields an empty profile.
func (r Recipe) NutritionPerServing() nutrition.Profile {
	var total nutrition.Profile
	if r.Servings <= 0 {
		return total
	}
	for _, ing := range r.Ingredients {
		if n, ok := ing.TotalNutrition(); ok {
			total = total.Add(n)
		}
	}
	return total.Div(float64(r.Servings))
}

// CostPerServing sums the ingredient costs and divides by the serving count.
func (r Recipe) CostPerServing() float64 {
	if r.Servings <= 0 {
		return 0
	}
	var total float64
	for _, ing := range r.Ingredients {
		total += ing.TotalCost()
	}
	return total / float64(r.Servings)
}

// HasTags reports whether the recipe carries every one of the given dietary tags.
func (r Recipe) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range r.DietaryTags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Validate checks the invariants a catalog record must hold. Every error
// wraps ErrInvalidRecipe; a bad serving count also wraps ErrInvalidServings
// and bad ingredient nutrition wraps nutrition.ErrInvalidNutrition.
func (r Recipe) Validate() error {
	if err := validation.Struct(r); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) && verr.Failed("servings") {
			return fmt.Errorf("%w: recipe %q: %w: %v", ErrInvalidRecipe, r.ID, ErrInvalidServings, err)
		}
		return fmt.Errorf("%w: recipe %q: %v", ErrInvalidRecipe, r.ID, err)
	}
	for i, ing := range r.Ingredients {
		if ing.NutritionPerUnit == nil {
			continue
		}
		if err := ing.NutritionPerUnit.Validate(); err != nil {
			return fmt.Errorf("%w: recipe %q ingredients[%d] %q: %w", ErrInvalidRecipe, r.ID, i, ing.Name, err)
		}
	}
	return nil
}
