package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"family-meal-planner/internal/recipe"
)

func TestSuitable(t *testing.T) {
	carbBreakfast := mkRecipe("r_oats", "Overnight Oats", 350, 1)
	carbBreakfast.PrepTime = 5
	carbBreakfast.Ingredients[0].NutritionPerUnit.Carbohydrates = 40

	hearty := mkRecipe("r_hearty", "Hearty Plate", 700, 5)
	hearty.CookTime = 40
	hearty.Ingredients[0].NutritionPerUnit.Protein = 35

	tests := []struct {
		name string
		pool []recipe.Recipe
		mt   MealType
		want []string
	}{
		{
			name: "id prefix",
			pool: []recipe.Recipe{mkRecipe("dinner_1", "Mystery", 900, 1), mkRecipe("x", "Other", 900, 1)},
			mt:   Dinner,
			want: []string{"dinner_1"},
		},
		{
			name: "keyword in name",
			pool: []recipe.Recipe{mkRecipe("x", "Mini Pizza Bites", 900, 1), mkRecipe("y", "Plain", 900, 1)},
			mt:   Lunch,
			want: []string{"x"},
		},
		{
			name: "keyword in description",
			pool: func() []recipe.Recipe {
				r := mkRecipe("x", "Plain", 900, 1)
				r.Description = "A crunchy trail mix with NUTS"
				return []recipe.Recipe{r, mkRecipe("y", "Plain", 900, 1)}
			}(),
			mt:   Snack,
			want: []string{"x"},
		},
		{
			name: "breakfast heuristic",
			pool: []recipe.Recipe{carbBreakfast, mkRecipe("y", "Plain", 900, 1)},
			mt:   Breakfast,
			want: []string{"r_oats"},
		},
		{
			name: "lunch has no nutrition heuristic",
			pool: []recipe.Recipe{mkRecipe("x", "Plain", 400, 1), mkRecipe("breakfast_1", "Plain", 400, 1)},
			mt:   Lunch,
			want: []string{},
		},
		{
			name: "dinner heuristic",
			pool: []recipe.Recipe{hearty, mkRecipe("y", "Plain", 700, 1)},
			mt:   Dinner,
			want: []string{"r_hearty"},
		},
		{
			name: "snack heuristic",
			pool: []recipe.Recipe{mkRecipe("x", "Plain", 120, 1), mkRecipe("y", "Plain", 300, 1)},
			mt:   Snack,
			want: []string{"x"},
		},
		{
			name: "empty when other meal types match",
			pool: []recipe.Recipe{mkRecipe("snack_1", "Plain", 900, 1), mkRecipe("y", "Plain", 950, 1)},
			mt:   Breakfast,
			want: []string{},
		},
		{
			name: "falls back to the whole pool",
			pool: []recipe.Recipe{mkRecipe("x", "Plain", 900, 1), mkRecipe("y", "Plain", 950, 1)},
			mt:   Breakfast,
			want: []string{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Suitable(tt.pool, tt.mt)))
		})
	}
}

func TestSampleCatalogClassification(t *testing.T) {
	pool := mustSample(t).All()

	for _, mt := range []MealType{Breakfast, Lunch, Dinner, Snack} {
		suitable := Suitable(pool, mt)
		assert.Less(t, len(suitable), len(pool), mt)
		assert.Contains(t, ids(suitable), string(mt)+"_001", mt)
	}
}
