package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"family-meal-planner/internal/nutrition"
	"family-meal-planner/internal/recipe"
)

func TestMainIngredients(t *testing.T) {
	r := recipe.Recipe{
		ID:       "r",
		Servings: 1,
		Ingredients: []recipe.Ingredient{
			{Name: "Salt", Amount: 1},
			{Name: "Rice", Amount: 1, NutritionPerUnit: &nutrition.Profile{Calories: 200}},
			{Name: "Chicken Breast", Amount: 2, NutritionPerUnit: &nutrition.Profile{Calories: 150}},
		},
	}
	assert.Equal(t, []string{"chicken breast", "rice"}, mainIngredients(r))

	plain := recipe.Recipe{Ingredients: []recipe.Ingredient{{Name: "A"}, {Name: "B"}, {Name: "C"}}}
	assert.Equal(t, []string{"a", "b"}, mainIngredients(plain))

	assert.Empty(t, mainIngredients(recipe.Recipe{}))
}

func TestPlanningSession(t *testing.T) {
	t.Run("tracks used recipes per meal type", func(t *testing.T) {
		s := NewPlanningSession()
		s.Record(Lunch, mkRecipe("a", "A", 100, 1))

		assert.True(t, s.IsUsed(Lunch, "a"))
		assert.False(t, s.IsUsed(Dinner, "a"))
		assert.Equal(t, []string{"a"}, s.Used(Lunch))
		assert.Empty(t, s.Used(Dinner))
	})

	t.Run("only lunch and dinner feed the ingredient window", func(t *testing.T) {
		s := NewPlanningSession()
		s.Record(Breakfast, mkRecipe("a", "Eggs", 100, 1, ingredient("egg")))
		s.Record(Snack, mkRecipe("b", "Fruit", 100, 1, ingredient("apple")))
		assert.Empty(t, s.RecentIngredients())

		s.Record(Dinner, mkRecipe("c", "Fish", 100, 1, ingredient("Salmon")))
		assert.Equal(t, []string{"salmon"}, s.RecentIngredients())
		assert.True(t, s.HasSimilarIngredients(mkRecipe("d", "Salmon Bowl", 100, 1, ingredient("salmon"))))
		assert.False(t, s.HasSimilarIngredients(mkRecipe("e", "Egg Bowl", 100, 1, ingredient("egg"))))
	})

	t.Run("window is bounded", func(t *testing.T) {
		s := NewPlanningSession()
		for _, name := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
			s.Record(Lunch, mkRecipe(name, name, 100, 1, ingredient(name)))
		}

		recent := s.RecentIngredients()
		assert.Len(t, recent, recentIngredientWindow)
		assert.NotContains(t, recent, "one")
		assert.Contains(t, recent, "seven")
	})

	t.Run("sessions are independent", func(t *testing.T) {
		a, b := NewPlanningSession(), NewPlanningSession()
		a.Record(Lunch, mkRecipe("x", "X", 100, 1))
		assert.False(t, b.IsUsed(Lunch, "x"))
	})
}
