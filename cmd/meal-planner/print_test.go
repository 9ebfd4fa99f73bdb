package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/nutrition"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/recipe"
)

func TestPrintPlan(t *testing.T) {
	cost := 2.0
	r := recipe.Recipe{
		ID:       "breakfast_001",
		Name:     "Oatmeal",
		Servings: 1,
		Ingredients: []recipe.Ingredient{{
			Name: "oats", Amount: 1, Unit: "cup",
			NutritionPerUnit: &nutrition.Profile{Calories: 350},
			CostPerUnit:      &cost,
		}},
	}
	expires := time.Date(2026, 10, 23, 12, 0, 0, 0, time.UTC)
	res := &app.PlanResult{
		PlanID: "p1",
		Days: []planner.DayPlan{{
			Date:      time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
			Breakfast: &planner.Meal{Type: planner.Breakfast, Recipes: []recipe.Recipe{r}},
			Snacks:    []planner.Meal{},
		}},
		BudgetAnalysis:   &planner.BudgetAnalysis{TotalBudget: 1, TotalCost: 2, Savings: -1},
		ShoppingListText: "SHOPPING LIST\n",
		ShareToken:       "tok",
		ShareExpiresAt:   &expires,
	}

	var buf bytes.Buffer
	printPlan(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "MEAL PLAN p1 (1 days)")
	assert.Contains(t, out, "Friday, October 16")
	assert.Contains(t, out, "Oatmeal")
	assert.Contains(t, out, "Lunch      (no suitable recipe)")
	assert.Contains(t, out, "BUDGET: $2.00 of $1.00 (OVER by $1.00)")
	assert.Contains(t, out, "SHOPPING LIST")
	assert.Contains(t, out, "valid until 2026-10-23 12:00")
}
