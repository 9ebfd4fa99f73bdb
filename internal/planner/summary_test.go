package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayPlanAggregates(t *testing.T) {
	breakfast := newMeal(Breakfast, mkRecipe("b", "Toast", 300, 1))
	snack := newMeal(Snack, mkRecipe("s", "Apple", 100, 0.5))

	p := DayPlan{Breakfast: breakfast, Snacks: []Meal{*snack}}

	assert.Equal(t, 2, p.FilledSlots())
	assert.InDelta(t, 400, p.Nutrition().Calories, 1e-9)
	assert.InDelta(t, 1.5, p.Cost(), 1e-9)
	assert.True(t, p.WithinCalorieLimit(400))
	assert.False(t, p.WithinCalorieLimit(399))
	assert.True(t, p.WithinBudget(1.5))
	assert.False(t, p.WithinBudget(1))

	var empty DayPlan
	assert.Zero(t, empty.Nutrition().Calories)
	assert.Zero(t, empty.Cost())
}

func TestSummarize(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, Summary{}, s)
		assert.Empty(t, s.Metrics())
	})

	t.Run("averages across days", func(t *testing.T) {
		plans := []DayPlan{
			{Breakfast: newMeal(Breakfast, mkRecipe("a", "A", 400, 2))},
			{Dinner: newMeal(Dinner, mkRecipe("b", "B", 800, 6))},
		}

		s := Summarize(plans)
		m := s.Metrics()

		assert.Equal(t, 2, s.Days)
		assert.InDelta(t, 600, m["avg_daily_calories"], 1e-9)
		assert.InDelta(t, 4, m["avg_daily_cost"], 1e-9)
		assert.InDelta(t, 8, m["total_weekly_cost"], 1e-9)
		assert.Len(t, m, 9)
	})
}

func TestAnalyzeBudget(t *testing.T) {
	s := Summary{Days: 7, TotalWeeklyCost: 210}

	under := AnalyzeBudget(40, s, 205)
	assert.InDelta(t, 280, under.TotalBudget, 1e-9)
	assert.True(t, under.UnderBudget)
	assert.InDelta(t, 70, under.Savings, 1e-9)
	assert.InDelta(t, 205, under.ShoppingCost, 1e-9)

	over := AnalyzeBudget(20, s, 205)
	assert.False(t, over.UnderBudget)
	assert.InDelta(t, -70, over.Savings, 1e-9)
}
