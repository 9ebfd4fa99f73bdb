package planner

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"family-meal-planner/internal/nutrition"
	"family-meal-planner/internal/recipe"
)

// MealType tags the slot a meal fills.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

var titleCaser = cases.Title(language.English)

// Title returns the display form of the meal type, e.g. "Breakfast".
func (m MealType) Title() string {
	return titleCaser.String(string(m))
}

// Meal is one filled slot of a day. The generator always wraps a single recipe.
type Meal struct {
	Name    string          `json:"name"`
	Type    MealType        `json:"meal_type"`
	Recipes []recipe.Recipe `json:"recipes"`
}

func newMeal(mt MealType, r recipe.Recipe) *Meal {
	return &Meal{
		Name:    mt.Title() + " - " + r.Name,
		Type:    mt,
		Recipes: []recipe.Recipe{r},
	}
}

// Nutrition sums the per-serving nutrition of the meal's recipes.
func (m Meal) Nutrition() nutrition.Profile {
	var total nutrition.Profile
	for _, r := range m.Recipes {
		total = total.Add(r.NutritionPerServing())
	}
	return total
}

// Cost sums the per-serving cost of the meal's recipes.
func (m Meal) Cost() float64 {
	var total float64
	for _, r := range m.Recipes {
		total += r.CostPerServing()
	}
	return total
}

// DayPlan holds the meals planned for one calendar day. Missing slots are nil.
type DayPlan struct {
	Date      time.Time `json:"date"`
	Breakfast *Meal     `json:"breakfast,omitempty"`
	Lunch     *Meal     `json:"lunch,omitempty"`
	Dinner    *Meal     `json:"dinner,omitempty"`
	Snacks    []Meal    `json:"snacks"`
}

// Meals returns the present meals in serving order: breakfast, lunch, dinner, then snacks.
func (d DayPlan) Meals() []Meal {
	meals := make([]Meal, 0, 3+len(d.Snacks))
	for _, m := range []*Meal{d.Breakfast, d.Lunch, d.Dinner} {
		if m != nil {
			meals = append(meals, *m)
		}
	}
	return append(meals, d.Snacks...)
}

// Nutrition sums every present meal.
func (d DayPlan) Nutrition() nutrition.Profile {
	var total nutrition.Profile
	for _, m := range d.Meals() {
		total = total.Add(m.Nutrition())
	}
	return total
}

// Cost sums every present meal.
func (d DayPlan) Cost() float64 {
	var total float64
	for _, m := range d.Meals() {
		total += m.Cost()
	}
	return total
}

func (d DayPlan) WithinCalorieLimit(limit float64) bool {
	return d.Nutrition().Calories <= limit
}

func (d DayPlan) WithinBudget(budget float64) bool {
	return d.Cost() <= budget
}

// FilledSlots counts the meals present in the day.
func (d DayPlan) FilledSlots() int {
	return len(d.Meals())
}
