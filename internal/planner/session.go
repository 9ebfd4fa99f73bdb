package planner

import (
	"sort"
	"strings"

	"family-meal-planner/internal/recipe"
)

const (
	// mainIngredientsPerRecipe is how many ingredients stand for a recipe in
	// the recent-ingredient window.
	mainIngredientsPerRecipe = 2
	// recentIngredientWindow covers roughly the last three lunch/dinner picks.
	recentIngredientWindow = 3 * mainIngredientsPerRecipe
)

// PlanningSession is the variety state of a single generation run. A fresh
// session is created per run and is never shared between runs.
type PlanningSession struct {
	used   map[MealType][]string
	recent []string
}

// NewPlanningSession returns an empty session.
func NewPlanningSession() *PlanningSession {
	return &PlanningSession{used: make(map[MealType][]string)}
}

// Used returns the recipe IDs selected for the meal type, oldest first.
func (s *PlanningSession) Used(mt MealType) []string {
	out := make([]string, len(s.used[mt]))
	copy(out, s.used[mt])
	return out
}

// IsUsed reports whether the recipe was already picked for the meal type.
func (s *PlanningSession) IsUsed(mt MealType, id string) bool {
	for _, used := range s.used[mt] {
		if used == id {
			return true
		}
	}
	return false
}

// RecentIngredients returns the lower-cased main ingredient names in the window.
func (s *PlanningSession) RecentIngredients() []string {
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// Record marks the recipe as selected for the meal type. Lunch and dinner
// picks also feed the recent-ingredient window.
func (s *PlanningSession) Record(mt MealType, r recipe.Recipe) {
	s.used[mt] = append(s.used[mt], r.ID)
	if !tracksIngredients(mt) {
		return
	}
	s.recent = append(s.recent, mainIngredients(r)...)
	if over := len(s.recent) - recentIngredientWindow; over > 0 {
		s.recent = s.recent[over:]
	}
}

// HasSimilarIngredients reports whether any of the recipe's main ingredients
// appeared in a recent lunch or dinner.
func (s *PlanningSession) HasSimilarIngredients(r recipe.Recipe) bool {
	for _, name := range mainIngredients(r) {
		for _, seen := range s.recent {
			if name == seen {
				return true
			}
		}
	}
	return false
}

// leastRecentlyUsed picks the candidate whose latest selection for the meal
// type is the oldest. Candidates never used win outright.
func (s *PlanningSession) leastRecentlyUsed(mt MealType, candidates []recipe.Recipe) recipe.Recipe {
	lastUse := make(map[string]int, len(s.used[mt]))
	for i, id := range s.used[mt] {
		lastUse[id] = i
	}

	best := candidates[0]
	bestIdx, ok := lastUse[best.ID]
	if !ok {
		return best
	}
	for _, c := range candidates[1:] {
		idx, ok := lastUse[c.ID]
		if !ok {
			return c
		}
		if idx < bestIdx {
			best, bestIdx = c, idx
		}
	}
	return best
}

func tracksIngredients(mt MealType) bool {
	return mt == Lunch || mt == Dinner
}

// mainIngredients returns the lower-cased names of the most energy-dense
// ingredients of the recipe, falling back to ingredient order when no
// nutrition data is present.
func mainIngredients(r recipe.Recipe) []string {
	type weighted struct {
		name     string
		calories float64
	}
	ings := make([]weighted, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		var cal float64
		if n, ok := ing.TotalNutrition(); ok {
			cal = n.Calories
		}
		ings = append(ings, weighted{name: strings.ToLower(strings.TrimSpace(ing.Name)), calories: cal})
	}
	sort.SliceStable(ings, func(i, j int) bool { return ings[i].calories > ings[j].calories })

	n := min(mainIngredientsPerRecipe, len(ings))
	names := make([]string, 0, n)
	for _, ing := range ings[:n] {
		names = append(names, ing.name)
	}
	return names
}
