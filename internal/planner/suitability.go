package planner

import (
	"strings"

	"family-meal-planner/internal/nutrition"
	"family-meal-planner/internal/recipe"
)

// suitabilityRule admits a recipe for a meal type. n is the recipe's
// per-serving nutrition, computed once per classification.
type suitabilityRule func(r recipe.Recipe, n nutrition.Profile) bool

// suitabilityRules maps each meal type to the rules tried in order. A recipe
// matching any rule is suitable.
var suitabilityRules = map[MealType][]suitabilityRule{
	Breakfast: {
		idPrefix(Breakfast),
		keywords("pancake", "cereal", "oatmeal", "toast", "egg", "breakfast", "smoothie",
			"french toast", "muffin", "waffle", "bagel", "granola", "yogurt"),
		func(r recipe.Recipe, n nutrition.Profile) bool {
			return r.PrepTime <= 15 && n.Calories <= 500 && n.Carbohydrates > 20
		},
	},
	Lunch: {
		idPrefix(Lunch),
		keywords("sandwich", "salad", "soup", "wrap", "lunch", "pasta", "bowl", "quesadilla",
			"burger", "taco", "pizza", "grilled cheese", "nugget"),
	},
	Dinner: {
		idPrefix(Dinner),
		keywords("chicken", "beef", "fish", "dinner", "roast", "stir", "casserole", "pasta",
			"rice", "stew", "curry", "meatball", "taco", "enchilada", "lasagna"),
		func(r recipe.Recipe, n nutrition.Profile) bool {
			return r.CookTime > 15 && n.Calories > 300 && n.Protein > 15
		},
	},
	Snack: {
		idPrefix(Snack),
		keywords("snack", "fruit", "yogurt", "crackers", "nuts", "muffin", "cookie",
			"popcorn", "chips", "dip", "smoothie", "bar"),
		func(r recipe.Recipe, n nutrition.Profile) bool {
			return n.Calories < 300 && r.PrepTime <= 10
		},
	},
}

func idPrefix(mt MealType) suitabilityRule {
	return func(r recipe.Recipe, _ nutrition.Profile) bool {
		return strings.HasPrefix(r.ID, string(mt))
	}
}

func keywords(words ...string) suitabilityRule {
	return func(r recipe.Recipe, _ nutrition.Profile) bool {
		name := strings.ToLower(r.Name)
		desc := strings.ToLower(r.Description)
		for _, w := range words {
			if strings.Contains(name, w) || strings.Contains(desc, w) {
				return true
			}
		}
		return false
	}
}

// Suitable narrows the pool to recipes that fit the meal type. The result may
// be empty, leaving the slot unfilled. A pool in which no recipe fits any meal
// type is returned whole, so an untagged catalog still yields plans.
func Suitable(pool []recipe.Recipe, mt MealType) []recipe.Recipe {
	out := matching(pool, suitabilityRules[mt])
	if len(out) == 0 && !classifiable(pool) {
		return pool
	}
	return out
}

func matching(pool []recipe.Recipe, rules []suitabilityRule) []recipe.Recipe {
	var out []recipe.Recipe
	for _, r := range pool {
		if matchesAny(r, r.NutritionPerServing(), rules) {
			out = append(out, r)
		}
	}
	return out
}

// classifiable reports whether any recipe fits any meal type.
func classifiable(pool []recipe.Recipe) bool {
	for _, r := range pool {
		n := r.NutritionPerServing()
		for _, rules := range suitabilityRules {
			if matchesAny(r, n, rules) {
				return true
			}
		}
	}
	return false
}

func matchesAny(r recipe.Recipe, n nutrition.Profile, rules []suitabilityRule) bool {
	for _, rule := range rules {
		if rule(r, n) {
			return true
		}
	}
	return false
}
