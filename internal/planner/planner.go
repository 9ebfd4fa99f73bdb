package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"family-meal-planner/internal/recipe"
)

// ErrNoEligibleRecipes is returned when the dietary and kid-friendly filters
// leave nothing to plan with.
var ErrNoEligibleRecipes = errors.New("no recipes available with the given criteria")

const (
	calorieCeiling = 1.2
	budgetCeiling  = 1.3
	unusedBonus    = 0.8
	similarPenalty = 1.25
)

// slot is one meal position of a day with its share of the daily targets.
type slot struct {
	mealType     MealType
	calorieShare float64
	budgetShare  float64
}

var (
	breakfastSlot      = slot{Breakfast, 0.25, 0.20}
	lunchSlot          = slot{Lunch, 0.30, 0.30}
	dinnerSlot         = slot{Dinner, 0.30, 0.35}
	morningSnackSlot   = slot{Snack, 0.075, 0.075}
	afternoonSnackSlot = slot{Snack, 0.075, 0.075}
)

// Request describes a generation run.
type Request struct {
	Days                int      `json:"days"`
	DailyCalorieLimit   float64  `json:"daily_calorie_limit"`
	FamilySize          int      `json:"family_size"` // accepted, does not scale targets
	DietaryRestrictions []string `json:"dietary_restrictions"`
	KidFriendlyOnly     bool     `json:"kid_friendly_only"`
	DailyBudget         *float64 `json:"daily_budget,omitempty"`
}

// DefaultRequest returns a one-week, 2000 kcal, kid-friendly request for four.
func DefaultRequest() Request {
	return Request{
		Days:              7,
		DailyCalorieLimit: 2000,
		FamilySize:        4,
		KidFriendlyOnly:   true,
	}
}

type Option func(*Generator)

// WithLogger sets the logger used for slot-level debug output.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock overrides the source of the first plan date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator builds multi-day meal plans from a read-only catalog. It holds no
// per-run state, so one Generator can serve concurrent callers.
type Generator struct {
	recipes     []recipe.Recipe
	kidFriendly []recipe.Recipe
	logger      *zap.Logger
	now         func() time.Time
}

// NewGenerator precomputes the kid-friendly subset of the catalog.
func NewGenerator(catalog *recipe.Catalog, opts ...Option) *Generator {
	g := &Generator{
		recipes: catalog.All(),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, r := range g.recipes {
		if r.KidFriendly {
			g.kidFriendly = append(g.kidFriendly, r)
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Filter returns the recipes that are kid-friendly (when requested) and carry
// every requested dietary tag, in catalog order.
func (g *Generator) Filter(restrictions []string, kidFriendlyOnly bool) []recipe.Recipe {
	source := g.recipes
	if kidFriendlyOnly {
		source = g.kidFriendly
	}
	out := make([]recipe.Recipe, 0, len(source))
	for _, r := range source {
		if r.HasTags(restrictions) {
			out = append(out, r)
		}
	}
	return out
}

// Generate plans req.Days consecutive days starting today. The run aborts
// with ErrNoEligibleRecipes before any day is planned if filtering leaves
// nothing. Slots without a fitting recipe are left empty. A non-positive
// day count yields an empty plan.
func (g *Generator) Generate(req Request) ([]DayPlan, error) {
	eligible := g.Filter(req.DietaryRestrictions, req.KidFriendlyOnly)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: restrictions=%v kid_friendly_only=%t", ErrNoEligibleRecipes, req.DietaryRestrictions, req.KidFriendlyOnly)
	}

	session := NewPlanningSession()
	start := g.now()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	plans := make([]DayPlan, 0, max(req.Days, 0))
	for day := 0; day < req.Days; day++ {
		plan := g.planDay(session, eligible, req, float64(day))
		plan.Date = start.AddDate(0, 0, day)
		plans = append(plans, plan)
	}

	g.logger.Debug("meal plan generated",
		zap.Int("days", req.Days),
		zap.Int("eligible_recipes", len(eligible)),
	)
	return plans, nil
}

func (g *Generator) planDay(session *PlanningSession, eligible []recipe.Recipe, req Request, day float64) DayPlan {
	pick := func(s slot, pool []recipe.Recipe, seed float64) *Meal {
		var budget *float64
		if req.DailyBudget != nil && *req.DailyBudget > 0 {
			b := *req.DailyBudget * s.budgetShare
			budget = &b
		}
		return g.SelectMeal(session, s.mealType, pool, req.DailyCalorieLimit*s.calorieShare, budget, seed)
	}

	plan := DayPlan{
		Breakfast: pick(breakfastSlot, eligible, day),
		Lunch:     pick(lunchSlot, eligible, day),
		Dinner:    pick(dinnerSlot, eligible, day),
		Snacks:    []Meal{},
	}

	morning := pick(morningSnackSlot, eligible, day)
	afternoonPool := excludeMorningSnack(eligible, morning)
	afternoon := pick(afternoonSnackSlot, afternoonPool, day+0.5)

	for _, m := range []*Meal{morning, afternoon} {
		if m != nil {
			plan.Snacks = append(plan.Snacks, *m)
		}
	}
	return plan
}

// excludeMorningSnack drops the morning snack's recipe from the pool. If that
// leaves nothing, or there was no morning snack, the full pool is used.
func excludeMorningSnack(pool []recipe.Recipe, morning *Meal) []recipe.Recipe {
	if morning == nil || len(morning.Recipes) == 0 {
		return pool
	}
	out := make([]recipe.Recipe, 0, len(pool))
	for _, r := range pool {
		if r.ID != morning.Recipes[0].ID {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

// SelectMeal picks the best recipe for one slot and records the pick in the
// session. A nil target budget disables the cost terms. It returns nil when
// no candidate fits under the ceilings.
func (g *Generator) SelectMeal(session *PlanningSession, mt MealType, pool []recipe.Recipe, targetCalories float64, targetBudget *float64, seed float64) *Meal {
	suitable := Suitable(pool, mt)
	if len(suitable) == 0 {
		return nil
	}

	candidates := make([]recipe.Recipe, 0, len(suitable))
	for _, r := range suitable {
		if !session.IsUsed(mt, r.ID) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		if seed >= float64(len(suitable)) {
			candidates = suitable
		} else {
			candidates = []recipe.Recipe{session.leastRecentlyUsed(mt, suitable)}
		}
	}

	var (
		best      *recipe.Recipe
		bestScore = math.Inf(1)
	)
	for i := range candidates {
		score, ok := g.score(session, mt, candidates[i], targetCalories, targetBudget)
		if ok && score < bestScore {
			best, bestScore = &candidates[i], score
		}
	}

	if best == nil {
		g.logger.Debug("slot left empty",
			zap.String("meal_type", string(mt)),
			zap.Float64("target_calories", targetCalories),
			zap.Int("candidates", len(candidates)),
		)
		return nil
	}

	session.Record(mt, *best)
	g.logger.Debug("slot filled",
		zap.String("meal_type", string(mt)),
		zap.String("recipe_id", best.ID),
		zap.Float64("score", bestScore),
		zap.Float64("seed", seed),
	)
	return newMeal(mt, *best)
}

// score rates a candidate, lower is better. ok is false when the candidate
// breaks a calorie or budget ceiling.
func (g *Generator) score(session *PlanningSession, mt MealType, r recipe.Recipe, targetCalories float64, targetBudget *float64) (float64, bool) {
	calories := r.NutritionPerServing().Calories
	cost := r.CostPerServing()

	if calories > targetCalories*calorieCeiling {
		return 0, false
	}
	if targetBudget != nil && cost > *targetBudget*budgetCeiling {
		return 0, false
	}

	score := math.Abs(calories-targetCalories) / targetCalories
	if targetBudget != nil && *targetBudget > 0 {
		score += math.Abs(cost-*targetBudget) / *targetBudget
	}
	if !session.IsUsed(mt, r.ID) {
		score *= unusedBonus
	}
	if tracksIngredients(mt) && session.HasSimilarIngredients(r) {
		score *= similarPenalty
	}
	return score, true
}
