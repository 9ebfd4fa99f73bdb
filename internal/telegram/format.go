package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/planner"
)

const helpText = "🍽 *Family Meal Planner*\n\n" +
	"/plan `days=7 calories=2000 budget=25 diet=vegetarian,gluten-free kids=yes family=4`\n" +
	"  every argument is optional\n" +
	"/recipes - list the recipe catalog\n" +
	"/history - your recent plans\n"

var mealIcons = map[planner.MealType]string{
	planner.Breakfast: "🍳",
	planner.Lunch:     "🥗",
	planner.Dinner:    "🍽",
	planner.Snack:     "🍎",
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// parsePlanArgs reads "key=value" pairs from the /plan command arguments.
func parsePlanArgs(args string) (app.PlanRequest, error) {
	var req app.PlanRequest
	for _, field := range strings.Fields(args) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || value == "" {
			return app.PlanRequest{}, fmt.Errorf("%w: expected key=value, got %q", app.ErrInvalidRequest, field)
		}

		var err error
		switch strings.ToLower(key) {
		case "days":
			req.Days, err = strconv.Atoi(value)
		case "calories":
			req.CalorieLimit, err = strconv.ParseFloat(value, 64)
		case "family":
			req.FamilySize, err = strconv.Atoi(value)
		case "budget":
			var b float64
			b, err = strconv.ParseFloat(strings.TrimPrefix(value, "$"), 64)
			req.DailyBudget = &b
		case "diet":
			for _, tag := range strings.Split(value, ",") {
				if tag = strings.TrimSpace(strings.ToLower(tag)); tag != "" {
					req.DietaryRestrictions = append(req.DietaryRestrictions, tag)
				}
			}
		case "kids":
			var kids bool
			kids, err = parseYesNo(value)
			req.KidFriendlyOnly = &kids
		default:
			return app.PlanRequest{}, fmt.Errorf("%w: unknown option %q", app.ErrInvalidRequest, key)
		}
		if err != nil {
			return app.PlanRequest{}, fmt.Errorf("%w: bad value for %s: %q", app.ErrInvalidRequest, key, value)
		}
	}
	return req, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "on", "1":
		return true, nil
	case "no", "n", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a yes/no value: %q", s)
}

func formatPlanMarkdown(res *app.PlanResult) string {
	var pb strings.Builder
	fmt.Fprintf(&pb, "📅 *%d-Day Meal Plan*\n\n", len(res.Days))

	for _, day := range res.Days {
		fmt.Fprintf(&pb, "*%s*\n", day.Date.Format("Mon, Jan 2"))
		for _, mt := range []planner.MealType{planner.Breakfast, planner.Lunch, planner.Dinner} {
			fmt.Fprintf(&pb, "%s %s: %s\n", mealIcons[mt], mt.Title(), mealLabel(slotMeal(day, mt)))
		}
		if len(day.Snacks) > 0 {
			names := make([]string, 0, len(day.Snacks))
			for _, s := range day.Snacks {
				names = append(names, mealLabel(&s))
			}
			fmt.Fprintf(&pb, "%s Snacks: %s\n", mealIcons[planner.Snack], strings.Join(names, ", "))
		}
		fmt.Fprintf(&pb, "_%s kcal • $%.2f_\n\n", humanize.Comma(int64(day.Nutrition().Calories+0.5)), day.Cost())
	}

	if m := res.NutritionSummary; len(m) > 0 {
		fmt.Fprintf(&pb, "📊 *Daily Average:* %s kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
			humanize.Comma(int64(m["avg_daily_calories"]+0.5)), m["avg_daily_protein"], m["avg_daily_carbs"], m["avg_daily_fat"])
	}
	fmt.Fprintf(&pb, "💰 *Total Cost:* $%.2f\n", res.TotalCost)

	if ba := res.BudgetAnalysis; ba != nil {
		if ba.UnderBudget {
			fmt.Fprintf(&pb, "✅ Under budget by $%.2f\n", ba.Savings)
		} else {
			fmt.Fprintf(&pb, "⚠️ Over budget by $%.2f\n", -ba.Savings)
		}
	}
	if res.ShareExpiresAt != nil {
		fmt.Fprintf(&pb, "🔗 Share link valid until %s\n", res.ShareExpiresAt.Format("Jan 2"))
	}
	return pb.String()
}

func slotMeal(day planner.DayPlan, mt planner.MealType) *planner.Meal {
	switch mt {
	case planner.Breakfast:
		return day.Breakfast
	case planner.Lunch:
		return day.Lunch
	case planner.Dinner:
		return day.Dinner
	}
	return nil
}

func mealLabel(m *planner.Meal) string {
	if m == nil || len(m.Recipes) == 0 {
		return "_nothing suitable_"
	}
	names := make([]string, 0, len(m.Recipes))
	for _, r := range m.Recipes {
		names = append(names, escape(r.Name))
	}
	return strings.Join(names, " + ")
}

// formatShoppingMarkdown wraps the plain-text shopping list in a code block
// so its alignment survives.
func formatShoppingMarkdown(res *app.PlanResult) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n")
	if res.ShoppingList.ItemCount() == 0 {
		sb.WriteString("\n_Nothing to buy_\n")
		return sb.String()
	}
	sb.WriteString("```\n")
	sb.WriteString(strings.ReplaceAll(res.ShoppingListText, "`", "'"))
	sb.WriteString("```\n")
	return sb.String()
}

func formatRecipesMarkdown(recipes []app.RecipeSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 *Recipe Catalog* (%d)\n\n", len(recipes))
	for _, r := range recipes {
		fmt.Fprintf(&sb, "• %s - %d min, %.0f kcal, $%.2f", escape(r.Name), r.TotalTime, r.NutritionPerServing.Calories, r.CostPerServing)
		if len(r.DietaryTags) > 0 {
			fmt.Fprintf(&sb, " _%s_", escape(strings.Join(r.DietaryTags, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatHistoryMarkdown(plans []planner.StoredPlan) string {
	if len(plans) == 0 {
		return "🗂 You have no saved plans yet. Try /plan"
	}
	var sb strings.Builder
	sb.WriteString("🗂 *Recent Plans*\n\n")
	for i, p := range plans {
		fmt.Fprintf(&sb, "%d. *%s*: %d days, $%.2f total",
			i+1, humanize.Time(p.CreatedAt), p.Summary.Days, p.Summary.TotalWeeklyCost)
		if len(p.Request.DietaryRestrictions) > 0 {
			fmt.Fprintf(&sb, " _%s_", escape(strings.Join(p.Request.DietaryRestrictions, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatMetricsReport(activity []metrics.DailyActivity, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Plan Activity*\n")
	if len(activity) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range activity {
		fmt.Fprintf(&sb, "• *%s*: %d plans, %d/%d slots filled, %.0fms avg\n",
			d.Date, d.Plans, d.FilledSlots, d.FilledSlots+d.MissingSlots, d.AvgLatencyMS)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %s (Alloc) / %s (Sys)\n", health.Alloc, health.Sys)
	fmt.Fprintf(&sb, "• GC Cycles: %d\n", health.NumGC)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s (schema v%d)\n", health.DataDiskSize, health.SchemaVersion)
	return sb.String()
}
