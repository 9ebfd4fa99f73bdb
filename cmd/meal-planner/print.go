package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/planner"
)

func printPlan(w io.Writer, res *app.PlanResult) {
	fmt.Fprintf(w, "MEAL PLAN %s (%d days)\n", res.PlanID, len(res.Days))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, day := range res.Days {
		fmt.Fprintf(w, "\n%s\n", day.Date.Format("Monday, January 2"))
		for _, m := range day.Meals() {
			fmt.Fprintf(w, "  %-10s %-32s %5.0f kcal  $%.2f\n", m.Type.Title(), recipeNames(m), m.Nutrition().Calories, m.Cost())
		}
		for _, mt := range []planner.MealType{planner.Breakfast, planner.Lunch, planner.Dinner} {
			if !hasSlot(day, mt) {
				fmt.Fprintf(w, "  %-10s (no suitable recipe)\n", mt.Title())
			}
		}
		fmt.Fprintf(w, "  %-10s %-32s %5.0f kcal  $%.2f\n", "Total", "", day.Nutrition().Calories, day.Cost())
	}

	if m := res.NutritionSummary; len(m) > 0 {
		fmt.Fprintln(w, "\nDAILY AVERAGES")
		fmt.Fprintf(w, "  Calories %.0f | Protein %.1fg | Carbs %.1fg | Fat %.1fg | Fiber %.1fg\n",
			m["avg_daily_calories"], m["avg_daily_protein"], m["avg_daily_carbs"], m["avg_daily_fat"], m["avg_daily_fiber"])
		fmt.Fprintf(w, "  Cost $%.2f per day, $%.2f total\n", m["avg_daily_cost"], m["total_weekly_cost"])
	}

	if ba := res.BudgetAnalysis; ba != nil {
		status := "UNDER"
		if !ba.UnderBudget {
			status = "OVER"
		}
		fmt.Fprintf(w, "\nBUDGET: $%.2f of $%.2f (%s by $%.2f)\n", ba.TotalCost, ba.TotalBudget, status, math.Abs(ba.Savings))
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, res.ShoppingListText)

	if res.ShareToken != "" {
		fmt.Fprintf(w, "\nShare token (valid until %s):\n%s\n", res.ShareExpiresAt.Format("2006-01-02 15:04"), res.ShareToken)
	}
}

func recipeNames(m planner.Meal) string {
	names := make([]string, 0, len(m.Recipes))
	for _, r := range m.Recipes {
		names = append(names, r.Name)
	}
	return strings.Join(names, " + ")
}

func hasSlot(day planner.DayPlan, mt planner.MealType) bool {
	switch mt {
	case planner.Breakfast:
		return day.Breakfast != nil
	case planner.Lunch:
		return day.Lunch != nil
	case planner.Dinner:
		return day.Dinner != nil
	}
	return false
}
