package planner

import "family-meal-planner/internal/nutrition"

// Summary averages a run's day plans.
type Summary struct {
	Days            int               `json:"days"`
	AvgDaily        nutrition.Profile `json:"avg_daily"`
	AvgDailyCost    float64           `json:"avg_daily_cost"`
	TotalWeeklyCost float64           `json:"total_weekly_cost"`
}

// Summarize reduces the day plans to daily averages and a total cost. An
// empty input yields the zero Summary.
func Summarize(plans []DayPlan) Summary {
	if len(plans) == 0 {
		return Summary{}
	}

	var (
		total nutrition.Profile
		cost  float64
	)
	for _, p := range plans {
		total = total.Add(p.Nutrition())
		cost += p.Cost()
	}

	days := float64(len(plans))
	return Summary{
		Days:            len(plans),
		AvgDaily:        total.Div(days),
		AvgDailyCost:    cost / days,
		TotalWeeklyCost: cost,
	}
}

// Metrics returns the summary as named values. A summary of no days has no metrics.
func (s Summary) Metrics() map[string]float64 {
	if s.Days == 0 {
		return map[string]float64{}
	}
	return map[string]float64{
		"avg_daily_calories": s.AvgDaily.Calories,
		"avg_daily_protein":  s.AvgDaily.Protein,
		"avg_daily_carbs":    s.AvgDaily.Carbohydrates,
		"avg_daily_fat":      s.AvgDaily.Fat,
		"avg_daily_fiber":    s.AvgDaily.Fiber,
		"avg_daily_sugar":    s.AvgDaily.Sugar,
		"avg_daily_sodium":   s.AvgDaily.Sodium,
		"avg_daily_cost":     s.AvgDailyCost,
		"total_weekly_cost":  s.TotalWeeklyCost,
	}
}

// BudgetAnalysis compares a run's cost with the household budget.
type BudgetAnalysis struct {
	DailyBudget  float64 `json:"daily_budget"`
	TotalBudget  float64 `json:"total_budget"`
	TotalCost    float64 `json:"total_cost"`
	UnderBudget  bool    `json:"under_budget"`
	Savings      float64 `json:"savings"`
	ShoppingCost float64 `json:"shopping_cost"`
}

// AnalyzeBudget scales the daily budget over the planned days. Savings is
// negative when the plan overshoots.
func AnalyzeBudget(dailyBudget float64, summary Summary, shoppingCost float64) BudgetAnalysis {
	total := dailyBudget * float64(summary.Days)
	return BudgetAnalysis{
		DailyBudget:  dailyBudget,
		TotalBudget:  total,
		TotalCost:    summary.TotalWeeklyCost,
		UnderBudget:  summary.TotalWeeklyCost <= total,
		Savings:      total - summary.TotalWeeklyCost,
		ShoppingCost: shoppingCost,
	}
}
