package shopping

import "time"

// ShoppingList represents a stored shopping list for a meal plan.
type ShoppingList struct {
	ID         int64     `json:"id"`
	MealPlanID string    `json:"meal_plan_id"`
	List       List      `json:"list"`
	TotalCost  float64   `json:"total_cost"`
	CreatedAt  time.Time `json:"created_at"`
}
