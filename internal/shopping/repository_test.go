package shopping

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-meal-planner/internal/database"
	"family-meal-planner/internal/planner"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "shopping.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	plans := planner.NewPlanRepository(db.SQL)
	require.NoError(t, plans.Save(ctx, planner.StoredPlan{ID: "plan-1", UserID: "u1", Request: planner.DefaultRequest()}))

	repo := NewRepository(db.SQL)

	got, err := repo.GetByMealPlanID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	list := Aggregate([]planner.DayPlan{{Breakfast: meal(porridge)}})
	id, err := repo.Save(ctx, &ShoppingList{MealPlanID: "plan-1", List: list, TotalCost: list.TotalCost()})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err = repo.GetByMealPlanID(ctx, "plan-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, list, got.List)
	assert.InDelta(t, list.TotalCost(), got.TotalCost, 1e-9)

	_, err = repo.Save(ctx, &ShoppingList{MealPlanID: "plan-1", List: list})
	assert.Error(t, err, "one list per meal plan")

	require.NoError(t, repo.DeleteByMealPlanID(ctx, "plan-1"))
	got, err = repo.GetByMealPlanID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
