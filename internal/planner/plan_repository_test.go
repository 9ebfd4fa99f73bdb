package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-meal-planner/internal/database"
)

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "plans.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	repo := NewPlanRepository(db.SQL)

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	g := mkGenerator(t, mkRecipe("breakfast_1", "Toast", 300, 1))
	req := DefaultRequest()
	req.Days = 2
	days, err := g.Generate(req)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, repo.Save(ctx, StoredPlan{
			ID:        id,
			UserID:    "u1",
			Request:   req,
			Days:      days,
			Summary:   Summarize(days),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	stored, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, req, stored.Request)
	require.Len(t, stored.Days, 2)
	assert.Equal(t, "Breakfast - Toast", stored.Days[0].Breakfast.Name)
	assert.Equal(t, 2, stored.Summary.Days)

	recent, err := repo.ListRecentByUserID(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "p3", recent[0].ID)
	assert.Equal(t, "p2", recent[1].ID)

	none, err := repo.ListRecentByUserID(ctx, "u2", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
