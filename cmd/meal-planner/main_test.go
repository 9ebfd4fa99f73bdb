package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req, user, err := parsePlanFlags(nil)
		require.NoError(t, err)
		assert.Equal(t, "cli", user)
		assert.Zero(t, req.Days)
		assert.Nil(t, req.DailyBudget)
		assert.Nil(t, req.KidFriendlyOnly)
		assert.Empty(t, req.DietaryRestrictions)
	})

	t.Run("all flags", func(t *testing.T) {
		req, user, err := parsePlanFlags([]string{
			"-days", "3", "-calories", "1800", "-family", "2", "-budget", "45.5",
			"-diet", " Vegetarian, ,gluten-free", "-kids", "no", "-user", "u7",
		})
		require.NoError(t, err)
		assert.Equal(t, "u7", user)
		assert.Equal(t, 3, req.Days)
		assert.InDelta(t, 1800, req.CalorieLimit, 1e-9)
		assert.Equal(t, 2, req.FamilySize)
		require.NotNil(t, req.DailyBudget)
		assert.InDelta(t, 45.5, *req.DailyBudget, 1e-9)
		assert.Equal(t, []string{"vegetarian", "gluten-free"}, req.DietaryRestrictions)
		require.NotNil(t, req.KidFriendlyOnly)
		assert.False(t, *req.KidFriendlyOnly)
	})

	t.Run("bad kids value", func(t *testing.T) {
		_, _, err := parsePlanFlags([]string{"-kids", "maybe"})
		assert.ErrorContains(t, err, `invalid -kids value "maybe"`)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := parsePlanFlags([]string{"-weeks", "2"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, flag.ErrHelp)
	})
}
