package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Run("keeps order and indexes by id", func(t *testing.T) {
		c, err := NewCatalog([]Recipe{{ID: "b", Servings: 1}, {ID: "a", Servings: 2}})
		require.NoError(t, err)

		assert.Equal(t, 2, c.Len())
		all := c.All()
		assert.Equal(t, "b", all[0].ID)
		assert.Equal(t, "a", all[1].ID)

		r, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, r.Servings)

		_, ok = c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewCatalog([]Recipe{{ID: "a", Servings: 1}, {ID: "a", Servings: 1}})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("rejects invalid recipes", func(t *testing.T) {
		_, err := NewCatalog([]Recipe{{ID: "a", Servings: 0}})
		assert.ErrorIs(t, err, ErrInvalidServings)
	})

	t.Run("All returns a copy", func(t *testing.T) {
		c, err := NewCatalog([]Recipe{{ID: "a", Servings: 1, Name: "orig"}})
		require.NoError(t, err)

		all := c.All()
		all[0].Name = "changed"

		r, _ := c.Get("a")
		assert.Equal(t, "orig", r.Name)
	})
}

func TestParseCatalog(t *testing.T) {
	_, err := ParseCatalog([]byte("not json"))
	assert.Error(t, err)

	c, err := ParseCatalog([]byte(`[{"id":"x","name":"X","servings":2,"ingredients":[{"name":"egg","amount":2,"unit":"large","nutrition_per_unit":{"calories":70},"cost_per_unit":0.25}]}]`))
	require.NoError(t, err)
	r, ok := c.Get("x")
	require.True(t, ok)
	assert.InDelta(t, 70, r.NutritionPerServing().Calories, 1e-9)
	assert.InDelta(t, 0.25, r.CostPerServing(), 1e-9)
}

func TestSampleCatalog(t *testing.T) {
	c, err := SampleCatalog()
	require.NoError(t, err)
	assert.Equal(t, 24, c.Len())

	for _, r := range c.All() {
		assert.True(t, r.KidFriendly, r.ID)
		assert.Positive(t, r.NutritionPerServing().Calories, r.ID)
		assert.Positive(t, r.CostPerServing(), r.ID)
	}

	snack, ok := c.Get("snack_006")
	require.True(t, ok)
	assert.True(t, snack.HasTags([]string{"vegan"}))
}
