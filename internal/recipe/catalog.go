package recipe

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed sample_catalog.json
var sampleCatalog []byte

// Catalog is an ordered, validated collection of recipes with unique IDs.
// It is never modified after construction and is safe to share.
type Catalog struct {
	recipes []Recipe
	byID    map[string]int
}

// NewCatalog validates every recipe and rejects duplicate identifiers.
func NewCatalog(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]Recipe, 0, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[r.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}
	return c, nil
}

// ParseCatalog decodes a JSON array of recipes into a Catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return NewCatalog(recipes)
}

// SampleCatalog returns the built-in kid-friendly catalog.
func SampleCatalog() (*Catalog, error) {
	return ParseCatalog(sampleCatalog)
}

// All returns the recipes in catalog order.
func (c *Catalog) All() []Recipe {
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Get looks a recipe up by ID.
func (c *Catalog) Get(id string) (Recipe, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[i], true
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}
