package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"

	"family-meal-planner/internal/validation"
)

// ErrInvalidNutrition is returned when a profile carries a negative value.
var ErrInvalidNutrition = errors.New("nutritional values cannot be negative")

// Profile holds the nutritional information for a food item, an ingredient
// amount, a serving or a whole day. Sodium is in milligrams, the other
// macros in grams.
type Profile struct {
	Calories      float64 `json:"calories" validate:"gte=0"`
	Protein       float64 `json:"protein" validate:"gte=0"`
	Carbohydrates float64 `json:"carbohydrates" validate:"gte=0"`
	Fat           float64 `json:"fat" validate:"gte=0"`
	Fiber         float64 `json:"fiber" validate:"gte=0"`
	Sugar         float64 `json:"sugar" validate:"gte=0"`
	Sodium        float64 `json:"sodium" validate:"gte=0"`
}

// New builds a validated Profile.
func New(calories, protein, carbohydrates, fat, fiber, sugar, sodium float64) (Profile, error) {
	p := Profile{
		Calories:      calories,
		Protein:       protein,
		Carbohydrates: carbohydrates,
		Fat:           fat,
		Fiber:         fiber,
		Sugar:         sugar,
		Sodium:        sodium,
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate reports ErrInvalidNutrition when any field is negative.
func (p Profile) Validate() error {
	if err := validation.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNutrition, err)
	}
	return nil
}

// Add returns the component-wise sum of p and o.
func (p Profile) Add(o Profile) Profile {
	return Profile{
		Calories:      p.Calories + o.Calories,
		Protein:       p.Protein + o.Protein,
		Carbohydrates: p.Carbohydrates + o.Carbohydrates,
		Fat:           p.Fat + o.Fat,
		Fiber:         p.Fiber + o.Fiber,
		Sugar:         p.Sugar + o.Sugar,
		Sodium:        p.Sodium + o.Sodium,
	}
}

// Scale multiplies every field by factor.
func (p Profile) Scale(factor float64) Profile {
	return Profile{
		Calories:      p.Calories * factor,
		Protein:       p.Protein * factor,
		Carbohydrates: p.Carbohydrates * factor,
		Fat:           p.Fat * factor,
		Fiber:         p.Fiber * factor,
		Sugar:         p.Sugar * factor,
		Sodium:        p.Sodium * factor,
	}
}

// Div divides every field by divisor. Callers guard against a zero divisor.
func (p Profile) Div(divisor float64) Profile {
	return p.Scale(1 / divisor)
}

// Round returns a copy with every field rounded to one decimal place.
func (p Profile) Round() Profile {
	return Profile{
		Calories:      round1(p.Calories),
		Protein:       round1(p.Protein),
		Carbohydrates: round1(p.Carbohydrates),
		Fat:           round1(p.Fat),
		Fiber:         round1(p.Fiber),
		Sugar:         round1(p.Sugar),
		Sodium:        round1(p.Sodium),
	}
}

// UnmarshalJSON decodes a profile and rejects negative values, so a bad
// catalog file fails at load time.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type raw Profile
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded := Profile(r)
	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}

func round1(v float64) float64 {
	if v < 0 {
		return -round1(-v)
	}
	return float64(int64(v*10+0.5)) / 10
}
