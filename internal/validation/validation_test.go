package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Amount float64  `json:"amount" validate:"gt=0"`
	Cost   *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

type record struct {
	ID    string        `json:"id" validate:"notblank"`
	Kind  string        `json:"kind" validate:"omitempty,oneof=a b"`
	Lines []line        `json:"lines" validate:"dive"`
	TTL   time.Duration `env:"RECORD_TTL" validate:"gt=0s"`
}

func TestStructValid(t *testing.T) {
	cost := 0.0
	err := Struct(record{ID: "r1", Kind: "a", Lines: []line{{Amount: 1, Cost: &cost}}, TTL: time.Minute})
	assert.NoError(t, err)
}

func TestStructReportsEveryField(t *testing.T) {
	neg := -1.0
	err := Struct(&record{ID: "  ", Kind: "c", Lines: []line{{Amount: 1}, {Amount: 0, Cost: &neg}}})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"id", "kind", "amount", "cost", "RECORD_TTL"} {
		assert.True(t, verr.Failed(field), field)
	}
	assert.False(t, verr.Failed("lines"))

	msg := err.Error()
	assert.Contains(t, msg, "id is required")
	assert.Contains(t, msg, "kind must be one of [a b]")
	assert.Contains(t, msg, "lines[1].amount must be greater than 0")
	assert.Contains(t, msg, "lines[1].cost must be at least 0")
	assert.NotContains(t, msg, "lines[0]")
}

func TestStructRejectsNonStruct(t *testing.T) {
	err := Struct(42)
	require.Error(t, err)

	var verr *Error
	assert.False(t, errors.As(err, &verr))
}
