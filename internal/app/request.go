package app

import (
	"errors"
	"fmt"

	"family-meal-planner/internal/config"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/validation"
)

// MaxPlanDays bounds a single request. Keep in step with the lte tags below
// and on config.PlanDefaults.Days.
const MaxPlanDays = 28

var ErrInvalidRequest = errors.New("invalid plan request")

// PlanRequest is a plan request as received from a client. Zero values take
// the configured defaults.
type PlanRequest struct {
	Days                int      `json:"days" validate:"omitempty,gte=1,lte=28"`
	CalorieLimit        float64  `json:"calorie_limit" validate:"omitempty,gt=0"`
	FamilySize          int      `json:"family_size" validate:"omitempty,gte=1"`
	KidFriendlyOnly     *bool    `json:"kid_friendly_only"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"omitempty,dive,notblank"`
	DailyBudget         *float64 `json:"daily_budget" validate:"omitempty,gt=0"`
}

// Resolve validates the request, then fills unset fields from d. The
// defaults are checked with the same rules so a bad configuration cannot
// produce an out-of-range plan.
func (p PlanRequest) Resolve(d config.PlanDefaults) (planner.Request, error) {
	if err := validation.Struct(p); err != nil {
		return planner.Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := validation.Struct(d); err != nil {
		return planner.Request{}, fmt.Errorf("%w: defaults: %v", ErrInvalidRequest, err)
	}

	req := planner.Request{
		Days:                p.Days,
		DailyCalorieLimit:   p.CalorieLimit,
		FamilySize:          p.FamilySize,
		KidFriendlyOnly:     d.KidFriendlyOnly,
		DietaryRestrictions: p.DietaryRestrictions,
		DailyBudget:         p.DailyBudget,
	}
	if req.Days == 0 {
		req.Days = d.Days
	}
	if req.DailyCalorieLimit == 0 {
		req.DailyCalorieLimit = d.CalorieLimit
	}
	if req.FamilySize == 0 {
		req.FamilySize = d.FamilySize
	}
	if p.KidFriendlyOnly != nil {
		req.KidFriendlyOnly = *p.KidFriendlyOnly
	}
	if req.DietaryRestrictions == nil {
		req.DietaryRestrictions = []string{}
	}
	return req, nil
}
