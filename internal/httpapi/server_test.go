package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/share"
)

type fakePlanner struct {
	gotUser    string
	gotRequest app.PlanRequest
	planErr    error
	sharedErr  error
	recipes    []app.RecipeSummary
	recipesErr error
}

func (f *fakePlanner) GenerateMealPlan(_ context.Context, userID string, pr app.PlanRequest) (*app.PlanResult, error) {
	f.gotUser = userID
	f.gotRequest = pr
	if f.planErr != nil {
		return nil, f.planErr
	}
	expires := time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)
	return &app.PlanResult{PlanID: "plan-1", TotalCost: 42.5, ShareToken: "tok", ShareExpiresAt: &expires}, nil
}

func (f *fakePlanner) SharedPlan(_ context.Context, token string) (*app.PlanResult, error) {
	if f.sharedErr != nil {
		return nil, f.sharedErr
	}
	expires := time.Now()
	return &app.PlanResult{PlanID: "shared-" + token, ShareToken: token, ShareExpiresAt: &expires}, nil
}

func (f *fakePlanner) Recipes() ([]app.RecipeSummary, error) {
	return f.recipes, f.recipesErr
}

func (f *fakePlanner) SysHealth() metrics.SysHealth {
	return metrics.SysHealth{Alloc: "1.0 MB", Goroutines: 3}
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := NewServer(8080, nil, &fakePlanner{}, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0 MB", body["system"].(map[string]any)["alloc"])
}

func TestListRecipes(t *testing.T) {
	fp := &fakePlanner{recipes: []app.RecipeSummary{{ID: "breakfast_001", Name: "Oatmeal"}}}
	s := NewServer(8080, nil, fp, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/recipes", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["count"])
}

func TestListRecipesBeforeCatalogLoad(t *testing.T) {
	s := NewServer(8080, nil, &fakePlanner{recipesErr: app.ErrCatalogNotLoaded}, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/recipes", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateMealPlan(t *testing.T) {
	fp := &fakePlanner{}
	s := NewServer(8080, nil, fp, nil)

	rec := do(t, s.Handler(), http.MethodPost, "/meal-plans",
		`{"days":3,"calorie_limit":1800,"dietary_restrictions":["vegetarian"],"daily_budget":20}`,
		map[string]string{UserIDHeader: "alice"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", fp.gotUser)
	assert.Equal(t, 3, fp.gotRequest.Days)
	assert.Equal(t, 1800.0, fp.gotRequest.CalorieLimit)
	assert.Equal(t, []string{"vegetarian"}, fp.gotRequest.DietaryRestrictions)
	require.NotNil(t, fp.gotRequest.DailyBudget)
	assert.Equal(t, 20.0, *fp.gotRequest.DailyBudget)

	body := decode(t, rec)
	assert.Equal(t, "plan-1", body["plan_id"])
	assert.Equal(t, "tok", body["share_token"])
}

func TestCreateMealPlanDefaultsUser(t *testing.T) {
	fp := &fakePlanner{}
	s := NewServer(8080, nil, fp, nil)

	rec := do(t, s.Handler(), http.MethodPost, "/meal-plans", `{}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "anonymous", fp.gotUser)
}

func TestCreateMealPlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed json", `{"days":`, nil, http.StatusBadRequest},
		{"unknown field", `{"weeks":2}`, nil, http.StatusBadRequest},
		{"invalid request", `{}`, fmt.Errorf("%w: days", app.ErrInvalidRequest), http.StatusBadRequest},
		{"no eligible recipes", `{}`, fmt.Errorf("filter: %w", planner.ErrNoEligibleRecipes), http.StatusUnprocessableEntity},
		{"catalog not loaded", `{}`, app.ErrCatalogNotLoaded, http.StatusServiceUnavailable},
		{"unexpected", `{}`, errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(8080, nil, &fakePlanner{planErr: tt.err}, nil)

			rec := do(t, s.Handler(), http.MethodPost, "/meal-plans", tt.body, nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestCreateMealPlanHidesInternalErrors(t *testing.T) {
	s := NewServer(8080, nil, &fakePlanner{planErr: errors.New("disk on fire")}, nil)

	rec := do(t, s.Handler(), http.MethodPost, "/meal-plans", `{}`, nil)

	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestSharedPlan(t *testing.T) {
	s := NewServer(8080, nil, &fakePlanner{}, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/shared/abc", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "shared-abc", body["plan_id"])
	assert.NotContains(t, body, "share_token")
	assert.NotContains(t, body, "share_expires_at")
}

func TestSharedPlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid token", fmt.Errorf("%w: expired", share.ErrInvalidToken), http.StatusUnauthorized},
		{"plan missing", fmt.Errorf("%w: p1", app.ErrPlanNotFound), http.StatusNotFound},
		{"sharing disabled", app.ErrSharingDisabled, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(8080, nil, &fakePlanner{sharedErr: tt.err}, nil)

			rec := do(t, s.Handler(), http.MethodGet, "/shared/abc", "", nil)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWebhookRoute(t *testing.T) {
	t.Run("mounted when configured", func(t *testing.T) {
		called := false
		hook := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})
		s := NewServer(8080, nil, &fakePlanner{}, hook)

		rec := do(t, s.Handler(), http.MethodPost, "/webhook", `{}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("absent without bot", func(t *testing.T) {
		s := NewServer(8080, nil, &fakePlanner{}, nil)

		rec := do(t, s.Handler(), http.MethodPost, "/webhook", `{}`, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
