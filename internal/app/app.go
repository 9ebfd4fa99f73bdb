package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"family-meal-planner/internal/config"
	"family-meal-planner/internal/database"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/recipe"
	"family-meal-planner/internal/share"
	"family-meal-planner/internal/shopping"
)

var (
	ErrCatalogNotLoaded = errors.New("recipe catalog not loaded")
	ErrPlanNotFound     = errors.New("meal plan not found")
	ErrSharingDisabled  = errors.New("plan sharing is not configured")
)

// App holds the application's dependencies.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	signer *share.Signer // nil disables share links

	db           *database.DB
	recipeRepo   *recipe.Repository
	planRepo     *planner.PlanRepository
	shoppingRepo *shopping.Repository
	metricsStore *metrics.Store

	mu        sync.RWMutex
	catalog   *recipe.Catalog
	generator *planner.Generator
}

// NewApp creates and initializes a new App instance. Call LoadCatalog before
// generating plans.
func NewApp(cfg *config.Config, logger *zap.Logger, db *database.DB, signer *share.Signer) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:          cfg,
		logger:       logger,
		signer:       signer,
		db:           db,
		recipeRepo:   recipe.NewRepository(db.SQL),
		planRepo:     planner.NewPlanRepository(db.SQL),
		shoppingRepo: shopping.NewRepository(db.SQL),
		metricsStore: metrics.NewStore(db.SQL),
	}
}

// LoadCatalog reads the catalog from the database, seeding the built-in
// sample recipes when it is empty, and rebuilds the generator.
func (a *App) LoadCatalog(ctx context.Context) error {
	count, err := a.recipeRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}

	if count == 0 {
		sample, err := recipe.SampleCatalog()
		if err != nil {
			return fmt.Errorf("failed to load sample catalog: %w", err)
		}
		if err := a.recipeRepo.SaveAll(ctx, sample.All()); err != nil {
			return fmt.Errorf("failed to seed sample catalog: %w", err)
		}
		a.logger.Info("seeded sample catalog", zap.Int("recipes", sample.Len()))
	}

	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}
	catalog, err := recipe.NewCatalog(recipes)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	a.mu.Lock()
	a.catalog = catalog
	a.generator = planner.NewGenerator(catalog, planner.WithLogger(a.logger.Named("planner")))
	a.mu.Unlock()

	a.logger.Info("catalog loaded", zap.Int("recipes", catalog.Len()))
	return nil
}

func (a *App) currentGenerator() (*planner.Generator, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.generator == nil {
		return nil, ErrCatalogNotLoaded
	}
	return a.generator, nil
}

// PlanResult is everything produced for one generation request.
type PlanResult struct {
	PlanID           string                  `json:"plan_id"`
	Request          planner.Request         `json:"request"`
	Days             []planner.DayPlan       `json:"days"`
	NutritionSummary map[string]float64      `json:"nutrition_summary"`
	ShoppingList     shopping.List           `json:"shopping_list"`
	ShoppingListText string                  `json:"shopping_list_text"`
	TotalCost        float64                 `json:"total_cost"`
	BudgetAnalysis   *planner.BudgetAnalysis `json:"budget_analysis,omitempty"`
	ShareToken       string                  `json:"share_token,omitempty"`
	ShareExpiresAt   *time.Time              `json:"share_expires_at,omitempty"`
}

func buildResult(planID string, req planner.Request, days []planner.DayPlan, list shopping.List) *PlanResult {
	summary := planner.Summarize(days)
	res := &PlanResult{
		PlanID:           planID,
		Request:          req,
		Days:             days,
		NutritionSummary: summary.Metrics(),
		ShoppingList:     list,
		ShoppingListText: shopping.Format(list),
		TotalCost:        list.TotalCost(),
	}
	if req.DailyBudget != nil && *req.DailyBudget > 0 {
		analysis := planner.AnalyzeBudget(*req.DailyBudget, summary, list.TotalCost())
		res.BudgetAnalysis = &analysis
	}
	return res
}

// GenerateMealPlan runs the generator for the user and stores the result.
// Storage failures are logged and do not fail the request.
func (a *App) GenerateMealPlan(ctx context.Context, userID string, pr PlanRequest) (*PlanResult, error) {
	req, err := pr.Resolve(a.cfg.Defaults)
	if err != nil {
		return nil, err
	}

	gen, err := a.currentGenerator()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	days, err := gen.Generate(req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}
	latency := time.Since(start)

	planID := uuid.NewString()
	list := shopping.Aggregate(days)
	res := buildResult(planID, req, days, list)

	a.persist(ctx, userID, res, len(gen.Filter(req.DietaryRestrictions, req.KidFriendlyOnly)), latency)

	if a.signer != nil {
		token, expires, err := a.signer.Issue(planID)
		if err != nil {
			a.logger.Warn("failed to issue share token", zap.String("plan_id", planID), zap.Error(err))
		} else {
			res.ShareToken = token
			res.ShareExpiresAt = &expires
		}
	}

	a.logger.Info("meal plan generated",
		zap.String("plan_id", planID),
		zap.String("user_id", userID),
		zap.Int("days", req.Days),
		zap.Float64("total_cost", res.TotalCost),
		zap.Duration("latency", latency),
	)
	return res, nil
}

func (a *App) persist(ctx context.Context, userID string, res *PlanResult, eligible int, latency time.Duration) {
	err := a.planRepo.Save(ctx, planner.StoredPlan{
		ID:      res.PlanID,
		UserID:  userID,
		Request: res.Request,
		Days:    res.Days,
		Summary: planner.Summarize(res.Days),
	})
	if err != nil {
		a.logger.Warn("failed to save meal plan", zap.String("plan_id", res.PlanID), zap.Error(err))
		return
	}

	if _, err := a.shoppingRepo.Save(ctx, &shopping.ShoppingList{
		MealPlanID: res.PlanID,
		List:       res.ShoppingList,
		TotalCost:  res.TotalCost,
	}); err != nil {
		a.logger.Warn("failed to save shopping list", zap.String("plan_id", res.PlanID), zap.Error(err))
	}

	if err := a.metricsStore.Record(ctx, metrics.FromPlans(res.PlanID, res.Days, eligible, latency)); err != nil {
		a.logger.Warn("failed to record generation metric", zap.String("plan_id", res.PlanID), zap.Error(err))
	}
}

// SharedPlan resolves a share token to the stored plan and shopping list.
func (a *App) SharedPlan(ctx context.Context, token string) (*PlanResult, error) {
	if a.signer == nil {
		return nil, ErrSharingDisabled
	}
	planID, err := a.signer.Verify(token)
	if err != nil {
		return nil, err
	}
	return a.StoredPlan(ctx, planID)
}

// StoredPlan loads a previously generated plan by ID.
func (a *App) StoredPlan(ctx context.Context, planID string) (*PlanResult, error) {
	stored, err := a.planRepo.Get(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}

	list := shopping.Aggregate(stored.Days)
	saved, err := a.shoppingRepo.GetByMealPlanID(ctx, planID)
	if err != nil {
		a.logger.Warn("failed to load shopping list, rebuilding", zap.String("plan_id", planID), zap.Error(err))
	} else if saved != nil {
		list = saved.List
	}
	return buildResult(stored.ID, stored.Request, stored.Days, list), nil
}

// RecentPlans lists the user's latest stored plans, newest first.
func (a *App) RecentPlans(ctx context.Context, userID string, limit int) ([]planner.StoredPlan, error) {
	plans, err := a.planRepo.ListRecentByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans: %w", err)
	}
	return plans, nil
}

// DailyActivity returns generation activity for the last N days.
func (a *App) DailyActivity(ctx context.Context, days int) ([]metrics.DailyActivity, error) {
	return a.metricsStore.GetDailyActivity(ctx, days)
}

// CleanupMetrics drops generation metrics older than N days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	return a.metricsStore.Cleanup(ctx, olderThanDays)
}

// SysHealth reports process and database health.
func (a *App) SysHealth() metrics.SysHealth {
	h := metrics.GetSysHealth(a.cfg.DBPath)
	h.SchemaVersion = a.db.Schema.Version
	return h
}
