package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoredPlan is a persisted generation run.
type StoredPlan struct {
	ID        string
	UserID    string
	Request   Request
	Days      []DayPlan
	Summary   Summary
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new meal plan into the database.
func (r *PlanRepository) Save(ctx context.Context, plan StoredPlan) error {
	reqJSON, err := json.Marshal(plan.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal plan request: %w", err)
	}
	daysJSON, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal day plans: %w", err)
	}
	summaryJSON, err := json.Marshal(plan.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal plan summary: %w", err)
	}

	createdAt := plan.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (id, user_id, request, plan_data, summary, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.UserID, string(reqJSON), string(daysJSON), string(summaryJSON), createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save meal plan %s: %w", plan.ID, err)
	}
	return nil
}

// Get retrieves a meal plan by ID, nil when it does not exist.
func (r *PlanRepository) Get(ctx context.Context, id string) (*StoredPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, request, plan_data, summary, created_at FROM meal_plans WHERE id = ?`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan %s: %w", id, err)
	}
	return plan, nil
}

// ListRecentByUserID retrieves the N most recent meal plans for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, request, plan_data, summary, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read meal plan row: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plans: %w", err)
	}
	return plans, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*StoredPlan, error) {
	var (
		plan                         StoredPlan
		reqJSON, daysJSON, summaryJS string
	)
	if err := row.Scan(&plan.ID, &plan.UserID, &reqJSON, &daysJSON, &summaryJS, &plan.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(reqJSON), &plan.Request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan request: %w", err)
	}
	if err := json.Unmarshal([]byte(daysJSON), &plan.Days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal day plans: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJS), &plan.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan summary: %w", err)
	}
	return &plan, nil
}
