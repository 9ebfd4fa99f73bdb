package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"family-meal-planner/internal/planner"
)

// slotsPerDay is breakfast, lunch, dinner and two snacks.
const slotsPerDay = 5

// GenerationMetric records the outcome of a single plan generation.
type GenerationMetric struct {
	PlanID          string
	Days            int
	EligibleRecipes int
	FilledSlots     int
	MissingSlots    int
	LatencyMS       int64
	Timestamp       time.Time
}

// FromPlans builds a metric from a finished run.
func FromPlans(planID string, plans []planner.DayPlan, eligible int, latency time.Duration) GenerationMetric {
	var filled int
	for _, p := range plans {
		filled += p.FilledSlots()
	}
	return GenerationMetric{
		PlanID:          planID,
		Days:            len(plans),
		EligibleRecipes: eligible,
		FilledSlots:     filled,
		MissingSlots:    len(plans)*slotsPerDay - filled,
		LatencyMS:       latency.Milliseconds(),
		Timestamp:       time.Now().UTC(),
	}
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_metrics (plan_id, days, eligible_recipes, filled_slots, missing_slots, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.PlanID, m.Days, m.EligibleRecipes, m.FilledSlots, m.MissingSlots, m.LatencyMS, ts.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// DailyActivity aggregates the generations of a single day.
type DailyActivity struct {
	Date         string
	Plans        int
	FilledSlots  int
	MissingSlots int
	AvgLatencyMS float64
}

// GetDailyActivity retrieves activity for the last N days, newest first.
func (s *Store) GetDailyActivity(ctx context.Context, days int) ([]DailyActivity, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(timestamp, 1, 10) AS day, COUNT(*), SUM(filled_slots), SUM(missing_slots), AVG(latency_ms)
		 FROM generation_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var results []DailyActivity
	for rows.Next() {
		var a DailyActivity
		if err := rows.Scan(&a.Date, &a.Plans, &a.FilledSlots, &a.MissingSlots, &a.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily activity: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM generation_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count removed metrics: %w", err)
	}
	return n, nil
}
