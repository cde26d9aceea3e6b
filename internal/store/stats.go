package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Statistics aggregates the whole store.
type Statistics struct {
	TotalRuns          int            `json:"total_runs"`
	RunsByStatus       map[string]int `json:"runs_by_status"`
	AverageObjective   *float64       `json:"average_objective,omitempty"`
	AverageSolveTime   float64        `json:"average_solve_time_seconds"`
	TotalWhatIfs       int            `json:"total_what_if_queries"`
	WhatIfsByStatus    map[string]int `json:"what_if_by_status"`
	DistinctQuestions  int            `json:"distinct_what_if_fingerprints"`
	AverageWhatIfDelta *float64       `json:"average_objective_difference,omitempty"`
}

// Statistics computes aggregate counts over runs and what-if queries.
func (s *Store) Statistics(ctx context.Context) (*Statistics, error) {
	st := &Statistics{
		RunsByStatus:    make(map[string]int),
		WhatIfsByStatus: make(map[string]int),
	}

	var avgObjective sql.NullFloat64
	var avgSolve sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(objective), AVG(solve_time_seconds) FROM runs
	`).Scan(&st.TotalRuns, &avgObjective, &avgSolve)
	if err != nil {
		return nil, fmt.Errorf("aggregate runs: %w", err)
	}
	st.AverageObjective = floatPtr(avgObjective)
	st.AverageSolveTime = avgSolve.Float64

	if err := s.countBy(ctx, `SELECT status, COUNT(*) FROM runs GROUP BY status`, st.RunsByStatus); err != nil {
		return nil, err
	}

	var avgDelta sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT run_id || ':' || fingerprint), AVG(objective_delta)
		FROM what_if_queries
	`).Scan(&st.TotalWhatIfs, &st.DistinctQuestions, &avgDelta)
	if err != nil {
		return nil, fmt.Errorf("aggregate what-ifs: %w", err)
	}
	st.AverageWhatIfDelta = floatPtr(avgDelta)

	if err := s.countBy(ctx, `SELECT status, COUNT(*) FROM what_if_queries GROUP BY status`, st.WhatIfsByStatus); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) countBy(ctx context.Context, q string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return fmt.Errorf("scan count: %w", err)
		}
		into[status] = n
	}
	return rows.Err()
}
