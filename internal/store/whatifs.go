package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/whatif"
)

// WhatIfRecord is one stored what-if question and its outcome.
type WhatIfRecord struct {
	ID          string             `json:"id"`
	RunID       string             `json:"run_id"`
	CreatedAt   time.Time          `json:"created_at"`
	QueryType   string             `json:"query_type"`
	Description string             `json:"description"`
	Constraints []query.Constraint `json:"query_constraints"`
	Fingerprint string             `json:"fingerprint"`
	Result      *whatif.Result     `json:"result"`
	Explanation string             `json:"explanation"`
}

// SaveWhatIf appends a what-if record to its run's history.
// Returns ErrRunNotFound when the run does not exist.
func (s *Store) SaveWhatIf(ctx context.Context, rec *WhatIfRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save what-if: empty id")
	}
	if rec.Result == nil {
		return fmt.Errorf("save what-if %s: nil result", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	if rec.Constraints == nil {
		rec.Constraints = []query.Constraint{}
	}
	if rec.Fingerprint == "" {
		fp, err := query.Fingerprint(rec.Constraints)
		if err != nil {
			return fmt.Errorf("save what-if %s: %w", rec.ID, err)
		}
		rec.Fingerprint = fp
	}

	constraints, err := marshalJSON("query constraints", rec.Constraints)
	if err != nil {
		return err
	}
	result, err := marshalJSON("what-if result", rec.Result)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO what_if_queries (id, run_id, created_at, query_type, description,
			constraints_json, fingerprint, status, alternative_objective, objective_delta,
			result_json, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.CreatedAt.UTC().Format(timeLayout), rec.QueryType,
		rec.Description, constraints, rec.Fingerprint, rec.Result.Status,
		nullFloat(rec.Result.AlternativeObjective), nullFloat(rec.Result.ObjectiveDelta),
		result, rec.Explanation)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, rec.RunID)
	}
	if err != nil {
		return fmt.Errorf("insert what-if %s: %w", rec.ID, err)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// ListWhatIfs returns a run's what-if history oldest first.
// Returns ErrRunNotFound when the run does not exist.
func (s *Store) ListWhatIfs(ctx context.Context, runID string) ([]WhatIfRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE run_id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, created_at, query_type, description, constraints_json,
			fingerprint, result_json, explanation
		FROM what_if_queries
		WHERE run_id = ?
		ORDER BY created_at ASC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query what-ifs of %s: %w", runID, err)
	}
	defer rows.Close()

	records := make([]WhatIfRecord, 0)
	for rows.Next() {
		var (
			rec         WhatIfRecord
			createdAt   string
			constraints string
			result      string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &createdAt, &rec.QueryType, &rec.Description,
			&constraints, &rec.Fingerprint, &result, &rec.Explanation); err != nil {
			return nil, fmt.Errorf("scan what-if: %w", err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		rec.Constraints = []query.Constraint{}
		if err := unmarshalJSON("query constraints", constraints, &rec.Constraints); err != nil {
			return nil, err
		}
		rec.Result = &whatif.Result{}
		if err := unmarshalJSON("what-if result", result, rec.Result); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate what-ifs: %w", err)
	}
	return records, nil
}
