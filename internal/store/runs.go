package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/whatif/internal/schedule"
)

// Run is one primary solve: the instance it solved and what came back.
type Run struct {
	ID               string
	CreatedAt        time.Time
	Status           string
	Backend          string
	Objective        *float64
	SolveTimeSeconds float64
	InstanceHash     string
	Instance         *schedule.Instance
	Schedule         *schedule.Schedule
	SoftConstraints  map[string]float64
	Diagnostics      map[string]any
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID               string    `json:"run_id"`
	CreatedAt        time.Time `json:"created_at"`
	Status           string    `json:"status"`
	Backend          string    `json:"backend"`
	Objective        *float64  `json:"objective,omitempty"`
	SolveTimeSeconds float64   `json:"solve_time_seconds"`
	NumAssignments   int       `json:"num_assignments"`
}

type runOutput struct {
	Schedule        *schedule.Schedule `json:"schedule,omitempty"`
	SoftConstraints map[string]float64 `json:"soft_constraints,omitempty"`
	Diagnostics     map[string]any     `json:"diagnostics,omitempty"`
}

// SaveRun persists a run and its assignments in one transaction.
// CreatedAt is stamped from the store clock when zero.
// Saving an existing id replaces the run and its assignments.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("save run: empty run id")
	}
	if run.Instance == nil {
		return fmt.Errorf("save run %s: nil instance", run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now().UTC()
	}
	if run.InstanceHash == "" {
		hash, err := run.Instance.Fingerprint()
		if err != nil {
			return fmt.Errorf("save run %s: %w", run.ID, err)
		}
		run.InstanceHash = hash
	}

	input, err := marshalJSON("instance", run.Instance)
	if err != nil {
		return err
	}
	output, err := marshalJSON("run output", runOutput{
		Schedule:        run.Schedule,
		SoftConstraints: run.SoftConstraints,
		Diagnostics:     run.Diagnostics,
	})
	if err != nil {
		return err
	}
	var assignments []schedule.Assignment
	if run.Schedule != nil {
		assignments = run.Schedule.Assignments
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, created_at, status, backend, objective,
			solve_time_seconds, num_assignments, instance_hash, input_json, output_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			status = excluded.status,
			backend = excluded.backend,
			objective = excluded.objective,
			solve_time_seconds = excluded.solve_time_seconds,
			num_assignments = excluded.num_assignments,
			instance_hash = excluded.instance_hash,
			input_json = excluded.input_json,
			output_json = excluded.output_json
	`, run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Status, run.Backend,
		nullFloat(run.Objective), run.SolveTimeSeconds, len(assignments),
		run.InstanceHash, input, output)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clear assignments of %s: %w", run.ID, err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assignments (run_id, course_id, course_name, instructor_id,
			room_id, week, day, period_start, period_length)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare assignment insert: %w", err)
	}
	defer stmt.Close()
	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, run.ID, a.CourseID, a.CourseName, a.InstructorID,
			a.RoomID, a.Week, a.Day, a.PeriodStart, a.PeriodLength); err != nil {
			return fmt.Errorf("insert assignment %s of %s: %w", a.CourseID, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// LoadRun reads a run back. Returns ErrRunNotFound for unknown ids.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	var (
		run       Run
		createdAt string
		objective sql.NullFloat64
		input     string
		output    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, created_at, status, backend, objective, solve_time_seconds,
			instance_hash, input_json, output_json
		FROM runs
		WHERE run_id = ?
	`, id).Scan(&run.ID, &createdAt, &run.Status, &run.Backend, &objective,
		&run.SolveTimeSeconds, &run.InstanceHash, &input, &output)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}

	if run.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	run.Objective = floatPtr(objective)

	var inst schedule.Instance
	if err := unmarshalJSON("instance", input, &inst); err != nil {
		return nil, err
	}
	run.Instance = &inst

	var out runOutput
	if err := unmarshalJSON("run output", output, &out); err != nil {
		return nil, err
	}
	run.Schedule = out.Schedule
	run.SoftConstraints = out.SoftConstraints
	run.Diagnostics = out.Diagnostics
	return &run, nil
}

// ListRuns returns run summaries newest first. A status filter of ""
// matches every run; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int, status string) ([]RunSummary, error) {
	q := `
		SELECT run_id, created_at, status, backend, objective, solve_time_seconds, num_assignments
		FROM runs
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, run_id DESC
	`
	args := []any{status, status}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	// Return empty slice instead of nil
	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			r         RunSummary
			createdAt string
			objective sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Status, &r.Backend, &objective,
			&r.SolveTimeSeconds, &r.NumAssignments); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		r.Objective = floatPtr(objective)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run with its assignments and what-if history.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
