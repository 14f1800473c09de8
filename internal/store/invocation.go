package store

import (
	"database/sql"
	"errors"
	"time"
)

// Outcome represents the terminal state of a dispatched action worker.
type Outcome string

const (
	// OutcomeRunning marks a worker that has started but not finished.
	OutcomeRunning Outcome = "running"
	// OutcomeSucceeded marks a worker whose action completed without error.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed marks a worker whose action returned an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeCancelled marks a worker whose action was declined at a prompt.
	OutcomeCancelled Outcome = "cancelled"
)

// Invocation represents one dispatched action worker in the journal.
type Invocation struct {
	ID         int64      `json:"id"`
	TriggerID  string     `json:"trigger_id"`
	Outcome    Outcome    `json:"outcome"`
	Detail     string     `json:"detail,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// InvocationRepository provides journal operations for action workers.
type InvocationRepository struct {
	db *sql.DB
}

// Invocations returns the invocation repository for this store.
func (s *Store) Invocations() *InvocationRepository {
	return &InvocationRepository{db: s.db}
}

// Start inserts a running invocation row for the given trigger and
// fills in the generated row ID. StartedAt is set to the current time
// if the caller left it zero.
func (r *InvocationRepository) Start(inv *Invocation) error {
	if inv.StartedAt.IsZero() {
		inv.StartedAt = time.Now()
	}
	inv.Outcome = OutcomeRunning

	result, err := r.db.Exec(
		`INSERT INTO invocations (trigger_id, outcome, started_at)
		 VALUES (?, ?, ?)`,
		inv.TriggerID, string(inv.Outcome), inv.StartedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	inv.ID = id
	return nil
}

// FinishByTriggerID records the terminal outcome of the worker spawned
// for the given trigger.
func (r *InvocationRepository) FinishByTriggerID(triggerID string, outcome Outcome, detail string, finishedAt time.Time) error {
	result, err := r.db.Exec(
		`UPDATE invocations SET outcome = ?, detail = ?, finished_at = ?
		 WHERE trigger_id = ?`,
		string(outcome), detail, finishedAt, triggerID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByTriggerID retrieves the invocation spawned for the given trigger.
// Returns nil, nil if no worker row has been written yet.
func (r *InvocationRepository) GetByTriggerID(triggerID string) (*Invocation, error) {
	inv := &Invocation{}
	var outcome string
	var finishedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, trigger_id, outcome, detail, started_at, finished_at
		 FROM invocations WHERE trigger_id = ?`,
		triggerID,
	).Scan(&inv.ID, &inv.TriggerID, &outcome, &inv.Detail, &inv.StartedAt, &finishedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No worker row yet
		}
		return nil, err
	}

	inv.Outcome = Outcome(outcome)
	if finishedAt.Valid {
		t := finishedAt.Time
		inv.FinishedAt = &t
	}
	return inv, nil
}

// ListRecent retrieves the most recently started invocations, newest first.
func (r *InvocationRepository) ListRecent(limit int) ([]*Invocation, error) {
	rows, err := r.db.Query(
		`SELECT id, trigger_id, outcome, detail, started_at, finished_at
		 FROM invocations ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invocations []*Invocation
	for rows.Next() {
		inv := &Invocation{}
		var outcome string
		var finishedAt sql.NullTime

		err := rows.Scan(&inv.ID, &inv.TriggerID, &outcome, &inv.Detail, &inv.StartedAt, &finishedAt)
		if err != nil {
			return nil, err
		}

		inv.Outcome = Outcome(outcome)
		if finishedAt.Valid {
			t := finishedAt.Time
			inv.FinishedAt = &t
		}
		invocations = append(invocations, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return invocations, nil
}
