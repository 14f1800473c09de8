package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Trigger represents an accepted gesture trigger stored in the journal.
type Trigger struct {
	ID          string    `json:"id"`
	FingerCount int       `json:"finger_count"`
	ActionName  string    `json:"action_name"`
	AcceptedAt  time.Time `json:"accepted_at"`
}

// HistoryEntry joins a trigger with the outcome of its invocation.
// Outcome is empty when no worker row has been written yet.
type HistoryEntry struct {
	TriggerID   string     `json:"trigger_id"`
	FingerCount int        `json:"finger_count"`
	ActionName  string     `json:"action_name"`
	AcceptedAt  time.Time  `json:"accepted_at"`
	Outcome     Outcome    `json:"outcome,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// TriggerRepository provides journal operations for accepted triggers.
type TriggerRepository struct {
	db *sql.DB
}

// Triggers returns the trigger repository for this store.
func (s *Store) Triggers() *TriggerRepository {
	return &TriggerRepository{db: s.db}
}

// Create inserts a new trigger into the journal. AcceptedAt is set to
// the current time if the caller left it zero.
func (r *TriggerRepository) Create(tr *Trigger) error {
	if tr.AcceptedAt.IsZero() {
		tr.AcceptedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO triggers (id, finger_count, action_name, accepted_at)
		 VALUES (?, ?, ?, ?)`,
		tr.ID, tr.FingerCount, tr.ActionName, tr.AcceptedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a trigger by its ID.
func (r *TriggerRepository) GetByID(id string) (*Trigger, error) {
	tr := &Trigger{}

	err := r.db.QueryRow(
		`SELECT id, finger_count, action_name, accepted_at
		 FROM triggers WHERE id = ?`,
		id,
	).Scan(&tr.ID, &tr.FingerCount, &tr.ActionName, &tr.AcceptedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return tr, nil
}

// ListRecent retrieves the most recently accepted triggers, newest first.
func (r *TriggerRepository) ListRecent(limit int) ([]*Trigger, error) {
	rows, err := r.db.Query(
		`SELECT id, finger_count, action_name, accepted_at
		 FROM triggers ORDER BY accepted_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triggers []*Trigger
	for rows.Next() {
		tr := &Trigger{}

		err := rows.Scan(&tr.ID, &tr.FingerCount, &tr.ActionName, &tr.AcceptedAt)
		if err != nil {
			return nil, err
		}

		triggers = append(triggers, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return triggers, nil
}

// History retrieves the most recent triggers joined with their
// invocation outcomes, newest first.
func (r *TriggerRepository) History(limit int) ([]*HistoryEntry, error) {
	rows, err := r.db.Query(
		`SELECT t.id, t.finger_count, t.action_name, t.accepted_at,
		        COALESCE(i.outcome, ''), COALESCE(i.detail, ''), i.finished_at
		 FROM triggers t
		 LEFT JOIN invocations i ON i.trigger_id = t.id
		 ORDER BY t.accepted_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		var outcome string
		var finishedAt sql.NullTime

		err := rows.Scan(&e.TriggerID, &e.FingerCount, &e.ActionName, &e.AcceptedAt,
			&outcome, &e.Detail, &finishedAt)
		if err != nil {
			return nil, err
		}

		e.Outcome = Outcome(outcome)
		if finishedAt.Valid {
			t := finishedAt.Time
			e.FinishedAt = &t
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
