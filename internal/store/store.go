// Package store provides the SQLite journal for the Mudra gesture daemon.
// It records accepted triggers and the outcome of every dispatched action.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Connection pragmas, applied to every pooled connection. WAL keeps the
// dashboard readable while action workers append to the journal, and
// the busy timeout covers brief write lock handoffs.
const dsnOptions = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Store is the SQLite-backed journal. The trigger, invocation, and
// settings repositories hang off it.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the journal database at dbPath and brings its
// schema up to date.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for tests and ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
