// Package pg implements the profile, club and event services on Postgres.
// Membership and registrant lists are normalized into rows so uniqueness and
// capacity checks run as conditional writes inside transactions instead of
// whole-item read-modify-write.
package pg

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store owns the shared connection pool. Per-entity stores hang off it.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres with pool defaults tuned for a small service.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the pool for readiness probes and migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Profiles returns the profile store.
func (s *Store) Profiles() *ProfileStore { return &ProfileStore{db: s.db} }

// Clubs returns the club store.
func (s *Store) Clubs() *ClubStore { return &ClubStore{db: s.db} }

// Events returns the event store.
func (s *Store) Events() *EventStore { return &EventStore{db: s.db} }
