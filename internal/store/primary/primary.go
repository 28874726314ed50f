// Package primary implements the store interfaces on an embedded SQLite
// database. One database file holds runs, their datasets, per-content
// retention statistics, and recommendation snapshots.
package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// StoreImpl implements store.RunStore, store.DatasetStore and
// store.RecommendationStore over SQLite.
type StoreImpl struct {
	db *sql.DB
}

// NewStore opens (and if necessary creates) the SQLite database at path
// and applies the schema.
func NewStore(ctx context.Context, path string) (*StoreImpl, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &StoreImpl{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *StoreImpl) Close() error {
	return s.db.Close()
}

func (s *StoreImpl) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		users INTEGER NOT NULL,
		content_items INTEGER NOT NULL,
		interactions INTEGER NOT NULL,
		churn_rate REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS content (
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		content_id TEXT NOT NULL,
		category TEXT NOT NULL,
		format TEXT NOT NULL,
		duration_minutes REAL NOT NULL,
		difficulty TEXT NOT NULL,
		title TEXT NOT NULL,
		quality_score REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, content_id)
	);
	CREATE TABLE IF NOT EXISTS users (
		run_id TEXT NOT NULL REFERENCES runs(id),
		user_id TEXT NOT NULL,
		goal TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		signup_date TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, user_id)
	);
	CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		user_id TEXT NOT NULL,
		content_id TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		day_number INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		time_spent_minutes REAL NOT NULL,
		session_number INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_run_user
		ON interactions (run_id, user_id);
	CREATE TABLE IF NOT EXISTS content_stats (
		run_id TEXT NOT NULL REFERENCES runs(id),
		content_id TEXT NOT NULL,
		view_count INTEGER NOT NULL,
		completion_rate REAL NOT NULL,
		retention_rate REAL NOT NULL,
		avg_time_spent REAL NOT NULL,
		category TEXT NOT NULL,
		format TEXT NOT NULL,
		duration_minutes REAL NOT NULL,
		PRIMARY KEY (run_id, content_id)
	);
	CREATE TABLE IF NOT EXISTS recommendations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		user_id TEXT NOT NULL,
		goal TEXT NOT NULL,
		rank INTEGER NOT NULL,
		content_id TEXT NOT NULL,
		score REAL NOT NULL,
		reasons TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recommendations_run_user
		ON recommendations (run_id, user_id, rank);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
