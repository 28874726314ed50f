package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"verve/internal/models"
	"verve/internal/store"
)

// CreateRun inserts a new run record.
func (s *StoreImpl) CreateRun(ctx context.Context, run *models.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, users, content_items, interactions, churn_rate)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Users, run.ContentItems, run.Interactions, run.ChurnRate,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun fetches a run by ID, mapping a missing row to store.ErrNotFound.
func (s *StoreImpl) GetRun(ctx context.Context, id string) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, users, content_items, interactions, churn_rate
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// LatestRun fetches the most recently created run.
func (s *StoreImpl) LatestRun(ctx context.Context) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, users, content_items, interactions, churn_rate
		FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	return scanRun(row)
}

// ListRuns returns up to limit runs, newest first.
func (s *StoreImpl) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, users, content_items, interactions, churn_rate
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Users, &run.ContentItems, &run.Interactions, &run.ChurnRate); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*models.Run, error) {
	var run models.Run
	err := row.Scan(&run.ID, &run.CreatedAt, &run.Users, &run.ContentItems, &run.Interactions, &run.ChurnRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &run, nil
}
