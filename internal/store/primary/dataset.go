package primary

import (
	"context"
	"database/sql"
	"fmt"

	"verve/internal/models"
)

// SaveContent bulk-inserts the content library for a run inside one
// transaction, preserving catalog order via the position column.
func (s *StoreImpl) SaveContent(ctx context.Context, runID string, items []models.ContentItem) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO content (run_id, position, content_id, category, format, duration_minutes, difficulty, title, quality_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, item := range items {
			if _, err := stmt.ExecContext(ctx, runID, i, item.ContentID, item.Category, item.Format,
				item.DurationMinutes, item.Difficulty, item.Title, item.QualityScore); err != nil {
				return fmt.Errorf("insert content %s: %w", item.ContentID, err)
			}
		}
		return nil
	})
}

// ListContent returns a run's content library in catalog order.
func (s *StoreImpl) ListContent(ctx context.Context, runID string) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content_id, category, format, duration_minutes, difficulty, title, quality_score
		FROM content WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(&item.ContentID, &item.Category, &item.Format, &item.DurationMinutes,
			&item.Difficulty, &item.Title, &item.QualityScore); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveUsers bulk-inserts user profiles for a run.
func (s *StoreImpl) SaveUsers(ctx context.Context, runID string, users []models.User) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO users (run_id, user_id, goal, age, gender, signup_date)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, user := range users {
			if _, err := stmt.ExecContext(ctx, runID, user.UserID, user.Goal, user.Age, user.Gender, user.SignupDate); err != nil {
				return fmt.Errorf("insert user %s: %w", user.UserID, err)
			}
		}
		return nil
	})
}

// ListUsers returns a run's user profiles.
func (s *StoreImpl) ListUsers(ctx context.Context, runID string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, goal, age, gender, signup_date
		FROM users WHERE run_id = ? ORDER BY user_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.UserID, &user.Goal, &user.Age, &user.Gender, &user.SignupDate); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SaveContentStats persists the per-content retention statistics
// produced by churn analysis.
func (s *StoreImpl) SaveContentStats(ctx context.Context, runID string, stats []models.ContentStats) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO content_stats (run_id, content_id, view_count, completion_rate, retention_rate, avg_time_spent, category, format, duration_minutes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, st := range stats {
			if _, err := stmt.ExecContext(ctx, runID, st.ContentID, st.ViewCount, st.CompletionRate,
				st.RetentionRate, st.AvgTimeSpent, st.Category, st.Format, st.DurationMin); err != nil {
				return fmt.Errorf("insert content stats %s: %w", st.ContentID, err)
			}
		}
		return nil
	})
}

// ListContentStats returns a run's retention statistics sorted by
// retention rate descending.
func (s *StoreImpl) ListContentStats(ctx context.Context, runID string) ([]models.ContentStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content_id, view_count, completion_rate, retention_rate, avg_time_spent, category, format, duration_minutes
		FROM content_stats WHERE run_id = ? ORDER BY retention_rate DESC, content_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list content stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ContentStats
	for rows.Next() {
		var st models.ContentStats
		if err := rows.Scan(&st.ContentID, &st.ViewCount, &st.CompletionRate, &st.RetentionRate,
			&st.AvgTimeSpent, &st.Category, &st.Format, &st.DurationMin); err != nil {
			return nil, fmt.Errorf("scan content stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *StoreImpl) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
