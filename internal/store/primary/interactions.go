package primary

import (
	"context"
	"database/sql"
	"fmt"

	"verve/internal/models"
)

// SaveInteractions bulk-inserts the simulated interaction log for a run.
func (s *StoreImpl) SaveInteractions(ctx context.Context, runID string, interactions []models.Interaction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO interactions (run_id, user_id, content_id, date, day_number, completed, time_spent_minutes, session_number)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, in := range interactions {
			if _, err := stmt.ExecContext(ctx, runID, in.UserID, in.ContentID, in.Date,
				in.DayNumber, in.Completed, in.TimeSpentMinutes, in.SessionNumber); err != nil {
				return fmt.Errorf("insert interaction: %w", err)
			}
		}
		return nil
	})
}

// ListInteractions returns a run's full interaction log.
func (s *StoreImpl) ListInteractions(ctx context.Context, runID string) ([]models.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, content_id, date, day_number, completed, time_spent_minutes, session_number
		FROM interactions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var interactions []models.Interaction
	for rows.Next() {
		var in models.Interaction
		if err := rows.Scan(&in.UserID, &in.ContentID, &in.Date, &in.DayNumber,
			&in.Completed, &in.TimeSpentMinutes, &in.SessionNumber); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

// ListUserContentIDs returns the distinct content IDs a user has
// interacted with during a run, for seen-content sets.
func (s *StoreImpl) ListUserContentIDs(ctx context.Context, runID, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT content_id FROM interactions
		WHERE run_id = ? AND user_id = ? ORDER BY content_id`, runID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user content: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan content id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
