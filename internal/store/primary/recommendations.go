package primary

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"verve/internal/models"
)

// SaveRecommendations persists a batch of ranked recommendation rows.
// Reasons are stored as a JSON array.
func (s *StoreImpl) SaveRecommendations(ctx context.Context, snapshots []models.RecommendationSnapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO recommendations (run_id, user_id, goal, rank, content_id, score, reasons, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, snap := range snapshots {
			reasons, err := json.Marshal(snap.Reasons)
			if err != nil {
				return fmt.Errorf("marshal reasons: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, snap.RunID, snap.UserID, snap.Goal, snap.Rank,
				snap.ContentID, snap.Score, string(reasons), snap.CreatedAt); err != nil {
				return fmt.Errorf("insert recommendation for %s: %w", snap.UserID, err)
			}
		}
		return nil
	})
}

// ListRecommendations returns the persisted recommendations for a user
// within a run, in rank order.
func (s *StoreImpl) ListRecommendations(ctx context.Context, runID, userID string) ([]models.RecommendationSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, user_id, goal, rank, content_id, score, reasons, created_at
		FROM recommendations WHERE run_id = ? AND user_id = ? ORDER BY rank`, runID, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var snapshots []models.RecommendationSnapshot
	for rows.Next() {
		var snap models.RecommendationSnapshot
		var reasons string
		if err := rows.Scan(&snap.ID, &snap.RunID, &snap.UserID, &snap.Goal, &snap.Rank,
			&snap.ContentID, &snap.Score, &reasons, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		if err := json.Unmarshal([]byte(reasons), &snap.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshal reasons: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}
