// Package tasks defines the Asynq task types and payloads shared by the
// batch enqueuer and the worker.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeRecommendationRefresh recomputes and persists top-N
	// recommendations for one user of a run.
	TypeRecommendationRefresh = "recommend:refresh"
)

// RecommendationRefreshPayload identifies the user and scoring context
// for a refresh task.
type RecommendationRefreshPayload struct {
	RunID         string `json:"run_id"`
	UserID        string `json:"user_id"`
	Goal          string `json:"goal"`
	N             int    `json:"n"`
	SessionNumber int    `json:"session_number"`
}

// NewRecommendationRefreshTask builds the Asynq task for a refresh.
func NewRecommendationRefreshTask(p RecommendationRefreshPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal refresh payload: %w", err)
	}
	return asynq.NewTask(TypeRecommendationRefresh, payload), nil
}
