// Package worker implements the Asynq task handlers.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"verve/internal/models"
	"verve/internal/recommend"
	"verve/internal/store"
	"verve/internal/tasks"
)

// RecommendationDeps carries everything the refresh handler needs.
type RecommendationDeps struct {
	Datasets        store.DatasetStore
	Recommendations store.RecommendationStore
}

// RegisterHandlers wires the task handlers onto the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps RecommendationDeps) {
	h := &refreshHandler{deps: deps, recommenders: make(map[string]*recommend.Recommender)}
	mux.HandleFunc(tasks.TypeRecommendationRefresh, h.handle)
}

type refreshHandler struct {
	deps RecommendationDeps

	// Recommenders are immutable once built, so one per run is shared
	// across concurrent tasks.
	mu           sync.Mutex
	recommenders map[string]*recommend.Recommender
}

func (h *refreshHandler) handle(ctx context.Context, task *asynq.Task) error {
	var p tasks.RecommendationRefreshPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal refresh payload: %w", err)
	}

	rec, err := h.recommenderFor(ctx, p.RunID)
	if err != nil {
		return err
	}

	seen, err := h.deps.Datasets.ListUserContentIDs(ctx, p.RunID, p.UserID)
	if err != nil {
		return fmt.Errorf("load seen content for %s: %w", p.UserID, err)
	}

	recs := rec.Recommend(p.Goal, p.N, seen, p.SessionNumber)

	now := time.Now()
	snapshots := make([]models.RecommendationSnapshot, 0, len(recs))
	for i, r := range recs {
		snapshots = append(snapshots, models.RecommendationSnapshot{
			RunID:     p.RunID,
			UserID:    p.UserID,
			Goal:      p.Goal,
			Rank:      i + 1,
			ContentID: r.ContentID,
			Score:     r.Score,
			Reasons:   r.Reasons,
			CreatedAt: now,
		})
	}
	if err := h.deps.Recommendations.SaveRecommendations(ctx, snapshots); err != nil {
		return fmt.Errorf("persist recommendations for %s: %w", p.UserID, err)
	}

	log.WithFields(log.Fields{
		"run_id":  p.RunID,
		"user_id": p.UserID,
		"goal":    p.Goal,
		"count":   len(snapshots),
	}).Debug("Recommendation refresh complete")
	return nil
}

func (h *refreshHandler) recommenderFor(ctx context.Context, runID string) (*recommend.Recommender, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.recommenders[runID]; ok {
		return rec, nil
	}

	content, err := h.deps.Datasets.ListContent(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load content for run %s: %w", runID, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, models.ErrEmptyCatalog)
	}
	stats, err := h.deps.Datasets.ListContentStats(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load content stats for run %s: %w", runID, err)
	}

	rec := recommend.NewRecommender(
		recommend.NewCatalog(content),
		recommend.BuildRetentionTable(stats),
		nil,
	)
	h.recommenders[runID] = rec
	return rec, nil
}
