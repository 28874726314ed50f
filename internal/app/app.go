package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"verve/internal/config"
	"verve/internal/models"
	"verve/internal/recommend"
	"verve/internal/store"
	"verve/internal/store/primary"
)

// App bundles the configured collaborators every command shares.
type App struct {
	Config *config.Config

	RunStore            store.RunStore
	DatasetStore        store.DatasetStore
	RecommendationStore store.RecommendationStore

	storeImpl *primary.StoreImpl
}

// NewApp opens the primary store and wires the application.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	ps, err := primary.NewStore(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("init primary store: %w", err)
	}

	a := &App{
		Config:              cfg,
		RunStore:            ps,
		DatasetStore:        ps,
		RecommendationStore: ps,
		storeImpl:           ps,
	}
	log.Debug("Application initialization complete.")
	return a, nil
}

// Close releases store resources.
func (a *App) Close() error {
	if a.storeImpl != nil {
		return a.storeImpl.Close()
	}
	return nil
}

// ResolveRun returns the run for an explicit ID, or the latest run when
// id is empty.
func (a *App) ResolveRun(ctx context.Context, id string) (*models.Run, error) {
	if id != "" {
		return a.RunStore.GetRun(ctx, id)
	}
	run, err := a.RunStore.LatestRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("no runs recorded yet (run 'verve generate' first): %w", err)
	}
	return run, nil
}

// RecommenderForRun builds a recommender from a run's persisted catalog
// and retention statistics. Missing stats degrade to the all-default
// retention table, never to an error.
func (a *App) RecommenderForRun(ctx context.Context, runID string) (*recommend.Recommender, error) {
	content, err := a.DatasetStore.ListContent(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load content for run %s: %w", runID, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, models.ErrEmptyCatalog)
	}
	stats, err := a.DatasetStore.ListContentStats(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load content stats for run %s: %w", runID, err)
	}
	return recommend.NewRecommender(
		recommend.NewCatalog(content),
		recommend.BuildRetentionTable(stats),
		nil,
	), nil
}
