package store

import (
	"context"

	"verve/internal/models"
)

// --- Run Store ---

type RunStore interface {
	CreateRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	LatestRun(ctx context.Context) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)

	Ping(ctx context.Context) error
}

// --- Dataset Store ---

type DatasetStore interface {
	SaveContent(ctx context.Context, runID string, items []models.ContentItem) error
	ListContent(ctx context.Context, runID string) ([]models.ContentItem, error)
	SaveUsers(ctx context.Context, runID string, users []models.User) error
	ListUsers(ctx context.Context, runID string) ([]models.User, error)
	SaveInteractions(ctx context.Context, runID string, interactions []models.Interaction) error
	ListInteractions(ctx context.Context, runID string) ([]models.Interaction, error)
	ListUserContentIDs(ctx context.Context, runID, userID string) ([]string, error)
	SaveContentStats(ctx context.Context, runID string, stats []models.ContentStats) error
	ListContentStats(ctx context.Context, runID string) ([]models.ContentStats, error)
}

// --- Recommendation Store ---

type RecommendationStore interface {
	SaveRecommendations(ctx context.Context, snapshots []models.RecommendationSnapshot) error
	ListRecommendations(ctx context.Context, runID, userID string) ([]models.RecommendationSnapshot, error)
}
