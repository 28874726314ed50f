package primary

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/internal/models"
	"verve/internal/store"
)

func newTestStore(t *testing.T) *StoreImpl {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "verve_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedRun(t *testing.T, s *StoreImpl, id string, createdAt time.Time) *models.Run {
	t.Helper()
	run := &models.Run{
		ID:           id,
		CreatedAt:    createdAt,
		Users:        500,
		ContentItems: 50,
		Interactions: 12000,
		ChurnRate:    0.44,
	}
	require.NoError(t, s.CreateRun(context.Background(), run))
	return run
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}

func TestRunRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	want := seedRun(t, s, "run-1", created)

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Users, got.Users)
	assert.Equal(t, want.ContentItems, got.ContentItems)
	assert.Equal(t, want.Interactions, got.Interactions)
	assert.InDelta(t, want.ChurnRate, got.ChurnRate, 1e-9)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	seedRun(t, s, "run-old", base)
	seedRun(t, s, "run-new", base.Add(2*time.Hour))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-new", latest.ID)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		seedRun(t, s, id, base.Add(time.Duration(i)*time.Hour))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestContentRoundTrip_PreservesCatalogOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", time.Now())

	items := []models.ContentItem{
		{ContentID: "c_010", Category: models.CategorySleep, Format: models.FormatAudio, DurationMinutes: 20, Difficulty: models.DifficultyBeginner, Title: "Sleep Story 10", QualityScore: 0.8},
		{ContentID: "c_002", Category: models.CategoryFitness, Format: models.FormatVideo, DurationMinutes: 10, Difficulty: models.DifficultyAdvanced, Title: "HIIT Blast 2", QualityScore: 0.5},
		{ContentID: "c_007", Category: models.CategoryNutrition, Format: models.FormatArticle, DurationMinutes: 5, Difficulty: models.DifficultyIntermediate, Title: "Meal Prep 7", QualityScore: 0.6},
	}
	require.NoError(t, s.SaveContent(ctx, "run-1", items))

	got, err := s.ListContent(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", time.Now())

	signup := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	users := []models.User{
		{UserID: "u_00002", Goal: models.GoalBetterSleep, Age: 41, Gender: "female", SignupDate: signup},
		{UserID: "u_00001", Goal: models.GoalWeightLoss, Age: 29, Gender: "male", SignupDate: signup},
	}
	require.NoError(t, s.SaveUsers(ctx, "run-1", users))

	got, err := s.ListUsers(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Sorted by user ID.
	assert.Equal(t, "u_00001", got[0].UserID)
	assert.Equal(t, models.GoalWeightLoss, got[0].Goal)
	assert.Equal(t, 29, got[0].Age)
	assert.Equal(t, "u_00002", got[1].UserID)
}

func TestInteractionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", time.Now())

	date := time.Date(2026, 8, 2, 8, 30, 0, 0, time.UTC)
	interactions := []models.Interaction{
		{UserID: "u_1", ContentID: "c_1", Date: date, DayNumber: 0, Completed: true, TimeSpentMinutes: 9.5, SessionNumber: 1},
		{UserID: "u_1", ContentID: "c_2", Date: date, DayNumber: 0, Completed: false, TimeSpentMinutes: 1.5, SessionNumber: 1},
		{UserID: "u_2", ContentID: "c_1", Date: date.AddDate(0, 0, 3), DayNumber: 3, Completed: true, TimeSpentMinutes: 11, SessionNumber: 2},
	}
	require.NoError(t, s.SaveInteractions(ctx, "run-1", interactions))

	got, err := s.ListInteractions(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "u_1", got[0].UserID)
	assert.True(t, got[0].Completed)
	assert.False(t, got[1].Completed)
	assert.InDelta(t, 9.5, got[0].TimeSpentMinutes, 1e-9)
	assert.Equal(t, 3, got[2].DayNumber)
}

func TestListUserContentIDs_Distinct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", time.Now())

	date := time.Now()
	interactions := []models.Interaction{
		{UserID: "u_1", ContentID: "c_2", Date: date, DayNumber: 0, SessionNumber: 1},
		{UserID: "u_1", ContentID: "c_1", Date: date, DayNumber: 1, SessionNumber: 2},
		{UserID: "u_1", ContentID: "c_2", Date: date, DayNumber: 2, SessionNumber: 3},
		{UserID: "u_2", ContentID: "c_9", Date: date, DayNumber: 0, SessionNumber: 1},
	}
	require.NoError(t, s.SaveInteractions(ctx, "run-1", interactions))

	ids, err := s.ListUserContentIDs(ctx, "run-1", "u_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c_1", "c_2"}, ids)

	none, err := s.ListUserContentIDs(ctx, "run-1", "u_absent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContentStatsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", time.Now())

	stats := []models.ContentStats{
		{ContentID: "c_1", ViewCount: 20, CompletionRate: 0.6, RetentionRate: 0.45, AvgTimeSpent: 7.2, Category: models.CategoryFitness, Format: models.FormatVideo, DurationMin: 10},
		{ContentID: "c_2", ViewCount: 15, CompletionRate: 0.9, RetentionRate: 0.8, AvgTimeSpent: 4.1, Category: models.CategorySleep, Format: models.FormatAudio, DurationMin: 20},
	}
	require.NoError(t, s.SaveContentStats(ctx, "run-1", stats))

	got, err := s.ListContentStats(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Sorted by retention rate descending.
	assert.Equal(t, "c_2", got[0].ContentID)
	assert.Equal(t, "c_1", got[1].ContentID)
	assert.InDelta(t, 0.45, got[1].RetentionRate, 1e-9)
}

func TestRecommendationRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRun(t, s, "run-1", time.Now())

	created := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	snaps := []models.RecommendationSnapshot{
		{RunID: "run-1", UserID: "u_1", Goal: models.GoalWeightLoss, Rank: 2, ContentID: "c_7", Score: 0.41, Reasons: nil, CreatedAt: created},
		{RunID: "run-1", UserID: "u_1", Goal: models.GoalWeightLoss, Rank: 1, ContentID: "c_2", Score: 0.88, Reasons: []string{"Matches your weight_loss goal", "High retention content"}, CreatedAt: created},
	}
	require.NoError(t, s.SaveRecommendations(ctx, snaps))

	got, err := s.ListRecommendations(ctx, "run-1", "u_1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Rank order, not insertion order.
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "c_2", got[0].ContentID)
	assert.Equal(t, []string{"Matches your weight_loss goal", "High retention content"}, got[0].Reasons)
	assert.Equal(t, 2, got[1].Rank)
	assert.Empty(t, got[1].Reasons)

	other, err := s.ListRecommendations(ctx, "run-1", "u_other")
	require.NoError(t, err)
	assert.Empty(t, other)
}
