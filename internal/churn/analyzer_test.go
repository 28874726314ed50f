package churn

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/internal/models"
)

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}), 1e-9)
	assert.InDelta(t, -1.0, pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}), 1e-9)
	assert.Zero(t, pearson([]float64{3, 3, 3}, []float64{1, 2, 3}))
	assert.Zero(t, pearson([]float64{1}, []float64{2}))

	// Hand-computed: x={1,2,3}, y={1,2,4} -> r = 3/sqrt(2*4.666...)
	assert.InDelta(t, 3/math.Sqrt(2*(14.0/3.0)), pearson([]float64{1, 2, 3}, []float64{1, 2, 4}), 1e-9)
}

// churnedLowEngagement builds features where completion rate separates
// churned from retained users cleanly.
func churnedLowEngagement(n int) ([]models.UserFeatures, []models.ChurnLabel) {
	var features []models.UserFeatures
	var labels []models.ChurnLabel
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("u_%03d", i)
		churned := i%2 == 0
		f := models.UserFeatures{UserID: id, Goal: models.GoalWeightLoss}
		if churned {
			f.CompletionRate = 0.2
			f.TotalSessions = 1
			f.DaysSinceLastActivity = 7
		} else {
			f.CompletionRate = 0.9
			f.TotalSessions = 6
			f.DaysSinceLastActivity = 0
		}
		features = append(features, f)
		labels = append(labels, models.ChurnLabel{UserID: id, Churned: churned})
	}
	return features, labels
}

func TestCorrelations_SignsAndOrder(t *testing.T) {
	features, labels := churnedLowEngagement(40)
	corrs := Correlations(features, labels)
	require.Len(t, corrs, len(models.FeatureNames))

	byName := make(map[string]float64, len(corrs))
	for _, c := range corrs {
		byName[c.Feature] = c.CorrelationWithChurn
	}
	assert.InDelta(t, -1.0, byName["completion_rate"], 1e-9)
	assert.InDelta(t, -1.0, byName["total_sessions"], 1e-9)
	assert.InDelta(t, 1.0, byName["days_since_last_activity"], 1e-9)

	for i := 1; i < len(corrs); i++ {
		assert.LessOrEqual(t, corrs[i-1].CorrelationWithChurn, corrs[i].CorrelationWithChurn)
	}
}

func TestCorrelations_SkipsUnlabeledUsers(t *testing.T) {
	features, labels := churnedLowEngagement(20)
	features = append(features, models.UserFeatures{UserID: "u_stray", CompletionRate: 0.5})
	corrs := Correlations(features, labels)

	byName := make(map[string]float64, len(corrs))
	for _, c := range corrs {
		byName[c.Feature] = c.CorrelationWithChurn
	}
	assert.InDelta(t, -1.0, byName["completion_rate"], 1e-9)
}

func TestCompareCohorts(t *testing.T) {
	features := []models.UserFeatures{
		{UserID: "u_1", CompletionRate: 0.8, TotalSessions: 4},
		{UserID: "u_2", CompletionRate: 0.6, TotalSessions: 2},
		{UserID: "u_3", CompletionRate: 0.2, TotalSessions: 1},
	}
	labels := []models.ChurnLabel{
		{UserID: "u_1", Churned: false},
		{UserID: "u_2", Churned: false},
		{UserID: "u_3", Churned: true},
	}

	cohorts := CompareCohorts(features, labels)
	require.Len(t, cohorts, len(models.FeatureNames))

	byName := make(map[string]models.CohortComparison, len(cohorts))
	for _, c := range cohorts {
		byName[c.Feature] = c
	}

	cr := byName["completion_rate"]
	assert.InDelta(t, 0.2, cr.ChurnedMean, 1e-9)
	assert.InDelta(t, 0.7, cr.RetainedMean, 1e-9)
	assert.InDelta(t, 0.5, cr.Difference, 1e-9)
	assert.InDelta(t, 250.0, cr.PctDifference, 1e-9)

	// Features with a zero churned mean have no defined percentage and
	// sort to the back.
	diversity := byName["category_diversity"]
	assert.True(t, math.IsNaN(diversity.PctDifference))
	assert.True(t, math.IsNaN(cohorts[len(cohorts)-1].PctDifference))
	assert.False(t, math.IsNaN(cohorts[0].PctDifference))
}

func TestContentPerformance(t *testing.T) {
	content := []models.ContentItem{
		{ContentID: "c_1", Category: models.CategoryFitness, Format: models.FormatVideo, DurationMinutes: 10},
		{ContentID: "c_2", Category: models.CategorySleep, Format: models.FormatArticle, DurationMinutes: 5},
		{ContentID: "c_rare", Category: models.CategoryNutrition, Format: models.FormatAudio, DurationMinutes: 15},
	}

	var interactions []models.Interaction
	var labels []models.ChurnLabel
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("u_%d", i)
		churned := i >= 4 // 4 retained, 2 churned
		labels = append(labels, models.ChurnLabel{UserID: id, Churned: churned})
		interactions = append(interactions, models.Interaction{
			UserID: id, ContentID: "c_1", DayNumber: 0,
			Completed: i < 3, TimeSpentMinutes: 10,
		})
	}
	for i := 0; i < 5; i++ {
		interactions = append(interactions, models.Interaction{
			UserID: fmt.Sprintf("u_%d", i), ContentID: "c_2", DayNumber: 0,
			Completed: true, TimeSpentMinutes: 4,
		})
	}
	// Below the view threshold; must be dropped.
	interactions = append(interactions, models.Interaction{
		UserID: "u_0", ContentID: "c_rare", DayNumber: 0, Completed: true, TimeSpentMinutes: 15,
	})
	// Day 1 views never count toward first-session stats.
	interactions = append(interactions, models.Interaction{
		UserID: "u_0", ContentID: "c_1", DayNumber: 1, Completed: true, TimeSpentMinutes: 10,
	})
	// Unlabeled users are excluded.
	interactions = append(interactions, models.Interaction{
		UserID: "u_unlabeled", ContentID: "c_1", DayNumber: 0, Completed: true, TimeSpentMinutes: 10,
	})

	stats := ContentPerformance(interactions, content, labels)
	require.Len(t, stats, 2)

	// c_2 retention 4/5 beats c_1 retention 4/6.
	assert.Equal(t, "c_2", stats[0].ContentID)
	assert.Equal(t, "c_1", stats[1].ContentID)

	c1 := stats[1]
	assert.Equal(t, 6, c1.ViewCount)
	assert.InDelta(t, 0.5, c1.CompletionRate, 1e-9)
	assert.InDelta(t, 4.0/6.0, c1.RetentionRate, 1e-9)
	assert.InDelta(t, 10.0, c1.AvgTimeSpent, 1e-9)
	assert.Equal(t, models.CategoryFitness, c1.Category)
	assert.Equal(t, models.FormatVideo, c1.Format)
	assert.Equal(t, 10.0, c1.DurationMin)

	c2 := stats[0]
	assert.Equal(t, 5, c2.ViewCount)
	assert.InDelta(t, 1.0, c2.CompletionRate, 1e-9)
	assert.InDelta(t, 0.8, c2.RetentionRate, 1e-9)
}

func TestContentPerformance_TieBreakByID(t *testing.T) {
	content := []models.ContentItem{
		{ContentID: "c_b"}, {ContentID: "c_a"},
	}
	var interactions []models.Interaction
	var labels []models.ChurnLabel
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("u_%d", i)
		labels = append(labels, models.ChurnLabel{UserID: id, Churned: false})
		for _, cid := range []string{"c_b", "c_a"} {
			interactions = append(interactions, models.Interaction{
				UserID: id, ContentID: cid, DayNumber: 0, Completed: true, TimeSpentMinutes: 5,
			})
		}
	}

	stats := ContentPerformance(interactions, content, labels)
	require.Len(t, stats, 2)
	assert.Equal(t, "c_a", stats[0].ContentID)
	assert.Equal(t, "c_b", stats[1].ContentID)
}
