package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/internal/models"
)

func beginnerItem(id, category string) models.ContentItem {
	return models.ContentItem{
		ContentID:       id,
		Category:        category,
		Format:          models.FormatVideo,
		DurationMinutes: 10,
		Difficulty:      models.DifficultyBeginner,
		Title:           "Test Session",
	}
}

func TestScore_GoalAlignmentBeatsNonAligned(t *testing.T) {
	scorer := NewScorer(nil)
	aligned := beginnerItem("c_001", models.CategoryFitness)
	other := beginnerItem("c_002", models.CategorySleep)

	alignedScore, alignedReasons := scorer.Score(aligned, models.GoalWeightLoss, nil, DefaultWeights)
	otherScore, otherReasons := scorer.Score(other, models.GoalWeightLoss, nil, DefaultWeights)

	assert.Greater(t, alignedScore, otherScore)
	assert.Contains(t, alignedReasons, "Matches your weight_loss goal")
	assert.NotContains(t, otherReasons, "Matches your weight_loss goal")
}

func TestScore_CompositeValue(t *testing.T) {
	scorer := NewScorer(nil)
	item := beginnerItem("c_001", models.CategoryFitness)

	score, reasons := scorer.Score(item, models.GoalWeightLoss, nil, DefaultWeights)

	// alignment + retention_lift*0.5 + completion*avg(duration, difficulty) + freshness*0.5
	durationScore := 1 - (10.0-5)/30
	expected := 0.35 + 0.30*0.5 + 0.20*(durationScore+1.0)/2 + 0.15*0.5
	assert.InDelta(t, expected, score, 1e-9)
	assert.Equal(t, []string{"Matches your weight_loss goal", "Easy to complete"}, reasons)
}

func TestScore_FreshnessPenaltyDelta(t *testing.T) {
	scorer := NewScorer(nil)
	item := beginnerItem("c_001", models.CategoryFitness)

	unseenScore, _ := scorer.Score(item, models.GoalWeightLoss, nil, DefaultWeights)
	seenScore, _ := scorer.Score(item, models.GoalWeightLoss, SeenSet([]string{"c_001"}), DefaultWeights)

	assert.InDelta(t, DefaultWeights.Freshness*1.5, unseenScore-seenScore, 1e-9)
}

func TestScore_HighRetentionReason(t *testing.T) {
	table := BuildRetentionTable([]models.ContentStats{
		{ContentID: "c_top", RetentionRate: 0.9},
		{ContentID: "c_bottom", RetentionRate: 0.1},
	})
	scorer := NewScorer(table)

	_, topReasons := scorer.Score(beginnerItem("c_top", models.CategorySleep), models.GoalWeightLoss, nil, DefaultWeights)
	_, bottomReasons := scorer.Score(beginnerItem("c_bottom", models.CategorySleep), models.GoalWeightLoss, nil, DefaultWeights)

	assert.Contains(t, topReasons, "High retention content")
	assert.NotContains(t, bottomReasons, "High retention content")
}

func TestScore_UnknownGoalDegradesGracefully(t *testing.T) {
	scorer := NewScorer(nil)
	item := beginnerItem("c_001", models.CategoryFitness)

	score, reasons := scorer.Score(item, "run_marathon", nil, DefaultWeights)

	// No alignment bonus but no error either.
	durationScore := 1 - (10.0-5)/30
	expected := 0.30*0.5 + 0.20*(durationScore+1.0)/2 + 0.15*0.5
	assert.InDelta(t, expected, score, 1e-9)
	assert.Equal(t, []string{"Easy to complete"}, reasons)
}

func TestScore_UnknownDifficultyIsNeutral(t *testing.T) {
	scorer := NewScorer(nil)
	item := beginnerItem("c_001", models.CategorySleep)
	item.Difficulty = "expert"

	score, reasons := scorer.Score(item, models.GoalWeightLoss, nil, DefaultWeights)

	durationScore := 1 - (10.0-5)/30
	expected := 0.30*0.5 + 0.20*(durationScore+0.5)/2 + 0.15*0.5
	assert.InDelta(t, expected, score, 1e-9)
	assert.NotContains(t, reasons, "Easy to complete")
}

func TestScore_LongDurationClampsAtZero(t *testing.T) {
	scorer := NewScorer(nil)
	long := beginnerItem("c_001", models.CategorySleep)
	long.DurationMinutes = 60
	longer := beginnerItem("c_002", models.CategorySleep)
	longer.DurationMinutes = 120

	longScore, _ := scorer.Score(long, models.GoalWeightLoss, nil, DefaultWeights)
	longerScore, _ := scorer.Score(longer, models.GoalWeightLoss, nil, DefaultWeights)

	// Past 35 minutes the duration sub-score is clamped at 0, so even
	// longer content scores identically.
	assert.Equal(t, longScore, longerScore)
}

func TestScore_EasyToCompleteBoundary(t *testing.T) {
	scorer := NewScorer(nil)

	at15 := beginnerItem("c_001", models.CategorySleep)
	at15.DurationMinutes = 15
	_, reasons := scorer.Score(at15, models.GoalWeightLoss, nil, DefaultWeights)
	require.Contains(t, reasons, "Easy to complete")

	at16 := beginnerItem("c_002", models.CategorySleep)
	at16.DurationMinutes = 16
	_, reasons = scorer.Score(at16, models.GoalWeightLoss, nil, DefaultWeights)
	assert.NotContains(t, reasons, "Easy to complete")
}
