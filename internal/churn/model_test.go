package churn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/internal/models"
)

func TestTrainImportanceModel_TooFewRows(t *testing.T) {
	features, labels := churnedLowEngagement(8)
	report := TrainImportanceModel(features, labels)

	assert.Zero(t, report.TrainSize)
	assert.Zero(t, report.TestSize)
	assert.Empty(t, report.FeatureImportance)
}

func TestTrainImportanceModel_SeparableData(t *testing.T) {
	features, labels := churnedLowEngagement(100)
	report := TrainImportanceModel(features, labels)

	assert.Equal(t, 80, report.TrainSize)
	assert.Equal(t, 20, report.TestSize)
	require.Len(t, report.FeatureImportance, len(models.FeatureNames))

	// Cleanly separable cohorts; the holdout must be classified
	// perfectly.
	assert.InDelta(t, 1.0, report.ROCAUC, 1e-9)
	assert.InDelta(t, 1.0, report.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, report.Precision, 1e-9)
	assert.InDelta(t, 1.0, report.Recall, 1e-9)
	assert.InDelta(t, 1.0, report.F1, 1e-9)

	var total float64
	for _, v := range report.FeatureImportance {
		assert.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// The discriminating features carry the weight; constant columns
	// contribute nothing.
	assert.Greater(t, report.FeatureImportance["completion_rate"], report.FeatureImportance["total_time_minutes"])
	assert.InDelta(t, 0.0, report.FeatureImportance["total_time_minutes"], 1e-9)
}

func TestTrainImportanceModel_Deterministic(t *testing.T) {
	features, labels := churnedLowEngagement(60)
	a := TrainImportanceModel(features, labels)
	b := TrainImportanceModel(features, labels)

	assert.Equal(t, a.ROCAUC, b.ROCAUC)
	assert.Equal(t, a.FeatureImportance, b.FeatureImportance)
}

func TestRocAUC(t *testing.T) {
	// Perfect ranking.
	assert.InDelta(t, 1.0, rocAUC([]float64{0.1, 0.2, 0.8, 0.9}, []float64{0, 0, 1, 1}), 1e-9)
	// Inverted ranking.
	assert.InDelta(t, 0.0, rocAUC([]float64{0.9, 0.8, 0.2, 0.1}, []float64{0, 0, 1, 1}), 1e-9)
	// All scores tied counts half.
	assert.InDelta(t, 0.5, rocAUC([]float64{0.5, 0.5, 0.5, 0.5}, []float64{0, 1, 0, 1}), 1e-9)
	// Single-class holdout falls back to 0.5.
	assert.InDelta(t, 0.5, rocAUC([]float64{0.3, 0.7}, []float64{1, 1}), 1e-9)
}

func TestClassificationMetrics(t *testing.T) {
	probs := []float64{0.9, 0.8, 0.4, 0.2, 0.6}
	truth := []float64{1, 0, 1, 0, 1}
	// tp=2 (0.9, 0.6), fp=1 (0.8), fn=1 (0.4), tn=1 (0.2)
	accuracy, precision, recall, f1 := classificationMetrics(probs, truth)
	assert.InDelta(t, 0.6, accuracy, 1e-9)
	assert.InDelta(t, 2.0/3.0, precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, f1, 1e-9)
}

func TestColumnStats_ConstantColumn(t *testing.T) {
	matrix := make([][]float64, 4)
	for i := range matrix {
		row := make([]float64, len(models.FeatureNames))
		row[0] = float64(i) // varying
		row[1] = 5          // constant
		matrix[i] = row
	}
	means, stddevs := columnStats(matrix, []int{0, 1, 2, 3})

	assert.InDelta(t, 1.5, means[0], 1e-9)
	assert.InDelta(t, 5.0, means[1], 1e-9)
	assert.InDelta(t, math.Sqrt(1.25), stddevs[0], 1e-9)
	assert.Equal(t, 1.0, stddevs[1])
}

func TestJoin_AlignsByUserID(t *testing.T) {
	features := []models.UserFeatures{
		{UserID: "u_1", CompletionRate: 0.9},
		{UserID: "u_2", CompletionRate: 0.1},
		{UserID: "u_3", CompletionRate: 0.5},
	}
	labels := []models.ChurnLabel{
		{UserID: "u_2", Churned: true},
		{UserID: "u_1", Churned: false},
	}

	matrix, churned := join(features, labels)
	require.Len(t, matrix, 2)
	require.Len(t, churned, 2)

	// Order follows the features slice, not the labels slice.
	assert.Equal(t, []float64{0, 1}, churned)
	assert.InDelta(t, 0.9, matrix[0][3], 1e-9)
	assert.InDelta(t, 0.1, matrix[1][3], 1e-9)
}
