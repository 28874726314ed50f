// Package churn analyzes engagement features against churn labels:
// feature correlations, cohort comparison, a feature-importance model,
// and the per-content retention statistics that feed recommendation
// scoring.
package churn

import (
	"math"
	"sort"

	"verve/internal/models"
)

// Correlations computes the Pearson correlation of each engagement
// feature with the churn indicator, sorted ascending (most protective
// features first).
func Correlations(features []models.UserFeatures, labels []models.ChurnLabel) []models.FeatureCorrelation {
	matrix, churned := join(features, labels)

	out := make([]models.FeatureCorrelation, 0, len(models.FeatureNames))
	for i, name := range models.FeatureNames {
		col := make([]float64, len(matrix))
		for row := range matrix {
			col[row] = matrix[row][i]
		}
		out = append(out, models.FeatureCorrelation{
			Feature:              name,
			CorrelationWithChurn: pearson(col, churned),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CorrelationWithChurn < out[j].CorrelationWithChurn
	})
	return out
}

// CompareCohorts computes churned vs retained feature means, sorted by
// percentage difference descending. A zero churned mean yields a NaN
// percentage, matching the undefined ratio.
func CompareCohorts(features []models.UserFeatures, labels []models.ChurnLabel) []models.CohortComparison {
	matrix, churned := join(features, labels)

	nFeatures := len(models.FeatureNames)
	churnedSum := make([]float64, nFeatures)
	retainedSum := make([]float64, nFeatures)
	nChurned, nRetained := 0, 0
	for row := range matrix {
		if churned[row] == 1 {
			nChurned++
			for i, v := range matrix[row] {
				churnedSum[i] += v
			}
		} else {
			nRetained++
			for i, v := range matrix[row] {
				retainedSum[i] += v
			}
		}
	}

	out := make([]models.CohortComparison, 0, nFeatures)
	for i, name := range models.FeatureNames {
		var churnedMean, retainedMean float64
		if nChurned > 0 {
			churnedMean = churnedSum[i] / float64(nChurned)
		}
		if nRetained > 0 {
			retainedMean = retainedSum[i] / float64(nRetained)
		}
		diff := retainedMean - churnedMean
		pct := math.NaN()
		if churnedMean != 0 {
			pct = diff / churnedMean * 100
		}
		out = append(out, models.CohortComparison{
			Feature:       name,
			ChurnedMean:   churnedMean,
			RetainedMean:  retainedMean,
			Difference:    diff,
			PctDifference: pct,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PctDifference, out[j].PctDifference
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
	return out
}

// minContentViews filters out content with too few first-session views
// for its retention rate to mean anything.
const minContentViews = 5

// ContentPerformance aggregates first-session (day 0) interactions into
// per-content view counts, completion rates, retention rates and time
// spent, sorted by retention rate descending. This is the input contract
// for the retention score table.
func ContentPerformance(interactions []models.Interaction, content []models.ContentItem, labels []models.ChurnLabel) []models.ContentStats {
	churnedByUser := make(map[string]bool, len(labels))
	labeled := make(map[string]bool, len(labels))
	for _, l := range labels {
		churnedByUser[l.UserID] = l.Churned
		labeled[l.UserID] = true
	}
	itemsByID := make(map[string]models.ContentItem, len(content))
	for _, item := range content {
		itemsByID[item.ContentID] = item
	}

	type agg struct {
		views     int
		completed int
		retained  int
		timeSpent float64
	}
	byContent := make(map[string]*agg)
	for _, in := range interactions {
		if in.DayNumber != 0 || !labeled[in.UserID] {
			continue
		}
		a := byContent[in.ContentID]
		if a == nil {
			a = &agg{}
			byContent[in.ContentID] = a
		}
		a.views++
		if in.Completed {
			a.completed++
		}
		if !churnedByUser[in.UserID] {
			a.retained++
		}
		a.timeSpent += in.TimeSpentMinutes
	}

	var out []models.ContentStats
	for id, a := range byContent {
		if a.views < minContentViews {
			continue
		}
		item := itemsByID[id]
		out = append(out, models.ContentStats{
			ContentID:      id,
			ViewCount:      a.views,
			CompletionRate: float64(a.completed) / float64(a.views),
			RetentionRate:  float64(a.retained) / float64(a.views),
			AvgTimeSpent:   a.timeSpent / float64(a.views),
			Category:       item.Category,
			Format:         item.Format,
			DurationMin:    item.DurationMinutes,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RetentionRate != out[j].RetentionRate {
			return out[i].RetentionRate > out[j].RetentionRate
		}
		return out[i].ContentID < out[j].ContentID
	})
	return out
}

// join aligns features with labels by user ID and returns the feature
// matrix plus a parallel 0/1 churn vector. Unlabeled users are skipped.
func join(features []models.UserFeatures, labels []models.ChurnLabel) ([][]float64, []float64) {
	churnedByUser := make(map[string]bool, len(labels))
	labeled := make(map[string]bool, len(labels))
	for _, l := range labels {
		churnedByUser[l.UserID] = l.Churned
		labeled[l.UserID] = true
	}

	var matrix [][]float64
	var churned []float64
	for _, f := range features {
		if !labeled[f.UserID] {
			continue
		}
		matrix = append(matrix, f.Vector())
		if churnedByUser[f.UserID] {
			churned = append(churned, 1)
		} else {
			churned = append(churned, 0)
		}
	}
	return matrix, churned
}

// pearson computes the sample correlation coefficient; degenerate
// inputs (zero variance, short series) return 0.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0
	}
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
