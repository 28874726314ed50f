package recommend

import (
	"verve/internal/models"
)

// DefaultRetentionScore is the neutral prior for content absent from the
// retention statistics (too few observations is not a missing-data error).
const DefaultRetentionScore = 0.5

// RetentionTable maps content IDs to a normalized retention-lift score
// in [0,1]. Built once from churn-analysis output and immutable after.
type RetentionTable struct {
	scores map[string]float64
}

// BuildRetentionTable min-max normalizes the retention rates across all
// scored content. With zero variance (max == min) every item maps to
// the neutral 0.5 rather than computing an undefined ratio. Empty or
// nil stats yield an all-default table.
func BuildRetentionTable(stats []models.ContentStats) *RetentionTable {
	t := &RetentionTable{scores: make(map[string]float64, len(stats))}
	if len(stats) == 0 {
		return t
	}

	minRet, maxRet := stats[0].RetentionRate, stats[0].RetentionRate
	for _, s := range stats[1:] {
		if s.RetentionRate < minRet {
			minRet = s.RetentionRate
		}
		if s.RetentionRate > maxRet {
			maxRet = s.RetentionRate
		}
	}

	for _, s := range stats {
		score := DefaultRetentionScore
		if maxRet > minRet {
			score = (s.RetentionRate - minRet) / (maxRet - minRet)
		}
		t.scores[s.ContentID] = score
	}
	return t
}

// Lookup returns the normalized retention score for a content ID,
// defaulting to DefaultRetentionScore for unknown IDs.
func (t *RetentionTable) Lookup(contentID string) float64 {
	if score, ok := t.scores[contentID]; ok {
		return score
	}
	return DefaultRetentionScore
}

// Len returns the number of explicitly scored content IDs.
func (t *RetentionTable) Len() int {
	return len(t.scores)
}
