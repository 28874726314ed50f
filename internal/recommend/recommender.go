package recommend

import (
	"sort"

	"verve/internal/models"
)

// Recommender ranks the whole catalog for a user context. All state is
// immutable after construction; concurrent Recommend calls are safe.
type Recommender struct {
	catalog     *Catalog
	scorer      *Scorer
	preferences *PreferenceModel
}

// NewRecommender wires a catalog with a retention table and an optional
// advisory preference model (may be nil).
func NewRecommender(catalog *Catalog, retention *RetentionTable, preferences *PreferenceModel) *Recommender {
	return &Recommender{
		catalog:     catalog,
		scorer:      NewScorer(retention),
		preferences: preferences,
	}
}

// Recommend scores every catalog item under the session's weight
// profile, ranks descending, and returns the top n. Ties keep catalog
// order (stable sort), so identical inputs always produce identical
// output. A catalog shorter than n returns everything without error.
func (r *Recommender) Recommend(userGoal string, n int, seenContent []string, sessionNumber int) []models.Recommendation {
	weights := ProfileForSession(sessionNumber)
	seen := SeenSet(seenContent)

	items := r.catalog.Items()
	recs := make([]models.Recommendation, 0, len(items))
	for _, item := range items {
		score, reasons := r.scorer.Score(item, userGoal, seen, weights)
		recs = append(recs, models.Recommendation{
			ContentID: item.ContentID,
			Score:     score,
			Reasons:   reasons,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if n >= 0 && n < len(recs) {
		recs = recs[:n]
	}
	return recs
}

// ScoreContent resolves a content ID through the catalog and scores it.
// Unknown IDs fail with models.ErrNotFound: requesting a nonexistent
// entity is a contract violation, unlike unknown attribute values which
// degrade to neutral contributions.
func (r *Recommender) ScoreContent(contentID, userGoal string, seenContent []string, weights WeightProfile) (float64, []string, error) {
	item, err := r.catalog.Get(contentID)
	if err != nil {
		return 0, nil, err
	}
	score, reasons := r.scorer.Score(item, userGoal, SeenSet(seenContent), weights)
	return score, reasons, nil
}

// Catalog exposes the underlying catalog for explanation rendering.
func (r *Recommender) Catalog() *Catalog {
	return r.catalog
}

// Preferences exposes the advisory preference model diagnostic; may be nil.
func (r *Recommender) Preferences() *PreferenceModel {
	return r.preferences
}
