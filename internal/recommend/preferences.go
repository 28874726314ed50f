package recommend

import (
	"verve/internal/models"
)

// PreferenceModel holds category popularity ratios learned from retained
// users' completed first-session interactions. It is advisory only: the
// documented scoring algorithm never consumes it, and folding it in
// would change documented outputs. Exposed as a diagnostic.
type PreferenceModel struct {
	popularCategories map[string]float64
}

// BuildPreferenceModel computes the category share of completed
// first-session (day 0) interactions among retained users. Missing
// interactions or labels yield an empty model, never an error.
func BuildPreferenceModel(interactions []models.Interaction, labels []models.ChurnLabel, catalog *Catalog) *PreferenceModel {
	m := &PreferenceModel{popularCategories: make(map[string]float64)}
	if len(interactions) == 0 || len(labels) == 0 || catalog == nil {
		return m
	}

	retained := make(map[string]bool, len(labels))
	for _, l := range labels {
		if !l.Churned {
			retained[l.UserID] = true
		}
	}

	counts := make(map[string]int)
	total := 0
	for _, in := range interactions {
		if !retained[in.UserID] || in.DayNumber != 0 || !in.Completed {
			continue
		}
		item, err := catalog.Get(in.ContentID)
		if err != nil {
			// Interaction references content outside the catalog; skip.
			continue
		}
		counts[item.Category]++
		total++
	}
	if total == 0 {
		return m
	}

	for category, n := range counts {
		m.popularCategories[category] = float64(n) / float64(total)
	}
	return m
}

// PopularCategories returns the category -> share map. Callers must not
// mutate it.
func (m *PreferenceModel) PopularCategories() map[string]float64 {
	return m.popularCategories
}
