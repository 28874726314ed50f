package datagen

import (
	"verve/internal/models"
)

// ComputeFeatures derives the nine engagement features for every user
// from interactions up to and including asOfDay. Users with no activity
// in the window get the zero-row high-churn-risk profile.
func ComputeFeatures(users []models.User, interactions []models.Interaction, content []models.ContentItem, asOfDay int) []models.UserFeatures {
	categories := make(map[string]string, len(content))
	for _, item := range content {
		categories[item.ContentID] = item.Category
	}

	byUser := make(map[string][]models.Interaction)
	for _, in := range interactions {
		if in.DayNumber <= asOfDay {
			byUser[in.UserID] = append(byUser[in.UserID], in)
		}
	}

	features := make([]models.UserFeatures, 0, len(users))
	for _, user := range users {
		ints := byUser[user.UserID]
		if len(ints) == 0 {
			features = append(features, models.UserFeatures{
				UserID:                user.UserID,
				Goal:                  user.Goal,
				DaysSinceLastActivity: float64(asOfDay),
			})
			continue
		}

		var totalTime float64
		completions := 0
		firstSessionCompletions := 0
		lastDay := 0
		days := make(map[int]bool)
		seenCategories := make(map[string]bool)
		for _, in := range ints {
			totalTime += in.TimeSpentMinutes
			if in.Completed {
				completions++
				if in.DayNumber == 0 {
					firstSessionCompletions++
				}
			}
			if in.DayNumber > lastDay {
				lastDay = in.DayNumber
			}
			days[in.DayNumber] = true
			if cat, ok := categories[in.ContentID]; ok {
				seenCategories[cat] = true
			}
		}

		views := len(ints)
		features = append(features, models.UserFeatures{
			UserID:                  user.UserID,
			Goal:                    user.Goal,
			TotalSessions:           float64(len(days)),
			TotalContentViews:       float64(views),
			TotalTimeMinutes:        totalTime,
			CompletionRate:          float64(completions) / float64(views),
			AvgTimePerContent:       totalTime / float64(views),
			UniqueDaysActive:        float64(len(days)),
			DaysSinceLastActivity:   float64(asOfDay - lastDay),
			FirstSessionCompletions: float64(firstSessionCompletions),
			CategoryDiversity:       float64(len(seenCategories)),
		})
	}
	return features
}

// LabelChurn marks users with fewer than minActivity interactions in
// the [windowStart, windowEnd] day range as churned.
func LabelChurn(users []models.User, interactions []models.Interaction, windowStart, windowEnd, minActivity int) []models.ChurnLabel {
	activity := make(map[string]int)
	for _, in := range interactions {
		if in.DayNumber >= windowStart && in.DayNumber <= windowEnd {
			activity[in.UserID]++
		}
	}

	labels := make([]models.ChurnLabel, 0, len(users))
	for _, user := range users {
		labels = append(labels, models.ChurnLabel{
			UserID:  user.UserID,
			Churned: activity[user.UserID] < minActivity,
		})
	}
	return labels
}
