package recommend

import (
	"fmt"

	"verve/internal/models"
)

// WeightProfile holds the four non-negative factor weights. Weights are
// not required to sum to 1: scores are comparable only within a single
// recommendation call under a fixed profile.
type WeightProfile struct {
	GoalAlignment      float64 `json:"goal_alignment" mapstructure:"goal_alignment"`
	RetentionLift      float64 `json:"retention_lift" mapstructure:"retention_lift"`
	CompletionFriendly float64 `json:"completion_friendly" mapstructure:"completion_friendly"`
	Freshness          float64 `json:"freshness" mapstructure:"freshness"`
}

// FirstSessionWeights favors alignment and ease of completion to hook
// new users.
var FirstSessionWeights = WeightProfile{
	GoalAlignment:      0.40,
	RetentionLift:      0.25,
	CompletionFriendly: 0.25,
	Freshness:          0.10,
}

// LaterSessionWeights favors novelty and proven retention content.
var LaterSessionWeights = WeightProfile{
	GoalAlignment:      0.30,
	RetentionLift:      0.30,
	CompletionFriendly: 0.15,
	Freshness:          0.25,
}

// DefaultWeights is used when a caller scores content directly without
// selecting a session profile.
var DefaultWeights = WeightProfile{
	GoalAlignment:      0.35,
	RetentionLift:      0.30,
	CompletionFriendly: 0.20,
	Freshness:          0.15,
}

// ProfileForSession selects the weight profile for a session number.
// Session 1 is the first session; everything else is a later session.
func ProfileForSession(sessionNumber int) WeightProfile {
	if sessionNumber == 1 {
		return FirstSessionWeights
	}
	return LaterSessionWeights
}

// difficultyScores is the fixed completion-friendliness lookup; an
// unrecognized difficulty degrades to the neutral 0.5.
var difficultyScores = map[string]float64{
	models.DifficultyBeginner:     1.0,
	models.DifficultyIntermediate: 0.6,
	models.DifficultyAdvanced:     0.3,
}

// Scorer computes the multi-factor score for a single content item. It
// is stateless beyond its immutable retention table and is safe for
// concurrent use.
type Scorer struct {
	retention *RetentionTable
}

// NewScorer builds a scorer over a retention table. A nil table behaves
// as an all-default one.
func NewScorer(retention *RetentionTable) *Scorer {
	if retention == nil {
		retention = BuildRetentionTable(nil)
	}
	return &Scorer{retention: retention}
}

// Score evaluates one (content, goal, context) triple and returns the
// composite score plus human-readable reasons in a fixed order. The
// score is an unbounded real. There are no failure conditions: an
// unknown goal or difficulty contributes a neutral term instead of an
// error, and seen content only affects the freshness term, never
// candidacy.
func (s *Scorer) Score(item models.ContentItem, userGoal string, seen map[string]bool, weights WeightProfile) (float64, []string) {
	score := 0.0
	var reasons []string

	// 1. Goal alignment.
	if categoryMatchesGoal(item.Category, userGoal) {
		score += weights.GoalAlignment
		reasons = append(reasons, fmt.Sprintf("Matches your %s goal", userGoal))
	}

	// 2. Retention lift from churn analysis.
	retention := s.retention.Lookup(item.ContentID)
	score += weights.RetentionLift * retention
	if retention > 0.7 {
		reasons = append(reasons, "High retention content")
	}

	// 3. Completion-friendliness: duration peaks at 5 minutes and decays
	// to 0 at 35, favoring the 5-15 minute band.
	durationScore := 1 - (item.DurationMinutes-5)/30
	if durationScore < 0 {
		durationScore = 0
	}
	difficultyScore, ok := difficultyScores[item.Difficulty]
	if !ok {
		difficultyScore = 0.5
	}
	score += weights.CompletionFriendly * (durationScore + difficultyScore) / 2
	if item.Difficulty == models.DifficultyBeginner && item.DurationMinutes <= 15 {
		reasons = append(reasons, "Easy to complete")
	}

	// 4. Freshness: full penalty for repeats, half bonus for anything
	// not yet seen.
	if seen[item.ContentID] {
		score -= weights.Freshness
	} else {
		score += weights.Freshness * 0.5
	}

	return score, reasons
}

func categoryMatchesGoal(category, userGoal string) bool {
	for _, preferred := range models.GoalCategoryMap[userGoal] {
		if category == preferred {
			return true
		}
	}
	return false
}

// SeenSet converts a list of content IDs into the set form Score expects.
func SeenSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen
}
