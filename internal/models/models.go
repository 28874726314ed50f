package models

import (
	"time"
)

// Enumerated user goals. Unknown goals are tolerated by the scorer and
// simply earn no alignment bonus.
const (
	GoalWeightLoss      = "weight_loss"
	GoalStressReduction = "stress_reduction"
	GoalBetterSleep     = "better_sleep"
	GoalBuildStrength   = "build_strength"
)

// Goals lists every supported goal in a fixed order.
var Goals = []string{
	GoalWeightLoss,
	GoalStressReduction,
	GoalBetterSleep,
	GoalBuildStrength,
}

// Content categories.
const (
	CategoryFitness    = "fitness"
	CategoryMeditation = "meditation"
	CategorySleep      = "sleep"
	CategoryNutrition  = "nutrition"
	CategoryStrength   = "strength"
)

var Categories = []string{
	CategoryFitness,
	CategoryMeditation,
	CategorySleep,
	CategoryNutrition,
	CategoryStrength,
}

// Content formats.
const (
	FormatVideo   = "video"
	FormatAudio   = "audio"
	FormatArticle = "article"
)

// Content difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// GoalCategoryMap maps each supported goal to the content categories
// considered relevant for it. Used only for goal-alignment scoring.
var GoalCategoryMap = map[string][]string{
	GoalWeightLoss:      {CategoryFitness, CategoryNutrition},
	GoalStressReduction: {CategoryMeditation, CategorySleep},
	GoalBetterSleep:     {CategorySleep, CategoryMeditation},
	GoalBuildStrength:   {CategoryStrength, CategoryFitness},
}

// User is a synthetic app user profile.
type User struct {
	UserID     string    `json:"user_id" db:"user_id"`
	Goal       string    `json:"goal" db:"goal"`
	Age        int       `json:"age" db:"age"`
	Gender     string    `json:"gender" db:"gender"`
	SignupDate time.Time `json:"signup_date" db:"signup_date"`
}

// ContentItem is a single entry in the content library. Immutable once
// loaded into a Catalog.
type ContentItem struct {
	ContentID       string  `json:"content_id" db:"content_id"`
	Category        string  `json:"category" db:"category"`
	Format          string  `json:"format" db:"format"`
	DurationMinutes float64 `json:"duration_minutes" db:"duration_minutes"`
	Difficulty      string  `json:"difficulty" db:"difficulty"`
	Title           string  `json:"title" db:"title"`

	// QualityScore is a hidden attribute used only by the session
	// simulator to drive completion rates. It never feeds scoring.
	QualityScore float64 `json:"quality_score,omitempty" db:"quality_score"`
}

// Interaction records one user/content encounter during a simulated session.
type Interaction struct {
	UserID           string    `json:"user_id" db:"user_id"`
	ContentID        string    `json:"content_id" db:"content_id"`
	Date             time.Time `json:"date" db:"date"`
	DayNumber        int       `json:"day_number" db:"day_number"`
	Completed        bool      `json:"completed" db:"completed"`
	TimeSpentMinutes float64   `json:"time_spent_minutes" db:"time_spent_minutes"`
	SessionNumber    int       `json:"session_number" db:"session_number"`
}

// UserFeatures holds the engagement features computed for one user as of
// a fixed observation day. These feed churn analysis.
type UserFeatures struct {
	UserID                  string  `json:"user_id" db:"user_id"`
	Goal                    string  `json:"goal" db:"goal"`
	TotalSessions           float64 `json:"total_sessions" db:"total_sessions"`
	TotalContentViews       float64 `json:"total_content_views" db:"total_content_views"`
	TotalTimeMinutes        float64 `json:"total_time_minutes" db:"total_time_minutes"`
	CompletionRate          float64 `json:"completion_rate" db:"completion_rate"`
	AvgTimePerContent       float64 `json:"avg_time_per_content" db:"avg_time_per_content"`
	UniqueDaysActive        float64 `json:"unique_days_active" db:"unique_days_active"`
	DaysSinceLastActivity   float64 `json:"days_since_last_activity" db:"days_since_last_activity"`
	FirstSessionCompletions float64 `json:"first_session_completions" db:"first_session_completions"`
	CategoryDiversity       float64 `json:"category_diversity" db:"category_diversity"`
}

// FeatureNames lists the engagement features in their canonical order.
var FeatureNames = []string{
	"total_sessions",
	"total_content_views",
	"total_time_minutes",
	"completion_rate",
	"avg_time_per_content",
	"unique_days_active",
	"days_since_last_activity",
	"first_session_completions",
	"category_diversity",
}

// Vector returns the feature values in FeatureNames order.
func (f UserFeatures) Vector() []float64 {
	return []float64{
		f.TotalSessions,
		f.TotalContentViews,
		f.TotalTimeMinutes,
		f.CompletionRate,
		f.AvgTimePerContent,
		f.UniqueDaysActive,
		f.DaysSinceLastActivity,
		f.FirstSessionCompletions,
		f.CategoryDiversity,
	}
}

// ChurnLabel marks whether a user went inactive during the churn window.
type ChurnLabel struct {
	UserID  string `json:"user_id" db:"user_id"`
	Churned bool   `json:"churned" db:"churned"`
}

// ContentStats holds per-content engagement statistics derived from
// first-session interactions, used to build the retention score table.
type ContentStats struct {
	ContentID      string  `json:"content_id" db:"content_id"`
	ViewCount      int     `json:"view_count" db:"view_count"`
	CompletionRate float64 `json:"completion_rate" db:"completion_rate"`
	RetentionRate  float64 `json:"retention_rate" db:"retention_rate"`
	AvgTimeSpent   float64 `json:"avg_time_spent" db:"avg_time_spent"`
	Category       string  `json:"category" db:"category"`
	Format         string  `json:"format" db:"format"`
	DurationMin    float64 `json:"duration_minutes" db:"duration_minutes"`
}

// Recommendation is the output record of the scoring engine. Score is an
// unbounded real; Reasons may be empty.
type Recommendation struct {
	ContentID string   `json:"content_id" db:"content_id"`
	Score     float64  `json:"score" db:"score"`
	Reasons   []string `json:"reasons"`
}

// FeatureCorrelation pairs a feature with its Pearson correlation
// against the churn indicator.
type FeatureCorrelation struct {
	Feature              string  `json:"feature"`
	CorrelationWithChurn float64 `json:"correlation_with_churn"`
}

// CohortComparison compares one feature's mean between churned and
// retained users.
type CohortComparison struct {
	Feature       string  `json:"feature"`
	ChurnedMean   float64 `json:"churned_mean"`
	RetainedMean  float64 `json:"retained_mean"`
	Difference    float64 `json:"difference"`
	PctDifference float64 `json:"pct_difference"`
}

// ModelReport summarizes the churn importance model: per-feature
// importances plus holdout metrics.
type ModelReport struct {
	FeatureImportance map[string]float64 `json:"feature_importance"`
	ROCAUC            float64            `json:"roc_auc"`
	Accuracy          float64            `json:"accuracy"`
	Precision         float64            `json:"precision"`
	Recall            float64            `json:"recall"`
	F1                float64            `json:"f1"`
	TrainSize         int                `json:"train_size"`
	TestSize          int                `json:"test_size"`
}

// Run identifies one pipeline execution and its dataset shape.
type Run struct {
	ID           string    `json:"id" db:"id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Users        int       `json:"users" db:"users"`
	ContentItems int       `json:"content_items" db:"content_items"`
	Interactions int       `json:"interactions" db:"interactions"`
	ChurnRate    float64   `json:"churn_rate" db:"churn_rate"`
}

// RecommendationSnapshot is a persisted recommendation row: one ranked
// entry produced for a user during a batch refresh or a serve call.
type RecommendationSnapshot struct {
	ID        int64     `json:"id" db:"id"`
	RunID     string    `json:"run_id" db:"run_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Goal      string    `json:"goal" db:"goal"`
	Rank      int       `json:"rank" db:"rank"`
	ContentID string    `json:"content_id" db:"content_id"`
	Score     float64   `json:"score" db:"score"`
	Reasons   []string  `json:"reasons"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
