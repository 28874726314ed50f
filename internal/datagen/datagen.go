package datagen

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"verve/internal/models"
)

// Options controls dataset synthesis. Zero values fall back to the
// prototype defaults.
type Options struct {
	Seed           int64
	Users          int
	ContentItems   int
	SimulationDays int
	FeatureAsOfDay int
	ChurnWindow    [2]int
	MinActivity    int
}

func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.Users == 0 {
		o.Users = 500
	}
	if o.ContentItems == 0 {
		o.ContentItems = 50
	}
	if o.SimulationDays == 0 {
		o.SimulationDays = 21
	}
	if o.FeatureAsOfDay == 0 {
		o.FeatureAsOfDay = 7
	}
	if o.ChurnWindow == [2]int{} {
		o.ChurnWindow = [2]int{14, 21}
	}
	if o.MinActivity == 0 {
		o.MinActivity = 1
	}
	return o
}

// Dataset bundles everything one synthesis pass produces.
type Dataset struct {
	Users        []models.User
	Content      []models.ContentItem
	Interactions []models.Interaction
	Features     []models.UserFeatures
	Labels       []models.ChurnLabel
}

// ChurnRate returns the fraction of labeled users that churned.
func (d *Dataset) ChurnRate() float64 {
	if len(d.Labels) == 0 {
		return 0
	}
	churned := 0
	for _, l := range d.Labels {
		if l.Churned {
			churned++
		}
	}
	return float64(churned) / float64(len(d.Labels))
}

// baseDurations gives each category its typical session length in minutes.
var baseDurations = map[string]float64{
	models.CategoryFitness:    15,
	models.CategoryMeditation: 10,
	models.CategorySleep:      20,
	models.CategoryNutrition:  5,
	models.CategoryStrength:   20,
}

// GenerateContent synthesizes a content library. Durations vary around
// the category base; a hidden Beta(5,2) quality score (skewed toward
// higher quality) drives completion rates in the simulator.
func GenerateContent(g *rng, n int) []models.ContentItem {
	items := make([]models.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		category := g.Choice(models.Categories)
		duration := float64(int(baseDurations[category] * g.Uniform(0.5, 1.5)))
		items = append(items, models.ContentItem{
			ContentID:       fmt.Sprintf("c_%03d", i),
			Category:        category,
			Format:          g.WeightedChoice([]string{models.FormatVideo, models.FormatAudio, models.FormatArticle}, []float64{0.5, 0.3, 0.2}),
			DurationMinutes: duration,
			Difficulty:      g.WeightedChoice([]string{models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced}, []float64{0.4, 0.4, 0.2}),
			QualityScore:    g.Beta(5, 2),
			Title:           fmt.Sprintf("%s Session %d", titleCase(category), i+1),
		})
	}
	return items
}

// GenerateUsers synthesizes user profiles with ages clamped to [18,70]
// and signup dates spread over a 30-day window.
func GenerateUsers(g *rng, n int) []models.User {
	signupBase := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		age := int(g.Normal(35, 12))
		if age < 18 {
			age = 18
		}
		if age > 70 {
			age = 70
		}
		users = append(users, models.User{
			UserID:     fmt.Sprintf("u_%05d", i),
			Goal:       g.Choice(models.Goals),
			Age:        age,
			Gender:     g.WeightedChoice([]string{"M", "F", "Other"}, []float64{0.45, 0.50, 0.05}),
			SignupDate: signupBase.AddDate(0, 0, g.IntN(30)),
		})
	}
	return users
}

// SimulateSessions plays out daily engagement for every user:
// goal-aligned content is preferred, completion depends on quality,
// duration and fit, and engagement decays toward a churn day for users
// destined to churn.
func SimulateSessions(g *rng, users []models.User, content []models.ContentItem, days int) []models.Interaction {
	byCategory := make(map[string][]models.ContentItem)
	for _, item := range content {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var interactions []models.Interaction
	for _, user := range users {
		preferred := alignedContent(byCategory, models.GoalCategoryMap[user.Goal])

		// Per-user engagement propensity; more engaged users churn less.
		engagement := g.Beta(2, 2)
		churnProb := 0.7 - engagement*0.5
		willChurn := g.Float64() < churnProb
		churnDay := 0
		if willChurn {
			churnDay = 3 + g.IntN(11)
		}

		for day := 0; day < days; day++ {
			if willChurn && day >= churnDay {
				// Small chance of a post-churn return.
				if g.Float64() > 0.05 {
					continue
				}
			}

			var decay float64
			if willChurn {
				decay = 1 - (float64(day)/float64(churnDay))*0.5
				if decay < 0.1 {
					decay = 0.1
				}
			} else {
				decay = 1 + float64(day)*0.02
				if decay > 1.2 {
					decay = 1.2
				}
			}

			if g.Float64() > engagement*decay*0.6 {
				continue // no session today
			}

			nContent := g.WeightedInt([]int{1, 2, 3}, []float64{0.5, 0.35, 0.15})
			for c := 0; c < nContent; c++ {
				var item models.ContentItem
				if g.Float64() < 0.7 && len(preferred) > 0 {
					item = preferred[g.IntN(len(preferred))]
				} else {
					item = content[g.IntN(len(content))]
				}

				aligned := categoryIn(item.Category, models.GoalCategoryMap[user.Goal])
				completionProb := 0.3 +
					item.QualityScore*0.3 +
					engagement*0.2 -
					(item.DurationMinutes/60)*0.2
				if aligned {
					completionProb += 0.2
				}
				if completionProb < 0.1 {
					completionProb = 0.1
				}
				if completionProb > 0.95 {
					completionProb = 0.95
				}

				completed := g.Float64() < completionProb
				var timeSpent float64
				if completed {
					timeSpent = item.DurationMinutes * g.Uniform(0.9, 1.1)
				} else {
					timeSpent = item.DurationMinutes * g.Uniform(0.1, 0.7)
				}

				interactions = append(interactions, models.Interaction{
					UserID:           user.UserID,
					ContentID:        item.ContentID,
					Date:             user.SignupDate.AddDate(0, 0, day),
					DayNumber:        day,
					Completed:        completed,
					TimeSpentMinutes: roundTo(timeSpent, 1),
					SessionNumber:    day + 1,
				})
			}
		}
	}
	return interactions
}

// Generate runs the full synthesis: content, users, sessions, features
// and churn labels.
func Generate(opts Options) *Dataset {
	opts = opts.withDefaults()
	g := newRNG(opts.Seed)

	log.Info("Generating content library...")
	content := GenerateContent(g, opts.ContentItems)

	log.Info("Generating users...")
	users := GenerateUsers(g, opts.Users)

	log.Info("Simulating user sessions...")
	interactions := SimulateSessions(g, users, content, opts.SimulationDays)

	log.Infof("Computing user features (as of day %d)...", opts.FeatureAsOfDay)
	features := ComputeFeatures(users, interactions, content, opts.FeatureAsOfDay)

	log.Info("Labeling churn...")
	labels := LabelChurn(users, interactions, opts.ChurnWindow[0], opts.ChurnWindow[1], opts.MinActivity)

	ds := &Dataset{
		Users:        users,
		Content:      content,
		Interactions: interactions,
		Features:     features,
		Labels:       labels,
	}
	log.Infof("Dataset ready: %d users, %d content items, %d interactions, churn rate %.1f%%",
		len(users), len(content), len(interactions), ds.ChurnRate()*100)
	return ds
}

func alignedContent(byCategory map[string][]models.ContentItem, categories []string) []models.ContentItem {
	var out []models.ContentItem
	for _, cat := range categories {
		out = append(out, byCategory[cat]...)
	}
	return out
}

func categoryIn(category string, set []string) bool {
	for _, c := range set {
		if c == category {
			return true
		}
	}
	return false
}

func roundTo(v float64, decimals int) float64 {
	pow := 1.0
	for i := 0; i < decimals; i++ {
		pow *= 10
	}
	return float64(int(v*pow+0.5)) / pow
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
