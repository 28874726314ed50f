// Package results persists analysis outputs as CSV and JSON files under
// a timestamped run directory.
package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"verve/internal/models"
)

// Manager owns one timestamped run directory under the output dir.
type Manager struct {
	runDir string
}

// NewManager creates output/run_<timestamp>/ and returns a manager
// writing into it.
func NewManager(outputDir string) (*Manager, error) {
	runDir := filepath.Join(outputDir, "run_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &Manager{runDir: runDir}, nil
}

// RunDir returns the current run output directory.
func (m *Manager) RunDir() string {
	return m.runDir
}

// SaveCorrelations writes churn_correlations.csv.
func (m *Manager) SaveCorrelations(rows []models.FeatureCorrelation) (string, error) {
	records := [][]string{{"feature", "correlation_with_churn"}}
	for _, r := range rows {
		records = append(records, []string{r.Feature, formatFloat(r.CorrelationWithChurn)})
	}
	return m.writeCSV("churn_correlations.csv", records)
}

// SaveCohortComparison writes cohort_comparison.csv.
func (m *Manager) SaveCohortComparison(rows []models.CohortComparison) (string, error) {
	records := [][]string{{"feature", "churned_mean", "retained_mean", "difference", "pct_difference"}}
	for _, r := range rows {
		records = append(records, []string{
			r.Feature,
			formatFloat(r.ChurnedMean),
			formatFloat(r.RetainedMean),
			formatFloat(r.Difference),
			formatFloat(r.PctDifference),
		})
	}
	return m.writeCSV("cohort_comparison.csv", records)
}

// SaveContentPerformance writes content_performance.csv.
func (m *Manager) SaveContentPerformance(rows []models.ContentStats) (string, error) {
	records := [][]string{{
		"content_id", "view_count", "completion_rate", "retention_rate",
		"avg_time_spent", "category", "format", "duration_minutes",
	}}
	for _, r := range rows {
		records = append(records, []string{
			r.ContentID,
			strconv.Itoa(r.ViewCount),
			formatFloat(r.CompletionRate),
			formatFloat(r.RetentionRate),
			formatFloat(r.AvgTimeSpent),
			r.Category,
			r.Format,
			formatFloat(r.DurationMin),
		})
	}
	return m.writeCSV("content_performance.csv", records)
}

// SaveRecommendations writes recommendations.csv, preserving rank order.
func (m *Manager) SaveRecommendations(recs []models.Recommendation) (string, error) {
	records := [][]string{{"rank", "content_id", "score", "reasons"}}
	for i, r := range recs {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			r.ContentID,
			formatFloat(r.Score),
			strings.Join(r.Reasons, "; "),
		})
	}
	return m.writeCSV("recommendations.csv", records)
}

// SaveModelReport writes model_results.json.
func (m *Manager) SaveModelReport(report models.ModelReport) (string, error) {
	return m.writeJSON("model_results.json", report)
}

// SaveSummary writes run_summary.json.
func (m *Manager) SaveSummary(summary map[string]any) (string, error) {
	return m.writeJSON("run_summary.json", summary)
}

func (m *Manager) writeCSV(name string, records [][]string) (string, error) {
	path := filepath.Join(m.runDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (m *Manager) writeJSON(name string, v any) (string, error) {
	path := filepath.Join(m.runDir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
