package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"verve/internal/config"
	"verve/internal/datagen"
	"verve/internal/models"
)

// datasetOptions builds synthesis options from config.
func datasetOptions(cfg *config.Config) datagen.Options {
	return datagen.Options{
		Seed:           cfg.Dataset.Seed,
		Users:          cfg.Dataset.Users,
		ContentItems:   cfg.Dataset.ContentItems,
		SimulationDays: cfg.Dataset.SimulationDays,
		FeatureAsOfDay: cfg.Dataset.FeatureAsOfDay,
		ChurnWindow:    [2]int{cfg.Dataset.ChurnWindow.Start, cfg.Dataset.ChurnWindow.End},
		MinActivity:    cfg.Dataset.MinActivity,
	}
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func renderCorrelations(rows []models.FeatureCorrelation) {
	table := newTable([]string{"Feature", "Correlation With Churn"})
	for _, r := range rows {
		table.Append([]string{r.Feature, strconv.FormatFloat(r.CorrelationWithChurn, 'f', 3, 64)})
	}
	table.Render()
}

func renderCohorts(rows []models.CohortComparison) {
	table := newTable([]string{"Feature", "Churned Mean", "Retained Mean", "Difference", "% Difference"})
	for _, r := range rows {
		table.Append([]string{
			r.Feature,
			strconv.FormatFloat(r.ChurnedMean, 'f', 2, 64),
			strconv.FormatFloat(r.RetainedMean, 'f', 2, 64),
			strconv.FormatFloat(r.Difference, 'f', 2, 64),
			strconv.FormatFloat(r.PctDifference, 'f', 1, 64),
		})
	}
	table.Render()
}

func renderContentStats(rows []models.ContentStats, limit int) {
	table := newTable([]string{"Content", "Views", "Completion", "Retention", "Avg Time", "Category"})
	for i, r := range rows {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{
			r.ContentID,
			strconv.Itoa(r.ViewCount),
			strconv.FormatFloat(r.CompletionRate, 'f', 2, 64),
			strconv.FormatFloat(r.RetentionRate, 'f', 2, 64),
			strconv.FormatFloat(r.AvgTimeSpent, 'f', 1, 64),
			r.Category,
		})
	}
	table.Render()
}
