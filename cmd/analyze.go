package cmd

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"verve/internal/churn"
	"verve/internal/datagen"
	"verve/internal/results"
)

var (
	analyzeRunID  string
	analyzeExport bool
)

// analyzeCmd runs churn analysis over a persisted run.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run churn analysis over a recorded run",
	Long: `Loads a run's dataset from the store, computes engagement
features and churn labels, analyzes feature correlations and cohort
differences, trains the importance model, and derives per-content
retention statistics (persisted back to the store for the recommender).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		ctx := cmd.Context()
		run, err := appInstance.ResolveRun(ctx, analyzeRunID)
		if err != nil {
			return err
		}

		users, err := appInstance.DatasetStore.ListUsers(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		content, err := appInstance.DatasetStore.ListContent(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}
		interactions, err := appInstance.DatasetStore.ListInteractions(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}

		cfg := appInstance.Config
		features := datagen.ComputeFeatures(users, interactions, content, cfg.Dataset.FeatureAsOfDay)
		labels := datagen.LabelChurn(users, interactions,
			cfg.Dataset.ChurnWindow.Start, cfg.Dataset.ChurnWindow.End, cfg.Dataset.MinActivity)

		fmt.Println("\n--- Feature Correlations with Churn ---")
		correlations := churn.Correlations(features, labels)
		renderCorrelations(correlations)

		fmt.Println("\n--- Retained vs Churned Comparison ---")
		comparison := churn.CompareCohorts(features, labels)
		renderCohorts(comparison)

		fmt.Println("\n--- Training Churn Prediction Model ---")
		report := churn.TrainImportanceModel(features, labels)
		fmt.Printf("ROC AUC: %.3f\n", report.ROCAUC)
		fmt.Println("\nTop 5 Important Features:")
		for _, fi := range topFeatures(report.FeatureImportance, 5) {
			fmt.Printf("  %s: %.3f\n", fi.name, fi.importance)
		}

		fmt.Println("\n--- Top Content by Retention Rate (First Session) ---")
		stats := churn.ContentPerformance(interactions, content, labels)
		renderContentStats(stats, 10)

		if err := appInstance.DatasetStore.SaveContentStats(ctx, run.ID, stats); err != nil {
			return fmt.Errorf("persist content stats: %w", err)
		}
		log.WithFields(log.Fields{"run_id": run.ID, "scored_content": len(stats)}).Info("Content performance persisted")

		if analyzeExport {
			mgr, err := results.NewManager(cfg.Output.Dir)
			if err != nil {
				return err
			}
			if _, err := mgr.SaveCorrelations(correlations); err != nil {
				return err
			}
			if _, err := mgr.SaveCohortComparison(comparison); err != nil {
				return err
			}
			if _, err := mgr.SaveContentPerformance(stats); err != nil {
				return err
			}
			if _, err := mgr.SaveModelReport(report); err != nil {
				return err
			}
			fmt.Printf("\nResults exported to %s\n", mgr.RunDir())
		}
		return nil
	},
}

type featureImportance struct {
	name       string
	importance float64
}

func topFeatures(importance map[string]float64, n int) []featureImportance {
	out := make([]featureImportance, 0, len(importance))
	for name, imp := range importance {
		out = append(out, featureImportance{name, imp})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].importance != out[j].importance {
			return out[i].importance > out[j].importance
		}
		return out[i].name < out[j].name
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeRunID, "run", "", "run ID to analyze (default: latest)")
	analyzeCmd.Flags().BoolVar(&analyzeExport, "export", false, "export results as CSV/JSON under the output dir")
}
