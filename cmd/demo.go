package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"verve/internal/churn"
	"verve/internal/datagen"
	"verve/internal/models"
	"verve/internal/recommend"
	"verve/internal/results"
)

var demoExport bool

// demoCmd runs the complete pipeline end to end: synthesis, churn
// analysis, and recommendation demos for every goal.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full pipeline demonstration",
	Long: `Generates a synthetic dataset, runs churn analysis, and
demonstrates content recommendations for new and returning users. The
dataset and derived retention statistics are persisted as a new run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()
		cfg := appInstance.Config

		heading := color.New(color.FgCyan, color.Bold)
		section := color.New(color.FgYellow)

		heading.Println("============================================================")
		heading.Println("  VERVE WELLNESS ASSISTANT PROTOTYPE")
		heading.Println("  Churn Analysis + Content Recommendation Engine")
		heading.Println("============================================================")

		// Step 1: synthesize.
		section.Println("\n[1/3] GENERATING SYNTHETIC DATA")
		ds := datagen.Generate(datasetOptions(cfg))

		// Step 2: churn analysis.
		section.Println("\n[2/3] RUNNING CHURN ANALYSIS")
		fmt.Println("\n--- Feature Correlations with Churn ---")
		correlations := churn.Correlations(ds.Features, ds.Labels)
		renderCorrelations(correlations)

		fmt.Println("\n--- Retained vs Churned Comparison ---")
		comparison := churn.CompareCohorts(ds.Features, ds.Labels)
		renderCohorts(comparison)

		fmt.Println("\n--- Training Churn Prediction Model ---")
		report := churn.TrainImportanceModel(ds.Features, ds.Labels)
		fmt.Printf("ROC AUC: %.3f\n", report.ROCAUC)

		fmt.Println("\n--- Top Content by Retention Rate (First Session) ---")
		stats := churn.ContentPerformance(ds.Interactions, ds.Content, ds.Labels)
		renderContentStats(stats, 10)

		// Step 3: recommendations.
		section.Println("\n[3/3] DEMONSTRATING RECOMMENDATIONS")
		catalog := recommend.NewCatalog(ds.Content)
		rec := recommend.NewRecommender(
			catalog,
			recommend.BuildRetentionTable(stats),
			recommend.BuildPreferenceModel(ds.Interactions, ds.Labels, catalog),
		)

		for _, goal := range models.Goals {
			fmt.Printf("\n--- Recommendations for New User (Goal: %s) ---\n", goal)
			printRecommendations(rec, rec.Recommend(goal, 3, nil, 1))
		}

		fmt.Println("\n--- Recommendations for Returning User (Session 2) ---")
		fmt.Println("Goal: weight_loss | Already seen: [c_001, c_005, c_010]")
		printRecommendations(rec, rec.Recommend(models.GoalWeightLoss, 3, []string{"c_001", "c_005", "c_010"}, 2))

		// Persist the run.
		run := &models.Run{
			ID:           uuid.NewString(),
			CreatedAt:    time.Now(),
			Users:        len(ds.Users),
			ContentItems: len(ds.Content),
			Interactions: len(ds.Interactions),
			ChurnRate:    ds.ChurnRate(),
		}
		ctx := cmd.Context()
		if err := appInstance.RunStore.CreateRun(ctx, run); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		if err := appInstance.DatasetStore.SaveContent(ctx, run.ID, ds.Content); err != nil {
			return fmt.Errorf("persist content: %w", err)
		}
		if err := appInstance.DatasetStore.SaveUsers(ctx, run.ID, ds.Users); err != nil {
			return fmt.Errorf("persist users: %w", err)
		}
		if err := appInstance.DatasetStore.SaveInteractions(ctx, run.ID, ds.Interactions); err != nil {
			return fmt.Errorf("persist interactions: %w", err)
		}
		if err := appInstance.DatasetStore.SaveContentStats(ctx, run.ID, stats); err != nil {
			return fmt.Errorf("persist content stats: %w", err)
		}
		log.WithField("run_id", run.ID).Info("Demo run persisted")

		if demoExport {
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
			summary := map[string]any{
				"run_id":       run.ID,
				"users":        run.Users,
				"content":      run.ContentItems,
				"interactions": run.Interactions,
				"churn_rate":   run.ChurnRate,
			}
			if _, err := mgr.SaveSummary(summary); err != nil {
				return err
			}
			fmt.Printf("\nResults exported to %s\n", mgr.RunDir())
		}

		heading.Println("\n============================================================")
		heading.Println("  SUMMARY")
		heading.Println("============================================================")
		fmt.Printf("\nDataset: %d users, %d content items\n", run.Users, run.ContentItems)
		fmt.Printf("Churn rate: %.1f%%\n", run.ChurnRate*100)
		fmt.Println("\nKey Findings from Churn Analysis:")
		for _, fi := range topFeatures(report.FeatureImportance, 3) {
			fmt.Printf("  - %s: %.3f importance\n", fi.name, fi.importance)
		}
		heading.Println("\n  DEMO COMPLETE")
		return nil
	},
}

func printRecommendations(rec *recommend.Recommender, recs []models.Recommendation) {
	for i, r := range recs {
		item, err := rec.Catalog().Get(r.ContentID)
		if err != nil {
			// Recommendations come from the catalog itself.
			continue
		}
		fmt.Printf("\n%d. %s", i+1, recommend.Explain(r, item))
	}
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().BoolVar(&demoExport, "export", true, "export results as CSV/JSON under the output dir")
}
