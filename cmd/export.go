package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"verve/internal/models"
	"verve/internal/results"
)

var (
	exportRunID string
	exportUser  string
)

// exportCmd writes a run's stored artifacts out as CSV/JSON files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a run's stored results as CSV/JSON",
	Long: `Writes a run's persisted content statistics (and optionally a
user's recommendation snapshot) into a timestamped directory under the
configured output dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		ctx := cmd.Context()
		run, err := appInstance.ResolveRun(ctx, exportRunID)
		if err != nil {
			return err
		}

		mgr, err := results.NewManager(appInstance.Config.Output.Dir)
		if err != nil {
			return err
		}

		stats, err := appInstance.DatasetStore.ListContentStats(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("load content stats: %w", err)
		}
		if len(stats) > 0 {
			if _, err := mgr.SaveContentPerformance(stats); err != nil {
				return err
			}
		}

		if exportUser != "" {
			snapshots, err := appInstance.RecommendationStore.ListRecommendations(ctx, run.ID, exportUser)
			if err != nil {
				return fmt.Errorf("load recommendations: %w", err)
			}
			recs := make([]models.Recommendation, 0, len(snapshots))
			for _, snap := range snapshots {
				recs = append(recs, models.Recommendation{
					ContentID: snap.ContentID,
					Score:     snap.Score,
					Reasons:   snap.Reasons,
				})
			}
			if _, err := mgr.SaveRecommendations(recs); err != nil {
				return err
			}
		}

		summary := map[string]any{
			"run_id":       run.ID,
			"created_at":   run.CreatedAt,
			"users":        run.Users,
			"content":      run.ContentItems,
			"interactions": run.Interactions,
			"churn_rate":   run.ChurnRate,
		}
		if _, err := mgr.SaveSummary(summary); err != nil {
			return err
		}

		fmt.Printf("Run %s exported to %s\n", run.ID, mgr.RunDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportRunID, "run", "", "run ID to export (default: latest)")
	exportCmd.Flags().StringVar(&exportUser, "user", "", "also export this user's stored recommendations")
}
