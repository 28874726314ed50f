package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"verve/internal/recommend"
)

var (
	recommendRunID   string
	recommendGoal    string
	recommendN       int
	recommendSeen    []string
	recommendSession int
)

// recommendCmd ranks a run's catalog for a user context.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate content recommendations for a goal",
	Long: `Scores every item of a run's content catalog against the given
goal and session context and prints the top-N with explanations. Run
'verve analyze' first for data-driven retention scores; without them all
content falls back to the neutral retention prior.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		if recommendN <= 0 {
			recommendN = appInstance.Config.Recommender.DefaultLimit
		}

		ctx := cmd.Context()
		run, err := appInstance.ResolveRun(ctx, recommendRunID)
		if err != nil {
			return err
		}
		rec, err := appInstance.RecommenderForRun(ctx, run.ID)
		if err != nil {
			return err
		}

		recs := rec.Recommend(recommendGoal, recommendN, recommendSeen, recommendSession)
		fmt.Printf("Recommendations for goal %q (session %d, run %s):\n\n", recommendGoal, recommendSession, run.ID)
		for i, r := range recs {
			item, err := rec.Catalog().Get(r.ContentID)
			if err != nil {
				return err
			}
			fmt.Printf("%d. %s\n", i+1, recommend.Explain(r, item))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVar(&recommendRunID, "run", "", "run ID (default: latest)")
	recommendCmd.Flags().StringVar(&recommendGoal, "goal", "", "user goal (e.g. weight_loss)")
	recommendCmd.Flags().IntVar(&recommendN, "n", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().StringSliceVar(&recommendSeen, "seen", nil, "content IDs already seen by the user")
	recommendCmd.Flags().IntVar(&recommendSession, "session", 1, "session number (1 = first session)")
	recommendCmd.MarkFlagRequired("goal")
}
