package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd lists recorded pipeline runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		runs, err := appInstance.RunStore.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return fmt.Errorf("error listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		table := newTable([]string{"ID", "Created At", "Users", "Content", "Interactions", "Churn Rate"})
		for _, run := range runs {
			table.Append([]string{
				run.ID,
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				strconv.Itoa(run.Users),
				strconv.Itoa(run.ContentItems),
				strconv.Itoa(run.Interactions),
				fmt.Sprintf("%.1f%%", run.ChurnRate*100),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
}
