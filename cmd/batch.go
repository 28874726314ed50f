package cmd

import (
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"verve/internal/tasks"
)

var (
	batchRunID   string
	batchN       int
	batchSession int
)

// batchCmd enqueues a recommendation refresh task for every user of a run.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enqueue recommendation refresh jobs for every user of a run",
	Long: `Enqueues one background task per user; the worker recomputes
and persists each user's top-N recommendations using their interaction
history as the seen-content set. Requires Redis and a running
'verve worker'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()
		cfg := appInstance.Config

		ctx := cmd.Context()
		run, err := appInstance.ResolveRun(ctx, batchRunID)
		if err != nil {
			return err
		}
		users, err := appInstance.DatasetStore.ListUsers(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}

		if batchN <= 0 {
			batchN = cfg.Recommender.DefaultLimit
		}

		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		enqueued := 0
		for _, user := range users {
			task, err := tasks.NewRecommendationRefreshTask(tasks.RecommendationRefreshPayload{
				RunID:         run.ID,
				UserID:        user.UserID,
				Goal:          user.Goal,
				N:             batchN,
				SessionNumber: batchSession,
			})
			if err != nil {
				return err
			}
			if _, err := client.EnqueueContext(ctx, task); err != nil {
				return fmt.Errorf("enqueue refresh for %s: %w", user.UserID, err)
			}
			enqueued++
		}

		log.WithFields(log.Fields{"run_id": run.ID, "tasks": enqueued}).Info("Refresh tasks enqueued")
		fmt.Printf("Enqueued %d recommendation refresh tasks for run %s\n", enqueued, run.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchRunID, "run", "", "run ID (default: latest)")
	batchCmd.Flags().IntVar(&batchN, "n", 0, "recommendations per user (default from config)")
	batchCmd.Flags().IntVar(&batchSession, "session", 2, "session number to score with (returning users by default)")
}
