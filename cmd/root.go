package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"verve/internal/app"
	"verve/internal/config"
	"verve/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "verve",
	Short: "Verve wellness analytics prototype",
	Long: `Verve is a prototype analytics pipeline for a wellness app: it
synthesizes user/content/interaction data, analyzes which engagement
signals predict churn, and produces personalized content recommendations.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if _, err := logging.Setup(cfg.Log.Dir, cfg.Log.Level, cfg.Log.Console); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Custom context key type to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking database connectivity...")
		if err := appInstance.RunStore.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Println("Database connection successful.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
