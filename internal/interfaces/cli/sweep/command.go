package sweep

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"motordesk/internal/infrastructure/config"
	"motordesk/internal/infrastructure/database"
	httpRouter "motordesk/internal/interfaces/http"
	"motordesk/internal/shared/logger"
)

var env string

// NewCommand runs one lifecycle sweep and exits. Useful for operators
// verifying behavior and for deployments that schedule via external cron
// instead of the in-process scheduler.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the tenant lifecycle sweep once",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	container, err := httpRouter.NewContainer(cfg, database.Get(), logger.NewLogger())
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	suspended, err := container.SuspendLapsed.Execute(ctx)
	if err != nil {
		return fmt.Errorf("suspend phase failed: %w", err)
	}
	purged, err := container.PurgeDeleted.Execute(ctx)
	if err != nil {
		return fmt.Errorf("purge phase failed: %w", err)
	}

	logger.Info("lifecycle sweep completed", "suspended", suspended, "purged", purged)
	return nil
}
