package migrate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"motordesk/internal/infrastructure/config"
	"motordesk/internal/infrastructure/database"
	"motordesk/internal/infrastructure/migration"
	"motordesk/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func() error {
				return migration.NewManager(env).Migrate(database.Get())
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func() error {
				return gooseStrategy().MigrateDown(database.Get(), steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func() error {
				return gooseStrategy().Status(database.Get())
			})
		},
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new migration script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gooseStrategy().Create(args[0])
		},
	}

	cmd.AddCommand(up, down, status, create)
	return cmd
}

func withDatabase(fn func() error) error {
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

	return fn()
}

func gooseStrategy() *migration.GooseStrategy {
	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		scriptsPath = "./internal/infrastructure/migration/scripts"
	}
	return migration.NewGooseStrategy(scriptsPath)
}
