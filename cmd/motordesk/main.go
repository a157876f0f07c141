package main

import (
	"os"

	"github.com/spf13/cobra"

	"motordesk/internal/interfaces/cli/migrate"
	"motordesk/internal/interfaces/cli/server"
	"motordesk/internal/interfaces/cli/sweep"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motordesk",
		Short: "Motordesk - multi-tenant dealership management backend",
		Long:  `Motordesk is the dealership management backend: HTTP API, database migrations and the tenant lifecycle sweeper.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
