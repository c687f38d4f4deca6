package cmd

import (
	"fmt"
	"os"

	"github.com/Glenne01/sneakers-sub000/internal/database/migration"
	"github.com/Glenne01/sneakers-sub000/internal/logger"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		if err := migration.Migrate(dbURL, migrationDir, logger.NewLogger()); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "sneakers",
		Short: "Sneakers stock ledger and fulfillment service",
	}
	MigrateCmd.Flags().String("dir", "./migrations", "Directory containing the migration files")
	rootCmd.AddCommand(MigrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
