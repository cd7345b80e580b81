package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront-backend/internal/config"
	"storefront-backend/internal/infrastructure/database"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back catalog schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConfig, err := loadDBConfig()
		if err != nil {
			return err
		}
		if err := database.MigrateUp(dbConfig); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back the given number of migrations.

Examples:
  catalogctl migrate down            # roll back the latest migration
  catalogctl migrate down --steps 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		dbConfig, err := loadDBConfig()
		if err != nil {
			return err
		}
		if err := database.MigrateDown(dbConfig, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ migrations rolled back")
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func loadDBConfig() (*database.DBConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.CatalogConfigured() {
		return nil, fmt.Errorf("DB_HOST is not set")
	}
	return config.LoadDatabaseConfig(cfg.Database)
}
