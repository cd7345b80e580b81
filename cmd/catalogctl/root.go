package main

import (
	"github.com/spf13/cobra"

	"storefront-backend/internal/config"
	"storefront-backend/pkg/logger"
)

// rootCmd là entry point của catalogctl
var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operate the storefront catalog from the command line",
	Long: `catalogctl runs schema migrations, publishes products through the same
workflow as the admin API, lists the published catalog and mints admin tokens.

Configuration is read from the environment (and .env when present).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(getEnv("APP_ENV", "development"))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig bọc config.Load cho các command không cần container
func loadConfig() (*config.Config, error) {
	return config.Load()
}
