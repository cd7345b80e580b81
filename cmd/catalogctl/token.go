package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefront-backend/pkg/jwt"
)

var tokenOperator string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin access token for the publish API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Admin.JWTSecret == "" {
			return fmt.Errorf("ADMIN_JWT_SECRET is not set")
		}

		token, err := jwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL).GenerateAccessToken(tokenOperator, jwt.RoleAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOperator, "operator", "", "Operator identity stored in the token subject")
	_ = tokenCmd.MarkFlagRequired("operator")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
