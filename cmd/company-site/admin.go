package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/company-site/internal/auth"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a back-office account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := adminPassword
		if password == "" {
			password = os.Getenv("SITE_ADMIN_PASSWORD")
		}
		if adminEmail == "" || password == "" {
			return errors.New("--email and --password (or SITE_ADMIN_PASSWORD) are required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		// No tokens are issued here, the secret only has to be non-empty.
		secret := cfg.Auth.JWTSecret
		if secret == "" {
			secret = "create-admin"
		}
		authn, err := auth.NewAuthenticator(a.repo.Admins(), auth.Config{Secret: secret})
		if err != nil {
			return err
		}

		user, err := authn.CreateAdmin(ctx, adminEmail, adminName, password)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "login password")
	rootCmd.AddCommand(createAdminCmd)
}
