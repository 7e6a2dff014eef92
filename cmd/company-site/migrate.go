package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/terra-clan/company-site/internal/config"
	"github.com/terra-clan/company-site/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	switch {
	case cfg.Store.Backend == config.BackendMongo:
		// Opening the store creates the indexes.
		repo, err := storage.OpenMongo(ctx, storage.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return err
		}
		defer repo.Close()
		slog.Info("mongo indexes ensured", "database", cfg.Mongo.Database)

	case cfg.Database.Driver == "sqlite":
		repo, err := storage.OpenSQLite(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer repo.Close()
		slog.Info("sqlite schema migrated", "path", cfg.Database.DSN)

	default:
		applied, err := storage.MigrateFromDSN(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("database migrations complete", "applied", applied)
	}
	return nil
}
