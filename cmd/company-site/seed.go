package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/company-site/internal/admin"
	"github.com/terra-clan/company-site/internal/seed"
)

var seedDir string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture content into empty collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := seedDir
		if dir == "" {
			dir = cfg.Content.SeedDir
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := seed.New(admin.New(a.repo, a.bus, slog.Default()), slog.Default()).FromDir(ctx, dir)
		if err != nil {
			return err
		}

		kinds := make([]string, 0, len(res.Created))
		for kind := range res.Created {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d created\n", kind, res.Created[kind])
		}
		for _, kind := range res.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s skipped (not empty)\n", kind)
		}
		if res.Settings {
			fmt.Fprintln(cmd.OutOrStdout(), "settings     updated")
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", "", "fixture directory (default content.seed_dir)")
	rootCmd.AddCommand(seedCmd)
}
