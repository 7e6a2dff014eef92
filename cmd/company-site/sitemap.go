package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var sitemapOutput string

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml for every locale",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := buildSite(a, cfg)
		if err != nil {
			return err
		}
		defer s.pages.Close()

		var out io.Writer = cmd.OutOrStdout()
		if sitemapOutput != "" && sitemapOutput != "-" {
			f, err := os.Create(sitemapOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return s.pages.WriteSitemap(ctx, out)
	},
}

func init() {
	sitemapCmd.Flags().StringVarP(&sitemapOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(sitemapCmd)
}
