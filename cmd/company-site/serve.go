package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/company-site/internal/admin"
	"github.com/terra-clan/company-site/internal/api"
	"github.com/terra-clan/company-site/internal/auth"
	"github.com/terra-clan/company-site/internal/config"
	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/locale"
	"github.com/terra-clan/company-site/internal/refresh"
	"github.com/terra-clan/company-site/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// site bundles the services shared by serve and sitemap
type site struct {
	content *content.Services
	pages   *web.Handler
}

func buildSite(a *app, cfg *config.Config) (*site, error) {
	svcs := content.New(a.repo, content.Options{
		Cache:    a.cache,
		CacheTTL: cfg.Cache.TTL,
		Logger:   slog.Default(),
	})

	router, err := locale.NewRouter(cfg.Locales.Supported, cfg.Locales.Default, "/health", "/ready")
	if err != nil {
		return nil, fmt.Errorf("invalid locale configuration: %w", err)
	}
	catalog, err := locale.BundledCatalog(cfg.Locales.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	pages, err := web.New(svcs, router, catalog, web.Options{
		SiteName:     cfg.Site.Name,
		BaseURL:      cfg.Site.BaseURL,
		TemplatesDir: cfg.Content.TemplatesDir,
		DevMode:      cfg.DevMode,
		Logger:       slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return &site{content: svcs, pages: pages}, nil
}

func runServe(cfg *config.Config) error {
	slog.Info("starting company-site",
		"store", cfg.Store.Backend,
		"cache", cfg.Cache.Driver,
		"events", cfg.Events.Driver,
		"locales", cfg.Locales.Supported,
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := openApp(initCtx, cfg)
	initCancel()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := buildSite(a, cfg)
	if err != nil {
		return err
	}
	defer s.pages.Close()

	if _, err := a.bus.Subscribe(s.content.Invalidator.Handle); err != nil {
		return fmt.Errorf("failed to subscribe cache invalidation: %w", err)
	}

	adminSvc := admin.New(a.repo, a.bus, slog.Default())

	var authn *auth.Authenticator
	if cfg.Auth.JWTSecret != "" {
		authn, err = auth.NewAuthenticator(a.repo.Admins(), auth.Config{
			Secret:   cfg.Auth.JWTSecret,
			TokenTTL: cfg.Auth.TokenTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to init authenticator: %w", err)
		}
	} else {
		slog.Warn("auth.jwt_secret is empty, admin login disabled")
	}

	hub := api.NewHub()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := refresh.NewRefresher(s.content.Feed, hub, cfg.Content.FeedRefresh)
	if _, err := a.bus.Subscribe(refresher.HandleEvent); err != nil {
		return fmt.Errorf("failed to subscribe feed refresh: %w", err)
	}
	refresher.Start(ctx)

	server := api.NewServer(cfg.Server, api.Deps{
		Content: s.content,
		Admin:   adminSvc,
		Auth:    authn,
		Health:  a.health,
		Hub:     hub,
		Pages:   s.pages.Routes(),
	})
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	slog.Info("shutting down gracefully...")

	// Stop the refresher before closing live connections
	cancel()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("company-site stopped")
	return nil
}
