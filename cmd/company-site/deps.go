package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/terra-clan/company-site/internal/cache"
	"github.com/terra-clan/company-site/internal/config"
	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/health"
	"github.com/terra-clan/company-site/internal/storage"
)

// app holds the process-wide clients. They are opened once and closed in
// reverse order on shutdown.
type app struct {
	repo    storage.Repository
	cache   cache.Cache
	bus     events.Bus
	health  *health.Registry
	closers []func() error
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{health: health.NewRegistry()}

	repo, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.closers = append(a.closers, repo.Close)
	a.health.Register("store", health.CheckFunc(repo.Ping))

	c, err := openCache(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = c
	a.health.Register("cache", c)
	if closer, ok := c.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	bus, err := openBus(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.bus = bus
	a.closers = append(a.closers, bus.Close)
	if checker, ok := bus.(health.Checker); ok {
		a.health.Register("events", checker)
	}

	return a, nil
}

// Close releases every client, last opened first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("failed to close dependency", "error", err)
		}
	}
	a.closers = nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	if cfg.Store.Backend == config.BackendMongo {
		repo, err := storage.OpenMongo(ctx, storage.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo store: %w", err)
		}
		slog.Info("document store connected", "database", cfg.Mongo.Database)
		return repo, nil
	}

	if cfg.Database.Driver == "sqlite" {
		repo, err := storage.OpenSQLite(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.Info("sqlite store opened", "path", cfg.Database.DSN)
		return repo, nil
	}

	if cfg.Database.AutoMigrate {
		slog.Info("running database migrations")
		applied, err := storage.MigrateFromDSN(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("database migrations complete", "applied", applied)
	}

	repo, err := storage.OpenPostgres(ctx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres store: %w", err)
	}
	slog.Info("database connected successfully")
	return repo, nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Driver {
	case "redis":
		r, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:      cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("redis cache connected", "addr", cfg.Redis.Address)
		return r, nil
	case "none":
		return cache.Nop{}, nil
	default:
		return cache.NewMemory(cfg.Cache.TTL, 2*cfg.Cache.TTL), nil
	}
}

func openBus(cfg *config.Config) (events.Bus, error) {
	if cfg.Events.Driver != "nats" {
		return events.NewLocalBus(), nil
	}
	bus, err := events.NewNATSBus(events.NATSConfig{
		URL:     cfg.Events.NATSURL,
		Subject: cfg.Events.Subject,
		Name:    "company-site",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	slog.Info("nats event bus connected", "url", cfg.Events.NATSURL, "subject", cfg.Events.Subject)
	return bus, nil
}
