package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SITE_AUTH_JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, BackendSQL, cfg.Store.Backend)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"en", "fr"}, cfg.Locales.Supported)
	assert.Equal(t, "en", cfg.Locales.Default)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "local", cfg.Events.Driver)
	assert.Equal(t, time.Minute, cfg.Content.FeedRefresh)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SITE_AUTH_JWT_SECRET", "secret")
	t.Setenv("SITE_SERVER_PORT", "9090")
	t.Setenv("SITE_DATABASE_DRIVER", "sqlite")
	t.Setenv("SITE_DATABASE_DSN", ":memory:")
	t.Setenv("SITE_CACHE_TTL", "30s")
	t.Setenv("SITE_LOCALES_SUPPORTED", "en,fr,de")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"en", "fr", "de"}, cfg.Locales.Supported)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dev_mode: true
store:
  backend: mongo
mongo:
  uri: mongodb://db:27017
  database: marketing
locales:
  supported: [fr, en]
  default: fr
site:
  name: Acme
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.DevMode)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "marketing", cfg.Mongo.Database)
	assert.Equal(t, "fr", cfg.Locales.Default)
	assert.Equal(t, "Acme", cfg.Site.Name)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080},
		Store:    StoreConfig{Backend: BackendSQL},
		Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		Cache:    CacheConfig{Driver: "memory"},
		Events:   EventsConfig{Driver: "local"},
		Auth:     AuthConfig{JWTSecret: "secret"},
		Locales:  LocalesConfig{Supported: []string{"en", "fr"}, Default: "en"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "files" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"mongo without uri", func(c *Config) { c.Store.Backend = BackendMongo }},
		{"unknown cache", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Driver = "redis" }},
		{"nats without url", func(c *Config) { c.Events.Driver = "nats" }},
		{"no locales", func(c *Config) { c.Locales.Supported = nil }},
		{"default not supported", func(c *Config) { c.Locales.Default = "de" }},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }},
	}

	base := validConfig()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	dev := validConfig()
	dev.Auth.JWTSecret = ""
	dev.DevMode = true
	assert.NoError(t, dev.Validate())
}
