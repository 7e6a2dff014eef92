// Package content resolves, lists and searches site content for the public
// pages and API. Read paths degrade to fallbacks on store failures.
package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/company-site/internal/cache"
	"github.com/terra-clan/company-site/internal/storage"
)

// DefaultCacheTTL is used when Options.CacheTTL is zero
const DefaultCacheTTL = 5 * time.Minute

// Options configure the content services
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// Services bundles every read-side content component over one repository
type Services struct {
	Resolver *Resolver
	Search   *SearchEngine
	Feed     *Feed
	Catalog  *Catalog
	Contact  *Contact

	Invalidator *Invalidator
}

// New wires the content components to repo
func New(repo storage.Repository, opts Options) *Services {
	b := newBase(opts)
	return &Services{
		Resolver: &Resolver{base: b, repo: repo},
		Search:   &SearchEngine{base: b, repo: repo},
		Feed:     &Feed{base: b, repo: repo},
		Catalog:  &Catalog{base: b, repo: repo},
		Contact:  &Contact{repo: repo, logger: b.logger},

		Invalidator: &Invalidator{base: b},
	}
}

// base holds the cache plumbing shared by the components
type base struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func newBase(opts Options) base {
	b := base{cache: opts.Cache, ttl: opts.CacheTTL, logger: opts.Logger}
	if b.cache == nil {
		b.cache = cache.Nop{}
	}
	if b.ttl <= 0 {
		b.ttl = DefaultCacheTTL
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// cached loads key into dest. Cache failures count as misses.
func (b base) cached(ctx context.Context, key string, dest any) bool {
	ok, err := cache.GetJSON(ctx, b.cache, key, dest)
	if err != nil {
		b.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (b base) store(ctx context.Context, key string, value any) {
	if err := cache.SetJSON(ctx, b.cache, key, value, b.ttl); err != nil {
		b.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
