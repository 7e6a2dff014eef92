package content

import (
	"context"

	"github.com/terra-clan/company-site/internal/events"
)

// cachePrefixes lists the cache entries derived from each content kind
var cachePrefixes = map[string][]string{
	events.KindService:  {"resolve:service:", "search:", "list:services"},
	events.KindPost:     {"resolve:post:", "search:", "list:blog", feedCacheKey},
	events.KindProject:  {"search:", "list:portfolio"},
	events.KindCareer:   {"resolve:career:", "list:careers:"},
	events.KindHero:     {"list:hero"},
	events.KindSettings: {"settings"},
}

// Invalidator drops cached content when content changes
type Invalidator struct {
	base
}

// NewInvalidator creates an invalidator for the cache in opts
func NewInvalidator(opts Options) *Invalidator {
	return &Invalidator{base: newBase(opts)}
}

// Handle is an events.Handler
func (i *Invalidator) Handle(ctx context.Context, ev events.ContentChanged) {
	prefixes, ok := cachePrefixes[ev.Kind]
	if !ok {
		return
	}
	for _, prefix := range prefixes {
		if err := i.cache.DeletePrefix(ctx, prefix); err != nil {
			i.logger.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
	i.logger.Debug("content cache invalidated", "kind", ev.Kind, "id", ev.ID, "action", ev.Action)
}
