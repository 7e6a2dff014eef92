package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Kind names a resolvable content type
type Kind string

const (
	KindService Kind = "service"
	KindPost    Kind = "post"
	KindCareer  Kind = "career"
)

// ServiceView is a service enriched with its display icon
type ServiceView struct {
	models.Service
	Icon string `json:"icon"`
}

// Resolver returns single records by slug, or by id for legacy links
type Resolver struct {
	base
	repo storage.Repository
}

// Service resolves a service by slug
func (r *Resolver) Service(ctx context.Context, key string) (*ServiceView, error) {
	cacheKey := resolveKey(KindService, key)
	var view ServiceView
	if r.cached(ctx, cacheKey, &view) {
		return &view, nil
	}

	svc, err := lookup(ctx, r.repo.Services(), KindService, key, nil)
	if err != nil {
		return nil, err
	}

	view = ServiceView{Service: *svc, Icon: IconFor(svc.Slug)}
	r.store(ctx, cacheKey, view)
	return &view, nil
}

// Post resolves a published post by slug
func (r *Resolver) Post(ctx context.Context, key string) (*models.Post, error) {
	cacheKey := resolveKey(KindPost, key)
	var post models.Post
	if r.cached(ctx, cacheKey, &post) {
		return &post, nil
	}

	found, err := lookup(ctx, r.repo.Posts(), KindPost, key, (*models.Post).IsPublished)
	if err != nil {
		return nil, err
	}

	r.store(ctx, cacheKey, found)
	return found, nil
}

// Career resolves a published career entry by slug
func (r *Resolver) Career(ctx context.Context, key string) (*models.Career, error) {
	cacheKey := resolveKey(KindCareer, key)
	var career models.Career
	if r.cached(ctx, cacheKey, &career) {
		return &career, nil
	}

	found, err := lookup(ctx, r.repo.Careers(), KindCareer, key, (*models.Career).IsPublished)
	if err != nil {
		return nil, err
	}

	r.store(ctx, cacheKey, found)
	return found, nil
}

// Resolve dispatches on kind. The result is a *ServiceView, *models.Post or
// *models.Career.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, key string) (any, error) {
	switch kind {
	case KindService:
		return r.Service(ctx, key)
	case KindPost:
		return r.Post(ctx, key)
	case KindCareer:
		return r.Career(ctx, key)
	}
	return nil, fmt.Errorf("unknown content kind %q", kind)
}

// lookup finds the single record whose slug equals key. When nothing matches
// and key is a record id, the record is loaded by id. visible, when set,
// restricts both paths to records visitors may see.
func lookup[T any](ctx context.Context, coll storage.Collection[T], kind Kind, key string, visible func(*T) bool) (*T, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}

	where := map[string]any{"slug": key}
	if visible != nil {
		where["status"] = models.StatusPublished
	}

	items, err := coll.Find(ctx, storage.Query{Where: where, Limit: 2})
	if err != nil {
		return nil, storeError("resolve "+string(kind), err)
	}
	switch len(items) {
	case 1:
		return &items[0], nil
	case 2:
		return nil, fmt.Errorf("%s %q: %w", kind, key, ErrConflict)
	}

	if _, err := uuid.Parse(key); err != nil {
		return nil, ErrNotFound
	}

	item, err := coll.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("resolve "+string(kind), err)
	}
	if visible != nil && !visible(item) {
		return nil, ErrNotFound
	}
	return item, nil
}

func resolveKey(kind Kind, key string) string {
	return "resolve:" + string(kind) + ":" + strings.TrimSpace(key)
}
