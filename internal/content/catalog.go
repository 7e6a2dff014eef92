package content

import (
	"context"
	"errors"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// fallbackHero is the slider shown when no active slide can be read
var fallbackHero = []models.HeroImage{
	{
		Title:       "Digital solutions that grow your business",
		Description: "Web, mobile and cloud engineering from one team.",
		ImageURL:    "/images/hero/default-1.jpg",
		IsActive:    true,
		SortOrder:   0,
	},
	{
		Title:       "From idea to launch",
		Description: "Design, development and support under one roof.",
		ImageURL:    "/images/hero/default-2.jpg",
		IsActive:    true,
		SortOrder:   1,
	},
}

// FallbackHeroImages returns a copy of the static slider
func FallbackHeroImages() []models.HeroImage {
	out := make([]models.HeroImage, len(fallbackHero))
	copy(out, fallbackHero)
	return out
}

// Catalog lists content for the public pages. Every method degrades to an
// empty list (or static fallback) when the store fails.
type Catalog struct {
	base
	repo storage.Repository
}

// Services lists all services with their icons
func (c *Catalog) Services(ctx context.Context) []ServiceView {
	const key = "list:services"
	var views []ServiceView
	if c.cached(ctx, key, &views) {
		return views
	}

	services, err := c.repo.Services().Find(ctx, storage.Query{OrderBy: "title"})
	if err != nil {
		c.logger.Error("failed to list services", "error", storeError("list services", err))
		return []ServiceView{}
	}

	views = make([]ServiceView, 0, len(services))
	for _, svc := range services {
		views = append(views, ServiceView{Service: svc, Icon: IconFor(svc.Slug)})
	}
	c.store(ctx, key, views)
	return views
}

// Blog lists published posts outside the announcement category, newest first
func (c *Catalog) Blog(ctx context.Context) []models.Post {
	const key = "list:blog"
	var posts []models.Post
	if c.cached(ctx, key, &posts) {
		return posts
	}

	posts, err := c.repo.Posts().Find(ctx, storage.Query{
		Where:   map[string]any{"status": models.StatusPublished},
		Exclude: map[string]any{"category": models.AnnouncementCategory},
		OrderBy: "date",
		Desc:    true,
	})
	if err != nil {
		c.logger.Error("failed to list posts", "error", storeError("list posts", err))
		return []models.Post{}
	}

	c.store(ctx, key, posts)
	return posts
}

// Careers lists published openings, newest first. An empty typ lists all
// types.
func (c *Catalog) Careers(ctx context.Context, typ models.CareerType) []models.Career {
	key := "list:careers:" + string(typ)
	var careers []models.Career
	if c.cached(ctx, key, &careers) {
		return careers
	}

	where := map[string]any{"status": models.StatusPublished}
	if typ != "" {
		where["type"] = typ
	}

	careers, err := c.repo.Careers().Find(ctx, storage.Query{
		Where:   where,
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		c.logger.Error("failed to list careers", "type", typ, "error", storeError("list careers", err))
		return []models.Career{}
	}

	c.store(ctx, key, careers)
	return careers
}

// Portfolio lists projects, newest first
func (c *Catalog) Portfolio(ctx context.Context) []models.Project {
	const key = "list:portfolio"
	var projects []models.Project
	if c.cached(ctx, key, &projects) {
		return projects
	}

	projects, err := c.repo.Projects().Find(ctx, storage.Query{OrderBy: "created_at", Desc: true})
	if err != nil {
		c.logger.Error("failed to list projects", "error", storeError("list projects", err))
		return []models.Project{}
	}

	c.store(ctx, key, projects)
	return projects
}

// HeroImages lists active slides in ascending order, or the static slider
// when there are none
func (c *Catalog) HeroImages(ctx context.Context) []models.HeroImage {
	const key = "list:hero"
	var slides []models.HeroImage
	if c.cached(ctx, key, &slides) && len(slides) > 0 {
		return slides
	}

	slides, err := c.repo.HeroImages().Find(ctx, storage.Query{
		Where:   map[string]any{"is_active": true},
		OrderBy: "sort_order",
	})
	if err != nil {
		c.logger.Error("failed to list hero images", "error", storeError("list hero images", err))
		return FallbackHeroImages()
	}
	if len(slides) == 0 {
		return FallbackHeroImages()
	}

	c.store(ctx, key, slides)
	return slides
}

// Settings returns the site settings, or empty settings when none are
// stored or the store is unavailable
func (c *Catalog) Settings(ctx context.Context) models.SiteSettings {
	const key = "settings"
	var settings models.SiteSettings
	if c.cached(ctx, key, &settings) {
		return settings
	}

	stored, err := c.repo.Settings().Get(ctx, models.SettingsID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Error("failed to load settings", "error", storeError("settings", err))
		}
		return models.SiteSettings{}
	}

	c.store(ctx, key, stored)
	return *stored
}
