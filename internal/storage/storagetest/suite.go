package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// RunRepositorySuite exercises the Repository contract against an empty
// repository. Every backend runs the same suite.
func RunRepositorySuite(t *testing.T, repo storage.Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		svc := &models.Service{Slug: "web-development", Title: "Web Development", Details: []string{"a", "b"}}
		require.NoError(t, repo.Services().Create(ctx, svc))

		assert.NotEmpty(t, svc.ID)
		assert.False(t, svc.CreatedAt.IsZero())

		got, err := repo.Services().Get(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Web Development", got.Title)
		assert.Equal(t, []string{"a", "b"}, got.Details)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		_, err := repo.Services().Get(ctx, models.NewID())
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		first := &models.Service{Slug: "branding", Title: "Branding"}
		require.NoError(t, repo.Services().Create(ctx, first))

		second := &models.Service{Slug: "branding", Title: "Branding Again"}
		assert.ErrorIs(t, repo.Services().Create(ctx, second), storage.ErrConflict)
	})

	t.Run("find filters matches orders and limits", func(t *testing.T) {
		base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		posts := []*models.Post{
			{Slug: "launch", Title: "Launch Day", Content: "We are LIVE", Status: models.StatusPublished, Category: models.AnnouncementCategory, Date: base},
			{Slug: "hiring", Title: "Hiring", Content: "Join the team", Status: models.StatusPublished, Category: "News", Date: base.Add(48 * time.Hour)},
			{Slug: "draft-news", Title: "Draft", Content: "live soon", Status: models.StatusDraft, Category: "News", Date: base.Add(24 * time.Hour)},
		}
		for _, p := range posts {
			require.NoError(t, repo.Posts().Create(ctx, p))
		}

		published, err := repo.Posts().Find(ctx, storage.Query{
			Where:   map[string]any{"status": models.StatusPublished},
			OrderBy: "date",
			Desc:    true,
		})
		require.NoError(t, err)
		require.Len(t, published, 2)
		assert.Equal(t, "hiring", published[0].Slug)
		assert.Equal(t, "launch", published[1].Slug)

		blog, err := repo.Posts().Find(ctx, storage.Query{
			Exclude: map[string]any{"category": models.AnnouncementCategory},
		})
		require.NoError(t, err)
		assert.Len(t, blog, 2)

		live, err := repo.Posts().Find(ctx, storage.Query{
			Match: &storage.Match{Term: "live", Fields: []string{"title", "content"}},
		})
		require.NoError(t, err)
		assert.Len(t, live, 2)

		limited, err := repo.Posts().Find(ctx, storage.Query{OrderBy: "date", Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "draft-news", limited[0].Slug)
	})

	t.Run("match treats wildcards literally", func(t *testing.T) {
		require.NoError(t, repo.Projects().Create(ctx, &models.Project{Title: "100% uptime", Category: "Ops"}))
		require.NoError(t, repo.Projects().Create(ctx, &models.Project{Title: "1000 users", Category: "Growth"}))

		found, err := repo.Projects().Find(ctx, storage.Query{
			Match: &storage.Match{Term: "0%", Fields: []string{"title"}},
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "100% uptime", found[0].Title)
	})

	t.Run("match folds non-ascii case", func(t *testing.T) {
		require.NoError(t, repo.Services().Create(ctx, &models.Service{Slug: "ecole-digitale", Title: "École Digitale"}))
		require.NoError(t, repo.Services().Create(ctx, &models.Service{Slug: "ecommerce", Title: "Ecommerce"}))

		for _, term := range []string{"École", "école", "ÉCOLE", "le dig"} {
			found, err := repo.Services().Find(ctx, storage.Query{
				Match: &storage.Match{Term: term, Fields: []string{"title"}},
			})
			require.NoError(t, err)
			require.Len(t, found, 1, term)
			assert.Equal(t, "École Digitale", found[0].Title, term)
		}
	})

	t.Run("update replaces fields and keeps created_at", func(t *testing.T) {
		hero := &models.HeroImage{Title: "Old", ImageURL: "/images/a.jpg", IsActive: true, SortOrder: 2}
		require.NoError(t, repo.HeroImages().Create(ctx, hero))
		created := hero.CreatedAt

		edited := &models.HeroImage{Title: "New", ImageURL: "/images/b.jpg", SortOrder: 0}
		edited.ID = hero.ID
		require.NoError(t, repo.HeroImages().Update(ctx, edited))

		assert.Equal(t, "New", edited.Title)
		assert.False(t, edited.IsActive)
		assert.WithinDuration(t, created, edited.CreatedAt, time.Second)
		assert.False(t, edited.UpdatedAt.Before(edited.CreatedAt))

		missing := &models.HeroImage{ImageURL: "/images/c.jpg"}
		missing.ID = models.NewID()
		assert.ErrorIs(t, repo.HeroImages().Update(ctx, missing), storage.ErrNotFound)
	})

	t.Run("delete removes record", func(t *testing.T) {
		c := &models.Career{Type: models.CareerJob, Title: "Engineer", Slug: "engineer", Status: models.StatusPublished,
			Attributes: map[string]string{"department": "R&D"}}
		require.NoError(t, repo.Careers().Create(ctx, c))

		got, err := repo.Careers().Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "R&D", got.Attributes["department"])

		require.NoError(t, repo.Careers().Delete(ctx, c.ID))
		assert.ErrorIs(t, repo.Careers().Delete(ctx, c.ID), storage.ErrNotFound)
		_, err = repo.Careers().Get(ctx, c.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("settings singleton uses fixed id", func(t *testing.T) {
		s := &models.SiteSettings{CompanyName: "Acme"}
		s.ID = models.SettingsID
		require.NoError(t, repo.Settings().Create(ctx, s))

		got, err := repo.Settings().Get(ctx, models.SettingsID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.CompanyName)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
