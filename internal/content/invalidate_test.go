package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/models"
)

func TestInvalidatorDropsDerivedEntries(t *testing.T) {
	svc, repo, mem := newCachedServices(t)
	ctx := context.Background()

	seedService(t, repo, "seo", "SEO Audits", "")
	seedPost(t, repo, "Big news", models.AnnouncementCategory, models.StatusPublished, time.Now())

	svc.Search.Search(ctx, "seo")
	svc.Catalog.Services(ctx)
	svc.Feed.Active(ctx)
	_, err := svc.Resolver.Service(ctx, "seo")
	require.NoError(t, err)
	require.Equal(t, 4, mem.Len())

	svc.Invalidator.Handle(ctx, events.ContentChanged{Kind: events.KindService, Action: events.ActionUpdated})
	assert.Equal(t, 1, mem.Len(), "only the announcement feed survives")

	svc.Invalidator.Handle(ctx, events.ContentChanged{Kind: events.KindPost, Action: events.ActionDeleted})
	assert.Equal(t, 0, mem.Len())
}

func TestInvalidatorWithBus(t *testing.T) {
	svc, repo, mem := newCachedServices(t)
	ctx := context.Background()
	bus := events.NewLocalBus()
	_, err := bus.Subscribe(svc.Invalidator.Handle)
	require.NoError(t, err)

	seedService(t, repo, "seo", "SEO", "Before")
	view, err := svc.Resolver.Service(ctx, "seo")
	require.NoError(t, err)
	assert.Equal(t, "Before", view.ShortDesc)

	view.ShortDesc = "After"
	require.NoError(t, repo.Services().Update(ctx, &view.Service))
	require.NoError(t, bus.Publish(ctx, events.ContentChanged{Kind: events.KindService, ID: view.ID, Action: events.ActionUpdated}))

	view, err = svc.Resolver.Service(ctx, "seo")
	require.NoError(t, err)
	assert.Equal(t, "After", view.ShortDesc)
	assert.Equal(t, 1, mem.Len())
}
