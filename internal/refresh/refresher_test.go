package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage/storagetest"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]content.Announcement
}

func (r *recorder) Broadcast(items []content.Announcement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, items)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) last() []content.Announcement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func addAnnouncement(t *testing.T, repo *storagetest.Repository, title string, date time.Time) {
	t.Helper()
	p := &models.Post{
		Title:    title,
		Content:  title,
		Category: models.AnnouncementCategory,
		Status:   models.StatusPublished,
		Date:     date,
	}
	require.NoError(t, p.Prepare())
	require.NoError(t, repo.Posts().Create(context.Background(), p))
}

func TestRefreshBroadcastsOnlyChanges(t *testing.T) {
	repo := storagetest.New()
	svcs := content.New(repo, content.Options{})
	rec := &recorder{}
	r := NewRefresher(svcs.Feed, rec, time.Hour)
	ctx := context.Background()

	assert.True(t, r.Refresh(ctx), "first run always broadcasts")
	assert.Equal(t, content.FallbackAnnouncements(), rec.last())

	assert.False(t, r.Refresh(ctx))
	assert.Equal(t, 1, rec.count())

	addAnnouncement(t, repo, "Holiday hours", time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	assert.True(t, r.Refresh(ctx))
	require.Len(t, rec.last(), 1)
	assert.Equal(t, "Holiday hours", rec.last()[0].Title)
}

func TestHandleEventTriggersRefresh(t *testing.T) {
	repo := storagetest.New()
	svcs := content.New(repo, content.Options{})
	rec := &recorder{}
	r := NewRefresher(svcs.Feed, rec, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 10*time.Millisecond)

	addAnnouncement(t, repo, "New office", time.Now())
	r.HandleEvent(ctx, events.ContentChanged{Kind: events.KindService, Action: events.ActionUpdated})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "service changes do not affect the banner")

	r.HandleEvent(ctx, events.ContentChanged{Kind: events.KindPost, Action: events.ActionCreated})
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "New office", rec.last()[0].Title)
}

func TestTickerRefresh(t *testing.T) {
	repo := storagetest.New()
	svcs := content.New(repo, content.Options{})
	rec := &recorder{}
	r := NewRefresher(svcs.Feed, rec, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	addAnnouncement(t, repo, "Ticker picked this up", time.Now())
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestTriggerCoalesces(t *testing.T) {
	r := NewRefresher(nil, nil, 0)
	assert.Equal(t, DefaultInterval, r.interval)

	r.Trigger()
	r.Trigger()
	assert.Len(t, r.trigger, 1)
}
