// Package refresh keeps the live announcement banner current.
package refresh

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/events"
)

// DefaultInterval is used when no positive interval is configured
const DefaultInterval = time.Minute

// Broadcaster receives the feed whenever it changes
type Broadcaster interface {
	Broadcast(items []content.Announcement)
}

// Refresher periodically recomputes the announcement feed and pushes it to
// live listeners when it differs from the last result
type Refresher struct {
	feed     *content.Feed
	out      Broadcaster
	interval time.Duration
	trigger  chan struct{}

	mu   sync.Mutex
	last []content.Announcement
}

// NewRefresher creates a new feed refresh worker
func NewRefresher(feed *content.Feed, out Broadcaster, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Refresher{
		feed:     feed,
		out:      out,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Start begins the refresh worker in a goroutine
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

// Trigger requests a refresh outside the ticker. Requests made while one is
// pending are merged.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// HandleEvent triggers a refresh when a post changes, the only kind the
// banner is built from
func (r *Refresher) HandleEvent(_ context.Context, ev events.ContentChanged) {
	if ev.Kind == events.KindPost {
		r.Trigger()
	}
}

// run is the main loop for the refresh worker
func (r *Refresher) run(ctx context.Context) {
	slog.Info("feed refresher started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run immediately on start
	r.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed refresher stopped")
			return
		case <-ticker.C:
			r.Refresh(ctx)
		case <-r.trigger:
			r.Refresh(ctx)
		}
	}
}

// Refresh recomputes the feed and broadcasts it if it changed. It reports
// whether a broadcast happened.
func (r *Refresher) Refresh(ctx context.Context) bool {
	slog.Debug("running feed refresh")

	items := r.feed.Refresh(ctx)

	r.mu.Lock()
	changed := r.last == nil || !reflect.DeepEqual(r.last, items)
	if changed {
		r.last = items
	}
	r.mu.Unlock()

	if !changed {
		slog.Debug("announcement feed unchanged")
		return false
	}

	slog.Info("announcement feed changed", "count", len(items))
	if r.out != nil {
		r.out.Broadcast(items)
	}
	return true
}
