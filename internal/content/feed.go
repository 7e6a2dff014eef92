package content

import (
	"context"
	"sort"
	"time"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// MaxAnnouncements is the number of banner items shown
const MaxAnnouncements = 3

const feedCacheKey = "feed:announcements"

// Announcement is one banner rotation item
type Announcement struct {
	Title    string    `json:"title"`
	Excerpt  string    `json:"excerpt"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

// fallbackAnnouncements is shown when no published announcement can be read
var fallbackAnnouncements = []Announcement{
	{
		Title:    "Welcome to our new website",
		Excerpt:  "Explore our services, recent projects and open positions.",
		Category: models.AnnouncementCategory,
	},
	{
		Title:    "We are hiring",
		Excerpt:  "Jobs, internships and training programmes are open on our careers page.",
		Category: models.AnnouncementCategory,
	},
	{
		Title:    "Let's build something together",
		Excerpt:  "Tell us about your project and we will get back to you within one business day.",
		Category: models.AnnouncementCategory,
	},
}

// FallbackAnnouncements returns a copy of the static banner items
func FallbackAnnouncements() []Announcement {
	out := make([]Announcement, len(fallbackAnnouncements))
	copy(out, fallbackAnnouncements)
	return out
}

// Feed produces the banner rotation
type Feed struct {
	base
	repo storage.Repository
}

// Active returns at most MaxAnnouncements published announcements, newest
// first. It never returns an empty list.
func (f *Feed) Active(ctx context.Context) []Announcement {
	var items []Announcement
	if f.cached(ctx, feedCacheKey, &items) && len(items) > 0 {
		return items
	}
	return f.Refresh(ctx)
}

// Refresh reads the feed from the store, bypassing the cache, and caches a
// non-fallback result
func (f *Feed) Refresh(ctx context.Context) []Announcement {
	items, err := f.load(ctx)
	if err != nil {
		f.logger.Error("announcement feed unavailable", "error", err)
		return FallbackAnnouncements()
	}
	if len(items) == 0 {
		return FallbackAnnouncements()
	}

	f.store(ctx, feedCacheKey, items)
	return items
}

// load filters on category in the store and on status here, so the store
// needs no composite index
func (f *Feed) load(ctx context.Context) ([]Announcement, error) {
	posts, err := f.repo.Posts().Find(ctx, storage.Query{
		Where: map[string]any{"category": models.AnnouncementCategory},
	})
	if err != nil {
		return nil, storeError("announcements", err)
	}

	published := posts[:0]
	for _, p := range posts {
		if p.IsPublished() {
			published = append(published, p)
		}
	}

	sort.SliceStable(published, func(i, j int) bool {
		return published[i].Date.After(published[j].Date)
	})
	if len(published) > MaxAnnouncements {
		published = published[:MaxAnnouncements]
	}

	items := make([]Announcement, 0, len(published))
	for _, p := range published {
		items = append(items, Announcement{
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			Category: p.Category,
			Date:     p.Date,
		})
	}
	return items, nil
}
