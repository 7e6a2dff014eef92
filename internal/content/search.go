package content

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Search limits
const (
	MinQueryLength = 3
	MaxPerGroup    = 5
)

// Result group names, in output order
const (
	GroupServices      = "Services"
	GroupAnnouncements = "Announcements"
	GroupProjects      = "Portfolio Projects"
)

// Fields matched per entity type
var (
	serviceSearchFields = []string{"title", "short_desc", "long_desc"}
	postSearchFields    = []string{"title", "content", "excerpt"}
	projectSearchFields = []string{"title", "description", "category"}
)

// ResultItem is one search hit
type ResultItem struct {
	Title   string `json:"title"`
	Href    string `json:"href"`
	Excerpt string `json:"excerpt"`
}

// ResultGroup is the hits of one entity type
type ResultGroup struct {
	Group string       `json:"group"`
	Items []ResultItem `json:"items"`
}

// SearchEngine runs free-text queries across services, published posts and
// portfolio projects
type SearchEngine struct {
	base
	repo storage.Repository
}

// Search returns the non-empty result groups for query. It never fails:
// queries shorter than MinQueryLength and store failures both yield an
// empty list.
func (s *SearchEngine) Search(ctx context.Context, query string) []ResultGroup {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []ResultGroup{}
	}

	cacheKey := "search:" + strings.ToLower(query)
	var groups []ResultGroup
	if s.cached(ctx, cacheKey, &groups) {
		return groups
	}

	var (
		services []models.Service
		posts    []models.Post
		projects []models.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		services, err = s.repo.Services().Find(gctx, storage.Query{
			Match: &storage.Match{Term: query, Fields: serviceSearchFields},
			Limit: MaxPerGroup,
		})
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.repo.Posts().Find(gctx, storage.Query{
			Where: map[string]any{"status": models.StatusPublished},
			Match: &storage.Match{Term: query, Fields: postSearchFields},
			Limit: MaxPerGroup,
		})
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.repo.Projects().Find(gctx, storage.Query{
			Match: &storage.Match{Term: query, Fields: projectSearchFields},
			Limit: MaxPerGroup,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("search failed", "query", query, "error", storeError("search", err))
		return []ResultGroup{}
	}

	groups = groupResults(services, posts, projects)
	s.store(ctx, cacheKey, groups)
	return groups
}

func groupResults(services []models.Service, posts []models.Post, projects []models.Project) []ResultGroup {
	groups := make([]ResultGroup, 0, 3)

	if len(services) > 0 {
		items := make([]ResultItem, 0, len(services))
		for _, svc := range services {
			items = append(items, ResultItem{
				Title:   svc.Title,
				Href:    "/services/" + svc.Slug,
				Excerpt: svc.ShortDesc,
			})
		}
		groups = append(groups, ResultGroup{Group: GroupServices, Items: items})
	}

	if len(posts) > 0 {
		items := make([]ResultItem, 0, len(posts))
		for _, p := range posts {
			items = append(items, ResultItem{
				Title:   p.Title,
				Href:    "/blog/" + p.Slug,
				Excerpt: p.Excerpt,
			})
		}
		groups = append(groups, ResultGroup{Group: GroupAnnouncements, Items: items})
	}

	if len(projects) > 0 {
		items := make([]ResultItem, 0, len(projects))
		for _, p := range projects {
			// projects have no detail page
			items = append(items, ResultItem{
				Title:   p.Title,
				Href:    "/portfolio",
				Excerpt: models.Excerpt(p.Description),
			})
		}
		groups = append(groups, ResultGroup{Group: GroupProjects, Items: items})
	}

	return groups
}
