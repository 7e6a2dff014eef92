// Package seed loads initial site content from fixture files into an
// empty store.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/terra-clan/company-site/internal/admin"
)

// Result counts what was written. Skipped lists kinds that already had
// content.
type Result struct {
	Created  map[string]int
	Skipped  []string
	Settings bool
}

// Seeder writes fixtures through the admin service so every record is
// validated and announced like an admin edit
type Seeder struct {
	admin  *admin.Service
	logger *slog.Logger
}

// New creates a seeder
func New(svc *admin.Service, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{admin: svc, logger: logger}
}

// FromDir loads fixtures from dir and applies them
func (s *Seeder) FromDir(ctx context.Context, dir string) (*Result, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("seed directory: %w", err)
	}
	fx, err := Load(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, fx)
}

// Apply stores fixtures. A kind whose collection already holds records is
// left untouched, so seeding twice is harmless.
func (s *Seeder) Apply(ctx context.Context, fx *Fixtures) (*Result, error) {
	res := &Result{Created: make(map[string]int)}

	steps := []struct {
		kind string
		run  func() (bool, int, error)
	}{
		{s.admin.Services.Kind(), func() (bool, int, error) { return seedAll(ctx, s.admin.Services, fx.Services) }},
		{s.admin.Posts.Kind(), func() (bool, int, error) { return seedAll(ctx, s.admin.Posts, fx.Posts) }},
		{s.admin.Projects.Kind(), func() (bool, int, error) { return seedAll(ctx, s.admin.Projects, fx.Projects) }},
		{s.admin.Careers.Kind(), func() (bool, int, error) { return seedAll(ctx, s.admin.Careers, fx.Careers) }},
		{s.admin.HeroImages.Kind(), func() (bool, int, error) { return seedAll(ctx, s.admin.HeroImages, fx.HeroImages) }},
	}

	for _, step := range steps {
		skipped, n, err := step.run()
		if err != nil {
			return res, fmt.Errorf("failed to seed %s: %w", step.kind, err)
		}
		if skipped {
			s.logger.Info("collection not empty, skipping", "kind", step.kind)
			res.Skipped = append(res.Skipped, step.kind)
			continue
		}
		if n > 0 {
			res.Created[step.kind] = n
			s.logger.Info("seeded content", "kind", step.kind, "count", n)
		}
	}

	if fx.Settings != nil {
		if _, err := s.admin.UpdateSettings(ctx, *fx.Settings); err != nil {
			return res, fmt.Errorf("failed to seed settings: %w", err)
		}
		res.Settings = true
	}

	return res, nil
}

// seedAll creates items unless the collection already has records
func seedAll[T any, P admin.Editable[T]](ctx context.Context, res *admin.Resource[T, P], items []T) (bool, int, error) {
	if len(items) == 0 {
		return false, 0, nil
	}

	existing, err := res.List(ctx)
	if err != nil {
		return false, 0, err
	}
	if len(existing) > 0 {
		return true, 0, nil
	}

	for i := range items {
		if err := res.Create(ctx, &items[i]); err != nil {
			return false, i, err
		}
	}
	return false, len(items), nil
}
