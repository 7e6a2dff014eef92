// Package admin implements the back-office write path. Store failures are
// returned to the caller unchanged; every successful write publishes a
// content-change event.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Editable is the constraint satisfied by pointers to admin-editable
// entities
type Editable[T any] interface {
	*T
	models.Entity
	Prepare() error
}

// Service exposes CRUD for every content type
type Service struct {
	Services   *Resource[models.Service, *models.Service]
	Posts      *Resource[models.Post, *models.Post]
	Projects   *Resource[models.Project, *models.Project]
	Careers    *Resource[models.Career, *models.Career]
	HeroImages *Resource[models.HeroImage, *models.HeroImage]

	repo   storage.Repository
	bus    events.Bus
	logger *slog.Logger
	now    func() time.Time
}

// New creates the admin service. bus may be nil.
func New(repo storage.Repository, bus events.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, bus: bus, logger: logger, now: time.Now}

	s.Services = &Resource[models.Service, *models.Service]{
		svc: s, coll: repo.Services(), kind: events.KindService, orderBy: "title",
	}
	s.Posts = &Resource[models.Post, *models.Post]{
		svc: s, coll: repo.Posts(), kind: events.KindPost, orderBy: "date", desc: true,
		beforeSave: func(p *models.Post) {
			if p.Date.IsZero() {
				p.Date = s.now().UTC()
			}
		},
	}
	s.Projects = &Resource[models.Project, *models.Project]{
		svc: s, coll: repo.Projects(), kind: events.KindProject, orderBy: "created_at", desc: true,
	}
	s.Careers = &Resource[models.Career, *models.Career]{
		svc: s, coll: repo.Careers(), kind: events.KindCareer, orderBy: "created_at", desc: true,
	}
	s.HeroImages = &Resource[models.HeroImage, *models.HeroImage]{
		svc: s, coll: repo.HeroImages(), kind: events.KindHero, orderBy: "sort_order",
	}
	return s
}

// Settings returns the stored settings, empty settings when none exist yet
func (s *Service) Settings(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.repo.Settings().Get(ctx, models.SettingsID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			empty := &models.SiteSettings{}
			empty.ID = models.SettingsID
			return empty, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges patch into the stored settings, creating them on
// first write. Fields absent from patch keep their values.
func (s *Service) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.SiteSettings, error) {
	settings, err := s.repo.Settings().Get(ctx, models.SettingsID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		settings = &models.SiteSettings{}
		settings.ID = models.SettingsID
		patch.Apply(settings)
		if err := s.repo.Settings().Create(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load settings: %w", err)
	default:
		patch.Apply(settings)
		if err := s.repo.Settings().Update(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to update settings: %w", err)
		}
	}

	s.publish(ctx, events.KindSettings, models.SettingsID, events.ActionUpdated)
	return settings, nil
}

// Contacts lists contact submissions, newest first
func (s *Service) Contacts(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	items, err := s.repo.Contacts().Find(ctx, storage.Query{
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return items, nil
}

func (s *Service) publish(ctx context.Context, kind, id string, action events.Action) {
	if s.bus == nil {
		return
	}
	ev := events.ContentChanged{Kind: kind, ID: id, Action: action, At: s.now().UTC()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish content event", "kind", kind, "id", id, "error", err)
	}
}
