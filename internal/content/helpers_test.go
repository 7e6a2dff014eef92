package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/terra-clan/company-site/internal/cache"
	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
	"github.com/terra-clan/company-site/internal/storage/storagetest"
)

func newTestServices(t *testing.T) (*Services, *storagetest.Repository) {
	t.Helper()
	repo := storagetest.New()
	return New(repo, Options{}), repo
}

func newCachedServices(t *testing.T) (*Services, *storagetest.Repository, *cache.Memory) {
	t.Helper()
	repo := storagetest.New()
	mem := cache.NewMemory(time.Minute, time.Minute)
	return New(repo, Options{Cache: mem}), repo, mem
}

func seedService(t *testing.T, repo storage.Repository, slug, title, short string) *models.Service {
	t.Helper()
	svc := &models.Service{Slug: slug, Title: title, ShortDesc: short}
	require.NoError(t, repo.Services().Create(context.Background(), svc))
	return svc
}

func seedPost(t *testing.T, repo storage.Repository, title, category string, status models.Status, date time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: title + " body", Category: category, Status: status, Date: date}
	require.NoError(t, p.Prepare())
	require.NoError(t, repo.Posts().Create(context.Background(), p))
	return p
}

// stubCollection is a storage.Collection whose operations are set per test
type stubCollection[T any] struct {
	find func(ctx context.Context, q storage.Query) ([]T, error)
	get  func(ctx context.Context, id string) (*T, error)
}

func (s *stubCollection[T]) Find(ctx context.Context, q storage.Query) ([]T, error) {
	return s.find(ctx, q)
}

func (s *stubCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	if s.get == nil {
		return nil, storage.ErrNotFound
	}
	return s.get(ctx, id)
}

func (s *stubCollection[T]) Create(context.Context, *T) error { return nil }
func (s *stubCollection[T]) Update(context.Context, *T) error { return nil }
func (s *stubCollection[T]) Delete(context.Context, string) error {
	return nil
}
