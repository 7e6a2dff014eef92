package seed

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/company-site/internal/admin"
	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
	"github.com/terra-clan/company-site/internal/storage/storagetest"
)

func TestLoad(t *testing.T) {
	fx, err := Load(os.DirFS("testdata/site"))
	require.NoError(t, err)

	require.Len(t, fx.Services, 2)
	assert.Equal(t, "Web Development", fx.Services[0].Title)
	assert.Equal(t, []string{"Responsive design", "Performance audits"}, fx.Services[0].Details)
	assert.Equal(t, "cloud", fx.Services[1].Slug)

	require.Len(t, fx.Projects, 1)
	assert.Equal(t, "Data", fx.Projects[0].Category)

	require.Len(t, fx.Careers, 2)
	assert.Equal(t, models.StatusPublished, fx.Careers[0].Status, "status defaults to published")
	assert.Equal(t, models.StatusDraft, fx.Careers[1].Status)

	require.Len(t, fx.HeroImages, 2)
	assert.True(t, fx.HeroImages[0].IsActive)
	assert.Equal(t, 0, fx.HeroImages[0].SortOrder)
	assert.False(t, fx.HeroImages[1].IsActive)
	assert.Equal(t, 5, fx.HeroImages[1].SortOrder)

	require.NotNil(t, fx.Settings)
	require.NotNil(t, fx.Settings.CompanyName)
	assert.Equal(t, "Acme Consulting", *fx.Settings.CompanyName)
	assert.Nil(t, fx.Settings.Phone)

	require.Len(t, fx.Posts, 2, "non-markdown files are ignored")
	office := fx.Posts[0]
	assert.Equal(t, "We moved offices", office.Title)
	assert.Equal(t, models.AnnouncementCategory, office.Category)
	assert.Equal(t, "Our new office is in the city centre.", office.Content)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), office.Date)

	hello := fx.Posts[1]
	assert.Equal(t, "hello world", hello.Title, "title falls back to the file name")
	assert.Equal(t, models.StatusDraft, hello.Status)
	assert.Equal(t, time.Date(2024, 4, 10, 9, 30, 0, 0, time.UTC), hello.Date)
}

func TestLoadEmptyDir(t *testing.T) {
	fx, err := Load(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, fx.Services)
	assert.Empty(t, fx.Posts)
	assert.Nil(t, fx.Settings)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(fstest.MapFS{"services.yaml": {Data: []byte("- title: [broken\n")}})
	assert.Error(t, err)

	_, err = Load(fstest.MapFS{"posts/a.md": {Data: []byte("---\ntitle: A\ndate: yesterday\n---\nbody\n")}})
	assert.ErrorContains(t, err, "invalid date")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		err  bool
	}{
		{"", time.Time{}, false},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"2024-01-02 15:04:05", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), false},
		{"2024-01-02T15:04:05+02:00", time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC), false},
		{"02/01/2024", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}
}

func TestFromDir(t *testing.T) {
	repo := storagetest.New()
	bus := events.NewLocalBus()
	var published int
	_, err := bus.Subscribe(func(context.Context, events.ContentChanged) { published++ })
	require.NoError(t, err)

	s := New(admin.New(repo, bus, nil), nil)
	ctx := context.Background()

	res, err := s.FromDir(ctx, "testdata/site")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created["service"])
	assert.Equal(t, 2, res.Created["post"])
	assert.Equal(t, 1, res.Created["project"])
	assert.Equal(t, 2, res.Created["career"])
	assert.Equal(t, 2, res.Created["hero"])
	assert.True(t, res.Settings)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 10, published, "one event per record plus settings")

	careers, err := repo.Careers().Find(ctx, storage.Query{Where: map[string]any{"slug": "senior-go-engineer"}})
	require.NoError(t, err)
	require.Len(t, careers, 1)
	assert.Equal(t, map[string]string{"department": "Engineering", "employmentType": "Full-time"}, careers[0].Attributes)

	posts, err := repo.Posts().Find(ctx, storage.Query{Where: map[string]any{"slug": "we-moved-offices"}})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Our new office is in the city centre.", posts[0].Excerpt)

	settings, err := repo.Settings().Get(ctx, models.SettingsID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Consulting", settings.CompanyName)

	// Second run leaves existing content alone
	res, err = s.FromDir(ctx, "testdata/site")
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.ElementsMatch(t, []string{"service", "post", "project", "career", "hero"}, res.Skipped)

	services, err := repo.Services().Find(ctx, storage.Query{})
	require.NoError(t, err)
	assert.Len(t, services, 2)
}

func TestFromDirMissing(t *testing.T) {
	s := New(admin.New(storagetest.New(), nil, nil), nil)
	_, err := s.FromDir(context.Background(), "testdata/does-not-exist")
	assert.Error(t, err)
}

func TestApplyStopsOnInvalidFixture(t *testing.T) {
	s := New(admin.New(storagetest.New(), nil, nil), nil)

	_, err := s.Apply(context.Background(), &Fixtures{
		Services: []models.Service{{Title: ""}},
	})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
}
