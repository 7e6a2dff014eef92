package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/company-site/internal/admin"
	"github.com/terra-clan/company-site/internal/auth"
	"github.com/terra-clan/company-site/internal/config"
	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/health"
	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
	"github.com/terra-clan/company-site/internal/storage/storagetest"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type testEnv struct {
	server *Server
	repo   *storagetest.Repository
	auth   *auth.Authenticator
	health *health.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := storagetest.New()
	authn, err := auth.NewAuthenticator(repo.Admins(), auth.Config{Secret: "test-secret"})
	require.NoError(t, err)

	reg := health.NewRegistry()
	reg.Register("store", health.CheckFunc(repo.Ping))

	srv := NewServer(config.ServerConfig{RequestTimeout: 5 * time.Second}, Deps{
		Content: content.New(repo, content.Options{}),
		Admin:   admin.New(repo, events.NewLocalBus(), nil),
		Auth:    authn,
		Health:  reg,
	})
	return &testEnv{server: srv, repo: repo, auth: authn, health: reg}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	_, err := e.auth.CreateAdmin(context.Background(), "admin@example.com", "Admin", "correct-horse")
	require.NoError(t, err)

	rec, env := e.do(t, http.MethodPost, "/api/v1/admin/login",
		loginRequest{Email: "admin@example.com", Password: "correct-horse"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seed(t *testing.T, repo storage.Repository) {
	t.Helper()
	ctx := context.Background()
	svc := &models.Service{Title: "Cloud Migration", ShortDesc: "Move workloads to the cloud"}
	require.NoError(t, svc.Prepare())
	require.NoError(t, repo.Services().Create(ctx, svc))

	post := &models.Post{Title: "Cloud Tips", Content: "Ten ways to cut your cloud bill.", Status: models.StatusPublished, Category: "Tech", Date: time.Now()}
	require.NoError(t, post.Prepare())
	require.NoError(t, repo.Posts().Create(ctx, post))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestReady(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	env.health.Register("cache", health.CheckFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))
	rec, body := env.do(t, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "not_ready", body.Error.Code)
	assert.Equal(t, "connection refused", body.Error.Fields["cache"])
	assert.Equal(t, "ok", body.Error.Fields["store"])
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env.repo)

	rec, body := env.do(t, http.MethodGet, "/api/v1/search?q=cloud", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Query  string                `json:"query"`
		Groups []content.ResultGroup `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "cloud", data.Query)
	require.Len(t, data.Groups, 2)
	assert.Equal(t, content.GroupServices, data.Groups[0].Group)
	assert.Equal(t, content.GroupAnnouncements, data.Groups[1].Group)

	// Short queries return no groups rather than an error
	rec, body = env.do(t, http.MethodGet, "/api/v1/search?q=cl", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Empty(t, data.Groups)
}

func TestAnnouncementsFallback(t *testing.T) {
	env := newTestEnv(t)
	env.repo.Fail("", errors.New("db down"))

	rec, body := env.do(t, http.MethodGet, "/api/v1/announcements", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Items []content.Announcement `json:"items"`
		Total int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.Equal(t, content.FallbackAnnouncements(), list.Items)
	assert.Equal(t, 3, list.Total)
}

func TestGetService(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env.repo)

	rec, body := env.do(t, http.MethodGet, "/api/v1/services/cloud-migration", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view content.ServiceView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, "Cloud Migration", view.Title)
	assert.NotEmpty(t, view.Icon)

	rec, body = env.do(t, http.MethodGet, "/api/v1/services/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestGetServiceStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.repo.Fail("services", errors.New("db down"))

	rec, body := env.do(t, http.MethodGet, "/api/v1/services/cloud-migration", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "store_unavailable", body.Error.Code)
}

func TestDraftPostHidden(t *testing.T) {
	env := newTestEnv(t)
	post := &models.Post{Title: "Secret Plans", Content: "not yet", Status: models.StatusDraft}
	require.NoError(t, post.Prepare())
	require.NoError(t, env.repo.Posts().Create(context.Background(), post))

	rec, _ := env.do(t, http.MethodGet, "/api/v1/posts/secret-plans", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCareersRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/careers?type=volunteer", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", body.Error.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/careers?type=internship", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/v1/contact", content.ContactForm{
		Name: "A", Email: "not-an-email", Message: "short",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "Name must be at least 2 characters.", body.Error.Fields["name"])
	assert.Equal(t, "Please enter a valid email address.", body.Error.Fields["email"])
	assert.Equal(t, "Message must be at least 10 characters.", body.Error.Fields["message"])

	rec, _ = env.do(t, http.MethodPost, "/api/v1/contact", content.ContactForm{
		Name: "Ada", Email: "ada@example.com", Message: "I would like a quote please",
	}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	stored, err := env.repo.Contacts().Find(context.Background(), storage.Query{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "ada@example.com", stored[0].Email)
}

func TestContactInvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/admin/services", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", body.Error.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/admin/services", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.CreateAdmin(context.Background(), "admin@example.com", "Admin", "correct-horse")
	require.NoError(t, err)

	rec, body := env.do(t, http.MethodPost, "/api/v1/admin/login",
		loginRequest{Email: "admin@example.com", Password: "wrong-horse"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", body.Error.Code)
}

func TestAdminServiceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/admin/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), "admin@example.com")

	rec, body = env.do(t, http.MethodPost, "/api/v1/admin/services",
		models.Service{Title: "Data Engineering", ShortDesc: "Pipelines"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Service
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "data-engineering", created.Slug)
	require.NotEmpty(t, created.ID)

	rec, body = env.do(t, http.MethodPost, "/api/v1/admin/services",
		models.Service{Title: "Data Engineering"}, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", body.Error.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/admin/services", models.Service{}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Title is required.", body.Error.Fields["title"])

	created.ShortDesc = "Streaming pipelines"
	rec, _ = env.do(t, http.MethodPut, "/api/v1/admin/services/"+created.ID, created, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/v1/admin/services/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Service
	require.NoError(t, json.Unmarshal(body.Data, &fetched))
	assert.Equal(t, "Streaming pipelines", fetched.ShortDesc)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/admin/services/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/admin/services/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSettings(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	name := "Acme Consulting"
	rec, _ := env.do(t, http.MethodPut, "/api/v1/admin/settings", models.SettingsPatch{CompanyName: &name}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/v1/settings", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings models.SiteSettings
	require.NoError(t, json.Unmarshal(body.Data, &settings))
	assert.Equal(t, "Acme Consulting", settings.CompanyName)
}

func TestAdminContactsPaging(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	for _, name := range []string{"Ada", "Grace", "Linus"} {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/contact", content.ContactForm{
			Name: name, Email: strings.ToLower(name) + "@example.com", Message: "Please call me back soon",
		}, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := env.do(t, http.MethodGet, "/api/v1/admin/contacts?limit=2&offset=0", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []models.ContactSubmission `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.Len(t, list.Items, 2)
}

func TestPagesMounted(t *testing.T) {
	repo := storagetest.New()
	pages := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page:" + r.URL.Path))
	})
	srv := NewServer(config.ServerConfig{}, Deps{
		Content: content.New(repo, content.Options{}),
		Pages:   pages,
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/en/about", nil))
	assert.Equal(t, "page:/en/about", rec.Body.String())

	// No admin service means no admin routes
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, extractToken(req), tt.header)
	}
}

func TestLiveAnnouncements(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.server.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/announcements/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial LiveMessage
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "announcements", initial.Type)
	assert.Equal(t, content.FallbackAnnouncements(), initial.Items)

	require.Eventually(t, func() bool { return env.server.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	update := []content.Announcement{{Title: "Office move", Excerpt: "We moved", Category: models.AnnouncementCategory}}
	env.server.hub.Broadcast(update)

	var pushed LiveMessage
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, "Office move", pushed.Items[0].Title)

	env.server.hub.Close()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, env.server.hub.Count())
}

func TestLiveDropsStalledClient(t *testing.T) {
	env := newTestEnv(t)
	env.server.hub.writeWait = 50 * time.Millisecond
	ts := httptest.NewServer(env.server.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/announcements/live"
	stalled, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer stalled.Close()

	require.Eventually(t, func() bool { return env.server.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	// The client never reads, so the socket buffers fill up and a write
	// eventually runs into the deadline.
	items := []content.Announcement{{Title: "Big", Excerpt: strings.Repeat("x", 256<<10)}}
	require.Eventually(t, func() bool {
		start := time.Now()
		env.server.hub.Broadcast(items)
		assert.Less(t, time.Since(start), 5*time.Second)
		return env.server.hub.Count() == 0
	}, 20*time.Second, time.Millisecond)
}
