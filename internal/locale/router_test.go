package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter([]string{"en", "fr"}, "en", "/health", "/ready", "/sitemap.xml", "/robots.txt")
	require.NoError(t, err)
	return r
}

func TestRoute(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path string
		want Decision
	}{
		{"/", Decision{Redirect: true, Target: "/en"}},
		{"", Decision{Redirect: true, Target: "/en"}},
		{"/services", Decision{Redirect: true, Target: "/en/services"}},
		{"/services/web-development", Decision{Redirect: true, Target: "/en/services/web-development"}},
		{"/careers/jobs/", Decision{Redirect: true, Target: "/en/careers/jobs/"}},
		{"/en", Continue},
		{"/en/services", Continue},
		{"/fr/blog/some-post", Continue},
		{"/english", Decision{Redirect: true, Target: "/en/english"}},
		{"/frog", Decision{Redirect: true, Target: "/en/frog"}},
		{"/api/v1/search", Continue},
		{"/api", Continue},
		{"/apiary", Decision{Redirect: true, Target: "/en/apiary"}},
		{"/assets/app.css", Continue},
		{"/images/hero/1.jpg", Continue},
		{"/favicon.ico", Continue},
		{"/icons/favicon.ico", Continue},
		{"/health", Continue},
		{"/sitemap.xml", Continue},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Route(tt.path))
		})
	}
}

func TestNewRouterValidation(t *testing.T) {
	_, err := NewRouter(nil, "en")
	assert.Error(t, err)

	_, err = NewRouter([]string{"fr"}, "en")
	assert.Error(t, err)

	_, err = NewRouter([]string{"en", "not a tag!"}, "en")
	assert.Error(t, err)

	r, err := NewRouter([]string{"fr", "en"}, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, r.Locales())
	assert.Equal(t, "en", r.Default())
}

func TestSplit(t *testing.T) {
	r := newTestRouter(t)

	l, rest, ok := r.Split("/fr/services/seo")
	assert.True(t, ok)
	assert.Equal(t, "fr", l)
	assert.Equal(t, "/services/seo", rest)

	l, rest, ok = r.Split("/en")
	assert.True(t, ok)
	assert.Equal(t, "en", l)
	assert.Equal(t, "/", rest)

	_, _, ok = r.Split("/de/services")
	assert.False(t, ok)
}

func TestNegotiate(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, "en", r.Negotiate(""))
	assert.Equal(t, "fr", r.Negotiate("fr-CA,fr;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", r.Negotiate("en-GB"))
	assert.Equal(t, "en", r.Negotiate("ja"))
	assert.Equal(t, "en", r.Negotiate(";;;garbage"))
}

func TestMiddleware(t *testing.T) {
	r := newTestRouter(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := r.Middleware(next)

	tests := []struct {
		name     string
		path     string
		lang     string
		status   int
		location string
	}{
		{"root redirects to default", "/", "", http.StatusTemporaryRedirect, "/en"},
		{"query preserved", "/blog?page=2", "", http.StatusTemporaryRedirect, "/en/blog?page=2"},
		{"accept-language honoured", "/contact", "fr-FR,fr;q=0.9", http.StatusTemporaryRedirect, "/fr/contact"},
		{"localized passes", "/fr/contact", "en", http.StatusTeapot, ""},
		{"admin short-circuits", "/admin/posts", "", http.StatusTeapot, ""},
		{"api passes", "/api/v1/services", "", http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}
