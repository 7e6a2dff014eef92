// Package locale handles locale prefixes in page URLs and translated
// interface strings.
package locale

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Decision is the outcome of routing a path. It is control flow, not an
// error.
type Decision struct {
	Redirect bool
	Target   string
}

// Continue lets the request through unchanged
var Continue = Decision{}

// Paths never given a locale prefix
var (
	defaultExcludedPrefixes = []string{"/api", "/assets", "/images"}
	faviconSuffix           = "favicon.ico"
)

// Router decides whether a page path needs a locale prefix
type Router struct {
	locales       []string
	defaultLocale string
	excluded      []string
	matcher       language.Matcher
}

// NewRouter creates a router for locales, which must contain defaultLocale.
// extraExcluded adds path prefixes that pass through like /api does.
func NewRouter(locales []string, defaultLocale string, extraExcluded ...string) (*Router, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("at least one locale is required")
	}

	// The default locale leads so the matcher falls back to it
	ordered := []string{defaultLocale}
	found := false
	for _, l := range locales {
		if l == defaultLocale {
			found = true
			continue
		}
		ordered = append(ordered, l)
	}
	if !found {
		return nil, fmt.Errorf("default locale %q is not in %v", defaultLocale, locales)
	}

	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}
		tags = append(tags, tag)
	}

	excluded := append([]string{}, defaultExcludedPrefixes...)
	excluded = append(excluded, extraExcluded...)

	return &Router{
		locales:       ordered,
		defaultLocale: defaultLocale,
		excluded:      excluded,
		matcher:       language.NewMatcher(tags),
	}, nil
}

// Locales returns the supported locales, default first
func (r *Router) Locales() []string {
	out := make([]string, len(r.locales))
	copy(out, r.locales)
	return out
}

// Default returns the default locale
func (r *Router) Default() string {
	return r.defaultLocale
}

// Supported reports whether l is one of the configured locales
func (r *Router) Supported(l string) bool {
	for _, candidate := range r.locales {
		if candidate == l {
			return true
		}
	}
	return false
}

// Route returns Continue for excluded paths and paths that already start
// with a locale segment, otherwise a redirect to the default locale.
func (r *Router) Route(path string) Decision {
	return r.route(path, r.defaultLocale)
}

func (r *Router) route(path, target string) Decision {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if r.excludedPath(path) {
		return Continue
	}
	if _, ok := r.prefix(path); ok {
		return Continue
	}

	if path == "/" {
		return Decision{Redirect: true, Target: "/" + target}
	}
	return Decision{Redirect: true, Target: "/" + target + path}
}

func (r *Router) excludedPath(path string) bool {
	for _, prefix := range r.excluded {
		if hasSegmentPrefix(path, prefix) {
			return true
		}
	}
	return strings.HasSuffix(path, faviconSuffix)
}

// prefix returns the locale in the first path segment, if supported
func (r *Router) prefix(path string) (string, bool) {
	first := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(first, '/'); i >= 0 {
		first = first[:i]
	}
	if r.Supported(first) {
		return first, true
	}
	return "", false
}

// Split returns the locale prefix of path and the remainder, "/" when
// empty. ok is false when path has no supported prefix.
func (r *Router) Split(path string) (locale, rest string, ok bool) {
	locale, ok = r.prefix(path)
	if !ok {
		return "", path, false
	}
	rest = strings.TrimPrefix(path, "/"+locale)
	if rest == "" {
		rest = "/"
	}
	return locale, rest, true
}

// Negotiate picks the supported locale best matching an Accept-Language
// header, the default locale when nothing matches
func (r *Router) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return r.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.defaultLocale
	}
	_, index, confidence := r.matcher.Match(tags...)
	if confidence == language.No {
		return r.defaultLocale
	}
	return r.locales[index]
}

// Middleware redirects page requests without a locale prefix. /admin is
// short-circuited before routing. The redirect target honours
// Accept-Language and keeps the query string.
func (r *Router) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if hasSegmentPrefix(req.URL.Path, "/admin") {
			next.ServeHTTP(w, req)
			return
		}

		d := r.route(req.URL.Path, r.Negotiate(req.Header.Get("Accept-Language")))
		if !d.Redirect {
			next.ServeHTTP(w, req)
			return
		}

		target := d.Target
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		http.Redirect(w, req, target, http.StatusTemporaryRedirect)
	})
}

// hasSegmentPrefix reports whether path is prefix or lies below it
func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
