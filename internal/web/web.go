// Package web serves the localized public pages of the site.
package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/locale"
)

//go:embed templates/*.html
var bundledTemplates embed.FS

//go:embed static
var bundledStatic embed.FS

// Options configures the page handler
type Options struct {
	SiteName string
	// BaseURL is the absolute origin used in the sitemap
	BaseURL string
	// TemplatesDir overrides the bundled templates when set
	TemplatesDir string
	// DevMode reloads TemplatesDir on change
	DevMode bool
	Logger  *slog.Logger
}

// Handler renders the public pages
type Handler struct {
	content *content.Services
	locales *locale.Router
	catalog *locale.Catalog
	render  *Renderer
	opts    Options
	logger  *slog.Logger
	cancel  context.CancelFunc
}

// New parses the templates and, in dev mode, starts watching them
func New(svcs *content.Services, router *locale.Router, catalog *locale.Catalog, opts Options) (*Handler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SiteName == "" {
		opts.SiteName = "Company"
	}

	var fsys fs.FS
	if opts.TemplatesDir != "" {
		fsys = os.DirFS(opts.TemplatesDir)
	} else {
		sub, err := fs.Sub(bundledTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	render, err := NewRenderer(fsys, catalog)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		content: svcs,
		locales: router,
		catalog: catalog,
		render:  render,
		opts:    opts,
		logger:  opts.Logger,
	}

	if opts.DevMode && opts.TemplatesDir != "" {
		ctx, cancel := context.WithCancel(context.Background())
		if err := render.Watch(ctx, opts.TemplatesDir); err != nil {
			cancel()
			return nil, err
		}
		h.cancel = cancel
		h.logger.Info("watching templates for changes", "dir", opts.TemplatesDir)
	}

	return h, nil
}

// Close stops the template watcher
func (h *Handler) Close() error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// Routes returns the page router. Everything except the sitemap, robots.txt
// and static assets passes through the locale middleware.
func (h *Handler) Routes() http.Handler {
	pages := chi.NewRouter()
	pages.NotFound(h.handleNotFound)

	static, err := fs.Sub(bundledStatic, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets: %v", err))
	}
	pages.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(static))))

	pages.Route("/{locale}", func(r chi.Router) {
		r.Use(h.requireLocale)

		r.Get("/", h.handleHome)
		r.Get("/search", h.handleSearch)
		r.Get("/services", h.handleServices)
		r.Get("/services/{slug}", h.handleService)
		r.Get("/blog", h.handleBlog)
		r.Get("/blog/{slug}", h.handlePost)
		r.Get("/portfolio", h.handlePortfolio)
		r.Get("/careers", h.handleCareers)
		r.Get("/careers/jobs", h.handleJobs)
		r.Get("/careers/{slug}", h.handleCareer)
		r.Get("/contact", h.handleContactForm)
		r.Post("/contact", h.handleContactSubmit)
	})

	r := chi.NewRouter()
	r.Get("/sitemap.xml", h.handleSitemap)
	r.Get("/robots.txt", h.handleRobots)
	r.Mount("/", h.locales.Middleware(pages))
	return r
}

// requireLocale answers unsupported locale segments with the 404 page
func (h *Handler) requireLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.locales.Supported(chi.URLParam(r, "locale")) {
			h.handleNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
