package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/company-site/internal/admin"
	"github.com/terra-clan/company-site/internal/auth"
	"github.com/terra-clan/company-site/internal/config"
	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/health"
)

// Deps are the components the HTTP server serves
type Deps struct {
	Content *content.Services
	Admin   *admin.Service
	Auth    *auth.Authenticator
	Health  *health.Registry
	Hub     *Hub
	// Pages serves everything outside the API, may be nil
	Pages http.Handler
}

// Server represents the HTTP server
type Server struct {
	config  config.ServerConfig
	router  *chi.Mux
	content *content.Services
	admin   *admin.Service
	auth    *auth.Authenticator
	health  *health.Registry
	hub     *Hub
	pages   http.Handler
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		config:  cfg,
		content: deps.Content,
		admin:   deps.Admin,
		auth:    deps.Auth,
		health:  deps.Health,
		hub:     deps.Hub,
		pages:   deps.Pages,
	}
	if s.health == nil {
		s.health = health.NewRegistry()
	}
	if s.hub == nil {
		s.hub = NewHub()
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Long-lived, outside the request timeout
	r.Get("/api/v1/announcements/live", s.handleAnnouncementsLive)

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// Health check (outside versioned API - public)
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/search", s.handleSearch)
			r.Get("/announcements", s.handleAnnouncements)
			r.Get("/services", s.handleListServices)
			r.Get("/services/{slug}", s.handleGetService)
			r.Get("/posts", s.handleListPosts)
			r.Get("/posts/{slug}", s.handleGetPost)
			r.Get("/careers", s.handleListCareers)
			r.Get("/careers/{slug}", s.handleGetCareer)
			r.Get("/portfolio", s.handleListPortfolio)
			r.Get("/hero", s.handleListHero)
			r.Get("/settings", s.handleGetSettings)
			r.Post("/contact", s.handleContact)

			if s.admin == nil {
				return
			}
			r.Route("/admin", func(r chi.Router) {
				r.Post("/login", s.handleLogin)

				r.Group(func(r chi.Router) {
					r.Use(s.requireAdmin)

					r.Get("/me", s.handleMe)
					r.Route("/services", func(r chi.Router) { mountResource(r, s.admin.Services) })
					r.Route("/posts", func(r chi.Router) { mountResource(r, s.admin.Posts) })
					r.Route("/projects", func(r chi.Router) { mountResource(r, s.admin.Projects) })
					r.Route("/careers", func(r chi.Router) { mountResource(r, s.admin.Careers) })
					r.Route("/hero", func(r chi.Router) { mountResource(r, s.admin.HeroImages) })
					r.Get("/settings", s.handleAdminGetSettings)
					r.Put("/settings", s.handleAdminUpdateSettings)
					r.Get("/contacts", s.handleAdminListContacts)
				})
			})
		})

		if s.pages != nil {
			r.Mount("/", s.pages)
		}
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
