package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/models"
)

const latestPosts = 3

// page is the data every template receives
type page struct {
	Locale   string
	Locales  []string
	Path     string
	SiteName string
	Site     models.SiteSettings
	Banner   []content.Announcement
	Data     any
}

type homeData struct {
	Hero     []models.HeroImage
	Services []content.ServiceView
	Posts    []models.Post
}

type searchData struct {
	Query  string
	Groups []content.ResultGroup
}

type careersData struct {
	Type    models.CareerType
	Careers []models.Career
}

type contactData struct {
	Form   content.ContactForm
	Errors map[string]string
	Sent   bool
	Failed bool
}

func (h *Handler) newPage(r *http.Request, data any) page {
	loc := chi.URLParam(r, "locale")
	if !h.locales.Supported(loc) {
		loc, _, _ = h.locales.Split(r.URL.Path)
		if loc == "" {
			loc = h.locales.Default()
		}
	}
	_, rest, _ := h.locales.Split(r.URL.Path)

	ctx := r.Context()
	return page{
		Locale:   loc,
		Locales:  h.locales.Locales(),
		Path:     rest,
		SiteName: h.opts.SiteName,
		Site:     h.content.Catalog.Settings(ctx),
		Banner:   h.content.Feed.Active(ctx),
		Data:     data,
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.render.Render(w, name, h.newPage(r, data)); err != nil {
		h.logger.Error("failed to render page", "page", name, "path", r.URL.Path, "error", err)
	}
}

// renderResolved renders a detail page, the 404 page for unknown keys and
// the unavailable page when the store cannot be reached
func (h *Handler) renderResolved(w http.ResponseWriter, r *http.Request, name string, data any, err error) {
	switch {
	case err == nil:
		h.renderPage(w, r, http.StatusOK, name, data)
	case errors.Is(err, content.ErrNotFound), errors.Is(err, content.ErrEmptyKey):
		h.handleNotFound(w, r)
	case content.IsStoreError(err):
		h.logger.Error("content store unavailable", "path", r.URL.Path, "error", err)
		h.renderPage(w, r, http.StatusServiceUnavailable, "unavailable", nil)
	default:
		h.logger.Error("failed to resolve page content", "path", r.URL.Path, "error", err)
		h.renderPage(w, r, http.StatusInternalServerError, "unavailable", nil)
	}
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusNotFound, "notfound", nil)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	posts := h.content.Catalog.Blog(ctx)
	if len(posts) > latestPosts {
		posts = posts[:latestPosts]
	}
	h.renderPage(w, r, http.StatusOK, "home", homeData{
		Hero:     h.content.Catalog.HeroImages(ctx),
		Services: h.content.Catalog.Services(ctx),
		Posts:    posts,
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	h.renderPage(w, r, http.StatusOK, "search", searchData{
		Query:  q,
		Groups: h.content.Search.Search(r.Context(), q),
	})
}

func (h *Handler) handleServices(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "services", h.content.Catalog.Services(r.Context()))
}

func (h *Handler) handleService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.content.Resolver.Service(r.Context(), chi.URLParam(r, "slug"))
	h.renderResolved(w, r, "service", svc, err)
}

func (h *Handler) handleBlog(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "blog", h.content.Catalog.Blog(r.Context()))
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.Resolver.Post(r.Context(), chi.URLParam(r, "slug"))
	h.renderResolved(w, r, "post", post, err)
}

func (h *Handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "portfolio", h.content.Catalog.Portfolio(r.Context()))
}

func (h *Handler) handleCareers(w http.ResponseWriter, r *http.Request) {
	typ := models.CareerType(r.URL.Query().Get("type"))
	if !typ.Valid() {
		typ = ""
	}
	h.renderPage(w, r, http.StatusOK, "careers", careersData{
		Type:    typ,
		Careers: h.content.Catalog.Careers(r.Context(), typ),
	})
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "careers", careersData{
		Type:    models.CareerJob,
		Careers: h.content.Catalog.Careers(r.Context(), models.CareerJob),
	})
}

func (h *Handler) handleCareer(w http.ResponseWriter, r *http.Request) {
	career, err := h.content.Resolver.Career(r.Context(), chi.URLParam(r, "slug"))
	h.renderResolved(w, r, "career", career, err)
}

func (h *Handler) handleContactForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "contact", contactData{
		Sent: r.URL.Query().Get("sent") == "1",
	})
}

func (h *Handler) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, http.StatusBadRequest, "contact", contactData{Failed: true})
		return
	}

	form := content.ContactForm{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Message: r.PostForm.Get("message"),
	}

	if _, err := h.content.Contact.Submit(r.Context(), form); err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			h.renderPage(w, r, http.StatusUnprocessableEntity, "contact", contactData{Form: form, Errors: verr.Fields})
			return
		}
		h.logger.Error("failed to submit contact form", "error", err)
		h.renderPage(w, r, http.StatusServiceUnavailable, "contact", contactData{Form: form, Failed: true})
		return
	}

	http.Redirect(w, r, localizedPath(chi.URLParam(r, "locale"), "/contact?sent=1"), http.StatusSeeOther)
}
