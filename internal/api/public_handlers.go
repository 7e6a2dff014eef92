package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/models"
)

// Public content handlers

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	groups := s.content.Search.Search(r.Context(), query)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":  query,
		"groups": groups,
	})
}

func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	respondList(w, s.content.Feed.Active(r.Context()))
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	respondList(w, s.content.Catalog.Services(r.Context()))
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.content.Resolver.Service(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondContentError(w, err, "service")
		return
	}
	respondJSON(w, http.StatusOK, svc)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	respondList(w, s.content.Catalog.Blog(r.Context()))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.content.Resolver.Post(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondContentError(w, err, "post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (s *Server) handleListCareers(w http.ResponseWriter, r *http.Request) {
	typ := models.CareerType(r.URL.Query().Get("type"))
	if typ != "" && !typ.Valid() {
		respondError(w, http.StatusBadRequest, "validation_error", "type must be job, internship or training")
		return
	}
	respondList(w, s.content.Catalog.Careers(r.Context(), typ))
}

func (s *Server) handleGetCareer(w http.ResponseWriter, r *http.Request) {
	career, err := s.content.Resolver.Career(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondContentError(w, err, "career")
		return
	}
	respondJSON(w, http.StatusOK, career)
}

func (s *Server) handleListPortfolio(w http.ResponseWriter, r *http.Request) {
	respondList(w, s.content.Catalog.Portfolio(r.Context()))
}

func (s *Server) handleListHero(w http.ResponseWriter, r *http.Request) {
	respondList(w, s.content.Catalog.HeroImages(r.Context()))
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.content.Catalog.Settings(r.Context()))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var form content.ContactForm
	if !decodeJSON(w, r, &form) {
		return
	}

	submission, err := s.content.Contact.Submit(r.Context(), form)
	if err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			respondValidation(w, verr)
			return
		}
		respondContentError(w, err, "contact submission")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":      submission.ID,
		"message": "thank you, we will get back to you shortly",
	})
}
