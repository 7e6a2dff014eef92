package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/company-site/internal/admin"
	"github.com/terra-clan/company-site/internal/auth"
	"github.com/terra-clan/company-site/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		respondError(w, http.StatusServiceUnavailable, "auth_disabled", "admin authentication is not configured")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "email and password are required")
		return
	}

	token, expires, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("failed admin login", "email", req.Email, "remote_addr", r.RemoteAddr)
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		slog.Error("admin login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    claims.AdminID(),
		"email": claims.Email,
		"name":  claims.Name,
	})
}

// mountResource registers list/create/get/update/delete for one content
// type
func mountResource[T any, P admin.Editable[T]](r chi.Router, res *admin.Resource[T, P]) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		items, err := res.List(r.Context())
		if err != nil {
			respondAdminError(w, err)
			return
		}
		respondList(w, items)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		item := new(T)
		if !decodeJSON(w, r, item) {
			return
		}
		if err := res.Create(r.Context(), item); err != nil {
			respondAdminError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, item)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, err := res.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondAdminError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, item)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		item := new(T)
		if !decodeJSON(w, r, item) {
			return
		}
		if err := res.Update(r.Context(), chi.URLParam(r, "id"), item); err != nil {
			respondAdminError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, item)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := res.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondAdminError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": res.Kind() + " deleted",
		})
	})
}

func (s *Server) handleAdminGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.admin.Settings(r.Context())
	if err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleAdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	settings, err := s.admin.UpdateSettings(r.Context(), patch)
	if err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleAdminListContacts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	contacts, err := s.admin.Contacts(r.Context(), limit, offset)
	if err != nil {
		respondAdminError(w, err)
		return
	}
	respondList(w, contacts)
}
