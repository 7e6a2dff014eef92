package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/company-site/internal/content"
	"github.com/terra-clan/company-site/internal/health"
	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type listResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondAPIError(w, status, &apiError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error:   apiErr,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

func respondList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items)})
}

// respondValidation writes field errors with 422
func respondValidation(w http.ResponseWriter, verr *models.ValidationError) {
	respondAPIError(w, http.StatusUnprocessableEntity, &apiError{
		Code:    "validation_error",
		Message: "some fields are invalid",
		Fields:  verr.Fields,
	})
}

// respondContentError maps public read errors. Store failures never read
// as not found.
func respondContentError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.Is(err, content.ErrEmptyKey):
		respondError(w, http.StatusBadRequest, "validation_error", what+" key is required")
	case errors.Is(err, content.ErrConflict):
		slog.Error("ambiguous content key", "what", what, "error", err)
		respondError(w, http.StatusConflict, "conflict", "more than one "+what+" matches")
	case content.IsStoreError(err):
		slog.Error("content store unavailable", "what", what, "error", err)
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "content is temporarily unavailable")
	default:
		slog.Error("failed to resolve content", "what", what, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load "+what)
	}
}

// respondAdminError maps admin write errors. Operators see the raw failure.
func respondAdminError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(w, verr)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, storage.ErrConflict):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := s.health.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	for name, err := range results {
		if err != nil {
			slog.Warn("dependency not ready", "dependency", name, "error", err)
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	if !health.Healthy(results) {
		respondAPIError(w, http.StatusServiceUnavailable, &apiError{
			Code:    "not_ready",
			Message: "service not ready",
			Fields:  checks,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
