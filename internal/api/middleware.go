package api

import (
	"log/slog"
	"net/http"
	"strings"
)

// requireAdmin verifies the bearer token on admin routes
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			respondError(w, http.StatusServiceUnavailable, "auth_disabled", "admin authentication is not configured")
			return
		}

		token := extractToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "provide Authorization header with Bearer token")
			return
		}

		claims, err := s.auth.Verify(token)
		if err != nil {
			slog.Warn("invalid admin token", "remote_addr", r.RemoteAddr, "error", err)
			respondError(w, http.StatusUnauthorized, "unauthorized", "the provided token is not valid")
			return
		}

		slog.Debug("authenticated admin request", "admin", claims.Email)

		ctx := ContextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken returns the token from an "Authorization: Bearer" header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
