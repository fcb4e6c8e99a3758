package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/earmarkapp/earmark-server/internal/domain"
	"github.com/earmarkapp/earmark-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyIdentity contextKey = "identity"

// requireAuth validates the bearer token and attaches the caller's
// identity to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		identity, err := s.verifier.Verify(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom extracts the authenticated identity from request context.
// The zero Identity means the request never passed requireAuth.
func identityFrom(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(contextKeyIdentity).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}
