package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/earmarkapp/earmark-server/internal/http/response"
)

// handleGetUserStats handles GET /api/v1/users/{id}/stats. Stats are
// visible to the owner and to admins only.
func (s *Server) handleGetUserStats(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	userID := chi.URLParam(r, "id")

	if !identity.CanViewStats(userID) {
		response.Forbidden(w, "You cannot view another user's statistics", s.logger)
		return
	}

	stats, err := s.statsService.ComputeStats(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}

// handleGetMyStats handles GET /api/v1/me/stats.
func (s *Server) handleGetMyStats(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	stats, err := s.statsService.ComputeStats(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
