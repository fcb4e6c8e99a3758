package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/earmarkapp/earmark-server/internal/http/response"
	"github.com/earmarkapp/earmark-server/internal/service"
)

// handleRecordSession handles POST /api/v1/sessions.
func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.RecordSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.listeningService.RecordSession(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleCompleteEpisode handles POST /api/v1/episodes/{id}/complete.
func (s *Server) handleCompleteEpisode(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	episodeID := chi.URLParam(r, "id")

	var req service.CompleteEpisodeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.listeningService.CompleteEpisode(r.Context(), identity.UserID, episodeID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleGetProgress handles GET /api/v1/episodes/{id}/progress.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	episodeID := chi.URLParam(r, "id")

	progress, err := s.listeningService.GetProgress(r.Context(), identity.UserID, episodeID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, progress, s.logger)
}

// handleSaveProgress handles POST /api/v1/episodes/{id}/progress.
func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	episodeID := chi.URLParam(r, "id")

	var req service.SaveProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	progress, err := s.listeningService.SaveProgress(r.Context(), identity.UserID, episodeID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, progress, s.logger)
}

// handleListMyProgress handles GET /api/v1/me/progress.
func (s *Server) handleListMyProgress(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	items, err := s.listeningService.ListProgress(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"progress": items}, s.logger)
}

type rateEpisodeRequest struct {
	Rating int `json:"rating"`
}

// handleRateEpisode handles POST /api/v1/episodes/{id}/rating.
func (s *Server) handleRateEpisode(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	episodeID := chi.URLParam(r, "id")

	var req rateEpisodeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	rating, err := s.listeningService.RateEpisode(r.Context(), identity.UserID, episodeID, req.Rating)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, rating, s.logger)
}

// handleGetRating handles GET /api/v1/episodes/{id}/rating.
func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	episodeID := chi.URLParam(r, "id")

	rating, err := s.listeningService.GetRating(r.Context(), identity.UserID, episodeID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, rating, s.logger)
}

type favoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// handleAddFavorite handles POST /api/v1/episodes/{id}/favorite.
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, true)
}

// handleRemoveFavorite handles DELETE /api/v1/episodes/{id}/favorite.
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, false)
}

func (s *Server) setFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	identity := identityFrom(r.Context())
	episodeID := chi.URLParam(r, "id")

	isFavorite, err := s.listeningService.SetFavorite(r.Context(), identity.UserID, episodeID, favorite)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, favoriteResponse{IsFavorite: isFavorite}, s.logger)
}
