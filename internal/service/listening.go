package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/earmarkapp/earmark-server/internal/domain"
	domainerrors "github.com/earmarkapp/earmark-server/internal/errors"
	"github.com/earmarkapp/earmark-server/internal/id"
)

// ListeningService records sessions and maintains per-episode engagement
// state (progress, ratings, favorites).
type ListeningService struct {
	store    EngagementStore
	episodes EpisodeDirectory
	logger   *slog.Logger
}

// NewListeningService creates a new listening service.
func NewListeningService(store EngagementStore, episodes EpisodeDirectory, logger *slog.Logger) *ListeningService {
	return &ListeningService{
		store:    store,
		episodes: episodes,
		logger:   logger,
	}
}

// RecordSessionRequest contains the data for recording a listening session.
type RecordSessionRequest struct {
	EpisodeID       string     `json:"episode_id" validate:"required"`
	StartedAt       time.Time  `json:"started_at" validate:"required"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	PlaybackSpeed   float64    `json:"playback_speed" validate:"required,gt=0,lte=4"`
	CompletionRate  float64    `json:"completion_rate" validate:"gte=0,lte=1"`
	DurationSeconds int        `json:"duration_seconds" validate:"gte=0"`
}

// RecordSessionResponse contains the created session and updated progress.
type RecordSessionResponse struct {
	Session  *domain.ListeningSession `json:"session"`
	Progress *domain.Progress         `json:"progress"`
}

// RecordSession validates and appends one listening session, then updates
// the progress row. Validation happens before any write - an invalid
// request persists nothing.
func (s *ListeningService) RecordSession(ctx context.Context, userID string, req RecordSessionRequest) (*RecordSessionResponse, error) {
	return s.record(ctx, userID, req, false)
}

// CompleteEpisodeRequest is the explicit episode-complete signal.
type CompleteEpisodeRequest struct {
	CompletionRate float64 `json:"completion_rate" validate:"gte=0,lte=1"`
	PlaybackSpeed  float64 `json:"playback_speed" validate:"required,gt=0,lte=4"`
}

// CompleteEpisode records a completion session regardless of the reported
// completion rate. The derived completion flag on the session is the
// single source of truth downstream; the explicit signal and the
// rate-reached-1.0 inference never need reconciling after this point.
func (s *ListeningService) CompleteEpisode(ctx context.Context, userID, episodeID string, req CompleteEpisodeRequest) (*RecordSessionResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.record(ctx, userID, RecordSessionRequest{
		EpisodeID:       episodeID,
		StartedAt:       now,
		EndedAt:         &now,
		PlaybackSpeed:   req.PlaybackSpeed,
		CompletionRate:  req.CompletionRate,
		DurationSeconds: 0,
	}, true)
}

// record is the shared append path for both entry points.
func (s *ListeningService) record(ctx context.Context, userID string, req RecordSessionRequest, explicitComplete bool) (*RecordSessionResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.EndedAt != nil && req.EndedAt.Before(req.StartedAt) {
		return nil, domainerrors.InvalidSessionData("ended_at must not precede started_at")
	}

	// Resolve the episode before writing anything.
	episode, err := s.episodes.GetEpisodeRef(ctx, req.EpisodeID)
	if err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("ses")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	session := domain.NewListeningSession(
		sessionID,
		userID,
		episode.ID,
		episode.SeriesID,
		req.StartedAt,
		req.EndedAt,
		req.PlaybackSpeed,
		req.CompletionRate,
		req.DurationSeconds,
		explicitComplete,
	)

	if err := s.store.AppendSession(ctx, session); err != nil {
		return nil, fmt.Errorf("append session: %w", err)
	}

	// A completed session resets the position to the start - playback
	// conceptually restarts - and stamps last-played. An in-flight
	// session just advances the position.
	var progress *domain.Progress
	if session.MarkedComplete {
		progress, err = s.store.UpsertProgress(ctx, userID, episode.ID, 0, true)
	} else {
		position := req.CompletionRate * float64(episode.DurationSeconds)
		progress, err = s.store.UpsertProgress(ctx, userID, episode.ID, position, false)
	}
	if err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	s.logger.Debug("recorded listening session",
		"session_id", session.ID,
		"user_id", userID,
		"episode_id", episode.ID,
		"duration_seconds", session.DurationSeconds,
		"marked_complete", session.MarkedComplete,
	)

	return &RecordSessionResponse{
		Session:  session,
		Progress: progress,
	}, nil
}

// SaveProgressRequest is a direct progress write from the client.
type SaveProgressRequest struct {
	Position  float64 `json:"position" validate:"gte=0"`
	Completed bool    `json:"completed"`
}

// SaveProgress upserts the progress row for an episode. Completion is
// monotonic: writing completed=false against a finished episode keeps
// it finished.
func (s *ListeningService) SaveProgress(ctx context.Context, userID, episodeID string, req SaveProgressRequest) (*domain.Progress, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.episodes.GetEpisodeRef(ctx, episodeID); err != nil {
		return nil, err
	}

	return s.store.UpsertProgress(ctx, userID, episodeID, req.Position, req.Completed)
}

// GetProgress retrieves playback progress for a specific episode.
func (s *ListeningService) GetProgress(ctx context.Context, userID, episodeID string) (*domain.Progress, error) {
	return s.store.GetProgress(ctx, userID, episodeID)
}

// ProgressListItem is one row of the bucketed progress listing.
type ProgressListItem struct {
	EpisodeID       string                `json:"episode_id"`
	Bucket          domain.ProgressBucket `json:"bucket"`
	PositionSeconds float64               `json:"position_seconds"`
	LastPlayedAt    time.Time             `json:"last_played_at"`
}

// ListProgress returns all progress rows for a user with their buckets.
// Episodes with no row at all are "new" by definition and not listed.
func (s *ListeningService) ListProgress(ctx context.Context, userID string) ([]ProgressListItem, error) {
	rows, err := s.store.ListProgressForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]ProgressListItem, 0, len(rows))
	for _, p := range rows {
		items = append(items, ProgressListItem{
			EpisodeID:       p.EpisodeID,
			Bucket:          p.Bucket(),
			PositionSeconds: p.PositionSeconds,
			LastPlayedAt:    p.LastPlayedAt,
		})
	}
	return items, nil
}

// RateEpisode upserts a 1-5 rating. Out-of-range values fail without
// touching any previously stored rating.
func (s *ListeningService) RateEpisode(ctx context.Context, userID, episodeID string, value int) (*domain.Rating, error) {
	if !domain.ValidRating(value) {
		return nil, domainerrors.InvalidRating(fmt.Sprintf("rating must be between %d and %d, got %d", domain.MinRating, domain.MaxRating, value))
	}

	if _, err := s.episodes.GetEpisodeRef(ctx, episodeID); err != nil {
		return nil, err
	}

	rating := domain.NewRating(userID, episodeID, value)
	if err := s.store.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// GetRating retrieves a user's rating for an episode.
func (s *ListeningService) GetRating(ctx context.Context, userID, episodeID string) (*domain.Rating, error) {
	return s.store.GetRating(ctx, userID, episodeID)
}

// SetFavorite adds or removes an episode from the user's favorite set
// and returns the resulting membership.
func (s *ListeningService) SetFavorite(ctx context.Context, userID, episodeID string, favorite bool) (bool, error) {
	if _, err := s.episodes.GetEpisodeRef(ctx, episodeID); err != nil {
		return false, err
	}

	return s.store.SetFavorite(ctx, userID, episodeID, favorite)
}
