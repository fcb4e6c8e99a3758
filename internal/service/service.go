// Package service contains the tracking engine's business logic:
// session recording, statistics aggregation, and achievement evaluation.
package service

import (
	"context"

	"github.com/earmarkapp/earmark-server/internal/domain"
	"github.com/earmarkapp/earmark-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// EngagementStore is the persistence surface the listening service needs:
// the append-only session log plus the keyed progress/rating/favorite
// records with per-key atomic upserts. *store.Store implements it; the
// interface is the seam for swapping the storage engine without touching
// the evaluation logic.
type EngagementStore interface {
	AppendSession(ctx context.Context, session *domain.ListeningSession) error
	UpsertProgress(ctx context.Context, userID, episodeID string, position float64, completed bool) (*domain.Progress, error)
	GetProgress(ctx context.Context, userID, episodeID string) (*domain.Progress, error)
	ListProgressForUser(ctx context.Context, userID string) ([]*domain.Progress, error)
	UpsertRating(ctx context.Context, rating *domain.Rating) error
	GetRating(ctx context.Context, userID, episodeID string) (*domain.Rating, error)
	SetFavorite(ctx context.Context, userID, episodeID string, favorite bool) (bool, error)
	IsFavorite(ctx context.Context, userID, episodeID string) (bool, error)
}

// EpisodeDirectory resolves episode IDs against the external catalog.
type EpisodeDirectory interface {
	GetEpisodeRef(ctx context.Context, episodeID string) (*domain.EpisodeRef, error)
}

// StatsStore is the read surface for aggregation: the session log and
// the derived-state stores it cross-references.
type StatsStore interface {
	GetSessionsForUser(ctx context.Context, userID string) ([]*domain.ListeningSession, error)
	ListProgressForUser(ctx context.Context, userID string) ([]*domain.Progress, error)
	CountFavoritesForUser(ctx context.Context, userID string) (int, error)
}

// UnlockStore persists achievement unlocks with insert-if-absent
// semantics keyed by (userID, achievementID).
type UnlockStore interface {
	GetUnlocksForUser(ctx context.Context, userID string) (map[string]*domain.AchievementUnlock, error)
	InsertUnlockIfAbsent(ctx context.Context, unlock *domain.AchievementUnlock) (*domain.AchievementUnlock, bool, error)
}
