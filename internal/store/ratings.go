package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/earmarkapp/earmark-server/internal/domain"
	domainerrors "github.com/earmarkapp/earmark-server/internal/errors"
)

const ratingPrefix = "rating:"

// UpsertRating stores a rating, replacing any prior value and timestamp
// for the same user+episode pair. Out-of-range values are rejected before
// any write, leaving the prior rating untouched.
func (s *Store) UpsertRating(ctx context.Context, rating *domain.Rating) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !domain.ValidRating(rating.Value) {
		return domainerrors.InvalidRating("rating must be between 1 and 5")
	}

	key := []byte(ratingPrefix + domain.ProgressID(rating.UserID, rating.EpisodeID))
	return s.set(key, rating)
}

// GetRating retrieves a user's rating for an episode.
func (s *Store) GetRating(ctx context.Context, userID, episodeID string) (*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rating domain.Rating
	err := s.get([]byte(ratingPrefix+domain.ProgressID(userID, episodeID)), &rating)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListRatingsForUser retrieves all ratings a user has given.
func (s *Store) ListRatingsForUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return scanPrefix[domain.Rating](s, ratingPrefix+userID+":")
}
