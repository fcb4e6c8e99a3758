package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

const favoritePrefix = "fav:"

// SetFavorite adds or removes set membership for a user+episode pair.
// Returns the resulting membership state. Adding an existing favorite or
// removing a missing one is a no-op, not an error.
func (s *Store) SetFavorite(ctx context.Context, userID, episodeID string, favorite bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(favoritePrefix + domain.ProgressID(userID, episodeID))

	err := s.db.Update(func(txn *badger.Txn) error {
		if !favorite {
			return txn.Delete(key)
		}

		// Keep the original AddedAt if the row already exists.
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(domain.NewFavorite(userID, episodeID))
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})

	if err != nil {
		return false, err
	}
	return favorite, nil
}

// IsFavorite reports set membership for a user+episode pair.
func (s *Store) IsFavorite(ctx context.Context, userID, episodeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(favoritePrefix + domain.ProgressID(userID, episodeID))

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListFavoritesForUser retrieves all favorites for a user.
func (s *Store) ListFavoritesForUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return scanPrefix[domain.Favorite](s, favoritePrefix+userID+":")
}

// CountFavoritesForUser returns the size of a user's favorite set.
func (s *Store) CountFavoritesForUser(ctx context.Context, userID string) (int, error) {
	favorites, err := s.ListFavoritesForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(favorites), nil
}
