package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/earmarkapp/earmark-server/internal/domain"
	domainerrors "github.com/earmarkapp/earmark-server/internal/errors"
)

const progressPrefix = "progress:"

// UpsertProgress creates or updates playback progress for a user+episode.
// The read-modify-write happens inside one transaction, so concurrent
// writers (two tabs, two devices) cannot interleave: position and play
// time are last-write-wins, and a row that is already completed stays
// completed no matter what the incoming write says.
func (s *Store) UpsertProgress(ctx context.Context, userID, episodeID string, position float64, completed bool) (*domain.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !domain.ValidPosition(position) {
		return nil, domainerrors.InvalidProgress(fmt.Sprintf("position must be a finite number >= 0, got %v", position))
	}

	key := []byte(progressPrefix + domain.ProgressID(userID, episodeID))
	var result *domain.Progress

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)

		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			result = domain.NewProgress(userID, episodeID, position, completed)
		case err != nil:
			return err
		default:
			var existing domain.Progress
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return err
			}
			existing.Apply(position, completed)
			result = &existing
		}

		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal progress: %w", err)
		}
		return txn.Set(key, data)
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetProgress retrieves playback progress for a user+episode.
func (s *Store) GetProgress(ctx context.Context, userID, episodeID string) (*domain.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var progress domain.Progress
	err := s.get([]byte(progressPrefix+domain.ProgressID(userID, episodeID)), &progress)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListProgressForUser retrieves all progress rows for a user.
func (s *Store) ListProgressForUser(ctx context.Context, userID string) ([]*domain.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return scanPrefix[domain.Progress](s, progressPrefix+userID+":")
}
