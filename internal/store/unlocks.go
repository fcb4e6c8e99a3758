package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

const unlockPrefix = "unlock:"

// InsertUnlockIfAbsent persists an achievement unlock exactly once.
// If an unlock already exists for (user, achievement), the stored row is
// returned untouched and created is false - this is the idempotence
// boundary for the evaluator, including under concurrent evaluation
// calls for the same user.
func (s *Store) InsertUnlockIfAbsent(ctx context.Context, unlock *domain.AchievementUnlock) (stored *domain.AchievementUnlock, created bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	key := []byte(unlockPrefix + domain.UnlockID(unlock.UserID, unlock.AchievementID))

	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			// Already unlocked - return the original row, never overwrite.
			var existing domain.AchievementUnlock
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return err
			}
			stored = &existing
			created = false
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(unlock)
		if err != nil {
			return fmt.Errorf("marshal unlock: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		stored = unlock
		created = true
		return nil
	})

	// Two evaluations racing on the same key conflict at commit; the
	// loser re-reads the winner's row.
	if errors.Is(err, badger.ErrConflict) {
		existing, getErr := s.getUnlock(ctx, unlock.UserID, unlock.AchievementID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// getUnlock retrieves a single unlock row.
func (s *Store) getUnlock(ctx context.Context, userID, achievementID string) (*domain.AchievementUnlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var unlock domain.AchievementUnlock
	err := s.get([]byte(unlockPrefix+domain.UnlockID(userID, achievementID)), &unlock)
	if err != nil {
		return nil, err
	}
	return &unlock, nil
}

// GetUnlocksForUser retrieves all persisted unlocks for a user, keyed by
// achievement ID.
func (s *Store) GetUnlocksForUser(ctx context.Context, userID string) (map[string]*domain.AchievementUnlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := scanPrefix[domain.AchievementUnlock](s, unlockPrefix+userID+":")
	if err != nil {
		return nil, err
	}

	unlocks := make(map[string]*domain.AchievementUnlock, len(rows))
	for _, u := range rows {
		unlocks[u.AchievementID] = u
	}
	return unlocks, nil
}
