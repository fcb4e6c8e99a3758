package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

const (
	sessionPrefix       = "ses:"
	sessionByUserPrefix = "ses:idx:user:"
)

// AppendSession stores a session and its user index atomically.
// Sessions are immutable - no Update method exists.
func (s *Store) AppendSession(ctx context.Context, session *domain.ListeningSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Primary key
		if err := txn.Set([]byte(sessionPrefix+session.ID), data); err != nil {
			return fmt.Errorf("set session: %w", err)
		}

		// Index: by user
		userIdx := sessionByUserPrefix + session.UserID + ":" + session.ID
		if err := txn.Set([]byte(userIdx), []byte(session.ID)); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}

		return nil
	})
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.ListeningSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var session domain.ListeningSession
	err := s.get([]byte(sessionPrefix+id), &session)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionsForUser retrieves the full session log for a user.
// This is the sole input to aggregation - no separate counters exist.
func (s *Store) GetSessionsForUser(ctx context.Context, userID string) ([]*domain.ListeningSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := sessionByUserPrefix + userID + ":"
	var sessions []*domain.ListeningSession

	err := s.db.View(func(txn *badger.Txn) error {
		// First pass: collect session IDs from index
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		var sessionIDs []string
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				sessionIDs = append(sessionIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		// Second pass: batch fetch all sessions in same transaction
		sessions = make([]*domain.ListeningSession, 0, len(sessionIDs))
		for _, id := range sessionIDs {
			item, err := txn.Get([]byte(sessionPrefix + id))
			if err != nil {
				continue // Skip missing sessions
			}

			var session domain.ListeningSession
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			}); err != nil {
				continue // Skip corrupt sessions
			}
			sessions = append(sessions, &session)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sessions, nil
}
