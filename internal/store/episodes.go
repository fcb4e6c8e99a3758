package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

const episodePrefix = "episode:"

// The episode catalog is owned by an external service; this store keeps
// a synced mirror of the reference fields the engine needs (series id,
// duration ceiling). PutEpisodeRef is the sync write path.

// PutEpisodeRef stores or replaces an episode reference.
func (s *Store) PutEpisodeRef(ctx context.Context, ref *domain.EpisodeRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.set([]byte(episodePrefix+ref.ID), ref)
}

// GetEpisodeRef resolves an episode ID to its reference fields.
// Returns ErrEpisodeNotFound when the catalog has no such episode.
func (s *Store) GetEpisodeRef(ctx context.Context, episodeID string) (*domain.EpisodeRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ref domain.EpisodeRef
	err := s.get([]byte(episodePrefix+episodeID), &ref)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrEpisodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// ListEpisodeRefs returns every synced episode reference.
func (s *Store) ListEpisodeRefs(ctx context.Context) ([]*domain.EpisodeRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return scanPrefix[domain.EpisodeRef](s, episodePrefix)
}
