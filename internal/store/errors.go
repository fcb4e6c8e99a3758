package store

import (
	domainerrors "github.com/earmarkapp/earmark-server/internal/errors"
)

// Sentinel errors for store operations. All carry domain error codes so
// the HTTP layer can map them without knowing store internals.
var (
	ErrSessionNotFound  = domainerrors.NotFound("listening session not found")
	ErrProgressNotFound = domainerrors.NotFound("playback progress not found")
	ErrRatingNotFound   = domainerrors.NotFound("rating not found")
	ErrEpisodeNotFound  = domainerrors.NotFound("episode not found")
)
