package domain

import "time"

// Rating is a user's 1-5 score for an episode. Upsert semantics: rating
// the same episode again replaces the value and timestamp.
type Rating struct {
	UserID    string    `json:"user_id"`
	EpisodeID string    `json:"episode_id"`
	Value     int       `json:"value"`
	RatedAt   time.Time `json:"rated_at"`
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether a rating value is in the accepted 1-5 range.
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// NewRating creates a rating stamped now.
func NewRating(userID, episodeID string, value int) *Rating {
	return &Rating{
		UserID:    userID,
		EpisodeID: episodeID,
		Value:     value,
		RatedAt:   time.Now(),
	}
}

// Favorite is presence-only set membership: the row exists or it doesn't.
type Favorite struct {
	UserID    string    `json:"user_id"`
	EpisodeID string    `json:"episode_id"`
	AddedAt   time.Time `json:"added_at"`
}

// NewFavorite creates a favorite stamped now.
func NewFavorite(userID, episodeID string) *Favorite {
	return &Favorite{
		UserID:    userID,
		EpisodeID: episodeID,
		AddedAt:   time.Now(),
	}
}
