package domain

import (
	"math"
	"time"
)

// ProgressBucket classifies an episode for listing purposes.
type ProgressBucket string

// Progress buckets.
const (
	BucketNew        ProgressBucket = "new"
	BucketInProgress ProgressBucket = "inProgress"
	BucketCompleted  ProgressBucket = "completed"
)

// Progress is the durable playback state for one user+episode pair.
// Position is last-write-wins; Completed is monotonic - once true it
// never reverts, regardless of later partial-progress writes.
type Progress struct {
	UserID    string `json:"user_id"`
	EpisodeID string `json:"episode_id"`

	PositionSeconds float64    `json:"position_seconds"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	LastPlayedAt time.Time `json:"last_played_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProgressID generates the composite key: "userID:episodeID".
func ProgressID(userID, episodeID string) string {
	return userID + ":" + episodeID
}

// NewProgress creates the first progress row for a user+episode.
func NewProgress(userID, episodeID string, position float64, completed bool) *Progress {
	now := time.Now()
	p := &Progress{
		UserID:          userID,
		EpisodeID:       episodeID,
		PositionSeconds: position,
		LastPlayedAt:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if completed {
		p.Completed = true
		p.CompletedAt = &now
	}
	return p
}

// Apply merges a new write into existing progress. Position and play time
// are last-write-wins; the completed flag only transitions false to true.
// A completed=false write against a completed row is a silent no-op on
// the flag, not an error.
func (p *Progress) Apply(position float64, completed bool) {
	now := time.Now()
	p.PositionSeconds = position
	p.LastPlayedAt = now
	p.UpdatedAt = now

	if completed && !p.Completed {
		p.Completed = true
		p.CompletedAt = &now
	}
}

// Bucket returns the listing bucket for this progress row. Rows that do
// not exist at all are BucketNew by definition.
func (p *Progress) Bucket() ProgressBucket {
	switch {
	case p.Completed:
		return BucketCompleted
	case p.PositionSeconds > 0:
		return BucketInProgress
	default:
		return BucketNew
	}
}

// ValidPosition reports whether a position value is storable:
// finite and non-negative.
func ValidPosition(position float64) bool {
	return !math.IsNaN(position) && !math.IsInf(position, 0) && position >= 0
}
