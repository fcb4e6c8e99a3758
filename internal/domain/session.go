package domain

import "time"

// ListeningSession is the atomic, immutable record of playback activity.
// Sessions are append-only - statistics and achievements derive from them.
type ListeningSession struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	EpisodeID string `json:"episode_id"`
	SeriesID  string `json:"series_id"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	PlaybackSpeed   float64 `json:"playback_speed"`
	CompletionRate  float64 `json:"completion_rate"`
	DurationSeconds int     `json:"duration_seconds"`

	// MarkedComplete is derived exactly once when the session is recorded:
	// an explicit episode-complete signal or a completion rate reaching 1.0.
	// Downstream consumers read only this flag, never the raw inputs.
	MarkedComplete bool `json:"marked_complete"`

	CreatedAt time.Time `json:"created_at"`
}

// NewListeningSession creates a session with its completion flag derived.
func NewListeningSession(
	id, userID, episodeID, seriesID string,
	startedAt time.Time, endedAt *time.Time,
	playbackSpeed, completionRate float64,
	durationSeconds int,
	explicitComplete bool,
) *ListeningSession {
	return &ListeningSession{
		ID:              id,
		UserID:          userID,
		EpisodeID:       episodeID,
		SeriesID:        seriesID,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		PlaybackSpeed:   playbackSpeed,
		CompletionRate:  completionRate,
		DurationSeconds: durationSeconds,
		MarkedComplete:  explicitComplete || completionRate >= 1.0,
		CreatedAt:       time.Now(),
	}
}

// PerfectCompletion reports whether this session finished the episode with
// a completion rate of at least 95%.
func (s *ListeningSession) PerfectCompletion() bool {
	return s.MarkedComplete && s.CompletionRate >= 0.95
}

// HighSpeed reports whether the session was played at 2x or faster.
func (s *ListeningSession) HighSpeed() bool {
	return s.PlaybackSpeed >= 2.0
}

// DayKey returns the session's local calendar day as "2006-01-02".
// Day bucketing trusts the client-asserted start time.
func (s *ListeningSession) DayKey() string {
	return s.StartedAt.Local().Format("2006-01-02")
}

// StartHour returns the local hour of day (0-23) the session started.
func (s *ListeningSession) StartHour() int {
	return s.StartedAt.Local().Hour()
}
