package domain

// UserStats is the full set of derived per-user listening metrics.
// It is recomputed on demand from the session log and the progress,
// rating, and favorite stores - no stored copy is authoritative.
type UserStats struct {
	TotalListeningSeconds int `json:"total_listening_seconds"`
	SessionCount          int `json:"session_count"`

	CompletedCount  int `json:"completed_count"`
	InProgressCount int `json:"in_progress_count"`
	FavoritesCount  int `json:"favorites_count"`

	// AverageDailyListeningSeconds divides total time by the number of
	// distinct calendar days with at least one session.
	AverageDailyListeningSeconds int `json:"average_daily_listening_seconds"`
	AverageSessionSeconds        int `json:"average_session_seconds"`

	// AverageCompletionRate is the mean completion rate across all
	// sessions, 0.0-1.0.
	AverageCompletionRate float64 `json:"average_completion_rate"`

	// PreferredSpeed is the modal playback speed across all sessions,
	// ties broken toward the higher speed. Zero when no sessions exist.
	PreferredSpeed float64 `json:"preferred_speed"`

	CurrentStreakDays int `json:"current_streak_days"`
	LongestStreakDays int `json:"longest_streak_days"`
	ActiveDays        int `json:"active_days"`

	// HourlyActivity is a histogram of session start hours (local),
	// normalized 0-100 against the busiest hour.
	HourlyActivity [24]int `json:"hourly_activity"`
}

// SessionFacts are the raw-session-derived inputs to achievement
// evaluation that UserStats does not carry. Computed in the same pass
// over the session log as the stats themselves.
type SessionFacts struct {
	HighSpeedSeconds   int `json:"high_speed_seconds"`
	PerfectCompletions int `json:"perfect_completions"`

	// MaxDailyCompleted is the maximum, over all calendar days, of
	// distinct episodes completed on that day.
	MaxDailyCompleted int `json:"max_daily_completed"`

	NightSessions     int `json:"night_sessions"`
	EarlyBirdSessions int `json:"early_bird_sessions"`
}

// Time-of-day windows, by local session start hour.
// Night: [00:00, 05:00). Early bird: [05:00, 08:00).
const (
	NightWindowStart = 0
	NightWindowEnd   = 5
	EarlyWindowStart = 5
	EarlyWindowEnd   = 8
)

// InNightWindow reports whether a start hour falls in the night-owl window.
func InNightWindow(hour int) bool {
	return hour >= NightWindowStart && hour < NightWindowEnd
}

// InEarlyWindow reports whether a start hour falls in the early-bird window.
func InEarlyWindow(hour int) bool {
	return hour >= EarlyWindowStart && hour < EarlyWindowEnd
}
