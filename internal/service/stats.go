package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

// StatsService computes derived per-user listening statistics.
// Every call is a full recompute over the session log and the derived
// stores - there is no stored cache to invalidate or drift.
type StatsService struct {
	store  StatsStore
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store StatsStore, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// dayKeyFormat is the calendar-day bucket key layout.
const dayKeyFormat = "2006-01-02"

// ComputeStats returns the aggregated statistics for a user.
func (s *StatsService) ComputeStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	stats, _, err := s.ComputeStatsAndFacts(ctx, userID)
	return stats, err
}

// ComputeStatsAndFacts aggregates the session log once, producing both
// the user-facing statistics and the raw-session facts the achievement
// evaluator needs.
func (s *StatsService) ComputeStatsAndFacts(ctx context.Context, userID string) (*domain.UserStats, *domain.SessionFacts, error) {
	sessions, err := s.store.GetSessionsForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	progress, err := s.store.ListProgressForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	favoritesCount, err := s.store.CountFavoritesForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	stats := &domain.UserStats{
		SessionCount:   len(sessions),
		FavoritesCount: favoritesCount,
	}
	facts := &domain.SessionFacts{}

	for _, p := range progress {
		switch p.Bucket() {
		case domain.BucketCompleted:
			stats.CompletedCount++
		case domain.BucketInProgress:
			stats.InProgressCount++
		}
	}

	// One pass over the session log. Days with only zero-duration
	// sessions still count as active days; they just add no time.
	activeDays := make(map[string]bool)
	speedCounts := make(map[float64]int)
	completedPerDay := make(map[string]map[string]bool) // day -> episodeID -> true
	var hourCounts [24]int
	var completionSum float64

	for _, session := range sessions {
		stats.TotalListeningSeconds += session.DurationSeconds
		completionSum += session.CompletionRate

		day := session.DayKey()
		activeDays[day] = true
		speedCounts[session.PlaybackSpeed]++
		hourCounts[session.StartHour()]++

		if session.HighSpeed() {
			facts.HighSpeedSeconds += session.DurationSeconds
		}
		if session.PerfectCompletion() {
			facts.PerfectCompletions++
		}
		if session.MarkedComplete {
			if completedPerDay[day] == nil {
				completedPerDay[day] = make(map[string]bool)
			}
			completedPerDay[day][session.EpisodeID] = true
		}
		if domain.InNightWindow(session.StartHour()) {
			facts.NightSessions++
		}
		if domain.InEarlyWindow(session.StartHour()) {
			facts.EarlyBirdSessions++
		}
	}

	stats.ActiveDays = len(activeDays)
	if stats.ActiveDays > 0 {
		stats.AverageDailyListeningSeconds = stats.TotalListeningSeconds / stats.ActiveDays
	}
	if stats.SessionCount > 0 {
		stats.AverageSessionSeconds = stats.TotalListeningSeconds / stats.SessionCount
		stats.AverageCompletionRate = completionSum / float64(stats.SessionCount)
	}

	stats.PreferredSpeed = modalSpeed(speedCounts)
	stats.CurrentStreakDays, stats.LongestStreakDays = calculateStreaks(activeDays, time.Now())
	stats.HourlyActivity = normalizeHourly(hourCounts)

	for _, episodes := range completedPerDay {
		if len(episodes) > facts.MaxDailyCompleted {
			facts.MaxDailyCompleted = len(episodes)
		}
	}

	s.logger.Debug("computed user stats",
		"user_id", userID,
		"session_count", stats.SessionCount,
		"total_seconds", stats.TotalListeningSeconds,
		"current_streak_days", stats.CurrentStreakDays,
	)

	return stats, facts, nil
}

// modalSpeed returns the most frequent playback speed, breaking ties
// toward the higher speed. Zero when no sessions exist.
func modalSpeed(counts map[float64]int) float64 {
	var best float64
	var bestCount int
	for speed, count := range counts {
		if count > bestCount || (count == bestCount && speed > best) {
			best = speed
			bestCount = count
		}
	}
	return best
}

// calculateStreaks computes the current and longest runs of consecutive
// active calendar days. The current streak must end today or yesterday;
// any gap day breaks it.
func calculateStreaks(activeDays map[string]bool, now time.Time) (current, longest int) {
	if len(activeDays) == 0 {
		return 0, 0
	}

	days := make([]string, 0, len(activeDays))
	for d := range activeDays {
		days = append(days, d)
	}
	slices.Sort(days)

	// Longest run over the sorted day list.
	longest = 1
	run := 1
	for i := 1; i < len(days); i++ {
		curr, _ := time.Parse(dayKeyFormat, days[i])
		prev, _ := time.Parse(dayKeyFormat, days[i-1])
		if prev.AddDate(0, 0, 1).Equal(curr) {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}

	// Current streak: count backwards from the most recent active day,
	// which must be today or yesterday.
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	todayKey := today.Format(dayKeyFormat)
	yesterdayKey := today.AddDate(0, 0, -1).Format(dayKeyFormat)

	last := days[len(days)-1]
	if last != todayKey && last != yesterdayKey {
		return 0, longest
	}

	current = 1
	check, _ := time.Parse(dayKeyFormat, last)
	for {
		check = check.AddDate(0, 0, -1)
		if !activeDays[check.Format(dayKeyFormat)] {
			break
		}
		current++
	}

	return current, longest
}

// normalizeHourly scales the start-hour histogram 0-100 against the
// busiest hour.
func normalizeHourly(counts [24]int) [24]int {
	var maxCount int
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return [24]int{}
	}

	var normalized [24]int
	for hour, c := range counts {
		normalized[hour] = c * 100 / maxCount
	}
	return normalized
}
