package domain

import "time"

// CatalogVersion identifies the achievement catalog revision. Bump when
// definitions are added so clients can invalidate cached catalog data.
const CatalogVersion = 1

// AchievementCategory groups achievements for display.
type AchievementCategory string

// Achievement categories.
const (
	CategoryEpisodes  AchievementCategory = "episodes"
	CategoryTime      AchievementCategory = "time"
	CategoryFavorites AchievementCategory = "favorites"
	CategorySpeed     AchievementCategory = "speed"
	CategoryStreak    AchievementCategory = "streak"
	CategoryDaily     AchievementCategory = "daily"
	CategoryTimeOfDay AchievementCategory = "time-of-day"
	CategoryPrecision AchievementCategory = "precision"
)

// RequirementType is the closed set of achievement requirement shapes.
// Each variant has exactly one progress formula in ProgressValue; adding
// a variant without extending the switch is a compile-visible gap in
// evaluator tests, not a silent runtime miss.
type RequirementType string

// Requirement types.
const (
	RequirementEpisodeCount       RequirementType = "episode-count"
	RequirementListeningMinutes   RequirementType = "listening-time"
	RequirementFavoriteCount      RequirementType = "favorite-count"
	RequirementHighSpeedSeconds   RequirementType = "high-speed-time"
	RequirementPerfectCompletions RequirementType = "perfect-completions"
	RequirementStreakDays         RequirementType = "streak"
	RequirementDailyEpisodeCount  RequirementType = "daily-episode-count"
	RequirementNightSessions      RequirementType = "night-sessions"
	RequirementEarlyBirdSessions  RequirementType = "early-bird-sessions"
)

// Valid reports whether the requirement type is a recognized variant.
func (t RequirementType) Valid() bool {
	switch t {
	case RequirementEpisodeCount, RequirementListeningMinutes, RequirementFavoriteCount,
		RequirementHighSpeedSeconds, RequirementPerfectCompletions, RequirementStreakDays,
		RequirementDailyEpisodeCount, RequirementNightSessions, RequirementEarlyBirdSessions:
		return true
	default:
		return false
	}
}

// ProgressValue computes the current progress toward this requirement
// from aggregated stats and raw-session facts.
func (t RequirementType) ProgressValue(stats *UserStats, facts *SessionFacts) int {
	switch t {
	case RequirementEpisodeCount:
		return stats.CompletedCount
	case RequirementListeningMinutes:
		return stats.TotalListeningSeconds / 60
	case RequirementFavoriteCount:
		return stats.FavoritesCount
	case RequirementHighSpeedSeconds:
		return facts.HighSpeedSeconds
	case RequirementPerfectCompletions:
		return facts.PerfectCompletions
	case RequirementStreakDays:
		return stats.CurrentStreakDays
	case RequirementDailyEpisodeCount:
		return facts.MaxDailyCompleted
	case RequirementNightSessions:
		return facts.NightSessions
	case RequirementEarlyBirdSessions:
		return facts.EarlyBirdSessions
	default:
		return 0
	}
}

// AchievementDefinition is one immutable catalog entry.
type AchievementDefinition struct {
	ID               string              `json:"id"`
	Category         AchievementCategory `json:"category"`
	Requirement      RequirementType     `json:"requirement_type"`
	RequirementValue int                 `json:"requirement_value"`
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Icon             string              `json:"icon"`
	Points           int                 `json:"points"`
}

// AchievementUnlock is the permanent record that a user earned an
// achievement. Written exactly once, never overwritten or deleted -
// re-evaluation of an unlocked achievement is a no-op.
type AchievementUnlock struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// UnlockID generates the composite key: "userID:achievementID".
func UnlockID(userID, achievementID string) string {
	return userID + ":" + achievementID
}

// AchievementStatus is one catalog entry annotated with a user's current
// progress and unlock state.
type AchievementStatus struct {
	AchievementDefinition
	ProgressValue int        `json:"progress_value"`
	Unlocked      bool       `json:"unlocked"`
	EarnedAt      *time.Time `json:"earned_at,omitempty"`
}

// Gap returns the remaining distance to the requirement. Never negative.
func (s *AchievementStatus) Gap() int {
	gap := s.RequirementValue - s.ProgressValue
	if gap < 0 {
		return 0
	}
	return gap
}

// Catalog is the ordered, immutable achievement table. Order matters:
// it is the tiebreaker for nearest-goal selection.
var Catalog = []AchievementDefinition{
	{ID: "first-episode", Category: CategoryEpisodes, Requirement: RequirementEpisodeCount, RequirementValue: 1,
		Name: "First Listen", Description: "Finish your first episode", Icon: "headphones", Points: 10},
	{ID: "episodes-10", Category: CategoryEpisodes, Requirement: RequirementEpisodeCount, RequirementValue: 10,
		Name: "Getting Hooked", Description: "Finish 10 episodes", Icon: "stack", Points: 25},
	{ID: "episodes-50", Category: CategoryEpisodes, Requirement: RequirementEpisodeCount, RequirementValue: 50,
		Name: "Marathoner", Description: "Finish 50 episodes", Icon: "trophy", Points: 100},
	{ID: "episodes-100", Category: CategoryEpisodes, Requirement: RequirementEpisodeCount, RequirementValue: 100,
		Name: "Century Club", Description: "Finish 100 episodes", Icon: "medal", Points: 250},

	{ID: "time-60", Category: CategoryTime, Requirement: RequirementListeningMinutes, RequirementValue: 60,
		Name: "First Hour", Description: "Listen for a total of one hour", Icon: "clock", Points: 10},
	{ID: "time-600", Category: CategoryTime, Requirement: RequirementListeningMinutes, RequirementValue: 600,
		Name: "Ten Hours In", Description: "Listen for a total of 10 hours", Icon: "hourglass", Points: 50},
	{ID: "time-3000", Category: CategoryTime, Requirement: RequirementListeningMinutes, RequirementValue: 3000,
		Name: "Fifty Hours", Description: "Listen for a total of 50 hours", Icon: "infinity", Points: 150},

	{ID: "favorites-5", Category: CategoryFavorites, Requirement: RequirementFavoriteCount, RequirementValue: 5,
		Name: "Curator", Description: "Favorite 5 episodes", Icon: "heart", Points: 15},
	{ID: "favorites-25", Category: CategoryFavorites, Requirement: RequirementFavoriteCount, RequirementValue: 25,
		Name: "Collector", Description: "Favorite 25 episodes", Icon: "bookmark", Points: 50},

	{ID: "speed-demon", Category: CategorySpeed, Requirement: RequirementHighSpeedSeconds, RequirementValue: 3600,
		Name: "Speed Demon", Description: "Listen for an hour at 2x speed or faster", Icon: "bolt", Points: 50},

	{ID: "streak-3", Category: CategoryStreak, Requirement: RequirementStreakDays, RequirementValue: 3,
		Name: "Warming Up", Description: "Listen 3 days in a row", Icon: "flame", Points: 15},
	{ID: "streak-7", Category: CategoryStreak, Requirement: RequirementStreakDays, RequirementValue: 7,
		Name: "One Week Strong", Description: "Listen 7 days in a row", Icon: "fire", Points: 50},
	{ID: "streak-30", Category: CategoryStreak, Requirement: RequirementStreakDays, RequirementValue: 30,
		Name: "Monthly Devotion", Description: "Listen 30 days in a row", Icon: "calendar", Points: 200},

	{ID: "binge-3", Category: CategoryDaily, Requirement: RequirementDailyEpisodeCount, RequirementValue: 3,
		Name: "Binge Listener", Description: "Finish 3 different episodes in one day", Icon: "playlist", Points: 30},

	{ID: "night-owl", Category: CategoryTimeOfDay, Requirement: RequirementNightSessions, RequirementValue: 10,
		Name: "Night Owl", Description: "Start 10 sessions between midnight and 5 AM", Icon: "moon", Points: 25},
	{ID: "early-bird", Category: CategoryTimeOfDay, Requirement: RequirementEarlyBirdSessions, RequirementValue: 10,
		Name: "Early Bird", Description: "Start 10 sessions between 5 AM and 8 AM", Icon: "sunrise", Points: 25},

	{ID: "perfectionist", Category: CategoryPrecision, Requirement: RequirementPerfectCompletions, RequirementValue: 10,
		Name: "Perfectionist", Description: "Finish 10 episodes at 95% completion or better", Icon: "target", Points: 50},
}

// CatalogByID returns the definition for an achievement ID.
func CatalogByID(id string) (*AchievementDefinition, bool) {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i], true
		}
	}
	return nil, false
}

// CatalogByCategory returns definitions in a category, in catalog order.
func CatalogByCategory(category AchievementCategory) []AchievementDefinition {
	var defs []AchievementDefinition
	for _, d := range Catalog {
		if d.Category == category {
			defs = append(defs, d)
		}
	}
	return defs
}
