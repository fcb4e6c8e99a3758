package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Integrity(t *testing.T) {
	require.NotEmpty(t, Catalog)

	seen := make(map[string]bool)
	for _, def := range Catalog {
		assert.NotEmpty(t, def.ID)
		assert.False(t, seen[def.ID], "duplicate achievement id %q", def.ID)
		seen[def.ID] = true

		assert.True(t, def.Requirement.Valid(), "achievement %q has unknown requirement type %q", def.ID, def.Requirement)
		assert.Positive(t, def.RequirementValue, "achievement %q", def.ID)
		assert.Positive(t, def.Points, "achievement %q", def.ID)
		assert.NotEmpty(t, def.Name, "achievement %q", def.ID)
	}
}

func TestRequirementType_ProgressValueCoversAllVariants(t *testing.T) {
	stats := &UserStats{
		TotalListeningSeconds: 7200,
		CompletedCount:        12,
		FavoritesCount:        6,
		CurrentStreakDays:     4,
	}
	facts := &SessionFacts{
		HighSpeedSeconds:   1800,
		PerfectCompletions: 3,
		MaxDailyCompleted:  2,
		NightSessions:      5,
		EarlyBirdSessions:  1,
	}

	tests := []struct {
		requirement RequirementType
		want        int
	}{
		{RequirementEpisodeCount, 12},
		{RequirementListeningMinutes, 120},
		{RequirementFavoriteCount, 6},
		{RequirementHighSpeedSeconds, 1800},
		{RequirementPerfectCompletions, 3},
		{RequirementStreakDays, 4},
		{RequirementDailyEpisodeCount, 2},
		{RequirementNightSessions, 5},
		{RequirementEarlyBirdSessions, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.requirement), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.requirement.ProgressValue(stats, facts))
		})
	}

	// Every catalog entry must produce a meaningful progress value given
	// non-zero inputs, which catches a new requirement type added to the
	// catalog without a ProgressValue branch.
	for _, def := range Catalog {
		assert.Positive(t, def.Requirement.ProgressValue(stats, facts),
			"achievement %q requirement %q has no progress formula", def.ID, def.Requirement)
	}
}

func TestAchievementStatus_Gap(t *testing.T) {
	def, ok := CatalogByID("episodes-10")
	require.True(t, ok)

	status := AchievementStatus{AchievementDefinition: *def, ProgressValue: 7}
	assert.Equal(t, 3, status.Gap())

	status.ProgressValue = 15
	assert.Equal(t, 0, status.Gap())
}

func TestCatalogByCategory(t *testing.T) {
	streaks := CatalogByCategory(CategoryStreak)
	require.Len(t, streaks, 3)
	// Catalog order is preserved: ascending thresholds.
	assert.Equal(t, "streak-3", streaks[0].ID)
	assert.Equal(t, "streak-30", streaks[2].ID)
}

func TestUnlockID(t *testing.T) {
	assert.Equal(t, "usr-1:streak-7", UnlockID("usr-1", "streak-7"))
}
