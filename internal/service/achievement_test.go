package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

func statusByID(t *testing.T, statuses []domain.AchievementStatus, id string) domain.AchievementStatus {
	t.Helper()
	for _, status := range statuses {
		if status.ID == id {
			return status
		}
	}
	t.Fatalf("no status for achievement %q", id)
	return domain.AchievementStatus{}
}

func TestEvaluate_EmptyUserUnlocksNothing(t *testing.T) {
	env := setupTestEnv(t)

	statuses, stats, err := env.achievements.Evaluate(context.Background(), "usr-none")
	require.NoError(t, err)
	require.Len(t, statuses, len(domain.Catalog))
	assert.Equal(t, 0, stats.SessionCount)

	for _, status := range statuses {
		assert.False(t, status.Unlocked, "achievement %q", status.ID)
		assert.Nil(t, status.EarnedAt)
	}
}

func TestEvaluate_FirstEpisodeUnlock(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	ctx := context.Background()

	env.appendSession(t, "usr-1", "ep-1", daysAgo(0), 1.0, 1.0, 1800, false)
	_, err := env.store.UpsertProgress(ctx, "usr-1", "ep-1", 0, true)
	require.NoError(t, err)

	statuses, _, err := env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)

	first := statusByID(t, statuses, "first-episode")
	assert.True(t, first.Unlocked)
	require.NotNil(t, first.EarnedAt)
	assert.Equal(t, 1, first.ProgressValue)

	// Still nine short of the next tier.
	ten := statusByID(t, statuses, "episodes-10")
	assert.False(t, ten.Unlocked)
	assert.Equal(t, 9, ten.Gap())
}

func TestEvaluate_ThresholdBoundary(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// 9 completed episodes: one short of episodes-10.
	for i := 0; i < 9; i++ {
		episodeID := string(rune('a'+i)) + "-ep"
		env.putEpisode(t, episodeID, 1800)
		_, err := env.store.UpsertProgress(ctx, "usr-1", episodeID, 0, true)
		require.NoError(t, err)
	}

	statuses, _, err := env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)

	ten := statusByID(t, statuses, "episodes-10")
	assert.False(t, ten.Unlocked)
	assert.Equal(t, 9, ten.ProgressValue)

	// The tenth completion crosses the threshold.
	env.putEpisode(t, "final-ep", 1800)
	_, err = env.store.UpsertProgress(ctx, "usr-1", "final-ep", 0, true)
	require.NoError(t, err)

	statuses, _, err = env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)

	ten = statusByID(t, statuses, "episodes-10")
	assert.True(t, ten.Unlocked)
}

func TestEvaluate_TwiceIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	ctx := context.Background()

	_, err := env.store.UpsertProgress(ctx, "usr-1", "ep-1", 0, true)
	require.NoError(t, err)

	statuses, _, err := env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)
	first := statusByID(t, statuses, "first-episode")
	require.True(t, first.Unlocked)
	earnedAt := *first.EarnedAt

	// Re-evaluation keeps the original earned timestamp.
	statuses, _, err = env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)
	again := statusByID(t, statuses, "first-episode")
	assert.True(t, again.Unlocked)
	assert.Equal(t, earnedAt, *again.EarnedAt)
}

func TestEvaluate_UnlockSurvivesProgressDrop(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 3600)
	ctx := context.Background()

	// Build a 2-day streak crossing nothing, then favorite enough
	// episodes to unlock favorites-5, then drop below the threshold.
	for i := 0; i < 5; i++ {
		episodeID := string(rune('a'+i)) + "-fav"
		env.putEpisode(t, episodeID, 1800)
		_, err := env.store.SetFavorite(ctx, "usr-1", episodeID, true)
		require.NoError(t, err)
	}

	statuses, _, err := env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)
	require.True(t, statusByID(t, statuses, "favorites-5").Unlocked)

	_, err = env.store.SetFavorite(ctx, "usr-1", "a-fav", false)
	require.NoError(t, err)

	statuses, _, err = env.achievements.Evaluate(ctx, "usr-1")
	require.NoError(t, err)
	fav := statusByID(t, statuses, "favorites-5")
	assert.True(t, fav.Unlocked, "persisted unlock is authoritative")
	assert.Equal(t, 4, fav.ProgressValue)
}

func TestEvaluate_HighSpeedScenario(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 7200)

	// 600 seconds at 2x: progress toward speed-demon but no unlock.
	env.appendSession(t, "usr-1", "ep-1", daysAgo(0), 2.0, 0.1, 600, false)

	statuses, _, err := env.achievements.Evaluate(context.Background(), "usr-1")
	require.NoError(t, err)

	speed := statusByID(t, statuses, "speed-demon")
	assert.False(t, speed.Unlocked)
	assert.Equal(t, 600, speed.ProgressValue)
	assert.Equal(t, 3000, speed.Gap())
}

func TestNextGoal_SmallestGapWinsCatalogOrderBreaksTies(t *testing.T) {
	statuses := []domain.AchievementStatus{
		{AchievementDefinition: domain.AchievementDefinition{ID: "a", RequirementValue: 10}, ProgressValue: 2},
		{AchievementDefinition: domain.AchievementDefinition{ID: "b", RequirementValue: 10}, ProgressValue: 7},
		{AchievementDefinition: domain.AchievementDefinition{ID: "c", RequirementValue: 5}, ProgressValue: 2},
		{AchievementDefinition: domain.AchievementDefinition{ID: "d", RequirementValue: 20}, ProgressValue: 20, Unlocked: true},
	}

	next := NextGoal(statuses)
	require.NotNil(t, next)
	// b and c both have gap 3; b comes first.
	assert.Equal(t, "b", next.ID)
}

func TestNextGoal_AllUnlocked(t *testing.T) {
	statuses := []domain.AchievementStatus{
		{AchievementDefinition: domain.AchievementDefinition{ID: "a", RequirementValue: 1}, ProgressValue: 1, Unlocked: true},
	}
	assert.Nil(t, NextGoal(statuses))
}
