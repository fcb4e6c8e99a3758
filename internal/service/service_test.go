package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/earmarkapp/earmark-server/internal/domain"
	"github.com/earmarkapp/earmark-server/internal/id"
	"github.com/earmarkapp/earmark-server/internal/store"
)

// testEnv bundles the full service stack behind one temp-dir store.
type testEnv struct {
	store        *store.Store
	listening    *ListeningService
	stats        *StatsService
	achievements *AchievementService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testStore, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { testStore.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	statsService := NewStatsService(testStore, logger)

	return &testEnv{
		store:        testStore,
		listening:    NewListeningService(testStore, testStore, logger),
		stats:        statsService,
		achievements: NewAchievementService(statsService, testStore, logger),
	}
}

func (e *testEnv) putEpisode(t *testing.T, episodeID string, durationSeconds int) {
	t.Helper()
	require.NoError(t, e.store.PutEpisodeRef(context.Background(), &domain.EpisodeRef{
		ID:              episodeID,
		SeriesID:        "series-1",
		Title:           "Episode " + episodeID,
		DurationSeconds: durationSeconds,
	}))
}

// appendSession writes a session directly, bypassing request validation,
// for shaping exact stats scenarios.
func (e *testEnv) appendSession(t *testing.T, userID, episodeID string, startedAt time.Time, speed, completionRate float64, durationSeconds int, explicit bool) *domain.ListeningSession {
	t.Helper()

	ended := startedAt.Add(time.Duration(durationSeconds) * time.Second)
	session := domain.NewListeningSession(
		id.MustGenerate("ses"), userID, episodeID, "series-1",
		startedAt, &ended, speed, completionRate, durationSeconds, explicit,
	)
	require.NoError(t, e.store.AppendSession(context.Background(), session))
	return session
}

// daysAgo returns local noon n days before now, a stable in-day anchor
// for streak scenarios.
func daysAgo(n int) time.Time {
	now := time.Now()
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	return noon.AddDate(0, 0, -n)
}
