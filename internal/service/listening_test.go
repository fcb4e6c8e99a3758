package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earmarkapp/earmark-server/internal/domain"
	domainerrors "github.com/earmarkapp/earmark-server/internal/errors"
	"github.com/earmarkapp/earmark-server/internal/store"
)

func TestRecordSession_PersistsSessionAndProgress(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	ctx := context.Background()

	started := time.Now().Add(-30 * time.Minute)
	ended := started.Add(15 * time.Minute)

	resp, err := env.listening.RecordSession(ctx, "usr-1", RecordSessionRequest{
		EpisodeID:       "ep-1",
		StartedAt:       started,
		EndedAt:         &ended,
		PlaybackSpeed:   1.5,
		CompletionRate:  0.5,
		DurationSeconds: 900,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Session.ID)
	assert.False(t, resp.Session.MarkedComplete)
	assert.Equal(t, "series-1", resp.Session.SeriesID)

	// Progress position derives from completion rate times duration.
	assert.Equal(t, float64(900), resp.Progress.PositionSeconds)
	assert.False(t, resp.Progress.Completed)

	sessions, err := env.store.GetSessionsForUser(ctx, "usr-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestRecordSession_FullRateMarksComplete(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)

	resp, err := env.listening.RecordSession(context.Background(), "usr-1", RecordSessionRequest{
		EpisodeID:       "ep-1",
		StartedAt:       time.Now(),
		PlaybackSpeed:   1.0,
		CompletionRate:  1.0,
		DurationSeconds: 1800,
	})
	require.NoError(t, err)

	assert.True(t, resp.Session.MarkedComplete)
	assert.True(t, resp.Progress.Completed)
	// Completion rewinds the stored position to the start.
	assert.Equal(t, float64(0), resp.Progress.PositionSeconds)
}

func TestRecordSession_ValidationFailuresPersistNothing(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	ctx := context.Background()

	started := time.Now()
	earlier := started.Add(-time.Hour)

	tests := []struct {
		name string
		req  RecordSessionRequest
	}{
		{"missing episode id", RecordSessionRequest{StartedAt: started, PlaybackSpeed: 1.0}},
		{"zero playback speed", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, PlaybackSpeed: 0}},
		{"negative playback speed", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, PlaybackSpeed: -1}},
		{"playback speed above cap", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, PlaybackSpeed: 4.5}},
		{"completion rate above one", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, PlaybackSpeed: 1.0, CompletionRate: 1.1}},
		{"negative completion rate", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, PlaybackSpeed: 1.0, CompletionRate: -0.1}},
		{"negative duration", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, PlaybackSpeed: 1.0, DurationSeconds: -5}},
		{"ended before started", RecordSessionRequest{EpisodeID: "ep-1", StartedAt: started, EndedAt: &earlier, PlaybackSpeed: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.listening.RecordSession(ctx, "usr-1", tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidSessionData)
		})
	}

	// No partial writes from any failed request.
	sessions, err := env.store.GetSessionsForUser(ctx, "usr-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = env.store.GetProgress(ctx, "usr-1", "ep-1")
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
}

func TestRecordSession_UnknownEpisode(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.listening.RecordSession(context.Background(), "usr-1", RecordSessionRequest{
		EpisodeID:     "ep-ghost",
		StartedAt:     time.Now(),
		PlaybackSpeed: 1.0,
	})
	assert.ErrorIs(t, err, store.ErrEpisodeNotFound)
}

func TestRecordSession_ZeroDurationAllowed(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)

	resp, err := env.listening.RecordSession(context.Background(), "usr-1", RecordSessionRequest{
		EpisodeID:       "ep-1",
		StartedAt:       time.Now(),
		PlaybackSpeed:   1.0,
		CompletionRate:  0,
		DurationSeconds: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Session.DurationSeconds)
}

func TestCompleteEpisode_ExplicitSignalWinsOverPartialRate(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)

	resp, err := env.listening.CompleteEpisode(context.Background(), "usr-1", "ep-1", CompleteEpisodeRequest{
		CompletionRate: 0.4,
		PlaybackSpeed:  1.25,
	})
	require.NoError(t, err)

	assert.True(t, resp.Session.MarkedComplete)
	assert.True(t, resp.Progress.Completed)
	assert.Equal(t, float64(0), resp.Progress.PositionSeconds)
}

func TestSaveProgress_MonotonicCompletion(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	ctx := context.Background()

	p, err := env.listening.SaveProgress(ctx, "usr-1", "ep-1", SaveProgressRequest{Position: 0, Completed: true})
	require.NoError(t, err)
	assert.True(t, p.Completed)

	// Un-completing is a silent no-op, not an error.
	p, err = env.listening.SaveProgress(ctx, "usr-1", "ep-1", SaveProgressRequest{Position: 100, Completed: false})
	require.NoError(t, err)
	assert.True(t, p.Completed)
	assert.Equal(t, float64(100), p.PositionSeconds)
}

func TestListProgress_Buckets(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	env.putEpisode(t, "ep-2", 1800)
	ctx := context.Background()

	_, err := env.listening.SaveProgress(ctx, "usr-1", "ep-1", SaveProgressRequest{Position: 60})
	require.NoError(t, err)
	_, err = env.listening.SaveProgress(ctx, "usr-1", "ep-2", SaveProgressRequest{Position: 0, Completed: true})
	require.NoError(t, err)

	items, err := env.listening.ListProgress(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	buckets := make(map[string]domain.ProgressBucket)
	for _, item := range items {
		buckets[item.EpisodeID] = item.Bucket
	}
	assert.Equal(t, domain.BucketInProgress, buckets["ep-1"])
	assert.Equal(t, domain.BucketCompleted, buckets["ep-2"])
}

func TestRateEpisode_BoundsAndUpsert(t *testing.T) {
	env := setupTestEnv(t)
	env.putEpisode(t, "ep-1", 1800)
	ctx := context.Background()

	_, err := env.listening.RateEpisode(ctx, "usr-1", "ep-1", 6)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRating)

	_, err = env.listening.RateEpisode(ctx, "usr-1", "ep-1", 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRating)

	rating, err := env.listening.RateEpisode(ctx, "usr-1", "ep-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Value)

	rating, err = env.listening.RateEpisode(ctx, "usr-1", "ep-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rating.Value)

	got, err := env.listening.GetRating(ctx, "usr-1", "ep-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Value)
}

func TestSetFavorite_UnknownEpisode(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.listening.SetFavorite(context.Background(), "usr-1", "ep-ghost", true)
	assert.ErrorIs(t, err, store.ErrEpisodeNotFound)
}
