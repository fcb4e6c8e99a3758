package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_ApplyMonotonicCompletion(t *testing.T) {
	p := NewProgress("usr-1", "ep-1", 120, false)
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)

	p.Apply(300, true)
	require.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)
	completedAt := *p.CompletedAt

	// A later non-completed write updates position but never clears the
	// flag or moves its timestamp.
	p.Apply(50, false)
	assert.True(t, p.Completed)
	assert.Equal(t, completedAt, *p.CompletedAt)
	assert.Equal(t, float64(50), p.PositionSeconds)

	// Re-completing is a no-op on the timestamp too.
	p.Apply(60, true)
	assert.Equal(t, completedAt, *p.CompletedAt)
}

func TestProgress_Bucket(t *testing.T) {
	p := NewProgress("usr-1", "ep-1", 0, false)
	assert.Equal(t, BucketNew, p.Bucket())

	p.Apply(10, false)
	assert.Equal(t, BucketInProgress, p.Bucket())

	p.Apply(0, true)
	assert.Equal(t, BucketCompleted, p.Bucket())

	// Completed wins even when position resets to zero.
	p.Apply(0, false)
	assert.Equal(t, BucketCompleted, p.Bucket())
}

func TestProgressID(t *testing.T) {
	assert.Equal(t, "usr-1:ep-9", ProgressID("usr-1", "ep-9"))
}

func TestValidPosition(t *testing.T) {
	assert.True(t, ValidPosition(0))
	assert.True(t, ValidPosition(3600.5))
	assert.False(t, ValidPosition(-1))
	assert.False(t, ValidPosition(math.NaN()))
	assert.False(t, ValidPosition(math.Inf(1)))
	assert.False(t, ValidPosition(math.Inf(-1)))
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
	assert.False(t, ValidRating(-3))
}

func TestIdentity_CanViewStats(t *testing.T) {
	member := Identity{UserID: "usr-1", Role: RoleMember}
	assert.True(t, member.CanViewStats("usr-1"))
	assert.False(t, member.CanViewStats("usr-2"))

	admin := Identity{UserID: "usr-9", Role: RoleAdmin}
	assert.True(t, admin.CanViewStats("usr-1"))
}
