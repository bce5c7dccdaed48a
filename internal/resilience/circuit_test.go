package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker("test", 2, time.Minute)
	boom := errors.New("boom")

	require.NoError(t, b.Allow())
	b.Record(boom)
	require.NoError(t, b.Allow())
	b.Record(boom)

	assert.True(t, b.Open())
	assert.ErrorIs(t, b.Allow(), ErrOpen)
}

func TestBreaker_SuccessResets(t *testing.T) {
	b := NewBreaker("test", 2, time.Minute)
	b.Record(errors.New("boom"))
	b.Record(nil)
	b.Record(errors.New("boom"))
	assert.False(t, b.Open())
	assert.NoError(t, b.Allow())
}

func TestBreaker_ProbeAfterCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker("test", 1, 10*time.Second)
	b.now = func() time.Time { return now }

	b.Record(errors.New("boom"))
	assert.ErrorIs(t, b.Allow(), ErrOpen)

	now = now.Add(11 * time.Second)
	require.NoError(t, b.Allow(), "one probe allowed")
	assert.ErrorIs(t, b.Allow(), ErrOpen, "second concurrent probe rejected")

	b.Record(nil)
	assert.False(t, b.Open())
	assert.NoError(t, b.Allow())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker("test", 1, 10*time.Second)
	b.now = func() time.Time { return now }

	b.Record(errors.New("boom"))
	now = now.Add(11 * time.Second)
	require.NoError(t, b.Allow())
	b.Record(errors.New("still down"))

	assert.True(t, b.Open())
	assert.ErrorIs(t, b.Allow(), ErrOpen)
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker("d", 0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
}
