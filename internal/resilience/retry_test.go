package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) Backoff {
	return Backoff{Attempts: attempts, Base: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), fastBackoff(3), "test", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", MarkTransient(errors.New("overloaded"), 529)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanent(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(5), "test", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := MarkTransient(errors.New("503"), 503)
	_, err := Retry(context.Background(), fastBackoff(2), "test", func(context.Context) (int, error) {
		calls++
		return 0, sentinel
	})
	assert.Equal(t, sentinel, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, Backoff{Attempts: 5, Base: time.Hour, Max: time.Hour}, "test", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, MarkTransient(errors.New("timeout"), 0)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_CustomRetryable(t *testing.T) {
	calls := 0
	b := fastBackoff(3)
	b.Retryable = func(error) bool { return true }
	_, err := Retry(context.Background(), b, "test", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("anything")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastBackoff(2), "test", func(context.Context) error {
		calls++
		if calls == 1 {
			return MarkTransient(errors.New("reset"), 0)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Attempts: 5, Base: 100 * time.Millisecond, Max: 300 * time.Millisecond}.normalized()
	assert.Equal(t, 100*time.Millisecond, b.delay(0))
	assert.Equal(t, 200*time.Millisecond, b.delay(1))
	assert.Equal(t, 300*time.Millisecond, b.delay(2))
	assert.Equal(t, 300*time.Millisecond, b.delay(40))
}

func TestBackoff_JitterBounds(t *testing.T) {
	b := Backoff{Attempts: 2, Base: 100 * time.Millisecond, Max: time.Second, Jitter: 0.5}.normalized()
	for range 50 {
		d := b.delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestBackoff_NormalizedDefaults(t *testing.T) {
	b := Backoff{}.normalized()
	assert.Equal(t, 1, b.Attempts)
	assert.NotNil(t, b.Retryable)
	assert.Equal(t, b.Base, b.Max)
}
