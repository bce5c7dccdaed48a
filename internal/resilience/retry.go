// Package resilience retries transient failures of outbound calls and trips a
// breaker when a dependency keeps failing.
package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff controls how Retry spaces out attempts.
type Backoff struct {
	// Attempts is the total number of tries, first one included.
	Attempts int
	Base     time.Duration
	Max      time.Duration
	// Jitter is the ± fraction of each delay randomized away.
	Jitter float64
	// Retryable overrides IsTransient when set.
	Retryable func(error) bool
}

// DefaultBackoff suits completion-service calls: three tries, 500ms doubling.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: 3,
		Base:     500 * time.Millisecond,
		Max:      10 * time.Second,
		Jitter:   0.25,
	}
}

func (b Backoff) normalized() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}
	if b.Base <= 0 {
		b.Base = 500 * time.Millisecond
	}
	if b.Max < b.Base {
		b.Max = b.Base
	}
	if b.Jitter < 0 || b.Jitter > 1 {
		b.Jitter = 0
	}
	if b.Retryable == nil {
		b.Retryable = IsTransient
	}
	return b
}

// delay returns the wait before retry n (0-based).
func (b Backoff) delay(n int) time.Duration {
	d := b.Base << n
	if d <= 0 || d > b.Max {
		d = b.Max
	}
	if b.Jitter > 0 {
		spread := float64(d) * b.Jitter
		d += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	return max(d, 0)
}

// Retry runs fn until it succeeds, returns a non-retryable error, the context
// ends, or the attempts run out. The last error is returned unchanged.
func Retry[T any](ctx context.Context, b Backoff, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	b = b.normalized()

	var zero T
	var err error
	for n := 0; n < b.Attempts; n++ {
		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil || !b.Retryable(err) || n == b.Attempts-1 {
			return zero, err
		}

		wait := b.delay(n)
		zap.L().Warn("resilience: retrying",
			zap.String("op", op),
			zap.Int("attempt", n+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
	return zero, err
}

// Do is Retry for calls without a result value.
func Do(ctx context.Context, b Backoff, op string, fn func(ctx context.Context) error) error {
	_, err := Retry(ctx, b, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
