package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrOpen is returned while a Breaker rejects calls.
var ErrOpen = eris.New("resilience: breaker open")

// Breaker stops calls to a dependency after Threshold consecutive failures
// and lets one probe through once Cooldown has elapsed.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker returns a closed breaker. Non-positive arguments fall back to
// 5 failures and a 30s cooldown.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{name: name, threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Allow returns ErrOpen if the call should be skipped.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return nil
	}
	if b.probing || b.now().Sub(b.openedAt) < b.cooldown {
		return ErrOpen
	}
	b.probing = true
	return nil
}

// Record feeds the outcome of an allowed call back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasOpen := b.failures >= b.threshold
	b.probing = false
	if err == nil {
		if wasOpen {
			zap.L().Info("resilience: breaker closed", zap.String("breaker", b.name))
		}
		b.failures = 0
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		if !wasOpen {
			zap.L().Warn("resilience: breaker opened",
				zap.String("breaker", b.name),
				zap.Int("failures", b.failures),
				zap.Error(err),
			)
		}
		b.openedAt = b.now()
	}
}

// Open reports whether the breaker is currently rejecting calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures >= b.threshold && b.now().Sub(b.openedAt) < b.cooldown
}
