package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	// BreakerClosed lets calls through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls until the cooldown elapses.
	BreakerOpen
	// BreakerHalfOpen lets probe calls through to test recovery.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned when a call is rejected by an open breaker.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// BreakerConfig controls when a Breaker opens and recovers.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker. Default 5.
	FailureThreshold int
	// Cooldown is how long the breaker stays open before probing. Default 30s.
	Cooldown time.Duration
	// Probes is the number of successful half-open calls needed to close. Default 1.
	Probes int
}

// Breaker is a consecutive-failure circuit breaker for one provider.
type Breaker struct {
	name string
	cfg  BreakerConfig

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time

	now func() time.Time
}

// NewBreaker creates a closed breaker for the named provider.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Probes <= 0 {
		cfg.Probes = 1
	}
	return &Breaker{name: name, cfg: cfg, now: time.Now}
}

// Call runs fn through the breaker. Context cancellation by the caller does
// not count as a provider failure.
func Call[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !b.allow() {
		return zero, ErrCircuitOpen
	}
	val, err := fn(ctx)
	b.record(err != nil && ctx.Err() == nil)
	return val, err
}

// State returns the current state, reporting an expired open breaker as half-open.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != BreakerOpen {
		return true
	}
	if b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		b.setState(BreakerHalfOpen)
		return true
	}
	return false
}

func (b *Breaker) record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !failed {
		b.failures = 0
		if b.state == BreakerHalfOpen {
			b.successes++
			if b.successes >= b.cfg.Probes {
				b.setState(BreakerClosed)
			}
		}
		return
	}

	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.openedAt = b.now()
		b.setState(BreakerOpen)
	}
}

func (b *Breaker) setState(to BreakerState) {
	if b.state == to {
		return
	}
	zap.L().Warn("circuit breaker state change",
		zap.String("provider", b.name),
		zap.String("from", b.state.String()),
		zap.String("to", to.String()),
	)
	b.state = to
	b.successes = 0
}
