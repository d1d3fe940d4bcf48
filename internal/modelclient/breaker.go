// internal/modelclient/breaker.go
package modelclient

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker's position.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultBreakerThreshold = 5
	defaultBreakerCooldown  = 30 * time.Second
)

// Breaker guards one remote endpoint configuration. After threshold
// consecutive failures it opens and fails calls fast; once the cool-down
// elapses it admits exactly one trial call, closing again on success. All
// state is mutex-guarded so in-flight retry loops and configuration resets
// never observe half-updated fields.
type Breaker struct {
	mu                  sync.Mutex
	state               BreakerState
	consecutiveFailures int
	lastFailure         time.Time

	threshold int
	cooldown  time.Duration
	now       func() time.Time // Injected for tests.
}

// NewBreaker builds a breaker; non-positive arguments take the defaults
// (5 failures, 30s cool-down).
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Allow is evaluated before every attempt. It returns ErrCircuitOpen when
// the call must fail fast, transitioning Open to HalfOpen once the cool-down
// has elapsed so that exactly one trial call goes through.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) >= b.cooldown {
			b.state = StateHalfOpen
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		// A trial call is already in flight; everything else fails fast.
		return ErrCircuitOpen
	default:
		return nil
	}
}

// RecordSuccess resets the breaker to closed from any state.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.consecutiveFailures = 0
}

// RecordFailure counts a failed call, opening the breaker at the threshold.
// A failed half-open trial reopens immediately.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFailures++
	if b.state == StateHalfOpen || b.consecutiveFailures >= b.threshold {
		b.state = StateOpen
		b.lastFailure = b.now()
	}
}

// Reset returns the breaker to closed with zeroed counters. Called whenever
// the endpoint configuration changes.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.consecutiveFailures = 0
	b.lastFailure = time.Time{}
}

// State reports the current position for logs and tests.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
