package enrich

import (
	"sync"
	"time"
)

// BreakerState is one state of the CLOSED/OPEN/HALF_OPEN machine
// (§4.13).
type BreakerState int

const (
	Closed BreakerState = iota
	Open
	HalfOpen
)

// Breaker implements the per-endpoint circuit breaker: CLOSED →
// (failures ≥ threshold) → OPEN → (after reset_timeout) →
// HALF_OPEN → (one success) → CLOSED, or (failure) → OPEN.
// Failures are counted since the last success; there is no time
// window, so old failures never age out.
//
// State transitions are guarded by a mutex rather than lock-free
// atomics: the breaker's bookkeeping (failure count, opened-at
// timestamp) must update consistently together, and the teacher's own
// resiliency client favors a small critical section over a
// multi-field atomic dance.
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failureThreshold int
	resetTimeout     time.Duration
	failures         int
	openedAt         time.Time
}

func NewBreaker(cfg CircuitBreakerConfig) *Breaker {
	return &Breaker{
		state:            Closed,
		failureThreshold: cfg.FailureThreshold,
		resetTimeout:     cfg.ResetTimeout,
	}
}

// Allow reports whether a call may proceed, transitioning OPEN→HALF_OPEN
// once resetTimeout has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true
	case Open:
		if time.Since(b.openedAt) >= b.resetTimeout {
			b.state = HalfOpen
			return true
		}
		return false
	case HalfOpen:
		return true
	default:
		return false
	}
}

// RecordSuccess closes the breaker from HALF_OPEN, or resets the
// failure count while CLOSED.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.failures = 0
}

// RecordFailure increments the failure count (when CLOSED) or trips
// back open immediately (when HALF_OPEN).
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.state = Open
		b.openedAt = time.Now()
		b.failures = 0
	case Closed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.state = Open
			b.openedAt = time.Now()
			b.failures = 0
		}
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
