package enrich_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mindburn-Labs/helm-decide/pkg/enrich"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := enrich.NewBreaker(enrich.CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})
	assert.Equal(t, enrich.Closed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_OpensAfterThresholdFailures(t *testing.T) {
	b := enrich.NewBreaker(enrich.CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})

	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, enrich.Closed, b.State())

	b.RecordFailure()
	assert.Equal(t, enrich.Open, b.State())
	assert.False(t, b.Allow())
}

func TestBreaker_HalfOpenAfterResetTimeout(t *testing.T) {
	b := enrich.NewBreaker(enrich.CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})

	b.RecordFailure()
	require_Open(t, b)

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())
	assert.Equal(t, enrich.HalfOpen, b.State())
}

func require_Open(t *testing.T, b *enrich.Breaker) {
	t.Helper()
	assert.Equal(t, enrich.Open, b.State())
}

func TestBreaker_HalfOpenSuccessCloses(t *testing.T) {
	b := enrich.NewBreaker(enrich.CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	b.Allow() // transitions to HalfOpen

	b.RecordSuccess()
	assert.Equal(t, enrich.Closed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := enrich.NewBreaker(enrich.CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	b.Allow() // transitions to HalfOpen

	b.RecordFailure()
	assert.Equal(t, enrich.Open, b.State())
}

func TestBreaker_SuccessResetsFailureCountWhileClosed(t *testing.T) {
	b := enrich.NewBreaker(enrich.CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	assert.Equal(t, enrich.Closed, b.State(), "success resets the failure count, so two more failures shouldn't trip it")
}
