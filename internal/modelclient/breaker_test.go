// File: internal/modelclient/breaker_test.go
package modelclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a settable time source injected into breakers under test.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *clock) {
	c := &clock{t: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)}
	b := NewBreaker(threshold, cooldown)
	b.now = c.now
	return b, c
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 4; i++ {
		require.NoError(t, b.Allow())
		b.RecordFailure()
	}
	assert.Equal(t, StateClosed, b.State(), "four failures keep it closed")

	require.NoError(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State(), "fifth consecutive failure opens")
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	b.RecordSuccess()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	assert.Equal(t, StateClosed, b.State(), "non-consecutive failures never open")
}

func TestBreaker_CooldownAdmitsExactlyOneTrial(t *testing.T) {
	b, c := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	require.Equal(t, StateOpen, b.State())

	c.advance(29 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen, "still cooling down")

	c.advance(1 * time.Second)
	assert.NoError(t, b.Allow(), "cool-down elapsed, one trial admitted")
	assert.Equal(t, StateHalfOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen, "only one trial at a time")
}

func TestBreaker_HalfOpenTrialOutcomes(t *testing.T) {
	t.Run("success closes", func(t *testing.T) {
		b, c := newTestBreaker(5, 30*time.Second)
		for i := 0; i < 5; i++ {
			b.RecordFailure()
		}
		c.advance(30 * time.Second)
		require.NoError(t, b.Allow())

		b.RecordSuccess()
		assert.Equal(t, StateClosed, b.State())
		assert.NoError(t, b.Allow())
	})

	t.Run("failure reopens for a full cooldown", func(t *testing.T) {
		b, c := newTestBreaker(5, 30*time.Second)
		for i := 0; i < 5; i++ {
			b.RecordFailure()
		}
		c.advance(30 * time.Second)
		require.NoError(t, b.Allow())

		b.RecordFailure()
		assert.Equal(t, StateOpen, b.State())

		c.advance(29 * time.Second)
		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
		c.advance(1 * time.Second)
		assert.NoError(t, b.Allow())
	})
}

func TestBreaker_ResetReturnsToClosed(t *testing.T) {
	b, _ := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestBreaker_DefaultsApplied(t *testing.T) {
	b, _ := newTestBreaker(0, 0)
	assert.Equal(t, defaultBreakerThreshold, b.threshold)
	assert.Equal(t, defaultBreakerCooldown, b.cooldown)
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(99).String())
}
