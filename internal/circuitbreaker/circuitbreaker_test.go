package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := New(threshold, cooldown)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestNilBreakerAlwaysAllows(t *testing.T) {
	var b *Breaker
	require.NoError(t, b.Allow())
	b.Success()
	b.Failure()
	assert.Equal(t, Closed, b.CurrentState())
}

func TestTripsAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	b.Failure()
	b.Failure()
	require.NoError(t, b.Allow())

	b.Failure()
	assert.Equal(t, Open, b.CurrentState())
	assert.ErrorIs(t, b.Allow(), ErrOpen)
}

func TestSuccessResetsFailures(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)

	b.Failure()
	b.Success()
	b.Failure()
	assert.Equal(t, Closed, b.CurrentState())
}

func TestHalfOpenProbe(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute)

	b.Failure()
	require.ErrorIs(t, b.Allow(), ErrOpen)

	*now = now.Add(2 * time.Minute)
	// First call after cooldown is the probe.
	require.NoError(t, b.Allow())
	assert.Equal(t, HalfOpen, b.CurrentState())
	// Second concurrent call is still rejected.
	assert.ErrorIs(t, b.Allow(), ErrOpen)

	b.Success()
	assert.Equal(t, Closed, b.CurrentState())
	require.NoError(t, b.Allow())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute)

	b.Failure()
	*now = now.Add(2 * time.Minute)
	require.NoError(t, b.Allow())

	b.Failure()
	assert.Equal(t, Open, b.CurrentState())
	assert.ErrorIs(t, b.Allow(), ErrOpen)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
}
