package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(failures int, timeout time.Duration) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	cb := NewCircuitBreaker(failures, 1, timeout)
	cb.now = clock.now
	return cb, clock
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.True(t, cb.Allow())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())
	assert.False(t, cb.Ready())
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker(1, 30*time.Second)
	var transitions []string
	cb.OnStateChange = func(from, to CircuitState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}

	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())

	clock.advance(31 * time.Second)
	assert.True(t, cb.Ready())
	assert.True(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, time.Second)

	cb.RecordFailure()
	clock.advance(2 * time.Second)
	require.True(t, cb.Allow())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestBreakerCompleter(t *testing.T) {
	failing := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("boom")
	})
	cb, _ := newTestBreaker(2, time.Minute)
	bc := WithBreaker(failing, cb)
	ctx := context.Background()

	assert.True(t, bc.Available())
	_, err := bc.Complete(ctx, Request{})
	assert.EqualError(t, err, "boom")
	_, err = bc.Complete(ctx, Request{})
	assert.EqualError(t, err, "boom")

	assert.False(t, bc.Available())
	_, err = bc.Complete(ctx, Request{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerCompleterIgnoresCallerCancellation(t *testing.T) {
	slow := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		return "", ctx.Err()
	})
	cb, _ := newTestBreaker(1, time.Minute)
	bc := WithBreaker(slow, cb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bc.Complete(ctx, Request{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, CircuitClosed, cb.State())
}
