package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errDown = errors.New("connection refused")

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	fail := func() error { return errDown }

	assert.ErrorIs(t, b.Do(fail), errDown)
	assert.Equal(t, BreakerClosed, b.State())
	assert.ErrorIs(t, b.Do(fail), errDown)
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called, "open breaker does not call through")
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Second})
	b.now = func() time.Time { return clock }

	_ = b.Do(func() error { return errDown })
	assert.Equal(t, BreakerOpen, b.State())

	clock = clock.Add(11 * time.Second)
	assert.Equal(t, BreakerHalfOpen, b.State())

	assert.ErrorIs(t, b.Do(func() error { return errDown }), errDown)
	assert.Equal(t, BreakerOpen, b.State(), "failed probe reopens")

	clock = clock.Add(11 * time.Second)
	assert.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2})

	_ = b.Do(func() error { return errDown })
	_ = b.Do(func() error { return nil })
	_ = b.Do(func() error { return errDown })
	assert.Equal(t, BreakerClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}
