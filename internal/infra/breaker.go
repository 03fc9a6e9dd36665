package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Breaker ───────────────────────────────────────────────────────────────────
// Guards calls to an optional dependency (the Redis upload history) so that an
// outage costs one timeout per open window instead of one per upload.
//
// States:
//   - Closed:    calls pass through
//   - Open:      calls fail immediately with ErrBreakerOpen
//   - Half-Open: one probe call is let through; success closes, failure reopens

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
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
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Do while the breaker is open.
var ErrBreakerOpen = errors.New("breaker is open")

type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the breaker (default 3)
	OpenTimeout      time.Duration // time spent open before probing (default 30s)
}

type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	openedAt  time.Time
	probing   bool
	threshold int
	timeout   time.Duration
	now       func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &Breaker{threshold: cfg.FailureThreshold, timeout: cfg.OpenTimeout, now: time.Now}
}

// State returns the current state, moving open to half-open once the timeout elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.timeout {
		b.state = BreakerHalfOpen
		b.probing = false
	}
	return b.state
}

// Do runs fn unless the breaker is open or a half-open probe is already in flight.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	switch b.stateLocked() {
	case BreakerOpen:
		b.mu.Unlock()
		return ErrBreakerOpen
	case BreakerHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
		b.probing = true
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
	if err != nil {
		b.failures++
		if b.state == BreakerHalfOpen || b.failures >= b.threshold {
			b.state = BreakerOpen
			b.openedAt = b.now()
		}
		return err
	}
	b.state = BreakerClosed
	b.failures = 0
	return nil
}
