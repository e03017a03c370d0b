// Package resilience provides circuit breaker, rate limiter, and bounded
// queue primitives for protecting calls that create or propagate errors.
package resilience

import (
	"sync"
	"time"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
)

// BreakerState is one of the three states of a Breaker's state machine.
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

// BreakerOptions configures a Breaker's thresholds.
type BreakerOptions struct {
	FailureThreshold int           // consecutive failures before tripping open
	ResetTimeout     time.Duration // how long open waits before probing half-open
	Name             string        // used in the synthesized CircuitBreakerOpen error
}

// Breaker is a three-state circuit breaker: closed/open/half-open, grounded
// on oriys/nova/internal/executor's Allow/RecordSuccess/RecordFailure call
// pattern (there wired per-function through a circuitbreaker.Registry; here
// generalized into a standalone primitive).
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failureThreshold int
	resetTimeout     time.Duration
	name             string
	consecutiveFails int
	lastFailure      time.Time
}

// NewBreaker constructs a Breaker in the closed state. A zero
// FailureThreshold defaults to 3; a zero ResetTimeout defaults to 60s,
// matching spec.md §8's seed scenario.
func NewBreaker(opts BreakerOptions) *Breaker {
	threshold := opts.FailureThreshold
	if threshold <= 0 {
		threshold = 3
	}
	reset := opts.ResetTimeout
	if reset <= 0 {
		reset = 60 * time.Second
	}
	return &Breaker{
		state:            StateClosed,
		failureThreshold: threshold,
		resetTimeout:     reset,
		name:             opts.Name,
	}
}

// Allow reports whether a call may proceed. A closed breaker always allows;
// an open breaker allows only once resetTimeout has elapsed since the last
// recorded failure, at which point it transitions to half-open. A half-open
// breaker allows every call until RecordSuccess closes it or RecordFailure
// reopens it; concurrent probes are not limited to one.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateHalfOpen:
		return true
	case StateOpen:
		if time.Since(b.lastFailure) > b.resetTimeout {
			b.state = StateHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

// RecordSuccess reports a successful call. In half-open, this closes the
// breaker and resets the failure streak; in closed, it resets the streak.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFails = 0
	b.state = StateClosed
}

// RecordFailure reports a failed call. In half-open, this immediately trips
// back open. In closed, it trips open once consecutiveFails reaches
// failureThreshold.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailure = time.Now()
	switch b.state {
	case StateHalfOpen:
		b.state = StateOpen
	case StateClosed:
		b.consecutiveFails++
		if b.consecutiveFails >= b.failureThreshold {
			b.state = StateOpen
		}
	}
}

// State returns the breaker's current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs fn if the breaker allows it, recording the outcome, or
// fails fast with a synthesized CircuitBreakerOpen error.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	if !b.Allow() {
		return nil, b.openError()
	}
	v, err := fn()
	if err != nil {
		b.RecordFailure()
		return v, err
	}
	b.RecordSuccess()
	return v, nil
}

// OpenError returns the synthesized CircuitBreakerOpen error this breaker
// would produce on a fail-fast rejection, regardless of its current state.
func (b *Breaker) OpenError() tryerr.TryError {
	return b.openError()
}

func (b *Breaker) openError() tryerr.TryError {
	msg := "circuit breaker is open"
	if b.name != "" {
		msg = "circuit breaker '" + b.name + "' is open"
	}
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "CircuitBreakerOpen",
		Message: msg,
		Code:    tryerr.CodeCircuitBreakerOpen,
	})
}
