package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
)

// RateLimiterOptions configures a RateLimiter's sliding window.
type RateLimiterOptions struct {
	Window   time.Duration // the sliding window duration
	MaxEvery int           // max events allowed within Window
	Name     string        // used in the synthesized RateLimitExceeded error
}

// RateLimiter is a sliding-window admission control over a single window,
// grounded on joeycumines-go-utilpkg/catrate's ring-buffer-of-timestamps +
// binary-search eviction algorithm (catrate/ring.go's Search/Insert,
// catrate/limiter.go's filterEvents), adapted here from catrate's
// multi-window-per-category shape down to spec.md §4.5's single window.
type RateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	maxEvery int
	name     string
	events   []int64 // unix-nano timestamps, kept sorted ascending
	now      func() time.Time
}

// NewRateLimiter constructs a RateLimiter over the given window and max
// event count.
func NewRateLimiter(opts RateLimiterOptions) *RateLimiter {
	return &RateLimiter{
		window:   opts.Window,
		maxEvery: opts.MaxEvery,
		name:     opts.Name,
		now:      time.Now,
	}
}

// Allow registers an event for the current time, purging timestamps older
// than the window (lazily, on admission) before checking the bound. It
// returns a synthesized RateLimitExceeded error, without recording the
// event, if maxEvery events are already in the window.
func (r *RateLimiter) Allow() (time.Time, tryerr.TryError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	nowNano := now.UnixNano()
	cutoff := nowNano - int64(r.window)

	// purge expired timestamps: everything before the first index whose
	// value is >= cutoff can be dropped.
	evictBefore := sort.Search(len(r.events), func(i int) bool {
		return r.events[i] >= cutoff
	})
	if evictBefore > 0 {
		r.events = append(r.events[:0], r.events[evictBefore:]...)
	}

	if len(r.events) >= r.maxEvery {
		return now, r.exceededError()
	}

	// insert into sorted position, preserving catrate's insert-sorted
	// invariant (events always arrive in non-decreasing time order in
	// practice, but binary search keeps it correct regardless).
	idx := sort.Search(len(r.events), func(i int) bool {
		return r.events[i] >= nowNano
	})
	r.events = append(r.events, 0)
	copy(r.events[idx+1:], r.events[idx:])
	r.events[idx] = nowNano

	return now, nil
}

// Count reports the number of events currently within the window, purging
// expired entries first.
func (r *RateLimiter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().UnixNano() - int64(r.window)
	evictBefore := sort.Search(len(r.events), func(i int) bool {
		return r.events[i] >= cutoff
	})
	if evictBefore > 0 {
		r.events = append(r.events[:0], r.events[evictBefore:]...)
	}
	return len(r.events)
}

func (r *RateLimiter) exceededError() tryerr.TryError {
	msg := "rate limit exceeded"
	if r.name != "" {
		msg = "rate limit exceeded for '" + r.name + "'"
	}
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "RateLimitExceeded",
		Message: msg,
		Code:    tryerr.CodeRateLimitExceeded,
	})
}
