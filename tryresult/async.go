package tryresult

import (
	"context"
	"sync"
	"time"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryevents"
	"github.com/tryerr/tryerr/tryfactory"
)

// AsyncOptions configures TryAsync.
type AsyncOptions struct {
	Timeout time.Duration // 0 disables the timeout race entirely

	// CancelOnTimeout, when true, cancels the context passed to fn once the
	// timeout fires. Default false preserves spec.md §4.4's documented
	// "known issue": the underlying operation keeps running after timeout
	// and its result is discarded (see DESIGN.md).
	CancelOnTimeout bool

	// TimeoutMessage customizes the synthesized TimeoutError's message;
	// defaults to "operation timed out after <d>".
	TimeoutMessage string
}

// TryAsync races fn against opts.Timeout (if set), returning a Future that
// resolves to a Result[T]. Grounded on dmitrymomot-foundation/pkg/async's
// Exec: a goroutine closes a done-channel on completion, and a select races
// it against a timer.
func TryAsync[T any](ctx context.Context, fn func(context.Context) (T, error), opts AsyncOptions, callOpts ...Option) *Future[Result[T]] {
	future := NewFuture[Result[T]]()

	runCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 && opts.CancelOnTimeout {
		runCtx, cancel = context.WithCancel(ctx)
	}

	innerDone := make(chan Result[T], 1)
	go func() {
		innerDone <- TrySync(func() (T, error) { return fn(runCtx) }, callOpts...)
	}()

	go func() {
		if opts.Timeout <= 0 {
			future.Resolve(<-innerDone)
			return
		}
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		select {
		case r := <-innerDone:
			future.Resolve(r)
		case <-timer.C:
			if cancel != nil {
				cancel()
			}
			future.Resolve(Err[T](timeoutError(opts)))
		}
	}()

	return future
}

func timeoutError(opts AsyncOptions) tryerr.TryError {
	msg := opts.TimeoutMessage
	if msg == "" {
		msg = "operation timed out after " + opts.Timeout.String()
	}
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "TimeoutError",
		Message: msg,
		Code:    tryerr.CodeTimeout,
	})
}

// WithTimeout races an already-started Future against a timer, producing a
// TimeoutError if the timer fires first.
func WithTimeout[T any](f *Future[Result[T]], timeout time.Duration, message string) Result[T] {
	v, ok := f.AwaitWithTimeout(timeout)
	if ok {
		return v
	}
	opts := AsyncOptions{Timeout: timeout, TimeoutMessage: message}
	return Err[T](timeoutError(opts))
}

// TryAnyAsync launches every attempt and waits for all of them ("settle
// all" semantics per spec.md §4.4), returning the first success encountered
// while draining, else the last error, else a synthesized failure for an
// empty input.
func TryAnyAsync[T any](ctx context.Context, attempts []func(context.Context) (T, error), callOpts ...Option) Result[T] {
	if len(attempts) == 0 {
		return Err[T](allAttemptsFailed())
	}

	var wg sync.WaitGroup
	results := make([]Result[T], len(attempts))
	for i, fn := range attempts {
		wg.Add(1)
		go func(i int, fn func(context.Context) (T, error)) {
			defer wg.Done()
			results[i] = TrySync(func() (T, error) { return fn(ctx) }, callOpts...)
		}(i, fn)
	}
	wg.Wait()

	var last tryerr.TryError
	for _, r := range results {
		if r.IsOk() {
			return r
		}
		last = r.Error()
	}
	if last == nil {
		last = allAttemptsFailed()
	}
	return Err[T](last)
}

// TryAnySequential short-circuits on the first success, never starting
// attempt n+1 until attempt n has failed — unlike TryAnyAsync, no goroutine
// is spawned for attempts that never run.
func TryAnySequential[T any](ctx context.Context, attempts []func(context.Context) (T, error), callOpts ...Option) Result[T] {
	if len(attempts) == 0 {
		return Err[T](allAttemptsFailed())
	}
	var last tryerr.TryError
	for _, fn := range attempts {
		r := TrySync(func() (T, error) { return fn(ctx) }, callOpts...)
		if r.IsOk() {
			return r
		}
		last = r.Error()
	}
	return Err[T](last)
}

// RetryOptions configures Retry's exponential backoff.
type RetryOptions struct {
	Attempts      int
	BaseDelay     time.Duration // default 1s
	MaxDelay      time.Duration // default 30s
	BackoffFactor float64       // default 2
	ShouldRetry   func(err tryerr.TryError, attempt int) bool
	Events        *tryevents.Emitter // optional; defaults to tryevents.GlobalEmitter
}

// Retry retries fn with exponential backoff min(base * factor^(n-1), max),
// computed via clamp-before-multiply so the product can never overflow for
// any attempts <= 2^31 (spec.md §8).
func Retry[T any](ctx context.Context, fn func(context.Context) (T, error), opts RetryOptions, callOpts ...Option) Result[T] {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	base := opts.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	factor := opts.BackoffFactor
	if factor <= 0 {
		factor = 2
	}
	events := opts.Events
	if events == nil {
		events = tryevents.GlobalEmitter
	}

	var last Result[T]
	delay := base
	for attempt := 1; attempt <= attempts; attempt++ {
		last = TrySync(func() (T, error) { return fn(ctx) }, callOpts...)
		if last.IsOk() {
			return last
		}
		if opts.ShouldRetry != nil && !opts.ShouldRetry(last.Error(), attempt) {
			return last
		}
		if attempt == attempts {
			break
		}
		events.Emit(tryevents.EventErrorRetry, last.Error())
		select {
		case <-ctx.Done():
			return Err[T](wrapContextErr(ctx))
		case <-time.After(delay):
		}
		delay = nextBackoff(delay, factor, maxDelay)
	}
	return last
}

// nextBackoff computes delay*factor clamped to maxDelay, checking for
// overflow before multiplying rather than after.
func nextBackoff(delay time.Duration, factor float64, maxDelay time.Duration) time.Duration {
	if delay >= maxDelay {
		return maxDelay
	}
	next := float64(delay) * factor
	if next <= 0 || next > float64(maxDelay) {
		return maxDelay
	}
	return time.Duration(next)
}

func wrapContextErr(ctx context.Context) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "Interrupted",
		Message: "retry aborted: " + ctx.Err().Error(),
		Cause:   ctx.Err(),
		Code:    tryerr.CodeInterrupt,
	})
}
