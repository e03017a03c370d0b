package tryresult

import (
	"time"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
)

// TrySync invokes fn, converting a panic or a returned error into a
// TryError via convertThrown, per spec.md §4.3.
func TrySync[T any](fn func() (T, error), opts ...Option) (res Result[T]) {
	o := resolveOptions(opts)
	defer func() {
		if r := recover(); r != nil {
			res = Err[T](convertThrown(r, o))
		}
	}()
	v, err := fn()
	if err != nil {
		return Err[T](convertThrown(err, o))
	}
	return Ok(v)
}

// TrySyncTuple is the (value, error) adapter form of TrySync.
func TrySyncTuple[T any](fn func() (T, error), opts ...Option) Tuple[T] {
	return ToTuple(TrySync(fn, opts...))
}

// TryCall invokes fn with args, discriminated from opts at compile time via
// Go's functional-options idiom rather than spec.md §4.3's runtime
// "plain-object-shape" sniffing.
func TryCall[T any](fn func(args ...any) (T, error), args []any, opts ...Option) Result[T] {
	return TrySync(func() (T, error) { return fn(args...) }, opts...)
}

// TryMap applies f to a success value, catching any panic f raises and
// converting it via FromThrown. Errors pass through unchanged.
func TryMap[T, U any](r Result[T], f func(T) U) (res Result[U]) {
	if r.IsErr() {
		return Err[U](r.Error())
	}
	defer func() {
		if rec := recover(); rec != nil {
			res = Err[U](tryfactory.FromThrown(rec))
		}
	}()
	return Ok(f(r.val))
}

// TryChain is monadic bind: f must itself produce a Result. Unlike TryMap,
// TryChain does not recover a panic from f — the chainer is expected to
// return failures as values, per spec.md §4.3.
func TryChain[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.IsErr() {
		return Err[U](r.Error())
	}
	return f(r.val)
}

// TryAll short-circuits on the first error; otherwise returns every success
// value in input order. An empty input returns an empty, successful slice.
func TryAll[T any](rs []Result[T]) Result[[]T] {
	out := make([]T, 0, len(rs))
	for _, r := range rs {
		if r.IsErr() {
			return Err[[]T](r.Error())
		}
		out = append(out, r.val)
	}
	return Ok(out)
}

// TryAny returns the first success among attempts, else the last observed
// error, else a synthesized "all attempts failed" error when attempts is
// empty.
func TryAny[T any](attempts []func() Result[T]) Result[T] {
	if len(attempts) == 0 {
		return Err[T](allAttemptsFailed())
	}
	var last tryerr.TryError
	for _, attempt := range attempts {
		r := attempt()
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

func allAttemptsFailed() tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "AllAttemptsFailed",
		Message: "all attempts failed",
		Code:    tryerr.CodeInternal,
	})
}

// RetrySyncOptions configures RetrySync.
type RetrySyncOptions struct {
	Attempts    int
	Delay       time.Duration
	ShouldRetry func(err tryerr.TryError, attempt int) bool
}

// RetrySync polls ShouldRetry between attempts, sleeping Delay before each
// retry. The delay is a real blocking time.Sleep — spec.md §9's "advisory
// busy-wait" framing is about timing precision, not mechanism, in a Go
// port with a real OS scheduler (see DESIGN.md).
func RetrySync[T any](fn func() (T, error), opts RetrySyncOptions, callOpts ...Option) Result[T] {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var last Result[T]
	for attempt := 1; attempt <= attempts; attempt++ {
		last = TrySync(fn, callOpts...)
		if last.IsOk() {
			return last
		}
		if opts.ShouldRetry != nil && !opts.ShouldRetry(last.Error(), attempt) {
			return last
		}
		if attempt < attempts && opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}
	return last
}

// WithFallback tries primary; on an error satisfying shouldFallback (or
// when shouldFallback is nil, on any error), it tries fallback instead.
func WithFallback[T any](primary func() Result[T], fallback func() Result[T], shouldFallback func(tryerr.TryError) bool) Result[T] {
	r := primary()
	if r.IsOk() {
		return r
	}
	if shouldFallback != nil && !shouldFallback(r.Error()) {
		return r
	}
	return fallback()
}
