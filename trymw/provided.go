package trymw

import (
	"time"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/resilience"
	"github.com/tryerr/tryerr/tryresult"
)

// Logger is the minimal logging seam used by Logging, matching the
// shape used throughout tryfactory/tryevents.
type Logger interface {
	Error(msg string, kv ...any)
}

// Logging logs the outcome of next() without altering it.
func Logging(logger Logger) Middleware {
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		r := next()
		if r.IsErr() && logger != nil {
			logger.Error("middleware pipeline error", "error", r.Error().Error(), "type", r.Error().Type())
		}
		return r
	}
}

// RetryOptions configures the Retry middleware.
type RetryOptions struct {
	Attempts    int
	Delay       time.Duration
	ShouldRetry func(err tryerr.TryError, attempt int) bool
}

// Retry re-invokes next() up to Attempts times while it keeps failing.
func Retry(opts RetryOptions) Middleware {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		var last tryresult.Result[any]
		for attempt := 1; attempt <= attempts; attempt++ {
			last = next()
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
}

// Transform applies fn to whatever next() produces.
func Transform(fn func(tryresult.Result[any]) tryresult.Result[any]) Middleware {
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		return fn(next())
	}
}

// EnrichContext attaches kv to an errored result via TryError.With, passing
// successful results through unchanged.
func EnrichContext(kv ...tryerr.KV) Middleware {
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		r := next()
		if !r.IsErr() {
			return r
		}
		enriched := r.Error()
		for _, f := range kv {
			enriched = enriched.With(f.Key, f.Val)
		}
		return tryresult.Err[any](enriched)
	}
}

// CircuitBreaker fails fast via b when the breaker is open, otherwise
// delegates to next and records the outcome.
func CircuitBreaker(b *resilience.Breaker) Middleware {
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		if !b.Allow() {
			return tryresult.Err[any](b.OpenError())
		}
		r := next()
		if r.IsErr() {
			b.RecordFailure()
		} else {
			b.RecordSuccess()
		}
		return r
	}
}

// Compose flattens a sequence of middlewares into a single Middleware,
// preserving their relative order.
func Compose(mws ...Middleware) Middleware {
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		p := NewPipeline(mws...)
		return p.Execute(cur, next)
	}
}

// FilterByType lets results through unchanged unless the result is an error
// whose Type() is not in allowed, in which case fallback produces the
// replacement result.
func FilterByType(allowed []string, fallback func(tryerr.TryError) tryresult.Result[any]) Middleware {
	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		r := next()
		if !r.IsErr() {
			return r
		}
		if _, ok := set[r.Error().Type()]; ok {
			return r
		}
		if fallback != nil {
			return fallback(r.Error())
		}
		return r
	}
}

// RateLimit short-circuits with a synthesized RateLimitExceeded result when
// rl denies admission, otherwise delegates to next.
func RateLimit(rl *resilience.RateLimiter) Middleware {
	return func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any] {
		if _, err := rl.Allow(); err != nil {
			return tryresult.Err[any](err)
		}
		return next()
	}
}
