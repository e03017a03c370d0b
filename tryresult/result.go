// Package tryresult provides Result[T]/Tuple[T] value types and the
// synchronous and asynchronous combinators built on top of them:
// try_sync/try_async and their map/chain/all/any/retry/fallback relatives.
//
// Grounded on the teacher's own tagged-union instinct (tryerr's single
// *tryError shape discriminated by errKind) generalized to a generic
// success-or-error container, and on dmitrymomot-foundation/pkg/async's
// ExecFuture/Exec/ExecAll/ExecAny pattern for the asynchronous half.
package tryresult

import "github.com/tryerr/tryerr"

// Result is the tagged union of a success value and an error, mirroring
// spec.md §3's Result shape. The zero value reports IsErr() with a nil
// Error().
type Result[T any] struct {
	val T
	err tryerr.TryError
	ok  bool
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] { return Result[T]{val: v, ok: true} }

// Err wraps a failure.
func Err[T any](e tryerr.TryError) Result[T] { return Result[T]{err: e, ok: false} }

// IsOk reports whether r holds a success value.
func (r Result[T]) IsOk() bool { return r.ok }

// IsErr reports whether r holds an error. IsOk(r) XOR IsErr(r) always holds.
func (r Result[T]) IsErr() bool { return !r.ok }

// Value returns the wrapped success value and whether r is Ok.
func (r Result[T]) Value() (T, bool) { return r.val, r.ok }

// Error returns the wrapped error, or nil if r is Ok.
func (r Result[T]) Error() tryerr.TryError {
	if r.ok {
		return nil
	}
	return r.err
}

// Unwrap returns the success value or panics with the wrapped error.
func Unwrap[T any](r Result[T]) T {
	if r.ok {
		return r.val
	}
	panic(r.err)
}

// UnwrapOr returns the success value, or def if r is an error.
func UnwrapOr[T any](r Result[T], def T) T {
	if r.ok {
		return r.val
	}
	return def
}

// UnwrapOrElse returns the success value, or the result of calling fn(err).
func UnwrapOrElse[T any](r Result[T], fn func(err tryerr.TryError) T) T {
	if r.ok {
		return r.val
	}
	return fn(r.err)
}

// IsOk reports whether r is a success Result.
func IsOk[T any](r Result[T]) bool { return r.ok }

// IsErr reports whether r is a failure Result.
func IsErr[T any](r Result[T]) bool { return !r.ok }

// Tuple is the (value, error) adapter spec.md §4.3 calls try_sync_tuple —
// a destructuring-friendly alternative to Result for callers that prefer
// Go's native two-value idiom.
type Tuple[T any] struct {
	Value T
	Err   tryerr.TryError
}

// ToTuple converts a Result into its Tuple form.
func ToTuple[T any](r Result[T]) Tuple[T] {
	if r.ok {
		return Tuple[T]{Value: r.val}
	}
	return Tuple[T]{Err: r.err}
}
