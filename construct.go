// construct.go — semantic constructors for the tryerr core.
//
// Scope (tiny core):
//   - Offer pragmatic semantic constructors (domain + infra + synthesized).
//   - Build every value atop the single *tryError shape in errorvalue.go.
//   - Keep policy out (no logging/HTTP/JSON/retry policy here).
//
// Interop:
//   - errors.Is/As work via Unwrap chains (and stdlib errors.Join for multi-error, elsewhere).
//   - Interrupt unwraps to canonical context errors (context.Canceled / context.DeadlineExceeded).
//
// Formatting & message semantics:
//   - .Ctx(...) and .CtxBound(...) DO NOT concatenate messages; the message stays stable.
//     If msg is empty on the receiver and a non-empty msg is provided, it is set once.
//     Additional details belong in structured context (kv), not in growing ": "-joined strings.
package tryerr

import (
	"context"
	"fmt"
	"time"
)

// newTryError builds a fully-formed, branded *tryError with an eager
// timestamp. Domain constructors always run the eager path; the lazy
// creation path lives in tryfactory, which assembles values through
// NewFromRaw instead.
func newTryError(kind errKind, typ string, msg string, code Code, ctx fields, cause error) *tryError {
	return &tryError{
		brand:     trueBrand,
		kind:      kind,
		typ:       typ,
		msg:       msg,
		code:      code,
		ctx:       ctx,
		cause:     cause,
		timestamp: time.Now().UnixMilli(),
	}
}

// -----------------------------------------------------------------------------
// Semantic constructors — Domain (4xx-aligned intent, no HTTP in core)
// -----------------------------------------------------------------------------

// NotFound creates a not_found failure, typically for missing entities.
func NotFound(entity string, id any) TryError {
	return newTryError(kindFailure, string(CodeNotFound),
		fmt.Sprintf("%s not found", entity), CodeNotFound,
		ctxFromKV("entity", entity, "id", id), nil)
}

// Invalid indicates syntactic or semantic invalid input.
func Invalid(field, reason string) TryError {
	return newTryError(kindFailure, string(CodeInvalid),
		"invalid "+field, CodeInvalid,
		ctxFromKV("field", field, "reason", reason), nil)
}

// Unprocessable indicates the request was well-formed but semantically unacceptable.
func Unprocessable(field, reason string) TryError {
	return newTryError(kindFailure, string(CodeUnprocessable),
		"unprocessable "+field, CodeUnprocessable,
		ctxFromKV("field", field, "reason", reason), nil)
}

func BadRequest(msg string) TryError {
	return newTryError(kindFailure, string(CodeBadRequest), msg, CodeBadRequest, emptyFields, nil)
}

func Unauthorized(msg string) TryError {
	return newTryError(kindFailure, string(CodeUnauthorized), msg, CodeUnauthorized, emptyFields, nil)
}

func Forbidden(resource string) TryError {
	return newTryError(kindFailure, string(CodeForbidden),
		"forbidden", CodeForbidden, ctxFromKV("resource", resource), nil)
}

func Conflict(msg string) TryError {
	return newTryError(kindFailure, string(CodeConflict), msg, CodeConflict, emptyFields, nil)
}

func TooManyRequests(resource string) TryError {
	return newTryError(kindFailure, string(CodeTooManyRequests),
		"too many requests", CodeTooManyRequests, ctxFromKV("resource", resource), nil)
}

// -----------------------------------------------------------------------------
// Semantic constructors — Infrastructure (5xx-aligned intent, no HTTP in core)
// -----------------------------------------------------------------------------

// Internal wraps an underlying error as an internal failure and captures a stack.
// If err is nil, returns a generic internal error with a stack capture so the
// boundary is still debuggable.
func Internal(err error) TryError {
	fe := newTryError(kindFailure, string(CodeInternal), "internal error", CodeInternal, emptyFields, err)
	return fe.WithStack() // capture once at the boundary
}

// Timeout indicates operation took longer than expected. Records duration.
func Timeout(d time.Duration) TryError {
	return newTryError(kindFailure, string(CodeTimeout),
		"timeout", CodeTimeout, ctxFromKV("timeout_ms", float64(d.Milliseconds())), nil)
	// leave cause nil; use InterruptDeadline for canonical context unwrap
}

// Unavailable indicates a transient unavailability (e.g., dependency down).
func Unavailable(service string) TryError {
	return newTryError(kindFailure, string(CodeUnavailable),
		"unavailable", CodeUnavailable, ctxFromKV("service", service), nil)
}

// -----------------------------------------------------------------------------
// Semantic constructors — Programming defects & cooperative interrupts
// -----------------------------------------------------------------------------

// Defect wraps an unexpected programming error; always captures a stack.
func Defect(err error) TryError {
	if err == nil {
		err = fmt.Errorf("nil defect") // avoid nil unwrap surprises
	}
	e := newTryError(kindDefect, string(CodeDefect), "", CodeDefect, emptyFields, err)
	e.stack = captureStackDefault(0)
	return e
}

// Interrupt denotes cooperative cancellation not attributable to defects.
// It unwraps to context.Canceled by default; use InterruptDeadline for timeouts.
func Interrupt(reason string) TryError {
	return newTryError(kindInterrupt, string(CodeInterrupt), reason, CodeInterrupt, emptyFields, context.Canceled)
}

// InterruptDeadline denotes deadline expiration and unwraps to context.DeadlineExceeded.
func InterruptDeadline(reason string) TryError {
	return newTryError(kindInterrupt, string(CodeInterrupt), reason, CodeInterrupt, emptyFields, context.DeadlineExceeded)
}

// -----------------------------------------------------------------------------
// Semantic constructors — Synthesized by resilience/config/conventional shapes
// -----------------------------------------------------------------------------

// CircuitBreakerOpen reports that a named breaker is refusing calls.
func CircuitBreakerOpen(name string) TryError {
	return newTryError(kindFailure, string(CodeCircuitBreakerOpen),
		"circuit breaker open", CodeCircuitBreakerOpen, ctxFromKV("breaker", name), nil)
}

// RateLimitExceeded reports that key has exceeded its allotted rate, with an
// advisory retryAfter duration attached as context.
func RateLimitExceeded(key string, retryAfter time.Duration) TryError {
	return newTryError(kindFailure, string(CodeRateLimitExceeded),
		"rate limit exceeded", CodeRateLimitExceeded,
		ctxFromKV("key", key, "retry_after_ms", float64(retryAfter.Milliseconds())), nil)
}

// ConfigInvalid reports a rejected configuration field/value pair.
func ConfigInvalid(field, reason string) TryError {
	return newTryError(kindFailure, string(CodeConfigInvalid),
		"invalid config", CodeConfigInvalid, ctxFromKV("field", field, "reason", reason), nil)
}

// EntityError reports a problem with a specific domain entity instance.
func EntityError(entity string, id any, reason string) TryError {
	return newTryError(kindFailure, string(CodeEntityError),
		fmt.Sprintf("%s error", entity), CodeEntityError,
		ctxFromKV("entity", entity, "id", id, "reason", reason), nil)
}

// AmountError reports a rejected numeric/monetary quantity.
func AmountError(field string, amount any, reason string) TryError {
	return newTryError(kindFailure, string(CodeAmountError),
		"invalid amount", CodeAmountError,
		ctxFromKV("field", field, "amount", amount, "reason", reason), nil)
}

// ExternalError wraps a failure surfaced by a call to an external dependency.
func ExternalError(service string, err error) TryError {
	return newTryError(kindFailure, string(CodeExternalError),
		"external call failed", CodeExternalError, ctxFromKV("service", service), err)
}

// ValidationError reports a generic field-level validation failure, distinct
// from Invalid/Unprocessable in that it carries no fixed HTTP-adjacent intent.
func ValidationError(field, reason string) TryError {
	return newTryError(kindFailure, string(CodeValidationError),
		"validation failed", CodeValidationError, ctxFromKV("field", field, "reason", reason), nil)
}

// -----------------------------------------------------------------------------
// Convenience constructors — Wrapping and ad-hoc creation
// -----------------------------------------------------------------------------

// Ctx wraps an existing error with an additional message and key-values.
// If err already implements TryError, it will be augmented immutably.
// Otherwise it becomes an internal failure with 'err' as cause.
//
// Message semantics: same as per-value .Ctx — no concatenation; set once if empty.
func Ctx(err error, msg string, kv ...any) TryError {
	if err == nil {
		return newTryError(kindFailure, string(CodeInternal), msg, CodeInternal, ctxFromKV(kv...), nil)
	}
	if xe, ok := err.(TryError); ok {
		return xe.Ctx(msg, kv...)
	}
	return newTryError(kindFailure, string(CodeInternal), msg, CodeInternal, ctxFromKV(kv...), err)
}

// New creates a new internal failure with a message and optional context.
// Prefer semantic constructors when possible.
func New(msg string, kv ...any) TryError {
	return newTryError(kindFailure, string(CodeInternal), msg, CodeInternal, ctxFromKV(kv...), nil)
}
