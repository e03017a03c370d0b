// Copyright (c) 2025.
// SPDX-License-Identifier: MIT
//
// See the LICENSE file in the project root for license information.

// Package tryerr defines the minimal, composable, branded error model used
// across tryerr-based projects. It focuses on precise classification,
// structured context, and near-zero cost when the extra debug machinery
// (stacks, source inference) is turned off, while remaining perfectly
// interoperable with the Go standard library.
//
// Design tenets:
//   - Interop-first: play nicely with errors.Is/As and errors.Join.
//   - Minimal surface: no logging/HTTP/JSON policy in core.
//   - Non-mutating ergonomics: fluent builders return a new value.
//   - Selective stacks: callers (or the factory's config) opt in; defects
//     capture by default.
//   - Non-forgeable brand: only this package's constructors can produce a
//     value that satisfies IsTryError.
//
// Implementations SHOULD:
//   - Keep fluent methods non-mutating (copy-on-write).
//   - Implement Unwrap() error (and optionally Unwrap() []error on join
//     types) so stdlib traversal (errors.Is/As) observes full causal chains.
//
// Notes on semantics (normative):
//   - Message chaining (Ctx): if the current message is empty, it becomes msg;
//     if msg is empty, message is unchanged (but kv fields are still added);
//     otherwise the existing message is kept (messages are never concatenated).
//   - Context fields (Ctx/CtxBound/With): appended in call order as key/value
//     pairs. Non-string "key" causes the entire pair (key and its following
//     value, if any) to be dropped to avoid misalignment. A trailing key with
//     no value is recorded as (key, nil).
//   - Bounded context (CtxBound): enforces a maximum number of total fields;
//     when exceeded, newest fields are kept and the oldest are dropped until
//     total <= maxFields. New fields from kv are added first, then truncation
//     is applied if needed.
//   - Stack capture: WithStack() attempts to skip internal helpers so captured
//     frames begin at or near the user call site. Depending on inlining and
//     tooling, 1–2 boundary frames may still appear.
package tryerr

// brandToken is the non-forgeable marker that distinguishes values produced
// by this package's constructors from any other type that happens to
// implement the same method set. Because brandToken and trueBrand are both
// unexported, no code outside this package can construct a *tryError with
// the correct brand value.
type brandToken struct{ v byte }

var trueBrand = brandToken{v: 1}

// TryError is the branded, fluent, interop-friendly contract for tryerr
// errors. It is the sole subject of the spec: a value satisfying TryError
// carries a classification Code, a free-form discriminant Type, a message,
// optional structured Context, an optional Cause, and optionally a captured
// Source location, Timestamp, and Stack.
//
// All fluent methods MUST be non-mutating: they return a new TryError value
// (copy-on-write) and MUST NOT alter the receiver state. This guarantees
// thread-safety for shared error values and keeps provenance reproducible for
// logs/tests without external synchronization.
//
// Unwrap semantics:
//   - Unwrap() error exposes a causal parent for errors.Is/As.
//   - Multi-error containers (see Join) implement Unwrap() []error instead.
//
// Note: the interface intentionally has no logging/HTTP/JSON methods; JSON
// export is provided by the free functions in serialize.go.
type TryError interface {
	// error provides the canonical concise message string. Keep it concise;
	// rich export (JSON, structured logs) belongs to adapters outside core.
	error

	// Ctx attaches a short contextual message and optional key-value fields.
	// Keys should be snake_case for consistency. Returns a NEW TryError.
	//
	// Example:
	//   err = err.Ctx("query failed", "table", "users", "elapsed_ms", 12.7)
	Ctx(msg string, kv ...any) TryError

	// CtxBound behaves like Ctx but enforces a maximum number of total context
	// fields. When the total would exceed maxFields, it keeps the newest fields
	// and drops the oldest until total <= maxFields. If maxFields <= 0, no
	// bound is applied. Returns a NEW TryError.
	//
	// Example:
	//   err = err.CtxBound("retry", 8, "attempt", n, "backoff_ms", d.Milliseconds())
	CtxBound(msg string, maxFields int, kv ...any) TryError

	// With adds a single key-value field. Returns a NEW TryError.
	With(key string, val any) TryError

	// Code sets or overrides the classification code. Returns a NEW TryError.
	Code(c Code) TryError

	// CodeVal returns the current classification code, or "" if unset.
	CodeVal() Code

	// Type returns the spec's tagged-union discriminant — a non-empty string
	// such as "not_found", "TimeoutError", or a caller-supplied custom tag.
	// Factory-produced errors always carry a non-empty Type.
	Type() string

	// WithStack returns a new TryError that includes a captured stack trace
	// starting at the call site.
	WithStack() TryError

	// WithStackSkip behaves like WithStack but skips an additional number of
	// stack frames above the implementation's default internal skips.
	WithStackSkip(skip int) TryError

	// Context returns a new map containing the structured context fields; the
	// map is empty (never nil) when there are none. The map is a copy
	// (copy-on-read), and fields with an empty key are left out.
	Context() map[string]any

	// Source returns the inferred or configured call-site location, or one
	// of the sentinel strings "disabled"/"unknown"/"minimal"/"production".
	// On the lazy creation path this triggers (and memoizes) computation.
	Source() string

	// Timestamp returns milliseconds since the Unix epoch at creation, or 0
	// when timestamps are suppressed. On the lazy path this triggers (and
	// memoizes) computation.
	Timestamp() int64

	// StackTrace returns the captured stack, or nil if none was captured.
	// On the lazy path this triggers (and memoizes) computation.
	StackTrace() Stack

	// IsPooled reports whether this value was allocated from an object pool
	// and therefore carries the pooled marker Release() checks.
	IsPooled() bool

	// Unwrap returns the immediate cause (if any) to support errors.Is/As.
	Unwrap() error
}
