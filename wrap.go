// wrap.go — tiny, stdlib-friendly wrappers that operate on arbitrary errors.
//
// Purpose
//   - Apply tryerr's fluent builders to ANY error value.
//   - Preserve interop with the Go standard library (errors.Is/As/Join).
//   - Stay policy-free: no logging/HTTP/JSON/retry policy here.
//
// Semantics:
//   - From(err):
//       • Pure conversion. If err is nil → returns nil.
//       • If err already implements TryError → returned as-is.
//       • Otherwise → wraps as an internal failure (no stack capture).
//   - Wrap(err, msg, kv...):
//       • Adds message/context. If err is nil → creates a NEW failure,
//         because the caller is asserting error-worthy context (not just converting).
//       • If err already implements TryError → augmented immutably.
//       • Otherwise → wrapped as an internal failure with provided context.
//   - This asymmetry (From(nil) == nil, Wrap(nil, ...) != nil) is intentional and documented.
package tryerr

// From converts any error into TryError. If err is nil, From returns nil (pure conversion).
//   - nil → nil
//   - TryError → returned as-is
//   - other error → wrapped as internal failure (no stack capture here)
func From(err error) TryError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(TryError); ok {
		return xe
	}
	return newTryError(kindFailure, string(CodeInternal), "internal error", CodeInternal, emptyFields, err)
}

// Wrap attaches message/context. If err is nil, Wrap creates a new failure error
// because the caller is explicitly asserting error-worthy context (not a pure conversion).
// This asymmetry with From(nil) is intentional and documented.
//   - If err is TryError → augmented immutably.
//   - Otherwise → wrapped as internal and attaches context.
// Prefer semantic constructors (e.g., NotFound/Invalid) when possible.
func Wrap(err error, msg string, kv ...any) TryError {
	if err == nil {
		return newTryError(kindFailure, string(CodeInternal), msg, CodeInternal, ctxFromKV(kv...), nil)
	}
	if xe, ok := err.(TryError); ok {
		return xe.Ctx(msg, kv...)
	}
	return newTryError(kindFailure, string(CodeInternal), msg, CodeInternal, ctxFromKV(kv...), err)
}

// With attaches a single key/value to any error immutably.
//   - nil → creates new internal failure with that key/value.
//   - TryError → augments immutably.
//   - other → wraps as internal failure and adds key/value.
func With(err error, key string, val any) TryError {
	if err == nil {
		return newTryError(kindFailure, string(CodeInternal), "error", CodeInternal, ctxFromKV(key, val), nil)
	}
	if xe, ok := err.(TryError); ok {
		return xe.With(key, val)
	}
	return newTryError(kindFailure, string(CodeInternal), "internal error", CodeInternal, ctxFromKV(key, val), err)
}

// Recode sets/overrides the classification code on any error immutably.
//   - nil → creates new failure with the provided code.
//   - TryError → applies code immutably.
//   - other → wraps as internal failure and applies code.
func Recode(err error, c Code) TryError {
	if err == nil {
		return newTryError(kindFailure, string(c), "error", c, emptyFields, nil)
	}
	if xe, ok := err.(TryError); ok {
		return xe.Code(c)
	}
	return newTryError(kindFailure, string(c), "internal error", c, emptyFields, err)
}

// WithStack attaches a stack trace to any error immutably.
// For non-tryerr errors, it wraps as internal and captures the stack.
func WithStack(err error) TryError {
	return WithStackSkip(err, 1)
}

// WithStackSkip attaches a stack while skipping 'skip' frames beyond this call.
// For non-tryerr errors, it wraps as internal and captures the stack.
func WithStackSkip(err error, skip int) TryError {
	if err == nil {
		return newTryError(kindFailure, string(CodeInternal), "error", CodeInternal, emptyFields, nil).WithStackSkip(skip + 1)
	}
	if xe, ok := err.(TryError); ok {
		return xe.WithStackSkip(skip + 1) // +1 to skip this helper
	}
	fe := newTryError(kindFailure, string(CodeInternal), "internal error", CodeInternal, emptyFields, err)
	return fe.WithStackSkip(skip + 1)
}
