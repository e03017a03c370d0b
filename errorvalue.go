// errorvalue.go — the single concrete TryError implementation.
//
// The spec models ONE error value shape (brand, type, message, source,
// timestamp, stack, context, cause) rather than several unrelated classes,
// so tryerr has one unexported struct, *tryError, instead of the teacher's
// three concrete types (failureErr/defectErr/interruptErr). The teacher's
// *behavioral* distinctions — defects always capture a stack and can never
// be reclassified, interrupts never capture a stack and are permanently
// CodeInterrupt — survive as a small `kind` discriminant that gates a few
// methods, so domain constructors (construct.go) keep their original
// semantics exactly.
package tryerr

import (
	"fmt"
	"sync"
)

// errKind gates the few behavioral differences the teacher encoded as
// separate types: defects always have a stack and a fixed code; interrupts
// never have a stack and are also fixed-code.
type errKind uint8

const (
	kindFailure errKind = iota
	kindDefect
	kindInterrupt
)

// lazyState backs the factory's lazy creation path (spec.md §4.2): source,
// stack, and timestamp are computed on first read and memoized. Property
// access is indistinguishable from eager access to callers. The pointer is
// shared (never copied) across clones produced by fluent methods, since the
// memoized result does not depend on which clone observes it first.
type lazyState struct {
	sourceOnce sync.Once
	sourceFn   func() string
	sourceVal  string

	stackOnce sync.Once
	stackFn   func() Stack
	stackVal  Stack

	tsOnce sync.Once
	tsFn   func() int64
	tsVal  int64
}

type tryError struct {
	brand     brandToken
	kind      errKind
	typ       string
	msg       string
	code      Code
	ctx       fields
	cause     error
	source    string
	timestamp int64
	stack     Stack
	pooled    bool
	lazy      *lazyState
}

var (
	_ TryError = (*tryError)(nil)
)

func (e *tryError) Error() string {
	switch {
	case e.msg != "" && e.code != "":
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	case e.msg != "":
		return e.msg
	case e.kind == kindDefect && e.cause != nil:
		return fmt.Sprintf("%s: %s", e.code, e.cause.Error())
	case e.code != "":
		return string(e.code)
	case e.typ != "":
		return e.typ
	default:
		return "error"
	}
}

func (e *tryError) Unwrap() error           { return e.cause }
func (e *tryError) CodeVal() Code           { return e.code }
func (e *tryError) Type() string            { return e.typ }
func (e *tryError) Context() map[string]any { return ctxToMap(e.ctx) }
func (e *tryError) IsPooled() bool          { return e.pooled }

func (e *tryError) Source() string {
	if e.lazy != nil && e.lazy.sourceFn != nil {
		e.lazy.sourceOnce.Do(func() { e.lazy.sourceVal = e.lazy.sourceFn() })
		return e.lazy.sourceVal
	}
	return e.source
}

func (e *tryError) Timestamp() int64 {
	if e.lazy != nil && e.lazy.tsFn != nil {
		e.lazy.tsOnce.Do(func() { e.lazy.tsVal = e.lazy.tsFn() })
		return e.lazy.tsVal
	}
	return e.timestamp
}

func (e *tryError) StackTrace() Stack {
	if e.lazy != nil && e.lazy.stackFn != nil {
		e.lazy.stackOnce.Do(func() { e.lazy.stackVal = e.lazy.stackFn() })
		return e.lazy.stackVal
	}
	return e.stack
}

// Ctx attaches optional structured context and, if the current message is
// empty, sets it to the provided msg. It never concatenates messages.
func (e *tryError) Ctx(msg string, kv ...any) TryError {
	n := e.clone()
	if msg != "" && n.msg == "" {
		n.msg = msg
	}
	if len(kv) > 0 {
		n.ctx = ctxCloneAppend(n.ctx, ctxFromKV(kv...)...)
	}
	return n
}

// CtxBound behaves like Ctx but enforces a maximum number of TOTAL context
// fields, keeping the newest and dropping the oldest when exceeded.
func (e *tryError) CtxBound(msg string, maxFields int, kv ...any) TryError {
	n := e.clone()
	if msg != "" && n.msg == "" {
		n.msg = msg
	}
	if len(kv) > 0 {
		n.ctx = ctxCloneAppend(n.ctx, ctxFromKV(kv...)...)
	}
	if maxFields > 0 && len(n.ctx) > maxFields {
		keep := n.ctx[len(n.ctx)-maxFields:]
		copied := make(fields, len(keep))
		copy(copied, keep)
		n.ctx = copied
	}
	return n
}

func (e *tryError) With(key string, val any) TryError {
	n := e.clone()
	n.ctx = ctxCloneAppend(n.ctx, KV{Key: key, Val: val})
	return n
}

// Code sets or overrides the classification code. Defects and interrupts
// are permanently CodeDefect/CodeInterrupt to preserve invariants: the
// clone is still returned (per the "always return a NEW value" contract)
// but the code is left untouched.
func (e *tryError) Code(c Code) TryError {
	n := e.clone()
	if e.kind == kindFailure {
		n.code = c
	}
	return n
}

// WithStack returns a new value with a captured stack trace. Defects always
// captured their stack at creation and never recapture; interrupts never
// carry a stack. Both are no-ops beyond the copy-on-write clone.
func (e *tryError) WithStack() TryError {
	return e.WithStackSkip(1)
}

func (e *tryError) WithStackSkip(skip int) TryError {
	n := e.clone()
	if e.kind != kindFailure {
		return n
	}
	n.lazy = nil // explicit capture overrides any pending lazy thunk
	n.stack = CaptureStack(skip, defaultMaxDepth) // CaptureStack hides this method's own frame
	return n
}

func (e *tryError) clone() *tryError {
	n := *e
	if len(e.ctx) > 0 {
		copied := make(fields, len(e.ctx))
		copy(copied, e.ctx)
		n.ctx = copied
	} else {
		n.ctx = emptyFields
	}
	// A fluent call always produces a fresh heap value outside the pool's
	// ownership; only the factory's direct pool acquisition sets pooled=true.
	n.pooled = false
	return &n
}
