// raw.go — low-level, brand-setting assembly for sibling packages.
//
// tryfactory, tryconfig, and trypool live outside this package and need to
// assemble fully-formed TryError values (including the lazy creation path)
// without being able to forge brandToken themselves. NewFromRaw is the one
// seam that does it; everything else about *tryError stays unexported.
package tryerr

// RawFields is the set of inputs a sibling package may supply when
// assembling a TryError through NewFromRaw. Any *Fn field, if non-nil, wins
// over the corresponding eager field and makes that property lazy.
type RawFields struct {
	Type  string
	Msg   string
	Code  Code
	Ctx   []KV
	Cause error

	Source    string
	SourceFn  func() string
	Timestamp int64
	TimestampFn func() int64
	Stack     Stack
	StackFn   func() Stack

	Pooled bool
}

// NewFromRaw builds a branded TryError from externally-assembled fields. It
// is the only way outside this package to mint a value that satisfies
// IsTryError, which keeps the brand non-forgeable while still letting
// tryfactory/tryconfig/trypool construct real values.
func NewFromRaw(r RawFields) TryError {
	kind := kindFailure
	switch r.Code {
	case CodeDefect:
		kind = kindDefect
	case CodeInterrupt:
		kind = kindInterrupt
	}

	ctx := ctxFromKV()
	if len(r.Ctx) > 0 {
		ctx = ctxCloneAppend(emptyFields, r.Ctx...)
	}

	e := &tryError{
		brand:     trueBrand,
		kind:      kind,
		typ:       r.Type,
		msg:       r.Msg,
		code:      r.Code,
		ctx:       ctx,
		cause:     r.Cause,
		source:    r.Source,
		timestamp: r.Timestamp,
		stack:     r.Stack,
		pooled:    r.Pooled,
	}

	if r.SourceFn != nil || r.TimestampFn != nil || r.StackFn != nil {
		e.lazy = &lazyState{
			sourceFn: r.SourceFn,
			tsFn:     r.TimestampFn,
			stackFn:  r.StackFn,
		}
	}
	return e
}
