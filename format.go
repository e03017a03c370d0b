// format.go — fmt.Formatter implementation for the tryerr core.
//
// Behavior:
//
//	%s, %v   → concise string (Error()).
//	%+v      → verbose, structured multi-line format:
//	             code=<code> msg="<message>"
//	             ctx: key1=val1 key2=val2 ...
//	             cause: <recursively formatted with %+v>
//	             stack:
//	               funcA file.go:123
//	               funcB other.go:45
//
// Rationale:
//   - Keep core free of logging/HTTP/JSON policy; only fmt formatting.
//   - Deterministic context order via []KV from context.go.
//   - Defer cause formatting to fmt with %+v to preserve nested details.
//   - %+v forces evaluation of a pending lazy stack thunk (via StackTrace()),
//     since the stack section needs it; source and timestamp are not printed
//     and stay lazy.
package tryerr

import (
	"fmt"
	"io"
)

// formatConcise writes the one-line message (delegates to Error()).
func formatConcise(w io.Writer, e error) {
	io.WriteString(w, e.Error())
}

// formatVerbose writes a structured multi-line representation.
// If stk is nil/empty, the stack section is omitted.
// If cause is non-nil, it is formatted with %+v to recurse verbosely.
func formatVerbose(w io.Writer, code Code, msg string, ctx fields, cause error, stk Stack) {
	if code != "" {
		fmt.Fprintf(w, "code=%s ", code)
	}
	fmt.Fprintf(w, "msg=%q", msg)

	if len(ctx) > 0 {
		io.WriteString(w, "\nctx:")
		for _, f := range ctx {
			if f.Key != "" {
				fmt.Fprintf(w, " %s=%v", f.Key, f.Val)
			}
		}
	}

	if cause != nil {
		io.WriteString(w, "\ncause: ")
		fmt.Fprintf(w, "%+v", cause)
	}

	if len(stk) > 0 {
		io.WriteString(w, "\nstack:")
		for _, fr := range stk {
			fmt.Fprintf(w, "\n  %s %s:%d", fr.Function, fr.File, fr.Line)
		}
	}
}

func (e *tryError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			formatVerbose(s, e.code, e.rawMessage(), e.ctx, e.cause, e.StackTrace())
			return
		}
		formatConcise(s, e)
	case 's':
		formatConcise(s, e)
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		formatConcise(s, e)
	}
}

// rawMessage returns the raw message for verbose rendering, distinct from
// Error()'s "code: msg" concatenation so %+v's "code=" header is not
// duplicated inside "msg=". A defect without a message uses its cause's text.
func (e *tryError) rawMessage() string {
	if e.msg != "" {
		return e.msg
	}
	if e.kind == kindDefect && e.cause != nil {
		return e.cause.Error()
	}
	return e.Error()
}
