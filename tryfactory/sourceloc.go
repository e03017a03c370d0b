package tryfactory

import (
	"fmt"
	"strconv"

	"github.com/tryerr/tryerr"
)

// defaultInternalPaths filters this package's own frames out of inferred
// source locations — the Go analog of spec.md §4.2's "drop frames inside
// node_modules" rule, generalized from the teacher's fixed stack.go skip
// counts into a configurable substring-match list.
var defaultInternalPaths = []string{"/tryfactory/"}

// inferSource captures a stack (skipping skipExtra frames above the
// immediate caller of inferSource) and formats the first frame outside
// internalPaths per format. Go has exactly one frame grammar
// (runtime.CallersFrames), so unlike spec.md §4.2's V8/Firefox/Safari
// three-grammar fallback, there is nothing to parse or disambiguate here —
// see DESIGN.md for this Open Question resolution.
func inferSource(skipExtra int, format string, formatter func(string, int) string, internalPaths []string) string {
	st := tryerr.CaptureStack(skipExtra+1, 0)
	if len(st) == 0 {
		return "unknown"
	}
	if internalPaths == nil {
		internalPaths = defaultInternalPaths
	}
	fr, ok := tryerr.FirstUserFrame(st, internalPaths)
	if !ok {
		return "unknown"
	}
	return formatFrame(fr, format, formatter)
}

func formatFrame(fr tryerr.Frame, format string, formatter func(string, int) string) string {
	if formatter != nil {
		if s := formatter(fr.File, fr.Line); s != "" {
			return s
		}
	}
	switch format {
	case "file":
		return fr.File
	case "file:line":
		return fr.File + ":" + strconv.Itoa(fr.Line)
	case "full":
		return fmt.Sprintf("%s (%s:%d)", fr.Function, fr.File, fr.Line)
	case "file:line:column", "":
		// Go's runtime frames carry no column; "file:line:column" degrades
		// to "file:line" rather than fabricating a column number.
		return fr.File + ":" + strconv.Itoa(fr.Line)
	default:
		return fr.File + ":" + strconv.Itoa(fr.Line)
	}
}

// sourceFromStack re-derives the formatted location from an already
// captured Stack, without recapturing. Nothing in the package calls it; the
// lazy path infers its source through inferSource.
func sourceFromStack(st tryerr.Stack, format string, formatter func(string, int) string, internalPaths []string) string {
	if len(st) == 0 {
		return "unknown"
	}
	if internalPaths == nil {
		internalPaths = defaultInternalPaths
	}
	fr, ok := tryerr.FirstUserFrame(st, internalPaths)
	if !ok {
		return "unknown"
	}
	return formatFrame(fr, format, formatter)
}
