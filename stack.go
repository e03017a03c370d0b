// stack.go — selective stack capture for the tryerr core.
//
// Design goals:
//   - Interop & correctness: use runtime.Callers + runtime.CallersFrames for
//     accurate frame resolution (handles inlining correctly).
//   - Minimal policy: no global toggles here; callers opt in via WithStack*.
//   - Pragmatic performance: bounded depth, cheap defaults, allocate only when
//     capture is requested.
//
// Skip model (centralized):
//   - captureStack accounts for its own internal frames:
//       +1 for runtime.Callers
//       +1 for captureStack
//     => baseSkip = 2
//   - Because we commonly call captureStack via captureStackDefault, we set
//     baseSkip = 3 to also hide captureStackDefault by default.
//   - Callers pass ONLY their extra frames to skip (skipExtra).
//
// Typical chains:
//
//   WithStack → WithStackSkip → CaptureStack → captureStack → runtime.Callers
//     • CaptureStack adds 1 so baseSkip (3) also hides the frame that called
//       it; WithStackSkip(0) therefore starts at WithStackSkip's caller.
//     • WithStack calls WithStackSkip(1) to hide itself as well.
//
//   Defect(...) → captureStackDefault(0) → captureStack → runtime.Callers
//     • baseSkip (3) hides runtime.Callers, captureStack, captureStackDefault.
//
// Notes:
//   - We keep depth modest (defaultMaxDepth) and resolve frames via CallersFrames.
package tryerr

import (
	"runtime"
)

// Frame represents a single call site in a stack trace.
type Frame struct {
	PC       uintptr // program counter of the call return
	File     string  // absolute file path (as provided by runtime)
	Line     int     // line number
	Function string  // fully-qualified function name (pkg.Func or method)
}

// Stack is a slice of Frames from most recent call outward.
type Stack []Frame

const (
	// defaultMaxDepth captures meaningful context without excessive work
	// on exceptional paths.
	defaultMaxDepth = 64
)

// captureStack captures a stack. The function accounts for its own internal frames:
// +1 for runtime.Callers, +1 for captureStack, and +1 for captureStackDefault.
// Callers pass only their extra skip (skipExtra).
func captureStack(skipExtra, maxDepth int) Stack {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	pc := make([]uintptr, maxDepth)

	// See header notes: hide runtime.Callers, captureStack, captureStackDefault.
	const baseSkip = 3
	n := runtime.Callers(baseSkip+skipExtra, pc)
	if n == 0 {
		return nil
	}
	pc = pc[:n]

	frames := runtime.CallersFrames(pc)
	out := make(Stack, 0, n)
	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			PC:       fr.PC,
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return out
}

// captureStackDefault captures a stack with a conservative default depth,
// skipping only the additional frames requested by the caller (skipExtra).
func captureStackDefault(skipExtra int) Stack {
	return captureStack(skipExtra, defaultMaxDepth)
}

// CaptureStack is the exported capture entry point used by tryfactory's
// normal/lazy creation paths, which sit in a different package and therefore
// need their own skip accounting (they are not one of the fixed call chains
// baseSkip was tuned for). skipExtra counts frames above the immediate
// caller of CaptureStack.
func CaptureStack(skipExtra, maxDepth int) Stack {
	return captureStack(skipExtra+1, maxDepth)
}

// FirstUserFrame returns the first frame in st whose File does not match any
// glob in internalPaths (e.g. the module's own factory/wrapper internals),
// and whether one was found. An empty internalPaths matches nothing, so the
// first frame is always returned.
func FirstUserFrame(st Stack, internalPaths []string) (Frame, bool) {
	for _, fr := range st {
		if !matchesAny(fr.File, internalPaths) {
			return fr, true
		}
	}
	return Frame{}, false
}

func matchesAny(file string, globs []string) bool {
	for _, g := range globs {
		if pathContains(file, g) {
			return true
		}
	}
	return false
}

// pathContains is a tiny, dependency-free substring guard used in place of a
// full glob matcher: internalPaths entries are plain substrings (e.g.
// "/tryfactory/", "/tryresult/") to match against absolute file paths.
func pathContains(file, substr string) bool {
	if substr == "" {
		return false
	}
	return indexOf(file, substr) >= 0
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}
