package tryresult

import (
	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
)

// convertThrown turns a panic's recovered value, or a plain returned error,
// into a TryError. A cause that already satisfies TryError passes through
// unchanged so existing classification is never discarded; otherwise it
// routes through WrapError (when an errorType was requested) or FromThrown
// (spec.md §4.3's "produces an error via wrap_error... or from_thrown").
func convertThrown(cause any, o options) tryerr.TryError {
	if xe, ok := cause.(tryerr.TryError); ok {
		return xe
	}
	if o.errorType != "" {
		var causeErr error
		if e, ok := cause.(error); ok {
			causeErr = e
		}
		return tryfactory.WrapError(o.errorType, causeErr, o.message, o.context...)
	}
	return tryfactory.FromThrown(cause, o.context...)
}
