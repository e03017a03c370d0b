package tryfactory

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryevents"
)

// WrapError wraps an arbitrary cause under errType, producing a TryError via
// the Default factory. If msg is empty, it is extracted from cause per
// spec.md §4.2: an existing TryError's own message, else cause.Error(), else
// the literal "Unknown error occurred".
func WrapError(errType tryerr.Code, cause error, msg string, ctx ...tryerr.KV) tryerr.TryError {
	return Default.WrapError(errType, cause, msg, ctx...)
}

// WrapError is the Factory-bound equivalent of the package-level WrapError.
func (f *Factory) WrapError(errType tryerr.Code, cause error, msg string, ctx ...tryerr.KV) tryerr.TryError {
	if msg == "" {
		msg = messageFromCause(cause)
	}
	result := f.Create(CreateOptions{
		Type:    string(errType),
		Message: msg,
		Context: ctx,
		Cause:   cause,
		Code:    errType,
	})
	f.emit(tryevents.EventErrorWrapped, result)
	return result
}

func messageFromCause(cause error) string {
	if cause == nil {
		return "Unknown error occurred"
	}
	if xe, ok := cause.(tryerr.TryError); ok && xe.Error() != "" {
		return xe.Error()
	}
	if cause.Error() != "" {
		return cause.Error()
	}
	return "Unknown error occurred"
}

// FromThrown builds a TryError from an arbitrary recovered panic value,
// discriminating its dynamic type into one of the host-exception codes
// spec.md §4.2 and §7 describe. Go's closest equivalents to the JS
// TypeError/ReferenceError/SyntaxError/string/unknown taxonomy:
//
//	*strconv.NumError      -> CodeTypeError    ("TypeError"-shaped: bad conversion)
//	runtime.Error           -> CodeRuntimeError (nil deref, index OOB, etc.)
//	any other error value   -> CodeRuntimeError
//	string / fmt.Stringer   -> CodeStringError  (a bare string/stringer panic value)
//	nil or anything else    -> CodeUnknownError
func FromThrown(cause any, ctx ...tryerr.KV) tryerr.TryError {
	return Default.FromThrown(cause, ctx...)
}

// FromThrown is the Factory-bound equivalent of the package-level FromThrown.
func (f *Factory) FromThrown(cause any, ctx ...tryerr.KV) tryerr.TryError {
	code, msg, err := classifyThrown(cause)
	result := f.Create(CreateOptions{
		Type:    string(code),
		Message: msg,
		Context: ctx,
		Cause:   err,
		Code:    code,
	})
	return result
}

func classifyThrown(cause any) (tryerr.Code, string, error) {
	switch v := cause.(type) {
	case nil:
		return tryerr.CodeUnknownError, "Unknown error occurred", nil
	case *strconv.NumError:
		return tryerr.CodeTypeError, v.Error(), v
	case runtime.Error:
		return tryerr.CodeRuntimeError, v.Error(), v
	case error:
		return tryerr.CodeRuntimeError, v.Error(), v
	case string:
		return tryerr.CodeStringError, v, nil
	case fmt.Stringer:
		return tryerr.CodeStringError, v.String(), nil
	default:
		return tryerr.CodeUnknownError, "Unknown error occurred", nil
	}
}
