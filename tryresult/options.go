package tryresult

import "github.com/tryerr/tryerr"

// options discriminates the call-site configuration spec.md §4.3 describes
// as "an options object... recognized iff it is a plain mapping containing
// at least one of errorType, context, message". Go's functional-options
// idiom replaces that runtime shape-sniffing outright: there is nothing to
// discriminate because Option values can never be confused with positional
// arguments (see DESIGN.md for this Open Question-adjacent translation).
type options struct {
	errorType tryerr.Code
	context   []tryerr.KV
	message   string
}

// Option configures how a thrown value or returned error is converted into
// a TryError by TrySync/TryCall/RetrySync.
type Option func(*options)

// WithErrorType selects the classification code used when converting a
// thrown value or non-TryError returned error.
func WithErrorType(c tryerr.Code) Option {
	return func(o *options) { o.errorType = c }
}

// WithContext attaches additional structured fields to the converted error.
func WithContext(kv ...tryerr.KV) Option {
	return func(o *options) { o.context = append(o.context, kv...) }
}

// WithMessage overrides the message used when converting, instead of
// extracting one from the cause.
func WithMessage(msg string) Option {
	return func(o *options) { o.message = msg }
}

func resolveOptions(opts []Option) options {
	var o options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
