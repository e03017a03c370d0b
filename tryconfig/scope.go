// scope.go — scoped configuration that constructs errors against a merged
// view without touching global state, and WithErrorService's handler
// trapping wrapper.
package tryconfig

import (
	"fmt"
	"os"
)

// Scope holds a Config merged against the global configuration at creation
// time, snapshotted so later global Configure/ResetConfig calls do not
// retroactively change what a Scope resolves to.
type Scope struct {
	cfg Config
}

// CreateScope merges cfg onto a snapshot of the current global configuration
// and returns a Scope that tryfactory (via the ConfigSource interface) can
// read from instead of the global singleton.
func CreateScope(cfg Config) *Scope {
	return &Scope{cfg: mergeConfig(GetConfig(), cfg)}
}

// Config returns the scope's merged, effectively-frozen configuration.
func (s *Scope) Config() Config {
	return s.cfg
}

// WithErrorService returns a copy of the current configuration whose OnError
// hook is handler, wrapped so a panic inside handler is trapped: logged to
// stderr when opts.LogInDevelopment (and the current config is in
// development mode), silently swallowed otherwise. The handler's own return
// value is always what WithErrorService's wrapped OnError returns on the
// non-panicking path.
func WithErrorService(handler OnErrorFunc, opts ErrorServiceOptions) Config {
	cfg := GetConfig()
	devMode := cfg.DevelopmentMode
	cfg.OnError = func(e any) (result any) {
		defer func() {
			if r := recover(); r != nil {
				if opts.LogInDevelopment && devMode {
					fmt.Fprintf(os.Stderr, "tryerr: onError handler panicked: %v\n", r)
				}
				result = e
			}
		}()
		return handler(e)
	}
	return cfg
}
