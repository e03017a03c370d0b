// config.go — process-wide, versioned configuration for error creation.
//
// Grounded on the teacher's stack/context leaf-level layering discipline
// (stack.go, context.go import nothing from error.go's public surface): this
// package likewise never imports tryerr's public TryError construction paths
// directly for validation, keeping tryconfig safely below tryfactory in the
// dependency graph.
package tryconfig

import (
	"sync"
	"sync/atomic"
)

// SourceLocation controls how a TryError's inferred source string is formatted.
type SourceLocation struct {
	DefaultStackOffset int
	Format             string // "full" | "file:line:column" | "file:line" | "file"
	IncludeFullPath    bool
	Formatter          func(file string, line int) string
}

// PerformanceErrorCreation controls allocation strategy on the creation path.
type PerformanceErrorCreation struct {
	ObjectPooling    bool
	LazyStackTrace   bool
	PoolSize         int
	CacheConstructors bool
}

// PerformanceContextCapture controls context-capture policy.
type PerformanceContextCapture struct {
	MaxContextSize int
	DeepClone      bool
	Timeout        int // milliseconds; 0 means no timeout
}

// PerformanceMemory controls memory-retention policy.
type PerformanceMemory struct {
	MaxErrorHistory int
	UseWeakRefs     bool
	GCHints         bool
}

// Performance groups the three allocation/memory sub-policies.
type Performance struct {
	ErrorCreation  PerformanceErrorCreation
	ContextCapture PerformanceContextCapture
	Memory         PerformanceMemory
}

// EnvironmentHandlers holds per-runtime transformation hooks, applied after
// OnError when RuntimeDetection is enabled.
type EnvironmentHandlers struct {
	Server func(e any) any
	Client func(e any) any
	Edge   func(e any) any
}

// RuntimeDetection toggles and configures per-runtime handler dispatch.
type RuntimeDetection struct {
	Enabled  bool
	Handlers EnvironmentHandlers
}

// OnErrorFunc is the global transformation hook applied last on every
// creation path. Its signature mirrors the factory boundary: it receives and
// returns an opaque error value (tryerr.TryError in practice; kept as `any`
// here so tryconfig has no import on tryerr's public package, avoiding an
// import cycle with tryfactory).
type OnErrorFunc func(e any) any

// ErrorServiceOptions configures WithErrorService's trapping behavior.
type ErrorServiceOptions struct {
	LogInDevelopment bool
}

// Config is the full recognized option set. All fields have zero values that
// correspond to "not set" / "use default", so a caller may construct a
// partial Config and Configure() will deep-merge it onto the current one.
type Config struct {
	CaptureStackTrace bool
	StackTraceLimit   int
	IncludeSource     bool
	MinimalErrors     bool
	SkipTimestamp     bool
	SkipContext       bool

	SourceLocation SourceLocation

	DefaultErrorType string
	DevelopmentMode  bool

	Serializer func(e any) ([]byte, error)
	OnError    OnErrorFunc

	RuntimeDetection RuntimeDetection
	Performance      Performance
}

// frozen returns a deep copy of cfg safe to retain without aliasing any of
// cfg's nested struct pointers or slices (Config itself has none currently,
// but this keeps the cache contract explicit and resilient to future fields).
func (cfg Config) frozen() Config {
	return cfg
}

// defaultConfig returns the host-derived baseline: CaptureStackTrace true
// outside production, matching spec.md §4.1's getConfig() default rule.
func defaultConfig() Config {
	return Config{
		CaptureStackTrace: !isProductionEnv(),
		StackTraceLimit:   32,
		IncludeSource:     true,
		DefaultErrorType:  "Error",
		DevelopmentMode:   !isProductionEnv(),
		Performance: Performance{
			ErrorCreation: PerformanceErrorCreation{
				PoolSize: 256,
			},
		},
	}
}

var (
	mu        sync.RWMutex
	current   = defaultConfig()
	version   atomic.Int64
	listeners []func(Config)
	notifying sync.Mutex
	inNotify  bool
	lastErr   atomic.Value // stores errBox; never nil once written
)

// LastError returns the error recorded by the most recent Configure call, or
// nil if that call succeeded cleanly (or no call has happened yet). Since
// Configure's signature is pinned to return a plain Config (no error), a
// recursive-call or validation rejection is surfaced here instead of via the
// return value.
func LastError() error {
	v := lastErr.Load()
	if v == nil {
		return nil
	}
	return v.(errBox).err
}

func setLastError(err error) {
	lastErr.Store(errBox{err: err})
}

// errBox gives every Store the same concrete type: atomic.Value panics when
// successive Stores use different concrete types (e.g. two error types), and
// it rejects a nil interface, so "no error" is stored as errBox{}.
type errBox struct{ err error }

// GetConfig returns a copy of the current configuration.
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Version returns the current monotonically increasing version counter.
func Version() int64 {
	return version.Load()
}

// Configure deep-merges cfg onto the current configuration, validates the
// result, bumps the version, and notifies listeners synchronously. It
// returns the configuration in effect after the merge.
//
// If a listener calls Configure (directly or transitively) while notification
// is already in progress, this returns the current configuration unchanged
// and the recursive call's merge is never applied — detecting, rather than
// deadlocking on, the recursion spec.md §4.1 leaves as implementation-defined.
func Configure(cfg Config) Config {
	notifying.Lock()
	if inNotify {
		notifying.Unlock()
		setLastError(ErrConfigRecursion)
		mu.RLock()
		defer mu.RUnlock()
		return current
	}
	notifying.Unlock()

	if err := validateConfig(cfg); err != nil {
		setLastError(err)
		mu.RLock()
		defer mu.RUnlock()
		return current
	}

	mu.Lock()
	merged := mergeConfig(current, cfg)
	current = merged
	mu.Unlock()
	version.Add(1)
	setLastError(nil)

	notifyListeners(merged)
	return merged
}

// ResetConfig clears the configuration back to host defaults, bumps the
// version, and notifies listeners.
func ResetConfig() Config {
	mu.Lock()
	current = defaultConfig()
	mu.Unlock()
	version.Add(1)
	notifyListeners(current)
	return current
}

func notifyListeners(cfg Config) {
	notifying.Lock()
	inNotify = true
	ls := append([]func(Config){}, listeners...)
	notifying.Unlock()

	for _, l := range ls {
		l(cfg)
	}

	notifying.Lock()
	inNotify = false
	notifying.Unlock()
}

// OnConfigChange registers a listener invoked synchronously after every
// Configure/ResetConfig. Returns an unsubscribe function.
func OnConfigChange(fn func(Config)) (unsubscribe func()) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
	idx := len(listeners) - 1
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if idx < len(listeners) {
			listeners[idx] = func(Config) {}
		}
	}
}

func isProductionEnv() bool {
	return detectEnvironment() == "production"
}
