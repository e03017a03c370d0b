// merge.go — deep-merge and validation for Config, hand-written per nested
// struct rather than via reflection, matching the teacher's preference for
// explicit code over reflection-heavy generics in its own hot paths
// (context.go/stack.go avoid reflect except where canonicalJSON needs it for
// arbitrary user values).
package tryconfig

import "fmt"

// mergeConfig returns a new Config with non-zero fields of override applied
// onto base, recursing into each nested struct field-by-field. Non-struct
// fields simply overwrite when override's value differs from the zero value.
func mergeConfig(base, override Config) Config {
	out := base

	if override.CaptureStackTrace {
		out.CaptureStackTrace = true
	}
	if override.StackTraceLimit != 0 {
		out.StackTraceLimit = override.StackTraceLimit
	}
	if override.IncludeSource {
		out.IncludeSource = true
	}
	if override.MinimalErrors {
		out.MinimalErrors = true
	}
	if override.SkipTimestamp {
		out.SkipTimestamp = true
	}
	if override.SkipContext {
		out.SkipContext = true
	}
	if override.DefaultErrorType != "" {
		out.DefaultErrorType = override.DefaultErrorType
	}
	if override.DevelopmentMode {
		out.DevelopmentMode = true
	}
	if override.Serializer != nil {
		out.Serializer = override.Serializer
	}
	if override.OnError != nil {
		out.OnError = override.OnError
	}

	out.SourceLocation = mergeSourceLocation(base.SourceLocation, override.SourceLocation)
	out.RuntimeDetection = mergeRuntimeDetection(base.RuntimeDetection, override.RuntimeDetection)
	out.Performance = mergePerformance(base.Performance, override.Performance)

	return out
}

func mergeSourceLocation(base, override SourceLocation) SourceLocation {
	out := base
	if override.DefaultStackOffset != 0 {
		out.DefaultStackOffset = override.DefaultStackOffset
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.IncludeFullPath {
		out.IncludeFullPath = true
	}
	if override.Formatter != nil {
		out.Formatter = override.Formatter
	}
	return out
}

func mergeRuntimeDetection(base, override RuntimeDetection) RuntimeDetection {
	out := base
	if override.Enabled {
		out.Enabled = true
	}
	if override.Handlers.Server != nil {
		out.Handlers.Server = override.Handlers.Server
	}
	if override.Handlers.Client != nil {
		out.Handlers.Client = override.Handlers.Client
	}
	if override.Handlers.Edge != nil {
		out.Handlers.Edge = override.Handlers.Edge
	}
	return out
}

func mergePerformance(base, override Performance) Performance {
	out := base
	if override.ErrorCreation.ObjectPooling {
		out.ErrorCreation.ObjectPooling = true
	}
	if override.ErrorCreation.LazyStackTrace {
		out.ErrorCreation.LazyStackTrace = true
	}
	if override.ErrorCreation.PoolSize != 0 {
		out.ErrorCreation.PoolSize = override.ErrorCreation.PoolSize
	}
	if override.ErrorCreation.CacheConstructors {
		out.ErrorCreation.CacheConstructors = true
	}
	if override.ContextCapture.MaxContextSize != 0 {
		out.ContextCapture.MaxContextSize = override.ContextCapture.MaxContextSize
	}
	if override.ContextCapture.DeepClone {
		out.ContextCapture.DeepClone = true
	}
	if override.ContextCapture.Timeout != 0 {
		out.ContextCapture.Timeout = override.ContextCapture.Timeout
	}
	if override.Memory.MaxErrorHistory != 0 {
		out.Memory.MaxErrorHistory = override.Memory.MaxErrorHistory
	}
	if override.Memory.UseWeakRefs {
		out.Memory.UseWeakRefs = true
	}
	if override.Memory.GCHints {
		out.Memory.GCHints = true
	}
	return out
}

// validateConfig schema-checks cfg before Configure accepts it: numeric
// fields must be non-negative, and a non-nil Serializer/OnError must already
// be a function value (guaranteed by Go's type system — the checks here
// cover the remaining spec.md §4.1 "booleans are booleans" requirement that
// Go's static typing makes structurally impossible to violate, so only the
// numeric-range checks do real work).
func validateConfig(cfg Config) error {
	if cfg.StackTraceLimit < 0 {
		return fmt.Errorf("%w: StackTraceLimit must be >= 0, got %d", ErrConfigInvalid, cfg.StackTraceLimit)
	}
	if cfg.Performance.ErrorCreation.PoolSize < 0 {
		return fmt.Errorf("%w: Performance.ErrorCreation.PoolSize must be >= 0, got %d", ErrConfigInvalid, cfg.Performance.ErrorCreation.PoolSize)
	}
	if cfg.Performance.ContextCapture.MaxContextSize < 0 {
		return fmt.Errorf("%w: Performance.ContextCapture.MaxContextSize must be >= 0, got %d", ErrConfigInvalid, cfg.Performance.ContextCapture.MaxContextSize)
	}
	if cfg.Performance.ContextCapture.Timeout < 0 {
		return fmt.Errorf("%w: Performance.ContextCapture.Timeout must be >= 0, got %d", ErrConfigInvalid, cfg.Performance.ContextCapture.Timeout)
	}
	if cfg.Performance.Memory.MaxErrorHistory < 0 {
		return fmt.Errorf("%w: Performance.Memory.MaxErrorHistory must be >= 0, got %d", ErrConfigInvalid, cfg.Performance.Memory.MaxErrorHistory)
	}
	if f := cfg.SourceLocation.Format; f != "" && f != "full" && f != "file:line:column" && f != "file:line" && f != "file" {
		return fmt.Errorf("%w: SourceLocation.Format %q is not one of full|file:line:column|file:line|file", ErrConfigInvalid, f)
	}
	return nil
}
