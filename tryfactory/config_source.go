// Package tryfactory implements the error factory: the four creation paths
// (minimal, production-fast, lazy, normal), the deduplication cache, source
// inference, and object-pool integration. It sits directly above tryerr
// (for TryError/RawFields), trypool (for slot reuse), and tryevents (for the
// error:created/wrapped broadcasts), and reads configuration through the
// ConfigSource seam below rather than depending on tryconfig's concrete
// Config type in its core logic — the same leaf-level layering discipline
// tryerr's own stack.go/context.go observe toward error.go.
package tryfactory

// ConfigView is the minimal projection of configuration the factory needs.
// Keeping it local (instead of referencing tryconfig.Config directly in the
// creation paths) lets tests and alternative hosts drive the factory with a
// literal value, with no dependency on tryconfig's process-wide singleton.
type ConfigView struct {
	CaptureStackTrace bool
	StackTraceLimit   int
	IncludeSource     bool
	MinimalErrors     bool
	SkipTimestamp     bool
	SkipContext       bool

	SourceFormat    string // "full" | "file:line:column" | "file:line" | "file"
	SourceFormatter func(file string, line int) string
	InternalPaths   []string

	DevelopmentMode bool
	IsProduction    bool

	LazyStackTrace bool
	ObjectPooling  bool

	OnError func(e any) any

	RuntimeDetectionEnabled bool
	RuntimeServer           func(e any) any
	RuntimeClient           func(e any) any
	RuntimeEdge             func(e any) any
}

// ConfigSource supplies the active configuration snapshot at creation time.
type ConfigSource interface {
	Snapshot() ConfigView
}

// StaticConfigSource is a fixed ConfigView wired up as a ConfigSource,
// handy for tests and for hosts that manage configuration outside tryconfig.
type StaticConfigSource ConfigView

// Snapshot implements ConfigSource.
func (s StaticConfigSource) Snapshot() ConfigView { return ConfigView(s) }
