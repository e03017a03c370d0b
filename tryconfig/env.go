// env.go — environment-driven configuration: runtime environment detection
// and struct-tag-based loading via caarlos0/env.
package tryconfig

import (
	"os"

	"github.com/caarlos0/env/v11"
)

// detectEnvironment inspects TRYERR_ENV then APP_ENV, falling back to
// "development" — grounded on the tag-driven environment conventions
// caarlos0/env-based configs (as used by dmitrymomot-foundation) rely on.
func detectEnvironment() string {
	if v := os.Getenv("TRYERR_ENV"); v != "" {
		return v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		return v
	}
	return "development"
}

// CreateEnvConfig selects envs[detectEnvironment()], falling back to
// envs["development"], falling back to a zero Config.
func CreateEnvConfig(envs map[string]Config) Config {
	key := detectEnvironment()
	if cfg, ok := envs[key]; ok {
		return cfg
	}
	if cfg, ok := envs["development"]; ok {
		return cfg
	}
	return Config{}
}

// envMirror mirrors Config's flat, env-loadable fields with caarlos0/env
// struct tags. Nested behavioral fields (Serializer, OnError, handler funcs)
// have no environment-variable representation and are left to Configure.
type envMirror struct {
	CaptureStackTrace bool   `env:"CAPTURE_STACK_TRACE"`
	StackTraceLimit   int    `env:"STACK_TRACE_LIMIT" envDefault:"32"`
	IncludeSource     bool   `env:"INCLUDE_SOURCE" envDefault:"true"`
	MinimalErrors     bool   `env:"MINIMAL_ERRORS"`
	SkipTimestamp     bool   `env:"SKIP_TIMESTAMP"`
	SkipContext       bool   `env:"SKIP_CONTEXT"`
	DefaultErrorType  string `env:"DEFAULT_ERROR_TYPE" envDefault:"Error"`
	DevelopmentMode   bool   `env:"DEVELOPMENT_MODE"`

	SourceFormat          string `env:"SOURCE_FORMAT" envDefault:"file:line"`
	SourceIncludeFullPath bool   `env:"SOURCE_INCLUDE_FULL_PATH"`

	ObjectPooling  bool `env:"OBJECT_POOLING"`
	LazyStackTrace bool `env:"LAZY_STACK_TRACE"`
	PoolSize       int  `env:"POOL_SIZE" envDefault:"256"`

	MaxContextSize int  `env:"MAX_CONTEXT_SIZE"`
	DeepCloneCtx   bool `env:"DEEP_CLONE_CONTEXT"`

	MaxErrorHistory int  `env:"MAX_ERROR_HISTORY"`
	UseWeakRefs     bool `env:"USE_WEAK_REFS"`
}

// LoadFromEnv populates a Config from environment variables named
// "<prefix><FIELD>", e.g. prefix "TRYERR_" reads TRYERR_CAPTURE_STACK_TRACE.
func LoadFromEnv(prefix string) (Config, error) {
	var m envMirror
	if err := env.ParseWithOptions(&m, env.Options{Prefix: prefix}); err != nil {
		return Config{}, err
	}
	return Config{
		CaptureStackTrace: m.CaptureStackTrace,
		StackTraceLimit:   m.StackTraceLimit,
		IncludeSource:     m.IncludeSource,
		MinimalErrors:     m.MinimalErrors,
		SkipTimestamp:     m.SkipTimestamp,
		SkipContext:       m.SkipContext,
		DefaultErrorType:  m.DefaultErrorType,
		DevelopmentMode:   m.DevelopmentMode,
		SourceLocation: SourceLocation{
			Format:          m.SourceFormat,
			IncludeFullPath: m.SourceIncludeFullPath,
		},
		Performance: Performance{
			ErrorCreation: PerformanceErrorCreation{
				ObjectPooling:  m.ObjectPooling,
				LazyStackTrace: m.LazyStackTrace,
				PoolSize:       m.PoolSize,
			},
			ContextCapture: PerformanceContextCapture{
				MaxContextSize: m.MaxContextSize,
				DeepClone:      m.DeepCloneCtx,
			},
			Memory: PerformanceMemory{
				MaxErrorHistory: m.MaxErrorHistory,
				UseWeakRefs:     m.UseWeakRefs,
			},
		},
	}, nil
}
