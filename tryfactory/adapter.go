package tryfactory

import "github.com/tryerr/tryerr/tryconfig"

// tryconfigSource adapts tryconfig's process-wide singleton to ConfigSource.
type tryconfigSource struct{}

func (tryconfigSource) Snapshot() ConfigView {
	cfg := tryconfig.GetConfig()
	return ConfigView{
		CaptureStackTrace: cfg.CaptureStackTrace,
		StackTraceLimit:   cfg.StackTraceLimit,
		IncludeSource:     cfg.IncludeSource,
		MinimalErrors:     cfg.MinimalErrors,
		SkipTimestamp:     cfg.SkipTimestamp,
		SkipContext:       cfg.SkipContext,

		SourceFormat:    cfg.SourceLocation.Format,
		SourceFormatter: cfg.SourceLocation.Formatter,

		DevelopmentMode: cfg.DevelopmentMode,
		IsProduction:    !cfg.DevelopmentMode,

		LazyStackTrace: cfg.Performance.ErrorCreation.LazyStackTrace,
		ObjectPooling:  cfg.Performance.ErrorCreation.ObjectPooling,

		OnError: cfg.OnError,

		RuntimeDetectionEnabled: cfg.RuntimeDetection.Enabled,
		RuntimeServer:           cfg.RuntimeDetection.Handlers.Server,
		RuntimeClient:           cfg.RuntimeDetection.Handlers.Client,
		RuntimeEdge:             cfg.RuntimeDetection.Handlers.Edge,
	}
}

// DefaultConfigSource adapts the tryconfig package's global configuration.
var DefaultConfigSource ConfigSource = tryconfigSource{}
