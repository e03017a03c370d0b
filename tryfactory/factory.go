package tryfactory

import (
	"time"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryevents"
	"github.com/tryerr/tryerr/trypool"
)

// Logger is the minimal sink for onError/handler panics the factory
// recovers rather than propagates.
type Logger interface {
	Error(msg string, kv ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// EventSink receives lifecycle broadcasts. *tryevents.Emitter satisfies this
// structurally with no import of tryevents.Name required at the call site.
type EventSink interface {
	Emit(name tryevents.Name, payload any)
}

// CreateOptions mirrors spec.md §4.2's create_error contract.
type CreateOptions struct {
	Type    string
	Message string
	Context []tryerr.KV
	Cause   error
	Code    tryerr.Code

	Source      string // explicit override; if set, skips inference entirely
	Timestamp   int64  // explicit override in epoch-ms; 0 means "compute per path"
	StackOffset int    // extra frames to skip above the immediate caller of Create

	// CaptureStackTrace, when true, forces stack capture regardless of
	// config and bypasses the dedup cache (spec.md §4.2: "cache hits bypass
	// creation entirely when the caller did not explicitly request stack
	// capture").
	CaptureStackTrace bool
}

// Factory assembles TryError values via the four creation paths, wired to a
// ConfigSource, an object pool, and an event sink. The zero value is not
// usable; construct with NewFactory or use Default.
type Factory struct {
	Config ConfigSource
	Pool   *trypool.ErrorPool
	Events EventSink
	Logger Logger
	Dedup  *dedupCache
}

// NewFactory builds a Factory with the given collaborators, defaulting any
// nil field to the package-wide singleton it mirrors.
func NewFactory(cfg ConfigSource, pool *trypool.ErrorPool, events EventSink, logger Logger) *Factory {
	if cfg == nil {
		cfg = DefaultConfigSource
	}
	if pool == nil {
		pool = trypool.GlobalErrorPool
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Factory{Config: cfg, Pool: pool, Events: events, Logger: logger, Dedup: globalDedupCache}
}

// Default is the process-wide Factory, reading from tryconfig's global
// singleton, trypool's global pool, and tryevents' global emitter.
var Default = NewFactory(DefaultConfigSource, trypool.GlobalErrorPool, tryevents.GlobalEmitter, nil)

// Create builds a TryError using the package-wide Default factory.
func Create(opts CreateOptions) tryerr.TryError {
	return Default.Create(opts)
}

// Create implements the four creation paths described in spec.md §4.2,
// selected from the factory's current configuration snapshot.
func (f *Factory) Create(opts CreateOptions) tryerr.TryError {
	cfg := f.Config.Snapshot()

	key, usesDedup := f.dedupKeyFor(opts, cfg)
	if usesDedup {
		if cached, ok := f.Dedup.get(key); ok {
			return cached
		}
	}

	var result tryerr.TryError
	switch {
	case cfg.MinimalErrors && !opts.CaptureStackTrace:
		result = f.createMinimal(opts, cfg)
	case cfg.IsProduction && !cfg.CaptureStackTrace && !cfg.IncludeSource && !opts.CaptureStackTrace:
		result = f.createProductionFast(opts, cfg)
	case cfg.LazyStackTrace && !cfg.IsProduction && !opts.CaptureStackTrace:
		result = f.createLazy(opts, cfg)
	default:
		result = f.createNormal(opts, cfg)
	}

	result = f.applyHandlers(result, cfg)

	if usesDedup {
		f.Dedup.put(key, result)
	}
	f.emit(tryevents.EventErrorCreated, result)
	return result
}

// dedupKeyFor computes the cache key for opts, and whether dedup applies at
// all (explicit stack-capture requests always bypass the cache).
func (f *Factory) dedupKeyFor(opts CreateOptions, cfg ConfigView) (dedupKey, bool) {
	if opts.CaptureStackTrace {
		return dedupKey{}, false
	}
	return dedupKey{typ: opts.Type, msg: opts.Message, ctx: canonicalContextJSON(opts.Context)}, true
}

func (f *Factory) createMinimal(opts CreateOptions, cfg ConfigView) tryerr.TryError {
	ts := int64(0)
	if opts.Timestamp != 0 {
		ts = opts.Timestamp
	}
	ctx := opts.Context
	if cfg.SkipContext {
		ctx = nil
	}
	return tryerr.NewFromRaw(tryerr.RawFields{
		Type:      opts.Type,
		Msg:       opts.Message,
		Code:      opts.Code,
		Ctx:       ctx,
		Cause:     opts.Cause,
		Source:    "minimal",
		Timestamp: ts,
	})
}

func (f *Factory) createProductionFast(opts CreateOptions, cfg ConfigView) tryerr.TryError {
	ts := nowMillis(opts.Timestamp, cfg.SkipTimestamp)
	ctx := opts.Context
	if cfg.SkipContext {
		ctx = nil
	}
	raw := tryerr.RawFields{
		Type:      opts.Type,
		Msg:       opts.Message,
		Code:      opts.Code,
		Ctx:       ctx,
		Cause:     opts.Cause,
		Source:    "production",
		Timestamp: ts,
	}
	return f.withPool(opts, cfg, raw)
}

func (f *Factory) createLazy(opts CreateOptions, cfg ConfigView) tryerr.TryError {
	ctx := opts.Context
	if cfg.SkipContext {
		ctx = nil
	}
	skip := opts.StackOffset
	internalPaths := cfg.InternalPaths

	raw := tryerr.RawFields{
		Type:  opts.Type,
		Msg:   opts.Message,
		Code:  opts.Code,
		Ctx:   ctx,
		Cause: opts.Cause,
	}
	if opts.Source != "" {
		raw.Source = opts.Source
	} else {
		raw.SourceFn = func() string {
			return inferSource(skip+2, cfg.SourceFormat, cfg.SourceFormatter, internalPaths)
		}
	}
	if opts.Timestamp != 0 {
		raw.Timestamp = opts.Timestamp
	} else if !cfg.SkipTimestamp {
		raw.TimestampFn = func() int64 { return time.Now().UnixMilli() }
	}
	raw.StackFn = func() tryerr.Stack {
		return tryerr.CaptureStack(skip+2, cfg.StackTraceLimit)
	}
	return f.withPool(opts, cfg, raw)
}

func (f *Factory) createNormal(opts CreateOptions, cfg ConfigView) tryerr.TryError {
	ts := nowMillis(opts.Timestamp, cfg.SkipTimestamp)
	ctx := opts.Context
	if cfg.SkipContext {
		ctx = nil
	}

	src := opts.Source
	if src == "" && cfg.IncludeSource {
		src = inferSource(opts.StackOffset+1, cfg.SourceFormat, cfg.SourceFormatter, cfg.InternalPaths)
	}

	var stack tryerr.Stack
	if cfg.CaptureStackTrace || opts.CaptureStackTrace {
		stack = tryerr.CaptureStack(opts.StackOffset+1, cfg.StackTraceLimit)
	}

	raw := tryerr.RawFields{
		Type:      opts.Type,
		Msg:       opts.Message,
		Code:      opts.Code,
		Ctx:       ctx,
		Cause:     opts.Cause,
		Source:    src,
		Timestamp: ts,
		Stack:     stack,
	}
	return f.withPool(opts, cfg, raw)
}

// withPool acquires a slot when object pooling is enabled and assembles the
// final value through it; otherwise it builds directly from raw.
func (f *Factory) withPool(opts CreateOptions, cfg ConfigView, raw tryerr.RawFields) tryerr.TryError {
	if !cfg.ObjectPooling || f.Pool == nil {
		return tryerr.NewFromRaw(raw)
	}
	slot := f.Pool.Get()
	slot.Ctx = append(slot.Ctx, raw.Ctx...)
	if len(raw.Stack) > 0 {
		slot.Stack = append(slot.Stack, raw.Stack...)
	}
	pooledRaw := slot.Raw(raw.Type, raw.Msg, raw.Code, raw.Cause)
	pooledRaw.Source = raw.Source
	pooledRaw.SourceFn = raw.SourceFn
	pooledRaw.Timestamp = raw.Timestamp
	pooledRaw.TimestampFn = raw.TimestampFn
	if raw.StackFn != nil {
		pooledRaw.StackFn = raw.StackFn
		pooledRaw.Stack = nil
	}
	// Raw() already copied slot's buffers out into pooledRaw; the slot
	// itself can go back to the pool immediately.
	f.Pool.Put(slot)
	f.emit(tryevents.EventErrorPooled, nil)
	return tryerr.NewFromRaw(pooledRaw)
}

func nowMillis(explicit int64, skip bool) int64 {
	if explicit != 0 {
		return explicit
	}
	if skip {
		return 0
	}
	return time.Now().UnixMilli()
}

// applyHandlers runs the global onError hook, then (if runtime detection is
// enabled) the runtime-matched environment handler, trapping panics from
// either. Handler results are not folded back into the TryError itself
// (doing so would require retyping an `any` back into tryerr.TryError,
// which is the caller's decision to make) — applyHandlers logs and returns
// the original, untransformed error, matching spec.md §4.2's "handler
// failures are logged and the untransformed error returned."
func (f *Factory) applyHandlers(e tryerr.TryError, cfg ConfigView) tryerr.TryError {
	f.safeCall(cfg.OnError, e)
	if cfg.RuntimeDetectionEnabled {
		f.safeCall(cfg.RuntimeServer, e)
		f.safeCall(cfg.RuntimeClient, e)
		f.safeCall(cfg.RuntimeEdge, e)
	}
	return e
}

func (f *Factory) safeCall(handler func(e any) any, e tryerr.TryError) {
	if handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			f.Logger.Error("tryfactory: handler panicked", "recover", r)
		}
	}()
	handler(e)
}

func (f *Factory) emit(name tryevents.Name, payload any) {
	if f.Events == nil {
		return
	}
	f.Events.Emit(name, payload)
}
