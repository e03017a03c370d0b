// doc.go — package documentation for tryerr
//
// Package tryerr provides a tiny, policy-free error core with a single
// branded value type (TryError), an immutable context model, and fmt-based
// structured formatting. It is designed to be:
//   - Ergonomic at call sites (small surface, clear semantics)
//   - Interoperable with the stdlib (errors.Is/As/Join, fmt.Formatter)
//   - Policy-free (no HTTP/logging/retry rules in core)
//
// Higher-level concerns — versioned configuration, a pooling/dedup factory,
// Result/Future combinators, resilience primitives (circuit breaker, rate
// limiter, bounded queue), an event emitter, middleware pipeline, and a
// plugin manager — live in sibling packages (tryconfig, tryfactory, trypool,
// tryresult, resilience, tryevents, trymw, tryplugin) so the core stays small
// enough to audit in one sitting.
//
// # Message Semantics
//
// tryerr separates **message** operations from **context** (structured fields).
// The API is intentionally small and explicit:
//
//   - Ctx(msg, kv...):
//     Set-once message (only if empty) AND always add fields (no concatenation).
//     Use for boundary notes + structured context.
//   - CtxBound(msg, maxFields, kv...):
//     Same as Ctx, but caps the total field count, keeping the newest.
//
// Typical pattern:
//
//	err := NotFound("user", 42).
//	           Ctx("lookup failed", "tenant", "acme").
//	           With("attempt", 2)
//
// Results in a concise Error() and a rich %+v format (see formatting below).
//
// # When Are Stacks Captured?
//
// Stacks are captured deliberately to mark boundaries and avoid accidental cost.
// Use `.WithStack()` to opt in where needed.
//
//	+-------------------------------+-------------------+-------------------------------+
//	| Constructor / Operation       | Captures stack?   | Rationale                     |
//	+-------------------------------+-------------------+-------------------------------+
//	| Internal(err)                 | YES (always)      | Boundary; aids debugging       |
//	| Defect(err)                   | YES (always)      | Programming bug                |
//	| Timeout/Unavailable/...       | NO (default)      | Cheap classification by design |
//	| WithStack()/WithStackSkip(n)  | YES (opt-in)      | Precise capture site           |
//	| Interrupt/InterruptDeadline   | NO                 | Cooperative cancel; unwraps    |
//	+-------------------------------+-------------------+-------------------------------+
//
// Guidance:
//   - Use `Internal(err)` at boundaries; it always captures a stack (even if err is nil).
//   - Domain constructors (e.g., `Timeout`) are cheap; add `.WithStack()` only where useful.
//   - tryfactory's lazy creation path defers Source/StackTrace/Timestamp
//     computation until first read, then memoizes; observable behavior is
//     identical to the eager constructors in this package.
//
// # Bounding & Order (Context)
//
// Context is an append-only `[]KV` with deterministic order. When you must
// cap growth (e.g., in retry loops), use `CtxBound(msg, max, kv...)`.
//
//   - Behavior: keeps the NEWEST fields, drops the oldest.
//   - Example: given [a, b, c, d, e] and max=3 → keeps [c, d, e] (newest).
//
// Guidance:
//   - For **must-keep IDs** (request_id, tenant), prefer **typed fields** and set them
//     early; bounded context will still keep the most recent assignment.
//   - Duplicate keys are allowed; “last write wins” when exposed via `Context()`.
//
// # Foreign Error Caveat
//
// Helpers like `HasCode`, `CodeOf`, and typed-field fast paths operate on errors
// that implement TryError (or expose CodeVal()). “Foreign” errors (from other
// packages) with ad-hoc metadata **won’t** be interpreted unless they:
//   - Implement TryError, or
//   - Are wrapped by tryerr constructors (e.g., `Internal(err)`).
//
// You can still attach structured context around foreign errors using `Ctx(...)`.
//
// # Formatting
//
// tryerr implements `fmt.Formatter` for rich diagnostics:
//   - `%v`, `%s`   → concise, single-line `Error()`
//   - `%+v`        → verbose, multi-line (code, msg, ctx, cause, stack)
//   - `%q`         → quoted `Error()`
//
// Joining multiple errors: use `tryerr.Join` for `%+v`-aware recursion.
// `errors.Is/As` traverse via `Unwrap()` (including multi-error unwraps).
//
// # Performance Notes
//
// The core is designed for low overhead in the common path while remaining
// precise when you need detail.
//
//   - **Copy-on-write**: all fluent methods return new values (immutability).
//   - No-op paths avoid allocations (e.g., Ctx with no kv keeps existing slice).
//   - `ctxCloneAppend` allocates only when appending new fields.
//   - **Typed fields**: `TypedField.Get` reads via `Context()`, which builds a
//     copy-on-read map (one allocation per call).
//   - **Stack capture**: costs only when you call `Internal/Defect` (always) or
//     opt in with `WithStack()`.
//   - **Formatting**: verbose `%+v` is lazy; concise `%v` remains cheap.
//   - **Pooling**: trypool.ErrorPool amortizes allocation for hot paths that
//     create and discard many short-lived errors.
//
// # Interop
//
//   - `errors.Is/As/Join` work as expected; unwrap chains are respected.
//   - Interrupt errors unwrap to canonical `context` sentinels
//     (`context.Canceled`, `context.DeadlineExceeded`).
//   - The public `Context()` returns a copy-on-read `map[string]any` with last-write-wins.
//
// # Minimal Surface, Clear Semantics
//
// The core surface is intentionally small to remain ergonomic:
//   - Ctx / CtxBound
//   - With / WithStack / WithStackSkip
//   - Domain & infra constructors (NotFound, Invalid, Timeout, Internal, …)
//   - Serialize / Deserialize / Clone / AreEqual / Fingerprint / Diff / Group /
//     Summary / Correlate for export and analysis boundaries (serialize.go)
package tryerr
