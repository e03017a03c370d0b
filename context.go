// context.go — minimal immutable context for the tryerr core.
//
// Ctx semantics (call-sites):
//   - Set-once message (only if empty) and always add fields.
//
// Design:
//   - Internal representation: append-only []KV (deterministic order).
//   - Builders are non-mutating: return NEW slices (no aliasing).
//   - Public view for callers: copy-on-read map[string]any.
//
// Rationale:
//   - Go map iteration order is unspecified; slice preserves insertion order.
//   - Slice append may re-use capacity; we avoid aliasing by allocating when
//     we actually append. No-op paths avoid extra allocations.
//
// Note: All identifiers here are unexported except KV; other files in the
// same package use these helpers to implement TryError methods.
package tryerr

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// KV represents a single contextual key-value pair attached to an error.
// Keys SHOULD be snake_case for consistency; the core does not enforce policy.
type KV struct {
	Key string
	Val any
}

// fields is the internal immutable representation of context.
// Treat it as append-only; never modify elements in place once published.
type fields []KV

// emptyFields is a canonical empty context.
var emptyFields = make(fields, 0)

// ctxCloneAppend returns a slice with dst's contents followed by add.
//
// Rules:
//   - If add is empty:
//   - If dst is empty → return emptyFields.
//   - If dst is non-empty → return dst as-is (no allocation, no copy).
//     This is safe because callers MUST NOT mutate returned slices.
//   - If add is non-empty: allocate a fresh backing array to avoid aliasing.
func ctxCloneAppend(dst fields, add ...KV) fields {
	n := len(dst)
	m := len(add)
	if m == 0 {
		if n == 0 {
			return emptyFields
		}
		// v1.1 micro-alloc optimization: return dst directly for no-op appends.
		// Immutability is preserved by contract (callers never mutate).
		return dst
	}
	out := make(fields, n+m)
	copy(out, dst)
	copy(out[n:], add)
	return out
}

// ctxFromKV parses a variadic list of key-value arguments into fields.
//
// Rules (normative):
//   - Pairs are read left-to-right as (key, value).
//   - Keys MUST be strings; a non-string “key” causes the ENTIRE PAIR to be
//     dropped (the key and its following value, if any). This avoids surprising
//     misalignment where a value becomes the next pair’s key.
//   - A trailing key with no value becomes (key, nil).
//
// Example (why we drop the whole pair):
//
//	// INPUT (bad first key):
//	ctxFromKV(123, "v1", "k2", "v2")
//	// NEW behavior (pair dropped, keeps alignment):
//	//   → [{Key:"k2", Val:"v2"}]
func ctxFromKV(kv ...any) fields {
	if len(kv) == 0 {
		return emptyFields
	}
	out := make(fields, 0, len(kv)/2+1)
	for i := 0; i < len(kv); {
		k, ok := kv[i].(string)
		if !ok {
			// Drop the entire pair (key and its following value, if any)
			// to prevent misalignment of subsequent pairs.
			if i+1 < len(kv) {
				i += 2
			} else {
				i++
			}
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
			i += 2
		} else {
			// Trailing key with no value → nil
			i++
		}
		out = append(out, KV{Key: k, Val: v})
	}
	if len(out) == 0 {
		return emptyFields
	}
	return out
}

// ctxToMap creates a NEW map from fields (copy-on-read).
// Semantics:
//   - Always returns a non-nil map (safe for mutation by the caller).
//   - Later duplicate keys overwrite earlier ones (last-write-wins).
//   - Empty keys are filtered out to avoid polluting caller maps.
func ctxToMap(fs fields) map[string]any {
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		if f.Key == "" {
			continue // filter empty keys
		}
		m[f.Key] = f.Val
	}
	return m
}

// canonicalJSON renders fs as a deterministic, cycle-safe JSON-ish string,
// used as part of the deduplication cache key (type, message, ctx-hash) and
// by Fingerprint for object-valued fields. Cycles become "[Circular]";
// values that still fail to stringify become "[Unstringifiable]".
func canonicalJSON(fs fields) string {
	if len(fs) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	seen := make(map[uintptr]bool, 4)
	for i, f := range fs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(f.Key))
		sb.WriteByte(':')
		stringifyValue(&sb, f.Val, seen, 0)
	}
	sb.WriteByte('}')
	return sb.String()
}

const maxStringifyDepth = 64

// stringifyValue performs a manual DFS over v, guarding against cycles via
// pointer identity at every level of nesting (not just the top). It is not a
// general JSON encoder: it exists purely to produce a stable,
// collision-resistant cache key and fingerprint, so unsupported shapes
// degrade to "[Unstringifiable]" rather than panicking or recursing forever.
func stringifyValue(sb *strings.Builder, v any, seen map[uintptr]bool, depth int) {
	if depth > maxStringifyDepth {
		sb.WriteString(`"[Unstringifiable]"`)
		return
	}
	if v == nil {
		sb.WriteString("null")
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			sb.WriteString("null")
			return
		}
		ptr := rv.Pointer()
		if seen[ptr] {
			sb.WriteString(`"[Circular]"`)
			return
		}
		seen[ptr] = true
		defer delete(seen, ptr)

		sb.WriteByte('{')
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(fmt.Sprint(k.Interface())))
			sb.WriteByte(':')
			stringifyValue(sb, rv.MapIndex(k).Interface(), seen, depth+1)
		}
		sb.WriteByte('}')
		return

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			if rv.IsNil() {
				sb.WriteString("null")
				return
			}
			ptr := rv.Pointer()
			if seen[ptr] {
				sb.WriteString(`"[Circular]"`)
				return
			}
			seen[ptr] = true
			defer delete(seen, ptr)
		}
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			stringifyValue(sb, rv.Index(i).Interface(), seen, depth+1)
		}
		sb.WriteByte(']')
		return

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			sb.WriteString("null")
			return
		}
		if rv.Kind() == reflect.Ptr {
			ptr := rv.Pointer()
			if seen[ptr] {
				sb.WriteString(`"[Circular]"`)
				return
			}
			seen[ptr] = true
			defer delete(seen, ptr)
		}
		stringifyValue(sb, rv.Elem().Interface(), seen, depth+1)
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		sb.WriteString(`"[Unstringifiable]"`)
		return
	}
	sb.Write(b)
}
