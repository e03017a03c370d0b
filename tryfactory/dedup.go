package tryfactory

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tryerr/tryerr"
)

// dedupCapacity matches the spec's bounded-at-1000 deduplication cache.
const dedupCapacity = 1000

// dedupKey is (type, message, canonical-context-json) — the spec's exact
// dedup key shape.
type dedupKey struct {
	typ string
	msg string
	ctx string
}

// dedupCache is a bounded, FIFO-evicted map from dedupKey to a previously
// produced TryError. A cache hit returns the SAME instance, satisfying the
// spec's "creating the same (type, message, context) twice... yields the
// same object instance" seed scenario.
type dedupCache struct {
	mu       sync.RWMutex
	entries  map[dedupKey]tryerr.TryError
	order    []dedupKey
	capacity int
}

func newDedupCache(capacity int) *dedupCache {
	if capacity <= 0 {
		capacity = dedupCapacity
	}
	return &dedupCache{
		entries:  make(map[dedupKey]tryerr.TryError, capacity),
		order:    make([]dedupKey, 0, capacity),
		capacity: capacity,
	}
}

func (c *dedupCache) get(k dedupKey) (tryerr.TryError, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[k]
	return v, ok
}

func (c *dedupCache) put(k dedupKey, v tryerr.TryError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[k]; exists {
		c.entries[k] = v
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = v
	c.order = append(c.order, k)
}

func (c *dedupCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// globalDedupCache is the process-wide singleton alongside tryconfig's
// config singleton and trypool's pool/intern singletons (spec.md §5).
var globalDedupCache = newDedupCache(dedupCapacity)

// canonicalContextJSON renders ctx as a deterministic, cycle-safe string for
// use as a dedup-cache/fingerprint key component. Mirrors tryerr's own
// unexported canonicalJSON (context.go) since that helper isn't exported
// across the package boundary; same DFS + visited-pointer-identity
// technique as the teacher's unwrap.go markSeen.
func canonicalContextJSON(ctx []tryerr.KV) string {
	if len(ctx) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	seen := make(map[uintptr]bool, 4)
	for i, kv := range ctx {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(kv.Key))
		sb.WriteByte(':')
		stringifyValue(&sb, kv.Val, seen, 0)
	}
	sb.WriteByte('}')
	return sb.String()
}

const maxStringifyDepth = 64

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
			return toString(keys[i].Interface()) < toString(keys[j].Interface())
		})
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(toString(k.Interface())))
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

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[Unstringifiable]"
	}
	return string(b)
}
