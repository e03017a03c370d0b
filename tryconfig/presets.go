// presets.go — named configuration presets with an LRU-cached, frozen
// resolution path.
//
// Grounded on dmitrymomot-foundation/core/cache's LRUCache[K,V] doc-specified
// API: bounded capacity, oldest-evicted-first, Get/Put shape.
package tryconfig

import (
	"container/list"
	"fmt"
	"sync"
)

// Built-in presets mirroring spec.md's development/production shape.
var builtinPresets = map[string]Config{
	"development": {
		CaptureStackTrace: true,
		IncludeSource:     true,
		DevelopmentMode:   true,
		DefaultErrorType:  "Error",
		SourceLocation:    SourceLocation{Format: "full"},
	},
	"production": {
		CaptureStackTrace: false,
		IncludeSource:     false,
		DevelopmentMode:   false,
		DefaultErrorType:  "Error",
		Performance: Performance{
			ErrorCreation: PerformanceErrorCreation{
				ObjectPooling:  true,
				LazyStackTrace: true,
				PoolSize:       512,
			},
		},
	},
	"test": {
		CaptureStackTrace: true,
		IncludeSource:     true,
		SkipTimestamp:     true,
		DefaultErrorType:  "Error",
	},
}

// presetCache is an LRU of capacity 20 returning frozen (deep-copied, never
// mutated after insertion) Config values, keyed by preset name.
type presetCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type presetEntry struct {
	key string
	cfg Config
}

func newPresetCache(capacity int) *presetCache {
	return &presetCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *presetCache) get(key string) (Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return Config{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*presetEntry).cfg, true
}

func (c *presetCache) put(key string, cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*presetEntry).cfg = cfg
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&presetEntry{key: key, cfg: cfg})
	c.items[key] = el
	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*presetEntry).key)
	}
}

var globalPresetCache = newPresetCache(20)

// customPresets holds presets registered via RegisterPreset, checked before
// builtinPresets so a host may override "development"/"production"/"test".
var (
	customPresetsMu sync.RWMutex
	customPresets   = map[string]Config{}
)

// RegisterPreset adds or overwrites a named preset available to
// ConfigureFromPreset, invalidating any cached resolution for that name.
func RegisterPreset(name string, cfg Config) {
	customPresetsMu.Lock()
	customPresets[name] = cfg
	customPresetsMu.Unlock()
	globalPresetCache.put(name, cfg.frozen())
}

func resolvePreset(name string) (Config, error) {
	if cfg, ok := globalPresetCache.get(name); ok {
		return cfg, nil
	}

	customPresetsMu.RLock()
	cfg, ok := customPresets[name]
	customPresetsMu.RUnlock()
	if !ok {
		cfg, ok = builtinPresets[name]
	}
	if !ok {
		return Config{}, fmt.Errorf("tryconfig: unknown preset %q", name)
	}

	frozen := cfg.frozen()
	globalPresetCache.put(name, frozen)
	return frozen, nil
}

// ConfigureFromPreset resolves name to a frozen Config (via the LRU preset
// cache) and applies it through Configure.
func ConfigureFromPreset(name string) (Config, error) {
	cfg, err := resolvePreset(name)
	if err != nil {
		return Config{}, err
	}
	return Configure(cfg), nil
}
