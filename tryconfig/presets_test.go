// presets_test.go — verification of preset resolution, caching, and apply.
package tryconfig

import "testing"

func TestConfigureFromPreset_Development(t *testing.T) {
	resetForTest(t)

	cfg, err := ConfigureFromPreset("development")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DevelopmentMode {
		t.Fatalf("development preset should set DevelopmentMode=true")
	}
	if got := GetConfig(); !got.DevelopmentMode {
		t.Fatalf("ConfigureFromPreset should apply via Configure")
	}
}

func TestConfigureFromPreset_UnknownNameErrors(t *testing.T) {
	resetForTest(t)
	_, err := ConfigureFromPreset("nonexistent-preset")
	if err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestResolvePreset_CachesAcrossCalls(t *testing.T) {
	resetForTest(t)

	a, err := resolvePreset("production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := resolvePreset("production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Performance.ErrorCreation.PoolSize != b.Performance.ErrorCreation.PoolSize {
		t.Fatalf("cached preset resolution diverged between calls")
	}
}

func TestRegisterPreset_OverridesBuiltin(t *testing.T) {
	resetForTest(t)

	RegisterPreset("production", Config{DefaultErrorType: "Overridden"})
	cfg, err := resolvePreset("production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultErrorType != "Overridden" {
		t.Fatalf("custom preset should win over builtin: got %q", cfg.DefaultErrorType)
	}
}

func TestPresetCache_EvictsOldestBeyondCapacity(t *testing.T) {
	c := newPresetCache(2)
	c.put("a", Config{StackTraceLimit: 1})
	c.put("b", Config{StackTraceLimit: 2})
	c.put("c", Config{StackTraceLimit: 3})

	if _, ok := c.get("a"); ok {
		t.Fatalf("expected 'a' to be evicted as the oldest entry")
	}
	if _, ok := c.get("b"); !ok {
		t.Fatalf("expected 'b' to remain cached")
	}
	if _, ok := c.get("c"); !ok {
		t.Fatalf("expected 'c' to remain cached")
	}
}
