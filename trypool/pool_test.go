// pool_test.go — verification of ErrorPool slot reuse and release semantics.
package trypool

import (
	"testing"

	"github.com/tryerr/tryerr"
)

func TestErrorPool_GetReturnsResetSlot(t *testing.T) {
	t.Parallel()

	p := NewErrorPool()
	s := p.Get()
	if len(s.Ctx) != 0 || len(s.Stack) != 0 {
		t.Fatalf("fresh slot should be empty, got ctx=%v stack=%v", s.Ctx, s.Stack)
	}
}

func TestErrorPool_PutGetRoundTripReusesBacking(t *testing.T) {
	t.Parallel()

	p := NewErrorPool()
	s := p.Get()
	s.Ctx = append(s.Ctx, tryerr.KV{Key: "k", Val: 1})
	s.Stack = append(s.Stack, tryerr.Frame{Function: "f"})
	p.Put(s)

	s2 := p.Get()
	if len(s2.Ctx) != 0 || len(s2.Stack) != 0 {
		t.Fatalf("slot must be reset on reuse, got ctx=%v stack=%v", s2.Ctx, s2.Stack)
	}
}

func TestErrorPool_PutDropsOversizedSlot(t *testing.T) {
	t.Parallel()

	p := NewErrorPool()
	s := p.Get()
	s.Ctx = make([]tryerr.KV, 0, 128)
	// Putting an oversized slot must not panic; whether it's retained or
	// dropped is an implementation detail, so just exercise the path.
	p.Put(s)
}

func TestSlot_RawBuildsIndependentCopies(t *testing.T) {
	t.Parallel()

	p := NewErrorPool()
	s := p.Get()
	s.Ctx = append(s.Ctx, tryerr.KV{Key: "k", Val: "v"})

	raw := s.Raw("failure", "boom", tryerr.CodeInternal, nil)
	if len(raw.Ctx) != 1 || raw.Ctx[0].Key != "k" {
		t.Fatalf("Raw did not carry ctx through: %#v", raw.Ctx)
	}
	if !raw.Pooled {
		t.Fatalf("Raw()'d RawFields must be marked Pooled")
	}

	// Mutating the slot after Raw() must not affect the already-built value.
	s.Ctx[0].Val = "mutated"
	if raw.Ctx[0].Val != "v" {
		t.Fatalf("Raw() must copy, not alias, the slot's ctx slice")
	}
}

func TestErrorPool_ReleaseIgnoresUnpooledErrors(t *testing.T) {
	t.Parallel()

	p := NewErrorPool()
	e := tryerr.BadRequest("x") // not pooled
	p.Release(e)                // must be a no-op, not a panic
}

func TestErrorPool_ReleaseIgnoresNil(t *testing.T) {
	t.Parallel()
	p := NewErrorPool()
	p.Release(nil)
}

func TestGlobalErrorPool_IsUsable(t *testing.T) {
	t.Parallel()
	s := GlobalErrorPool.Get()
	defer GlobalErrorPool.Put(s)
	if s == nil {
		t.Fatalf("GlobalErrorPool.Get returned nil")
	}
}
