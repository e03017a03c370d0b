package tryresult

import (
	"errors"
	"testing"

	"github.com/tryerr/tryerr"
)

func TestTrySync_WrapsReturnedError(t *testing.T) {
	r := TrySync(func() (int, error) { return 0, errors.New("boom") })
	if !r.IsErr() {
		t.Fatalf("expected error result")
	}
}

func TestTrySync_RecoversPanic(t *testing.T) {
	r := TrySync(func() (int, error) { panic("kaboom") })
	if !r.IsErr() {
		t.Fatalf("expected panic to convert to an error result")
	}
}

func TestTrySync_SuccessPassesThrough(t *testing.T) {
	r := TrySync(func() (int, error) { return 42, nil })
	v, ok := r.Value()
	if !ok || v != 42 {
		t.Fatalf("expected Ok(42), got %v ok=%v", v, ok)
	}
}

func TestIsOkXorIsErr(t *testing.T) {
	ok := Ok(1)
	fail := Err[int](tryerr.Internal(errors.New("x")))
	if IsOk(ok) == IsErr(ok) {
		t.Fatalf("IsOk XOR IsErr must hold for Ok")
	}
	if IsOk(fail) == IsErr(fail) {
		t.Fatalf("IsOk XOR IsErr must hold for Err")
	}
}

func TestTryMap_PassesThroughError(t *testing.T) {
	fail := Err[int](tryerr.Internal(errors.New("x")))
	mapped := TryMap(fail, func(i int) string { return "mapped" })
	if mapped.Error() != fail.Error() {
		t.Fatalf("try_map(err, f) must equal err unchanged")
	}
}

func TestTryChain_PassesThroughError(t *testing.T) {
	fail := Err[int](tryerr.Internal(errors.New("x")))
	chained := TryChain(fail, func(i int) Result[string] { return Ok("never") })
	if chained.Error() != fail.Error() {
		t.Fatalf("try_chain(err, f) must equal err unchanged")
	}
}

func TestTryAll_SuccessesInOrder(t *testing.T) {
	r := TryAll([]Result[int]{Ok(1), Ok(2), Ok(3)})
	v, ok := r.Value()
	if !ok || len(v) != 3 || v[0] != 1 || v[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", v)
	}
}

func TestTryAll_ShortCircuitsOnFirstError(t *testing.T) {
	wantErr := tryerr.Internal(errors.New("boom"))
	r := TryAll([]Result[int]{Ok(1), Err[int](wantErr), Ok(3)})
	if r.Error() != wantErr {
		t.Fatalf("expected the first error, got %v", r.Error())
	}
}

func TestTryAll_EmptyIsEmptySuccess(t *testing.T) {
	r := TryAll([]Result[int]{})
	v, ok := r.Value()
	if !ok || len(v) != 0 {
		t.Fatalf("try_all([]) must equal []: got %v ok=%v", v, ok)
	}
}

func TestTryAny_EmptyIsError(t *testing.T) {
	r := TryAny[int](nil)
	if !r.IsErr() {
		t.Fatalf("try_any([]) must be an error")
	}
}

func TestTryAny_FirstSuccessWins(t *testing.T) {
	r := TryAny([]func() Result[int]{
		func() Result[int] { return Err[int](tryerr.Internal(errors.New("e1"))) },
		func() Result[int] { return Ok(7) },
		func() Result[int] { return Ok(99) },
	})
	v, ok := r.Value()
	if !ok || v != 7 {
		t.Fatalf("expected first success (7), got %v ok=%v", v, ok)
	}
}

func TestRetrySync_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	r := RetrySync(func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("not yet")
		}
		return "ok", nil
	}, RetrySyncOptions{Attempts: 3, Delay: 0})

	v, ok := r.Value()
	if !ok || v != "ok" {
		t.Fatalf("expected eventual success, got %v ok=%v", v, ok)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 invocations, got %d", calls)
	}
}

func TestWithFallback_FallsBackOnError(t *testing.T) {
	r := WithFallback(
		func() Result[int] { return Err[int](tryerr.Internal(errors.New("primary failed"))) },
		func() Result[int] { return Ok(5) },
		nil,
	)
	v, ok := r.Value()
	if !ok || v != 5 {
		t.Fatalf("expected fallback value 5, got %v ok=%v", v, ok)
	}
}

func TestWithFallback_RespectsPredicate(t *testing.T) {
	primaryErr := tryerr.Internal(errors.New("do not fall back"))
	r := WithFallback(
		func() Result[int] { return Err[int](primaryErr) },
		func() Result[int] { return Ok(5) },
		func(tryerr.TryError) bool { return false },
	)
	if r.Error() != primaryErr {
		t.Fatalf("expected primary error to be preserved when predicate is false")
	}
}
