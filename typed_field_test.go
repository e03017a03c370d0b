// typed_field_test.go — basic, type-safety, nil-handling tests for typed_field.go.
package tryerr

import (
	"errors"
	"io"
	"strings"
	"testing"
)

//
// 1) Basic Functionality
//

func TestField_Constructor(t *testing.T) {
	t.Parallel()

	tfI := Field[int]("i")
	if tfI.Key() != "i" {
		t.Fatalf("Field[int](\"i\").Key() = %q, want %q", tfI.Key(), "i")
	}

	tfS := Field[string]("s")
	if tfS.Key() != "s" {
		t.Fatalf("Field[string](\"s\").Key() = %q, want %q", tfS.Key(), "s")
	}

	type U struct{ A, B int }
	tfU := Field[U]("u")
	if tfU.Key() != "u" {
		t.Fatalf("Field[U](\"u\").Key() = %q, want %q", tfU.Key(), "u")
	}
}

func TestSet_BasicRoundTrip(t *testing.T) {
	t.Parallel()

	type S struct{ X int }
	type P struct{ S string }

	base := NotFound("obj", 1) // native tryerr value

	cases := []struct {
		name string
		set  func(TryError) TryError
		get  func(TryError) (bool, string)
	}{
		{"int", func(e TryError) TryError {
			return Field[int]("k").Set(e, 7)
		}, func(e TryError) (bool, string) {
			v, ok := Field[int]("k").Get(e)
			return ok && v == 7, "int=7"
		}},
		{"int64", func(e TryError) TryError {
			return Field[int64]("k64").Set(e, int64(42))
		}, func(e TryError) (bool, string) {
			v, ok := Field[int64]("k64").Get(e)
			return ok && v == 42, "int64=42"
		}},
		{"string", func(e TryError) TryError {
			return Field[string]("s").Set(e, "hello")
		}, func(e TryError) (bool, string) {
			v, ok := Field[string]("s").Get(e)
			return ok && v == "hello", "string=hello"
		}},
		{"bool", func(e TryError) TryError {
			return Field[bool]("b").Set(e, true)
		}, func(e TryError) (bool, string) {
			v, ok := Field[bool]("b").Get(e)
			return ok && v, "bool=true"
		}},
		{"float64", func(e TryError) TryError {
			return Field[float64]("f").Set(e, 3.14)
		}, func(e TryError) (bool, string) {
			v, ok := Field[float64]("f").Get(e)
			return ok && v == 3.14, "float64=3.14"
		}},
		{"struct", func(e TryError) TryError {
			return Field[S]("st").Set(e, S{X: 9})
		}, func(e TryError) (bool, string) {
			v, ok := Field[S]("st").Get(e)
			return ok && v.X == 9, "struct{X=9}"
		}},
		{"slice", func(e TryError) TryError {
			return Field[[]int]("sl").Set(e, []int{1, 2, 3})
		}, func(e TryError) (bool, string) {
			v, ok := Field[[]int]("sl").Get(e)
			return ok && len(v) == 3 && v[2] == 3, "slice=[1,2,3]"
		}},
		{"map", func(e TryError) TryError {
			return Field[map[string]int]("m").Set(e, map[string]int{"a": 1})
		}, func(e TryError) (bool, string) {
			v, ok := Field[map[string]int]("m").Get(e)
			return ok && v["a"] == 1, "map[a]=1"
		}},
		{"interface-any", func(e TryError) TryError {
			return Field[any]("any").Set(e, P{S: "p"})
		}, func(e TryError) (bool, string) {
			v, ok := Field[any]("any").Get(e)
			p, ok2 := v.(P)
			return ok && ok2 && p.S == "p", "any(P{S:p})"
		}},
		{"pointer", func(e TryError) TryError {
			p := &P{S: "ptr"}
			return Field[*P]("ptr").Set(e, p)
		}, func(e TryError) (bool, string) {
			v, ok := Field[*P]("ptr").Get(e)
			return ok && v != nil && v.S == "ptr", "*P{S:ptr}"
		}},
	}

	e := base
	for _, tc := range cases {
		e = tc.set(e)
		if ok, hint := tc.get(e); !ok {
			t.Fatalf("%s roundtrip failed (%s)", tc.name, hint)
		}
	}
}

func TestGet_ReturnsZeroWhenAbsent(t *testing.T) {
	t.Parallel()

	e := BadRequest("x")
	if v, ok := Field[int]("i").Get(e); ok || v != 0 {
		t.Fatalf("absent int: got (v=%v, ok=%v), want (0,false)", v, ok)
	}
	if v, ok := Field[string]("s").Get(e); ok || v != "" {
		t.Fatalf("absent string: got (v=%q, ok=%v), want (\"\",false)", v, ok)
	}
	type S struct{}
	if v, ok := Field[*S]("p").Get(e); ok || v != nil {
		t.Fatalf("absent *S: got (v=%v, ok=%v), want (nil,false)", v, ok)
	}
	if v, ok := Field[bool]("b").Get(e); ok || v {
		t.Fatalf("absent bool: got (v=%v, ok=%v), want (false,false)", v, ok)
	}
}

func TestMustGet_ReturnsValueWhenPresent(t *testing.T) {
	t.Parallel()

	e := Field[int]("k").Set(BadRequest("x"), 99)
	v := Field[int]("k").MustGet(e)
	if v != 99 {
		t.Fatalf("MustGet returned %v, want 99", v)
	}
}

//
// 2) Type Safety
//

func TestGet_TypeMismatch(t *testing.T) {
	t.Parallel()

	e := Field[string]("k").Set(BadRequest("x"), "s")
	if v, ok := Field[int]("k").Get(e); ok || v != 0 {
		t.Fatalf("mismatch int<-string: got (v=%v, ok=%v), want (0,false)", v, ok)
	}

	e = Field[int]("k2").Set(e, 7)
	if v, ok := Field[string]("k2").Get(e); ok || v != "" {
		t.Fatalf("mismatch string<-int: got (v=%q, ok=%v), want (\"\",false)", v, ok)
	}
}

func TestMustGet_PanicOnTypeMismatch(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustGet should panic on type mismatch")
		}
	}()
	e := Field[string]("k").Set(BadRequest("x"), "s")
	_ = Field[int]("k").MustGet(e)
}

func TestSet_PreservesExactType(t *testing.T) {
	t.Parallel()

	e := Field[int64]("k64").Set(BadRequest("x"), int64(42))
	if v, ok := Field[int64]("k64").Get(e); !ok || v != 42 {
		t.Fatalf("Get[int64] failed: v=%v ok=%v", v, ok)
	}
	if v, ok := Field[int]("k64").Get(e); ok || v != 0 {
		t.Fatalf("Get[int] should fail on int64 value: v=%v ok=%v", v, ok)
	}
}

func TestTypedField_InterfaceValues(t *testing.T) {
	t.Parallel()

	// any
	e := Field[any]("x").Set(BadRequest("x"), errors.New("boom"))
	if v, ok := Field[any]("x").Get(e); !ok || v == nil {
		t.Fatalf("Field[any] failed to store error value")
	}

	// error
	e = Field[error]("err").Set(e, io.EOF)
	if v, ok := Field[error]("err").Get(e); !ok || v != io.EOF {
		t.Fatalf("Field[error] roundtrip failed; got %v, ok=%v", v, ok)
	}

	// io.Reader
	r := strings.NewReader("hi")
	e = Field[io.Reader]("r").Set(e, r)
	if v, ok := Field[io.Reader]("r").Get(e); !ok || v == nil {
		t.Fatalf("Field[io.Reader] roundtrip failed; ok=%v v=%v", ok, v)
	}
}

//
// 3) Nil Handling
//

func TestSet_NilError(t *testing.T) {
	t.Parallel()

	// Set(nil, val) should create a new internal failure carrying the field.
	e := Field[int]("k").Set(nil, 5)
	if v, ok := Field[int]("k").Get(e); !ok || v != 5 {
		t.Fatalf("Set(nil,5) then Get failed: v=%v ok=%v", v, ok)
	}
}

func TestGet_NilError(t *testing.T) {
	t.Parallel()

	if v, ok := Field[string]("k").Get(nil); ok || v != "" {
		t.Fatalf("Get(nil) should return (\"\",false); got (%q,%v)", v, ok)
	}
}

func TestMustGet_NilError(t *testing.T) {
	// NOTE: This test MUST NOT use t.Parallel(); we keep the panic path simple
	// and deterministic.
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustGet(nil) should panic")
		}
	}()
	_ = Field[int]("k").MustGet(nil)
}

//
// 4) Classification-specific carriers (one unified value, several codes)
//

func TestGet_WorksAcrossAllErrorKinds(t *testing.T) {
	t.Parallel()

	t.Run("failure", func(t *testing.T) {
		e := Field[int]("k").Set(BadRequest("x"), 1)
		if v, ok := Field[int]("k").Get(e); !ok || v != 1 {
			t.Fatalf("failure carrier: v=%v ok=%v", v, ok)
		}
	})

	t.Run("defect", func(t *testing.T) {
		e := Field[int]("k").Set(Defect(errors.New("boom")), 2)
		if v, ok := Field[int]("k").Get(e); !ok || v != 2 {
			t.Fatalf("defect carrier: v=%v ok=%v", v, ok)
		}
	})

	t.Run("interrupt", func(t *testing.T) {
		e := Field[int]("k").Set(Interrupt("stop"), 3)
		if v, ok := Field[int]("k").Get(e); !ok || v != 3 {
			t.Fatalf("interrupt carrier: v=%v ok=%v", v, ok)
		}
	})
}

func TestGet_LastWriteWins(t *testing.T) {
	t.Parallel()

	base := BadRequest("x")
	e := Field[int]("k").Set(base, 1)
	e = Field[int]("k").Set(e, 2) // newer write should win

	v, ok := Field[int]("k").Get(e)
	if !ok || v != 2 {
		t.Fatalf("last-write-wins failed; got (v=%v ok=%v), want (2,true)", v, ok)
	}
}
