package spark_test

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	spark "github.com/ash-project/spark-sub001"
)

func TestPrimitive_Match(t *testing.T) {
	self, _ := os.FindProcess(os.Getpid())
	cases := []struct {
		p    spark.Primitive
		ok   []any
		fail []any
	}{
		{spark.AnyType, []any{nil, 1, "x"}, nil},
		{spark.AtomType, []any{spark.Atom("a"), spark.Atom("Elixir.Foo")}, []any{"a", true, nil}},
		{spark.StringType, []any{"", "x"}, []any{spark.Atom("a"), []byte("x")}},
		{spark.BooleanType, []any{true, false}, []any{nil, 1}},
		{spark.IntegerType, []any{0, -3, int64(9), uint8(1)}, []any{1.0, "1", nil}},
		{spark.NonNegIntegerType, []any{0, 3}, []any{-1, 1.5}},
		{spark.PosIntegerType, []any{1}, []any{0, -1}},
		{spark.FloatType, []any{1.5, float32(2)}, []any{1}},
		{spark.TimeoutType, []any{0, 100, spark.Infinity}, []any{-1, spark.Atom("never"), "infinity"}},
		{spark.PidType, []any{self}, []any{os.Getpid(), (*os.Process)(nil)}},
		{spark.ReferenceType, []any{uuid.New()}, []any{uuid.NewString()}},
		{spark.MFAType, []any{spark.MFA{Module: "M", Function: "f"}, []any{spark.Atom("M"), spark.Atom("f"), []any{1}}}, []any{[]any{spark.Atom("M"), spark.Atom("f")}}},
		{spark.ModuleType, []any{spark.Atom("MyMod")}, []any{"MyMod"}},
		{spark.KeywordListType, []any{spark.Keyword{}, []any{}, []any{spark.Pair{Key: "a", Value: 1}}}, []any{[]any{1}, map[string]any{}}},
		{spark.NonEmptyKeywordListType, []any{spark.Keyword{{Key: "a"}}}, []any{spark.Keyword{}, []any{}}},
		{spark.MapType, []any{map[string]any{}, map[int]bool{}, spark.Keyword{}}, []any{nil, []any{}}},
		{spark.RegexType, []any{regexp.MustCompile("a+")}, []any{"a+"}},
	}
	for _, c := range cases {
		for _, v := range c.ok {
			if !c.p.Match(v) {
				t.Errorf("%s: expected %#v to match", c.p, v)
			}
		}
		for _, v := range c.fail {
			if c.p.Match(v) {
				t.Errorf("%s: expected %#v not to match", c.p, v)
			}
		}
	}
}

func TestParsePrimitive(t *testing.T) {
	if p, ok := spark.ParsePrimitive("pos_integer"); !ok || p != spark.PosIntegerType {
		t.Fatalf("unexpected %v %v", p, ok)
	}
	if _, ok := spark.ParsePrimitive("posinteger"); ok {
		t.Fatalf("unknown name must not resolve")
	}
}

func TestEvaluate_MismatchMessage(t *testing.T) {
	_, err := spark.Evaluate(spark.ListOf{Elem: spark.AtomType}, "nope")
	ve := mustKind(t, err, spark.KindTypeMismatch)
	if ve.Message != `expected list of atom, got: "nope"` {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	if len(ve.Path) != 0 {
		t.Fatalf("top-level evaluation has an empty path, got %v", ve.Path)
	}
}

func TestEvaluate_LiteralOneOfIn(t *testing.T) {
	if _, err := spark.Evaluate(spark.Literal{Value: spark.Atom("on")}, spark.Atom("on")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := spark.Evaluate(spark.Literal{Value: spark.Atom("on")}, spark.Atom("off"))
	mustKind(t, err, spark.KindTypeMismatch)

	if _, err := spark.Evaluate(spark.OneOf{1, 2}, int64(2)); err != nil {
		t.Fatalf("integers compare by value: %v", err)
	}
	_, err = spark.Evaluate(spark.OneOf{spark.Atom("a"), spark.Atom("b")}, spark.Atom("c"))
	ve := mustKind(t, err, spark.KindTypeMismatch)
	if ve.Message != "expected one of [:a, :b], got: :c" {
		t.Fatalf("unexpected message %q", ve.Message)
	}

	r := spark.InRange(1, 10)
	for _, v := range []any{1, 10, uint16(5)} {
		if _, err := spark.Evaluate(r, v); err != nil {
			t.Fatalf("%v in range: %v", v, err)
		}
	}
	_, err = spark.Evaluate(r, 11)
	ve = mustKind(t, err, spark.KindTypeMismatch)
	if !strings.Contains(ve.Message, "1..10") {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	_, err = spark.Evaluate(r, 5.0)
	mustKind(t, err, spark.KindTypeMismatch)
}

func TestEvaluate_Tuple(t *testing.T) {
	tt := spark.TupleOf{spark.IntegerType, spark.StringType}
	out, err := spark.Evaluate(tt, []any{1, "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []any{1, "a"}) {
		t.Fatalf("unexpected %v", out)
	}
	_, err = spark.Evaluate(tt, []any{1})
	mustKind(t, err, spark.KindArityMismatch)
	_, err = spark.Evaluate(tt, []any{1, 2})
	ve := mustKind(t, err, spark.KindTypeMismatch)
	if !reflect.DeepEqual(ve.Path, spark.Path{1}) {
		t.Fatalf("expected element path, got %v", ve.Path)
	}
}

func TestEvaluate_FunctionArity(t *testing.T) {
	ft := spark.FunctionArity{Arity: 2}
	if _, err := spark.Evaluate(ft, func(a, b int) int { return a + b }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := spark.Evaluate(ft, func(a int) int { return a })
	ve := mustKind(t, err, spark.KindArityMismatch)
	if ve.Message != "expected function of arity 2, got: function of arity 1" {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	_, err = spark.Evaluate(ft, "not a function")
	mustKind(t, err, spark.KindTypeMismatch)
}

func TestEvaluate_CustomError(t *testing.T) {
	sentinel := errors.New("must be even")
	even := spark.Custom{Name: "even", Fn: func(v any, _ ...any) (any, error) {
		if n, ok := v.(int); ok && n%2 == 0 {
			return v, nil
		}
		return nil, sentinel
	}}
	_, err := spark.Evaluate(even, 3)
	ve := mustKind(t, err, spark.KindCustomValidatorError)
	if ve.Message != "must be even" || !errors.Is(err, sentinel) {
		t.Fatalf("expected the custom error to surface, got %v", ve)
	}
}

func TestEvaluate_CustomArgs(t *testing.T) {
	atLeast := spark.Custom{Name: "at_least", Args: []any{3}, Fn: func(v any, args ...any) (any, error) {
		if v.(int) < args[0].(int) {
			return nil, fmt.Errorf("expected at least %d", args[0])
		}
		return v, nil
	}}
	if _, err := spark.Evaluate(atLeast, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := spark.Evaluate(atLeast, 2); err == nil {
		t.Fatalf("expected failure")
	}
}

func TestEvaluate_MapKV(t *testing.T) {
	mt := spark.MapKV{Key: spark.StringType, Value: spark.PosIntegerType}
	out, err := spark.Evaluate(mt, map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, map[any]any{"a": 1, "b": 2}) {
		t.Fatalf("unexpected %v", out)
	}
	_, err = spark.Evaluate(mt, map[string]int{"a": 1, "b": 0})
	ve := mustKind(t, err, spark.KindTypeMismatch)
	if !reflect.DeepEqual(ve.Path, spark.Path{"b"}) {
		t.Fatalf("expected value path, got %v", ve.Path)
	}
	_, err = spark.Evaluate(mt, map[int]int{1: 1})
	ve = mustKind(t, err, spark.KindTypeMismatch)
	if !strings.HasPrefix(ve.Message, "invalid map key 1") {
		t.Fatalf("unexpected message %q", ve.Message)
	}

	wrap := spark.Custom{Name: "wrap", Fn: func(v any, _ ...any) (any, error) { return []any{v}, nil }}
	_, err = spark.Evaluate(spark.MapKV{Key: wrap, Value: spark.AnyType}, map[string]int{"a": 1})
	ve = mustKind(t, err, spark.KindTypeMismatch)
	if ve.Err == nil || !strings.Contains(ve.Message, "cannot be used as a map key") {
		t.Fatalf("unexpected error %q (%v)", ve.Message, ve.Err)
	}

	pair := spark.Custom{Name: "pair", Fn: func(v any, _ ...any) (any, error) { return spark.Pair{Key: "k", Value: []any{v}}, nil }}
	_, err = spark.Evaluate(spark.MapKV{Key: pair, Value: spark.AnyType}, map[string]int{"a": 1})
	mustKind(t, err, spark.KindTypeMismatch)

	out, err = spark.Evaluate(spark.MapKV{Key: spark.AtomType, Value: spark.IntegerType}, kw("a", 1, "b", 2))
	if err != nil {
		t.Fatalf("keyword input: %v", err)
	}
	if !reflect.DeepEqual(out, map[any]any{spark.Atom("a"): 1, spark.Atom("b"): 2}) {
		t.Fatalf("unexpected %v", out)
	}
	_, err = spark.Evaluate(spark.MapKV{Key: spark.AtomType, Value: spark.IntegerType}, kw("a", "x"))
	ve = mustKind(t, err, spark.KindTypeMismatch)
	if !reflect.DeepEqual(ve.Path, spark.Path{spark.Atom("a")}) {
		t.Fatalf("expected key path, got %v", ve.Path)
	}
}

type Shape interface{ Area() float64 }

type square struct{ side float64 }

func (s square) Area() float64 { return s.side * s.side }

func TestEvaluate_ImplOf(t *testing.T) {
	reg := spark.NewRegistry()
	if err := reg.RegisterProtocol("Shape", reflect.TypeOf((*Shape)(nil)).Elem()); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.RegisterProtocol("Enumerable", nil)
	reg.RegisterImpl("Enumerable", "MyList")
	opt := spark.ValidateOpt{Registry: reg}

	if _, err := spark.Evaluate(spark.ImplOf{Protocol: "Shape"}, square{2}, opt); err != nil {
		t.Fatalf("interface satisfaction counts: %v", err)
	}
	if _, err := spark.Evaluate(spark.ImplOf{Protocol: "Enumerable"}, spark.Atom("MyList"), opt); err != nil {
		t.Fatalf("registered module counts: %v", err)
	}
	_, err := spark.Evaluate(spark.ImplOf{Protocol: "Enumerable"}, spark.Atom("Other"), opt)
	ve := mustKind(t, err, spark.KindProtocolNotImplemented)
	if ve.Message != "protocol Enumerable is not implemented by Other" {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	_, err = spark.Evaluate(spark.ImplOf{Protocol: "Nope"}, square{1}, opt)
	ve = mustKind(t, err, spark.KindNotAProtocol)
	if ve.Message != "Nope is not a protocol" {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	if err := reg.RegisterProtocol("Bad", reflect.TypeOf(0)); err == nil {
		t.Fatalf("non interface types must be rejected")
	}
}

func TestEvaluate_Behaviours(t *testing.T) {
	reg := spark.NewRegistry()
	reg.RegisterModule("Cache.ETS", "Cache")
	opt := spark.ValidateOpt{Registry: reg}
	builtins := map[spark.Atom]spark.ModuleRef{"memory": {Module: "Cache.Memory", Opts: spark.Keyword{{Key: "size", Value: 10}}}}
	bt := spark.Behaviour{Behaviour: "Cache", Builtins: builtins}

	out, err := spark.Evaluate(bt, spark.Atom("memory"), opt)
	if err != nil || !reflect.DeepEqual(out, builtins["memory"]) {
		t.Fatalf("builtin: %v %v", out, err)
	}
	out, err = spark.Evaluate(bt, spark.Atom("Cache.ETS"), opt)
	if err != nil || !reflect.DeepEqual(out, spark.ModuleRef{Module: "Cache.ETS"}) {
		t.Fatalf("module: %v %v", out, err)
	}
	pair := []any{spark.Atom("Cache.ETS"), spark.Keyword{{Key: "ttl", Value: 5}}}
	out, err = spark.Evaluate(bt, pair, opt)
	if err != nil || !reflect.DeepEqual(out, spark.ModuleRef{Module: "Cache.ETS", Opts: spark.Keyword{{Key: "ttl", Value: 5}}}) {
		t.Fatalf("pair: %v %v", out, err)
	}
	_, err = spark.Evaluate(bt, spark.Atom("Cache.Disk"), opt)
	mustKind(t, err, spark.KindTypeMismatch)

	ft := spark.FunctionBehaviour{Behaviour: "Cache", Builtins: builtins, Shape: spark.FunctionShape{Module: "Cache.Fun", Arity: 1}}
	fn := func(key string) any { return nil }
	out, err = spark.Evaluate(ft, fn, opt)
	if err != nil {
		t.Fatalf("function: %v", err)
	}
	ref := out.(spark.ModuleRef)
	if ref.Module != "Cache.Fun" || !ref.Opts.Has("fun") {
		t.Fatalf("expected wrapped function, got %v", ref)
	}
	_, err = spark.Evaluate(ft, func() {}, opt)
	ve := mustKind(t, err, spark.KindTypeMismatch)
	if !strings.Contains(ve.Message, "[:memory]") {
		t.Fatalf("expected builtins in message, got %q", ve.Message)
	}
}

func TestEvaluate_MfaOrFunAndStruct(t *testing.T) {
	mf := spark.MfaOrFun{Arity: 1}
	if _, err := spark.Evaluate(mf, spark.MFA{Module: "M", Function: "f"}); err != nil {
		t.Fatalf("mfa: %v", err)
	}
	if _, err := spark.Evaluate(mf, func(int) {}); err != nil {
		t.Fatalf("fun: %v", err)
	}
	if _, err := spark.Evaluate(mf, func() {}); err == nil {
		t.Fatalf("wrong arity must fail")
	}

	st := spark.StructOf{Type: reflect.TypeOf(square{})}
	if _, err := spark.Evaluate(st, square{1}); err != nil {
		t.Fatalf("struct: %v", err)
	}
	if _, err := spark.Evaluate(st, &square{1}); err != nil {
		t.Fatalf("pointer: %v", err)
	}
	if _, err := spark.Evaluate(st, (*square)(nil)); err == nil {
		t.Fatalf("nil pointer must fail")
	}
}

func TestEvaluate_UnknownKeyAndMissingHelpers(t *testing.T) {
	s := spark.MustSchema(spark.Opt("a", spark.OptionSpec{}), spark.Opt("b", spark.OptionSpec{}))
	e := spark.UnknownKeyError(s, "c", 1)
	if e.Kind != spark.KindUnknownKey || e.Message != "unknown options [:c], valid options are: [:a, :b]" {
		t.Fatalf("unexpected %v", e)
	}
	m := spark.MissingRequiredError([]spark.Atom{"a"}, spark.Keyword{{Key: "b", Value: 1}})
	if m.Error() != "required :a option not found, received options: [:b]" {
		t.Fatalf("unexpected %q", m.Error())
	}
}

func TestValidationError_ErrorIncludesKeyAndPath(t *testing.T) {
	inner := spark.MustSchema(spark.Opt("port", spark.OptionSpec{Type: spark.IntegerType}))
	s := spark.MustSchema(spark.Opt("conn", spark.OptionSpec{Type: spark.KeywordListOf{Schema: inner}}))
	_, err := spark.Validate(s, kw("conn", kw("port", "x")))
	want := `invalid value for :port option: expected integer, got: "x" (at [:conn, :port])`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestInspect(t *testing.T) {
	cases := map[string]any{
		`:foo`:          spark.Atom("foo"),
		`MyApp.Repo`:    spark.Atom("MyApp.Repo"),
		`"x"`:           "x",
		`[a: 1, b: :c]`: spark.Keyword{{Key: "a", Value: 1}, {Key: "b", Value: spark.Atom("c")}},
		`[1, "two"]`:    []any{1, "two"},
		`nil`:           nil,
		`true`:          true,
	}
	for want, v := range cases {
		if got := spark.Inspect(v); got != want {
			t.Errorf("Inspect(%#v) = %q, want %q", v, got, want)
		}
	}
}
