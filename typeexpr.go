package spark

import (
	"reflect"
	"strconv"
	"strings"
)

// Type is a node of the option type grammar. The set of implementations is
// closed: only the node types declared in this package satisfy it.
type Type interface {
	// String renders a short human description used in error messages.
	String() string
	sparkType()
}

// Primitive is a type checked structurally, without combinator machinery.
type Primitive string

const (
	AnyType                 Primitive = "any"
	AtomType                Primitive = "atom"
	StringType              Primitive = "string"
	BooleanType             Primitive = "boolean"
	IntegerType             Primitive = "integer"
	NonNegIntegerType       Primitive = "non_neg_integer"
	PosIntegerType          Primitive = "pos_integer"
	FloatType               Primitive = "float"
	TimeoutType             Primitive = "timeout"
	PidType                 Primitive = "pid"
	ReferenceType           Primitive = "reference"
	MFAType                 Primitive = "mfa"
	ModuleType              Primitive = "module"
	KeywordListType         Primitive = "keyword_list"
	NonEmptyKeywordListType Primitive = "non_empty_keyword_list"
	MapType                 Primitive = "map"
	RegexType               Primitive = "regex"
)

var primitives = map[Primitive]struct{}{
	AnyType: {}, AtomType: {}, StringType: {}, BooleanType: {}, IntegerType: {},
	NonNegIntegerType: {}, PosIntegerType: {}, FloatType: {}, TimeoutType: {},
	PidType: {}, ReferenceType: {}, MFAType: {}, ModuleType: {}, KeywordListType: {},
	NonEmptyKeywordListType: {}, MapType: {}, RegexType: {},
}

// ParsePrimitive resolves a primitive by name.
func ParsePrimitive(name string) (Primitive, bool) {
	p := Primitive(name)
	_, ok := primitives[p]
	return p, ok
}

// Nested reports whether p is one of the raw nested collection primitives
// that may carry OptionSpec.Keys.
func (p Primitive) Nested() bool {
	return p == KeywordListType || p == NonEmptyKeywordListType || p == MapType
}

func (p Primitive) String() string { return string(p) }

// Literal accepts exactly Value.
type Literal struct{ Value any }

func (t Literal) String() string { return "literal " + Inspect(t.Value) }

// OneOf accepts any of the listed values.
type OneOf []any

func (t OneOf) String() string { return "one of " + Inspect([]any(t)) }

// In accepts a member of Values or, when Range is set, an integer inside the
// range.
type In struct {
	Values []any
	Range  *Range
}

// InRange builds an In over the inclusive range min..max.
func InRange(min, max int64) In { return In{Range: &Range{Min: min, Max: max}} }

func (t In) String() string {
	if t.Range != nil {
		return "in " + strconv.FormatInt(t.Range.Min, 10) + ".." + strconv.FormatInt(t.Range.Max, 10)
	}
	return "in " + Inspect(t.Values)
}

// Or accepts the first subtype that matches.
type Or []Type

func (t Or) String() string { return joinTypes([]Type(t), " | ") }

// And requires every subtype to match, feeding each output into the next.
type And []Type

func (t And) String() string { return "all of [" + joinTypes([]Type(t), ", ") + "]" }

// CustomFunc validates and optionally transforms value. Extra arguments come
// from Custom.Args.
type CustomFunc func(value any, args ...any) (any, error)

// Custom delegates validation to a user function.
type Custom struct {
	Name string
	Fn   CustomFunc
	Args []any
}

func (t Custom) String() string {
	if t.Name == "" {
		return "custom"
	}
	return "custom(" + t.Name + ")"
}

// ListOf accepts a sequence whose elements all match Elem.
type ListOf struct{ Elem Type }

func (t ListOf) String() string { return "list of " + describe(t.Elem) }

// WrapList accepts a single Elem (wrapped into a one element list) or a list
// of Elem.
type WrapList struct{ Elem Type }

func (t WrapList) String() string {
	d := describe(t.Elem)
	return d + " or list of " + d
}

// TupleOf accepts a fixed-size sequence matched position by position.
type TupleOf []Type

func (t TupleOf) String() string { return "{" + joinTypes([]Type(t), ", ") + "}" }

// KeywordListOf accepts a keyword list validated against Schema.
type KeywordListOf struct{ Schema *Schema }

func (KeywordListOf) String() string { return "keyword list" }

// NonEmptyKeywordListOf is KeywordListOf rejecting an empty result.
type NonEmptyKeywordListOf struct{ Schema *Schema }

func (NonEmptyKeywordListOf) String() string { return "non-empty keyword list" }

// MapOf accepts a map with string or atom keys validated against Schema.
type MapOf struct{ Schema *Schema }

func (MapOf) String() string { return "map" }

// FunctionArity accepts a function taking exactly Arity arguments.
type FunctionArity struct{ Arity int }

func (t FunctionArity) String() string { return "function of arity " + strconv.Itoa(t.Arity) }

// FunctionBehaviour accepts a module implementing Behaviour, a {module, opts}
// pair, a builtin shorthand or an inline function of Shape.Arity.
type FunctionBehaviour struct {
	Behaviour Atom
	Builtins  map[Atom]ModuleRef
	Shape     FunctionShape
}

func (t FunctionBehaviour) String() string {
	return "module implementing " + Inspect(t.Behaviour) + " or function of arity " + strconv.Itoa(t.Shape.Arity)
}

// Behaviour accepts a module implementing Behaviour, a {module, opts} pair or
// a builtin shorthand.
type Behaviour struct {
	Behaviour Atom
	Builtins  map[Atom]ModuleRef
}

func (t Behaviour) String() string { return "module implementing " + Inspect(t.Behaviour) }

// ImplOf accepts a value for which Protocol has an implementation.
type ImplOf struct{ Protocol Atom }

func (t ImplOf) String() string { return "implementation of " + Inspect(t.Protocol) }

// MapKV accepts a map whose keys match Key and values match Value.
type MapKV struct {
	Key   Type
	Value Type
}

func (t MapKV) String() string { return "map of " + describe(t.Key) + " => " + describe(t.Value) }

// MfaOrFun accepts an MFA or a function of the given arity.
type MfaOrFun struct{ Arity int }

func (t MfaOrFun) String() string { return "mfa or function of arity " + strconv.Itoa(t.Arity) }

// StructOf accepts a value of the given struct type or a pointer to it.
type StructOf struct{ Type reflect.Type }

func (t StructOf) String() string {
	if t.Type == nil {
		return "struct"
	}
	return "struct " + t.Type.String()
}

func (Primitive) sparkType()             {}
func (Literal) sparkType()               {}
func (OneOf) sparkType()                 {}
func (In) sparkType()                    {}
func (Or) sparkType()                    {}
func (And) sparkType()                   {}
func (Custom) sparkType()                {}
func (ListOf) sparkType()                {}
func (WrapList) sparkType()              {}
func (TupleOf) sparkType()               {}
func (KeywordListOf) sparkType()         {}
func (NonEmptyKeywordListOf) sparkType() {}
func (MapOf) sparkType()                 {}
func (FunctionArity) sparkType()         {}
func (FunctionBehaviour) sparkType()     {}
func (Behaviour) sparkType()             {}
func (ImplOf) sparkType()                {}
func (MapKV) sparkType()                 {}
func (MfaOrFun) sparkType()              {}
func (StructOf) sparkType()              {}

func describe(t Type) string {
	if t == nil {
		return string(AnyType)
	}
	return t.String()
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = describe(t)
	}
	return strings.Join(parts, sep)
}
