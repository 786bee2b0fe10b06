package dsl

import (
	spark "github.com/ash-project/spark-sub001"
)

// Shorthands for type nodes, so schemas read as declarations.

func Any() spark.Type           { return spark.AnyType }
func Atom() spark.Type          { return spark.AtomType }
func String() spark.Type        { return spark.StringType }
func Bool() spark.Type          { return spark.BooleanType }
func Integer() spark.Type       { return spark.IntegerType }
func NonNegInteger() spark.Type { return spark.NonNegIntegerType }
func PosInteger() spark.Type    { return spark.PosIntegerType }
func Float() spark.Type         { return spark.FloatType }
func Timeout() spark.Type       { return spark.TimeoutType }
func Module() spark.Type        { return spark.ModuleType }

func Literal(v any) spark.Type        { return spark.Literal{Value: v} }
func OneOf(vs ...any) spark.Type      { return spark.OneOf(vs) }
func In(vs ...any) spark.Type         { return spark.In{Values: vs} }
func Range(min, max int64) spark.Type { return spark.InRange(min, max) }

func Or(ts ...spark.Type) spark.Type    { return spark.Or(ts) }
func And(ts ...spark.Type) spark.Type   { return spark.And(ts) }
func Tuple(ts ...spark.Type) spark.Type { return spark.TupleOf(ts) }
func ListOf(t spark.Type) spark.Type    { return spark.ListOf{Elem: t} }
func WrapList(t spark.Type) spark.Type  { return spark.WrapList{Elem: t} }

// Custom wraps fn, called as fn(value, args...).
func Custom(name string, fn spark.CustomFunc, args ...any) spark.Type {
	return spark.Custom{Name: name, Fn: fn, Args: args}
}

// Keyword is a nested keyword list validated against s.
func Keyword(s *spark.Schema) spark.Type { return spark.KeywordListOf{Schema: s} }

// NonEmptyKeyword is Keyword rejecting an empty result.
func NonEmptyKeyword(s *spark.Schema) spark.Type { return spark.NonEmptyKeywordListOf{Schema: s} }

// Map is a nested map validated against s.
func Map(s *spark.Schema) spark.Type { return spark.MapOf{Schema: s} }

func MapOf(k, v spark.Type) spark.Type { return spark.MapKV{Key: k, Value: v} }
func Fun(arity int) spark.Type         { return spark.FunctionArity{Arity: arity} }
func Impl(protocol spark.Atom) spark.Type {
	return spark.ImplOf{Protocol: protocol}
}
