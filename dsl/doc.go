// Package dsl provides a fluent builder for option schemas.
//
// Entry points
//   - Options(): create a builder; chain Field/Required/Default/Doc/Deprecated/Keys, then Build/MustBuild.
//   - Wildcard(t): accept undeclared keys that match t (generic engine only; compiled validators reject it).
//   - Type shorthands: String()/Integer()/ListOf(t)/Or(...)/Keyword(schema)/Fun(n)/Impl(name) and friends.
//
// Example
//
//	conn := dsl.Options().
//	    Field("host", dsl.String()).Required().
//	    Field("port", dsl.PosInteger()).Default(5432).
//	    MustBuild()
//
//	schema := dsl.Options().
//	    Field("name", dsl.String()).Required().Doc("service name").
//	    Field("conn", dsl.Keyword(conn)).
//	    Field("hosts", dsl.WrapList(dsl.String())).
//	    Field("debug", dsl.Bool()).Deprecated("use :log_level").
//	    MustBuild()
//
//	res, err := spark.Validate(schema, input)
package dsl
