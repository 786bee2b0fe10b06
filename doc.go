// Package spark validates keyword-style options against declarative schemas.
//
// - A Schema is an ordered mapping of option keys (atoms) to OptionSpecs.
// - Each OptionSpec carries a Type from a small, closed grammar of primitives and combinators
//   (Or/And/ListOf/WrapList/TupleOf/KeywordListOf/MapOf/...).
// - Validate walks the input keyword list in order, checks and transforms every value, applies
//   defaults and reports the first failure as a *ValidationError with a root-to-leaf Path.
// - The compiled subpackage specializes a Schema once into a reusable validator.
//
// Design policy:
// - Keep the public API in the root package; helpers shared with subpackages live under internal/.
// - Place the builder under dsl/, decoders under source/, schema documents under schemafile/ and
//   the CLI under cmd/sparkopts.
// - Validation is pure: schemas are immutable and safe for concurrent use.
//
// Typical usage:
//
//	s := spark.MustSchema(
//	    spark.Opt("name", spark.OptionSpec{Type: spark.StringType, Required: true}),
//	    spark.Opt("retries", spark.OptionSpec{Type: spark.PosIntegerType, Default: 3, HasDefault: true}),
//	)
//	res, err := spark.Validate(s, spark.Keyword{{Key: "name", Value: "api"}})
//	retries, _ := res.Get("retries") // 3
package spark
