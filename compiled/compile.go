// Package compiled derives fixed-shape validators from a schema known ahead
// of time.
//
// Compile walks the schema once and builds one check per declared key. Keys
// whose type is a primitive are matched directly; combinator and nested types
// are evaluated by the generic engine. Both paths return the same values and
// the same *spark.ValidationError content as spark.Validate.
//
// Typical usage:
//
//	v := compiled.MustCompile(schema)
//	rec, err := v.Validate(input)
//	if err != nil { /* handle */ }
//	port := rec.Value("port")
package compiled

import (
	"fmt"

	"github.com/rs/zerolog"

	spark "github.com/ash-project/spark-sub001"
	"github.com/ash-project/spark-sub001/i18n"
)

// CompileError reports a schema the compiled form cannot represent.
type CompileError struct {
	// Key is the offending option key, empty for a nil schema.
	Key     spark.Atom
	Message string
	Err     error
}

func (e *CompileError) Error() string { return "compiled: " + e.Message }

func (e *CompileError) Unwrap() error { return e.Err }

// checkFunc validates one supplied value for a field.
type checkFunc func(value any) (any, error)

type field struct {
	key   spark.Atom
	spec  spark.OptionSpec
	check checkFunc
	// fast is set when the field is checked by a primitive predicate.
	fast bool
}

// Validator is an immutable compiled schema. It is safe for concurrent use.
type Validator struct {
	schema   *spark.Schema
	fields   []field
	index    map[spark.Atom]int
	required []int
	opt      spark.ValidateOpt
	log      zerolog.Logger
}

// Compile builds a Validator for s. Schemas with a wildcard key, or with an
// option typed as a raw keyword_list, non_empty_keyword_list or map carrying
// nested keys, are rejected with a *CompileError. When several opts are
// passed the last one wins.
func Compile(s *spark.Schema, opts ...spark.ValidateOpt) (*Validator, error) {
	if s == nil {
		return nil, &CompileError{Message: "nil schema", Err: spark.ErrInvalidSchema}
	}
	if _, ok := s.Wildcard(); ok {
		return nil, &CompileError{
			Key:     spark.Wildcard,
			Message: i18n.T("compile_wildcard", map[string]string{"key": spark.Inspect(spark.Wildcard)}),
		}
	}
	var opt spark.ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	v := &Validator{
		schema: s,
		fields: make([]field, 0, s.Len()),
		index:  make(map[spark.Atom]int, s.Len()),
		opt:    opt,
		log:    spark.Logger(),
	}
	if opt.Logger != nil {
		v.log = *opt.Logger
	}
	for i, e := range s.Entries() {
		if e.Spec.Keys != nil {
			return nil, &CompileError{
				Key: e.Key,
				Message: i18n.T("compile_nested_keys", map[string]string{
					"key":      spark.Inspect(e.Key),
					"expected": fmt.Sprint(e.Spec.Type),
				}),
			}
		}
		v.index[e.Key] = i
		v.fields = append(v.fields, v.compileField(e))
		if e.Spec.Required {
			v.required = append(v.required, i)
		}
	}
	return v, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(s *spark.Schema, opts ...spark.ValidateOpt) *Validator {
	v, err := Compile(s, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Validator) compileField(e spark.Entry) field {
	f := field{key: e.Key, spec: e.Spec}
	generic := func(value any) (any, error) {
		return spark.ValidateOption(e.Key, e.Spec, value, v.opt)
	}
	p, primitive := e.Spec.Type.(spark.Primitive)
	if e.Spec.Type == nil {
		p, primitive = spark.AnyType, true
	}
	// Deprecated options go through the engine so the notice is emitted.
	if !primitive || e.Spec.Deprecated != "" {
		f.check = generic
		return f
	}
	f.fast = true
	f.check = func(value any) (any, error) {
		if p.Match(value) {
			return value, nil
		}
		return generic(value)
	}
	return f
}

// Schema returns the schema v was compiled from.
func (v *Validator) Schema() *spark.Schema { return v.schema }

// Validate checks input with the semantics of spark.Validate and returns a
// fixed-shape Record.
func (v *Validator) Validate(input spark.Keyword) (*Record, error) {
	rec := newRecord(v)
	for _, p := range input {
		i, ok := v.index[p.Key]
		if !ok {
			return nil, spark.UnknownKeyError(v.schema, p.Key, p.Value)
		}
		out, err := v.fields[i].check(p.Value)
		if err != nil {
			return nil, err
		}
		rec.supply(i, out, p.Value)
	}
	var missing []spark.Atom
	for _, i := range v.required {
		if !rec.presence[i].Supplied() {
			missing = append(missing, v.fields[i].key)
		}
	}
	if len(missing) > 0 {
		return nil, spark.MissingRequiredError(missing, input)
	}
	for i, f := range v.fields {
		if !rec.presence[i].Supplied() && f.spec.HasDefault {
			rec.values[i] = f.spec.Default
			rec.presence[i] |= spark.PresenceDefaultApplied
		}
	}
	return rec, nil
}

// MustValidate is like Validate but panics with the *spark.ValidationError.
func (v *Validator) MustValidate(input spark.Keyword) *Record {
	rec, err := v.Validate(input)
	if err != nil {
		panic(err)
	}
	return rec
}

// ToFlatForm projects rec back into a keyword list holding the supplied or
// defaulted keys in declaration order. Defaults are carried verbatim, so the
// projection validates again only when every applied default conforms to
// its option's type.
func (v *Validator) ToFlatForm(rec *Record) spark.Keyword {
	out := make(spark.Keyword, 0, len(v.fields))
	for i, f := range v.fields {
		if rec.presence[i].Filled() {
			out = append(out, spark.Pair{Key: f.key, Value: rec.values[i]})
		}
	}
	return out
}
