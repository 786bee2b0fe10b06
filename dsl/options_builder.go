package dsl

import (
	spark "github.com/ash-project/spark-sub001"
)

type optionsBuilder struct {
	entries []spark.Entry
	index   map[spark.Atom]int
}

type fieldStep struct {
	b   *optionsBuilder
	pos int
}

// Options creates a new option schema builder. Keys keep declaration order.
func Options() *optionsBuilder {
	return &optionsBuilder{index: map[spark.Atom]int{}}
}

// Field declares key with type t. Declaring a key again replaces its spec
// but keeps its original position.
func (b *optionsBuilder) Field(key spark.Atom, t spark.Type) *fieldStep {
	if i, ok := b.index[key]; ok {
		b.entries[i].Spec = spark.OptionSpec{Type: t}
		return &fieldStep{b: b, pos: i}
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, spark.Opt(key, spark.OptionSpec{Type: t}))
	return &fieldStep{b: b, pos: len(b.entries) - 1}
}

// Wildcard sets the spec applied to keys the schema does not declare.
func (b *optionsBuilder) Wildcard(t spark.Type) *fieldStep { return b.Field(spark.Wildcard, t) }

// Require marks one or more declared keys as required. Unknown names are
// ignored.
func (b *optionsBuilder) Require(keys ...spark.Atom) *optionsBuilder {
	for _, k := range keys {
		if i, ok := b.index[k]; ok {
			b.entries[i].Spec.Required = true
		}
	}
	return b
}

// Build validates the declarations and returns the schema.
func (b *optionsBuilder) Build() (*spark.Schema, error) { return spark.NewSchema(b.entries...) }

// MustBuild is like Build but panics on error.
func (b *optionsBuilder) MustBuild() *spark.Schema { return spark.MustSchema(b.entries...) }

func (f *fieldStep) spec() *spark.OptionSpec { return &f.b.entries[f.pos].Spec }

// Required marks the field as required.
func (f *fieldStep) Required() *fieldStep {
	f.spec().Required = true
	return f
}

// Optional marks the field as optional (default).
func (f *fieldStep) Optional() *fieldStep {
	f.spec().Required = false
	return f
}

// Default sets a default stored verbatim when the key is absent. A nil v is
// a real default.
func (f *fieldStep) Default(v any) *fieldStep {
	s := f.spec()
	s.Default, s.HasDefault = v, true
	return f
}

func (f *fieldStep) Doc(doc string) *fieldStep {
	f.spec().Doc = doc
	return f
}

func (f *fieldStep) TypeDoc(doc string) *fieldStep {
	f.spec().TypeDoc = doc
	return f
}

// Deprecated marks the field as deprecated; reason is reported whenever the
// option is supplied.
func (f *fieldStep) Deprecated(reason string) *fieldStep {
	f.spec().Deprecated = reason
	return f
}

// Keys attaches a nested schema to a keyword_list, non_empty_keyword_list or
// map field.
func (f *fieldStep) Keys(s *spark.Schema) *fieldStep {
	f.spec().Keys = s
	return f
}

func (f *fieldStep) Field(key spark.Atom, t spark.Type) *fieldStep { return f.b.Field(key, t) }
func (f *fieldStep) Wildcard(t spark.Type) *fieldStep              { return f.b.Wildcard(t) }
func (f *fieldStep) Require(keys ...spark.Atom) *optionsBuilder    { return f.b.Require(keys...) }
func (f *fieldStep) Build() (*spark.Schema, error)                 { return f.b.Build() }
func (f *fieldStep) MustBuild() *spark.Schema                      { return f.b.MustBuild() }
