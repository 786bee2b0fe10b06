// Package jsonschema exports option schemas as JSON Schema describing the
// decoded document form: keyword lists are objects and atoms are strings
// of the form ":name".
package jsonschema

import (
	"sort"

	j "github.com/goccy/go-json"

	spark "github.com/ash-project/spark-sub001"
)

// Draft is the JSON Schema dialect of exported documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

const atomPattern = "^:.+"

// FromOptions describes the documents s accepts.
func FromOptions(s *spark.Schema) *Schema {
	out := object(s)
	out.Schema = Draft
	return out
}

// Marshal renders s as indented JSON.
func Marshal(s *Schema) ([]byte, error) {
	return j.MarshalIndent(s, "", "  ")
}

func object(s *spark.Schema) *Schema {
	out := &Schema{Type: "object", AdditionalProperties: false}
	if s == nil {
		out.AdditionalProperties = true
		return out
	}
	out.Properties = make(map[string]*Schema, s.Len())
	for _, e := range s.Entries() {
		out.Properties[string(e.Key)] = entry(e.Spec)
	}
	if spec, ok := s.Wildcard(); ok {
		out.AdditionalProperties = entry(spec)
	}
	for _, k := range s.Required() {
		out.Required = append(out.Required, string(k))
	}
	return out
}

func entry(spec spark.OptionSpec) *Schema {
	var out *Schema
	if spec.Keys != nil {
		out = object(spec.Keys)
		if spec.Type == spark.NonEmptyKeywordListType {
			out.MinProperties = intp(1)
		}
	} else {
		out = FromType(spec.Type)
	}
	if spec.Doc != "" {
		out.Description = spec.Doc
	}
	if spec.HasDefault {
		out.Default = docValue(spec.Default)
	}
	out.Deprecated = spec.Deprecated != ""
	return out
}

// FromType describes the document values t accepts. Types that only match
// Go values, such as functions and structs, export as an unconstrained
// schema carrying the type description.
func FromType(t spark.Type) *Schema {
	switch t := t.(type) {
	case nil:
		return &Schema{}
	case spark.Primitive:
		return primitive(t)
	case spark.Literal:
		return &Schema{Const: docValue(t.Value)}
	case spark.OneOf:
		return &Schema{Enum: docValues(t)}
	case spark.In:
		if t.Range != nil {
			return &Schema{Type: "integer", Minimum: int64p(t.Range.Min), Maximum: int64p(t.Range.Max)}
		}
		return &Schema{Enum: docValues(t.Values)}
	case spark.Or:
		return &Schema{AnyOf: each(t)}
	case spark.And:
		return &Schema{AllOf: each(t)}
	case spark.ListOf:
		return &Schema{Type: "array", Items: FromType(t.Elem)}
	case spark.WrapList:
		elem := FromType(t.Elem)
		return &Schema{AnyOf: []*Schema{elem, {Type: "array", Items: elem}}}
	case spark.TupleOf:
		n := len(t)
		return &Schema{Type: "array", PrefixItems: each(t), MinItems: intp(n), MaxItems: intp(n)}
	case spark.KeywordListOf:
		return object(t.Schema)
	case spark.NonEmptyKeywordListOf:
		out := object(t.Schema)
		out.MinProperties = intp(1)
		return out
	case spark.MapOf:
		return object(t.Schema)
	case spark.MapKV:
		return &Schema{Type: "object", PropertyNames: propertyNames(t.Key), AdditionalProperties: FromType(t.Value)}
	case spark.Behaviour:
		return module(t.Behaviour, t.Builtins)
	case spark.FunctionBehaviour:
		return module(t.Behaviour, t.Builtins)
	}
	return &Schema{Description: t.String()}
}

func primitive(p spark.Primitive) *Schema {
	switch p {
	case spark.AtomType, spark.ModuleType:
		return &Schema{Type: "string", Pattern: atomPattern}
	case spark.StringType:
		return &Schema{Type: "string"}
	case spark.BooleanType:
		return &Schema{Type: "boolean"}
	case spark.IntegerType:
		return &Schema{Type: "integer"}
	case spark.NonNegIntegerType:
		return &Schema{Type: "integer", Minimum: int64p(0)}
	case spark.PosIntegerType:
		return &Schema{Type: "integer", Minimum: int64p(1)}
	case spark.FloatType:
		return &Schema{Type: "number"}
	case spark.TimeoutType:
		return &Schema{AnyOf: []*Schema{{Type: "integer", Minimum: int64p(0)}, {Const: ":infinity"}}}
	case spark.KeywordListType, spark.MapType:
		return &Schema{Type: "object"}
	case spark.NonEmptyKeywordListType:
		return &Schema{Type: "object", MinProperties: intp(1)}
	case spark.RegexType:
		return &Schema{Type: "string", Format: "regex"}
	case spark.AnyType:
		return &Schema{}
	}
	return &Schema{Description: p.String()}
}

// propertyNames describes object member names, which decode to atoms
// without the ':' prefix.
func propertyNames(t spark.Type) *Schema {
	if t == spark.AtomType {
		return &Schema{Type: "string"}
	}
	return FromType(t)
}

// module describes a module atom, a [module, opts] pair or a builtin
// shorthand.
func module(behaviour spark.Atom, builtins map[spark.Atom]spark.ModuleRef) *Schema {
	mod := &Schema{Type: "string", Pattern: atomPattern}
	pair := &Schema{Type: "array", PrefixItems: []*Schema{mod, {Type: "object"}}, MinItems: intp(2), MaxItems: intp(2)}
	out := &Schema{Description: "module implementing " + string(behaviour), AnyOf: []*Schema{mod, pair}}
	if len(builtins) > 0 {
		names := make([]string, 0, len(builtins))
		for k := range builtins {
			names = append(names, string(k))
		}
		sort.Strings(names)
		short := make([]any, len(names))
		for i, n := range names {
			short[i] = ":" + n
		}
		out.AnyOf = append(out.AnyOf, &Schema{Enum: short})
	}
	return out
}

func each(ts []spark.Type) []*Schema {
	out := make([]*Schema, len(ts))
	for i, t := range ts {
		out[i] = FromType(t)
	}
	return out
}

// docValue renders v the way it appears in a decoded document.
func docValue(v any) any {
	switch t := v.(type) {
	case spark.Atom:
		return ":" + string(t)
	case spark.Keyword:
		m := make(map[string]any, len(t))
		for _, p := range t {
			m[string(p.Key)] = docValue(p.Value)
		}
		return m
	case []any:
		return docValues(t)
	case spark.ModuleRef:
		return []any{docValue(t.Module), docValue(t.Opts)}
	}
	return v
}

func docValues(vs []any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = docValue(v)
	}
	return out
}

func intp(n int) *int       { return &n }
func int64p(n int64) *int64 { return &n }
