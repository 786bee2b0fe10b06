package compiled

import (
	"fmt"
	"reflect"
	"strings"

	spark "github.com/ash-project/spark-sub001"
)

// Typed decodes records of a Validator into values of struct type T.
type Typed[T any] struct {
	v *Validator
}

// Bind checks that every exported field of T resolves to a key of v's schema
// and returns a typed front end for v. Fields are matched by `spark` tag,
// then case-insensitively by name; a tag of "-" skips the field.
func Bind[T any](v *Validator) (*Typed[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("compiled: bind %s: not a struct type", rt)
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldKey(sf)
		if name == "-" {
			continue
		}
		if !v.hasKey(name) {
			return nil, fmt.Errorf("compiled: bind %s: field %s has no option %s in %v", rt, sf.Name, spark.Inspect(spark.Atom(name)), v.schema.Keys())
		}
	}
	return &Typed[T]{v: v}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](v *Validator) *Typed[T] {
	t, err := Bind[T](v)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate validates input and decodes the record into a T.
func (t *Typed[T]) Validate(input spark.Keyword) (T, error) {
	var out T
	rec, err := t.v.Validate(input)
	if err != nil {
		return out, err
	}
	if err := rec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Validator returns the underlying validator.
func (t *Typed[T]) Validator() *Validator { return t.v }

// fieldKey resolves the option key of a struct field: `spark` tag name, then
// field name.
func fieldKey(sf reflect.StructField) string {
	if tag := sf.Tag.Get("spark"); tag != "" {
		if i := strings.IndexByte(tag, ','); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" {
			return tag
		}
	}
	return sf.Name
}

func (v *Validator) hasKey(name string) bool {
	if _, ok := v.index[spark.Atom(name)]; ok {
		return true
	}
	for _, f := range v.fields {
		if strings.EqualFold(string(f.key), name) {
			return true
		}
	}
	return false
}
