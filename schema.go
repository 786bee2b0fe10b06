package spark

import (
	"errors"
	"fmt"
)

// OptionSpec describes one schema entry.
type OptionSpec struct {
	// Type of the value; nil means AnyType.
	Type     Type
	Required bool
	// Default is applied verbatim, without validation, when the key is absent
	// and HasDefault is set. A nil Default with HasDefault is a real default.
	Default    any
	HasDefault bool
	Doc        string
	TypeDoc    string
	// Deprecated, when non-empty, is the reason reported when the option is
	// supplied.
	Deprecated string
	// Keys is the nested schema of a raw keyword_list, non_empty_keyword_list
	// or map option.
	Keys *Schema
}

func (o OptionSpec) typ() Type {
	if o.Type == nil {
		return AnyType
	}
	return o.Type
}

// Entry pairs an option key with its spec.
type Entry struct {
	Key  Atom
	Spec OptionSpec
}

// Opt is shorthand for building an Entry.
func Opt(key Atom, spec OptionSpec) Entry { return Entry{Key: key, Spec: spec} }

// Schema is an immutable ordered mapping of option keys to specs.
type Schema struct {
	entries  []Entry
	index    map[Atom]int
	required []Atom
	wildcard *OptionSpec
}

// ErrInvalidSchema is wrapped by schema construction errors.
var ErrInvalidSchema = errors.New("spark: invalid schema")

// NewSchema builds a Schema from entries in declaration order. A Wildcard
// entry is kept apart from the declared keys.
func NewSchema(entries ...Entry) (*Schema, error) {
	s := &Schema{index: make(map[Atom]int, len(entries))}
	for _, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("%w: empty option key", ErrInvalidSchema)
		}
		if e.Spec.Keys != nil {
			p, ok := e.Spec.Type.(Primitive)
			if !ok || !p.Nested() {
				return nil, fmt.Errorf("%w: option %s sets keys but its type is %s", ErrInvalidSchema, Inspect(e.Key), describe(e.Spec.Type))
			}
		}
		if e.Key == Wildcard {
			if s.wildcard != nil {
				return nil, fmt.Errorf("%w: duplicate option %s", ErrInvalidSchema, Inspect(e.Key))
			}
			spec := e.Spec
			s.wildcard = &spec
			continue
		}
		if _, dup := s.index[e.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate option %s", ErrInvalidSchema, Inspect(e.Key))
		}
		s.index[e.Key] = len(s.entries)
		s.entries = append(s.entries, e)
		if e.Spec.Required {
			s.required = append(s.required, e.Key)
		}
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(entries ...Entry) *Schema {
	s, err := NewSchema(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of declared keys, excluding the wildcard.
func (s *Schema) Len() int { return len(s.entries) }

// Keys returns the declared keys in declaration order.
func (s *Schema) Keys() []Atom {
	out := make([]Atom, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Key
	}
	return out
}

// Entries returns a copy of the declared entries in order.
func (s *Schema) Entries() []Entry { return append([]Entry(nil), s.entries...) }

// Lookup returns the spec declared for key.
func (s *Schema) Lookup(key Atom) (OptionSpec, bool) {
	i, ok := s.index[key]
	if !ok {
		return OptionSpec{}, false
	}
	return s.entries[i].Spec, true
}

// IndexOf returns the declaration position of key.
func (s *Schema) IndexOf(key Atom) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

// Wildcard returns the spec applied to undeclared keys, if any.
func (s *Schema) Wildcard() (OptionSpec, bool) {
	if s.wildcard == nil {
		return OptionSpec{}, false
	}
	return *s.wildcard, true
}

// Required returns the required keys in declaration order.
func (s *Schema) Required() []Atom { return append([]Atom(nil), s.required...) }

// Validate is shorthand for Validate(s, input, opts...).
func (s *Schema) Validate(input Keyword, opts ...ValidateOpt) (*Result, error) {
	return Validate(s, input, opts...)
}
