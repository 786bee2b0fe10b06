package spark

import "reflect"

// Atom is a symbol-like identifier. Option keys are atoms and atom values
// render as :name in messages.
type Atom string

// Wildcard is the reserved schema key whose spec applies to every key the
// schema does not declare.
const Wildcard Atom = "*"

// Infinity is the atom accepted by the timeout type in place of an integer.
const Infinity Atom = "infinity"

// Pair is a single key/value entry of a keyword list.
type Pair struct {
	Key   Atom
	Value any
}

// Keyword is an ordered key/value sequence. Keys may repeat.
type Keyword []Pair

// Get returns the value of the last entry with the given key.
func (kw Keyword) Get(key Atom) (any, bool) {
	for i := len(kw) - 1; i >= 0; i-- {
		if kw[i].Key == key {
			return kw[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether key appears in kw.
func (kw Keyword) Has(key Atom) bool {
	_, ok := kw.Get(key)
	return ok
}

// Keys returns the keys of kw in order, including repeats.
func (kw Keyword) Keys() []Atom {
	out := make([]Atom, 0, len(kw))
	for _, p := range kw {
		out = append(out, p.Key)
	}
	return out
}

// ModuleRef is a {module, opts} pair as produced by behaviour types.
type ModuleRef struct {
	Module Atom
	Opts   Keyword
}

// MFA is a {module, function, args} triple.
type MFA struct {
	Module   Atom
	Function Atom
	Args     []any
}

// Range is an inclusive integer range.
type Range struct {
	Min int64
	Max int64
}

// Contains reports whether n lies within the bounds of r.
func (r Range) Contains(n int64) bool { return n >= r.Min && n <= r.Max }

// FunctionShape describes how inline functions are accepted by a
// FunctionBehaviour: the wrapping module and the arity the function must have.
type FunctionShape struct {
	Module Atom
	Arity  int
}

// asKeyword reports whether v is a keyword list: a Keyword, a []Pair, or a
// []any made only of Pair values (the empty list included).
func asKeyword(v any) (Keyword, bool) {
	switch t := v.(type) {
	case Keyword:
		return t, true
	case []Pair:
		return Keyword(t), true
	case []any:
		kw := make(Keyword, 0, len(t))
		for _, e := range t {
			p, ok := e.(Pair)
			if !ok {
				return nil, false
			}
			kw = append(kw, p)
		}
		return kw, true
	}
	return nil, false
}

// asSequence converts any Go slice or array into []any. Strings are not
// sequences.
func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	case Keyword:
		out := make([]any, len(t))
		for i, p := range t {
			out[i] = p
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
