package spark

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ash-project/spark-sub001/i18n"
)

// Evaluate checks value against t and returns the possibly transformed
// value. Error paths are relative to value.
func Evaluate(t Type, value any, opts ...ValidateOpt) (any, error) {
	out, err := newEvalCtx(opts).evaluate(t, value)
	if err != nil {
		return nil, err.finalize()
	}
	return out, nil
}

func (c *evalCtx) evaluate(t Type, v any) (any, *ValidationError) {
	switch t := t.(type) {
	case nil:
		return v, nil
	case Primitive:
		if !t.Match(v) {
			return nil, mismatch(t, v)
		}
		return v, nil
	case Literal:
		if !equal(v, t.Value) {
			return nil, newError(KindTypeMismatch, v, "literal", map[string]string{"expected": Inspect(t.Value), "value": Inspect(v)})
		}
		return v, nil
	case OneOf:
		return member([]any(t), v)
	case In:
		if t.Range != nil {
			if n, ok := asInt64(v); ok && t.Range.Contains(n) {
				return v, nil
			}
			return nil, newError(KindTypeMismatch, v, "in_range", map[string]string{"expected": t.String()[len("in "):], "value": Inspect(v)})
		}
		return member(t.Values, v)
	case Or:
		return c.evalOr(t, v)
	case And:
		return c.evalAnd(t, v)
	case Custom:
		return c.evalCustom(t, v)
	case ListOf:
		return c.evalList(t, t.Elem, v)
	case WrapList:
		return c.evalWrapList(t, v)
	case TupleOf:
		return c.evalTuple(t, v)
	case KeywordListOf:
		return c.evalKeyword(t, t.Schema, v, false)
	case NonEmptyKeywordListOf:
		return c.evalKeyword(t, t.Schema, v, true)
	case MapOf:
		return c.evalMap(t, t.Schema, v)
	case FunctionArity:
		return evalArity(t, t.Arity, v)
	case FunctionBehaviour:
		return c.evalFunctionBehaviour(t, v)
	case Behaviour:
		return c.evalBehaviour(t, v)
	case ImplOf:
		return c.evalImpl(t, v)
	case MapKV:
		return c.evalMapKV(t, v)
	case MfaOrFun:
		if isMFA(v) {
			return v, nil
		}
		if n, ok := funcArity(v); ok && n == t.Arity {
			return v, nil
		}
		return nil, mismatch(t, v)
	case StructOf:
		if v != nil && t.Type != nil {
			rt := reflect.TypeOf(v)
			if rt == t.Type || (rt.Kind() == reflect.Pointer && rt.Elem() == t.Type && !reflect.ValueOf(v).IsNil()) {
				return v, nil
			}
		}
		return nil, mismatch(t, v)
	}
	panic(fmt.Sprintf("spark: unsupported type node %T", t))
}

func member(values []any, v any) (any, *ValidationError) {
	for _, m := range values {
		if equal(v, m) {
			return v, nil
		}
	}
	return nil, newError(KindTypeMismatch, v, "one_of", map[string]string{"expected": Inspect(values), "value": Inspect(v)})
}

func (c *evalCtx) evalOr(t Or, v any) (any, *ValidationError) {
	reasons := make([]string, 0, len(t))
	errs := make([]error, 0, len(t))
	for _, sub := range t {
		out, err := c.evaluate(sub, v)
		if err == nil {
			return out, nil
		}
		reasons = append(reasons, "  * "+err.reason())
		errs = append(errs, err)
	}
	e := newError(KindCombinatorFailure, v, "or_failed", map[string]string{
		"value":   Inspect(v),
		"reasons": strings.Join(reasons, "\n"),
	})
	e.Err = errors.Join(errs...)
	return nil, e
}

func (c *evalCtx) evalAnd(t And, v any) (any, *ValidationError) {
	cur := v
	for _, sub := range t {
		out, err := c.evaluate(sub, cur)
		if err != nil {
			e := newError(KindCombinatorFailure, cur, "and_failed", map[string]string{
				"value":  Inspect(v),
				"types":  joinTypes([]Type(t), ", "),
				"failed": describe(sub),
				"reason": err.reason(),
			})
			e.Key = err.Key
			e.Keys = err.Keys
			e.rpath = err.rpath
			e.Err = err
			return nil, e
		}
		cur = out
	}
	return cur, nil
}

func (c *evalCtx) evalCustom(t Custom, v any) (any, *ValidationError) {
	if t.Fn == nil {
		panic(fmt.Sprintf("spark: %s has no function", t))
	}
	out, err := t.Fn(v, t.Args...)
	if err != nil {
		return nil, &ValidationError{Kind: KindCustomValidatorError, Value: v, Message: err.Error(), Err: err}
	}
	return out, nil
}

func (c *evalCtx) evalList(t Type, elem Type, v any) (any, *ValidationError) {
	seq, ok := asSequence(v)
	if !ok {
		return nil, mismatch(t, v)
	}
	out := make([]any, len(seq))
	for i, e := range seq {
		ev, err := c.evaluate(elem, e)
		if err != nil {
			return nil, err.under(i)
		}
		out[i] = ev
	}
	return out, nil
}

func (c *evalCtx) evalWrapList(t WrapList, v any) (any, *ValidationError) {
	single, serr := c.evaluate(t.Elem, v)
	if serr == nil {
		return []any{single}, nil
	}
	data := map[string]string{"elem": describe(t.Elem), "value": Inspect(v)}
	if _, ok := asSequence(v); !ok {
		e := newError(KindTypeMismatch, v, "wrap_list", data)
		e.Err = serr
		return nil, e
	}
	out, lerr := c.evalList(t, t.Elem, v)
	if lerr != nil {
		data["reason"] = lerr.Message
		e := newError(KindTypeMismatch, v, "wrap_list_element", data)
		e.Key = lerr.Key
		e.rpath = lerr.rpath
		e.Err = lerr
		return nil, e
	}
	return out, nil
}

func (c *evalCtx) evalTuple(t TupleOf, v any) (any, *ValidationError) {
	seq, ok := asSequence(v)
	if !ok {
		return nil, mismatch(t, v)
	}
	if len(seq) != len(t) {
		return nil, newError(KindArityMismatch, v, "tuple_arity", map[string]string{
			"expected": itoa(len(t)),
			"actual":   itoa(len(seq)),
			"value":    Inspect(v),
		})
	}
	out := make([]any, len(seq))
	for i, sub := range t {
		ev, err := c.evaluate(sub, seq[i])
		if err != nil {
			return nil, err.under(i)
		}
		out[i] = ev
	}
	return out, nil
}

func (c *evalCtx) evalKeyword(t Type, s *Schema, v any, nonEmpty bool) (any, *ValidationError) {
	kw, ok := asKeyword(v)
	if !ok {
		return nil, mismatch(t, v)
	}
	res, err := c.validate(s, kw)
	if err != nil {
		return nil, err
	}
	out := res.Keyword()
	if nonEmpty && len(out) == 0 {
		return nil, newError(KindEmptyNotAllowed, v, "empty_not_allowed", map[string]string{"expected": "keyword list", "value": Inspect(v)})
	}
	return out, nil
}

func (c *evalCtx) evalMap(t Type, s *Schema, v any) (any, *ValidationError) {
	kw, ok := mapToKeyword(v)
	if !ok {
		return nil, mismatch(t, v)
	}
	res, err := c.validate(s, kw)
	if err != nil {
		return nil, err
	}
	out := make(map[Atom]any, len(res.kw))
	for _, p := range res.kw {
		out[p.Key] = p.Value
	}
	return out, nil
}

// evalKeys validates a raw nested option (keyword_list, non_empty_keyword_list
// or map carrying OptionSpec.Keys).
func (c *evalCtx) evalKeys(spec OptionSpec, v any) (any, *ValidationError) {
	p, _ := spec.Type.(Primitive)
	switch p {
	case MapType:
		return c.evalMap(p, spec.Keys, v)
	case NonEmptyKeywordListType:
		return c.evalKeyword(p, spec.Keys, v, true)
	}
	return c.evalKeyword(p, spec.Keys, v, false)
}

// mapToKeyword turns a map with string-kinded keys into a keyword list
// sorted by key. A keyword list, the form documents decode to, is taken
// as is.
func mapToKeyword(v any) (Keyword, bool) {
	if v == nil {
		return nil, false
	}
	if kw, ok := v.(Keyword); ok {
		return kw, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	kw := make(Keyword, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		kw = append(kw, Pair{Key: Atom(iter.Key().String()), Value: iter.Value().Interface()})
	}
	sort.Slice(kw, func(i, j int) bool { return kw[i].Key < kw[j].Key })
	return kw, true
}

func funcArity(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return 0, false
	}
	ft := rv.Type()
	if ft.IsVariadic() {
		return -1, true
	}
	return ft.NumIn(), true
}

func evalArity(t Type, arity int, v any) (any, *ValidationError) {
	n, ok := funcArity(v)
	if !ok {
		return nil, mismatch(t, v)
	}
	if n != arity {
		actual := itoa(n)
		if n < 0 {
			actual = "variadic"
		}
		return nil, newError(KindArityMismatch, v, "arity_mismatch", map[string]string{"expected": itoa(arity), "actual": actual})
	}
	return v, nil
}

// evalMapKV validates a Go map, or a keyword list as decoded from a
// document, whose keys are atoms.
func (c *evalCtx) evalMapKV(t MapKV, v any) (any, *ValidationError) {
	var entries []mapEntry
	switch {
	case v == nil:
		return nil, mismatch(t, v)
	case isKeyword(v):
		for _, p := range v.(Keyword) {
			entries = append(entries, mapEntry{key: p.Key, value: p.Value})
		}
	case reflect.TypeOf(v).Kind() == reflect.Map:
		rv := reflect.ValueOf(v)
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return Inspect(keys[i].Interface()) < Inspect(keys[j].Interface()) })
		for _, k := range keys {
			entries = append(entries, mapEntry{key: k.Interface(), value: rv.MapIndex(k).Interface()})
		}
	default:
		return nil, mismatch(t, v)
	}
	out := make(map[any]any, len(entries))
	for _, en := range entries {
		ko, err := c.evaluate(t.Key, en.key)
		if err != nil {
			e := newError(err.Kind, en.key, "map_key", map[string]string{"mapkey": Inspect(en.key), "reason": err.reason()})
			e.Err = err
			return nil, e
		}
		if !hashable(reflect.ValueOf(ko)) {
			e := newError(KindTypeMismatch, en.key, "map_key", map[string]string{
				"mapkey": Inspect(en.key),
				"reason": i18n.T("unhashable_key", map[string]string{"value": Inspect(ko)}),
			})
			e.Err = fmt.Errorf("spark: map key of type %T is not comparable", ko)
			return nil, e
		}
		vo, err := c.evaluate(t.Value, en.value)
		if err != nil {
			return nil, err.under(en.key)
		}
		out[ko] = vo
	}
	return out, nil
}

type mapEntry struct{ key, value any }

// hashable reports whether v can be used as a map key, looking through
// interfaces, structs and arrays at the dynamic values they hold.
func hashable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Interface:
		return v.IsNil() || hashable(v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !hashable(v.Field(i)) {
				return false
			}
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !hashable(v.Index(i)) {
				return false
			}
		}
	}
	return true
}

func isKeyword(v any) bool {
	_, ok := v.(Keyword)
	return ok
}
