package spark

import (
	"os"
	"reflect"
	"regexp"

	"github.com/google/uuid"
)

// Match reports whether v structurally conforms to p. It never coerces.
func (p Primitive) Match(v any) bool {
	switch p {
	case AnyType:
		return true
	case AtomType, ModuleType:
		_, ok := v.(Atom)
		return ok
	case StringType:
		_, ok := v.(string)
		return ok
	case BooleanType:
		_, ok := v.(bool)
		return ok
	case IntegerType:
		return isInteger(v)
	case NonNegIntegerType:
		return integerSign(v) >= 0
	case PosIntegerType:
		return integerSign(v) > 0
	case FloatType:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	case TimeoutType:
		if a, ok := v.(Atom); ok {
			return a == Infinity
		}
		return integerSign(v) >= 0
	case PidType:
		pr, ok := v.(*os.Process)
		return ok && pr != nil
	case ReferenceType:
		_, ok := v.(uuid.UUID)
		return ok
	case MFAType:
		return isMFA(v)
	case KeywordListType:
		_, ok := asKeyword(v)
		return ok
	case NonEmptyKeywordListType:
		kw, ok := asKeyword(v)
		return ok && len(kw) > 0
	case MapType:
		return isKeyword(v) || (v != nil && reflect.TypeOf(v).Kind() == reflect.Map)
	case RegexType:
		re, ok := v.(*regexp.Regexp)
		return ok && re != nil
	}
	return false
}

func isMFA(v any) bool {
	switch t := v.(type) {
	case MFA:
		return t.Module != "" && t.Function != ""
	case []any:
		if len(t) != 3 {
			return false
		}
		_, okM := t[0].(Atom)
		_, okF := t[1].(Atom)
		_, okA := asSequence(t[2])
		return okM && okF && okA
	}
	return false
}

func isInteger(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// integerSign returns -1, 0 or 1 for integers and -2 for anything else.
func integerSign(v any) int {
	if !isInteger(v) {
		return -2
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		switch {
		case n < 0:
			return -1
		case n == 0:
			return 0
		}
		return 1
	}
	if rv.Uint() == 0 {
		return 0
	}
	return 1
}

// asInt64 converts integer kinds to int64; unsigned values above MaxInt64 do
// not convert.
func asInt64(v any) (int64, bool) {
	if !isInteger(v) {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	}
	u := rv.Uint()
	if u > 1<<63-1 {
		return 0, false
	}
	return int64(u), true
}

// equal compares values the way literal and membership checks need:
// integers by value across Go integer kinds, floats likewise, everything
// else with reflect.DeepEqual.
func equal(a, b any) bool {
	if ai, ok := asInt64(a); ok {
		bi, ok := asInt64(b)
		return ok && ai == bi
	}
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}
