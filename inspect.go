package spark

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Inspect renders v the way values appear in validation messages: atoms as
// :name, strings quoted, keyword lists as [key: value], nil as nil.
func Inspect(v any) string {
	var b strings.Builder
	inspect(&b, v)
	return b.String()
}

func inspect(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("nil")
	case Atom:
		if isModuleName(t) {
			b.WriteString(string(t))
		} else {
			b.WriteString(":" + string(t))
		}
	case string:
		b.WriteString(strconv.Quote(t))
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case Keyword:
		inspectKeyword(b, t)
	case []Pair:
		inspectKeyword(b, Keyword(t))
	case Pair:
		b.WriteString("{")
		inspect(b, t.Key)
		b.WriteString(", ")
		inspect(b, t.Value)
		b.WriteString("}")
	case ModuleRef:
		b.WriteString("{")
		inspect(b, t.Module)
		b.WriteString(", ")
		inspectKeyword(b, t.Opts)
		b.WriteString("}")
	case MFA:
		b.WriteString("{")
		inspect(b, t.Module)
		b.WriteString(", ")
		inspect(b, t.Function)
		b.WriteString(", ")
		inspect(b, t.Args)
		b.WriteString("}")
	case uuid.UUID:
		b.WriteString("#Reference<" + t.String() + ">")
	case *os.Process:
		b.WriteString("#PID<" + strconv.Itoa(t.Pid) + ">")
	case *regexp.Regexp:
		b.WriteString("~r/" + t.String() + "/")
	case fmt.Stringer:
		b.WriteString(t.String())
	default:
		inspectReflect(b, v)
	}
}

func inspectKeyword(b *strings.Builder, kw Keyword) {
	b.WriteString("[")
	for i, p := range kw {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(p.Key) + ": ")
		inspect(b, p.Value)
	}
	b.WriteString("]")
}

func inspectReflect(b *strings.Builder, v any) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		b.WriteString("[")
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			inspect(b, rv.Index(i).Interface())
		}
		b.WriteString("]")
	case reflect.Map:
		keys := rv.MapKeys()
		rendered := make([]string, 0, len(keys))
		for _, k := range keys {
			var kb strings.Builder
			inspect(&kb, k.Interface())
			kb.WriteString(" => ")
			inspect(&kb, rv.MapIndex(k).Interface())
			rendered = append(rendered, kb.String())
		}
		sort.Strings(rendered)
		b.WriteString("%{" + strings.Join(rendered, ", ") + "}")
	case reflect.Func:
		b.WriteString("#Function<" + rv.Type().String() + ">")
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

// isModuleName reports whether a renders bare, the way module names do.
func isModuleName(a Atom) bool { return len(a) > 0 && a[0] >= 'A' && a[0] <= 'Z' }

func inspectKeys(keys []Atom) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = Inspect(k)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
