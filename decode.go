package spark

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Plain converts validated data into plain Go data: keyword lists and maps
// with atom keys become map[string]any, atoms become strings, and sequences
// become []any.
func Plain(v any) any {
	switch t := v.(type) {
	case Atom:
		return string(t)
	case Keyword:
		m := make(map[string]any, len(t))
		for _, p := range t {
			m[string(p.Key)] = Plain(p.Value)
		}
		return m
	case map[Atom]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[string(k)] = Plain(vv)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[plainKey(k)] = Plain(vv)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case ModuleRef:
		return map[string]any{"module": string(t.Module), "opts": Plain(t.Opts)}
	}
	return v
}

func plainKey(k any) string {
	switch t := k.(type) {
	case Atom:
		return string(t)
	case string:
		return t
	}
	return Inspect(k)
}

// DecodeMap decodes plain data into out with mapstructure. Struct fields are
// matched by their `spark` tag, falling back to the field name.
func DecodeMap(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "spark",
		Result:     out,
		DecodeHook: atomToString,
	})
	if err != nil {
		return fmt.Errorf("spark: decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("spark: decode: %w", err)
	}
	return nil
}

// atomToString lets atoms decode into plain string fields nested in values
// Plain did not reach, such as struct values carried through Any.
func atomToString(from, to reflect.Type, data any) (any, error) {
	if a, ok := data.(Atom); ok && to.Kind() == reflect.String {
		return reflect.ValueOf(string(a)).Convert(to).Interface(), nil
	}
	return data, nil
}
