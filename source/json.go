package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	j "github.com/goccy/go-json"

	spark "github.com/ash-project/spark-sub001"
)

// JSON decodes a JSON object into a keyword list.
func JSON(data []byte, opts ...Options) (spark.Keyword, error) {
	return JSONReader(bytes.NewReader(data), opts...)
}

// JSONReader is like JSON but reads from r. The reader must hold exactly one
// document.
func JSONReader(r io.Reader, opts ...Options) (spark.Keyword, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := &jsonDecoder{dec: dec, w: walker{opt: lastOpt(opts)}}
	tok, err := d.next()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(j.Delim); !ok || delim != '{' {
		return nil, ErrNotKeyword
	}
	kw, err := d.object()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return kw, nil
}

type jsonDecoder struct {
	dec *j.Decoder
	w   walker
}

func (d *jsonDecoder) next() (j.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("source: json: %w", err)
	}
	return tok, nil
}

func (d *jsonDecoder) value(tok j.Token) (any, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return d.object()
		case '[':
			return d.array()
		}
		return nil, d.w.fail(fmt.Errorf("source: json: unexpected %q", rune(v)))
	case string:
		return d.w.str(v), nil
	case j.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, d.w.fail(fmt.Errorf("source: json: number %s: %w", v, err))
		}
		return f, nil
	case float64:
		return v, nil
	case bool:
		return v, nil
	case nil:
		return nil, nil
	}
	return nil, d.w.fail(fmt.Errorf("source: json: unexpected token %v", tok))
}

// object is entered after '{' has been read.
func (d *jsonDecoder) object() (spark.Keyword, error) {
	if err := d.w.enter(); err != nil {
		return nil, err
	}
	defer d.w.leave()
	kw := spark.Keyword{}
	seen := keys{}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == '}' {
			return kw, nil
		}
		name, ok := tok.(string)
		if !ok {
			return nil, d.w.fail(fmt.Errorf("source: json: expected object key, got %v", tok))
		}
		key := spark.Atom(name)
		if err := d.w.addKey(seen, key); err != nil {
			return nil, err
		}
		vt, err := d.next()
		if err != nil {
			return nil, err
		}
		d.w.push(key)
		v, err := d.value(vt)
		d.w.pop()
		if err != nil {
			return nil, err
		}
		kw = append(kw, spark.Pair{Key: key, Value: v})
	}
}

// array is entered after '[' has been read.
func (d *jsonDecoder) array() ([]any, error) {
	if err := d.w.enter(); err != nil {
		return nil, err
	}
	defer d.w.leave()
	out := []any{}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == ']' {
			return out, nil
		}
		d.w.push(len(out))
		v, err := d.value(tok)
		d.w.pop()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// EncodeJSON renders validated data as JSON. Keyword lists become objects
// in their own order; atoms become strings, prefixed with ':' when
// opts.AtomPrefix is set so the output decodes back to the same atoms.
func EncodeJSON(v any, opts ...Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, lastOpt(opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any, opt Options) error {
	switch t := v.(type) {
	case spark.Keyword:
		return encodeObject(buf, t, opt)
	case map[spark.Atom]any:
		kw := make(spark.Keyword, 0, len(t))
		for k, vv := range t {
			kw = append(kw, spark.Pair{Key: k, Value: vv})
		}
		sort.Slice(kw, func(a, b int) bool { return kw[a].Key < kw[b].Key })
		return encodeObject(buf, kw, opt)
	case map[any]any:
		kw := make(spark.Keyword, 0, len(t))
		for k, vv := range t {
			kw = append(kw, spark.Pair{Key: objectKey(k), Value: vv})
		}
		sort.Slice(kw, func(a, b int) bool { return kw[a].Key < kw[b].Key })
		return encodeObject(buf, kw, opt)
	case spark.ModuleRef:
		return encodeObject(buf, spark.Keyword{{Key: "module", Value: t.Module}, {Key: "opts", Value: t.Opts}}, opt)
	case spark.Atom:
		s := string(t)
		if opt.AtomPrefix {
			s = ":" + s
		}
		return encodeScalar(buf, s)
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, e, opt); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	return encodeScalar(buf, v)
}

// objectKey names a map key as an object member: atoms and strings as they
// are, anything else in its inspected form.
func objectKey(k any) spark.Atom {
	switch t := k.(type) {
	case spark.Atom:
		return t
	case string:
		return spark.Atom(t)
	}
	return spark.Atom(spark.Inspect(k))
}

func encodeObject(buf *bytes.Buffer, kw spark.Keyword, opt Options) error {
	buf.WriteByte('{')
	for i, p := range kw {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeScalar(buf, string(p.Key)); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, p.Value, opt); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	b, err := j.Marshal(v)
	if err != nil {
		return fmt.Errorf("source: encode %T: %w", v, err)
	}
	buf.Write(b)
	return nil
}
