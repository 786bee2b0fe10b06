// Package schemafile loads option schemas declared as YAML or JSON
// documents.
//
// A document maps each option key to its entry:
//
//	name:
//	  type: string
//	  required: true
//	  doc: service name
//	port:
//	  type: {in: {min: 1, max: 65535}}
//	  default: 4000
//	hosts:
//	  type: {wrap_list: string}
//	tls:
//	  type:
//	    keyword_list:
//	      cert: {type: string, required: true}
//
// A type is a primitive name or a single-key mapping naming a combinator.
// Strings of the form ":name" in values are atoms.
package schemafile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	spark "github.com/ash-project/spark-sub001"
	"github.com/ash-project/spark-sub001/source"
)

// Options configures document loading. When several are passed the last
// one wins.
type Options struct {
	// Customs resolves the names used by `custom` types.
	Customs map[string]spark.CustomFunc
	// MaxDepth limits document nesting; 0 means unlimited.
	MaxDepth int
}

var ErrInvalidDocument = errors.New("schemafile: invalid document")

// Parse reads a schema document. JSON documents are accepted as YAML.
func Parse(data []byte, opts ...Options) (*spark.Schema, error) {
	opt := lastOpt(opts)
	doc, err := source.YAML(data, decodeOptions(opt))
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return (&parser{opt: opt}).schema(doc)
}

// Load reads the schema document at path; files ending in .json are decoded
// as JSON, everything else as YAML.
func Load(path string, opts ...Options) (*spark.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	opt := lastOpt(opts)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := source.JSON(data, decodeOptions(opt))
		if err != nil {
			return nil, fmt.Errorf("schemafile: %s: %w", path, err)
		}
		return (&parser{opt: opt}).schema(doc)
	}
	s, err := Parse(data, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func lastOpt(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[len(opts)-1]
}

func decodeOptions(opt Options) source.Options {
	return source.Options{AtomPrefix: true, RejectDuplicateKeys: true, MaxDepth: opt.MaxDepth}
}

type parser struct {
	opt  Options
	path spark.Path
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDocument, p.path.Pointer(), fmt.Sprintf(format, args...))
}

func (p *parser) at(seg any, fn func() error) error {
	p.path = append(p.path, seg)
	err := fn()
	p.path = p.path[:len(p.path)-1]
	return err
}

func (p *parser) schema(doc spark.Keyword) (*spark.Schema, error) {
	entries := make([]spark.Entry, 0, len(doc))
	for _, pair := range doc {
		err := p.at(pair.Key, func() error {
			spec, err := p.entry(pair.Value)
			if err != nil {
				return err
			}
			entries = append(entries, spark.Opt(pair.Key, spec))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	s, err := spark.NewSchema(entries...)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return s, nil
}

var entryFields = map[spark.Atom]bool{
	"type": true, "required": true, "default": true, "doc": true,
	"type_doc": true, "deprecated": true, "keys": true,
}

// entry accepts a full entry mapping or a bare type. A single-key mapping
// whose key is not an entry field is a type.
func (p *parser) entry(v any) (spark.OptionSpec, error) {
	var spec spark.OptionSpec
	kw, ok := v.(spark.Keyword)
	if !ok || (len(kw) == 1 && !entryFields[kw[0].Key]) {
		t, err := p.typ(v)
		spec.Type = t
		return spec, err
	}
	for _, f := range kw {
		err := p.at(f.Key, func() error {
			var err error
			switch f.Key {
			case "type":
				spec.Type, err = p.typ(f.Value)
			case "required":
				spec.Required, err = p.boolean(f.Value)
			case "default":
				spec.Default, spec.HasDefault = f.Value, true
			case "doc":
				spec.Doc, err = p.text(f.Value)
			case "type_doc":
				spec.TypeDoc, err = p.text(f.Value)
			case "deprecated":
				spec.Deprecated, err = p.text(f.Value)
			case "keys":
				nested, ok := f.Value.(spark.Keyword)
				if !ok {
					return p.errorf("expected a mapping of options")
				}
				spec.Keys, err = p.schema(nested)
			default:
				return p.errorf("unknown entry field %q", f.Key)
			}
			return err
		})
		if err != nil {
			return spec, err
		}
	}
	return spec, nil
}

func (p *parser) boolean(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, p.errorf("expected a boolean, got %s", spark.Inspect(v))
	}
	return b, nil
}

func (p *parser) text(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case spark.Atom:
		return string(t), nil
	}
	return "", p.errorf("expected a string, got %s", spark.Inspect(v))
}

func (p *parser) integer(v any) (int64, error) {
	n, ok := v.(int64)
	if !ok {
		return 0, p.errorf("expected an integer, got %s", spark.Inspect(v))
	}
	return n, nil
}

func (p *parser) list(v any) ([]any, error) {
	l, ok := v.([]any)
	if !ok {
		return nil, p.errorf("expected a list, got %s", spark.Inspect(v))
	}
	return l, nil
}
