package schemafile

import (
	spark "github.com/ash-project/spark-sub001"
)

func (p *parser) typ(v any) (spark.Type, error) {
	switch t := v.(type) {
	case string:
		prim, ok := spark.ParsePrimitive(t)
		if !ok {
			return nil, p.errorf("unknown type %q", t)
		}
		return prim, nil
	case spark.Keyword:
		if len(t) != 1 {
			return nil, p.errorf("a type mapping must have exactly one key, got %v", t.Keys())
		}
		var out spark.Type
		err := p.at(t[0].Key, func() error {
			var err error
			out, err = p.combinator(t[0].Key, t[0].Value)
			return err
		})
		return out, err
	}
	return nil, p.errorf("expected a type, got %s", spark.Inspect(v))
}

func (p *parser) types(v any) ([]spark.Type, error) {
	l, err := p.list(v)
	if err != nil {
		return nil, err
	}
	out := make([]spark.Type, len(l))
	for i, e := range l {
		err := p.at(i, func() error {
			var err error
			out[i], err = p.typ(e)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *parser) nested(v any) (*spark.Schema, error) {
	kw, ok := v.(spark.Keyword)
	if !ok {
		if l, isList := v.([]any); isList && len(l) == 0 {
			return spark.NewSchema()
		}
		return nil, p.errorf("expected a mapping of options, got %s", spark.Inspect(v))
	}
	return p.schema(kw)
}

func (p *parser) combinator(name spark.Atom, v any) (spark.Type, error) {
	switch name {
	case "or", "and", "tuple":
		ts, err := p.types(v)
		if err != nil {
			return nil, err
		}
		switch name {
		case "or":
			return spark.Or(ts), nil
		case "and":
			return spark.And(ts), nil
		}
		return spark.TupleOf(ts), nil
	case "list_of", "wrap_list":
		elem, err := p.typ(v)
		if err != nil {
			return nil, err
		}
		if name == "list_of" {
			return spark.ListOf{Elem: elem}, nil
		}
		return spark.WrapList{Elem: elem}, nil
	case "one_of":
		l, err := p.list(v)
		if err != nil {
			return nil, err
		}
		return spark.OneOf(l), nil
	case "in":
		return p.in(v)
	case "literal":
		return spark.Literal{Value: v}, nil
	case "keyword_list", "non_empty_keyword_list", "map":
		s, err := p.nested(v)
		if err != nil {
			return nil, err
		}
		switch name {
		case "keyword_list":
			return spark.KeywordListOf{Schema: s}, nil
		case "non_empty_keyword_list":
			return spark.NonEmptyKeywordListOf{Schema: s}, nil
		}
		return spark.MapOf{Schema: s}, nil
	case "map_of":
		kw, ok := v.(spark.Keyword)
		if !ok {
			return nil, p.errorf("expected {key, value}, got %s", spark.Inspect(v))
		}
		var mt spark.MapKV
		for _, f := range kw {
			err := p.at(f.Key, func() error {
				var err error
				switch f.Key {
				case "key":
					mt.Key, err = p.typ(f.Value)
				case "value":
					mt.Value, err = p.typ(f.Value)
				default:
					err = p.errorf("unknown field %q", f.Key)
				}
				return err
			})
			if err != nil {
				return nil, err
			}
		}
		return mt, nil
	case "fun", "mfa_or_fun":
		n, err := p.integer(v)
		if err != nil {
			return nil, err
		}
		if name == "fun" {
			return spark.FunctionArity{Arity: int(n)}, nil
		}
		return spark.MfaOrFun{Arity: int(n)}, nil
	case "impl":
		proto, err := p.text(v)
		if err != nil {
			return nil, err
		}
		return spark.ImplOf{Protocol: spark.Atom(proto)}, nil
	case "behaviour":
		return p.behaviour(v)
	case "custom":
		return p.custom(v)
	}
	return nil, p.errorf("unknown type %q", name)
}

func (p *parser) in(v any) (spark.Type, error) {
	if kw, ok := v.(spark.Keyword); ok {
		lo, okMin := kw.Get("min")
		hi, okMax := kw.Get("max")
		if !okMin || !okMax || len(kw) != 2 {
			return nil, p.errorf("a range needs exactly min and max")
		}
		min, err := p.integer(lo)
		if err != nil {
			return nil, err
		}
		max, err := p.integer(hi)
		if err != nil {
			return nil, err
		}
		if min > max {
			return nil, p.errorf("empty range %d..%d", min, max)
		}
		return spark.InRange(min, max), nil
	}
	l, err := p.list(v)
	if err != nil {
		return nil, err
	}
	return spark.In{Values: l}, nil
}

// behaviour accepts a bare behaviour name or {name, builtins}, where each
// builtin is {module, opts}.
func (p *parser) behaviour(v any) (spark.Type, error) {
	kw, ok := v.(spark.Keyword)
	if !ok {
		name, err := p.text(v)
		if err != nil {
			return nil, err
		}
		return spark.Behaviour{Behaviour: spark.Atom(name)}, nil
	}
	var bt spark.Behaviour
	for _, f := range kw {
		err := p.at(f.Key, func() error {
			switch f.Key {
			case "name":
				name, err := p.text(f.Value)
				bt.Behaviour = spark.Atom(name)
				return err
			case "builtins":
				builtins, ok := f.Value.(spark.Keyword)
				if !ok {
					return p.errorf("expected a mapping of builtins")
				}
				bt.Builtins = make(map[spark.Atom]spark.ModuleRef, len(builtins))
				for _, b := range builtins {
					err := p.at(b.Key, func() error {
						ref, err := p.moduleRef(b.Value)
						bt.Builtins[b.Key] = ref
						return err
					})
					if err != nil {
						return err
					}
				}
				return nil
			}
			return p.errorf("unknown field %q", f.Key)
		})
		if err != nil {
			return nil, err
		}
	}
	if bt.Behaviour == "" {
		return nil, p.errorf("behaviour needs a name")
	}
	return bt, nil
}

func (p *parser) moduleRef(v any) (spark.ModuleRef, error) {
	if name, err := p.text(v); err == nil {
		return spark.ModuleRef{Module: spark.Atom(name)}, nil
	}
	kw, ok := v.(spark.Keyword)
	if !ok {
		return spark.ModuleRef{}, p.errorf("expected a module or {module, opts}, got %s", spark.Inspect(v))
	}
	var ref spark.ModuleRef
	for _, f := range kw {
		switch f.Key {
		case "module":
			name, err := p.text(f.Value)
			if err != nil {
				return ref, err
			}
			ref.Module = spark.Atom(name)
		case "opts":
			opts, ok := f.Value.(spark.Keyword)
			if !ok {
				return ref, p.errorf("expected opts to be a mapping")
			}
			ref.Opts = opts
		default:
			return ref, p.errorf("unknown field %q", f.Key)
		}
	}
	if ref.Module == "" {
		return ref, p.errorf("builtin needs a module")
	}
	return ref, nil
}

// custom accepts a function name or {name, args}.
func (p *parser) custom(v any) (spark.Type, error) {
	var (
		name string
		args []any
		err  error
	)
	if kw, ok := v.(spark.Keyword); ok {
		n, _ := kw.Get("name")
		if name, err = p.text(n); err != nil {
			return nil, err
		}
		if a, ok := kw.Get("args"); ok {
			if args, err = p.list(a); err != nil {
				return nil, err
			}
		}
	} else if name, err = p.text(v); err != nil {
		return nil, err
	}
	fn, ok := p.opt.Customs[name]
	if !ok || fn == nil {
		return nil, p.errorf("no custom function registered as %q", name)
	}
	return spark.Custom{Name: name, Fn: fn, Args: args}, nil
}
