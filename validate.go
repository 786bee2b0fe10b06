package spark

import "fmt"

// Validate checks input against s. Entries are processed in input order and
// the first failure stops validation. Absent keys with a default are filled
// in verbatim afterwards.
func Validate(s *Schema, input Keyword, opts ...ValidateOpt) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	res, err := newEvalCtx(opts).validate(s, input)
	if err != nil {
		return nil, err.finalize()
	}
	return res, nil
}

// MustValidate is like Validate but panics with the *ValidationError.
func MustValidate(s *Schema, input Keyword, opts ...ValidateOpt) *Result {
	res, err := Validate(s, input, opts...)
	if err != nil {
		panic(err)
	}
	return res
}

// ValidateOption evaluates a single supplied option the way Validate does:
// it emits the deprecation notice and prefixes error paths with key.
func ValidateOption(key Atom, spec OptionSpec, value any, opts ...ValidateOpt) (any, error) {
	out, err := newEvalCtx(opts).option(key, spec, value)
	if err != nil {
		return nil, err.finalize()
	}
	return out, nil
}

func (c *evalCtx) validate(s *Schema, input Keyword) (*Result, *ValidationError) {
	res := newResult(s, len(input))
	for _, p := range input {
		i, known := s.index[p.Key]
		var spec OptionSpec
		switch {
		case known:
			spec = s.entries[i].Spec
		case s.wildcard != nil:
			spec = *s.wildcard
		default:
			return nil, unknownKey(s, p.Key, p.Value)
		}
		out, err := c.option(p.Key, spec, p.Value)
		if err != nil {
			return nil, err
		}
		if known {
			res.supply(i, out, presenceOf(p.Value))
		} else {
			res.extra(p.Key, out)
		}
	}
	if missing := res.missingRequired(); len(missing) > 0 {
		return nil, missingRequired(missing, input)
	}
	res.applyDefaults()
	return res, nil
}

func (c *evalCtx) option(key Atom, spec OptionSpec, value any) (any, *ValidationError) {
	if spec.Deprecated != "" {
		c.deprecated(key, spec.Deprecated)
	}
	var (
		out any
		err *ValidationError
	)
	if spec.Keys != nil {
		out, err = c.evalKeys(spec, value)
	} else {
		out, err = c.evaluate(spec.typ(), value)
	}
	if err != nil {
		return nil, err.underKey(key)
	}
	return out, nil
}
