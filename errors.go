package spark

import (
	"errors"
	"strconv"

	"github.com/ash-project/spark-sub001/i18n"
)

// Kind classifies a validation failure. Values are stable string codes.
type Kind string

const (
	KindUnknownKey             Kind = "unknown_key"
	KindMissingRequired        Kind = "missing_required"
	KindTypeMismatch           Kind = "type_mismatch"
	KindCombinatorFailure      Kind = "combinator_failure" // Or/And aggregate
	KindArityMismatch          Kind = "arity_mismatch"
	KindCustomValidatorError   Kind = "custom_validator_error"
	KindProtocolNotImplemented Kind = "protocol_not_implemented"
	KindNotAProtocol           Kind = "not_a_protocol"
	KindEmptyNotAllowed        Kind = "empty_not_allowed"
)

// ValidationError describes the first failure found while validating.
type ValidationError struct {
	// Key is the offending option key (the innermost one for nested schemas).
	Key Atom
	// Keys lists every missing key of a MissingRequired failure.
	Keys []Atom
	// Path locates the failing value, root first.
	Path    Path
	Kind    Kind
	Message string
	// Value is the offending value, nil when nothing was supplied.
	Value any
	// Err is the underlying cause, if any.
	Err error

	rpath reversedPath
}

// Error renders the message with the option key and, for nested values, the
// full path.
func (e *ValidationError) Error() string {
	msg := e.Message
	switch e.Kind {
	case KindUnknownKey, KindMissingRequired:
	default:
		if e.Key != "" {
			msg = i18n.T("invalid_value", map[string]string{"key": Inspect(e.Key), "reason": e.Message})
		}
	}
	if len(e.Path) > 1 || (len(e.Path) == 1 && e.Path[0] != any(e.Key)) {
		msg += " (at " + e.Path.String() + ")"
	}
	return msg
}

// reason renders a not yet finalized error relative to the value it was
// raised for.
func (e *ValidationError) reason() string {
	cp := *e
	cp.Path = e.rpath.root()
	return cp.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AsValidationError extracts a *ValidationError from err using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// under records seg as the next enclosing path segment.
func (e *ValidationError) under(seg any) *ValidationError {
	e.rpath = e.rpath.push(seg)
	return e
}

// underKey prefixes the enclosing option key and sets Key when the failure
// does not already name a deeper key.
func (e *ValidationError) underKey(key Atom) *ValidationError {
	if e.Key == "" {
		e.Key = key
	}
	return e.under(key)
}

// finalize turns the innermost-first path into the public root-first Path.
func (e *ValidationError) finalize() *ValidationError {
	e.Path = e.rpath.root()
	var inner *ValidationError
	if errors.As(e.Err, &inner) && inner.Path == nil {
		inner.Path = e.Path
	}
	return e
}

func newError(kind Kind, value any, code string, data map[string]string) *ValidationError {
	return &ValidationError{Kind: kind, Value: value, Message: i18n.T(code, data)}
}

func mismatch(t Type, value any) *ValidationError {
	return newError(KindTypeMismatch, value, "type_mismatch", map[string]string{
		"expected": describe(t),
		"value":    Inspect(value),
	})
}

// UnknownKeyError builds the error reported for a key s does not declare.
func UnknownKeyError(s *Schema, key Atom, value any) *ValidationError {
	e := unknownKey(s, key, value)
	return e.finalize()
}

func unknownKey(s *Schema, key Atom, value any) *ValidationError {
	e := newError(KindUnknownKey, value, "unknown_key", map[string]string{
		"keys":  inspectKeys([]Atom{key}),
		"valid": inspectKeys(s.Keys()),
	})
	e.Key = key
	return e.under(key)
}

// MissingRequiredError builds the error reported when required keys are
// absent. keys must be non-empty and in schema order.
func MissingRequiredError(keys []Atom, received Keyword) *ValidationError {
	return missingRequired(keys, received).finalize()
}

func missingRequired(keys []Atom, received Keyword) *ValidationError {
	data := map[string]string{"received": inspectKeys(received.Keys())}
	code := "missing_required"
	if len(keys) == 1 {
		data["key"] = Inspect(keys[0])
	} else {
		code = "missing_required_many"
		data["keys"] = inspectKeys(keys)
	}
	e := newError(KindMissingRequired, nil, code, data)
	e.Key = keys[0]
	e.Keys = append([]Atom(nil), keys...)
	return e.under(keys[0])
}

func itoa(n int) string { return strconv.Itoa(n) }
