// Package source decodes JSON and YAML documents into keyword lists,
// keeping the key order of every object so validation sees entries in the
// order they were written.
//
// Objects become spark.Keyword, arrays []any, integers int64 and other
// numbers float64. With AtomPrefix, strings of the form ":name" become
// atoms; in YAML the !atom tag does the same for any scalar.
package source

import (
	"errors"
	"strings"

	spark "github.com/ash-project/spark-sub001"
)

// Options controls decoding. When several are passed the last one wins.
type Options struct {
	// MaxDepth limits container nesting; 0 means unlimited.
	MaxDepth int
	// AtomPrefix turns strings of the form ":name" into atoms.
	AtomPrefix bool
	// RejectDuplicateKeys fails on a key repeated within one object.
	RejectDuplicateKeys bool
}

var (
	ErrNotKeyword   = errors.New("source: document root is not an object")
	ErrMaxDepth     = errors.New("source: max depth exceeded")
	ErrDuplicateKey = errors.New("source: duplicate key")
	ErrTrailingData = errors.New("source: trailing data after document")
)

// ErrAliasExpansion reports a YAML document whose aliases expand to far more
// nodes than the document holds.
var ErrAliasExpansion = errors.New("source: excessive aliasing")

// Error locates a decoding failure with a JSON Pointer.
type Error struct {
	Pointer string
	Err     error
}

func (e *Error) Error() string { return e.Err.Error() + " at " + e.Pointer }

func (e *Error) Unwrap() error { return e.Err }

func lastOpt(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[len(opts)-1]
}

// walker tracks depth and position shared by the JSON and YAML decoders.
type walker struct {
	opt   Options
	depth int
	path  spark.Path

	// nodes counts every value produced, aliased those produced while
	// expanding an alias.
	nodes, aliased, inAlias int
}

func (w *walker) fail(err error) error { return &Error{Pointer: w.path.Pointer(), Err: err} }

func (w *walker) enter() error {
	w.depth++
	if w.opt.MaxDepth > 0 && w.depth > w.opt.MaxDepth {
		return w.fail(ErrMaxDepth)
	}
	return nil
}

func (w *walker) leave() { w.depth-- }

func (w *walker) push(seg any) { w.path = append(w.path, seg) }

func (w *walker) pop() { w.path = w.path[:len(w.path)-1] }

func (w *walker) str(s string) any {
	if w.opt.AtomPrefix && len(s) > 1 && strings.HasPrefix(s, ":") {
		return spark.Atom(s[1:])
	}
	return s
}

// keys records the keys of one object for duplicate detection.
type keys map[spark.Atom]struct{}

func (w *walker) addKey(seen keys, k spark.Atom) error {
	if !w.opt.RejectDuplicateKeys {
		return nil
	}
	if _, dup := seen[k]; dup {
		w.push(k)
		err := w.fail(ErrDuplicateKey)
		w.pop()
		return err
	}
	seen[k] = struct{}{}
	return nil
}
