package spark

import (
	"strconv"
	"strings"
)

// Path locates a value inside the validated input, root first. Segments are
// Atom keys or int list positions.
type Path []any

// Pointer renders p as a JSON Pointer (RFC 6901).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case int:
			b.WriteString(strconv.Itoa(s))
		case Atom:
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(string(s), "~", "~0"), "/", "~1"))
		default:
			b.WriteString(Inspect(s))
		}
	}
	return b.String()
}

// String renders p as a list, e.g. [:config, :name, 0].
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = Inspect(seg)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// reversedPath holds segments innermost first while an error bubbles up.
type reversedPath []any

func (r reversedPath) push(seg any) reversedPath { return append(r, seg) }

func (r reversedPath) root() Path {
	if len(r) == 0 {
		return Path{}
	}
	out := make(Path, len(r))
	for i, seg := range r {
		out[len(r)-1-i] = seg
	}
	return out
}
