package compiled

import (
	spark "github.com/ash-project/spark-sub001"
)

// Record is the fixed-shape output of a compiled validator: one slot per
// declared key with presence flags.
type Record struct {
	v        *Validator
	values   []any
	presence []spark.Presence
	// set holds supplied field indexes in first-seen input order.
	set []int
}

func newRecord(v *Validator) *Record {
	return &Record{
		v:        v,
		values:   make([]any, len(v.fields)),
		presence: make([]spark.Presence, len(v.fields)),
	}
}

func (r *Record) supply(i int, out, raw any) {
	if !r.presence[i].Supplied() {
		r.set = append(r.set, i)
	}
	r.values[i] = out
	r.presence[i] = spark.PresenceSeen
	if raw == nil {
		r.presence[i] |= spark.PresenceWasNull
	}
}

// Len returns the number of fields of the record.
func (r *Record) Len() int { return len(r.values) }

// Get returns the value of key and whether it holds one.
func (r *Record) Get(key spark.Atom) (any, bool) {
	i, ok := r.v.index[key]
	if !ok {
		return nil, false
	}
	return r.values[i], r.presence[i].Filled()
}

// Value returns the value of key, nil when it holds none.
func (r *Record) Value(key spark.Atom) any {
	v, _ := r.Get(key)
	return v
}

// Presence returns the flags recorded for key.
func (r *Record) Presence(key spark.Atom) spark.Presence {
	if i, ok := r.v.index[key]; ok {
		return r.presence[i]
	}
	return 0
}

func (r *Record) IsSet(key spark.Atom) bool { return r.Presence(key).Supplied() }

func (r *Record) Defaulted(key spark.Atom) bool { return r.Presence(key).Defaulted() }

// Set returns the supplied keys in input order.
func (r *Record) Set() []spark.Atom {
	out := make([]spark.Atom, len(r.set))
	for n, i := range r.set {
		out[n] = r.v.fields[i].key
	}
	return out
}

// Fetch is the map-style lookup kept for callers migrating from untyped
// option lists.
//
// Deprecated: use Get. Every call logs a deprecation notice.
func (r *Record) Fetch(key spark.Atom) (any, bool) {
	r.v.log.Warn().
		Str("option", string(key)).
		Msg("Record.Fetch is deprecated, use Record.Get")
	return r.Get(key)
}

// Map returns the filled fields as plain Go data, see spark.Plain.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, f := range r.v.fields {
		if r.presence[i].Filled() {
			out[string(f.key)] = spark.Plain(r.values[i])
		}
	}
	return out
}

// Decode copies the record into out, a pointer to a struct or map.
func (r *Record) Decode(out any) error { return spark.DecodeMap(r.Map(), out) }
