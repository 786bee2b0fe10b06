package spark

// Result is the outcome of a successful validation: one slot per declared
// key plus presence flags telling supplied values from defaults. Keys
// accepted through the wildcard are kept as extras.
type Result struct {
	schema   *Schema
	values   []any
	presence []Presence
	// kw materializes the result: supplied keys in input order, then
	// defaults in declaration order.
	kw    Keyword
	kwPos map[Atom]int
}

func newResult(s *Schema, hint int) *Result {
	return &Result{
		schema:   s,
		values:   make([]any, len(s.entries)),
		presence: make([]Presence, len(s.entries)),
		kw:       make(Keyword, 0, max(hint, len(s.entries))),
		kwPos:    make(map[Atom]int, len(s.entries)),
	}
}

func (r *Result) put(key Atom, v any) {
	if i, ok := r.kwPos[key]; ok {
		r.kw[i].Value = v
		return
	}
	r.kwPos[key] = len(r.kw)
	r.kw = append(r.kw, Pair{Key: key, Value: v})
}

func (r *Result) supply(i int, v any, p Presence) {
	r.values[i] = v
	r.presence[i] = p
	r.put(r.schema.entries[i].Key, v)
}

func (r *Result) extra(key Atom, v any) { r.put(key, v) }

func (r *Result) missingRequired() []Atom {
	var missing []Atom
	for _, k := range r.schema.required {
		if !r.presence[r.schema.index[k]].Supplied() {
			missing = append(missing, k)
		}
	}
	return missing
}

func (r *Result) applyDefaults() {
	for i, e := range r.schema.entries {
		if r.presence[i].Supplied() || !e.Spec.HasDefault {
			continue
		}
		r.values[i] = e.Spec.Default
		r.presence[i] |= PresenceDefaultApplied
		r.put(e.Key, e.Spec.Default)
	}
}

// Schema returns the schema the result was validated against.
func (r *Result) Schema() *Schema { return r.schema }

// Get returns the value for key and whether the key holds one.
func (r *Result) Get(key Atom) (any, bool) {
	if i, ok := r.schema.index[key]; ok {
		return r.values[i], r.presence[i].Filled()
	}
	if i, ok := r.kwPos[key]; ok {
		return r.kw[i].Value, true
	}
	return nil, false
}

// Value returns the value for key, nil when the key holds none.
func (r *Result) Value(key Atom) any {
	v, _ := r.Get(key)
	return v
}

// Presence returns the presence flags recorded for key.
func (r *Result) Presence(key Atom) Presence {
	if i, ok := r.schema.index[key]; ok {
		return r.presence[i]
	}
	if _, ok := r.kwPos[key]; ok {
		return PresenceSeen
	}
	return 0
}

// IsSet reports whether key was supplied explicitly.
func (r *Result) IsSet(key Atom) bool { return r.Presence(key).Supplied() }

// Defaulted reports whether key holds its schema default.
func (r *Result) Defaulted(key Atom) bool { return r.Presence(key).Defaulted() }

// Set returns the explicitly supplied keys in input order.
func (r *Result) Set() []Atom {
	out := make([]Atom, 0, len(r.kw))
	for _, p := range r.kw {
		if r.IsSet(p.Key) {
			out = append(out, p.Key)
		}
	}
	return out
}

// Keyword returns the validated options: supplied keys in input order, then
// defaults in declaration order.
func (r *Result) Keyword() Keyword { return append(Keyword(nil), r.kw...) }

// Flat returns the supplied or defaulted declared keys in declaration order,
// followed by wildcard extras in input order.
// Defaults appear verbatim, as they were declared.
func (r *Result) Flat() Keyword {
	out := make(Keyword, 0, len(r.kw))
	for i, e := range r.schema.entries {
		if r.presence[i].Filled() {
			out = append(out, Pair{Key: e.Key, Value: r.values[i]})
		}
	}
	for _, p := range r.kw {
		if _, declared := r.schema.index[p.Key]; !declared {
			out = append(out, p)
		}
	}
	return out
}

// Map returns the filled keys as plain Go data, see Plain.
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.kw))
	for _, p := range r.kw {
		out[string(p.Key)] = Plain(p.Value)
	}
	return out
}

// Decode copies the result into out, a pointer to a struct or map, matching
// keys by `spark` struct tag or field name.
func (r *Result) Decode(out any) error { return DecodeMap(r.Map(), out) }
