package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	spark "github.com/ash-project/spark-sub001"
)

// AtomTag marks a YAML scalar as an atom: `mode: !atom fast`.
const AtomTag = "!atom"

// YAML decodes a single YAML document whose root is a mapping.
func YAML(data []byte, opts ...Options) (spark.Keyword, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("source: yaml: %w", err)
	}
	return FromYAMLNode(&doc, opts...)
}

// FromYAMLNode converts a parsed YAML node, document or mapping, into a
// keyword list.
func FromYAMLNode(n *yaml.Node, opts ...Options) (spark.Keyword, error) {
	if n == nil {
		return nil, ErrNotKeyword
	}
	// an empty document leaves the node unset
	if n.Kind == 0 {
		return spark.Keyword{}, nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return spark.Keyword{}, nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, ErrNotKeyword
	}
	w := &walker{opt: lastOpt(opts)}
	return w.mapping(n)
}

func (w *walker) yamlValue(n *yaml.Node) (any, error) {
	if err := w.count(); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.MappingNode:
		return w.mapping(n)
	case yaml.SequenceNode:
		return w.sequence(n)
	case yaml.AliasNode:
		w.inAlias++
		defer func() { w.inAlias-- }()
		return w.yamlValue(n.Alias)
	case yaml.ScalarNode:
		return w.scalar(n)
	}
	return nil, w.fail(fmt.Errorf("source: yaml: unsupported node at line %d", n.Line))
}

// count enforces the alias budget: past the thresholds, the share of nodes
// produced by alias expansion may not exceed aliasRatio.
func (w *walker) count() error {
	w.nodes++
	if w.inAlias > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.nodes > 1000 && float64(w.aliased)/float64(w.nodes) > aliasRatio(w.nodes) {
		return w.fail(ErrAliasExpansion)
	}
	return nil
}

// aliasRatio allows almost any aliasing in small documents and tightens
// linearly to 10% between 400k and 4M nodes.
func aliasRatio(nodes int) float64 {
	const lo, hi = 400_000, 4_000_000
	switch {
	case nodes <= lo:
		return 0.99
	case nodes >= hi:
		return 0.10
	}
	return 0.99 - 0.89*float64(nodes-lo)/float64(hi-lo)
}

func (w *walker) mapping(n *yaml.Node) (spark.Keyword, error) {
	if err := w.enter(); err != nil {
		return nil, err
	}
	defer w.leave()
	kw := make(spark.Keyword, 0, len(n.Content)/2)
	seen := keys{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Kind != yaml.ScalarNode {
			return nil, w.fail(fmt.Errorf("source: yaml: non-scalar key at line %d", kn.Line))
		}
		key := spark.Atom(kn.Value)
		if err := w.addKey(seen, key); err != nil {
			return nil, err
		}
		w.push(key)
		v, err := w.yamlValue(vn)
		w.pop()
		if err != nil {
			return nil, err
		}
		kw = append(kw, spark.Pair{Key: key, Value: v})
	}
	return kw, nil
}

func (w *walker) sequence(n *yaml.Node) ([]any, error) {
	if err := w.enter(); err != nil {
		return nil, err
	}
	defer w.leave()
	out := make([]any, 0, len(n.Content))
	for i, c := range n.Content {
		w.push(i)
		v, err := w.yamlValue(c)
		w.pop()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (w *walker) scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case AtomTag:
		return spark.Atom(n.Value), nil
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, w.fail(fmt.Errorf("source: yaml: %w", err))
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, w.fail(fmt.Errorf("source: yaml: %w", err))
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, w.fail(fmt.Errorf("source: yaml: %w", err))
		}
		return f, nil
	case "!!str":
		return w.str(n.Value), nil
	}
	return n.Value, nil
}
