package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Scalars keep the text they were written with: a version of 1.10 stays
// "1.10" and is never round-tripped through a number.

// ParseYAML parses a YAML document into a Tree.
func ParseYAML(data []byte) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML tags: %w", err)
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewTree(), nil
		}

		root = resolveAlias(root.Content[0])
	}

	switch {
	case root.Kind == 0, root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return NewTree(), nil
	case root.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("parsing YAML tags: top level must be a mapping, got %s", yamlKind(root))
	}

	var errs []error

	t := yamlTree("", root, &errs)

	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}

	return t, nil
}

func yamlTree(prefix string, n *yaml.Node, errs *[]error) *Tree {
	t := NewTree()
	seen := sets.New[string]()

	var merged []*Tree

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolveAlias(n.Content[i+1])

		if k.ShortTag() == "!!merge" {
			for _, m := range mergeSources(v) {
				merged = append(merged, yamlTree(prefix, m, errs))
			}

			continue
		}

		key := k.Value
		path := joinPath(prefix, key)

		if seen.Has(key) {
			*errs = append(*errs, fmt.Errorf("%s: duplicate key", path))
			continue
		}

		seen.Insert(key)

		switch v.Kind {
		case yaml.MappingNode:
			t.SetTree(key, yamlTree(path, v, errs))
		case yaml.SequenceNode:
			items := make([]string, 0, len(v.Content))

			for j, item := range v.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.ScalarNode {
					*errs = append(*errs, fmt.Errorf("%s[%d]: unsupported %s value (expected scalar)", path, j, yamlKind(item)))
					continue
				}

				items = append(items, yamlScalar(item))
			}

			t.SetValue(key, List(items...))
		case yaml.ScalarNode:
			t.SetValue(key, Scalar(yamlScalar(v)))
		default:
			*errs = append(*errs, fmt.Errorf("%s: unsupported %s value (expected scalar or list of scalars)", path, yamlKind(v)))
		}
	}

	// Explicit keys win over merged ones; earlier merge sources win over later.
	for _, m := range merged {
		for _, key := range m.Keys() {
			if seen.Has(key) {
				continue
			}

			seen.Insert(key)
			t.init()
			t.entries[key] = m.entries[key]
		}
	}

	return t
}

func mergeSources(v *yaml.Node) []*yaml.Node {
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}
	case yaml.SequenceNode:
		var out []*yaml.Node

		for _, item := range v.Content {
			if item = resolveAlias(item); item.Kind == yaml.MappingNode {
				out = append(out, item)
			}
		}

		return out
	default:
		return nil
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

func yamlScalar(n *yaml.Node) string {
	if n.ShortTag() == "!!null" {
		return ""
	}

	return n.Value
}

func yamlKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty"
	}
}

// ParseTOML parses a TOML document into a Tree.
func ParseTOML(data []byte) (*Tree, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing TOML tags: %w", err)
	}

	src, err := tomlSource(data)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML tags: %w", err)
	}

	return fromDecoded(raw, src)
}

// tomlSource collects the literal text of every non-string value in a TOML
// document, keyed by dotted path. Values under array tables are skipped since
// the tree has no shape for them.
func tomlSource(data []byte) (map[string]string, error) {
	src := make(map[string]string)

	var (
		p     unstable.Parser
		table []string
		skip  bool
	)

	p.Reset(data)

	for p.NextExpression() {
		e := p.Expression()

		switch e.Kind {
		case unstable.Table:
			table, skip = tomlKey(e.Key()), false
		case unstable.ArrayTable:
			table, skip = nil, true
		case unstable.KeyValue:
			if skip {
				continue
			}

			path := append(append([]string(nil), table...), tomlKey(e.Key())...)
			collectTOML(src, strings.Join(path, "."), e.Value())
		}
	}

	return src, p.Error()
}

func collectTOML(src map[string]string, path string, n *unstable.Node) {
	switch n.Kind {
	case unstable.String:
	case unstable.Array:
		it := n.Children()
		for i := 0; it.Next(); i++ {
			collectTOML(src, fmt.Sprintf("%s[%d]", path, i), it.Node())
		}
	case unstable.InlineTable:
		it := n.Children()
		for it.Next() {
			kv := it.Node()
			if kv.Kind != unstable.KeyValue {
				continue
			}

			collectTOML(src, joinPath(path, strings.Join(tomlKey(kv.Key()), ".")), kv.Value())
		}
	default:
		src[path] = string(n.Data)
	}
}

func tomlKey(it unstable.Iterator) []string {
	var parts []string

	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}

	return parts
}

// ParseJSON parses a JSON document into a Tree.
func ParseJSON(data []byte) (*Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing JSON tags: %w", err)
	}

	if dec.More() {
		return nil, errors.New("parsing JSON tags: trailing data after document")
	}

	return FromMap(raw)
}
