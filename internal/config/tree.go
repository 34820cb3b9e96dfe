package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// ErrUnsupportedFormat is returned for tags files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported tags file format")

// ValueKind discriminates the two leaf shapes of a configuration tree.
type ValueKind int

const (
	// KindScalar is a single string.
	KindScalar ValueKind = iota
	// KindList is an ordered list of strings.
	KindList
)

// String returns the kind name.
func (k ValueKind) String() string {
	if k == KindList {
		return "list"
	}

	return "scalar"
}

// Value is a configuration leaf: either a scalar or a list of scalars.
type Value struct {
	kind   ValueKind
	scalar string
	list   []string
}

// Scalar returns a scalar leaf.
func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// List returns a list leaf.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Kind returns the leaf shape.
func (v Value) Kind() ValueKind { return v.kind }

// IsList reports whether the leaf is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// Scalar returns the scalar value, or "" for lists.
func (v Value) Scalar() string { return v.scalar }

// Values returns the leaf as a list: a scalar becomes a single element.
func (v Value) Values() []string {
	if v.kind == KindList {
		return append([]string(nil), v.list...)
	}

	return []string{v.scalar}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindList {
		return "[" + strings.Join(v.list, ", ") + "]"
	}

	return v.scalar
}

// Entry is one key of a Tree: a leaf value or a nested tree.
type Entry struct {
	Value *Value
	Tree  *Tree
}

// IsLeaf reports whether the entry holds a value.
func (e Entry) IsLeaf() bool { return e.Value != nil }

// Tree is a nested string-keyed mapping with scalar or list leaves.
// The zero value is an empty tree. Trees are read-only once built.
type Tree struct {
	entries map[string]Entry
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{entries: make(map[string]Entry)}
}

// SetValue stores a leaf under key.
func (t *Tree) SetValue(key string, v Value) *Tree {
	t.init()
	t.entries[key] = Entry{Value: &v}

	return t
}

// SetTree stores a sub-tree under key.
func (t *Tree) SetTree(key string, sub *Tree) *Tree {
	t.init()
	t.entries[key] = Entry{Tree: sub}

	return t
}

func (t *Tree) init() {
	if t.entries == nil {
		t.entries = make(map[string]Entry)
	}
}

// Keys returns the keys of the tree in sorted order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}

	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Entry returns the entry stored under key.
func (t *Tree) Entry(key string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	e, ok := t.entries[key]

	return e, ok
}

// Sub walks path and returns the sub-tree found there.
func (t *Tree) Sub(path ...string) (*Tree, bool) {
	cur := t

	for _, p := range path {
		e, ok := cur.Entry(p)
		if !ok || e.Tree == nil {
			return nil, false
		}

		cur = e.Tree
	}

	return cur, cur != nil
}

// Lookup walks path and returns the leaf found there.
func (t *Tree) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}

	parent, ok := t.Sub(path[:len(path)-1]...)
	if !ok {
		return Value{}, false
	}

	e, ok := parent.Entry(path[len(path)-1])
	if !ok || e.Value == nil {
		return Value{}, false
	}

	return *e.Value, true
}

// LoadTree reads a tags file. The format is chosen by extension: .yaml,
// .yml, .toml or .json.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied tags file
	if err != nil {
		return nil, fmt.Errorf("reading tags file %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// FromMap converts a generic decoded document into a Tree. All shape errors
// are collected and returned together.
func FromMap(raw map[string]interface{}) (*Tree, error) {
	return fromDecoded(raw, nil)
}

// fromDecoded converts a decoded document. src maps dotted leaf paths, with
// [i] suffixes for list items, to the source text of the value; entries in src
// win over the decoded value.
func fromDecoded(raw map[string]interface{}, src map[string]string) (*Tree, error) {
	var errs []error

	t := fromMap("", raw, src, &errs)

	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}

	return t, nil
}

func fromMap(prefix string, raw map[string]interface{}, src map[string]string, errs *[]error) *Tree {
	t := NewTree()

	for k, v := range raw {
		path := joinPath(prefix, k)

		switch val := v.(type) {
		case map[string]interface{}:
			t.SetTree(k, fromMap(path, val, src, errs))
		case []interface{}:
			items := make([]string, 0, len(val))

			for i, item := range val {
				itemPath := fmt.Sprintf("%s[%d]", path, i)
				if s, ok := src[itemPath]; ok {
					items = append(items, s)
					continue
				}

				s, err := scalarString(item)
				if err != nil {
					*errs = append(*errs, fmt.Errorf("%s: %w", itemPath, err))
					continue
				}

				items = append(items, s)
			}

			t.SetValue(k, List(items...))
		default:
			if s, ok := src[path]; ok {
				t.SetValue(k, Scalar(s))
				continue
			}

			s, err := scalarString(val)
			if err != nil {
				*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
				continue
			}

			t.SetValue(k, Scalar(s))
		}
	}

	return t
}

func scalarString(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case time.Time:
		if strings.HasSuffix(val.Location().String(), "-local") {
			// TOML local date/time values carry no offset.
			return val.Format("2006-01-02T15:04:05"), nil
		}

		return val.UTC().Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T (expected scalar or list of scalars)", v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}
