package tag

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"
)

// ErrUnknownTag is returned when a name does not identify a registered tag.
var ErrUnknownTag = errors.New("unknown tag")

// Builder produces the canonical tag definitions of a document type. All
// values must be empty.
type Builder func() []Tag

// Policy lists the rules a section must satisfy to validate.
type Policy struct {
	// Required names the tags that must hold a non-empty value.
	Required []string

	// ConfigRequired makes a missing configuration section a hard failure.
	ConfigRequired bool
}

// Registry owns all tags of one document, indexed by name.
type Registry struct {
	byName   map[string]*Tag
	order    []*Tag
	sections []string
}

// NewRegistry builds a registry from tag definitions. Definitions are copied,
// their declaration order is preserved. Duplicate or empty names are
// programming errors and panic.
func NewRegistry(defs []Tag) *Registry {
	r := &Registry{
		byName: make(map[string]*Tag, len(defs)),
		order:  make([]*Tag, 0, len(defs)),
	}

	seen := sets.New[string]()

	for i := range defs {
		def := defs[i]

		if def.Name == "" {
			panic(fmt.Sprintf("tag: definition %d has no name", i))
		}

		if def.Section == "" {
			panic(fmt.Sprintf("tag: %s has no section", def.Name))
		}

		if _, dup := r.byName[def.Name]; dup {
			panic(fmt.Sprintf("tag: duplicate definition of %s", def.Name))
		}

		t := def.clone()
		r.byName[t.Name] = t
		r.order = append(r.order, t)

		if !seen.Has(t.Section) {
			seen.Insert(t.Section)
			r.sections = append(r.sections, t.Section)
		}
	}

	return r
}

// Build is shorthand for NewRegistry(b()).
func Build(b Builder) *Registry {
	return NewRegistry(b())
}

// Exists reports whether name identifies a registered tag.
func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Get returns the tag registered under name.
func (r *Registry) Get(name string) (*Tag, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, name)
	}

	return t, nil
}

// MustGet is like Get but panics when name is not registered. Use it only
// for names the calling code itself declared.
func (r *Registry) MustGet(name string) *Tag {
	t, err := r.Get(name)
	if err != nil {
		panic("tag: " + err.Error())
	}

	return t
}

// InSection returns the tags of section in declaration order.
func (r *Registry) InSection(section string) []*Tag {
	var out []*Tag

	for _, t := range r.order {
		if t.Section == section {
			out = append(out, t)
		}
	}

	return out
}

// Sections returns the section names in order of first declaration.
func (r *Registry) Sections() []string {
	out := make([]string, len(r.sections))
	copy(out, r.sections)

	return out
}

// Tags returns all tags in declaration order.
func (r *Registry) Tags() []*Tag {
	out := make([]*Tag, len(r.order))
	copy(out, r.order)

	return out
}

// ApplyPolicy marks the tags listed in p as required and every other tag
// of section as optional. Naming a tag outside section panics.
func (r *Registry) ApplyPolicy(section string, p Policy) {
	required := sets.New(p.Required...)

	for _, name := range sets.List(required) {
		if r.MustGet(name).Section != section {
			panic(fmt.Sprintf("tag: policy for %s names %s of section %s", section, name, r.byName[name].Section))
		}
	}

	for _, t := range r.InSection(section) {
		t.Required = required.Has(t.Name)
	}
}
