// Package document describes a document type as data: the tag builder plus
// an ordered table of sections, each with its policy, derivation rule and
// content checks. Adding a section is a table addition.
package document

import (
	"strings"

	"github.com/agentstation/utc"

	"github.com/hupe1980/spdxtag/internal/tag"
	"github.com/hupe1980/spdxtag/internal/validate"
)

// UnsetName is the sentinel for "no package name supplied".
const UnsetName = "unknown"

// Identity is the trusted description of the package a document is about.
type Identity struct {
	Name        string
	Version     string
	License     string
	Description string
	HomePage    string
	Supplier    string
}

// HasName reports whether a real package name was supplied.
func (id Identity) HasName() bool {
	name := strings.TrimSpace(id.Name)
	return name != "" && name != UnsetName
}

// Env is the trusted context derivation rules read from.
type Env struct {
	Identity Identity

	// Tool identifies the generator, e.g. "spdxtag-1.0.0".
	Tool string

	// NamespaceBase prefixes derived document namespaces.
	NamespaceBase string

	// NamespaceSuffix is appended to derived namespaces when non-empty.
	NamespaceSuffix string

	// Now returns the creation time.
	Now func() utc.Time
}

// Clock returns the creation time, defaulting to the current UTC time.
func (e Env) Clock() utc.Time {
	if e.Now == nil {
		return utc.Now()
	}

	return e.Now()
}

// DeriveFunc sets built-in values on the tags of one section.
type DeriveFunc func(reg *tag.Registry, env Env)

// Section is one row of a document type's section table.
type Section struct {
	// Name is the section name and its configuration key.
	Name string

	// Title is a human-readable name used in logs and listings.
	Title string

	Policy tag.Policy
	Derive DeriveFunc
	Checks []validate.Check
}

// Type bundles the canonical tags of a document with its section table.
type Type struct {
	// Format is the configuration sub-tree holding this type's sections.
	Format  string
	Builder tag.Builder

	// Sections in serialization order.
	Sections []Section
}

// Section returns the section row named name.
func (t Type) Section(name string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Name == name {
			return s, true
		}
	}

	return Section{}, false
}

// NewRegistry builds a fresh registry for the type and applies every
// section policy.
func (t Type) NewRegistry() *tag.Registry {
	reg := tag.Build(t.Builder)

	for _, s := range t.Sections {
		reg.ApplyPolicy(s.Name, s.Policy)
	}

	return reg
}
