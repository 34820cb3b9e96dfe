package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Format describes a line-oriented tag-value document format.
type Format struct {
	// Name identifies the format, e.g. "spdx".
	Name string

	// Separator sits between a tag and its value.
	Separator string

	// Terminator ends every line.
	Terminator string

	// Extension is appended to the document name to form the file name.
	Extension string

	// Fallback is the file name used when the document has no name.
	Fallback string
}

// FileName returns the artifact file name for a document.
func (f Format) FileName(documentName string) string {
	name := strings.TrimSpace(documentName)
	if name == "" {
		return f.Fallback
	}

	name = strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(name)

	return name + f.Extension
}

// SPDX is the SPDX tag-value format.
var SPDX = Format{
	Name:       "spdx",
	Separator:  ": ",
	Terminator: "\n",
	Extension:  ".spdx",
	Fallback:   "sbom.spdx",
}

// Registry maps format names to formats.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format under its name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[f.Name] = f
}

// Format returns the format registered under name, or an error listing the
// available ones.
func (r *Registry) Format(name string) (Format, error) {
	r.mu.RLock()
	f, ok := r.formats[name]
	r.mu.RUnlock()

	if !ok {
		return Format{}, fmt.Errorf("unknown output format %q (available: %s)", name, r.AvailableFormats())
	}

	return f, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	formats := r.Formats()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SPDX)

	return r
}
