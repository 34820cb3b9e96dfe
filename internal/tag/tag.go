package tag

// Tag is a single named field of a document.
type Tag struct {
	// Name is the unique identifier within a registry. Configuration keys
	// refer to tags by Name.
	Name string

	// Label is the token written to the document. Empty means Name.
	Label string

	// Section is the name of the section the tag belongs to.
	Section string

	// Multi marks tags that may legitimately carry more than one value.
	Multi bool

	// Overridable reports whether configuration may replace derived values.
	Overridable bool

	// Required is set from the section policy.
	Required bool

	values []string
}

// Key returns the document token for the tag.
func (t *Tag) Key() string {
	if t.Label != "" {
		return t.Label
	}

	return t.Name
}

// Values returns a copy of the assigned values in assignment order.
func (t *Tag) Values() []string {
	if len(t.values) == 0 {
		return nil
	}

	out := make([]string, len(t.values))
	copy(out, t.values)

	return out
}

// Value returns the first value, or "" when the tag is unset.
func (t *Tag) Value() string {
	if len(t.values) == 0 {
		return ""
	}

	return t.values[0]
}

// Set replaces all values.
func (t *Tag) Set(values ...string) {
	t.values = append(t.values[:0:0], values...)
}

// Add appends values after the existing ones.
func (t *Tag) Add(values ...string) {
	t.values = append(t.values, values...)
}

// Clear removes all values.
func (t *Tag) Clear() {
	t.values = nil
}

// IsSet reports whether the tag holds at least one value.
func (t *Tag) IsSet() bool {
	return len(t.values) > 0
}

// HasContent reports whether at least one value is non-empty.
func (t *Tag) HasContent() bool {
	for _, v := range t.values {
		if v != "" {
			return true
		}
	}

	return false
}

// clone returns a copy of the definition with no values.
func (t *Tag) clone() *Tag {
	c := *t
	c.values = nil

	return &c
}
