package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() []Tag {
	return []Tag{
		{Name: "Version", Section: "head", Required: true},
		{Name: "Creator", Section: "head", Multi: true, Overridable: true, Required: true},
		{Name: "Comment", Section: "head", Overridable: true},
		{Name: "ItemID", Label: "ID", Section: "item"},
		{Name: "ID", Section: "head", Overridable: true},
	}
}

func TestNewRegistry_LookupMatchesDefinitions(t *testing.T) {
	defs := testDefs()
	r := NewRegistry(defs)

	for _, def := range defs {
		assert.True(t, r.Exists(def.Name), def.Name)

		got, err := r.Get(def.Name)
		require.NoError(t, err)
		assert.Equal(t, def.Section, got.Section)
		assert.Equal(t, def.Overridable, got.Overridable)
		assert.Equal(t, def.Required, got.Required)
		assert.False(t, got.IsSet())
	}
}

func TestRegistry_UnknownTag(t *testing.T) {
	r := NewRegistry(testDefs())

	assert.False(t, r.Exists("Nope"))

	_, err := r.Get("Nope")
	require.ErrorIs(t, err, ErrUnknownTag)
	assert.Contains(t, err.Error(), "Nope")

	assert.Panics(t, func() { r.MustGet("Nope") })
}

func TestRegistry_SectionsAndOrder(t *testing.T) {
	r := NewRegistry(testDefs())

	assert.Equal(t, []string{"head", "item"}, r.Sections())

	var names []string
	for _, tg := range r.InSection("head") {
		names = append(names, tg.Name)
	}

	assert.Equal(t, []string{"Version", "Creator", "Comment", "ID"}, names)
	assert.Empty(t, r.InSection("missing"))
	assert.Len(t, r.Tags(), 5)
}

func TestRegistry_DefinitionsAreCopied(t *testing.T) {
	defs := testDefs()
	r := NewRegistry(defs)

	r.MustGet("Comment").Set("x")
	defs[2].Overridable = false

	assert.True(t, r.MustGet("Comment").Overridable)

	fresh := NewRegistry(defs)
	assert.False(t, fresh.MustGet("Comment").IsSet())
}

func TestTag_CloneDropsValues(t *testing.T) {
	def := &Tag{Name: "Comment", Section: "doc", Overridable: true}
	def.Set("seed")

	c := def.clone()
	assert.NotSame(t, def, c)
	assert.False(t, c.IsSet())
	assert.True(t, c.Overridable)

	c.Set("other")
	assert.Equal(t, []string{"seed"}, def.Values())
}

func TestNewRegistry_PanicsOnInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		defs []Tag
	}{
		{name: "duplicate", defs: []Tag{{Name: "A", Section: "s"}, {Name: "A", Section: "t"}}},
		{name: "empty name", defs: []Tag{{Section: "s"}}},
		{name: "empty section", defs: []Tag{{Name: "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { NewRegistry(tt.defs) })
		})
	}
}

func TestRegistry_ApplyPolicy(t *testing.T) {
	r := NewRegistry(testDefs())

	r.ApplyPolicy("head", Policy{Required: []string{"Comment"}})

	assert.False(t, r.MustGet("Version").Required)
	assert.False(t, r.MustGet("Creator").Required)
	assert.True(t, r.MustGet("Comment").Required)

	assert.Panics(t, func() { r.ApplyPolicy("head", Policy{Required: []string{"ItemID"}}) })
	assert.Panics(t, func() { r.ApplyPolicy("head", Policy{Required: []string{"Unknown"}}) })
}

func TestTag_Values(t *testing.T) {
	tg := &Tag{Name: "ExternalRef", Label: "Ref"}

	assert.Equal(t, "Ref", tg.Key())
	assert.Empty(t, tg.Value())
	assert.Nil(t, tg.Values())

	tg.Set("a", "b")
	tg.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, tg.Values())
	assert.Equal(t, "a", tg.Value())

	// Returned slices must not alias internal state.
	vals := tg.Values()
	vals[0] = "mutated"
	assert.Equal(t, "a", tg.Value())

	tg.Set("")
	assert.True(t, tg.IsSet())
	assert.False(t, tg.HasContent())

	tg.Clear()
	assert.False(t, tg.IsSet())

	plain := &Tag{Name: "Created"}
	assert.Equal(t, "Created", plain.Key())
}
