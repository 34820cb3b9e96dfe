package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlTags = `
spdx:
  document-creation:
    SPDXID: SPDX Identifier from configuration
    Creator: SJH
    Created: "2021-10-12T14:00:00Z"
    ExternalDocumentRef:
      - External Doc Ref 1
      - External Doc Ref 2
  package:
    PackageVersion: 1.2
    FilesAnalyzed: true
`

const tomlTags = `
[spdx.document-creation]
SPDXID = "SPDX Identifier from configuration"
Creator = "SJH"
Created = 2021-10-12T14:00:00Z
ExternalDocumentRef = ["External Doc Ref 1", "External Doc Ref 2"]

[spdx.package]
PackageVersion = 1.2
FilesAnalyzed = true
`

func writeTags(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func assertSampleTree(t *testing.T, tree *Tree) {
	t.Helper()

	sec, ok := tree.Sub("spdx", "document-creation")
	require.True(t, ok)
	assert.Equal(t, []string{"Created", "Creator", "ExternalDocumentRef", "SPDXID"}, sec.Keys())

	id, ok := tree.Lookup("spdx", "document-creation", "SPDXID")
	require.True(t, ok)
	assert.False(t, id.IsList())
	assert.Equal(t, "SPDX Identifier from configuration", id.Scalar())

	created, ok := tree.Lookup("spdx", "document-creation", "Created")
	require.True(t, ok)
	assert.Equal(t, "2021-10-12T14:00:00Z", created.Scalar())

	refs, ok := tree.Lookup("spdx", "document-creation", "ExternalDocumentRef")
	require.True(t, ok)
	assert.True(t, refs.IsList())
	assert.Equal(t, []string{"External Doc Ref 1", "External Doc Ref 2"}, refs.Values())

	ver, ok := tree.Lookup("spdx", "package", "PackageVersion")
	require.True(t, ok)
	assert.Equal(t, "1.2", ver.Scalar())

	fa, ok := tree.Lookup("spdx", "package", "FilesAnalyzed")
	require.True(t, ok)
	assert.Equal(t, "true", fa.Scalar())
}

func TestLoadTree_YAML(t *testing.T) {
	tree, err := LoadTree(writeTags(t, "spdxtag.yaml", yamlTags))
	require.NoError(t, err)
	assertSampleTree(t, tree)
}

func TestLoadTree_TOML(t *testing.T) {
	tree, err := LoadTree(writeTags(t, "spdxtag.toml", tomlTags))
	require.NoError(t, err)
	assertSampleTree(t, tree)
}

func TestLoadTree_JSON(t *testing.T) {
	content := `{"spdx": {"document-creation": {"SPDXID": "SPDX Identifier from configuration",
"Creator": "SJH", "Created": "2021-10-12T14:00:00Z",
"ExternalDocumentRef": ["External Doc Ref 1", "External Doc Ref 2"]},
"package": {"PackageVersion": 1.2, "FilesAnalyzed": true}}}`

	tree, err := LoadTree(writeTags(t, "spdxtag.json", content))
	require.NoError(t, err)
	assertSampleTree(t, tree)
}

func TestParse_KeepsSourceText(t *testing.T) {
	tests := []struct {
		name  string
		parse func([]byte) (*Tree, error)
		data  string
		want  map[string]string
		lists map[string][]string
	}{
		{
			name:  "yaml",
			parse: ParseYAML,
			data: `
package:
  PackageVersion: 1.10
  PackageFileName: 2.0
  PackageChecksum: 007
  FilesAnalyzed: yes
  Empty: ~
  ExternalRef: [1.10, 007, 2.0]
`,
			want: map[string]string{
				"PackageVersion":  "1.10",
				"PackageFileName": "2.0",
				"PackageChecksum": "007",
				"FilesAnalyzed":   "yes",
				"Empty":           "",
			},
			lists: map[string][]string{"ExternalRef": {"1.10", "007", "2.0"}},
		},
		{
			name:  "toml",
			parse: ParseTOML,
			data: `
[package]
PackageVersion = 1.10
PackageFileName = 2.0
PackageChecksum = 1_000
FilesAnalyzed = true
Inline = { Nested = 0x1F }
ExternalRef = [1.10, 2.0, "text"]
`,
			want: map[string]string{
				"PackageVersion":  "1.10",
				"PackageFileName": "2.0",
				"PackageChecksum": "1_000",
				"FilesAnalyzed":   "true",
			},
			lists: map[string][]string{"ExternalRef": {"1.10", "2.0", "text"}},
		},
		{
			name:  "json",
			parse: ParseJSON,
			data:  `{"package": {"PackageVersion": 1.10, "PackageFileName": 2.0, "ExternalRef": [1.10, 7]}}`,
			want: map[string]string{
				"PackageVersion":  "1.10",
				"PackageFileName": "2.0",
			},
			lists: map[string][]string{"ExternalRef": {"1.10", "7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := tt.parse([]byte(tt.data))
			require.NoError(t, err)

			for key, want := range tt.want {
				v, ok := tree.Lookup("package", key)
				require.True(t, ok, key)
				assert.Equal(t, want, v.Scalar(), key)
			}

			for key, want := range tt.lists {
				v, ok := tree.Lookup("package", key)
				require.True(t, ok, key)
				assert.True(t, v.IsList(), key)
				assert.Equal(t, want, v.Values(), key)
			}
		})
	}
}

func TestParseTOML_InlineTableKeepsSourceText(t *testing.T) {
	tree, err := ParseTOML([]byte("[package]\nInline = { Nested = 0x1F }\n"))
	require.NoError(t, err)

	v, ok := tree.Lookup("package", "Inline", "Nested")
	require.True(t, ok)
	assert.Equal(t, "0x1F", v.Scalar())
}

func TestParseYAML_AliasesAndMerges(t *testing.T) {
	tree, err := ParseYAML([]byte(`
base: &base
  PackageVersion: 1.10
  PackageSupplier: "Organization: Acme"
package:
  <<: *base
  PackageSupplier: "Person: Jane"
  Copy: *base
`))
	require.NoError(t, err)

	v, ok := tree.Lookup("package", "PackageVersion")
	require.True(t, ok)
	assert.Equal(t, "1.10", v.Scalar())

	v, ok = tree.Lookup("package", "PackageSupplier")
	require.True(t, ok)
	assert.Equal(t, "Person: Jane", v.Scalar())

	v, ok = tree.Lookup("package", "Copy", "PackageSupplier")
	require.True(t, ok)
	assert.Equal(t, "Organization: Acme", v.Scalar())
}

func TestParseYAML_ShapeErrors(t *testing.T) {
	_, err := ParseYAML([]byte("package:\n  Name: a\n  Name: b\n  Refs:\n    - ok\n    - {nested: no}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.Name: duplicate key")
	assert.Contains(t, err.Error(), "package.Refs[1]")

	_, err = ParseYAML([]byte("- a\n- b\n"))
	require.ErrorContains(t, err, "top level must be a mapping")

	tree, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Zero(t, tree.Len())
}

func TestParseJSON_TrailingData(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a": "b"} {"c": "d"}`))
	require.ErrorContains(t, err, "trailing data")
}

func TestLoadTree_Errors(t *testing.T) {
	_, err := LoadTree(writeTags(t, "tags.ini", "a=b"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadTree(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "reading tags file")

	_, err = LoadTree(writeTags(t, "bad.yaml", "spdx: [unclosed"))
	require.ErrorContains(t, err, "parsing YAML tags")
}

func TestFromMap_AggregatesShapeErrors(t *testing.T) {
	_, err := FromMap(map[string]interface{}{
		"spdx": map[string]interface{}{
			"package": map[string]interface{}{
				"ExternalRef": []interface{}{"ok", map[string]interface{}{"nested": "no"}},
				"Odd":         struct{}{},
			},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spdx.package.ExternalRef[1]")
	assert.Contains(t, err.Error(), "spdx.package.Odd")
}

func TestFromMap_NullBecomesEmptyScalar(t *testing.T) {
	tree, err := FromMap(map[string]interface{}{"k": nil})
	require.NoError(t, err)

	v, ok := tree.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, KindScalar, v.Kind())
	assert.Empty(t, v.Scalar())
}

func TestTree_Navigation(t *testing.T) {
	tree := NewTree().
		SetTree("spdx", NewTree().SetValue("leaf", Scalar("x"))).
		SetValue("top", List("a", "b"))

	assert.Equal(t, 2, tree.Len())

	_, ok := tree.Sub("spdx", "leaf")
	assert.False(t, ok, "a leaf is not a sub-tree")

	_, ok = tree.Lookup("spdx")
	assert.False(t, ok, "a sub-tree is not a leaf")

	_, ok = tree.Lookup()
	assert.False(t, ok)

	_, ok = tree.Sub("nope")
	assert.False(t, ok)

	var nilTree *Tree
	assert.Empty(t, nilTree.Keys())
	assert.Equal(t, 0, nilTree.Len())
	_, ok = nilTree.Sub("x")
	assert.False(t, ok)

	var zero Tree
	zero.SetValue("k", Scalar("v"))
	assert.Equal(t, []string{"k"}, zero.Keys())
}

func TestValue(t *testing.T) {
	s := Scalar("one")
	assert.Equal(t, []string{"one"}, s.Values())
	assert.Equal(t, "one", s.String())
	assert.Equal(t, "scalar", s.Kind().String())

	items := []string{"a", "b"}
	l := List(items...)
	items[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, l.Values())
	assert.Equal(t, "[a, b]", l.String())
	assert.Equal(t, "list", l.Kind().String())
	assert.Empty(t, l.Scalar())
}
