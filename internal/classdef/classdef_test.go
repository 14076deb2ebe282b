package classdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conduit-lang/classmeta/runtime/classes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModifiers(t *testing.T) {
	m, err := ParseModifiers([]string{"public", " Static ", "final"})
	require.NoError(t, err)
	assert.Equal(t, classes.Public|classes.Static|classes.Final, m)

	m, err = ParseModifiers(nil)
	require.NoError(t, err)
	assert.Zero(t, m)

	_, err = ParseModifiers([]string{"public", "sealed"})
	assert.EqualError(t, err, `unknown modifier "sealed"`)
}

func TestClass_ClassModifiers(t *testing.T) {
	tests := []struct {
		kind string
		want classes.Modifiers
	}{
		{"", classes.Public},
		{KindClass, classes.Public},
		{KindInterface, classes.Public | classes.Interface | classes.Abstract},
		{KindAnnotation, classes.Public | classes.Interface | classes.Abstract | classes.Annotation},
		{KindEnum, classes.Public | classes.Enum},
		{KindRecord, classes.Public | classes.Final},
	}
	for _, tt := range tests {
		t.Run("kind "+tt.kind, func(t *testing.T) {
			c := Class{Name: "p.C", Kind: tt.kind, Modifiers: []string{"public"}}
			got, err := c.ClassModifiers()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&Class{Name: "p.C", Kind: "struct"}).ClassModifiers()
	assert.EqualError(t, err, `p.C: unknown kind "struct"`)
}

func TestClass_SuperclassName(t *testing.T) {
	tests := []struct {
		name  string
		class Class
		want  string
	}{
		{"plain class", Class{Name: "p.C"}, classes.ObjectName},
		{"explicit", Class{Name: "p.C", Superclass: "p.B"}, "p.B"},
		{"enum", Class{Name: "p.E", Kind: KindEnum}, classes.EnumName},
		{"record", Class{Name: "p.R", Kind: KindRecord}, classes.RecordName},
		{"interface", Class{Name: "p.I", Kind: KindInterface}, ""},
		{"root", Class{Name: classes.ObjectName}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.class.SuperclassName())
		})
	}

	c := Class{Name: "p.C", Superclass: "p.B", Interfaces: []string{"p.I", "p.J"}}
	assert.Equal(t, []string{"p.B", "p.I", "p.J"}, c.Dependencies())
}

func TestParse(t *testing.T) {
	yamlDoc := `
loader: plugins
classes:
  - name: p.Greeter
    kind: interface
    methods:
      - name: greet
        returns: java.lang.String
        params: [java.lang.String]
        modifiers: [public, abstract]
`
	doc, err := Parse([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "plugins", doc.Loader)
	require.Len(t, doc.Classes, 1)
	c := doc.Classes[0]
	assert.True(t, c.IsInterface())
	require.Len(t, c.Methods, 1)
	assert.Equal(t, []string{"java.lang.String"}, c.Methods[0].Params)

	jsonDoc := `{"classes":[{"name":"p.C","fields":[{"name":"n","type":"int"}]}]}`
	doc, err = Parse([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, doc.Loader)
	assert.Equal(t, "int", doc.Classes[0].Fields[0].Type)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		errMsg string
	}{
		{"unknown yaml key", FormatYAML, "classes:\n  - name: p.C\n    colour: red\n", "failed to parse YAML"},
		{"unknown json key", FormatJSON, `{"classes":[{"name":"p.C","colour":"red"}]}`, "failed to parse JSON"},
		{"missing name", FormatYAML, "classes:\n  - kind: class\n", "without a name"},
		{"duplicate", FormatYAML, "classes:\n  - name: p.C\n  - name: p.C\n", "p.C: defined twice"},
		{"interface superclass", FormatYAML, "classes:\n  - name: p.I\n    kind: interface\n    superclass: p.B\n", "interfaces have no superclass"},
		{"permits without sealed", FormatYAML, "classes:\n  - name: p.C\n    permits: [p.D]\n", "permits requires sealed"},
		{"components on a class", FormatYAML, "classes:\n  - name: p.C\n    record_components: [{name: x, type: int}]\n", "only records"},
		{"field without type", FormatYAML, "classes:\n  - name: p.C\n    fields: [{name: x}]\n", "field needs a name and a type"},
		{"bad method modifier", FormatYAML, "classes:\n  - name: p.C\n    methods: [{name: m, modifiers: [pub]}]\n", `p.C.m: unknown modifier "pub"`},
		{"unknown format", Format("toml"), "", "unsupported definition format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDocument_MarshalRoundTrip(t *testing.T) {
	doc := &Document{
		Loader: "app",
		Classes: []Class{{
			Name:      "p.C",
			Modifiers: []string{"public"},
			Methods:   []Method{{Name: "run", Modifiers: []string{"public"}}},
		}},
	}
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := doc.Marshal(format)
			require.NoError(t, err)
			back, err := Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, doc, back)
		})
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{"a.yaml": FormatYAML, "b.YML": FormatYAML, "c.json": FormatJSON} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("d.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadPaths(t *testing.T) {
	docs, err := LoadPaths(filepath.Join("testdata", "defs"))
	require.NoError(t, err)
	require.Len(t, docs, 2, "README.txt is skipped")

	// nested/point.json sorts before shapes.yaml.
	assert.Equal(t, "geo.Point", docs[0].Classes[0].Name)
	assert.Equal(t, "geo.Shape", docs[1].Classes[0].Name)
	assert.Len(t, docs[1].Classes, 2)

	docs, err = LoadPaths(filepath.Join("testdata", "defs", "shapes.yaml"))
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	files, err := Files(filepath.Join("testdata", "defs"), filepath.Join("testdata", "defs", "README.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "defs", "nested", "point.json"),
		filepath.Join("testdata", "defs", "shapes.yaml"),
		filepath.Join("testdata", "defs", "README.txt"),
	}, files, "listed files are kept whatever their extension")
}

func TestLoadPaths_Errors(t *testing.T) {
	_, err := LoadPaths(filepath.Join("testdata", "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("classes: [{kind: class}]\n"), 0o644))
	_, err = LoadPaths(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass([]byte("name: p.C\nmethods: [{name: run}]\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "p.C", c.Name)
	assert.Equal(t, "run", c.Methods[0].Name)

	c, err = ParseClass([]byte(`{"name":"p.D","kind":"enum"}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, KindEnum, c.Kind)

	_, err = ParseClass([]byte(`{"kind":"enum"}`), FormatJSON)
	assert.ErrorContains(t, err, "without a name")
	_, err = ParseClass([]byte("name: p.C\nextra: 1\n"), FormatYAML)
	assert.ErrorContains(t, err, "failed to parse YAML definition")
}
