package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/vm"
	"github.com/conduit-lang/classmeta/runtime/classes"
	"github.com/conduit-lang/classmeta/runtime/text"
)

const shapes = `
classes:
  - name: p.Shape
    kind: interface
    modifiers: [public]
    sealed: true
    permits: [p.Point]
    methods:
      - {name: area, returns: double, modifiers: [public, abstract]}
  - name: p.Named
    kind: interface
    modifiers: [public]
  - name: p.Point
    kind: record
    modifiers: [public]
    interfaces: [p.Shape, p.Named]
    record_components:
      - {name: x, type: int}
    fields:
      - {name: x, type: int, modifiers: [private, final]}
    constructors:
      - {params: [int], modifiers: [public]}
    methods:
      - {name: x, returns: int, modifiers: [public]}
      - {name: area, returns: double, modifiers: [public]}
`

func setup(t *testing.T) *vm.Machine {
	t.Helper()
	doc, err := classdef.Parse([]byte(shapes), classdef.FormatYAML)
	require.NoError(t, err)
	m := vm.New()
	_, err = m.Load(doc)
	require.NoError(t, err)
	return m
}

func resolve(t *testing.T, m *vm.Machine, ref string) *classes.Type {
	t.Helper()
	typ, err := m.Resolve("", ref)
	require.NoError(t, err)
	return typ
}

func TestDescribe(t *testing.T) {
	m := setup(t)

	v := Describe(resolve(t, m, "p.Point"))
	assert.Equal(t, "p.Point", v.Name)
	assert.Equal(t, "class", v.Kind)
	assert.Equal(t, "public final record p.Point", v.Declaration)
	assert.Equal(t, "app", v.Loader)
	assert.Equal(t, "Lp/Point;", v.Descriptor)
	assert.Equal(t, "Point", v.SimpleName)
	assert.Equal(t, "p.Point", v.CanonicalName)
	assert.Equal(t, classes.RecordName, v.Superclass)
	assert.Equal(t, []string{"p.Shape", "p.Named"}, v.Interfaces)
	assert.Equal(t, []string{"record"}, v.Flags)
	assert.Equal(t, []string{"int x"}, v.Components)
	assert.Empty(t, v.NestHost, "a type that is its own nest host reports none")

	shape := Describe(resolve(t, m, "p.Shape"))
	assert.Equal(t, "interface", shape.Kind)
	assert.Equal(t, []string{"sealed"}, shape.Flags)
	assert.Equal(t, []string{"p.Point"}, shape.Permitted)
	assert.Equal(t, []string{}, shape.Interfaces)

	arr := Describe(resolve(t, m, "int[][]"))
	assert.Equal(t, "array", arr.Kind)
	assert.Equal(t, "[[I", arr.Name)
	assert.Equal(t, "int[][]", arr.SimpleName)
	assert.Equal(t, classes.ObjectName, arr.Superclass)
}

func TestMembers(t *testing.T) {
	m := setup(t)
	point := resolve(t, m, "p.Point")

	assert.Empty(t, Fields(point, false), "x is private")
	declared := Fields(point, true)
	require.Len(t, declared, 1)
	assert.Equal(t, MemberView{
		Kind:           "field",
		Name:           "x",
		DeclaringClass: "p.Point",
		Modifiers:      "private final",
		Type:           "int",
		Signature:      "private final int p.Point.x",
		Descriptor:     "I",
	}, declared[0])

	methods := Methods(point, false)
	var area MemberView
	for _, mv := range methods {
		if mv.Name == "area" {
			area = mv
		}
	}
	assert.Equal(t, "p.Point", area.DeclaringClass, "the class implementation wins over the interface")
	assert.Equal(t, "()D", area.Descriptor)

	ctors := Constructors(point, false)
	require.Len(t, ctors, 1)
	assert.Equal(t, "public p.Point(int)", ctors[0].Signature)
	assert.Equal(t, "(I)V", ctors[0].Descriptor)
}

func TestHierarchy(t *testing.T) {
	m := setup(t)

	h := Hierarchy(resolve(t, m, "p.Point"))
	assert.Equal(t, []string{classes.RecordName, classes.ObjectName}, h.Superclasses)
	assert.Equal(t, []string{"p.Shape", "p.Named"}, h.Interfaces)

	h = Hierarchy(resolve(t, m, "p.Point[]"))
	assert.Equal(t, []string{classes.ObjectName}, h.Superclasses)
	assert.Equal(t, []string{classes.CloneableName, classes.SerializableName}, h.Interfaces)

	h = Hierarchy(m.Universe().Object())
	assert.Equal(t, []string{}, h.Superclasses)
	assert.Equal(t, []string{}, h.Interfaces)
}

func TestListing(t *testing.T) {
	m := setup(t)

	got, err := Listing(resolve(t, m, "p.Point"), text.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `public final record p.Point extends java.lang.Record implements p.Shape, p.Named {
  private final int p.Point.x;
  public p.Point(int);
  public int p.Point.x();
  public double p.Point.area();
}
`, got)

	got, err = Listing(resolve(t, m, "p.Shape"), text.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "public abstract interface p.Shape {\n  public abstract double p.Shape.area();\n}\n", got)
}

func TestListing_WideNames(t *testing.T) {
	doc, err := classdef.Parse([]byte(`
classes:
  - name: p.Ωmega
    modifiers: [public]
    methods:
      - {name: run, returns: void, modifiers: [public]}
`), classdef.FormatYAML)
	require.NoError(t, err)
	m := vm.New()
	_, err = m.Load(doc)
	require.NoError(t, err)

	got, err := Listing(resolve(t, m, "p.Ωmega"), text.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "public class p.Ωmega {\n  public void p.Ωmega.run();\n}\n", got)
}

func TestListing_Ceiling(t *testing.T) {
	m := setup(t)

	_, err := Listing(resolve(t, m, "p.Point"), text.Config{InitialCapacity: 8, MaxCapacity: 32})
	assert.ErrorIs(t, err, text.ErrOutOfMemory)

	_, err = Listing(resolve(t, m, "p.Point"), text.Config{InitialCapacity: -1})
	assert.ErrorIs(t, err, text.ErrNegativeCapacity)
}
