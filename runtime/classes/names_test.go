package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	f := newFixture(t)
	str := f.class("java.lang.String", nil, Public|Final)
	intType := f.u.Primitive(Int)
	ints2 := f.array(f.array(intType))
	strs := f.array(str)
	top := f.class("Top", nil, Public)

	tests := []struct {
		typ        *Type
		name       string
		descriptor string
		typeName   string
		simple     string
		canonical  string
		pkg        string
		str        string
	}{
		{f.u.Object(), "java.lang.Object", "Ljava/lang/Object;", "java.lang.Object", "Object", "java.lang.Object", "java.lang", "class java.lang.Object"},
		{f.u.Serializable(), "java.io.Serializable", "Ljava/io/Serializable;", "java.io.Serializable", "Serializable", "java.io.Serializable", "java.io", "interface java.io.Serializable"},
		{intType, "int", "I", "int", "int", "int", "java.lang", "int"},
		{f.u.Primitive(Void), "void", "V", "void", "void", "void", "java.lang", "void"},
		{ints2, "[[I", "[[I", "int[][]", "int[][]", "int[][]", "java.lang", "class [[I"},
		{strs, "[Ljava.lang.String;", "[Ljava/lang/String;", "java.lang.String[]", "String[]", "java.lang.String[]", "java.lang", "class [Ljava.lang.String;"},
		{top, "Top", "LTop;", "Top", "Top", "Top", "", "class Top"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.typ.Name())
			assert.Equal(t, tt.descriptor, tt.typ.Descriptor())
			assert.Equal(t, tt.typeName, tt.typ.TypeName())
			assert.Equal(t, tt.simple, tt.typ.SimpleName())
			canonical, ok := tt.typ.CanonicalName()
			assert.True(t, ok)
			assert.Equal(t, tt.canonical, canonical)
			assert.Equal(t, tt.pkg, tt.typ.PackageName())
			assert.Equal(t, tt.str, tt.typ.String())
		})
	}
}

func TestNames_NestedTypes(t *testing.T) {
	f := newFixture(t)
	outer := f.class("pkg.Outer", nil, Public)
	f.method(outer, "run", Public, nil)
	f.constructor(outer, Public, f.u.Primitive(Int))
	member := f.class("pkg.Outer$Entry", nil, Public|Static)
	anon := f.class("pkg.Outer$1", nil, 0)
	local := f.class("pkg.Outer$1Local", nil, 0)
	memberOfLocal := f.class("pkg.Outer$1Local$Deep", nil, 0)
	f.set(func(vm *fakeVM) {
		vm.declaring[member] = "pkg.Outer"
		vm.simpleNames[member] = "Entry"
		vm.declared[outer] = []string{"pkg.Outer$Entry", "pkg.Missing", "pkg.Outer$1"}
		vm.enclosing[anon] = EnclosingMethodInfo{Class: "pkg.Outer", Name: "run", Descriptor: "()V"}
		vm.enclosing[local] = EnclosingMethodInfo{Class: "pkg.Outer", Name: "<init>", Descriptor: "(I)V"}
		vm.simpleNames[local] = "Local"
		vm.declaring[memberOfLocal] = "pkg.Outer$1Local"
		vm.simpleNames[memberOfLocal] = "Deep"
	})

	t.Run("member", func(t *testing.T) {
		assert.True(t, member.IsMember())
		assert.False(t, member.IsLocal())
		assert.False(t, member.IsAnonymous())
		assert.Same(t, outer, member.DeclaringClass())
		assert.Same(t, outer, member.EnclosingClass())
		assert.Equal(t, "Entry", member.SimpleName())
		name, ok := member.CanonicalName()
		require.True(t, ok)
		assert.Equal(t, "pkg.Outer.Entry", name)
		assert.Equal(t, []*Type{member}, outer.DeclaredClasses(), "unresolvable and foreign entries are dropped")
	})

	t.Run("anonymous", func(t *testing.T) {
		assert.True(t, anon.IsAnonymous())
		assert.False(t, anon.IsMember())
		assert.Equal(t, "", anon.SimpleName())
		_, ok := anon.CanonicalName()
		assert.False(t, ok)
		assert.Same(t, outer, anon.EnclosingClass())
		assert.Nil(t, anon.DeclaringClass())
		m, ok := anon.EnclosingMethod()
		require.True(t, ok)
		assert.Equal(t, "run", m.Name())
		_, ok = anon.EnclosingConstructor()
		assert.False(t, ok)
	})

	t.Run("local", func(t *testing.T) {
		assert.True(t, local.IsLocal())
		assert.False(t, local.IsAnonymous())
		assert.Equal(t, "Local", local.SimpleName())
		_, ok := local.EnclosingMethod()
		assert.False(t, ok)
		c, ok := local.EnclosingConstructor()
		require.True(t, ok)
		assert.Equal(t, "(I)V", c.Descriptor())

		_, ok = f.array(local).CanonicalName()
		assert.False(t, ok, "arrays of local classes have no canonical name")
		_, ok = memberOfLocal.CanonicalName()
		assert.False(t, ok, "members of local classes have no canonical name")
		assert.Equal(t, "Deep", memberOfLocal.SimpleName())
	})
}

func TestNames_Hidden(t *testing.T) {
	f := newFixture(t)
	h, err := f.l.Define(ClassSpec{Name: "pkg.Lambda$1/0x0001", Modifiers: Final | Synthetic, Superclass: f.u.Object(), Hidden: true})
	require.NoError(t, err)

	assert.Equal(t, "Lpkg/Lambda$1.0x0001;", h.Descriptor())
	assert.Equal(t, "Lambda$1/0x0001", h.SimpleName())
	_, ok := h.CanonicalName()
	assert.False(t, ok)
	assert.True(t, h.IsSynthetic())
	assert.Equal(t, "[Lpkg/Lambda$1.0x0001;", f.array(h).Descriptor())
}

func TestGenericString(t *testing.T) {
	f := newFixture(t)
	optional := f.class("java.util.Optional", nil, Public|Final)
	box := f.class("pkg.Box", nil, Public)
	mapType := f.iface("java.util.Map")
	marker, err := f.l.Define(ClassSpec{Name: "pkg.Marker", Modifiers: Public | Interface | Annotation})
	require.NoError(t, err)
	color := f.class("pkg.Color", f.u.EnumBase(), Public|Final|Enum)
	point := f.class("pkg.Point", f.u.RecordBase(), Public|Final)
	broken := f.class("pkg.Broken", nil, 0)
	f.set(func(vm *fakeVM) {
		vm.signatures[optional] = "<T:Ljava/lang/Object;>Ljava/lang/Object;"
		vm.signatures[box] = "<T::Ljava/lang/Comparable<-TT;>;>Ljava/lang/Object;"
		vm.signatures[mapType] = "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;"
		vm.signatures[broken] = "<T:Ljava/lang/Object;"
		vm.records[point] = nil
	})

	tests := []struct {
		typ  *Type
		want string
	}{
		{optional, "public final class java.util.Optional<T>"},
		{box, "public class pkg.Box<T extends java.lang.Comparable<? super T>>"},
		{mapType, "public abstract interface java.util.Map<K,V>"},
		{marker, "public abstract @interface pkg.Marker"},
		{color, "public final enum pkg.Color"},
		{point, "public final record pkg.Point"},
		{broken, "class pkg.Broken"},
		{f.array(f.array(optional)), "java.util.Optional<T>[][]"},
		{f.u.Primitive(Int), "int"},
		{f.array(f.u.Primitive(Int)), "int[]"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.GenericString())
		})
	}

	params := box.TypeParameters()
	require.Len(t, params, 1)
	assert.Equal(t, "T", params[0].Name)
	params[0].Bounds[0] = "mutated"
	assert.Equal(t, "java.lang.Comparable<? super T>", box.TypeParameters()[0].Bounds[0])
	assert.Empty(t, broken.TypeParameters())
}

func TestMemberStrings(t *testing.T) {
	f := newFixture(t)
	intType := f.u.Primitive(Int)
	str := f.class("java.lang.String", nil, Public|Final)
	number, _ := f.numbers()
	e := f.class("pkg.E", nil, Public)
	c := f.class("pkg.C", nil, Public|Abstract)
	i := f.iface("pkg.I")

	fl := f.field(c, "MAX", intType, Public|Static|Final)
	assert.Equal(t, "public static final int pkg.C.MAX", fl.String())
	assert.Equal(t, "I", fl.Descriptor())

	m := NewMethod(c, MethodSpec{
		Name:       "m",
		Modifiers:  Public | Abstract,
		Return:     intType,
		Params:     []*Type{intType, str},
		Exceptions: []*Type{e},
	})
	assert.Equal(t, "public abstract int pkg.C.m(int,java.lang.String) throws pkg.E", m.String())
	assert.Equal(t, "(ILjava/lang/String;)I", m.Descriptor())

	def := f.method(i, "m", Public, number)
	assert.True(t, def.IsDefault())
	assert.Equal(t, "public default java.lang.Number pkg.I.m()", def.String())
	abstract := f.method(i, "n", Public|Abstract, nil)
	assert.False(t, abstract.IsDefault())
	assert.Equal(t, "public abstract void pkg.I.n()", abstract.String())

	ctor := f.constructor(c, Public, f.array(intType))
	assert.Equal(t, "public pkg.C(int[])", ctor.String())
	assert.Equal(t, "([I)V", ctor.Descriptor())
	assert.Equal(t, "pkg.C", ctor.Name())

	params := []*Type{intType}
	m2 := NewMethod(c, MethodSpec{Name: "k", Modifiers: Public, Return: intType, Params: params})
	params[0] = str
	assert.Same(t, intType, m2.ParameterTypes()[0], "parameter slices are copied")
}

func TestRecordComponents(t *testing.T) {
	f := newFixture(t)
	intType := f.u.Primitive(Int)
	point := f.class("pkg.Point", f.u.RecordBase(), Public|Final)
	x := NewRecordComponent(point, "x", intType, "")
	y := NewRecordComponent(point, "y", intType, "")
	accessor := f.method(point, "x", Public, intType)
	f.set(func(vm *fakeVM) { vm.records[point] = []*RecordComponent{x, y} })

	got, ok := point.RecordComponents()
	require.True(t, ok)
	assert.Equal(t, []*RecordComponent{x, y}, got)
	assert.Equal(t, "int x", x.String())

	m, err := x.Accessor()
	require.NoError(t, err)
	assert.Same(t, accessor, m)
	_, err = y.Accessor()
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok = f.u.Object().RecordComponents()
	assert.False(t, ok)
}
