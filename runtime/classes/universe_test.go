package classes

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewUniverse_BaseTypes(t *testing.T) {
	u := NewUniverse(nil)
	boot := u.Bootstrap()
	assert.True(t, boot.IsBootstrap())
	assert.Nil(t, boot.Parent())

	for _, name := range []string{ObjectName, EnumName, RecordName, CloneableName, SerializableName} {
		got, ok := boot.FindLoaded(name)
		require.True(t, ok, name)
		assert.Same(t, boot, got.Loader())
	}
	assert.Nil(t, u.Object().Superclass())
	assert.Same(t, u.Object(), u.EnumBase().Superclass())
	assert.Same(t, u.Object(), u.RecordBase().Superclass())
	assert.True(t, u.Cloneable().IsInterface())
	assert.True(t, u.Serializable().Modifiers().Has(Abstract))

	for _, p := range Primitives {
		pt := u.Primitive(p)
		require.NotNil(t, pt, p.String())
		assert.True(t, pt.IsPrimitive())
		assert.Equal(t, p, pt.Primitive())
		assert.Equal(t, Public|Final|Abstract, pt.Modifiers())
		assert.Nil(t, pt.Superclass())
	}
	assert.Nil(t, u.Primitive(NotPrimitive))
}

func TestLoader_Define(t *testing.T) {
	f := newFixture(t)
	i := f.iface("pkg.I")

	assert.Equal(t, KindInterface, i.Kind())
	assert.True(t, i.Modifiers().Has(Abstract), "interfaces are always abstract")
	assert.Same(t, f.l, i.Loader())

	got, ok := f.l.Lookup("pkg.I")
	require.True(t, ok)
	assert.Same(t, i, got)

	_, ok = f.u.Bootstrap().Lookup("pkg.I")
	assert.False(t, ok, "parents do not see child types")

	_, err := f.l.Define(ClassSpec{Name: "pkg.I", Modifiers: Public | Interface})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoader_DefineRejectsBrokenInvariants(t *testing.T) {
	f := newFixture(t)
	final := f.class("pkg.Final", nil, Public|Final)
	iface := f.iface("pkg.I")
	u := f.u

	tests := []struct {
		name string
		spec ClassSpec
	}{
		{"empty name", ClassSpec{Superclass: u.Object()}},
		{"array name", ClassSpec{Name: "[Lpkg.A;", Superclass: u.Object()}},
		{"primitive name", ClassSpec{Name: "int", Superclass: u.Object()}},
		{"trailing dot", ClassSpec{Name: "pkg.", Superclass: u.Object()}},
		{"slash without hidden", ClassSpec{Name: "pkg/A", Superclass: u.Object()}},
		{"hidden without suffix", ClassSpec{Name: "pkg.A/", Superclass: u.Object(), Hidden: true}},
		{"interface with superclass", ClassSpec{Name: "pkg.J", Modifiers: Interface, Superclass: u.Object()}},
		{"enum interface", ClassSpec{Name: "pkg.J", Modifiers: Interface | Enum}},
		{"annotation class", ClassSpec{Name: "pkg.A", Modifiers: Annotation, Superclass: u.Object()}},
		{"class without superclass", ClassSpec{Name: "pkg.A"}},
		{"final superclass", ClassSpec{Name: "pkg.A", Superclass: final}},
		{"interface superclass", ClassSpec{Name: "pkg.A", Superclass: iface}},
		{"array superclass", ClassSpec{Name: "pkg.A", Superclass: f.array(u.Object())}},
		{"enum outside enum base", ClassSpec{Name: "pkg.A", Modifiers: Enum | Final, Superclass: u.Object()}},
		{"plain class extending enum base", ClassSpec{Name: "pkg.A", Superclass: u.EnumBase()}},
		{"non-final record", ClassSpec{Name: "pkg.A", Superclass: u.RecordBase()}},
		{"foreign superclass", ClassSpec{Name: "pkg.A", Superclass: NewUniverse(nil).Object()}},
		{"second root class", ClassSpec{Name: ObjectName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.l.Define(tt.spec)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoader_DefineEnumsAndRecords(t *testing.T) {
	f := newFixture(t)
	color := f.class("pkg.Color", f.u.EnumBase(), Public|Enum)
	body := f.class("pkg.Color$1", color, Enum)
	point := f.class("pkg.Point", f.u.RecordBase(), Public|Final)
	f.set(func(vm *fakeVM) { vm.records[point] = nil })
	fake := f.class("pkg.Fake", f.u.RecordBase(), Public|Final)

	assert.True(t, color.IsEnum())
	assert.False(t, body.IsEnum(), "constant bodies are not enums")
	assert.True(t, point.IsRecord())
	assert.False(t, fake.IsRecord(), "no record header")
	assert.False(t, color.IsRecord())
}

func TestLoader_Delegation(t *testing.T) {
	f := newFixture(t)
	a := f.class("pkg.A", nil, Public)
	other := f.u.NewLoader("other", nil)
	a2, err := other.Define(ClassSpec{Name: "pkg.A", Modifiers: Public, Superclass: f.u.Object()})
	require.NoError(t, err)
	assert.NotSame(t, a, a2, "one type per loader and name")
	assert.NotEqual(t, f.l.ID(), other.ID())

	child := f.u.NewLoader("child", f.l)
	got, ok := child.Lookup("pkg.A")
	require.True(t, ok)
	assert.Same(t, a, got)

	shadow, err := child.Define(ClassSpec{Name: "pkg.A", Modifiers: Public, Superclass: f.u.Object()})
	require.NoError(t, err)
	got, _ = child.Lookup("pkg.A")
	assert.Same(t, a, got, "the parent is asked first")
	got, _ = child.FindLoaded("pkg.A")
	assert.Same(t, shadow, got)

	assert.Len(t, f.u.Loaders(), 4)
	assert.Equal(t, []*Type{a}, f.l.Types())
}

func TestLoader_HiddenTypesAreNotRegistered(t *testing.T) {
	f := newFixture(t)
	h, err := f.l.Define(ClassSpec{Name: "pkg.Lambda/0x1f", Modifiers: Final | Synthetic, Superclass: f.u.Object(), Hidden: true})
	require.NoError(t, err)
	assert.True(t, h.IsHidden())

	_, ok := f.l.Lookup("pkg.Lambda/0x1f")
	assert.False(t, ok)
	assert.Contains(t, f.u.Types(), h)
}

func TestLoader_ForName(t *testing.T) {
	f := newFixture(t)
	str := f.class("java.lang.String", nil, Public|Final)

	ok := []struct {
		name string
		want string
	}{
		{"java.lang.String", "java.lang.String"},
		{"java.lang.Object", "java.lang.Object"},
		{"[I", "[I"},
		{"[[Z", "[[Z"},
		{"[Ljava.lang.String;", "[Ljava.lang.String;"},
		{"[[Ljava.lang.Object;", "[[Ljava.lang.Object;"},
	}
	for _, tt := range ok {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.l.ForName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}

	got, err := f.l.ForName("[Ljava.lang.String;")
	require.NoError(t, err)
	assert.Same(t, str, got.ComponentType())

	bad := []struct {
		name    string
		wantErr error
	}{
		{"", ErrInvalid},
		{"[", ErrInvalid},
		{"[V", ErrInvalid},
		{"[X", ErrInvalid},
		{"[Ljava.lang.String", ErrInvalid},
		{"[L[I;", ErrInvalid},
		{strings.Repeat("[", 256) + "I", ErrInvalid},
		{"int", ErrNotFound},
		{"pkg.Missing", ErrNotFound},
		{"[Lpkg.Missing;", ErrNotFound},
	}
	for _, tt := range bad {
		t.Run("bad "+tt.name, func(t *testing.T) {
			_, err := f.l.ForName(tt.name)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = f.l.ForName("pkg.Missing")
	assert.EqualError(t, err, "class not found: pkg.Missing")
}

func TestArrayType_Unique(t *testing.T) {
	f := newFixture(t)
	c := f.class("pkg.C", nil, Public)

	const workers = 32
	results := make([]*Type, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := c.ArrayType()
			if assert.NoError(t, err) {
				results[i] = a
			}
		}(i)
	}
	wg.Wait()
	for _, a := range results {
		assert.Same(t, results[0], a)
	}

	arr := results[0]
	assert.Equal(t, KindArray, arr.Kind())
	assert.Same(t, c, arr.ComponentType())
	assert.Same(t, f.u.Object(), arr.Superclass())
	assert.Same(t, f.l, arr.Loader())
	assert.Equal(t, Public|Final|Abstract, arr.Modifiers())
	assert.Equal(t, []*Type{f.u.Cloneable(), f.u.Serializable()}, arr.Interfaces())

	count := 0
	for _, x := range f.u.Types() {
		if x == arr {
			count++
		}
	}
	assert.Equal(t, 1, count, "the losing arrays are never tracked")
}

func TestArrayType_Limits(t *testing.T) {
	u := NewUniverse(nil)
	_, err := u.Primitive(Void).ArrayType()
	assert.ErrorIs(t, err, ErrInvalid)

	a := u.Primitive(Int)
	for i := 0; i < maxArrayDimensions; i++ {
		a, err = a.ArrayType()
		require.NoError(t, err)
	}
	assert.Equal(t, maxArrayDimensions, a.Dimensions())
	assert.Same(t, u.Primitive(Int), a.ElementType())

	_, err = a.ArrayType()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestArrayType_PrivateComponent(t *testing.T) {
	f := newFixture(t)
	c := f.class("pkg.Outer$Secret", nil, Private|Static|Final)
	assert.Equal(t, Private|Final|Abstract, f.array(c).Modifiers())
}

func TestUniverse_LogsDefinitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	u := NewUniverse(nil, WithLogger(zap.New(core)))
	l := u.NewLoader("app", nil)
	c, err := l.Define(ClassSpec{Name: "pkg.C", Superclass: u.Object()})
	require.NoError(t, err)

	defined := logs.FilterMessage("type defined").FilterField(zap.String("type", "pkg.C"))
	assert.Equal(t, 1, defined.Len())

	u.Redefine(c)
	redefined := logs.FilterMessage("types redefined").All()
	require.Len(t, redefined, 1)
	assert.EqualValues(t, 1, redefined[0].ContextMap()["invalidated"])
}
