package classes

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// maxArrayDimensions is the deepest array nesting a type may have.
const maxArrayDimensions = 255

// Type describes a loaded class, interface, array or primitive type. There
// is exactly one Type per (loader, name), so types compare with ==.
//
// The structural facts are fixed at construction. Names and member lists
// are computed lazily and cached; member caches are discarded when the type
// is redefined.
type Type struct {
	universe  *Universe
	loader    *Loader
	kind      Kind
	primitive Primitive
	name      string
	modifiers Modifiers
	super     *Type
	component *Type
	hidden    bool

	arrayName atomic.Pointer[string]
	arrayType atomic.Pointer[Type]

	generation atomic.Uint32
	cache      atomic.Pointer[reflectionData]
}

// Universe returns the universe the type belongs to.
func (t *Type) Universe() *Universe { return t.universe }

// Loader returns the defining loader. Primitive types, and arrays of them,
// belong to the bootstrap loader.
func (t *Type) Loader() *Loader { return t.loader }

func (t *Type) Kind() Kind { return t.kind }

// Primitive returns which primitive t is, or NotPrimitive.
func (t *Type) Primitive() Primitive { return t.primitive }

func (t *Type) IsPrimitive() bool { return t.kind == KindPrimitive }
func (t *Type) IsArray() bool     { return t.kind == KindArray }
func (t *Type) IsInterface() bool { return t.kind == KindInterface }
func (t *Type) IsHidden() bool    { return t.hidden }

// IsAnnotation reports whether t is an annotation interface.
func (t *Type) IsAnnotation() bool { return t.modifiers&Annotation != 0 }

func (t *Type) IsSynthetic() bool { return t.modifiers&Synthetic != 0 }

// IsEnum reports whether t was declared as an enum. The bodies of enum
// constants are subclasses of the enum and do not count.
func (t *Type) IsEnum() bool {
	return t.modifiers&Enum != 0 && t.super != nil && t.super == t.universe.enum
}

// IsRecord reports whether t is a record class: a final direct subclass of
// the record base type that carries a record header.
func (t *Type) IsRecord() bool {
	if t.super == nil || t.super != t.universe.record || t.modifiers&Final == 0 {
		return false
	}
	_, ok := t.recordComponents()
	return ok
}

// Modifiers returns the flag word. Array types are final and abstract and
// take their access bits from their component.
func (t *Type) Modifiers() Modifiers { return t.modifiers }

// Superclass returns the direct superclass, or nil for the root class,
// interfaces and primitives. Every array's superclass is the root class.
func (t *Type) Superclass() *Type { return t.super }

// ComponentType returns the element type of one array dimension, or nil.
func (t *Type) ComponentType() *Type { return t.component }

// ElementType strips every array dimension.
func (t *Type) ElementType() *Type {
	e := t
	for e.component != nil {
		e = e.component
	}
	return e
}

// Dimensions returns the array depth of t, zero for non-arrays.
func (t *Type) Dimensions() int {
	n := 0
	for e := t; e.component != nil; e = e.component {
		n++
	}
	return n
}

// Generation returns the redefinition generation of t.
func (t *Type) Generation() uint32 { return t.generation.Load() }

// ArrayType returns the type of arrays of t. It is created on first request
// and unique afterwards.
func (t *Type) ArrayType() (*Type, error) {
	if t.primitive == Void {
		return nil, invalidf("array of void")
	}
	if t.Dimensions() >= maxArrayDimensions {
		return nil, invalidf("array of %s exceeds %d dimensions", t.Name(), maxArrayDimensions)
	}
	if a := t.arrayType.Load(); a != nil {
		return a, nil
	}
	a := t.universe.newArray(t)
	if t.arrayType.CompareAndSwap(nil, a) {
		t.universe.track(a)
		t.universe.logger.Debug("array type created", zap.String("type", a.Name()))
		return a, nil
	}
	return t.arrayType.Load(), nil
}

// Name returns the binary name. Arrays use the descriptor form, such as
// "[I" or "[Ljava.lang.String;".
func (t *Type) Name() string {
	if t.kind != KindArray {
		return t.name
	}
	if n := t.arrayName.Load(); n != nil {
		return *n
	}
	var n string
	switch c := t.component; {
	case c.IsArray():
		n = "[" + c.Name()
	case c.IsPrimitive():
		n = "[" + string(c.primitive.Code())
	default:
		n = "[L" + c.Name() + ";"
	}
	t.arrayName.Store(&n)
	return n
}

// Descriptor returns the type descriptor: a primitive letter, "[" per array
// dimension, or "Lpkg/Name;". Hidden classes keep the suffix after their
// last '/' separated by a dot.
func (t *Type) Descriptor() string {
	switch {
	case t.IsPrimitive():
		return string(t.primitive.Code())
	case t.IsArray():
		return "[" + t.component.Descriptor()
	case t.hidden:
		name := t.name
		i := strings.LastIndexByte(name, '/')
		return "L" + strings.ReplaceAll(name[:i], ".", "/") + "." + name[i+1:] + ";"
	default:
		return "L" + strings.ReplaceAll(t.name, ".", "/") + ";"
	}
}

// TypeName returns the source form of the name: "int[][]" for arrays,
// otherwise the binary name.
func (t *Type) TypeName() string {
	if !t.IsArray() {
		return t.name
	}
	e := t.ElementType()
	return e.name + strings.Repeat("[]", t.Dimensions())
}

// PackageName returns the package of the element type. Primitives live in
// "java.lang"; a type in the unnamed package returns "".
func (t *Type) PackageName() string {
	e := t.ElementType()
	if e.IsPrimitive() {
		return "java.lang"
	}
	if i := strings.LastIndexByte(e.name, '.'); i >= 0 {
		return e.name[:i]
	}
	return ""
}

// String returns "class X", "interface X" or, for primitives, the bare name.
func (t *Type) String() string {
	switch {
	case t.IsPrimitive():
		return t.name
	case t.IsInterface():
		return "interface " + t.Name()
	default:
		return "class " + t.Name()
	}
}
