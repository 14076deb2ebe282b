package classes

import (
	"strings"
)

// Field is a declared field. Values are immutable once built.
type Field struct {
	declaring *Type
	name      string
	typ       *Type
	modifiers Modifiers
}

// NewField builds a field declared by declaring.
func NewField(declaring *Type, name string, typ *Type, modifiers Modifiers) *Field {
	return &Field{declaring: declaring, name: name, typ: typ, modifiers: modifiers}
}

func (f *Field) DeclaringClass() *Type { return f.declaring }
func (f *Field) Name() string          { return f.name }
func (f *Field) Type() *Type           { return f.typ }
func (f *Field) Modifiers() Modifiers  { return f.modifiers }
func (f *Field) IsStatic() bool        { return f.modifiers&Static != 0 }
func (f *Field) IsSynthetic() bool     { return f.modifiers&Synthetic != 0 }
func (f *Field) IsEnumConstant() bool  { return f.modifiers&Enum != 0 }

// Descriptor returns the field descriptor of the field's type.
func (f *Field) Descriptor() string { return f.typ.Descriptor() }

// String formats the field like "public static int pkg.C.count".
func (f *Field) String() string {
	var b strings.Builder
	writeModifiers(&b, f.modifiers&FieldModifiers)
	b.WriteString(f.typ.TypeName())
	b.WriteByte(' ')
	b.WriteString(f.declaring.TypeName())
	b.WriteByte('.')
	b.WriteString(f.name)
	return b.String()
}

// MethodSpec holds the raw facts of a method declaration.
type MethodSpec struct {
	Name       string
	Modifiers  Modifiers
	Return     *Type
	Params     []*Type
	Exceptions []*Type
}

// Method is a declared method.
type Method struct {
	declaring  *Type
	name       string
	modifiers  Modifiers
	returnType *Type
	params     []*Type
	exceptions []*Type
}

// NewMethod builds a method declared by declaring. The parameter and
// exception slices are copied.
func NewMethod(declaring *Type, spec MethodSpec) *Method {
	return &Method{
		declaring:  declaring,
		name:       spec.Name,
		modifiers:  spec.Modifiers,
		returnType: spec.Return,
		params:     cloneTypes(spec.Params),
		exceptions: cloneTypes(spec.Exceptions),
	}
}

func (m *Method) DeclaringClass() *Type   { return m.declaring }
func (m *Method) Name() string            { return m.name }
func (m *Method) Modifiers() Modifiers    { return m.modifiers }
func (m *Method) ReturnType() *Type       { return m.returnType }
func (m *Method) ParameterCount() int     { return len(m.params) }
func (m *Method) ParameterTypes() []*Type { return cloneTypes(m.params) }
func (m *Method) ExceptionTypes() []*Type { return cloneTypes(m.exceptions) }
func (m *Method) IsStatic() bool          { return m.modifiers&Static != 0 }
func (m *Method) IsAbstract() bool        { return m.modifiers&Abstract != 0 }
func (m *Method) IsBridge() bool          { return m.modifiers&Bridge != 0 }
func (m *Method) IsVarargs() bool         { return m.modifiers&Varargs != 0 }
func (m *Method) IsSynthetic() bool       { return m.modifiers&Synthetic != 0 }

// IsDefault reports whether m is a public, non-abstract instance method
// declared by an interface.
func (m *Method) IsDefault() bool {
	return m.modifiers&(Abstract|Public|Static) == Public && m.declaring.IsInterface()
}

// Descriptor returns the method descriptor, e.g. "(ILjava/lang/String;)V".
func (m *Method) Descriptor() string {
	return methodDescriptor(m.params, m.returnType)
}

// String formats the method like
// "public abstract int pkg.C.m(int,java.lang.String) throws pkg.E".
func (m *Method) String() string {
	var b strings.Builder
	mod := m.modifiers & MethodModifiers
	if m.IsDefault() {
		writeModifiers(&b, mod&accessModifiers)
		b.WriteString("default ")
		writeModifiers(&b, mod&^accessModifiers)
	} else {
		writeModifiers(&b, mod)
	}
	b.WriteString(m.returnType.TypeName())
	b.WriteByte(' ')
	b.WriteString(m.declaring.TypeName())
	b.WriteByte('.')
	b.WriteString(m.name)
	writeSignatureTail(&b, m.params, m.exceptions)
	return b.String()
}

func (m *Method) hasParams(params []*Type) bool { return sameTypes(m.params, params) }

// ConstructorSpec holds the raw facts of a constructor declaration.
type ConstructorSpec struct {
	Modifiers  Modifiers
	Params     []*Type
	Exceptions []*Type
}

// Constructor is a declared constructor.
type Constructor struct {
	declaring  *Type
	modifiers  Modifiers
	params     []*Type
	exceptions []*Type
}

// NewConstructor builds a constructor declared by declaring.
func NewConstructor(declaring *Type, spec ConstructorSpec) *Constructor {
	return &Constructor{
		declaring:  declaring,
		modifiers:  spec.Modifiers,
		params:     cloneTypes(spec.Params),
		exceptions: cloneTypes(spec.Exceptions),
	}
}

func (c *Constructor) DeclaringClass() *Type   { return c.declaring }
func (c *Constructor) Name() string            { return c.declaring.Name() }
func (c *Constructor) Modifiers() Modifiers    { return c.modifiers }
func (c *Constructor) ParameterCount() int     { return len(c.params) }
func (c *Constructor) ParameterTypes() []*Type { return cloneTypes(c.params) }
func (c *Constructor) ExceptionTypes() []*Type { return cloneTypes(c.exceptions) }
func (c *Constructor) IsVarargs() bool         { return c.modifiers&Varargs != 0 }

// Descriptor returns the constructor's method descriptor, which always
// returns void.
func (c *Constructor) Descriptor() string {
	return methodDescriptor(c.params, c.declaring.universe.Primitive(Void))
}

// String formats the constructor like "public pkg.C(int)".
func (c *Constructor) String() string {
	var b strings.Builder
	writeModifiers(&b, c.modifiers&ConstructorModifiers)
	b.WriteString(c.declaring.TypeName())
	writeSignatureTail(&b, c.params, c.exceptions)
	return b.String()
}

// RecordComponent is one component of a record's header.
type RecordComponent struct {
	declaring *Type
	name      string
	typ       *Type
	signature string
}

// NewRecordComponent builds a component of the record declaring. signature
// is the component's generic signature and may be empty.
func NewRecordComponent(declaring *Type, name string, typ *Type, signature string) *RecordComponent {
	return &RecordComponent{declaring: declaring, name: name, typ: typ, signature: signature}
}

func (r *RecordComponent) DeclaringRecord() *Type   { return r.declaring }
func (r *RecordComponent) Name() string             { return r.name }
func (r *RecordComponent) Type() *Type              { return r.typ }
func (r *RecordComponent) GenericSignature() string { return r.signature }

// Accessor returns the declared no-argument method named after the component.
func (r *RecordComponent) Accessor() (*Method, error) {
	return r.declaring.DeclaredMethod(r.name)
}

func (r *RecordComponent) String() string { return r.typ.TypeName() + " " + r.name }

func writeModifiers(b *strings.Builder, m Modifiers) {
	if m == 0 {
		return
	}
	b.WriteString(m.String())
	b.WriteByte(' ')
}

func writeSignatureTail(b *strings.Builder, params, exceptions []*Type) {
	b.WriteByte('(')
	b.WriteString(joinTypeNames(params, ","))
	b.WriteByte(')')
	if len(exceptions) > 0 {
		b.WriteString(" throws ")
		b.WriteString(joinTypeNames(exceptions, ","))
	}
}

func methodDescriptor(params []*Type, ret *Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(ret.Descriptor())
	return b.String()
}

func joinTypeNames(types []*Type, sep string) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.TypeName()
	}
	return strings.Join(names, sep)
}

func sameTypes(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneTypes(types []*Type) []*Type {
	if len(types) == 0 {
		return nil
	}
	out := make([]*Type, len(types))
	copy(out, types)
	return out
}
