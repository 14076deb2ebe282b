package classes

import (
	"strings"
)

// SimpleName returns the name as written in source: "Entry" for a member
// class, "" for an anonymous class, "String[]" for arrays.
func (t *Type) SimpleName() string {
	rd := t.reflectionData()
	return rd.simpleName.get(func() string {
		if t.IsArray() {
			return t.component.SimpleName() + "[]"
		}
		if t.isTopLevel() {
			return t.name[strings.LastIndexByte(t.name, '.')+1:]
		}
		name, ok := t.universe.vm.SimpleBinaryName(t)
		if !ok {
			return ""
		}
		return name
	})
}

// CanonicalName returns the name used in source to refer to t, such as
// "java.util.Map.Entry". ok is false for local, anonymous and hidden
// types, for members of such types and for arrays of them.
func (t *Type) CanonicalName() (name string, ok bool) {
	rd := t.reflectionData()
	n := rd.canonicalName.get(func() optionalName {
		if t.IsArray() {
			c, ok := t.component.CanonicalName()
			if !ok {
				return optionalName{}
			}
			return optionalName{name: c + "[]", ok: true}
		}
		if t.hidden || t.isLocalOrAnonymous() {
			return optionalName{}
		}
		enclosing := t.EnclosingClass()
		if enclosing == nil {
			return optionalName{name: t.name, ok: true}
		}
		outer, ok := enclosing.CanonicalName()
		if !ok {
			return optionalName{}
		}
		return optionalName{name: outer + "." + t.SimpleName(), ok: true}
	})
	return n.name, n.ok
}

// GenericString describes t the way it would be declared, e.g.
// "public final class java.util.Optional<T>" or
// "public abstract @interface pkg.Marker". Arrays render as the element
// name followed by brackets.
func (t *Type) GenericString() string {
	if t.IsPrimitive() {
		return t.String()
	}
	var b strings.Builder
	e := t.ElementType()
	if t.IsArray() {
		b.WriteString(e.Name())
	} else {
		writeModifiers(&b, t.modifiers&ClassModifiers)
		if t.IsAnnotation() {
			b.WriteByte('@')
		}
		switch {
		case t.IsInterface():
			b.WriteString("interface")
		case t.IsEnum():
			b.WriteString("enum")
		case t.IsRecord():
			b.WriteString("record")
		default:
			b.WriteString("class")
		}
		b.WriteByte(' ')
		b.WriteString(t.name)
	}
	if params := e.TypeParameters(); len(params) > 0 {
		b.WriteByte('<')
		for i, p := range params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.String())
		}
		b.WriteByte('>')
	}
	b.WriteString(strings.Repeat("[]", t.Dimensions()))
	return b.String()
}

// TypeParameters returns the formal type parameters of a generic class or
// interface, parsed from its signature. A type without a signature, or with
// one that does not parse, has none.
func (t *Type) TypeParameters() []TypeParameter {
	if !t.hasDeclarations() {
		return nil
	}
	rd := t.reflectionData()
	params := rd.typeParameters.get(func() []TypeParameter {
		sig := t.universe.vm.GenericSignature(t)
		if sig == "" {
			return nil
		}
		params, err := parseTypeParameters(sig)
		if err != nil {
			t.dropped("generic signature", sig, err.Error())
			return nil
		}
		return params
	})
	out := make([]TypeParameter, len(params))
	for i, p := range params {
		out[i] = TypeParameter{Name: p.Name, Bounds: append([]string(nil), p.Bounds...)}
	}
	return out
}
