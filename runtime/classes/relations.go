package classes

import (
	"slices"

	"go.uber.org/zap"
)

// resolve looks a binary name up through the type's loader.
func (t *Type) resolve(name string) *Type {
	if name == "" {
		return nil
	}
	r, ok := t.loader.Lookup(name)
	if !ok {
		return nil
	}
	return r
}

func (t *Type) dropped(relation, name, reason string) {
	t.universe.logger.Debug("dropped inconsistent "+relation,
		zap.String("type", t.Name()),
		zap.String("entry", name),
		zap.String("reason", reason))
}

// DeclaringClass returns the class t is a member of, or nil for top-level,
// local and anonymous types, arrays and primitives.
func (t *Type) DeclaringClass() *Type {
	if !t.hasDeclarations() {
		return nil
	}
	return t.resolve(t.universe.vm.DeclaringClass(t))
}

// enclosingInfo returns the enclosing method record of a local or anonymous
// type. A record naming an unknown class or the type itself is ignored.
func (t *Type) enclosingInfo() (EnclosingMethodInfo, *Type, bool) {
	if !t.hasDeclarations() {
		return EnclosingMethodInfo{}, nil, false
	}
	info, ok := t.universe.vm.EnclosingMethod(t)
	if !ok {
		return EnclosingMethodInfo{}, nil, false
	}
	c := t.resolve(info.Class)
	if c == nil || c == t {
		t.dropped("enclosing method", info.Class, "unresolvable enclosing class")
		return EnclosingMethodInfo{}, nil, false
	}
	return info, c, true
}

func (t *Type) isLocalOrAnonymous() bool {
	_, _, ok := t.enclosingInfo()
	return ok
}

func (t *Type) isTopLevel() bool {
	return !t.isLocalOrAnonymous() && t.DeclaringClass() == nil
}

// EnclosingClass returns the immediately enclosing class: the class of the
// enclosing method for local and anonymous types, else DeclaringClass.
func (t *Type) EnclosingClass() *Type {
	if _, c, ok := t.enclosingInfo(); ok {
		return c
	}
	return t.DeclaringClass()
}

// EnclosingMethod returns the method whose body declares t. ok is false
// when t is not declared in a method.
func (t *Type) EnclosingMethod() (*Method, bool) {
	info, c, ok := t.enclosingInfo()
	if !ok || info.Name == "" || info.Name == "<init>" || info.Name == "<clinit>" {
		return nil, false
	}
	for _, m := range c.declaredMethods(false) {
		if m.name == info.Name && m.Descriptor() == info.Descriptor {
			return m, true
		}
	}
	t.dropped("enclosing method", info.Name+info.Descriptor, "no such method")
	return nil, false
}

// EnclosingConstructor returns the constructor whose body declares t.
func (t *Type) EnclosingConstructor() (*Constructor, bool) {
	info, c, ok := t.enclosingInfo()
	if !ok || info.Name != "<init>" {
		return nil, false
	}
	for _, ctor := range c.declaredConstructors(false) {
		if ctor.Descriptor() == info.Descriptor {
			return ctor, true
		}
	}
	t.dropped("enclosing constructor", info.Descriptor, "no such constructor")
	return nil, false
}

// IsAnonymous reports whether t is an anonymous class.
func (t *Type) IsAnonymous() bool {
	if !t.isLocalOrAnonymous() {
		return false
	}
	_, named := t.universe.vm.SimpleBinaryName(t)
	return !named
}

// IsLocal reports whether t is a named class declared inside a method or
// initializer.
func (t *Type) IsLocal() bool {
	if !t.isLocalOrAnonymous() {
		return false
	}
	_, named := t.universe.vm.SimpleBinaryName(t)
	return named
}

// IsMember reports whether t is declared directly inside another class.
func (t *Type) IsMember() bool {
	return !t.isLocalOrAnonymous() && t.DeclaringClass() != nil
}

// DeclaredClasses returns the member types declared by t. Entries that do
// not name t as their declaring class are dropped.
func (t *Type) DeclaredClasses() []*Type {
	if !t.hasDeclarations() {
		return nil
	}
	var out []*Type
	for _, name := range t.universe.vm.DeclaredClasses(t) {
		c := t.resolve(name)
		if c == nil {
			t.dropped("member class", name, "unresolvable")
			continue
		}
		if c.DeclaringClass() != t {
			t.dropped("member class", name, "declared elsewhere")
			continue
		}
		out = append(out, c)
	}
	return out
}

// Classes returns the public member types of t and of its superclasses.
func (t *Type) Classes() []*Type {
	var out []*Type
	for c := t; c != nil; c = c.super {
		for _, m := range c.DeclaredClasses() {
			if m.modifiers&Public != 0 {
				out = append(out, m)
			}
		}
	}
	return out
}

// NestHost returns the host of t's nest. A type whose recorded host cannot
// be resolved, lives in another package or loader, or does not list t as a
// member is its own host, as are arrays and primitives.
func (t *Type) NestHost() *Type {
	if !t.hasDeclarations() {
		return t
	}
	name := t.universe.vm.NestHost(t)
	if name == "" || name == t.name {
		return t
	}
	h := t.resolve(name)
	switch {
	case h == nil:
		t.dropped("nest host", name, "unresolvable")
		return t
	case h.loader != t.loader || h.PackageName() != t.PackageName():
		t.dropped("nest host", name, "different runtime package")
		return t
	case !h.hasDeclarations() || !slices.Contains(t.universe.vm.NestMembers(h), t.name):
		t.dropped("nest host", name, "not listed as a member")
		return t
	}
	return h
}

// IsNestmateOf reports whether t and c share a nest host.
func (t *Type) IsNestmateOf(c *Type) bool {
	if t == c {
		return true
	}
	if t.IsPrimitive() || t.IsArray() || c.IsPrimitive() || c.IsArray() {
		return false
	}
	return t.NestHost() == c.NestHost()
}

// NestMembers returns the nest host first, followed by every listed member
// that agrees on the host.
func (t *Type) NestMembers() []*Type {
	if !t.hasDeclarations() {
		return []*Type{t}
	}
	host := t.NestHost()
	out := []*Type{host}
	for _, name := range t.universe.vm.NestMembers(host) {
		m := host.resolve(name)
		if m == nil || m == host {
			continue
		}
		if m.NestHost() != host {
			host.dropped("nest member", name, "claims another host")
			continue
		}
		out = append(out, m)
	}
	return out
}

// PermittedSubclasses returns the permitted direct subtypes of a sealed
// type, and nil when t is not sealed. Entries that cannot be resolved or are
// not direct subtypes of t are dropped, so a sealed type may return an
// empty, non-nil slice.
func (t *Type) PermittedSubclasses() []*Type {
	if !t.hasDeclarations() {
		return nil
	}
	rd := t.reflectionData()
	p := rd.permitted.get(func() permittedSubclasses {
		names, ok := t.universe.vm.PermittedSubclasses(t)
		if !ok {
			return permittedSubclasses{}
		}
		out := make([]*Type, 0, len(names))
		for _, name := range names {
			c := t.resolve(name)
			if c == nil {
				t.dropped("permitted subclass", name, "unresolvable")
				continue
			}
			if !t.isDirectSubtype(c) {
				t.dropped("permitted subclass", name, "not a direct subtype")
				continue
			}
			out = append(out, c)
		}
		return permittedSubclasses{types: out, sealed: true}
	})
	if !p.sealed {
		return nil
	}
	return append([]*Type{}, p.types...)
}

// IsSealed reports whether t restricts its direct subtypes.
func (t *Type) IsSealed() bool { return t.PermittedSubclasses() != nil }

func (t *Type) isDirectSubtype(c *Type) bool {
	if t.IsInterface() {
		return slices.Contains(c.interfaces(), t)
	}
	return c.super == t
}
