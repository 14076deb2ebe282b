package classes

import "slices"

func (t *Type) hasDeclarations() bool {
	return t.kind == KindClass || t.kind == KindInterface
}

func (t *Type) interfaces() []*Type {
	switch t.kind {
	case KindPrimitive:
		return nil
	case KindArray:
		return t.universe.arrayInterfaces
	}
	rd := t.reflectionData()
	return rd.interfaces.get(func() []*Type {
		return slices.Clone(t.universe.vm.Interfaces(t))
	})
}

func (t *Type) declaredFields(publicOnly bool) []*Field {
	if !t.hasDeclarations() {
		return nil
	}
	rd := t.reflectionData()
	slot := &rd.declaredFields
	if publicOnly {
		slot = &rd.declaredPublicFields
	}
	return slot.get(func() []*Field {
		return slices.Clone(t.universe.vm.DeclaredFields(t, publicOnly))
	})
}

func (t *Type) declaredMethods(publicOnly bool) []*Method {
	if !t.hasDeclarations() {
		return nil
	}
	rd := t.reflectionData()
	slot := &rd.declaredMethods
	if publicOnly {
		slot = &rd.declaredPublicMethods
	}
	return slot.get(func() []*Method {
		return slices.Clone(t.universe.vm.DeclaredMethods(t, publicOnly))
	})
}

// declaredConstructors is empty for interfaces, arrays and primitives.
func (t *Type) declaredConstructors(publicOnly bool) []*Constructor {
	if t.kind != KindClass {
		return nil
	}
	rd := t.reflectionData()
	slot := &rd.declaredConstructors
	if publicOnly {
		slot = &rd.publicConstructors
	}
	return slot.get(func() []*Constructor {
		return slices.Clone(t.universe.vm.DeclaredConstructors(t, publicOnly))
	})
}

type fieldKey struct {
	declaring *Type
	name      string
	typ       *Type
}

// publicFields is the type's own public fields, then those of each direct
// superinterface, then those of the superclass. A field reached twice is
// listed once, where first seen.
func (t *Type) publicFields() []*Field {
	rd := t.reflectionData()
	return rd.publicFields.get(func() []*Field {
		var out []*Field
		seen := make(map[fieldKey]struct{})
		add := func(fields []*Field) {
			for _, f := range fields {
				k := fieldKey{f.declaring, f.name, f.typ}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				out = append(out, f)
			}
		}
		add(t.declaredFields(true))
		for _, i := range t.interfaces() {
			add(i.publicFields())
		}
		if !t.IsInterface() && t.super != nil {
			add(t.super.publicFields())
		}
		return out
	})
}

// publicMethods merges the type's own public methods with the closure of
// its superclass and the non-static closure of each superinterface.
func (t *Type) publicMethods() []*Method {
	rd := t.reflectionData()
	return rd.publicMethods.get(func() []*Method {
		var pms publicMethods
		for _, m := range t.declaredMethods(true) {
			pms.merge(m)
		}
		if t.super != nil {
			for _, m := range t.super.publicMethods() {
				pms.merge(m)
			}
		}
		for _, i := range t.interfaces() {
			for _, m := range i.publicMethods() {
				if !m.IsStatic() {
					pms.merge(m)
				}
			}
		}
		return pms.methods()
	})
}

// findField resolves a public field the way field references are resolved:
// own fields, then superinterfaces in order, then the superclass.
func (t *Type) findField(name string) *Field {
	for _, f := range t.declaredFields(true) {
		if f.name == name {
			return f
		}
	}
	for _, i := range t.interfaces() {
		if f := i.findField(name); f != nil {
			return f
		}
	}
	if !t.IsInterface() && t.super != nil {
		return t.super.findField(name)
	}
	return nil
}

// findMethods returns the candidate public methods for name and params. A
// match among the type's own methods ends the search; otherwise candidates
// from the superclass are merged with the non-static ones of each
// superinterface.
func (t *Type) findMethods(name string, params []*Type, includeStatic bool) *methodList {
	if l := filterMethods(t.declaredMethods(true), name, params, includeStatic); l != nil {
		return l
	}
	var res *methodList
	if t.super != nil {
		res = t.super.findMethods(name, params, includeStatic)
	}
	for _, i := range t.interfaces() {
		res = mergeMethodLists(res, i.findMethods(name, params, false))
	}
	return res
}

// searchMethods picks, among methods matching name and params, the one with
// the narrowest return type.
func searchMethods(methods []*Method, name string, params []*Type) *Method {
	var res *Method
	for _, m := range methods {
		if m.name != name || !m.hasParams(params) {
			continue
		}
		if res == nil || (res.returnType != m.returnType && res.returnType.IsAssignableFrom(m.returnType)) {
			res = m
		}
	}
	return res
}

func searchConstructors(ctors []*Constructor, params []*Type) *Constructor {
	for _, c := range ctors {
		if sameTypes(c.params, params) {
			return c
		}
	}
	return nil
}
