package classes

import "slices"

// Interfaces returns the direct superinterfaces in declaration order. For
// arrays these are Cloneable and Serializable.
func (t *Type) Interfaces() []*Type { return slices.Clone(t.interfaces()) }

// Fields returns all public fields, inherited ones included.
func (t *Type) Fields() []*Field { return slices.Clone(t.publicFields()) }

// Field finds a public field by name, searching superinterfaces before the
// superclass.
func (t *Type) Field(name string) (*Field, error) {
	if f := t.findField(name); f != nil {
		return f, nil
	}
	return nil, &NotFoundError{Kind: "field", Owner: t, Name: name}
}

// DeclaredFields returns every field declared by t itself.
func (t *Type) DeclaredFields() []*Field { return slices.Clone(t.declaredFields(false)) }

// DeclaredField finds a field declared by t itself, whatever its access.
func (t *Type) DeclaredField(name string) (*Field, error) {
	for _, f := range t.declaredFields(false) {
		if f.name == name {
			return f, nil
		}
	}
	return nil, &NotFoundError{Kind: "field", Owner: t, Name: name}
}

// Methods returns all public methods, inherited ones included. Interfaces
// do not inherit the root class's methods.
func (t *Type) Methods() []*Method { return slices.Clone(t.publicMethods()) }

// Method finds the public method with the given name and parameter types.
// Methods declared by t itself take precedence over inherited ones; among
// inherited candidates with different return types the narrowest wins.
func (t *Type) Method(name string, params ...*Type) (*Method, error) {
	if m := t.findMethods(name, params, true).mostSpecific(); m != nil {
		return m, nil
	}
	return nil, &NotFoundError{Kind: "method", Owner: t, Name: name, Params: cloneTypes(params)}
}

// DeclaredMethods returns every method declared by t itself.
func (t *Type) DeclaredMethods() []*Method { return slices.Clone(t.declaredMethods(false)) }

// DeclaredMethod finds a method declared by t itself, whatever its access.
func (t *Type) DeclaredMethod(name string, params ...*Type) (*Method, error) {
	if m := searchMethods(t.declaredMethods(false), name, params); m != nil {
		return m, nil
	}
	return nil, &NotFoundError{Kind: "method", Owner: t, Name: name, Params: cloneTypes(params)}
}

// Constructors returns the public constructors of a class.
func (t *Type) Constructors() []*Constructor { return slices.Clone(t.declaredConstructors(true)) }

// Constructor finds the public constructor with exactly these parameters.
func (t *Type) Constructor(params ...*Type) (*Constructor, error) {
	if c := searchConstructors(t.declaredConstructors(true), params); c != nil {
		return c, nil
	}
	return nil, &NotFoundError{Kind: "constructor", Owner: t, Name: "<init>", Params: cloneTypes(params)}
}

// DeclaredConstructors returns every constructor of a class.
func (t *Type) DeclaredConstructors() []*Constructor {
	return slices.Clone(t.declaredConstructors(false))
}

func (t *Type) DeclaredConstructor(params ...*Type) (*Constructor, error) {
	if c := searchConstructors(t.declaredConstructors(false), params); c != nil {
		return c, nil
	}
	return nil, &NotFoundError{Kind: "constructor", Owner: t, Name: "<init>", Params: cloneTypes(params)}
}

// RecordComponents returns the record header of a record class. ok is false
// for every other type.
func (t *Type) RecordComponents() (components []*RecordComponent, ok bool) {
	if !t.IsRecord() {
		return nil, false
	}
	c, _ := t.recordComponents()
	return slices.Clone(c), true
}

func (t *Type) recordComponents() ([]*RecordComponent, bool) {
	if t.kind != KindClass {
		return nil, false
	}
	rd := t.reflectionData()
	h := rd.recordComponents.get(func() recordHeader {
		c, ok := t.universe.vm.RecordComponents(t)
		return recordHeader{components: slices.Clone(c), ok: ok}
	})
	return h.components, h.ok
}
