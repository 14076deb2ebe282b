// Package inspect turns type descriptors into plain views shared by the
// HTTP API and the command line.
package inspect

import (
	"github.com/conduit-lang/classmeta/runtime/classes"
)

// TypeView summarizes a type.
type TypeView struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	Declaration    string   `json:"declaration"`
	Modifiers      string   `json:"modifiers"`
	Loader         string   `json:"loader"`
	Descriptor     string   `json:"descriptor"`
	SimpleName     string   `json:"simple_name"`
	CanonicalName  string   `json:"canonical_name,omitempty"`
	Superclass     string   `json:"superclass,omitempty"`
	Interfaces     []string `json:"interfaces"`
	TypeParameters []string `json:"type_parameters,omitempty"`
	Flags          []string `json:"flags,omitempty"`
	DeclaringClass string   `json:"declaring_class,omitempty"`
	EnclosingClass string   `json:"enclosing_class,omitempty"`
	NestHost       string   `json:"nest_host,omitempty"`
	Permitted      []string `json:"permitted_subclasses,omitempty"`
	Components     []string `json:"record_components,omitempty"`
	Generation     uint32   `json:"generation"`
}

// MemberView describes a field, method or constructor.
type MemberView struct {
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	DeclaringClass string `json:"declaring_class"`
	Modifiers      string `json:"modifiers"`
	Type           string `json:"type,omitempty"`
	Signature      string `json:"signature"`
	Descriptor     string `json:"descriptor"`
}

// HierarchyView lists the supertypes of a type: the superclass chain
// nearest first, then every superinterface in breadth-first order.
type HierarchyView struct {
	Name         string   `json:"name"`
	Superclasses []string `json:"superclasses"`
	Interfaces   []string `json:"interfaces"`
}

// Describe builds the summary view of t.
func Describe(t *classes.Type) TypeView {
	v := TypeView{
		Name:        t.Name(),
		Kind:        t.Kind().String(),
		Declaration: t.GenericString(),
		Modifiers:   t.Modifiers().String(),
		Loader:      t.Loader().Name(),
		Descriptor:  t.Descriptor(),
		SimpleName:  t.SimpleName(),
		Interfaces:  names(t.Interfaces()),
		Flags:       flags(t),
		Generation:  t.Generation(),
	}
	if c, ok := t.CanonicalName(); ok {
		v.CanonicalName = c
	}
	if s := t.Superclass(); s != nil {
		v.Superclass = s.Name()
	}
	for _, p := range t.TypeParameters() {
		v.TypeParameters = append(v.TypeParameters, p.String())
	}
	if d := t.DeclaringClass(); d != nil {
		v.DeclaringClass = d.Name()
	}
	if e := t.EnclosingClass(); e != nil {
		v.EnclosingClass = e.Name()
	}
	if h := t.NestHost(); h != t {
		v.NestHost = h.Name()
	}
	v.Permitted = names(t.PermittedSubclasses())
	if components, ok := t.RecordComponents(); ok {
		for _, rc := range components {
			v.Components = append(v.Components, rc.String())
		}
	}
	return v
}

func flags(t *classes.Type) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(t.IsAnnotation(), "annotation")
	add(t.IsEnum(), "enum")
	add(t.IsRecord(), "record")
	add(t.IsSealed(), "sealed")
	add(t.IsHidden(), "hidden")
	add(t.IsSynthetic(), "synthetic")
	add(t.IsMember(), "member")
	add(t.IsLocal(), "local")
	add(t.IsAnonymous(), "anonymous")
	return out
}

// Field builds the view of a field.
func Field(f *classes.Field) MemberView {
	return MemberView{
		Kind:           "field",
		Name:           f.Name(),
		DeclaringClass: f.DeclaringClass().Name(),
		Modifiers:      (f.Modifiers() & classes.FieldModifiers).String(),
		Type:           f.Type().TypeName(),
		Signature:      f.String(),
		Descriptor:     f.Descriptor(),
	}
}

// Method builds the view of a method.
func Method(m *classes.Method) MemberView {
	return MemberView{
		Kind:           "method",
		Name:           m.Name(),
		DeclaringClass: m.DeclaringClass().Name(),
		Modifiers:      (m.Modifiers() & classes.MethodModifiers).String(),
		Type:           m.ReturnType().TypeName(),
		Signature:      m.String(),
		Descriptor:     m.Descriptor(),
	}
}

// Constructor builds the view of a constructor.
func Constructor(c *classes.Constructor) MemberView {
	return MemberView{
		Kind:           "constructor",
		Name:           c.Name(),
		DeclaringClass: c.DeclaringClass().Name(),
		Modifiers:      (c.Modifiers() & classes.ConstructorModifiers).String(),
		Signature:      c.String(),
		Descriptor:     c.Descriptor(),
	}
}

// Fields returns the public fields of t, or every field t declares when
// declared is set.
func Fields(t *classes.Type, declared bool) []MemberView {
	fields := t.Fields()
	if declared {
		fields = t.DeclaredFields()
	}
	out := make([]MemberView, len(fields))
	for i, f := range fields {
		out[i] = Field(f)
	}
	return out
}

// Methods returns the public methods of t, or every method t declares
// when declared is set.
func Methods(t *classes.Type, declared bool) []MemberView {
	methods := t.Methods()
	if declared {
		methods = t.DeclaredMethods()
	}
	out := make([]MemberView, len(methods))
	for i, m := range methods {
		out[i] = Method(m)
	}
	return out
}

// Constructors returns the public constructors of t, or all of them when
// declared is set.
func Constructors(t *classes.Type, declared bool) []MemberView {
	ctors := t.Constructors()
	if declared {
		ctors = t.DeclaredConstructors()
	}
	out := make([]MemberView, len(ctors))
	for i, c := range ctors {
		out[i] = Constructor(c)
	}
	return out
}

// Hierarchy lists the supertypes of t.
func Hierarchy(t *classes.Type) HierarchyView {
	v := HierarchyView{Name: t.Name(), Superclasses: []string{}, Interfaces: []string{}}
	chain := []*classes.Type{t}
	for s := t.Superclass(); s != nil; s = s.Superclass() {
		v.Superclasses = append(v.Superclasses, s.Name())
		chain = append(chain, s)
	}

	seen := make(map[*classes.Type]bool)
	var queue []*classes.Type
	for _, c := range chain {
		queue = append(queue, c.Interfaces()...)
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if seen[i] {
			continue
		}
		seen[i] = true
		v.Interfaces = append(v.Interfaces, i.Name())
		queue = append(queue, i.Interfaces()...)
	}
	return v
}

func names(types []*classes.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name()
	}
	return out
}
