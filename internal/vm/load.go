package vm

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/runtime/classes"
	"go.uber.org/zap"
)

// Load defines the classes of the given documents and returns them in
// definition order. Documents naming the same loader form one batch whose
// classes may refer to each other in any order. The bootstrap batch runs
// first, then the application batch, then the others in order of first
// appearance.
//
// Every reference in a batch is checked before its first type is defined.
// A definition of an existing base type such as java.lang.Object in the
// bootstrap loader attaches members to it instead.
func (m *Machine) Load(docs ...*classdef.Document) ([]*classes.Type, error) {
	var names []string
	grouped := make(map[string][]*classdef.Class)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		name := doc.Loader
		if name == "" {
			name = AppLoader
		}
		if _, seen := grouped[name]; !seen {
			names = append(names, name)
		}
		for i := range doc.Classes {
			grouped[name] = append(grouped[name], &doc.Classes[i])
		}
	}
	names = batchOrder(names)

	var out []*classes.Type
	for _, name := range names {
		b, err := newBatch(m, m.Loader(name), grouped[name])
		if err != nil {
			return out, fmt.Errorf("loader %s: %w", name, err)
		}
		types, err := b.run()
		if err != nil {
			return out, fmt.Errorf("loader %s: %w", name, err)
		}
		m.logger.Info("definitions loaded",
			zap.String("loader", name),
			zap.Int("types", len(types)))
		out = append(out, types...)
	}
	return out, nil
}

func batchOrder(names []string) []string {
	out := make([]string, 0, len(names))
	for _, special := range []string{BootstrapLoader, AppLoader} {
		for _, n := range names {
			if n == special {
				out = append(out, n)
			}
		}
	}
	for _, n := range names {
		if n != BootstrapLoader && n != AppLoader {
			out = append(out, n)
		}
	}
	return out
}

type batch struct {
	machine *Machine
	loader  *classes.Loader
	classes []*classdef.Class
	pending map[string]*classdef.Class
	defined map[string]*classes.Type
}

// newBatch indexes defs by name. Documents are validated one at a time, so a
// class defined by two documents of the same loader is caught here.
func newBatch(m *Machine, l *classes.Loader, defs []*classdef.Class) (*batch, error) {
	b := &batch{
		machine: m,
		loader:  l,
		classes: defs,
		pending: make(map[string]*classdef.Class, len(defs)),
		defined: make(map[string]*classes.Type, len(defs)),
	}
	for _, c := range defs {
		if _, dup := b.pending[c.Name]; dup {
			return nil, fmt.Errorf("%s: defined twice: %w", c.Name, classes.ErrInvalid)
		}
		b.pending[c.Name] = c
	}
	return b, nil
}

func (b *batch) run() ([]*classes.Type, error) {
	order, err := b.plan()
	if err != nil {
		return nil, err
	}
	for _, c := range order {
		if err := b.checkReferences(c); err != nil {
			return nil, err
		}
	}

	types := make([]*classes.Type, 0, len(order))
	var attached []*classes.Type
	for _, c := range order {
		t, existed, err := b.define(c)
		if err != nil {
			return types, err
		}
		if existed {
			attached = append(attached, t)
		}
		b.defined[c.Name] = t
		types = append(types, t)
	}

	for i, c := range order {
		t := types[i]
		f, err := b.build(t, *c)
		if err != nil {
			return types, err
		}
		if f.interfaces, err = b.interfaces(c); err != nil {
			return types, err
		}
		b.machine.store(t, f)
	}
	// Built-in types may have been queried before they had members.
	b.machine.universe.Redefine(attached...)
	return types, nil
}

const (
	visiting = iota + 1
	visited
)

// plan orders the batch so that every superclass and superinterface is
// defined before the types that extend it.
func (b *batch) plan() ([]*classdef.Class, error) {
	state := make(map[string]int, len(b.classes))
	order := make([]*classdef.Class, 0, len(b.classes))

	var visit func(c *classdef.Class, path []string) error
	visit = func(c *classdef.Class, path []string) error {
		path = append(path, c.Name)
		switch state[c.Name] {
		case visiting:
			return fmt.Errorf("cyclic inheritance %s: %w", strings.Join(path, " -> "), classes.ErrInvalid)
		case visited:
			return nil
		}
		if parent := b.loader.Parent(); parent != nil {
			if t, ok := parent.Lookup(c.Name); ok {
				return fmt.Errorf("%s is already defined by loader %s: %w", c.Name, t.Loader().Name(), classes.ErrInvalid)
			}
		}
		state[c.Name] = visiting
		for _, dep := range c.Dependencies() {
			if p, ok := b.pending[dep]; ok {
				if err := visit(p, path); err != nil {
					return err
				}
				continue
			}
			if _, ok := b.loader.Lookup(dep); !ok {
				return fmt.Errorf("%s: %w", c.Name, &classes.NotFoundError{Kind: "class", Name: dep})
			}
		}
		state[c.Name] = visited
		order = append(order, c)
		return nil
	}

	for _, c := range b.classes {
		if err := visit(c, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// checkReferences verifies that every member type named by c exists or is
// part of the batch.
func (b *batch) checkReferences(c *classdef.Class) error {
	check := func(ref string, allowVoid bool) error {
		name, err := elementName(ref, allowVoid)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		if name == "" {
			return nil
		}
		if _, ok := b.pending[name]; ok {
			return nil
		}
		if _, ok := b.loader.Lookup(name); ok {
			return nil
		}
		return fmt.Errorf("%s: %w", c.Name, &classes.NotFoundError{Kind: "class", Name: name})
	}

	for _, f := range c.Fields {
		if err := check(f.Type, false); err != nil {
			return err
		}
	}
	for _, mt := range c.Methods {
		if err := check(returnsOf(mt), true); err != nil {
			return err
		}
		for _, ref := range append(append([]string{}, mt.Params...), mt.Throws...) {
			if err := check(ref, false); err != nil {
				return err
			}
		}
	}
	for _, ctor := range c.Constructors {
		for _, ref := range append(append([]string{}, ctor.Params...), ctor.Throws...) {
			if err := check(ref, false); err != nil {
				return err
			}
		}
	}
	for _, rc := range c.RecordComponents {
		if err := check(rc.Type, false); err != nil {
			return err
		}
	}
	return nil
}

// parseRef splits a type reference into its element, a primitive or class
// name, and its array depth. Both "java.lang.String[][]" and the descriptor
// form "[[Ljava.lang.String;" are accepted.
func parseRef(ref string) (elem string, dims int, err error) {
	name := strings.TrimSpace(ref)
	if strings.HasPrefix(name, "[") {
		rest := strings.TrimLeft(name, "[")
		dims = len(name) - len(rest)
		switch {
		case len(rest) == 1:
			if p, ok := classes.PrimitiveByCode(rest[0]); ok {
				elem = p.String()
			}
		case len(rest) > 2 && rest[0] == 'L' && rest[len(rest)-1] == ';':
			elem = rest[1 : len(rest)-1]
		}
	} else {
		for strings.HasSuffix(name, "[]") {
			name = strings.TrimSpace(name[:len(name)-2])
			dims++
		}
		elem = name
	}
	if elem == "" || strings.ContainsAny(elem, "[];") {
		return "", 0, fmt.Errorf("malformed type reference %q: %w", ref, classes.ErrInvalid)
	}
	if elem == classes.Void.String() && dims > 0 {
		return "", 0, fmt.Errorf("array of void in %q: %w", ref, classes.ErrInvalid)
	}
	return elem, dims, nil
}

// elementName returns the class named by a type reference, or "" when the
// element is primitive.
func elementName(ref string, allowVoid bool) (string, error) {
	elem, _, err := parseRef(ref)
	if err != nil {
		return "", err
	}
	if p, ok := classes.PrimitiveByName(elem); ok {
		if p == classes.Void && !allowVoid {
			return "", fmt.Errorf("misplaced void in %q: %w", ref, classes.ErrInvalid)
		}
		return "", nil
	}
	return elem, nil
}

func returnsOf(mt classdef.Method) string {
	if mt.Returns == "" {
		return "void"
	}
	return mt.Returns
}

func (b *batch) define(c *classdef.Class) (t *classes.Type, existed bool, err error) {
	mods, err := c.ClassModifiers()
	if err != nil {
		return nil, false, err
	}
	var super *classes.Type
	if name := c.SuperclassName(); name != "" {
		super = b.class(name)
	}

	if existing, ok := b.loader.FindLoaded(c.Name); ok && !c.Hidden {
		if b.machine.lookup(existing) != nil {
			return nil, false, fmt.Errorf("%s is already defined by loader %s: %w", c.Name, b.loader.Name(), classes.ErrInvalid)
		}
		if existing.IsInterface() != c.IsInterface() || existing.Superclass() != super {
			return nil, false, fmt.Errorf("definition of %s does not match the built-in type: %w", c.Name, classes.ErrInvalid)
		}
		return existing, true, nil
	}

	t, err = b.loader.Define(classes.ClassSpec{
		Name:       c.Name,
		Modifiers:  mods,
		Superclass: super,
		Hidden:     c.Hidden,
	})
	return t, false, err
}

// class resolves a class name within the batch, then through the loader.
func (b *batch) class(name string) *classes.Type {
	if t, ok := b.defined[name]; ok {
		return t
	}
	if t, ok := b.loader.Lookup(name); ok {
		return t
	}
	return nil
}

func (b *batch) interfaces(c *classdef.Class) ([]*classes.Type, error) {
	out := make([]*classes.Type, 0, len(c.Interfaces))
	for _, name := range c.Interfaces {
		t := b.class(name)
		if t == nil {
			return nil, fmt.Errorf("%s: %w", c.Name, &classes.NotFoundError{Kind: "class", Name: name})
		}
		if !t.IsInterface() {
			return nil, fmt.Errorf("%s cannot implement class %s: %w", c.Name, name, classes.ErrInvalid)
		}
		out = append(out, t)
	}
	return out, nil
}

// typeOf resolves a type reference such as "int", "java.lang.String[]" or
// "[I".
func (b *batch) typeOf(ref string, allowVoid bool) (*classes.Type, error) {
	elem, dims, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	var t *classes.Type
	if p, ok := classes.PrimitiveByName(elem); ok {
		if p == classes.Void && !allowVoid {
			return nil, fmt.Errorf("misplaced void in %q: %w", ref, classes.ErrInvalid)
		}
		t = b.machine.universe.Primitive(p)
	} else if t = b.class(elem); t == nil {
		return nil, &classes.NotFoundError{Kind: "class", Name: elem}
	}
	for i := 0; i < dims; i++ {
		if t, err = t.ArrayType(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (b *batch) types(refs []string) ([]*classes.Type, error) {
	out := make([]*classes.Type, 0, len(refs))
	for _, ref := range refs {
		t, err := b.typeOf(ref, false)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// build creates the member values of t from its definition.
func (b *batch) build(t *classes.Type, def classdef.Class) (*facts, error) {
	f := &facts{def: def}
	wrap := func(member string, err error) error {
		return fmt.Errorf("%s.%s: %w", def.Name, member, err)
	}

	for _, fd := range def.Fields {
		typ, err := b.typeOf(fd.Type, false)
		if err != nil {
			return nil, wrap(fd.Name, err)
		}
		mods, err := classdef.ParseModifiers(fd.Modifiers)
		if err != nil {
			return nil, wrap(fd.Name, err)
		}
		f.fields = append(f.fields, classes.NewField(t, fd.Name, typ, mods))
	}

	for _, md := range def.Methods {
		ret, err := b.typeOf(returnsOf(md), true)
		if err != nil {
			return nil, wrap(md.Name, err)
		}
		params, err := b.types(md.Params)
		if err != nil {
			return nil, wrap(md.Name, err)
		}
		throws, err := b.types(md.Throws)
		if err != nil {
			return nil, wrap(md.Name, err)
		}
		mods, err := classdef.ParseModifiers(md.Modifiers)
		if err != nil {
			return nil, wrap(md.Name, err)
		}
		f.methods = append(f.methods, classes.NewMethod(t, classes.MethodSpec{
			Name:       md.Name,
			Modifiers:  mods,
			Return:     ret,
			Params:     params,
			Exceptions: throws,
		}))
	}

	for _, cd := range def.Constructors {
		params, err := b.types(cd.Params)
		if err != nil {
			return nil, wrap("<init>", err)
		}
		throws, err := b.types(cd.Throws)
		if err != nil {
			return nil, wrap("<init>", err)
		}
		mods, err := classdef.ParseModifiers(cd.Modifiers)
		if err != nil {
			return nil, wrap("<init>", err)
		}
		f.constructors = append(f.constructors, classes.NewConstructor(t, classes.ConstructorSpec{
			Modifiers:  mods,
			Params:     params,
			Exceptions: throws,
		}))
	}

	for _, rc := range def.RecordComponents {
		typ, err := b.typeOf(rc.Type, false)
		if err != nil {
			return nil, wrap(rc.Name, err)
		}
		f.components = append(f.components, classes.NewRecordComponent(t, rc.Name, typ, rc.Signature))
	}
	return f, nil
}
