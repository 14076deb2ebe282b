package classes

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Binary names of the well-known base types.
const (
	ObjectName       = "java.lang.Object"
	EnumName         = "java.lang.Enum"
	RecordName       = "java.lang.Record"
	CloneableName    = "java.lang.Cloneable"
	SerializableName = "java.io.Serializable"
)

// Universe is one runtime's set of loaders and types. It is built once and
// handed to the code that needs it; there is no process-wide instance.
type Universe struct {
	vm        VM
	logger    *zap.Logger
	bootstrap *Loader

	primitives      [Void + 1]*Type
	object          *Type
	enum            *Type
	record          *Type
	cloneable       *Type
	serializable    *Type
	arrayInterfaces []*Type

	mu      sync.RWMutex
	types   []*Type
	loaders []*Loader
}

// Option configures a Universe.
type Option func(*Universe)

// WithLogger sets the logger used for debug events. The default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(u *Universe) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUniverse creates a universe whose raw facts come from vm. A nil vm is
// treated as EmptyVM. The bootstrap loader starts out holding the root
// class, the enum and record bases, Cloneable, Serializable and the
// primitive types.
func NewUniverse(vm VM, opts ...Option) *Universe {
	if vm == nil {
		vm = EmptyVM{}
	}
	u := &Universe{vm: vm, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(u)
	}
	u.bootstrap = u.newLoader("bootstrap", nil)

	for _, p := range Primitives {
		u.primitives[p] = &Type{
			universe:  u,
			loader:    u.bootstrap,
			kind:      KindPrimitive,
			primitive: p,
			name:      p.String(),
			modifiers: Public | Final | Abstract,
		}
	}

	u.object = u.bootstrap.mustDefine(ClassSpec{Name: ObjectName, Modifiers: Public})
	u.cloneable = u.bootstrap.mustDefine(ClassSpec{Name: CloneableName, Modifiers: Public | Interface | Abstract})
	u.serializable = u.bootstrap.mustDefine(ClassSpec{Name: SerializableName, Modifiers: Public | Interface | Abstract})
	u.enum = u.bootstrap.mustDefine(ClassSpec{Name: EnumName, Modifiers: Public | Abstract, Superclass: u.object})
	u.record = u.bootstrap.mustDefine(ClassSpec{Name: RecordName, Modifiers: Public | Abstract, Superclass: u.object})
	u.arrayInterfaces = []*Type{u.cloneable, u.serializable}
	return u
}

func (u *Universe) VM() VM              { return u.vm }
func (u *Universe) Logger() *zap.Logger { return u.logger }
func (u *Universe) Bootstrap() *Loader  { return u.bootstrap }
func (u *Universe) Object() *Type       { return u.object }
func (u *Universe) EnumBase() *Type     { return u.enum }
func (u *Universe) RecordBase() *Type   { return u.record }
func (u *Universe) Cloneable() *Type    { return u.cloneable }
func (u *Universe) Serializable() *Type { return u.serializable }

// Primitive returns the type of p, or nil for NotPrimitive.
func (u *Universe) Primitive(p Primitive) *Type {
	if p == NotPrimitive || int(p) >= len(u.primitives) {
		return nil
	}
	return u.primitives[p]
}

// NewLoader creates a loader that delegates to parent before looking at its
// own types. A nil parent means the bootstrap loader.
func (u *Universe) NewLoader(name string, parent *Loader) *Loader {
	if parent == nil || parent.universe != u {
		parent = u.bootstrap
	}
	return u.newLoader(name, parent)
}

func (u *Universe) newLoader(name string, parent *Loader) *Loader {
	l := &Loader{
		universe: u,
		id:       uuid.New(),
		name:     name,
		parent:   parent,
		types:    make(map[string]*Type),
	}
	u.mu.Lock()
	u.loaders = append(u.loaders, l)
	u.mu.Unlock()
	return l
}

// Loaders returns every loader in creation order, bootstrap first.
func (u *Universe) Loaders() []*Loader {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Clone(u.loaders)
}

// Types returns every class, interface and array type defined so far.
func (u *Universe) Types() []*Type {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Clone(u.types)
}

func (u *Universe) track(t *Type) {
	u.mu.Lock()
	u.types = append(u.types, t)
	u.mu.Unlock()
}

func (u *Universe) newArray(component *Type) *Type {
	return &Type{
		universe:  u,
		loader:    component.loader,
		kind:      KindArray,
		modifiers: component.modifiers&accessModifiers | Final | Abstract,
		super:     u.object,
		component: component,
	}
}

// Redefine records that the VM facts of the given types changed. The
// generation of each type and of every type assignable to it advances, so
// cached members are recomputed on next use. It returns how many types
// were invalidated.
func (u *Universe) Redefine(types ...*Type) int {
	if len(types) == 0 {
		return 0
	}
	var stale []*Type
	for _, x := range u.Types() {
		for _, t := range types {
			if t != nil && t.universe == u && t.IsAssignableFrom(x) {
				stale = append(stale, x)
				break
			}
		}
	}
	for _, x := range stale {
		x.generation.Add(1)
	}
	u.logger.Debug("types redefined",
		zap.Int("requested", len(types)),
		zap.Int("invalidated", len(stale)))
	return len(stale)
}

// ClassSpec holds the structural facts of a class or interface being
// defined. Interfaces are recognised by the Interface modifier.
type ClassSpec struct {
	Name       string
	Modifiers  Modifiers
	Superclass *Type
	// Hidden types are not registered by name. Their name must end in a
	// "/suffix".
	Hidden bool
}

// Loader defines types and finds them by binary name.
type Loader struct {
	universe *Universe
	id       uuid.UUID
	name     string
	parent   *Loader

	mu    sync.RWMutex
	types map[string]*Type
}

func (l *Loader) ID() uuid.UUID       { return l.id }
func (l *Loader) Name() string        { return l.name }
func (l *Loader) Universe() *Universe { return l.universe }
func (l *Loader) IsBootstrap() bool   { return l.parent == nil }

// Parent returns the delegation parent, or nil for the bootstrap loader.
func (l *Loader) Parent() *Loader { return l.parent }

func (l *Loader) String() string { return l.name + "@" + l.id.String() }

// Define creates a class or interface owned by l. It fails with ErrInvalid
// when the name is taken or malformed, or the definition breaks a structural rule:
// interfaces have no superclass; classes other than the root have one,
// which must be a non-final class; enums extend the enum base or another
// enum; subclasses of the record base are final.
func (l *Loader) Define(spec ClassSpec) (*Type, error) {
	u := l.universe
	if err := l.validate(spec); err != nil {
		return nil, err
	}
	mods := spec.Modifiers
	kind := KindClass
	if mods&Interface != 0 {
		kind = KindInterface
		mods |= Abstract
	}
	t := &Type{
		universe:  u,
		loader:    l,
		kind:      kind,
		name:      spec.Name,
		modifiers: mods,
		super:     spec.Superclass,
		hidden:    spec.Hidden,
	}
	if !spec.Hidden {
		l.mu.Lock()
		if _, dup := l.types[spec.Name]; dup {
			l.mu.Unlock()
			return nil, invalidf("%s is already defined by loader %s", spec.Name, l.name)
		}
		l.types[spec.Name] = t
		l.mu.Unlock()
	}
	u.track(t)
	u.logger.Debug("type defined",
		zap.String("type", t.name),
		zap.String("kind", t.kind.String()),
		zap.String("loader", l.name))
	return t, nil
}

func (l *Loader) mustDefine(spec ClassSpec) *Type {
	t, err := l.Define(spec)
	if err != nil {
		panic(err)
	}
	return t
}

func (l *Loader) validate(spec ClassSpec) error {
	u := l.universe
	name := spec.Name
	switch {
	case name == "":
		return invalidf("empty type name")
	case strings.ContainsAny(name, "[;<>") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, "."):
		return invalidf("malformed type name %q", name)
	}
	if _, ok := PrimitiveByName(name); ok {
		return invalidf("%s is a primitive type name", name)
	}
	if slash := strings.LastIndexByte(name, '/'); spec.Hidden {
		if slash <= 0 || slash == len(name)-1 {
			return invalidf("hidden type name %q needs a /suffix", name)
		}
	} else if slash >= 0 {
		return invalidf("malformed type name %q", name)
	}

	mods := spec.Modifiers
	super := spec.Superclass
	if mods&Annotation != 0 && mods&Interface == 0 {
		return invalidf("annotation %s must be an interface", name)
	}
	if mods&Interface != 0 {
		if super != nil {
			return invalidf("interface %s cannot have a superclass", name)
		}
		if mods&Enum != 0 {
			return invalidf("interface %s cannot be an enum", name)
		}
		return nil
	}
	if super == nil {
		if l.IsBootstrap() && name == ObjectName && u.object == nil {
			return nil
		}
		return invalidf("class %s needs a superclass", name)
	}
	switch {
	case super.universe != u:
		return invalidf("superclass of %s belongs to another universe", name)
	case super.kind != KindClass:
		return invalidf("superclass %s of %s is not a class", super.Name(), name)
	case super.modifiers&Final != 0:
		return invalidf("%s cannot extend final class %s", name, super.name)
	case mods&Enum != 0 && super != u.enum && !super.IsEnum():
		return invalidf("enum %s must extend %s", name, EnumName)
	case mods&Enum == 0 && super == u.enum:
		return invalidf("only enums may extend %s", EnumName)
	case super == u.record && mods&Final == 0:
		return invalidf("record %s must be final", name)
	}
	return nil
}

// FindLoaded returns a type defined by l itself.
func (l *Loader) FindLoaded(name string) (*Type, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.types[name]
	return t, ok
}

// Lookup finds a type by binary name, asking the parent chain first.
func (l *Loader) Lookup(name string) (*Type, bool) {
	if l.parent != nil {
		if t, ok := l.parent.Lookup(name); ok {
			return t, true
		}
	}
	return l.FindLoaded(name)
}

// Types returns the types defined by l, sorted by name.
func (l *Loader) Types() []*Type {
	l.mu.RLock()
	out := make([]*Type, 0, len(l.types))
	for _, t := range l.types {
		out = append(out, t)
	}
	l.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Type) int { return strings.Compare(a.name, b.name) })
	return out
}

// ForName returns the class, interface or array type with the given binary
// name. Array names use descriptor form: "[I", "[[Ljava.lang.String;".
// Primitive names are not accepted.
func (l *Loader) ForName(name string) (*Type, error) {
	if name == "" {
		return nil, invalidf("empty type name")
	}
	if name[0] != '[' {
		if t, ok := l.Lookup(name); ok {
			return t, nil
		}
		return nil, &NotFoundError{Kind: "class", Name: name}
	}

	dims := 0
	for dims < len(name) && name[dims] == '[' {
		dims++
	}
	if dims > maxArrayDimensions {
		return nil, invalidf("%s exceeds %d dimensions", name, maxArrayDimensions)
	}
	var elem *Type
	rest := name[dims:]
	switch {
	case len(rest) == 1:
		p, ok := PrimitiveByCode(rest[0])
		if !ok || p == Void {
			return nil, invalidf("malformed array name %q", name)
		}
		elem = l.universe.Primitive(p)
	case len(rest) > 2 && rest[0] == 'L' && rest[len(rest)-1] == ';':
		inner := rest[1 : len(rest)-1]
		if strings.ContainsAny(inner, "[;") {
			return nil, invalidf("malformed array name %q", name)
		}
		t, ok := l.Lookup(inner)
		if !ok {
			return nil, &NotFoundError{Kind: "class", Name: inner}
		}
		elem = t
	default:
		return nil, invalidf("malformed array name %q", name)
	}
	for i := 0; i < dims; i++ {
		a, err := elem.ArrayType()
		if err != nil {
			return nil, err
		}
		elem = a
	}
	return elem, nil
}
