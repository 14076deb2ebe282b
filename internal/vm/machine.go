// Package vm implements the classes.VM boundary in memory, serving the
// facts of classdef documents. It stands in for the class-file reader of a
// real runtime.
package vm

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/runtime/classes"
	"go.uber.org/zap"
)

// Loader names with special meaning in documents.
const (
	BootstrapLoader = "bootstrap"
	AppLoader       = "app"
)

// Machine defines types from class definitions and answers the universe's
// questions about them. It is safe for concurrent use.
type Machine struct {
	universe *classes.Universe
	logger   *zap.Logger

	mu      sync.RWMutex
	facts   map[*classes.Type]*facts
	loaders map[string]*classes.Loader
	order   []*classes.Type
}

// facts is what the machine knows about one type. A value is never
// modified after it is stored; redefinition replaces it.
type facts struct {
	def          classdef.Class
	interfaces   []*classes.Type
	fields       []*classes.Field
	methods      []*classes.Method
	constructors []*classes.Constructor
	components   []*classes.RecordComponent
}

var _ classes.VM = (*Machine)(nil)

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger shared by the machine and its universe.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a machine with a fresh universe that uses it as its VM. The
// universe starts with the bootstrap loader and an application loader.
func New(opts ...Option) *Machine {
	m := &Machine{
		logger:  zap.NewNop(),
		facts:   make(map[*classes.Type]*facts),
		loaders: make(map[string]*classes.Loader),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.universe = classes.NewUniverse(m, classes.WithLogger(m.logger))
	m.loaders[BootstrapLoader] = m.universe.Bootstrap()
	m.loaders[AppLoader] = m.universe.NewLoader(AppLoader, nil)
	return m
}

// Universe returns the universe the machine serves.
func (m *Machine) Universe() *classes.Universe { return m.universe }

// Loader returns the loader with the given name, creating it as a child of
// the application loader on first use. An empty name means AppLoader.
func (m *Machine) Loader(name string) *classes.Loader {
	if name == "" {
		name = AppLoader
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loaders[name]; ok {
		return l
	}
	l := m.universe.NewLoader(name, m.loaders[AppLoader])
	m.loaders[name] = l
	return l
}

// LookupLoader returns an existing loader by name. An empty name means
// AppLoader.
func (m *Machine) LookupLoader(name string) (*classes.Loader, bool) {
	if name == "" {
		name = AppLoader
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.loaders[name]
	return l, ok
}

// Resolve finds the type named by a reference such as "int",
// "java.lang.String[]" or "[I", as seen from the named loader.
func (m *Machine) Resolve(loader, ref string) (*classes.Type, error) {
	l, ok := m.LookupLoader(loader)
	if !ok {
		return nil, &classes.NotFoundError{Kind: "loader", Name: loader}
	}
	b := &batch{machine: m, loader: l, defined: map[string]*classes.Type{}}
	return b.typeOf(ref, true)
}

// Types returns the types defined or described by the machine in load
// order.
func (m *Machine) Types() []*classes.Type {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Definition returns the definition t was loaded from.
func (m *Machine) Definition(t *classes.Type) (classdef.Class, bool) {
	f := m.lookup(t)
	if f == nil {
		return classdef.Class{}, false
	}
	return f.def, true
}

func (m *Machine) lookup(t *classes.Type) *facts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.facts[t]
}

func (m *Machine) store(t *classes.Type, f *facts) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, known := m.facts[t]; !known {
		m.order = append(m.order, t)
	}
	m.facts[t] = f
}

func (m *Machine) DeclaredFields(t *classes.Type, publicOnly bool) []*classes.Field {
	f := m.lookup(t)
	if f == nil {
		return nil
	}
	return filterPublic(f.fields, publicOnly, (*classes.Field).Modifiers)
}

func (m *Machine) DeclaredMethods(t *classes.Type, publicOnly bool) []*classes.Method {
	f := m.lookup(t)
	if f == nil {
		return nil
	}
	return filterPublic(f.methods, publicOnly, (*classes.Method).Modifiers)
}

func (m *Machine) DeclaredConstructors(t *classes.Type, publicOnly bool) []*classes.Constructor {
	f := m.lookup(t)
	if f == nil {
		return nil
	}
	return filterPublic(f.constructors, publicOnly, (*classes.Constructor).Modifiers)
}

func filterPublic[T any](members []T, publicOnly bool, mods func(T) classes.Modifiers) []T {
	if !publicOnly {
		return slices.Clone(members)
	}
	var out []T
	for _, x := range members {
		if mods(x).Has(classes.Public) {
			out = append(out, x)
		}
	}
	return out
}

func (m *Machine) Interfaces(t *classes.Type) []*classes.Type {
	if f := m.lookup(t); f != nil {
		return slices.Clone(f.interfaces)
	}
	return nil
}

func (m *Machine) DeclaringClass(t *classes.Type) string {
	if f := m.lookup(t); f != nil {
		return f.def.DeclaringClass
	}
	return ""
}

// SimpleBinaryName returns the recorded simple name, or derives it from the
// binary name: the part after "Outer$" for member classes, with the
// leading digits dropped for local classes. A local name of digits only is
// anonymous.
func (m *Machine) SimpleBinaryName(t *classes.Type) (string, bool) {
	f := m.lookup(t)
	if f == nil || f.def.Anonymous {
		return "", false
	}
	if f.def.SimpleName != "" {
		return f.def.SimpleName, true
	}
	name := f.def.Name
	if outer := f.def.DeclaringClass; outer != "" && strings.HasPrefix(name, outer+"$") {
		return name[len(outer)+1:], true
	}
	if em := f.def.EnclosingMethod; em != nil && strings.HasPrefix(name, em.Class+"$") {
		local := strings.TrimLeft(name[len(em.Class)+1:], "0123456789")
		return local, local != ""
	}
	if i := strings.LastIndexAny(name, "$."); i >= 0 {
		return name[i+1:], true
	}
	return name, true
}

func (m *Machine) EnclosingMethod(t *classes.Type) (classes.EnclosingMethodInfo, bool) {
	f := m.lookup(t)
	if f == nil || f.def.EnclosingMethod == nil {
		return classes.EnclosingMethodInfo{}, false
	}
	em := f.def.EnclosingMethod
	return classes.EnclosingMethodInfo{Class: em.Class, Name: em.Name, Descriptor: em.Descriptor}, true
}

func (m *Machine) DeclaredClasses(t *classes.Type) []string {
	if f := m.lookup(t); f != nil {
		return slices.Clone(f.def.MemberClasses)
	}
	return nil
}

func (m *Machine) NestHost(t *classes.Type) string {
	if f := m.lookup(t); f != nil {
		return f.def.NestHost
	}
	return ""
}

func (m *Machine) NestMembers(t *classes.Type) []string {
	if f := m.lookup(t); f != nil {
		return slices.Clone(f.def.NestMembers)
	}
	return nil
}

func (m *Machine) PermittedSubclasses(t *classes.Type) ([]string, bool) {
	f := m.lookup(t)
	if f == nil || !f.def.Sealed {
		return nil, false
	}
	return slices.Clone(f.def.Permits), true
}

func (m *Machine) GenericSignature(t *classes.Type) string {
	if f := m.lookup(t); f != nil {
		return f.def.Signature
	}
	return ""
}

func (m *Machine) RecordComponents(t *classes.Type) ([]*classes.RecordComponent, bool) {
	f := m.lookup(t)
	if f == nil || f.def.Kind != classdef.KindRecord {
		return nil, false
	}
	return slices.Clone(f.components), true
}

// Redefine replaces the facts of an already loaded type. The structural
// facts (kind, modifiers, superclass, interfaces and hidden flag) must not
// change. Cached members of the type and its subtypes are invalidated.
func (m *Machine) Redefine(loader string, def classdef.Class) (*classes.Type, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	l := m.Loader(loader)
	t, ok := l.FindLoaded(def.Name)
	if !ok {
		return nil, &classes.NotFoundError{Kind: "class", Name: def.Name}
	}
	old := m.lookup(t)
	if old == nil {
		return nil, fmt.Errorf("%s has no definition to replace: %w", def.Name, classes.ErrInvalid)
	}
	if err := sameStructure(old.def, def); err != nil {
		return nil, err
	}

	b := &batch{machine: m, loader: l, defined: map[string]*classes.Type{}}
	f, err := b.build(t, def)
	if err != nil {
		return nil, err
	}
	f.interfaces = old.interfaces
	m.store(t, f)
	n := m.universe.Redefine(t)
	m.logger.Info("type redefined",
		zap.String("type", def.Name),
		zap.String("loader", l.Name()),
		zap.Int("invalidated", n))
	return t, nil
}

func sameStructure(old, def classdef.Class) error {
	oldMods, _ := old.ClassModifiers()
	newMods, err := def.ClassModifiers()
	if err != nil {
		return err
	}
	switch {
	case oldMods != newMods:
		return fmt.Errorf("%s: redefinition changes modifiers: %w", def.Name, classes.ErrInvalid)
	case old.SuperclassName() != def.SuperclassName():
		return fmt.Errorf("%s: redefinition changes the superclass: %w", def.Name, classes.ErrInvalid)
	case !slices.Equal(old.Interfaces, def.Interfaces):
		return fmt.Errorf("%s: redefinition changes interfaces: %w", def.Name, classes.ErrInvalid)
	case old.Hidden != def.Hidden:
		return fmt.Errorf("%s: redefinition changes the hidden flag: %w", def.Name, classes.ErrInvalid)
	}
	return nil
}
