package classes

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeVM serves facts registered by tests.
type fakeVM struct {
	EmptyVM

	mu          sync.RWMutex
	fields      map[*Type][]*Field
	methods     map[*Type][]*Method
	ctors       map[*Type][]*Constructor
	ifaces      map[*Type][]*Type
	declaring   map[*Type]string
	simpleNames map[*Type]string
	enclosing   map[*Type]EnclosingMethodInfo
	declared    map[*Type][]string
	nestHosts   map[*Type]string
	nestMembers map[*Type][]string
	permitted   map[*Type][]string
	signatures  map[*Type]string
	records     map[*Type][]*RecordComponent

	fieldCalls atomic.Int64
}

func newFakeVM() *fakeVM {
	return &fakeVM{
		fields:      map[*Type][]*Field{},
		methods:     map[*Type][]*Method{},
		ctors:       map[*Type][]*Constructor{},
		ifaces:      map[*Type][]*Type{},
		declaring:   map[*Type]string{},
		simpleNames: map[*Type]string{},
		enclosing:   map[*Type]EnclosingMethodInfo{},
		declared:    map[*Type][]string{},
		nestHosts:   map[*Type]string{},
		nestMembers: map[*Type][]string{},
		permitted:   map[*Type][]string{},
		signatures:  map[*Type]string{},
		records:     map[*Type][]*RecordComponent{},
	}
}

func (vm *fakeVM) DeclaredFields(t *Type, publicOnly bool) []*Field {
	vm.fieldCalls.Add(1)
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	var out []*Field
	for _, f := range vm.fields[t] {
		if !publicOnly || f.Modifiers()&Public != 0 {
			out = append(out, f)
		}
	}
	return out
}

func (vm *fakeVM) DeclaredMethods(t *Type, publicOnly bool) []*Method {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	var out []*Method
	for _, m := range vm.methods[t] {
		if !publicOnly || m.Modifiers()&Public != 0 {
			out = append(out, m)
		}
	}
	return out
}

func (vm *fakeVM) DeclaredConstructors(t *Type, publicOnly bool) []*Constructor {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	var out []*Constructor
	for _, c := range vm.ctors[t] {
		if !publicOnly || c.Modifiers()&Public != 0 {
			out = append(out, c)
		}
	}
	return out
}

func (vm *fakeVM) Interfaces(t *Type) []*Type {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.ifaces[t]
}

func (vm *fakeVM) DeclaringClass(t *Type) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.declaring[t]
}

func (vm *fakeVM) SimpleBinaryName(t *Type) (string, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	n, ok := vm.simpleNames[t]
	return n, ok
}

func (vm *fakeVM) EnclosingMethod(t *Type) (EnclosingMethodInfo, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	info, ok := vm.enclosing[t]
	return info, ok
}

func (vm *fakeVM) DeclaredClasses(t *Type) []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.declared[t]
}

func (vm *fakeVM) NestHost(t *Type) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.nestHosts[t]
}

func (vm *fakeVM) NestMembers(t *Type) []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.nestMembers[t]
}

func (vm *fakeVM) PermittedSubclasses(t *Type) ([]string, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	names, ok := vm.permitted[t]
	return names, ok
}

func (vm *fakeVM) GenericSignature(t *Type) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.signatures[t]
}

func (vm *fakeVM) RecordComponents(t *Type) ([]*RecordComponent, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	c, ok := vm.records[t]
	return c, ok
}

type fixture struct {
	t  *testing.T
	vm *fakeVM
	u  *Universe
	l  *Loader
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	vm := newFakeVM()
	u := NewUniverse(vm, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	return &fixture{t: t, vm: vm, u: u, l: u.NewLoader("app", nil)}
}

func (f *fixture) class(name string, super *Type, mods Modifiers, ifaces ...*Type) *Type {
	f.t.Helper()
	if super == nil {
		super = f.u.Object()
	}
	c, err := f.l.Define(ClassSpec{Name: name, Modifiers: mods, Superclass: super})
	require.NoError(f.t, err)
	f.setInterfaces(c, ifaces...)
	return c
}

func (f *fixture) iface(name string, ifaces ...*Type) *Type {
	f.t.Helper()
	i, err := f.l.Define(ClassSpec{Name: name, Modifiers: Public | Interface})
	require.NoError(f.t, err)
	f.setInterfaces(i, ifaces...)
	return i
}

func (f *fixture) setInterfaces(t *Type, ifaces ...*Type) {
	if len(ifaces) == 0 {
		return
	}
	f.vm.mu.Lock()
	f.vm.ifaces[t] = ifaces
	f.vm.mu.Unlock()
}

func (f *fixture) method(owner *Type, name string, mods Modifiers, ret *Type, params ...*Type) *Method {
	if ret == nil {
		ret = f.u.Primitive(Void)
	}
	m := NewMethod(owner, MethodSpec{Name: name, Modifiers: mods, Return: ret, Params: params})
	f.vm.mu.Lock()
	f.vm.methods[owner] = append(f.vm.methods[owner], m)
	f.vm.mu.Unlock()
	return m
}

func (f *fixture) field(owner *Type, name string, typ *Type, mods Modifiers) *Field {
	fl := NewField(owner, name, typ, mods)
	f.vm.mu.Lock()
	f.vm.fields[owner] = append(f.vm.fields[owner], fl)
	f.vm.mu.Unlock()
	return fl
}

func (f *fixture) constructor(owner *Type, mods Modifiers, params ...*Type) *Constructor {
	c := NewConstructor(owner, ConstructorSpec{Modifiers: mods, Params: params})
	f.vm.mu.Lock()
	f.vm.ctors[owner] = append(f.vm.ctors[owner], c)
	f.vm.mu.Unlock()
	return c
}

// set runs fn under the VM lock, for registering relation facts.
func (f *fixture) set(fn func(vm *fakeVM)) {
	f.vm.mu.Lock()
	defer f.vm.mu.Unlock()
	fn(f.vm)
}

func (f *fixture) array(t *Type) *Type {
	f.t.Helper()
	a, err := t.ArrayType()
	require.NoError(f.t, err)
	return a
}

// numbers defines java.lang.Number and java.lang.Integer.
func (f *fixture) numbers() (number, integer *Type) {
	number = f.class("java.lang.Number", nil, Public|Abstract)
	integer = f.class("java.lang.Integer", number, Public|Final)
	return number, integer
}
