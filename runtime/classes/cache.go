package classes

import "sync/atomic"

// reflectionData holds everything computed from VM facts for one generation
// of a type. It is published whole by compare-and-swap and never reused
// after the type's generation moves on; each slot is filled at most once.
type reflectionData struct {
	generation uint32

	declaredFields        lazy[[]*Field]
	declaredPublicFields  lazy[[]*Field]
	publicFields          lazy[[]*Field]
	declaredMethods       lazy[[]*Method]
	declaredPublicMethods lazy[[]*Method]
	publicMethods         lazy[[]*Method]
	declaredConstructors  lazy[[]*Constructor]
	publicConstructors    lazy[[]*Constructor]

	interfaces       lazy[[]*Type]
	simpleName       lazy[string]
	canonicalName    lazy[optionalName]
	typeParameters   lazy[[]TypeParameter]
	permitted        lazy[permittedSubclasses]
	recordComponents lazy[recordHeader]
}

type optionalName struct {
	name string
	ok   bool
}

type permittedSubclasses struct {
	types  []*Type
	sealed bool
}

type recordHeader struct {
	components []*RecordComponent
	ok         bool
}

// reflectionData returns the cache for the type's current generation,
// replacing a stale one. Racing callers may each build a fresh cache; only
// one is published and the rest re-read it.
func (t *Type) reflectionData() *reflectionData {
	for {
		gen := t.generation.Load()
		old := t.cache.Load()
		if old != nil && old.generation == gen {
			return old
		}
		fresh := &reflectionData{generation: gen}
		if t.cache.CompareAndSwap(old, fresh) {
			return fresh
		}
	}
}

// lazy is a slot computed on first use. Concurrent first uses may compute
// more than once; the first stored value wins and every caller returns it.
type lazy[T any] struct {
	p atomic.Pointer[T]
}

func (l *lazy[T]) get(compute func() T) T {
	if v := l.p.Load(); v != nil {
		return *v
	}
	v := compute()
	if l.p.CompareAndSwap(nil, &v) {
		return v
	}
	return *l.p.Load()
}

// loaded reports whether the slot has been filled.
func (l *lazy[T]) loaded() bool { return l.p.Load() != nil }
