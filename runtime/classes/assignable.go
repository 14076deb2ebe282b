package classes

// IsAssignableFrom reports whether a value of type o can be used where t is
// expected: o is t, a subclass or implementor of t, or an array whose
// component is assignable to t's component. Primitives are assignable only
// to themselves.
func (t *Type) IsAssignableFrom(o *Type) bool {
	if t == o {
		return true
	}
	if o == nil || t.IsPrimitive() || o.IsPrimitive() {
		return false
	}
	if t.IsArray() {
		if !o.IsArray() {
			return false
		}
		tc, oc := t.component, o.component
		if tc.IsPrimitive() || oc.IsPrimitive() {
			return false
		}
		return tc.IsAssignableFrom(oc)
	}
	if t == t.universe.object {
		return true
	}
	if t.IsInterface() {
		return o.implements(t)
	}
	for s := o.super; s != nil; s = s.super {
		if s == t {
			return true
		}
	}
	return false
}

// implements reports whether iface is reachable from t through superclass
// and superinterface edges.
func (t *Type) implements(iface *Type) bool {
	seen := make(map[*Type]bool)
	var walk func(*Type) bool
	walk = func(x *Type) bool {
		for _, i := range x.interfaces() {
			if i == iface {
				return true
			}
			if seen[i] {
				continue
			}
			seen[i] = true
			if walk(i) {
				return true
			}
		}
		return false
	}
	for c := t; c != nil; c = c.super {
		if walk(c) {
			return true
		}
	}
	return false
}
