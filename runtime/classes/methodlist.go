package classes

// methodList is a chain of methods sharing a name and parameter types that
// survived merging. Methods with different return types coexist.
type methodList struct {
	method *Method
	next   *methodList
}

// filterMethods collects the methods matching name and params, in order.
// Static methods are skipped unless includeStatic is set.
func filterMethods(methods []*Method, name string, params []*Type, includeStatic bool) *methodList {
	var head, tail *methodList
	for _, m := range methods {
		if m.name != name || !m.hasParams(params) {
			continue
		}
		if !includeStatic && m.IsStatic() {
			continue
		}
		l := &methodList{method: m}
		if head == nil {
			head = l
		} else {
			tail.next = l
		}
		tail = l
	}
	return head
}

// mergeMethodLists merges every method of other into head.
func mergeMethodLists(head, other *methodList) *methodList {
	for l := other; l != nil; l = l.next {
		head = mergeMethod(head, l.method)
	}
	return head
}

// mergeMethod adds m to head, a list of methods with m's name and
// parameter types. Only methods with the same return type compete:
//
//   - declared by two classes or two interfaces, the one declared by the
//     subtype stays;
//   - declared by a class and an interface, the class method stays.
//
// A surviving new method is appended at the tail.
func mergeMethod(head *methodList, m *Method) *methodList {
	dclass := m.declaring
	var prev *methodList
	for l := head; l != nil; l = l.next {
		x := l.method
		if m.returnType != x.returnType {
			prev = l
			continue
		}
		xdclass := x.declaring
		knockOut := false
		switch {
		case dclass.IsInterface() == xdclass.IsInterface():
			if dclass.IsAssignableFrom(xdclass) {
				// x overrides m, or is m.
				return head
			}
			knockOut = xdclass.IsAssignableFrom(dclass)
		case dclass.IsInterface():
			return head
		default:
			knockOut = true
		}
		if !knockOut {
			prev = l
			continue
		}
		if prev == nil {
			head = l.next
		} else {
			prev.next = l.next
		}
	}
	l := &methodList{method: m}
	if prev == nil {
		// The list was empty or every entry was knocked out.
		return l
	}
	prev.next = l
	return head
}

// mostSpecific returns the method whose return type is narrowest. When no
// return type is narrower than the rest it keeps the earliest in list
// order.
func (l *methodList) mostSpecific() *Method {
	if l == nil {
		return nil
	}
	m := l.method
	rt := m.returnType
	for n := l.next; n != nil; n = n.next {
		rt2 := n.method.returnType
		if rt2 != rt && rt.IsAssignableFrom(rt2) {
			m, rt = n.method, rt2
		}
	}
	return m
}

func (l *methodList) appendTo(out []*Method) []*Method {
	for ; l != nil; l = l.next {
		out = append(out, l.method)
	}
	return out
}

// publicMethods accumulates a type's public method closure, keyed by name
// and parameter types in first-seen order.
type publicMethods struct {
	groups []*methodGroup
	byName map[string][]*methodGroup
}

type methodGroup struct {
	params []*Type
	list   *methodList
}

func (p *publicMethods) merge(m *Method) {
	if p.byName == nil {
		p.byName = make(map[string][]*methodGroup)
	}
	for _, g := range p.byName[m.name] {
		if sameTypes(g.params, m.params) {
			g.list = mergeMethod(g.list, m)
			return
		}
	}
	g := &methodGroup{params: m.params, list: &methodList{method: m}}
	p.groups = append(p.groups, g)
	p.byName[m.name] = append(p.byName[m.name], g)
}

func (p *publicMethods) methods() []*Method {
	var out []*Method
	for _, g := range p.groups {
		out = g.list.appendTo(out)
	}
	return out
}
