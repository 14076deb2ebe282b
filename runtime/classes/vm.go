package classes

// VM supplies the raw declared facts of class and interface types. The
// package treats answers as ground truth apart from structural filtering of
// cross references. Methods are never called for array or primitive types.
//
// Implementations must be safe for concurrent use and must build member
// values with NewField, NewMethod, NewConstructor and NewRecordComponent.
// A VM whose facts change for a type must call Universe.Redefine.
type VM interface {
	// DeclaredFields returns the fields declared by t, only public ones
	// when publicOnly is set.
	DeclaredFields(t *Type, publicOnly bool) []*Field
	DeclaredMethods(t *Type, publicOnly bool) []*Method
	DeclaredConstructors(t *Type, publicOnly bool) []*Constructor

	// Interfaces returns the direct superinterfaces of t in declaration
	// order.
	Interfaces(t *Type) []*Type

	// DeclaringClass names the class t is a member of, or "".
	DeclaringClass(t *Type) string
	// SimpleBinaryName returns the simple name recorded for a nested
	// type. ok is false for anonymous types.
	SimpleBinaryName(t *Type) (name string, ok bool)
	// EnclosingMethod describes the code that declares a local or
	// anonymous type. ok is false for any other type.
	EnclosingMethod(t *Type) (info EnclosingMethodInfo, ok bool)
	// DeclaredClasses names the member types declared by t.
	DeclaredClasses(t *Type) []string

	// NestHost names the nest host recorded for t, or "".
	NestHost(t *Type) string
	// NestMembers names the members recorded by a nest host.
	NestMembers(t *Type) []string
	// PermittedSubclasses names the permitted direct subtypes. ok is false
	// when t is not sealed.
	PermittedSubclasses(t *Type) (names []string, ok bool)

	// GenericSignature returns the class signature attribute, or "".
	GenericSignature(t *Type) string
	// RecordComponents returns the record header. ok is false when t
	// carries no record attribute.
	RecordComponents(t *Type) (components []*RecordComponent, ok bool)
}

// EnclosingMethodInfo locates the code that declares a local or anonymous
// type. Name and Descriptor are empty when the type appears in an
// initializer rather than a method or constructor.
type EnclosingMethodInfo struct {
	Class      string
	Name       string
	Descriptor string
}

// EmptyVM answers every query with "not applicable". It can be embedded to
// implement VM partially.
type EmptyVM struct{}

var _ VM = EmptyVM{}

func (EmptyVM) DeclaredFields(*Type, bool) []*Field             { return nil }
func (EmptyVM) DeclaredMethods(*Type, bool) []*Method           { return nil }
func (EmptyVM) DeclaredConstructors(*Type, bool) []*Constructor { return nil }
func (EmptyVM) Interfaces(*Type) []*Type                        { return nil }
func (EmptyVM) DeclaringClass(*Type) string                     { return "" }
func (EmptyVM) SimpleBinaryName(*Type) (string, bool)           { return "", false }
func (EmptyVM) EnclosingMethod(*Type) (EnclosingMethodInfo, bool) {
	return EnclosingMethodInfo{}, false
}
func (EmptyVM) DeclaredClasses(*Type) []string                    { return nil }
func (EmptyVM) NestHost(*Type) string                             { return "" }
func (EmptyVM) NestMembers(*Type) []string                        { return nil }
func (EmptyVM) PermittedSubclasses(*Type) ([]string, bool)        { return nil, false }
func (EmptyVM) GenericSignature(*Type) string                     { return "" }
func (EmptyVM) RecordComponents(*Type) ([]*RecordComponent, bool) { return nil, false }
