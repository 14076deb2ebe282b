package classes

// Kind is the structural category of a Type. Exactly one holds for every
// type; enums, records and annotations are refinements of Class and
// Interface answered by predicates.
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindArray
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Primitive identifies one of the nine primitive types.
type Primitive uint8

const (
	NotPrimitive Primitive = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
)

var primitiveInfo = [...]struct {
	name string
	code byte
}{
	NotPrimitive: {"", 0},
	Boolean:      {"boolean", 'Z'},
	Byte:         {"byte", 'B'},
	Char:         {"char", 'C'},
	Short:        {"short", 'S'},
	Int:          {"int", 'I'},
	Long:         {"long", 'J'},
	Float:        {"float", 'F'},
	Double:       {"double", 'D'},
	Void:         {"void", 'V'},
}

// Primitives lists the primitive types in declaration order.
var Primitives = []Primitive{Boolean, Byte, Char, Short, Int, Long, Float, Double, Void}

func (p Primitive) String() string { return primitiveInfo[p].name }

// Code is the one-letter descriptor of p.
func (p Primitive) Code() byte { return primitiveInfo[p].code }

// PrimitiveByName maps "int", "void" and friends to their Primitive.
func PrimitiveByName(name string) (Primitive, bool) {
	for _, p := range Primitives {
		if primitiveInfo[p].name == name {
			return p, true
		}
	}
	return NotPrimitive, false
}

// PrimitiveByCode maps a descriptor letter to its Primitive.
func PrimitiveByCode(code byte) (Primitive, bool) {
	for _, p := range Primitives {
		if primitiveInfo[p].code == code {
			return p, true
		}
	}
	return NotPrimitive, false
}
