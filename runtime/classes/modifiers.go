package classes

import "strings"

// Modifiers is the access and property flag word of a type or member. The
// bit values follow the class-file format.
type Modifiers uint32

const (
	Public       Modifiers = 0x0001
	Private      Modifiers = 0x0002
	Protected    Modifiers = 0x0004
	Static       Modifiers = 0x0008
	Final        Modifiers = 0x0010
	Synchronized Modifiers = 0x0020
	Volatile     Modifiers = 0x0040
	Transient    Modifiers = 0x0080
	Native       Modifiers = 0x0100
	Interface    Modifiers = 0x0200
	Abstract     Modifiers = 0x0400
	Strict       Modifiers = 0x0800
	Synthetic    Modifiers = 0x1000
	Annotation   Modifiers = 0x2000
	Enum         Modifiers = 0x4000

	// Bridge and Varargs share bits with Volatile and Transient on methods.
	Bridge  Modifiers = 0x0040
	Varargs Modifiers = 0x0080
)

// Masks of the modifiers that may appear in source for each declaration kind.
const (
	ClassModifiers       = Public | Protected | Private | Abstract | Static | Final | Strict
	InterfaceModifiers   = Public | Protected | Private | Abstract | Static | Strict
	FieldModifiers       = Public | Protected | Private | Static | Final | Transient | Volatile
	MethodModifiers      = Public | Protected | Private | Abstract | Static | Final | Synchronized | Native | Strict
	ConstructorModifiers = Public | Protected | Private

	accessModifiers = Public | Protected | Private
)

// Has reports whether all bits of flag are set.
func (m Modifiers) Has(flag Modifiers) bool { return m&flag == flag }

var modifierWords = []struct {
	flag Modifiers
	word string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Transient, "transient"},
	{Volatile, "volatile"},
	{Synchronized, "synchronized"},
	{Native, "native"},
	{Strict, "strictfp"},
	{Interface, "interface"},
}

// String renders the modifiers in canonical source order, separated by
// spaces. Bits without a source keyword are omitted.
func (m Modifiers) String() string {
	var words []string
	for _, w := range modifierWords {
		if m&w.flag != 0 {
			words = append(words, w.word)
		}
	}
	return strings.Join(words, " ")
}
