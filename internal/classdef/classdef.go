// Package classdef defines the on-disk form of class definitions: the raw
// facts a VM reports about each type, written as YAML or JSON.
package classdef

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/classmeta/runtime/classes"
)

// Kinds of definition. An empty kind means KindClass.
const (
	KindClass      = "class"
	KindInterface  = "interface"
	KindAnnotation = "annotation"
	KindEnum       = "enum"
	KindRecord     = "record"
)

// Document is one file of definitions, all destined for the same loader.
type Document struct {
	// Loader names the loader that defines the classes. Empty means the
	// application loader chosen by the caller.
	Loader  string  `yaml:"loader,omitempty" json:"loader,omitempty"`
	Classes []Class `yaml:"classes" json:"classes"`
}

// Class describes one class or interface. Type references use source
// names: "int", "java.lang.String", "java.lang.String[][]".
type Class struct {
	Name       string   `yaml:"name" json:"name"`
	Kind       string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Modifiers  []string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Superclass string   `yaml:"superclass,omitempty" json:"superclass,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Hidden     bool     `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Signature  string   `yaml:"signature,omitempty" json:"signature,omitempty"`

	DeclaringClass  string           `yaml:"declaring_class,omitempty" json:"declaring_class,omitempty"`
	SimpleName      string           `yaml:"simple_name,omitempty" json:"simple_name,omitempty"`
	Anonymous       bool             `yaml:"anonymous,omitempty" json:"anonymous,omitempty"`
	EnclosingMethod *EnclosingMethod `yaml:"enclosing_method,omitempty" json:"enclosing_method,omitempty"`
	MemberClasses   []string         `yaml:"member_classes,omitempty" json:"member_classes,omitempty"`

	NestHost    string   `yaml:"nest_host,omitempty" json:"nest_host,omitempty"`
	NestMembers []string `yaml:"nest_members,omitempty" json:"nest_members,omitempty"`
	Sealed      bool     `yaml:"sealed,omitempty" json:"sealed,omitempty"`
	Permits     []string `yaml:"permits,omitempty" json:"permits,omitempty"`

	Fields           []Field           `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods          []Method          `yaml:"methods,omitempty" json:"methods,omitempty"`
	Constructors     []Constructor     `yaml:"constructors,omitempty" json:"constructors,omitempty"`
	RecordComponents []RecordComponent `yaml:"record_components,omitempty" json:"record_components,omitempty"`
}

// EnclosingMethod locates the code declaring a local or anonymous class.
type EnclosingMethod struct {
	Class      string `yaml:"class" json:"class"`
	Name       string `yaml:"name,omitempty" json:"name,omitempty"`
	Descriptor string `yaml:"descriptor,omitempty" json:"descriptor,omitempty"`
}

type Field struct {
	Name      string   `yaml:"name" json:"name"`
	Type      string   `yaml:"type" json:"type"`
	Modifiers []string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// Method describes a method. An empty Returns means void.
type Method struct {
	Name      string   `yaml:"name" json:"name"`
	Returns   string   `yaml:"returns,omitempty" json:"returns,omitempty"`
	Params    []string `yaml:"params,omitempty" json:"params,omitempty"`
	Throws    []string `yaml:"throws,omitempty" json:"throws,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

type Constructor struct {
	Params    []string `yaml:"params,omitempty" json:"params,omitempty"`
	Throws    []string `yaml:"throws,omitempty" json:"throws,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

type RecordComponent struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	Signature string `yaml:"signature,omitempty" json:"signature,omitempty"`
}

var modifierKeywords = map[string]classes.Modifiers{
	"public":       classes.Public,
	"private":      classes.Private,
	"protected":    classes.Protected,
	"static":       classes.Static,
	"final":        classes.Final,
	"synchronized": classes.Synchronized,
	"volatile":     classes.Volatile,
	"transient":    classes.Transient,
	"native":       classes.Native,
	"abstract":     classes.Abstract,
	"strictfp":     classes.Strict,
	"synthetic":    classes.Synthetic,
	"bridge":       classes.Bridge,
	"varargs":      classes.Varargs,
	"enum":         classes.Enum,
}

// ParseModifiers converts modifier keywords to a flag word.
func ParseModifiers(words []string) (classes.Modifiers, error) {
	var m classes.Modifiers
	for _, w := range words {
		flag, ok := modifierKeywords[strings.ToLower(strings.TrimSpace(w))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", w)
		}
		m |= flag
	}
	return m, nil
}

// ClassModifiers returns the flag word of the class, kind bits included.
// Records are always final.
func (c *Class) ClassModifiers() (classes.Modifiers, error) {
	m, err := ParseModifiers(c.Modifiers)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.Name, err)
	}
	switch c.Kind {
	case "", KindClass:
	case KindInterface:
		m |= classes.Interface | classes.Abstract
	case KindAnnotation:
		m |= classes.Interface | classes.Abstract | classes.Annotation
	case KindEnum:
		m |= classes.Enum
	case KindRecord:
		m |= classes.Final
	default:
		return 0, fmt.Errorf("%s: unknown kind %q", c.Name, c.Kind)
	}
	return m, nil
}

// IsInterface reports whether the definition is an interface or annotation.
func (c *Class) IsInterface() bool {
	return c.Kind == KindInterface || c.Kind == KindAnnotation
}

// SuperclassName returns the superclass to use, applying the kind's
// default: the enum base for enums, the record base for records, the root
// class otherwise. Interfaces and the root class itself have none.
func (c *Class) SuperclassName() string {
	if c.IsInterface() || c.Name == classes.ObjectName {
		return ""
	}
	if c.Superclass != "" {
		return c.Superclass
	}
	switch c.Kind {
	case KindEnum:
		return classes.EnumName
	case KindRecord:
		return classes.RecordName
	}
	return classes.ObjectName
}

// Dependencies names the types that must exist before c can be defined.
func (c *Class) Dependencies() []string {
	var deps []string
	if s := c.SuperclassName(); s != "" {
		deps = append(deps, s)
	}
	return append(deps, c.Interfaces...)
}
