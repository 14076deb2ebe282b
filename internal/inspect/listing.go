package inspect

import (
	"github.com/conduit-lang/classmeta/runtime/classes"
	"github.com/conduit-lang/classmeta/runtime/text"
)

// Listing renders t as a declaration with its declared members, one per
// line, in the manner of a class-file disassembler:
//
//	public class p.Point extends java.lang.Record implements p.Shape {
//	  private final int p.Point.x;
//	  public p.Point(int);
//	  public int p.Point.x();
//	}
//
// The text is assembled in a builder bounded by cfg, so an oversized listing
// fails with text.ErrOutOfMemory.
func Listing(t *classes.Type, cfg text.Config) (string, error) {
	b, err := text.NewWithConfig(cfg)
	if err != nil {
		return "", err
	}
	w := &listingWriter{b: b}

	w.str(t.GenericString())
	if s := t.Superclass(); s != nil && s != t.Universe().Object() {
		w.str(" extends ")
		w.str(s.TypeName())
	}
	if ifaces := t.Interfaces(); len(ifaces) > 0 {
		if t.IsInterface() {
			w.str(" extends ")
		} else {
			w.str(" implements ")
		}
		for i, iface := range ifaces {
			if i > 0 {
				w.str(", ")
			}
			w.str(iface.TypeName())
		}
	}
	w.str(" {\n")

	if !t.IsArray() && !t.IsPrimitive() {
		for _, f := range t.DeclaredFields() {
			w.member(f)
		}
		for _, c := range t.DeclaredConstructors() {
			w.member(c)
		}
		for _, m := range t.DeclaredMethods() {
			w.member(m)
		}
	}
	w.str("}\n")

	if w.err != nil {
		return "", w.err
	}
	return b.String(), nil
}

// listingWriter keeps the first append error so rendering reads straight.
type listingWriter struct {
	b   *text.Builder
	err error
}

func (w *listingWriter) str(s string) {
	if w.err == nil {
		w.err = w.b.AppendString(s)
	}
}

// member appends the canonical string form of a member value.
func (w *listingWriter) member(v any) {
	w.str("  ")
	if w.err == nil {
		w.err = w.b.Append(v)
	}
	w.str(";\n")
}
