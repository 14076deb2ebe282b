package classes

import (
	"fmt"
	"strings"
)

const objectTypeName = "java.lang.Object"

// TypeParameter is a formal type variable with its bounds rendered as
// source type names.
type TypeParameter struct {
	Name   string
	Bounds []string
}

// String renders the parameter as in a declaration: "T" when the only bound
// is the root class, else "T extends A & B".
func (p TypeParameter) String() string {
	if len(p.Bounds) == 0 || (len(p.Bounds) == 1 && p.Bounds[0] == objectTypeName) {
		return p.Name
	}
	return p.Name + " extends " + strings.Join(p.Bounds, " & ")
}

// sigParser reads the generic signature grammar of class files.
type sigParser struct {
	s   string
	pos int
}

// parseTypeParameters returns the formal type parameters that lead a class
// signature. The rest of the signature is validated but discarded.
func parseTypeParameters(sig string) ([]TypeParameter, error) {
	p := &sigParser{s: sig}
	var params []TypeParameter
	if p.peek() == '<' {
		var err error
		if params, err = p.formalTypeParameters(); err != nil {
			return nil, err
		}
	}
	// Superclass signature followed by superinterface signatures.
	for p.pos < len(p.s) {
		if _, err := p.classType(); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) errorf(format string, args ...any) error {
	return fmt.Errorf("signature %q at %d: %s", p.s, p.pos, fmt.Sprintf(format, args...))
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *sigParser) identifier() (string, error) {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(".;[/<>:", rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.s[start:p.pos], nil
}

func (p *sigParser) formalTypeParameters() ([]TypeParameter, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var params []TypeParameter
	for p.peek() != '>' {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		param := TypeParameter{Name: name}
		// Class bound, possibly empty.
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if c := p.peek(); c != ':' && c != '>' {
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.Bounds = append(param.Bounds, bound)
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.Bounds = append(param.Bounds, bound)
		}
		if len(param.Bounds) == 0 {
			param.Bounds = []string{objectTypeName}
		}
		params = append(params, param)
	}
	p.pos++
	if len(params) == 0 {
		return nil, p.errorf("empty type parameter list")
	}
	return params, nil
}

func (p *sigParser) referenceType() (string, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		name, err := p.identifier()
		if err != nil {
			return "", err
		}
		return name, p.expect(';')
	case '[':
		p.pos++
		elem, err := p.javaType()
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	default:
		return "", p.errorf("expected reference type")
	}
}

func (p *sigParser) javaType() (string, error) {
	if prim, ok := PrimitiveByCode(p.peek()); ok && prim != Void {
		p.pos++
		return prim.String(), nil
	}
	return p.referenceType()
}

// classType reads "Lpkg/Outer<...>.Inner<...>;" and renders it as
// "pkg.Outer<...>$Inner<...>".
func (p *sigParser) classType() (string, error) {
	if err := p.expect('L'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		id, err := p.identifier()
		if err != nil {
			return "", err
		}
		b.WriteString(id)
		if p.peek() != '/' {
			break
		}
		p.pos++
		b.WriteByte('.')
	}
	for {
		if p.peek() == '<' {
			args, err := p.typeArguments()
			if err != nil {
				return "", err
			}
			b.WriteString(args)
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		id, err := p.identifier()
		if err != nil {
			return "", err
		}
		b.WriteByte('$')
		b.WriteString(id)
	}
	return b.String(), p.expect(';')
}

func (p *sigParser) typeArguments() (string, error) {
	if err := p.expect('<'); err != nil {
		return "", err
	}
	var args []string
	for p.peek() != '>' {
		var arg string
		switch p.peek() {
		case 0:
			return "", p.errorf("unterminated type arguments")
		case '*':
			p.pos++
			arg = "?"
		case '+':
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return "", err
			}
			arg = "?"
			if bound != objectTypeName {
				arg = "? extends " + bound
			}
		case '-':
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return "", err
			}
			arg = "? super " + bound
		default:
			t, err := p.referenceType()
			if err != nil {
				return "", err
			}
			arg = t
		}
		args = append(args, arg)
	}
	p.pos++
	if len(args) == 0 {
		return "", p.errorf("empty type argument list")
	}
	return "<" + strings.Join(args, ", ") + ">", nil
}
