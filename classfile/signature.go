package classfile

import (
	"fmt"
	"strings"
)

// TypeSig is a type read from a descriptor or a generic signature. Exactly
// one of Base, Class, Var and Elem is set.
type TypeSig struct {
	// Base is the descriptor letter of a primitive type or 'V' for void.
	Base byte
	// Class holds the parts of a class type, outermost first. The first
	// part carries the full internal name; later parts are simple names of
	// member classes.
	Class []ClassPart
	Var   string
	Elem  *TypeSig
}

type ClassPart struct {
	Name string
	Args []TypeArg
}

// TypeArg is a type argument. Wildcard is 0 for an exact type, '+' for
// "? extends", '-' for "? super" and '*' for an unbounded wildcard.
type TypeArg struct {
	Wildcard byte
	Type     *TypeSig
}

type TypeParam struct {
	Name string
	// Bounds omits an empty class bound, so an interface-bounded parameter
	// starts with its first interface.
	Bounds []*TypeSig
}

type ClassSig struct {
	TypeParams []TypeParam
	Super      *TypeSig
	Interfaces []*TypeSig
}

type MethodSig struct {
	TypeParams []TypeParam
	Params     []*TypeSig
	Result     *TypeSig
	Throws     []*TypeSig
}

// InternalName joins the parts of a class type with '$'.
func (t *TypeSig) InternalName() string {
	if len(t.Class) == 0 {
		return ""
	}
	names := make([]string, len(t.Class))
	for i, p := range t.Class {
		names[i] = p.Name
	}
	return strings.Join(names, "$")
}

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) fail(what string) error {
	return fmt.Errorf("classfile: bad signature %q at %d: %s", p.s, p.pos, what)
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.fail(fmt.Sprintf("expected %q", c))
	}
	p.pos++
	return nil
}

func (p *sigParser) done() error {
	if p.pos != len(p.s) {
		return p.fail("trailing input")
	}
	return nil
}

// ident reads up to the first byte in stop.
func (p *sigParser) ident(stop string) string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(stop, rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *sigParser) typ(void bool) (*TypeSig, error) {
	c := p.peek()
	switch c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		p.pos++
		return &TypeSig{Base: c}, nil
	case 'V':
		if !void {
			return nil, p.fail("void not allowed here")
		}
		p.pos++
		return &TypeSig{Base: c}, nil
	}
	return p.ref()
}

func (p *sigParser) ref() (*TypeSig, error) {
	switch p.peek() {
	case 'L':
		return p.class()
	case 'T':
		p.pos++
		name := p.ident(";")
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		return &TypeSig{Var: name}, nil
	case '[':
		p.pos++
		elem, err := p.typ(false)
		if err != nil {
			return nil, err
		}
		return &TypeSig{Elem: elem}, nil
	}
	return nil, p.fail("expected reference type")
}

func (p *sigParser) class() (*TypeSig, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	t := &TypeSig{}
	for {
		part := ClassPart{Name: p.ident(";<.")}
		if part.Name == "" {
			return nil, p.fail("empty class name")
		}
		if p.peek() == '<' {
			p.pos++
			for p.peek() != '>' {
				a, err := p.typeArg()
				if err != nil {
					return nil, err
				}
				part.Args = append(part.Args, a)
			}
			p.pos++
		}
		t.Class = append(t.Class, part)
		switch p.peek() {
		case '.':
			p.pos++
		case ';':
			p.pos++
			return t, nil
		default:
			return nil, p.fail("unterminated class type")
		}
	}
}

func (p *sigParser) typeArg() (TypeArg, error) {
	switch c := p.peek(); c {
	case '*':
		p.pos++
		return TypeArg{Wildcard: '*'}, nil
	case '+', '-':
		p.pos++
		t, err := p.ref()
		return TypeArg{Wildcard: c, Type: t}, err
	case 0:
		return TypeArg{}, p.fail("unterminated type arguments")
	}
	t, err := p.ref()
	return TypeArg{Type: t}, err
}

func (p *sigParser) typeParams() ([]TypeParam, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var out []TypeParam
	for p.peek() != '>' {
		tp := TypeParam{Name: p.ident(":")}
		if tp.Name == "" {
			return nil, p.fail("empty type parameter name")
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if c := p.peek(); c != ':' && c != '>' {
			b, err := p.ref()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, b)
		}
		for p.peek() == ':' {
			p.pos++
			b, err := p.ref()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, b)
		}
		out = append(out, tp)
	}
	p.pos++
	return out, nil
}

func (p *sigParser) method() (*MethodSig, error) {
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	m := &MethodSig{TypeParams: tps}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		t, err := p.typ(false)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, t)
	}
	p.pos++
	if m.Result, err = p.typ(true); err != nil {
		return nil, err
	}
	for p.peek() == '^' {
		p.pos++
		t, err := p.ref()
		if err != nil {
			return nil, err
		}
		m.Throws = append(m.Throws, t)
	}
	return m, p.done()
}

// ParseDescriptor parses a field descriptor like "[Ljava/lang/String;".
func ParseDescriptor(s string) (*TypeSig, error) {
	p := &sigParser{s: s}
	t, err := p.typ(false)
	if err != nil {
		return nil, err
	}
	return t, p.done()
}

// ParseFieldSignature parses the Signature attribute of a field.
func ParseFieldSignature(s string) (*TypeSig, error) {
	p := &sigParser{s: s}
	t, err := p.ref()
	if err != nil {
		return nil, err
	}
	return t, p.done()
}

// ParseMethodDescriptor parses a descriptor like "(ILjava/lang/String;)V".
// Descriptors have the same shape as signatures without generics.
func ParseMethodDescriptor(s string) (*MethodSig, error) {
	return (&sigParser{s: s}).method()
}

func ParseMethodSignature(s string) (*MethodSig, error) {
	return (&sigParser{s: s}).method()
}

// ParseClassSignature parses the Signature attribute of a class.
func ParseClassSignature(s string) (*ClassSig, error) {
	p := &sigParser{s: s}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	cs := &ClassSig{TypeParams: tps}
	if cs.Super, err = p.class(); err != nil {
		return nil, err
	}
	for p.peek() == 'L' {
		t, err := p.class()
		if err != nil {
			return nil, err
		}
		cs.Interfaces = append(cs.Interfaces, t)
	}
	return cs, p.done()
}
