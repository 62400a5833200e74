package types

import (
	"strings"
	"sync"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// Finder locates class symbols by qualified source name, for example
// "java.util.Map" or "java.util.Map.Entry".
type Finder interface {
	FindType(name string) *ClassSym
	HasPackage(name string) bool
}

// Symbol is a declaration that can own type variables.
type Symbol interface {
	SymbolName() string
}

// ClassSym is a class, interface, enum, record or annotation type.
type ClassSym struct {
	Name       string
	SimpleName string
	Package    string
	Kind       ClassKind
	Visibility Visibility
	IsAbstract bool
	IsFinal    bool
	IsStatic   bool
	IsSealed   bool

	// IsAnonymous classes have no name; DisplayName is what diagnostics
	// print for them, for example "new Y<Integer>(){}".
	IsAnonymous bool
	IsLocal     bool
	DisplayName string

	Outer       *ClassSym
	TypeParams  []*TypeVar
	Super       *ClassType
	Interfaces  []*ClassType
	Fields      []*FieldSym
	Methods     []*MethodSym
	MemberTypes []*ClassSym

	// Origin is the source file or class path entry that declared the
	// symbol.
	Origin string

	once     sync.Once
	complete func(*ClassSym)
}

// NewLazyClass returns a symbol whose supertypes and members are filled in
// by complete on first use.
func NewLazyClass(name string, complete func(*ClassSym)) *ClassSym {
	pkg, simple := SplitName(name)
	return &ClassSym{Name: name, Package: pkg, SimpleName: simple, complete: complete}
}

// Complete runs the lazy completer, if any. It is safe for concurrent use.
func (c *ClassSym) Complete() {
	c.once.Do(func() {
		if c.complete != nil {
			c.complete(c)
			c.complete = nil
		}
	})
}

func (c *ClassSym) SymbolName() string { return c.Name }

func (c *ClassSym) IsInterface() bool {
	return c.Kind == ClassKindInterface || c.Kind == ClassKindAnnotation
}

func (c *ClassSym) IsGeneric() bool {
	c.Complete()
	return len(c.TypeParams) > 0
}

// IsInner reports whether instances carry an enclosing instance.
func (c *ClassSym) IsInner() bool {
	return c.Outer != nil && !c.IsStatic && !c.IsInterface() &&
		c.Kind != ClassKindEnum && c.Kind != ClassKindRecord && !c.Outer.IsInterface()
}

// TopLevel returns the outermost enclosing class.
func (c *ClassSym) TopLevel() *ClassSym {
	for c.Outer != nil {
		c = c.Outer
	}
	return c
}

// ReadableName is the name diagnostics use: nested classes are qualified
// by their enclosing classes but not by package.
func (c *ClassSym) ReadableName() string {
	if c.IsAnonymous && c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Outer != nil && !c.IsLocal {
		return c.Outer.ReadableName() + "." + c.SimpleName
	}
	return c.SimpleName
}

// MemberType returns the member class named simple, or nil.
func (c *ClassSym) MemberType(simple string) *ClassSym {
	c.Complete()
	for _, m := range c.MemberTypes {
		if m.SimpleName == simple {
			return m
		}
	}
	return nil
}

// DeclaredMethods returns the methods named name declared directly in c.
func (c *ClassSym) DeclaredMethods(name string) []*MethodSym {
	c.Complete()
	var out []*MethodSym
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// DeclaredField returns the field named name declared directly in c.
func (c *ClassSym) DeclaredField(name string) *FieldSym {
	c.Complete()
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Constructors returns the declared constructors.
func (c *ClassSym) Constructors() []*MethodSym {
	return c.DeclaredMethods(ConstructorName)
}

// ThisType is the class applied to its own type parameters.
func (c *ClassSym) ThisType() *ClassType {
	c.Complete()
	t := &ClassType{Sym: c}
	for _, p := range c.TypeParams {
		t.Args = append(t.Args, p)
	}
	if c.IsInner() {
		t.Outer = c.Outer.ThisType()
	}
	return t
}

// SplitName splits "a.b.C" into "a.b" and "C".
func SplitName(name string) (pkg, simple string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// ConstructorName is the MethodSym name of constructors.
const ConstructorName = "<init>"

// MethodSym is a method or constructor.
type MethodSym struct {
	Name       string
	Owner      *ClassSym
	TypeParams []*TypeVar
	Params     []Type
	ParamNames []string
	Varargs    bool
	Result     Type
	Throws     []Type
	Visibility Visibility
	IsStatic   bool
	IsAbstract bool
	IsDefault  bool
	IsFinal    bool
}

func (m *MethodSym) SymbolName() string {
	if m.Owner == nil {
		return m.Name
	}
	return m.Owner.Name + "." + m.Name
}

func (m *MethodSym) IsConstructor() bool { return m.Name == ConstructorName }

func (m *MethodSym) IsGeneric() bool { return len(m.TypeParams) > 0 }

// Signature prints the method the way diagnostics do: "foo(int, String)".
// Constructors print with their class name.
func (m *MethodSym) Signature() string {
	name := m.Name
	if m.IsConstructor() && m.Owner != nil {
		name = m.Owner.SimpleName
	}
	return name + "(" + ParamList(m.Params, m.Varargs) + ")"
}

// ParamList joins parameter types with ", ". A variable arity final
// parameter prints with "...".
func ParamList(params []Type, varargs bool) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if varargs && i == len(params)-1 {
			if a, ok := p.(*ArrayType); ok {
				b.WriteString(a.Elem.String())
				b.WriteString("...")
				continue
			}
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// FieldSym is a field or enum constant.
type FieldSym struct {
	Name       string
	Owner      *ClassSym
	Type       Type
	Visibility Visibility
	IsStatic   bool
	IsFinal    bool
}
