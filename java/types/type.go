package types

import (
	"strconv"
	"strings"
)

// Type is a Java type. The set of implementations is closed.
type Type interface {
	String() string
	isType()
}

type PrimitiveKind uint8

const (
	Boolean PrimitiveKind = iota + 1
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
)

var primitiveNames = [...]string{
	Boolean: "boolean",
	Byte:    "byte",
	Char:    "char",
	Short:   "short",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
	Void:    "void",
}

type Primitive struct {
	Kind PrimitiveKind
}

var (
	BooleanType = &Primitive{Boolean}
	ByteType    = &Primitive{Byte}
	CharType    = &Primitive{Char}
	ShortType   = &Primitive{Short}
	IntType     = &Primitive{Int}
	LongType    = &Primitive{Long}
	FloatType   = &Primitive{Float}
	DoubleType  = &Primitive{Double}
	VoidType    = &Primitive{Void}
)

var primitives = map[string]*Primitive{
	"boolean": BooleanType,
	"byte":    ByteType,
	"char":    CharType,
	"short":   ShortType,
	"int":     IntType,
	"long":    LongType,
	"float":   FloatType,
	"double":  DoubleType,
	"void":    VoidType,
}

// PrimitiveByName returns the primitive type spelled name, or nil.
func PrimitiveByName(name string) *Primitive { return primitives[name] }

func (p *Primitive) String() string { return primitiveNames[p.Kind] }

// IsNumeric reports whether p is an integral or floating type.
func (p *Primitive) IsNumeric() bool {
	return p.Kind != Boolean && p.Kind != Void
}

// IsIntegral reports whether p is byte, short, char, int or long.
func (p *Primitive) IsIntegral() bool {
	switch p.Kind {
	case Byte, Short, Char, Int, Long:
		return true
	}
	return false
}

// ClassType is a use of a class: plain, raw or parameterized.
type ClassType struct {
	Sym *ClassSym
	// Args is nil for a non-generic class and for a raw use of a generic
	// class.
	Args []Type
	// Outer is the enclosing instance type of an inner class.
	Outer *ClassType
}

func (t *ClassType) IsRaw() bool { return t.Args == nil && t.Sym.IsGeneric() }

func (t *ClassType) IsParameterized() bool { return len(t.Args) > 0 }

func (t *ClassType) String() string {
	if t.Sym.IsAnonymous && t.Sym.DisplayName != "" {
		return t.Sym.DisplayName
	}
	var b strings.Builder
	switch {
	case t.Outer != nil && t.Outer.IsParameterized():
		b.WriteString(t.Outer.String())
		b.WriteByte('.')
		b.WriteString(t.Sym.SimpleName)
	default:
		b.WriteString(t.Sym.ReadableName())
	}
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}

// HasWildcards reports whether any type argument is a wildcard.
func (t *ClassType) HasWildcards() bool {
	for _, a := range t.Args {
		if _, ok := a.(*Wildcard); ok {
			return true
		}
	}
	return false
}

type WildcardKind uint8

const (
	Unbounded WildcardKind = iota
	Extends
	Super
)

// Wildcard is a type argument "?", "? extends B" or "? super B".
type Wildcard struct {
	Kind  WildcardKind
	Bound Type
}

func (w *Wildcard) String() string {
	switch w.Kind {
	case Extends:
		return "? extends " + w.Bound.String()
	case Super:
		return "? super " + w.Bound.String()
	}
	return "?"
}

type ArrayType struct {
	Elem Type
}

func (a *ArrayType) String() string { return a.Elem.String() + "[]" }

// ArrayOf wraps elem in dims array dimensions.
func ArrayOf(elem Type, dims int) Type {
	for range dims {
		elem = &ArrayType{Elem: elem}
	}
	return elem
}

// TypeVar is a declared type parameter. Its identity is its pointer.
type TypeVar struct {
	Name   string
	Bounds []Type
	Owner  Symbol
}

func (v *TypeVar) String() string { return v.Name }

// InferenceVar stands for an unknown instantiation of Param while a generic
// invocation is inferred. IDs are unique within one inference context.
type InferenceVar struct {
	ID    int
	Param *TypeVar
}

func (v *InferenceVar) String() string {
	name := "T"
	if v.Param != nil {
		name = v.Param.Name
	}
	return name + "#" + strconv.Itoa(v.ID)
}

// Captured is a fresh type variable produced by capture conversion of one
// wildcard. Lower is nil unless the wildcard was "? super".
type Captured struct {
	ID       int
	Wildcard *Wildcard
	Upper    Type
	Lower    Type
}

func (c *Captured) String() string {
	return "capture#" + strconv.Itoa(c.ID) + "-of " + c.Wildcard.String()
}

// Intersection is "A & B & ...". The class component, if any, comes first.
type Intersection struct {
	Types []Type
}

func (i *Intersection) String() string {
	parts := make([]string, len(i.Types))
	for n, t := range i.Types {
		parts[n] = t.String()
	}
	return strings.Join(parts, " & ")
}

type NullType struct{}

func (*NullType) String() string { return "null" }

// ErrorType marks a type that could not be resolved. Relations treat it as
// compatible with everything so one mistake is reported once.
type ErrorType struct{}

func (*ErrorType) String() string { return "<error>" }

var (
	Null    = &NullType{}
	Invalid = &ErrorType{}
)

func (*Primitive) isType()    {}
func (*ClassType) isType()    {}
func (*Wildcard) isType()     {}
func (*ArrayType) isType()    {}
func (*TypeVar) isType()      {}
func (*InferenceVar) isType() {}
func (*Captured) isType()     {}
func (*Intersection) isType() {}
func (*NullType) isType()     {}
func (*ErrorType) isType()    {}

// IsReference reports whether t is a reference type.
func IsReference(t Type) bool {
	switch t.(type) {
	case *Primitive, *ErrorType, *Wildcard:
		return false
	}
	return true
}

// IsPrimitive reports whether t is a primitive type other than void.
func IsPrimitive(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind != Void
}

func IsVoid(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == Void
}

func IsError(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok || t == nil
}

// ContainsError reports whether t mentions Invalid anywhere.
func ContainsError(t Type) bool {
	found := false
	Walk(t, func(u Type) bool {
		if IsError(u) {
			found = true
		}
		return !found
	})
	return found
}

// Walk visits t and its components depth-first until visit returns false.
// Bounds of variables are not visited.
func Walk(t Type, visit func(Type) bool) bool {
	if !visit(t) {
		return false
	}
	switch t := t.(type) {
	case *ClassType:
		if t.Outer != nil && !Walk(t.Outer, visit) {
			return false
		}
		for _, a := range t.Args {
			if !Walk(a, visit) {
				return false
			}
		}
	case *Wildcard:
		if t.Bound != nil {
			return Walk(t.Bound, visit)
		}
	case *ArrayType:
		return Walk(t.Elem, visit)
	case *Intersection:
		for _, c := range t.Types {
			if !Walk(c, visit) {
				return false
			}
		}
	}
	return true
}
