package types

// Well-known class names.
const (
	ObjectName           = "java.lang.Object"
	StringName           = "java.lang.String"
	ClassName            = "java.lang.Class"
	CloneableName        = "java.lang.Cloneable"
	SerializableName     = "java.io.Serializable"
	ThrowableName        = "java.lang.Throwable"
	ExceptionName        = "java.lang.Exception"
	RuntimeExceptionName = "java.lang.RuntimeException"
	ErrorName            = "java.lang.Error"
	EnumName             = "java.lang.Enum"
	RecordName           = "java.lang.Record"
	IterableName         = "java.lang.Iterable"
	AutoCloseableName    = "java.lang.AutoCloseable"
)

var boxNames = map[PrimitiveKind]string{
	Boolean: "java.lang.Boolean",
	Byte:    "java.lang.Byte",
	Char:    "java.lang.Character",
	Short:   "java.lang.Short",
	Int:     "java.lang.Integer",
	Long:    "java.lang.Long",
	Float:   "java.lang.Float",
	Double:  "java.lang.Double",
	Void:    "java.lang.Void",
}

// Types evaluates type relations against an environment. It is not safe
// for concurrent use; create one per compilation unit.
type Types struct {
	env      Finder
	captures int
	cache    map[string]*ClassSym
}

// New returns a Types that resolves well-known classes through env.
func New(env Finder) *Types {
	return &Types{env: env, cache: map[string]*ClassSym{}}
}

// Env returns the environment ts resolves through.
func (ts *Types) Env() Finder { return ts.env }

// Class returns the symbol for a qualified name, or nil.
func (ts *Types) Class(name string) *ClassSym {
	if c, ok := ts.cache[name]; ok {
		return c
	}
	var c *ClassSym
	if ts.env != nil {
		c = ts.env.FindType(name)
	}
	ts.cache[name] = c
	return c
}

// Named returns the class type for name applied to args, or Invalid when the
// class is missing.
func (ts *Types) Named(name string, args ...Type) Type {
	c := ts.Class(name)
	if c == nil {
		return Invalid
	}
	return &ClassType{Sym: c, Args: args}
}

func (ts *Types) Object() Type { return ts.Named(ObjectName) }

func (ts *Types) String() Type { return ts.Named(StringName) }

// IsObject reports whether t is java.lang.Object.
func IsObject(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Sym.Name == ObjectName
}

// IsNamed reports whether t is a use of the class called name.
func IsNamed(t Type, name string) bool {
	c, ok := t.(*ClassType)
	return ok && c.Sym.Name == name
}

// Box returns the wrapper class of p, or Invalid.
func (ts *Types) Box(p *Primitive) Type {
	return ts.Named(boxNames[p.Kind])
}

// Unbox returns the primitive wrapped by t, or nil.
func Unbox(t Type) *Primitive {
	c, ok := t.(*ClassType)
	if !ok {
		return nil
	}
	for k, name := range boxNames {
		if name == c.Sym.Name && k != Void {
			return &Primitive{Kind: k}
		}
	}
	return nil
}

// UnboxedOrSelf unboxes t if it is a wrapper class.
func UnboxedOrSelf(t Type) Type {
	if p := Unbox(t); p != nil {
		return primitives[p.String()]
	}
	return t
}

// Erasure removes type arguments and replaces variables by the erasure of
// their first bound.
func (ts *Types) Erasure(t Type) Type {
	switch t := t.(type) {
	case *ClassType:
		if t.Args == nil && t.Outer == nil {
			return t
		}
		return &ClassType{Sym: t.Sym}
	case *ArrayType:
		return &ArrayType{Elem: ts.Erasure(t.Elem)}
	case *TypeVar:
		if len(t.Bounds) == 0 {
			return ts.Object()
		}
		return ts.Erasure(t.Bounds[0])
	case *Captured:
		return ts.Erasure(t.Upper)
	case *Intersection:
		return ts.Erasure(t.Types[0])
	case *Wildcard:
		if t.Kind == Extends {
			return ts.Erasure(t.Bound)
		}
		return ts.Object()
	}
	return t
}

// Supertypes returns the direct supertypes of t. The supertypes of a raw
// type are erased.
func (ts *Types) Supertypes(t Type) []Type {
	switch t := t.(type) {
	case *ClassType:
		sym := t.Sym
		sym.Complete()
		if sym.Name == ObjectName {
			return nil
		}
		var direct []Type
		if sym.Super != nil {
			direct = append(direct, sym.Super)
		}
		for _, i := range sym.Interfaces {
			direct = append(direct, i)
		}
		if sym.Super == nil && (len(sym.Interfaces) == 0 || sym.IsInterface()) {
			direct = append([]Type{ts.Object()}, direct...)
		}
		if t.IsRaw() {
			for i, d := range direct {
				direct[i] = ts.Erasure(d)
			}
			return direct
		}
		s := ts.memberSubst(t)
		return s.List(direct)
	case *TypeVar:
		if len(t.Bounds) == 0 {
			return []Type{ts.Object()}
		}
		return t.Bounds
	case *Captured:
		return []Type{t.Upper}
	case *Intersection:
		return t.Types
	case *ArrayType:
		out := []Type{ts.Object()}
		for _, n := range []string{CloneableName, SerializableName} {
			if c := ts.Class(n); c != nil {
				out = append(out, &ClassType{Sym: c})
			}
		}
		return out
	}
	return nil
}

// memberSubst maps the type parameters of t's class and of its enclosing
// instance types to t's arguments.
func (ts *Types) memberSubst(t *ClassType) Subst {
	s := Subst{}
	for c := t; c != nil; c = c.Outer {
		for i, p := range c.Sym.TypeParams {
			if i < len(c.Args) {
				s[p] = c.Args[i]
			}
		}
	}
	return s
}

// AsSuper returns the supertype of t that is a use of sym, or nil.
func (ts *Types) AsSuper(t Type, sym *ClassSym) *ClassType {
	seen := map[*ClassSym]bool{}
	var walk func(Type, int) *ClassType
	walk = func(t Type, depth int) *ClassType {
		if depth > 64 {
			return nil
		}
		if c, ok := t.(*ClassType); ok {
			if c.Sym == sym {
				return c
			}
			if seen[c.Sym] {
				return nil
			}
			seen[c.Sym] = true
		}
		for _, s := range ts.Supertypes(t) {
			if r := walk(s, depth+1); r != nil {
				return r
			}
		}
		return nil
	}
	if sym.Name == ObjectName && IsReference(t) {
		if _, ok := t.(*NullType); !ok {
			return &ClassType{Sym: sym}
		}
	}
	return walk(t, 0)
}

// MemberSubst returns the substitution to view members of owner from the
// receiver type recv. It is nil when recv sees owner raw.
func (ts *Types) MemberSubst(recv Type, owner *ClassSym) (s Subst, raw bool) {
	sup := ts.AsSuper(recv, owner)
	if sup == nil {
		return Subst{}, false
	}
	if sup.IsRaw() {
		return nil, true
	}
	return ts.memberSubst(sup), false
}

// IsSameType reports type identity.
func (ts *Types) IsSameType(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *Primitive:
		b, ok := b.(*Primitive)
		return ok && a.Kind == b.Kind
	case *ClassType:
		b, ok := b.(*ClassType)
		if !ok || a.Sym != b.Sym || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !ts.IsSameType(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *Wildcard:
		b, ok := b.(*Wildcard)
		if !ok || a.Kind != b.Kind {
			return false
		}
		return a.Kind == Unbounded || ts.IsSameType(a.Bound, b.Bound)
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && ts.IsSameType(a.Elem, b.Elem)
	case *Intersection:
		b, ok := b.(*Intersection)
		if !ok || len(a.Types) != len(b.Types) {
			return false
		}
	outer:
		for _, x := range a.Types {
			for _, y := range b.Types {
				if ts.IsSameType(x, y) {
					continue outer
				}
			}
			return false
		}
		return true
	}
	return false
}

// primitive widening per kind: the kinds each kind widens to.
var widening = map[PrimitiveKind][]PrimitiveKind{
	Byte:  {Short, Int, Long, Float, Double},
	Short: {Int, Long, Float, Double},
	Char:  {Int, Long, Float, Double},
	Int:   {Long, Float, Double},
	Long:  {Float, Double},
	Float: {Double},
}

// IsWidening reports whether from converts to to by identity or widening
// primitive conversion.
func IsWidening(from, to *Primitive) bool {
	if from.Kind == to.Kind {
		return true
	}
	for _, k := range widening[from.Kind] {
		if k == to.Kind {
			return true
		}
	}
	return false
}

// IsSubtype reports s <: t. Invalid is a subtype and supertype of
// everything.
func (ts *Types) IsSubtype(s, t Type) bool {
	return ts.isSubtype(s, t, 0)
}

func (ts *Types) isSubtype(s, t Type, depth int) bool {
	if depth > 32 {
		return false
	}
	if IsError(s) || IsError(t) || ts.IsSameType(s, t) {
		return true
	}
	switch tt := t.(type) {
	case *Primitive:
		sp, ok := s.(*Primitive)
		return ok && IsWidening(sp, tt)
	case *Intersection:
		for _, c := range tt.Types {
			if !ts.isSubtype(s, c, depth+1) {
				return false
			}
		}
		return true
	case *Captured:
		if tt.Lower != nil && ts.isSubtype(s, tt.Lower, depth+1) {
			return true
		}
	}
	switch ss := s.(type) {
	case *NullType:
		return IsReference(t)
	case *Primitive:
		return false
	case *Intersection:
		for _, c := range ss.Types {
			if ts.isSubtype(c, t, depth+1) {
				return true
			}
		}
		return false
	case *TypeVar, *Captured:
		for _, sup := range ts.Supertypes(s) {
			if ts.isSubtype(sup, t, depth+1) {
				return true
			}
		}
		return false
	case *ArrayType:
		switch tt := t.(type) {
		case *ArrayType:
			if IsPrimitive(ss.Elem) || IsPrimitive(tt.Elem) {
				return ts.IsSameType(ss.Elem, tt.Elem)
			}
			return ts.isSubtype(ss.Elem, tt.Elem, depth+1)
		case *ClassType:
			switch tt.Sym.Name {
			case ObjectName, CloneableName, SerializableName:
				return true
			}
		}
		return false
	case *ClassType:
		tt, ok := t.(*ClassType)
		if !ok {
			return false
		}
		sup := ts.AsSuper(ss, tt.Sym)
		if sup == nil {
			return false
		}
		if !tt.IsParameterized() {
			return true
		}
		if len(sup.Args) != len(tt.Args) {
			return false
		}
		for i := range tt.Args {
			if !ts.contains(sup.Args[i], tt.Args[i], depth+1) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether type argument s is contained by type argument
// t.
func (ts *Types) Contains(s, t Type) bool {
	return ts.contains(s, t, 0)
}

func (ts *Types) contains(s, t Type, depth int) bool {
	tw, ok := t.(*Wildcard)
	if !ok {
		if _, sw := s.(*Wildcard); sw {
			return false
		}
		return ts.IsSameType(s, t)
	}
	sw, _ := s.(*Wildcard)
	switch tw.Kind {
	case Unbounded:
		return true
	case Extends:
		switch {
		case sw == nil:
			return ts.isSubtype(s, tw.Bound, depth)
		case sw.Kind == Extends:
			return ts.isSubtype(sw.Bound, tw.Bound, depth)
		default:
			return ts.isSubtype(ts.Object(), tw.Bound, depth)
		}
	case Super:
		switch {
		case sw == nil:
			return ts.isSubtype(tw.Bound, s, depth)
		case sw.Kind == Super:
			return ts.isSubtype(tw.Bound, sw.Bound, depth)
		}
	}
	return false
}

// IsAssignable reports whether a value of type s converts to t in an
// assignment context: identity, widening, boxing followed by widening,
// unboxing followed by widening, or an unchecked conversion from a raw
// type.
func (ts *Types) IsAssignable(s, t Type) bool {
	if IsError(s) || IsError(t) {
		return true
	}
	sp, sPrim := s.(*Primitive)
	tp, tPrim := t.(*Primitive)
	switch {
	case sPrim && tPrim:
		return sp.Kind != Void && tp.Kind != Void && (sp.Kind == tp.Kind ||
			(sp.Kind != Boolean && tp.Kind != Boolean && IsWidening(sp, tp)))
	case sPrim:
		if sp.Kind == Void {
			return false
		}
		return ts.IsSubtype(ts.Box(sp), t)
	case tPrim:
		u := Unbox(s)
		if u == nil {
			if c, ok := s.(*Captured); ok {
				u = Unbox(c.Upper)
			}
			if v, ok := s.(*TypeVar); ok && len(v.Bounds) > 0 {
				u = Unbox(v.Bounds[0])
			}
		}
		return u != nil && tp.Kind != Void && (u.Kind == tp.Kind ||
			(u.Kind != Boolean && tp.Kind != Boolean && IsWidening(u, tp)))
	}
	if ts.IsSubtype(s, t) {
		return true
	}
	return ts.IsUncheckedConvertible(s, t)
}

// IsUncheckedConvertible reports whether s reaches the parameterized type t
// only through a raw supertype.
func (ts *Types) IsUncheckedConvertible(s, t Type) bool {
	tc, ok := t.(*ClassType)
	if !ok || !tc.IsParameterized() {
		return false
	}
	sup := ts.AsSuper(s, tc.Sym)
	return sup != nil && sup.IsRaw()
}

// IsCastable is a permissive check for cast expressions: related reference
// types, interfaces, or numeric primitives.
func (ts *Types) IsCastable(s, t Type) bool {
	if IsError(s) || IsError(t) {
		return true
	}
	sp, sPrim := s.(*Primitive)
	tp, tPrim := t.(*Primitive)
	switch {
	case sPrim && tPrim:
		return (sp.IsNumeric() && tp.IsNumeric()) || sp.Kind == tp.Kind
	case sPrim:
		return ts.IsAssignable(s, t)
	case tPrim:
		return ts.IsAssignable(s, t) || ts.IsSubtype(ts.Box(tp), s)
	}
	se, te := ts.Erasure(s), ts.Erasure(t)
	if ts.IsSubtype(se, te) || ts.IsSubtype(te, se) {
		return true
	}
	isIface := func(t Type) bool {
		c, ok := t.(*ClassType)
		return ok && c.Sym.IsInterface()
	}
	isFinal := func(t Type) bool {
		c, ok := t.(*ClassType)
		return ok && c.Sym.IsFinal
	}
	if (isIface(se) && !isFinal(te)) || (isIface(te) && !isFinal(se)) {
		return true
	}
	switch t.(type) {
	case *TypeVar, *Captured, *Intersection:
		return true
	}
	switch s.(type) {
	case *TypeVar, *Captured, *Intersection:
		return true
	}
	return false
}

// UpperBound returns the class-like bound used for member lookup on t.
func (ts *Types) UpperBound(t Type) Type {
	switch t := t.(type) {
	case *TypeVar:
		if len(t.Bounds) == 0 {
			return ts.Object()
		}
		if len(t.Bounds) == 1 {
			return ts.UpperBound(t.Bounds[0])
		}
		return &Intersection{Types: t.Bounds}
	case *Captured:
		return ts.UpperBound(t.Upper)
	case *Wildcard:
		if t.Kind == Extends {
			return ts.UpperBound(t.Bound)
		}
		return ts.Object()
	}
	return t
}

// IsThrowable reports whether t is a subtype of Throwable.
func (ts *Types) IsThrowable(t Type) bool {
	th := ts.Class(ThrowableName)
	return th != nil && ts.AsSuper(t, th) != nil
}

// IsChecked reports whether t is a checked exception type.
func (ts *Types) IsChecked(t Type) bool {
	if IsError(t) || !ts.IsThrowable(t) {
		return false
	}
	for _, n := range []string{RuntimeExceptionName, ErrorName} {
		if c := ts.Class(n); c != nil && ts.AsSuper(t, c) != nil {
			return false
		}
	}
	return true
}
