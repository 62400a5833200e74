package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv map[string]*ClassSym

func (e testEnv) FindType(name string) *ClassSym { return e[name] }

func (e testEnv) HasPackage(name string) bool {
	for k := range e {
		if pkg, _ := SplitName(k); pkg == name {
			return true
		}
	}
	return false
}

type universe struct {
	ts                                    *Types
	object, number, integer, long, double *ClassSym
	str, ser, comparable                  *ClassSym
	collection, list, arrayList, mapc     *ClassSym
	i, j, y                               *ClassSym
}

func ct(c *ClassSym, args ...Type) *ClassType { return &ClassType{Sym: c, Args: args} }

func newUniverse() *universe {
	env := testEnv{}
	class := func(name string, kind ClassKind) *ClassSym {
		pkg, simple := SplitName(name)
		c := &ClassSym{Name: name, Package: pkg, SimpleName: simple, Kind: kind, Visibility: VisibilityPublic}
		env[name] = c
		return c
	}
	param := func(owner *ClassSym, name string, bounds ...Type) *TypeVar {
		v := &TypeVar{Name: name, Bounds: bounds, Owner: owner}
		owner.TypeParams = append(owner.TypeParams, v)
		return v
	}
	u := &universe{}
	u.object = class("java.lang.Object", ClassKindClass)
	u.ser = class("java.io.Serializable", ClassKindInterface)
	class("java.lang.Cloneable", ClassKindInterface)
	u.comparable = class("java.lang.Comparable", ClassKindInterface)
	param(u.comparable, "T")

	u.number = class("java.lang.Number", ClassKindClass)
	u.number.IsAbstract = true
	u.number.Super = ct(u.object)
	u.number.Interfaces = []*ClassType{ct(u.ser)}
	for _, box := range []struct {
		sym  **ClassSym
		name string
	}{{&u.integer, "java.lang.Integer"}, {&u.long, "java.lang.Long"}, {&u.double, "java.lang.Double"}} {
		c := class(box.name, ClassKindClass)
		c.IsFinal = true
		c.Super = ct(u.number)
		c.Interfaces = []*ClassType{ct(u.comparable, ct(c))}
		*box.sym = c
	}
	u.str = class("java.lang.String", ClassKindClass)
	u.str.IsFinal = true
	u.str.Super = ct(u.object)
	u.str.Interfaces = []*ClassType{ct(u.ser), ct(u.comparable, ct(u.str))}

	u.collection = class("java.util.Collection", ClassKindInterface)
	e := param(u.collection, "E")
	_ = e
	u.list = class("java.util.List", ClassKindInterface)
	le := param(u.list, "E")
	u.list.Interfaces = []*ClassType{ct(u.collection, le)}
	u.arrayList = class("java.util.ArrayList", ClassKindClass)
	ae := param(u.arrayList, "E")
	u.arrayList.Super = ct(u.object)
	u.arrayList.Interfaces = []*ClassType{ct(u.list, ae), ct(u.ser)}
	u.mapc = class("java.util.Map", ClassKindInterface)
	param(u.mapc, "K")
	param(u.mapc, "V")

	u.i = class("p.I", ClassKindInterface)
	u.j = class("p.J", ClassKindInterface)
	u.y = class("p.Y", ClassKindClass)
	u.y.Super = ct(u.object)
	param(u.y, "T", ct(u.i), ct(u.j))

	u.ts = New(env)
	return u
}

func TestIsSubtype(t *testing.T) {
	u := newUniverse()
	numbers := &Wildcard{Kind: Extends, Bound: ct(u.number)}
	superInt := &Wildcard{Kind: Super, Bound: ct(u.integer)}
	tests := []struct {
		name string
		s, t Type
		want bool
	}{
		{"class to superclass", ct(u.integer), ct(u.number), true},
		{"superclass to class", ct(u.number), ct(u.integer), false},
		{"class to interface", ct(u.integer), ct(u.ser), true},
		{"unrelated classes", ct(u.str), ct(u.integer), false},
		{"parameterized supertype", ct(u.arrayList, ct(u.str)), ct(u.list, ct(u.str)), true},
		{"through two levels", ct(u.arrayList, ct(u.str)), ct(u.collection, ct(u.str)), true},
		{"invariant arguments", ct(u.arrayList, ct(u.str)), ct(u.list, ct(u.object)), false},
		{"extends wildcard", ct(u.list, ct(u.integer)), ct(u.list, numbers), true},
		{"extends wildcard rejects", ct(u.list, ct(u.str)), ct(u.list, numbers), false},
		{"super wildcard", ct(u.list, ct(u.number)), ct(u.list, superInt), true},
		{"wildcard to wildcard", ct(u.list, &Wildcard{Kind: Extends, Bound: ct(u.integer)}), ct(u.list, numbers), true},
		{"raw to parameterized", ct(u.arrayList), ct(u.list, ct(u.str)), false},
		{"parameterized to raw", ct(u.arrayList, ct(u.str)), ct(u.list), true},
		{"null to class", Null, ct(u.str), true},
		{"null to primitive", Null, IntType, false},
		{"array to object", &ArrayType{Elem: IntType}, ct(u.object), true},
		{"covariant arrays", &ArrayType{Elem: ct(u.str)}, &ArrayType{Elem: ct(u.object)}, true},
		{"primitive arrays are invariant", &ArrayType{Elem: IntType}, &ArrayType{Elem: LongType}, false},
		{"primitive widening", IntType, LongType, true},
		{"intersection member", &Intersection{Types: []Type{ct(u.i), ct(u.j)}}, ct(u.j), true},
		{"to intersection", ct(u.integer), &Intersection{Types: []Type{ct(u.number), ct(u.ser)}}, true},
		{"type variable bound", u.y.TypeParams[0], ct(u.i), true},
		{"invalid is compatible", Invalid, ct(u.str), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.ts.IsSubtype(tt.s, tt.t), "%v <: %v", tt.s, tt.t)
		})
	}
}

func TestIsAssignable(t *testing.T) {
	u := newUniverse()
	tests := []struct {
		name string
		s, t Type
		want bool
	}{
		{"widening", IntType, LongType, true},
		{"narrowing", LongType, IntType, false},
		{"boolean to int", BooleanType, IntType, false},
		{"boxing", IntType, ct(u.integer), true},
		{"boxing then widening", IntType, ct(u.number), true},
		{"boxing to wrong wrapper", IntType, ct(u.long), false},
		{"unboxing", ct(u.integer), IntType, true},
		{"unboxing then widening", ct(u.integer), DoubleType, true},
		{"unchecked raw", ct(u.arrayList), ct(u.list, ct(u.str)), true},
		{"void", VoidType, ct(u.object), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.ts.IsAssignable(tt.s, tt.t))
		})
	}
}

func TestString(t *testing.T) {
	u := newUniverse()
	intersection := &Intersection{Types: []Type{ct(u.i), ct(u.j)}}
	tests := []struct {
		typ  Type
		want string
	}{
		{ct(u.mapc, ct(u.str), ct(u.list, ct(u.integer))), "Map<String,List<Integer>>"},
		{ct(u.y, intersection), "Y<I & J>"},
		{ct(u.list, &Wildcard{Kind: Extends, Bound: ct(u.number)}), "List<? extends Number>"},
		{ct(u.list, &Wildcard{}), "List<?>"},
		{&ArrayType{Elem: &ArrayType{Elem: IntType}}, "int[][]"},
		{ct(u.arrayList), "ArrayList"},
		{&Captured{ID: 3, Wildcard: &Wildcard{Kind: Super, Bound: ct(u.integer)}}, "capture#3-of ? super Integer"},
		{Null, "null"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestSignature(t *testing.T) {
	u := newUniverse()
	m := &MethodSym{
		Name:    "format",
		Owner:   u.str,
		Params:  []Type{ct(u.str), &ArrayType{Elem: ct(u.object)}},
		Varargs: true,
	}
	assert.Equal(t, "format(String, Object...)", m.Signature())
	ctor := &MethodSym{Name: ConstructorName, Owner: u.arrayList, Params: []Type{IntType}}
	assert.Equal(t, "ArrayList(int)", ctor.Signature())
}

func TestAsSuper(t *testing.T) {
	u := newUniverse()
	got := u.ts.AsSuper(ct(u.arrayList, ct(u.str)), u.collection)
	require.NotNil(t, got)
	assert.Equal(t, "Collection<String>", got.String())

	raw := u.ts.AsSuper(ct(u.arrayList), u.collection)
	require.NotNil(t, raw)
	assert.True(t, raw.IsRaw())

	assert.Nil(t, u.ts.AsSuper(ct(u.str), u.list))
}

func TestCapture(t *testing.T) {
	u := newUniverse()
	got := u.ts.Capture(ct(u.list, &Wildcard{Kind: Extends, Bound: ct(u.number)}))
	c, ok := got.(*ClassType)
	require.True(t, ok)
	cv, ok := c.Args[0].(*Captured)
	require.True(t, ok, "argument is %T", c.Args[0])
	assert.Equal(t, "capture#1-of ? extends Number", cv.String())
	assert.Equal(t, "Number", cv.Upper.String())
	assert.Nil(t, cv.Lower)

	got = u.ts.Capture(ct(u.y, &Wildcard{}))
	cv = got.(*ClassType).Args[0].(*Captured)
	assert.Equal(t, 2, cv.ID)
	assert.Equal(t, "I & J", cv.Upper.String())

	plain := ct(u.list, ct(u.str))
	assert.Same(t, plain, u.ts.Capture(plain))
}

func TestGlb(t *testing.T) {
	u := newUniverse()
	assert.Equal(t, "Integer", u.ts.Glb(ct(u.number), ct(u.integer)).String())
	assert.Equal(t, "Number & I", u.ts.Glb(ct(u.i), ct(u.number), ct(u.object)).String())
	assert.Nil(t, u.ts.Glb())
}

func TestLub(t *testing.T) {
	u := newUniverse()
	tests := []struct {
		name  string
		types []Type
		want  string
	}{
		{"single", []Type{ct(u.str)}, "String"},
		{"null ignored", []Type{Null, ct(u.str)}, "String"},
		{"subtype", []Type{ct(u.integer), ct(u.number)}, "Number"},
		{"siblings", []Type{ct(u.integer), ct(u.double)}, "Number & Comparable<? extends Number & Comparable<?>>"},
		{"same parameterization", []Type{ct(u.arrayList, ct(u.str)), ct(u.list, ct(u.str))}, "List<String>"},
		{"only null", []Type{Null}, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.ts.Lub(tt.types...).String())
		})
	}
}

func TestIsDenotable(t *testing.T) {
	u := newUniverse()
	assert.True(t, IsDenotable(ct(u.list, &Wildcard{Kind: Extends, Bound: ct(u.number)})))
	assert.False(t, IsDenotable(ct(u.y, &Intersection{Types: []Type{ct(u.i), ct(u.j)}})))
	assert.False(t, IsDenotable(ct(u.list, &Captured{ID: 1, Wildcard: &Wildcard{}})))
	assert.True(t, IsDenotable(&ArrayType{Elem: IntType}))
}

func TestIsAccessible(t *testing.T) {
	outer := &ClassSym{Name: "a.Outer", Package: "a", SimpleName: "Outer", Visibility: VisibilityPublic}
	hidden := &ClassSym{Name: "a.Outer.Hidden", Package: "a", SimpleName: "Hidden", Visibility: VisibilityPrivate, Outer: outer}
	pkgOnly := &ClassSym{Name: "a.Local", Package: "a", SimpleName: "Local", Visibility: VisibilityPackage}
	other := &ClassSym{Name: "b.Other", Package: "b", SimpleName: "Other", Visibility: VisibilityPublic}

	assert.True(t, IsAccessible(hidden, outer, "a"))
	assert.False(t, IsAccessible(hidden, other, "b"))
	assert.True(t, IsAccessible(pkgOnly, nil, "a"))
	assert.False(t, IsAccessible(pkgOnly, other, "b"))
	assert.Equal(t, "Outer.Hidden", hidden.ReadableName())
}

func TestSubst(t *testing.T) {
	u := newUniverse()
	e := u.list.TypeParams[0]
	s := NewSubst([]*TypeVar{e}, []Type{ct(u.str)})
	got := s.Apply(ct(u.mapc, e, &ArrayType{Elem: e}))
	assert.Equal(t, "Map<String,String[]>", got.String())
	assert.True(t, Mentions(ct(u.list, e), e))
	assert.False(t, Mentions(got, e))

	v := &InferenceVar{ID: 1, Param: e}
	assert.False(t, IsProper(ct(u.list, v)))
	assert.Equal(t, []*InferenceVar{v}, InferenceVars(ct(u.mapc, v, v)))
}
