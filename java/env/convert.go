package env

import (
	"fmt"
	"strings"

	"github.com/dhamidi/javafront/classfile"
	"github.com/dhamidi/javafront/java/types"
)

// completer fills in the type parameters, supertypes and members of a
// class path symbol from its stub.
type completer struct {
	cp   *ClassPath
	stub *ClassStub
	sym  *types.ClassSym
}

// scope maps type variable names; lookups fall back to the parent.
type scope struct {
	vars   map[string]*types.TypeVar
	parent *scope
}

func (s *scope) lookup(name string) *types.TypeVar {
	for ; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v
		}
	}
	return nil
}

func (c *completer) complete() {
	s, sym := c.stub, c.sym
	sc := c.outerScope()

	var sig *classfile.ClassSig
	if s.Signature != "" {
		var err error
		if sig, err = classfile.ParseClassSignature(s.Signature); err != nil {
			log.Warningf("%s: %s", s.Name, err)
			sig = nil
		}
	}
	if sig != nil {
		sym.TypeParams, sc = c.declareParams(sig.TypeParams, sym, sc)
		if s.Super != "" {
			sym.Super = c.classType(sig.Super, sc)
		}
		for _, i := range sig.Interfaces {
			sym.Interfaces = append(sym.Interfaces, c.classType(i, sc))
		}
	} else {
		if s.Super != "" {
			sym.Super = c.named(s.Super)
		}
		for _, i := range s.Interfaces {
			sym.Interfaces = append(sym.Interfaces, c.named(i))
		}
	}
	if sym.IsInterface() {
		sym.Super = nil
	}

	for _, f := range s.Fields {
		c.field(f, sc)
	}
	for _, m := range s.Methods {
		c.method(m, sc)
	}
	c.cp.mu.Lock()
	for _, name := range s.Members {
		if m := c.cp.symbolLocked(name); m != nil {
			sym.MemberTypes = append(sym.MemberTypes, m)
		}
	}
	c.cp.mu.Unlock()
}

// outerScope is the type variable scope of the enclosing classes that the
// class can refer to: none for static nested classes.
func (c *completer) outerScope() *scope {
	var chain []*types.ClassSym
	for o := c.sym; o.Outer != nil && o.IsInner(); o = o.Outer {
		chain = append(chain, o.Outer)
	}
	var sc *scope
	for i := len(chain) - 1; i >= 0; i-- {
		o := chain[i]
		o.Complete()
		vars := map[string]*types.TypeVar{}
		for _, v := range o.TypeParams {
			vars[v.Name] = v
		}
		sc = &scope{vars: vars, parent: sc}
	}
	return sc
}

// declareParams creates the type variables first so that bounds may refer
// to any of them.
func (c *completer) declareParams(tps []classfile.TypeParam, owner types.Symbol, parent *scope) ([]*types.TypeVar, *scope) {
	if len(tps) == 0 {
		return nil, parent
	}
	sc := &scope{vars: map[string]*types.TypeVar{}, parent: parent}
	vars := make([]*types.TypeVar, len(tps))
	for i, tp := range tps {
		vars[i] = &types.TypeVar{Name: tp.Name, Owner: owner}
		sc.vars[tp.Name] = vars[i]
	}
	for i, tp := range tps {
		for _, b := range tp.Bounds {
			vars[i].Bounds = append(vars[i].Bounds, c.typ(b, sc))
		}
		if len(vars[i].Bounds) == 0 {
			vars[i].Bounds = []types.Type{c.named("java/lang/Object")}
		}
	}
	return vars, sc
}

func (c *completer) field(f MemberStub, sc *scope) {
	flags := classfile.AccessFlags(f.Flags)
	var t types.Type
	if f.Signature != "" {
		if sig, err := classfile.ParseFieldSignature(f.Signature); err == nil {
			t = c.typ(sig, sc)
		}
	}
	if t == nil {
		d, err := classfile.ParseDescriptor(f.Descriptor)
		if err != nil {
			log.Warningf("%s.%s: %s", c.stub.Name, f.Name, err)
			return
		}
		t = c.typ(d, sc)
	}
	c.sym.Fields = append(c.sym.Fields, &types.FieldSym{
		Name:       f.Name,
		Owner:      c.sym,
		Type:       t,
		Visibility: visibility(flags),
		IsStatic:   flags.IsStatic(),
		IsFinal:    flags.IsFinal(),
	})
}

func (c *completer) method(m MemberStub, sc *scope) {
	flags := classfile.AccessFlags(m.Flags)
	sym := c.sym
	if m.Name == types.ConstructorName && sym.Kind == types.ClassKindEnum {
		return
	}
	ms := &types.MethodSym{
		Name:       m.Name,
		Owner:      sym,
		Varargs:    flags.Has(classfile.AccVarargs),
		Visibility: visibility(flags),
		IsStatic:   flags.IsStatic(),
		IsAbstract: flags.IsAbstract(),
		IsFinal:    flags.IsFinal(),
	}
	ms.IsDefault = sym.IsInterface() && !ms.IsAbstract && !ms.IsStatic && ms.Visibility != types.VisibilityPrivate

	var sig *classfile.MethodSig
	generic := false
	if m.Signature != "" {
		if s, err := classfile.ParseMethodSignature(m.Signature); err == nil {
			sig, generic = s, true
		}
	}
	if sig == nil {
		s, err := classfile.ParseMethodDescriptor(m.Descriptor)
		if err != nil {
			log.Warningf("%s.%s: %s", c.stub.Name, m.Name, err)
			return
		}
		sig = s
	}
	ms.TypeParams, sc = c.declareParams(sig.TypeParams, ms, sc)
	params := sig.Params
	// Descriptors of inner class constructors start with the enclosing
	// instance; signatures leave it out.
	if !generic && m.Name == types.ConstructorName && sym.IsInner() && len(params) > 0 {
		params = params[1:]
	}
	for _, p := range params {
		ms.Params = append(ms.Params, c.typ(p, sc))
	}
	ms.ParamNames = paramNames(m.ParamNames, len(ms.Params))
	if m.Name == types.ConstructorName {
		ms.Result = types.VoidType
	} else {
		ms.Result = c.typ(sig.Result, sc)
	}
	if len(sig.Throws) > 0 {
		for _, t := range sig.Throws {
			ms.Throws = append(ms.Throws, c.typ(t, sc))
		}
	} else {
		for _, e := range m.Exceptions {
			ms.Throws = append(ms.Throws, c.named(e))
		}
	}
	sym.Methods = append(sym.Methods, ms)
}

// paramNames aligns MethodParameters names with the parameter list; the
// names are made up when the class was compiled without them.
func paramNames(names []string, n int) []string {
	out := make([]string, n)
	off := len(names) - n
	for i := range out {
		if j := i + off; j >= 0 && j < len(names) && names[j] != "" {
			out[i] = names[j]
		} else {
			out[i] = fmt.Sprintf("arg%d", i)
		}
	}
	return out
}

func (c *completer) typ(t *classfile.TypeSig, sc *scope) types.Type {
	switch {
	case t.Base != 0:
		return baseType(t.Base)
	case t.Var != "":
		if v := sc.lookup(t.Var); v != nil {
			return v
		}
		log.Debugf("%s: unknown type variable %s", c.stub.Name, t.Var)
		return c.named("java/lang/Object")
	case t.Elem != nil:
		return &types.ArrayType{Elem: c.typ(t.Elem, sc)}
	}
	return c.classType(t, sc)
}

func (c *completer) classType(t *classfile.TypeSig, sc *scope) *types.ClassType {
	var ct *types.ClassType
	name := ""
	for i, part := range t.Class {
		if i == 0 {
			name = part.Name
		} else {
			name += "$" + part.Name
		}
		next := c.named(name)
		if len(part.Args) > 0 {
			next.Args = make([]types.Type, len(part.Args))
			for j, a := range part.Args {
				next.Args[j] = c.typeArg(a, sc)
			}
		}
		if ct != nil && ct.IsParameterized() {
			next.Outer = ct
		}
		ct = next
	}
	return ct
}

func (c *completer) typeArg(a classfile.TypeArg, sc *scope) types.Type {
	switch a.Wildcard {
	case '*':
		return &types.Wildcard{Kind: types.Unbounded}
	case '+':
		return &types.Wildcard{Kind: types.Extends, Bound: c.typ(a.Type, sc)}
	case '-':
		return &types.Wildcard{Kind: types.Super, Bound: c.typ(a.Type, sc)}
	}
	return c.typ(a.Type, sc)
}

// named returns the plain class type for an internal name, looking in the
// class path and then in its parent. Missing classes get an empty
// placeholder symbol so that signatures stay well formed.
func (c *completer) named(internal string) *types.ClassType {
	cp := c.cp
	cp.mu.Lock()
	sym := cp.symbolLocked(internal)
	cp.mu.Unlock()
	if sym == nil && cp.parent != nil {
		sym = cp.parent.FindType(sourceName(internal))
	}
	if sym == nil {
		cp.mu.Lock()
		sym = cp.placeholderLocked(internal)
		cp.mu.Unlock()
	}
	return &types.ClassType{Sym: sym}
}

// placeholderLocked returns a public class with no members standing in
// for a class the path does not contain.
func (cp *ClassPath) placeholderLocked(internal string) *types.ClassSym {
	if sym, ok := cp.syms[internal]; ok {
		return sym
	}
	log.Debugf("missing class %s", internal)
	sym := types.NewLazyClass(sourceName(internal), nil)
	sym.Package, sym.SimpleName = packageOf(internal)
	if i := strings.LastIndexByte(sym.SimpleName, '$'); i >= 0 {
		sym.SimpleName = sym.SimpleName[i+1:]
	}
	sym.Kind = types.ClassKindClass
	sym.Visibility = types.VisibilityPublic
	sym.Origin = internal + ".class"
	cp.syms[internal] = sym
	return sym
}

func baseType(b byte) types.Type {
	switch b {
	case 'B':
		return types.ByteType
	case 'C':
		return types.CharType
	case 'D':
		return types.DoubleType
	case 'F':
		return types.FloatType
	case 'I':
		return types.IntType
	case 'J':
		return types.LongType
	case 'S':
		return types.ShortType
	case 'Z':
		return types.BooleanType
	}
	return types.VoidType
}
