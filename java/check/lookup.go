package check

import (
	"github.com/dhamidi/javafront/java/types"
)

var lengthField = &types.FieldSym{
	Name:       "length",
	Type:       types.IntType,
	Visibility: types.VisibilityPublic,
	IsFinal:    true,
}

// supertypeSyms lists sym and all its superclasses and superinterfaces,
// breadth first, ending with Object.
func (c *Checker) supertypeSyms(sym *types.ClassSym) []*types.ClassSym {
	if sym == nil {
		return nil
	}
	seen := map[*types.ClassSym]bool{sym: true}
	out := []*types.ClassSym{sym}
	for i := 0; i < len(out); i++ {
		s := out[i]
		if c.decls[s] != nil {
			c.ensureHeader(s)
		}
		s.Complete()
		next := make([]*types.ClassSym, 0, len(s.Interfaces)+1)
		if s.Super != nil {
			next = append(next, s.Super.Sym)
		}
		for _, it := range s.Interfaces {
			next = append(next, it.Sym)
		}
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	if obj := c.FindType(types.ObjectName); obj != nil && !seen[obj] {
		out = append(out, obj)
	}
	return out
}

// roots splits a receiver type into the class types whose members it has.
func roots(ts *types.Types, recv types.Type) []*types.ClassType {
	recv = ts.UpperBound(recv)
	switch t := recv.(type) {
	case *types.ClassType:
		return []*types.ClassType{t}
	case *types.Intersection:
		var out []*types.ClassType
		for _, it := range t.Types {
			out = append(out, roots(ts, it)...)
		}
		return out
	case *types.ArrayType:
		if o, ok := ts.Object().(*types.ClassType); ok {
			return []*types.ClassType{o}
		}
	}
	return nil
}

// view returns t as seen from a receiver of type recv, where t is declared
// in owner. Members of raw types are erased.
func view(ts *types.Types, recv types.Type, owner *types.ClassSym, t types.Type) types.Type {
	if t == nil {
		return nil
	}
	s, raw := ts.MemberSubst(recv, owner)
	if raw {
		return ts.Erasure(t)
	}
	return s.Apply(t)
}

// findField finds the field name of recv and its type as seen from recv.
func (c *Checker) findField(ts *types.Types, recv types.Type, name string) (*types.FieldSym, types.Type) {
	if types.IsError(recv) {
		return nil, nil
	}
	if _, ok := ts.UpperBound(recv).(*types.ArrayType); ok {
		if name == "length" {
			return lengthField, types.IntType
		}
		return nil, nil
	}
	for _, r := range roots(ts, recv) {
		for _, s := range c.supertypeSyms(r.Sym) {
			if fs := s.DeclaredField(name); fs != nil {
				return fs, view(ts, r, fs.Owner, fs.Type)
			}
		}
	}
	return nil, nil
}

// methodsOf lists the methods named name that recv has, leaving out
// methods overridden by one already listed.
func (c *Checker) methodsOf(ts *types.Types, recv types.Type, name string) []*types.MethodSym {
	var out []*types.MethodSym
	var sigs [][]types.Type
	add := func(r *types.ClassType, m *types.MethodSym) {
		params := erasedParams(ts, r, m)
		for i, prev := range out {
			if !sameTypes(ts, sigs[i], params) {
				continue
			}
			if prev.IsAbstract && !m.IsAbstract && prev.Owner.IsInterface() && !m.Owner.IsInterface() {
				out[i], sigs[i] = m, params
			}
			return
		}
		out = append(out, m)
		sigs = append(sigs, params)
	}
	for _, r := range roots(ts, recv) {
		if name == types.ConstructorName {
			for _, m := range r.Sym.Constructors() {
				add(r, m)
			}
			continue
		}
		for _, s := range c.supertypeSyms(r.Sym) {
			for _, m := range s.DeclaredMethods(name) {
				add(r, m)
			}
		}
	}
	return out
}

func erasedParams(ts *types.Types, recv types.Type, m *types.MethodSym) []types.Type {
	out := make([]types.Type, len(m.Params))
	for i, p := range m.Params {
		out[i] = ts.Erasure(view(ts, recv, m.Owner, p))
	}
	return out
}

func sameTypes(ts *types.Types, a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ts.IsSameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

// funcSig is the function type of a functional interface.
type funcSig struct {
	iface  *types.ClassType
	method *types.MethodSym
	params []types.Type
	result types.Type
	throws []types.Type
}

// nonWildcard replaces wildcard arguments of a functional interface type by
// their bounds.
func nonWildcard(ts *types.Types, t *types.ClassType) *types.ClassType {
	if !t.HasWildcards() {
		return t
	}
	out := &types.ClassType{Sym: t.Sym, Outer: t.Outer, Args: make([]types.Type, len(t.Args))}
	for i, a := range t.Args {
		w, ok := a.(*types.Wildcard)
		if !ok {
			out.Args[i] = a
			continue
		}
		switch {
		case w.Kind != types.Unbounded:
			out.Args[i] = w.Bound
		case i < len(t.Sym.TypeParams) && len(t.Sym.TypeParams[i].Bounds) > 0:
			out.Args[i] = ts.Erasure(t.Sym.TypeParams[i].Bounds[0])
		default:
			out.Args[i] = ts.Object()
		}
	}
	return out
}

func isObjectMethod(m *types.MethodSym) bool {
	switch m.Name {
	case "equals":
		return len(m.Params) == 1 && types.IsObject(m.Params[0])
	case "hashCode", "toString":
		return len(m.Params) == 0
	}
	return false
}

// functionType returns the single abstract method of t viewed from t, or
// nil when t is not a functional interface.
func (c *Checker) functionType(ts *types.Types, t types.Type) *funcSig {
	if in, ok := t.(*types.Intersection); ok {
		for _, it := range in.Types {
			if fs := c.functionType(ts, it); fs != nil {
				return fs
			}
		}
		return nil
	}
	ct, ok := t.(*types.ClassType)
	if !ok || !ct.Sym.IsInterface() || ct.Sym.Kind == types.ClassKindAnnotation {
		return nil
	}
	ct = nonWildcard(ts, ct)
	type seen struct {
		m      *types.MethodSym
		params []types.Type
	}
	var kept []seen
	keep := func(m *types.MethodSym) {
		params := erasedParams(ts, ct, m)
		for _, k := range kept {
			if k.m.Name == m.Name && sameTypes(ts, k.params, params) {
				return
			}
		}
		kept = append(kept, seen{m, params})
	}
	for _, s := range c.supertypeSyms(ct.Sym) {
		if !s.IsInterface() {
			continue
		}
		for _, m := range s.Methods {
			if m.IsStatic || m.Visibility == types.VisibilityPrivate || isObjectMethod(m) {
				continue
			}
			keep(m)
		}
	}
	var abstract *types.MethodSym
	for _, k := range kept {
		if !k.m.IsAbstract {
			continue
		}
		if abstract != nil {
			return nil
		}
		abstract = k.m
	}
	if abstract == nil {
		return nil
	}
	sig := &funcSig{iface: ct, method: abstract, result: view(ts, ct, abstract.Owner, abstract.Result)}
	for _, p := range abstract.Params {
		sig.params = append(sig.params, view(ts, ct, abstract.Owner, p))
	}
	for _, th := range abstract.Throws {
		sig.throws = append(sig.throws, view(ts, ct, abstract.Owner, th))
	}
	return sig
}
