package types

import "slices"

// Glb returns the greatest lower bound of ts: the types that are not
// supertypes of another member, as a single type or an Intersection with
// the class component first. It returns nil for no types.
func (ts *Types) Glb(types ...Type) Type {
	var flat []Type
	for _, t := range types {
		if t == nil {
			continue
		}
		if in, ok := t.(*Intersection); ok {
			flat = append(flat, in.Types...)
			continue
		}
		flat = append(flat, t)
	}
	var keep []Type
	for i, t := range flat {
		redundant := false
		for j, u := range flat {
			if i == j {
				continue
			}
			same := ts.IsSameType(t, u)
			if (same && j < i) || (!same && ts.IsSubtype(u, t)) {
				redundant = true
				break
			}
		}
		if !redundant {
			keep = append(keep, t)
		}
	}
	switch len(keep) {
	case 0:
		if len(flat) > 0 {
			return flat[0]
		}
		return nil
	case 1:
		return keep[0]
	}
	slices.SortStableFunc(keep, func(a, b Type) int {
		return classRank(a) - classRank(b)
	})
	return &Intersection{Types: keep}
}

func classRank(t Type) int {
	if c, ok := t.(*ClassType); ok && !c.Sym.IsInterface() {
		return 0
	}
	if _, ok := t.(*ArrayType); ok {
		return 0
	}
	return 1
}

// Lub returns the least upper bound of ts. Null is ignored unless it is the
// only type. Recursive parameterizations are cut off with "?".
func (ts *Types) Lub(types ...Type) Type {
	return ts.lub(types, 0)
}

func (ts *Types) lub(types []Type, depth int) Type {
	var refs []Type
	for _, t := range types {
		if _, ok := t.(*NullType); ok {
			continue
		}
		if IsError(t) {
			return Invalid
		}
		if !slices.ContainsFunc(refs, func(u Type) bool { return ts.IsSameType(t, u) }) {
			refs = append(refs, t)
		}
	}
	switch len(refs) {
	case 0:
		return Null
	case 1:
		return refs[0]
	}
	for _, t := range refs {
		all := true
		for _, u := range refs {
			if !ts.IsSubtype(u, t) {
				all = false
				break
			}
		}
		if all {
			return t
		}
	}

	// Erased candidates common to every type, in the order the first type
	// reaches them.
	ec := ts.erasedSupertypes(refs[0])
	for _, t := range refs[1:] {
		other := ts.erasedSupertypes(t)
		ec = slices.DeleteFunc(ec, func(c *ClassSym) bool {
			return !slices.Contains(other, c)
		})
	}
	var mec []*ClassSym
	for _, c := range ec {
		minimal := true
		for _, d := range ec {
			if d != c && ts.AsSuper(&ClassType{Sym: d}, c) != nil {
				minimal = false
				break
			}
		}
		if minimal {
			mec = append(mec, c)
		}
	}

	var cands []Type
	for _, g := range mec {
		if !g.IsGeneric() {
			cands = append(cands, &ClassType{Sym: g})
			continue
		}
		var lcp *ClassType
		for _, t := range refs {
			sup := ts.AsSuper(t, g)
			if sup == nil || sup.IsRaw() {
				lcp = &ClassType{Sym: g}
				break
			}
			if lcp == nil {
				lcp = sup
				continue
			}
			lcp = ts.lcp(lcp, sup, depth)
		}
		cands = append(cands, lcp)
	}
	if len(cands) == 0 {
		return ts.Object()
	}
	return ts.Glb(cands...)
}

// erasedSupertypes returns the classes t reaches, t's own class first.
func (ts *Types) erasedSupertypes(t Type) []*ClassSym {
	var out []*ClassSym
	seen := map[*ClassSym]bool{}
	queue := []Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if c, ok := cur.(*ClassType); ok {
			if seen[c.Sym] {
				continue
			}
			seen[c.Sym] = true
			out = append(out, c.Sym)
		}
		queue = append(queue, ts.Supertypes(cur)...)
	}
	return out
}

// lcp is the least containing parameterization of two uses of one class.
func (ts *Types) lcp(a, b *ClassType, depth int) *ClassType {
	if len(a.Args) != len(b.Args) {
		return &ClassType{Sym: a.Sym}
	}
	out := &ClassType{Sym: a.Sym, Outer: a.Outer, Args: make([]Type, len(a.Args))}
	for i := range a.Args {
		out.Args[i] = ts.lcta(a.Args[i], b.Args[i], depth)
	}
	return out
}

// lcta is the least containing type argument.
func (ts *Types) lcta(a, b Type, depth int) Type {
	if ts.IsSameType(a, b) {
		return a
	}
	if depth >= 1 {
		return &Wildcard{Kind: Unbounded}
	}
	aw, _ := a.(*Wildcard)
	bw, _ := b.(*Wildcard)
	upper := func(w *Wildcard, t Type) (Type, bool) {
		if w == nil {
			return t, true
		}
		if w.Kind == Extends {
			return w.Bound, true
		}
		return nil, false
	}
	lower := func(w *Wildcard, t Type) (Type, bool) {
		if w == nil {
			return t, true
		}
		if w.Kind == Super {
			return w.Bound, true
		}
		return nil, false
	}
	if au, ok := upper(aw, a); ok {
		if bu, ok := upper(bw, b); ok {
			l := ts.lub([]Type{au, bu}, depth+1)
			if IsObject(l) {
				return &Wildcard{Kind: Unbounded}
			}
			return &Wildcard{Kind: Extends, Bound: l}
		}
	}
	if al, ok := lower(aw, a); ok {
		if bl, ok := lower(bw, b); ok {
			return &Wildcard{Kind: Super, Bound: ts.Glb(al, bl)}
		}
	}
	return &Wildcard{Kind: Unbounded}
}
