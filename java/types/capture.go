package types

// Capture applies capture conversion to t. Each wildcard argument becomes a
// fresh captured variable numbered in order of creation.
func (ts *Types) Capture(t Type) Type {
	c, ok := t.(*ClassType)
	if !ok || !c.HasWildcards() {
		return t
	}
	params := c.Sym.TypeParams
	if len(params) != len(c.Args) {
		return t
	}
	out := &ClassType{Sym: c.Sym, Outer: c.Outer, Args: make([]Type, len(c.Args))}
	fresh := make([]*Captured, len(c.Args))
	for i, a := range c.Args {
		w, ok := a.(*Wildcard)
		if !ok {
			out.Args[i] = a
			continue
		}
		ts.captures++
		fresh[i] = &Captured{ID: ts.captures, Wildcard: w}
		out.Args[i] = fresh[i]
	}
	s := NewSubst(params, out.Args)
	for i, cv := range fresh {
		if cv == nil {
			continue
		}
		var declared []Type
		for _, b := range params[i].Bounds {
			declared = append(declared, s.Apply(b))
		}
		switch cv.Wildcard.Kind {
		case Extends:
			cv.Upper = ts.Glb(append([]Type{cv.Wildcard.Bound}, declared...)...)
		case Super:
			cv.Lower = cv.Wildcard.Bound
			cv.Upper = ts.Glb(declared...)
		default:
			cv.Upper = ts.Glb(declared...)
		}
		if cv.Upper == nil {
			cv.Upper = ts.Object()
		}
	}
	return out
}

// Captures returns how many captured variables ts has created.
func (ts *Types) Captures() int { return ts.captures }
