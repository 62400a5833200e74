package types

// Subst maps type variables and inference variables to types. Keys are
// *TypeVar or *InferenceVar.
type Subst map[Type]Type

// NewSubst pairs params with args. Missing args leave the variable alone.
func NewSubst(params []*TypeVar, args []Type) Subst {
	s := make(Subst, len(params))
	for i, p := range params {
		if i < len(args) {
			s[p] = args[i]
		}
	}
	return s
}

// Apply substitutes s throughout t. Captured variables are opaque.
func (s Subst) Apply(t Type) Type {
	if len(s) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeVar:
		if r, ok := s[t]; ok {
			return r
		}
	case *InferenceVar:
		if r, ok := s[t]; ok {
			return r
		}
	case *ClassType:
		if len(t.Args) == 0 && t.Outer == nil {
			return t
		}
		out := &ClassType{Sym: t.Sym}
		if t.Outer != nil {
			out.Outer = s.Apply(t.Outer).(*ClassType)
		}
		if t.Args != nil {
			out.Args = s.List(t.Args)
		}
		return out
	case *Wildcard:
		if t.Bound == nil {
			return t
		}
		return &Wildcard{Kind: t.Kind, Bound: s.Apply(t.Bound)}
	case *ArrayType:
		return &ArrayType{Elem: s.Apply(t.Elem)}
	case *Intersection:
		return &Intersection{Types: s.List(t.Types)}
	}
	return t
}

// List applies s to each element of ts.
func (s Subst) List(ts []Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = s.Apply(t)
	}
	return out
}

// Method returns m's parameter, result and thrown types under s.
func (s Subst) Method(m *MethodSym) (params []Type, result Type, throws []Type) {
	return s.List(m.Params), s.Apply(m.Result), s.List(m.Throws)
}

// Mentions reports whether t mentions v, which is a *TypeVar or an
// *InferenceVar.
func Mentions(t Type, v Type) bool {
	found := false
	Walk(t, func(u Type) bool {
		if u == v {
			found = true
		}
		return !found
	})
	return found
}

// InferenceVars returns the inference variables t mentions, in order of
// first appearance.
func InferenceVars(t Type) []*InferenceVar {
	var out []*InferenceVar
	seen := map[*InferenceVar]bool{}
	Walk(t, func(u Type) bool {
		if v, ok := u.(*InferenceVar); ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
		return true
	})
	return out
}

// IsProper reports whether t mentions no inference variable.
func IsProper(t Type) bool {
	proper := true
	Walk(t, func(u Type) bool {
		if _, ok := u.(*InferenceVar); ok {
			proper = false
		}
		return proper
	})
	return proper
}
