package infer

import (
	"github.com/dhamidi/javafront/java/types"
)

// Resolve picks an instantiation for every variable, one at a time, adding
// α = T and re-incorporating after each choice so the witness is checked
// against every bound.
func (c *Context) Resolve() bool {
	if c.state == Error {
		return false
	}
	c.state = Resolve
	for {
		v := c.next()
		if v == nil {
			break
		}
		t := c.candidate(v)
		c.inst[v] = t
		c.Add(Formula{Kind: Equal, S: v, T: t})
		if !c.Reduce() {
			return false
		}
		c.state = Resolve
	}
	for _, v := range c.vars {
		c.inst[v] = c.Instantiate(c.inst[v])
	}
	if c.denotable {
		for _, v := range c.vars {
			t := c.inst[v]
			if !types.IsDenotable(t) {
				return c.fail(&Failure{Kind: NonDenotable, Type: t})
			}
			if bad := types.IsTypeAccessible(t, c.from, c.pkg); bad != nil {
				return c.fail(&Failure{Kind: Inaccessible, Type: t, Class: bad})
			}
		}
	}
	c.state = Success
	return true
}

// Resolved returns the instantiation of v after a successful Resolve.
func (c *Context) Resolved(v *types.InferenceVar) types.Type { return c.inst[v] }

// next returns an unresolved variable whose bounds depend only on resolved
// variables, or any unresolved variable when they all depend on each
// other.
func (c *Context) next() *types.InferenceVar {
	var first *types.InferenceVar
	for _, v := range c.vars {
		if _, done := c.inst[v]; done {
			continue
		}
		if first == nil {
			first = v
		}
		if c.dependsOnlyOnResolved(v) {
			return v
		}
	}
	return first
}

func (c *Context) dependsOnlyOnResolved(v *types.InferenceVar) bool {
	for _, b := range c.Bounds(v) {
		for _, w := range types.InferenceVars(c.inst.Apply(b.Type)) {
			if w == v {
				continue
			}
			if _, done := c.inst[w]; !done {
				return false
			}
		}
	}
	return true
}

// candidate chooses the instantiation of v from its proper bounds: an
// equality, else the lub of the lower bounds, else RuntimeException for a
// throws-only variable, else the glb of the upper bounds.
func (c *Context) candidate(v *types.InferenceVar) types.Type {
	vb := c.bounds[v]
	proper := func(ts []types.Type) []types.Type {
		var out []types.Type
		for _, t := range ts {
			t = c.Instantiate(t)
			if types.IsProper(t) {
				out = append(out, t)
			}
		}
		return out
	}
	if eq := proper(vb.eq); len(eq) > 0 {
		return eq[0]
	}
	if lower := proper(vb.lower); len(lower) > 0 {
		if l := c.ts.Lub(lower...); l != types.Type(types.Null) {
			return l
		}
	}
	var uppers []types.Type
	for _, u := range vb.upper {
		u = c.Instantiate(u)
		if !types.IsProper(u) {
			// A bound that refers back to v, like T extends Comparable<T>,
			// contributes its erasure.
			u = c.ts.Erasure(u)
		}
		uppers = append(uppers, u)
	}
	if c.throws[v] && throwsOnly(uppers) {
		if rt := c.ts.Named(types.RuntimeExceptionName); !types.IsError(rt) {
			return rt
		}
	}
	if g := c.ts.Glb(uppers...); g != nil {
		return g
	}
	return c.ts.Object()
}

func throwsOnly(uppers []types.Type) bool {
	for _, u := range uppers {
		switch {
		case types.IsNamed(u, types.ExceptionName),
			types.IsNamed(u, types.ThrowableName),
			types.IsObject(u):
		default:
			return false
		}
	}
	return true
}
