// Package infer solves the type arguments of generic method invocations and
// diamond class instance creations.
//
// A [Context] moves through the states Collect, Reduce, Resolve and then
// Success or Error. Callers create inference variables for the type
// parameters under inference with [Context.Fresh], add constraint formulas
// for arguments and the target type, and call [Context.Solve].
//
//	ctx := infer.New(ts)
//	vars, subst := ctx.Fresh(method.TypeParams)
//	ctx.Add(infer.Formula{Kind: infer.Compatible, S: argType, T: subst.Apply(param)})
//	inst, err := ctx.Solve()
package infer

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/java/types"
)

var log = commonlog.GetLogger("javafront.infer")

type State uint8

const (
	Collect State = iota
	Reduce
	Resolve
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Collect:
		return "COLLECT"
	case Reduce:
		return "REDUCE"
	case Resolve:
		return "RESOLVE"
	case Success:
		return "SUCCESS"
	}
	return "ERROR"
}

// maxSteps bounds the number of formulas one context reduces.
const maxSteps = 4096

type FailureKind uint8

const (
	// Incompatible means the bound set became false.
	Incompatible FailureKind = iota
	// NonDenotable means a diamond anonymous class inferred a type that
	// cannot be written in source.
	NonDenotable
	// Inaccessible means a diamond anonymous class inferred a type that is
	// not accessible at the instantiation site.
	Inaccessible
)

// Failure explains why a context reached the Error state.
type Failure struct {
	Kind FailureKind
	// Formula is the formula that reduced to false, for Incompatible.
	Formula Formula
	// Type is the offending instantiation, for NonDenotable and
	// Inaccessible.
	Type types.Type
	// Class is the inaccessible class, for Inaccessible.
	Class *types.ClassSym
}

func (f *Failure) Error() string {
	switch f.Kind {
	case NonDenotable:
		return fmt.Sprintf("inferred type %v is not denotable", f.Type)
	case Inaccessible:
		return fmt.Sprintf("inferred type %v is not accessible", f.Type)
	}
	return fmt.Sprintf("inference failed: %v is false", f.Formula)
}

// Context holds the bound set of one inference.
type Context struct {
	ts      *types.Types
	vars    []*types.InferenceVar
	params  []*types.TypeVar
	bounds  map[*types.InferenceVar]*varBounds
	pending []Formula
	throws  map[*types.InferenceVar]bool
	inst    types.Subst
	state   State
	failure *Failure
	steps   int

	denotable bool
	from      *types.ClassSym
	pkg       string
}

// New returns an empty context in the Collect state.
func New(ts *types.Types) *Context {
	return &Context{
		ts:     ts,
		bounds: map[*types.InferenceVar]*varBounds{},
		throws: map[*types.InferenceVar]bool{},
		inst:   types.Subst{},
	}
}

func (c *Context) State() State { return c.state }

// Failure returns why the context failed, or nil.
func (c *Context) Failure() *Failure { return c.failure }

// Vars returns the inference variables in creation order.
func (c *Context) Vars() []*types.InferenceVar { return c.vars }

// Fresh creates one inference variable per parameter and adds the declared
// bounds α <: B[P:=α]. The returned substitution maps each parameter to
// its variable.
func (c *Context) Fresh(params []*types.TypeVar) ([]*types.InferenceVar, types.Subst) {
	subst := types.Subst{}
	vars := make([]*types.InferenceVar, len(params))
	for i, p := range params {
		v := &types.InferenceVar{ID: len(c.vars) + 1, Param: p}
		c.vars = append(c.vars, v)
		c.params = append(c.params, p)
		c.bounds[v] = &varBounds{}
		vars[i] = v
		subst[p] = v
	}
	for i, p := range params {
		for _, b := range p.Bounds {
			c.addBound(vars[i], Upper, subst.Apply(b))
		}
		if len(p.Bounds) == 0 {
			c.addBound(vars[i], Upper, c.ts.Object())
		}
	}
	return vars, subst
}

// Add queues a formula.
func (c *Context) Add(f Formula) {
	if c.state == Error {
		return
	}
	c.pending = append(c.pending, f)
}

// MarkThrows records that v appears only in a throws clause.
func (c *Context) MarkThrows(v *types.InferenceVar) { c.throws[v] = true }

// RequireDenotable makes resolution fail unless every instantiation is
// denotable and accessible from class from in package pkg.
func (c *Context) RequireDenotable(from *types.ClassSym, pkg string) {
	c.denotable = true
	c.from = from
	c.pkg = pkg
}

// Bounds returns the current bounds of v.
func (c *Context) Bounds(v *types.InferenceVar) []Bound {
	vb := c.bounds[v]
	if vb == nil {
		return nil
	}
	var out []Bound
	for _, k := range []BoundKind{Eq, Upper, Lower} {
		for _, t := range *vb.list(k) {
			out = append(out, Bound{Kind: k, Var: v, Type: t})
		}
	}
	return out
}

func (c *Context) fail(f *Failure) bool {
	if c.state != Error {
		log.Debugf("%v", f)
	}
	c.state = Error
	c.failure = f
	c.pending = nil
	return false
}

// Reduce reduces all queued formulas and incorporates the resulting bounds.
// It reports false and moves to Error when the bound set becomes false.
func (c *Context) Reduce() bool {
	if c.state == Error {
		return false
	}
	c.state = Reduce
	for len(c.pending) > 0 {
		f := c.pending[0]
		c.pending = c.pending[1:]
		c.steps++
		if c.steps > maxSteps || !c.reduce(f) {
			return c.fail(&Failure{Kind: Incompatible, Formula: f})
		}
	}
	return true
}

// Solve reduces and resolves. The substitution maps every inference
// variable to a proper type.
func (c *Context) Solve() (types.Subst, error) {
	if !c.Reduce() {
		return nil, c.failure
	}
	if !c.Resolve() {
		return nil, c.failure
	}
	return c.inst, nil
}

// Instantiate replaces resolved inference variables in t.
func (c *Context) Instantiate(t types.Type) types.Type {
	for range 8 {
		if types.IsProper(t) {
			break
		}
		t = c.inst.Apply(t)
	}
	return t
}

func (c *Context) reduce(f Formula) bool {
	if types.IsError(f.S) || types.IsError(f.T) {
		return true
	}
	switch f.Kind {
	case Compatible:
		return c.reduceCompatible(f.S, f.T)
	case Subtype:
		return c.reduceSubtype(f.S, f.T)
	case Equal:
		return c.reduceEqual(f.S, f.T)
	case Contained:
		return c.reduceContained(f.S, f.T)
	}
	return false
}

func (c *Context) reduceCompatible(s, t types.Type) bool {
	sp, sPrim := s.(*types.Primitive)
	tp, tPrim := t.(*types.Primitive)
	switch {
	case sPrim && tPrim:
		return c.ts.IsAssignable(s, t)
	case sPrim:
		if sp.Kind == types.Void {
			return false
		}
		return c.reduceSubtype(c.ts.Box(sp), t)
	case tPrim:
		if types.IsProper(s) {
			return c.ts.IsAssignable(s, t)
		}
		c.Add(Formula{Kind: Equal, S: s, T: c.ts.Box(tp)})
		return true
	}
	if types.IsProper(s) && c.ts.IsUncheckedConvertible(s, t) {
		return true
	}
	c.Add(Formula{Kind: Subtype, S: s, T: t})
	return true
}

func (c *Context) reduceSubtype(s, t types.Type) bool {
	if types.IsProper(s) && types.IsProper(t) {
		return c.ts.IsSubtype(s, t)
	}
	sv, sIsVar := s.(*types.InferenceVar)
	tv, tIsVar := t.(*types.InferenceVar)
	switch {
	case sIsVar && tIsVar:
		if sv != tv {
			c.addBound(sv, Upper, tv)
			c.addBound(tv, Lower, sv)
		}
		return true
	case sIsVar:
		c.addBound(sv, Upper, t)
		return true
	case tIsVar:
		c.addBound(tv, Lower, s)
		return true
	}
	if _, ok := s.(*types.NullType); ok {
		return true
	}
	switch tt := t.(type) {
	case *types.ClassType:
		if in, ok := s.(*types.Intersection); ok {
			for _, m := range in.Types {
				if c.ts.AsSuper(m, tt.Sym) != nil {
					return c.reduceSubtype(m, t)
				}
			}
			return false
		}
		src := c.ts.Capture(s)
		sup := c.ts.AsSuper(src, tt.Sym)
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
			c.Add(Formula{Kind: Contained, S: sup.Args[i], T: tt.Args[i]})
		}
		return true
	case *types.ArrayType:
		sa, ok := s.(*types.ArrayType)
		if !ok {
			return false
		}
		if types.IsPrimitive(sa.Elem) || types.IsPrimitive(tt.Elem) {
			return c.ts.IsSameType(sa.Elem, tt.Elem)
		}
		c.Add(Formula{Kind: Subtype, S: sa.Elem, T: tt.Elem})
		return true
	case *types.Intersection:
		for _, m := range tt.Types {
			c.Add(Formula{Kind: Subtype, S: s, T: m})
		}
		return true
	case *types.Captured:
		if tt.Lower != nil {
			c.Add(Formula{Kind: Subtype, S: s, T: tt.Lower})
			return true
		}
	}
	return false
}

func (c *Context) reduceEqual(s, t types.Type) bool {
	if types.IsProper(s) && types.IsProper(t) {
		return c.ts.IsSameType(s, t)
	}
	if sv, ok := s.(*types.InferenceVar); ok {
		if sv != t {
			c.addBound(sv, Eq, t)
		}
		return true
	}
	if tv, ok := t.(*types.InferenceVar); ok {
		c.addBound(tv, Eq, s)
		return true
	}
	switch ss := s.(type) {
	case *types.Wildcard:
		tw, ok := t.(*types.Wildcard)
		if !ok || ss.Kind != tw.Kind {
			return false
		}
		if ss.Kind != types.Unbounded {
			c.Add(Formula{Kind: Equal, S: ss.Bound, T: tw.Bound})
		}
		return true
	case *types.ClassType:
		tc, ok := t.(*types.ClassType)
		if !ok || ss.Sym != tc.Sym || len(ss.Args) != len(tc.Args) {
			return false
		}
		for i := range ss.Args {
			c.Add(Formula{Kind: Equal, S: ss.Args[i], T: tc.Args[i]})
		}
		return true
	case *types.ArrayType:
		ta, ok := t.(*types.ArrayType)
		if !ok {
			return false
		}
		c.Add(Formula{Kind: Equal, S: ss.Elem, T: ta.Elem})
		return true
	}
	return false
}

func (c *Context) reduceContained(s, t types.Type) bool {
	tw, ok := t.(*types.Wildcard)
	sw, sIsWild := s.(*types.Wildcard)
	if !ok {
		if sIsWild {
			return false
		}
		c.Add(Formula{Kind: Equal, S: s, T: t})
		return true
	}
	switch tw.Kind {
	case types.Unbounded:
		return true
	case types.Extends:
		switch {
		case !sIsWild:
			c.Add(Formula{Kind: Subtype, S: s, T: tw.Bound})
		case sw.Kind == types.Extends:
			c.Add(Formula{Kind: Subtype, S: sw.Bound, T: tw.Bound})
		case sw.Kind == types.Unbounded:
			c.Add(Formula{Kind: Subtype, S: c.ts.Object(), T: tw.Bound})
		default:
			c.Add(Formula{Kind: Equal, S: c.ts.Object(), T: tw.Bound})
		}
		return true
	case types.Super:
		switch {
		case !sIsWild:
			c.Add(Formula{Kind: Subtype, S: tw.Bound, T: s})
		case sw.Kind == types.Super:
			c.Add(Formula{Kind: Subtype, S: tw.Bound, T: sw.Bound})
		default:
			return false
		}
		return true
	}
	return false
}

// addBound records a bound and queues the formulas incorporation derives
// from it.
func (c *Context) addBound(v *types.InferenceVar, k BoundKind, t types.Type) {
	if t == types.Type(v) {
		return
	}
	vb := c.bounds[v]
	if vb == nil {
		vb = &varBounds{}
		c.bounds[v] = vb
	}
	list := vb.list(k)
	if slices.ContainsFunc(*list, func(u types.Type) bool { return c.sameBound(u, t) }) {
		return
	}
	*list = append(*list, t)

	switch k {
	case Eq:
		for _, e := range vb.eq {
			if e != t {
				c.Add(Formula{Kind: Equal, S: e, T: t})
			}
		}
		for _, u := range vb.upper {
			c.Add(Formula{Kind: Subtype, S: t, T: u})
		}
		for _, l := range vb.lower {
			c.Add(Formula{Kind: Subtype, S: l, T: t})
		}
		if types.IsProper(t) {
			c.propagate(v, t)
		}
	case Upper:
		for _, e := range vb.eq {
			c.Add(Formula{Kind: Subtype, S: e, T: t})
		}
		for _, l := range vb.lower {
			c.Add(Formula{Kind: Subtype, S: l, T: t})
		}
		c.sameGeneric(vb.upper, t)
	case Lower:
		for _, e := range vb.eq {
			c.Add(Formula{Kind: Subtype, S: t, T: e})
		}
		for _, u := range vb.upper {
			c.Add(Formula{Kind: Subtype, S: t, T: u})
		}
	}
}

func (c *Context) sameBound(a, b types.Type) bool {
	if a == b {
		return true
	}
	if types.IsProper(a) && types.IsProper(b) {
		return c.ts.IsSameType(a, b)
	}
	return a.String() == b.String()
}

// sameGeneric equates the arguments of two upper bounds that parameterize
// the same generic class without wildcards.
func (c *Context) sameGeneric(uppers []types.Type, t types.Type) {
	tc, ok := t.(*types.ClassType)
	if !ok || !tc.IsParameterized() || tc.HasWildcards() {
		return
	}
	for _, u := range uppers {
		uc, ok := u.(*types.ClassType)
		if !ok || uc == tc || uc.Sym != tc.Sym || uc.HasWildcards() || len(uc.Args) != len(tc.Args) {
			continue
		}
		for i := range uc.Args {
			c.Add(Formula{Kind: Equal, S: uc.Args[i], T: tc.Args[i]})
		}
	}
}

// propagate substitutes v := t into the bounds of the other variables.
func (c *Context) propagate(v *types.InferenceVar, t types.Type) {
	s := types.Subst{v: t}
	for _, w := range c.vars {
		if w == v {
			continue
		}
		vb := c.bounds[w]
		for _, k := range []BoundKind{Eq, Upper, Lower} {
			for _, b := range *vb.list(k) {
				if !types.Mentions(b, v) {
					continue
				}
				nb := s.Apply(b)
				switch k {
				case Eq:
					c.Add(Formula{Kind: Equal, S: w, T: nb})
				case Upper:
					c.Add(Formula{Kind: Subtype, S: w, T: nb})
				case Lower:
					c.Add(Formula{Kind: Subtype, S: nb, T: w})
				}
			}
		}
	}
}
