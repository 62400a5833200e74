package check

import (
	"strings"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/infer"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
	"github.com/dhamidi/javafront/options"
)

// site is one method or constructor invocation being resolved.
type site struct {
	// node is the whole invocation; unhandled exceptions are reported
	// there.
	node *parser.Node
	// name is where resolution problems are reported.
	name *parser.Node
	args *parser.Node
	recv types.Type
	// title names the class in constructor problems.
	title    string
	ctor     bool
	target   types.Type
	typeArgs []types.Type
	// denotable requires inferred class type arguments to be denotable,
	// for diamond anonymous classes.
	denotable bool
	// diamond reports inapplicable constructors as failed inference.
	diamond bool
}

// arg is one argument of an invocation.
type arg struct {
	node *parser.Node
	// typ is nil for lambdas and method references, which are typed once
	// the method is chosen.
	typ types.Type
	// poly marks an argument typed without its target; it is typed again
	// against the chosen parameter.
	poly bool
}

// applied is a method applicable to the arguments of a site.
type applied struct {
	m *types.MethodSym
	// params has one instantiated formal per argument; decl has one per
	// declared parameter.
	params []types.Type
	decl   []types.Type
	result types.Type
	throws []types.Type
	// inferred is set when type arguments came from inference.
	inferred bool
	// failure is a non-denotable or inaccessible diamond instantiation.
	failure  *infer.Failure
	resolved []types.Type
	phase    int
	// open and openResult are the formals and result before the method's
	// own type arguments are inferred.
	open       []types.Type
	openResult types.Type
	// targeted is the result inferred against the target, with the
	// wildcards of the declared result solved instead of captured.
	targeted types.Type
}

// nestedCall is a generic invocation typed without its target, kept so an
// enclosing invocation can infer it jointly with its own type arguments.
type nestedCall struct {
	a    *applied
	args []arg
}

// maxNesting bounds how deep generic invocations are inferred jointly.
const maxNesting = 8

// isPolyExpr reports whether n is an invocation, instance creation or
// conditional whose type may depend on its target.
func isPolyExpr(n *parser.Node) bool {
	for n != nil && n.Kind == parser.KindParenExpr {
		n = n.Child(0)
	}
	if n == nil {
		return false
	}
	switch n.Kind {
	case parser.KindCallExpr, parser.KindNewExpr, parser.KindTernaryExpr, parser.KindSwitchExpr:
		return true
	}
	return false
}

func (c *Checker) collectArgs(f *frame, args *parser.Node) []arg {
	if args == nil {
		return nil
	}
	out := make([]arg, 0, len(args.Children))
	for _, a := range args.Children {
		switch {
		case isPolyForm(a):
			out = append(out, arg{node: a})
		case isPolyExpr(a):
			c.quiet++
			t := c.expr(f, a, nil)
			c.quiet--
			out = append(out, arg{node: a, typ: t, poly: true})
		default:
			out = append(out, arg{node: a, typ: c.expr(f, a, nil)})
		}
	}
	return out
}

// finishArgs types deferred and poly arguments against the formals of the
// chosen method.
func (c *Checker) finishArgs(f *frame, args []arg, formals []types.Type) {
	for i, a := range args {
		if a.node == nil {
			continue
		}
		var formal types.Type
		if i < len(formals) {
			formal = formals[i]
		}
		switch {
		case a.typ == nil:
			c.expr(f, a.node, formal)
		case a.poly && !c.poly[unparen(a.node)] && isInvocation(a.node) && !types.IsError(a.typ):
			// The type does not depend on the target. Typing it again
			// would capture its wildcards afresh, so the first type is
			// checked.
			c.expr(f, a.node, nil)
			c.checkAssignable(f, a.node, a.typ, formal)
		case a.poly:
			c.assign(f, a.node, formal)
		}
	}
}

func isInvocation(n *parser.Node) bool {
	n = unparen(n)
	return n != nil && (n.Kind == parser.KindCallExpr || n.Kind == parser.KindNewExpr)
}

// abandonArgs types the poly arguments of an invocation that resolved to
// nothing, so problems inside them are still reported.
func (c *Checker) abandonArgs(f *frame, args []arg) {
	for _, a := range args {
		if a.poly {
			c.expr(f, a.node, nil)
		}
	}
}

func (c *Checker) argList(u *unitState, args []arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch {
		case a.typ == nil && a.node != nil:
			parts[i] = sourceText(u, a.node)
		case a.typ == nil:
			parts[i] = "?"
		default:
			parts[i] = a.typ.String()
		}
	}
	return strings.Join(parts, ", ")
}

func sourceText(u *unitState, n *parser.Node) string {
	s, e := n.Span.Start.Offset, n.Span.End.Offset
	if s < 0 || e > len(u.Source) || s > e {
		return ""
	}
	return string(u.Source[s:e])
}

// resolveCall picks the method of cands applicable to args: strict
// invocation first, then loose, then variable arity. Problems are reported
// at s.name; nil means none was chosen.
func (c *Checker) resolveCall(f *frame, s *site, cands []*types.MethodSym, args []arg) *applied {
	u := f.unit
	ts := u.ts
	for phase := 1; phase <= 3; phase++ {
		var found []*applied
		for _, m := range cands {
			if a := c.instantiate(f, s, m, args, phase); a != nil {
				found = append(found, a)
			}
		}
		if len(found) == 0 {
			continue
		}
		best := mostSpecific(ts, found)
		if len(best) == 1 {
			return best[0]
		}
		if s.diamond {
			c.report(u, diag.CannotInferTypeArguments, s.node.Span, s.title+"<>")
			return nil
		}
		name := best[0].m.Name
		if s.ctor {
			name = s.title
		}
		c.report(u, diag.AmbiguousMethod, s.name.Span, name, types.ParamList(best[0].decl, best[0].m.Varargs), s.recv)
		return nil
	}
	c.reportInapplicable(f, s, cands, args)
	return nil
}

func (c *Checker) reportInapplicable(f *frame, s *site, cands []*types.MethodSym, args []arg) {
	u := f.unit
	ts := u.ts
	for _, a := range args {
		if a.typ != nil && types.ContainsError(a.typ) {
			return
		}
	}
	list := c.argList(u, args)
	switch {
	case s.diamond:
		c.report(u, diag.CannotInferTypeArguments, s.node.Span, s.title+"<>")
	case s.ctor:
		c.report(u, diag.UndefinedConstructor, s.name.Span, s.title, list)
	case len(cands) == 1:
		m := cands[0]
		params := make([]types.Type, len(m.Params))
		for i, p := range m.Params {
			params[i] = view(ts, s.recv, m.Owner, p)
		}
		c.report(u, diag.MethodNotApplicable, s.name.Span, m.Name, types.ParamList(params, m.Varargs), s.recv, list)
	default:
		c.report(u, diag.UndefinedMethod, s.name.Span, s.name.TokenLiteral(), list, s.recv)
	}
}

// instantiate checks m against args in one phase: 1 strict, 2 loose, 3
// variable arity. It returns nil when m does not apply.
func (c *Checker) instantiate(f *frame, s *site, m *types.MethodSym, args []arg, phase int) *applied {
	ts := f.unit.ts
	n := len(m.Params)
	switch {
	case phase < 3 && len(args) != n:
		return nil
	case phase == 3 && (!m.Varargs || len(args) < n-1):
		return nil
	}
	sub, raw := ts.MemberSubst(s.recv, m.Owner)
	apply := func(t types.Type) types.Type {
		if raw {
			return ts.Erasure(t)
		}
		return sub.Apply(t)
	}
	a := &applied{m: m, result: apply(m.Result), phase: phase}
	for _, p := range m.Params {
		a.decl = append(a.decl, apply(p))
	}
	for _, th := range m.Throws {
		a.throws = append(a.throws, apply(th))
	}
	if m.IsGeneric() && !raw {
		var ms types.Subst
		if len(s.typeArgs) > 0 && len(s.typeArgs) == len(m.TypeParams) {
			ms = types.NewSubst(m.TypeParams, s.typeArgs)
		} else {
			var ok bool
			ms, ok = c.inferCall(f, s, a, args, phase)
			if !ok {
				return nil
			}
			a.inferred = true
			a.open, a.openResult = a.decl, a.result
		}
		a.decl = ms.List(a.decl)
		a.result = ms.Apply(a.result)
		a.throws = ms.List(a.throws)
		if a.targeted != nil {
			a.result = a.targeted
		}
	}
	a.params = expand(a.decl, len(args), phase == 3)
	for i, ar := range args {
		if !c.argApplies(f, ar, a.params[i], phase) {
			return nil
		}
	}
	return a
}

// expand lists one formal per argument, repeating the element type of a
// variable arity parameter.
func expand(decl []types.Type, nargs int, varargs bool) []types.Type {
	if !varargs {
		return decl
	}
	out := make([]types.Type, 0, nargs)
	out = append(out, decl[:len(decl)-1]...)
	var elem types.Type = types.Invalid
	if at, ok := decl[len(decl)-1].(*types.ArrayType); ok {
		elem = at.Elem
	}
	for len(out) < nargs {
		out = append(out, elem)
	}
	return out
}

func (c *Checker) argApplies(f *frame, a arg, formal types.Type, phase int) bool {
	ts := f.unit.ts
	if a.typ == nil {
		return c.potentiallyCompatible(ts, a.node, formal)
	}
	from := a.typ
	if types.IsError(from) || types.IsError(formal) {
		return true
	}
	if phase == 1 {
		_, fp := from.(*types.Primitive)
		_, tp := formal.(*types.Primitive)
		if fp != tp && from != types.Null {
			return false
		}
	}
	if ts.IsAssignable(from, formal) {
		return true
	}
	return a.poly && c.poly[unparen(a.node)] && ts.IsAssignable(ts.Erasure(from), ts.Erasure(formal))
}

func unparen(n *parser.Node) *parser.Node {
	for n != nil && n.Kind == parser.KindParenExpr {
		n = n.Child(0)
	}
	return n
}

// potentiallyCompatible reports whether a lambda or method reference could
// target formal.
func (c *Checker) potentiallyCompatible(ts *types.Types, n *parser.Node, formal types.Type) bool {
	if types.IsError(formal) {
		return true
	}
	if _, ok := formal.(*types.TypeVar); ok {
		return true
	}
	sig := c.functionType(ts, formal)
	if sig == nil {
		return false
	}
	n = unparen(n)
	if n.Kind == parser.KindLambdaExpr {
		return lambdaArity(n) == len(sig.params)
	}
	return true
}

func lambdaArity(n *parser.Node) int {
	params := n.Child(0)
	if params == nil {
		return 0
	}
	count := 0
	for _, p := range params.Children {
		switch p.Kind {
		case parser.KindIdentifier, parser.KindUnnamedVariable, parser.KindParameter:
			count++
		}
	}
	return count
}

// inferCall infers the type arguments of a generic method from its
// arguments and, when its result mentions them, the target. Lambda and
// method reference arguments contribute their return types once their
// parameter types are known from a first round.
func (c *Checker) inferCall(f *frame, s *site, a *applied, args []arg, phase int) (types.Subst, bool) {
	u := f.unit
	ts := u.ts
	m := a.m
	formals := expand(a.decl, len(args), phase == 3)
	if len(formals) != len(args) {
		return nil, false
	}
	mentions := false
	for _, tp := range m.TypeParams {
		if types.Mentions(a.result, tp) {
			mentions = true
		}
	}
	joins := false
	for _, ar := range args {
		if ar.poly && c.nested[unparen(ar.node)] != nil {
			joins = true
		}
	}
	// build returns the result with its wildcards opened when the target
	// took part.
	build := func(withTarget, joint bool, returns map[int]types.Type) (*infer.Context, []*types.InferenceVar, types.Subst, types.Type, bool) {
		ctx := infer.New(ts)
		vars, isub := ctx.Fresh(m.TypeParams)
		if s.denotable {
			ctx.RequireDenotable(f.thisSym(), u.Package)
		}
		for i, tp := range m.TypeParams {
			thrown := false
			for _, th := range a.throws {
				if th == types.Type(tp) {
					thrown = true
				}
			}
			inParams := false
			for _, p := range a.decl {
				if types.Mentions(p, tp) {
					inParams = true
				}
			}
			if thrown && !inParams {
				ctx.MarkThrows(vars[i])
			}
		}
		for i, ar := range args {
			formal := isub.Apply(formals[i])
			switch {
			case ar.typ == nil:
				rt, ok := returns[i]
				if !ok {
					continue
				}
				if sig := c.functionType(ts, formal); sig != nil && !types.IsVoid(sig.result) {
					ctx.Add(infer.Formula{Kind: infer.Compatible, S: rt, T: sig.result})
				}
			case types.IsError(ar.typ):
			case ar.poly && c.poly[unparen(ar.node)]:
				if nc := c.nested[unparen(ar.node)]; joint && nc != nil {
					c.joinNested(ctx, nc, formal, 1)
				}
			default:
				if phase == 1 {
					_, fp := ar.typ.(*types.Primitive)
					_, tp := formal.(*types.Primitive)
					if fp != tp && ar.typ != types.Null {
						return nil, nil, nil, nil, false
					}
				}
				ctx.Add(infer.Formula{Kind: infer.Compatible, S: ar.typ, T: formal})
			}
		}
		var opened types.Type
		if withTarget && mentions && s.target != nil && !types.IsVoid(a.result) {
			opened = openWildcards(ctx, isub.Apply(a.result))
			ctx.Add(infer.Formula{Kind: infer.Compatible, S: opened, T: boxed(ts, s.target)})
		}
		return ctx, vars, isub, opened, true
	}
	// solve drops the joined invocations and then the target when the
	// bound set becomes false with them.
	solve := func(returns map[int]types.Type) (*infer.Context, []*types.InferenceVar, types.Subst, types.Type, error, bool) {
		var (
			ctx    *infer.Context
			vars   []*types.InferenceVar
			isub   types.Subst
			opened types.Type
			err    error
		)
		for _, withTarget := range []bool{true, false} {
			if !withTarget && !(mentions && s.target != nil) {
				break
			}
			for _, joint := range []bool{true, false} {
				if joint && !joins {
					continue
				}
				var ok bool
				ctx, vars, isub, opened, ok = build(withTarget, joint, returns)
				if !ok {
					return nil, nil, nil, nil, nil, false
				}
				_, err = ctx.Solve()
				if fl, isFail := err.(*infer.Failure); !isFail || fl.Kind != infer.Incompatible {
					return ctx, vars, isub, opened, err, true
				}
			}
		}
		return ctx, vars, isub, opened, err, true
	}

	var returns map[int]types.Type
	if hasDeferred(args) {
		ctx, _, isub, _, err, ok := solve(nil)
		if !ok {
			return nil, false
		}
		if err == nil {
			returns = map[int]types.Type{}
			for j, aj := range args {
				if aj.typ != nil {
					continue
				}
				sig := c.functionType(ts, ctx.Instantiate(isub.Apply(formals[j])))
				if sig == nil || types.IsVoid(sig.result) {
					continue
				}
				if rt := c.deferredReturn(f, aj.node, sig); rt != nil {
					returns[j] = rt
				}
			}
		}
	}

	ctx, vars, _, opened, err, ok := solve(returns)
	if !ok {
		return nil, false
	}
	if err != nil {
		fl, isFail := err.(*infer.Failure)
		if !isFail || fl.Kind == infer.Incompatible {
			return nil, false
		}
		a.failure = fl
	}
	out := types.Subst{}
	a.resolved = make([]types.Type, len(m.TypeParams))
	for i, tp := range m.TypeParams {
		t := ctx.Resolved(vars[i])
		if t == nil {
			t = ts.Object()
		}
		out[tp] = t
		a.resolved[i] = t
	}
	if err == nil && opened != nil {
		if t := ctx.Instantiate(opened); types.IsProper(t) {
			a.targeted = t
		}
	}
	return out, true
}

// joinNested adds a generic invocation passed as an argument to the
// inference of the enclosing invocation: its type parameters become
// variables of ctx, its arguments constrain them and its result must be
// compatible with formal.
func (c *Checker) joinNested(ctx *infer.Context, nc *nestedCall, formal types.Type, depth int) {
	if depth > maxNesting {
		return
	}
	a := nc.a
	_, nsub := ctx.Fresh(a.m.TypeParams)
	formals := expand(a.open, len(nc.args), a.phase == 3)
	for i, ar := range nc.args {
		if i >= len(formals) {
			break
		}
		p := nsub.Apply(formals[i])
		switch {
		case ar.typ == nil, types.IsError(ar.typ):
		case ar.poly && c.poly[unparen(ar.node)]:
			if inner := c.nested[unparen(ar.node)]; inner != nil {
				c.joinNested(ctx, inner, p, depth+1)
			}
		default:
			ctx.Add(infer.Formula{Kind: infer.Compatible, S: ar.typ, T: p})
		}
	}
	if a.openResult == nil || types.IsVoid(a.openResult) {
		return
	}
	ctx.Add(infer.Formula{Kind: infer.Compatible, S: openWildcards(ctx, nsub.Apply(a.openResult)), T: formal})
}

// openWildcards replaces the wildcard arguments of a parameterized result
// with fresh inference variables bounded like the capture variables they
// stand for, so the target can choose them.
func openWildcards(ctx *infer.Context, t types.Type) types.Type {
	ct, ok := t.(*types.ClassType)
	if !ok || !ct.HasWildcards() || len(ct.Sym.TypeParams) != len(ct.Args) {
		return t
	}
	out := &types.ClassType{Sym: ct.Sym, Outer: ct.Outer, Args: make([]types.Type, len(ct.Args))}
	for i, targ := range ct.Args {
		w, ok := targ.(*types.Wildcard)
		if !ok {
			out.Args[i] = targ
			continue
		}
		tv := &types.TypeVar{Name: ct.Sym.TypeParams[i].Name, Owner: ct.Sym}
		if w.Kind == types.Extends {
			tv.Bounds = []types.Type{w.Bound}
		}
		vars, _ := ctx.Fresh([]*types.TypeVar{tv})
		if w.Kind == types.Super {
			ctx.Add(infer.Formula{Kind: infer.Subtype, S: w.Bound, T: vars[0]})
		}
		out.Args[i] = vars[0]
	}
	return out
}

func hasDeferred(args []arg) bool {
	for _, a := range args {
		if a.typ == nil {
			return true
		}
	}
	return false
}

// deferredReturn types the result of a lambda or method reference with the
// parameter types of sig, or returns nil when it has none.
func (c *Checker) deferredReturn(f *frame, n *parser.Node, sig *funcSig) types.Type {
	n = unparen(n)
	var t types.Type
	switch n.Kind {
	case parser.KindLambdaExpr:
		if lambdaArity(n) != len(sig.params) {
			return nil
		}
		t = c.lambdaReturn(f, n, sig.params)
	case parser.KindMethodRef:
		t = c.methodRefReturn(f, n, sig)
	}
	if t == nil || types.ContainsError(t) || types.IsVoid(t) {
		return nil
	}
	return boxed(f.unit.ts, t)
}

// mostSpecific keeps the applicable methods no other is more specific
// than. Methods with the same erased signature collapse onto the first
// concrete one.
func mostSpecific(ts *types.Types, found []*applied) []*applied {
	if len(found) == 1 {
		return found
	}
	var best []*applied
	for i, a := range found {
		dominated := false
		for j, b := range found {
			if i != j && moreSpecific(ts, b, a) && !moreSpecific(ts, a, b) {
				dominated = true
				break
			}
		}
		if !dominated {
			best = append(best, a)
		}
	}
	if len(best) <= 1 {
		return best
	}
	first := best[0]
	for _, b := range best[1:] {
		if !sameTypes(ts, erasedList(ts, first.decl), erasedList(ts, b.decl)) {
			return best
		}
	}
	for _, b := range best {
		if !b.m.IsAbstract {
			return []*applied{b}
		}
	}
	return best[:1]
}

func erasedList(ts *types.Types, list []types.Type) []types.Type {
	out := make([]types.Type, len(list))
	for i, t := range list {
		out[i] = ts.Erasure(t)
	}
	return out
}

// moreSpecific reports whether every formal of a is at least as specific
// as the matching formal of b.
func moreSpecific(ts *types.Types, a, b *applied) bool {
	if len(a.params) != len(b.params) {
		return false
	}
	for i := range a.params {
		p, q := a.params[i], b.params[i]
		pp, pPrim := p.(*types.Primitive)
		qp, qPrim := q.(*types.Primitive)
		switch {
		case pPrim && qPrim:
			if pp.Kind != qp.Kind && !types.IsWidening(pp, qp) {
				return false
			}
		case pPrim || qPrim:
			return false
		case !ts.IsSubtype(p, q) && !ts.IsSubtype(ts.Erasure(p), ts.Erasure(q)):
			return false
		}
	}
	return true
}

// call types a method invocation.
func (c *Checker) call(f *frame, n *parser.Node, target types.Type) types.Type {
	u := f.unit
	ts := u.ts
	callee := n.Child(0)
	argsNode := n.FirstChildOfKind(parser.KindArguments)
	s := &site{node: n, args: argsNode, target: target}
	var cands []*types.MethodSym
	switch callee.Kind {
	case parser.KindIdentifier:
		s.name = callee
		s.recv, cands = c.unqualifiedMethods(f, callee.TokenLiteral())
		if s.recv == nil {
			args := c.collectArgs(f, argsNode)
			var this types.Type = types.Invalid
			if sym := f.thisSym(); sym != nil {
				this = sym.ThisType()
			}
			c.report(u, diag.UndefinedMethod, callee.Span, callee.TokenLiteral(), c.argList(u, args), this)
			c.abandonArgs(f, args)
			return types.Invalid
		}
	case parser.KindFieldAccess:
		last := callee.Child(len(callee.Children) - 1)
		if last == nil || last.Kind != parser.KindIdentifier {
			c.collectArgs(f, argsNode)
			return types.Invalid
		}
		s.name = last
		if ta := callee.FirstChildOfKind(parser.KindTypeArguments); ta != nil {
			for _, a := range ta.Children {
				s.typeArgs = append(s.typeArgs, c.resolveType(f, a))
			}
		}
		q := c.qualifyExpr(f, callee.Child(0))
		switch q.kind {
		case qualValue, qualType:
			s.recv = q.typ
		case qualPackage:
			c.report(u, diag.UndefinedName, callee.Child(0).Span, q.pkg)
			fallthrough
		default:
			c.abandonArgs(f, c.collectArgs(f, argsNode))
			return types.Invalid
		}
		if types.IsError(s.recv) {
			c.abandonArgs(f, c.collectArgs(f, argsNode))
			return types.Invalid
		}
		if _, ok := s.recv.(*types.Primitive); ok {
			c.abandonArgs(f, c.collectArgs(f, argsNode))
			return types.Invalid
		}
		cands = c.methodsOf(ts, s.recv, last.TokenLiteral())
	default:
		c.collectArgs(f, argsNode)
		return types.Invalid
	}

	args := c.collectArgs(f, argsNode)
	if len(cands) == 0 {
		c.report(u, diag.UndefinedMethod, s.name.Span, s.name.TokenLiteral(), c.argList(u, args), s.recv)
		c.abandonArgs(f, args)
		return types.Invalid
	}
	a := c.resolveCall(f, s, cands, args)
	if a == nil {
		c.abandonArgs(f, args)
		return types.Invalid
	}
	c.finishArgs(f, args, a.params)
	for _, th := range a.throws {
		c.thrown(f, th, n.Span)
	}
	if a.inferred {
		c.poly[n] = true
		c.nested[n] = &nestedCall{a: a, args: args}
	}
	if a.m.Name == "getClass" && len(args) == 0 && !a.m.IsStatic {
		return ts.Named(types.ClassName, &types.Wildcard{Kind: types.Extends, Bound: ts.Erasure(ts.UpperBound(s.recv))})
	}
	if types.IsVoid(a.result) {
		return types.VoidType
	}
	return ts.Capture(a.result)
}

// unqualifiedMethods finds the methods a simple method name refers to: the
// innermost enclosing class that has one, then static imports.
func (c *Checker) unqualifiedMethods(f *frame, name string) (types.Type, []*types.MethodSym) {
	u := f.unit
	ts := u.ts
	for fr := f; fr != nil; fr = fr.outer {
		if fr.class == nil {
			continue
		}
		recv := fr.class.sym.ThisType()
		if ms := c.methodsOf(ts, recv, name); len(ms) > 0 {
			return recv, ms
		}
	}
	for _, imp := range u.Imports {
		if !imp.Static || imp.Sym == nil {
			continue
		}
		if !imp.OnDemand && !strings.HasSuffix(imp.Name, "."+name) {
			continue
		}
		recv := imp.Sym.ThisType()
		var ms []*types.MethodSym
		for _, m := range c.methodsOf(ts, recv, name) {
			if m.IsStatic {
				ms = append(ms, m)
			}
		}
		if len(ms) > 0 {
			imp.Used = true
			return recv, ms
		}
	}
	return nil, nil
}

// construct resolves the constructor a site invokes and types its
// arguments.
func (c *Checker) construct(f *frame, s *site) *applied {
	ts := f.unit.ts
	s.ctor = true
	args := c.collectArgs(f, s.args)
	if s.recv == nil || types.IsError(s.recv) {
		c.abandonArgs(f, args)
		return nil
	}
	a := c.resolveCall(f, s, c.methodsOf(ts, s.recv, types.ConstructorName), args)
	if a == nil {
		c.abandonArgs(f, args)
		return nil
	}
	c.finishArgs(f, args, a.params)
	for _, th := range a.throws {
		c.thrown(f, th, s.node.Span)
	}
	return a
}

// diamondCandidates turns the constructors of sym into generic methods over
// the class type parameters followed by their own, returning the class
// type.
func diamondCandidates(sym *types.ClassSym) []*types.MethodSym {
	this := sym.ThisType()
	ctors := sym.Constructors()
	if sym.IsInterface() {
		ctors = []*types.MethodSym{{Name: types.ConstructorName, Owner: sym, Result: types.VoidType, Visibility: types.VisibilityPublic}}
	}
	out := make([]*types.MethodSym, 0, len(ctors))
	for _, k := range ctors {
		tps := append(append([]*types.TypeVar{}, sym.TypeParams...), k.TypeParams...)
		out = append(out, &types.MethodSym{
			Name:       types.ConstructorName,
			Owner:      sym,
			TypeParams: tps,
			Params:     k.Params,
			ParamNames: k.ParamNames,
			Varargs:    k.Varargs,
			Result:     this,
			Throws:     k.Throws,
			Visibility: k.Visibility,
		})
	}
	return out
}

// newParts splits a class instance creation into its optional outer
// instance, constructor type arguments, type, arguments and body.
func newParts(n *parser.Node) (outer, ctorArgs, typ, args, body *parser.Node) {
	for i, ch := range n.Children {
		switch ch.Kind {
		case parser.KindTypeArguments:
			if typ == nil {
				ctorArgs = ch
			}
		case parser.KindType:
			if typ == nil {
				typ = ch
				continue
			}
			if i == 0 {
				outer = ch
			}
		case parser.KindArguments:
			args = ch
		case parser.KindClassBody:
			body = ch
		default:
			if i == 0 {
				outer = ch
			}
		}
	}
	return outer, ctorArgs, typ, args, body
}

// lastTypeArgs returns the type arguments after the last name of a type.
func lastTypeArgs(n *parser.Node) *parser.Node {
	var out *parser.Node
	for _, ch := range n.Children {
		if ch.Kind == parser.KindTypeArguments {
			out = ch
		}
	}
	return out
}

// newExpr types a class instance creation, including diamonds, qualified
// creation of inner classes and anonymous classes.
func (c *Checker) newExpr(f *frame, n *parser.Node, target types.Type) types.Type {
	u := f.unit
	ts := u.ts
	outerNode, ctorArgs, typeNode, argsNode, body := newParts(n)
	if typeNode == nil {
		return types.Invalid
	}
	var t types.Type
	var diamond bool
	if outerNode != nil {
		t, diamond = c.qualifiedNewType(f, outerNode, typeNode)
	} else {
		t, diamond = c.resolveTypeUse(f, typeNode, typeUse{diamond: true})
	}
	ct, ok := t.(*types.ClassType)
	if !ok {
		c.abandonArgs(f, c.collectArgs(f, argsNode))
		return types.Invalid
	}
	sym := ct.Sym
	if body == nil && (sym.IsAbstract || sym.IsInterface()) {
		c.report(u, diag.InstantiateAbstract, typeNode.Span, sym.ReadableName())
		c.abandonArgs(f, c.collectArgs(f, argsNode))
		return types.Invalid
	}
	var typeArgs []types.Type
	if ctorArgs != nil {
		for _, a := range ctorArgs.Children {
			typeArgs = append(typeArgs, c.resolveType(f, a))
		}
	}
	if diamond && body != nil && !c.opts.AtLeast(options.AnonymousDiamond) {
		c.report(u, diag.DiamondWithAnonymous, typeNameSpan(typeNode))
		c.abandonArgs(f, c.collectArgs(f, argsNode))
		return types.Invalid
	}

	args := c.collectArgs(f, argsNode)
	s := &site{
		node:     n,
		name:     n,
		args:     argsNode,
		title:    sym.ReadableName(),
		ctor:     true,
		target:   target,
		typeArgs: typeArgs,
	}
	super := ct
	if diamond {
		s.recv = sym.ThisType()
		s.denotable = body != nil
		s.diamond = true
		a := c.resolveCall(f, s, diamondCandidates(sym), args)
		if a == nil {
			c.abandonArgs(f, args)
			return types.Invalid
		}
		c.poly[n] = true
		if body == nil && a.inferred {
			c.nested[n] = &nestedCall{a: a, args: args}
		}
		if rc, ok := a.result.(*types.ClassType); ok {
			super = rc
		}
		if a.failure != nil {
			c.reportDiamond(f, typeNode, sym, a)
		}
		c.finishArgs(f, args, a.params)
		for _, th := range a.throws {
			c.thrown(f, th, n.Span)
		}
	} else {
		s.recv = ct
		var a *applied
		if sym.IsInterface() {
			if len(args) > 0 {
				c.report(u, diag.UndefinedConstructor, n.Span, sym.ReadableName(), c.argList(u, args))
			}
			c.abandonArgs(f, args)
		} else if a = c.resolveCall(f, s, c.methodsOf(ts, ct, types.ConstructorName), args); a == nil {
			c.abandonArgs(f, args)
		} else {
			c.finishArgs(f, args, a.params)
			for _, th := range a.throws {
				c.thrown(f, th, n.Span)
			}
		}
	}

	var anon *classDecl
	if body != nil && c.quiet == 0 {
		anon = c.declareAnonymous(f, typeNode, body, super, diamond)
		c.completeLocal(anon)
	}
	if !diamond && ct.IsParameterized() {
		c.checkRedundantArgs(f, n, typeNode, ct, args, target, anon)
	}
	if anon != nil {
		return anon.sym.ThisType()
	}
	return super
}

// qualifiedNewType resolves the type of "outer.new Inner<...>(...)" as a
// member of the outer instance's class.
func (c *Checker) qualifiedNewType(f *frame, outerNode, typeNode *parser.Node) (types.Type, bool) {
	u := f.unit
	ts := u.ts
	ot := c.expr(f, outerNode, nil)
	if types.IsError(ot) {
		return types.Invalid, false
	}
	var segs []segment
	for _, ch := range typeNode.Children {
		switch ch.Kind {
		case parser.KindIdentifier:
			segs = append(segs, segment{name: ch.TokenLiteral(), node: ch})
		case parser.KindQualifiedName:
			segs = segmentsOf(ch, segs)
		case parser.KindTypeArguments:
			if len(segs) > 0 {
				segs[len(segs)-1].args = ch
			}
		}
	}
	if len(segs) != 1 {
		return types.Invalid, false
	}
	var member *types.ClassSym
	var outer *types.ClassType
	for _, r := range roots(ts, ot) {
		if m := c.memberType(r.Sym, segs[0].name); m != nil {
			member = m
			outer = ts.AsSuper(r, m.Outer)
			break
		}
	}
	if member == nil {
		c.report(u, diag.UndefinedType, segs[0].node.Span, segs[0].name)
		return types.Invalid, false
	}
	ct, diamond := c.applyArgs(f, member, segs[0], outer, typeUse{diamond: true}, true)
	return ct, diamond
}

// typeNameSpan is where problems of a diamond type are reported: its name
// without the "<>".
func typeNameSpan(n *parser.Node) parser.Span {
	span := n.Span
	for i, ch := range n.Children {
		if ch.Kind == parser.KindTypeArguments {
			if i > 0 {
				span.End = n.Children[i-1].Span.End
			}
			break
		}
	}
	return span
}

func (c *Checker) reportDiamond(f *frame, typeNode *parser.Node, sym *types.ClassSym, a *applied) {
	u := f.unit
	n := len(sym.TypeParams)
	if n > len(a.resolved) {
		n = len(a.resolved)
	}
	inferred := sym.ReadableName() + "<" + typeList(a.resolved[:n], ",") + ">"
	diamond := sym.ReadableName() + "<>"
	switch a.failure.Kind {
	case infer.NonDenotable:
		c.report(u, diag.NonDenotableInference, typeNameSpan(typeNode), inferred, diamond)
	case infer.Inaccessible:
		name := a.failure.Type.String()
		if a.failure.Class != nil {
			name = a.failure.Class.ReadableName()
		}
		c.report(u, diag.InaccessibleInferredType, typeNameSpan(typeNode), name)
	default:
		c.report(u, diag.CannotInferTypeArguments, typeNode.Span, diamond)
	}
}

// checkRedundantArgs reports explicit class type arguments that a diamond
// would infer identically. For anonymous classes the diamond form is only
// suggested when every method of the body overrides a supertype method.
func (c *Checker) checkRedundantArgs(f *frame, n, typeNode *parser.Node, ct *types.ClassType, args []arg, target types.Type, anon *classDecl) {
	if c.quiet > 0 || c.opts.Severity(diag.RedundantTypeArguments) == diag.Ignore {
		return
	}
	if !c.opts.AtLeast(options.DiamondLevel) {
		return
	}
	if anon != nil && !c.opts.AtLeast(options.AnonymousDiamond) {
		return
	}
	argsNode := lastTypeArgs(typeNode)
	if argsNode == nil || len(argsNode.Children) == 0 {
		return
	}
	for _, a := range args {
		if a.typ == nil {
			return
		}
	}
	u := f.unit
	ts := u.ts
	if anon != nil {
		for _, md := range anon.methods {
			m := md.sym
			if m.IsConstructor() || m.Visibility == types.VisibilityPrivate {
				continue
			}
			if !c.overridesAny(ts, anon.sym, m) {
				log.Debugf("%s: diamond not suggested, %s overrides nothing", u.Path, m.Signature())
				return
			}
		}
	}
	s := &site{
		node:      n,
		name:      n,
		recv:      ct.Sym.ThisType(),
		title:     ct.Sym.ReadableName(),
		ctor:      true,
		target:    target,
		denotable: anon != nil,
	}
	c.quiet++
	a := c.resolveCall(f, s, diamondCandidates(ct.Sym), args)
	c.quiet--
	if a == nil || a.failure != nil {
		return
	}
	rc, ok := a.result.(*types.ClassType)
	if !ok || !sameTypes(ts, rc.Args, ct.Args) {
		return
	}
	c.report(u, diag.RedundantTypeArguments, argsNode.Span, typeList(ct.Args, ", "))
}
