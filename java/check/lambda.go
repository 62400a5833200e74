package check

import (
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// lambda checks a lambda expression against its target functional
// interface.
func (c *Checker) lambda(f *frame, n *parser.Node, target types.Type) types.Type {
	u := f.unit
	ts := u.ts
	if types.IsError(target) && target != nil {
		return target
	}
	var sig *funcSig
	if target != nil {
		sig = c.functionType(ts, target)
	}
	if sig == nil {
		c.report(u, diag.NotAFunctionalInterface, n.Span)
		return types.Invalid
	}
	g, b := c.lambdaFrame(f, n, sig.params)
	b.result = sig.result
	b.handlers = [][]types.Type{sig.throws}
	body := n.Child(1)
	switch {
	case body == nil:
	case body.Kind == parser.KindBlock:
		c.stmts(g.child(), body.Children)
		if !types.IsVoid(sig.result) && !types.IsError(sig.result) && canComplete(body) {
			c.report(u, diag.ShouldReturnValue, n.Span, sig.result)
		}
	case types.IsVoid(sig.result):
		c.expr(g, body, nil)
	default:
		c.assign(g, body, sig.result)
	}
	return target
}

// lambdaFrame opens the scope of a lambda body with its parameters
// declared. Implicitly typed parameters take the types in params.
func (c *Checker) lambdaFrame(f *frame, n *parser.Node, params []types.Type) (*frame, *body) {
	b := &body{lambda: true}
	g := f.child()
	g.body = b
	ps := n.Child(0)
	if ps == nil {
		return g, b
	}
	i := 0
	for _, p := range ps.Children {
		var t types.Type = types.Invalid
		if i < len(params) {
			t = params[i]
		}
		switch p.Kind {
		case parser.KindIdentifier:
			g.declare(&local{name: p.TokenLiteral(), typ: t, node: p})
		case parser.KindParameter:
			var pt types.Type
			var name string
			if isVarType(typeChild(p)) {
				pt = t
				if id := p.FirstChildOfKind(parser.KindIdentifier); id != nil {
					name = id.TokenLiteral()
				}
			} else {
				pt, name, _ = c.readParam(f, p)
			}
			if name != "" && name != "_" {
				g.declare(&local{name: name, typ: pt, node: p})
			}
		case parser.KindUnnamedVariable:
		default:
			continue
		}
		i++
	}
	return g, b
}

// lambdaReturn types the returned expressions of a lambda given its
// parameter types, without reporting anything. It returns void for a body
// that returns no value and nil when nothing is known.
func (c *Checker) lambdaReturn(f *frame, n *parser.Node, params []types.Type) types.Type {
	ts := f.unit.ts
	c.quiet++
	defer func() { c.quiet-- }()
	g, b := c.lambdaFrame(f, n, params)
	b.collect = true
	body := n.Child(1)
	if body == nil {
		return nil
	}
	if body.Kind != parser.KindBlock {
		return c.expr(g, body, nil)
	}
	c.stmts(g.child(), body.Children)
	var results []types.Type
	void := false
	for _, r := range b.returns {
		switch {
		case types.IsVoid(r):
			void = true
		case types.IsError(r), r == types.Null:
		default:
			results = append(results, boxed(ts, r))
		}
	}
	if len(results) == 0 {
		if void || len(b.returns) == 0 {
			return types.VoidType
		}
		return nil
	}
	return ts.Lub(results...)
}

// mrefTarget classifies the part of a method reference before "::".
func (c *Checker) mrefTarget(f *frame, n *parser.Node) qual {
	switch n.Kind {
	case parser.KindType, parser.KindArrayType:
		t := c.resolveType(f, n)
		if types.IsError(t) {
			return qual{}
		}
		q := qual{kind: qualType, typ: t}
		if ct, ok := t.(*types.ClassType); ok {
			q.sym = ct.Sym
		}
		return q
	case parser.KindIdentifier, parser.KindFieldAccess, parser.KindThis, parser.KindSuper:
		q := c.qualifyExpr(f, n)
		if q.kind == qualPackage {
			c.report(f.unit, diag.UndefinedName, n.Span, q.pkg)
			return qual{}
		}
		return q
	}
	t := c.expr(f, n, nil)
	if types.IsError(t) {
		return qual{}
	}
	return qual{kind: qualValue, typ: t}
}

// resolveMethodRef finds the method or constructor a method reference
// denotes for the function type sig. Nothing is reported.
func (c *Checker) resolveMethodRef(f *frame, n *parser.Node, q qual, sig *funcSig) (*applied, bool) {
	u := f.unit
	ts := u.ts
	nameNode := n.Child(len(n.Children) - 1)
	if nameNode == nil {
		return nil, false
	}
	var typeArgs []types.Type
	if ta := n.FirstChildOfKind(parser.KindTypeArguments); ta != nil {
		for _, a := range ta.Children {
			typeArgs = append(typeArgs, c.resolveType(f, a))
		}
	}
	name := nameNode.TokenLiteral()
	args := make([]arg, len(sig.params))
	for i, p := range sig.params {
		args[i] = arg{typ: p}
	}
	s := &site{node: n, name: nameNode, target: sig.result, typeArgs: typeArgs}
	c.quiet++
	defer func() { c.quiet-- }()

	if name == "new" {
		if at, ok := q.typ.(*types.ArrayType); ok {
			if len(args) == 1 && types.IsPrimitive(types.UnboxedOrSelf(args[0].typ)) {
				return &applied{result: at, params: sig.params}, true
			}
			return nil, false
		}
		ct, ok := q.typ.(*types.ClassType)
		if !ok || ct.Sym.IsAbstract || ct.Sym.IsInterface() {
			return nil, false
		}
		s.ctor = true
		s.title = ct.Sym.ReadableName()
		if ct.IsRaw() {
			s.recv = ct.Sym.ThisType()
			a := c.resolveCall(f, s, diamondCandidates(ct.Sym), args)
			return a, a != nil
		}
		s.recv = ct
		a := c.resolveCall(f, s, c.methodsOf(ts, ct, types.ConstructorName), args)
		if a != nil {
			a.result = ct
		}
		return a, a != nil
	}

	switch q.kind {
	case qualValue:
		s.recv = q.typ
		a := c.resolveCall(f, s, c.methodsOf(ts, q.typ, name), args)
		return a, a != nil
	case qualType:
		s.recv = q.typ
		var static []*types.MethodSym
		for _, m := range c.methodsOf(ts, q.typ, name) {
			if m.IsStatic {
				static = append(static, m)
			}
		}
		if a := c.resolveCall(f, s, static, args); a != nil {
			return a, true
		}
		if len(args) == 0 || types.IsPrimitive(args[0].typ) {
			return nil, false
		}
		recv := q.typ
		if ct, ok := recv.(*types.ClassType); ok && ct.IsRaw() {
			if sup := ts.AsSuper(args[0].typ, ct.Sym); sup != nil {
				recv = sup
			}
		}
		if !ts.IsSubtype(ts.Erasure(args[0].typ), ts.Erasure(recv)) {
			return nil, false
		}
		var inst []*types.MethodSym
		for _, m := range c.methodsOf(ts, recv, name) {
			if !m.IsStatic {
				inst = append(inst, m)
			}
		}
		s.recv = recv
		a := c.resolveCall(f, s, inst, args[1:])
		return a, a != nil
	}
	return nil, false
}

// methodRef checks a method reference against its target functional
// interface.
func (c *Checker) methodRef(f *frame, n *parser.Node, target types.Type) types.Type {
	u := f.unit
	ts := u.ts
	if types.IsError(target) && target != nil {
		return target
	}
	var sig *funcSig
	if target != nil {
		sig = c.functionType(ts, target)
	}
	if sig == nil {
		c.report(u, diag.NotAFunctionalInterface, n.Span)
		return types.Invalid
	}
	q := c.mrefTarget(f, n.Child(0))
	if q.kind == qualError {
		return types.Invalid
	}
	a, ok := c.resolveMethodRef(f, n, q, sig)
	nameNode := n.Child(len(n.Children) - 1)
	if !ok {
		c.report(u, diag.UndefinedMethodReference, nameNode.Span, q.typ, nameNode.TokenLiteral(), types.ParamList(sig.params, false))
		return target
	}
	if !types.IsVoid(sig.result) && !types.IsError(sig.result) {
		if types.IsVoid(a.result) {
			c.report(u, diag.TypeMismatch, nameNode.Span, types.VoidType, sig.result)
			return target
		}
	}
	g := f.child()
	g.body = &body{lambda: true, handlers: [][]types.Type{sig.throws}}
	for _, th := range a.throws {
		c.thrown(g, th, n.Span)
	}
	return target
}

// methodRefReturn is the result type of a method reference for sig, or nil
// when it does not resolve.
func (c *Checker) methodRefReturn(f *frame, n *parser.Node, sig *funcSig) types.Type {
	c.quiet++
	q := c.mrefTarget(f, n.Child(0))
	c.quiet--
	if q.kind == qualError {
		return nil
	}
	a, ok := c.resolveMethodRef(f, n, q, sig)
	if !ok {
		return nil
	}
	return a.result
}
