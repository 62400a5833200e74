package check

import (
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// checkBodies checks field initializers, initializers, enum constants and
// method bodies of a source class.
func (c *Checker) checkBodies(sym *types.ClassSym) {
	d := c.decls[sym]
	if d == nil || d.done {
		return
	}
	d.done = true
	u := d.unit
	c.annotations(d.frame, d.mods)

	var lastDecl *parser.Node
	for _, fd := range d.fields {
		f := &frame{outer: d.frame, unit: u, static: fd.sym.IsStatic, suppress: suppressesNLS(fd.mods), body: &body{}}
		if fd.decl != lastDecl {
			lastDecl = fd.decl
			c.annotations(d.frame, fd.mods)
			if f.suppress {
				u.quiet = append(u.quiet, fd.decl.Span)
			}
		}
		if init := initOf(fd.node); init != nil {
			c.initializer(f, init, fd.sym.Type)
		}
	}
	for _, in := range d.inits {
		static := false
		if id := in.FirstChildOfKind(parser.KindIdentifier); id != nil && id.TokenLiteral() == "static" {
			static = true
		}
		f := &frame{outer: d.frame, unit: u, static: static, body: &body{}}
		if b := in.FirstChildOfKind(parser.KindBlock); b != nil {
			c.stmt(f, b)
		}
	}
	for _, k := range d.consts {
		c.enumConstant(d, k)
	}
	for _, md := range d.methods {
		c.methodBody(d, md)
	}
}

// initOf returns the initializer of a variable declarator.
func initOf(v *parser.Node) *parser.Node {
	for i, ch := range v.Children {
		if i == 0 || ch.Kind == parser.KindDims {
			continue
		}
		return ch
	}
	return nil
}

func (c *Checker) initializer(f *frame, init *parser.Node, target types.Type) {
	if init.Kind == parser.KindArrayInit {
		c.arrayInit(f, init, target)
		return
	}
	c.assign(f, init, target)
}

func (c *Checker) enumConstant(d *classDecl, k *parser.Node) {
	u := d.unit
	f := &frame{outer: d.frame, unit: u, static: true, body: &body{}}
	for _, a := range k.ChildrenOfKind(parser.KindAnnotation) {
		c.annotation(d.frame, a)
	}
	this := d.sym.ThisType()
	args := k.FirstChildOfKind(parser.KindArguments)
	name := k.FirstChildOfKind(parser.KindIdentifier)
	if name == nil {
		return
	}
	c.construct(f, &site{
		node:  k,
		name:  name,
		args:  args,
		recv:  this,
		title: d.sym.ReadableName(),
	})
	if body := k.FirstChildOfKind(parser.KindClassBody); body != nil {
		c.completeLocal(c.declareAnonymous(f, name, body, this, false))
	}
}

func (c *Checker) methodBody(d *classDecl, md *methodDecl) {
	c.annotations(d.frame, md.mods)
	u := d.unit
	f := md.frame.child()
	m := md.sym
	b := &body{method: m, result: m.Result, handlers: [][]types.Type{m.Throws}, ctor: m.IsConstructor()}
	f.body = b
	for i, p := range md.params {
		c.annotations(f, readModifiers(p.FirstChildOfKind(parser.KindModifiers)))
		if i >= len(m.ParamNames) || m.ParamNames[i] == "" || m.ParamNames[i] == "_" {
			continue
		}
		f.declare(&local{name: m.ParamNames[i], typ: m.Params[i], node: p})
	}
	if md.params == nil && m.IsConstructor() {
		for i, name := range m.ParamNames {
			f.declare(&local{name: name, typ: m.Params[i], node: md.name})
		}
	}
	if md.block == nil {
		if v := annotationDefault(md.node); v != nil {
			c.annotationValue(f, v)
		}
		return
	}
	c.stmts(f.child(), md.block.Children)
	if !types.IsVoid(m.Result) && !types.IsError(m.Result) && canComplete(md.block) {
		c.report(u, diag.ShouldReturnValue, md.name.Span, m.Result)
	}
}

// annotationDefault returns the default value of an annotation element.
func annotationDefault(n *parser.Node) *parser.Node {
	seen := false
	for _, ch := range n.Children {
		if ch.Kind == parser.KindParameters {
			seen = true
			continue
		}
		if seen && ch.Kind != parser.KindDims && ch.Kind != parser.KindThrowsList {
			return ch
		}
	}
	return nil
}

func (c *Checker) stmts(f *frame, list []*parser.Node) {
	for _, s := range list {
		c.stmt(f, s)
	}
}

func (c *Checker) stmt(f *frame, n *parser.Node) {
	if n == nil {
		return
	}
	u := f.unit
	ts := u.ts
	switch n.Kind {
	case parser.KindBlock:
		c.stmts(f.child(), n.Children)
	case parser.KindLocalVarDecl:
		c.localVar(f, n)
	case parser.KindExprStmt:
		c.expr(f, n.Child(0), nil)
	case parser.KindIfStmt:
		c.condition(f, n.Child(0))
		for _, s := range n.Children[1:] {
			c.stmt(f.child(), s)
		}
	case parser.KindWhileStmt:
		c.condition(f, n.Child(0))
		c.stmt(f.child(), n.Child(1))
	case parser.KindDoStmt:
		c.stmt(f.child(), n.Child(0))
		c.condition(f, n.Child(1))
	case parser.KindForStmt:
		g := f.child()
		for _, ch := range n.Children {
			switch ch.Kind {
			case parser.KindForInit, parser.KindForUpdate:
				for _, e := range ch.Children {
					if e.Kind == parser.KindLocalVarDecl {
						c.localVar(g, e)
						continue
					}
					c.expr(g, e, nil)
				}
			}
		}
		if cond := forCondition(n); cond != nil {
			c.condition(g, cond)
		}
		c.stmt(g.child(), n.Child(len(n.Children)-1))
	case parser.KindEnhancedForStmt:
		c.enhancedFor(f, n)
	case parser.KindSwitchStmt:
		c.switchBody(f, n, nil)
	case parser.KindReturnStmt:
		c.returnStmt(f, n)
	case parser.KindThrowStmt:
		e := n.Child(0)
		t := c.expr(f, e, nil)
		switch {
		case types.IsError(t):
		case t == types.Null:
		case !ts.IsThrowable(t):
			c.report(u, diag.NotAnExceptionType, e.Span, t)
		default:
			c.thrown(f, t, n.Span)
		}
	case parser.KindTryStmt:
		c.tryStmt(f, n)
	case parser.KindSynchronizedStmt:
		c.expr(f, n.Child(0), nil)
		c.stmt(f, n.Child(1))
	case parser.KindAssertStmt:
		c.condition(f, n.Child(0))
		if len(n.Children) > 1 {
			c.expr(f, n.Child(1), nil)
		}
	case parser.KindLabeledStmt:
		c.stmt(f, n.Child(len(n.Children)-1))
	case parser.KindYieldStmt:
		c.yield(f, n.Child(0))
	case parser.KindExplicitConstructorInvocation:
		c.ctorInvocation(f, n)
	case parser.KindLocalClassDecl:
		decl := n.Child(0)
		if decl == nil || !isTypeDecl(decl) {
			return
		}
		if d := c.enterClass(u, decl, nil, f, true); d != nil {
			f.declareType(d)
			c.completeLocal(d)
		}
	case parser.KindSwitchExpr:
		c.expr(f, n, nil)
	}
}

// forCondition returns the condition of a basic for statement.
func forCondition(n *parser.Node) *parser.Node {
	for i, ch := range n.Children {
		if i == len(n.Children)-1 {
			break
		}
		switch ch.Kind {
		case parser.KindForInit, parser.KindForUpdate:
			continue
		}
		return ch
	}
	return nil
}

func (c *Checker) condition(f *frame, n *parser.Node) {
	if n == nil {
		return
	}
	c.assign(f, n, types.BooleanType)
}

// isVarType reports whether a local type node is the reserved name var.
func isVarType(n *parser.Node) bool {
	if n == nil || n.Kind != parser.KindType || len(n.Children) != 1 {
		return false
	}
	qn := n.Children[0]
	if qn.Kind != parser.KindQualifiedName || len(qn.Children) != 1 {
		return false
	}
	id := qn.Children[0]
	return id.Token != nil && id.Token.Kind == parser.TokenVar
}

func (c *Checker) localVar(f *frame, n *parser.Node) {
	u := f.unit
	mods := readModifiers(n.FirstChildOfKind(parser.KindModifiers))
	c.annotations(f, mods)
	tn := typeChild(n)
	decls := n.ChildrenOfKind(parser.KindVarDeclarator)
	inferred := isVarType(tn) && c.opts.VarIsReserved()
	var declared types.Type
	if !inferred {
		declared = c.resolveType(f, tn)
	}
	for i, v := range decls {
		id := v.Child(0)
		if id == nil {
			continue
		}
		init := initOf(v)
		t := declared
		dims := v.FirstChildOfKind(parser.KindDims)
		switch {
		case !inferred:
			if dims != nil && !types.IsError(t) {
				t = types.ArrayOf(t, len(dims.Children))
			}
			if init != nil {
				c.initializer(f, init, t)
			}
		case i > 0:
			c.report(u, diag.VarLocalMultipleDeclarators, id.Span)
			t = types.Invalid
			if init != nil {
				c.expr(f, init, nil)
			}
		case dims != nil:
			c.report(u, diag.VarLocalCannotBeArray, tn.Span)
			t = types.Invalid
		case init == nil:
			c.report(u, diag.VarLocalWithoutInitializer, id.Span)
			t = types.Invalid
		case init.Kind == parser.KindArrayInit:
			c.report(u, diag.VarLocalArrayInitializer, id.Span)
			t = types.Invalid
		default:
			t = c.expr(f, init, nil)
			if t == types.Null {
				c.report(u, diag.VarLocalInitializedToNull, id.Span)
				t = types.Invalid
			} else {
				t = upward(u.ts, t)
			}
		}
		c.declareLocal(f, id, t, false)
	}
}

// declareLocal adds a local variable, reporting a name that is already
// declared in the same body.
func (c *Checker) declareLocal(f *frame, id *parser.Node, t types.Type, pattern bool) {
	if id.Kind != parser.KindIdentifier {
		return
	}
	name := id.TokenLiteral()
	if name == "" || name == "_" {
		return
	}
	if !pattern && f.clashes(name) {
		c.report(f.unit, diag.DuplicateLocal, id.Span, name)
	}
	f.declare(&local{name: name, typ: t, node: id, pattern: pattern})
}

// upward replaces captured variables in an inferred local type by
// wildcards.
func upward(ts *types.Types, t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Captured:
		return upward(ts, t.Upper)
	case *types.ClassType:
		if len(t.Args) == 0 {
			return t
		}
		out := &types.ClassType{Sym: t.Sym, Outer: t.Outer, Args: make([]types.Type, len(t.Args))}
		for i, a := range t.Args {
			cv, ok := a.(*types.Captured)
			switch {
			case !ok:
				out.Args[i] = a
			case cv.Lower != nil:
				out.Args[i] = &types.Wildcard{Kind: types.Super, Bound: cv.Lower}
			case cv.Upper == nil || types.IsObject(cv.Upper):
				out.Args[i] = &types.Wildcard{Kind: types.Unbounded}
			default:
				out.Args[i] = &types.Wildcard{Kind: types.Extends, Bound: cv.Upper}
			}
		}
		return out
	case *types.ArrayType:
		return &types.ArrayType{Elem: upward(ts, t.Elem)}
	}
	return t
}

func (c *Checker) enhancedFor(f *frame, n *parser.Node) {
	u := f.unit
	ts := u.ts
	g := f.child()
	mods := readModifiers(n.FirstChildOfKind(parser.KindModifiers))
	c.annotations(f, mods)
	tn := typeChild(n)
	v := n.FirstChildOfKind(parser.KindVarDeclarator)
	var iter, body *parser.Node
	for i, ch := range n.Children {
		if ch == v && i+2 < len(n.Children) {
			iter, body = n.Children[i+1], n.Children[i+2]
		}
	}
	var elem types.Type = types.Invalid
	if iter != nil {
		it := c.expr(f, iter, nil)
		switch at := ts.UpperBound(it).(type) {
		case *types.ArrayType:
			elem = at.Elem
		default:
			if iterable := ts.Class(types.IterableName); iterable != nil {
				if sup := ts.AsSuper(it, iterable); sup != nil {
					elem = ts.Object()
					if len(sup.Args) == 1 {
						elem = ts.UpperBound(sup.Args[0])
					}
				}
			}
		}
	}
	t := elem
	if !isVarType(tn) || !c.opts.VarIsReserved() {
		t = c.resolveType(f, tn)
		if dims := v.FirstChildOfKind(parser.KindDims); dims != nil && !types.IsError(t) {
			t = types.ArrayOf(t, len(dims.Children))
		}
		if iter != nil && !types.IsError(elem) && !ts.IsAssignable(elem, t) {
			c.report(u, diag.TypeMismatch, iter.Span, elem, t)
		}
	} else {
		t = upward(ts, elem)
	}
	if v != nil && v.Child(0) != nil {
		c.declareLocal(g, v.Child(0), t, false)
	}
	c.stmt(g.child(), body)
}

func (c *Checker) returnStmt(f *frame, n *parser.Node) {
	u := f.unit
	b := f.enclosingBody()
	e := n.Child(0)
	if b == nil {
		if e != nil {
			c.expr(f, e, nil)
		}
		return
	}
	if b.collect {
		if e != nil {
			b.returns = append(b.returns, c.expr(f, e, nil))
		} else {
			b.returns = append(b.returns, types.VoidType)
		}
		return
	}
	switch {
	case e == nil:
		if b.result != nil && !types.IsVoid(b.result) && !types.IsError(b.result) {
			c.report(u, diag.ShouldReturnValue, n.Span, b.result)
		}
	case b.result == nil || types.IsVoid(b.result):
		c.expr(f, e, nil)
		c.report(u, diag.VoidMethodReturnsValue, e.Span)
	default:
		c.assign(f, e, b.result)
	}
}

// thrown checks that a checked exception of type t raised at span is
// caught or declared.
func (c *Checker) thrown(f *frame, t types.Type, span parser.Span) {
	ts := f.unit.ts
	if types.IsError(t) || !ts.IsChecked(t) {
		return
	}
	b := f.enclosingBody()
	if b == nil || b.handles(ts, t) {
		return
	}
	if b.lambda && b.collect {
		return
	}
	c.report(f.unit, diag.UnhandledException, span, t)
}

func (c *Checker) tryStmt(f *frame, n *parser.Node) {
	u := f.unit
	ts := u.ts
	g := f.child()
	type clause struct {
		node *parser.Node
		typ  types.Type
	}
	var catches []types.Type
	var clauses []clause
	for _, ch := range n.ChildrenOfKind(parser.KindCatchClause) {
		tn := catchType(ch)
		alts := c.catchAlternatives(g, tn)
		for i, alt := range alts {
			if !types.IsError(alt) && !ts.IsThrowable(alt) {
				c.report(u, diag.NotAnExceptionType, catchAltNode(tn, i).Span, alt)
			}
		}
		catches = append(catches, alts...)
		var t types.Type = types.Invalid
		switch len(alts) {
		case 0:
		case 1:
			t = alts[0]
		default:
			t = ts.Lub(alts...)
		}
		clauses = append(clauses, clause{ch, t})
	}

	b := f.enclosingBody()
	if b != nil {
		b.handlers = append(b.handlers, catches)
	}
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindLocalVarDecl:
			c.localVar(g, ch)
			if v := ch.FirstChildOfKind(parser.KindVarDeclarator); v != nil && v.Child(0) != nil {
				if l := g.lookupLocal(v.Child(0).TokenLiteral()); l != nil {
					c.closeThrows(g, l.typ, ch.Span)
				}
			}
		case parser.KindBlock:
			c.stmt(g, ch)
		case parser.KindCatchClause, parser.KindFinallyClause:
		default:
			c.closeThrows(g, c.expr(g, ch, nil), ch.Span)
		}
	}
	if b != nil {
		b.handlers = b.handlers[:len(b.handlers)-1]
	}

	for _, cl := range clauses {
		h := f.child()
		if id := catchName(cl.node); id != nil {
			c.declareLocal(h, id, cl.typ, false)
		}
		if blk := cl.node.FirstChildOfKind(parser.KindBlock); blk != nil {
			c.stmts(h.child(), blk.Children)
		}
	}
	if fin := n.FirstChildOfKind(parser.KindFinallyClause); fin != nil {
		c.stmt(f, fin.FirstChildOfKind(parser.KindBlock))
	}
}

func catchType(cl *parser.Node) *parser.Node {
	for _, ch := range cl.Children {
		switch ch.Kind {
		case parser.KindType, parser.KindArrayType, parser.KindUnionType:
			return ch
		}
	}
	return nil
}

func catchName(cl *parser.Node) *parser.Node {
	for _, ch := range cl.Children {
		switch ch.Kind {
		case parser.KindIdentifier, parser.KindUnnamedVariable:
			return ch
		}
	}
	return nil
}

// catchAlternatives resolves the type of a catch parameter; a union type
// yields one type per alternative.
func (c *Checker) catchAlternatives(f *frame, tn *parser.Node) []types.Type {
	if tn == nil {
		return nil
	}
	if tn.Kind != parser.KindUnionType {
		return []types.Type{c.resolveType(f, tn)}
	}
	var out []types.Type
	for _, alt := range tn.Children {
		if alt.Kind == parser.KindType || alt.Kind == parser.KindArrayType {
			out = append(out, c.resolveType(f, alt))
		}
	}
	return out
}

func catchAltNode(tn *parser.Node, i int) *parser.Node {
	if tn.Kind != parser.KindUnionType {
		return tn
	}
	j := 0
	for _, alt := range tn.Children {
		if alt.Kind != parser.KindType && alt.Kind != parser.KindArrayType {
			continue
		}
		if j == i {
			return alt
		}
		j++
	}
	return tn
}

// closeThrows checks the exceptions of the close method a resource of
// type t calls implicitly.
func (c *Checker) closeThrows(f *frame, t types.Type, span parser.Span) {
	ts := f.unit.ts
	if types.IsError(t) {
		return
	}
	for _, m := range c.methodsOf(ts, t, "close") {
		if len(m.Params) != 0 {
			continue
		}
		for _, th := range m.Throws {
			c.thrown(f, view(ts, t, m.Owner, th), span)
		}
		return
	}
}

func (c *Checker) yield(f *frame, e *parser.Node) {
	sw := f.enclosingSwitch()
	switch {
	case sw == nil:
		c.expr(f, e, nil)
	case sw.target != nil:
		c.assign(f, e, sw.target)
		sw.results = append(sw.results, sw.target)
	default:
		sw.results = append(sw.results, c.expr(f, e, nil))
	}
}

// switchBody checks the selector, labels and cases of a switch. sw is nil
// for switch statements.
func (c *Checker) switchBody(f *frame, n *parser.Node, sw *switchCtx) {
	if len(n.Children) == 0 {
		return
	}
	sel := c.expr(f, n.Child(0), nil)
	var enum *types.ClassSym
	if ct, ok := sel.(*types.ClassType); ok && ct.Sym.Kind == types.ClassKindEnum {
		enum = ct.Sym
	}
	shared := f.child()
	shared.sw = sw
	for _, cs := range n.Children[1:] {
		if cs.Kind != parser.KindSwitchCase {
			continue
		}
		arrow := false
		for _, l := range cs.ChildrenOfKind(parser.KindSwitchLabel) {
			if l.IsArrowCase() {
				arrow = true
			}
		}
		g := shared
		if arrow {
			g = f.child()
			g.sw = sw
		}
		for _, ch := range cs.Children {
			if ch.Kind == parser.KindSwitchLabel {
				c.switchLabel(g, ch, sel, enum)
				continue
			}
			if !arrow {
				c.stmt(g, ch)
				continue
			}
			switch {
			case ch.Kind == parser.KindExprStmt && sw != nil:
				c.yield(g, ch.Child(0))
			case ch.Kind == parser.KindBlock:
				c.stmts(g.child(), ch.Children)
			default:
				c.stmt(g, ch)
			}
		}
	}
}

func (c *Checker) switchLabel(f *frame, l *parser.Node, sel types.Type, enum *types.ClassSym) {
	u := f.unit
	for _, e := range l.Children {
		switch e.Kind {
		case parser.KindIdentifier:
			if e.Token != nil && (e.Token.Kind == parser.TokenArrow || e.Token.Kind == parser.TokenDefault) {
				continue
			}
			if enum != nil {
				if fs := enum.DeclaredField(e.TokenLiteral()); fs == nil {
					c.report(u, diag.UndefinedField, e.Span, e.TokenLiteral())
				}
				continue
			}
			c.caseConstant(f, e, sel)
		case parser.KindTypePattern, parser.KindRecordPattern, parser.KindMatchAllPattern:
			c.pattern(f, e, sel)
		case parser.KindGuard:
			c.condition(f, e.Child(0))
		default:
			if e.Kind == parser.KindLiteral && e.Token != nil && e.Token.Kind == parser.TokenNull {
				continue
			}
			c.caseConstant(f, e, sel)
		}
	}
}

func (c *Checker) caseConstant(f *frame, e *parser.Node, sel types.Type) {
	t := c.expr(f, e, nil)
	if types.IsError(sel) || types.IsError(t) {
		return
	}
	c.checkAssignable(f, e, t, types.UnboxedOrSelf(sel))
}

// pattern checks a type or record pattern against the type it matches and
// declares its bindings in f.
func (c *Checker) pattern(f *frame, n *parser.Node, target types.Type) types.Type {
	ts := f.unit.ts
	switch n.Kind {
	case parser.KindTypePattern:
		tn := typeChild(n)
		t := target
		if !isVarType(tn) || !c.opts.VarIsReserved() {
			t = c.resolveType(f, tn)
		}
		if t == nil {
			t = types.Invalid
		}
		for _, ch := range n.Children {
			if ch.Kind == parser.KindIdentifier {
				c.declareLocal(f, ch, t, true)
			}
		}
		return t
	case parser.KindRecordPattern:
		tn := typeChild(n)
		t, _ := c.resolveTypeUse(f, tn, typeUse{raw: true})
		var comps []types.Type
		if ct, ok := t.(*types.ClassType); ok && ct.Sym.Kind == types.ClassKindRecord {
			recv := types.Type(ct)
			if ct.IsRaw() && target != nil {
				if sup := ts.AsSuper(target, ct.Sym); sup != nil {
					recv = sup
				}
			}
			for _, fs := range ct.Sym.Fields {
				if !fs.IsStatic {
					comps = append(comps, view(ts, recv, ct.Sym, fs.Type))
				}
			}
		}
		i := 0
		for _, ch := range n.Children {
			switch ch.Kind {
			case parser.KindTypePattern, parser.KindRecordPattern, parser.KindMatchAllPattern:
				var ct types.Type = types.Invalid
				if i < len(comps) {
					ct = comps[i]
				}
				c.pattern(f, ch, ct)
				i++
			}
		}
		return t
	}
	return target
}

// ctorInvocation checks this(...) and super(...) at the start of a
// constructor.
func (c *Checker) ctorInvocation(f *frame, n *parser.Node) {
	d := f.thisClass()
	if d == nil {
		return
	}
	args := n.FirstChildOfKind(parser.KindArguments)
	var recv *types.ClassType
	var name *parser.Node
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindThis:
			recv, name = d.sym.ThisType(), ch
		case parser.KindSuper:
			name = ch
			recv = d.sym.Super
		case parser.KindArguments, parser.KindTypeArguments:
		default:
			c.expr(f, ch, nil)
		}
	}
	if recv == nil || name == nil {
		return
	}
	g := f.child()
	g.static = true
	c.construct(g, &site{
		node:  n,
		name:  n,
		args:  args,
		recv:  recv,
		title: recv.Sym.ReadableName(),
	})
}
