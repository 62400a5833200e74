package check

import (
	"strings"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// resolveImports binds every import of u. An import that names nothing
// is reported at its longest unresolvable prefix.
func (c *Checker) resolveImports(u *unitState) {
	for _, imp := range u.Imports {
		qn := imp.Node.FirstChildOfKind(parser.KindQualifiedName)
		owner := imp.Name
		if imp.Static && !imp.OnDemand {
			owner, _ = types.SplitName(imp.Name)
		}
		switch {
		case imp.Static:
			imp.Sym = c.FindType(owner)
			if imp.Sym != nil && !imp.OnDemand && !c.hasStaticMember(imp.Sym, imp.Name[len(owner)+1:]) {
				imp.Sym = nil
			}
			imp.resolved = imp.Sym != nil
		case imp.OnDemand:
			imp.Sym = c.FindType(imp.Name)
			imp.resolved = imp.Sym != nil || c.HasPackage(imp.Name)
		default:
			imp.Sym = c.FindType(imp.Name)
			imp.resolved = imp.Sym != nil
		}
		if !imp.resolved {
			c.reportImport(u, imp, qn)
		}
	}
}

func (c *Checker) hasStaticMember(sym *types.ClassSym, name string) bool {
	if c.memberType(sym, name) != nil {
		return true
	}
	for _, s := range c.supertypeSyms(sym) {
		if f := s.DeclaredField(name); f != nil && f.IsStatic {
			return true
		}
		for _, m := range s.DeclaredMethods(name) {
			if m.IsStatic {
				return true
			}
		}
	}
	return false
}

func (c *Checker) reportImport(u *unitState, imp *Import, qn *parser.Node) {
	if qn == nil {
		return
	}
	ids := qn.ChildrenOfKind(parser.KindIdentifier)
	for i := 1; i <= len(ids); i++ {
		prefix := joinIdents(ids[:i])
		if i < len(ids) && (c.HasPackage(prefix) || c.FindType(prefix) != nil) {
			continue
		}
		c.report(u, diag.ImportNotFound, spanOf(ids[0], ids[i-1]), prefix)
		return
	}
}

func joinIdents(ids []*parser.Node) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.TokenLiteral()
	}
	return strings.Join(parts, ".")
}

// typeUse says how a type node is used.
type typeUse struct {
	// diamond accepts "<>" after the class name.
	diamond bool
	// raw accepts a generic class without arguments silently.
	raw bool
}

func (c *Checker) resolveType(f *frame, n *parser.Node) types.Type {
	t, _ := c.resolveTypeUse(f, n, typeUse{})
	return t
}

// resolveTypeUse resolves a type node. It reports whether the node ended
// in a diamond.
func (c *Checker) resolveTypeUse(f *frame, n *parser.Node, use typeUse) (types.Type, bool) {
	if n == nil {
		return types.Invalid, false
	}
	switch n.Kind {
	case parser.KindArrayType:
		var elem types.Type = types.Invalid
		for _, ch := range n.Children {
			if ch.Kind == parser.KindAnnotation {
				c.annotation(f, ch)
				continue
			}
			elem, _ = c.resolveTypeUse(f, ch, use)
		}
		if types.IsError(elem) {
			return types.Invalid, false
		}
		return &types.ArrayType{Elem: elem}, false
	case parser.KindType:
		return c.namedType(f, n, use)
	case parser.KindIdentifier, parser.KindFieldAccess, parser.KindQualifiedName:
		return c.segmentsType(f, segmentsOf(n, nil), use)
	case parser.KindWildcard:
		w := &types.Wildcard{Kind: types.Unbounded}
		for _, ch := range n.Children {
			switch ch.Kind {
			case parser.KindIdentifier:
				switch ch.TokenLiteral() {
				case "extends":
					w.Kind = types.Extends
				case "super":
					w.Kind = types.Super
				}
			case parser.KindType, parser.KindArrayType:
				w.Bound = c.resolveType(f, ch)
			case parser.KindAnnotation:
				c.annotation(f, ch)
			}
		}
		if w.Kind != types.Unbounded && w.Bound == nil {
			w.Kind = types.Unbounded
		}
		return w, false
	case parser.KindUnionType:
		var alts []types.Type
		for _, ch := range n.Children {
			alts = append(alts, c.resolveType(f, ch))
		}
		return f.unit.ts.Lub(alts...), false
	case parser.KindIntersectionType:
		in := &types.Intersection{}
		for _, ch := range n.Children {
			in.Types = append(in.Types, c.resolveType(f, ch))
		}
		if len(in.Types) == 1 {
			return in.Types[0], false
		}
		return in, false
	}
	return types.Invalid, false
}

// segment is one name in a qualified type, with the type arguments that
// follow it.
type segment struct {
	name string
	node *parser.Node
	args *parser.Node
}

// segmentsOf flattens a name written as a qualified name or as an
// expression into segments.
func segmentsOf(n *parser.Node, out []segment) []segment {
	switch n.Kind {
	case parser.KindIdentifier:
		return append(out, segment{name: n.TokenLiteral(), node: n})
	case parser.KindQualifiedName:
		for _, id := range n.ChildrenOfKind(parser.KindIdentifier) {
			out = append(out, segment{name: id.TokenLiteral(), node: id})
		}
		return out
	case parser.KindFieldAccess:
		out = segmentsOf(n.Child(0), out)
		if last := n.Child(len(n.Children) - 1); last != nil && last.Kind == parser.KindIdentifier {
			out = append(out, segment{name: last.TokenLiteral(), node: last})
		}
		return out
	}
	return out
}

func (c *Checker) namedType(f *frame, n *parser.Node, use typeUse) (types.Type, bool) {
	var segs []segment
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindAnnotation:
			c.annotation(f, ch)
		case parser.KindIdentifier:
			if p := types.PrimitiveByName(ch.TokenLiteral()); p != nil && len(segs) == 0 {
				return p, false
			}
			segs = append(segs, segment{name: ch.TokenLiteral(), node: ch})
		case parser.KindQualifiedName, parser.KindFieldAccess:
			segs = segmentsOf(ch, segs)
		case parser.KindTypeArguments:
			if len(segs) > 0 {
				segs[len(segs)-1].args = ch
			}
		}
	}
	if len(segs) == 0 {
		return types.Invalid, false
	}
	return c.segmentsType(f, segs, use)
}

func segmentNames(segs []segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.name
	}
	return strings.Join(parts, ".")
}

func (c *Checker) segmentsType(f *frame, segs []segment, use typeUse) (types.Type, bool) {
	u := f.unit
	sym, tv, problem := c.findType(f, segs[0].name)
	if tv != nil {
		return tv, false
	}
	next := 1
	if sym == nil && problem != diag.AmbiguousType && len(segs) > 1 {
		for i := 1; i < len(segs); i++ {
			if s := c.FindType(segmentNames(segs[:i+1])); s != nil {
				sym, next = s, i+1
				break
			}
		}
		if sym == nil {
			j := 1
			for j < len(segs) && c.HasPackage(segmentNames(segs[:j])) {
				j++
			}
			c.report(u, diag.UndefinedType, spanOf(segs[0].node, segs[j-1].node), segmentNames(segs[:j]))
			return types.Invalid, false
		}
	}
	if sym == nil {
		c.report(u, problem, segs[0].node.Span, segs[0].name)
		return types.Invalid, false
	}
	if !types.IsAccessible(sym, f.thisSym(), u.Package) {
		c.report(u, diag.NotVisibleType, spanOf(segs[0].node, segs[next-1].node), sym.ReadableName())
		return types.Invalid, false
	}
	last := next == len(segs)
	ct, diamond := c.applyArgs(f, sym, segs[next-1], nil, use, last)
	for i := next; i < len(segs); i++ {
		m := c.memberType(ct.Sym, segs[i].name)
		if m == nil {
			c.report(u, diag.UndefinedType, spanOf(segs[0].node, segs[i].node), segmentNames(segs[:i+1]))
			return types.Invalid, false
		}
		var outer *types.ClassType
		if m.IsInner() {
			outer = ct
		}
		ct, diamond = c.applyArgs(f, m, segs[i], outer, use, i == len(segs)-1)
	}
	if ct == nil {
		return types.Invalid, false
	}
	return ct, diamond
}

// applyArgs applies the type arguments written after seg to sym.
func (c *Checker) applyArgs(f *frame, sym *types.ClassSym, seg segment, outer *types.ClassType, use typeUse, last bool) (*types.ClassType, bool) {
	u := f.unit
	ct := &types.ClassType{Sym: sym}
	if sym.IsInner() {
		if outer != nil && (outer.IsParameterized() || outer.Outer != nil) {
			ct.Outer = outer
		} else {
			ct.Outer = c.implicitOuter(f, sym)
		}
	}
	if seg.args == nil {
		if last && !use.raw && sym.IsGeneric() {
			c.report(u, diag.RawType, seg.node.Span, sym.ReadableName(), sym.ThisType().String())
		}
		return ct, false
	}
	if len(seg.args.Children) == 0 {
		return ct, use.diamond && last
	}
	var args []types.Type
	for _, a := range seg.args.Children {
		t, _ := c.resolveTypeUse(f, a, typeUse{})
		args = append(args, t)
	}
	span := spanOf(seg.node, seg.args)
	switch {
	case !sym.IsGeneric():
		c.report(u, diag.NonGenericType, span, sym.ReadableName(), typeList(args, ","))
		return ct, false
	case len(args) != len(sym.TypeParams):
		c.report(u, diag.IncorrectArityForType, span, sym.ThisType().String(), typeList(args, ", "))
		return ct, false
	}
	ct.Args = args
	c.checkBounds(u, ct, seg.args)
	return ct, false
}

// implicitOuter is the enclosing instance type of an inner class named
// without qualification from inside its outer class.
func (c *Checker) implicitOuter(f *frame, sym *types.ClassSym) *types.ClassType {
	if !sym.Outer.IsGeneric() {
		return nil
	}
	ts := f.unit.ts
	for fr := f; fr != nil; fr = fr.outer {
		if fr.class == nil {
			continue
		}
		if sup := ts.AsSuper(fr.class.sym.ThisType(), sym.Outer); sup != nil {
			return sup
		}
	}
	return nil
}

// checkBounds reports type arguments outside the bounds of their
// parameters once headers are complete.
func (c *Checker) checkBounds(u *unitState, ct *types.ClassType, argsNode *parser.Node) {
	c.later(func() {
		ts := u.ts
		s := types.NewSubst(ct.Sym.TypeParams, ct.Args)
		for i, p := range ct.Sym.TypeParams {
			a := ct.Args[i]
			if _, ok := a.(*types.Wildcard); ok || types.IsError(a) {
				continue
			}
			for _, b := range p.Bounds {
				if !ts.IsSubtype(a, s.Apply(b)) {
					c.report(u, diag.BoundMismatch, argsNode.Children[i].Span, a, boundString(p), ct.Sym.ThisType())
					break
				}
			}
		}
	})
}

func boundString(p *types.TypeVar) string {
	if len(p.Bounds) == 0 {
		return p.Name
	}
	return p.Name + " extends " + typeList(p.Bounds, " & ")
}

func typeList(ts []types.Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// annotation resolves the type of an annotation and types its values, so
// imports used only by annotations count as used.
func (c *Checker) annotation(f *frame, n *parser.Node) {
	if f == nil || n == nil || !c.bodies {
		return
	}
	c.annot++
	defer func() { c.annot-- }()
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindQualifiedName:
			c.resolveTypeUse(f, ch, typeUse{raw: true})
		case parser.KindAnnotationElement:
			c.annotationValue(f, ch.Child(len(ch.Children)-1))
		default:
			c.annotationValue(f, ch)
		}
	}
}

func (c *Checker) annotationValue(f *frame, v *parser.Node) {
	if v == nil {
		return
	}
	switch v.Kind {
	case parser.KindAnnotation:
		c.annotation(f, v)
	case parser.KindArrayInit:
		for _, e := range v.Children {
			c.annotationValue(f, e)
		}
	case parser.KindIdentifier:
		// Element names of a single-element annotation are not values.
		if _, fs, _ := c.lookupVar(f, v.TokenLiteral()); fs == nil {
			return
		}
		c.expr(f, v, nil)
	default:
		c.expr(f, v, nil)
	}
}

func (c *Checker) annotations(f *frame, m modifiers) {
	for _, a := range m.annots {
		c.annotation(f, a)
	}
}

// annotationName is the simple name of an annotation.
func annotationName(n *parser.Node) string {
	qn := n.FirstChildOfKind(parser.KindQualifiedName)
	if qn == nil {
		return ""
	}
	ids := qn.ChildrenOfKind(parser.KindIdentifier)
	if len(ids) == 0 {
		return ""
	}
	return ids[len(ids)-1].TokenLiteral()
}

func hasAnnotation(m modifiers, name string) bool {
	for _, a := range m.annots {
		if annotationName(a) == name {
			return true
		}
	}
	return false
}

// suppressesNLS reports whether m carries @SuppressWarnings with "nls" or
// "all".
func suppressesNLS(m modifiers) bool {
	for _, a := range m.annots {
		if annotationName(a) != "SuppressWarnings" {
			continue
		}
		found := false
		a.Walk(func(n *parser.Node) bool {
			if n.Kind == parser.KindLiteral && n.Token != nil && n.Token.Kind == parser.TokenStringLiteral {
				switch strings.Trim(n.Token.Literal, `"`) {
				case "nls", "all":
					found = true
				}
			}
			return !found
		})
		if found {
			return true
		}
	}
	return false
}
