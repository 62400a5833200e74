package check

import (
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// ensureHeader resolves the type parameter bounds and the supertypes of a
// source class. Cycles through member type lookup see a busy header and stop.
func (c *Checker) ensureHeader(sym *types.ClassSym) {
	d := c.decls[sym]
	if d == nil || d.header != headerNone {
		return
	}
	d.header = headerBusy
	defer func() { d.header = headerDone }()
	if d.outer != nil {
		if o := d.outer.thisSym(); o != nil {
			c.ensureHeader(o)
		}
	}

	d.bounds = make([][]*parser.Node, len(d.typeParams))
	for i, tp := range d.typeParams {
		tv := sym.TypeParams[i]
		for _, b := range tp.Children {
			if b.Kind != parser.KindType && b.Kind != parser.KindArrayType {
				continue
			}
			t := c.resolveType(d.frame, b)
			if types.IsError(t) {
				continue
			}
			tv.Bounds = append(tv.Bounds, t)
			d.bounds[i] = append(d.bounds[i], b)
		}
	}

	ts := d.unit.ts
	for _, ch := range d.node.Children {
		switch ch.Kind {
		case parser.KindExtendsClause:
			for _, tn := range ch.Children {
				ct, ok := c.resolveType(d.frame, tn).(*types.ClassType)
				if !ok {
					continue
				}
				if sym.IsInterface() {
					sym.Interfaces = append(sym.Interfaces, ct)
					d.ifaceNodes = append(d.ifaceNodes, tn)
				} else {
					sym.Super = ct
					d.superNode = tn
				}
			}
		case parser.KindImplementsClause:
			for _, tn := range ch.Children {
				if ct, ok := c.resolveType(d.frame, tn).(*types.ClassType); ok {
					sym.Interfaces = append(sym.Interfaces, ct)
					d.ifaceNodes = append(d.ifaceNodes, tn)
				}
			}
		}
	}

	if sym.Super != nil || sym.IsAnonymous {
		return
	}
	switch sym.Kind {
	case types.ClassKindEnum:
		if e, ok := ts.Named(types.EnumName, sym.ThisType()).(*types.ClassType); ok {
			sym.Super = e
		}
	case types.ClassKindRecord:
		if r, ok := ts.Named(types.RecordName).(*types.ClassType); ok {
			sym.Super = r
		}
	case types.ClassKindAnnotation:
		if a, ok := ts.Named("java.lang.annotation.Annotation").(*types.ClassType); ok {
			sym.Interfaces = append(sym.Interfaces, a)
		}
	case types.ClassKindClass:
		if sym.Name == types.ObjectName {
			return
		}
		if o, ok := ts.Object().(*types.ClassType); ok {
			sym.Super = o
		}
	}
}

// checkHeader checks type parameter bounds and the interfaces a class
// inherits once every header of the batch is known.
func (c *Checker) checkHeader(sym *types.ClassSym) {
	d := c.decls[sym]
	if d == nil || d.checked {
		return
	}
	d.checked = true
	c.ensureHeader(sym)
	u := d.unit
	for i, tv := range sym.TypeParams {
		if i >= len(d.bounds) {
			break
		}
		for j, b := range tv.Bounds {
			if j == 0 {
				continue
			}
			if ct, ok := b.(*types.ClassType); ok && !ct.Sym.IsInterface() {
				c.report(u, diag.BoundMustBeInterface, d.bounds[i][j].Span, ct.Sym.ReadableName())
			}
		}
		if len(tv.Bounds) > 1 {
			name := d.typeParams[i].FirstChildOfKind(parser.KindIdentifier)
			c.checkInstantiations(u, tv.Bounds, spanOf(name))
		}
	}
	var direct []types.Type
	if sym.Super != nil {
		direct = append(direct, sym.Super)
	}
	for _, i := range sym.Interfaces {
		direct = append(direct, i)
	}
	if len(direct) > 0 && !sym.IsAnonymous {
		c.checkInstantiations(u, direct, d.name.Span)
	}
}

// checkInstantiations reports a generic interface reached through roots
// with two different argument lists.
func (c *Checker) checkInstantiations(u *unitState, roots []types.Type, span parser.Span) {
	ts := u.ts
	found := map[*types.ClassSym]*types.ClassType{}
	reported := map[*types.ClassSym]bool{}
	var walk func(t types.Type, depth int)
	walk = func(t types.Type, depth int) {
		if depth > 32 {
			return
		}
		ct, ok := t.(*types.ClassType)
		if !ok {
			return
		}
		if ct.Sym.IsInterface() && ct.Sym.IsGeneric() {
			if prev, ok := found[ct.Sym]; ok {
				if !reported[ct.Sym] && !ts.IsSameType(prev, ct) {
					reported[ct.Sym] = true
					c.report(u, diag.DuplicateInterfaceInstantiation, span, ct.Sym.ReadableName(), prev.String(), ct.String())
				}
				return
			}
			found[ct.Sym] = ct
		}
		for _, s := range ts.Supertypes(ct) {
			walk(s, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
}
