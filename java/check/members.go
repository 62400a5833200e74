package check

import (
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// enterMembers declares the fields, methods and constructors of a source
// class, including the members the language implies: default constructors,
// enum values and valueOf, and record components.
func (c *Checker) enterMembers(sym *types.ClassSym) {
	d := c.decls[sym]
	if d == nil || d.entered {
		return
	}
	d.entered = true
	c.ensureHeader(sym)
	u := d.unit
	if suppressesNLS(d.mods) {
		d.frame.suppress = true
		u.quiet = append(u.quiet, d.node.Span)
	}

	if sym.Kind == types.ClassKindRecord {
		c.enterRecordComponents(d)
	}
	if d.body != nil {
		for _, m := range d.body.Children {
			switch m.Kind {
			case parser.KindFieldDecl:
				c.enterField(d, m)
			case parser.KindMethodDecl, parser.KindConstructorDecl:
				c.enterMethod(d, m)
			case parser.KindInitializer:
				d.inits = append(d.inits, m)
			}
		}
	}
	for _, k := range d.consts {
		id := k.FirstChildOfKind(parser.KindIdentifier)
		if id == nil {
			continue
		}
		sym.Fields = append(sym.Fields, &types.FieldSym{
			Name:       id.TokenLiteral(),
			Owner:      sym,
			Type:       sym.ThisType(),
			Visibility: types.VisibilityPublic,
			IsStatic:   true,
			IsFinal:    true,
		})
	}
	if sym.Kind == types.ClassKindRecord {
		c.enterRecordMembers(d)
	}
	if !sym.IsInterface() && !sym.IsAnonymous && len(sym.Constructors()) == 0 {
		ctor := &types.MethodSym{
			Name:       types.ConstructorName,
			Owner:      sym,
			Result:     types.VoidType,
			Visibility: sym.Visibility,
		}
		if sym.Kind == types.ClassKindEnum {
			ctor.Visibility = types.VisibilityPrivate
		}
		sym.Methods = append(sym.Methods, ctor)
	}
	if sym.Kind == types.ClassKindEnum {
		this := sym.ThisType()
		sym.Methods = append(sym.Methods,
			&types.MethodSym{Name: "values", Owner: sym, Result: &types.ArrayType{Elem: this},
				Visibility: types.VisibilityPublic, IsStatic: true},
			&types.MethodSym{Name: "valueOf", Owner: sym, Params: []types.Type{u.ts.String()},
				ParamNames: []string{"name"}, Result: this, Visibility: types.VisibilityPublic, IsStatic: true},
		)
	}
}

func (c *Checker) enterField(d *classDecl, n *parser.Node) {
	mods := readModifiers(n.FirstChildOfKind(parser.KindModifiers))
	if d.sym.IsInterface() {
		mods.vis = types.VisibilityPublic
		mods.static = true
		mods.final = true
	}
	base := c.resolveType(d.frame, typeChild(n))
	for _, v := range n.ChildrenOfKind(parser.KindVarDeclarator) {
		id := v.Child(0)
		if id == nil || id.Kind != parser.KindIdentifier {
			continue
		}
		t := base
		if dims := v.FirstChildOfKind(parser.KindDims); dims != nil && !types.IsError(t) {
			t = types.ArrayOf(t, len(dims.Children))
		}
		fs := &types.FieldSym{
			Name:       id.TokenLiteral(),
			Owner:      d.sym,
			Type:       t,
			Visibility: mods.vis,
			IsStatic:   mods.static,
			IsFinal:    mods.final,
		}
		d.sym.Fields = append(d.sym.Fields, fs)
		d.fields = append(d.fields, &fieldDecl{sym: fs, decl: n, node: v, mods: mods})
	}
}

// typeChild returns the first type node among the children of n.
func typeChild(n *parser.Node) *parser.Node {
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindType, parser.KindArrayType:
			return ch
		}
	}
	return nil
}

func (c *Checker) enterMethod(d *classDecl, n *parser.Node) {
	sym := d.sym
	mods := readModifiers(n.FirstChildOfKind(parser.KindModifiers))
	name := n.FirstChildOfKind(parser.KindIdentifier)
	if name == nil {
		return
	}
	block := n.FirstChildOfKind(parser.KindBlock)
	ctor := n.Kind == parser.KindConstructorDecl
	m := &types.MethodSym{
		Name:       name.TokenLiteral(),
		Owner:      sym,
		Visibility: mods.vis,
		IsStatic:   mods.static,
		IsAbstract: mods.abstract,
		IsDefault:  mods.def,
		IsFinal:    mods.final,
	}
	if sym.IsInterface() && !ctor {
		if mods.vis != types.VisibilityPrivate {
			m.Visibility = types.VisibilityPublic
		}
		m.IsAbstract = block == nil && !mods.static && !mods.def && mods.vis != types.VisibilityPrivate
	}
	if ctor {
		m.Name = types.ConstructorName
		if sym.Kind == types.ClassKindEnum {
			m.Visibility = types.VisibilityPrivate
		}
	}
	f := &frame{outer: d.frame, unit: d.unit, static: m.IsStatic, suppress: suppressesNLS(mods)}
	if f.suppress {
		d.unit.quiet = append(d.unit.quiet, n.Span)
	}
	var tps []*parser.Node
	if tpn := n.FirstChildOfKind(parser.KindTypeParameters); tpn != nil {
		f.tvars = map[string]*types.TypeVar{}
		for _, tp := range tpn.ChildrenOfKind(parser.KindTypeParameter) {
			id := tp.FirstChildOfKind(parser.KindIdentifier)
			if id == nil {
				continue
			}
			tv := &types.TypeVar{Name: id.TokenLiteral(), Owner: m}
			m.TypeParams = append(m.TypeParams, tv)
			f.tvars[tv.Name] = tv
			tps = append(tps, tp)
		}
		for i, tp := range tps {
			for _, b := range tp.Children {
				if b.Kind != parser.KindType && b.Kind != parser.KindArrayType {
					continue
				}
				if t := c.resolveType(f, b); !types.IsError(t) {
					m.TypeParams[i].Bounds = append(m.TypeParams[i].Bounds, t)
				}
			}
		}
	}

	params := n.FirstChildOfKind(parser.KindParameters)
	compact := ctor && sym.Kind == types.ClassKindRecord && params != nil && params.Span.Len() == 0
	var pnodes []*parser.Node
	switch {
	case compact:
		for _, fs := range sym.Fields {
			if !fs.IsStatic {
				m.Params = append(m.Params, fs.Type)
				m.ParamNames = append(m.ParamNames, fs.Name)
			}
		}
	default:
		m.Params, m.ParamNames, m.Varargs, pnodes = c.readParams(f, params)
	}

	if ctor {
		m.Result = types.VoidType
	} else {
		m.Result = c.resolveType(f, typeChild(n))
		if dims := n.FirstChildOfKind(parser.KindDims); dims != nil && !types.IsError(m.Result) {
			m.Result = types.ArrayOf(m.Result, len(dims.Children))
		}
	}
	if tl := n.FirstChildOfKind(parser.KindThrowsList); tl != nil {
		for _, tn := range tl.Children {
			if t := c.resolveType(f, tn); !types.IsError(t) {
				m.Throws = append(m.Throws, t)
			}
		}
	}
	sym.Methods = append(sym.Methods, m)
	d.methods = append(d.methods, &methodDecl{
		sym:    m,
		node:   n,
		name:   name,
		mods:   mods,
		frame:  f,
		block:  block,
		params: pnodes,
	})
}

// readParams reads formal parameters. Parameters without a usable name are
// returned with an empty name.
func (c *Checker) readParams(f *frame, params *parser.Node) (ts []types.Type, names []string, varargs bool, nodes []*parser.Node) {
	if params == nil {
		return nil, nil, false, nil
	}
	for _, p := range params.ChildrenOfKind(parser.KindParameter) {
		t, name, va := c.readParam(f, p)
		ts = append(ts, t)
		names = append(names, name)
		nodes = append(nodes, p)
		varargs = va
	}
	return ts, names, varargs, nodes
}

func (c *Checker) readParam(f *frame, p *parser.Node) (types.Type, string, bool) {
	var t types.Type = types.Invalid
	name := ""
	varargs := false
	for _, ch := range p.Children {
		switch ch.Kind {
		case parser.KindType, parser.KindArrayType:
			t = c.resolveType(f, ch)
		case parser.KindIdentifier:
			if ch.Token != nil && ch.Token.Kind == parser.TokenEllipsis {
				varargs = true
				continue
			}
			name = ch.TokenLiteral()
		case parser.KindUnnamedVariable:
			name = "_"
		case parser.KindDims:
			if !types.IsError(t) {
				t = types.ArrayOf(t, len(ch.Children))
			}
		}
	}
	if varargs && !types.IsError(t) {
		t = &types.ArrayType{Elem: t}
	}
	return t, name, varargs
}

// enterRecordComponents declares the private fields behind the record
// components.
func (c *Checker) enterRecordComponents(d *classDecl) {
	params := d.node.FirstChildOfKind(parser.KindParameters)
	ts, names, _, _ := c.readParams(d.frame, params)
	for i, t := range ts {
		if names[i] == "" {
			continue
		}
		d.sym.Fields = append(d.sym.Fields, &types.FieldSym{
			Name:       names[i],
			Owner:      d.sym,
			Type:       t,
			Visibility: types.VisibilityPrivate,
			IsFinal:    true,
		})
	}
}

// enterRecordMembers adds the accessors and the canonical constructor a
// record does not declare itself.
func (c *Checker) enterRecordMembers(d *classDecl) {
	sym := d.sym
	params := d.node.FirstChildOfKind(parser.KindParameters)
	ts, names, varargs, _ := c.readParams(d.frame, params)
	for i, t := range ts {
		if names[i] == "" {
			continue
		}
		declared := false
		for _, m := range sym.DeclaredMethods(names[i]) {
			if len(m.Params) == 0 {
				declared = true
			}
		}
		if declared {
			continue
		}
		sym.Methods = append(sym.Methods, &types.MethodSym{
			Name:       names[i],
			Owner:      sym,
			Result:     t,
			Visibility: types.VisibilityPublic,
		})
	}
	u := d.unit
	for _, m := range sym.Constructors() {
		if len(m.Params) != len(ts) {
			continue
		}
		same := true
		for i := range ts {
			if !u.ts.IsSameType(u.ts.Erasure(m.Params[i]), u.ts.Erasure(ts[i])) {
				same = false
			}
		}
		if same {
			return
		}
	}
	sym.Methods = append(sym.Methods, &types.MethodSym{
		Name:       types.ConstructorName,
		Owner:      sym,
		Params:     ts,
		ParamNames: names,
		Varargs:    varargs,
		Result:     types.VoidType,
		Visibility: sym.Visibility,
	})
}
