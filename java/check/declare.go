package check

import (
	"path"
	"strconv"
	"strings"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

const (
	headerNone = iota
	headerBusy
	headerDone
)

// classDecl is a class declared in source.
type classDecl struct {
	sym  *types.ClassSym
	node *parser.Node
	// name is the declared name; for anonymous classes it is the type
	// node after "new".
	name *parser.Node
	body *parser.Node
	unit *unitState
	// outer is the scope the declaration appears in; frame is the scope
	// its body opens.
	outer *frame
	frame *frame
	mods  modifiers

	header   int
	entered  bool
	checked  bool
	verified bool
	done     bool
	diamond  bool

	typeParams []*parser.Node
	// bounds holds the bound nodes of each type parameter.
	bounds     [][]*parser.Node
	superNode  *parser.Node
	ifaceNodes []*parser.Node
	nested     []*classDecl

	fields  []*fieldDecl
	methods []*methodDecl
	inits   []*parser.Node
	consts  []*parser.Node
}

type methodDecl struct {
	sym    *types.MethodSym
	node   *parser.Node
	name   *parser.Node
	mods   modifiers
	frame  *frame
	block  *parser.Node
	params []*parser.Node
}

type fieldDecl struct {
	sym  *types.FieldSym
	decl *parser.Node
	node *parser.Node
	mods modifiers
}

type modifiers struct {
	vis      types.Visibility
	static   bool
	final    bool
	abstract bool
	def      bool
	native   bool
	sealed   bool
	annots   []*parser.Node
}

func readModifiers(n *parser.Node) modifiers {
	m := modifiers{vis: types.VisibilityPackage}
	if n == nil {
		return m
	}
	for _, c := range n.Children {
		if c.Kind == parser.KindAnnotation {
			m.annots = append(m.annots, c)
			continue
		}
		switch c.TokenLiteral() {
		case "public":
			m.vis = types.VisibilityPublic
		case "protected":
			m.vis = types.VisibilityProtected
		case "private":
			m.vis = types.VisibilityPrivate
		case "static":
			m.static = true
		case "final":
			m.final = true
		case "abstract":
			m.abstract = true
		case "default":
			m.def = true
		case "native":
			m.native = true
		case "sealed":
			m.sealed = true
		}
	}
	return m
}

var classKinds = map[parser.NodeKind]types.ClassKind{
	parser.KindClassDecl:      types.ClassKindClass,
	parser.KindInterfaceDecl:  types.ClassKindInterface,
	parser.KindEnumDecl:       types.ClassKindEnum,
	parser.KindRecordDecl:     types.ClassKindRecord,
	parser.KindAnnotationDecl: types.ClassKindAnnotation,
}

func isTypeDecl(n *parser.Node) bool {
	_, ok := classKinds[n.Kind]
	return ok
}

// enterUnit declares the classes of u. Units of the compact form, with
// methods and fields at top level, get an implicit class named after the
// file.
func (c *Checker) enterUnit(u *unitState) {
	if u.Root == nil {
		return
	}
	compact := false
	for _, n := range u.Root.Children {
		if n.Kind == parser.KindFieldDecl || n.Kind == parser.KindMethodDecl {
			compact = true
			break
		}
	}
	if compact {
		name := strings.TrimSuffix(path.Base(u.Path), ".java")
		body := &parser.Node{Kind: parser.KindClassBody, Span: u.Root.Span}
		for _, n := range u.Root.Children {
			switch n.Kind {
			case parser.KindPackageDecl, parser.KindImportDecl, parser.KindModuleImportDecl:
			default:
				body.Children = append(body.Children, n)
			}
		}
		id := &parser.Node{Kind: parser.KindIdentifier, Span: parser.Span{Start: u.Root.Span.Start, End: u.Root.Span.Start},
			Token: &parser.Token{Kind: parser.TokenIdent, Literal: name}}
		decl := &parser.Node{Kind: parser.KindClassDecl, Span: u.Root.Span,
			Children: []*parser.Node{{Kind: parser.KindModifiers}, id, body}}
		if d := c.enterClass(u, decl, nil, u.frame, false); d != nil {
			d.sym.IsFinal = true
			u.Classes = append(u.Classes, d.sym)
		}
		return
	}
	for _, n := range u.Root.Children {
		if !isTypeDecl(n) {
			continue
		}
		if d := c.enterClass(u, n, nil, u.frame, false); d != nil {
			u.Classes = append(u.Classes, d.sym)
		}
	}
}

// enterClass creates the symbol of a class declaration and of its member
// classes. Headers and members are filled in by later phases.
func (c *Checker) enterClass(u *unitState, n *parser.Node, outer *classDecl, enclosing *frame, local bool) *classDecl {
	nameNode := n.FirstChildOfKind(parser.KindIdentifier)
	if nameNode == nil || nameNode.TokenLiteral() == "" {
		return nil
	}
	simple := nameNode.TokenLiteral()
	mods := readModifiers(n.FirstChildOfKind(parser.KindModifiers))
	kind := classKinds[n.Kind]
	sym := &types.ClassSym{
		SimpleName: simple,
		Package:    u.Package,
		Kind:       kind,
		Visibility: mods.vis,
		IsAbstract: mods.abstract || kind == types.ClassKindInterface || kind == types.ClassKindAnnotation,
		IsFinal:    mods.final || kind == types.ClassKindRecord || kind == types.ClassKindEnum,
		IsStatic:   mods.static,
		IsSealed:   mods.sealed,
		Origin:     u.Path,
	}
	switch {
	case local:
		host := enclosing.thisSym()
		c.anon++
		sym.IsLocal = true
		sym.Outer = host
		sym.Name = qualify(u.Package, simple) + "$" + strconv.Itoa(c.anon)
		if host != nil {
			sym.Name = host.Name + "$" + strconv.Itoa(c.anon) + simple
		}
		sym.IsStatic = sym.IsStatic || enclosing.isStatic()
	case outer != nil:
		sym.Outer = outer.sym
		sym.Name = outer.sym.Name + "." + simple
		if outer.sym.IsInterface() {
			sym.IsStatic = true
			if sym.Visibility == types.VisibilityPackage {
				sym.Visibility = types.VisibilityPublic
			}
		}
	default:
		sym.Name = qualify(u.Package, simple)
	}
	if kind != types.ClassKindClass && sym.Outer != nil {
		sym.IsStatic = true
	}
	register := !local && (outer == nil || !outer.sym.IsLocal)
	if register {
		if _, dup := c.classes[sym.Name]; dup {
			c.report(u, diag.DuplicateType, nameNode.Span, sym.ReadableName())
			return nil
		}
	}

	d := &classDecl{
		sym:   sym,
		node:  n,
		name:  nameNode,
		body:  n.FirstChildOfKind(parser.KindClassBody),
		unit:  u,
		outer: enclosing,
		mods:  mods,
	}
	d.frame = &frame{outer: enclosing, unit: u, class: d}
	if tps := n.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		d.frame.tvars = map[string]*types.TypeVar{}
		for _, tp := range tps.ChildrenOfKind(parser.KindTypeParameter) {
			id := tp.FirstChildOfKind(parser.KindIdentifier)
			if id == nil {
				continue
			}
			tv := &types.TypeVar{Name: id.TokenLiteral(), Owner: sym}
			sym.TypeParams = append(sym.TypeParams, tv)
			d.typeParams = append(d.typeParams, tp)
			d.frame.tvars[tv.Name] = tv
		}
	}
	c.decls[sym] = d
	if register {
		c.classes[sym.Name] = sym
		c.order = append(c.order, sym)
	}
	c.enterNested(d)
	return d
}

// enterNested declares the member classes of d and collects its enum
// constants.
func (c *Checker) enterNested(d *classDecl) {
	if d.body == nil {
		return
	}
	for _, m := range d.body.Children {
		switch {
		case isTypeDecl(m):
			if md := c.enterClass(d.unit, m, d, d.frame, false); md != nil {
				d.sym.MemberTypes = append(d.sym.MemberTypes, md.sym)
				d.nested = append(d.nested, md)
			}
		case m.Kind == parser.KindEnumConstant:
			d.consts = append(d.consts, m)
			if m.FirstChildOfKind(parser.KindClassBody) == nil {
				continue
			}
			// Constants with bodies make the enum non-final.
			d.sym.IsFinal = false
		}
	}
}

// declareAnonymous creates the class of "new T(...) { body }" or of an
// enum constant body. node names the instantiated type in diagnostics.
func (c *Checker) declareAnonymous(f *frame, node, body *parser.Node, super *types.ClassType, diamond bool) *classDecl {
	u := f.unit
	host := f.thisSym()
	c.anon++
	sym := &types.ClassSym{
		SimpleName:  "",
		Package:     u.Package,
		Kind:        types.ClassKindClass,
		Visibility:  types.VisibilityPackage,
		IsAnonymous: true,
		IsLocal:     true,
		IsFinal:     true,
		IsStatic:    f.isStatic(),
		Outer:       host,
		Origin:      u.Path,
		DisplayName: "new " + super.String() + "(){}",
	}
	sym.Name = qualify(u.Package, "$"+strconv.Itoa(c.anon))
	if host != nil {
		sym.Name = host.Name + "$" + strconv.Itoa(c.anon)
	}
	if super.Sym.IsInterface() {
		if obj, ok := u.ts.Object().(*types.ClassType); ok {
			sym.Super = obj
		}
		sym.Interfaces = []*types.ClassType{super}
	} else {
		sym.Super = super
	}
	d := &classDecl{
		sym:     sym,
		node:    node,
		name:    node,
		body:    body,
		unit:    u,
		outer:   f,
		header:  headerDone,
		diamond: diamond,
	}
	d.frame = &frame{outer: f, unit: u, class: d}
	c.decls[sym] = d
	c.enterNested(d)
	return d
}

// completeLocal runs every phase for a class declared inside a body.
func (c *Checker) completeLocal(d *classDecl) {
	c.hold++
	var enter func(*classDecl)
	enter = func(d *classDecl) {
		c.ensureHeader(d.sym)
		c.checkHeader(d.sym)
		c.enterMembers(d.sym)
		for _, n := range d.nested {
			enter(n)
		}
	}
	enter(d)
	c.hold--
	if c.hold == 0 {
		c.runDeferred()
	}
	if c.declOnly {
		return
	}
	var finish func(*classDecl)
	finish = func(d *classDecl) {
		c.checkMembers(d.sym)
		c.checkBodies(d.sym)
		for _, n := range d.nested {
			finish(n)
		}
	}
	finish(d)
}

// later runs fn once every class header of the batch is complete.
func (c *Checker) later(fn func()) {
	if c.hold > 0 {
		c.deferred = append(c.deferred, fn)
		return
	}
	fn()
}
