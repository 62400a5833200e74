package check

import (
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
	"github.com/dhamidi/javafront/options"
)

// checkMembers checks method declarations against the supertypes:
// @Override must override something, and concrete classes implement every
// inherited abstract method. Non-private methods of a diamond anonymous
// class must override something whether or not they say so.
func (c *Checker) checkMembers(sym *types.ClassSym) {
	d := c.decls[sym]
	if d == nil || d.verified {
		return
	}
	d.verified = true
	u := d.unit
	ts := u.ts
	implicit := d.diamond && c.opts.AtLeast(options.AnonymousDiamond)
	for _, md := range d.methods {
		m := md.sym
		if m.IsConstructor() {
			continue
		}
		if md.block == nil && !m.IsAbstract && !md.mods.native && !sym.IsInterface() {
			c.report(u, diag.MissingAbstractMethodBody, md.name.Span)
		}
		required := hasAnnotation(md.mods, "Override") || implicit && m.Visibility != types.VisibilityPrivate
		if required && (m.IsStatic || !c.overridesAny(ts, sym, m)) {
			span := spanOf(md.name, md.node.FirstChildOfKind(parser.KindParameters))
			c.report(u, diag.OverrideRequired, span, m.Signature(), sym.ReadableName())
		}
	}
	if !sym.IsAbstract && !sym.IsInterface() {
		c.checkAbstracts(d)
	}
}

// overridesAny reports whether m, declared in sym, overrides or implements
// a method of a supertype.
func (c *Checker) overridesAny(ts *types.Types, sym *types.ClassSym, m *types.MethodSym) bool {
	this := sym.ThisType()
	params := erasedParams(ts, this, m)
	for _, s := range c.supertypeSyms(sym)[1:] {
		for _, sm := range s.DeclaredMethods(m.Name) {
			if sm.IsStatic || sm.Visibility == types.VisibilityPrivate {
				continue
			}
			if sameTypes(ts, params, erasedParams(ts, this, sm)) {
				return true
			}
		}
	}
	return false
}

func (c *Checker) checkAbstracts(d *classDecl) {
	sym := d.sym
	if sym.Kind == types.ClassKindEnum {
		for _, k := range d.consts {
			if k.FirstChildOfKind(parser.KindClassBody) != nil {
				return
			}
		}
	}
	u := d.unit
	ts := u.ts
	this := sym.ThisType()
	supers := c.supertypeSyms(sym)
	var missing [][]types.Type
	var names []string
	for _, s := range supers[1:] {
		for _, am := range s.Methods {
			if !am.IsAbstract || am.IsStatic {
				continue
			}
			params := erasedParams(ts, this, am)
			if c.implemented(ts, supers, this, am.Name, params) {
				continue
			}
			dup := false
			for i := range missing {
				if names[i] == am.Name && sameTypes(ts, missing[i], params) {
					dup = true
				}
			}
			if dup {
				continue
			}
			missing = append(missing, params)
			names = append(names, am.Name)
			owner := types.Type(&types.ClassType{Sym: am.Owner})
			if sup := ts.AsSuper(this, am.Owner); sup != nil {
				owner = sup
			}
			viewed := make([]types.Type, len(am.Params))
			for i, p := range am.Params {
				viewed[i] = view(ts, this, am.Owner, p)
			}
			method := owner.String() + "." + am.Name + "(" + types.ParamList(viewed, am.Varargs) + ")"
			c.report(u, diag.MissingAbstractImplementation, d.name.Span, sym.ReadableName(), method)
		}
	}
}

// implemented reports whether a concrete method with the given erased
// parameters exists among supers.
func (c *Checker) implemented(ts *types.Types, supers []*types.ClassSym, this *types.ClassType, name string, params []types.Type) bool {
	for _, s := range supers {
		for _, m := range s.DeclaredMethods(name) {
			if m.IsAbstract || m.IsStatic {
				continue
			}
			if sameTypes(ts, params, erasedParams(ts, this, m)) {
				return true
			}
		}
	}
	return false
}
