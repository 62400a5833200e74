package check

import (
	"strings"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// local is a local variable, parameter or pattern binding.
type local struct {
	name    string
	typ     types.Type
	node    *parser.Node
	pattern bool
}

// body is the code of one method, constructor, initializer or lambda.
type body struct {
	method *types.MethodSym
	// result is the declared result type; nil in initializers.
	result   types.Type
	handlers [][]types.Type
	lambda   bool
	ctor     bool
	// collect makes return statements record their types instead of
	// checking them against result. Lambdas use it while their result is
	// still being inferred.
	collect bool
	returns []types.Type
}

func (b *body) handles(ts *types.Types, t types.Type) bool {
	for _, hs := range b.handlers {
		for _, h := range hs {
			if types.IsError(h) || ts.IsSubtype(t, h) {
				return true
			}
		}
	}
	return false
}

// switchCtx collects the results of a switch expression.
type switchCtx struct {
	target  types.Type
	results []types.Type
}

// frame is one lexical scope.
type frame struct {
	outer *frame
	unit  *unitState
	// class is set for the scope a class body opens.
	class *classDecl
	body  *body
	sw    *switchCtx
	// static marks a static method, initializer or field initializer.
	static bool
	// suppress marks declarations under @SuppressWarnings("nls").
	suppress bool
	tvars    map[string]*types.TypeVar
	vars     map[string]*local
	locals   map[string]*classDecl
}

func (f *frame) child() *frame {
	return &frame{outer: f, unit: f.unit}
}

func (f *frame) declare(l *local) {
	if f.vars == nil {
		f.vars = map[string]*local{}
	}
	f.vars[l.name] = l
}

func (f *frame) declareType(d *classDecl) {
	if f.locals == nil {
		f.locals = map[string]*classDecl{}
	}
	f.locals[d.sym.SimpleName] = d
}

// thisClass returns the innermost class whose body contains f.
func (f *frame) thisClass() *classDecl {
	for ; f != nil; f = f.outer {
		if f.class != nil {
			return f.class
		}
	}
	return nil
}

// thisSym is thisClass as a symbol, or nil at unit level.
func (f *frame) thisSym() *types.ClassSym {
	if d := f.thisClass(); d != nil {
		return d.sym
	}
	return nil
}

func (f *frame) enclosingBody() *body {
	for ; f != nil; f = f.outer {
		if f.body != nil {
			return f.body
		}
		if f.class != nil {
			return nil
		}
	}
	return nil
}

func (f *frame) enclosingSwitch() *switchCtx {
	for ; f != nil; f = f.outer {
		if f.sw != nil {
			return f.sw
		}
		if f.class != nil || (f.body != nil && f.body.lambda) {
			return nil
		}
	}
	return nil
}

func (f *frame) isStatic() bool {
	for ; f != nil; f = f.outer {
		if f.static {
			return true
		}
		if f.class != nil {
			return false
		}
	}
	return false
}

func (f *frame) suppressed() bool {
	for ; f != nil; f = f.outer {
		if f.suppress {
			return true
		}
	}
	return false
}

// lookupLocal finds a local variable visible from f. The search stops at
// the nearest class scope.
func (f *frame) lookupLocal(name string) *local {
	for ; f != nil; f = f.outer {
		if l, ok := f.vars[name]; ok {
			return l
		}
		if f.class != nil {
			return nil
		}
	}
	return nil
}

// clashes reports whether declaring name in f would shadow another local
// of the same method or lambda.
func (f *frame) clashes(name string) bool {
	for ; f != nil; f = f.outer {
		if l, ok := f.vars[name]; ok && !l.pattern {
			return true
		}
		if f.class != nil {
			return false
		}
	}
	return false
}

// lookupVar resolves a simple name used as an expression: locals first,
// then fields of enclosing classes, then statically imported fields.
func (c *Checker) lookupVar(f *frame, name string) (*local, *types.FieldSym, types.Type) {
	ts := f.unit.ts
	for fr := f; fr != nil; fr = fr.outer {
		if l, ok := fr.vars[name]; ok {
			return l, nil, l.typ
		}
		if fr.class != nil {
			recv := fr.class.sym.ThisType()
			if fs, t := c.findField(ts, recv, name); fs != nil {
				return nil, fs, t
			}
		}
	}
	u := f.unit
	for _, imp := range u.Imports {
		if !imp.Static || imp.Sym == nil {
			continue
		}
		if !imp.OnDemand && !strings.HasSuffix(imp.Name, "."+name) {
			continue
		}
		if fs, t := c.findField(ts, &types.ClassType{Sym: imp.Sym}, name); fs != nil && fs.IsStatic {
			imp.Used = true
			return nil, fs, t
		}
	}
	return nil, nil, nil
}

// findType resolves a simple type name visible from f.
func (c *Checker) findType(f *frame, name string) (*types.ClassSym, *types.TypeVar, diag.Problem) {
	for fr := f; fr != nil; fr = fr.outer {
		if tv, ok := fr.tvars[name]; ok {
			return nil, tv, 0
		}
		if d, ok := fr.locals[name]; ok {
			return d.sym, nil, 0
		}
		if fr.class != nil {
			if fr.class.sym.SimpleName == name && fr.class.sym.IsLocal {
				return fr.class.sym, nil, 0
			}
			if m := c.memberType(fr.class.sym, name); m != nil {
				return m, nil, 0
			}
		}
	}
	sym, p := c.unitType(f.unit, name)
	return sym, nil, p
}

// memberType finds a member class declared in sym or inherited from its
// supertypes.
func (c *Checker) memberType(sym *types.ClassSym, name string) *types.ClassSym {
	seen := map[*types.ClassSym]bool{}
	var walk func(*types.ClassSym) *types.ClassSym
	walk = func(s *types.ClassSym) *types.ClassSym {
		if s == nil || seen[s] {
			return nil
		}
		seen[s] = true
		if m := s.MemberType(name); m != nil {
			return m
		}
		if d := c.decls[s]; d != nil {
			if d.header == headerBusy {
				return nil
			}
			c.ensureHeader(s)
		}
		if s.Super != nil {
			if m := walk(s.Super.Sym); m != nil {
				return m
			}
		}
		for _, i := range s.Interfaces {
			if m := walk(i.Sym); m != nil {
				return m
			}
		}
		return nil
	}
	return walk(sym)
}

// unitType resolves a simple name at unit level: the unit's own classes,
// single-type imports, the package, on-demand imports and java.lang.
func (c *Checker) unitType(u *unitState, name string) (*types.ClassSym, diag.Problem) {
	for _, s := range u.Classes {
		if s.SimpleName == name {
			return s, 0
		}
	}
	for _, imp := range u.Imports {
		if imp.OnDemand || imp.Sym == nil {
			continue
		}
		if !imp.Static && imp.Sym.SimpleName == name {
			imp.Used = true
			return imp.Sym, 0
		}
		if imp.Static {
			if m := c.memberType(imp.Sym, name); m != nil && strings.HasSuffix(imp.Name, "."+name) {
				imp.Used = true
				return m, 0
			}
		}
	}
	if s := c.FindType(qualify(u.Package, name)); s != nil {
		return s, 0
	}
	var hit *types.ClassSym
	var hitImport *Import
	for _, imp := range u.Imports {
		if !imp.OnDemand {
			continue
		}
		var s *types.ClassSym
		switch {
		case imp.Static && imp.Sym != nil:
			s = c.memberType(imp.Sym, name)
		case !imp.Static:
			s = c.FindType(imp.Name + "." + name)
		}
		if s == nil || s == hit {
			continue
		}
		if hit != nil {
			return nil, diag.AmbiguousType
		}
		hit, hitImport = s, imp
	}
	if hit != nil {
		hitImport.Used = true
		return hit, 0
	}
	if s := c.FindType("java.lang." + name); s != nil {
		return s, 0
	}
	return nil, diag.UndefinedType
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
