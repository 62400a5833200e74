// Package check binds the names of a batch of compilation units and checks
// their types.
//
// A [Checker] works in phases over the whole batch: it enters every class,
// resolves imports, completes class headers (type parameters and
// supertypes), enters members, and finally checks field initializers,
// initializers and method bodies. Local and anonymous classes go through
// the same phases when their declaration is reached in a body.
//
// Problems are sent to a diag.Reporter. A Checker is also a types.Finder, so
// the classes it declared can serve as the environment of later compiles.
package check

import (
	"context"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
	"github.com/dhamidi/javafront/options"
)

var log = commonlog.GetLogger("javafront.check")

// Unit is one parsed compilation unit.
type Unit struct {
	Path     string
	Source   []byte
	Root     *parser.Node
	Comments []parser.Token
	Package  string
	Imports  []*Import
	// Classes are the top-level classes, filled in by Check.
	Classes []*types.ClassSym
}

// Import is one import declaration.
type Import struct {
	Name     string
	Static   bool
	OnDemand bool
	Node     *parser.Node
	// Sym is the imported class of a single-type import, or the class
	// whose members a static import brings in.
	Sym *types.ClassSym
	// Used is set when a name in the unit resolved through the import.
	Used bool

	resolved bool
}

// NewUnit reads the package and import declarations of root.
func NewUnit(path string, source []byte, root *parser.Node, comments []parser.Token) *Unit {
	u := &Unit{Path: path, Source: source, Root: root, Comments: comments}
	if root == nil {
		return u
	}
	if pkg := root.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		u.Package = qualifiedName(pkg.FirstChildOfKind(parser.KindQualifiedName))
	}
	for _, n := range root.ChildrenOfKind(parser.KindImportDecl) {
		imp := &Import{Node: n}
		for _, c := range n.Children {
			switch {
			case c.Kind == parser.KindQualifiedName:
				imp.Name = qualifiedName(c)
			case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "static":
				imp.Static = true
			case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "*":
				imp.OnDemand = true
			}
		}
		if imp.Name != "" {
			u.Imports = append(u.Imports, imp)
		}
	}
	return u
}

func qualifiedName(qn *parser.Node) string {
	if qn == nil {
		return ""
	}
	var parts []string
	for _, c := range qn.Children {
		if c.Kind == parser.KindIdentifier && c.Token != nil {
			parts = append(parts, c.Token.Literal)
		}
	}
	return strings.Join(parts, ".")
}

type Option func(*Checker)

// DeclarationsOnly stops after members are entered: bodies, member checks
// and unit-level warnings are skipped. Library stubs are checked this way.
func DeclarationsOnly() Option {
	return func(c *Checker) {
		c.declOnly = true
	}
}

// Checker binds and checks one batch. It is not safe for concurrent use
// while Check runs; afterwards FindType and HasPackage may be called
// concurrently.
type Checker struct {
	env      types.Finder
	opts     options.Options
	reporter diag.Reporter
	declOnly bool

	classes  map[string]*types.ClassSym
	packages map[string]bool
	decls    map[*types.ClassSym]*classDecl
	order    []*types.ClassSym
	deferred []func()
	bodies   bool

	// quiet is non-zero while an argument is typed speculatively.
	quiet int
	// annot is non-zero while annotation values are typed.
	annot int
	// hold is non-zero while headers are incomplete; see later.
	hold int
	anon int
	// poly marks invocations whose type came from inference.
	poly map[*parser.Node]bool
	// nested holds the generic invocations among poly, for joint
	// inference with an enclosing invocation.
	nested map[*parser.Node]*nestedCall
	// reported holds every problem sent so far. Arguments are typed again
	// once their target is known, which would repeat their problems.
	reported map[reportKey]bool
}

type reportKey struct {
	file       string
	start, end int
	problem    diag.Problem
	message    string
}

// New returns a checker resolving names not declared in the batch through
// env, which may be nil.
func New(env types.Finder, opts options.Options, r diag.Reporter, o ...Option) *Checker {
	if r == nil {
		r = diag.Nop
	}
	c := &Checker{
		env:      env,
		opts:     opts.Normalize(),
		reporter: r,
		classes:  map[string]*types.ClassSym{},
		packages: map[string]bool{},
		decls:    map[*types.ClassSym]*classDecl{},
		poly:     map[*parser.Node]bool{},
		nested:   map[*parser.Node]*nestedCall{},
		reported: map[reportKey]bool{},
		hold:     1,
	}
	for _, opt := range o {
		opt(c)
	}
	return c
}

// FindType returns a class declared in the batch or found in the
// environment.
func (c *Checker) FindType(name string) *types.ClassSym {
	if s, ok := c.classes[name]; ok {
		return s
	}
	if c.env != nil {
		return c.env.FindType(name)
	}
	return nil
}

// HasPackage reports whether the batch or the environment has classes in
// package name or one of its subpackages.
func (c *Checker) HasPackage(name string) bool {
	if c.packages[name] {
		return true
	}
	return c.env != nil && c.env.HasPackage(name)
}

// Classes returns the top-level and member classes of the batch in
// declaration order.
func (c *Checker) Classes() []*types.ClassSym {
	return c.order
}

// unitState is a unit while it is being checked.
type unitState struct {
	*Unit
	ts     *types.Types
	frame  *frame
	nls    []nlsLiteral
	seen   map[*parser.Node]bool
	// quiet lists the spans of declarations that suppress "nls".
	quiet []parser.Span
}

// Check binds and checks units. The context is consulted between phases;
// its error is returned when it is done early.
func (c *Checker) Check(ctx context.Context, units []*Unit) error {
	states := make([]*unitState, 0, len(units))
	for _, u := range units {
		s := &unitState{Unit: u, ts: types.New(c), seen: map[*parser.Node]bool{}}
		s.frame = &frame{unit: s}
		states = append(states, s)
		c.registerPackage(u.Package)
	}
	for _, u := range states {
		c.enterUnit(u)
	}
	steps := []func(){
		func() {
			for _, u := range states {
				c.resolveImports(u)
			}
		},
		func() {
			for _, sym := range c.order {
				c.ensureHeader(sym)
			}
			for _, sym := range c.order {
				c.checkHeader(sym)
			}
		},
		func() {
			for _, sym := range c.order {
				c.enterMembers(sym)
			}
			c.hold = 0
			c.runDeferred()
		},
	}
	if !c.declOnly {
		steps = append(steps,
			func() {
				for _, sym := range c.order {
					c.checkMembers(sym)
				}
			},
			func() {
				c.bodies = true
				for _, sym := range c.order {
					c.checkBodies(sym)
				}
			},
			func() {
				for _, u := range states {
					c.reportUnusedImports(u)
					c.checkNLS(u)
				}
			},
		)
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		step()
	}
	log.Debugf("checked %d units, %d classes", len(units), len(c.order))
	return nil
}

func (c *Checker) registerPackage(pkg string) {
	for pkg != "" {
		c.packages[pkg] = true
		i := strings.LastIndexByte(pkg, '.')
		if i < 0 {
			break
		}
		pkg = pkg[:i]
	}
}

func (c *Checker) runDeferred() {
	for len(c.deferred) > 0 {
		d := c.deferred
		c.deferred = nil
		for _, fn := range d {
			fn()
		}
	}
}

// report sends a problem at span. Problems mentioning an erroneous type
// are dropped: they follow from an error already reported.
func (c *Checker) report(u *unitState, p diag.Problem, span parser.Span, args ...any) {
	if c.quiet > 0 {
		return
	}
	for _, a := range args {
		if t, ok := a.(types.Type); ok && types.ContainsError(t) {
			return
		}
	}
	msg := p.Message(args...)
	key := reportKey{u.Path, span.Start.Offset, span.End.Offset, p, msg}
	if c.reported[key] {
		return
	}
	c.reported[key] = true
	c.reporter.Report(diag.Diagnostic{
		Problem: p,
		Message: msg,
		File:    u.Path,
		Start:   span.Start.Offset,
		End:     span.End.Offset,
	})
}

func spanOf(nodes ...*parser.Node) parser.Span {
	var s parser.Span
	first := true
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if first {
			s = n.Span
			first = false
			continue
		}
		if n.Span.Start.Offset < s.Start.Offset {
			s.Start = n.Span.Start
		}
		if n.Span.End.Offset > s.End.Offset {
			s.End = n.Span.End
		}
	}
	return s
}
