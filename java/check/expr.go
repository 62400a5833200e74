package check

import (
	"strconv"
	"strings"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
)

// expr types expression n. target is the type the context expects, or nil
// outside assignment and invocation contexts; poly expressions use it.
func (c *Checker) expr(f *frame, n *parser.Node, target types.Type) types.Type {
	if n == nil {
		return types.Invalid
	}
	t := c.expr0(f, n, target)
	if t == nil {
		return types.Invalid
	}
	return t
}

// assign types n against target and reports a value that does not convert.
func (c *Checker) assign(f *frame, n *parser.Node, target types.Type) types.Type {
	t := c.expr(f, n, target)
	c.checkAssignable(f, n, t, target)
	return t
}

func (c *Checker) checkAssignable(f *frame, n *parser.Node, from, to types.Type) {
	if to == nil || types.IsError(from) || types.IsError(to) {
		return
	}
	ts := f.unit.ts
	if ts.IsAssignable(from, to) {
		return
	}
	if v, ok := constInt(n); ok && fitsConstant(from, to, v) {
		return
	}
	c.report(f.unit, diag.TypeMismatch, n.Span, from, to)
}

func (c *Checker) expr0(f *frame, n *parser.Node, target types.Type) types.Type {
	u := f.unit
	ts := u.ts
	switch n.Kind {
	case parser.KindLiteral:
		return c.literal(f, n)
	case parser.KindIdentifier:
		name := n.TokenLiteral()
		l, fs, t := c.lookupVar(f, name)
		if l == nil && fs == nil {
			c.report(u, diag.UndefinedName, n.Span, name)
			return types.Invalid
		}
		return ts.Capture(t)
	case parser.KindFieldAccess:
		q := c.qualifyExpr(f, n)
		switch q.kind {
		case qualValue:
			return q.typ
		case qualType, qualPackage:
			c.report(u, diag.UndefinedName, n.Span, exprText(n))
		}
		return types.Invalid
	case parser.KindThis:
		if sym := f.thisSym(); sym != nil {
			return sym.ThisType()
		}
		return types.Invalid
	case parser.KindParenExpr:
		return c.expr(f, n.Child(0), target)
	case parser.KindAssignExpr:
		return c.assignExpr(f, n)
	case parser.KindBinaryExpr:
		return c.binary(f, n)
	case parser.KindUnaryExpr:
		return c.unary(f, n, n.Child(0).TokenLiteral(), n.Child(1))
	case parser.KindPostfixExpr:
		return c.unary(f, n, n.Child(1).TokenLiteral(), n.Child(0))
	case parser.KindTernaryExpr:
		return c.ternary(f, n, target)
	case parser.KindCastExpr:
		return c.cast(f, n)
	case parser.KindInstanceofExpr:
		return c.instanceof(f, n)
	case parser.KindArrayAccess:
		at := c.expr(f, n.Child(0), nil)
		c.assign(f, n.Child(1), types.IntType)
		if a, ok := ts.UpperBound(at).(*types.ArrayType); ok {
			return ts.Capture(a.Elem)
		}
		return types.Invalid
	case parser.KindNewArrayExpr:
		return c.newArray(f, n)
	case parser.KindArrayInit:
		return c.arrayInit(f, n, target)
	case parser.KindClassLiteral:
		t, _ := c.resolveTypeUse(f, n.Child(0), typeUse{raw: true})
		if types.IsError(t) {
			return types.Invalid
		}
		if p, ok := t.(*types.Primitive); ok {
			if p.Kind == types.Void {
				t = ts.Named("java.lang.Void")
			} else {
				t = ts.Box(p)
			}
		}
		return ts.Named(types.ClassName, ts.Erasure(t))
	case parser.KindSwitchExpr:
		sw := &switchCtx{target: target}
		c.switchBody(f, n, sw)
		if target != nil {
			return target
		}
		return c.joinResults(ts, sw.results)
	case parser.KindCallExpr:
		return c.call(f, n, target)
	case parser.KindNewExpr:
		return c.newExpr(f, n, target)
	case parser.KindLambdaExpr:
		return c.lambda(f, n, target)
	case parser.KindMethodRef:
		return c.methodRef(f, n, target)
	}
	return types.Invalid
}

func (c *Checker) literal(f *frame, n *parser.Node) types.Type {
	if n.Token == nil {
		return types.Invalid
	}
	lit := n.Token.Literal
	switch n.Token.Kind {
	case parser.TokenIntLiteral:
		if strings.HasSuffix(lit, "l") || strings.HasSuffix(lit, "L") {
			return types.LongType
		}
		return types.IntType
	case parser.TokenFloatLiteral:
		isHex := strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X")
		if !isHex && (strings.HasSuffix(lit, "f") || strings.HasSuffix(lit, "F")) {
			return types.FloatType
		}
		if isHex && (strings.HasSuffix(lit, "f") || strings.HasSuffix(lit, "F")) && strings.ContainsAny(lit, "pP") {
			return types.FloatType
		}
		return types.DoubleType
	case parser.TokenCharLiteral:
		return types.CharType
	case parser.TokenStringLiteral, parser.TokenTextBlock:
		c.noteString(f, n)
		return f.unit.ts.String()
	case parser.TokenTrue, parser.TokenFalse:
		return types.BooleanType
	case parser.TokenNull:
		return types.Null
	}
	return types.Invalid
}

// exprText prints a name expression as written.
func exprText(n *parser.Node) string {
	switch n.Kind {
	case parser.KindIdentifier:
		return n.TokenLiteral()
	case parser.KindFieldAccess:
		last := n.Child(len(n.Children) - 1)
		return exprText(n.Child(0)) + "." + exprText(last)
	case parser.KindThis:
		return "this"
	case parser.KindSuper:
		return "super"
	}
	return ""
}

type qualKind uint8

const (
	qualError qualKind = iota
	qualValue
	qualType
	qualPackage
)

// qual is what a possibly qualified name denotes: a value, a type or a
// package.
type qual struct {
	kind qualKind
	typ  types.Type
	sym  *types.ClassSym
	pkg  string
	// super marks "super" and "X.super": members are looked up in the
	// supertype but invoked non-virtually.
	super bool
}

// qualifyExpr classifies a name used as the qualifier of a field access or
// method invocation, reporting names that resolve to nothing.
func (c *Checker) qualifyExpr(f *frame, n *parser.Node) qual {
	u := f.unit
	ts := u.ts
	switch n.Kind {
	case parser.KindIdentifier:
		name := n.TokenLiteral()
		if l, fs, t := c.lookupVar(f, name); l != nil || fs != nil {
			return qual{kind: qualValue, typ: ts.Capture(t)}
		}
		sym, tv, _ := c.findType(f, name)
		switch {
		case tv != nil:
			return qual{kind: qualType, typ: tv}
		case sym != nil:
			return qual{kind: qualType, typ: sym.ThisType(), sym: sym}
		case c.HasPackage(name):
			return qual{kind: qualPackage, pkg: name}
		}
		c.report(u, diag.UndefinedName, n.Span, name)
		return qual{}
	case parser.KindThis:
		if sym := f.thisSym(); sym != nil {
			return qual{kind: qualValue, typ: sym.ThisType()}
		}
		return qual{}
	case parser.KindSuper:
		sym := f.thisSym()
		if sym == nil {
			return qual{}
		}
		c.ensureHeader(sym)
		if sym.Super == nil {
			return qual{kind: qualValue, typ: ts.Object(), super: true}
		}
		return qual{kind: qualValue, typ: sym.Super, super: true}
	case parser.KindFieldAccess:
		last := n.Child(len(n.Children) - 1)
		if last == nil {
			return qual{}
		}
		q := c.qualifyExpr(f, n.Child(0))
		switch last.Kind {
		case parser.KindThis:
			if q.kind == qualType && q.sym != nil {
				return qual{kind: qualValue, typ: q.sym.ThisType()}
			}
			return qual{}
		case parser.KindSuper:
			if q.kind != qualType || q.sym == nil {
				return qual{}
			}
			if q.sym.IsInterface() {
				return qual{kind: qualValue, typ: q.typ, super: true}
			}
			c.ensureHeader(q.sym)
			if q.sym.Super != nil {
				return qual{kind: qualValue, typ: q.sym.Super, super: true}
			}
			return qual{kind: qualValue, typ: ts.Object(), super: true}
		case parser.KindIdentifier:
		default:
			return qual{}
		}
		name := last.TokenLiteral()
		switch q.kind {
		case qualPackage:
			full := q.pkg + "." + name
			if sym := c.FindType(full); sym != nil {
				if !types.IsAccessible(sym, f.thisSym(), u.Package) {
					c.report(u, diag.NotVisibleType, n.Span, sym.ReadableName())
					return qual{}
				}
				return qual{kind: qualType, typ: sym.ThisType(), sym: sym}
			}
			if c.HasPackage(full) {
				return qual{kind: qualPackage, pkg: full}
			}
			c.report(u, diag.UndefinedType, n.Span, full)
			return qual{}
		case qualType:
			if fs, t := c.findField(ts, q.typ, name); fs != nil {
				return qual{kind: qualValue, typ: ts.Capture(t)}
			}
			if q.sym != nil {
				if m := c.memberType(q.sym, name); m != nil {
					return qual{kind: qualType, typ: m.ThisType(), sym: m}
				}
			}
			c.report(u, diag.UndefinedField, last.Span, name)
			return qual{}
		case qualValue:
			if fs, t := c.findField(ts, q.typ, name); fs != nil {
				return qual{kind: qualValue, typ: ts.Capture(t)}
			}
			c.report(u, diag.UndefinedField, last.Span, name)
			return qual{}
		}
		return qual{}
	}
	return qual{kind: qualValue, typ: c.expr(f, n, nil)}
}

// lvalue types the left-hand side of an assignment without capturing it.
func (c *Checker) lvalue(f *frame, n *parser.Node) types.Type {
	u := f.unit
	ts := u.ts
	switch n.Kind {
	case parser.KindIdentifier:
		name := n.TokenLiteral()
		l, fs, t := c.lookupVar(f, name)
		if l == nil && fs == nil {
			c.report(u, diag.UndefinedName, n.Span, name)
			return types.Invalid
		}
		return t
	case parser.KindFieldAccess:
		last := n.Child(len(n.Children) - 1)
		if last == nil || last.Kind != parser.KindIdentifier {
			return c.expr(f, n, nil)
		}
		q := c.qualifyExpr(f, n.Child(0))
		if q.kind != qualValue && q.kind != qualType {
			if q.kind == qualPackage {
				c.report(u, diag.UndefinedName, n.Span, exprText(n))
			}
			return types.Invalid
		}
		if fs, t := c.findField(ts, q.typ, last.TokenLiteral()); fs != nil {
			return t
		}
		c.report(u, diag.UndefinedField, last.Span, last.TokenLiteral())
		return types.Invalid
	case parser.KindParenExpr:
		return c.lvalue(f, n.Child(0))
	}
	return c.expr(f, n, nil)
}

func (c *Checker) assignExpr(f *frame, n *parser.Node) types.Type {
	u := f.unit
	ts := u.ts
	lt := c.lvalue(f, n.Child(0))
	op := n.Child(1).TokenLiteral()
	rhs := n.Child(2)
	if op == "=" {
		if types.IsError(lt) {
			c.expr(f, rhs, nil)
			return types.Invalid
		}
		c.assign(f, rhs, lt)
		return lt
	}
	rt := c.expr(f, rhs, nil)
	if types.IsError(lt) || types.IsError(rt) {
		return lt
	}
	bin := strings.TrimSuffix(op, "=")
	if bin == "+" && types.IsNamed(lt, types.StringName) {
		return lt
	}
	if binaryResult(ts, bin, lt, rt) == nil {
		c.report(u, diag.IncompatibleOperands, n.Span, bin, lt, rt)
	}
	return lt
}

func (c *Checker) binary(f *frame, n *parser.Node) types.Type {
	u := f.unit
	ts := u.ts
	lt := c.expr(f, n.Child(0), nil)
	op := n.Child(1).TokenLiteral()
	rt := c.expr(f, n.Child(2), nil)
	if types.IsError(lt) || types.IsError(rt) {
		return types.Invalid
	}
	if r := binaryResult(ts, op, lt, rt); r != nil {
		return r
	}
	c.report(u, diag.IncompatibleOperands, n.Span, op, lt, rt)
	return types.Invalid
}

// binaryResult is the type of "l op r", or nil when op does not apply.
func binaryResult(ts *types.Types, op string, l, r types.Type) types.Type {
	if types.IsVoid(l) || types.IsVoid(r) {
		return nil
	}
	lp, _ := types.UnboxedOrSelf(l).(*types.Primitive)
	rp, _ := types.UnboxedOrSelf(r).(*types.Primitive)
	numeric := lp != nil && rp != nil && lp.IsNumeric() && rp.IsNumeric()
	integral := lp != nil && rp != nil && lp.IsIntegral() && rp.IsIntegral()
	boolean := lp != nil && rp != nil && lp.Kind == types.Boolean && rp.Kind == types.Boolean
	switch op {
	case "+":
		if types.IsNamed(l, types.StringName) || types.IsNamed(r, types.StringName) {
			return ts.String()
		}
		if numeric {
			return promote(lp, rp)
		}
	case "-", "*", "/", "%":
		if numeric {
			return promote(lp, rp)
		}
	case "<<", ">>", ">>>":
		if integral {
			return promote(lp, lp)
		}
	case "<", ">", "<=", ">=":
		if numeric {
			return types.BooleanType
		}
	case "&&", "||":
		if boolean {
			return types.BooleanType
		}
	case "&", "|", "^":
		if boolean {
			return types.BooleanType
		}
		if integral {
			return promote(lp, rp)
		}
	case "==", "!=":
		switch {
		case numeric, boolean:
			return types.BooleanType
		case lp != nil && rp != nil:
			return nil
		}
		if _, ok := l.(*types.Primitive); ok {
			return nil
		}
		if _, ok := r.(*types.Primitive); ok {
			return nil
		}
		if l == types.Null || r == types.Null || ts.IsCastable(l, r) || ts.IsCastable(r, l) {
			return types.BooleanType
		}
	}
	return nil
}

// promote applies binary numeric promotion.
func promote(a, b *types.Primitive) types.Type {
	switch {
	case a.Kind == types.Double || b.Kind == types.Double:
		return types.DoubleType
	case a.Kind == types.Float || b.Kind == types.Float:
		return types.FloatType
	case a.Kind == types.Long || b.Kind == types.Long:
		return types.LongType
	}
	return types.IntType
}

func (c *Checker) unary(f *frame, n *parser.Node, op string, operand *parser.Node) types.Type {
	u := f.unit
	var t types.Type
	if op == "++" || op == "--" {
		t = c.lvalue(f, operand)
	} else {
		t = c.expr(f, operand, nil)
	}
	if types.IsError(t) {
		return types.Invalid
	}
	p, _ := types.UnboxedOrSelf(t).(*types.Primitive)
	switch op {
	case "!":
		if p != nil && p.Kind == types.Boolean {
			return types.BooleanType
		}
	case "~":
		if p != nil && p.IsIntegral() {
			return promote(p, p)
		}
	case "+", "-":
		if p != nil && p.IsNumeric() {
			return promote(p, p)
		}
	case "++", "--":
		if p != nil && p.IsNumeric() {
			return t
		}
	}
	c.report(u, diag.IncompatibleOperands, n.Span, op, t, t)
	return types.Invalid
}

// isPolyForm reports whether n is a lambda or method reference, which have
// no type without a target.
func isPolyForm(n *parser.Node) bool {
	for n != nil && n.Kind == parser.KindParenExpr {
		n = n.Child(0)
	}
	return n != nil && (n.Kind == parser.KindLambdaExpr || n.Kind == parser.KindMethodRef)
}

func (c *Checker) ternary(f *frame, n *parser.Node, target types.Type) types.Type {
	ts := f.unit.ts
	c.condition(f, n.Child(0))
	a, b := n.Child(1), n.Child(2)
	if target != nil && (isPolyForm(a) || isPolyForm(b) || !c.standaloneBranches(f, a, b)) {
		c.assign(f, a, target)
		c.assign(f, b, target)
		return target
	}
	at := c.expr(f, a, nil)
	bt := c.expr(f, b, nil)
	return conditionalType(ts, at, bt)
}

// standaloneBranches reports whether a conditional with branches a and b is
// a numeric or boolean conditional, typed without its target.
func (c *Checker) standaloneBranches(f *frame, a, b *parser.Node) bool {
	c.quiet++
	at := c.expr(f, a, nil)
	bt := c.expr(f, b, nil)
	c.quiet--
	ap, _ := types.UnboxedOrSelf(at).(*types.Primitive)
	bp, _ := types.UnboxedOrSelf(bt).(*types.Primitive)
	if ap == nil || bp == nil {
		return false
	}
	return (ap.IsNumeric() && bp.IsNumeric()) || (ap.Kind == types.Boolean && bp.Kind == types.Boolean)
}

func conditionalType(ts *types.Types, a, b types.Type) types.Type {
	switch {
	case types.IsError(a) || types.IsError(b):
		return types.Invalid
	case ts.IsSameType(a, b):
		return a
	}
	ap, _ := types.UnboxedOrSelf(a).(*types.Primitive)
	bp, _ := types.UnboxedOrSelf(b).(*types.Primitive)
	switch {
	case ap != nil && bp != nil && ap.IsNumeric() && bp.IsNumeric():
		if ap.Kind == bp.Kind {
			return types.UnboxedOrSelf(a)
		}
		return promote(ap, bp)
	case ap != nil && bp != nil && ap.Kind == types.Boolean && bp.Kind == types.Boolean:
		return types.BooleanType
	case a == types.Null:
		return boxed(ts, b)
	case b == types.Null:
		return boxed(ts, a)
	}
	return ts.Lub(boxed(ts, a), boxed(ts, b))
}

func boxed(ts *types.Types, t types.Type) types.Type {
	if p, ok := t.(*types.Primitive); ok && p.Kind != types.Void {
		return ts.Box(p)
	}
	return t
}

// joinResults is the type of a switch expression without a target.
func (c *Checker) joinResults(ts *types.Types, results []types.Type) types.Type {
	if len(results) == 0 {
		return types.Invalid
	}
	t := results[0]
	for _, r := range results[1:] {
		t = conditionalType(ts, t, r)
	}
	return t
}

func (c *Checker) cast(f *frame, n *parser.Node) types.Type {
	u := f.unit
	ts := u.ts
	t := c.resolveType(f, n.Child(0))
	operand := n.Child(1)
	var target types.Type
	if isPolyForm(operand) {
		target = t
	}
	et := c.expr(f, operand, target)
	if types.IsError(t) || types.IsError(et) || target != nil {
		return t
	}
	if !ts.IsCastable(et, t) {
		c.report(u, diag.IllegalCast, n.Span, et, t)
	}
	return t
}

func (c *Checker) instanceof(f *frame, n *parser.Node) types.Type {
	u := f.unit
	ts := u.ts
	et := c.expr(f, n.Child(0), nil)
	var t types.Type = types.Invalid
	for _, ch := range n.Children[1:] {
		switch ch.Kind {
		case parser.KindType, parser.KindArrayType:
			t = c.resolveType(f, ch)
		case parser.KindTypePattern, parser.KindRecordPattern:
			t = c.pattern(f, ch, et)
		case parser.KindIdentifier:
			c.declareLocal(f, ch, t, true)
		}
	}
	if !types.IsError(et) && !types.IsError(t) && !ts.IsCastable(et, t) {
		c.report(u, diag.IncompatibleInstanceof, n.Span, et, t)
	}
	return types.BooleanType
}

func (c *Checker) newArray(f *frame, n *parser.Node) types.Type {
	elem := c.resolveType(f, n.Child(0))
	dims := 0
	var init *parser.Node
	for _, ch := range n.Children[1:] {
		switch ch.Kind {
		case parser.KindAnnotation:
			c.annotation(f, ch)
		case parser.KindDims:
			dims += len(ch.Children)
		case parser.KindArrayInit:
			init = ch
		default:
			c.assign(f, ch, types.IntType)
			dims++
		}
	}
	if types.IsError(elem) {
		if init != nil {
			c.arrayInit(f, init, types.Invalid)
		}
		return types.Invalid
	}
	t := types.ArrayOf(elem, dims)
	if init != nil {
		c.arrayInit(f, init, t)
	}
	return t
}

// arrayInit checks the elements of an array initializer against the
// element type of target.
func (c *Checker) arrayInit(f *frame, n *parser.Node, target types.Type) types.Type {
	at, ok := target.(*types.ArrayType)
	for _, e := range n.Children {
		switch {
		case !ok:
			if e.Kind == parser.KindArrayInit {
				c.arrayInit(f, e, types.Invalid)
				continue
			}
			c.expr(f, e, nil)
		case e.Kind == parser.KindArrayInit:
			c.arrayInit(f, e, at.Elem)
		default:
			c.assign(f, e, at.Elem)
		}
	}
	if !ok {
		return types.Invalid
	}
	return target
}

// constInt evaluates an integral constant expression built from literals.
func constInt(n *parser.Node) (int64, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Kind {
	case parser.KindParenExpr:
		return constInt(n.Child(0))
	case parser.KindLiteral:
		if n.Token == nil {
			return 0, false
		}
		switch n.Token.Kind {
		case parser.TokenIntLiteral:
			return parseIntLiteral(n.Token.Literal)
		case parser.TokenCharLiteral:
			r, ok := charValue(n.Token.Literal)
			return int64(r), ok
		}
	case parser.KindUnaryExpr:
		v, ok := constInt(n.Child(1))
		if !ok {
			return 0, false
		}
		switch n.Child(0).TokenLiteral() {
		case "-":
			return -v, true
		case "+":
			return v, true
		case "~":
			return ^v, true
		}
	case parser.KindBinaryExpr:
		a, ok1 := constInt(n.Child(0))
		b, ok2 := constInt(n.Child(2))
		if !ok1 || !ok2 {
			return 0, false
		}
		switch n.Child(1).TokenLiteral() {
		case "+":
			return int64(int32(a + b)), true
		case "-":
			return int64(int32(a - b)), true
		case "*":
			return int64(int32(a * b)), true
		case "/":
			if b != 0 {
				return a / b, true
			}
		case "%":
			if b != 0 {
				return a % b, true
			}
		case "&":
			return a & b, true
		case "|":
			return a | b, true
		case "^":
			return a ^ b, true
		case "<<":
			return int64(int32(a) << (b & 31)), true
		case ">>":
			return int64(int32(a) >> (b & 31)), true
		}
	}
	return 0, false
}

func parseIntLiteral(lit string) (int64, bool) {
	if strings.HasSuffix(lit, "l") || strings.HasSuffix(lit, "L") {
		return 0, false
	}
	s := strings.ReplaceAll(lit, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	if base == 10 {
		return int64(v), v <= 1<<31
	}
	return int64(int32(uint32(v))), true
}

// charValue decodes a character literal including its quotes.
func charValue(lit string) (rune, bool) {
	if len(lit) < 3 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return 0, false
	}
	body := lit[1 : len(lit)-1]
	if !strings.HasPrefix(body, `\`) {
		r := []rune(body)
		if len(r) != 1 {
			return 0, false
		}
		return r[0], true
	}
	switch body {
	case `\n`:
		return '\n', true
	case `\t`:
		return '\t', true
	case `\b`:
		return '\b', true
	case `\r`:
		return '\r', true
	case `\f`:
		return '\f', true
	case `\s`:
		return ' ', true
	case `\'`:
		return '\'', true
	case `\"`:
		return '"', true
	case `\\`:
		return '\\', true
	}
	if strings.HasPrefix(body, `\u`) {
		v, err := strconv.ParseUint(strings.TrimLeft(body[1:], "u"), 16, 16)
		return rune(v), err == nil
	}
	v, err := strconv.ParseUint(body[1:], 8, 8)
	return rune(v), err == nil
}

// fitsConstant reports whether an int constant v of type from narrows to
// to: byte, short and char targets and their wrappers accept constants in
// range.
func fitsConstant(from, to types.Type, v int64) bool {
	fp, ok := from.(*types.Primitive)
	if !ok {
		return false
	}
	switch fp.Kind {
	case types.Int, types.Short, types.Char, types.Byte:
	default:
		return false
	}
	tp, ok := to.(*types.Primitive)
	if !ok {
		tp = types.Unbox(to)
	}
	if tp == nil {
		return false
	}
	switch tp.Kind {
	case types.Byte:
		return v >= -128 && v <= 127
	case types.Short:
		return v >= -32768 && v <= 32767
	case types.Char:
		return v >= 0 && v <= 65535
	}
	return false
}
