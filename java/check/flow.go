package check

import (
	"github.com/dhamidi/javafront/java/parser"
)

// canComplete reports whether control can fall off the end of statement n.
// Only constant true conditions are folded; every other condition may go
// either way.
func canComplete(n *parser.Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case parser.KindBlock:
		for _, s := range n.Children {
			if !canComplete(s) {
				return false
			}
		}
		return true
	case parser.KindReturnStmt, parser.KindThrowStmt, parser.KindBreakStmt,
		parser.KindContinueStmt, parser.KindYieldStmt:
		return false
	case parser.KindIfStmt:
		if len(n.Children) < 3 {
			return true
		}
		return canComplete(n.Children[1]) || canComplete(n.Children[2])
	case parser.KindWhileStmt:
		if isConstTrue(n.Child(0)) {
			return breaksOut(n.Child(1), "")
		}
		return true
	case parser.KindDoStmt:
		if isConstTrue(n.Child(1)) {
			return breaksOut(n.Child(0), "")
		}
		return true
	case parser.KindForStmt:
		cond := forCondition(n)
		if cond == nil || isConstTrue(cond) {
			return breaksOut(n.Child(len(n.Children)-1), "")
		}
		return true
	case parser.KindLabeledStmt:
		label := n.Child(0).TokenLiteral()
		body := n.Child(len(n.Children) - 1)
		return canComplete(body) || breaksTo(body, label)
	case parser.KindSwitchStmt:
		return switchCanComplete(n)
	case parser.KindTryStmt:
		if fin := n.FirstChildOfKind(parser.KindFinallyClause); fin != nil {
			if !canComplete(fin.FirstChildOfKind(parser.KindBlock)) {
				return false
			}
		}
		if canComplete(n.FirstChildOfKind(parser.KindBlock)) {
			return true
		}
		for _, cl := range n.ChildrenOfKind(parser.KindCatchClause) {
			if canComplete(cl.FirstChildOfKind(parser.KindBlock)) {
				return true
			}
		}
		return false
	case parser.KindSynchronizedStmt:
		return canComplete(n.FirstChildOfKind(parser.KindBlock))
	}
	return true
}

func switchCanComplete(n *parser.Node) bool {
	hasDefault := false
	arrow := false
	for _, cs := range n.ChildrenOfKind(parser.KindSwitchCase) {
		for _, l := range cs.ChildrenOfKind(parser.KindSwitchLabel) {
			if isDefaultLabel(l) {
				hasDefault = true
			}
			if l.IsArrowCase() {
				arrow = true
			}
		}
	}
	if !hasDefault || breaksOut(n, "") {
		return true
	}
	cases := n.ChildrenOfKind(parser.KindSwitchCase)
	if arrow {
		for _, cs := range cases {
			for _, ch := range cs.Children {
				if ch.Kind == parser.KindSwitchLabel {
					continue
				}
				if ch.Kind == parser.KindExprStmt || canComplete(ch) {
					return true
				}
			}
		}
		return false
	}
	if len(cases) == 0 {
		return true
	}
	lastCase := cases[len(cases)-1]
	for _, ch := range lastCase.Children {
		if ch.Kind != parser.KindSwitchLabel && !canComplete(ch) {
			return false
		}
	}
	return true
}

// isDefaultLabel reports whether a switch label is "default" or includes
// it, as in "case null, default".
func isDefaultLabel(l *parser.Node) bool {
	for _, ch := range l.Children {
		if ch.Kind == parser.KindIdentifier && ch.Token != nil && ch.Token.Kind == parser.TokenDefault {
			return true
		}
		if ch.Kind == parser.KindIdentifier && ch.TokenLiteral() == "default" {
			return true
		}
	}
	for _, ch := range l.Children {
		if !(ch.Kind == parser.KindIdentifier && ch.Token != nil && ch.Token.Kind == parser.TokenArrow) {
			return false
		}
	}
	return true
}

func isConstTrue(n *parser.Node) bool {
	for n != nil && n.Kind == parser.KindParenExpr {
		n = n.Child(0)
	}
	return n != nil && n.Kind == parser.KindLiteral && n.Token != nil && n.Token.Kind == parser.TokenTrue
}

// breaksOut reports whether the body of a loop or switch contains a break
// that leaves it: an unlabeled break not consumed by a nested loop or
// switch, or a break to label.
func breaksOut(n *parser.Node, label string) bool {
	found := false
	var walk func(n *parser.Node, depth int)
	walk = func(n *parser.Node, depth int) {
		if n == nil || found {
			return
		}
		switch n.Kind {
		case parser.KindBreakStmt:
			if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
				if label != "" && id.TokenLiteral() == label {
					found = true
				}
				return
			}
			if depth == 0 {
				found = true
			}
			return
		case parser.KindLambdaExpr, parser.KindClassBody, parser.KindLocalClassDecl:
			return
		case parser.KindWhileStmt, parser.KindDoStmt, parser.KindForStmt,
			parser.KindEnhancedForStmt, parser.KindSwitchStmt, parser.KindSwitchExpr:
			for _, ch := range n.Children {
				walk(ch, depth+1)
			}
			return
		}
		for _, ch := range n.Children {
			walk(ch, depth)
		}
	}
	if n != nil && n.Kind == parser.KindSwitchStmt {
		for _, ch := range n.Children {
			walk(ch, 0)
		}
		return found
	}
	walk(n, 0)
	return found
}

// breaksTo reports whether n contains "break label".
func breaksTo(n *parser.Node, label string) bool {
	found := false
	n.Walk(func(x *parser.Node) bool {
		switch x.Kind {
		case parser.KindLambdaExpr, parser.KindClassBody, parser.KindLocalClassDecl:
			return false
		case parser.KindBreakStmt:
			if id := x.FirstChildOfKind(parser.KindIdentifier); id != nil && id.TokenLiteral() == label {
				found = true
			}
		}
		return !found
	})
	return found
}
