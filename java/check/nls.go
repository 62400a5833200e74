package check

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/parser"
)

// nlsLiteral is a string literal seen while checking a unit.
type nlsLiteral struct {
	node *parser.Node
	// suppressed is set under @SuppressWarnings("nls").
	suppressed bool
}

var nlsTag = regexp.MustCompile(`\$NON-NLS-(\d+)\$`)

// noteString records a string literal for the externalized string check.
// Literals typed speculatively or inside annotations are not recorded.
func (c *Checker) noteString(f *frame, n *parser.Node) {
	if c.quiet > 0 || c.annot > 0 {
		return
	}
	u := f.unit
	if u.seen[n] {
		return
	}
	u.seen[n] = true
	u.nls = append(u.nls, nlsLiteral{node: n, suppressed: f.suppressed()})
}

type nlsMark struct {
	line, index int
	span        parser.Span
	used        bool
}

// checkNLS matches the string literals of u against the $NON-NLS-n$ tags
// in its line comments. The n-th literal of a line needs tag n on that
// line.
func (c *Checker) checkNLS(u *unitState) {
	if c.opts.Severity(diag.NonExternalizedStringLiteral) == diag.Ignore &&
		c.opts.Severity(diag.UnnecessaryNLSTag) == diag.Ignore {
		return
	}
	var marks []*nlsMark
	byLine := map[int][]*nlsMark{}
	for _, tok := range u.Comments {
		if tok.Kind != parser.TokenLineComment {
			continue
		}
		for _, loc := range nlsTag.FindAllStringSubmatchIndex(tok.Literal, -1) {
			idx, err := strconv.Atoi(tok.Literal[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			start := tok.Span.Start
			start.Offset += loc[0]
			start.Column += loc[0]
			end := start
			end.Offset += loc[1] - loc[0]
			end.Column += loc[1] - loc[0]
			m := &nlsMark{line: tok.Span.Start.Line, index: idx, span: parser.Span{Start: start, End: end}}
			marks = append(marks, m)
			byLine[m.line] = append(byLine[m.line], m)
		}
	}

	lits := slices.Clone(u.nls)
	slices.SortFunc(lits, func(a, b nlsLiteral) int {
		return a.node.Span.Start.Offset - b.node.Span.Start.Offset
	})
	counts := map[int]int{}
	for _, lit := range lits {
		line := lit.node.Span.End.Line
		counts[line]++
		n := counts[line]
		tagged := false
		for _, m := range byLine[line] {
			if m.index == n {
				m.used = true
				tagged = true
			}
		}
		if !tagged && !lit.suppressed {
			c.report(u, diag.NonExternalizedStringLiteral, lit.node.Span)
		}
	}
	for _, m := range marks {
		if m.used || u.quietAt(m.span) {
			continue
		}
		c.report(u, diag.UnnecessaryNLSTag, m.span)
	}
}

// quietAt reports whether span lies in a declaration that suppresses
// "nls".
func (u *unitState) quietAt(span parser.Span) bool {
	for _, q := range u.quiet {
		if span.Start.Offset >= q.Start.Offset && span.End.Offset <= q.End.Offset {
			return true
		}
	}
	return false
}

// reportUnusedImports reports single-type and on-demand imports that no
// name of the unit resolved through.
func (c *Checker) reportUnusedImports(u *unitState) {
	for _, imp := range u.Imports {
		if !imp.resolved || imp.Used {
			continue
		}
		span := imp.Node.Span
		if qn := imp.Node.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
			span = qn.Span
		}
		c.report(u, diag.UnusedImport, span, imp.Name)
	}
}
