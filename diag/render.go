package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const separator = "----------"

// Renderer writes diagnostics in the batch compiler log format. The zero
// value renders plain text with one caret column per source character.
type Renderer struct {
	// Label formats the severity keyword, e.g. to add terminal colours.
	Label func(Severity) string
	// Width returns the number of columns a rune occupies. Nil means one.
	Width func(rune) int
}

// Render writes diags using the default renderer.
func Render(w io.Writer, files []*File, diags []Diagnostic) error {
	return Renderer{}.Render(w, files, diags)
}

// Render writes every diagnostic, numbered from 1, in the given order.
// Nothing is written for an empty list.
func (r Renderer) Render(w io.Writer, files []*File, diags []Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	byPath := make(map[string]*File, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	var sb strings.Builder
	sb.WriteString(separator)
	sb.WriteByte('\n')
	for i, d := range diags {
		label := d.Severity.String()
		if r.Label != nil {
			label = r.Label(d.Severity)
		}
		fmt.Fprintf(&sb, "%d. %s in %s (at line %d)\n", i+1, label, d.File, d.Line)
		if f := byPath[d.File]; f != nil {
			text, lineStart := f.Line(d.Line)
			src, caret := r.excerpt(text, d.Start-lineStart, d.End-lineStart)
			sb.WriteByte('\t')
			sb.WriteString(src)
			sb.WriteString("\n\t")
			sb.WriteString(caret)
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Message)
		sb.WriteByte('\n')
		sb.WriteString(separator)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders diags to a string.
func (r Renderer) String(files []*File, diags []Diagnostic) string {
	var sb strings.Builder
	_ = r.Render(&sb, files, diags)
	return sb.String()
}

// excerpt trims leading whitespace from the line and builds the caret line
// for the byte range [start, end) relative to the line start.
func (r Renderer) excerpt(line string, start, end int) (string, string) {
	trimmed := strings.TrimLeft(line, " \t\f")
	cut := len(line) - len(trimmed)
	start -= cut
	end -= cut
	if start < 0 {
		start = 0
	}
	if start > len(trimmed) {
		start = len(trimmed)
	}
	if end > len(trimmed) {
		end = len(trimmed)
	}
	if end <= start {
		end = start + 1
	}

	var caret strings.Builder
	for _, ch := range trimmed[:start] {
		if ch == '\t' {
			caret.WriteByte('\t')
			continue
		}
		caret.WriteString(strings.Repeat(" ", r.width(ch)))
	}
	n := 0
	if start < len(trimmed) {
		for _, ch := range trimmed[start:end] {
			n += r.width(ch)
		}
	} else {
		n = end - start
	}
	if n == 0 {
		n = 1
	}
	caret.WriteString(strings.Repeat("^", n))
	return trimmed, caret.String()
}

func (r Renderer) width(ch rune) int {
	if r.Width == nil || ch == utf8.RuneError {
		return 1
	}
	if w := r.Width(ch); w > 0 {
		return w
	}
	return 1
}
