package lsp

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/javafront/diag"
)

// convert maps a diagnostic onto the protocol. Ranges are zero-based and
// count UTF-16 code units.
func convert(f *diag.File, d diag.Diagnostic) (protocol.Diagnostic, error) {
	start, err := position(f, d.Start)
	if err != nil {
		return protocol.Diagnostic{}, err
	}
	end, err := position(f, max(d.End, d.Start))
	if err != nil {
		return protocol.Diagnostic{}, err
	}
	source := lsName
	sev := severity(d.Severity)
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &sev,
		Code:     &protocol.IntegerOrString{Value: d.Problem.String()},
		Source:   &source,
		Message:  d.Message,
	}, nil
}

func position(f *diag.File, offset int) (protocol.Position, error) {
	if offset < 0 || offset > len(f.Content) {
		return protocol.Position{}, fmt.Errorf("offset %d outside %s", offset, f.Path)
	}
	line := f.LineOf(offset)
	_, lineStart := f.Line(line)
	units := 0
	for _, r := range string(f.Content[lineStart:offset]) {
		if r >= 0x10000 && r <= utf8.MaxRune {
			units += 2
		} else {
			units++
		}
	}
	l, err := safecast.Conv[uint32](line - 1)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("line %d: %w", line, err)
	}
	c, err := safecast.Conv[uint32](units)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("column %d: %w", units, err)
	}
	return protocol.Position{Line: l, Character: c}, nil
}

func severity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
