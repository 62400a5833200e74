package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/token"
)

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func position(p parser.Position) jsonPosition {
	return jsonPosition{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// TokenLineEncoder writes one public token per line:
// "line:column<TAB>KIND<TAB>literal".
type TokenLineEncoder struct {
	writer
	toks []token.Token
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{writer: writer{w}}
}

func (e *TokenLineEncoder) Encode(toks []token.Token) error {
	e.toks = toks
	return e.write(e.MarshalText())
}

func (e *TokenLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, t := range e.toks {
		fmt.Fprintf(&sb, "%d:%d\t%s", t.Span.Start.Line, t.Span.Start.Column, t.Kind)
		if t.Literal != "" {
			sb.WriteByte('\t')
			sb.WriteString(strconv.Quote(t.Literal))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// TokenJSONEncoder writes the public tokens as a JSON array.
type TokenJSONEncoder struct {
	writer
	toks []token.Token
}

func NewTokenJSONEncoder(w io.Writer) *TokenJSONEncoder {
	return &TokenJSONEncoder{writer: writer{w}}
}

func (e *TokenJSONEncoder) Encode(toks []token.Token) error {
	e.toks = toks
	return e.write(e.MarshalText())
}

type jsonToken struct {
	Kind     string   `json:"kind"`
	Internal string   `json:"internal,omitempty"`
	Literal  string   `json:"literal,omitempty"`
	Span     jsonSpan `json:"span"`
}

func (e *TokenJSONEncoder) MarshalText() ([]byte, error) {
	out := make([]jsonToken, len(e.toks))
	for i, t := range e.toks {
		out[i] = jsonToken{
			Kind:    t.Kind.String(),
			Literal: t.Literal,
			Span:    jsonSpan{Start: position(t.Span.Start), End: position(t.Span.End)},
		}
		if internal := t.Internal.String(); internal != t.Kind.String() {
			out[i].Internal = internal
		}
	}
	text, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
