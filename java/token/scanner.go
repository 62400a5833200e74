package token

import (
	"errors"
	"fmt"

	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/options"
)

// Source produces internal tokens. The lexer is a Source; so is a slice of
// tokens that already carries synthetic lookahead tokens.
type Source interface {
	NextToken() parser.Token
}

// Token is a token in the public vocabulary.
type Token struct {
	Kind    Kind
	Span    parser.Span
	Literal string

	// Internal is the kind the source produced. It differs from the
	// public kind for remapped and module-only tokens.
	Internal parser.TokenKind
}

// ErrChainedSynthetic is wrapped by the DefectError returned when a
// skipped token is directly followed by another skipped token.
var ErrChainedSynthetic = errors.New("chained synthetic tokens")

// DefectError reports a token stream no correct source can produce.
type DefectError struct {
	First  parser.TokenKind
	Second parser.TokenKind
	Span   parser.Span
	Err    error
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("scanner defect at offset %d: %v followed by %v: %v",
		e.Span.Start.Offset, e.First, e.Second, e.Err)
}

func (e *DefectError) Unwrap() error { return e.Err }

// Scanner translates internal tokens into public tokens.
type Scanner struct {
	src   Source
	table table
	done  bool
}

// NewScanner returns a scanner reading from src. It fails with an
// *options.ConfigurationError when the classification table is invalid.
func NewScanner(src Source) (*Scanner, error) {
	t, err := builtinTable()
	if err != nil {
		return nil, err
	}
	return &Scanner{src: src, table: t}, nil
}

func (s *Scanner) classify(k parser.TokenKind) Class {
	if int(k) < 0 || int(k) >= len(s.table) {
		return Class{Policy: Direct, Kind: ILLEGAL}
	}
	return s.table[k]
}

// Next returns the next public token. After EOF it keeps returning EOF.
// A skip-classified token costs exactly one extra call to the source; a
// second skip-classified token in a row is a *DefectError.
func (s *Scanner) Next() (Token, error) {
	if s.done {
		return Token{Kind: EOF, Internal: parser.TokenEOF}, nil
	}
	tok := s.src.NextToken()
	cl := s.classify(tok.Kind)
	if cl.Policy == Skip {
		next := s.src.NextToken()
		if ncl := s.classify(next.Kind); ncl.Policy == Skip {
			return Token{}, &DefectError{
				First:  tok.Kind,
				Second: next.Kind,
				Span:   next.Span,
				Err:    ErrChainedSynthetic,
			}
		}
		tok, cl = next, s.classify(next.Kind)
	}
	if tok.Kind == parser.TokenEOF {
		s.done = true
	}
	return Token{Kind: cl.Kind, Span: tok.Span, Literal: tok.Literal, Internal: tok.Kind}, nil
}

// All drains the scanner, stopping at EOF or the first defect.
func (s *Scanner) All() ([]Token, error) {
	var out []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

// SliceSource serves tokens from a slice and then EOF forever.
type SliceSource struct {
	toks []parser.Token
	pos  int
}

// NewSliceSource returns a Source over toks.
func NewSliceSource(toks []parser.Token) *SliceSource {
	return &SliceSource{toks: toks}
}

func (s *SliceSource) NextToken() parser.Token {
	if s.pos >= len(s.toks) {
		var end parser.Span
		if n := len(s.toks); n > 0 {
			end = parser.Span{Start: s.toks[n-1].Span.End, End: s.toks[n-1].Span.End}
		}
		return parser.Token{Kind: parser.TokenEOF, Span: end}
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok
}

// Lex scans input the way the parser sees it: trivia dropped and synthetic
// lookahead tokens inserted. The result is ready for NewScanner.
func Lex(input []byte, file string, opts options.Options) *SliceSource {
	lexer := parser.NewLexer(input, file, parser.LexLevel(opts.Normalize().Source))
	var toks []parser.Token
	for {
		tok := lexer.NextToken()
		if tok.IsTrivia() {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == parser.TokenEOF {
			break
		}
	}
	return NewSliceSource(parser.InsertLookahead(toks))
}
