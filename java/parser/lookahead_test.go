package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInsertLookahead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{"identifier lambda", "x -> x", []TokenKind{
			TokenBeginLambda, TokenIdent, TokenArrow, TokenIdent,
		}},
		{"parenthesized lambda", "(a, b) -> a", []TokenKind{
			TokenBeginLambda, TokenLParen, TokenIdent, TokenComma, TokenIdent, TokenRParen, TokenArrow, TokenIdent,
		}},
		{"call is not a lambda", "f(a)", []TokenKind{
			TokenIdent, TokenLParen, TokenIdent, TokenRParen,
		}},
		{"lambda argument", "foo(x -> 1)", []TokenKind{
			TokenIdent, TokenLParen, TokenBeginLambda, TokenIdent, TokenArrow, TokenIntLiteral, TokenRParen,
		}},
		{"cast before lambda", "(Runnable) () -> {}", []TokenKind{
			TokenLParen, TokenIdent, TokenRParen, TokenBeginLambda, TokenLParen, TokenRParen, TokenArrow, TokenLBrace, TokenRBrace,
		}},
		{"generic method call", "a.<String>m()", []TokenKind{
			TokenIdent, TokenDot, TokenBeginTypeArguments, TokenLT, TokenIdent, TokenGT, TokenIdent, TokenLParen, TokenRParen,
		}},
		{"generic method reference", "List::<String>of", []TokenKind{
			TokenIdent, TokenColonColon, TokenBeginTypeArguments, TokenLT, TokenIdent, TokenGT, TokenIdent,
		}},
		{"less than is not type arguments", "a < b", []TokenKind{
			TokenIdent, TokenLT, TokenIdent,
		}},
		{"type pattern", "case String s ->", []TokenKind{
			TokenCase, TokenBeginCaseElement, TokenIdent, TokenIdent, TokenArrow,
		}},
		{"record pattern", "case Point(int x, int y) ->", []TokenKind{
			TokenCase, TokenBeginCaseElement, TokenIdent, TokenLParen, TokenInt, TokenIdent, TokenComma, TokenInt, TokenIdent, TokenRParen, TokenArrow,
		}},
		{"constant label", "case FOO -> bar", []TokenKind{
			TokenCase, TokenIdent, TokenArrow, TokenIdent,
		}},
		{"lambda in rule body", "case FOO -> x -> 1", []TokenKind{
			TokenCase, TokenIdent, TokenArrow, TokenBeginLambda, TokenIdent, TokenArrow, TokenIntLiteral,
		}},
		{"guard is not a binding", "case String when ->", []TokenKind{
			TokenCase, TokenIdent, TokenWhen, TokenArrow,
		}},
		{"declaration annotation", "@Override void m()", []TokenKind{
			TokenAt, TokenIdent, TokenVoid, TokenIdent, TokenLParen, TokenRParen,
		}},
		{"annotation type", "@interface A {}", []TokenKind{
			TokenAt, TokenInterface, TokenIdent, TokenLBrace, TokenRBrace,
		}},
		{"type argument annotation", "List<@A String> l", []TokenKind{
			TokenIdent, TokenLT, TokenAt308, TokenIdent, TokenIdent, TokenGT, TokenIdent,
		}},
		{"creation annotation", "new @A Foo()", []TokenKind{
			TokenNew, TokenAt308, TokenIdent, TokenIdent, TokenLParen, TokenRParen,
		}},
		{"dimension annotation", "int @A [] a", []TokenKind{
			TokenInt, TokenAt308, TokenIdent, TokenLBracket, TokenRBracket, TokenIdent,
		}},
		{"varargs annotation", "String @A ... args", []TokenKind{
			TokenIdent, TokenAt308Ellipsis, TokenIdent, TokenEllipsis, TokenIdent,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _ := lexAll(t, tt.input)
			var got []TokenKind
			for _, tok := range InsertLookahead(toks) {
				got = append(got, tok.Kind)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("InsertLookahead(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestSyntheticTokensHaveEmptySpans(t *testing.T) {
	toks, _ := lexAll(t, "foo(x -> 1)")
	out := InsertLookahead(toks)
	if len(out) != len(toks)+1 {
		t.Fatalf("got %d tokens, want %d", len(out), len(toks)+1)
	}
	begin, next := out[2], out[3]
	if begin.Kind != TokenBeginLambda {
		t.Fatalf("out[2] = %v, want BeginLambda", begin.Kind)
	}
	if begin.Span.Start.Offset != next.Span.Start.Offset || begin.Span.Len() != 0 {
		t.Errorf("BeginLambda span = %d..%d, want empty at %d",
			begin.Span.Start.Offset, begin.Span.End.Offset, next.Span.Start.Offset)
	}
	if begin.Literal != "" {
		t.Errorf("BeginLambda literal = %q, want empty", begin.Literal)
	}
}

func TestParserTokensIncludeLookahead(t *testing.T) {
	p := ParseExpression(strings.NewReader("list.forEach(e -> use(e))"))
	p.Finish()
	var n int
	for _, tok := range p.Tokens() {
		if tok.Kind == TokenBeginLambda {
			n++
		}
	}
	if n != 1 {
		t.Errorf("got %d BeginLambda tokens, want 1", n)
	}
}
