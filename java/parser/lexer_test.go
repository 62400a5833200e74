package parser

import (
	"testing"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/options"
)

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("class Foo {}"), "Test.java")
	pos := lexer.Position()

	if pos.File != "Test.java" {
		t.Errorf("File = %q, want %q", pos.File, "Test.java")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
	if pos.Offset != 0 {
		t.Errorf("Offset = %d, want %d", pos.Offset, 0)
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"public", TokenPublic},
		{"private", TokenPrivate},
		{"protected", TokenProtected},
		{"static", TokenStatic},
		{"final", TokenFinal},
		{"abstract", TokenAbstract},
		{"interface", TokenInterface},
		{"extends", TokenExtends},
		{"implements", TokenImplements},
		{"void", TokenVoid},
		{"int", TokenInt},
		{"boolean", TokenBoolean},
		{"if", TokenIf},
		{"else", TokenElse},
		{"for", TokenFor},
		{"while", TokenWhile},
		{"return", TokenReturn},
		{"new", TokenNew},
		{"this", TokenThis},
		{"super", TokenSuper},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"null", TokenNull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_private",
		"$special",
		"camelCase",
		"SCREAMING_CASE",
		"with123Numbers",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != TokenIdent {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdent)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"(", TokenLParen},
		{")", TokenRParen},
		{"{", TokenLBrace},
		{"}", TokenRBrace},
		{"[", TokenLBracket},
		{"]", TokenRBracket},
		{";", TokenSemicolon},
		{",", TokenComma},
		{".", TokenDot},
		{"...", TokenEllipsis},
		{"@", TokenAt},
		{"::", TokenColonColon},
		{":", TokenColon},
		{"=", TokenAssign},
		{"==", TokenEQ},
		{"!=", TokenNE},
		{"<", TokenLT},
		{"<=", TokenLE},
		{">", TokenGT},
		{">=", TokenGE},
		{"&&", TokenAnd},
		{"||", TokenOr},
		{"!", TokenNot},
		{"&", TokenBitAnd},
		{"|", TokenBitOr},
		{"^", TokenBitXor},
		{"~", TokenBitNot},
		{"<<", TokenShl},
		{">>", TokenShr},
		{">>>", TokenUShr},
		{"+", TokenPlus},
		{"-", TokenMinus},
		{"*", TokenStar},
		{"/", TokenSlash},
		{"%", TokenPercent},
		{"++", TokenIncrement},
		{"--", TokenDecrement},
		{"?", TokenQuestion},
		{"->", TokenArrow},
		{"+=", TokenPlusAssign},
		{"-=", TokenMinusAssign},
		{"*=", TokenStarAssign},
		{"/=", TokenSlashAssign},
		{"%=", TokenPercentAssign},
		{"&=", TokenAndAssign},
		{"|=", TokenOrAssign},
		{"^=", TokenXorAssign},
		{"<<=", TokenShlAssign},
		{">>=", TokenShrAssign},
		{">>>=", TokenUShrAssign},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"123", TokenIntLiteral},
		{"1_000_000", TokenIntLiteral},
		{"123L", TokenIntLiteral},
		{"0x1F", TokenIntLiteral},
		{"0xDEAD_BEEF", TokenIntLiteral},
		{"0b1010", TokenIntLiteral},
		{"0b1010_1010", TokenIntLiteral},
		{"3.14", TokenFloatLiteral},
		{"3.14f", TokenFloatLiteral},
		{"3.14d", TokenFloatLiteral},
		{"1e10", TokenFloatLiteral},
		{"1.5e-10", TokenFloatLiteral},
		{"1.5E+10", TokenFloatLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{`"hello"`, TokenStringLiteral},
		{`"hello world"`, TokenStringLiteral},
		{`"with \"escapes\""`, TokenStringLiteral},
		{`"with\nnewline"`, TokenStringLiteral},
		{`""`, TokenStringLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerCharLiterals(t *testing.T) {
	tests := []string{
		`'a'`,
		`'\n'`,
		`'\''`,
		`'\\'`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexer := NewLexer([]byte(input), "test.java")
			tok := lexer.NextToken()
			if tok.Kind != TokenCharLiteral {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenCharLiteral)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	t.Run("line comment", func(t *testing.T) {
		lexer := NewLexer([]byte("// this is a comment"), "test.java")
		tok := lexer.NextToken()
		if tok.Kind != TokenLineComment {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenLineComment)
		}
		if tok.Literal != "// this is a comment" {
			t.Errorf("Literal = %q", tok.Literal)
		}
	})

	t.Run("block comment", func(t *testing.T) {
		lexer := NewLexer([]byte("/* block comment */"), "test.java")
		tok := lexer.NextToken()
		if tok.Kind != TokenComment {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenComment)
		}
		if tok.Literal != "/* block comment */" {
			t.Errorf("Literal = %q", tok.Literal)
		}
	})

	t.Run("multiline block comment", func(t *testing.T) {
		input := "/* line1\n   line2 */"
		lexer := NewLexer([]byte(input), "test.java")
		tok := lexer.NextToken()
		if tok.Kind != TokenComment {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenComment)
		}
	})
}

func TestLexerTextBlock(t *testing.T) {
	input := `"""
    hello
    world
    """`
	lexer := NewLexer([]byte(input), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenTextBlock {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenTextBlock)
	}
}

func TestLexerWhitespace(t *testing.T) {
	lexer := NewLexer([]byte("   \t\n  "), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenWhitespace {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenWhitespace)
	}
}

func TestLexerEOF(t *testing.T) {
	lexer := NewLexer([]byte(""), "test.java")
	tok := lexer.NextToken()
	if tok.Kind != TokenEOF {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenEOF)
	}
}

func TestLexerPositionTracking(t *testing.T) {
	lexer := NewLexer([]byte("foo\nbar"), "test.java")

	tok1 := lexer.NextToken()
	if tok1.Span.Start.Line != 1 || tok1.Span.Start.Column != 1 {
		t.Errorf("First token at (%d, %d), want (1, 1)", tok1.Span.Start.Line, tok1.Span.Start.Column)
	}

	lexer.NextToken() // newline whitespace

	tok2 := lexer.NextToken()
	if tok2.Span.Start.Line != 2 || tok2.Span.Start.Column != 1 {
		t.Errorf("Second token at (%d, %d), want (2, 1)", tok2.Span.Start.Line, tok2.Span.Start.Column)
	}
}

func TestLexerSequence(t *testing.T) {
	input := "public class Foo { }"
	lexer := NewLexer([]byte(input), "test.java")

	expected := []TokenKind{
		TokenPublic,
		TokenWhitespace,
		TokenClass,
		TokenWhitespace,
		TokenIdent,
		TokenWhitespace,
		TokenLBrace,
		TokenWhitespace,
		TokenRBrace,
		TokenEOF,
	}

	for i, want := range expected {
		tok := lexer.NextToken()
		if tok.Kind != want {
			t.Errorf("Token %d: Kind = %v, want %v", i, tok.Kind, want)
		}
	}
}

func TestLexerUnknownCharacter(t *testing.T) {
	var got []diag.Diagnostic
	lexer := NewLexer([]byte("#"), "test.java", LexReporter(collect(&got)))
	tok := lexer.NextToken()
	if tok.Kind != TokenError {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenError)
	}
	if len(got) != 1 || got[0].Problem != diag.InvalidCharacter {
		t.Fatalf("diagnostics = %v, want one InvalidCharacter", got)
	}
	if got[0].Start != 0 || got[0].End != 1 {
		t.Errorf("span = %d..%d, want 0..1", got[0].Start, got[0].End)
	}
}

func collect(dst *[]diag.Diagnostic) diag.Reporter {
	return diag.ReporterFunc(func(d diag.Diagnostic) {
		*dst = append(*dst, d)
	})
}

// lexAll returns every non-trivia token before EOF and the diagnostics.
func lexAll(t *testing.T, input string, opts ...LexerOption) ([]Token, []diag.Diagnostic) {
	t.Helper()
	var got []diag.Diagnostic
	opts = append(opts, LexReporter(collect(&got)))
	lexer := NewLexer([]byte(input), "Test.java", opts...)
	var toks []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.IsTrivia() {
			continue
		}
		toks = append(toks, tok)
	}
	return toks, got
}

func TestLexerUnicodeEscapes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    TokenKind
		literal string
	}{
		{"escaped identifier", `\u0061bc`, TokenIdent, "abc"},
		{"repeated u", `\uuu0061`, TokenIdent, "a"},
		{"escaped keyword", `\u0069nt`, TokenInt, "int"},
		{"greek letter", `\u03b1`, TokenIdent, "α"},
		{"utf-8 identifier", "größe", TokenIdent, "größe"},
		{"ignorable dropped", "a\u200bb", TokenIdent, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lexAll(t, tt.input)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1", len(toks))
			}
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Literal != tt.literal {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.literal)
			}
			if toks[0].Span.End.Offset != len(tt.input) {
				t.Errorf("End = %d, want %d", toks[0].Span.End.Offset, len(tt.input))
			}
		})
	}
}

func TestLexerEscapedBackslashIsNotAnEscape(t *testing.T) {
	// An escaped backslash followed by u0061 is not a unicode escape.
	toks, diags := lexAll(t, `"\\u0061"`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(toks) != 1 || toks[0].Kind != TokenStringLiteral {
		t.Fatalf("tokens = %v, want one string literal", toks)
	}
}

func TestLexerInvalidUnicodeEscape(t *testing.T) {
	toks, diags := lexAll(t, `\u00zz x`)
	if len(diags) == 0 || diags[0].Problem != diag.InvalidUnicodeEscape {
		t.Fatalf("diagnostics = %v, want InvalidUnicodeEscape first", diags)
	}
	if toks[0].Kind != TokenError {
		t.Errorf("first token = %v, want TokenError", toks[0].Kind)
	}
}

func TestLexerUnicodeVersionFollowsLevel(t *testing.T) {
	// U+0860 was assigned in Unicode 10, which Java 11 uses and Java 8 does not.
	const syriac = "a\u0860"
	_, old := lexAll(t, syriac, LexLevel(options.JDK1_8))
	if len(old) != 1 || old[0].Problem != diag.InvalidCharacter {
		t.Errorf("1.8: diagnostics = %v, want one InvalidCharacter", old)
	}
	toks, newer := lexAll(t, syriac, LexLevel(options.JDK11))
	if len(newer) != 0 {
		t.Errorf("11: unexpected diagnostics %v", newer)
	}
	if len(toks) != 1 {
		t.Errorf("11: got %d tokens, want 1", len(toks))
	}
}

func TestLexerKeywordsByLevel(t *testing.T) {
	tests := []struct {
		input string
		level options.Level
		want  TokenKind
	}{
		{"assert", options.JDK1_3, TokenIdent},
		{"assert", options.JDK1_4, TokenAssert},
		{"enum", options.JDK1_4, TokenIdent},
		{"enum", options.JDK1_5, TokenEnum},
		{"var", options.JDK1_8, TokenVar},
		{"_", options.JDK1_8, TokenIdent},
	}
	for _, tt := range tests {
		t.Run(tt.input+"@"+tt.level.String(), func(t *testing.T) {
			toks, _ := lexAll(t, tt.input, LexLevel(tt.level))
			if toks[0].Kind != tt.want {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.want)
			}
		})
	}
}

func TestLexerNonSealed(t *testing.T) {
	toks, _ := lexAll(t, "non-sealed class")
	if toks[0].Kind != TokenNonSealed {
		t.Errorf("Kind = %v, want %v", toks[0].Kind, TokenNonSealed)
	}
	toks, _ = lexAll(t, "non - sealed")
	if toks[0].Kind != TokenIdent || len(toks) != 3 {
		t.Errorf("spaced form lexed as %v", toks)
	}
}

func TestLexerModuleKeywordsOnlyInModuleInfo(t *testing.T) {
	lexer := NewLexer([]byte("requires"), "module-info.java")
	if tok := lexer.NextToken(); tok.Kind != TokenRequires {
		t.Errorf("module-info: Kind = %v, want %v", tok.Kind, TokenRequires)
	}
	lexer = NewLexer([]byte("requires"), "Main.java")
	if tok := lexer.NextToken(); tok.Kind != TokenIdent {
		t.Errorf("Main.java: Kind = %v, want %v", tok.Kind, TokenIdent)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  diag.Problem
	}{
		{"unterminated string", "\"abc\nx", diag.UnterminatedString},
		{"string at eof", "\"abc", diag.UnterminatedString},
		{"unterminated comment", "/* abc", diag.UnterminatedComment},
		{"empty char", "''", diag.InvalidCharConstant},
		{"unterminated char", "'a", diag.InvalidCharConstant},
		{"unterminated text block", "\"\"\"\nabc", diag.UnterminatedString},
		{"stray backtick", "`", diag.InvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := lexAll(t, tt.input)
			if len(diags) == 0 {
				t.Fatalf("no diagnostics, want %v", tt.want)
			}
			if diags[0].Problem != tt.want {
				t.Errorf("Problem = %v, want %v", diags[0].Problem, tt.want)
			}
			if diags[0].File != "Test.java" {
				t.Errorf("File = %q", diags[0].File)
			}
		})
	}
}

func TestLexerFormFeedIsWhitespace(t *testing.T) {
	toks, diags := lexAll(t, "a\fb")
	if len(diags) != 0 || len(toks) != 2 {
		t.Errorf("tokens = %v, diagnostics = %v", toks, diags)
	}
}
