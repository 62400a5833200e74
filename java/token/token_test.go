package token

import (
	"errors"
	"testing"

	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/options"
	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestClassificationIsExhaustive(t *testing.T) {
	counts := map[Policy]int{}
	for _, k := range parser.TokenKinds() {
		cl := Classify(k)
		counts[cl.Policy]++
		switch cl.Policy {
		case Unclassified:
			t.Errorf("%v is unclassified", k)
		case Skip:
			if cl.Kind != ILLEGAL {
				t.Errorf("skipped %v surfaces %v", k, cl.Kind)
			}
		default:
			if !cl.Kind.Valid() {
				t.Errorf("%v maps to invalid kind %v", k, cl.Kind)
			}
		}
		if k.IsModuleOnly() != (cl.Policy == ModuleOnly) {
			t.Errorf("%v: IsModuleOnly = %v, policy = %v", k, k.IsModuleOnly(), cl.Policy)
		}
		if k.IsSynthetic() && cl.Policy == Direct {
			t.Errorf("synthetic %v is mapped directly", k)
		}
	}
	want := map[Policy]int{Skip: 4, Remap: 2, ModuleOnly: 10}
	for p, n := range want {
		if counts[p] != n {
			t.Errorf("%v kinds = %d, want %d", p, counts[p], n)
		}
	}
	if total := counts[Direct] + counts[Skip] + counts[Remap] + counts[ModuleOnly]; total != len(parser.TokenKinds()) {
		t.Errorf("classified %d kinds, internal vocabulary has %d", total, len(parser.TokenKinds()))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		kind parser.TokenKind
		want Class
	}{
		{parser.TokenIdent, Class{Direct, IDENTIFIER}},
		{parser.TokenColonColon, Class{Direct, COLON_COLON}},
		{parser.TokenNonSealed, Class{Direct, NON_SEALED}},
		{parser.TokenBeginLambda, Class{Skip, ILLEGAL}},
		{parser.TokenBeginTypeArguments, Class{Skip, ILLEGAL}},
		{parser.TokenBeginCaseElement, Class{Skip, ILLEGAL}},
		{parser.TokenNotAToken, Class{Skip, ILLEGAL}},
		{parser.TokenAt308, Class{Remap, AT}},
		{parser.TokenAt308Ellipsis, Class{Remap, AT}},
		{parser.TokenRequires, Class{ModuleOnly, IDENTIFIER}},
		{parser.TokenKind(-1), Class{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := Classify(tt.kind); got != tt.want {
				t.Errorf("Classify(%v) = %+v, want %+v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestBuildRejectsBadClassification(t *testing.T) {
	kinds := []parser.TokenKind{parser.TokenEOF, parser.TokenIdent, parser.TokenBeginLambda}
	tests := []struct {
		name string
		c    classification
	}{
		{"missing kind", classification{
			direct: map[parser.TokenKind]Kind{parser.TokenEOF: EOF, parser.TokenIdent: IDENTIFIER},
		}},
		{"classified twice", classification{
			direct: map[parser.TokenKind]Kind{parser.TokenEOF: EOF, parser.TokenIdent: IDENTIFIER},
			skip:   []parser.TokenKind{parser.TokenBeginLambda, parser.TokenIdent},
		}},
		{"invalid public kind", classification{
			direct: map[parser.TokenKind]Kind{parser.TokenEOF: EOF, parser.TokenIdent: kindCount},
			skip:   []parser.TokenKind{parser.TokenBeginLambda},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(kinds, tt.c)
			var cfg *options.ConfigurationError
			if !errors.As(err, &cfg) {
				t.Fatalf("build() error = %v, want *options.ConfigurationError", err)
			}
		})
	}
}

// countingSource records how often the scanner pulls from it.
type countingSource struct {
	toks  []parser.Token
	calls int
}

func (s *countingSource) NextToken() parser.Token {
	s.calls++
	if len(s.toks) == 0 {
		return parser.Token{Kind: parser.TokenEOF}
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok
}

func kinds(toks ...parser.TokenKind) []parser.Token {
	out := make([]parser.Token, len(toks))
	for i, k := range toks {
		out[i] = parser.Token{Kind: k}
	}
	return out
}

func TestScannerSkipsOneToken(t *testing.T) {
	src := &countingSource{toks: kinds(parser.TokenBeginLambda, parser.TokenIdent, parser.TokenArrow)}
	s, err := NewScanner(src)
	if err != nil {
		t.Fatal(err)
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Kind != IDENTIFIER {
		t.Errorf("first token = %v, want IDENTIFIER", tok.Kind)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
	if tok, _ = s.Next(); tok.Kind != ARROW || src.calls != 3 {
		t.Errorf("second token = %v after %d calls, want ARROW after 3", tok.Kind, src.calls)
	}
}

func TestScannerChainedSyntheticIsDefect(t *testing.T) {
	src := &countingSource{toks: kinds(parser.TokenBeginLambda, parser.TokenNotAToken, parser.TokenIdent)}
	s, err := NewScanner(src)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Next()
	if !errors.Is(err, ErrChainedSynthetic) {
		t.Fatalf("Next() error = %v, want ErrChainedSynthetic", err)
	}
	var defect *DefectError
	if !errors.As(err, &defect) {
		t.Fatalf("Next() error is %T, want *DefectError", err)
	}
	if defect.First != parser.TokenBeginLambda || defect.Second != parser.TokenNotAToken {
		t.Errorf("defect = %v then %v", defect.First, defect.Second)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
}

func TestScannerStopsAtEOF(t *testing.T) {
	src := &countingSource{}
	s, _ := NewScanner(src)
	for i := 0; i < 3; i++ {
		tok, err := s.Next()
		if err != nil || tok.Kind != EOF {
			t.Fatalf("Next() = %v, %v; want EOF", tok.Kind, err)
		}
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}
}

func scan(t *testing.T, file, input string) []Token {
	t.Helper()
	s, err := NewScanner(Lex([]byte(input), file, options.Default()))
	if err != nil {
		t.Fatal(err)
	}
	toks, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	return toks
}

func publicKinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScannerOverLexer(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
		want  []Kind
	}{
		{"lambda marker skipped", "A.java", "f(x -> x)", []Kind{
			IDENTIFIER, LPAREN, IDENTIFIER, ARROW, IDENTIFIER, RPAREN, EOF,
		}},
		{"type arguments marker skipped", "A.java", "a.<T>m()", []Kind{
			IDENTIFIER, DOT, LESS, IDENTIFIER, GREATER, IDENTIFIER, LPAREN, RPAREN, EOF,
		}},
		{"case marker skipped", "A.java", "case String s ->", []Kind{
			CASE, IDENTIFIER, IDENTIFIER, ARROW, EOF,
		}},
		{"type annotation remapped", "A.java", "List<@A String>", []Kind{
			IDENTIFIER, LESS, AT, IDENTIFIER, IDENTIFIER, GREATER, EOF,
		}},
		{"varargs annotation remapped", "A.java", "String @A ... a", []Kind{
			IDENTIFIER, AT, IDENTIFIER, ELLIPSIS, IDENTIFIER, EOF,
		}},
		{"module words are identifiers", "module-info.java", "module m { requires transitive x; }", []Kind{
			IDENTIFIER, IDENTIFIER, LBRACE, IDENTIFIER, IDENTIFIER, IDENTIFIER, SEMICOLON, RBRACE, EOF,
		}},
		{"contextual keywords", "A.java", "var yield record", []Kind{
			VAR, YIELD, RECORD, EOF,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := publicKinds(scan(t, tt.file, tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemappedTokenKeepsInternalKind(t *testing.T) {
	toks := scan(t, "module-info.java", "module m {}")
	if toks[0].Kind != IDENTIFIER || toks[0].Internal != parser.TokenModule {
		t.Errorf("module token = %v (internal %v), want IDENTIFIER (internal module)", toks[0].Kind, toks[0].Internal)
	}
	if toks[0].Literal != "module" {
		t.Errorf("Literal = %q, want %q", toks[0].Literal, "module")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"class", CLASS},
		{"var", VAR},
		{"non-sealed", NON_SEALED},
		{"requires", IDENTIFIER},
		{"foo", IDENTIFIER},
		{"_", IDENTIFIER},
	}
	for _, tt := range tests {
		if got := Lookup(tt.ident); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.ident, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{IDENTIFIER, "IDENTIFIER"},
		{CLASS, "class"},
		{UNSIGNED_RIGHT_SHIFT_EQUAL, ">>>="},
		{keywordBeg, "Kind(14)"},
		{Kind(-3), "Kind(-3)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	for _, k := range Kinds() {
		if k.IsKeyword() && k.IsOperator() {
			t.Errorf("%v is both keyword and operator", k)
		}
	}
}
