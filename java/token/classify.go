package token

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/options"
)

// Policy says how the scanner treats one internal kind.
type Policy uint8

const (
	Unclassified Policy = iota
	Direct
	Skip
	Remap
	ModuleOnly
)

func (p Policy) String() string {
	switch p {
	case Direct:
		return "direct"
	case Skip:
		return "skip"
	case Remap:
		return "remap"
	case ModuleOnly:
		return "module-only"
	}
	return "unclassified"
}

// Class is the classification of one internal kind. Kind is the public
// kind surfaced for Direct, Remap and ModuleOnly; it is ILLEGAL for Skip.
type Class struct {
	Policy Policy
	Kind   Kind
}

// classification lists the internal kinds per policy. It is the single
// place to edit when the internal vocabulary changes.
type classification struct {
	direct     map[parser.TokenKind]Kind
	skip       []parser.TokenKind
	remap      map[parser.TokenKind]Kind
	moduleOnly []parser.TokenKind
}

var builtin = classification{
	direct: map[parser.TokenKind]Kind{
		parser.TokenEOF:         EOF,
		parser.TokenError:       ILLEGAL,
		parser.TokenWhitespace:  WHITESPACE,
		parser.TokenComment:     COMMENT_BLOCK,
		parser.TokenLineComment: COMMENT_LINE,

		parser.TokenIdent:         IDENTIFIER,
		parser.TokenIntLiteral:    INTEGER_LITERAL,
		parser.TokenFloatLiteral:  FLOATING_POINT_LITERAL,
		parser.TokenCharLiteral:   CHARACTER_LITERAL,
		parser.TokenStringLiteral: STRING_LITERAL,
		parser.TokenTextBlock:     TEXT_BLOCK,
		parser.TokenTrue:          TRUE,
		parser.TokenFalse:         FALSE,
		parser.TokenNull:          NULL,

		parser.TokenAbstract:     ABSTRACT,
		parser.TokenAssert:       ASSERT,
		parser.TokenBoolean:      BOOLEAN,
		parser.TokenBreak:        BREAK,
		parser.TokenByte:         BYTE,
		parser.TokenCase:         CASE,
		parser.TokenCatch:        CATCH,
		parser.TokenChar:         CHAR,
		parser.TokenClass:        CLASS,
		parser.TokenConst:        CONST,
		parser.TokenContinue:     CONTINUE,
		parser.TokenDefault:      DEFAULT,
		parser.TokenDo:           DO,
		parser.TokenDouble:       DOUBLE,
		parser.TokenElse:         ELSE,
		parser.TokenEnum:         ENUM,
		parser.TokenExtends:      EXTENDS,
		parser.TokenFinal:        FINAL,
		parser.TokenFinally:      FINALLY,
		parser.TokenFloat:        FLOAT,
		parser.TokenFor:          FOR,
		parser.TokenGoto:         GOTO,
		parser.TokenIf:           IF,
		parser.TokenImplements:   IMPLEMENTS,
		parser.TokenImport:       IMPORT,
		parser.TokenInstanceof:   INSTANCEOF,
		parser.TokenInt:          INT,
		parser.TokenInterface:    INTERFACE,
		parser.TokenLong:         LONG,
		parser.TokenNative:       NATIVE,
		parser.TokenNew:          NEW,
		parser.TokenPackage:      PACKAGE,
		parser.TokenPrivate:      PRIVATE,
		parser.TokenProtected:    PROTECTED,
		parser.TokenPublic:       PUBLIC,
		parser.TokenReturn:       RETURN,
		parser.TokenShort:        SHORT,
		parser.TokenStatic:       STATIC,
		parser.TokenStrictfp:     STRICTFP,
		parser.TokenSuper:        SUPER,
		parser.TokenSwitch:       SWITCH,
		parser.TokenSynchronized: SYNCHRONIZED,
		parser.TokenThis:         THIS,
		parser.TokenThrow:        THROW,
		parser.TokenThrows:       THROWS,
		parser.TokenTransient:    TRANSIENT,
		parser.TokenTry:          TRY,
		parser.TokenVoid:         VOID,
		parser.TokenVolatile:     VOLATILE,
		parser.TokenWhile:        WHILE,

		parser.TokenVar:       VAR,
		parser.TokenYield:     YIELD,
		parser.TokenRecord:    RECORD,
		parser.TokenSealed:    SEALED,
		parser.TokenNonSealed: NON_SEALED,
		parser.TokenPermits:   PERMITS,
		parser.TokenWhen:      WHEN,

		parser.TokenLParen:     LPAREN,
		parser.TokenRParen:     RPAREN,
		parser.TokenLBrace:     LBRACE,
		parser.TokenRBrace:     RBRACE,
		parser.TokenLBracket:   LBRACKET,
		parser.TokenRBracket:   RBRACKET,
		parser.TokenSemicolon:  SEMICOLON,
		parser.TokenComma:      COMMA,
		parser.TokenDot:        DOT,
		parser.TokenEllipsis:   ELLIPSIS,
		parser.TokenAt:         AT,
		parser.TokenColonColon: COLON_COLON,

		parser.TokenAssign:        ASSIGN,
		parser.TokenEQ:            EQUAL_EQUAL,
		parser.TokenNE:            NOT_EQUAL,
		parser.TokenLT:            LESS,
		parser.TokenLE:            LESS_EQUAL,
		parser.TokenGT:            GREATER,
		parser.TokenGE:            GREATER_EQUAL,
		parser.TokenAnd:           AND_AND,
		parser.TokenOr:            OR_OR,
		parser.TokenNot:           NOT,
		parser.TokenBitAnd:        AND,
		parser.TokenBitOr:         OR,
		parser.TokenBitXor:        XOR,
		parser.TokenBitNot:        TWIDDLE,
		parser.TokenShl:           LEFT_SHIFT,
		parser.TokenShr:           RIGHT_SHIFT,
		parser.TokenUShr:          UNSIGNED_RIGHT_SHIFT,
		parser.TokenPlus:          PLUS,
		parser.TokenMinus:         MINUS,
		parser.TokenStar:          MULTIPLY,
		parser.TokenSlash:         DIVIDE,
		parser.TokenPercent:       REMAINDER,
		parser.TokenIncrement:     PLUS_PLUS,
		parser.TokenDecrement:     MINUS_MINUS,
		parser.TokenQuestion:      QUESTION,
		parser.TokenColon:         COLON,
		parser.TokenArrow:         ARROW,
		parser.TokenPlusAssign:    PLUS_EQUAL,
		parser.TokenMinusAssign:   MINUS_EQUAL,
		parser.TokenStarAssign:    MULTIPLY_EQUAL,
		parser.TokenSlashAssign:   DIVIDE_EQUAL,
		parser.TokenPercentAssign: REMAINDER_EQUAL,
		parser.TokenAndAssign:     AND_EQUAL,
		parser.TokenOrAssign:      OR_EQUAL,
		parser.TokenXorAssign:     XOR_EQUAL,
		parser.TokenShlAssign:     LEFT_SHIFT_EQUAL,
		parser.TokenShrAssign:     RIGHT_SHIFT_EQUAL,
		parser.TokenUShrAssign:    UNSIGNED_RIGHT_SHIFT_EQUAL,
	},
	skip: []parser.TokenKind{
		parser.TokenBeginLambda,
		parser.TokenBeginTypeArguments,
		parser.TokenBeginCaseElement,
		parser.TokenNotAToken,
	},
	remap: map[parser.TokenKind]Kind{
		parser.TokenAt308:         AT,
		parser.TokenAt308Ellipsis: AT,
	},
	moduleOnly: []parser.TokenKind{
		parser.TokenModule,
		parser.TokenOpen,
		parser.TokenRequires,
		parser.TokenExports,
		parser.TokenOpens,
		parser.TokenUses,
		parser.TokenProvides,
		parser.TokenTo,
		parser.TokenWith,
		parser.TokenTransitive,
	},
}

// table is the validated, immutable form of a classification, indexed by
// internal kind.
type table []Class

// build checks c against the internal vocabulary kinds and returns the
// table. Every kind must be classified exactly once and every surfaced kind
// must be a valid public kind.
func build(kinds []parser.TokenKind, c classification) (table, error) {
	size := 0
	for _, k := range kinds {
		size = max(size, int(k)+1)
	}
	t := make(table, size)
	var problems []string
	set := func(k parser.TokenKind, cl Class) {
		if int(k) < 0 || int(k) >= size {
			problems = append(problems, fmt.Sprintf("%v is not an internal kind", k))
			return
		}
		if prev := t[k]; prev.Policy != Unclassified {
			problems = append(problems, fmt.Sprintf("%v is classified as both %v and %v", k, prev.Policy, cl.Policy))
			return
		}
		if cl.Policy != Skip && !cl.Kind.Valid() {
			problems = append(problems, fmt.Sprintf("%v maps to invalid public kind %v", k, cl.Kind))
		}
		t[k] = cl
	}
	for k, pk := range c.direct {
		set(k, Class{Policy: Direct, Kind: pk})
	}
	for _, k := range c.skip {
		set(k, Class{Policy: Skip})
	}
	for k, pk := range c.remap {
		set(k, Class{Policy: Remap, Kind: pk})
	}
	for _, k := range c.moduleOnly {
		set(k, Class{Policy: ModuleOnly, Kind: IDENTIFIER})
	}
	for _, k := range kinds {
		if t[k].Policy == Unclassified {
			problems = append(problems, fmt.Sprintf("%v is unclassified", k))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, &options.ConfigurationError{
			Field:  "token classification",
			Reason: strings.Join(problems, "; "),
		}
	}
	return t, nil
}

var builtinTable = sync.OnceValues(func() (table, error) {
	return build(parser.TokenKinds(), builtin)
})

// Validate checks that the built-in classification covers every internal
// kind exactly once. A failure is an *options.ConfigurationError.
func Validate() error {
	_, err := builtinTable()
	return err
}

// Classify returns the classification of an internal kind. It panics if the
// built-in table is invalid; call Validate first where that must be
// reported instead.
func Classify(k parser.TokenKind) Class {
	t, err := builtinTable()
	if err != nil {
		panic(err)
	}
	if int(k) < 0 || int(k) >= len(t) {
		return Class{}
	}
	return t[k]
}

// Lookup returns the public kind for an identifier or keyword spelling.
// Module descriptor words are identifiers.
func Lookup(ident string) Kind {
	k := parser.LookupKeyword(ident, false)
	if ident == "non-sealed" {
		k = parser.TokenNonSealed
	}
	return Classify(k).Kind
}
