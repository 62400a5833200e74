// Package token is the public token vocabulary of the front end.
//
// The lexer in package parser works with a richer internal vocabulary: it
// inserts synthetic lookahead tokens, splits the type-annotation '@' into
// context-specific variants and knows the restricted keywords of module
// descriptors. Clients see none of that. A [Scanner] reads internal tokens
// from any [Source] and hands out [Token] values whose [Kind] is stable.
//
// Every internal kind is classified by exactly one policy:
//
//	Direct      mapped one to one onto a public kind
//	Skip        never surfaced; the scanner advances once more
//	Remap       a context variant surfaced as its canonical kind
//	ModuleOnly  a module descriptor word, surfaced as IDENTIFIER
//
// The classification is built once per process and checked for
// exhaustiveness the first time it is used; see [Validate].
package token

import "strconv"

// Kind is a public token kind. Values are stable across releases: new kinds
// are only ever appended.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	WHITESPACE
	COMMENT_LINE
	COMMENT_BLOCK

	IDENTIFIER
	INTEGER_LITERAL
	FLOATING_POINT_LITERAL
	CHARACTER_LITERAL
	STRING_LITERAL
	TEXT_BLOCK
	TRUE
	FALSE
	NULL

	keywordBeg
	ABSTRACT
	ASSERT
	BOOLEAN
	BREAK
	BYTE
	CASE
	CATCH
	CHAR
	CLASS
	CONST
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	ENUM
	EXTENDS
	FINAL
	FINALLY
	FLOAT
	FOR
	GOTO
	IF
	IMPLEMENTS
	IMPORT
	INSTANCEOF
	INT
	INTERFACE
	LONG
	NATIVE
	NEW
	PACKAGE
	PRIVATE
	PROTECTED
	PUBLIC
	RETURN
	SHORT
	STATIC
	STRICTFP
	SUPER
	SWITCH
	SYNCHRONIZED
	THIS
	THROW
	THROWS
	TRANSIENT
	TRY
	VOID
	VOLATILE
	WHILE

	// Restricted identifiers and contextual keywords.
	VAR
	YIELD
	RECORD
	SEALED
	NON_SEALED
	PERMITS
	WHEN
	keywordEnd

	operatorBeg
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMICOLON
	COMMA
	DOT
	ELLIPSIS
	AT
	COLON_COLON

	ASSIGN
	EQUAL_EQUAL
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND_AND
	OR_OR
	NOT
	AND
	OR
	XOR
	TWIDDLE
	LEFT_SHIFT
	RIGHT_SHIFT
	UNSIGNED_RIGHT_SHIFT
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	REMAINDER
	PLUS_PLUS
	MINUS_MINUS
	QUESTION
	COLON
	ARROW
	PLUS_EQUAL
	MINUS_EQUAL
	MULTIPLY_EQUAL
	DIVIDE_EQUAL
	REMAINDER_EQUAL
	AND_EQUAL
	OR_EQUAL
	XOR_EQUAL
	LEFT_SHIFT_EQUAL
	RIGHT_SHIFT_EQUAL
	UNSIGNED_RIGHT_SHIFT_EQUAL
	operatorEnd

	kindCount
)

var kindNames = [kindCount]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	WHITESPACE:    "WHITESPACE",
	COMMENT_LINE:  "COMMENT_LINE",
	COMMENT_BLOCK: "COMMENT_BLOCK",

	IDENTIFIER:             "IDENTIFIER",
	INTEGER_LITERAL:        "INTEGER_LITERAL",
	FLOATING_POINT_LITERAL: "FLOATING_POINT_LITERAL",
	CHARACTER_LITERAL:      "CHARACTER_LITERAL",
	STRING_LITERAL:         "STRING_LITERAL",
	TEXT_BLOCK:             "TEXT_BLOCK",
	TRUE:                   "true",
	FALSE:                  "false",
	NULL:                   "null",

	ABSTRACT:     "abstract",
	ASSERT:       "assert",
	BOOLEAN:      "boolean",
	BREAK:        "break",
	BYTE:         "byte",
	CASE:         "case",
	CATCH:        "catch",
	CHAR:         "char",
	CLASS:        "class",
	CONST:        "const",
	CONTINUE:     "continue",
	DEFAULT:      "default",
	DO:           "do",
	DOUBLE:       "double",
	ELSE:         "else",
	ENUM:         "enum",
	EXTENDS:      "extends",
	FINAL:        "final",
	FINALLY:      "finally",
	FLOAT:        "float",
	FOR:          "for",
	GOTO:         "goto",
	IF:           "if",
	IMPLEMENTS:   "implements",
	IMPORT:       "import",
	INSTANCEOF:   "instanceof",
	INT:          "int",
	INTERFACE:    "interface",
	LONG:         "long",
	NATIVE:       "native",
	NEW:          "new",
	PACKAGE:      "package",
	PRIVATE:      "private",
	PROTECTED:    "protected",
	PUBLIC:       "public",
	RETURN:       "return",
	SHORT:        "short",
	STATIC:       "static",
	STRICTFP:     "strictfp",
	SUPER:        "super",
	SWITCH:       "switch",
	SYNCHRONIZED: "synchronized",
	THIS:         "this",
	THROW:        "throw",
	THROWS:       "throws",
	TRANSIENT:    "transient",
	TRY:          "try",
	VOID:         "void",
	VOLATILE:     "volatile",
	WHILE:        "while",
	VAR:          "var",
	YIELD:        "yield",
	RECORD:       "record",
	SEALED:       "sealed",
	NON_SEALED:   "non-sealed",
	PERMITS:      "permits",
	WHEN:         "when",

	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LBRACKET:    "[",
	RBRACKET:    "]",
	SEMICOLON:   ";",
	COMMA:       ",",
	DOT:         ".",
	ELLIPSIS:    "...",
	AT:          "@",
	COLON_COLON: "::",

	ASSIGN:                     "=",
	EQUAL_EQUAL:                "==",
	NOT_EQUAL:                  "!=",
	LESS:                       "<",
	LESS_EQUAL:                 "<=",
	GREATER:                    ">",
	GREATER_EQUAL:              ">=",
	AND_AND:                    "&&",
	OR_OR:                      "||",
	NOT:                        "!",
	AND:                        "&",
	OR:                         "|",
	XOR:                        "^",
	TWIDDLE:                    "~",
	LEFT_SHIFT:                 "<<",
	RIGHT_SHIFT:                ">>",
	UNSIGNED_RIGHT_SHIFT:       ">>>",
	PLUS:                       "+",
	MINUS:                      "-",
	MULTIPLY:                   "*",
	DIVIDE:                     "/",
	REMAINDER:                  "%",
	PLUS_PLUS:                  "++",
	MINUS_MINUS:                "--",
	QUESTION:                   "?",
	COLON:                      ":",
	ARROW:                      "->",
	PLUS_EQUAL:                 "+=",
	MINUS_EQUAL:                "-=",
	MULTIPLY_EQUAL:             "*=",
	DIVIDE_EQUAL:               "/=",
	REMAINDER_EQUAL:            "%=",
	AND_EQUAL:                  "&=",
	OR_EQUAL:                   "|=",
	XOR_EQUAL:                  "^=",
	LEFT_SHIFT_EQUAL:           "<<=",
	RIGHT_SHIFT_EQUAL:          ">>=",
	UNSIGNED_RIGHT_SHIFT_EQUAL: ">>>=",
}

// String returns the source spelling of keywords and operators and the
// constant name of every other kind.
func (k Kind) String() string {
	if k >= 0 && k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k names a public kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount && kindNames[k] != ""
}

// IsKeyword reports whether k is a reserved or contextual keyword.
func (k Kind) IsKeyword() bool { return keywordBeg < k && k < keywordEnd }

// IsOperator reports whether k is an operator or separator.
func (k Kind) IsOperator() bool { return operatorBeg < k && k < operatorEnd }

// IsLiteral reports whether k is a literal, including true, false and null.
func (k Kind) IsLiteral() bool { return INTEGER_LITERAL <= k && k <= NULL }

// Kinds returns every public kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := ILLEGAL; k < kindCount; k++ {
		if k.Valid() {
			out = append(out, k)
		}
	}
	return out
}
