// Package parser provides an error-tolerant parser for Java source code.
//
// # Overview
//
// Source text is scanned into tokens, annotated with synthetic lookahead
// tokens, and parsed by recursive descent into a concrete syntax tree (CST).
// Lexical and syntax problems are sent to a [diag.Reporter] as they are
// found; the tree is always returned, with [KindError] nodes where input
// could not be parsed.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│  Lookahead  │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │ (synthetic) │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//	                           │                                       │
//	                           ▼                                       ▼
//	                    ┌─────────────┐                         ┌─────────────┐
//	                    │  Unicode    │                         │ diag        │
//	                    │  escapes    │                         │ Reporter    │
//	                    └─────────────┘                         └─────────────┘
//
// # Source Level
//
// The lexer and parser follow [options.Options]. The source level decides
// which Unicode version identifiers are checked against, whether assert and
// enum are keywords, and whether generics, diamonds and lambdas are accepted.
// The contextual words var and _ depend on it too:
//
//	var as a type name           warning below 10, error from 10
//	var in a non-local position  VarIsNotAllowedHere from 10
//	_ as an identifier           warning at 1.8, error from 9
//	_ as a declared name         UnnamedVariable with preview at the latest level
//
// Problems that need type information, such as 'var' without an
// initializer, are left to the checker.
//
// # Lookahead Tokens
//
// [InsertLookahead] adds tokens that never appear in source:
//
//	TokenBeginLambda          before "x ->" and "( ... ) ->"
//	TokenBeginTypeArguments   before '<' following '.' or '::'
//	TokenBeginCaseElement     after 'case' when a pattern follows
//	TokenAt308                '@' starting a type annotation
//	TokenAt308Ellipsis        '@' annotating a varargs ellipsis
//
// # Error Recovery
//
// The parser never panics on malformed input. A missing token is reported
// as an insertion after the previous token, naming the construct being
// parsed:
//
//	Syntax error, insert ";" to complete BlockStatements
//
// An unexpected token is reported as a deletion and skipped. Only the first
// error at a token position is reported, so recovery does not cascade.
// Speculative parses (casts, local declarations, generic special forms)
// report nothing and restore any '>>' tokens they split.
//
// # Node Shapes
//
// Every node is a [Node] with a kind, a span and children. The shapes the
// checker relies on:
//
//	ClassDecl        Modifiers Identifier TypeParameters? ExtendsClause?
//	                 ImplementsClause? PermitsClause? ClassBody
//	EnumDecl         Modifiers Identifier ImplementsClause? ClassBody
//	RecordDecl       Modifiers Identifier TypeParameters? Parameters
//	                 ImplementsClause? ClassBody
//	FieldDecl        Modifiers Type VarDeclarator+
//	LocalVarDecl     Modifiers Type VarDeclarator+
//	VarDeclarator    (Identifier | UnnamedVariable) Dims? initializer?
//	MethodDecl       Modifiers TypeParameters? Type Identifier Parameters
//	                 Dims? ThrowsList? (Block | default value)?
//	Type             Annotation* (Identifier | QualifiedName TypeArguments?)+
//	ArrayType        Annotation* Type
//	TypeArguments    empty for the diamond
//	CallExpr         target Arguments
//	NewExpr          outer? TypeArguments? Type Arguments ClassBody?
//	NewArrayExpr     Type Annotation* Expression* Dims? ArrayInit?
//	CastExpr         (Type | IntersectionType) operand
//	InstanceofExpr   expr Type Identifier? | expr RecordPattern
//	LambdaExpr       Parameters (Block | Expression)
//	CatchClause      Modifiers (Type | UnionType) Identifier Block
//
// # Entry Points
//
//	// ParseCompilationUnit parses a complete .java source file.
//	func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser
//
//	// ParseExpression parses a standalone expression.
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//
// Both return a parser; [Parser.Finish] runs it and returns the root.
// [Parser.IsComplete] tells whether the input ends before the grammar does,
// which the language server uses for partial documents.
//
// # Thread Safety
//
// A Parser instance is not safe for concurrent use. Create separate
// instances for concurrent parsing of different files.
//
// # Example Usage
//
//	bag := diag.NewBag(diag.DefaultPolicy{})
//	p := parser.ParseCompilationUnit(strings.NewReader(src),
//		parser.WithFile("Main.java"),
//		parser.WithOptions(options.Options{Source: options.JDK8}),
//		parser.WithReporter(bag),
//	)
//	tree := p.Finish()
package parser
