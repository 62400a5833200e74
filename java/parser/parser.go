package parser

import (
	"io"
	"slices"
	"strings"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/options"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

// WithOptions sets the language level and preview switches.
func WithOptions(opts options.Options) Option {
	return func(p *Parser) {
		p.opts = opts.Normalize()
	}
}

// WithReporter sends lexical and syntax errors to r.
func WithReporter(r diag.Reporter) Option {
	return func(p *Parser) {
		p.reporter = r
	}
}

type parseFunc func(*Parser) *Node

type undoEntry struct {
	pos int
	tok Token
}

// mark is a saved parser position for speculative parsing.
type mark struct {
	pos  int
	undo int
}

type Parser struct {
	file             string
	includeComments  bool
	includePositions bool
	opts             options.Options
	reporter         diag.Reporter
	reader           io.Reader
	input            []byte
	lexer            *Lexer
	tokens           []Token
	comments         []Token
	pos              int
	entry            parseFunc
	expression       bool
	incomplete       bool

	// quiet is non-zero while parsing speculatively; no errors are reported
	// and token splits are logged in undo.
	quiet     int
	undo      []undoEntry
	lastError int
	context   []string
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Tokens returns the significant tokens of the last parse, including
// synthetic lookahead tokens.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		reader:   r,
		entry:    entry,
		opts:     options.Default(),
		reporter: diag.Nop,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseCompilationUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	p := newParser(r, (*Parser).parseExpression, opts)
	p.expression = true
	return p
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// IsComplete reports whether the input parses without running into the end
// of input. For example, "1 + " returns false because the expression is
// incomplete. Nothing is reported.
func (p *Parser) IsComplete() bool {
	if err := p.readAll(); err != nil {
		return false
	}
	if len(p.input) == 0 {
		return false
	}
	saved := p.reporter
	p.reporter = diag.Nop
	p.run()
	p.reporter = saved
	complete := !p.incomplete
	p.lexer = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.incomplete = false
	return complete
}

// Finish parses the whole input and returns the root node. Lexical and
// syntax errors go to the reporter and appear as KindError nodes; the tree
// is always returned. Finish returns nil only when the input cannot be read
// or an expression parser was given empty input.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	if len(p.input) == 0 && p.expression {
		return nil
	}
	return p.run()
}

func (p *Parser) run() *Node {
	p.lexer = NewLexer(p.input, p.file, LexLevel(p.opts.Source), LexReporter(p.reporter))
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.incomplete = false
	p.quiet = 0
	p.undo = nil
	p.lastError = -1
	p.context = nil
	p.tokenize()
	return p.entry(p)
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.lexer = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.incomplete = false
}

func (p *Parser) tokenize() {
	var toks []Token
	for {
		tok := p.lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		case TokenError:
			// Already reported by the lexer.
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	p.tokens = InsertLookahead(toks)
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) eof() Token {
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return Token{Kind: TokenEOF}
}

func (p *Parser) previous() Token {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1]
	}
	return p.peek()
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// skip consumes a synthetic token of the given kind if present.
func (p *Parser) skip(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	p.missing(kind.String())
	return nil
}

func (p *Parser) expectIdentifier() *Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	p.missing("Identifier")
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

// checkAt reports whether an annotation starts here.
func (p *Parser) checkAt() bool {
	switch p.peek().Kind {
	case TokenAt, TokenAt308, TokenAt308Ellipsis:
		return p.peekN(1).Kind != TokenInterface
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.deleteToken()
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	return identifierLike(p.peek().Kind)
}

func (p *Parser) mark() mark {
	p.quiet++
	return mark{pos: p.pos, undo: len(p.undo)}
}

// reset rewinds to m, restoring any tokens split since.
func (p *Parser) reset(m mark) {
	for len(p.undo) > m.undo {
		u := p.undo[len(p.undo)-1]
		p.tokens[u.pos] = u.tok
		p.undo = p.undo[:len(p.undo)-1]
	}
	p.pos = m.pos
	p.quiet--
}

// commit keeps everything consumed since m.
func (p *Parser) commit(m mark) {
	p.quiet--
	if p.quiet == 0 {
		p.undo = p.undo[:0]
	}
}

// push names the construct being parsed for "to complete" messages and
// returns the matching pop.
func (p *Parser) push(ctx string) func() {
	p.context = append(p.context, ctx)
	return func() {
		p.context = p.context[:len(p.context)-1]
	}
}

func (p *Parser) currentContext() string {
	if len(p.context) == 0 {
		return "CompilationUnit"
	}
	return p.context[len(p.context)-1]
}

func (p *Parser) report(problem diag.Problem, span Span, args ...any) {
	if p.quiet > 0 {
		return
	}
	p.reporter.Report(diag.Diagnostic{
		Problem: problem,
		Message: problem.Message(args...),
		File:    p.file,
		Start:   span.Start.Offset,
		End:     span.End.Offset,
	})
}

// syntaxError reports once per token position so that recovery does not
// cascade.
func (p *Parser) syntaxError(problem diag.Problem, span Span, args ...any) {
	if p.quiet > 0 || p.pos == p.lastError {
		return
	}
	p.lastError = p.pos
	p.report(problem, span, args...)
}

// missing reports that text should be inserted after the previous token.
func (p *Parser) missing(text string) {
	if p.check(TokenEOF) {
		p.incomplete = true
	}
	prev := p.previous()
	p.syntaxError(diag.ParsingErrorInsertToComplete, prev.Span, text, p.currentContext())
}

// deleteToken reports the current token as superfluous.
func (p *Parser) deleteToken() {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.incomplete = true
		p.syntaxError(diag.ParsingErrorUnexpectedEOF, p.previous().Span, "}", p.currentContext())
		return
	}
	if tok.Kind.IsSynthetic() && tok.Kind != TokenAt308 && tok.Kind != TokenAt308Ellipsis {
		return
	}
	p.syntaxError(diag.ParsingErrorDeleteToken, tok.Span, tok.Literal)
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func tokenNode(kind NodeKind, tok *Token) *Node {
	return &Node{Kind: kind, Token: tok, Span: tok.Span}
}

// expectedAfter reports that what, such as an expression, must follow the
// previous token. The current token is left for the enclosing construct.
func (p *Parser) expectedAfter(what string) *Node {
	tok := p.peek()
	prev := p.previous()
	p.syntaxError(diag.ParsingErrorInsertTokenAfter, prev.Span, prev.Literal, what)
	return &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{
			Message: "expected " + strings.ToLower(what),
			Got:     &tok,
		},
	}
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	p.deleteToken()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo, tok.Span.Start.Line)
	if p.quiet == 0 {
		// The token recovery stopped at is part of the same error.
		p.lastError = p.pos
	}
	return node
}

// recoverTo skips the offending token and then everything up to one of
// kinds. Inside a block it also stops at what starts a statement on a line
// after line, so later independent errors are still found.
func (p *Parser) recoverTo(kinds []TokenKind, line int) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	inBlock := slices.Contains(p.context, "BlockStatements")
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		if inBlock && p.peek().Span.Start.Line > line && p.atStatementStart() {
			return
		}
		p.advance()
	}
}

// atStatementStart reports whether the current token begins a statement:
// a statement keyword, or a name or primitive type followed by a name, an
// argument list or an assignment.
func (p *Parser) atStatementStart() bool {
	switch p.peek().Kind {
	case TokenIf, TokenFor, TokenWhile, TokenDo, TokenReturn, TokenThrow, TokenTry,
		TokenBreak, TokenContinue:
		return true
	case TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble:
		return identifierLike(p.peekN(1).Kind)
	}
	if !p.isIdentifierLike() {
		return false
	}
	switch next := p.peekN(1).Kind; {
	case next == TokenLParen, next == TokenAssign:
		return true
	default:
		return identifierLike(next)
	}
}

func (p *Parser) atLeast(l options.Level) bool {
	return p.opts.AtLeast(l)
}

// checkTypeName reports 'var' used as the name of a declared type.
func (p *Parser) checkTypeName(tok *Token) {
	if tok == nil || tok.Kind != TokenVar {
		return
	}
	if p.opts.VarIsReserved() {
		p.report(diag.VarIsReserved, tok.Span)
	} else {
		p.report(diag.VarIsReservedInFuture, tok.Span)
	}
}

// checkUnderscore reports '_' used as an identifier. Declarations may use it
// as an unnamed variable when the preview feature is enabled.
func (p *Parser) checkUnderscore(tok *Token, declaration bool) {
	if tok == nil || tok.Literal != "_" {
		return
	}
	switch {
	case !p.atLeast(options.JDK1_8):
	case !p.opts.UnderscoreIsKeyword():
		p.report(diag.UnderscoreIsReservedInFuture, tok.Span)
	case declaration && p.opts.UnnamedVariables():
	default:
		p.report(diag.UnderscoreIsKeyword, tok.Span)
	}
}

func (p *Parser) parseCompilationUnit() *Node {
	defer p.push("CompilationUnit")()
	node := p.startNode(KindCompilationUnit)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) {
		node.AddChild(p.parseImportDecl())
	}

	if p.isModularCompilationUnit() {
		node.AddChild(p.parseModuleDecl())
	} else if p.isCompactCompilationUnit() {
		for !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseClassMember())
			if !progress() {
				break
			}
		}
	} else {
		for !p.check(TokenEOF) {
			// Skip stray semicolons at top level (empty declarations)
			if p.check(TokenSemicolon) {
				p.advance()
				continue
			}
			node.AddChild(p.parseTypeDecl())
		}
	}

	return p.finishNode(node)
}

// isCompactCompilationUnit reports top-level members outside a class, a
// preview feature of the latest level.
func (p *Parser) isCompactCompilationUnit() bool {
	if p.check(TokenEOF) || !p.opts.EnablePreview || p.opts.Source != options.Latest {
		return false
	}

	m := p.mark()
	defer p.reset(m)

	for p.checkAt() {
		p.parseAnnotation()
	}

	for p.match(TokenPublic, TokenProtected, TokenPrivate,
		TokenAbstract, TokenStatic, TokenFinal,
		TokenStrictfp, TokenNative, TokenSynchronized,
		TokenTransient, TokenVolatile, TokenDefault,
		TokenSealed, TokenNonSealed) {
		p.advance()
	}

	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum, TokenRecord:
		return false
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return false
		}
	}
	return true
}

func (p *Parser) isModularCompilationUnit() bool {
	if p.check(TokenEOF) {
		return false
	}

	m := p.mark()
	defer p.reset(m)

	for p.checkAt() {
		p.parseAnnotation()
	}

	if p.check(TokenOpen) {
		p.advance()
	}

	return p.check(TokenModule)
}

func (p *Parser) parseModuleDecl() *Node {
	defer p.push("ModuleDeclaration")()
	node := p.startNode(KindModuleDecl)

	for p.checkAt() {
		node.AddChild(p.parseAnnotation())
	}

	if p.check(TokenOpen) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	}

	p.expect(TokenModule)
	node.AddChild(p.parseQualifiedName())

	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseModuleDirective())
	}
	p.expect(TokenRBrace)

	return p.finishNode(node)
}

func (p *Parser) parseModuleDirective() *Node {
	switch {
	case p.check(TokenRequires):
		return p.parseRequiresDirective()
	case p.check(TokenExports), p.check(TokenOpens):
		return p.parseExportsOrOpensDirective()
	case p.check(TokenUses):
		return p.parseUsesDirective()
	case p.check(TokenProvides):
		return p.parseProvidesDirective()
	default:
		return p.errorNode("expected module directive", []TokenKind{
			TokenRequires, TokenExports, TokenOpens, TokenUses, TokenProvides, TokenRBrace,
		})
	}
}

func (p *Parser) parseRequiresDirective() *Node {
	node := p.startNode(KindRequiresDirective)
	p.expect(TokenRequires)

	for p.check(TokenTransitive) || p.check(TokenStatic) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	}

	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseExportsOrOpensDirective() *Node {
	node := p.startNode(KindExportsDirective)
	if p.advance().Kind == TokenOpens {
		node.Kind = KindOpensDirective
	}

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenTo) {
		p.advance()
		node.AddChild(p.parseQualifiedName())
		for p.check(TokenComma) {
			p.advance()
			node.AddChild(p.parseQualifiedName())
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseUsesDirective() *Node {
	node := p.startNode(KindUsesDirective)
	p.expect(TokenUses)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseProvidesDirective() *Node {
	node := p.startNode(KindProvidesDirective)
	p.expect(TokenProvides)
	node.AddChild(p.parseQualifiedName())

	p.expect(TokenWith)
	node.AddChild(p.parseQualifiedName())
	for p.check(TokenComma) {
		p.advance()
		node.AddChild(p.parseQualifiedName())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.checkAt() {
		return false
	}
	m := p.mark()
	defer p.reset(m)
	for p.checkAt() {
		p.parseAnnotation()
	}
	return p.check(TokenPackage)
}

func (p *Parser) parsePackageDecl() *Node {
	defer p.push("PackageDeclaration")()
	node := p.startNode(KindPackageDecl)

	for p.checkAt() {
		node.AddChild(p.parseAnnotation())
	}

	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	defer p.push("ImportDeclaration")()
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if (p.check(TokenModule) || (p.check(TokenIdent) && p.peek().Literal == "module")) && identifierLike(p.peekN(1).Kind) {
		node.Kind = KindModuleImportDecl
		p.advance()
		node.AddChild(p.parseQualifiedName())
		p.expect(TokenSemicolon)
		return p.finishNode(node)
	}

	if p.check(TokenStatic) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	}

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenDot) {
		p.advance()
		if tok := p.expect(TokenStar); tok != nil {
			node.AddChild(tokenNode(KindIdentifier, tok))
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	} else {
		return p.errorNode("expected identifier", nil)
	}

	for p.check(TokenDot) && identifierLike(p.peekN(1).Kind) {
		p.advance()
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	}

	return p.finishNode(node)
}

var typeDeclRecovery = []TokenKind{
	TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
	TokenClass, TokenInterface, TokenEnum, TokenRecord,
}

func (p *Parser) parseTypeDecl() *Node {
	modifiers := p.parseModifiers()

	if decl := p.parseTypeDeclRest(modifiers); decl != nil {
		return decl
	}

	if len(modifiers.Children) > 0 {
		return p.errorNode("expected class, interface, enum, record, or @interface", typeDeclRecovery)
	}

	return p.errorNode("expected type declaration", typeDeclRecovery)
}

// parseTypeDeclRest parses a type declaration after its modifiers, or
// returns nil when none starts here.
func (p *Parser) parseTypeDeclRest(modifiers *Node) *Node {
	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenRecord:
		if identifierLike(p.peekN(1).Kind) {
			return p.parseRecordDecl(modifiers)
		}
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}
	return nil
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		switch p.peek().Kind {
		case TokenAt, TokenAt308, TokenAt308Ellipsis:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault,
			TokenNonSealed:
			tok := p.advance()
			node.AddChild(tokenNode(KindIdentifier, &tok))
		case TokenSealed:
			if !p.startsDeclarationAfter(1) {
				return p.finishNode(node)
			}
			tok := p.advance()
			node.AddChild(tokenNode(KindIdentifier, &tok))
		default:
			return p.finishNode(node)
		}
	}
}

// startsDeclarationAfter reports whether the token n ahead continues a
// modifier list, which tells the contextual modifier 'sealed' apart from an
// identifier.
func (p *Parser) startsDeclarationAfter(n int) bool {
	switch p.peekN(n).Kind {
	case TokenClass, TokenInterface, TokenAt, TokenPublic, TokenProtected,
		TokenPrivate, TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
		TokenNonSealed, TokenSealed:
		return true
	}
	return false
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.advance() // '@' in any of its forms
	node.AddChild(p.parseQualifiedName())

	if p.check(TokenLParen) {
		p.advance()
		if !p.check(TokenRParen) {
			if p.peekN(1).Kind == TokenAssign {
				for {
					progress := p.mustProgress()
					node.AddChild(p.parseAnnotationElement())
					if !p.check(TokenComma) {
						break
					}
					p.advance()
					if !progress() {
						break
					}
				}
			} else {
				node.AddChild(p.parseAnnotationValue())
			}
		}
		p.expect(TokenRParen)
	}

	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}
	p.expect(TokenAssign)
	node.AddChild(p.parseAnnotationValue())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationValue() *Node {
	if p.checkAt() {
		return p.parseAnnotation()
	}
	if p.check(TokenLBrace) {
		defer p.push("ArrayInitializer")()
		node := p.startNode(KindArrayInit)
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseAnnotationValue())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
		p.expect(TokenRBrace)
		return p.finishNode(node)
	}
	return p.parseTernaryExpr()
}

// parseTypeName parses the name of a declared type.
func (p *Parser) parseTypeName(node *Node) {
	if tok := p.expectIdentifier(); tok != nil {
		p.checkTypeName(tok)
		node.AddChild(tokenNode(KindIdentifier, tok))
	}
}

// parseTypeList parses "Type {, Type}" into a clause node.
func (p *Parser) parseTypeList(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNode(KindClassDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}

	p.expect(TokenClass)
	p.parseTypeName(node)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	if p.check(TokenExtends) {
		clause := p.startNode(KindExtendsClause)
		p.advance()
		clause.AddChild(p.parseType())
		node.AddChild(p.finishNode(clause))
	}

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeList(KindImplementsClause))
	}

	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeList(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNode(KindInterfaceDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}

	p.expect(TokenInterface)
	p.parseTypeName(node)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeList(KindExtendsClause))
	}

	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeList(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNode(KindEnumDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}

	p.expect(TokenEnum)
	p.parseTypeName(node)

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeList(KindImplementsClause))
	}

	defer p.push("EnumBody")()
	body := p.startNode(KindClassBody)
	p.expect(TokenLBrace)

	for p.isIdentifierLike() || p.checkAt() {
		progress := p.mustProgress()
		body.AddChild(p.parseEnumConstant())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if p.check(TokenSemicolon) {
		p.advance()
		p.parseClassMembers(body)
	}

	p.expect(TokenRBrace)
	node.AddChild(p.finishNode(body))
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)

	for p.checkAt() {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}

	if p.check(TokenLParen) {
		node.AddChild(p.parseArguments())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parseRecordDecl(modifiers *Node) *Node {
	node := p.startNode(KindRecordDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}

	p.expect(TokenRecord)
	p.parseTypeName(node)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeList(KindImplementsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startNode(KindAnnotationDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}

	p.expect(TokenAt)
	p.expect(TokenInterface)
	p.parseTypeName(node)

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	if !p.atLeast(options.GenericsLevel) {
		p.report(diag.GenericsBelow15, p.peek().Span)
	}
	p.expect(TokenLT)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeParameter())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if !p.expectGT() {
		p.missing(">")
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameter() *Node {
	node := p.startNode(KindTypeParameter)

	for p.checkAt() {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		if tok.Kind == TokenVar {
			if p.opts.VarIsReserved() {
				p.report(diag.VarIsNotAllowedHere, tok.Span)
			} else {
				p.report(diag.VarIsReservedInFuture, tok.Span)
			}
		}
		p.checkUnderscore(tok, false)
		node.AddChild(tokenNode(KindIdentifier, tok))
	}

	if p.check(TokenExtends) {
		p.advance()
		for {
			node.AddChild(p.parseType())
			if !p.check(TokenBitAnd) {
				break
			}
			p.advance()
		}
	}

	return p.finishNode(node)
}

func isPrimitive(kind TokenKind) bool {
	switch kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

// parseType parses a type in a position where 'var' is not a type. Local
// declarations handle 'var' before calling it.
func (p *Parser) parseType() *Node {
	if p.check(TokenVar) && p.opts.VarIsReserved() {
		p.report(diag.VarIsNotAllowedHere, p.peek().Span)
	}
	return p.parseTypeAllowVar()
}

func (p *Parser) parseTypeAllowVar() *Node {
	defer p.push("ReferenceType")()
	node := p.parseElementType()
	if node.IsError() {
		return node
	}
	return p.parseArrayDims(node)
}

// parseElementType parses a type without trailing array dimensions.
func (p *Parser) parseElementType() *Node {
	node := p.startNode(KindType)

	for p.checkAt() {
		node.AddChild(p.parseAnnotation())
	}

	switch kind := p.peek().Kind; {
	case isPrimitive(kind) || kind == TokenVoid:
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	case identifierLike(kind):
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		// Outer<T>.Inner, Outer<T>.@A Inner<U>
		for p.check(TokenDot) && (identifierLike(p.peekN(1).Kind) || p.peekN(1).Kind == TokenAt308) {
			p.advance()
			for p.checkAt() {
				node.AddChild(p.parseAnnotation())
			}
			node.AddChild(p.parseQualifiedName())
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	default:
		return p.errorNode("expected type", []TokenKind{TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace})
	}

	return p.finishNode(node)
}

// parseArrayDims wraps typ in one ArrayType per "[]", each with the
// annotations written before its brackets.
func (p *Parser) parseArrayDims(typ *Node) *Node {
	for p.check(TokenAt308) || (p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket) {
		m := p.mark()
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: typ.Span.Start}}
		for p.checkAt() {
			wrapper.AddChild(p.parseAnnotation())
		}
		if !p.check(TokenLBracket) || p.peekN(1).Kind != TokenRBracket {
			p.reset(m)
			break
		}
		p.commit(m)
		p.advance()
		p.advance()
		wrapper.AddChild(typ)
		typ = p.finishNode(wrapper)
	}
	return typ
}

// parseTypeArguments parses "<...>". An empty list is the diamond.
func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	lt := p.peek()
	p.expect(TokenLT)

	if p.check(TokenGT) {
		p.advance()
		switch {
		case !p.atLeast(options.GenericsLevel):
			p.report(diag.GenericsBelow15, lt.Span)
		case !p.atLeast(options.DiamondLevel):
			p.report(diag.DiamondBelow17, Span{Start: lt.Span.Start, End: p.previous().Span.End})
		}
		return p.finishNode(node)
	}
	if !p.atLeast(options.GenericsLevel) {
		p.report(diag.GenericsBelow15, lt.Span)
	}

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeArgument())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if !p.expectGT() {
		p.missing(">")
	}
	return p.finishNode(node)
}

func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		p.splitToken(TokenGT)
		return true
	case TokenUShr:
		p.splitToken(TokenShr)
		return true
	case TokenGE:
		p.splitToken(TokenAssign)
		return true
	case TokenShrAssign:
		p.splitToken(TokenGE)
		return true
	case TokenUShrAssign:
		p.splitToken(TokenShrAssign)
		return true
	}
	return false
}

// splitToken consumes the leading '>' of the current token, leaving the
// remainder in its place.
func (p *Parser) splitToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	if p.quiet > 0 {
		p.undo = append(p.undo, undoEntry{pos: p.pos, tok: tok})
	}
	p.tokens[p.pos] = Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span: Span{
			Start: Position{
				File:   tok.Span.Start.File,
				Offset: tok.Span.Start.Offset + 1,
				Line:   tok.Span.Start.Line,
				Column: tok.Span.Start.Column + 1,
			},
			End: tok.Span.End,
		},
	}
}

func (p *Parser) parseTypeArgument() *Node {
	if p.checkAt() {
		// Annotated wildcard: @A ?
		m := p.mark()
		for p.checkAt() {
			p.parseAnnotation()
		}
		wildcard := p.check(TokenQuestion)
		p.reset(m)
		if wildcard {
			node := p.startNode(KindWildcard)
			for p.checkAt() {
				node.AddChild(p.parseAnnotation())
			}
			return p.parseWildcardRest(node)
		}
	}
	if p.check(TokenQuestion) {
		return p.parseWildcardRest(p.startNode(KindWildcard))
	}
	return p.parseType()
}

func (p *Parser) parseWildcardRest(node *Node) *Node {
	p.expect(TokenQuestion)

	if p.check(TokenExtends) || p.check(TokenSuper) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		node.AddChild(p.parseType())
	}

	return p.finishNode(node)
}

func (p *Parser) parseClassBody() *Node {
	defer p.push("ClassBody")()
	node := p.startNode(KindClassBody)
	p.expect(TokenLBrace)
	p.parseClassMembers(node)
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseClassMembers(node *Node) {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseClassMember())
		if !progress() {
			break
		}
	}
}

var memberRecovery = []TokenKind{
	TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenAbstract, TokenStatic, TokenFinal, TokenNative,
	TokenSynchronized, TokenTransient, TokenVolatile,
	TokenStrictfp, TokenDefault, TokenSealed, TokenNonSealed,
	TokenClass, TokenInterface, TokenEnum, TokenRecord,
	TokenIdent, TokenVoid, TokenBoolean, TokenByte,
	TokenChar, TokenShort, TokenInt, TokenLong,
	TokenFloat, TokenDouble, TokenLT, TokenRBrace,
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenLBrace) {
		node := p.startNode(KindInitializer)
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	if p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace {
		node := p.startNode(KindInitializer)
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	if p.check(TokenSemicolon) {
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()

	if decl := p.parseTypeDeclRest(modifiers); decl != nil {
		return decl
	}

	if p.check(TokenLT) {
		typeParams := p.parseTypeParameters()
		return p.parseMethodOrConstructor(modifiers, typeParams)
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, nil)
	}

	// Compact constructor for records: public ClassName { ... }
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		return p.parseCompactConstructor(modifiers)
	}

	if !p.isIdentifierLike() && !isPrimitive(p.peek().Kind) && !p.check(TokenVoid) && !p.checkAt() {
		return p.errorNode("expected member declaration", memberRecovery)
	}

	typ := p.parseType()

	if p.isIdentifierLike() {
		if p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, nil, typ)
		}
		return p.parseField(modifiers, typ)
	}

	p.missing("VariableDeclarators")
	return p.errorNode("expected member declaration", memberRecovery)
}

func (p *Parser) parseMethodOrConstructor(modifiers *Node, typeParams *Node) *Node {
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}

	typ := p.parseType()
	return p.parseMethod(modifiers, typeParams, typ)
}

func (p *Parser) parseConstructor(modifiers *Node, typeParams *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}
	if typeParams != nil {
		node.AddChild(typeParams)
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	node.AddChild(p.parseConstructorBody())
	return p.finishNode(node)
}

// parseCompactConstructor parses a record constructor without a parameter
// list: public ClassName { ... }
func (p *Parser) parseCompactConstructor(modifiers *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}

	node.AddChild(p.finishNode(p.startNode(KindParameters)))
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseConstructorBody() *Node {
	defer p.push("ConstructorBody")()
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	if p.isExplicitConstructorInvocation() {
		node.AddChild(p.parseExplicitConstructorInvocation())
	}

	p.parseBlockStatements(node)

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) isExplicitConstructorInvocation() bool {
	m := p.mark()
	defer p.reset(m)

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	if p.check(TokenThis) || p.check(TokenSuper) {
		p.advance()
		if p.check(TokenLParen) {
			return true
		}
	}

	p.pos = m.pos
	return p.isQualifiedSuperInvocation()
}

// isQualifiedSuperInvocation checks for outer.super(...),
// outer.<T>super(...) and (expr).super(...).
func (p *Parser) isQualifiedSuperInvocation() bool {
	if p.isIdentifierLike() {
		for p.isIdentifierLike() {
			p.advance()
			if !p.check(TokenDot) {
				return false
			}
			p.advance()
		}
	} else if p.check(TokenLParen) {
		p.advance()
		depth := 1
		for depth > 0 && !p.check(TokenEOF) {
			if p.check(TokenLParen) {
				depth++
			} else if p.check(TokenRParen) {
				depth--
			}
			p.advance()
		}
		if !p.check(TokenDot) {
			return false
		}
		p.advance()
	} else {
		return false
	}

	p.skip(TokenBeginTypeArguments)
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	return p.check(TokenSuper) && p.peekN(1).Kind == TokenLParen
}

func (p *Parser) parseExplicitConstructorInvocation() *Node {
	node := p.startNode(KindExplicitConstructorInvocation)

	if !p.check(TokenLT) && !p.check(TokenThis) && !p.check(TokenSuper) {
		node.AddChild(p.parseQualifiedSuperQualifier())
		p.skip(TokenBeginTypeArguments)
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		if p.check(TokenSuper) {
			tok := p.advance()
			node.AddChild(tokenNode(KindSuper, &tok))
		}
	} else {
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		if p.check(TokenThis) {
			tok := p.advance()
			node.AddChild(tokenNode(KindThis, &tok))
		} else if p.check(TokenSuper) {
			tok := p.advance()
			node.AddChild(tokenNode(KindSuper, &tok))
		}
	}

	node.AddChild(p.parseArguments())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

// parseQualifiedSuperQualifier parses the expression before ".super(" and
// the dot itself.
func (p *Parser) parseQualifiedSuperQualifier() *Node {
	if p.check(TokenLParen) {
		expr := p.parseParenExpr()
		p.expect(TokenDot)
		return expr
	}
	tok := p.advance()
	node := tokenNode(KindIdentifier, &tok)
	for p.check(TokenDot) {
		p.advance()
		if !p.isIdentifierLike() {
			break
		}
		next := p.advance()
		access := &Node{Kind: KindFieldAccess, Span: Span{Start: node.Span.Start}}
		access.AddChild(node)
		access.AddChild(tokenNode(KindIdentifier, &next))
		node = p.finishNode(access)
	}
	return node
}

func (p *Parser) parseMethod(modifiers *Node, typeParams *Node, returnType *Node) *Node {
	node := p.startNode(KindMethodDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}
	if typeParams != nil {
		node.AddChild(typeParams)
	}
	if returnType != nil {
		node.AddChild(returnType)
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}

	node.AddChild(p.parseParameters())

	if dims := p.parseDims(); dims != nil {
		node.AddChild(dims)
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	if p.check(TokenLBrace) {
		defer p.push("MethodBody")()
		node.AddChild(p.parseBlock())
	} else if p.check(TokenDefault) {
		p.advance()
		node.AddChild(p.parseAnnotationValue())
		p.expect(TokenSemicolon)
	} else {
		defer p.push("MethodDeclaration")()
		p.expect(TokenSemicolon)
	}

	return p.finishNode(node)
}

// parseDims parses trailing "[]" pairs after a declarator name.
func (p *Parser) parseDims() *Node {
	if !p.check(TokenLBracket) {
		return nil
	}
	node := p.startNode(KindDims)
	for p.check(TokenLBracket) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		p.expect(TokenRBracket)
	}
	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers *Node, typ *Node) *Node {
	defer p.push("FieldDeclaration")()
	node := p.startNode(KindFieldDecl)
	if modifiers != nil {
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
	}
	if typ != nil {
		node.AddChild(typ)
	}

	p.parseVarDeclarators(node)

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseVarDeclarators parses "name [dims] [= init] {, ...}" into
// VarDeclarator children of node.
func (p *Parser) parseVarDeclarators(node *Node) {
	for {
		progress := p.mustProgress()
		decl := p.startNode(KindVarDeclarator)
		if id := p.parseVariableDeclaratorId(); id != nil {
			decl.AddChild(id)
		} else {
			p.missing("VariableDeclaratorId")
		}
		if dims := p.parseDims(); dims != nil {
			decl.AddChild(dims)
		}
		if p.check(TokenAssign) {
			p.advance()
			decl.AddChild(p.parseVarInitializer())
		}
		node.AddChild(p.finishNode(decl))

		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseVarInitializer() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() *Node {
	defer p.push("ArrayInitializer")()
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseVarInitializer())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	defer p.push("FormalParameterList")()
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
		if p.isReceiverParameter() {
			node.AddChild(p.parseReceiverParameter())
			if p.check(TokenComma) {
				p.advance()
			}
		}
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseParameter(false))
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) isReceiverParameter() bool {
	m := p.mark()
	defer p.reset(m)

	for p.checkAt() {
		p.parseAnnotation()
	}

	switch {
	case isPrimitive(p.peek().Kind):
		p.advance()
	case p.isIdentifierLike():
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
	default:
		return false
	}

	for p.check(TokenLBracket) {
		p.advance()
		if p.check(TokenRBracket) {
			p.advance()
		}
	}

	if p.isIdentifierLike() {
		p.advance()
		if p.check(TokenDot) {
			p.advance()
			return p.check(TokenThis)
		}
		return false
	}
	return p.check(TokenThis)
}

func (p *Parser) parseReceiverParameter() *Node {
	node := p.startNode(KindReceiverParameter)

	for p.checkAt() {
		node.AddChild(p.parseAnnotation())
	}

	node.AddChild(p.parseType())

	if p.isIdentifierLike() {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		p.expect(TokenDot)
	}

	p.expect(TokenThis)
	return p.finishNode(node)
}

// parseParameter parses a formal parameter. Lambda parameters may use 'var'.
func (p *Parser) parseParameter(allowVar bool) *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())

	if allowVar {
		node.AddChild(p.parseTypeAllowVar())
	} else {
		node.AddChild(p.parseType())
	}

	for p.check(TokenAt308Ellipsis) {
		node.AddChild(p.parseAnnotation())
	}
	if p.check(TokenEllipsis) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	}

	if id := p.parseVariableDeclaratorId(); id != nil {
		node.AddChild(id)
	} else {
		p.missing("VariableDeclaratorId")
	}

	if dims := p.parseDims(); dims != nil {
		node.AddChild(dims)
	}

	return p.finishNode(node)
}

func (p *Parser) parseThrowsList() *Node {
	return p.parseTypeList(KindThrowsList)
}

// parseVariableDeclaratorId parses a declared name. '_' becomes an
// UnnamedVariable when unnamed variables are enabled.
func (p *Parser) parseVariableDeclaratorId() *Node {
	if !p.isIdentifierLike() {
		return nil
	}
	tok := p.advance()
	if tok.Literal == "_" {
		p.checkUnderscore(&tok, true)
		if p.opts.UnnamedVariables() {
			return tokenNode(KindUnnamedVariable, &tok)
		}
	}
	return tokenNode(KindIdentifier, &tok)
}

func (p *Parser) skipTypeArguments() {
	if !p.check(TokenLT) {
		return
	}
	p.advance()
	depth := 1
	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenSemicolon, TokenLBrace, TokenRBrace:
			return
		}
		p.advance()
	}
}
