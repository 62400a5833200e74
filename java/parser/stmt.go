package parser

import (
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/options"
)

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)
	p.parseBlockStatements(node)
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseBlockStatements(node *Node) {
	defer p.push("BlockStatements")()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		defer p.push("Block")()
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		if p.isSwitchStatement() {
			return p.parseSwitchStmt()
		}
		return p.parseExprStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt)
	case TokenThrow:
		return p.parseThrowStmt()
	case TokenTry:
		return p.parseTryStmt()
	case TokenSynchronized:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseSynchronizedStmt()
		}
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenYield:
		switch p.peekN(1).Kind {
		case TokenAssign, TokenDot, TokenLParen, TokenLBracket, TokenIncrement, TokenDecrement, TokenSemicolon:
		default:
			return p.parseYieldStmt()
		}
	case TokenClass, TokenInterface, TokenEnum:
		return p.parseLocalClassDecl()
	case TokenRecord:
		if identifierLike(p.peekN(1).Kind) && (p.peekN(2).Kind == TokenLParen || p.peekN(2).Kind == TokenLT) {
			return p.parseLocalClassDecl()
		}
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeledStmt()
		}
	}
	return p.parseLocalVarOrExprStmt()
}

// isSwitchStatement tells a switch statement apart from an expression
// statement that starts with a switch expression, such as "switch (x) {...}.foo();".
func (p *Parser) isSwitchStatement() bool {
	m := p.mark()
	defer p.reset(m)
	p.advance()
	if !p.check(TokenLParen) {
		return true
	}
	depth := 0
	for !p.check(TokenEOF) {
		switch p.advance().Kind {
		case TokenLParen, TokenLBrace:
			depth++
		case TokenRParen:
			depth--
		case TokenRBrace:
			depth--
			if depth == 0 {
				return !p.check(TokenDot)
			}
		}
	}
	return true
}

func (p *Parser) parseLocalVarOrExprStmt() *Node {
	if p.isLocalClassDecl() {
		return p.parseLocalClassDecl()
	}
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmt()
}

func (p *Parser) isLocalClassDecl() bool {
	if !p.match(TokenFinal, TokenAbstract, TokenStatic, TokenStrictfp, TokenAt, TokenSealed, TokenNonSealed) {
		return false
	}
	m := p.mark()
	defer p.reset(m)
	p.parseModifiers()
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenRecord:
		return identifierLike(p.peekN(1).Kind)
	}
	return false
}

func (p *Parser) isLocalVarDecl() bool {
	m := p.mark()
	defer p.reset(m)

	p.parseModifiers()

	switch kind := p.peek().Kind; {
	case isPrimitive(kind):
		return true
	case identifierLike(kind):
		p.parseQualifiedName()
		if p.check(TokenLT) {
			if !p.skipGenericType() {
				return false
			}
		}
		for p.check(TokenDot) && identifierLike(p.peekN(1).Kind) {
			p.advance()
			p.advance()
			if p.check(TokenLT) && !p.skipGenericType() {
				return false
			}
		}
		for p.check(TokenAt308) {
			p.parseAnnotation()
		}
		for p.check(TokenLBracket) {
			p.advance()
			if !p.check(TokenRBracket) {
				return false
			}
			p.advance()
		}
		return p.isIdentifierLike()
	}
	return false
}

// skipGenericType skips type arguments when they parse as such.
func (p *Parser) skipGenericType() bool {
	p.parseTypeArguments()
	return p.isIdentifierLike() || p.check(TokenDot) || p.check(TokenLBracket) || p.check(TokenAt308)
}

func (p *Parser) parseLocalVarDecl() *Node {
	defer p.push("LocalVariableDeclarationStatement")()
	node := p.parseLocalVarDeclNoSemi()
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseLocalVarDeclNoSemi parses modifiers, a local type where 'var' may
// request inference, and the declarators.
func (p *Parser) parseLocalVarDeclNoSemi() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseTypeAllowVar())
	p.parseVarDeclarators(node)
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLocalClassDecl() *Node {
	node := p.startNode(KindLocalClassDecl)
	modifiers := p.parseModifiers()
	if decl := p.parseTypeDeclRest(modifiers); decl != nil {
		node.AddChild(decl)
	} else {
		node.AddChild(p.errorNode("expected class declaration", []TokenKind{TokenSemicolon, TokenRBrace}))
	}
	return p.finishNode(node)
}

func (p *Parser) parseCondition() *Node {
	defer p.push("Expression")()
	p.expect(TokenLParen)
	expr := p.parseExpression()
	p.expect(TokenRParen)
	return expr
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	node.AddChild(p.parseCondition())
	node.AddChild(p.parseStatement())

	if p.check(TokenElse) {
		p.advance()
		node.AddChild(p.parseStatement())
	}

	return p.finishNode(node)
}

func (p *Parser) parseForStmt() *Node {
	start := p.peek().Span.Start
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isEnhancedFor() {
		node := p.parseEnhancedForStmt()
		node.Span.Start = start
		return node
	}

	node := p.startNode(KindForStmt)
	node.Span.Start = start

	initNode := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			initNode.AddChild(p.parseLocalVarDeclNoSemi())
		} else {
			p.parseExpressionList(initNode)
		}
	}
	node.AddChild(p.finishNode(initNode))
	p.expect(TokenSemicolon)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)

	updateNode := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		p.parseExpressionList(updateNode)
	}
	node.AddChild(p.finishNode(updateNode))
	p.expect(TokenRParen)

	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(node *Node) {
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
}

func (p *Parser) isEnhancedFor() bool {
	m := p.mark()
	defer p.reset(m)

	p.parseModifiers()

	switch kind := p.peek().Kind; {
	case isPrimitive(kind):
		p.advance()
	case identifierLike(kind):
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
		for p.check(TokenDot) && identifierLike(p.peekN(1).Kind) {
			p.advance()
			p.advance()
			if p.check(TokenLT) {
				p.skipTypeArguments()
			}
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

	if !p.isIdentifierLike() {
		return false
	}
	p.advance()
	for p.check(TokenLBracket) {
		p.advance()
		if p.check(TokenRBracket) {
			p.advance()
		}
	}
	return p.check(TokenColon)
}

func (p *Parser) parseEnhancedForStmt() *Node {
	node := p.startNode(KindEnhancedForStmt)

	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseTypeAllowVar())

	decl := p.startNode(KindVarDeclarator)
	if id := p.parseVariableDeclaratorId(); id != nil {
		decl.AddChild(id)
	}
	if dims := p.parseDims(); dims != nil {
		decl.AddChild(dims)
	}
	node.AddChild(p.finishNode(decl))

	p.expect(TokenColon)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	node.AddChild(p.parseStatement())

	return p.finishNode(node)
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	node.AddChild(p.parseCondition())
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddChild(p.parseStatement())
	p.expect(TokenWhile)
	node.AddChild(p.parseCondition())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.parseSwitchBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchExpr() *Node {
	node := p.startNode(KindSwitchExpr)
	p.parseSwitchBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchBody(node *Node) {
	p.expect(TokenSwitch)
	node.AddChild(p.parseCondition())

	defer p.push("SwitchBlock")()
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseSwitchCase())
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)

	if !p.check(TokenCase) && !p.check(TokenDefault) {
		return p.errorNode("expected case or default", []TokenKind{TokenCase, TokenDefault, TokenRBrace})
	}

	isArrowCase := false
	for p.check(TokenCase) || p.check(TokenDefault) {
		label := p.parseSwitchLabel()
		node.AddChild(label)
		if label.isArrowCase {
			isArrowCase = true
			break
		}
	}

	if isArrowCase {
		switch p.peek().Kind {
		case TokenLBrace:
			node.AddChild(p.parseBlock())
		case TokenThrow:
			node.AddChild(p.parseThrowStmt())
		default:
			defer p.push("SwitchLabeledRule")()
			exprNode := p.startNode(KindExprStmt)
			exprNode.AddChild(p.parseExpression())
			p.expect(TokenSemicolon)
			node.AddChild(p.finishNode(exprNode))
		}
	} else {
		defer p.push("BlockStatements")()
		for !p.check(TokenCase) && !p.check(TokenDefault) && !p.check(TokenRBrace) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseStatement())
			if !progress() {
				break
			}
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseSwitchLabel() *Node {
	node := p.startNode(KindSwitchLabel)

	if p.check(TokenCase) {
		p.advance()
		patterns := p.skip(TokenBeginCaseElement)
		for {
			progress := p.mustProgress()
			if patterns || p.looksLikePattern() {
				node.AddChild(p.parsePattern())
			} else {
				node.AddChild(p.parseCaseLabelExpression())
			}
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			// case null, default -> ...
			if p.check(TokenDefault) {
				tok := p.advance()
				node.AddChild(tokenNode(KindIdentifier, &tok))
				break
			}
			if !progress() {
				break
			}
		}
		if p.check(TokenWhen) {
			node.AddChild(p.parseGuard())
		}
	} else {
		p.expect(TokenDefault)
	}

	if p.check(TokenArrow) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		node.isArrowCase = true
	} else {
		p.expect(TokenColon)
	}

	return p.finishNode(node)
}

// IsArrowCase reports whether a SwitchLabel node ends in "->".
func (n *Node) IsArrowCase() bool {
	return n.isArrowCase
}

func (p *Parser) looksLikePattern() bool {
	if p.looksLikeMatchAllPattern() {
		return true
	}

	m := p.mark()
	defer p.reset(m)

	p.parseModifiers()

	switch kind := p.peek().Kind; {
	case isPrimitive(kind):
		p.advance()
	case identifierLike(kind):
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.parseTypeArguments()
		}
	default:
		return false
	}

	for p.check(TokenLBracket) {
		p.advance()
		if !p.check(TokenRBracket) {
			return false
		}
		p.advance()
	}

	// TypePattern: Type identifier
	// RecordPattern: Type ( ... )
	return (p.isIdentifierLike() && !p.check(TokenWhen)) || p.check(TokenLParen)
}

func (p *Parser) parsePattern() *Node {
	if p.looksLikeMatchAllPattern() {
		return p.parseMatchAllPattern()
	}

	modifiers := p.parseModifiers()
	typeNode := p.parseTypeAllowVar()

	if p.check(TokenLParen) {
		// RecordPattern: Type ( ComponentPatternList )
		node := &Node{Kind: KindRecordPattern, Span: Span{Start: typeNode.Span.Start}}
		node.AddChild(typeNode)
		p.advance()
		if !p.check(TokenRParen) {
			for {
				progress := p.mustProgress()
				node.AddChild(p.parsePattern())
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

	node := &Node{Kind: KindTypePattern, Span: Span{Start: modifiers.Span.Start}}
	if len(modifiers.Children) == 0 {
		node.Span.Start = typeNode.Span.Start
	} else {
		node.AddChild(modifiers)
	}
	node.AddChild(typeNode)
	if id := p.parseVariableDeclaratorId(); id != nil {
		node.AddChild(id)
	}
	return p.finishNode(node)
}

func (p *Parser) parseGuard() *Node {
	node := p.startNode(KindGuard)
	p.expect(TokenWhen)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) looksLikeMatchAllPattern() bool {
	if !p.check(TokenIdent) || p.peek().Literal != "_" {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenColon, TokenArrow, TokenComma, TokenRParen:
		return true
	}
	return false
}

func (p *Parser) parseMatchAllPattern() *Node {
	node := p.startNode(KindMatchAllPattern)
	tok := p.advance()
	p.checkUnderscore(&tok, true)
	return p.finishNode(node)
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseJumpStmt parses break and continue with an optional label.
func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()

	if p.isIdentifierLike() {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseThrowStmt() *Node {
	node := p.startNode(KindThrowStmt)
	p.expect(TokenThrow)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.expect(TokenTry)

	hasResources := p.check(TokenLParen)
	if hasResources {
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseResource())
			if p.check(TokenSemicolon) {
				p.advance()
			}
			if !progress() || p.check(TokenRParen) {
				break
			}
		}
		p.expect(TokenRParen)
	}

	node.AddChild(p.parseBlock())

	for p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}

	if p.check(TokenFinally) {
		node.AddChild(p.parseFinallyClause())
	}

	if !hasResources && node.FirstChildOfKind(KindCatchClause) == nil && node.FirstChildOfKind(KindFinallyClause) == nil {
		p.missing("Finally")
	}

	return p.finishNode(node)
}

func (p *Parser) parseResource() *Node {
	if p.isLocalVarDecl() {
		node := p.startNode(KindLocalVarDecl)
		node.AddChild(p.parseModifiers())
		node.AddChild(p.parseTypeAllowVar())
		decl := p.startNode(KindVarDeclarator)
		if id := p.parseVariableDeclaratorId(); id != nil {
			decl.AddChild(id)
		}
		if p.check(TokenAssign) {
			p.advance()
			decl.AddChild(p.parseExpression())
		}
		node.AddChild(p.finishNode(decl))
		return p.finishNode(node)
	}
	return p.parseExpression()
}

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	p.expect(TokenLParen)

	node.AddChild(p.parseModifiers())

	typ := p.parseType()
	if p.check(TokenBitOr) {
		union := &Node{Kind: KindUnionType, Span: Span{Start: typ.Span.Start}}
		union.AddChild(typ)
		for p.check(TokenBitOr) {
			p.advance()
			union.AddChild(p.parseType())
		}
		typ = p.finishNode(union)
	}
	node.AddChild(typ)

	if id := p.parseVariableDeclaratorId(); id != nil {
		node.AddChild(id)
	} else {
		p.missing("VariableDeclaratorId")
	}

	p.expect(TokenRParen)
	node.AddChild(p.parseBlock())

	return p.finishNode(node)
}

func (p *Parser) parseFinallyClause() *Node {
	node := p.startNode(KindFinallyClause)
	p.expect(TokenFinally)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.expect(TokenSynchronized)
	node.AddChild(p.parseCondition())
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.expect(TokenAssert)
	node.AddChild(p.parseExpression())

	if p.check(TokenColon) {
		p.advance()
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseYieldStmt() *Node {
	node := p.startNode(KindYieldStmt)
	p.expect(TokenYield)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}
	p.expect(TokenColon)
	node.AddChild(p.parseStatement())

	return p.finishNode(node)
}

// lambdaAllowed reports LambdaBelow18 once per lambda.
func (p *Parser) lambdaAllowed(span Span) {
	if !p.atLeast(options.LambdaLevel) {
		p.report(diag.LambdaBelow18, span)
	}
}
