package parser

import (
	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/options"
)

func (p *Parser) parseExpression() *Node {
	return p.parseAssignmentExpr()
}

func (p *Parser) parseCaseLabelExpression() *Node {
	return p.parseTernaryExpr()
}

func (p *Parser) parseAssignmentExpr() *Node {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}

	left := p.parseTernaryExpr()

	if p.isAssignOp() {
		node := &Node{Kind: KindAssignExpr, Span: Span{Start: left.Span.Start}}
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		node.AddChild(p.parseAssignmentExpr())
		return p.finishNode(node)
	}

	return left
}

func (p *Parser) isAssignOp() bool {
	switch p.peek().Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPercentAssign,
		TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

// isLambda relies on the lookahead pass, which marks every lambda start.
func (p *Parser) isLambda() bool {
	return p.check(TokenBeginLambda)
}

func (p *Parser) parseLambdaExpr() *Node {
	p.skip(TokenBeginLambda)
	node := p.startNode(KindLambdaExpr)
	first := p.peek()

	if p.isIdentifierLike() {
		tok := p.advance()
		params := &Node{Kind: KindParameters, Span: tok.Span}
		params.AddChild(p.lambdaParamName(&tok))
		node.AddChild(params)
	} else {
		node.AddChild(p.parseLambdaParameters())
	}

	arrow := p.peek()
	p.expect(TokenArrow)
	p.lambdaAllowed(Span{Start: first.Span.Start, End: arrow.Span.End})

	defer p.push("LambdaBody")()
	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	} else {
		node.AddChild(p.parseExpression())
	}

	return p.finishNode(node)
}

func (p *Parser) lambdaParamName(tok *Token) *Node {
	if tok.Literal == "_" {
		p.checkUnderscore(tok, true)
		if p.opts.UnnamedVariables() {
			return tokenNode(KindUnnamedVariable, tok)
		}
	}
	return tokenNode(KindIdentifier, tok)
}

func (p *Parser) parseLambdaParameters() *Node {
	defer p.push("LambdaParameters")()
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
		for {
			progress := p.mustProgress()
			if p.isLambdaTypedParam() {
				node.AddChild(p.parseParameter(true))
			} else if tok := p.expectIdentifier(); tok != nil {
				node.AddChild(p.lambdaParamName(tok))
			}
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

func (p *Parser) isLambdaTypedParam() bool {
	switch kind := p.peek().Kind; {
	case kind == TokenFinal || p.checkAt():
		return true
	case isPrimitive(kind):
		return true
	case identifierLike(kind):
		switch p.peekN(1).Kind {
		case TokenLT, TokenDot, TokenLBracket, TokenEllipsis, TokenAt308, TokenAt308Ellipsis:
			return true
		}
		return identifierLike(p.peekN(1).Kind)
	}
	return false
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseBinaryExpr(precOr)

	if p.check(TokenQuestion) {
		node := &Node{Kind: KindTernaryExpr, Span: Span{Start: cond.Span.Start}}
		node.AddChild(cond)
		p.advance()
		node.AddChild(p.parseTernaryBranch())
		p.expect(TokenColon)
		node.AddChild(p.parseTernaryBranch())
		return p.finishNode(node)
	}

	return cond
}

func (p *Parser) parseTernaryBranch() *Node {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}
	return p.parseTernaryExpr()
}

// Binary operator precedence, loosest first.
const (
	precOr = iota + 1
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

func binaryPrecedence(kind TokenKind) int {
	switch kind {
	case TokenOr:
		return precOr
	case TokenAnd:
		return precAnd
	case TokenBitOr:
		return precBitOr
	case TokenBitXor:
		return precBitXor
	case TokenBitAnd:
		return precBitAnd
	case TokenEQ, TokenNE:
		return precEquality
	case TokenLT, TokenLE, TokenGT, TokenGE, TokenInstanceof:
		return precRelational
	case TokenShl, TokenShr, TokenUShr:
		return precShift
	case TokenPlus, TokenMinus:
		return precAdditive
	case TokenStar, TokenSlash, TokenPercent:
		return precMultiplicative
	}
	return 0
}

// parseBinaryExpr parses left-associative operators binding at least as
// tightly as min.
func (p *Parser) parseBinaryExpr(min int) *Node {
	left := p.parseUnaryExpr()

	for {
		prec := binaryPrecedence(p.peek().Kind)
		if prec < min || prec == 0 {
			return left
		}
		if p.check(TokenInstanceof) {
			left = p.parseInstanceof(left)
			continue
		}
		node := &Node{Kind: KindBinaryExpr, Span: Span{Start: left.Span.Start}}
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		node.AddChild(p.parseBinaryExpr(prec + 1))
		left = p.finishNode(node)
	}
}

// parseInstanceof produces [expr, Type, Identifier?] for a type test or
// type pattern and [expr, RecordPattern] for a record pattern.
func (p *Parser) parseInstanceof(left *Node) *Node {
	node := &Node{Kind: KindInstanceofExpr, Span: Span{Start: left.Span.Start}}
	node.AddChild(left)
	p.expect(TokenInstanceof)

	if p.check(TokenFinal) {
		p.parseModifiers()
	}
	typ := p.parseType()

	if p.check(TokenLParen) {
		pattern := &Node{Kind: KindRecordPattern, Span: Span{Start: typ.Span.Start}}
		pattern.AddChild(typ)
		p.advance()
		if !p.check(TokenRParen) {
			for {
				progress := p.mustProgress()
				pattern.AddChild(p.parsePattern())
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
		node.AddChild(p.finishNode(pattern))
		return p.finishNode(node)
	}

	node.AddChild(typ)
	if p.isIdentifierLike() && !p.check(TokenWhen) {
		node.AddChild(p.parseVariableDeclaratorId())
	}
	return p.finishNode(node)
}

func (p *Parser) parseUnaryExpr() *Node {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement, TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		node := p.startNode(KindUnaryExpr)
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpr()
		}
	}

	return p.parsePostfixExpr()
}

func (p *Parser) isCast() bool {
	if !p.check(TokenLParen) {
		return false
	}

	m := p.mark()
	defer p.reset(m)
	p.advance()

	for p.checkAt() {
		p.parseAnnotation()
	}

	switch kind := p.peek().Kind; {
	case isPrimitive(kind):
		p.advance()
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
		}
		return p.check(TokenRParen)
	case identifierLike(kind):
		p.parseType()
		for p.check(TokenBitAnd) {
			p.advance()
			p.parseType()
		}
		if !p.check(TokenRParen) {
			return false
		}
		p.advance()
		switch kind := p.peek().Kind; {
		case identifierLike(kind):
			return true
		case kind == TokenThis, kind == TokenSuper, kind == TokenNew,
			kind == TokenLParen, kind == TokenNot, kind == TokenBitNot,
			kind == TokenIntLiteral, kind == TokenFloatLiteral,
			kind == TokenCharLiteral, kind == TokenStringLiteral,
			kind == TokenTextBlock, kind == TokenTrue, kind == TokenFalse, kind == TokenNull,
			kind == TokenBeginLambda, kind == TokenSwitch:
			return true
		case isPrimitive(kind) || kind == TokenVoid:
			// (Foo) int.class
			return true
		}
	}
	return false
}

// parseCastExpr produces [Type or IntersectionType, operand].
func (p *Parser) parseCastExpr() *Node {
	node := p.startNode(KindCastExpr)
	p.expect(TokenLParen)

	typ := p.parseType()
	if p.check(TokenBitAnd) {
		inter := &Node{Kind: KindIntersectionType, Span: Span{Start: typ.Span.Start}}
		inter.AddChild(typ)
		for p.check(TokenBitAnd) {
			p.advance()
			inter.AddChild(p.parseType())
		}
		typ = p.finishNode(inter)
	}
	node.AddChild(typ)

	p.expect(TokenRParen)
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseUnaryExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfixExpr() *Node {
	expr := p.parsePrimaryExpr()
	return p.parsePostfixSuffix(expr)
}

func (p *Parser) parsePostfixSuffix(expr *Node) *Node {
	for {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenIncrement, TokenDecrement:
			node := &Node{Kind: KindPostfixExpr, Span: Span{Start: expr.Span.Start}}
			node.AddChild(expr)
			tok := p.advance()
			node.AddChild(tokenNode(KindIdentifier, &tok))
			expr = p.finishNode(node)
		case TokenDot:
			expr = p.parseSelector(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				if result := p.tryParseArrayClassLiteralOrMethodRef(expr); result != nil {
					expr = result
					continue
				}
			}
			p.advance()
			node := &Node{Kind: KindArrayAccess, Span: Span{Start: expr.Span.Start}}
			node.AddChild(expr)
			node.AddChild(p.parseExpression())
			p.expect(TokenRBracket)
			expr = p.finishNode(node)
		case TokenLParen:
			if !callable(expr) {
				return expr
			}
			expr = p.parseMethodCall(expr)
		case TokenColonColon:
			expr = p.parseMethodRef(expr)
		case TokenLT:
			if result := p.tryParseParameterizedTypeSpecialForm(expr); result != nil {
				expr = result
				continue
			}
			return expr
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

// callable reports whether "(" after expr starts an argument list.
func callable(expr *Node) bool {
	switch expr.Kind {
	case KindIdentifier, KindFieldAccess, KindThis, KindSuper:
		return true
	}
	return false
}

// parseSelector parses what follows a '.' in a postfix chain.
func (p *Parser) parseSelector(expr *Node) *Node {
	p.advance()
	switch {
	case p.check(TokenNew):
		return p.parseNewExpr(expr)
	case p.match(TokenStringLiteral, TokenTextBlock):
		// Recovery for a string template processor, which is not supported.
		tok := p.peek()
		p.deleteToken()
		p.advance()
		node := &Node{Kind: KindFieldAccess, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		node.AddChild(tokenNode(KindLiteral, &tok))
		return p.finishNode(node)
	case p.check(TokenBeginTypeArguments) || p.check(TokenLT):
		p.skip(TokenBeginTypeArguments)
		typeArgs := p.parseTypeArguments()
		node := &Node{Kind: KindFieldAccess, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		node.AddChild(typeArgs)
		switch {
		case p.check(TokenSuper) || p.check(TokenThis):
			// Outer.<T>super(...) is parsed by the constructor body.
			tok := p.advance()
			kind := KindSuper
			if tok.Kind == TokenThis {
				kind = KindThis
			}
			node.AddChild(tokenNode(kind, &tok))
		default:
			if tok := p.expectIdentifier(); tok != nil {
				node.AddChild(tokenNode(KindIdentifier, tok))
			}
		}
		expr = p.finishNode(node)
		if p.check(TokenLParen) {
			expr = p.parseMethodCall(expr)
		} else {
			p.missing("(")
		}
		return expr
	case p.check(TokenClass):
		node := &Node{Kind: KindClassLiteral, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		p.advance()
		return p.finishNode(node)
	case p.check(TokenThis):
		node := &Node{Kind: KindFieldAccess, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		tok := p.advance()
		node.AddChild(tokenNode(KindThis, &tok))
		return p.finishNode(node)
	case p.check(TokenSuper):
		node := &Node{Kind: KindFieldAccess, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		tok := p.advance()
		node.AddChild(tokenNode(KindSuper, &tok))
		return p.finishNode(node)
	case p.isIdentifierLike():
		tok := p.advance()
		p.checkUnderscore(&tok, false)
		node := &Node{Kind: KindFieldAccess, Span: Span{Start: expr.Span.Start}}
		node.AddChild(expr)
		node.AddChild(tokenNode(KindIdentifier, &tok))
		return p.finishNode(node)
	}
	p.missing("Identifier")
	return expr
}

// parseMethodCall produces [target, Arguments].
func (p *Parser) parseMethodCall(target *Node) *Node {
	node := &Node{Kind: KindCallExpr, Span: Span{Start: target.Span.Start}}
	node.AddChild(target)
	node.AddChild(p.parseArguments())
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	defer p.push("Expression")()
	node := p.startNode(KindArguments)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
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

	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseMethodRef produces [target, TypeArguments?, Identifier].
func (p *Parser) parseMethodRef(target *Node) *Node {
	node := &Node{Kind: KindMethodRef, Span: Span{Start: target.Span.Start}}
	node.AddChild(target)
	p.expect(TokenColonColon)

	p.skip(TokenBeginTypeArguments)
	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	if p.check(TokenNew) {
		tok := p.advance()
		node.AddChild(tokenNode(KindIdentifier, &tok))
	} else if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, tok))
	}

	node = p.finishNode(node)
	if !p.atLeast(options.LambdaLevel) {
		p.report(diag.MethodReferenceBelow18, node.Span)
	}
	return node
}

func (p *Parser) parsePrimaryExpr() *Node {
	switch kind := p.peek().Kind; kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		tok := p.advance()
		return tokenNode(KindLiteral, &tok)

	case TokenThis:
		tok := p.advance()
		return tokenNode(KindThis, &tok)

	case TokenSuper:
		tok := p.advance()
		return tokenNode(KindSuper, &tok)

	case TokenNew:
		return p.parseNewExpr(nil)

	case TokenLParen:
		return p.parseParenExpr()

	case TokenSwitch:
		return p.parseSwitchExpr()

	case TokenBeginLambda:
		return p.parseLambdaExpr()

	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return p.parsePrimitiveClassLiteral()

	default:
		if p.isIdentifierLike() {
			tok := p.advance()
			p.checkUnderscore(&tok, false)
			return tokenNode(KindIdentifier, &tok)
		}
		if p.check(TokenSemicolon) {
			return p.expectedAfter("Expression")
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})
	}
}

func (p *Parser) parseParenExpr() *Node {
	defer p.push("Expression")()
	node := p.startNode(KindParenExpr)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseNewExpr parses class instance creation, qualified by outer when
// non-nil, and array creation.
//
//	NewExpr:      [outer?, TypeArguments?, Type, Arguments, ClassBody?]
//	NewArrayExpr: [Type, Annotation*, dim Expression*, Dims?, ArrayInit?]
func (p *Parser) parseNewExpr(outer *Node) *Node {
	start := p.peek().Span.Start
	if outer != nil {
		start = outer.Span.Start
	}
	p.expect(TokenNew)

	var ctorTypeArgs *Node
	if p.check(TokenLT) {
		ctorTypeArgs = p.parseTypeArguments()
	}

	typ := p.parseElementType()
	if typ.IsError() {
		return typ
	}

	if outer == nil && (p.check(TokenLBracket) || p.check(TokenAt308)) {
		return p.parseNewArrayRest(start, typ)
	}

	node := &Node{Kind: KindNewExpr, Span: Span{Start: start}}
	if outer != nil {
		node.AddChild(outer)
	}
	if ctorTypeArgs != nil {
		node.AddChild(ctorTypeArgs)
	}
	node.AddChild(typ)
	node.AddChild(p.parseArguments())

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parseNewArrayRest(start Position, typ *Node) *Node {
	node := &Node{Kind: KindNewArrayExpr, Span: Span{Start: start}}
	node.AddChild(typ)

	for p.check(TokenAt308) || (p.check(TokenLBracket) && p.peekN(1).Kind != TokenRBracket) {
		progress := p.mustProgress()
		for p.checkAt() {
			node.AddChild(p.parseAnnotation())
		}
		if !p.check(TokenLBracket) {
			break
		}
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRBracket)
		if !progress() {
			break
		}
	}

	if dims := p.parseDims(); dims != nil {
		node.AddChild(dims)
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseArrayInitializer())
	}

	return p.finishNode(node)
}

func (p *Parser) parsePrimitiveClassLiteral() *Node {
	node := p.startNode(KindClassLiteral)
	tok := p.advance()
	typeNode := &Node{Kind: KindType, Span: tok.Span}
	typeNode.AddChild(tokenNode(KindIdentifier, &tok))

	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: typeNode.Span.Start}}
		wrapper.AddChild(typeNode)
		typeNode = p.finishNode(wrapper)
	}

	node.AddChild(typeNode)
	if p.check(TokenColonColon) {
		// int[]::new
		ref := &Node{Kind: KindMethodRef, Span: node.Span}
		ref.AddChild(typeNode)
		p.advance()
		if tok := p.expect(TokenNew); tok != nil {
			ref.AddChild(tokenNode(KindIdentifier, tok))
		}
		ref = p.finishNode(ref)
		if !p.atLeast(options.LambdaLevel) {
			p.report(diag.MethodReferenceBelow18, ref.Span)
		}
		return ref
	}
	p.expect(TokenDot)
	p.expect(TokenClass)
	return p.finishNode(node)
}

// tryParseArrayClassLiteralOrMethodRef parses String[].class and
// String[]::new. It returns nil and leaves the position unchanged otherwise.
func (p *Parser) tryParseArrayClassLiteralOrMethodRef(base *Node) *Node {
	m := p.mark()

	dims := 0
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		dims++
	}

	typ := base
	for range dims {
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: base.Span.Start}}
		wrapper.AddChild(typ)
		typ = p.finishNode(wrapper)
	}

	switch {
	case dims > 0 && p.check(TokenDot) && p.peekN(1).Kind == TokenClass:
		p.commit(m)
		p.advance()
		p.advance()
		node := &Node{Kind: KindClassLiteral, Span: Span{Start: base.Span.Start}}
		node.AddChild(typ)
		return p.finishNode(node)
	case dims > 0 && p.check(TokenColonColon):
		p.commit(m)
		return p.parseMethodRef(typ)
	}

	p.reset(m)
	return nil
}

// tryParseParameterizedTypeSpecialForm parses List<String>::size,
// Class<?>[]::new and Class<?>.class style primaries. It returns nil and
// leaves the position unchanged when base is not followed by one.
func (p *Parser) tryParseParameterizedTypeSpecialForm(base *Node) *Node {
	if !p.check(TokenLT) || !callable(base) || base.Kind == KindThis || base.Kind == KindSuper {
		return nil
	}
	if _, ok := skipAngles(p.tokens, p.pos); !ok {
		return nil
	}
	m := p.mark()
	typeArgs := p.parseTypeArguments()

	typ := &Node{Kind: KindType, Span: Span{Start: base.Span.Start}}
	typ.AddChild(base)
	typ.AddChild(typeArgs)
	typ = p.finishNode(typ)

	switch {
	case p.check(TokenColonColon):
		p.commit(m)
		return p.parseMethodRef(typ)
	case p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket:
		m2 := p.mark()
		if result := p.tryParseArrayClassLiteralOrMethodRef(typ); result != nil {
			p.commit(m2)
			p.commit(m)
			return result
		}
		p.reset(m2)
	case p.check(TokenDot) && p.peekN(1).Kind == TokenClass:
		p.commit(m)
		p.advance()
		p.advance()
		node := &Node{Kind: KindClassLiteral, Span: Span{Start: base.Span.Start}}
		node.AddChild(typ)
		return p.finishNode(node)
	}

	p.reset(m)
	return nil
}
