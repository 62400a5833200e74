package parser

// InsertLookahead returns toks with synthetic lookahead tokens added. The
// input must not contain trivia. Synthetic Begin tokens carry an empty
// span at the start of the token they precede; a type annotation '@' is
// reclassified in place as TokenAt308 or TokenAt308Ellipsis.
//
//   - TokenBeginLambda before "x ->" and before "( ... ) ->"
//   - TokenBeginTypeArguments before a '<' that follows '.' or '::'
//   - TokenBeginCaseElement after 'case' when a pattern follows
func InsertLookahead(toks []Token) []Token {
	out := make([]Token, 0, len(toks)+len(toks)/8)
	caseDepth := -1
	depth := 0
	angles := 0
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		tokDepth := depth
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenLBrace, TokenRBrace, TokenSemicolon:
			angles = 0
		case TokenLT:
			angles++
		case TokenGT:
			angles = max(angles-1, 0)
		case TokenShr:
			angles = max(angles-2, 0)
		case TokenUShr:
			angles = max(angles-3, 0)
		}

		inCase := caseDepth >= 0
		if !inCase || tokDepth > caseDepth {
			if startsLambda(toks, i) {
				out = append(out, synthetic(TokenBeginLambda, tok))
			}
		}
		if tok.Kind == TokenLT && i > 0 && (toks[i-1].Kind == TokenDot || toks[i-1].Kind == TokenColonColon) {
			out = append(out, synthetic(TokenBeginTypeArguments, tok))
		}
		if tok.Kind == TokenAt && !(i+1 < len(toks) && toks[i+1].Kind == TokenInterface) {
			tok.Kind = classifyAt(toks, i, angles)
		}

		out = append(out, tok)

		switch tok.Kind {
		case TokenCase:
			caseDepth = depth
			if i+1 < len(toks) && startsPattern(toks, i+1) {
				out = append(out, synthetic(TokenBeginCaseElement, toks[i+1]))
			}
		case TokenArrow, TokenColon:
			if inCase && depth == caseDepth {
				caseDepth = -1
			}
		}
	}
	return out
}

func synthetic(kind TokenKind, next Token) Token {
	return Token{Kind: kind, Span: Span{Start: next.Span.Start, End: next.Span.Start}}
}

func identifierLike(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenVar, TokenYield, TokenRecord, TokenSealed,
		TokenPermits, TokenWhen:
		return true
	}
	return kind.IsModuleOnly()
}

func kindAt(toks []Token, i int) TokenKind {
	if i < 0 || i >= len(toks) {
		return TokenEOF
	}
	return toks[i].Kind
}

func startsLambda(toks []Token, i int) bool {
	if identifierLike(toks[i].Kind) {
		return kindAt(toks, i+1) == TokenArrow && kindAt(toks, i-1) != TokenDot
	}
	if toks[i].Kind != TokenLParen {
		return false
	}
	if prev := kindAt(toks, i-1); identifierLike(prev) || prev == TokenThis || prev == TokenSuper {
		// A call, not a parameter list.
		return false
	}
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return kindAt(toks, j+1) == TokenArrow
			}
		case TokenLBrace, TokenRBrace, TokenSemicolon, TokenEOF:
			return false
		}
	}
	return false
}

// startsPattern reports whether a type pattern, record pattern or '_'
// begins at i.
func startsPattern(toks []Token, i int) bool {
	if toks[i].Kind == TokenIdent && toks[i].Literal == "_" {
		switch kindAt(toks, i+1) {
		case TokenArrow, TokenColon, TokenComma:
			return true
		}
		return false
	}
	for kindAt(toks, i) == TokenAt {
		i = skipAnnotation(toks, i)
	}
	j, ok := skipType(toks, i)
	if !ok {
		return false
	}
	next := kindAt(toks, j)
	return identifierLike(next) && toks[j].Literal != "when" || next == TokenLParen
}

// skipType scans a type starting at i and returns the index after it.
func skipType(toks []Token, i int) (int, bool) {
	switch kindAt(toks, i) {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		i++
	case TokenIdent, TokenVar, TokenRecord, TokenSealed, TokenPermits, TokenYield:
		i++
		for {
			if kindAt(toks, i) == TokenLT {
				var ok bool
				if i, ok = skipAngles(toks, i); !ok {
					return i, false
				}
			}
			if kindAt(toks, i) == TokenDot && identifierLike(kindAt(toks, i+1)) {
				i += 2
				continue
			}
			break
		}
	default:
		return i, false
	}
	for kindAt(toks, i) == TokenLBracket && kindAt(toks, i+1) == TokenRBracket {
		i += 2
	}
	return i, true
}

func skipAngles(toks []Token, i int) (int, bool) {
	depth := 0
	for ; i < len(toks); i++ {
		switch toks[i].Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenIdent, TokenQuestion, TokenExtends, TokenSuper, TokenComma,
			TokenDot, TokenLBracket, TokenRBracket, TokenAt, TokenBitAnd,
			TokenBoolean, TokenByte, TokenChar, TokenShort,
			TokenInt, TokenLong, TokenFloat, TokenDouble:
		default:
			return i, false
		}
		if depth <= 0 {
			return i + 1, depth == 0
		}
	}
	return i, false
}

func skipAnnotation(toks []Token, i int) int {
	i++
	for identifierLike(kindAt(toks, i)) {
		i++
		if kindAt(toks, i) != TokenDot {
			break
		}
		i++
	}
	if kindAt(toks, i) == TokenLParen {
		depth := 0
		for ; i < len(toks); i++ {
			switch toks[i].Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// classifyAt decides whether the '@' at i starts a type annotation.
func classifyAt(toks []Token, i, angles int) TokenKind {
	end := skipAnnotation(toks, i)
	switch kindAt(toks, end) {
	case TokenEllipsis:
		return TokenAt308Ellipsis
	case TokenLBracket:
		return TokenAt308
	}
	switch kindAt(toks, i-1) {
	case TokenLT, TokenExtends, TokenSuper, TokenImplements, TokenThrows,
		TokenNew, TokenQuestion, TokenDot:
		return TokenAt308
	case TokenComma, TokenBitAnd:
		if angles > 0 {
			return TokenAt308
		}
	}
	return TokenAt
}
