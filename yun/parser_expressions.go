package yun

func (p *parser) parseExpression(precedence int) Expr {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseVariable() Expr {
	return &VariableExpr{Name: p.curToken, id: nextNodeID()}
}

func (p *parser) parseNumberLiteral() Expr {
	value, _ := p.curToken.Literal.(float64)
	return &LiteralExpr{Value: NewNumber(value), id: nextNodeID(), position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expr {
	value, _ := p.curToken.Literal.(string)
	return &LiteralExpr{Value: NewString(value), id: nextNodeID(), position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expr {
	return &LiteralExpr{Value: NewBool(p.curToken.Type == tokenTrue), id: nextNodeID(), position: p.curToken.Pos}
}

func (p *parser) parseNilLiteral() Expr {
	return &LiteralExpr{Value: NewNil(), id: nextNodeID(), position: p.curToken.Pos}
}

func (p *parser) parseSelf() Expr {
	return &SelfExpr{Keyword: p.curToken, id: nextNodeID()}
}

func (p *parser) parseSuper() Expr {
	keyword := p.curToken
	if !p.expectPeek(tokenDot) {
		return nil
	}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	return &SuperExpr{Keyword: keyword, Method: p.curToken, id: nextNodeID()}
}

func (p *parser) parseGroupedExpression() Expr {
	pos := p.curToken.Pos
	p.nextToken()
	inner := p.parseExpression(lowestPrec)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return &GroupingExpr{Inner: inner, id: nextNodeID(), position: pos}
}

func (p *parser) parsePrefixExpression() Expr {
	operator := p.curToken
	p.nextToken()
	right := p.parseExpression(precPrefix)
	if right == nil {
		return nil
	}
	return &UnaryExpr{Operator: operator, Right: right, id: nextNodeID()}
}

func (p *parser) parseInfixExpression(left Expr) Expr {
	operator := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: operator, Right: right, id: nextNodeID()}
}

func (p *parser) parseLogicalExpression(left Expr) Expr {
	operator := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &LogicalExpr{Left: left, Operator: operator, Right: right, id: nextNodeID()}
}

// parseAssignExpression is right associative: the value is parsed at the
// lowest precedence so `a = b = c` assigns c to both.
func (p *parser) parseAssignExpression(target Expr) Expr {
	equals := p.curToken
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}

	switch t := target.(type) {
	case *VariableExpr:
		return &AssignExpr{Name: t.Name, Value: value, id: nextNodeID()}
	case *GetExpr:
		return &SetExpr{Object: t.Object, Name: t.Name, Index: t.Index, Value: value, id: nextNodeID()}
	}
	p.addParseError(equals, "invalid assignment target")
	return nil
}

func (p *parser) parseCallExpression(callee Expr) Expr {
	paren := p.curToken
	args, ok := p.parseExpressionList(tokenRParen)
	if !ok {
		return nil
	}
	if len(args) > maxCallArgs {
		p.addParseError(paren, "too many arguments")
		return nil
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args, id: nextNodeID()}
}

func (p *parser) parseMemberExpression(object Expr) Expr {
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	return &GetExpr{Object: object, Name: p.curToken, id: nextNodeID()}
}

func (p *parser) parseIndexExpression(object Expr) Expr {
	bracket := p.curToken
	p.nextToken()
	index := p.parseExpression(lowestPrec)
	if index == nil {
		return nil
	}
	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return &GetExpr{Object: object, Name: bracket, Index: index, id: nextNodeID()}
}

func (p *parser) parseListLiteral() Expr {
	bracket := p.curToken
	elements, ok := p.parseExpressionList(tokenRBracket)
	if !ok {
		return nil
	}
	return &ListExpr{Bracket: bracket, Elements: elements, id: nextNodeID()}
}

// parseExpressionList parses comma separated expressions up to end. A
// trailing comma is accepted.
func (p *parser) parseExpressionList(end TokenType) ([]Expr, bool) {
	list := []Expr{}
	for p.peekToken.Type != end {
		p.nextToken()
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *parser) parseDictLiteral() Expr {
	brace := p.curToken
	entries := []DictEntry{}

	for p.peekToken.Type != tokenRBrace {
		p.nextToken()
		var key string
		switch p.curToken.Type {
		case tokenIdent:
			key = p.curToken.Lexeme
		case tokenString:
			key, _ = p.curToken.Literal.(string)
		default:
			p.errorExpected(p.curToken, "dictionary key")
			return nil
		}
		if !p.expectPeek(tokenColon) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value == nil {
			return nil
		}
		entries = append(entries, DictEntry{Key: key, Value: value})
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(tokenRBrace) {
		return nil
	}
	return &DictExpr{Brace: brace, Entries: entries, id: nextNodeID()}
}

func (p *parser) parseFunctionLiteral() Expr {
	keyword := p.curToken
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	body, ok := p.parseBlockBody()
	if !ok {
		return nil
	}
	return &FunctionExpr{Keyword: keyword, Params: params, Body: body, id: nextNodeID()}
}
