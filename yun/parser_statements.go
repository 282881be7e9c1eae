package yun

const maxCallArgs = 255

// parseDeclaration parses one declaration and recovers from any syntax
// error inside it. Only the first error of a statement is recorded.
func (p *parser) parseDeclaration() Stmt {
	saved := p.failed
	p.failed = false
	stmt := p.parseDeclarationBody()
	failed := p.failed
	p.failed = saved
	if failed {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) parseDeclarationBody() Stmt {
	switch p.curToken.Type {
	case tokenExport:
		return p.parseExportStatement()
	case tokenClass:
		return p.parseClassDeclaration()
	case tokenFn:
		if p.peekToken.Type == tokenIdent {
			return p.parseFunctionDeclaration()
		}
	case tokenLet:
		return p.parseLetStatement()
	case tokenIdent:
		if isDeclarativeWord(p.curToken.Lexeme) && p.peekToken.Type == tokenIdent {
			return p.parseDeclarativeStatement()
		}
	}
	return p.parseStatement()
}

func (p *parser) parseStatement() Stmt {
	switch p.curToken.Type {
	case tokenPrint:
		return p.parsePrintStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenUse:
		return p.parseUseStatement()
	case tokenLBrace:
		pos := p.curToken.Pos
		body, ok := p.parseBlockBody()
		if !ok {
			return nil
		}
		return &BlockStmt{Statements: body, id: nextNodeID(), position: pos}
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseExportStatement() Stmt {
	keyword := p.curToken
	p.nextToken()
	if p.curToken.Type == tokenExport {
		p.errorUnexpected(p.curToken)
		return nil
	}
	inner := p.parseDeclarationBody()
	if inner == nil {
		return nil
	}
	return &ExportStmt{Keyword: keyword, Inner: inner, id: nextNodeID()}
}

func (p *parser) parseFunctionDeclaration() Stmt {
	p.nextToken()
	fn := p.parseFunctionRest(p.curToken)
	if fn == nil {
		return nil
	}
	return fn
}

// parseFunctionRest parses the parameter list and body that follow name.
func (p *parser) parseFunctionRest(name Token) *FunctionStmt {
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
	return &FunctionStmt{Name: name, Params: params, Body: body, id: nextNodeID()}
}

func (p *parser) parseParameters() ([]Token, bool) {
	params := []Token{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return params, true
	}
	if !p.expectPeek(tokenIdent) {
		return nil, false
	}
	params = append(params, p.curToken)
	for p.peekToken.Type == tokenComma {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil, false
		}
		if len(params) >= maxCallArgs {
			p.addParseError(p.curToken, "too many parameters")
			return nil, false
		}
		params = append(params, p.curToken)
	}
	if !p.expectPeek(tokenRParen) {
		return nil, false
	}
	return params, true
}

// parseBlockBody expects the current token to be `{` and leaves the
// parser on the closing `}`.
func (p *parser) parseBlockBody() ([]Stmt, bool) {
	stmts := []Stmt{}
	p.nextToken()
	for p.curToken.Type != tokenRBrace && p.curToken.Type != tokenEOF {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	if p.curToken.Type != tokenRBrace {
		p.errorExpected(p.curToken, "'}'")
		return nil, false
	}
	return stmts, true
}

func (p *parser) parseClassDeclaration() Stmt {
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken

	var superclass Expr
	if p.peekToken.Type == tokenLT {
		p.nextToken()
		p.nextToken()
		superclass = p.parseExpression(lowestPrec)
		if superclass == nil {
			return nil
		}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}

	methods := []*FunctionStmt{}
	p.nextToken()
	for p.curToken.Type != tokenRBrace && p.curToken.Type != tokenEOF {
		if p.curToken.Type == tokenFn {
			p.nextToken()
		}
		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "method name")
			return nil
		}
		method := p.parseFunctionRest(p.curToken)
		if method == nil {
			return nil
		}
		method.IsInit = method.Name.Lexeme == "init"
		methods = append(methods, method)
		p.nextToken()
	}
	if p.curToken.Type != tokenRBrace {
		p.errorExpected(p.curToken, "'}' after class body")
		return nil
	}

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods, id: nextNodeID()}
}

func (p *parser) parseLetStatement() Stmt {
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken

	var initializer Expr
	if p.peekToken.Type == tokenAssign {
		p.nextToken()
		p.nextToken()
		initializer = p.parseExpression(lowestPrec)
		if initializer == nil {
			return nil
		}
	}

	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &LetStmt{Name: name, Initializer: initializer, id: nextNodeID()}
}

func (p *parser) parseDeclarativeStatement() Stmt {
	keyword := p.curToken
	p.nextToken()
	name := p.curToken
	if !p.expectPeek(tokenAssign) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &DeclarativeStmt{Keyword: keyword, Name: name, Value: value, id: nextNodeID()}
}

func (p *parser) parsePrintStatement() Stmt {
	keyword := p.curToken
	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &PrintStmt{Keyword: keyword, Expr: expr, id: nextNodeID()}
}

func (p *parser) parseIfStatement() Stmt {
	keyword := p.curToken
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}

	p.nextToken()
	then := p.parseStatement()
	if then == nil {
		return nil
	}

	var alternate Stmt
	if p.peekToken.Type == tokenElse {
		p.nextToken()
		p.nextToken()
		alternate = p.parseStatement()
		if alternate == nil {
			return nil
		}
	}

	return &IfStmt{Keyword: keyword, Condition: condition, Then: then, Else: alternate, id: nextNodeID()}
}

func (p *parser) parseWhileStatement() Stmt {
	keyword := p.curToken
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}

	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return &WhileStmt{Keyword: keyword, Condition: condition, Body: body, id: nextNodeID()}
}

// parseCondition parses a parenthesised condition and leaves the parser on `)`.
func (p *parser) parseCondition() Expr {
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return condition
}

func (p *parser) parseReturnStatement() Stmt {
	keyword := p.curToken
	if p.peekToken.Type == tokenSemicolon {
		p.nextToken()
		return &ReturnStmt{Keyword: keyword, id: nextNodeID()}
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ReturnStmt{Keyword: keyword, Value: value, id: nextNodeID()}
}

func (p *parser) parseUseStatement() Stmt {
	keyword := p.curToken
	p.nextToken()
	if p.curToken.Type != tokenString && p.curToken.Type != tokenIdent {
		p.errorExpected(p.curToken, "module name")
		return nil
	}
	path := p.curToken
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &UseStmt{Keyword: keyword, Path: path, id: nextNodeID()}
}

func (p *parser) parseExpressionStatement() Stmt {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ExpressionStmt{Expr: expr, id: nextNodeID()}
}
