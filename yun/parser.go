package yun

type (
	prefixParseFn func() Expr
	infixParseFn  func(Expr) Expr
)

type parser struct {
	tokens []Token
	next   int

	curToken  Token
	peekToken Token

	errs   DiagnosticList
	failed bool

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

// Parse builds the top-level statements of a script from its tokens. A
// syntax error abandons the current statement, skips to the next statement
// boundary and keeps going; all recorded errors are returned together and
// the partial tree is discarded.
func Parse(tokens []Token) ([]Stmt, error) {
	p := newParser(tokens)
	stmts := p.parseProgram()
	if err := p.errs.err(); err != nil {
		return nil, err
	}
	return stmts, nil
}

func newParser(tokens []Token) *parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenEOF {
		tokens = append(tokens, Token{Type: tokenEOF})
	}
	p := &parser{tokens: tokens}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseVariable)
	p.registerPrefix(tokenNumber, p.parseNumberLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNil, p.parseNilLiteral)
	p.registerPrefix(tokenSelf, p.parseSelf)
	p.registerPrefix(tokenSuper, p.parseSuper)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseListLiteral)
	p.registerPrefix(tokenLBrace, p.parseDictLiteral)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenFn, p.parseFunctionLiteral)

	p.infixFns[tokenAssign] = p.parseAssignExpression
	p.infixFns[tokenOr] = p.parseLogicalExpression
	p.infixFns[tokenAnd] = p.parseLogicalExpression
	p.infixFns[tokenPlus] = p.parseInfixExpression
	p.infixFns[tokenMinus] = p.parseInfixExpression
	p.infixFns[tokenSlash] = p.parseInfixExpression
	p.infixFns[tokenAsterisk] = p.parseInfixExpression
	p.infixFns[tokenEQ] = p.parseInfixExpression
	p.infixFns[tokenNotEQ] = p.parseInfixExpression
	p.infixFns[tokenLT] = p.parseInfixExpression
	p.infixFns[tokenLTE] = p.parseInfixExpression
	p.infixFns[tokenGT] = p.parseInfixExpression
	p.infixFns[tokenGTE] = p.parseInfixExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseMemberExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	if p.next < len(p.tokens) {
		p.peekToken = p.tokens[p.next]
		p.next++
	}
}

func (p *parser) parseProgram() []Stmt {
	stmts := []Stmt{}
	for p.curToken.Type != tokenEOF {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}

const (
	lowestPrec = iota
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precCall
)

var precedences = map[TokenType]int{
	tokenAssign:   precAssign,
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precEquality,
	tokenNotEQ:    precEquality,
	tokenLT:       precComparison,
	tokenLTE:      precComparison,
	tokenGT:       precComparison,
	tokenGTE:      precComparison,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenSlash:    precProduct,
	tokenAsterisk: precProduct,
	tokenLParen:   precCall,
	tokenDot:      precCall,
	tokenLBracket: precCall,
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tokenLabel(tt))
	return false
}

// synchronize skips ahead after a failed statement. It stops on a
// terminating semicolon, or just before a token that starts a statement
// or closes the enclosing block.
func (p *parser) synchronize() {
	for p.curToken.Type != tokenEOF {
		if p.curToken.Type == tokenSemicolon {
			return
		}
		switch p.peekToken.Type {
		case tokenClass, tokenFn, tokenLet, tokenIf, tokenWhile, tokenPrint,
			tokenReturn, tokenExport, tokenUse, tokenRBrace, tokenEOF:
			return
		}
		p.nextToken()
	}
}
