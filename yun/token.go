package yun

import "strings"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenEOF TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenNumber TokenType = "NUMBER"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenBang     TokenType = "!"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="

	tokenComma     TokenType = ","
	tokenColon     TokenType = ":"
	tokenSemicolon TokenType = ";"
	tokenDot       TokenType = "."
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenAnd    TokenType = "AND"
	tokenOr     TokenType = "OR"
	tokenClass  TokenType = "CLASS"
	tokenElse   TokenType = "ELSE"
	tokenFalse  TokenType = "FALSE"
	tokenTrue   TokenType = "TRUE"
	tokenNil    TokenType = "NIL"
	tokenFn     TokenType = "FN"
	tokenIf     TokenType = "IF"
	tokenLet    TokenType = "LET"
	tokenPrint  TokenType = "PRINT"
	tokenReturn TokenType = "RETURN"
	tokenSuper  TokenType = "SUPER"
	tokenSelf   TokenType = "SELF"
	tokenWhile  TokenType = "WHILE"
	tokenExport TokenType = "EXPORT"
	tokenUse    TokenType = "USE"
)

// Declarative statement words. They are only keywords when an identifier
// follows, so scripts can still call the render native.
const (
	declBuffer   = "buffer"
	declPipeline = "pipeline"
	declRender   = "render"
)

// Position marks a 1-based line and column in the source.
type Position struct {
	Line   int
	Column int
}

// Token is a single lexeme produced by the scanner.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Pos     Position
}

func lookupIdent(ident string) TokenType {
	switch ident {
	case "and":
		return tokenAnd
	case "or":
		return tokenOr
	case "class":
		return tokenClass
	case "else":
		return tokenElse
	case "false":
		return tokenFalse
	case "true":
		return tokenTrue
	case "nil":
		return tokenNil
	case "fn":
		return tokenFn
	case "if":
		return tokenIf
	case "let":
		return tokenLet
	case "print":
		return tokenPrint
	case "return":
		return tokenReturn
	case "super":
		return tokenSuper
	case "self":
		return tokenSelf
	case "while":
		return tokenWhile
	case "export":
		return tokenExport
	case "use":
		return tokenUse
	default:
		return tokenIdent
	}
}

func isDeclarativeWord(lexeme string) bool {
	switch lexeme {
	case declBuffer, declPipeline, declRender:
		return true
	default:
		return false
	}
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenString:
		return "string"
	default:
		return "'" + strings.ToLower(string(tt)) + "'"
	}
}
