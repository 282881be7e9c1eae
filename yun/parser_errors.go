package yun

import "fmt"

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok.Type)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok, fmt.Sprintf("unexpected token %s", tokenLabel(tok.Type)))
}

// addParseError records only the first error of the current statement.
func (p *parser) addParseError(tok Token, msg string) {
	if p.failed {
		return
	}
	p.failed = true
	p.errs = append(p.errs, diagnosticAt(SyntaxError, tok, msg))
}
