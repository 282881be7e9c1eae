package yun

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type scannedToken struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

func scanShape(t *testing.T, source string) []scannedToken {
	t.Helper()
	tokens, err := ScanTokens(source)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	shape := make([]scannedToken, len(tokens))
	for i, tok := range tokens {
		shape[i] = scannedToken{tok.Type, tok.Lexeme, tok.Pos.Line, tok.Pos.Column}
	}
	return shape
}

func TestScanTokensPositions(t *testing.T) {
	got := scanShape(t, "let x = 1;\nprint x >= 2.5;")
	want := []scannedToken{
		{tokenLet, "let", 1, 1},
		{tokenIdent, "x", 1, 5},
		{tokenAssign, "=", 1, 7},
		{tokenNumber, "1", 1, 9},
		{tokenSemicolon, ";", 1, 10},
		{tokenPrint, "print", 2, 1},
		{tokenIdent, "x", 2, 7},
		{tokenGTE, ">=", 2, 9},
		{tokenNumber, "2.5", 2, 12},
		{tokenSemicolon, ";", 2, 15},
		{tokenEOF, "", 2, 16},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTokensOperatorsAndKeywords(t *testing.T) {
	got := scanShape(t, "a != b == c <= d < e > f ! g and h or i class B < A {} self super fn export use while if else nil true false return")
	var types []TokenType
	for _, tok := range got {
		types = append(types, tok.Type)
	}
	want := []TokenType{
		tokenIdent, tokenNotEQ, tokenIdent, tokenEQ, tokenIdent, tokenLTE, tokenIdent,
		tokenLT, tokenIdent, tokenGT, tokenIdent, tokenBang, tokenIdent, tokenAnd,
		tokenIdent, tokenOr, tokenIdent, tokenClass, tokenIdent, tokenLT, tokenIdent,
		tokenLBrace, tokenRBrace, tokenSelf, tokenSuper, tokenFn, tokenExport, tokenUse,
		tokenWhile, tokenIf, tokenElse, tokenNil, tokenTrue, tokenFalse, tokenReturn,
		tokenEOF,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTokensDeclarativeWordsAreIdentifiers(t *testing.T) {
	got := scanShape(t, "render frame = {};")
	if got[0].Type != tokenIdent || got[0].Lexeme != "render" {
		t.Fatalf("expected render to scan as an identifier, got %+v", got[0])
	}
}

func TestScanTokensLiterals(t *testing.T) {
	tokens, err := ScanTokens(`"a\tb\n" 42 3.25 "quote \" inside"`)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	var literals []any
	for _, tok := range tokens {
		if tok.Literal != nil {
			literals = append(literals, tok.Literal)
		}
	}
	want := []any{"a\tb\n", 42.0, 3.25, `quote " inside`}
	if diff := cmp.Diff(want, literals); diff != "" {
		t.Fatalf("literals mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTokensSkipsComments(t *testing.T) {
	got := scanShape(t, "// line comment\nlet /* inline\nblock */ x;")
	want := []scannedToken{
		{tokenLet, "let", 2, 1},
		{tokenIdent, "x", 3, 10},
		{tokenSemicolon, ";", 3, 11},
		{tokenEOF, "", 3, 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTokensNumberBeforeDot(t *testing.T) {
	got := scanShape(t, "1.foo")
	if got[0].Type != tokenNumber || got[0].Lexeme != "1" || got[1].Type != tokenDot {
		t.Fatalf("expected number then dot, got %+v", got)
	}
}

func TestScanTokensAggregatesErrors(t *testing.T) {
	_, err := ScanTokens("let a = 1 @ 2;\nlet b = #;\nprint \"open")
	var diags DiagnosticList
	if !errors.As(err, &diags) {
		t.Fatalf("expected DiagnosticList, got %T (%v)", err, err)
	}
	var got []string
	for _, d := range diags {
		got = append(got, d.Error())
	}
	want := []string{
		"[1:11] LexError: unexpected character '@'",
		"[2:9] LexError: unexpected character '#'",
		"[3:7] LexError: unterminated string",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTokensUnterminatedBlockComment(t *testing.T) {
	_, err := ScanTokens("let x; /* never closed")
	if err == nil {
		t.Fatalf("expected lex error")
	}
	if got, want := err.Error(), "[1:8] LexError: unterminated block comment"; got != want {
		t.Fatalf("unexpected error: %q, want %q", got, want)
	}
}
