package yun

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type scanner struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch  rune
	eof bool

	tokens []Token
	errs   DiagnosticList
}

// ScanTokens converts source text into a token slice terminated by EOF.
// Lexical errors do not stop the scan; they are returned together as a
// DiagnosticList once the whole input has been read.
func ScanTokens(source string) ([]Token, error) {
	s := newScanner(source)
	for {
		s.skipWhitespaceAndComments()
		if s.eof {
			s.tokens = append(s.tokens, Token{Type: tokenEOF, Pos: s.here()})
			break
		}
		s.scanToken()
	}
	if err := s.errs.err(); err != nil {
		return nil, err
	}
	return s.tokens, nil
}

func newScanner(input string) *scanner {
	s := &scanner{input: input, line: 1, column: 0}
	s.readRune()
	return s
}

func (s *scanner) readRune() {
	if s.offset >= len(s.input) {
		if !s.eof {
			s.column++
		}
		s.width = 0
		s.ch = 0
		s.eof = true
		return
	}

	r, w := utf8.DecodeRuneInString(s.input[s.offset:])
	s.width = w
	s.offset += w

	if s.ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}

	s.ch = r
}

func (s *scanner) peekRune() rune {
	if s.offset >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])
	return r
}

// cursor is the byte offset of the current rune.
func (s *scanner) cursor() int {
	return s.offset - s.width
}

func (s *scanner) here() Position {
	return Position{Line: s.line, Column: s.column}
}

func (s *scanner) emit(tt TokenType, start int, pos Position, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  s.input[start:s.cursor()],
		Literal: literal,
		Pos:     pos,
	})
}

func (s *scanner) addError(pos Position, msg string) {
	s.errs = append(s.errs, &Diagnostic{Kind: LexError, Pos: pos, Message: msg})
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.eof {
		switch {
		case s.ch == ' ' || s.ch == '\t' || s.ch == '\r' || s.ch == '\n':
			s.readRune()
		case s.ch == '/' && s.peekRune() == '/':
			for !s.eof && s.ch != '\n' {
				s.readRune()
			}
		case s.ch == '/' && s.peekRune() == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *scanner) skipBlockComment() {
	pos := s.here()
	s.readRune()
	s.readRune()
	for !s.eof {
		if s.ch == '*' && s.peekRune() == '/' {
			s.readRune()
			s.readRune()
			return
		}
		s.readRune()
	}
	s.addError(pos, "unterminated block comment")
}

func (s *scanner) scanToken() {
	pos := s.here()
	start := s.cursor()
	ch := s.ch

	switch {
	case isIdentStart(ch):
		s.readIdentifier(start, pos)
		return
	case isDigit(ch):
		s.readNumber(start, pos)
		return
	case ch == '"':
		s.readString(start, pos)
		return
	}

	s.readRune()
	switch ch {
	case '(':
		s.emit(tokenLParen, start, pos, nil)
	case ')':
		s.emit(tokenRParen, start, pos, nil)
	case '{':
		s.emit(tokenLBrace, start, pos, nil)
	case '}':
		s.emit(tokenRBrace, start, pos, nil)
	case '[':
		s.emit(tokenLBracket, start, pos, nil)
	case ']':
		s.emit(tokenRBracket, start, pos, nil)
	case ',':
		s.emit(tokenComma, start, pos, nil)
	case '.':
		s.emit(tokenDot, start, pos, nil)
	case ':':
		s.emit(tokenColon, start, pos, nil)
	case ';':
		s.emit(tokenSemicolon, start, pos, nil)
	case '+':
		s.emit(tokenPlus, start, pos, nil)
	case '-':
		s.emit(tokenMinus, start, pos, nil)
	case '*':
		s.emit(tokenAsterisk, start, pos, nil)
	case '/':
		s.emit(tokenSlash, start, pos, nil)
	case '!':
		s.emitWithEquals(tokenBang, tokenNotEQ, start, pos)
	case '=':
		s.emitWithEquals(tokenAssign, tokenEQ, start, pos)
	case '<':
		s.emitWithEquals(tokenLT, tokenLTE, start, pos)
	case '>':
		s.emitWithEquals(tokenGT, tokenGTE, start, pos)
	default:
		s.addError(pos, fmt.Sprintf("unexpected character '%c'", ch))
	}
}

func (s *scanner) emitWithEquals(single, double TokenType, start int, pos Position) {
	if !s.eof && s.ch == '=' {
		s.readRune()
		s.emit(double, start, pos, nil)
		return
	}
	s.emit(single, start, pos, nil)
}

func (s *scanner) readIdentifier(start int, pos Position) {
	for !s.eof && (isIdentStart(s.ch) || isDigit(s.ch)) {
		s.readRune()
	}
	lexeme := s.input[start:s.cursor()]
	s.emit(lookupIdent(lexeme), start, pos, nil)
}

func (s *scanner) readNumber(start int, pos Position) {
	for !s.eof && isDigit(s.ch) {
		s.readRune()
	}
	if s.ch == '.' && isDigit(s.peekRune()) {
		s.readRune()
		for !s.eof && isDigit(s.ch) {
			s.readRune()
		}
	}
	lexeme := s.input[start:s.cursor()]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		s.addError(pos, fmt.Sprintf("invalid number literal '%s'", lexeme))
		return
	}
	s.emit(tokenNumber, start, pos, value)
}

func (s *scanner) readString(start int, pos Position) {
	var b strings.Builder
	s.readRune()
	for {
		if s.eof {
			s.addError(pos, "unterminated string")
			return
		}
		if s.ch == '"' {
			s.readRune()
			break
		}
		if s.ch == '\\' {
			s.readRune()
			if s.eof {
				continue
			}
			switch s.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteRune(s.ch)
			}
			s.readRune()
			continue
		}
		b.WriteRune(s.ch)
		s.readRune()
	}
	s.emit(tokenString, start, pos, b.String())
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
