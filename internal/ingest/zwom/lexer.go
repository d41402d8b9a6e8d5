package zwom

import (
	"fmt"
	"strings"
)

// tokenKind enumerates the lexical tokens of the ZWOM grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord           // uppercase keyword or zone name: META, SS, Z1
	tokInt            // bare integer: 165
	tokPercent        // percent literal: 65%
	tokDuration       // clock literal: 11:06
	tokString         // quoted string, may span lines
	tokLBrace         // {
	tokRBrace         // }
	tokComma          // ,
	tokArrow          // ->
	tokAt             // @
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "keyword"
	case tokInt:
		return "integer"
	case tokPercent:
		return "percentage"
	case tokDuration:
		return "duration"
	case tokString:
		return "quoted string"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokComma:
		return "','"
	case tokArrow:
		return "'->'"
	case tokAt:
		return "'@'"
	}
	return "unknown token"
}

// position is a 1-indexed source location.
type position struct {
	Line   int
	Column int
}

// token is one lexical unit with its source position. Numeric literals are
// pre-converted: Num holds the integer or percent numerator, Num/Num2 hold
// minutes/seconds for durations.
type token struct {
	Kind tokenKind
	Text string
	Num  int
	Num2 int
	Pos  position
}

// SyntaxError reports input that does not match the ZWOM grammar, with the
// source position of the first offending character or token.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func syntaxErrorf(pos position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: pos.Line, Column: pos.Column, Msg: fmt.Sprintf(format, args...)}
}

// lexer scans ZWOM source into tokens. Whitespace and comments (";" to end
// of line) carry no semantic content and are discarded here, which makes
// them legal at any position the grammar allows them.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() position { return position{Line: l.line, Column: l.col} }

// peek returns the current byte without consuming it, or 0 at end of input.
func (l *lexer) peek() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) peekAt(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == ';':
			for l.off < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// next scans the next token.
func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	start := l.pos()

	if l.off >= len(l.src) {
		return token{Kind: tokEOF, Pos: start}, nil
	}

	c := l.peek()
	switch {
	case c == '{':
		l.advance()
		return token{Kind: tokLBrace, Text: "{", Pos: start}, nil
	case c == '}':
		l.advance()
		return token{Kind: tokRBrace, Text: "}", Pos: start}, nil
	case c == ',':
		l.advance()
		return token{Kind: tokComma, Text: ",", Pos: start}, nil
	case c == '@':
		l.advance()
		return token{Kind: tokAt, Text: "@", Pos: start}, nil
	case c == '-':
		if l.peekAt(1) != '>' {
			return token{}, syntaxErrorf(start, "unexpected character '-'")
		}
		l.advance()
		l.advance()
		return token{Kind: tokArrow, Text: "->", Pos: start}, nil
	case c == '"':
		return l.scanString(start)
	case c >= '0' && c <= '9':
		return l.scanNumber(start)
	case c >= 'A' && c <= 'Z':
		return l.scanWord(start)
	}
	return token{}, syntaxErrorf(start, "unexpected character %q", string(c))
}

// scanString consumes a quoted string literal. The grammar has no escape
// sequences: the literal runs to the next double quote and may span lines.
func (l *lexer) scanString(start position) (token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.off >= len(l.src) {
			return token{}, syntaxErrorf(start, "unterminated string")
		}
		c := l.advance()
		if c == '"' {
			break
		}
		sb.WriteByte(c)
	}
	if sb.Len() == 0 {
		return token{}, syntaxErrorf(start, "empty string")
	}
	return token{Kind: tokString, Text: sb.String(), Pos: start}, nil
}

// scanNumber consumes an integer and, when immediately followed by '%' or
// by ':' and more digits, extends it into a percent or duration literal.
func (l *lexer) scanNumber(start position) (token, error) {
	first := l.scanDigits()

	switch {
	case l.peek() == '%':
		l.advance()
		return token{Kind: tokPercent, Num: first, Pos: start}, nil
	case l.peek() == ':' && isDigit(l.peekAt(1)):
		l.advance() // ':'
		second := l.scanDigits()
		return token{Kind: tokDuration, Num: first, Num2: second, Pos: start}, nil
	}
	return token{Kind: tokInt, Num: first, Pos: start}, nil
}

func (l *lexer) scanDigits() int {
	n := 0
	for isDigit(l.peek()) {
		n = n*10 + int(l.advance()-'0')
	}
	return n
}

func (l *lexer) scanWord(start position) (token, error) {
	var sb strings.Builder
	for {
		c := l.peek()
		if (c >= 'A' && c <= 'Z') || c == '_' || isDigit(c) {
			sb.WriteByte(l.advance())
			continue
		}
		break
	}
	return token{Kind: tokWord, Text: sb.String(), Pos: start}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
