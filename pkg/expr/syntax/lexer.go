package syntax

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokInt:      "integer",
	tokIdent:    "identifier",
	tokPlus:     "'+'",
	tokMinus:    "'-'",
	tokStar:     "'*'",
	tokSlash:    "'/'",
	tokCaret:    "'^'",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokComma:    "','",
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func (t token) describe() string {
	switch t.kind {
	case tokInt, tokIdent:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	}
	return t.kind.String()
}

type lexer struct {
	input  string
	offset int
	line   int
	column int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, column: 1}
}

func (l *lexer) pos() Position {
	return Position{Offset: l.offset, Line: l.line, Column: l.column}
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) skipSpace() {
	for l.offset < len(l.input) && unicode.IsSpace(l.peekRune()) {
		l.advance()
	}
}

var punctuation = map[rune]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBracket,
	']': tokRBracket,
	',': tokComma,
}

// next returns the next token or a syntax error.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos()
	if l.offset >= len(l.input) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r := l.peekRune()
	switch {
	case isDigit(r):
		for l.offset < len(l.input) && isDigit(l.peekRune()) {
			l.advance()
		}
		if l.peekRune() == '.' {
			return token{}, syntaxError(start, "real number literals are not supported")
		}
		return token{kind: tokInt, text: l.input[start.Offset:l.offset], pos: start}, nil

	case isIdentStart(r):
		for l.offset < len(l.input) && isIdentPart(l.peekRune()) {
			l.advance()
		}
		return token{kind: tokIdent, text: l.input[start.Offset:l.offset], pos: start}, nil
	}

	if kind, ok := punctuation[r]; ok {
		l.advance()
		return token{kind: kind, text: string(r), pos: start}, nil
	}

	return token{}, syntaxError(start, fmt.Sprintf("unexpected character %q", r))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
