package parser

import (
	"strconv"
	"strings"
)

type Lexer struct {
	input    []byte
	file     string
	pos      int
	line     int
	column   int
	comments []Token
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// Comments returns the line comments scanned so far, in source order.
func (l *Lexer) Comments() []Token {
	return l.comments
}

// skipTrivia skips whitespace and // line comments. Comments are recorded
// as TokenLineComment tokens.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			start := l.Position()
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			tok := l.token(TokenLineComment, start)
			tok.Lexeme = strings.TrimRight(tok.Lexeme, " \t\r")
			l.comments = append(l.comments, tok)
		default:
			return
		}
	}
}

// NextToken returns the next token. At the end of input it keeps
// returning EOF tokens. Characters that start no token produce a
// TokenError token holding the offending character.
func (l *Lexer) NextToken() Token {
	l.skipTrivia()
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case isLetter(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch):
		return l.scanNumber(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	text := string(l.input[start.Offset:l.pos])
	return l.token(LookupKeyword(text), start)
}

func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	tok := l.token(TokenNumber, start)
	value, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		tok.Kind = TokenError
		return tok
	}
	tok.Literal = value
	return tok
}

var operators = map[byte]TokenKind{
	';': TokenSemicolon,
	'=': TokenAssign,
	'-': TokenMinus,
	'*': TokenStar,
	'^': TokenCaret,
	'(': TokenLParen,
	')': TokenRParen,
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.advance()
	if kind, ok := operators[ch]; ok {
		return l.token(kind, start)
	}
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:   kind,
		Span:   Span{Start: start, End: l.Position()},
		Lexeme: string(l.input[start.Offset:l.pos]),
	}
}

// Tokenize scans the whole input. The returned slice always ends with an
// EOF token unless a *LexError is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenError {
			return tokens, &LexError{Pos: tok.Pos(), Text: tok.Lexeme}
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
