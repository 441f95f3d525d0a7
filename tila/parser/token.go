package parser

import (
	"fmt"

	"github.com/dhamidi/tila/grammar"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenIdent
	TokenNumber

	// Keywords
	TokenBegin
	TokenEnd
	TokenInt
	TokenPrint
	TokenWhile
	TokenDo

	// Punctuation and operators
	TokenSemicolon
	TokenAssign
	TokenMinus
	TokenStar
	TokenCaret
	TokenLParen
	TokenRParen

	// Trivia, kept beside the token stream
	TokenLineComment
)

// tokenKindNames doubles as the terminal names of the Tila grammar.
var tokenKindNames = map[TokenKind]string{
	TokenEOF:       "EOF",
	TokenError:     "ERROR",
	TokenIdent:     "ident",
	TokenNumber:    "number",
	TokenBegin:     "begin",
	TokenEnd:       "end",
	TokenInt:       "int",
	TokenPrint:     "print",
	TokenWhile:     "while",
	TokenDo:        "do",
	TokenSemicolon: ";",
	TokenAssign:    "=",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenCaret:     "^",
	TokenLParen:    "(",
	TokenRParen:    ")",

	TokenLineComment: "comment",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Symbol returns the grammar terminal matched by tokens of this kind.
func (k TokenKind) Symbol() grammar.Symbol {
	if k == TokenEOF {
		return grammar.EndOfInput
	}
	return grammar.Terminal(k.String())
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenBegin && k <= TokenDo
}

var keywords = map[string]TokenKind{
	"begin": TokenBegin,
	"end":   TokenEnd,
	"int":   TokenInt,
	"print": TokenPrint,
	"while": TokenWhile,
	"do":    TokenDo,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// Token is a lexical token. Literal holds the float64 value of number
// tokens and is nil otherwise.
type Token struct {
	Kind    TokenKind
	Span    Span
	Lexeme  string
	Literal any
}

func (t Token) Pos() Position {
	return t.Span.Start
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	case TokenNumber:
		return fmt.Sprintf("number %s", t.Lexeme)
	}
	return fmt.Sprintf("%q", t.Lexeme)
}
