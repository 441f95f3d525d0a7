package parse

import (
	"fmt"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/tila/ebnflex"
	"github.com/dhamidi/tila/grammar"
)

// Parser couples an EBNF grammar with the lexer and the Earley parser
// derived from it, so source text can be parsed in one call.
type Parser struct {
	source  ebnf.Grammar
	grammar *grammar.Grammar
	lexOpts []ebnflex.Option
}

// NewParser converts src to a grammar rooted at start. Lexer options are
// applied to every Parse call.
func NewParser(src ebnf.Grammar, start string, opts ...ebnflex.Option) (*Parser, error) {
	if err := ebnf.Verify(src, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	g, err := grammar.Convert(src, start)
	if err != nil {
		return nil, err
	}
	return &Parser{source: src, grammar: g, lexOpts: opts}, nil
}

// Load reads an EBNF grammar file and creates a parser for it.
func Load(filename, start string, opts ...ebnflex.Option) (*Parser, error) {
	src, err := ebnflex.LoadGrammar(filename)
	if err != nil {
		return nil, err
	}
	return NewParser(src, start, opts...)
}

// Grammar returns the converted grammar the parser recognises.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Tokenize scans input with the grammar's lexical productions.
func (p *Parser) Tokenize(input []byte, filename string) ([]ebnflex.Token, error) {
	tokens, err := ebnflex.NewLexer(p.source, input, filename, p.lexOpts...).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return tokens, nil
}

// Recognize reports whether input is a sentence of the grammar.
func (p *Parser) Recognize(input []byte, filename string) error {
	tokens, err := p.Tokenize(input, filename)
	if err != nil {
		return err
	}
	return NewEarleyParser(p.grammar, tokens).Recognize()
}

// Parse tokenizes and parses input, returning its concrete syntax tree.
func (p *Parser) Parse(input []byte, filename string) (*Node, error) {
	tokens, err := p.Tokenize(input, filename)
	if err != nil {
		return nil, err
	}
	return ParseTokens(p.grammar, tokens)
}

// ParseTokens is a convenience function to parse tokens with a grammar
// using Earley parsing.
func ParseTokens(g *grammar.Grammar, tokens []ebnflex.Token) (*Node, error) {
	return NewEarleyParser(g, tokens).ParseToCST()
}
