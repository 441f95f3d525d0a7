package parser

import (
	"github.com/dhamidi/tila/grammar"
	"github.com/dhamidi/tila/ll1"
)

type Option func(*Parser)

// MaxDepth bounds how deeply groups, unary minus, exponent chains and
// loops may nest.
const MaxDepth = 1000

// WithFile sets the file name reported for positions the token stream
// does not cover.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser is a recursive-descent parser for Tila with one procedure per
// nonterminal. Branches are chosen with one token of lookahead using the
// FIRST+ sets of the shared grammar analysis. The first error ends the
// parse.
type Parser struct {
	file     string
	tokens   []Token
	pos      int
	depth    int
	grammar  *grammar.Grammar
	analysis *ll1.Analysis
}

// New creates a parser over tokens, which should end with an EOF token.
// The slice is never modified.
func New(tokens []Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		grammar:  Grammar(),
		analysis: Analysis(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSource lexes and parses a complete program.
func ParseSource(src []byte, file string) (*Node, error) {
	tokens, err := NewLexer(src, file).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens, WithFile(file)).Parse()
}

// Parse parses a Program followed by the end of input. On error no tree
// is returned.
func (p *Parser) Parse() (*Node, error) {
	p.pos = 0
	p.depth = 0
	node, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

func (p *Parser) eof() Token {
	pos := Position{File: p.file, Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Span.End
	}
	return Token{Kind: TokenEOF, Span: Span{Start: pos, End: pos}}
}

func (p *Parser) previous() Token {
	if p.pos == 0 || p.pos > len(p.tokens) {
		return p.peek()
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expect(kind TokenKind) (*Token, error) {
	if p.check(kind) {
		tok := p.advance()
		return &tok, nil
	}
	return nil, p.errorExpected(ll1.NewSet(kind.Symbol()))
}

// predict chooses the alternative of nt to parse and returns its ordinal
// among nt's productions. When the lookahead selects nothing but nt can
// derive the empty sequence, the empty alternative is taken and the
// mismatch is left to the caller.
func (p *Parser) predict(nt grammar.Symbol) (int, error) {
	prod, ok := p.analysis.Predict(nt, p.peek().Kind.Symbol())
	if !ok {
		prod, ok = p.analysis.EmptyAlternative(nt)
	}
	if !ok {
		return -1, p.errorExpected(p.analysis.Expected(nt))
	}
	for i, idx := range p.grammar.Alternatives(nt) {
		if idx == prod {
			return i, nil
		}
	}
	return -1, p.errorExpected(p.analysis.Expected(nt))
}

func (p *Parser) errorExpected(expected ll1.Set) error {
	tok := p.peek()
	kind := UnexpectedToken
	if tok.Kind == TokenEOF {
		kind = UnterminatedConstruct
	}
	var names []string
	for _, sym := range expected.Sorted() {
		if sym != grammar.Epsilon {
			names = append(names, sym.Name)
		}
	}
	return &SyntaxError{
		Kind:     kind,
		Pos:      tok.Pos(),
		Expected: names,
		Found:    tok,
	}
}

// nest enters one more level of nesting. Callers that succeed must call
// unnest when the nested construct is done.
func (p *Parser) nest() error {
	p.depth++
	if p.depth > MaxDepth {
		tok := p.peek()
		return &SyntaxError{Kind: NestingTooDeep, Pos: tok.Pos(), Found: tok}
	}
	return nil
}

func (p *Parser) unnest() {
	p.depth--
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	n.Span.End = p.previous().Span.End
	if p.pos == 0 {
		n.Span.End = n.Span.Start
	}
	return n
}

func (p *Parser) epsilon() *Node {
	start := p.peek().Span.Start
	return &Node{Kind: KindEpsilon, Span: Span{Start: start, End: start}}
}

// Program -> "begin" StatementList "end"
func (p *Parser) parseProgram() (*Node, error) {
	node := p.startNode(KindProgram)

	begin, err := p.expect(TokenBegin)
	if err != nil {
		return nil, err
	}
	node.Token = begin

	body, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	node.Children = []*Node{body}

	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}
	p.finishNode(node)

	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}
	return node, nil
}

// StatementList -> Statement StatementTail
// StatementTail -> ";" StatementList | ε
//
// A list holding only empty statements collapses to Epsilon, so
// "x = 1; end" and "x = 1 end" produce the same tree.
func (p *Parser) parseStatementList() (*Node, error) {
	var lists, stmts []*Node
	for {
		list := p.startNode(KindStatementList)
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
		stmts = append(stmts, stmt)

		alt, err := p.predict(symStatementTail)
		if err != nil {
			return nil, err
		}
		if alt != 0 {
			break
		}
		p.advance()
	}

	rest := p.epsilon()
	for i := len(lists) - 1; i >= 0; i-- {
		if stmts[i].IsEpsilon() && rest.IsEpsilon() {
			rest = stmts[i]
			continue
		}
		lists[i].Children = []*Node{stmts[i], rest}
		rest = p.finishNode(lists[i])
	}
	return rest, nil
}

// Statement -> Declaration | Assignment | Loop | "print" Expr
func (p *Parser) parseStatement() (*Node, error) {
	alt, err := p.predict(symStatement)
	if err != nil {
		return nil, err
	}
	switch alt {
	case 0:
		return p.parseDeclaration()
	case 1:
		return p.parseAssignment()
	case 2:
		return p.parseLoop()
	}

	node := p.startNode(KindPrint)
	tok := p.advance()
	node.Token = &tok
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	node.Children = []*Node{value}
	return p.finishNode(node), nil
}

// Declaration -> "int" ident Declaration | ε
func (p *Parser) parseDeclaration() (*Node, error) {
	var chain []*Node
	for {
		alt, err := p.predict(symDeclaration)
		if err != nil {
			return nil, err
		}
		if alt == 1 {
			break
		}

		node := p.startNode(KindDeclaration)
		typ := p.advance()
		node.Token = &typ
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		node.Name = name
		chain = append(chain, node)
	}

	rest := p.epsilon()
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].Children = []*Node{rest}
		rest = p.finishNode(chain[i])
	}
	return rest, nil
}

// Assignment -> ident "=" Expr
func (p *Parser) parseAssignment() (*Node, error) {
	node := p.startNode(KindAssignment)
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	node.Name = name
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	node.Children = []*Node{value}
	return p.finishNode(node), nil
}

// Loop -> "while" Expr "do" "begin" StatementList "end"
func (p *Parser) parseLoop() (*Node, error) {
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()

	node := p.startNode(KindLoop)
	while, err := p.expect(TokenWhile)
	if err != nil {
		return nil, err
	}
	node.Token = while

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenDo); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenBegin); err != nil {
		return nil, err
	}
	body, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}
	node.Children = []*Node{cond, body}
	return p.finishNode(node), nil
}

// Expr -> Term ExprTail
// ExprTail -> "-" Term | ε
func (p *Parser) parseExpr() (*Node, error) {
	start := p.peek().Span.Start
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	alt, err := p.predict(symExprTail)
	if err != nil {
		return nil, err
	}
	if alt == 1 {
		return left, nil
	}
	op := p.advance()
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return p.binary(start, op, left, right), nil
}

// Term -> Factor TermTail
// TermTail -> "*" Factor | ε
func (p *Parser) parseTerm() (*Node, error) {
	start := p.peek().Span.Start
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	alt, err := p.predict(symTermTail)
	if err != nil {
		return nil, err
	}
	if alt == 1 {
		return left, nil
	}
	op := p.advance()
	right, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return p.binary(start, op, left, right), nil
}

// Factor -> Primary FactorTail
// FactorTail -> "^" Factor | ε
func (p *Parser) parseFactor() (*Node, error) {
	start := p.peek().Span.Start
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	alt, err := p.predict(symFactorTail)
	if err != nil {
		return nil, err
	}
	if alt == 1 {
		return base, nil
	}
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()
	op := p.advance()
	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return p.binary(start, op, base, exponent), nil
}

func (p *Parser) binary(start Position, op Token, left, right *Node) *Node {
	node := &Node{
		Kind:     KindBinaryOp,
		Span:     Span{Start: start},
		Token:    &op,
		Children: []*Node{left, right},
	}
	return p.finishNode(node)
}

// Primary -> "(" Expr ")" | "-" Primary | ident | number
func (p *Parser) parsePrimary() (*Node, error) {
	alt, err := p.predict(symPrimary)
	if err != nil {
		return nil, err
	}
	if alt == 0 || alt == 1 {
		if err := p.nest(); err != nil {
			return nil, err
		}
		defer p.unnest()
	}

	switch alt {
	case 0:
		node := p.startNode(KindGrouping)
		open := p.advance()
		node.Token = &open
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		node.Children = []*Node{inner}
		return p.finishNode(node), nil

	case 1:
		node := p.startNode(KindUnaryOp)
		op := p.advance()
		node.Token = &op
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		node.Children = []*Node{operand}
		return p.finishNode(node), nil

	case 2:
		node := p.startNode(KindVariable)
		tok := p.advance()
		node.Token = &tok
		return p.finishNode(node), nil
	}

	node := p.startNode(KindLiteral)
	tok := p.advance()
	node.Token = &tok
	return p.finishNode(node), nil
}
