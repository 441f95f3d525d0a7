// Package ebnflex provides lexical scanning based on EBNF grammars.
//
// Names follow the golang.org/x/exp/ebnf convention: productions starting
// with a lower-case letter are lexical. The lexer recognises the literal
// tokens used by the syntactic productions and the lexical productions
// they reference, and reports each match under the terminal name the
// grammar package gives it: the literal text for literals, the production
// name otherwise.
package ebnflex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/tila/grammar"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Symbol returns the grammar terminal this token stands for.
func (t Token) Symbol() grammar.Symbol {
	if t.Kind == KindEOF {
		return grammar.EndOfInput
	}
	return grammar.Terminal(t.Kind)
}

// Error reports input that matches no token.
type Error struct {
	Pos  Position
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Text)
}

type candidate struct {
	kind    string
	literal bool
	expr    ebnf.Expression
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

type match struct {
	n  int
	ok bool
}

type Option func(*Lexer)

// WithTokens restricts the token candidates to the named lexical
// productions. Literal tokens are no longer recognised on their own.
func WithTokens(names ...string) Option {
	return func(l *Lexer) {
		l.tokenNames = names
	}
}

// WithLineComment skips text from prefix to the end of the line.
func WithLineComment(prefix string) Option {
	return func(l *Lexer) {
		l.lineComment = prefix
	}
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar     ebnf.Grammar
	input       []byte
	filename    string
	pos         int
	line        int
	column      int
	tokenNames  []string
	lineComment string
	candidates  []candidate
	memo        map[memoKey]match
	visiting    map[memoKey]bool
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(g ebnf.Grammar, input []byte, filename string, opts ...Option) *Lexer {
	l := &Lexer{
		grammar:  g,
		input:    input,
		filename: filename,
		pos:      0,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]match),
		visiting: make(map[memoKey]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.candidates = l.collectCandidates()
	return l
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return g, nil
}

// Kinds returns the token kinds the lexer can produce, excluding EOF and
// ERROR.
func (l *Lexer) Kinds() []string {
	kinds := make([]string, len(l.candidates))
	for i, c := range l.candidates {
		kinds[i] = c.kind
	}
	return kinds
}

func (l *Lexer) collectCandidates() []candidate {
	var out []candidate
	seen := make(map[string]bool)
	add := func(c candidate) {
		if seen[c.kind] {
			return
		}
		seen[c.kind] = true
		out = append(out, c)
	}
	lexical := func(name string) {
		if prod, ok := l.grammar[name]; ok && prod.Expr != nil {
			add(candidate{kind: name, expr: prod.Expr})
		}
	}

	if len(l.tokenNames) > 0 {
		for _, name := range l.tokenNames {
			lexical(name)
		}
		return out
	}

	var syntactic, lexicalProds []*ebnf.Production
	for name, prod := range l.grammar {
		if grammar.IsLexical(name) {
			lexicalProds = append(lexicalProds, prod)
		} else {
			syntactic = append(syntactic, prod)
		}
	}
	byOffset := func(prods []*ebnf.Production) {
		sort.Slice(prods, func(i, j int) bool {
			return prods[i].Pos().Offset < prods[j].Pos().Offset
		})
	}
	byOffset(syntactic)
	byOffset(lexicalProds)

	if len(syntactic) == 0 {
		for _, prod := range lexicalProds {
			lexical(prod.Name.String)
		}
		return out
	}

	var walk func(expr ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case *ebnf.Token:
			add(candidate{kind: e.String, literal: true, expr: e})
		case *ebnf.Name:
			if grammar.IsLexical(e.String) {
				lexical(e.String)
			}
		case ebnf.Sequence:
			for _, item := range e {
				walk(item)
			}
		case ebnf.Alternative:
			for _, alt := range e {
				walk(alt)
			}
		case *ebnf.Group:
			walk(e.Body)
		case *ebnf.Option:
			walk(e.Body)
		case *ebnf.Repetition:
			walk(e.Body)
		}
	}
	for _, prod := range syntactic {
		if prod.Expr != nil {
			walk(prod.Expr)
		}
	}
	return out
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
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

func (l *Lexer) hasPrefix(prefix string) bool {
	return prefix != "" && l.pos+len(prefix) <= len(l.input) &&
		string(l.input[l.pos:l.pos+len(prefix)]) == prefix
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case l.hasPrefix(l.lineComment):
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// NextToken returns the next token from the input. Of all candidates the
// longest match wins; on equal length a literal beats a lexical
// production, so keywords take precedence over identifiers. At the end
// of the input it returns an EOF token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipTrivia()
	startPos := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Position: startPos}, io.EOF
	}

	// Entries before the current offset are never consulted again.
	l.memo = make(map[memoKey]match)

	var best *candidate
	bestLen := 0
	for i := range l.candidates {
		c := &l.candidates[i]
		n, ok := l.tryMatch(c.expr, l.pos)
		if !ok || n == 0 {
			continue
		}
		if best == nil || n > bestLen || (n == bestLen && c.literal && !best.literal) {
			best, bestLen = c, n
		}
	}

	if best == nil {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		text := string(l.input[l.pos : l.pos+size])
		for i := 0; i < size; i++ {
			l.advance()
		}
		return Token{Kind: KindError, Literal: text, Position: startPos}, nil
	}

	text := string(l.input[l.pos : l.pos+bestLen])
	for i := 0; i < bestLen; i++ {
		l.advance()
	}
	return Token{Kind: best.kind, Literal: text, Position: startPos}, nil
}

// tryMatch attempts to match an expression at the given offset. It returns
// the length of the match and whether the expression matched at all, so an
// empty match is distinct from a failure.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case nil:
		return 0, true

	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := l.tryMatch(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.tryMatch(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched

	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := l.tryMatch(e.Body, offset+total)
			if !ok || n == 0 {
				break
			}
			total += n
		}
		return total, true

	case *ebnf.Option:
		if n, ok := l.tryMatch(e.Body, offset); ok {
			return n, true
		}
		return 0, true

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)
	}
	return 0, false
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}

	if m, ok := l.memo[key]; ok {
		return m.n, m.ok
	}

	// A production re-entered at the same offset is left recursive.
	if l.visiting[key] {
		return 0, false
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = match{}
		return 0, false
	}

	l.visiting[key] = true
	n, ok := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = match{n: n, ok: ok}
	return n, ok
}

// tryMatchToken matches a literal string token.
func (l *Lexer) tryMatchToken(s string, offset int) (int, bool) {
	if offset+len(s) > len(l.input) {
		return 0, false
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s), true
	}
	return 0, false
}

// tryMatchRange matches a character range (e.g., "a" … "z").
func (l *Lexer) tryMatchRange(begin, end string, offset int) (int, bool) {
	if offset >= len(l.input) {
		return 0, false
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRune(l.input[offset:])
	if ch >= lo && ch <= hi {
		return size, true
	}
	return 0, false
}

// Tokenize reads all tokens from input. The result ends with an EOF token.
// The first unmatched character stops the scan with an *Error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if errors.Is(err, io.EOF) {
			tokens = append(tokens, tok)
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		if tok.Kind == KindError {
			return tokens, &Error{Pos: tok.Position, Text: tok.Literal}
		}
		tokens = append(tokens, tok)
	}
}
