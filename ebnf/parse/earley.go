package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/tila/ebnflex"
	"github.com/dhamidi/tila/grammar"
	"github.com/dhamidi/tila/ll1"
)

var log = commonlog.GetLogger("tila.earley")

// EarleyParser recognises token streams against any context-free grammar,
// including ambiguous and left-recursive ones. It serves as a reference
// for grammars that the predictive parser cannot handle.
type EarleyParser struct {
	grammar   *grammar.Grammar
	analysis  *ll1.Analysis
	tokens    []ebnflex.Token
	skipKinds map[string]bool

	rhs      [][]grammar.Symbol
	chart    []*ItemSet
	filtered []ebnflex.Token // tokens after filtering trivia, without EOF
	eof      ebnflex.Token
	done     map[span][]int
}

// Item is an Earley item: a production with a dot position and origin.
type Item struct {
	Prod   int // Production index in the grammar
	Dot    int // Number of right-hand side symbols already recognised
	Origin int // Chart position where this item started
}

// ItemSet is a set of Earley items at a particular chart position.
type ItemSet struct {
	items    []Item
	seen     map[Item]bool
	position int
}

func newItemSet(pos int) *ItemSet {
	return &ItemSet{
		seen:     make(map[Item]bool),
		position: pos,
	}
}

// Add inserts item unless it is already present.
func (s *ItemSet) Add(item Item) bool {
	if s.seen[item] {
		return false
	}
	s.seen[item] = true
	s.items = append(s.items, item)
	return true
}

// Items returns the items in insertion order.
func (s *ItemSet) Items() []Item {
	return append([]Item(nil), s.items...)
}

func (s *ItemSet) Position() int {
	return s.position
}

type span struct {
	name       string
	start, end int
}

// NewEarleyParser creates a new Earley parser. A trailing EOF token is
// optional.
func NewEarleyParser(g *grammar.Grammar, tokens []ebnflex.Token) *EarleyParser {
	p := &EarleyParser{
		grammar:   g,
		analysis:  ll1.Analyze(g),
		tokens:    tokens,
		skipKinds: map[string]bool{},
	}
	p.rhs = make([][]grammar.Symbol, g.NumProductions())
	for i, prod := range g.Productions() {
		if !prod.IsEpsilon() {
			p.rhs[i] = prod.Right
		}
	}
	return p
}

// SetSkipKinds sets which token kinds to skip.
func (p *EarleyParser) SetSkipKinds(kinds ...string) {
	p.skipKinds = make(map[string]bool)
	for _, k := range kinds {
		p.skipKinds[k] = true
	}
}

// Chart returns the item sets of the last recognition, one per input
// position.
func (p *EarleyParser) Chart() []*ItemSet {
	return p.chart
}

// ItemString renders item in dotted form, for example
// "Expr -> Term • ExprTail, 0".
func (p *EarleyParser) ItemString(item Item) string {
	prod := p.grammar.Production(item.Prod)
	var sb strings.Builder
	sb.WriteString(prod.Left.Name + " ->")
	for i, sym := range p.rhs[item.Prod] {
		if i == item.Dot {
			sb.WriteString(" •")
		}
		sb.WriteString(" " + sym.String())
	}
	if item.Dot == len(p.rhs[item.Prod]) {
		sb.WriteString(" •")
	}
	fmt.Fprintf(&sb, ", %d", item.Origin)
	return sb.String()
}

// Recognize reports whether the tokens form a sentence of the grammar.
// The error is a *SyntaxError at the furthest position the parse reached.
func (p *EarleyParser) Recognize() error {
	p.filtered = p.filtered[:0]
	p.eof = ebnflex.Token{Kind: ebnflex.KindEOF}
	for _, tok := range p.tokens {
		if tok.Kind == ebnflex.KindEOF {
			p.eof = tok
			break
		}
		if !p.skipKinds[tok.Kind] {
			p.filtered = append(p.filtered, tok)
		}
	}
	if p.eof.Position.Line == 0 {
		p.eof.Position = ebnflex.Position{Line: 1, Column: 1}
		if len(p.filtered) > 0 {
			p.eof.Position = endOf(p.filtered[len(p.filtered)-1])
		}
	}

	n := len(p.filtered)
	p.chart = make([]*ItemSet, n+1)
	for i := range p.chart {
		p.chart[i] = newItemSet(i)
	}

	for _, alt := range p.grammar.Alternatives(p.grammar.Start()) {
		p.chart[0].Add(Item{Prod: alt})
	}

	// Items may be added to the current set while it is processed.
	for i := 0; i <= n; i++ {
		for j := 0; j < len(p.chart[i].items); j++ {
			item := p.chart[i].items[j]
			rhs := p.rhs[item.Prod]
			if item.Dot == len(rhs) {
				p.complete(i, item)
				continue
			}
			next := rhs[item.Dot]
			if next.IsNonterminal() {
				p.predict(i, item, next)
			} else {
				p.scan(i, item, next)
			}
		}
	}

	p.indexCompleted()
	total := 0
	for _, set := range p.chart {
		total += len(set.items)
	}
	log.Debugf("recognised %d tokens with %d items", n, total)

	if p.accepted() {
		return nil
	}
	return p.failure()
}

// predict adds the alternatives of next. A nullable nonterminal is also
// stepped over immediately, which keeps completion of empty derivations
// from depending on processing order.
func (p *EarleyParser) predict(pos int, item Item, next grammar.Symbol) {
	for _, alt := range p.grammar.Alternatives(next) {
		p.chart[pos].Add(Item{Prod: alt, Origin: pos})
	}
	if p.analysis.IsNullable(next) {
		p.chart[pos].Add(Item{Prod: item.Prod, Dot: item.Dot + 1, Origin: item.Origin})
	}
}

// scan handles terminal matching.
func (p *EarleyParser) scan(pos int, item Item, next grammar.Symbol) {
	if pos >= len(p.filtered) {
		return
	}
	if p.filtered[pos].Symbol() == next {
		p.chart[pos+1].Add(Item{Prod: item.Prod, Dot: item.Dot + 1, Origin: item.Origin})
	}
}

// complete advances the items at the origin that were waiting for the
// completed production.
func (p *EarleyParser) complete(pos int, completed Item) {
	left := p.grammar.Production(completed.Prod).Left
	origin := p.chart[completed.Origin]
	for j := 0; j < len(origin.items); j++ {
		item := origin.items[j]
		rhs := p.rhs[item.Prod]
		if item.Dot < len(rhs) && rhs[item.Dot] == left {
			p.chart[pos].Add(Item{Prod: item.Prod, Dot: item.Dot + 1, Origin: item.Origin})
		}
	}
}

func (p *EarleyParser) indexCompleted() {
	p.done = make(map[span][]int)
	for end, set := range p.chart {
		for _, item := range set.items {
			if item.Dot != len(p.rhs[item.Prod]) {
				continue
			}
			key := span{p.grammar.Production(item.Prod).Left.Name, item.Origin, end}
			p.done[key] = append(p.done[key], item.Prod)
		}
	}
}

func (p *EarleyParser) accepted() bool {
	key := span{p.grammar.Start().Name, 0, len(p.filtered)}
	return len(p.done[key]) > 0
}

func (p *EarleyParser) failure() error {
	furthest := 0
	for i := len(p.chart) - 1; i >= 0; i-- {
		if len(p.chart[i].items) > 0 {
			furthest = i
			break
		}
	}

	found := p.eof
	if furthest < len(p.filtered) {
		found = p.filtered[furthest]
	}

	seen := make(map[string]bool)
	var expected []string
	for _, item := range p.chart[furthest].items {
		rhs := p.rhs[item.Prod]
		if item.Dot < len(rhs) && rhs[item.Dot].IsTerminal() && !seen[rhs[item.Dot].Name] {
			seen[rhs[item.Dot].Name] = true
			expected = append(expected, rhs[item.Dot].Name)
		}
	}
	sort.Strings(expected)

	return &SyntaxError{
		Pos:        found.Position,
		Expected:   expected,
		Found:      found,
		Incomplete: found.Kind == ebnflex.KindEOF,
	}
}

// ParseToCST recognises the input and returns a concrete syntax tree. For
// ambiguous input the first derivation found is returned.
func (p *EarleyParser) ParseToCST() (*Node, error) {
	if err := p.Recognize(); err != nil {
		return nil, err
	}
	b := &builder{
		p:        p,
		visiting: make(map[span]bool),
		built:    make(map[span]*Node),
	}
	node, ok := b.node(p.grammar.Start(), 0, len(p.filtered))
	if !ok {
		return nil, fmt.Errorf("no derivation for %s", p.grammar.Start())
	}
	return node, nil
}

// builder reconstructs a derivation from the completed items of a chart.
type builder struct {
	p        *EarleyParser
	visiting map[span]bool
	built    map[span]*Node
}

func (b *builder) node(nt grammar.Symbol, start, end int) (*Node, bool) {
	key := span{nt.Name, start, end}
	if node, ok := b.built[key]; ok {
		return node, true
	}
	if b.visiting[key] {
		return nil, false
	}
	b.visiting[key] = true
	defer delete(b.visiting, key)

	for _, prod := range b.p.done[key] {
		children, ok := b.sequence(b.p.rhs[prod], start, end)
		if !ok {
			continue
		}
		node := NewNonTerminal(nt.Name)
		for _, child := range children {
			node.AddChild(child)
		}
		if len(children) == 0 {
			pos := b.p.positionAt(start)
			node.Span = Span{Start: pos, End: pos}
		}
		b.built[key] = node
		return node, true
	}
	return nil, false
}

func (b *builder) sequence(rhs []grammar.Symbol, pos, end int) ([]*Node, bool) {
	if len(rhs) == 0 {
		return nil, pos == end
	}
	sym := rhs[0]

	if !sym.IsNonterminal() {
		if pos >= end || b.p.filtered[pos].Symbol() != sym {
			return nil, false
		}
		rest, ok := b.sequence(rhs[1:], pos+1, end)
		if !ok {
			return nil, false
		}
		return append([]*Node{NewTerminal(b.p.filtered[pos])}, rest...), true
	}

	for mid := pos; mid <= end; mid++ {
		if len(b.p.done[span{sym.Name, pos, mid}]) == 0 {
			continue
		}
		rest, ok := b.sequence(rhs[1:], mid, end)
		if !ok {
			continue
		}
		child, ok := b.node(sym, pos, mid)
		if !ok {
			continue
		}
		return append([]*Node{child}, rest...), true
	}
	return nil, false
}

func (p *EarleyParser) positionAt(i int) ebnflex.Position {
	if i < len(p.filtered) {
		return p.filtered[i].Position
	}
	return p.eof.Position
}

func endOf(tok ebnflex.Token) ebnflex.Position {
	return ebnflex.Position{
		Filename: tok.Position.Filename,
		Offset:   tok.Position.Offset + len(tok.Literal),
		Line:     tok.Position.Line,
		Column:   tok.Position.Column + len(tok.Literal),
	}
}

// SyntaxError reports the furthest position an Earley parse reached.
// Expected holds the terminals that could have continued the parse there.
type SyntaxError struct {
	Pos        ebnflex.Position
	Expected   []string
	Found      ebnflex.Token
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	found := fmt.Sprintf("%q", e.Found.Literal)
	if e.Found.Kind == ebnflex.KindEOF {
		found = "end of input"
	}
	quoted := make([]string, len(e.Expected))
	for i, name := range e.Expected {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	switch len(quoted) {
	case 0:
		return fmt.Sprintf("%s: unexpected %s", e.Pos, found)
	case 1:
		return fmt.Sprintf("%s: expected %s, found %s", e.Pos, quoted[0], found)
	}
	return fmt.Sprintf("%s: expected one of %s, found %s", e.Pos, strings.Join(quoted, ", "), found)
}
