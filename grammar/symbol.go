package grammar

import "fmt"

type SymbolKind int

const (
	KindTerminal SymbolKind = iota
	KindNonterminal
	KindEpsilon
	KindEndOfInput
)

var symbolKindNames = map[SymbolKind]string{
	KindTerminal:    "Terminal",
	KindNonterminal: "Nonterminal",
	KindEpsilon:     "Epsilon",
	KindEndOfInput:  "EndOfInput",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Symbol is a grammar symbol. Symbols are comparable and identified by
// kind and name, so they can be used directly as map keys.
type Symbol struct {
	Kind SymbolKind
	Name string
}

var (
	Epsilon    = Symbol{Kind: KindEpsilon, Name: "ε"}
	EndOfInput = Symbol{Kind: KindEndOfInput, Name: "EOF"}
)

func Terminal(name string) Symbol {
	return Symbol{Kind: KindTerminal, Name: name}
}

func Nonterminal(name string) Symbol {
	return Symbol{Kind: KindNonterminal, Name: name}
}

func (s Symbol) IsTerminal() bool    { return s.Kind == KindTerminal }
func (s Symbol) IsNonterminal() bool { return s.Kind == KindNonterminal }

// String renders terminals quoted and nonterminals bare, the way they
// appear in a BNF listing.
func (s Symbol) String() string {
	switch s.Kind {
	case KindTerminal:
		return fmt.Sprintf("%q", s.Name)
	default:
		return s.Name
	}
}

// Production is a single rule Left -> Right. An empty derivation is
// represented by a Right of exactly [Epsilon].
type Production struct {
	Left  Symbol
	Right []Symbol
}

// IsEpsilon reports whether the production derives the empty sequence
// directly.
func (p Production) IsEpsilon() bool {
	return len(p.Right) == 1 && p.Right[0] == Epsilon
}

func (p Production) String() string {
	s := p.Left.String() + " ->"
	for _, sym := range p.Right {
		s += " " + sym.String()
	}
	return s
}
