// Package grammar models context-free grammars as immutable values.
//
// A Grammar is built once from a Definition, either written in Go or loaded
// from an EBNF or YAML file, and is then only read. Every symbol on the
// right-hand side of a production is guaranteed to be a declared terminal,
// a declared nonterminal or Epsilon.
package grammar

import (
	"strconv"
	"strings"
)

// EpsilonName is the spelling of the empty sequence in definitions.
const EpsilonName = "ε"

// Rule is one production in a Definition. An empty Right, or a Right of
// just EpsilonName, is an epsilon production.
type Rule struct {
	Left  string   `yaml:"left"`
	Right []string `yaml:"right,flow"`
}

// Definition is the declarative input to New.
type Definition struct {
	Start        string   `yaml:"start"`
	Terminals    []string `yaml:"terminals,flow"`
	Nonterminals []string `yaml:"nonterminals,flow"`
	Rules        []Rule   `yaml:"rules"`
}

type Grammar struct {
	start        Symbol
	terminals    []Symbol
	nonterminals []Symbol
	productions  []Production
	alternatives map[Symbol][]int
	symbols      map[string]Symbol
}

// New validates def and builds a grammar from it. All problems are
// reported together as an ErrorList.
func New(def Definition) (*Grammar, error) {
	g := &Grammar{
		alternatives: make(map[Symbol][]int),
		symbols:      make(map[string]Symbol),
	}
	var errs ErrorList

	for _, name := range def.Terminals {
		if _, ok := g.symbols[name]; ok {
			errs = append(errs, &Error{Kind: DuplicateSymbol, Symbol: Terminal(name)})
			continue
		}
		sym := Terminal(name)
		g.symbols[name] = sym
		g.terminals = append(g.terminals, sym)
	}
	for _, name := range def.Nonterminals {
		if existing, ok := g.symbols[name]; ok {
			kind := DuplicateSymbol
			if existing.IsTerminal() {
				kind = AmbiguousSymbol
			}
			errs = append(errs, &Error{Kind: kind, Symbol: Nonterminal(name)})
			continue
		}
		sym := Nonterminal(name)
		g.symbols[name] = sym
		g.nonterminals = append(g.nonterminals, sym)
	}

	if def.Start == "" {
		errs = append(errs, &Error{Kind: NoStartSymbol})
	} else if sym, ok := g.symbols[def.Start]; !ok || !sym.IsNonterminal() {
		errs = append(errs, &Error{Kind: UndefinedSymbol, Symbol: Nonterminal(def.Start), Context: "start"})
	} else {
		g.start = sym
	}

	for i, rule := range def.Rules {
		left, ok := g.symbols[rule.Left]
		if !ok || !left.IsNonterminal() {
			errs = append(errs, &Error{Kind: UndefinedSymbol, Symbol: Nonterminal(rule.Left), Context: "left side of rule " + strconv.Itoa(i)})
			continue
		}

		var right []Symbol
		for _, name := range rule.Right {
			if name == EpsilonName {
				continue
			}
			sym, ok := g.symbols[name]
			if !ok {
				errs = append(errs, &Error{Kind: UndefinedSymbol, Symbol: Terminal(name), Context: "rule for " + rule.Left})
				continue
			}
			right = append(right, sym)
		}
		if len(right) == 0 {
			right = []Symbol{Epsilon}
		}

		g.alternatives[left] = append(g.alternatives[left], len(g.productions))
		g.productions = append(g.productions, Production{Left: left, Right: right})
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNew is like New but panics on error. It is meant for grammars
// embedded in source code.
func MustNew(def Definition) *Grammar {
	g, err := New(def)
	if err != nil {
		panic("grammar: " + err.Error())
	}
	return g
}

func (g *Grammar) Start() Symbol {
	return g.start
}

func (g *Grammar) Terminals() []Symbol {
	return append([]Symbol(nil), g.terminals...)
}

func (g *Grammar) Nonterminals() []Symbol {
	return append([]Symbol(nil), g.nonterminals...)
}

func (g *Grammar) NumProductions() int {
	return len(g.productions)
}

func (g *Grammar) Productions() []Production {
	out := make([]Production, len(g.productions))
	for i := range g.productions {
		out[i] = g.Production(i)
	}
	return out
}

func (g *Grammar) Production(i int) Production {
	p := g.productions[i]
	return Production{Left: p.Left, Right: append([]Symbol(nil), p.Right...)}
}

// Alternatives returns the indices of the productions of nt in
// declaration order.
func (g *Grammar) Alternatives(nt Symbol) []int {
	return append([]int(nil), g.alternatives[nt]...)
}

// Lookup resolves a declared name to its symbol.
func (g *Grammar) Lookup(name string) (Symbol, bool) {
	sym, ok := g.symbols[name]
	return sym, ok
}

// Definition converts the grammar back into its declarative form.
func (g *Grammar) Definition() Definition {
	def := Definition{Start: g.start.Name}
	for _, t := range g.terminals {
		def.Terminals = append(def.Terminals, t.Name)
	}
	for _, nt := range g.nonterminals {
		def.Nonterminals = append(def.Nonterminals, nt.Name)
	}
	for _, p := range g.productions {
		rule := Rule{Left: p.Left.Name}
		for _, sym := range p.Right {
			rule.Right = append(rule.Right, sym.Name)
		}
		def.Rules = append(def.Rules, rule)
	}
	return def
}

// String lists the productions in BNF, grouping alternatives.
func (g *Grammar) String() string {
	var sb strings.Builder
	width := 0
	for _, nt := range g.nonterminals {
		if len(nt.Name) > width {
			width = len(nt.Name)
		}
	}
	for _, nt := range g.nonterminals {
		alts := g.alternatives[nt]
		for i, idx := range alts {
			if i == 0 {
				sb.WriteString(nt.Name)
				sb.WriteString(strings.Repeat(" ", width-len(nt.Name)))
				sb.WriteString(" ->")
			} else {
				sb.WriteString(strings.Repeat(" ", width))
				sb.WriteString("  |")
			}
			for _, sym := range g.productions[idx].Right {
				sb.WriteString(" ")
				sb.WriteString(sym.String())
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
