package grammar

import (
	"errors"
	"strings"
	"testing"
)

func exprDefinition() Definition {
	return Definition{
		Start:        "E",
		Terminals:    []string{"+", "id"},
		Nonterminals: []string{"E", "R"},
		Rules: []Rule{
			{Left: "E", Right: []string{"id", "R"}},
			{Left: "R", Right: []string{"+", "id", "R"}},
			{Left: "R", Right: []string{"ε"}},
		},
	}
}

func TestNew(t *testing.T) {
	g, err := New(exprDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got, want := g.Start(), Nonterminal("E"); got != want {
		t.Errorf("Start() = %v, want %v", got, want)
	}
	if got := len(g.Terminals()); got != 2 {
		t.Errorf("len(Terminals()) = %d, want 2", got)
	}
	if got := g.NumProductions(); got != 3 {
		t.Errorf("NumProductions() = %d, want 3", got)
	}

	alts := g.Alternatives(Nonterminal("R"))
	if len(alts) != 2 || alts[0] != 1 || alts[1] != 2 {
		t.Errorf("Alternatives(R) = %v, want [1 2]", alts)
	}

	if !g.Production(2).IsEpsilon() {
		t.Errorf("production 2 should be an epsilon production, got %v", g.Production(2))
	}

	sym, ok := g.Lookup("id")
	if !ok || sym != Terminal("id") {
		t.Errorf("Lookup(id) = %v, %v", sym, ok)
	}
	if _, ok := g.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestNewEpsilonNormalization(t *testing.T) {
	def := Definition{
		Start:        "S",
		Terminals:    []string{"a"},
		Nonterminals: []string{"S"},
		Rules: []Rule{
			{Left: "S", Right: nil},
			{Left: "S", Right: []string{"ε", "a", "ε"}},
		},
	}
	g, err := New(def)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if p := g.Production(0); !p.IsEpsilon() {
		t.Errorf("empty right side: got %v, want epsilon production", p)
	}
	p := g.Production(1)
	if len(p.Right) != 1 || p.Right[0] != Terminal("a") {
		t.Errorf("got %v, want S -> \"a\"", p)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Definition)
		kind   ErrorKind
		target error
	}{
		{
			name:   "no start symbol",
			modify: func(d *Definition) { d.Start = "" },
			kind:   NoStartSymbol,
			target: ErrNoStartSymbol,
		},
		{
			name:   "undeclared start symbol",
			modify: func(d *Definition) { d.Start = "Program" },
			kind:   UndefinedSymbol,
			target: ErrUndefinedSymbol,
		},
		{
			name: "undefined right-hand symbol",
			modify: func(d *Definition) {
				d.Rules = append(d.Rules, Rule{Left: "R", Right: []string{"-", "id"}})
			},
			kind:   UndefinedSymbol,
			target: ErrUndefinedSymbol,
		},
		{
			name: "undefined left-hand symbol",
			modify: func(d *Definition) {
				d.Rules = append(d.Rules, Rule{Left: "T", Right: []string{"id"}})
			},
			kind:   UndefinedSymbol,
			target: ErrUndefinedSymbol,
		},
		{
			name:   "ambiguous symbol",
			modify: func(d *Definition) { d.Nonterminals = append(d.Nonterminals, "id") },
			kind:   AmbiguousSymbol,
			target: ErrAmbiguousSymbol,
		},
		{
			name:   "duplicate nonterminal",
			modify: func(d *Definition) { d.Nonterminals = append(d.Nonterminals, "R") },
			kind:   DuplicateSymbol,
			target: ErrDuplicateSymbol,
		},
		{
			name:   "duplicate terminal",
			modify: func(d *Definition) { d.Terminals = append(d.Terminals, "+") },
			kind:   DuplicateSymbol,
			target: ErrDuplicateSymbol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := exprDefinition()
			tt.modify(&def)

			g, err := New(def)
			if err == nil {
				t.Fatalf("New succeeded, want %v", tt.kind)
			}
			if g != nil {
				t.Error("New returned a grammar alongside an error")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.target)
			}
			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("error %T is not a *Error", err)
			}
			if gerr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", gerr.Kind, tt.kind)
			}
		})
	}
}

func TestDuplicateSymbolMessage(t *testing.T) {
	def := exprDefinition()
	def.Nonterminals = append(def.Nonterminals, "R")
	_, err := New(def)
	if err == nil {
		t.Fatal("New succeeded, want an error")
	}
	if got, want := err.Error(), "Nonterminal R is declared more than once"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewReportsAllErrors(t *testing.T) {
	def := exprDefinition()
	def.Start = ""
	def.Rules = append(def.Rules, Rule{Left: "R", Right: []string{"x"}})

	_, err := New(def)
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error %T is not an ErrorList", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(list), err)
	}
}

func TestGrammarAccessorsReturnCopies(t *testing.T) {
	g := MustNew(exprDefinition())

	g.Terminals()[0] = Terminal("changed")
	g.Production(0).Right[0] = Terminal("changed")
	g.Alternatives(Nonterminal("R"))[0] = 99

	if g.Terminals()[0] != Terminal("+") {
		t.Error("Terminals() exposed internal state")
	}
	if g.Production(0).Right[0] != Terminal("id") {
		t.Error("Production() exposed internal state")
	}
	if g.Alternatives(Nonterminal("R"))[0] != 1 {
		t.Error("Alternatives() exposed internal state")
	}
}

func TestGrammarString(t *testing.T) {
	g := MustNew(exprDefinition())
	want := `E -> "id" R
R -> "+" "id" R
   | ε
`
	if got := g.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestDefinitionRoundTrip(t *testing.T) {
	g := MustNew(exprDefinition())
	again, err := New(g.Definition())
	if err != nil {
		t.Fatalf("New(Definition()): %v", err)
	}
	if g.String() != again.String() {
		t.Errorf("round trip changed grammar:\n%s\nvs\n%s", g, again)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: NoStartSymbol}, "no start symbol"},
		{&Error{Kind: UndefinedSymbol, Symbol: Terminal("x"), Context: "rule for R"}, "undefined symbol x in rule for R"},
		{&Error{Kind: LL1Conflict, Symbol: Nonterminal("A"), Productions: []int{0, 1}, Overlap: []Symbol{Terminal("a")}}, `A between productions [0 1] on {"a"}`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); !strings.Contains(got, tt.want) {
			t.Errorf("Error() = %q, want it to contain %q", got, tt.want)
		}
	}
}
