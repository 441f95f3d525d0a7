package format

import (
	"strings"
	"testing"

	"github.com/dhamidi/tila/grammar"
	"github.com/dhamidi/tila/ll1"
	"github.com/dhamidi/tila/tila/parser"
)

func TestSetsEncoder(t *testing.T) {
	out, err := NewSetsEncoder(nil).MarshalText(parser.Analysis())
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	for _, want := range []string{
		"Nonterminal",
		"FOLLOW",
		"FIRST+",
		`{"(", "-", "ident", "number"}`,
		`Primary -> "(" Expr ")"`,
		`{EOF}`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output does not contain %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "conflict") {
		t.Errorf("Tila grammar reported a conflict:\n%s", text)
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("uncolored output contains escape sequences")
	}
}

func TestSetsEncoderConflicts(t *testing.T) {
	g := grammar.MustNew(grammar.Definition{
		Start:        "A",
		Terminals:    []string{"a", "b"},
		Nonterminals: []string{"A"},
		Rules: []grammar.Rule{
			{Left: "A", Right: []string{"a"}},
			{Left: "A", Right: []string{"a", "b"}},
		},
	})
	out, err := NewSetsEncoder(nil).MarshalText(ll1.Analyze(g))
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	if !strings.Contains(text, `LL(1) conflict in A between productions [0 1] on {"a"}`) {
		t.Errorf("missing conflict line:\n%s", text)
	}
	if !strings.Contains(text, "0!") || !strings.Contains(text, "1!") {
		t.Errorf("conflicting productions are not marked:\n%s", text)
	}
}
