package ebnflex

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/exp/ebnf"
)

func mustGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse("test.ebnf", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func kinds(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTilaTokens(t *testing.T) {
	g, err := LoadGrammar("../grammars/tila.ebnf")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"EOF"}},
		{"begin end", []string{"begin", "end", "EOF"}},
		{"beginning", []string{"ident", "EOF"}},
		{"int x; x = 1", []string{"int", "ident", ";", "ident", "=", "number", "EOF"}},
		{"print 3.25 ^ y2", []string{"print", "number", "^", "ident", "EOF"}},
		{"(a-b)*c", []string{"(", "ident", "-", "ident", ")", "*", "ident", "EOF"}},
		{"while x do begin end", []string{"while", "ident", "do", "begin", "end", "EOF"}},
		{"x // note\ny", []string{"ident", "ident", "EOF"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewLexer(g, []byte(tt.input), "t.tila", WithLineComment("//")).Tokenize()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := kinds(tokens)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	g := mustGrammar(t, `
List = "[" [ num { "," num } ] "]" .
num = digit { digit } [ "." digit ] .
digit = "0" … "9" .
`)
	tokens, err := NewLexer(g, []byte("[1, 22,3.5]"), "").Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		kind, literal string
		column        int
	}{
		{"[", "[", 1},
		{"num", "1", 2},
		{",", ",", 3},
		{"num", "22", 5},
		{",", ",", 7},
		{"num", "3.5", 8},
		{"]", "]", 11},
		{"EOF", "", 12},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Kind != w.kind || tok.Literal != w.literal || tok.Position.Column != w.column {
			t.Errorf("token %d: got %s, want %s %q at column %d", i, tok, w.kind, w.literal, w.column)
		}
	}
}

// An option whose body fails must not make the enclosing production fail.
func TestOptionalSuffix(t *testing.T) {
	g := mustGrammar(t, `
S = num .
num = digit [ "." digit ] .
digit = "0" … "9" .
`)
	_, err := NewLexer(g, []byte("1."), "in").Tokenize()
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("got %v, want *Error", err)
	}
	if lerr.Text != "." || lerr.Pos.Column != 2 {
		t.Errorf("got %q at %s, want \".\" at column 2", lerr.Text, lerr.Pos)
	}
	if got, want := lerr.Error(), `in:1:2: unexpected character "."`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLexicalOnlyGrammar(t *testing.T) {
	g := mustGrammar(t, `
word = letter { letter } .
number = digit { digit } .
letter = "a" … "z" .
digit = "0" … "9" .
`)
	lexer := NewLexer(g, []byte("abc 12"), "")
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(kinds(tokens), " "); got != "word number EOF" {
		t.Errorf("got %s, want word number EOF", got)
	}
	if got := strings.Join(lexer.Kinds(), " "); got != "word number letter digit" {
		t.Errorf("got kinds %s", got)
	}
}

func TestWithTokens(t *testing.T) {
	g := mustGrammar(t, `
S = word .
word = letter { letter } .
letter = "a" … "z" .
`)
	tokens, err := NewLexer(g, []byte("ab"), "", WithTokens("letter")).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(kinds(tokens), " "); got != "letter letter EOF" {
		t.Errorf("got %s, want letter letter EOF", got)
	}
}

func TestUnicodeRange(t *testing.T) {
	g := mustGrammar(t, `
S = greek .
greek = "α" … "ω" { "α" … "ω" } .
`)
	tokens, err := NewLexer(g, []byte("λβ"), "").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[0].Literal != "λβ" {
		t.Errorf("got %v, want one greek token", tokens)
	}
}

func TestTokenSymbol(t *testing.T) {
	if got := (Token{Kind: KindEOF}).Symbol(); got.Name != "EOF" || got.IsTerminal() {
		t.Errorf("got %v, want the end-of-input marker", got)
	}
	if got := (Token{Kind: "ident"}).Symbol(); !got.IsTerminal() || got.Name != "ident" {
		t.Errorf("got %v, want terminal ident", got)
	}
}
