package parser

import (
	"sync"

	"github.com/dhamidi/tila/grammar"
	"github.com/dhamidi/tila/ll1"
)

// Nonterminals of the Tila grammar.
var (
	symStatementTail = grammar.Nonterminal("StatementTail")
	symStatement     = grammar.Nonterminal("Statement")
	symDeclaration   = grammar.Nonterminal("Declaration")
	symExprTail      = grammar.Nonterminal("ExprTail")
	symTermTail      = grammar.Nonterminal("TermTail")
	symFactorTail    = grammar.Nonterminal("FactorTail")
	symPrimary       = grammar.Nonterminal("Primary")
)

// Definition returns the Tila grammar. The parser's procedures follow it
// one to one; alternatives are numbered in the order listed here.
// Statements are separated by ";" and an empty statement derives ε, so
// a ";" before "end" is optional.
//
//	Program       -> "begin" StatementList "end"
//	StatementList -> Statement StatementTail
//	StatementTail -> ";" StatementList | ε
//	Statement     -> Declaration | Assignment | Loop | "print" Expr
//	Declaration   -> "int" ident Declaration | ε
//	Assignment    -> ident "=" Expr
//	Loop          -> "while" Expr "do" "begin" StatementList "end"
//	Expr          -> Term ExprTail
//	ExprTail      -> "-" Term | ε
//	Term          -> Factor TermTail
//	TermTail      -> "*" Factor | ε
//	Factor        -> Primary FactorTail
//	FactorTail    -> "^" Factor | ε
//	Primary       -> "(" Expr ")" | "-" Primary | ident | number
func Definition() grammar.Definition {
	return grammar.Definition{
		Start: "Program",
		Terminals: []string{
			"begin", "end", "int", "print", "while", "do",
			";", "=", "-", "*", "^", "(", ")", "ident", "number",
		},
		Nonterminals: []string{
			"Program", "StatementList", "StatementTail", "Statement",
			"Declaration", "Assignment", "Loop", "Expr", "ExprTail",
			"Term", "TermTail", "Factor", "FactorTail", "Primary",
		},
		Rules: []grammar.Rule{
			{Left: "Program", Right: []string{"begin", "StatementList", "end"}},

			{Left: "StatementList", Right: []string{"Statement", "StatementTail"}},
			{Left: "StatementTail", Right: []string{";", "StatementList"}},
			{Left: "StatementTail", Right: []string{grammar.EpsilonName}},

			{Left: "Statement", Right: []string{"Declaration"}},
			{Left: "Statement", Right: []string{"Assignment"}},
			{Left: "Statement", Right: []string{"Loop"}},
			{Left: "Statement", Right: []string{"print", "Expr"}},

			{Left: "Declaration", Right: []string{"int", "ident", "Declaration"}},
			{Left: "Declaration", Right: []string{grammar.EpsilonName}},

			{Left: "Assignment", Right: []string{"ident", "=", "Expr"}},

			{Left: "Loop", Right: []string{"while", "Expr", "do", "begin", "StatementList", "end"}},

			{Left: "Expr", Right: []string{"Term", "ExprTail"}},
			{Left: "ExprTail", Right: []string{"-", "Term"}},
			{Left: "ExprTail", Right: []string{grammar.EpsilonName}},

			{Left: "Term", Right: []string{"Factor", "TermTail"}},
			{Left: "TermTail", Right: []string{"*", "Factor"}},
			{Left: "TermTail", Right: []string{grammar.EpsilonName}},

			{Left: "Factor", Right: []string{"Primary", "FactorTail"}},
			{Left: "FactorTail", Right: []string{"^", "Factor"}},
			{Left: "FactorTail", Right: []string{grammar.EpsilonName}},

			{Left: "Primary", Right: []string{"(", "Expr", ")"}},
			{Left: "Primary", Right: []string{"-", "Primary"}},
			{Left: "Primary", Right: []string{"ident"}},
			{Left: "Primary", Right: []string{"number"}},
		},
	}
}

var (
	tilaOnce     sync.Once
	tilaGrammar  *grammar.Grammar
	tilaAnalysis *ll1.Analysis
)

func load() {
	tilaOnce.Do(func() {
		tilaGrammar = grammar.MustNew(Definition())
		tilaAnalysis = ll1.Analyze(tilaGrammar)
	})
}

// Grammar returns the Tila grammar, built on first use.
func Grammar() *grammar.Grammar {
	load()
	return tilaGrammar
}

// Analysis returns the set analysis of the Tila grammar. It is computed
// once and shared by every parser.
func Analysis() *ll1.Analysis {
	load()
	return tilaAnalysis
}
