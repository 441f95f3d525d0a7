// Package parser lexes and parses Tila, a small block-structured language
// with integer declarations, assignments, while loops and print
// statements.
//
// # Overview
//
// Parsing is recursive descent with exactly one token of lookahead. Every
// branch decision is taken from the FIRST+ sets of the Tila grammar, which
// the ll1 package computes once and shares between all parsers. The first
// syntax error aborts the parse; no partial tree is returned.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Grammar    │────▶│  Analysis   │
//	                    │ (Definition)│     │  (FIRST+)   │
//	                    └─────────────┘     └─────────────┘
//
// # Grammar
//
// The grammar is available as data through Definition, Grammar and
// Analysis. Each nonterminal has one parsing procedure, and alternatives
// are chosen by asking the analysis which production's FIRST+ set holds
// the current token:
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
//
// # Usage
//
//	tree, err := parser.ParseSource(src, "main.tila")
//	if err != nil {
//	    var serr *parser.SyntaxError
//	    if errors.As(err, &serr) {
//	        fmt.Println(serr.Pos, serr.ExpectedString())
//	    }
//	    return err
//	}
//	fmt.Println(tree)
//
// # Tree Shape
//
// The tree is a single Node type tagged with a NodeKind. Statement lists
// and declarations are right-nested chains terminated by an Epsilon node:
//
//	begin int x; x = 1; print x end
//
//	Program(StatementList(Declaration(int, x, Epsilon),
//	    StatementList(Assignment(x, Literal(1)),
//	        StatementList(Print(Variable(x)), Epsilon))))
package parser
