package parser

import (
	"strings"
)

type NodeKind int

const (
	KindProgram NodeKind = iota
	KindStatementList
	KindDeclaration
	KindAssignment
	KindLoop
	KindPrint
	KindBinaryOp
	KindUnaryOp
	KindGrouping
	KindLiteral
	KindVariable
	KindEpsilon
)

var nodeKindNames = map[NodeKind]string{
	KindProgram:       "Program",
	KindStatementList: "StatementList",
	KindDeclaration:   "Declaration",
	KindAssignment:    "Assignment",
	KindLoop:          "Loop",
	KindPrint:         "Print",
	KindBinaryOp:      "BinaryOp",
	KindUnaryOp:       "UnaryOp",
	KindGrouping:      "Grouping",
	KindLiteral:       "Literal",
	KindVariable:      "Variable",
	KindEpsilon:       "Epsilon",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is a node of the abstract syntax tree. The fields used depend on
// Kind:
//
//	Program        Token=begin   Children=[body]
//	StatementList                Children=[statement, rest]
//	Declaration    Token=int     Name=ident  Children=[rest]
//	Assignment                   Name=ident  Children=[value]
//	Loop           Token=while   Children=[condition, body]
//	Print          Token=print   Children=[value]
//	BinaryOp       Token=op      Children=[left, right]
//	UnaryOp        Token=op      Children=[operand]
//	Grouping       Token=(       Children=[inner]
//	Literal        Token=number
//	Variable       Token=ident
//	Epsilon
//
// body and rest are either a node of the list's own kind or Epsilon. An
// empty statement is an Epsilon node in statement position.
type Node struct {
	Kind     NodeKind
	Span     Span
	Token    *Token
	Name     *Token
	Children []*Node
}

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) IsEpsilon() bool {
	return n.Kind == KindEpsilon
}

// Value returns the numeric value of a Literal node.
func (n *Node) Value() float64 {
	if n.Token == nil {
		return 0
	}
	v, _ := n.Token.Literal.(float64)
	return v
}

// Equal compares two trees structurally. Positions are ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || len(n.Children) != len(other.Children) {
		return false
	}
	if !sameToken(n.Token, other.Token) || !sameToken(n.Name, other.Name) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func sameToken(a, b *Token) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Lexeme == b.Lexeme && a.Literal == b.Literal
}

// String renders the tree in constructor form, for example
// Program(StatementList(Print(Variable(x)), Epsilon)).
func (n *Node) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	sb.WriteString(n.Kind.String())
	if n.Kind == KindEpsilon {
		return
	}

	var args []string
	switch n.Kind {
	case KindDeclaration, KindBinaryOp, KindUnaryOp, KindLiteral, KindVariable:
		if n.Token != nil {
			args = append(args, n.Token.Lexeme)
		}
	}
	if n.Name != nil {
		args = append(args, n.Name.Lexeme)
	}

	sb.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg)
	}
	for i, child := range n.Children {
		if i > 0 || len(args) > 0 {
			sb.WriteString(", ")
		}
		child.writeTo(sb)
	}
	sb.WriteString(")")
}
