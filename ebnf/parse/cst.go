// Package parse recognises token streams with an Earley parser and builds
// concrete syntax trees for any context-free grammar.
package parse

import (
	"strconv"
	"strings"

	"github.com/dhamidi/tila/ebnflex"
)

// Span represents a range in source code.
type Span struct {
	Start ebnflex.Position
	End   ebnflex.Position
}

// Node represents a node in the concrete syntax tree.
// Leaf nodes have a non-nil Token; interior nodes have Children.
type Node struct {
	Kind     string         // Nonterminal name or token kind
	Children []*Node        // Child nodes (nil for terminals)
	Token    *ebnflex.Token // The token (non-nil for terminals)
	Span     Span           // Source span covering this node
}

// IsTerminal returns true if this is a leaf node (token).
func (n *Node) IsTerminal() bool {
	return n.Token != nil
}

// Text returns the source text of this node.
// For terminals, returns the token literal.
// For nonterminals, returns the concatenated literals of its leaves
// separated by single spaces.
func (n *Node) Text() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	var parts []string
	for _, child := range n.Children {
		if text := child.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// String renders the tree as an s-expression, for example
// (Assignment "x" "=" (Expr ...)).
func (n *Node) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n.Token != nil {
		sb.WriteString(strconv.Quote(n.Token.Literal))
		return
	}
	sb.WriteString("(" + n.Kind)
	for _, child := range n.Children {
		sb.WriteString(" ")
		child.writeTo(sb)
	}
	sb.WriteString(")")
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// NewTerminal creates a terminal node from a token.
func NewTerminal(tok ebnflex.Token) *Node {
	return &Node{
		Kind:  tok.Kind,
		Token: &tok,
		Span: Span{
			Start: tok.Position,
			End:   endOf(tok),
		},
	}
}

// NewNonTerminal creates a nonterminal node.
func NewNonTerminal(kind string) *Node {
	return &Node{
		Kind:     kind,
		Children: make([]*Node, 0),
	}
}
