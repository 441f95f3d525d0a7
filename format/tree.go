package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/tila/tila/parser"
)

// TreeEncoder writes one node per line, indented by depth, followed by
// the node's token, name and source span. For "begin print x end":
//
//	Program begin 1:1-1:18
//	  StatementList 1:7-1:14
//	    Print print 1:7-1:14
//	      Variable x 1:13-1:14
//	    Epsilon
type TreeEncoder struct {
	w      io.Writer
	indent string
	color  bool

	kindStyle lipgloss.Style
	spanStyle lipgloss.Style
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{
		w:         w,
		indent:    "  ",
		kindStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		spanStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// WithColor enables styled output. Styles only show on terminals that
// support them.
func (e *TreeEncoder) WithColor(enabled bool) *TreeEncoder {
	e.color = enabled
	return e
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, node, 0)
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, n *parser.Node, depth int) {
	sb.WriteString(strings.Repeat(e.indent, depth))
	sb.WriteString(e.style(e.kindStyle, n.Kind.String()))
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Lexeme)
	}
	if n.Name != nil {
		sb.WriteString(" " + n.Name.Lexeme)
	}
	if !n.IsEpsilon() && n.Span.Start.Line != 0 {
		span := fmt.Sprintf("%d:%d-%d:%d",
			n.Span.Start.Line, n.Span.Start.Column,
			n.Span.End.Line, n.Span.End.Column)
		sb.WriteString(" " + e.style(e.spanStyle, span))
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		e.writeNode(sb, child, depth+1)
	}
}

func (e *TreeEncoder) style(s lipgloss.Style, text string) string {
	if !e.color {
		return text
	}
	return s.Render(text)
}
