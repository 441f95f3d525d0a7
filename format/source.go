package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/tila/tila/parser"
)

// SourceEncoder prints a tree back as canonical Tila source. Every
// statement is terminated by ";" and nested blocks are indented. Parsing
// the output yields a tree equal to the input.
type SourceEncoder struct {
	w            io.Writer
	buf          bytes.Buffer
	indent       int
	indentStr    string
	atLineStart  bool
	comments     []parser.Token
	commentIndex int
}

func NewSourceEncoder(w io.Writer) *SourceEncoder {
	return &SourceEncoder{
		w:         w,
		indentStr: "    ",
	}
}

// WithIndent sets the string written once per nesting level.
func (e *SourceEncoder) WithIndent(s string) *SourceEncoder {
	e.indentStr = s
	return e
}

// WithComments sets the line comments to print between statements. They
// are placed by their source line.
func (e *SourceEncoder) WithComments(comments []parser.Token) *SourceEncoder {
	e.comments = append([]parser.Token(nil), comments...)
	sort.SliceStable(e.comments, func(i, j int) bool {
		return e.comments[i].Span.Start.Offset < e.comments[j].Span.Start.Offset
	})
	return e
}

func (e *SourceEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SourceEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	e.buf.Reset()
	e.indent = 0
	e.atLineStart = true
	e.commentIndex = 0
	if err := e.printNode(node); err != nil {
		return nil, err
	}
	e.emitRemainingComments()
	return append([]byte(nil), e.buf.Bytes()...), nil
}

// Source parses src and prints it in canonical form, keeping its line
// comments.
func Source(src []byte, filename string) ([]byte, error) {
	lexer := parser.NewLexer(src, filename)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	tree, err := parser.New(tokens, parser.WithFile(filename)).Parse()
	if err != nil {
		return nil, err
	}
	return NewSourceEncoder(nil).WithComments(lexer.Comments()).MarshalText(tree)
}

func (e *SourceEncoder) printNode(n *parser.Node) error {
	switch n.Kind {
	case parser.KindProgram:
		e.emitCommentsBeforeLine(n.Span.Start.Line)
		e.writeIndent()
		e.write("begin")
		e.emitTrailingLineComment(n.Span.Start.Line, n.Child(0).Span.Start.Line)
		e.newline()
		if err := e.printBlock(n.Child(0), n.Span.End.Line); err != nil {
			return err
		}
		e.writeIndent()
		e.write("end")
		e.emitTrailingLineComment(n.Span.End.Line, 0)
		e.newline()
		return nil
	case parser.KindStatementList, parser.KindEpsilon:
		return e.printBlock(n, 0)
	}
	if isStatement(n.Kind) {
		return e.printStatement(n, 0)
	}
	e.writeIndent()
	if err := e.printExpr(n); err != nil {
		return err
	}
	e.newline()
	return nil
}

func isStatement(kind parser.NodeKind) bool {
	switch kind {
	case parser.KindDeclaration, parser.KindAssignment, parser.KindLoop, parser.KindPrint:
		return true
	}
	return false
}

// printBlock prints a statement list, one statement per line, followed by
// the comments that come before endLine.
func (e *SourceEncoder) printBlock(list *parser.Node, endLine int) error {
	e.indent++
	defer func() { e.indent-- }()

	for list != nil && list.Kind == parser.KindStatementList {
		next := list.Child(1)
		nextLine := endLine
		if next != nil && next.Kind == parser.KindStatementList {
			nextLine = next.Child(0).Span.Start.Line
		}
		if err := e.printStatement(list.Child(0), nextLine); err != nil {
			return err
		}
		list = next
	}
	if list != nil && !list.IsEpsilon() {
		return fmt.Errorf("format: unexpected %s in statement list", list.Kind)
	}
	e.emitCommentsBeforeLine(endLine)
	return nil
}

// printStatement prints n on its own line. nextLine is the source line of
// whatever follows n; a comment on that line is left to the follower.
func (e *SourceEncoder) printStatement(n *parser.Node, nextLine int) error {
	e.emitCommentsBeforeLine(n.Span.Start.Line)
	e.writeIndent()
	switch n.Kind {
	case parser.KindEpsilon:

	case parser.KindDeclaration:
		e.printDeclaration(n)

	case parser.KindAssignment:
		e.write(n.Name.Lexeme + " = ")
		if err := e.printExpr(n.Child(0)); err != nil {
			return err
		}

	case parser.KindPrint:
		e.write("print ")
		if err := e.printExpr(n.Child(0)); err != nil {
			return err
		}

	case parser.KindLoop:
		e.write("while ")
		if err := e.printExpr(n.Child(0)); err != nil {
			return err
		}
		e.write(" do begin")
		e.emitTrailingLineComment(n.Span.Start.Line, n.Child(1).Span.Start.Line)
		e.newline()
		if err := e.printBlock(n.Child(1), n.Span.End.Line); err != nil {
			return err
		}
		e.writeIndent()
		e.write("end")

	default:
		return fmt.Errorf("format: %s is not a statement", n.Kind)
	}
	e.write(";")
	e.emitTrailingLineComment(n.Span.End.Line, nextLine)
	e.newline()
	return nil
}

func (e *SourceEncoder) printDeclaration(n *parser.Node) {
	var parts []string
	for d := n; d != nil && d.Kind == parser.KindDeclaration; d = d.Child(0) {
		parts = append(parts, d.Token.Lexeme+" "+d.Name.Lexeme)
	}
	e.write(strings.Join(parts, " "))
}

func (e *SourceEncoder) printExpr(n *parser.Node) error {
	switch n.Kind {
	case parser.KindBinaryOp:
		if err := e.printExpr(n.Child(0)); err != nil {
			return err
		}
		e.write(" " + n.Token.Lexeme + " ")
		return e.printExpr(n.Child(1))

	case parser.KindUnaryOp:
		e.write(n.Token.Lexeme)
		return e.printExpr(n.Child(0))

	case parser.KindGrouping:
		e.write("(")
		if err := e.printExpr(n.Child(0)); err != nil {
			return err
		}
		e.write(")")
		return nil

	case parser.KindLiteral, parser.KindVariable:
		e.write(n.Token.Lexeme)
		return nil
	}
	return fmt.Errorf("format: %s is not an expression", n.Kind)
}

func (e *SourceEncoder) writeIndent() {
	if !e.atLineStart {
		return
	}
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.indentStr)
	}
	e.atLineStart = false
}

func (e *SourceEncoder) write(s string) {
	e.buf.WriteString(s)
}

func (e *SourceEncoder) newline() {
	e.buf.WriteString("\n")
	e.atLineStart = true
}
