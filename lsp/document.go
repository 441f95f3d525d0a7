package lsp

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/tila/ebnf/parse"
	"github.com/dhamidi/tila/ebnflex"
	"github.com/dhamidi/tila/tila/parser"
)

const diagnosticSource = "tila"

// Diagnostics parses text and converts the first lexical or syntax error
// into a diagnostic. A valid document yields an empty, non-nil slice so
// that publishing it clears earlier errors.
func Diagnostics(text, path string) []protocol.Diagnostic {
	_, err := parser.ParseSource([]byte(text), path)
	if err == nil {
		return []protocol.Diagnostic{}
	}
	if d, ok := diagnostic(err); ok {
		return []protocol.Diagnostic{d}
	}
	return []protocol.Diagnostic{{
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   stringPtr(diagnosticSource),
		Message:  err.Error(),
	}}
}

func diagnostic(err error) (protocol.Diagnostic, bool) {
	var (
		serr *parser.SyntaxError
		lerr *parser.LexError
		rng  protocol.Range
		msg  string
	)
	switch {
	case errors.As(err, &serr):
		rng = protocol.Range{Start: toPosition(serr.Found.Span.Start), End: toPosition(serr.Found.Span.End)}
		msg = serr.Message()
	case errors.As(err, &lerr):
		end := lerr.Pos
		end.Column += len(lerr.Text)
		rng = protocol.Range{Start: toPosition(lerr.Pos), End: toPosition(end)}
		msg = "unexpected character " + strconv.Quote(lerr.Text)
	default:
		return protocol.Diagnostic{}, false
	}
	return protocol.Diagnostic{
		Range:    rng,
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   stringPtr(diagnosticSource),
		Message:  msg,
	}, true
}

// Completions returns the keywords, operators and declared variables the
// parser accepts at pos. The word under the cursor filters the result.
func Completions(text string, pos protocol.Position) []protocol.CompletionItem {
	offset := toOffset(text, pos)
	start := offset
	for start > 0 && isWordChar(text[start-1]) {
		start--
	}
	prefix := text[start:offset]

	expected, ok := expectedAfter(text[:start])
	if !ok {
		return nil
	}

	var items []protocol.CompletionItem
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if !strings.HasPrefix(label, prefix) {
			return
		}
		items = append(items, protocol.CompletionItem{
			Label:  label,
			Kind:   &kind,
			Detail: stringPtr(detail),
		})
	}

	for _, name := range expected {
		switch {
		case parser.LookupKeyword(name).IsKeyword():
			add(name, protocol.CompletionItemKindKeyword, "keyword")
		case name == parser.TokenIdent.String():
			for _, v := range declared(text) {
				add(v.Lexeme, protocol.CompletionItemKindVariable, "int")
			}
		case name == parser.TokenNumber.String(), name == parser.TokenEOF.String():
		default:
			if prefix == "" {
				add(name, protocol.CompletionItemKindOperator, "operator")
			}
		}
	}
	return items
}

// expectedAfter returns every terminal that can follow text when text is
// an unfinished program. The Earley chart keeps all open alternatives,
// including those the predictive parser skips through empty derivations.
func expectedAfter(text string) ([]string, bool) {
	tokens, err := parser.NewLexer([]byte(text), "").Tokenize()
	if err != nil {
		return nil, false
	}
	converted := make([]ebnflex.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == parser.TokenEOF {
			break
		}
		start := tok.Span.Start
		converted = append(converted, ebnflex.Token{
			Kind:    tok.Kind.String(),
			Literal: tok.Lexeme,
			Position: ebnflex.Position{
				Offset: start.Offset,
				Line:   start.Line,
				Column: start.Column,
			},
		})
	}
	err = parse.NewEarleyParser(parser.Grammar(), converted).Recognize()
	var serr *parse.SyntaxError
	if !errors.As(err, &serr) || !serr.Incomplete {
		return nil, false
	}
	return serr.Expected, true
}

// Symbols lists the variables declared in text.
func Symbols(text string) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, tok := range declared(text) {
		rng := protocol.Range{Start: toPosition(tok.Span.Start), End: toPosition(tok.Span.End)}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           tok.Lexeme,
			Detail:         stringPtr("int"),
			Kind:           protocol.SymbolKindVariable,
			Range:          rng,
			SelectionRange: rng,
		})
	}
	return symbols
}

// declared returns the identifier tokens that follow an "int" keyword,
// sorted by name with duplicates removed. Scanning stops at the first
// lexical error.
func declared(text string) []parser.Token {
	tokens, _ := parser.NewLexer([]byte(text), "").Tokenize()
	seen := make(map[string]bool)
	var out []parser.Token
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if tokens[i-1].Kind != parser.TokenInt || tok.Kind != parser.TokenIdent || seen[tok.Lexeme] {
			continue
		}
		seen[tok.Lexeme] = true
		out = append(out, tok)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Lexeme < out[j].Lexeme })
	return out
}

func toPosition(p parser.Position) protocol.Position {
	line, col := p.Line-1, p.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

// toOffset converts a zero-based line and character to a byte offset,
// clamped to the text. Tila source is ASCII, so characters are bytes.
func toOffset(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}
	end := len(text)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	offset += int(pos.Character)
	if offset > end {
		offset = end
	}
	return offset
}

// endPosition is the position just past the last character of text.
func endPosition(text string) protocol.Position {
	line := strings.Count(text, "\n")
	col := len(text) - (strings.LastIndexByte(text, '\n') + 1)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

func isWordChar(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func stringPtr(s string) *string {
	return &s
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
