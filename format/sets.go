package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dhamidi/tila/grammar"
	"github.com/dhamidi/tila/ll1"
)

// SetsEncoder prints the result of an LL(1) analysis as two tables: one
// row per nonterminal with its FIRST and FOLLOW sets, and one row per
// production with its FIRST+ set. Conflicts are listed below the tables
// and their productions are marked in the second table.
type SetsEncoder struct {
	w     io.Writer
	color bool

	headerStyle   lipgloss.Style
	cellStyle     lipgloss.Style
	conflictStyle lipgloss.Style
}

func NewSetsEncoder(w io.Writer) *SetsEncoder {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return &SetsEncoder{
		w:             w,
		cellStyle:     cell,
		headerStyle:   cell.Bold(true),
		conflictStyle: cell.Foreground(lipgloss.Color("9")),
	}
}

func (e *SetsEncoder) WithColor(enabled bool) *SetsEncoder {
	e.color = enabled
	return e
}

func (e *SetsEncoder) Encode(a *ll1.Analysis) error {
	text, err := e.MarshalText(a)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SetsEncoder) MarshalText(a *ll1.Analysis) ([]byte, error) {
	g := a.Grammar()

	conflicted := make(map[int]bool)
	for _, c := range a.Conflicts() {
		for _, p := range c.Productions {
			conflicted[p] = true
		}
	}

	symbols := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Nonterminal", "Nullable", "FIRST", "FOLLOW").
		StyleFunc(func(row, col int) lipgloss.Style { return e.styleFor(row, false) })
	for _, nt := range g.Nonterminals() {
		symbols.Row(
			nt.Name,
			strconv.FormatBool(a.IsNullable(nt)),
			a.First(nt).String(),
			a.Follow(nt).String(),
		)
	}

	productions := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Production", "FIRST+")
	for i, prod := range g.Productions() {
		mark := strconv.Itoa(i)
		if conflicted[i] {
			mark += "!"
		}
		productions.Row(mark, prod.String(), a.FirstPlus(i).String())
	}
	productions.StyleFunc(func(row, col int) lipgloss.Style {
		return e.styleFor(row, row >= 0 && conflicted[row])
	})

	var sb strings.Builder
	sb.WriteString(symbols.Render())
	sb.WriteString("\n")
	sb.WriteString(productions.Render())
	sb.WriteString("\n")
	for _, c := range a.Conflicts() {
		sb.WriteString(e.conflictLine(c))
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func (e *SetsEncoder) styleFor(row int, conflict bool) lipgloss.Style {
	if !e.color {
		return e.cellStyle
	}
	switch {
	case row == table.HeaderRow:
		return e.headerStyle
	case conflict:
		return e.conflictStyle
	}
	return e.cellStyle
}

func (e *SetsEncoder) conflictLine(c *grammar.Error) string {
	if !e.color {
		return c.Error()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(c.Error())
}
