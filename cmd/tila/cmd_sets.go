package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tila/format"
	"github.com/dhamidi/tila/grammar"
	"github.com/dhamidi/tila/ll1"
	"github.com/dhamidi/tila/tila/parser"
)

func newSetsCmd() *cobra.Command {
	var start string
	var trace bool

	cmd := &cobra.Command{
		Use:   "sets [grammar]",
		Short: "Print the FIRST, FOLLOW and FIRST+ sets of a grammar",
		Long: `Print the FIRST, FOLLOW and FIRST+ sets of a grammar and report its
LL(1) conflicts.

The grammar is read from an .ebnf or .yaml file. Without an argument the
[grammar] file of the configuration is used, and without that the built-in
Tila grammar.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args, start)
			if err != nil {
				return err
			}

			var opts []ll1.Option
			if trace {
				opts = append(opts, ll1.WithObserver(func(p ll1.Pass) {
					fmt.Fprintf(os.Stderr, "%s pass %d: changed=%t\n", p.Computation, p.Number, p.Changed)
				}))
			}
			a := ll1.Analyze(g, opts...)

			return newSetsEncoder().Encode(a)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start symbol (default from configuration)")
	cmd.Flags().BoolVar(&trace, "trace", false, "report every fixed-point pass on stderr")

	return cmd
}

// loadGrammar loads the grammar named by args, falling back to the
// configured grammar file and then to the Tila grammar.
func loadGrammar(args []string, start string) (*grammar.Grammar, error) {
	if start == "" {
		start = cfg.Grammar.Start
	}
	path := cfg.Grammar.File
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return parser.Grammar(), nil
	}
	g, err := grammar.LoadFile(path, start)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

func newSetsEncoder() *format.SetsEncoder {
	return format.NewSetsEncoder(os.Stdout).WithColor(cfg.UseColor())
}
