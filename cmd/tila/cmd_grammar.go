package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/tila/ebnf/parse"
	"github.com/dhamidi/tila/ebnflex"
	"github.com/dhamidi/tila/ll1"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Grammar file tools",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarRecognizeCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var start string
	var allowConflicts bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Verify a grammar file and check that it is LL(1)",
		Long: `Verify a grammar file and check that it is LL(1).

EBNF files are first parsed and verified with golang.org/x/exp/ebnf; every
problem found is printed on its own line. The converted grammar is then
analysed and its LL(1) conflicts are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if start == "" {
				start = cfg.Grammar.Start
			}

			if filepath.Ext(filename) == ".ebnf" {
				if err := verifyEBNF(filename, start); err != nil {
					printErrors(err)
					return fmt.Errorf("%s is not a valid EBNF grammar", filename)
				}
			}

			g, err := loadGrammar(args, start)
			if err != nil {
				return err
			}
			a := ll1.Analyze(g)
			for _, c := range a.Conflicts() {
				fmt.Println(c)
			}
			if !a.IsLL1() && !allowConflicts {
				return fmt.Errorf("%s: %d LL(1) conflicts", filename, len(a.Conflicts()))
			}

			fmt.Printf("%s: %d nonterminals, %d terminals, %d productions\n",
				filename, len(g.Nonterminals()), len(g.Terminals()), g.NumProductions())
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production (default from configuration)")
	cmd.Flags().BoolVar(&allowConflicts, "allow-conflicts", false, "report conflicts without failing")

	return cmd
}

func verifyEBNF(filename, start string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		return err
	}
	return ebnf.Verify(g, start)
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}

func newGrammarRecognizeCmd() *cobra.Command {
	var start string
	var lineComment string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "recognize <grammar.ebnf> [file]",
		Short: "Parse input with any EBNF grammar using an Earley parser",
		Long: `Parse input with any EBNF grammar using an Earley parser and print the
concrete syntax tree.

The grammar does not need to be LL(1); left recursion and ambiguity are
accepted. Reads the input from stdin when no file is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if start == "" {
				start = cfg.Grammar.Start
			}
			var opts []ebnflex.Option
			if lineComment != "" {
				opts = append(opts, ebnflex.WithLineComment(lineComment))
			}
			p, err := parse.Load(args[0], start, opts...)
			if err != nil {
				return err
			}

			src, filename, err := readSource(args[1:])
			if err != nil {
				return err
			}

			if quiet {
				return p.Recognize(src, filename)
			}
			node, err := p.Parse(src, filename)
			if err != nil {
				return err
			}
			fmt.Println(node)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production (default from configuration)")
	cmd.Flags().StringVar(&lineComment, "comment", "//", "line comment prefix (empty disables comments)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report whether the input is accepted")

	return cmd
}
