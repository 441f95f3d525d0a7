package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tila/ebnflex"
	"github.com/dhamidi/tila/tila/parser"
)

func newTokensCmd() *cobra.Command {
	var grammarFile string
	var lineComment string

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a source file",
		Long: `Print the tokens of a source file, one per line.

By default the Tila lexer is used. With --grammar the tokens are those of
the given EBNF grammar: its literal tokens and the lexical productions the
syntactic productions refer to.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, filename, err := readSource(args)
			if err != nil {
				return err
			}

			if grammarFile != "" {
				g, err := ebnflex.LoadGrammar(grammarFile)
				if err != nil {
					return err
				}
				var opts []ebnflex.Option
				if lineComment != "" {
					opts = append(opts, ebnflex.WithLineComment(lineComment))
				}
				tokens, err := ebnflex.NewLexer(g, src, filename, opts...).Tokenize()
				for _, tok := range tokens {
					fmt.Printf("%s\t%s\t%q\n", tok.Position, tok.Kind, tok.Literal)
				}
				return err
			}

			tokens, err := parser.NewLexer(src, filename).Tokenize()
			for _, tok := range tokens {
				fmt.Printf("%s\t%s\t%q\n", tok.Pos(), tok.Kind, tok.Lexeme)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&grammarFile, "grammar", "g", "", "tokenize with an EBNF grammar instead of the Tila lexer")
	cmd.Flags().StringVar(&lineComment, "comment", "//", "line comment prefix for --grammar (empty disables comments)")

	return cmd
}
