package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tila/format"
	"github.com/dhamidi/tila/tila/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Tila program and print its syntax tree",
		Long: `Parse a Tila program and print its abstract syntax tree.

Reads from stdin when no file is given. The output format defaults to the
[output] format of the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, filename, err := readSource(args)
			if err != nil {
				return err
			}

			if outputFormat == "" {
				outputFormat = cfg.Output.Format
			}
			encoder, err := newEncoder(outputFormat)
			if err != nil {
				return err
			}

			node, err := parser.ParseSource(src, filename)
			if err != nil {
				return err
			}

			if err := encoder.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format ("+strings.Join(format.Names(), ", ")+")")

	return cmd
}

func newEncoder(name string) (format.Encoder, error) {
	encoder, err := format.New(name, os.Stdout)
	if err != nil {
		return nil, err
	}
	if tree, ok := encoder.(*format.TreeEncoder); ok {
		tree.WithColor(cfg.UseColor())
	}
	return encoder, nil
}
