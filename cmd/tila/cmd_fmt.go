package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tila/format"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var fmtList bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a .tila file in canonical form",
		Long: `Print a .tila file in canonical form to stdout.

If a file is provided, it must have a .tila extension.
If no file is provided, reads Tila source from stdin.

Use -w to overwrite the file in place (requires a file argument).
Use -l to only print the name of the file if its formatting differs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && (fmtOverwrite || fmtList) {
				return fmt.Errorf("-w and -l require a file argument")
			}
			if len(args) > 0 {
				if ext := filepath.Ext(args[0]); ext != ".tila" {
					return fmt.Errorf("expected .tila file, got %s", ext)
				}
			}

			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			output, err := format.Source(source, filename)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			switch {
			case fmtList:
				if !bytes.Equal(source, output) {
					fmt.Println(filename)
				}
				return nil
			case fmtOverwrite:
				return os.WriteFile(filename, output, 0644)
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list the file if its formatting differs")

	return cmd
}
