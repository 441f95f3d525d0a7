package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/tila/format"
	"github.com/dhamidi/tila/tila/parser"
)

const continuationPrompt = ". "

func newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse Tila programs interactively",
		Long: `Parse Tila programs interactively.

Lines are collected until they form a complete program or an error that
more input cannot fix, then the syntax tree is printed. Commands:

  :format <name>   switch the output format
  :quit            leave the REPL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			histPath := cfg.REPL.History
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
			defer signal.Stop(sigc)
			go func() {
				<-sigc
				ln.Close()
				os.Exit(130)
			}()

			r := &repl{
				in:     ln,
				out:    os.Stdout,
				errOut: os.Stderr,
				prompt: cfg.REPL.Prompt,
				format: cfg.Output.Format,
				onRead: func(src string) {
					ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
				},
			}
			return r.run()
		},
	}
}

type lineReader interface {
	Prompt(prompt string) (string, error)
}

type repl struct {
	in     lineReader
	out    io.Writer
	errOut io.Writer
	prompt string
	format string
	onRead func(src string)
}

func (r *repl) run() error {
	for {
		in, ok := r.read()
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		input := strings.TrimSpace(in.src)
		if input == "" {
			continue
		}
		if r.onRead != nil {
			r.onRead(in.src)
		}

		if strings.HasPrefix(input, ":") {
			if quit := r.command(input); quit {
				return nil
			}
			continue
		}

		if in.err != nil {
			fmt.Fprintln(r.errOut, in.err)
			continue
		}
		encoder, err := format.New(r.format, r.out)
		if err != nil {
			fmt.Fprintln(r.errOut, err)
			continue
		}
		if err := encoder.Encode(in.node); err != nil {
			fmt.Fprintln(r.errOut, err)
		}
	}
}

// entry is one input read by the REPL. Programs are parsed while they are
// read; node and err hold that result. Commands and blank input are not
// parsed.
type entry struct {
	src  string
	node *parser.Node
	err  error
}

// read collects lines until they parse or fail for a reason other than
// running out of input. It returns false at end of input.
func (r *repl) read() (entry, bool) {
	var b strings.Builder

	for {
		prompt := r.prompt
		if b.Len() > 0 {
			prompt = continuationPrompt
		}
		line, err := r.in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return entry{}, false
		}
		if err != nil {
			return entry{}, true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" {
			return entry{src: src}, true
		}
		node, perr := parser.ParseSource([]byte(src), "<repl>")
		if perr == nil || !parser.IsIncomplete(perr) {
			return entry{src: src, node: node, err: perr}, true
		}
	}
}

func (r *repl) command(input string) (quit bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":format":
		if len(fields) != 2 {
			fmt.Fprintf(r.out, "format is %s (available: %s)\n", r.format, strings.Join(format.Names(), ", "))
			return false
		}
		if _, err := format.New(fields[1], r.out); err != nil {
			fmt.Fprintln(r.errOut, err)
			return false
		}
		r.format = fields[1]
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :quit to exit.\n", fields[0])
	}
	return false
}
