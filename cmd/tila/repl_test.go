package main

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/tila/tila/parser"
)

type scriptedLines struct {
	lines   []string
	prompts []string
}

func (s *scriptedLines) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func runREPL(t *testing.T, lines ...string) (*scriptedLines, string, string) {
	t.Helper()
	in := &scriptedLines{lines: lines}
	var out, errOut bytes.Buffer
	r := &repl{in: in, out: &out, errOut: &errOut, prompt: "> ", format: "ast"}
	if err := r.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return in, out.String(), errOut.String()
}

func mustParse(t *testing.T, src string) string {
	t.Helper()
	node, err := parser.ParseSource([]byte(src), "<repl>")
	if err != nil {
		t.Fatal(err)
	}
	return node.String()
}

func TestREPLMultiLineProgram(t *testing.T) {
	in, out, errOut := runREPL(t, "begin int x;", "x = 1", "end")

	want := mustParse(t, "begin int x;\nx = 1\nend") + "\n\n"
	if out != want {
		t.Errorf("got output %q, want %q", out, want)
	}
	if errOut != "" {
		t.Errorf("unexpected errors: %s", errOut)
	}
	if want := []string{"> ", ". ", ". ", "> "}; !reflect.DeepEqual(in.prompts, want) {
		t.Errorf("got prompts %q, want %q", in.prompts, want)
	}
}

func TestREPLReportsSyntaxErrors(t *testing.T) {
	_, out, errOut := runREPL(t, "begin x end", "begin print x end")

	if !strings.Contains(errOut, `<repl>:1:9: expected "="`) {
		t.Errorf("got errors %q", errOut)
	}
	if want := mustParse(t, "begin print x end") + "\n\n"; out != want {
		t.Errorf("got output %q, want %q", out, want)
	}
}

func TestREPLCommands(t *testing.T) {
	in, out, _ := runREPL(t, ":format json", "begin end", ":quit", "begin end")

	if !strings.Contains(out, `"kind": "Program"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if len(in.lines) != 1 {
		t.Errorf("got %d unread lines, want 1", len(in.lines))
	}
}

func TestREPLUnknownFormat(t *testing.T) {
	_, out, errOut := runREPL(t, ":format xml", "begin end")

	if !strings.Contains(errOut, `unknown output format "xml"`) {
		t.Errorf("got errors %q", errOut)
	}
	if want := mustParse(t, "begin end") + "\n\n"; out != want {
		t.Errorf("got output %q, want %q", out, want)
	}
}

func TestREPLReadParsesOnce(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		src     string
		wantErr string
	}{
		{"complete program", []string{"begin int x;", "x = 1 end"}, "begin int x;\nx = 1 end", ""},
		{"syntax error", []string{"begin x end"}, "begin x end", `expected "="`},
		{"command", []string{":format json"}, ":format json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &repl{in: &scriptedLines{lines: tt.lines}, prompt: "> "}
			e, ok := r.read()
			if !ok {
				t.Fatal("read reported end of input")
			}
			if e.src != tt.src {
				t.Errorf("got source %q, want %q", e.src, tt.src)
			}
			switch {
			case tt.wantErr != "":
				if e.err == nil || !strings.Contains(e.err.Error(), tt.wantErr) {
					t.Errorf("got error %v, want %q", e.err, tt.wantErr)
				}
				if e.node != nil {
					t.Error("got a tree alongside an error")
				}
			case strings.HasPrefix(tt.src, ":"):
				if e.node != nil || e.err != nil {
					t.Errorf("command was parsed: %v, %v", e.node, e.err)
				}
			default:
				if e.err != nil {
					t.Fatalf("unexpected error: %v", e.err)
				}
				if got, want := e.node.String(), mustParse(t, tt.src); got != want {
					t.Errorf("got %s, want %s", got, want)
				}
			}
		})
	}
}
