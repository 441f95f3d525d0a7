package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/tila/tila/parser"
)

func parse(t *testing.T, src string) *parser.Node {
	t.Helper()
	node, err := parser.ParseSource([]byte(src), "test.tila")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return node
}

func TestSourceEncoder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty program",
			input: "begin end",
			want:  "begin\nend\n",
		},
		{
			name:  "statements",
			input: "begin int x; x = 1; print x end",
			want: `begin
    int x;
    x = 1;
    print x;
end
`,
		},
		{
			name:  "loop",
			input: "begin while x do begin x = x - 1; print x end end",
			want: `begin
    while x do begin
        x = x - 1;
        print x;
    end;
end
`,
		},
		{
			name:  "expressions",
			input: "begin print (1-2)*-x^2 end",
			want:  "begin\n    print (1 - 2) * -x ^ 2;\nend\n",
		},
		{
			name:  "declaration chain and empty statement",
			input: "begin int a int b; ; a = 2 end",
			want:  "begin\n    int a int b;\n    ;\n    a = 2;\nend\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Source([]byte(tt.input), "test.tila")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestSourceRoundTrip(t *testing.T) {
	inputs := []string{
		"begin end",
		"begin int x; x = 1; print x end",
		"begin while x do begin print x end end",
		"begin ; ; print 1 end",
		"begin x = - - 3; y = x - (x * 2) ^ 3 ^ 4 end",
		"begin while a - 1 do begin while b do begin end; c = 1 end end",
		"begin int i int j; i = 0.5 end",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			original := parse(t, input)
			text, err := NewSourceEncoder(nil).MarshalText(original)
			if err != nil {
				t.Fatalf("print: %v", err)
			}
			reparsed := parse(t, string(text))
			if !original.Equal(reparsed) {
				t.Errorf("round trip changed the tree:\n  got  %s\n  want %s", reparsed, original)
			}

			again, err := NewSourceEncoder(nil).MarshalText(reparsed)
			if err != nil {
				t.Fatalf("print: %v", err)
			}
			if !bytes.Equal(text, again) {
				t.Errorf("printing is not stable:\n%s\nvs\n%s", text, again)
			}
		})
	}
}

func TestSourceKeepsComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "canonical",
			input: "// header\nbegin\n    // counter\n    int x;\n    x = 1; // start\n    while x do begin // loop\n        x = x - 1;\n        // tail of loop\n    end;\n    // before end\nend\n// trailer\n",
			want:  "// header\nbegin\n    // counter\n    int x;\n    x = 1; // start\n    while x do begin // loop\n        x = x - 1;\n        // tail of loop\n    end;\n    // before end\nend\n// trailer\n",
		},
		{
			name:  "reindented",
			input: "begin\n// counter\nint x; x = 1   // start\nend",
			want:  "begin\n    // counter\n    int x;\n    x = 1; // start\nend\n",
		},
		{
			name:  "inside an expression",
			input: "begin\n    x = 1 - // split\n        2\nend\n",
			want:  "begin\n    x = 1 - 2;\n    // split\nend\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Source([]byte(tt.input), "test.tila")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}

			again, err := Source(got, "test.tila")
			if err != nil {
				t.Fatalf("reformat: %v", err)
			}
			if !bytes.Equal(got, again) {
				t.Errorf("formatting is not stable:\n%s\nvs\n%s", got, again)
			}
		})
	}
}

func TestSourceEncoderIndent(t *testing.T) {
	var buf bytes.Buffer
	enc := NewSourceEncoder(&buf).WithIndent("\t")
	if err := enc.Encode(parse(t, "begin print 1 end")); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "begin\n\tprint 1;\nend\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(parse(t, "begin print x end")); err != nil {
		t.Fatal(err)
	}
	want := `Program begin 1:1-1:18
  StatementList 1:7-1:14
    Print print 1:7-1:14
      Variable x 1:13-1:14
    Epsilon
`
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestASTJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(parse(t, "begin x = 4 end")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"kind\": \"Program\"") {
		t.Errorf("output is not indented JSON: %s", buf.String())
	}

	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
				Name string `json:"name"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assign := decoded.Children[0].Children[0]
	if assign.Kind != "Assignment" || assign.Name != "x" {
		t.Errorf("got %+v, want Assignment x", assign)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		var buf bytes.Buffer
		enc, err := New(name, &buf)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := enc.Encode(parse(t, "begin print 1 end")); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: no output", name)
		}
	}

	if _, err := New("xml", nil); err == nil {
		t.Error("expected an error for an unknown format")
	}
	if got, want := strings.Join(Names(), ","), "ast,json,source,tree"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestASTEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewASTEncoder(&buf).Encode(parse(t, "begin print 1 end")); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "Program(StatementList(Print(Literal(1)), Epsilon))\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
