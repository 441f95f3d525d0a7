// Package format renders Tila syntax trees as text.
package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/tila/tila/parser"
)

type Encoder interface {
	Encode(node *parser.Node) error
	MarshalText(node *parser.Node) ([]byte, error)
}

var encoders = map[string]func(w io.Writer) Encoder{
	"ast":    func(w io.Writer) Encoder { return NewASTEncoder(w) },
	"json":   func(w io.Writer) Encoder { return NewASTJSONEncoder(w) },
	"source": func(w io.Writer) Encoder { return NewSourceEncoder(w) },
	"tree":   func(w io.Writer) Encoder { return NewTreeEncoder(w) },
}

// Names returns the names accepted by New, sorted.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (expected one of %v)", name, Names())
	}
	return mk(w), nil
}

// ASTEncoder writes the constructor form of a tree on a single line.
type ASTEncoder struct {
	w io.Writer
}

func NewASTEncoder(w io.Writer) *ASTEncoder {
	return &ASTEncoder{w: w}
}

func (e *ASTEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return []byte(node.String() + "\n"), nil
}
