package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/tila/tila/parser"
)

// ASTJSONEncoder writes trees as indented JSON using the node's own JSON
// form.
type ASTJSONEncoder struct {
	w      io.Writer
	indent string
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, indent: "  "}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(node, "", e.indent)
}
