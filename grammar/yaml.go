package grammar

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeYAML reads a Definition from YAML:
//
//	start: Expr
//	terminals: [num, "+"]
//	nonterminals: [Expr, Rest]
//	rules:
//	  - {left: Expr, right: [num, Rest]}
//	  - {left: Rest, right: ["+", num, Rest]}
//	  - {left: Rest, right: [ε]}
func DecodeYAML(r io.Reader) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("decode grammar: %w", err)
	}
	return def, nil
}

func FromYAML(r io.Reader) (*Grammar, error) {
	def, err := DecodeYAML(r)
	if err != nil {
		return nil, err
	}
	return New(def)
}

// EncodeYAML writes the grammar in the format read by DecodeYAML.
func EncodeYAML(w io.Writer, g *Grammar) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.Definition()); err != nil {
		return fmt.Errorf("encode grammar: %w", err)
	}
	return enc.Close()
}
