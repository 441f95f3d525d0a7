package grammar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// IsLexical reports whether an EBNF production name denotes a lexical
// production. Lexical productions start with a lower-case letter and are
// treated as terminals when referenced from syntactic productions.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// ParseEBNF parses and verifies an EBNF grammar without converting it.
func ParseEBNF(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start != "" {
		if err := ebnf.Verify(g, start); err != nil {
			return nil, fmt.Errorf("verify grammar: %w", err)
		}
	}
	return g, nil
}

// FromEBNF reads an EBNF grammar and converts its syntactic productions
// into a Grammar rooted at start.
//
// Literal tokens and references to lexical productions become terminals.
// Groups, options and repetitions nested inside a production are replaced
// by generated nonterminals named after the enclosing production, so
// "A = x { y } ." yields A -> x A_1 and A_1 -> y A_1 | ε.
func FromEBNF(filename string, r io.Reader, start string) (*Grammar, error) {
	if start == "" {
		return nil, &Error{Kind: NoStartSymbol}
	}
	src, err := ParseEBNF(filename, r, start)
	if err != nil {
		return nil, err
	}
	return Convert(src, start)
}

// Convert turns a parsed EBNF grammar into a Grammar.
func Convert(src ebnf.Grammar, start string) (*Grammar, error) {
	c := &converter{
		src:       src,
		seen:      make(map[string]bool),
		counters:  make(map[string]int),
		generated: make(map[string]bool),
	}
	c.def.Start = start

	var prods []*ebnf.Production
	for name, prod := range src {
		if !IsLexical(name) {
			prods = append(prods, prod)
		}
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})

	for _, prod := range prods {
		c.def.Nonterminals = append(c.def.Nonterminals, prod.Name.String)
	}
	for _, prod := range prods {
		if err := c.production(prod); err != nil {
			return nil, err
		}
	}

	return New(c.def)
}

type converter struct {
	src       ebnf.Grammar
	def       Definition
	seen      map[string]bool
	counters  map[string]int
	generated map[string]bool
}

func (c *converter) production(prod *ebnf.Production) error {
	name := prod.Name.String
	if prod.Expr == nil {
		c.rule(name, nil)
		return nil
	}
	alts, err := c.alternatives(name, prod.Expr)
	if err != nil {
		return err
	}
	for _, alt := range alts {
		c.rule(name, alt)
	}
	return nil
}

func (c *converter) rule(left string, right []string) {
	c.def.Rules = append(c.def.Rules, Rule{Left: left, Right: right})
}

// alternatives expands the top level of a production body. A bare option
// becomes its alternatives plus an empty one.
func (c *converter) alternatives(owner string, expr ebnf.Expression) ([][]string, error) {
	switch e := expr.(type) {
	case ebnf.Alternative:
		var out [][]string
		for _, alt := range e {
			seq, err := c.sequence(owner, alt)
			if err != nil {
				return nil, err
			}
			out = append(out, seq)
		}
		return out, nil
	case *ebnf.Option:
		out, err := c.alternatives(owner, e.Body)
		if err != nil {
			return nil, err
		}
		return append(out, nil), nil
	case *ebnf.Group:
		return c.alternatives(owner, e.Body)
	}
	seq, err := c.sequence(owner, expr)
	if err != nil {
		return nil, err
	}
	return [][]string{seq}, nil
}

func (c *converter) sequence(owner string, expr ebnf.Expression) ([]string, error) {
	if seq, ok := expr.(ebnf.Sequence); ok {
		var out []string
		for _, item := range seq {
			syms, err := c.term(owner, item)
			if err != nil {
				return nil, err
			}
			out = append(out, syms...)
		}
		return out, nil
	}
	return c.term(owner, expr)
}

func (c *converter) term(owner string, expr ebnf.Expression) ([]string, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if IsLexical(e.String) {
			c.terminal(e.String)
		}
		return []string{e.String}, nil

	case *ebnf.Token:
		c.terminal(e.String)
		return []string{e.String}, nil

	case *ebnf.Group:
		if _, ok := e.Body.(ebnf.Alternative); !ok {
			return c.sequence(owner, e.Body)
		}
		name := c.freshName(owner)
		alts, err := c.alternatives(name, e.Body)
		if err != nil {
			return nil, err
		}
		for _, alt := range alts {
			c.rule(name, alt)
		}
		return []string{name}, nil

	case *ebnf.Option:
		name := c.freshName(owner)
		alts, err := c.alternatives(name, e.Body)
		if err != nil {
			return nil, err
		}
		empty := false
		for _, alt := range alts {
			c.rule(name, alt)
			empty = empty || len(alt) == 0
		}
		if !empty {
			c.rule(name, nil)
		}
		return []string{name}, nil

	case *ebnf.Repetition:
		name := c.freshName(owner)
		alts, err := c.alternatives(name, e.Body)
		if err != nil {
			return nil, err
		}
		for _, alt := range alts {
			c.rule(name, append(alt, name))
		}
		c.rule(name, nil)
		return []string{name}, nil

	case *ebnf.Range:
		return nil, fmt.Errorf("%s: character range in syntactic production %s", e.Pos(), owner)

	case *ebnf.Bad:
		return nil, fmt.Errorf("%s: %s", e.Pos(), e.Error)
	}
	return nil, fmt.Errorf("%s: unsupported expression %T", expr.Pos(), expr)
}

func (c *converter) terminal(name string) {
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.def.Terminals = append(c.def.Terminals, name)
}

// freshName returns a nonterminal name derived from owner that no
// production, terminal or earlier generated name uses.
func (c *converter) freshName(owner string) string {
	for {
		c.counters[owner]++
		name := fmt.Sprintf("%s_%d", owner, c.counters[owner])
		if _, ok := c.src[name]; ok || c.seen[name] || c.generated[name] {
			continue
		}
		c.generated[name] = true
		c.def.Nonterminals = append(c.def.Nonterminals, name)
		return name
	}
}

// LoadFile loads a grammar from an .ebnf, .yaml or .yml file. For YAML
// files a non-empty start overrides the start symbol in the file.
func LoadFile(path, start string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".ebnf":
		return FromEBNF(path, f, start)
	case ".yaml", ".yml":
		def, err := DecodeYAML(f)
		if err != nil {
			return nil, err
		}
		if start != "" {
			def.Start = start
		}
		return New(def)
	}
	return nil, fmt.Errorf("unsupported grammar file %s (expected .ebnf or .yaml)", path)
}
