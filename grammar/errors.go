package grammar

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	UndefinedSymbol ErrorKind = iota
	NoStartSymbol
	AmbiguousSymbol
	LL1Conflict
	DuplicateSymbol
)

var errorKindNames = map[ErrorKind]string{
	UndefinedSymbol: "UndefinedSymbol",
	NoStartSymbol:   "NoStartSymbol",
	AmbiguousSymbol: "AmbiguousSymbol",
	LL1Conflict:     "LL1Conflict",
	DuplicateSymbol: "DuplicateSymbol",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

var (
	ErrUndefinedSymbol = errors.New("undefined symbol")
	ErrNoStartSymbol   = errors.New("no start symbol")
	ErrAmbiguousSymbol = errors.New("symbol declared as terminal and nonterminal")
	ErrLL1Conflict     = errors.New("LL(1) conflict")
	ErrDuplicateSymbol = errors.New("symbol declared more than once")
)

var sentinels = map[ErrorKind]error{
	UndefinedSymbol: ErrUndefinedSymbol,
	NoStartSymbol:   ErrNoStartSymbol,
	AmbiguousSymbol: ErrAmbiguousSymbol,
	LL1Conflict:     ErrLL1Conflict,
	DuplicateSymbol: ErrDuplicateSymbol,
}

// Error describes a problem with a grammar. Productions and Overlap are
// only set for LL1Conflict.
type Error struct {
	Kind        ErrorKind
	Symbol      Symbol
	Context     string
	Productions []int
	Overlap     []Symbol
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoStartSymbol:
		return "no start symbol designated"
	case UndefinedSymbol:
		if e.Context != "" {
			return fmt.Sprintf("undefined symbol %s in %s", e.Symbol.Name, e.Context)
		}
		return fmt.Sprintf("undefined symbol %s", e.Symbol.Name)
	case AmbiguousSymbol:
		return fmt.Sprintf("%s is declared both as terminal and nonterminal", e.Symbol.Name)
	case DuplicateSymbol:
		return fmt.Sprintf("%s %s is declared more than once", e.Symbol.Kind, e.Symbol.Name)
	case LL1Conflict:
		names := make([]string, len(e.Overlap))
		for i, sym := range e.Overlap {
			names[i] = sym.String()
		}
		return fmt.Sprintf("LL(1) conflict in %s between productions %v on {%s}",
			e.Symbol.Name, e.Productions, strings.Join(names, ", "))
	}
	return e.Kind.String()
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// ErrorList collects every problem found while building a grammar.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	for i, err := range l {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
