package parser

import (
	"errors"
	"fmt"
	"strings"
)

type SyntaxErrorKind int

const (
	UnexpectedToken SyntaxErrorKind = iota
	// UnterminatedConstruct means the input ended while a construct was
	// still open.
	UnterminatedConstruct
	// NestingTooDeep means groups, unary minus, exponents or loops nest
	// deeper than MaxDepth.
	NestingTooDeep
)

func (k SyntaxErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnterminatedConstruct:
		return "UnterminatedConstruct"
	case NestingTooDeep:
		return "NestingTooDeep"
	}
	return "Unknown"
}

// SyntaxError is the single error a parse can produce. Expected holds the
// terminal names that would have been accepted at Pos, sorted.
type SyntaxError struct {
	Kind     SyntaxErrorKind
	Pos      Position
	Expected []string
	Found    Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message())
}

// Message describes the error without its position.
func (e *SyntaxError) Message() string {
	if e.Kind == NestingTooDeep {
		return fmt.Sprintf("nesting deeper than %d levels at %s", MaxDepth, e.Found)
	}
	return fmt.Sprintf("expected %s, found %s", e.ExpectedString(), e.Found)
}

// ExpectedString describes the expected set for diagnostics.
func (e *SyntaxError) ExpectedString() string {
	quoted := make([]string, len(e.Expected))
	for i, name := range e.Expected {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	switch len(quoted) {
	case 0:
		return "nothing"
	case 1:
		return quoted[0]
	}
	return "one of " + strings.Join(quoted, ", ")
}

// LexError reports input that does not start any token.
type LexError struct {
	Pos  Position
	Text string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Text)
}

// IsIncomplete reports whether err was caused by input ending too early,
// so that more input could still make it parse.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	return errors.As(err, &serr) && serr.Kind == UnterminatedConstruct
}
