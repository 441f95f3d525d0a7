package ll1

import (
	"sort"
	"strings"

	"github.com/dhamidi/tila/grammar"
)

// Set is a set of grammar symbols.
type Set map[grammar.Symbol]struct{}

func NewSet(syms ...grammar.Symbol) Set {
	s := make(Set, len(syms))
	for _, sym := range syms {
		s[sym] = struct{}{}
	}
	return s
}

// Add inserts sym and reports whether the set grew.
func (s Set) Add(sym grammar.Symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

func (s Set) Has(sym grammar.Symbol) bool {
	_, ok := s[sym]
	return ok
}

// AddAll inserts every member of other except the excluded symbols and
// reports whether the set grew.
func (s Set) AddAll(other Set, except ...grammar.Symbol) bool {
	changed := false
outer:
	for sym := range other {
		for _, x := range except {
			if sym == x {
				continue outer
			}
		}
		if s.Add(sym) {
			changed = true
		}
	}
	return changed
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for sym := range s {
		out[sym] = struct{}{}
	}
	return out
}

func (s Set) Intersect(other Set) Set {
	out := NewSet()
	for sym := range s {
		if other.Has(sym) {
			out[sym] = struct{}{}
		}
	}
	return out
}

// Contains reports whether every member of other is in s.
func (s Set) Contains(other Set) bool {
	for sym := range other {
		if !s.Has(sym) {
			return false
		}
	}
	return true
}

func (s Set) Equal(other Set) bool {
	return len(s) == len(other) && s.Contains(other)
}

// Sorted returns the members ordered by kind, then name. Terminals come
// first; Epsilon and EndOfInput sort last.
func (s Set) Sorted() []grammar.Symbol {
	out := make([]grammar.Symbol, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s Set) String() string {
	syms := s.Sorted()
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = sym.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// SetTable maps a symbol to its FIRST or FOLLOW set.
type SetTable map[grammar.Symbol]Set

func (t SetTable) Clone() SetTable {
	out := make(SetTable, len(t))
	for sym, set := range t {
		out[sym] = set.Clone()
	}
	return out
}

func (t SetTable) Equal(other SetTable) bool {
	if len(t) != len(other) {
		return false
	}
	for sym, set := range t {
		o, ok := other[sym]
		if !ok || !set.Equal(o) {
			return false
		}
	}
	return true
}
