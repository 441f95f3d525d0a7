// Package ll1 computes FIRST, FOLLOW and FIRST+ sets for a grammar and
// reports LL(1) conflicts.
//
// All sets are computed by fixed-point iteration over the grammar's
// production list. Each pass only ever adds symbols, and the number of
// possible members is bounded by the grammar's symbols, so every
// computation terminates. An Analysis is immutable once Analyze returns
// and may be shared freely.
package ll1

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/tila/grammar"
)

var log = commonlog.GetLogger("tila.ll1")

type Computation int

const (
	ComputeFirst Computation = iota
	ComputeFollow
)

func (c Computation) String() string {
	switch c {
	case ComputeFirst:
		return "FIRST"
	case ComputeFollow:
		return "FOLLOW"
	}
	return "Unknown"
}

// Pass is handed to observers after every pass of a fixed-point loop.
// Table is a snapshot the observer may keep.
type Pass struct {
	Computation Computation
	Number      int
	Changed     bool
	Table       SetTable
}

type Option func(*Analysis)

// WithObserver registers fn to be called after every pass.
func WithObserver(fn func(Pass)) Option {
	return func(a *Analysis) {
		a.observers = append(a.observers, fn)
	}
}

type Analysis struct {
	grammar   *grammar.Grammar
	first     SetTable
	follow    SetTable
	firstPlus []Set
	conflicts []*grammar.Error
	passes    map[Computation]int
	observers []func(Pass)
}

// Analyze computes FIRST, then FOLLOW, then FIRST+ for every production,
// and finally checks each nonterminal's alternatives for overlapping
// FIRST+ sets. Conflicts are recorded, not fatal.
func Analyze(g *grammar.Grammar, opts ...Option) *Analysis {
	a := &Analysis{
		grammar: g,
		passes:  make(map[Computation]int),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.computeFirst()
	a.computeFollow()
	a.computeFirstPlus()
	a.findConflicts()

	log.Debugf("FIRST converged after %d passes, FOLLOW after %d passes",
		a.passes[ComputeFirst], a.passes[ComputeFollow])
	for _, c := range a.conflicts {
		log.Noticef("%s", c)
	}

	a.observers = nil
	return a
}

func (a *Analysis) notify(c Computation, n int, changed bool, table SetTable) {
	for _, fn := range a.observers {
		fn(Pass{Computation: c, Number: n, Changed: changed, Table: table.Clone()})
	}
}

func (a *Analysis) computeFirst() {
	a.first = make(SetTable)
	for _, t := range a.grammar.Terminals() {
		a.first[t] = NewSet(t)
	}
	for _, nt := range a.grammar.Nonterminals() {
		a.first[nt] = NewSet()
	}
	a.first[grammar.Epsilon] = NewSet(grammar.Epsilon)
	a.first[grammar.EndOfInput] = NewSet(grammar.EndOfInput)

	prods := a.grammar.Productions()
	for changed := true; changed; {
		changed = false
		for _, p := range prods {
			if a.first[p.Left].AddAll(a.firstOf(p.Right)) {
				changed = true
			}
		}
		a.passes[ComputeFirst]++
		a.notify(ComputeFirst, a.passes[ComputeFirst], changed, a.first)
	}
}

// firstOf walks seq left to right, collecting FIRST of each symbol
// without Epsilon, and stops at the first symbol that is not nullable.
// Epsilon is added only when every symbol, including the last, is
// nullable.
func (a *Analysis) firstOf(seq []grammar.Symbol) Set {
	out := NewSet()
	for _, sym := range seq {
		f := a.first[sym]
		out.AddAll(f, grammar.Epsilon)
		if !f.Has(grammar.Epsilon) {
			return out
		}
	}
	out.Add(grammar.Epsilon)
	return out
}

func (a *Analysis) computeFollow() {
	a.follow = make(SetTable)
	for _, nt := range a.grammar.Nonterminals() {
		a.follow[nt] = NewSet()
	}
	if start := a.grammar.Start(); start.IsNonterminal() {
		a.follow[start].Add(grammar.EndOfInput)
	}

	prods := a.grammar.Productions()
	for changed := true; changed; {
		changed = false
		for _, p := range prods {
			trailer := a.follow[p.Left].Clone()
			for i := len(p.Right) - 1; i >= 0; i-- {
				sym := p.Right[i]
				switch sym.Kind {
				case grammar.KindNonterminal:
					if a.follow[sym].AddAll(trailer) {
						changed = true
					}
					f := a.first[sym]
					if f.Has(grammar.Epsilon) {
						trailer.AddAll(f, grammar.Epsilon)
					} else {
						trailer = f.Clone()
					}
				case grammar.KindTerminal:
					trailer = NewSet(sym)
				}
			}
		}
		a.passes[ComputeFollow]++
		a.notify(ComputeFollow, a.passes[ComputeFollow], changed, a.follow)
	}
}

func (a *Analysis) computeFirstPlus() {
	prods := a.grammar.Productions()
	a.firstPlus = make([]Set, len(prods))
	for i, p := range prods {
		fs := a.firstOf(p.Right)
		if fs.Has(grammar.Epsilon) {
			plus := NewSet()
			plus.AddAll(fs, grammar.Epsilon)
			plus.AddAll(a.follow[p.Left])
			fs = plus
		}
		a.firstPlus[i] = fs
	}
}

func (a *Analysis) findConflicts() {
	for _, nt := range a.grammar.Nonterminals() {
		alts := a.grammar.Alternatives(nt)
		for i := 0; i < len(alts); i++ {
			for j := i + 1; j < len(alts); j++ {
				overlap := a.firstPlus[alts[i]].Intersect(a.firstPlus[alts[j]])
				if len(overlap) == 0 {
					continue
				}
				a.conflicts = append(a.conflicts, &grammar.Error{
					Kind:        grammar.LL1Conflict,
					Symbol:      nt,
					Productions: []int{alts[i], alts[j]},
					Overlap:     overlap.Sorted(),
				})
			}
		}
	}
}

func (a *Analysis) Grammar() *grammar.Grammar {
	return a.grammar
}

// First returns FIRST(sym). Unknown symbols have an empty set.
func (a *Analysis) First(sym grammar.Symbol) Set {
	return a.first[sym].Clone()
}

// Follow returns FOLLOW(nt). It is empty for anything but nonterminals.
func (a *Analysis) Follow(nt grammar.Symbol) Set {
	return a.follow[nt].Clone()
}

// FirstOf returns FIRST of a symbol sequence.
func (a *Analysis) FirstOf(seq []grammar.Symbol) Set {
	return a.firstOf(seq)
}

// FirstPlus returns the lookahead set of production i.
func (a *Analysis) FirstPlus(i int) Set {
	return a.firstPlus[i].Clone()
}

// Nullable reports whether production i can derive the empty sequence.
func (a *Analysis) Nullable(i int) bool {
	return a.firstOf(a.grammar.Production(i).Right).Has(grammar.Epsilon)
}

// IsNullable reports whether sym can derive the empty sequence.
func (a *Analysis) IsNullable(sym grammar.Symbol) bool {
	return a.first[sym].Has(grammar.Epsilon)
}

func (a *Analysis) FirstTable() SetTable {
	return a.first.Clone()
}

func (a *Analysis) FollowTable() SetTable {
	return a.follow.Clone()
}

// Passes returns how many passes a computation needed, including the
// final pass that observed no change.
func (a *Analysis) Passes(c Computation) int {
	return a.passes[c]
}

func (a *Analysis) Conflicts() []*grammar.Error {
	return append([]*grammar.Error(nil), a.conflicts...)
}

func (a *Analysis) IsLL1() bool {
	return len(a.conflicts) == 0
}

// Err returns the conflicts as a grammar.ErrorList, or nil.
func (a *Analysis) Err() error {
	return grammar.ErrorList(a.conflicts).Err()
}

// Predict returns the alternative of nt whose FIRST+ set contains
// lookahead. Alternatives are tried in declaration order, so a
// conflicting grammar still gets a deterministic answer.
func (a *Analysis) Predict(nt, lookahead grammar.Symbol) (int, bool) {
	for _, i := range a.grammar.Alternatives(nt) {
		if a.firstPlus[i].Has(lookahead) {
			return i, true
		}
	}
	return -1, false
}

// EmptyAlternative returns the first alternative of nt that can derive
// the empty sequence.
func (a *Analysis) EmptyAlternative(nt grammar.Symbol) (int, bool) {
	for _, i := range a.grammar.Alternatives(nt) {
		if a.Nullable(i) {
			return i, true
		}
	}
	return -1, false
}

// Expected returns the union of the FIRST+ sets of nt's alternatives.
func (a *Analysis) Expected(nt grammar.Symbol) Set {
	out := NewSet()
	for _, i := range a.grammar.Alternatives(nt) {
		out.AddAll(a.firstPlus[i])
	}
	return out
}
