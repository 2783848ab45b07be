package jscan

import (
	"github.com/jscan-dev/jscan/query"
)

// predKind is the test a compiled state applies to an incoming key or
// array-index event.
type predKind uint8

const (
	predName predKind = iota
	predIndex
	predWildcard
)

// state is one node of the compiled automaton, corresponding to exactly
// one non-root selector of the query. States are chained root-to-terminal
// via next; the automaton's terminal field names the accepting one.
type state struct {
	pred  predKind
	name  string // exact escaped octets for predName
	index int    // zero-based position for predIndex
	scope query.Scope
	next  int // index of the successor state; -1 for the terminal state
}

// Automaton is a compiled query, immutable after Compile and safe to
// share across concurrent evaluations. It has three possible shapes:
//
//   - empty query ("")      -> no states, matches nothing at all
//   - "$" alone              -> no states, but the root value itself
//     terminates the query (matchRoot)
//   - "$" plus N selectors  -> N states, states[terminal] is accepting
type Automaton struct {
	states    []state
	terminal  int  // index into states that is accepting; -1 when matchRoot or empty
	matchRoot bool // true iff the query is exactly "$"
}

// Empty reports whether the automaton can never produce a match.
func (a *Automaton) Empty() bool {
	return a.terminal < 0 && !a.matchRoot
}

// Compile lowers a parsed query into an automaton. It performs no I/O and
// allocates only the fixed-size state table, never during scanning.
func Compile(q query.Query) (*Automaton, error) {
	if q.Empty() {
		return &Automaton{terminal: -1}, nil
	}
	if len(q.Selectors) == 1 {
		// Selectors[0] is always Root; nothing follows it.
		return &Automaton{terminal: -1, matchRoot: true}, nil
	}

	a := &Automaton{}
	for i := 1; i < len(q.Selectors); i++ {
		sel := q.Selectors[i]
		st := state{scope: sel.Scope, next: -1}
		switch sel.Kind {
		case query.KindName:
			st.pred = predName
			st.name = sel.Name
		case query.KindIndex:
			st.pred = predIndex
			st.index = sel.Index
		case query.KindWildcard:
			st.pred = predWildcard
		default:
			return nil, &MalformedJSONError{Reason: "unsupported selector kind in compiled query"}
		}
		if len(a.states) > 0 {
			a.states[len(a.states)-1].next = len(a.states)
		}
		a.states = append(a.states, st)
	}
	a.terminal = len(a.states) - 1
	return a, nil
}

func (s *state) matchesName(literal string) bool {
	return s.pred == predWildcard || (s.pred == predName && s.name == literal)
}

func (s *state) matchesIndex(idx int) bool {
	return s.pred == predWildcard || (s.pred == predIndex && s.index == idx)
}
