package jscan

import (
	"testing"

	"github.com/jscan-dev/jscan/query"
)

func compile(t *testing.T, q string) *Automaton {
	t.Helper()
	parsed, err := query.Parse(q)
	if err != nil {
		t.Fatalf("query.Parse(%q): %v", q, err)
	}
	a, err := Compile(parsed)
	if err != nil {
		t.Fatalf("Compile(%q): %v", q, err)
	}
	return a
}

func TestCompileEmptyQuery(t *testing.T) {
	a := compile(t, "")
	if !a.Empty() {
		t.Fatal("expected an empty query to compile to an Automaton that matches nothing")
	}
	if a.matchRoot {
		t.Fatal("empty query must not be treated as matchRoot")
	}
}

func TestCompileRootOnly(t *testing.T) {
	a := compile(t, "$")
	if a.Empty() {
		t.Fatal("'$' must not be Empty")
	}
	if !a.matchRoot || len(a.states) != 0 {
		t.Fatalf("got matchRoot=%v states=%d, want matchRoot=true states=0", a.matchRoot, len(a.states))
	}
}

func TestCompileChain(t *testing.T) {
	a := compile(t, "$.a.b[*]")
	if len(a.states) != 3 {
		t.Fatalf("got %d states, want 3", len(a.states))
	}
	if a.states[0].pred != predName || a.states[0].name != "a" || a.states[0].next != 1 {
		t.Fatalf("state0 = %+v", a.states[0])
	}
	if a.states[1].pred != predName || a.states[1].name != "b" || a.states[1].next != 2 {
		t.Fatalf("state1 = %+v", a.states[1])
	}
	if a.states[2].pred != predWildcard || a.states[2].next != noNext {
		t.Fatalf("state2 = %+v", a.states[2])
	}
}

func TestCompileScopes(t *testing.T) {
	a := compile(t, "$.a..b")
	if a.states[0].scope != query.Child {
		t.Fatalf("state0 scope = %v, want Child", a.states[0].scope)
	}
	if a.states[1].scope != query.Descendant {
		t.Fatalf("state1 scope = %v, want Descendant", a.states[1].scope)
	}
}

func TestStatePredicates(t *testing.T) {
	name := state{pred: predName, name: "a"}
	if !name.matchesName("a") || name.matchesName("b") {
		t.Fatal("name predicate mismatch")
	}
	if name.matchesIndex(0) {
		t.Fatal("name predicate must never satisfy an index test")
	}

	idx := state{pred: predIndex, index: 2}
	if !idx.matchesIndex(2) || idx.matchesIndex(3) {
		t.Fatal("index predicate mismatch")
	}
	if idx.matchesName("anything") {
		t.Fatal("index predicate must never satisfy a name test")
	}

	wc := state{pred: predWildcard}
	if !wc.matchesName("whatever") || !wc.matchesIndex(999) {
		t.Fatal("wildcard predicate must satisfy both name and index tests")
	}
}
