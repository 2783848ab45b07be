package jscan

import (
	"github.com/jscan-dev/jscan/input"
	"github.com/jscan-dev/jscan/query"
)

// noNext is the sentinel stored in a state's next field (and carried
// through the pending register) meaning "the query completes here": the
// value about to begin is itself a match, not a container to keep
// descending into.
const noNext = -1

// frame is the runtime record for one currently-open JSON container (§3).
type frame struct {
	isArray bool
	index   int   // array only: zero-based index of the next element
	alive   []int // automaton state indices alive in this frame
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func appendUnique(xs []int, v int) []int {
	if containsInt(xs, v) {
		return xs
	}
	return append(xs, v)
}

// engine drives the classifier's event stream through a compiled
// Automaton, emitting matches to a Sink in document order.
//
// This is the "iterative" strategy of §4.3: an explicit frame stack
// rather than one native call frame per container, so nesting depth costs
// a slice grow rather than host stack space.
type engine struct {
	a    *Automaton
	src  input.Source
	sink Sink

	frames  []frame
	pending []int // dedup'd: noNext and/or real state indices
}

func newEngine(a *Automaton, src input.Source, sink Sink) *engine {
	e := &engine{a: a, src: src, sink: sink}
	switch {
	case a.Empty():
		// pending stays nil forever: nothing, not even the root, is ever primed.
	case a.matchRoot:
		// Bare "$": the root value itself completes the query.
		e.pending = []int{noNext}
	default:
		// Root unconditionally activates the first real selector.
		e.pending = []int{0}
	}
	return e
}

// handleEvent is the classifier's emit callback; it is called once per
// structural event in document order.
func (e *engine) handleEvent(ev Event) error {
	switch ev.Kind {
	case EventOpenObject:
		return e.open(false, ev.Offset)
	case EventOpenArray:
		return e.open(true, ev.Offset)
	case EventCloseObject, EventCloseArray:
		return e.close()
	case EventKey:
		return e.key(ev)
	case EventColon:
		return nil
	case EventComma:
		return e.comma()
	case EventAtom:
		return e.atom(ev.Offset)
	default:
		return nil
	}
}

func (e *engine) terminalPending() bool {
	return containsInt(e.pending, noNext)
}

func (e *engine) open(isArray bool, offset int64) error {
	var inherited []int
	if len(e.frames) > 0 {
		parent := &e.frames[len(e.frames)-1]
		for _, s := range parent.alive {
			if e.a.states[s].scope == query.Descendant {
				inherited = appendUnique(inherited, s)
			}
		}
	}
	newAlive := inherited
	terminal := e.terminalPending()
	for _, p := range e.pending {
		if p != noNext {
			newAlive = appendUnique(newAlive, p)
		}
	}
	e.frames = append(e.frames, frame{isArray: isArray, alive: newAlive})
	e.pending = nil

	if terminal {
		if err := e.sink.Record(offset); err != nil {
			return err
		}
	}
	if isArray {
		// No leading comma precedes an array's first element.
		e.evaluateIndex(0)
	}
	return nil
}

func (e *engine) close() error {
	if len(e.frames) > 0 {
		e.frames = e.frames[:len(e.frames)-1]
	}
	e.pending = nil
	return nil
}

func (e *engine) key(ev Event) error {
	if len(e.frames) == 0 {
		return nil
	}
	top := &e.frames[len(e.frames)-1]
	e.pending = nil
	nameOffset, nameLen := ev.Offset+1, ev.Length-2
	for _, s := range top.alive {
		st := &e.a.states[s]
		switch st.pred {
		case predWildcard:
			e.pending = appendUnique(e.pending, st.next)
		case predName:
			// Compare the key's raw octets against st.name lazily, byte by
			// byte, through the source: no buffer is allocated and a
			// length or early-byte mismatch reads none of the trailing
			// bytes. Index-predicate states never reach here, so an
			// object key with only index-typed alive states costs no I/O
			// at all.
			matched, err := e.keyEquals(nameOffset, nameLen, st.name)
			if err != nil {
				return err
			}
			if matched {
				e.pending = appendUnique(e.pending, st.next)
			}
		}
	}
	return nil
}

// keyEquals reports whether the n raw octets at offset equal name exactly,
// without ever materializing them into a buffer.
func (e *engine) keyEquals(offset int64, n int, name string) (bool, error) {
	if n != len(name) {
		return false, nil
	}
	for i := 0; i < n; i++ {
		b, err := e.src.ByteAt(offset + int64(i))
		if err != nil {
			return false, &InputError{Offset: offset + int64(i), Err: err}
		}
		if b != name[i] {
			return false, nil
		}
	}
	return true, nil
}

func (e *engine) comma() error {
	if len(e.frames) == 0 {
		return nil
	}
	top := &e.frames[len(e.frames)-1]
	if !top.isArray {
		e.pending = nil
		return nil
	}
	top.index++
	e.evaluateIndex(top.index)
	return nil
}

func (e *engine) evaluateIndex(idx int) {
	top := &e.frames[len(e.frames)-1]
	e.pending = nil
	for _, s := range top.alive {
		st := &e.a.states[s]
		if st.matchesIndex(idx) {
			e.pending = appendUnique(e.pending, st.next)
		}
	}
}

func (e *engine) atom(offset int64) error {
	terminal := e.terminalPending()
	e.pending = nil
	if terminal {
		return e.sink.Record(offset)
	}
	return nil
}
