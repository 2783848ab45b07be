package jscan

import (
	"github.com/jscan-dev/jscan/input"
	"github.com/jscan-dev/jscan/query"
)

// recursiveEngine is the second, independently constructed evaluation
// strategy named in §4.3: the frame stack of engine.go is replaced by the
// host call stack, with the alive-state set and pending register threaded
// through as ordinary parameters and return values rather than kept in a
// shared mutable frame. It parses and matches in the same pass, the way
// the classifier's own recursive-descent value() does, instead of
// consuming a separate event stream.
//
// It exists to cross-check engine.go: the two must agree on every match,
// and disagreement between them is a bug in one or the other rather than
// a matter of interpretation.
type recursiveEngine struct {
	a        *Automaton
	cur      *cursor
	sink     Sink
	depth    int
	maxDepth int
}

func evalRecursive(a *Automaton, src input.Source, sink Sink, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	e := &recursiveEngine{a: a, cur: newCursor(src, defaultBlockSize), sink: sink, maxDepth: maxDepth}
	return e.run()
}

func (e *recursiveEngine) run() error {
	if err := e.skipWhitespace(); err != nil {
		return err
	}
	if _, ok, err := e.peekCheck(); err != nil {
		return err
	} else if !ok {
		return nil
	}

	var pending []int
	switch {
	case e.a.Empty():
	case e.a.matchRoot:
		pending = []int{noNext}
	default:
		pending = []int{0}
	}

	if err := e.value(pending, nil); err != nil {
		return err
	}

	if err := e.skipWhitespace(); err != nil {
		return err
	}
	if _, ok, err := e.peekCheck(); err != nil {
		return err
	} else if ok {
		return &MalformedJSONError{Offset: e.cur.offset(), Reason: "trailing data after root value"}
	}
	return nil
}

func (e *recursiveEngine) peekCheck() (byte, bool, error) {
	b, ok, err := e.cur.read()
	if err != nil || !ok {
		return 0, ok, err
	}
	e.cur.pos--
	return b, true, nil
}

func (e *recursiveEngine) skipWhitespace() error {
	for {
		b, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !isJSONWhitespace(b) {
			e.cur.pos--
			return nil
		}
	}
}

// value consumes one JSON value. pending is the set of automaton
// positions (possibly including noNext) primed for this value by its
// enclosing key or index; parentAlive is the alive-state set of the
// enclosing frame, consulted only to inherit descendant-scoped states if
// this value turns out to be a container.
func (e *recursiveEngine) value(pending []int, parentAlive []int) error {
	offset := e.cur.offset()
	b, ok, err := e.cur.read()
	if err != nil {
		return err
	}
	if !ok {
		return &MalformedJSONError{Offset: offset, Reason: "unexpected end of input, expected a value"}
	}

	switch {
	case b == '{':
		return e.object(offset, pending, parentAlive)
	case b == '[':
		return e.array(offset, pending, parentAlive)
	case b == '"':
		if _, err := e.skipStringBody(); err != nil {
			return err
		}
		return e.recordIfTerminal(pending, offset)
	case b == 't':
		return e.literal(offset, "rue", pending)
	case b == 'f':
		return e.literal(offset, "alse", pending)
	case b == 'n':
		return e.literal(offset, "ull", pending)
	case isNumberStart(b):
		return e.number(offset, pending)
	default:
		return &MalformedJSONError{Offset: offset, Reason: "byte is not a valid JSON value start"}
	}
}

func (e *recursiveEngine) recordIfTerminal(pending []int, offset int64) error {
	if containsInt(pending, noNext) {
		return e.sink.Record(offset)
	}
	return nil
}

func (e *recursiveEngine) enter(offset int64) error {
	e.depth++
	if e.depth > e.maxDepth {
		return &DepthLimitExceededError{Offset: offset, Limit: e.maxDepth}
	}
	return nil
}

// alive computes the state set for a freshly opened container, given what
// was pending for it as a value and the alive set of its parent frame.
func (e *recursiveEngine) alive(pending, parentAlive []int) []int {
	var inherited []int
	for _, s := range parentAlive {
		if e.a.states[s].scope == query.Descendant {
			inherited = appendUnique(inherited, s)
		}
	}
	out := inherited
	for _, p := range pending {
		if p != noNext {
			out = appendUnique(out, p)
		}
	}
	return out
}

func (e *recursiveEngine) object(offset int64, pending, parentAlive []int) error {
	if err := e.enter(offset); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	alive := e.alive(pending, parentAlive)
	if err := e.recordIfTerminal(pending, offset); err != nil {
		return err
	}

	if err := e.skipWhitespace(); err != nil {
		return err
	}
	b, ok, err := e.cur.read()
	if err != nil {
		return err
	}
	if ok && b == '}' {
		return nil
	}
	if !ok {
		return &MalformedJSONError{Offset: e.cur.offset(), Reason: "unclosed object"}
	}
	e.cur.pos--

	for {
		if err := e.skipWhitespace(); err != nil {
			return err
		}
		kb, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok || kb != '"' {
			return &MalformedJSONError{Offset: e.cur.offset(), Reason: "expected a key"}
		}
		literal, _, err := e.skipStringBodyCollect()
		if err != nil {
			return err
		}

		if err := e.skipWhitespace(); err != nil {
			return err
		}
		cb, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok || cb != ':' {
			return &MalformedJSONError{Offset: e.cur.offset(), Reason: "expected ':' after key"}
		}

		if err := e.skipWhitespace(); err != nil {
			return err
		}
		var childPending []int
		for _, s := range alive {
			st := &e.a.states[s]
			if st.matchesName(literal) {
				childPending = appendUnique(childPending, st.next)
			}
		}
		if err := e.value(childPending, alive); err != nil {
			return err
		}

		if err := e.skipWhitespace(); err != nil {
			return err
		}
		nb, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok {
			return &MalformedJSONError{Offset: e.cur.offset(), Reason: "unclosed object"}
		}
		switch nb {
		case ',':
			continue
		case '}':
			return nil
		default:
			return &MalformedJSONError{Offset: e.cur.offset() - 1, Reason: "expected ',' or '}'"}
		}
	}
}

func (e *recursiveEngine) array(offset int64, pending, parentAlive []int) error {
	if err := e.enter(offset); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	alive := e.alive(pending, parentAlive)
	if err := e.recordIfTerminal(pending, offset); err != nil {
		return err
	}

	if err := e.skipWhitespace(); err != nil {
		return err
	}
	b, ok, err := e.cur.read()
	if err != nil {
		return err
	}
	if ok && b == ']' {
		return nil
	}
	if !ok {
		return &MalformedJSONError{Offset: e.cur.offset(), Reason: "unclosed array"}
	}
	e.cur.pos--

	idx := 0
	for {
		childPending := e.indexPending(alive, idx)
		if err := e.value(childPending, alive); err != nil {
			return err
		}

		if err := e.skipWhitespace(); err != nil {
			return err
		}
		nb, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok {
			return &MalformedJSONError{Offset: e.cur.offset(), Reason: "unclosed array"}
		}
		switch nb {
		case ',':
			idx++
		case ']':
			return nil
		default:
			return &MalformedJSONError{Offset: e.cur.offset() - 1, Reason: "expected ',' or ']'"}
		}
	}
}

func (e *recursiveEngine) indexPending(alive []int, idx int) []int {
	var out []int
	for _, s := range alive {
		st := &e.a.states[s]
		if st.matchesIndex(idx) {
			out = appendUnique(out, st.next)
		}
	}
	return out
}

func (e *recursiveEngine) literal(offset int64, rest string, pending []int) error {
	for i := 0; i < len(rest); i++ {
		b, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok || b != rest[i] {
			return &MalformedJSONError{Offset: offset, Reason: "invalid literal"}
		}
	}
	return e.recordIfTerminal(pending, offset)
}

func (e *recursiveEngine) number(offset int64, pending []int) error {
	for {
		b, ok, err := e.cur.read()
		if err != nil {
			return err
		}
		if !ok || !isNumberByte(b) {
			if ok {
				e.cur.pos--
			}
			return e.recordIfTerminal(pending, offset)
		}
	}
}

// skipStringBody consumes a string body (opening quote already read)
// without retaining its content.
func (e *recursiveEngine) skipStringBody() (int, error) {
	_, n, err := e.skipStringBodyCollect()
	return n, err
}

// skipStringBodyCollect consumes a string body and also returns its exact
// octet content, used for key literals that must be compared against name
// predicates without Unicode normalization.
func (e *recursiveEngine) skipStringBodyCollect() (string, int, error) {
	start := e.cur.offset()
	var buf []byte
	backslashRun := 0
	for {
		b, ok, err := e.cur.read()
		if err != nil {
			return "", 0, err
		}
		if !ok {
			return "", 0, &MalformedJSONError{Offset: start - 1, Reason: "unclosed string"}
		}
		if b == '\\' {
			backslashRun++
			buf = append(buf, b)
			continue
		}
		if b == '"' && backslashRun%2 == 0 {
			return string(buf), len(buf), nil
		}
		backslashRun = 0
		buf = append(buf, b)
	}
}
