// Package jscan implements a streaming JSONPath matcher: it walks raw
// JSON bytes once, classifying structure as it goes, and reports the
// byte offsets of values selected by a compiled query without ever
// materializing a DOM.
package jscan

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jscan-dev/jscan/input"
	"github.com/jscan-dev/jscan/query"
)

// Result is the outcome of evaluating a query against one JSON document.
type Result struct {
	// Count is the number of values the query selected.
	Count uint64
	// Offsets holds the absolute byte offset of each match's first byte,
	// in document order. Nil when only a count was requested.
	Offsets []int64
}

func runEval(a *Automaton, src input.Source, cfg evalConfig, wantOffsets bool) (Result, error) {
	var sink Sink
	if wantOffsets {
		sink = NewIndexSink()
	} else {
		sink = NewCountSink()
	}

	var err error
	if cfg.recursive {
		err = evalRecursive(a, src, sink, cfg.maxDepth)
	} else {
		e := newEngine(a, src, sink)
		c := newClassifier(src, e.handleEvent)
		c.maxDepth = cfg.maxDepth
		err = c.run()
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Count: sink.Count()}
	if idx, ok := sink.(*IndexSink); ok {
		res.Offsets = idx.Offsets()
	}
	return res, nil
}

// Count evaluates q against src and reports only how many values it
// selects; it never allocates proportional to the match count.
func Count(q string, src input.Source, opts ...EvalOption) (uint64, error) {
	_, a, err := compileQuery(q)
	if err != nil {
		return 0, err
	}
	cfg := defaultEvalConfig()
	for _, o := range opts {
		o(&cfg)
	}
	res, err := runEval(a, src, cfg, false)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// Match evaluates q against src and returns the offsets of every value it
// selects, in document order.
func Match(q string, src input.Source, opts ...EvalOption) (Result, error) {
	_, a, err := compileQuery(q)
	if err != nil {
		return Result{}, err
	}
	cfg := defaultEvalConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return runEval(a, src, cfg, true)
}

// CountBytes is a convenience wrapper around Count for an in-memory
// buffer, avoiding the caller having to construct an input.Source.
func CountBytes(q string, b []byte, opts ...EvalOption) (uint64, error) {
	src := input.NewOwned(b)
	defer src.Close()
	return Count(q, src, opts...)
}

// MatchBytes is the in-memory convenience wrapper around Match.
func MatchBytes(q string, b []byte, opts ...EvalOption) (Result, error) {
	src := input.NewOwned(b)
	defer src.Close()
	return Match(q, src, opts...)
}

func compileQuery(q string) (query.Query, *Automaton, error) {
	parsed, err := query.Parse(q)
	if err != nil {
		return query.Query{}, nil, err
	}
	a, err := Compile(parsed)
	if err != nil {
		return query.Query{}, nil, err
	}
	return parsed, a, nil
}

// NDResult pairs the outcome for one record of a newline-delimited stream
// with its index.
type NDResult struct {
	Index  int
	Result Result
	Error  error
}

// EvalND evaluates q independently against each line of newline-delimited
// JSON in b, returning one Result per non-blank line in order. Offsets in
// each Result are relative to the start of that line, not the buffer.
func EvalND(q string, b []byte, wantOffsets bool, opts ...EvalOption) ([]NDResult, error) {
	_, a, err := compileQuery(q)
	if err != nil {
		return nil, err
	}
	cfg := defaultEvalConfig()
	for _, o := range opts {
		o(&cfg)
	}

	var out []NDResult
	idx := 0
	start := 0
	for i := 0; i <= len(b); i++ {
		if i < len(b) && b[i] != '\n' {
			continue
		}
		line := b[start:i]
		start = i + 1
		if len(trimSpace(line)) == 0 {
			continue
		}
		src := input.NewOwned(line)
		res, evalErr := runEval(a, src, cfg, wantOffsets)
		src.Close()
		out = append(out, NDResult{Index: idx, Result: res, Error: evalErr})
		idx++
	}
	return out, nil
}

func trimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isJSONWhitespace(b[i]) {
		i++
	}
	for j > i && isJSONWhitespace(b[j-1]) {
		j--
	}
	return b[i:j]
}

// StreamResult is one record's outcome delivered by EvalStream.
type StreamResult struct {
	Index  int
	Result Result
	Error  error
}

// EvalStream evaluates q against a newline-delimited JSON reader, line by
// line, delivering one StreamResult per record to res. It closes res when
// r is exhausted, a read error occurs, or a record fails to evaluate (that
// record's result, carrying the error, is sent first); a non-nil Error on the final
// delivered result distinguishes a real failure from plain io.EOF (not
// sent). The caller is expected to range over res until it closes,
// mirroring the teacher's channel-based ND streaming entry point.
func EvalStream(q string, r io.Reader, wantOffsets bool, res chan<- StreamResult, opts ...EvalOption) {
	_, a, err := compileQuery(q)
	if err != nil {
		go func() {
			defer close(res)
			res <- StreamResult{Error: fmt.Errorf("jscan: compiling query: %w", err)}
		}()
		return
	}
	cfg := defaultEvalConfig()
	for _, o := range opts {
		o(&cfg)
	}

	go func() {
		defer close(res)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
		idx := 0
		for sc.Scan() {
			line := sc.Bytes()
			if len(trimSpace(line)) == 0 {
				continue
			}
			cp := make([]byte, len(line))
			copy(cp, line)
			src := input.NewOwned(cp)
			result, evalErr := runEval(a, src, cfg, wantOffsets)
			src.Close()
			res <- StreamResult{Index: idx, Result: result, Error: evalErr}
			if evalErr != nil {
				return
			}
			idx++
		}
		if err := sc.Err(); err != nil {
			res <- StreamResult{Index: idx, Error: fmt.Errorf("jscan: reading stream: %w", err)}
		}
	}()
}
