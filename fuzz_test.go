//go:build go1.18
// +build go1.18

package jscan

import (
	"encoding/json"
	"testing"
)

// FuzzEval checks on arbitrary byte input that the iterative and
// recursive engines agree on whether the document is accepted and on
// every match (I6), and that every reported offset lies inside the
// document on the first byte of a value (I3). Agreement with
// encoding/json is not asserted: a document accepted here but rejected
// by encoding/json is only logged.
func FuzzEval(f *testing.F) {
	seeds := []string{
		``,
		`{}`,
		`[]`,
		`null`,
		`true`,
		`false`,
		`42`,
		`-1.5e10`,
		`"a string"`,
		`{"a":1,"b":[1,2,3]}`,
		`{"a":{"b":{"c":[1,{"d":2}]}}}`,
		`[1,2,[3,[4,5]],{"a":1}]`,
		`{"a":"\"escaped\"","b":"\\\\"}`,
		`  { "a" : [ 1 , 2 ] }  `,
		`{"a":}`,
		`[1,2,`,
		`{"a" 1}`,
		`"unclosed`,
	}
	for _, s := range seeds {
		f.Add(s, `$..*`)
	}
	queries := []string{``, `$`, `$.a`, `$.a.b`, `$[0]`, `$.*`, `$..*`, `$..a`}

	f.Fuzz(func(t *testing.T, doc string, q string) {
		found := false
		for _, known := range queries {
			if known == q {
				found = true
				break
			}
		}
		if !found {
			q = `$..*`
		}

		iter, iterErr := MatchBytes(q, []byte(doc))
		rec, recErr := MatchBytes(q, []byte(doc), WithRecursiveEngine(true))

		if (iterErr == nil) != (recErr == nil) {
			t.Fatalf("doc %q query %q: iterative err=%v, recursive err=%v", doc, q, iterErr, recErr)
		}
		if iterErr == nil {
			if iter.Count != rec.Count || !int64SliceEqual(iter.Offsets, rec.Offsets) {
				t.Fatalf("doc %q query %q: iterative %+v != recursive %+v", doc, q, iter, rec)
			}
			for _, off := range iter.Offsets {
				if off < 0 || int(off) >= len(doc) {
					t.Fatalf("doc %q query %q: offset %d out of range", doc, q, off)
				}
				if !isValueStart(doc[off]) {
					t.Fatalf("doc %q query %q: offset %d (%q) is not a value start", doc, q, off, doc[off])
				}
			}
		}

		var anything any
		jsonErr := json.Unmarshal([]byte(doc), &anything)
		if iterErr == nil && jsonErr != nil {
			t.Logf("doc %q: jscan accepted but encoding/json rejected: %v", doc, jsonErr)
		}
	})
}
